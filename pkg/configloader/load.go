package configloader

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrNotStructPointer = errors.New("config destination must be a non-nil struct pointer")

// Load fills cfg from an optional YAML file plus the process environment.
//
// The YAML file is flattened into environment-style keys (nested sections are
// joined with underscores and upper-cased) and exported via os.Setenv for any
// variable not already set, so the environment always wins. Afterwards struct
// fields tagged with `env:"NAME"` are populated from the environment, falling
// back to the `default:"..."` tag when the variable is absent.
func Load(filepath string, cfg any) error {
	if filepath != "" {
		if err := exportYamlFile(filepath); err != nil {
			return err
		}
	}
	return parseEnv(cfg)
}

// exportYamlFile reads a YAML file and loads variables into the environment.
func exportYamlFile(filepath string) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("could not read YAML file: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("could not parse YAML file: %w", err)
	}

	flat := map[string]string{}
	flatten("", doc, flat)

	for key, value := range flat {
		// Support ${VAR:-default} substitution syntax inside values.
		value = substituteEnv(value)

		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("could not set env var %s: %w", key, err)
			}
		}
	}

	return nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for key, value := range node {
		full := strings.ToUpper(key)
		if prefix != "" {
			full = prefix + "_" + full
		}

		switch v := value.(type) {
		case map[string]any:
			flatten(full, v, out)
		case nil:
			// empty values do not represent environment variables
		default:
			out[full] = fmt.Sprintf("%v", v)
		}
	}
}

func substituteEnv(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}
	inner := value[2 : len(value)-1]
	name, def, found := strings.Cut(inner, ":-")
	if !found {
		return value
	}
	if env := os.Getenv(strings.TrimSpace(name)); env != "" {
		return env
	}
	return strings.TrimSpace(def)
}

// parseEnv walks the struct and fills fields from `env`/`default` tags.
func parseEnv(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return ErrNotStructPointer
	}
	return parseStruct(v.Elem())
}

func parseStruct(v reflect.Value) error {
	if v.Kind() != reflect.Struct {
		return ErrNotStructPointer
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		// Recurse into nested config sections.
		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Duration(0)) {
			if _, tagged := t.Field(i).Tag.Lookup("env"); !tagged {
				if err := parseStruct(field); err != nil {
					return err
				}
				continue
			}
		}

		envName, ok := t.Field(i).Tag.Lookup("env")
		if !ok {
			continue
		}

		raw := os.Getenv(envName)
		if raw == "" {
			raw = t.Field(i).Tag.Get("default")
		}
		if raw == "" {
			continue
		}

		if err := setField(field, raw); err != nil {
			return fmt.Errorf("invalid value for %s: %w", envName, err)
		}
	}

	return nil
}

func setField(field reflect.Value, raw string) error {
	// time.Duration is an int64 underneath, handle it first.
	if field.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}

	return nil
}
