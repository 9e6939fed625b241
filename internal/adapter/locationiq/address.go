package locationiq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	wrap "github.com/yasir870/khobzak-delivery-system/pkg/logger/wrapper"
)

var ErrLocationNotFound = fmt.Errorf("location not found")

var domain = "https://us1.locationiq.com"

type Client struct {
	apiKey string
}

func New(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
	}
}

type addressPayload struct {
	Address string `json:"display_name"`
}

// GetAddress reverse-geocodes a coordinate into a display address.
func (c *Client) GetAddress(ctx context.Context, longitude, latitude float64) (string, error) {
	const op = "locationiq.Client.GetAddress"

	reqURL := fmt.Sprintf("%s/v1/reverse?key=%s&lat=%f&lon=%f&format=json", domain, c.apiKey, latitude, longitude)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return "", wrap.Error(ctx, fmt.Errorf("%s: failed to make request to LocationIQ: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return "", wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var payload addressPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		ctx = wrap.WithAction(ctx, "decode_address_payload")
		return "", wrap.Error(ctx, fmt.Errorf("%s: failed to decode data from LocationIQ response: %w", op, err))
	}

	return payload.Address, nil
}

// GetLocation forward-geocodes an address into longitude and latitude.
func (c *Client) GetLocation(ctx context.Context, address string) (float64, float64, error) {
	const op = "locationiq.Client.GetLocation"
	ctx = wrap.WithAction(ctx, "locationiq_get_location")

	reqURL := fmt.Sprintf("%s/v1/search?key=%s&q=%s&format=json", domain, c.apiKey, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: failed to make request to LocationIQ: %w", op, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: unexpected response status %d", op, resp.StatusCode))
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: failed to decode data from LocationIQ response: %w", op, err))
	}

	if len(results) == 0 {
		return 0, 0, wrap.Error(ctx, ErrLocationNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: failed to parse latitude: %w", op, err))
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, wrap.Error(ctx, fmt.Errorf("%s: failed to parse longitude: %w", op, err))
	}

	return lon, lat, nil
}
