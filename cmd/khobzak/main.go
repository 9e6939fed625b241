package main

import (
	"context"
	"flag"
	"os"

	"github.com/yasir870/khobzak-delivery-system/config"
	"github.com/yasir870/khobzak-delivery-system/internal/app"
	"github.com/yasir870/khobzak-delivery-system/pkg/logger"
)

func main() {
	flag.Parse()

	ctx := context.Background()
	log := logger.InitLogger("", logger.LevelDebug)

	cfg, err := config.New()
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		os.Exit(1)
	}

	log = logger.InitLogger(string(cfg.Mode), logger.LevelDebug)

	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
