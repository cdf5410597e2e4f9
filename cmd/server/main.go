package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tower-survival/server/internal/app"
	"tower-survival/server/internal/config"
	"tower-survival/server/internal/telemetry"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to a YAML configuration file")
	flag.Parse()

	logger := telemetry.WrapLogger(log.Default())
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	cfg = cfg.ApplyEnv(os.LookupEnv, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, app.Config{Logger: logger, Server: cfg}); err != nil {
		log.Fatalf("%v", err)
	}
}
