// cmd/server/main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"homefinder/internal/app"
	"homefinder/internal/config"
	"homefinder/internal/server"
	"homefinder/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger := utils.NewLogger(utils.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		log.Fatal("Failed to initialize:", err)
	}
	defer a.Close()

	srv := server.New(a)
	if err := srv.Start(ctx); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
