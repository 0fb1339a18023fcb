// Package main is the entry point for the melodygen API server
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/james-see/melodygen/pkg/api"
	"github.com/james-see/melodygen/pkg/config"
)

func main() {
	port := flag.Int("port", 0, "Server port (default $PORT or 8080)")
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}
	cfg := config.Load()
	if *port != 0 {
		cfg.Port = *port
	}

	var handler slog.Handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	logger.Info("swagger docs available", "url", fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.Port))

	if err := api.StartServer(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
