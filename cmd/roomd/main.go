package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/database"
	"github.com/lawnchairsociety/roomforge/internal/generator"
	"github.com/lawnchairsociety/roomforge/internal/logger"
	"github.com/lawnchairsociety/roomforge/internal/server"
)

func main() {
	configFile := flag.String("config", "data/roomforge.yaml", "Path to generator config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	addr := flag.String("addr", "", "Listen address (default: server.address from config)")
	archive := flag.Bool("archive", true, "Archive every generated room")
	flag.Parse()

	_ = godotenv.Load(".env")

	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logger.Initialize(logConfig)

	logger.Info("Starting roomforge daemon")

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}

	srv := server.NewServer(cfg)

	cache, err := generator.NewCacheFromConfig(cfg.Archive)
	if err != nil {
		log.Fatalf("Failed to create cache: %v", err)
	}
	defer cache.Close()
	srv.SetCache(cache)

	if *archive {
		db, err := database.OpenWithConfig(database.ConfigFromArchive(cfg.Archive))
		if err != nil {
			log.Fatalf("Failed to open archive: %v", err)
		}
		defer db.Close()
		srv.SetArchive(db)
		logger.Info("Room archive initialized", "driver", cfg.Archive.Driver)
	}

	origins := cfg.Server.WebSocket.AllowedOrigins
	if len(origins) == 0 {
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	} else if len(origins) == 1 && origins[0] == "*" {
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("WebSocket CORS policy", "allowed_origins", origins)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("WebSocket server error: %v", err)
		}
	}()

	logger.Info("Press Ctrl+C to shutdown")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown incomplete", "error", err)
	}
	logger.Info("Server stopped")
}
