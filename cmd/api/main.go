package main

import (
	"context"
	"filmhub/proj/internal/config"
	"filmhub/proj/internal/lib/logger"
	"filmhub/proj/internal/storage/postgres"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	flag.Parse()

	// .env is optional, real environment variables win
	_ = godotenv.Load()
	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug, cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	storage, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		log.Error("failed to connect to database", "errMsg", err.Error())
		os.Exit(1)
	}
	defer storage.Close()
	log.Info("database connection established")

	app := NewApplication(cfg, log, storage)
	if err := app.serve(); err != nil {
		log.Error("shutting down the server", "reason", err.Error())
		os.Exit(1)
	}
}
