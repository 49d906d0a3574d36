package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/ticketflow-dev/ticketflow/db"
	"github.com/ticketflow-dev/ticketflow/internal/auth"
	"github.com/ticketflow-dev/ticketflow/internal/config"
	"github.com/ticketflow-dev/ticketflow/internal/logging"
	"github.com/ticketflow-dev/ticketflow/internal/router"
	"github.com/ticketflow-dev/ticketflow/internal/scheduler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("No .env file loaded: %v", err)
	}

	cfg := config.Load()
	logging.Init(cfg.LogFile)

	if err := auth.InitJWTSecret(); err != nil {
		logrus.Fatalf("Failed to initialize JWT: %v", err)
	}

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logrus.Fatalf("Failed to create upload directory: %v", err)
	}

	scheduler.Initialize()
	defer scheduler.Shutdown()

	r := router.NewRouter()

	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
