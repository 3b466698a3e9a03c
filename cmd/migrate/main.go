package main

import (
	"auction_system/internal/config" // Custom import path (Config)
	"auction_system/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logging
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("%v", err) // Log fatal error if migration fails
	}
}
