package main

import (
	"flag"
	"fmt"
	"log"

	"aegisd/internal/config"
	"aegisd/internal/database"
)

func main() {
	var configPath, migrationsPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to config file")
	flag.StringVar(&migrationsPath, "migrations", "migrations", "Path to migrations directory")
	flag.Parse()

	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("database_url is not configured")
	}

	if err := database.Migrate(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	fmt.Println("Migrations applied")
}
