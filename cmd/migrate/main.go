// This file is used to run database schema migrations
// How to run:
// go run cmd/migrate/main.go
package main

import (
	"log"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/strataworks/cumulus/config"
	"github.com/strataworks/cumulus/internal/db"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(config.GetEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	database, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", db.DefaultHost),
		User:     config.GetEnv("DB_USER", db.DefaultUser),
		Password: config.GetEnv("DB_PASSWORD", db.DefaultPassword),
		DBName:   config.GetEnv("DB_NAME", db.DefaultDBName),
		Port:     dbPort,
	})
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations complete")
}
