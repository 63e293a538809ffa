package main

import (
	"mintro/internal/config"
	"mintro/internal/db"
)

// Runs schema migration and reference-data seeding.
func main() {
	cfg := config.LoadConfig()
	db.Migrate(cfg.DSN())
}
