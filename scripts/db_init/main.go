package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rudybnb/workforce-api/internal/config"
	"github.com/rudybnb/workforce-api/internal/db"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Driver() != config.DriverSQLite {
		fmt.Fprintln(os.Stderr, "The Postgres schema is managed by the bot platform; db_init only initializes the local SQLite file.")
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.Database.Driver(), cfg.Database.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database initialized successfully.")
}
