package main

import (
	"context"
	"fmt"
	"os"

	"vps-checkout/internal/config"
	"vps-checkout/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.ApplySchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Schema creation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Schema applied to database: %s\n", cfg.Database.Database)
}
