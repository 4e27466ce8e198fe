// Command resetdb clears all dormitory data from the Postgres database while
// keeping user accounts. Intended for test environments.
package main

import (
	"context"
	"fmt"
	"log"

	"dorm-backend/internal/config"
	"dorm-backend/internal/db"
)

// child tables first
var tables = []string{"bills", "assets", "guests", "students", "rooms", "buildings"}

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Dormitory Data for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL buildings, rooms, occupants, assets and bills.")
	fmt.Println("User accounts are kept.")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	cfg := config.Load()
	if cfg.Storage.Driver != "postgres" {
		log.Fatalf("storage.driver is %q, resetdb only handles postgres", cfg.Storage.Driver)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range tables {
		tag, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			log.Fatalf("Failed to clear %s: %v", table, err)
		}
		fmt.Printf("  cleared %s (%d rows)\n", table, tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit transaction: %v", err)
	}
	fmt.Println()
	fmt.Println("Database reset successful.")
}
