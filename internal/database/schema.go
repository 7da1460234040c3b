package database

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates all tables and indexes if they do not exist yet.
// Statements are idempotent, so running this on every startup is safe.
func EnsureSchema(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure database schema: %w", err)
	}
	log.Println("Database schema verified")
	return nil
}
