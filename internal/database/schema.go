package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

//go:embed schema.surql
var schema string

// Schema returns the SurrealQL that defines the application's tables.
func Schema() string {
	return schema
}

// ApplySchema defines the tables, indexes and the record access method. Every
// statement is idempotent.
func ApplySchema(ctx context.Context, conn DBConnection) error {
	return conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		if _, err := surrealdb.Query[any](ctx, db, schema, nil); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		return nil
	})
}
