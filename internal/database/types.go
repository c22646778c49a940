package database

import (
	"context"
	"time"

	"github.com/surrealdb/surrealdb.go"
)

// DBConnection is a managed database connection. Stores run their queries
// through WithConnection so a dropped socket is re-established transparently.
type DBConnection interface {
	DB() (*surrealdb.DB, error)
	WithConnection(ctx context.Context, fn func(*surrealdb.DB) error) error
	Close(ctx context.Context) error
	IsHealthy() bool
	StartMonitoring()
	Connect(ctx context.Context) error
	GetDBNs() string
	GetDBDb() string
	GetDBQueryTimeout() time.Duration
	GetDBExecuteTimeout() time.Duration
}

// Client provides type-safe operations for records decoded into T.
type Client[T any] interface {
	// Create inserts a new record into table. data may be a struct or a map.
	Create(ctx context.Context, table string, data any) (*T, error)

	// Select retrieves a record by its full ID (e.g., "profile:abc").
	// Returns ErrNotFound if no record exists with the given ID.
	Select(ctx context.Context, id string) (*T, error)

	// Update merges data into the record with the given ID.
	// Returns ErrNotFound if no record exists with the given ID.
	Update(ctx context.Context, id string, data any) (*T, error)

	// Upsert merges data into the record with the given ID, creating it when absent.
	Upsert(ctx context.Context, id string, data any) (*T, error)

	// Delete removes the record with the given ID.
	Delete(ctx context.Context, id string) error

	// Query executes a raw query and returns multiple results.
	Query(ctx context.Context, query string, params map[string]any) ([]T, error)

	// QueryOne executes a raw query and returns a single result.
	// Returns (nil, nil) if no results are found.
	QueryOne(ctx context.Context, query string, params map[string]any) (*T, error)

	// Execute runs a query whose rows are not needed.
	Execute(ctx context.Context, query string, params map[string]any) error
}

// QueryExecutor runs queries on behalf of a Client.
type QueryExecutor[T any] interface {
	Query(ctx context.Context, query string, params map[string]any) ([]T, error)
	QueryOne(ctx context.Context, query string, params map[string]any) (*T, error)
	Execute(ctx context.Context, query string, params map[string]any) error
}

// ClientOption configures a Client.
type ClientOption[T any] func(*client[T])

// WithExecutor configures the client to use a custom QueryExecutor.
// Tests use it to run stores without a database.
func WithExecutor[T any](executor QueryExecutor[T]) ClientOption[T] {
	return func(c *client[T]) {
		c.executor = executor
	}
}
