package database

import (
	"context"
	"strings"
	"time"

	"github.com/owndesign/owndesign/internal/config"
)

type client[T any] struct {
	executor       QueryExecutor[T]
	queryTimeout   time.Duration
	executeTimeout time.Duration
}

// NewClient creates a new type-safe database client
func NewClient[T any](conn DBConnection, cfg config.Provider, opts ...ClientOption[T]) (Client[T], error) {
	if conn == nil {
		return nil, NewDBError(ErrInvalidInput, "connection cannot be nil")
	}
	if cfg == nil {
		return nil, NewDBError(ErrInvalidInput, "config provider cannot be nil")
	}

	queryTimeout := cfg.GetDBQueryTimeout()
	if queryTimeout <= 0 {
		return nil, NewDBError(ErrInvalidInput, "DB_QUERY_TIMEOUT must be a positive duration")
	}
	executeTimeout := cfg.GetDBExecuteTimeout()
	if executeTimeout <= 0 {
		return nil, NewDBError(ErrInvalidInput, "DB_EXECUTE_TIMEOUT must be a positive duration")
	}

	c := &client[T]{
		executor:       NewSurrealExecutor[T](conn),
		queryTimeout:   queryTimeout,
		executeTimeout: executeTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Query implements the Client interface
func (c *client[T]) Query(ctx context.Context, query string, params map[string]any) ([]T, error) {
	ctx, cancel := getTimeoutFromContext(ctx, c.queryTimeout, ContextKeyQueryTimeout)
	defer cancel()
	return c.executor.Query(ctx, query, params)
}

// QueryOne implements the Client interface
func (c *client[T]) QueryOne(ctx context.Context, query string, params map[string]any) (*T, error) {
	ctx, cancel := getTimeoutFromContext(ctx, c.queryTimeout, ContextKeyQueryTimeout)
	defer cancel()
	return c.executor.QueryOne(ctx, query, params)
}

// Execute implements the Client interface
func (c *client[T]) Execute(ctx context.Context, query string, params map[string]any) error {
	ctx, cancel := getTimeoutFromContext(ctx, c.executeTimeout, ContextKeyExecuteTimeout)
	defer cancel()
	return c.executor.Execute(ctx, query, params)
}

// Create implements the Client interface
func (c *client[T]) Create(ctx context.Context, table string, data any) (*T, error) {
	if table == "" {
		return nil, NewDBError(ErrInvalidInput, "table cannot be empty")
	}
	if data == nil {
		return nil, NewDBError(ErrInvalidInput, "data cannot be nil")
	}

	ctx, cancel := getTimeoutFromContext(ctx, c.executeTimeout, ContextKeyExecuteTimeout)
	defer cancel()

	query := "CREATE type::table($table) CONTENT $data"
	result, err := c.executor.QueryOne(ctx, query, map[string]any{"table": table, "data": data})
	if err != nil {
		return nil, NewDBError(err, "create operation failed")
	}
	return result, nil
}

// Select implements the Client interface
func (c *client[T]) Select(ctx context.Context, id string) (*T, error) {
	params, err := idParams(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := getTimeoutFromContext(ctx, c.queryTimeout, ContextKeyQueryTimeout)
	defer cancel()

	query := "SELECT * FROM type::thing($tb, $key)"
	result, err := c.executor.QueryOne(ctx, query, params)
	if err != nil {
		return nil, NewDBError(err, "select operation failed")
	}
	if result == nil {
		return nil, NewDBError(ErrNotFound, "record not found")
	}
	return result, nil
}

// Update implements the Client interface
func (c *client[T]) Update(ctx context.Context, id string, data any) (*T, error) {
	params, err := idParams(id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, NewDBError(ErrInvalidInput, "data cannot be nil")
	}

	ctx, cancel := getTimeoutFromContext(ctx, c.executeTimeout, ContextKeyExecuteTimeout)
	defer cancel()

	// UPDATE does not create missing records, so an empty result means not found.
	query := "UPDATE type::thing($tb, $key) MERGE $data"
	result, err := c.executor.QueryOne(ctx, query, withData(params, data))
	if err != nil {
		return nil, NewDBError(err, "update operation failed")
	}
	if result == nil {
		return nil, NewDBError(ErrNotFound, "record not found")
	}
	return result, nil
}

// Upsert implements the Client interface
func (c *client[T]) Upsert(ctx context.Context, id string, data any) (*T, error) {
	params, err := idParams(id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, NewDBError(ErrInvalidInput, "data cannot be nil")
	}

	ctx, cancel := getTimeoutFromContext(ctx, c.executeTimeout, ContextKeyExecuteTimeout)
	defer cancel()

	query := "UPSERT type::thing($tb, $key) MERGE $data"
	result, err := c.executor.QueryOne(ctx, query, withData(params, data))
	if err != nil {
		return nil, NewDBError(err, "upsert operation failed")
	}
	if result == nil {
		return nil, NewDBError(ErrNotFound, "record not found")
	}
	return result, nil
}

// Delete implements the Client interface
func (c *client[T]) Delete(ctx context.Context, id string) error {
	params, err := idParams(id)
	if err != nil {
		return err
	}

	ctx, cancel := getTimeoutFromContext(ctx, c.executeTimeout, ContextKeyExecuteTimeout)
	defer cancel()

	return c.executor.Execute(ctx, "DELETE type::thing($tb, $key)", params)
}

// idParams splits a full record ID into the $tb and $key query parameters.
func idParams(id string) (map[string]any, error) {
	table, key, ok := strings.Cut(id, ":")
	if id == "" || !ok || table == "" || key == "" {
		return nil, NewDBError(ErrInvalidID, "record id must look like table:key").WithParams(map[string]any{"id": id})
	}
	key = strings.TrimSuffix(strings.TrimPrefix(key, "⟨"), "⟩")
	return map[string]any{"tb": table, "key": key}, nil
}

func withData(params map[string]any, data any) map[string]any {
	params["data"] = data
	return params
}
