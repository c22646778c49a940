package database

import (
	"context"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// surrealExecutor runs queries on a managed connection and decodes the first
// statement's result into T.
type surrealExecutor[T any] struct {
	conn DBConnection
}

// NewSurrealExecutor creates an executor backed by conn.
func NewSurrealExecutor[T any](conn DBConnection) QueryExecutor[T] {
	return &surrealExecutor[T]{conn: conn}
}

func (e *surrealExecutor[T]) Query(ctx context.Context, query string, params map[string]any) ([]T, error) {
	var out []T
	err := e.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		results, err := surrealdb.Query[[]T](ctx, db, query, params)
		if err != nil {
			return err
		}
		if results == nil || len(*results) == 0 {
			out = nil
			return nil
		}
		out = (*results)[0].Result
		return nil
	})
	if err != nil {
		return nil, NewDBError(err, "query execution failed").WithQuery(query)
	}
	return out, nil
}

func (e *surrealExecutor[T]) QueryOne(ctx context.Context, query string, params map[string]any) (*T, error) {
	// CREATE, UPDATE and DELETE statements do not accept LIMIT.
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") && !hasLimitClause(query) {
		query += " LIMIT 1"
	}

	results, err := e.Query(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

func (e *surrealExecutor[T]) Execute(ctx context.Context, query string, params map[string]any) error {
	err := e.conn.WithConnection(ctx, func(db *surrealdb.DB) error {
		_, err := surrealdb.Query[any](ctx, db, query, params)
		return err
	})
	if err != nil {
		return NewDBError(err, "query execution failed").WithQuery(query)
	}
	return nil
}

func hasLimitClause(query string) bool {
	query = " " + strings.ToUpper(query) + " "
	return strings.Contains(query, " LIMIT ")
}
