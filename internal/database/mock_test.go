package database

import (
	"context"
	"time"

	"github.com/owndesign/owndesign/internal/config"
)

type recordedQuery struct {
	query  string
	params map[string]any
}

// mockExecutor returns canned results and records every query it receives.
type mockExecutor[T any] struct {
	queries []recordedQuery
	rows    []T
	one     *T
	err     error
}

func (m *mockExecutor[T]) Query(ctx context.Context, query string, params map[string]any) ([]T, error) {
	m.queries = append(m.queries, recordedQuery{query, params})
	return m.rows, m.err
}

func (m *mockExecutor[T]) QueryOne(ctx context.Context, query string, params map[string]any) (*T, error) {
	m.queries = append(m.queries, recordedQuery{query, params})
	return m.one, m.err
}

func (m *mockExecutor[T]) Execute(ctx context.Context, query string, params map[string]any) error {
	m.queries = append(m.queries, recordedQuery{query, params})
	return m.err
}

func (m *mockExecutor[T]) last() recordedQuery {
	if len(m.queries) == 0 {
		return recordedQuery{}
	}
	return m.queries[len(m.queries)-1]
}

func testConfig() *config.Config {
	return &config.Config{
		DBNs:             "test",
		DBDb:             "test",
		DBQueryTimeout:   time.Second,
		DBExecuteTimeout: time.Second,
	}
}

// nopConnection satisfies DBConnection for clients whose executor is replaced.
type nopConnection struct{ DBConnection }

func newMockClient[T any](exec *mockExecutor[T]) Client[T] {
	c, err := NewClient[T](nopConnection{}, testConfig(), WithExecutor[T](exec))
	if err != nil {
		panic(err)
	}
	return c
}
