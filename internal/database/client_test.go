package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owndesign/owndesign/internal/config"
)

type record struct {
	Name string `json:"name"`
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient[record](nil, testConfig())
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewClient[record](nopConnection{}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewClient[record](nopConnection{}, &config.Config{DBQueryTimeout: 0, DBExecuteTimeout: time.Second})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestClient_IDHandling(t *testing.T) {
	ctx := context.Background()

	t.Run("Select splits the record id", func(t *testing.T) {
		exec := &mockExecutor[record]{one: &record{Name: "a"}}
		c := newMockClient(exec)

		got, err := c.Select(ctx, "profile:abc")
		require.NoError(t, err)
		assert.Equal(t, "a", got.Name)
		assert.Equal(t, "profile", exec.last().params["tb"])
		assert.Equal(t, "abc", exec.last().params["key"])
	})

	t.Run("Select of a missing record is ErrNotFound", func(t *testing.T) {
		c := newMockClient(&mockExecutor[record]{})
		_, err := c.Select(ctx, "profile:missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed ids are rejected", func(t *testing.T) {
		exec := &mockExecutor[record]{}
		c := newMockClient(exec)
		for _, id := range []string{"", "profile", ":abc", "profile:"} {
			_, err := c.Select(ctx, id)
			assert.ErrorIs(t, err, ErrInvalidID, id)
		}
		assert.Empty(t, exec.queries)
	})

	t.Run("Update passes data and reports missing records", func(t *testing.T) {
		exec := &mockExecutor[record]{}
		c := newMockClient(exec)
		_, err := c.Update(ctx, "profile:abc", map[string]any{"name": "x"})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, map[string]any{"name": "x"}, exec.last().params["data"])
	})

	t.Run("Update rejects nil data", func(t *testing.T) {
		c := newMockClient(&mockExecutor[record]{})
		_, err := c.Update(ctx, "profile:abc", nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Delete", func(t *testing.T) {
		exec := &mockExecutor[record]{}
		c := newMockClient(exec)
		require.NoError(t, c.Delete(ctx, "gallery_image:xyz"))
		assert.Contains(t, exec.last().query, "DELETE")
		assert.Equal(t, "xyz", exec.last().params["key"])
	})
}

func TestDBError(t *testing.T) {
	driverErr := errors.New("Database record `profile:abc` already exists")
	err := NewDBError(NewDBError(driverErr, "query execution failed"), "update operation failed")

	assert.Contains(t, err.Error(), "update operation failed")
	assert.Contains(t, err.Error(), driverErr.Error())
	assert.ErrorIs(t, err, driverErr)

	notFound := WrapError(NewDBError(ErrNotFound, "record not found"), "select")
	assert.ErrorIs(t, notFound, ErrNotFound)
	assert.NotErrorIs(t, notFound, ErrAlreadyExists)
	assert.Nil(t, WrapError(nil, "ignored"))
}

func TestGetTimeoutFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), ContextKeyQueryTimeout, 50*time.Millisecond)
	ctx, cancel := getTimeoutFromContext(ctx, time.Hour, ContextKeyQueryTimeout)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 40*time.Millisecond)
}

func TestRedactDBURL(t *testing.T) {
	assert.Equal(t, "ws://root:xxxxx@localhost:8000/rpc", redactDBURL("ws://root:secret@localhost:8000/rpc"))
	assert.Equal(t, "invalid-url", redactDBURL("://bad"))
}

func TestExponentialBackoffRetryer(t *testing.T) {
	r := &ExponentialBackoffRetryer{maxRetries: 2, baseDelay: time.Millisecond, maxDelay: 5 * time.Millisecond, multiplier: 2}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := r.Retry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := r.Retry(context.Background(), func() error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, calls)
	})

	t.Run("delay is capped", func(t *testing.T) {
		assert.LessOrEqual(t, r.calculateDelay(10), 5*time.Millisecond)
	})
}

func TestIsConnectionError(t *testing.T) {
	assert.True(t, isConnectionError(context.DeadlineExceeded))
	assert.True(t, isConnectionError(errors.New("dial tcp: Connection refused")))
	assert.False(t, isConnectionError(errors.New("field email must be an email")))
	assert.False(t, isConnectionError(nil))
}
