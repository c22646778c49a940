// Package testutils holds helpers shared by the test suites: configuration
// for integration tests and in-memory repositories for unit tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"

	"github.com/owndesign/owndesign/internal/config"
	"github.com/owndesign/owndesign/internal/logging"
)

// ConfigForTests loads the .env.test file and returns a valid config.Provider.
// Integration tests are skipped when the file is missing.
func ConfigForTests(t *testing.T) config.Provider {
	t.Helper()

	path, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			break
		}
		if path == filepath.Dir(path) {
			t.Fatalf("could not find project root with go.mod")
		}
		path = filepath.Dir(path)
	}

	env, err := godotenv.Read(filepath.Join(path, ".env.test"))
	if err != nil {
		t.Skipf("no .env.test file, skipping integration test: %v", err)
	}
	for key, value := range env {
		t.Setenv(key, value)
	}

	logging.New()
	return config.New()
}
