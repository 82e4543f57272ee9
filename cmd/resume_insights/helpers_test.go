package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

func TestMain(m *testing.M) {
	// .env is optional; CI provides the environment directly.
	_ = godotenv.Load()
	os.Exit(m.Run())
}

// getBinaryPath locates a prebuilt bin/resume_insights, skipping the test when absent.
func getBinaryPath(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("CLI tests need the built binary; skipped in short mode")
	}

	bin := filepath.Join("..", "..", "bin", "resume_insights")
	if _, err := os.Stat(bin); errors.Is(err, fs.ErrNotExist) {
		t.Skipf("%s missing; run 'go build -o bin/resume_insights ./cmd/resume_insights'", bin)
	}
	return bin
}

func fixture(parts ...string) string {
	return filepath.Join(append([]string{"..", "..", "testdata"}, parts...)...)
}
