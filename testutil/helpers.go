package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ReadReportFile reads a generated report file, failing the test when
// it is missing.
func ReadReportFile(t *testing.T, parts ...string) []byte {
	t.Helper()
	path := filepath.Join(parts...)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report file %s: %v", path, err)
	}
	return data
}

// AssertFileExists fails the test when the path does not exist.
func AssertFileExists(t *testing.T, parts ...string) {
	t.Helper()
	path := filepath.Join(parts...)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected file %s to exist: %v", path, err)
	}
}

// AssertFileAbsent fails the test when the path exists.
func AssertFileAbsent(t *testing.T, parts ...string) {
	t.Helper()
	path := filepath.Join(parts...)
	if _, err := os.Stat(path); err == nil {
		t.Fatalf("Expected file %s to be absent", path)
	}
}
