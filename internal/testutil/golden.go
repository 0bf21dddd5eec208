package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// UpdateGoldenEnv rewrites golden files instead of comparing when set.
const UpdateGoldenEnv = "UPDATE_GOLDEN"

// Golden compares got with testdata/<name>.golden of the calling package.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")

	if os.Getenv(UpdateGoldenEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("update %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v\ngot:\n%s", path, err, got)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("%s mismatch\nwant:\n%s\ngot:\n%s", name, want, got)
	}
}

// GoldenString is Golden for string output.
func GoldenString(t *testing.T, name, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}
