// Package tempfs writes fixture trees into temporary directories for tests.
package tempfs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFiles materializes files (slash-separated paths relative to a fresh
// temporary root) and returns the root. The root is removed when the test
// finishes.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(name, "/")))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}
