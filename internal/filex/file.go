package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDSNDir creates the parent directory of a file-backed sqlite DSN.
// In-memory and URI DSNs are left alone. It returns the directory it ensured,
// or "" when nothing had to be done.
func EnsureDSNDir(dsn string) (string, error) {
	if dsn == "" || strings.HasPrefix(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return "", nil
	}
	path, _, _ := strings.Cut(dsn, "?")
	dir := filepath.Dir(path)
	if dir == "." {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
