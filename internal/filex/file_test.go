package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDSNDir_CreatesParent(t *testing.T) {
	tmp := t.TempDir()
	dsn := filepath.Join(tmp, "state", "gigrithm.db") + "?_pragma=busy_timeout(5000)"

	got, err := EnsureDSNDir(dsn)
	require.NoError(t, err)

	want := filepath.Join(tmp, "state")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureDSNDir_Idempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "cache", "x.db")

	d1, err := EnsureDSNDir(dsn)
	require.NoError(t, err)
	d2, err := EnsureDSNDir(dsn)
	require.NoError(t, err)
	require.Equal(t, d1, d2)
}

func TestEnsureDSNDir_SkipsMemoryAndBareNames(t *testing.T) {
	for _, dsn := range []string{"", ":memory:", "file::memory:?cache=shared", "gigrithm.db"} {
		got, err := EnsureDSNDir(dsn)
		require.NoError(t, err, dsn)
		require.Empty(t, got, dsn)
	}
}

func TestEnsureDSNDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := EnsureDSNDir(filepath.Join(blocker, "gigrithm.db"))
	require.Error(t, err)
}
