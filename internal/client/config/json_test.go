package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	t.Run("overlays present keys only", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"appwrite_project_id":   "prod",
			"collections":           map[string]any{"jobs": "jobs_prod"},
			"online_check_interval": "10s",
		})

		var c Config
		c.LoadDefaults()
		parseJson(&c, path)

		assert.Equal(t, "prod", c.AppwriteProjectID)
		assert.Equal(t, "jobs_prod", c.Collections.Jobs)
		assert.Equal(t, "profiles", c.Collections.Profiles)
		assert.Equal(t, 10*time.Second, c.OnlineCheckInterval)
		assert.Equal(t, 15*time.Second, c.HTTPTimeout)
	})

	t.Run("empty path → no changes", func(t *testing.T) {
		c := Config{AppwriteProjectID: "defaults"}
		parseJson(&c, "")
		assert.Equal(t, "defaults", c.AppwriteProjectID)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		var c Config
		require.Panics(t, func() { parseJson(&c, bad) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		var c Config
		require.Panics(t, func() { parseJson(&c, filepath.Join(t.TempDir(), "nope.json")) })
	})
}
