package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_Variables(t *testing.T) {
	t.Setenv("GIGRITHM_APPWRITE_ENDPOINT", "https://aw.example/v1")
	t.Setenv("GIGRITHM_COLLECTION_JOBS", "jobs_v2")
	t.Setenv("GIGRITHM_HTTP_TIMEOUT", "4s")
	t.Setenv("GIGRITHM_RESUME_MAX_BYTES", "1024")

	var c Config
	c.LoadDefaults()
	parseEnv(&c, "")

	assert.Equal(t, "https://aw.example/v1", c.AppwriteEndpoint)
	assert.Equal(t, "jobs_v2", c.Collections.Jobs)
	assert.Equal(t, "hackathons", c.Collections.Hackathons)
	assert.Equal(t, 4*time.Second, c.HTTPTimeout)
	assert.Equal(t, int64(1024), c.ResumeMaxBytes)
}

func TestParseEnv_UnsetVariablesKeepDefaults(t *testing.T) {
	t.Setenv("GIGRITHM_SMTP_HOST", "smtp.example")

	var c Config
	c.LoadDefaults()
	parseEnv(&c, "")

	assert.Equal(t, "smtp.example", c.SMTPHost)
	assert.Equal(t, 587, c.SMTPPort)
	assert.Equal(t, 15*time.Second, c.HTTPTimeout)
	assert.Equal(t, int64(5<<20), c.ResumeMaxBytes)
}

func TestParseEnv_InvalidValuePanics(t *testing.T) {
	t.Setenv("GIGRITHM_HTTP_TIMEOUT", "soon")

	var c Config
	c.LoadDefaults()
	require.Panics(t, func() { parseEnv(&c, "") })
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gig.env")
	require.NoError(t, os.WriteFile(path, []byte("GIGRITHM_IMGBB_API_KEY=imgbb-secret\nGIGRITHM_MAILER=mailgun\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("GIGRITHM_IMGBB_API_KEY")
		_ = os.Unsetenv("GIGRITHM_MAILER")
	})

	var c Config
	c.LoadDefaults()
	parseEnv(&c, path)

	assert.Equal(t, "imgbb-secret", c.ImgBBAPIKey)
	assert.Equal(t, MailerMailgun, c.Mailer)
}

func TestParseEnv_MissingNamedFilePanics(t *testing.T) {
	var c Config
	require.Panics(t, func() { parseEnv(&c, filepath.Join(t.TempDir(), "absent.env")) })
}
