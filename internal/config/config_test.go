package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletkun/jobapp-tracker/internal/models"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5001", cfg.APIURL)
	assert.Equal(t, ":5173", cfg.ListenAddr)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Zero(t, cfg.RefreshInterval)
	assert.False(t, cfg.Development())
	assert.Equal(t, models.DefaultProgress, cfg.Progress())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"TRACKER_ENV":              "Development",
		"TRACKER_API_URL":          "https://jobs.example.com/",
		"TRACKER_REQUEST_TIMEOUT":  "3s",
		"TRACKER_REFRESH_INTERVAL": "1m",
		"TRACKER_PROGRESS_TABLE":   "ordered",
		"TRACKER_CORS_ORIGINS":     "http://a.test, ,http://b.test",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.Development())
	assert.Equal(t, "https://jobs.example.com", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 25, cfg.Progress().For(models.StatusOASent))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	bad := []map[string]string{
		{"TRACKER_REQUEST_TIMEOUT": "soon"},
		{"TRACKER_REFRESH_INTERVAL": "-1s"},
		{"TRACKER_API_URL": "localhost:5001"},
		{"TRACKER_PROGRESS_TABLE": "random"},
		{"TRACKER_CORS_ORIGINS": "localhost:5173"},
		{"TRACKER_CORS_ORIGINS": "http://ok.test,ftp://files.test"},
	}
	for _, env := range bad {
		_, err := FromEnv(envMap(env))
		assert.Error(t, err, env)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.env")
	require.NoError(t, os.WriteFile(path, []byte("TRACKER_LISTEN_ADDR=:9999\n"), 0o600))
	t.Setenv("TRACKER_LISTEN_ADDR", "")
	os.Unsetenv("TRACKER_LISTEN_ADDR")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ListenAddr)
}

func TestLoadMissingFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestCORSOriginsWildcardAllowed(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{"TRACKER_CORS_ORIGINS": "*"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}
