package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetFallsBack(t *testing.T) {
	t.Setenv("FOOTPATH_TEST_KEY", "  ")
	require.Equal(t, "x", Get("FOOTPATH_TEST_KEY", "x"))

	t.Setenv("FOOTPATH_TEST_KEY", " v ")
	require.Equal(t, "v", Get("FOOTPATH_TEST_KEY", "x"))
}

func TestLoadOSRMDefaults(t *testing.T) {
	t.Setenv("OSRM_URL", "")
	t.Setenv("OSRM_TIMEOUT", "")
	t.Setenv("OSRM_MAX_ATTEMPTS", "")

	cfg, err := LoadOSRM()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:5001", cfg.BaseURL)
	require.Equal(t, "walking", cfg.Profile)
	require.Equal(t, 60*time.Second, cfg.Timeout)
	require.Equal(t, 1, cfg.MaxAttempts)
}

func TestLoadOSRMRejectsBadValues(t *testing.T) {
	t.Setenv("OSRM_TIMEOUT", "soon")
	_, err := LoadOSRM()
	require.Error(t, err)

	t.Setenv("OSRM_TIMEOUT", "")
	t.Setenv("OSRM_MAX_ATTEMPTS", "0")
	_, err = LoadOSRM()
	require.Error(t, err)
}

func TestLoadCacheRequiresDatabaseURLForPostgres(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err := LoadCache()
	require.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/footpaths")
	cfg, err := LoadCache()
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.Backend)
}

func TestLoadCacheRejectsUnknownBackend(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")
	_, err := LoadCache()
	require.Error(t, err)
}

func TestLoadPipelineFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")
	data := `
sources:
  - agency: metro
    path: ./metro/stops.txt
  - agency: stcp
    path: ./stcp.zip
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	pf, err := LoadPipelineFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultOutput, pf.Output)
	require.Equal(t, DefaultMaxDestinations, pf.MaxDestinations)
	require.Len(t, pf.Sources, 2)
	require.Equal(t, "stcp", pf.Sources[1].Agency)
}

func TestLoadPipelineFileRequiresSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")
	require.NoError(t, os.WriteFile(path, []byte("output: out.csv\n"), 0o644))

	_, err := LoadPipelineFile(path)
	require.Error(t, err)
}
