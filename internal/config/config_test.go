package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "daily", cfg.Analysis.Granularity)
	assert.Equal(t, 3, cfg.Analysis.Window)
	assert.Equal(t, "skip", cfg.Analysis.GapPolicy)
	assert.Equal(t, ',', cfg.DelimiterRune())
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rankpulse.yaml")
	content := `
log_level: debug
analysis:
  granularity: weekly
  window: 5
server:
  port: 9090
  read_timeout: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "weekly", cfg.Analysis.Granularity)
	assert.Equal(t, 5, cfg.Analysis.Window)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)

	// Untouched sections keep their defaults.
	assert.Equal(t, "skip", cfg.Analysis.GapPolicy)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"bad granularity": "analysis:\n  granularity: hourly\n",
		"bad gap policy":  "analysis:\n  gap_policy: interpolate\n",
		"bad window":      "analysis:\n  window: -1\n",
		"bad delimiter":   "analysis:\n  delimiter: '--'\n",
		"bad port":        "server:\n  port: 99999\n",
		"bad rate limit":  "server:\n  rate_limit:\n    rps: 0\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rankpulse.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rankpulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis: ["), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}
