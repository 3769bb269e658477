package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadTestEnvironment(t *testing.T) {
	assert := require.New(t)
	t.Setenv("ENV", "test")

	cfg, err := Load("")
	assert.NoError(err)

	assert.Equal("8098", cfg.GetPort())
	assert.Equal("debug", cfg.GetLogLevel())
	assert.Equal([]string{"/nonexistent/excluded"}, cfg.ExcludedFiles())

	groups := cfg.FileGroups()
	assert.Len(groups, 3)
	assert.Equal([]string{"mp3", "wav", "flac"}, groups["music"])
	assert.Equal(time.Minute, cfg.JobRetention())
}

func TestEnvironmentOverrides(t *testing.T) {
	assert := require.New(t)
	t.Setenv("ENV", "test")
	t.Setenv("PORT", "9000")
	t.Setenv("EXCLUDED_FILES", "/a, /b/c ,")
	t.Setenv("JOB_RETENTION", "30s")

	cfg, err := Load("")
	assert.NoError(err)

	assert.Equal("9000", cfg.GetPort())
	assert.Equal(30*time.Second, cfg.JobRetention())
	assert.Equal([]string{"/a", "/b/c"}, cfg.ExcludedFiles())
}

func TestFileGroupsFallBackToDefaults(t *testing.T) {
	assert := require.New(t)

	cfg, err := Load("doesnotexist")
	assert.NoError(err)

	groups := cfg.FileGroups()
	assert.Equal(len(DefaultFileGroups), len(groups))
	assert.Equal(10*time.Minute, cfg.JobRetention())

	// callers get a copy
	groups["music"][0] = "changed"
	assert.Equal("mp3", DefaultFileGroups["music"][0])
}
