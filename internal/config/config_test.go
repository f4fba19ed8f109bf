package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gsbatch/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.Equal(t, "https://www.gradescope.com", cfg.Course.BaseURL)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 1920, cfg.Browser.ViewportWidth)
	assert.Equal(t, 1080, cfg.Browser.ViewportHeight)
	assert.Equal(t, 20*time.Second, cfg.FindTimeout())
	assert.Equal(t, 2*time.Second, cfg.Pace())
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Course.BaseURL, cfg.Course.BaseURL)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gsbatch.yaml")
	data := `
course:
  course_url: https://www.gradescope.com/courses/123456
  email: ta@example.com
browser:
  headless: true
  viewport_width: 1280
  viewport_height: 800
waits:
  find_timeout_sec: 5
  pace_sec: 1
history:
  enabled: false
input:
  path: assignments.json
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://www.gradescope.com/courses/123456", cfg.Course.CourseURL)
	assert.Equal(t, "ta@example.com", cfg.Course.Email)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 1280, cfg.Browser.ViewportWidth)
	assert.Equal(t, 5*time.Second, cfg.FindTimeout())
	assert.Equal(t, time.Second, cfg.Pace())
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, "assignments.json", cfg.Input.Path)

	// Unset fields keep their defaults.
	assert.Equal(t, "https://www.gradescope.com", cfg.Course.BaseURL)
	assert.Equal(t, 200*time.Millisecond, cfg.Settle())
	assert.Equal(t, 300*time.Millisecond, cfg.Commit())
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("course: [not a map"), 0644))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gsbatch.yaml")
	data := `
course:
  course_url: https://www.gradescope.com/courses/1
  email: file@example.com
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	t.Setenv("GS_EMAIL", "env@example.com")
	t.Setenv("GS_COURSE_URL", "https://www.gradescope.com/courses/2")
	t.Setenv("GS_JSON", "env.json")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env@example.com", cfg.Course.Email, "environment beats file")
	assert.Equal(t, "https://www.gradescope.com/courses/2", cfg.Course.CourseURL)
	assert.Equal(t, "env.json", cfg.Input.Path)
}

func TestValidate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Course.CourseURL = "https://www.gradescope.com/courses/123"
	cfg.Course.Email = "ta@example.com"
	cfg.Input.Path = "assignments.json"
	require.NoError(t, cfg.Validate())

	missing := config.DefaultConfig()
	err := missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "course_url")
}

func TestAccessorsFallBackWhenUnset(t *testing.T) {
	cfg := &config.Config{}

	assert.Equal(t, 20*time.Second, cfg.FindTimeout())
	assert.Equal(t, 200*time.Millisecond, cfg.Settle())
	assert.Equal(t, 300*time.Millisecond, cfg.Commit())
	assert.Equal(t, 2*time.Second, cfg.Pace())
}
