package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SERVER_ADDRESS", ":9090")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "fitness_scheduler", cfg.Database.Name)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 72*time.Hour, cfg.Onboarding.DraftTTL)
	assert.Equal(t, 30, cfg.RateLimit.SchedulePerMinute)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	yaml := `
jwt:
  secret: from-file
database:
  name: planner
onboarding:
  draft_ttl: 30m
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "planner", cfg.Database.Name)
	assert.Equal(t, 30*time.Minute, cfg.Onboarding.DraftTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}
