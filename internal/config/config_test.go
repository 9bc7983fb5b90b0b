package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "shuttle.db", cfg.DBName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 11, cfg.DefaultTarget)
	assert.Empty(t, cfg.ProjectID)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"DB_NAME":              "club.db",
		"PORT":                 "9090",
		"DEFAULT_TARGET":       "21",
		"SLACK_BOT_TOKEN":      "xoxb-1",
		"SLACK_CHANNEL_ID":     "C1",
		"SLACK_SIGNING_SECRET": "s3cret",
		"TURSO_PRIMARY_URL":    "libsql://club.turso.io",
		"TURSO_AUTH_TOKEN":     "tok",
		"GCP_PROJECT":          "club-project",
		"REDIS_URL":            "redis://localhost:6379/1",
		"LOG_LEVEL":            "debug",
		"LOG_FORMAT":           "json",
	}))
	require.NoError(t, err)

	assert.Equal(t, "club.db", cfg.DBName)
	assert.Equal(t, 21, cfg.DefaultTarget)
	assert.Equal(t, "s3cret", cfg.Slack.SigningSecret)
	assert.Equal(t, "libsql://club.turso.io", cfg.Turso.PrimaryURL)
	assert.Equal(t, "club-project", cfg.ProjectID)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		values map[string]string
	}{
		{"non-numeric target", map[string]string{"DEFAULT_TARGET": "eleven"}},
		{"zero target", map[string]string{"DEFAULT_TARGET": "0"}},
		{"turso without token", map[string]string{"TURSO_PRIMARY_URL": "libsql://x"}},
		{"unknown log level", map[string]string{"LOG_LEVEL": "loud"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromEnv(env(tc.values))
			assert.Error(t, err)
		})
	}
}
