package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.StoreEngine)
	assert.Equal(t, "./data/petmeds.db", cfg.StorePath)
	assert.Equal(t, "pet_meds_", cfg.KeyPrefix)
	assert.Equal(t, 15*time.Minute, cfg.ReminderLead)
	assert.Equal(t, "./exports", cfg.ExportDir)
	assert.False(t, cfg.ExportS3PathStyle)
	assert.Equal(t, time.Local, cfg.Location)

	opts := cfg.StorageOptions()
	assert.Equal(t, "sqlite", opts.Engine)
	assert.Equal(t, "./data/petmeds.db", opts.Path)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"PORT":                 "9090",
		"STORE_ENGINE":         "JSON",
		"STORE_KEY_PREFIX":     "test_",
		"API_TOKEN":            "secret",
		"REMINDER_LEAD":        "30m",
		"REMINDER_WEBHOOK_URL": "https://hooks.example.com/pets",
		"EXPORT_S3_BUCKET":     "backups",
		"EXPORT_S3_PATH_STYLE": "true",
		"TZ_NAME":              "UTC",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "json", cfg.StoreEngine)
	assert.Equal(t, "./data/petmeds.json", cfg.StorePath)
	assert.Equal(t, "test_", cfg.KeyPrefix)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, 30*time.Minute, cfg.ReminderLead)
	assert.Equal(t, "backups", cfg.ExportS3Bucket)
	assert.True(t, cfg.ExportS3PathStyle)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := []struct {
		env   map[string]string
		field string
	}{
		{map[string]string{"PORT": "http"}, "PORT"},
		{map[string]string{"STORE_ENGINE": "mongo"}, "STORE_ENGINE"},
		{map[string]string{"STORE_ENGINE": "postgres"}, "DB_DSN"},
		{map[string]string{"STORE_ENGINE": "redis"}, "REDIS_URL"},
		{map[string]string{"REMINDER_LEAD": "soon"}, "REMINDER_LEAD"},
		{map[string]string{"REMINDER_WEBHOOK_URL": "hooks/local"}, "REMINDER_WEBHOOK_URL"},
		{map[string]string{"EXPORT_S3_PATH_STYLE": "maybe"}, "EXPORT_S3_PATH_STYLE"},
		{map[string]string{"TZ_NAME": "Mars/Olympus"}, "TZ_NAME"},
	}

	for _, tc := range cases {
		_, err := LoadFrom(env(tc.env))
		var ve ValidationError
		require.ErrorAs(t, err, &ve, "env %v", tc.env)
		assert.Equal(t, tc.field, ve.Field)
	}
}
