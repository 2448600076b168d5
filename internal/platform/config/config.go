// Package config carga la configuración del proceso desde variables de entorno.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pet-meds/internal/adapters/storage"
	"pet-meds/internal/platform/httpclient"
	"pet-meds/internal/store"
)

// ValidationError indica un valor de entorno inválido.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Config struct {
	Port string

	// Store
	StoreEngine string
	StorePath   string
	DBDSN       string
	RedisURL    string
	KeyPrefix   string

	// HTTP
	APIToken string

	// Reminders
	ReminderWebhookURL   string
	ReminderWebhookToken string
	ReminderLead         time.Duration

	// Export
	ExportDir         string
	ExportS3Bucket    string
	ExportS3Region    string
	ExportS3Endpoint  string
	ExportS3PathStyle bool
	ExportS3Prefix    string

	// Location usada para derivar "hoy".
	Location *time.Location
}

// StorageOptions arma las opciones para storage.Open.
func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		Engine:   c.StoreEngine,
		Path:     c.StorePath,
		DSN:      c.DBDSN,
		RedisURL: c.RedisURL,
	}
}

// Load lee del entorno del proceso.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom permite inyectar el lookup (tests).
func LoadFrom(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		Port:                 get("PORT", "8080"),
		StoreEngine:          strings.ToLower(get("STORE_ENGINE", storage.EngineSQLite)),
		DBDSN:                get("DB_DSN", ""),
		RedisURL:             get("REDIS_URL", ""),
		KeyPrefix:            get("STORE_KEY_PREFIX", store.DefaultKeyPrefix),
		APIToken:             get("API_TOKEN", ""),
		ReminderWebhookURL:   get("REMINDER_WEBHOOK_URL", ""),
		ReminderWebhookToken: get("REMINDER_WEBHOOK_TOKEN", ""),
		ExportDir:            get("EXPORT_DIR", "./exports"),
		ExportS3Bucket:       get("EXPORT_S3_BUCKET", ""),
		ExportS3Region:       get("EXPORT_S3_REGION", "us-east-1"),
		ExportS3Endpoint:     get("EXPORT_S3_ENDPOINT", ""),
		ExportS3Prefix:       get("EXPORT_S3_PREFIX", ""),
	}

	// Path por defecto según engine
	defPath := "./data/petmeds.db"
	if cfg.StoreEngine == storage.EngineJSON {
		defPath = "./data/petmeds.json"
	}
	cfg.StorePath = get("STORE_PATH", defPath)

	if n, err := strconv.Atoi(cfg.Port); err != nil || n <= 0 || n > 65535 {
		return Config{}, ValidationError{Field: "PORT", Message: "must be a port number"}
	}

	switch cfg.StoreEngine {
	case storage.EngineSQLite, storage.EngineJSON, storage.EngineMemory:
	case storage.EnginePostgres:
		if cfg.DBDSN == "" {
			return Config{}, ValidationError{Field: "DB_DSN", Message: "required when STORE_ENGINE=postgres"}
		}
	case storage.EngineRedis:
		if cfg.RedisURL == "" {
			return Config{}, ValidationError{Field: "REDIS_URL", Message: "required when STORE_ENGINE=redis"}
		}
	default:
		return Config{}, ValidationError{Field: "STORE_ENGINE", Message: "must be one of sqlite, json, memory, postgres, redis"}
	}

	lead, err := time.ParseDuration(get("REMINDER_LEAD", "15m"))
	if err != nil || lead < 0 {
		return Config{}, ValidationError{Field: "REMINDER_LEAD", Message: "must be a non-negative duration (e.g. 15m)"}
	}
	cfg.ReminderLead = lead

	if cfg.ReminderWebhookURL != "" {
		if err := httpclient.ValidateURL(cfg.ReminderWebhookURL); err != nil {
			return Config{}, ValidationError{Field: "REMINDER_WEBHOOK_URL", Message: err.Error()}
		}
	}

	if v := get("EXPORT_S3_PATH_STYLE", "false"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, ValidationError{Field: "EXPORT_S3_PATH_STYLE", Message: "must be true or false"}
		}
		cfg.ExportS3PathStyle = b
	}

	cfg.Location = time.Local
	if name := get("TZ_NAME", ""); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return Config{}, ValidationError{Field: "TZ_NAME", Message: "unknown time zone " + name}
		}
		cfg.Location = loc
	}

	return cfg, nil
}
