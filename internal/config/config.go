package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Retry
		Log
		Tasks
		Maintenance
		SRS
		Reading
	}

	HTTP struct {
		Port           int32
		Host           string
		AllowedOrigins []string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver string // "sqlite" (default) or "postgres"
		Path   string // sqlite file path
		DSN    string // postgres connection string
		LogSQL bool
	}
	Retry struct {
		MaxAttempts     uint
		InitialInterval time.Duration
		MaxInterval     time.Duration
		CallTimeout     time.Duration // per storage call, 0 disables
	}
	Log struct {
		Mode  string // "dev" or "prod"
		Level string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Maintenance struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	SRS struct {
		Algorithm string // "none" or "sm2"
	}
	Reading struct {
		Autofill bool // fill missing vocabulary readings on authoring
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("cors_allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("database_driver", DriverSQLite)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_log_sql", false)

	// Storage retry defaults
	v.SetDefault("storage_retry_attempts", 3)
	v.SetDefault("storage_retry_initial", "100ms")
	v.SetDefault("storage_retry_max", "2s")
	v.SetDefault("storage_call_timeout", "10s")

	v.SetDefault("log_mode", "dev")
	v.SetDefault("log_level", "info")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("maintenance_enabled", false)
	v.SetDefault("maintenance_schedule", "0 3 * * *")

	v.SetDefault("srs_algorithm", "none")
	v.SetDefault("reading_autofill", true)

	return &Config{
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver: v.GetString("DATABASE_DRIVER"),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
			LogSQL: v.GetBool("DATABASE_LOG_SQL"),
		},
		Retry: Retry{
			MaxAttempts:     v.GetUint("STORAGE_RETRY_ATTEMPTS"),
			InitialInterval: v.GetDuration("STORAGE_RETRY_INITIAL"),
			MaxInterval:     v.GetDuration("STORAGE_RETRY_MAX"),
			CallTimeout:     v.GetDuration("STORAGE_CALL_TIMEOUT"),
		},
		Log: Log{
			Mode:  v.GetString("LOG_MODE"),
			Level: v.GetString("LOG_LEVEL"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Maintenance: Maintenance{
			Enabled:  v.GetBool("MAINTENANCE_ENABLED"),
			Schedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
		SRS: SRS{
			Algorithm: v.GetString("SRS_ALGORITHM"),
		},
		Reading: Reading{
			Autofill: v.GetBool("READING_AUTOFILL"),
		},
	}
}

// Validate reports configuration combinations that cannot work.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("DATABASE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	if c.Tasks.Enabled && c.Database.Driver != DriverSQLite {
		return fmt.Errorf("the task queue requires the sqlite driver; set TASKS_ENABLED=false")
	}
	return nil
}
