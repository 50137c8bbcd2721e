package config

import (
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone  AuthMode = "none"  // No authentication required (default)
	AuthModeToken AuthMode = "token" // Bearer tokens issued by the identity provider
)

type (
	Config struct {
		HTTP
		Global
		Database
		Circulation
		Auth
		Tasks
		Maintenance
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Circulation struct {
		LoanPeriodDays int // Borrow due date = borrow date + this many days
	}
	Auth struct {
		Mode        AuthMode
		TokenSecret string // HS256 secret shared with the identity provider
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Maintenance struct {
		OverdueScanEnabled  bool
		OverdueScanSchedule string  // Cron format: "0 * * * *" = hourly
		OverdueDailyRate    float64 // Fine amount per day overdue
		PurgeSchedule       string  // Cron format for expired-notification purge
		PurgeRetention      time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("loan_period_days", DefaultLoanPeriodDays)

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_token_secret", "")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Maintenance defaults
	v.SetDefault("overdue_scan_enabled", true)
	v.SetDefault("overdue_scan_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("overdue_daily_rate", 0.5)
	v.SetDefault("purge_schedule", "30 3 * * *") // Daily at 03:30
	v.SetDefault("purge_retention", "720h")      // Keep stale notifications 30 days

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Circulation: Circulation{
			LoanPeriodDays: v.GetInt("LOAN_PERIOD_DAYS"),
		},
		Auth: Auth{
			Mode:        AuthMode(v.GetString("AUTH_MODE")),
			TokenSecret: v.GetString("AUTH_TOKEN_SECRET"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Maintenance: Maintenance{
			OverdueScanEnabled:  v.GetBool("OVERDUE_SCAN_ENABLED"),
			OverdueScanSchedule: v.GetString("OVERDUE_SCAN_SCHEDULE"),
			OverdueDailyRate:    v.GetFloat64("OVERDUE_DAILY_RATE"),
			PurgeSchedule:       v.GetString("PURGE_SCHEDULE"),
			PurgeRetention:      v.GetDuration("PURGE_RETENTION"),
		},
	}
}
