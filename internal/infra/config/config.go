package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const DefaultPowerAPIURL = "https://be-svitlo.oe.if.ua/schedule-by-search"

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken   string
	TelegramGroupID int64 // Chat that receives schedule updates and reminders
	DatabaseURL     string
	AccountNumber   string
	QueueID         string // Overrides the queue reported by the provider when set
	Timezone        *time.Location
	LogLevel        string
	Environment     string

	PowerAPIURL     string
	PowerAPITimeout time.Duration

	APICooldown       time.Duration
	ReminderLeadTime  time.Duration
	ReminderLookBack  time.Duration
	ReminderRetention time.Duration
	ResendSentOnReAdd bool // Re-adding a sent outage makes it fire again
	ScheduleTTL       time.Duration

	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration

	CronSpec   string // Empty means run once and exit
	RunTimeout time.Duration

	PushgatewayURL string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}

	groupStr := os.Getenv("TELEGRAM_GROUP")
	if groupStr == "" {
		return nil, fmt.Errorf("TELEGRAM_GROUP is not set")
	}
	cfg.TelegramGroupID, err = strconv.ParseInt(groupStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_GROUP: %w", err)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.AccountNumber = os.Getenv("ACCOUNT_NUMBER")
	if cfg.AccountNumber == "" {
		return nil, fmt.Errorf("ACCOUNT_NUMBER is not set")
	}

	cfg.QueueID = strings.TrimSpace(os.Getenv("QUEUE_ID"))

	tzName := stringOr("TIMEZONE", "Europe/Kyiv")
	cfg.Timezone, err = time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}

	cfg.LogLevel = strings.ToLower(stringOr("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(stringOr("ENVIRONMENT", "development"))

	cfg.PowerAPIURL = stringOr("POWER_API_URL", DefaultPowerAPIURL)

	durations := []struct {
		env  string
		def  time.Duration
		dest *time.Duration
	}{
		{"POWER_API_TIMEOUT", 30 * time.Second, &cfg.PowerAPITimeout},
		{"API_COOLDOWN", 30 * time.Minute, &cfg.APICooldown},
		{"REMINDER_LEAD_TIME", 15 * time.Minute, &cfg.ReminderLeadTime},
		{"REMINDER_LOOKBACK", 2 * time.Hour, &cfg.ReminderLookBack},
		{"REMINDER_RETENTION", 2 * time.Hour, &cfg.ReminderRetention},
		{"SCHEDULE_TTL", 48 * time.Hour, &cfg.ScheduleTTL},
		{"RUN_TIMEOUT", 2 * time.Minute, &cfg.RunTimeout},
		{"DB_CONN_MAX_LIFETIME", 5 * time.Minute, &cfg.DBConnMaxLifetime},
		{"DB_CONN_MAX_IDLE_TIME", time.Minute, &cfg.DBConnMaxIdleTime},
	}
	for _, d := range durations {
		if *d.dest, err = durationOr(d.env, d.def); err != nil {
			return nil, err
		}
	}

	if cfg.DBMaxOpenConns, err = intOr("DB_MAX_OPEN_CONNS", 5); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = intOr("DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, err
	}

	cfg.ResendSentOnReAdd = true
	if v := os.Getenv("REMINDER_RESEND_ON_READD"); v != "" {
		cfg.ResendSentOnReAdd, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REMINDER_RESEND_ON_READD: %w", err)
		}
	}

	cfg.CronSpec = strings.TrimSpace(os.Getenv("CRON_SPEC"))
	if cfg.CronSpec != "" {
		if _, err := cron.ParseStandard(cfg.CronSpec); err != nil {
			return nil, fmt.Errorf("invalid CRON_SPEC %q: %w", cfg.CronSpec, err)
		}
	}

	cfg.PushgatewayURL = os.Getenv("METRICS_PUSHGATEWAY_URL")

	return cfg, nil
}

func stringOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %s", key, d)
	}
	return d, nil
}

func intOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %d", key, n)
	}
	return n, nil
}
