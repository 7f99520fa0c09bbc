package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          string
	ShutdownGrace time.Duration
}

// SMTPConfig holds outgoing mail settings. When Host or Username is empty
// the mailer falls back to the logging variant.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// SchedulerConfig holds scheduled-task settings. All times are UTC.
type SchedulerConfig struct {
	PollInterval   time.Duration
	DailyHour      int
	DailyMinute    int
	WeeklyWeekday  time.Weekday
	WeeklyHour     int
	WeeklyMinute   int
	HeartbeatEvery time.Duration
}

// Config holds all runtime configuration for the server.
type Config struct {
	Server    ServerConfig
	SMTP      SMTPConfig
	Scheduler SchedulerConfig

	DBPath    string
	JWTSecret string
	LogLevel  string
	Workers   int
}

// Load reads configuration from the environment, with an optional .env
// overlay. Real environment variables win over .env values.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", ":8080"),
			ShutdownGrace: getDuration("SHUTDOWN_GRACE", 5*time.Second),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("MAIL_SERVER"),
			Port:     getInt("MAIL_PORT", 587),
			Username: os.Getenv("MAIL_USERNAME"),
			Password: os.Getenv("MAIL_PASSWORD"),
			Sender:   getEnv("MAIL_DEFAULT_SENDER", "noreply@example.com"),
		},
		Scheduler: SchedulerConfig{
			PollInterval:   getDuration("SCHEDULER_POLL_INTERVAL", 30*time.Second),
			DailyHour:      getInt("REPORT_DAILY_HOUR", 9),
			DailyMinute:    getInt("REPORT_DAILY_MINUTE", 0),
			WeeklyWeekday:  time.Weekday(getInt("REPORT_WEEKLY_WEEKDAY", int(time.Sunday))),
			WeeklyHour:     getInt("REPORT_WEEKLY_HOUR", 10),
			WeeklyMinute:   getInt("REPORT_WEEKLY_MINUTE", 0),
			HeartbeatEvery: getDuration("HEARTBEAT_INTERVAL", 5*time.Minute),
		},
		DBPath:    getEnv("DB_PATH", "./data/sellscout.db"),
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Workers:   getInt("REPORT_WORKERS", 4),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
