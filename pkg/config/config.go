package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Feedback  FeedbackConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig tunes the auto-timetable generator.
type SchedulerConfig struct {
	CacheEnabled   bool
	CacheTTL       time.Duration
	MaxSearchNodes int
	MaxCourses     int
}

// FeedbackConfig controls feedback persistence and e-mail notification.
type FeedbackConfig struct {
	Enabled       bool
	ResendAPIKey  string
	ResendBaseURL string
	MailTo        string
	MailFrom      string
	Workers       int
	Retries       int
}

// RateLimitConfig holds per-tier request budgets expressed per minute.
type RateLimitConfig struct {
	Enabled        bool
	Lightweight    int
	FileProcessing int
	AI             int
}

// TelemetryConfig configures OpenTelemetry trace export.
type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		CacheEnabled:   v.GetBool("ENABLE_TIMETABLE_CACHE"),
		CacheTTL:       parseDuration(v.GetString("TIMETABLE_CACHE_TTL"), 15*time.Minute),
		MaxSearchNodes: v.GetInt("SCHEDULER_MAX_SEARCH_NODES"),
		MaxCourses:     v.GetInt("SCHEDULER_MAX_COURSES"),
	}

	cfg.Feedback = FeedbackConfig{
		Enabled:       v.GetBool("ENABLE_FEEDBACK"),
		ResendAPIKey:  v.GetString("RESEND_API_KEY"),
		ResendBaseURL: v.GetString("RESEND_BASE_URL"),
		MailTo:        v.GetString("FEEDBACK_MAIL_TO"),
		MailFrom:      v.GetString("FEEDBACK_MAIL_FROM"),
		Workers:       v.GetInt("FEEDBACK_WORKERS"),
		Retries:       v.GetInt("FEEDBACK_RETRIES"),
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled:        v.GetBool("ENABLE_RATE_LIMIT"),
		Lightweight:    v.GetInt("RATE_LIMIT_LIGHTWEIGHT"),
		FileProcessing: v.GetInt("RATE_LIMIT_FILE_PROCESSING"),
		AI:             v.GetInt("RATE_LIMIT_AI"),
	}

	cfg.Telemetry = TelemetryConfig{
		OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:  v.GetString("OTEL_SERVICE_NAME"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "studentools")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_TIMETABLE_CACHE", false)
	v.SetDefault("TIMETABLE_CACHE_TTL", "15m")
	v.SetDefault("SCHEDULER_MAX_SEARCH_NODES", 0)
	v.SetDefault("SCHEDULER_MAX_COURSES", 64)

	v.SetDefault("ENABLE_FEEDBACK", true)
	v.SetDefault("RESEND_API_KEY", "")
	v.SetDefault("RESEND_BASE_URL", "https://api.resend.com")
	v.SetDefault("FEEDBACK_MAIL_TO", "")
	v.SetDefault("FEEDBACK_MAIL_FROM", "StuDenTools <onboarding@resend.dev>")
	v.SetDefault("FEEDBACK_WORKERS", 1)
	v.SetDefault("FEEDBACK_RETRIES", 3)

	v.SetDefault("ENABLE_RATE_LIMIT", true)
	v.SetDefault("RATE_LIMIT_LIGHTWEIGHT", 60)
	v.SetDefault("RATE_LIMIT_FILE_PROCESSING", 20)
	v.SetDefault("RATE_LIMIT_AI", 10)

	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_SERVICE_NAME", "studentools-api")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
