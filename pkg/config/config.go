package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Unpublish scopes applied when an individual preference window is set.
const (
	UnpublishScopeAll     = "all"
	UnpublishScopeFaculty = "faculty"
)

// Mail providers.
const (
	MailProviderConsole  = "console"
	MailProviderSendGrid = "sendgrid"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Scheduling  SchedulingConfig
	ViewCache   ViewCacheConfig
	Notifier    NotifierConfig
	Mail        MailConfig
	Workers     WorkerConfig
	Preferences PreferencesConfig
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MaxOpenConns  int
	MaxIdleConns  int
	RunMigrations bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulingConfig holds calendar semantics shared by the window state machine.
type SchedulingConfig struct {
	Timezone             string
	DeferredDispatchSpec string
}

// Location resolves the configured timezone, falling back to UTC.
func (c SchedulingConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ViewCacheConfig governs caching of published schedule views.
type ViewCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// NotifierConfig configures the partner publication webhook.
type NotifierConfig struct {
	Enabled     bool
	PartnerURLs []string
	APIKey      string
	Timeout     time.Duration
}

// MailConfig selects and configures the outbound mail provider.
type MailConfig struct {
	Provider        string
	SendGridAPIKey  string
	FromName        string
	FromEmail       string
	FrontendBaseURL string
}

// WorkerConfig sizes the in-memory job queues.
type WorkerConfig struct {
	Concurrency int
	MailRetries int
}

// PreferencesConfig tunes preference window side effects.
type PreferencesConfig struct {
	IndividualUnpublishScope string
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
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
		Host:          v.GetString("DB_HOST"),
		Port:          v.GetInt("DB_PORT"),
		User:          v.GetString("DB_USER"),
		Password:      v.GetString("DB_PASSWORD"),
		Name:          v.GetString("DB_NAME"),
		SSLMode:       v.GetString("DB_SSL_MODE"),
		MaxOpenConns:  v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:  v.GetInt("DB_MAX_IDLE_CONNS"),
		RunMigrations: v.GetBool("RUN_MIGRATIONS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduling = SchedulingConfig{
		Timezone:             v.GetString("APP_TIMEZONE"),
		DeferredDispatchSpec: v.GetString("DEFERRED_DISPATCH_SPEC"),
	}

	cfg.ViewCache = ViewCacheConfig{
		Enabled: v.GetBool("ENABLE_VIEW_CACHE"),
		TTL:     parseDuration(v.GetString("SCHEDULE_VIEW_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Notifier = NotifierConfig{
		Enabled:     v.GetBool("NOTIFIER_ENABLED"),
		PartnerURLs: splitAndTrim(v.GetString("NOTIFIER_PARTNER_URLS")),
		APIKey:      v.GetString("NOTIFIER_API_KEY"),
		Timeout:     parseDuration(v.GetString("NOTIFIER_TIMEOUT"), 5*time.Second),
	}

	cfg.Mail = MailConfig{
		Provider:        strings.ToLower(v.GetString("MAIL_PROVIDER")),
		SendGridAPIKey:  v.GetString("SENDGRID_API_KEY"),
		FromName:        v.GetString("MAIL_FROM_NAME"),
		FromEmail:       v.GetString("MAIL_FROM_EMAIL"),
		FrontendBaseURL: strings.TrimRight(v.GetString("FRONTEND_BASE_URL"), "/"),
	}

	cfg.Workers = WorkerConfig{
		Concurrency: v.GetInt("WORKER_CONCURRENCY"),
		MailRetries: v.GetInt("MAIL_RETRIES"),
	}

	scope := strings.ToLower(v.GetString("PREFERENCES_INDIVIDUAL_UNPUBLISH_SCOPE"))
	if scope != UnpublishScopeFaculty {
		scope = UnpublishScopeAll
	}
	cfg.Preferences = PreferencesConfig{IndividualUnpublishScope: scope}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "academic_scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("RUN_MIGRATIONS", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "academic-scheduler")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("DEFERRED_DISPATCH_SPEC", "@every 1m")

	v.SetDefault("ENABLE_VIEW_CACHE", true)
	v.SetDefault("SCHEDULE_VIEW_CACHE_TTL", "5m")

	v.SetDefault("NOTIFIER_ENABLED", false)
	v.SetDefault("NOTIFIER_PARTNER_URLS", "")
	v.SetDefault("NOTIFIER_API_KEY", "")
	v.SetDefault("NOTIFIER_TIMEOUT", "5s")

	v.SetDefault("MAIL_PROVIDER", MailProviderConsole)
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("MAIL_FROM_NAME", "Academic Scheduler")
	v.SetDefault("MAIL_FROM_EMAIL", "no-reply@localhost")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	v.SetDefault("WORKER_CONCURRENCY", 2)
	v.SetDefault("MAIL_RETRIES", 3)

	v.SetDefault("PREFERENCES_INDIVIDUAL_UNPUBLISH_SCOPE", UnpublishScopeAll)
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
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
