package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Mail     MailConfig     `yaml:"mail"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	SES      SESConfig      `yaml:"ses"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Tracking TrackingConfig `yaml:"tracking"`
	Export   ExportConfig   `yaml:"export"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port               int      `yaml:"port"`
	Host               string   `yaml:"host"`
	ReadTimeoutSeconds int      `yaml:"read_timeout_seconds"`
	CORSOrigins        []string `yaml:"cors_origins"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// Addr returns host:port for http.Server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.Port)
}

// ReadTimeout returns the configured read timeout as a duration
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// DatabaseConfig selects the SQL dialect and connection string.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "postgres" or "sqlite"
	URL    string `yaml:"url"`
}

// MailConfig selects the transport and the From header.
type MailConfig struct {
	Transport string `yaml:"transport"` // "smtp", "ses" or "log"
	FromName  string `yaml:"from_name"`
	FromAddr  string `yaml:"from_addr"`
}

// SMTPConfig holds SMTP relay settings
type SMTPConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Username           string `yaml:"username"`
	Password           string `yaml:"password"`
	UseTLS             bool   `yaml:"use_tls"`
	DialTimeoutSeconds int    `yaml:"dial_timeout_seconds"`
}

// DialTimeout returns the configured dial timeout as a duration
func (c SMTPConfig) DialTimeout() time.Duration {
	return time.Duration(c.DialTimeoutSeconds) * time.Second
}

// SESConfig holds AWS SES API configuration
type SESConfig struct {
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// AuthConfig holds admin login configuration
type AuthConfig struct {
	Username          string `yaml:"username"`
	Password          string `yaml:"password"`
	PasswordHash      string `yaml:"password_hash"`
	SessionSecret     string `yaml:"session_secret"`
	CookieName        string `yaml:"cookie_name"`
	SessionTTLMinutes int    `yaml:"session_ttl_minutes"`
	SessionStore      string `yaml:"session_store"` // "memory" or "redis"
}

// SessionTTL returns the configured session lifetime as a duration
func (c AuthConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// RedisConfig holds the Redis connection used for sessions
type RedisConfig struct {
	URL       string `yaml:"url"`
	KeyPrefix string `yaml:"key_prefix"`
}

// TrackingConfig holds the public base URL used in tracking links
type TrackingConfig struct {
	BaseURL string `yaml:"base_url"`
}

// ExportConfig holds archive settings for result exports. When S3Bucket
// is empty archives are written under LocalDir.
type ExportConfig struct {
	S3Bucket string `yaml:"s3_bucket"`
	S3Region string `yaml:"s3_region"`
	S3Prefix string `yaml:"s3_prefix"`
	LocalDir string `yaml:"local_dir"`
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level      string `yaml:"level"`
	RedactPII  *bool  `yaml:"redact_pii"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Redact reports whether PII redaction is enabled (default true).
func (c LogConfig) Redact() bool {
	return c.RedactPII == nil || *c.RedactPII
}

// Load reads and parses the configuration file. An empty path yields the
// defaults only.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = 30
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.URL == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.URL = "file:clicksafe.db?_pragma=foreign_keys(1)"
	}
	if cfg.Mail.Transport == "" {
		cfg.Mail.Transport = "log"
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = "IT Support"
	}
	if cfg.Mail.FromAddr == "" {
		cfg.Mail.FromAddr = "it-support@example.com"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.SMTP.DialTimeoutSeconds == 0 {
		cfg.SMTP.DialTimeoutSeconds = 20
	}
	if cfg.SES.Region == "" {
		cfg.SES.Region = "us-west-2"
	}
	if cfg.Auth.Username == "" {
		cfg.Auth.Username = "admin"
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "clicksafe_session"
	}
	if cfg.Auth.SessionTTLMinutes == 0 {
		cfg.Auth.SessionTTLMinutes = 12 * 60
	}
	if cfg.Auth.SessionStore == "" {
		cfg.Auth.SessionStore = "memory"
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "clicksafe:session:"
	}
	if cfg.Tracking.BaseURL == "" {
		cfg.Tracking.BaseURL = "http://localhost:8080"
	}
	cfg.Tracking.BaseURL = strings.TrimRight(cfg.Tracking.BaseURL, "/")
	if cfg.Export.S3Prefix == "" {
		cfg.Export.S3Prefix = "exports/"
	}
	if cfg.Export.LocalDir == "" {
		cfg.Export.LocalDir = "./data"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 50
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 5
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = 28
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so secrets can
// live in .env locally and in real env vars when deployed.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
		if strings.HasPrefix(v, "postgres://") || strings.HasPrefix(v, "postgresql://") {
			cfg.Database.Driver = "postgres"
		}
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}

	if v := os.Getenv("MAIL_TRANSPORT"); v != "" {
		cfg.Mail.Transport = v
	}
	if v := os.Getenv("MAIL_FROM_NAME"); v != "" {
		cfg.Mail.FromName = v
	}
	if v := os.Getenv("MAIL_FROM_ADDR"); v != "" {
		cfg.Mail.FromAddr = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = port
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := os.Getenv("SMTP_USE_TLS"); v != "" {
		cfg.SMTP.UseTLS = v == "1" || strings.EqualFold(v, "true")
	}

	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.SES.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.SES.SecretKey = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.SES.Region = v
	}

	// Auth overrides
	if v := os.Getenv("ADMIN_USERNAME"); v != "" {
		cfg.Auth.Username = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Auth.Password = v
	}
	if v := os.Getenv("ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Auth.PasswordHash = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		cfg.Auth.SessionSecret = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
		cfg.Auth.SessionStore = "redis"
	}

	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.Tracking.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("EXPORT_S3_BUCKET"); v != "" {
		cfg.Export.S3Bucket = v
	}
	if v := os.Getenv("EXPORT_S3_REGION"); v != "" {
		cfg.Export.S3Region = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg, nil
}

// Validate checks the combinations Load cannot default.
func (cfg *Config) Validate() error {
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver: unsupported %q", cfg.Database.Driver)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	switch cfg.Mail.Transport {
	case "log":
	case "smtp":
		if cfg.SMTP.Host == "" {
			return fmt.Errorf("smtp.host is required for the smtp transport")
		}
	case "ses":
	default:
		return fmt.Errorf("mail.transport: unsupported %q", cfg.Mail.Transport)
	}
	switch cfg.Auth.SessionStore {
	case "memory":
	case "redis":
		if cfg.Redis.URL == "" {
			return fmt.Errorf("redis.url is required for the redis session store")
		}
	default:
		return fmt.Errorf("auth.session_store: unsupported %q", cfg.Auth.SessionStore)
	}
	return nil
}
