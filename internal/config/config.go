// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Auth      AuthConfig      `koanf:"auth"`
	Bootstrap BootstrapConfig `koanf:"bootstrap"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Mail      MailConfig      `koanf:"mail"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

// AuthConfig covers token issuance and the accepted credential sources.
// TokenHeader is the header read for bearer tokens; a "Bearer " prefix on
// its value is optional.
type AuthConfig struct {
	PrivateKeyPath string        `koanf:"private_key_path"`
	PublicKeyPath  string        `koanf:"public_key_path"`
	TokenExpire    time.Duration `koanf:"token_expire"`
	Issuer         string        `koanf:"issuer"`
	Audience       string        `koanf:"audience"`
	TokenHeader    string        `koanf:"token_header"`
	TokenQueryKey  string        `koanf:"token_query_key"`
	SessionCookie  string        `koanf:"session_cookie"`
	SessionTTL     time.Duration `koanf:"session_ttl"`
	CookieSecure   bool          `koanf:"cookie_secure"`
}

type BootstrapConfig struct {
	AdminEmail        string `koanf:"admin_email"`
	AdminPasswordHash string `koanf:"admin_password_hash"`
}

// RateLimitConfig holds the per-address budget applied to every request
// and the per-account budget applied once a caller is authenticated. Both
// share the window.
type RateLimitConfig struct {
	Requests     int           `koanf:"requests"`
	Window       time.Duration `koanf:"window"`
	Burst        int           `koanf:"burst"`
	UserRequests int           `koanf:"user_requests"`
	UserBurst    int           `koanf:"user_burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type MailConfig struct {
	Enabled            bool   `koanf:"enabled"`
	SMTPHost           string `koanf:"smtp_host"`
	SMTPPort           int    `koanf:"smtp_port"`
	Username           string `koanf:"username"`
	Password           string `koanf:"password"`
	FromEmail          string `koanf:"from_email"`
	FromName           string `koanf:"from_name"`
	UseTLS             bool   `koanf:"use_tls"`
	UseSSL             bool   `koanf:"use_ssl"`
	InsecureSkipVerify bool   `koanf:"insecure_skip_verify"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// Load layers defaults, the optional YAML file and mapped environment
// variables, in that order.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "EatMe",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.auto_migrate":       true,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"auth.private_key_path": "keys/private.pem",
		"auth.public_key_path":  "keys/public.pem",
		"auth.token_expire":     "24h",
		"auth.issuer":           "eatme",
		"auth.audience":         "eatme-api",
		"auth.token_header":     "Authorization",
		"auth.token_query_key":  "auth_token",
		"auth.session_cookie":   "session",
		"auth.session_ttl":      "168h",
		"auth.cookie_secure":    false,

		"bootstrap.admin_email": "root@localhost",

		"rate_limit.requests":      100,
		"rate_limit.window":        "1m",
		"rate_limit.burst":         20,
		"rate_limit.user_requests": 300,
		"rate_limit.user_burst":    50,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Authentication-Token",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"mail.enabled":   false,
		"mail.smtp_port": 587,
		"mail.use_tls":   true,
		"mail.from_name": "EatMe",

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "eatme",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"DATABASE_AUTO_MIGRATE":       "database.auto_migrate",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"AUTH_PRIVATE_KEY_PATH":       "auth.private_key_path",
	"AUTH_PUBLIC_KEY_PATH":        "auth.public_key_path",
	"AUTH_TOKEN_EXPIRE":           "auth.token_expire",
	"AUTH_TOKEN_HEADER":           "auth.token_header",
	"AUTH_SESSION_COOKIE":         "auth.session_cookie",
	"AUTH_SESSION_TTL":            "auth.session_ttl",
	"AUTH_COOKIE_SECURE":          "auth.cookie_secure",
	"AUTH_ISSUER":                 "auth.issuer",
	"AUTH_AUDIENCE":               "auth.audience",
	"ADMIN_EMAIL":                 "bootstrap.admin_email",
	"ADMIN_PASSWORD_HASH":         "bootstrap.admin_password_hash",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"RATE_LIMIT_USER_REQUESTS":    "rate_limit.user_requests",
	"RATE_LIMIT_USER_BURST":       "rate_limit.user_burst",
	"MAIL_ENABLED":                "mail.enabled",
	"SMTP_HOST":                   "mail.smtp_host",
	"SMTP_PORT":                   "mail.smtp_port",
	"SMTP_USERNAME":               "mail.username",
	"SMTP_PASSWORD":               "mail.password",
	"MAIL_FROM":                   "mail.from_email",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Auth.PrivateKeyPath == "" {
		return fmt.Errorf("AUTH_PRIVATE_KEY_PATH is required")
	}

	if strings.TrimSpace(c.Auth.TokenHeader) == "" {
		return fmt.Errorf("auth.token_header must not be empty")
	}

	if c.Auth.SessionCookie == "" {
		return fmt.Errorf("auth.session_cookie must not be empty")
	}

	if c.Auth.TokenExpire <= 0 {
		return fmt.Errorf("auth.token_expire must be positive")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.Mail.Enabled {
		if c.Mail.SMTPHost == "" || c.Mail.FromEmail == "" {
			return fmt.Errorf("SMTP_HOST and MAIL_FROM are required when mail is enabled")
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
		if !c.Auth.CookieSecure {
			return fmt.Errorf("AUTH_COOKIE_SECURE must be true in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
