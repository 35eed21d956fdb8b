package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "SWEETSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	App     AppConfig
	Data    DataConfig
	Admin   AdminConfig
	Session SessionConfig
	Redis   RedisConfig
	CORS    CORSConfig
	SMTP    SMTPConfig
	TLS     TLSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Session.Store) {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("SWEETSHOP_REDIS_URL is required when the session store is redis")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		return fmt.Errorf("one of SWEETSHOP_ADMIN_PASSWORD or SWEETSHOP_ADMIN_PASSWORD_HASH is required")
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"SWEETSHOP_APP_ENV" default:"dev"`
	Port         string `envconfig:"SWEETSHOP_PORT" default:"3000"`
	LogLevel     string `envconfig:"SWEETSHOP_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SWEETSHOP_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"SWEETSHOP_LOG_WARN_STACK" default:"false"`
	TemplateDir  string `envconfig:"SWEETSHOP_TEMPLATE_DIR"`
	StaticDir    string `envconfig:"SWEETSHOP_STATIC_DIR" default:"./public"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DataConfig struct {
	DocumentPath string `envconfig:"SWEETSHOP_DATA_FILE" default:"./data/db.json"`
	MessagesPath string `envconfig:"SWEETSHOP_MESSAGES_FILE" default:"./data/messages.json"`
	UploadDir    string `envconfig:"SWEETSHOP_UPLOAD_DIR" default:"./public/uploads"`
	Seed         bool   `envconfig:"SWEETSHOP_DATA_SEED" default:"true"`
}

type AdminConfig struct {
	Username     string `envconfig:"SWEETSHOP_ADMIN_USERNAME" default:"admin"`
	Password     string `envconfig:"SWEETSHOP_ADMIN_PASSWORD"`
	PasswordHash string `envconfig:"SWEETSHOP_ADMIN_PASSWORD_HASH"`
}

type SessionConfig struct {
	Store      string        `envconfig:"SWEETSHOP_SESSION_STORE" default:"memory"`
	CookieName string        `envconfig:"SWEETSHOP_SESSION_COOKIE" default:"sweetshop_session"`
	TTL        time.Duration `envconfig:"SWEETSHOP_SESSION_TTL" default:"24h"`
	Secure     bool          `envconfig:"SWEETSHOP_SESSION_SECURE" default:"false"`
}

type RedisConfig struct {
	URL         string        `envconfig:"SWEETSHOP_REDIS_URL"`
	KeyPrefix   string        `envconfig:"SWEETSHOP_REDIS_KEY_PREFIX" default:"sweetshop"`
	DialTimeout time.Duration `envconfig:"SWEETSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SWEETSHOP_CORS_ALLOWED_ORIGINS"`
}

type SMTPConfig struct {
	Host     string `envconfig:"SWEETSHOP_SMTP_HOST" default:"smtp.gmail.com"`
	Port     int    `envconfig:"SWEETSHOP_SMTP_PORT" default:"587"`
	User     string `envconfig:"SWEETSHOP_SMTP_USER"`
	Password string `envconfig:"SWEETSHOP_SMTP_PASS"`
	NotifyTo string `envconfig:"SWEETSHOP_SMTP_NOTIFY_TO"`
}

// Enabled reports whether outgoing mail is configured.
func (s SMTPConfig) Enabled() bool {
	return s.User != "" && s.Password != ""
}

type TLSConfig struct {
	Enabled      bool   `envconfig:"SWEETSHOP_TLS_ENABLED" default:"false"`
	Port         string `envconfig:"SWEETSHOP_TLS_PORT" default:"8443"`
	CertFile     string `envconfig:"SWEETSHOP_TLS_CERT_FILE"`
	KeyFile      string `envconfig:"SWEETSHOP_TLS_KEY_FILE"`
	Hosts        string `envconfig:"SWEETSHOP_TLS_HOSTS" default:"localhost,127.0.0.1"`
	RedirectHTTP bool   `envconfig:"SWEETSHOP_TLS_REDIRECT_HTTP" default:"true"`
}
