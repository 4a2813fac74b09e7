package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Minio    MinioConfig    `yaml:"minio"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
	// TrustedProxies lists the CIDR ranges allowed to set X-Forwarded-For.
	// Empty means the socket peer is the client.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// AuthConfig holds token lifetimes and the brute-force guard settings.
type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret"`
	AdminTokenTTL    time.Duration `yaml:"admin_token_ttl"`
	HiddenTokenTTL   time.Duration `yaml:"hidden_token_ttl"`
	BookmarkTokenTTL time.Duration `yaml:"bookmark_token_ttl"`
	MaxLoginAttempts int           `yaml:"max_login_attempts"`
	LockoutDuration  time.Duration `yaml:"lockout_duration"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns a configuration suitable for local development.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        6966,
			CORSOrigins: []string{"*"},
		},
		Auth: AuthConfig{
			AdminTokenTTL:    24 * time.Hour,
			HiddenTokenTTL:   10 * time.Minute,
			BookmarkTokenTTL: 30 * time.Minute,
			MaxLoginAttempts: 5,
			LockoutDuration:  15 * time.Minute,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Minio: MinioConfig{
			Endpoint:  "localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Bucket:    "navhub-icons",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load applies defaults, then the optional YAML file at path, then .env and
// process environment variables, in that order of increasing precedence.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Database.URL = getEnv("DATABASE_URL", c.Database.URL)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Minio.Endpoint = getEnv("MINIO_ENDPOINT", c.Minio.Endpoint)
	c.Minio.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Minio.AccessKey)
	c.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", c.Minio.SecretKey)
	c.Minio.Bucket = getEnv("MINIO_BUCKET", c.Minio.Bucket)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = strings.Split(origins, ",")
	}
	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		c.Server.TrustedProxies = strings.Split(proxies, ",")
	}

	var err error
	if c.Server.Port, err = getEnvInt("PORT", c.Server.Port); err != nil {
		return err
	}
	if c.Redis.DB, err = getEnvInt("REDIS_DB", c.Redis.DB); err != nil {
		return err
	}
	if c.Auth.MaxLoginAttempts, err = getEnvInt("MAX_LOGIN_ATTEMPTS", c.Auth.MaxLoginAttempts); err != nil {
		return err
	}
	if c.Minio.UseSSL, err = getEnvBool("MINIO_USE_SSL", c.Minio.UseSSL); err != nil {
		return err
	}
	if c.Auth.AdminTokenTTL, err = getEnvDuration("ADMIN_TOKEN_TTL", c.Auth.AdminTokenTTL); err != nil {
		return err
	}
	if c.Auth.HiddenTokenTTL, err = getEnvDuration("HIDDEN_TOKEN_TTL", c.Auth.HiddenTokenTTL); err != nil {
		return err
	}
	if c.Auth.BookmarkTokenTTL, err = getEnvDuration("BOOKMARK_TOKEN_TTL", c.Auth.BookmarkTokenTTL); err != nil {
		return err
	}
	if c.Auth.LockoutDuration, err = getEnvDuration("LOCKOUT_DURATION", c.Auth.LockoutDuration); err != nil {
		return err
	}
	return nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Auth.AdminTokenTTL <= 0 || c.Auth.HiddenTokenTTL <= 0 || c.Auth.BookmarkTokenTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.Auth.MaxLoginAttempts <= 0 {
		return errors.New("max login attempts must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
