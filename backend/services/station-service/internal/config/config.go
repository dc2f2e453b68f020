package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	libconfig "chargehub/backend/libs/config"
)

// Config represents service configuration loaded from .env, YAML and env.
type Config struct {
	HTTP struct {
		Port        string   `yaml:"port" env:"STATION_HTTP_PORT"`
		CORSOrigins []string `yaml:"corsOrigins" env:"STATION_CORS_ORIGINS"`
	} `yaml:"http"`
	Database struct {
		DSN             string        `yaml:"dsn" env:"STATION_POSTGRES_DSN"`
		MaxOpenConns    int           `yaml:"maxOpenConns" env:"STATION_POSTGRES_MAX_OPEN_CONNS"`
		MaxIdleConns    int           `yaml:"maxIdleConns" env:"STATION_POSTGRES_MAX_IDLE_CONNS"`
		ConnMaxLifetime time.Duration `yaml:"connMaxLifetime" env:"STATION_POSTGRES_CONN_MAX_LIFETIME"`
		Migrate         bool          `yaml:"migrate" env:"STATION_POSTGRES_MIGRATE"`
	} `yaml:"database"`
	Redis struct {
		Addr       string `yaml:"addr" env:"STATION_REDIS_ADDR"`
		Password   string `yaml:"password" env:"STATION_REDIS_PASSWORD"`
		DB         int    `yaml:"db" env:"STATION_REDIS_DB"`
		TTLSeconds int    `yaml:"ttlSeconds" env:"STATION_CACHE_TTL_SECONDS"`
	} `yaml:"redis"`
	JWT struct {
		Secret    string        `yaml:"secret" env:"STATION_JWT_SECRET"`
		ExpiresIn time.Duration `yaml:"expiresIn" env:"STATION_JWT_EXPIRES_IN"`
	} `yaml:"jwt"`
	Cookie struct {
		Name     string `yaml:"name" env:"STATION_COOKIE_NAME"`
		Secure   bool   `yaml:"secure" env:"STATION_COOKIE_SECURE"`
		SameSite string `yaml:"sameSite" env:"STATION_COOKIE_SAMESITE"`
	} `yaml:"cookie"`
	Firebase struct {
		ProjectID string `yaml:"projectId" env:"STATION_FIREBASE_PROJECT_ID"`
		CertsURL  string `yaml:"certsUrl" env:"STATION_FIREBASE_CERTS_URL"`
	} `yaml:"firebase"`
	Live struct {
		PingInterval time.Duration `yaml:"pingInterval" env:"STATION_LIVE_PING_INTERVAL"`
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"STATION_LIVE_WRITE_TIMEOUT"`
	} `yaml:"live"`
	Log struct {
		Level      string `yaml:"level" env:"LOG_LEVEL"`
		File       string `yaml:"file" env:"LOG_FILE"`
		MaxSizeMB  int    `yaml:"maxSizeMb" env:"LOG_MAX_SIZE_MB"`
		MaxBackups int    `yaml:"maxBackups" env:"LOG_MAX_BACKUPS"`
		MaxAgeDays int    `yaml:"maxAgeDays" env:"LOG_MAX_AGE_DAYS"`
	} `yaml:"log"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Database.Migrate = true
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTLSeconds = 3600
	cfg.JWT.ExpiresIn = 7 * 24 * time.Hour
	cfg.Cookie.Name = "token"
	cfg.Cookie.SameSite = "lax"

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("config: database DSN is required")
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("config: jwt secret is required")
	}
	if strings.TrimSpace(c.Redis.Addr) == "" {
		return errors.New("config: redis addr is required")
	}
	if _, err := parseSameSite(c.Cookie.SameSite); err != nil {
		return err
	}
	return nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration returns token lifetime, one week by default.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresIn <= 0 {
		return 7 * 24 * time.Hour
	}
	return c.JWT.ExpiresIn
}

// CacheTTL returns the expiration of cached reads.
func (c *Config) CacheTTL() time.Duration {
	if c.Redis.TTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

// CookieSameSite returns the configured SameSite mode.
func (c *Config) CookieSameSite() http.SameSite {
	mode, _ := parseSameSite(c.Cookie.SameSite)
	return mode
}

func parseSameSite(v string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	}
	return 0, fmt.Errorf("config: unknown cookie sameSite %q", v)
}
