package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Port           int
	AllowedOrigins string
	BodyLimitBytes int
	RateLimitMax   int
	RateLimitWinS  int
}

// DBConfig builds the Postgres DSN. DATABASE_URL wins when set.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
}

func (c DBConfig) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

type AuthConfig struct {
	JWTSecret string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
}

// Load reads configuration from the environment (and an optional .env file
// already loaded by godotenv in main). Env vars always win.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // .env is optional
	v.AutomaticEnv()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Port:           v.GetInt("PORT"),
			AllowedOrigins: v.GetString("ALLOWED_ORIGINS"),
			BodyLimitBytes: v.GetInt("BODY_LIMIT_BYTES"),
			RateLimitMax:   v.GetInt("RATE_LIMIT_MAX"),
			RateLimitWinS:  v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
		},
		Auth: AuthConfig{
			// Prefer JWT_SECRET_KEY, fall back to JWT_SECRET
			JWTSecret: firstNonEmpty(v.GetString("JWT_SECRET_KEY"), v.GetString("JWT_SECRET")),
		},
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.AllowedOrigins == "" {
		cfg.HTTP.AllowedOrigins = "*"
	}
	if cfg.HTTP.BodyLimitBytes <= 0 {
		cfg.HTTP.BodyLimitBytes = 4 * 1024 * 1024
	}
	if cfg.HTTP.RateLimitMax <= 0 {
		cfg.HTTP.RateLimitMax = 60
	}
	if cfg.HTTP.RateLimitWinS <= 0 {
		cfg.HTTP.RateLimitWinS = 60
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "postgres"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "hvacdesk"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
}

func validate(cfg *Config) error {
	if cfg.DB.DatabaseURL == "" && strings.TrimSpace(cfg.DB.Password) == "" && cfg.Environment != "development" {
		return fmt.Errorf("DB_PASSWORD (or DATABASE_URL) is required outside development")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return fmt.Errorf("JWT secret not configured (set JWT_SECRET_KEY or JWT_SECRET)")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
