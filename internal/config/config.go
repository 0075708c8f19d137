package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// LoadEnv seeds the process environment from a .env file when one exists.
// It reports whether a file was loaded; variables already set are kept.
func LoadEnv() bool {
	return godotenv.Load() == nil
}

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config %s: %q is not an integer", key, v)
	}
	return n, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config %s: %q is not a duration", key, v)
	}
	return d, nil
}

// OSRMConfig addresses the routing service table endpoint.
type OSRMConfig struct {
	BaseURL     string        `validate:"required,url"`
	Profile     string        `validate:"required"`
	Timeout     time.Duration `validate:"gt=0"`
	MaxAttempts int           `validate:"gte=1,lte=10"`
}

func LoadOSRM() (OSRMConfig, error) {
	cfg := OSRMConfig{
		BaseURL: Get("OSRM_URL", "http://127.0.0.1:5001"),
		Profile: Get("OSRM_PROFILE", "walking"),
	}

	var err error
	if cfg.Timeout, err = GetDuration("OSRM_TIMEOUT", 60*time.Second); err != nil {
		return OSRMConfig{}, err
	}
	if cfg.MaxAttempts, err = GetInt("OSRM_MAX_ATTEMPTS", 1); err != nil {
		return OSRMConfig{}, err
	}

	if err := validate.Struct(cfg); err != nil {
		return OSRMConfig{}, fmt.Errorf("osrm config: %w", err)
	}
	return cfg, nil
}

// CacheConfig selects and addresses the pair store.
type CacheConfig struct {
	Backend       string `validate:"oneof=redis postgres sqlite"`
	RedisAddr     string `validate:"required_if=Backend redis"`
	RedisPassword string
	RedisDB       int    `validate:"gte=0"`
	DatabaseURL   string `validate:"required_if=Backend postgres"`
	DBPath        string `validate:"required_if=Backend sqlite"`
}

func LoadCache() (CacheConfig, error) {
	cfg := CacheConfig{
		Backend:       strings.ToLower(Get("CACHE_BACKEND", "redis")),
		RedisAddr:     Get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:   Get("DATABASE_URL", ""),
		DBPath:        Get("DB_PATH", "data/footpaths.db"),
	}

	var err error
	if cfg.RedisDB, err = GetInt("REDIS_DB", 0); err != nil {
		return CacheConfig{}, err
	}

	if err := validate.Struct(cfg); err != nil {
		return CacheConfig{}, fmt.Errorf("cache config: %w", err)
	}
	return cfg, nil
}
