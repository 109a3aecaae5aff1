package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Collections names the MongoDB collections used by the service.
type Collections struct {
	Providers           string
	Services            string
	Reviews             string
	FailedNotifications string
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                   string
	Env                    string
	LogLevel               string
	MongoURI               string
	MongoDatabase          string
	MongoConnectTimeout    time.Duration
	Collections            Collections
	AllowedOrigins         []string
	MediaBaseURL           string
	Timezone               string
	JWTConfigs             []JWTConfig
	JWTAudience            string
	MessengerEndpoint      string
	MessengerDestination   string
	MessengerTimeout       time.Duration
	DiscoveryMaxPageSize   int
	AggregationConcurrency int
	RequestTimeout         time.Duration
}

// Load reads environment variables, optionally preloaded from envPath (or
// ./.env when omitted), and returns a fully populated Config.
func Load(envPath ...string) (Config, error) {
	if err := godotenv.Load(envPath...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var (
		cfg Config
		err error
	)

	if cfg.MongoConnectTimeout, err = envDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.MessengerTimeout, err = envDuration("MESSENGER_GATEWAY_TIMEOUT", 3*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = envDuration("REQUEST_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.DiscoveryMaxPageSize, err = envInt("DISCOVERY_MAX_PAGE_SIZE", 100); err != nil {
		return Config{}, err
	}
	if cfg.AggregationConcurrency, err = envInt("DISCOVERY_AGGREGATION_CONCURRENCY", 8); err != nil {
		return Config{}, err
	}

	if secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")); secret != "" {
		cfg.JWTConfigs = append(cfg.JWTConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_JWT_ISSUER", "service-hub-auth"),
			Secret: []byte(secret),
		})
	}
	if secret := strings.TrimSpace(os.Getenv("AUTH_SECONDARY_JWT_SECRET")); secret != "" {
		cfg.JWTConfigs = append(cfg.JWTConfigs, JWTConfig{
			Issuer: strings.TrimSpace(os.Getenv("AUTH_SECONDARY_JWT_ISSUER")),
			Secret: []byte(secret),
		})
	}
	if len(cfg.JWTConfigs) == 0 {
		return Config{}, errors.New("JWT secrets not configured. Set AUTH_JWT_SECRET")
	}
	cfg.JWTAudience = strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE"))

	cfg.Addr = envOrDefault("HTTP_ADDR", ":8080")
	cfg.Env = envOrDefault("APP_ENV", "local")
	cfg.LogLevel = envOrDefault("LOG_LEVEL", "info")
	cfg.MongoURI = envOrDefault("MONGO_URI", "mongodb://mongo:27017")
	cfg.MongoDatabase = envOrDefault("MONGO_DB", "service-hub")
	cfg.Collections = Collections{
		Providers:           envOrDefault("PROVIDER_COLLECTION", "providers"),
		Services:            envOrDefault("SERVICE_COLLECTION", "services"),
		Reviews:             envOrDefault("REVIEW_COLLECTION", "reviews"),
		FailedNotifications: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
	}
	cfg.AllowedOrigins = parseList("API_ALLOWED_ORIGINS", []string{"*"})
	cfg.MediaBaseURL = strings.TrimSpace(os.Getenv("MEDIA_BASE_URL"))
	cfg.Timezone = envOrDefault("TIMEZONE", "UTC")
	cfg.MessengerEndpoint = strings.TrimRight(strings.TrimSpace(os.Getenv("MESSENGER_GATEWAY_URL")), "/")
	cfg.MessengerDestination = envOrDefault("MESSENGER_GATEWAY_DESTINATION", "line")

	return cfg, nil
}

// Production reports whether the service runs with production settings.
func (c Config) Production() bool {
	return c.Env == "prod"
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	return parsed, nil
}

func envInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("%s: must be a positive integer, got %q", key, raw)
	}
	return parsed, nil
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
