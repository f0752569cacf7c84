// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL           = "http://localhost:8000/api/v1"
	DefaultGeocoderURL      = "https://nominatim.openstreetmap.org/search"
	DefaultPlaceholderImage = "https://img.yad2.co.il/Pic/202509/01/2_1/o/y2_1_05759_20250901122144.jpeg?c=6"
)

type Config struct {
	APIURL     string
	ServerPort string

	SessionBackend string
	SessionPath    string
	RedisURL       string
	RedisPrefix    string
	DatabaseURL    string

	GeocoderURL     string
	GeocoderRetries int

	HTTPTimeout      time.Duration
	PlaceholderImage string
	UserAgent        string
	StrictNumbers    bool
	LogLevel         string
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] ignoring .env: %v", err)
	}

	cfg := &Config{
		APIURL:     strings.TrimRight(getEnv("HOMEFINDER_API_URL", DefaultAPIURL), "/"),
		ServerPort: getEnv("HOMEFINDER_SERVER_PORT", ":8080"),

		SessionBackend: strings.ToLower(getEnv("HOMEFINDER_SESSION_BACKEND", "file")),
		SessionPath:    getEnv("HOMEFINDER_SESSION_PATH", defaultSessionPath()),
		RedisURL:       getEnv("HOMEFINDER_REDIS_URL", "redis://localhost:6379/0"),
		RedisPrefix:    getEnv("HOMEFINDER_REDIS_PREFIX", "session:"),
		DatabaseURL:    getEnv("HOMEFINDER_DATABASE_URL", ""),

		GeocoderURL:     getEnv("HOMEFINDER_GEOCODER_URL", DefaultGeocoderURL),
		GeocoderRetries: getEnvInt("HOMEFINDER_GEOCODER_RETRIES", 1),

		HTTPTimeout:      getEnvDuration("HOMEFINDER_HTTP_TIMEOUT", 15*time.Second),
		PlaceholderImage: getEnv("HOMEFINDER_PLACEHOLDER_IMAGE", DefaultPlaceholderImage),
		UserAgent:        getEnv("HOMEFINDER_USER_AGENT", "homefinder-client/1.0"),
		StrictNumbers:    getEnvBool("HOMEFINDER_STRICT_NUMBERS", false),
		LogLevel:         strings.ToLower(getEnv("HOMEFINDER_LOG_LEVEL", "info")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(c.APIURL); err != nil {
		return fmt.Errorf("config: invalid HOMEFINDER_API_URL %q: %w", c.APIURL, err)
	}
	if _, err := url.ParseRequestURI(c.GeocoderURL); err != nil {
		return fmt.Errorf("config: invalid HOMEFINDER_GEOCODER_URL %q: %w", c.GeocoderURL, err)
	}
	switch c.SessionBackend {
	case "file", "redis", "postgres", "memory":
	default:
		return fmt.Errorf("config: unknown session backend %q", c.SessionBackend)
	}
	if c.SessionBackend == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("config: HOMEFINDER_DATABASE_URL is required for the postgres session backend")
	}
	if c.GeocoderRetries < 1 {
		c.GeocoderRetries = 1
	}
	return nil
}

// APIOrigin is the API URL without the versioned prefix. Upload URLs returned by
// the backend are relative to it.
func (c *Config) APIOrigin() string {
	return strings.TrimSuffix(c.APIURL, "/api/v1")
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".homefinder/session.json"
	}
	return home + "/.homefinder/session.json"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}
