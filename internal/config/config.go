package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// DefaultBaseURL is the Google Geocoding JSON endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Audit backends.
const (
	AuditMemory   = "memory"
	AuditPostgres = "postgres"
	AuditKafka    = "kafka"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Google geocoding client configuration.
	APIKey           string
	BaseURL          string
	DefaultCountry   string
	DefaultLanguage  string
	FallbackLanguage string
	CacheDuration    time.Duration
	Timeout          time.Duration
	LogErrors        bool
	LogRequests      bool

	// Result cache.
	CacheBackend  string
	CacheSize     int
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Request audit log.
	AuditBackends       []string
	AuditMemoryCapacity int
	DatabaseURL         string
	KafkaBrokers        []string
	KafkaAuditTopic     string
}

// Load reads configuration from environment variables, applying defaults where unset.
// The API key is not validated here; the geocoding client rejects an empty key.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("GOOGLE_GEOCODING_TIMEOUT", "5s"))
	if err != nil || timeout <= 0 {
		return nil, errors.New("invalid GOOGLE_GEOCODING_TIMEOUT")
	}

	cacheMinutes, err := strconv.Atoi(sharedcfg.EnvOrDefault("GOOGLE_GEOCODING_CACHE_DURATION", "43200"))
	if err != nil || cacheMinutes <= 0 {
		return nil, errors.New("invalid GOOGLE_GEOCODING_CACHE_DURATION: must be a positive number of minutes")
	}

	redisDB, err := strconv.Atoi(sharedcfg.EnvOrDefault("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		return nil, errors.New("invalid REDIS_DB")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		APIKey:           os.Getenv("GOOGLE_GEOCODING_API"),
		BaseURL:          sharedcfg.EnvOrDefault("GOOGLE_GEOCODING_URL", DefaultBaseURL),
		DefaultCountry:   os.Getenv("GOOGLE_GEOCODING_COUNTRY"),
		DefaultLanguage:  os.Getenv("GOOGLE_GEOCODING_LANGUAGE"),
		FallbackLanguage: sharedcfg.EnvOrDefault("GOOGLE_GEOCODING_FALLBACK_LANGUAGE", "en"),
		CacheDuration:    time.Duration(cacheMinutes) * time.Minute,
		Timeout:          timeout,
		LogErrors:        parseBool("GOOGLE_GEOCODING_LOG_ERRORS"),
		LogRequests:      parseBool("GOOGLE_GEOCODING_LOG_REQUESTS"),

		CacheBackend:  strings.ToLower(sharedcfg.EnvOrDefault("CACHE_BACKEND", CacheMemory)),
		CacheSize:     parsePositiveInt("CACHE_SIZE", 1000),
		RedisAddr:     sharedcfg.EnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		AuditBackends:       parseList(sharedcfg.EnvOrDefault("AUDIT_BACKEND", AuditMemory)),
		AuditMemoryCapacity: parsePositiveInt("AUDIT_MEMORY_CAPACITY", 1000),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		KafkaBrokers:        sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAuditTopic:     sharedcfg.EnvOrDefault("KAFKA_AUDIT_TOPIC", "google-geocoding-audit"),
	}

	if cfg.CacheBackend != CacheMemory && cfg.CacheBackend != CacheRedis {
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q", cfg.CacheBackend)
	}
	for _, b := range cfg.AuditBackends {
		switch b {
		case AuditMemory, AuditKafka:
		case AuditPostgres:
			if cfg.DatabaseURL == "" {
				return nil, errors.New("AUDIT_BACKEND includes postgres but DATABASE_URL is not set")
			}
		default:
			return nil, fmt.Errorf("invalid AUDIT_BACKEND %q", b)
		}
	}
	if cfg.UsesAudit(AuditKafka) && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required for the kafka audit backend")
	}

	return cfg, nil
}

// UsesAudit reports whether backend is one of the configured audit backends.
func (c *Config) UsesAudit(backend string) bool {
	return slices.Contains(c.AuditBackends, backend)
}

func parseBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func parsePositiveInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
