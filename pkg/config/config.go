package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Server      ServerConfig
	Database    DatabaseConfig
	Recommender RecommenderConfig
	Breaker     BreakerConfig
	RateLimit   RateLimitConfig
	Tracing     TracingConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string        `validate:"required,numeric"`
	RequestTimeout time.Duration `validate:"gt=0"`
	AllowOrigins   []string      `validate:"min=1"`
}

type DatabaseConfig struct {
	Driver       string `validate:"oneof=sqlite postgres"`
	Path         string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	QueryTimeout time.Duration `validate:"gt=0"`
	MaxOpenConns int           `validate:"gte=1"`
	MaxIdleConns int           `validate:"gte=0"`
}

// RecommenderConfig points at the precomputed recommendation tables.
type RecommenderConfig struct {
	UserRecsPath    string `validate:"required"`
	ContentRecsPath string `validate:"required"`
}

type BreakerConfig struct {
	FailureThreshold uint32        `validate:"gte=1"`
	OpenTimeout      time.Duration `validate:"gt=0"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"gte=0"`
}

// TracingConfig drives pkg/tracing. An empty Endpoint selects the stdout
// exporter.
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	Insecure    bool
	SampleRatio float64 `validate:"gte=0,lte=1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	requestTimeout, err := getDuration("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	queryTimeout, err := getDuration("DB_QUERY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	breakerTimeout, err := getDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	maxOpen, err := getInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return nil, err
	}
	maxIdle, err := getInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, err
	}
	failureThreshold, err := getInt("BREAKER_FAILURE_THRESHOLD", 5)
	if err != nil {
		return nil, err
	}
	rps, err := getFloat("RATE_LIMIT_RPS", 0)
	if err != nil {
		return nil, err
	}
	otelEnabled, err := getBool("OTEL_ENABLED", false)
	if err != nil {
		return nil, err
	}
	otelInsecure, err := getBool("OTEL_EXPORTER_OTLP_INSECURE", false)
	if err != nil {
		return nil, err
	}
	sampleRatio, err := getFloat("OTEL_SAMPLER_RATIO", 0.1)
	if err != nil {
		return nil, err
	}
	if failureThreshold < 0 {
		return nil, errors.New("invalid BREAKER_FAILURE_THRESHOLD: must not be negative")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Movie Recommendation API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8000"),
			RequestTimeout: requestTimeout,
			AllowOrigins:   splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Path:         getEnv("DB_PATH", "Movies.db"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "movies"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			QueryTimeout: queryTimeout,
			MaxOpenConns: maxOpen,
			MaxIdleConns: maxIdle,
		},
		Recommender: RecommenderConfig{
			UserRecsPath:    getEnv("USER_RECS_PATH", "recommender.csv"),
			ContentRecsPath: getEnv("CONTENT_RECS_PATH", "content_recommendations.csv"),
		},
		Breaker: BreakerConfig{
			FailureThreshold: uint32(failureThreshold),
			OpenTimeout:      breakerTimeout,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: rps,
		},
		Tracing: TracingConfig{
			Enabled:     otelEnabled,
			Endpoint:    strings.TrimSpace(getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")),
			Insecure:    otelInsecure,
			SampleRatio: sampleRatio,
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Database.Driver == "sqlite" && cfg.Database.Path == "" {
		return nil, errors.New("missing database path")
	}

	if cfg.Database.Driver == "postgres" && cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

// PostgresDSN builds the connection string used by the postgres driver.
func (c DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultVal int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultVal float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getBool(key string, defaultVal bool) (bool, error) {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch raw {
	case "":
		return defaultVal, nil
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid %s: %q is not a boolean", key, raw)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
