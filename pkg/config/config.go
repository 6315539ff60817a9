package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Inference   InferenceConfig
	Recommender RecommenderConfig
	FAQ         FAQConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
	AllowOrigins   []string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	AnswerTTL     time.Duration
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool {
	return r.RedisHost != ""
}

type InferenceConfig struct {
	BaseURL      string
	APIName      string
	Token        string
	Timeout      time.Duration
	RatePerSec   float64
	Burst        int
	BreakerTrips uint32

	// BreakerCooldown is how long the breaker stays open before probing again
	BreakerCooldown time.Duration
}

type RecommenderConfig struct {
	GWATolerance        float64
	CollabSaturation    float64
	CollabPriorWeight   float64
	RetrainAfterSaving  bool
	CatalogFromDatabase bool
}

type FAQConfig struct {
	ConfidenceThreshold float64
	MaxSuggestions      int
	PersistLearned      bool
	PublishLearned      bool
	BankCacheTTL        time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error

	redisDB := getEnvInt("REDIS_DB", 0, &errs)
	breakerTrips := getEnvInt("INFERENCE_BREAKER_TRIPS", 5, &errs)
	if breakerTrips < 1 {
		errs = append(errs, fmt.Errorf("invalid INFERENCE_BREAKER_TRIPS: must be at least 1, got %d", breakerTrips))
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Admission Advisor"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "5000"),
			RequestTimeout: getEnvDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second, &errs),
			AllowOrigins:   []string{getEnv("CORS_ALLOW_ORIGIN", "http://localhost:5000")},
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "admission_advisor"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", ""),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			AnswerTTL:     getEnvDuration("REDIS_ANSWER_TTL", 24*time.Hour, &errs),
		},
		Inference: InferenceConfig{
			BaseURL:         getEnv("INFERENCE_BASE_URL", "https://markobinario-flaskbot.hf.space"),
			APIName:         getEnv("INFERENCE_API_NAME", "chat"),
			Token:           getEnv("INFERENCE_TOKEN", ""),
			Timeout:         getEnvDuration("INFERENCE_TIMEOUT", 20*time.Second, &errs),
			RatePerSec:      getEnvFloat("INFERENCE_RATE_PER_SEC", 5, &errs),
			Burst:           getEnvInt("INFERENCE_BURST", 5, &errs),
			BreakerTrips:    uint32(max(breakerTrips, 1)),
			BreakerCooldown: getEnvDuration("INFERENCE_BREAKER_COOLDOWN", 30*time.Second, &errs),
		},
		Recommender: RecommenderConfig{
			GWATolerance:        getEnvFloat("RECOMMENDER_GWA_TOLERANCE", 5.0, &errs),
			CollabSaturation:    getEnvFloat("RECOMMENDER_COLLAB_SATURATION", 10, &errs),
			CollabPriorWeight:   getEnvFloat("RECOMMENDER_COLLAB_PRIOR_WEIGHT", 2, &errs),
			RetrainAfterSaving:  getEnvBool("RECOMMENDER_RETRAIN_AFTER_FEEDBACK", true, &errs),
			CatalogFromDatabase: getEnvBool("RECOMMENDER_CATALOG_FROM_DB", false, &errs),
		},
		FAQ: FAQConfig{
			ConfidenceThreshold: getEnvFloat("FAQ_CONFIDENCE_THRESHOLD", 0.55, &errs),
			MaxSuggestions:      getEnvInt("FAQ_MAX_SUGGESTIONS", 3, &errs),
			PersistLearned:      getEnvBool("FAQ_PERSIST_LEARNED", false, &errs),
			PublishLearned:      getEnvBool("FAQ_PUBLISH_LEARNED", false, &errs),
			BankCacheTTL:        getEnvDuration("FAQ_BANK_CACHE_TTL", 0, &errs),
		},
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "mysql" {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if cfg.Inference.Timeout <= 0 {
		return nil, errors.New("inference timeout must be positive")
	}

	if cfg.FAQ.ConfidenceThreshold <= 0 || cfg.FAQ.ConfidenceThreshold > 1 {
		return nil, errors.New("faq confidence threshold must be in (0, 1]")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int, errs *[]error) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultVal
	}
	return v
}

func getEnvFloat(key string, defaultVal float64, errs *[]error) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultVal
	}
	return v
}

func getEnvBool(key string, defaultVal bool, errs *[]error) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultVal
	}
	return v
}

func getEnvDuration(key string, defaultVal time.Duration, errs *[]error) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return defaultVal
	}
	return v
}
