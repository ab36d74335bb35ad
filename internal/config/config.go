package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Startup data sources.
	OntologyPath     string
	MarketPricesPath string
	SynonymsPath     string // optional YAML override of the commodity alias table

	// OpenWeatherMap configuration. Weather is disabled without a key.
	OpenWeatherAPIKey  string
	OpenWeatherEnabled bool
	OpenWeatherTimeout time.Duration
	OpenWeatherCountry string

	// Explanation enricher configuration. Disabled without a key.
	LLMAPIKey  string
	LLMEnabled bool
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration

	// Recommendation audit publishing. Disabled without brokers.
	KafkaBrokers    []string
	KafkaAuditTopic string
	AuditEnabled    bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := parsePositiveDuration("OPENWEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	llmTimeout, err := parsePositiveDuration("LLM_TIMEOUT", "8s")
	if err != nil {
		return nil, err
	}

	weatherKey := os.Getenv("OPENWEATHER_API_KEY")
	llmKey := os.Getenv("LLM_API_KEY")
	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		OntologyPath:     envOrDefault("ONTOLOGY_PATH", "data/crops.owx"),
		MarketPricesPath: envOrDefault("MARKET_PRICES_PATH", "data/market_prices.csv"),
		SynonymsPath:     os.Getenv("SYNONYMS_PATH"),

		OpenWeatherAPIKey:  weatherKey,
		OpenWeatherEnabled: weatherKey != "",
		OpenWeatherTimeout: weatherTimeout,
		OpenWeatherCountry: envOrDefault("OPENWEATHER_COUNTRY", "IN"),

		LLMAPIKey:  llmKey,
		LLMEnabled: llmKey != "",
		LLMBaseURL: envOrDefault("LLM_BASE_URL", "https://api.x.ai/v1"),
		LLMModel:   envOrDefault("LLM_MODEL", "grok-beta"),
		LLMTimeout: llmTimeout,

		KafkaBrokers:    brokers,
		KafkaAuditTopic: envOrDefault("KAFKA_AUDIT_TOPIC", "crop-recommendation-audit"),
		AuditEnabled:    len(brokers) > 0,
	}

	if cfg.OntologyPath == "" {
		return nil, fmt.Errorf("ONTOLOGY_PATH is required")
	}
	if cfg.MarketPricesPath == "" {
		return nil, fmt.Errorf("MARKET_PRICES_PATH is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

// parseBrokers splits a comma-separated broker list, dropping empties.
func parseBrokers(raw string) []string {
	if raw == "" {
		return nil
	}
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
