package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDR", "LOG_LEVEL", "LOG_FORMAT", "SHUTDOWN_TIMEOUT",
		"ONTOLOGY_PATH", "MARKET_PRICES_PATH", "SYNONYMS_PATH",
		"OPENWEATHER_API_KEY", "OPENWEATHER_TIMEOUT", "OPENWEATHER_COUNTRY",
		"LLM_API_KEY", "LLM_BASE_URL", "LLM_MODEL", "LLM_TIMEOUT",
		"KAFKA_BROKERS", "KAFKA_AUDIT_TOPIC",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, "data/crops.owx", cfg.OntologyPath)
	assert.Equal(t, "data/market_prices.csv", cfg.MarketPricesPath)
	assert.Empty(t, cfg.SynonymsPath)

	assert.False(t, cfg.OpenWeatherEnabled)
	assert.Equal(t, 10*time.Second, cfg.OpenWeatherTimeout)
	assert.Equal(t, "IN", cfg.OpenWeatherCountry)

	assert.False(t, cfg.LLMEnabled)
	assert.Equal(t, "https://api.x.ai/v1", cfg.LLMBaseURL)
	assert.Equal(t, "grok-beta", cfg.LLMModel)
	assert.Equal(t, 8*time.Second, cfg.LLMTimeout)

	assert.False(t, cfg.AuditEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "crop-recommendation-audit", cfg.KafkaAuditTopic)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("ONTOLOGY_PATH", "/srv/data/agri.owx")
	t.Setenv("MARKET_PRICES_PATH", "/srv/data/mandi.csv")
	t.Setenv("SYNONYMS_PATH", "/srv/data/aliases.yaml")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("OPENWEATHER_API_KEY", "ow-key")
	t.Setenv("OPENWEATHER_TIMEOUT", "3s")
	t.Setenv("OPENWEATHER_COUNTRY", "NP")
	t.Setenv("LLM_API_KEY", "llm-key")
	t.Setenv("LLM_MODEL", "grok-2")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")
	t.Setenv("KAFKA_AUDIT_TOPIC", "advisory-audit")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "/srv/data/agri.owx", cfg.OntologyPath)
	assert.Equal(t, "/srv/data/mandi.csv", cfg.MarketPricesPath)
	assert.Equal(t, "/srv/data/aliases.yaml", cfg.SynonymsPath)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)

	assert.True(t, cfg.OpenWeatherEnabled)
	assert.Equal(t, 3*time.Second, cfg.OpenWeatherTimeout)
	assert.Equal(t, "NP", cfg.OpenWeatherCountry)

	assert.True(t, cfg.LLMEnabled)
	assert.Equal(t, "grok-2", cfg.LLMModel)

	assert.True(t, cfg.AuditEnabled)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "advisory-audit", cfg.KafkaAuditTopic)
}

func TestLoad_InvalidDurations(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-5s"},
		{"OPENWEATHER_TIMEOUT", "0"},
		{"LLM_TIMEOUT", "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestParseBrokers(t *testing.T) {
	assert.Nil(t, parseBrokers(""))
	assert.Equal(t, []string{"a:9092"}, parseBrokers("a:9092"))
	assert.Equal(t, []string{"a:9092", "b:9092"}, parseBrokers(" a:9092 ,, b:9092 "))
}
