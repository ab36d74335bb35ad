package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/krishimitra/crop-advisor/internal/adapter/httpapi"
	kafkaadapter "github.com/krishimitra/crop-advisor/internal/adapter/kafka"
	"github.com/krishimitra/crop-advisor/internal/adapter/llm"
	"github.com/krishimitra/crop-advisor/internal/adapter/openweather"
	"github.com/krishimitra/crop-advisor/internal/config"
	"github.com/krishimitra/crop-advisor/internal/domain"
	"github.com/krishimitra/crop-advisor/internal/knowledge"
	"github.com/krishimitra/crop-advisor/internal/market"
	"github.com/krishimitra/crop-advisor/internal/observability"
	"github.com/krishimitra/crop-advisor/internal/ontology"
	"github.com/krishimitra/crop-advisor/internal/recommend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	store, err := buildStore(cfg, logger)
	if err != nil {
		logger.Error("startup data load failed", "error", err)
		os.Exit(1)
	}
	metrics.StoreCrops.Set(float64(len(store.AllCrops())))
	metrics.StorePriceRecords.Set(float64(store.PriceRecordCount()))

	// Optional collaborators, feature-flagged via environment.
	var weather domain.WeatherProvider
	if cfg.OpenWeatherEnabled {
		weather = openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherCountry, cfg.OpenWeatherTimeout, metrics, logger)
		logger.Info("weather provider enabled", "country", cfg.OpenWeatherCountry, "timeout", cfg.OpenWeatherTimeout)
	} else {
		logger.Info("weather provider disabled")
	}

	var explainer domain.Explainer
	if cfg.LLMEnabled {
		explainer = llm.NewClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMTimeout, logger)
		logger.Info("explanation enricher enabled", "model", cfg.LLMModel)
	} else {
		logger.Info("explanation enricher disabled")
	}

	var auditor recommend.AuditPublisher
	var auditorCloser *kafkaadapter.Auditor
	if cfg.AuditEnabled {
		a := kafkaadapter.NewAuditor(cfg.KafkaBrokers, cfg.KafkaAuditTopic, logger)
		auditor, auditorCloser = a, a
		logger.Info("audit publisher enabled", "topic", cfg.KafkaAuditTopic)
	} else {
		logger.Info("audit publisher disabled")
	}

	engine := recommend.New(store, explainer, auditor, logger, metrics)
	srv := httpapi.NewServer(cfg.HTTPAddr, store, engine, weather, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if auditorCloser != nil {
		if err := auditorCloser.Close(); err != nil {
			logger.Error("audit publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// buildStore loads the price table and ontology and assembles the
// knowledge store. Any failure here is fatal: the service must not serve
// recommendations from an empty or partial crop set.
func buildStore(cfg *config.Config, logger *slog.Logger) (*knowledge.Store, error) {
	synonyms := market.DefaultSynonyms()
	if cfg.SynonymsPath != "" {
		var err error
		synonyms, err = market.LoadSynonyms(cfg.SynonymsPath)
		if err != nil {
			return nil, err
		}
		logger.Info("synonym table loaded", "path", cfg.SynonymsPath, "entries", len(synonyms))
	}

	records, err := market.LoadCSVFile(cfg.MarketPricesPath)
	if err != nil {
		return nil, err
	}
	logger.Info("market prices loaded", "path", cfg.MarketPricesPath, "records", len(records))

	crops, err := ontology.ExtractFile(cfg.OntologyPath)
	if err != nil {
		return nil, err
	}
	logger.Info("crops derived from ontology", "path", cfg.OntologyPath, "crops", len(crops))

	return knowledge.NewStore(crops, market.NewIndexWithSynonyms(records, synonyms))
}
