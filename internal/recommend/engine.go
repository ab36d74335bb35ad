// Package recommend turns crop facts, farm input, and weather
// observations into ranked, explained recommendations.
package recommend

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/krishimitra/crop-advisor/internal/domain"
	"github.com/krishimitra/crop-advisor/internal/knowledge"
	"github.com/krishimitra/crop-advisor/internal/observability"
)

// Engine scores every crop in the knowledge store against a farm input
// and produces the admitted, ranked recommendation list.
//
// The explainer and auditor are optional collaborators; either may be
// nil and any failure in them degrades gracefully.
type Engine struct {
	store     *knowledge.Store
	explainer domain.Explainer
	auditor   AuditPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates an Engine. explainer and auditor may be nil.
func New(store *knowledge.Store, explainer domain.Explainer, auditor AuditPublisher, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		store:     store,
		explainer: explainer,
		auditor:   auditor,
		logger:    logger,
		metrics:   metrics,
	}
}

// Generate computes recommendations for a validated farm input. weather
// may be nil, in which case the weather component contributes nothing.
//
// Crops are scanned in knowledge-store order, admitted only above the
// score threshold, and sorted by score descending with ties keeping
// encounter order. Missing prices surface as 0 in the output; enrichment
// failures are absorbed per crop.
func (e *Engine) Generate(ctx context.Context, input domain.FarmInput, weather *domain.WeatherSnapshot) []domain.Recommendation {
	start := time.Now()
	e.metrics.RecommendationRequests.Inc()

	recommendations := make([]domain.Recommendation, 0)
	for _, crop := range e.store.AllCrops() {
		e.metrics.CropsScored.Inc()

		result := scoreCrop(crop, input, weather)
		if result.score <= admissionThreshold {
			continue
		}

		price, found := e.store.AveragePrice(crop.Name, input.State, input.District)
		if found {
			e.metrics.PriceLookups.WithLabelValues("hit").Inc()
		} else {
			// Display fallback only; absence never reached the score.
			e.metrics.PriceLookups.WithLabelValues("miss").Inc()
			price = 0
		}

		rec := domain.Recommendation{
			CropName:         crop.Name,
			SuitabilityScore: result.score,
			MarketPrice:      price,
			WaterUsage:       crop.WaterUsage,
			CarbonFootprint:  crop.CarbonFootprint,
			SoilMatch:        result.soilMatch,
			ClimateMatch:     result.climateMatch,
			Reasoning:        result.reasons,
		}

		if e.explainer != nil && weather != nil {
			if text := e.explain(ctx, rec, input, *weather); text != "" {
				rec.Reasoning = append(rec.Reasoning, text)
			}
		}

		recommendations = append(recommendations, rec)
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].SuitabilityScore > recommendations[j].SuitabilityScore
	})

	e.metrics.CropsAdmitted.Observe(float64(len(recommendations)))
	e.metrics.RecommendationDuration.Observe(time.Since(start).Seconds())

	e.publishAudit(ctx, input, weather, recommendations)

	e.logger.Info("recommendations generated",
		"location", input.Location(),
		"soil_type", input.SoilType,
		"climate", input.Climate,
		"crops_scored", len(e.store.AllCrops()),
		"admitted", len(recommendations),
	)
	return recommendations
}

// explain asks the enricher for a narrative addendum. All failures and
// empty responses are absorbed; they never abort or alter the score.
func (e *Engine) explain(ctx context.Context, rec domain.Recommendation, input domain.FarmInput, weather domain.WeatherSnapshot) string {
	start := time.Now()
	text, err := e.explainer.Explain(ctx, domain.ExplainRequest{
		CropName:     rec.CropName,
		SoilMatch:    rec.SoilMatch,
		ClimateMatch: rec.ClimateMatch,
		MarketPrice:  rec.MarketPrice,
		Location:     input.Location(),
		Weather:      weather,
	})
	e.metrics.ExplainDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		e.metrics.ExplainRequests.WithLabelValues("error").Inc()
		e.logger.Warn("explanation enrichment failed", "crop", rec.CropName, "error", err)
		return ""
	case text == "":
		e.metrics.ExplainRequests.WithLabelValues("empty").Inc()
		return ""
	default:
		e.metrics.ExplainRequests.WithLabelValues("success").Inc()
		return text
	}
}

// publishAudit emits a best-effort audit event when an auditor is wired.
func (e *Engine) publishAudit(ctx context.Context, input domain.FarmInput, weather *domain.WeatherSnapshot, recs []domain.Recommendation) {
	if e.auditor == nil {
		return
	}

	event := newAuditEvent(input, weather, recs, clock.Now().UTC())
	if err := e.auditor.Publish(ctx, event); err != nil {
		e.metrics.AuditPublishes.WithLabelValues("error").Inc()
		e.logger.Warn("audit publish failed", "event_id", event.ID, "error", err)
		return
	}
	e.metrics.AuditPublishes.WithLabelValues("success").Inc()
}
