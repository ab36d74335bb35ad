package domain

import "context"

// ExplainRequest carries the facts an Explainer turns into a short
// natural-language justification for one recommendation.
type ExplainRequest struct {
	CropName     string
	SoilMatch    string
	ClimateMatch string
	MarketPrice  int
	Location     string
	Weather      WeatherSnapshot
}

// Explainer produces an optional natural-language addendum for a
// recommendation. It is best-effort: any error or empty result is
// absorbed by the caller and never alters the score.
type Explainer interface {
	Explain(ctx context.Context, req ExplainRequest) (string, error)
}
