package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/krishimitra/crop-advisor/internal/domain"
)

// AuditEvent records one generated recommendation set for downstream
// analytics. Events are best-effort: a publish failure never affects the
// response.
type AuditEvent struct {
	ID          string                  `json:"id"`
	State       string                  `json:"state"`
	District    string                  `json:"district"`
	SoilType    string                  `json:"soilType"`
	Climate     string                  `json:"climate"`
	FarmSize    float64                 `json:"farmSize"`
	Weather     *domain.WeatherSnapshot `json:"weather,omitempty"`
	Crops       []AuditCrop             `json:"crops"`
	GeneratedAt time.Time               `json:"generatedAt"`
}

// AuditCrop is the per-crop summary carried in an audit event.
type AuditCrop struct {
	CropName         string `json:"cropName"`
	SuitabilityScore int    `json:"suitabilityScore"`
	MarketPrice      int    `json:"marketPrice"`
}

// AuditPublisher delivers audit events to an external sink.
type AuditPublisher interface {
	Publish(ctx context.Context, event AuditEvent) error
}

// newAuditEvent summarizes a recommendation run. The ID is a
// deterministic hash of location and timestamp, so replays of the same
// run produce the same event ID.
func newAuditEvent(input domain.FarmInput, weather *domain.WeatherSnapshot, recs []domain.Recommendation, at time.Time) AuditEvent {
	crops := make([]AuditCrop, 0, len(recs))
	for _, rec := range recs {
		crops = append(crops, AuditCrop{
			CropName:         rec.CropName,
			SuitabilityScore: rec.SuitabilityScore,
			MarketPrice:      rec.MarketPrice,
		})
	}

	return AuditEvent{
		ID:          auditID(input, at),
		State:       input.State,
		District:    input.District,
		SoilType:    input.SoilType,
		Climate:     input.Climate,
		FarmSize:    input.FarmSize,
		Weather:     weather,
		Crops:       crops,
		GeneratedAt: at,
	}
}

func auditID(input domain.FarmInput, at time.Time) string {
	seed := fmt.Sprintf("%s|%s|%s|%s|%d", input.State, input.District, input.SoilType, input.Climate, at.UnixNano())
	hash := sha256.Sum256([]byte(seed))
	return "rec-" + hex.EncodeToString(hash[:8])
}
