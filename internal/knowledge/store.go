// Package knowledge aggregates the derived crop facts and the market
// price index into a single queryable store.
//
// The store is constructed once at startup and read-only afterwards, so
// concurrent readers need no locking. It is passed explicitly to the
// layers that need it; there is no package-level singleton.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/krishimitra/crop-advisor/internal/domain"
	"github.com/krishimitra/crop-advisor/internal/market"
)

// ErrEmptyCropSet rejects construction with zero crops. Serving
// recommendations from an empty crop set is a startup data error.
var ErrEmptyCropSet = errors.New("knowledge store requires at least one crop")

// Store holds the crop fact set and the current price index.
type Store struct {
	crops  []domain.Crop // extraction order, preserved for stable ranking ties
	byName map[string]int
	prices *market.Index
}

// NewStore builds a store over the extracted crops and loaded prices.
// Crop names are case-insensitively unique; a duplicate is an extraction
// bug and fails construction.
func NewStore(crops []domain.Crop, prices *market.Index) (*Store, error) {
	if len(crops) == 0 {
		return nil, ErrEmptyCropSet
	}

	byName := make(map[string]int, len(crops))
	for i, crop := range crops {
		key := strings.ToLower(crop.Name)
		if _, dup := byName[key]; dup {
			return nil, fmt.Errorf("duplicate crop %q in ontology extraction", crop.Name)
		}
		byName[key] = i
	}

	return &Store{crops: crops, byName: byName, prices: prices}, nil
}

// AllCrops returns every crop fact in extraction order. The returned
// slice is shared; callers must not mutate it.
func (s *Store) AllCrops() []domain.Crop {
	return s.crops
}

// CropByName looks up a crop by its case-insensitive name.
func (s *Store) CropByName(name string) (domain.Crop, bool) {
	i, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return domain.Crop{}, false
	}
	return s.crops[i], true
}

// PriceQuery returns market price records matching the filters.
func (s *Store) PriceQuery(f market.Filters) []domain.MarketPriceRecord {
	return s.prices.Query(f)
}

// AveragePrice resolves the average modal price for a crop via synonym
// expansion. The boolean is false when no quotation matched.
func (s *Store) AveragePrice(cropName, state, district string) (int, bool) {
	return s.prices.AveragePriceForCrop(cropName, state, district)
}

// PriceRecordCount returns the number of loaded price records.
func (s *Store) PriceRecordCount() int {
	return s.prices.Len()
}

// CheckReadiness reports readiness for the HTTP readyz probe. A
// constructed store is always ready; the method exists so the server can
// take the store as its readiness checker.
func (s *Store) CheckReadiness(_ context.Context) error {
	if len(s.crops) == 0 {
		return ErrEmptyCropSet
	}
	return nil
}
