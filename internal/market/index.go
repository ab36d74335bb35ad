// Package market holds mandi price records and answers lookup and
// aggregate queries by crop name, state, and district.
package market

import (
	"math"
	"strings"

	"github.com/krishimitra/crop-advisor/internal/domain"
)

// Filters narrows a price query. Empty fields match everything.
// State and district match by case-insensitive equality; commodity by
// case-insensitive substring containment.
type Filters struct {
	State     string
	District  string
	Commodity string
}

// Index is an immutable collection of price records. Records are loaded
// once at startup and never mutated afterwards.
type Index struct {
	records  []domain.MarketPriceRecord
	synonyms SynonymTable
}

// NewIndex builds an index over the given records using the built-in
// commodity synonym table.
func NewIndex(records []domain.MarketPriceRecord) *Index {
	return NewIndexWithSynonyms(records, DefaultSynonyms())
}

// NewIndexWithSynonyms builds an index with a caller-supplied synonym table.
func NewIndexWithSynonyms(records []domain.MarketPriceRecord, synonyms SynonymTable) *Index {
	return &Index{records: records, synonyms: synonyms}
}

// Len returns the number of loaded records.
func (i *Index) Len() int { return len(i.records) }

// Query returns the records matching the filters, in load order.
func (i *Index) Query(f Filters) []domain.MarketPriceRecord {
	var out []domain.MarketPriceRecord
	for _, r := range i.records {
		if f.State != "" && !strings.EqualFold(r.State, f.State) {
			continue
		}
		if f.District != "" && !strings.EqualFold(r.District, f.District) {
			continue
		}
		if f.Commodity != "" && !strings.Contains(strings.ToLower(r.Commodity), strings.ToLower(f.Commodity)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// AveragePriceForCrop resolves the average modal price for a crop name.
//
// The crop name is expanded into commodity variants via the synonym
// table. Variants are tried most-specific first: each against the
// state/district scope, then each against the national scope. The first
// variant with at least one match wins and its matches are averaged;
// matches are never merged across variants. The boolean is false when no
// variant matched at any scope — absence, not zero.
func (i *Index) AveragePriceForCrop(cropName, state, district string) (int, bool) {
	variants := i.synonyms.Expand(cropName)

	for _, scope := range []Filters{
		{State: state, District: district},
		{},
	} {
		for _, variant := range variants {
			scope.Commodity = variant
			matches := i.Query(scope)
			if len(matches) > 0 {
				return meanModalPrice(matches), true
			}
		}
	}
	return 0, false
}

func meanModalPrice(records []domain.MarketPriceRecord) int {
	sum := 0
	for _, r := range records {
		sum += r.ModalPrice
	}
	return int(math.Round(float64(sum) / float64(len(records))))
}
