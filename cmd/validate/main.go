// Command validate performs offline integrity checks on the advisory
// data sources: the OWX ontology and the mandi price CSV. It verifies
// crop derivation, vocabulary membership, price record integrity, and
// the crop-to-commodity synonym round-trip.
//
// Usage:
//
//	go run ./cmd/validate -ontology data/crops.owx -prices data/market_prices.csv
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/krishimitra/crop-advisor/internal/domain"
	"github.com/krishimitra/crop-advisor/internal/market"
	"github.com/krishimitra/crop-advisor/internal/ontology"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	ontologyPath := flag.String("ontology", "", "path to the OWX ontology document")
	pricesPath := flag.String("prices", "", "path to the mandi price CSV")
	synonymsPath := flag.String("synonyms", "", "optional YAML synonym table override")
	flag.Parse()

	if *ontologyPath == "" || *pricesPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*ontologyPath, *pricesPath, *synonymsPath); code != 0 {
		os.Exit(code)
	}
}

func run(ontologyPath, pricesPath, synonymsPath string) int {
	fmt.Println("=== Crop Advisory Data Validation ===")
	fmt.Println()

	crops, err := ontology.ExtractFile(ontologyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: extract ontology: %v\n", err)
		return 1
	}

	records, err := market.LoadCSVFile(pricesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load price table: %v\n", err)
		return 1
	}

	synonyms := market.DefaultSynonyms()
	if synonymsPath != "" {
		synonyms, err = market.LoadSynonyms(synonymsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load synonym table: %v\n", err)
			return 1
		}
	}
	index := market.NewIndexWithSynonyms(records, synonyms)

	phases := []*phase{
		validateCropDerivation(crops),
		validateVocabulary(crops),
		validatePriceRecords(records),
		validateSynonymRoundTrip(crops, index),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-36s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d crops, %d price quotations\n", len(crops), len(records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateCropDerivation(crops []domain.Crop) *phase {
	p := &phase{name: "crop derivation"}

	seen := map[string]bool{}
	for _, crop := range crops {
		key := strings.ToLower(crop.Name)
		if seen[key] {
			p.errorf("duplicate crop name %q", crop.Name)
		}
		seen[key] = true

		if crop.ID != strings.ToLower(crop.Name) {
			p.errorf("crop %q: id %q is not the lowercase name", crop.Name, crop.ID)
		}
		if len(crop.SuitableSoils) == 0 {
			p.errorf("crop %q: empty suitable soils (default not applied)", crop.Name)
		}
		if len(crop.SuitableClimates) == 0 {
			p.errorf("crop %q: empty suitable climates (default not applied)", crop.Name)
		}
	}
	return p
}

func validateVocabulary(crops []domain.Crop) *phase {
	p := &phase{name: "vocabulary membership"}

	levels := []string{domain.LevelLow, domain.LevelMedium, domain.LevelHigh}
	for _, crop := range crops {
		for _, soil := range crop.SuitableSoils {
			if !oneOf(domain.SoilTypes, soil) {
				p.errorf("crop %q: soil %q outside vocabulary", crop.Name, soil)
			}
		}
		for _, climate := range crop.SuitableClimates {
			if !oneOf(domain.Climates, climate) {
				p.errorf("crop %q: climate %q outside vocabulary", crop.Name, climate)
			}
		}
		for _, level := range []string{crop.WaterUsage, crop.CarbonFootprint, crop.MarketValue} {
			if !oneOf(levels, level) {
				p.errorf("crop %q: level %q outside vocabulary", crop.Name, level)
			}
		}
	}
	return p
}

func validatePriceRecords(records []domain.MarketPriceRecord) *phase {
	p := &phase{name: "price record integrity"}

	for i, r := range records {
		if r.Commodity == "" {
			p.errorf("record %d: empty commodity", i)
		}
		if r.State == "" {
			p.errorf("record %d (%s): empty state", i, r.Commodity)
		}
		if r.MinPrice < 0 || r.MaxPrice < 0 || r.ModalPrice < 0 {
			p.errorf("record %d (%s): negative price", i, r.Commodity)
		}
		if r.MinPrice > 0 && r.MaxPrice > 0 && r.MinPrice > r.MaxPrice {
			p.errorf("record %d (%s): min price %d above max price %d", i, r.Commodity, r.MinPrice, r.MaxPrice)
		}
	}
	return p
}

// validateSynonymRoundTrip checks that at least one derived crop resolves
// a price through synonym expansion. Zero resolutions with a non-empty
// price table means the alias table and the ontology have drifted apart.
func validateSynonymRoundTrip(crops []domain.Crop, index *market.Index) *phase {
	p := &phase{name: "synonym round-trip"}
	if index.Len() == 0 {
		return p
	}

	resolved := 0
	for _, crop := range crops {
		if _, ok := index.AveragePriceForCrop(crop.Name, "", ""); ok {
			resolved++
		}
	}
	fmt.Printf("  synonym round-trip: %d/%d crops resolve a price\n", resolved, len(crops))
	if resolved == 0 {
		p.errorf("no crop resolves a price against %d quotations", index.Len())
	}
	return p
}

func oneOf(vocabulary []string, v string) bool {
	for _, item := range vocabulary {
		if item == v {
			return true
		}
	}
	return false
}
