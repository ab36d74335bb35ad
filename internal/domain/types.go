package domain

import (
	"fmt"
	"strings"
)

// Soil type vocabulary.
const (
	SoilClay     = "Clay"
	SoilLoam     = "Loam"
	SoilSandy    = "Sandy"
	SoilClayLoam = "ClayLoam"
)

// Climate vocabulary.
const (
	ClimateTropical = "Tropical"
	ClimateHumid    = "Humid"
	ClimateDry      = "Dry"
	ClimateModerate = "Moderate"
)

// Level vocabulary shared by water usage, carbon footprint, and market value.
const (
	LevelLow    = "Low"
	LevelMedium = "Medium"
	LevelHigh   = "High"
)

// SoilTypes lists the accepted soil type tags in canonical form.
var SoilTypes = []string{SoilClay, SoilLoam, SoilSandy, SoilClayLoam}

// Climates lists the accepted climate tags in canonical form.
var Climates = []string{ClimateTropical, ClimateHumid, ClimateDry, ClimateModerate}

// Crop is an immutable fact record derived from the ontology at startup.
type Crop struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	SuitableSoils    []string `json:"suitableSoils"`
	SuitableClimates []string `json:"suitableClimates"`
	WaterUsage       string   `json:"waterUsage"`
	CarbonFootprint  string   `json:"carbonFootprint"`
	MarketValue      string   `json:"marketValue"`
}

// ToleratesSoil reports whether the crop tolerates the given soil type,
// matching case-insensitively.
func (c Crop) ToleratesSoil(soilType string) bool {
	return containsFold(c.SuitableSoils, soilType)
}

// ToleratesClimate reports whether the crop tolerates the given climate,
// matching case-insensitively.
func (c Crop) ToleratesClimate(climate string) bool {
	return containsFold(c.SuitableClimates, climate)
}

func containsFold(tags []string, want string) bool {
	for _, tag := range tags {
		if strings.EqualFold(tag, want) {
			return true
		}
	}
	return false
}

// MarketPriceRecord is one mandi price quotation. Records are immutable
// after load and queried by filter predicates only.
type MarketPriceRecord struct {
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	Variety     string `json:"variety"`
	Grade       string `json:"grade"`
	ArrivalDate string `json:"arrivalDate"`
	MinPrice    int    `json:"minPrice"`
	MaxPrice    int    `json:"maxPrice"`
	ModalPrice  int    `json:"modalPrice"`
}

// FarmInput is the recommendation request payload.
type FarmInput struct {
	State    string  `json:"state"`
	District string  `json:"district"`
	SoilType string  `json:"soilType"`
	Climate  string  `json:"climate"`
	FarmSize float64 `json:"farmSize"` // acres; validated but not scored
}

// Validate checks the farm input and canonicalizes the soil type and
// climate tags. It returns a descriptive error for the first problem found.
func (f *FarmInput) Validate() error {
	if strings.TrimSpace(f.State) == "" {
		return fmt.Errorf("state is required")
	}
	if strings.TrimSpace(f.District) == "" {
		return fmt.Errorf("district is required")
	}

	soil, ok := canonicalTag(SoilTypes, f.SoilType)
	if !ok {
		return fmt.Errorf("soilType %q is not one of %s", f.SoilType, strings.Join(SoilTypes, ", "))
	}
	f.SoilType = soil

	climate, ok := canonicalTag(Climates, f.Climate)
	if !ok {
		return fmt.Errorf("climate %q is not one of %s", f.Climate, strings.Join(Climates, ", "))
	}
	f.Climate = climate

	if f.FarmSize <= 0 {
		return fmt.Errorf("farmSize must be positive, got %v", f.FarmSize)
	}
	return nil
}

// Location renders the input location as "District, State".
func (f FarmInput) Location() string {
	return f.District + ", " + f.State
}

func canonicalTag(vocabulary []string, tag string) (string, bool) {
	for _, v := range vocabulary {
		if strings.EqualFold(v, tag) {
			return v, true
		}
	}
	return "", false
}

// WeatherSnapshot holds current conditions for the request location.
// Its absence means "no weather bonus available" during scoring.
type WeatherSnapshot struct {
	Temperature int    `json:"temperature"` // °C
	Humidity    int    `json:"humidity"`    // %
	Rainfall    int    `json:"rainfall"`    // mm over the last hour
	Description string `json:"description"`
}

// Recommendation is one ranked, explained crop suggestion. Reasoning[0]
// is always the score breakdown line; see recommend.BreakdownLine.
type Recommendation struct {
	CropName         string   `json:"cropName"`
	SuitabilityScore int      `json:"suitabilityScore"`
	MarketPrice      int      `json:"marketPrice"` // 0 when no quotation matched
	WaterUsage       string   `json:"waterUsage"`
	CarbonFootprint  string   `json:"carbonFootprint"`
	SoilMatch        string   `json:"soilMatch"`
	ClimateMatch     string   `json:"climateMatch"`
	Reasoning        []string `json:"reasoning"`
}
