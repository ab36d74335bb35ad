package recommend

import (
	"fmt"
	"strings"

	"github.com/krishimitra/crop-advisor/internal/domain"
)

// Additive point system. The weights cannot exceed 100; the cap in
// scoreCrop guards the invariant anyway.
const (
	soilMatchPoints     = 40
	soilMissPoints      = 10
	climateMatchPoints  = 40
	climateMissPoints   = 10
	weatherBonusPoints  = 10
	weatherBasePoints   = 5
	lowCarbonPoints     = 5
	dryClimateFitPoints = 5

	maxScore = 100

	// admissionThreshold is a hard filter: crops scoring at or below it
	// are dropped entirely, even when few recommendations remain.
	admissionThreshold = 50
)

// scoreResult carries one crop's score and the narratives generated
// while evaluating it.
type scoreResult struct {
	score        int
	soilMatch    string
	climateMatch string
	reasons      []string
}

// BreakdownLine renders the machine-parsable score breakdown that always
// opens a recommendation's reasoning list. Consumers (PDF export among
// them) parse exactly this shape; do not change labels or separators.
func BreakdownLine(soil, climate, weather, sustainability, total int) string {
	return fmt.Sprintf("Score breakdown -> Soil: %d, Climate: %d, Weather: %d, Sustainability: %d; Total: %d%%",
		soil, climate, weather, sustainability, total)
}

// scoreCrop computes the deterministic suitability score for one crop.
// Components are evaluated in a fixed order (soil, climate, weather,
// sustainability, market value) and positive-match narratives are
// appended in that order, after the breakdown line.
func scoreCrop(crop domain.Crop, input domain.FarmInput, weather *domain.WeatherSnapshot) scoreResult {
	var soil, climate, weatherPts, sustainability int
	var reasons []string

	var soilMatch string
	if crop.ToleratesSoil(input.SoilType) {
		soil = soilMatchPoints
		soilMatch = fmt.Sprintf("%s soil is optimal for %s cultivation based on ontology rules", input.SoilType, crop.Name)
		reasons = append(reasons, fmt.Sprintf("Ontology rule: %s thrives in %s soil conditions", crop.Name, input.SoilType))
	} else {
		soil = soilMissPoints
		soilMatch = fmt.Sprintf("%s soil is not the ideal match for %s, which prefers %s soil",
			input.SoilType, crop.Name, strings.Join(crop.SuitableSoils, " or "))
	}

	var climateMatch string
	if crop.ToleratesClimate(input.Climate) {
		climate = climateMatchPoints
		climateMatch = fmt.Sprintf("%s climate conditions are ideal for %s growth", input.Climate, crop.Name)
		reasons = append(reasons, fmt.Sprintf("Climate requirements perfectly align with %s conditions", input.Climate))
	} else {
		climate = climateMissPoints
		climateMatch = fmt.Sprintf("%s climate may pose challenges for %s, which prefers %s conditions",
			input.Climate, crop.Name, strings.Join(crop.SuitableClimates, " or "))
	}

	// Weather bonus only when a snapshot is available; its absence
	// contributes nothing and is omitted from the reasoning.
	if weather != nil {
		switch {
		case crop.WaterUsage == domain.LevelHigh && weather.Humidity > 70:
			weatherPts = weatherBonusPoints
			reasons = append(reasons, fmt.Sprintf("Current high humidity (%d%%) supports water-intensive crops", weather.Humidity))
		case crop.WaterUsage == domain.LevelLow && weather.Humidity < 60:
			weatherPts = weatherBonusPoints
			reasons = append(reasons, "Low humidity conditions favor drought-tolerant varieties")
		default:
			weatherPts = weatherBasePoints
			reasons = append(reasons, "Weather conditions are moderately suitable")
		}
	}

	// The two sustainability conditions are independent; both may fire.
	if crop.CarbonFootprint == domain.LevelLow {
		sustainability += lowCarbonPoints
		reasons = append(reasons, "Low carbon footprint supports sustainable farming practices")
	}
	if crop.WaterUsage == domain.LevelLow && input.Climate == domain.ClimateDry {
		sustainability += dryClimateFitPoints
		reasons = append(reasons, "Water-efficient crop is well-suited for dry climate conditions")
	}

	// Market value contributes a reasoning line only, no points.
	if crop.MarketValue == domain.LevelHigh {
		reasons = append(reasons, "High market value provides strong economic returns")
	}

	total := soil + climate + weatherPts + sustainability
	if total > maxScore {
		total = maxScore
	}

	ordered := make([]string, 0, len(reasons)+1)
	ordered = append(ordered, BreakdownLine(soil, climate, weatherPts, sustainability, total))
	ordered = append(ordered, reasons...)

	return scoreResult{
		score:        total,
		soilMatch:    soilMatch,
		climateMatch: climateMatch,
		reasons:      ordered,
	}
}
