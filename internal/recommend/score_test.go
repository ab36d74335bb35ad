package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishimitra/crop-advisor/internal/domain"
)

func paddyCrop() domain.Crop {
	return domain.Crop{
		ID:               "paddy",
		Name:             "Paddy",
		SuitableSoils:    []string{domain.SoilClay},
		SuitableClimates: []string{domain.ClimateHumid, domain.ClimateTropical},
		WaterUsage:       domain.LevelHigh,
		CarbonFootprint:  domain.LevelLow,
		MarketValue:      domain.LevelHigh,
	}
}

func milletCrop() domain.Crop {
	return domain.Crop{
		ID:               "millet",
		Name:             "Millet",
		SuitableSoils:    []string{domain.SoilSandy},
		SuitableClimates: []string{domain.ClimateDry},
		WaterUsage:       domain.LevelLow,
		CarbonFootprint:  domain.LevelMedium,
		MarketValue:      domain.LevelMedium,
	}
}

func clayHumidInput() domain.FarmInput {
	return domain.FarmInput{
		State:    "Kerala",
		District: "Ernakulam",
		SoilType: domain.SoilClay,
		Climate:  domain.ClimateHumid,
		FarmSize: 2,
	}
}

func TestScoreCrop(t *testing.T) {
	t.Run("full match with humid weather", func(t *testing.T) {
		weather := &domain.WeatherSnapshot{Temperature: 29, Humidity: 80, Rainfall: 4, Description: "light rain"}
		result := scoreCrop(paddyCrop(), clayHumidInput(), weather)

		// soil 40 + climate 40 + weather 10 + low carbon 5
		assert.Equal(t, 95, result.score)
		assert.Equal(t, "Clay soil is optimal for Paddy cultivation based on ontology rules", result.soilMatch)
		assert.Equal(t, "Humid climate conditions are ideal for Paddy growth", result.climateMatch)

		require.NotEmpty(t, result.reasons)
		assert.Equal(t, "Score breakdown -> Soil: 40, Climate: 40, Weather: 10, Sustainability: 5; Total: 95%", result.reasons[0])
		assert.Contains(t, result.reasons, "Ontology rule: Paddy thrives in Clay soil conditions")
		assert.Contains(t, result.reasons, "Climate requirements perfectly align with Humid conditions")
		assert.Contains(t, result.reasons, "Current high humidity (80%) supports water-intensive crops")
		assert.Contains(t, result.reasons, "Low carbon footprint supports sustainable farming practices")
		assert.Contains(t, result.reasons, "High market value provides strong economic returns")
	})

	t.Run("mismatch without weather", func(t *testing.T) {
		input := domain.FarmInput{State: "Punjab", District: "Ludhiana", SoilType: domain.SoilSandy, Climate: domain.ClimateDry, FarmSize: 1}
		result := scoreCrop(paddyCrop(), input, nil)

		// soil 10 + climate 10 + low carbon 5; weather absent contributes 0.
		assert.Equal(t, 25, result.score)
		assert.Equal(t, "Sandy soil is not the ideal match for Paddy, which prefers Clay soil", result.soilMatch)
		assert.Equal(t, "Dry climate may pose challenges for Paddy, which prefers Humid or Tropical conditions", result.climateMatch)
		assert.Equal(t, "Score breakdown -> Soil: 10, Climate: 10, Weather: 0, Sustainability: 5; Total: 25%", result.reasons[0])
		for _, r := range result.reasons {
			assert.NotContains(t, r, "Weather conditions")
		}
	})

	t.Run("weather base points when neither humidity rule fires", func(t *testing.T) {
		weather := &domain.WeatherSnapshot{Humidity: 65}
		result := scoreCrop(paddyCrop(), clayHumidInput(), weather)

		// High water usage but humidity 65 is not above 70.
		assert.Equal(t, 90, result.score)
		assert.Contains(t, result.reasons, "Weather conditions are moderately suitable")
	})

	t.Run("drought-tolerant crop in low humidity", func(t *testing.T) {
		input := domain.FarmInput{State: "Rajasthan", District: "Jaipur", SoilType: domain.SoilSandy, Climate: domain.ClimateDry, FarmSize: 3}
		weather := &domain.WeatherSnapshot{Humidity: 40}
		result := scoreCrop(milletCrop(), input, weather)

		// soil 40 + climate 40 + weather 10 + dry-fit 5
		assert.Equal(t, 95, result.score)
		assert.Contains(t, result.reasons, "Low humidity conditions favor drought-tolerant varieties")
		assert.Contains(t, result.reasons, "Water-efficient crop is well-suited for dry climate conditions")
	})

	t.Run("humidity boundaries", func(t *testing.T) {
		// 70 is not above 70, 60 is not below 60: both fall to base points.
		high := scoreCrop(paddyCrop(), clayHumidInput(), &domain.WeatherSnapshot{Humidity: 70})
		assert.Equal(t, 90, high.score)

		input := domain.FarmInput{State: "Rajasthan", District: "Jaipur", SoilType: domain.SoilSandy, Climate: domain.ClimateDry, FarmSize: 3}
		low := scoreCrop(milletCrop(), input, &domain.WeatherSnapshot{Humidity: 60})
		assert.Equal(t, 90, low.score)
	})

	t.Run("dry-fit bonus needs both low water usage and dry input", func(t *testing.T) {
		input := clayHumidInput()
		result := scoreCrop(milletCrop(), input, nil)
		for _, r := range result.reasons {
			assert.NotContains(t, r, "dry climate conditions")
		}
	})

	t.Run("market value adds a line but no points", func(t *testing.T) {
		crop := paddyCrop()
		crop.MarketValue = domain.LevelMedium
		with := scoreCrop(paddyCrop(), clayHumidInput(), nil)
		without := scoreCrop(crop, clayHumidInput(), nil)

		assert.Equal(t, with.score, without.score)
		assert.Contains(t, with.reasons, "High market value provides strong economic returns")
		assert.NotContains(t, without.reasons, "High market value provides strong economic returns")
	})

	t.Run("total never exceeds 100", func(t *testing.T) {
		crop := paddyCrop()
		crop.WaterUsage = domain.LevelLow
		input := domain.FarmInput{State: "Rajasthan", District: "Jaipur", SoilType: domain.SoilClay, Climate: domain.ClimateDry, FarmSize: 1}
		crop.SuitableClimates = []string{domain.ClimateDry}
		weather := &domain.WeatherSnapshot{Humidity: 30}

		// soil 40 + climate 40 + weather 10 + carbon 5 + dry-fit 5 = 100
		result := scoreCrop(crop, input, weather)
		assert.Equal(t, 100, result.score)
		assert.Equal(t, "Score breakdown -> Soil: 40, Climate: 40, Weather: 10, Sustainability: 10; Total: 100%", result.reasons[0])
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		weather := &domain.WeatherSnapshot{Humidity: 80}
		first := scoreCrop(paddyCrop(), clayHumidInput(), weather)
		second := scoreCrop(paddyCrop(), clayHumidInput(), weather)
		assert.Equal(t, first, second)
	})
}

func TestBreakdownLine(t *testing.T) {
	line := BreakdownLine(40, 10, 5, 0, 55)
	assert.Equal(t, "Score breakdown -> Soil: 40, Climate: 10, Weather: 5, Sustainability: 0; Total: 55%", line)
}
