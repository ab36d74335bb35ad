package domain

import "context"

// WeatherProvider fetches current conditions for an Indian state/district
// pair. Implementations are network-bound and may fail; callers treat a
// failure as "no weather available".
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, state, district string) (WeatherSnapshot, error)
}
