package weather

import (
	"context"

	"github.com/i474232898/weather-lookup/internal/forecast"
)

// Provider abstracts a weather data source that serves both current
// conditions and a 5-day/3-hour forecast (e.g. OpenWeatherMap).
type Provider interface {
	Name() string
	CurrentByCity(ctx context.Context, city string, units Units) (Current, error)
	CurrentByCoords(ctx context.Context, c Coordinates, units Units) (Current, error)
	ForecastByCoords(ctx context.Context, c Coordinates, units Units) ([]forecast.RawSample, error)
}
