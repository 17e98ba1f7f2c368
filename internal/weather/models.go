package weather

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-lookup/internal/forecast"
)

// Units selects the measurement system requested from the provider.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// Valid reports whether u is a supported unit system.
func (u Units) Valid() bool {
	return u == UnitsMetric || u == UnitsImperial
}

// Toggle returns the other unit system.
func (u Units) Toggle() Units {
	if u == UnitsMetric {
		return UnitsImperial
	}
	return UnitsMetric
}

// TempSymbol returns the display suffix for temperatures.
func (u Units) TempSymbol() string {
	if u == UnitsImperial {
		return "°F"
	}
	return "°C"
}

// SpeedSymbol returns the display suffix for wind speed.
func (u Units) SpeedSymbol() string {
	if u == UnitsImperial {
		return "mph"
	}
	return "m/s"
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Query identifies what a lookup was made for. Exactly one of City or
// Coords is set.
type Query struct {
	City   string       `json:"city,omitempty"`
	Coords *Coordinates `json:"coords,omitempty"`
}

// IsZero reports whether the query names no location.
func (q Query) IsZero() bool {
	return q.City == "" && q.Coords == nil
}

func (q Query) String() string {
	if q.Coords != nil {
		return fmt.Sprintf("%.4f,%.4f", q.Coords.Lat, q.Coords.Lon)
	}
	return q.City
}

// Current is a normalized current-conditions reading.
type Current struct {
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	Coords      Coordinates `json:"coords"`
	Timestamp   time.Time   `json:"timestamp"` // always UTC
	Temperature float64     `json:"temperature"`
	FeelsLike   float64     `json:"feelsLike"`
	Humidity    float64     `json:"humidityPercent"`
	Pressure    float64     `json:"pressureHpa"`
	WindSpeed   float64     `json:"windSpeed"`
	Visibility  float64     `json:"visibilityM"`
	Condition   string      `json:"condition"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Sunrise     time.Time   `json:"sunrise"`
	Sunset      time.Time   `json:"sunset"`
}

// Result is everything a single lookup produces.
type Result struct {
	Query   Query                 `json:"query"`
	Units   Units                 `json:"units"`
	Current Current               `json:"current"`
	Days    []forecast.DaySummary `json:"days"`
	Chart   forecast.Series       `json:"chart"`
}
