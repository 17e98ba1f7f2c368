// Package render turns lookup results into display-ready values.
package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/i474232898/weather-lookup/internal/forecast"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const iconURLFormat = "https://openweathermap.org/img/wn/%s@2x.png"

// IconURL returns the provider image URL for an icon key.
func IconURL(icon string) string {
	if icon == "" {
		return ""
	}
	return fmt.Sprintf(iconURLFormat, icon)
}

// CurrentCard is the formatted current-conditions panel.
type CurrentCard struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feelsLike"`
	IconURL     string `json:"iconUrl"`
	Humidity    string `json:"humidity"`
	Wind        string `json:"wind"`
	Pressure    string `json:"pressure"`
	Visibility  string `json:"visibility"`
	Sunrise     string `json:"sunrise"`
	Sunset      string `json:"sunset"`
}

// Current formats a current-conditions reading for display.
func Current(c weather.Current, units weather.Units) CurrentCard {
	sym := units.TempSymbol()

	title := c.Name
	if c.Country != "" {
		title = fmt.Sprintf("%s, %s", c.Name, c.Country)
	}

	return CurrentCard{
		Title:       title,
		Description: strings.ToUpper(c.Description),
		Temperature: fmt.Sprintf("%d%s", roundInt(c.Temperature), sym),
		FeelsLike:   fmt.Sprintf("Feels like %d%s", roundInt(c.FeelsLike), sym),
		IconURL:     IconURL(c.Icon),
		Humidity:    fmt.Sprintf("%s%%", trimFloat(c.Humidity)),
		Wind:        fmt.Sprintf("%s %s", trimFloat(c.WindSpeed), units.SpeedSymbol()),
		Pressure:    fmt.Sprintf("%s hPa", trimFloat(c.Pressure)),
		Visibility:  fmt.Sprintf("%.1f km", c.Visibility/1000),
		Sunrise:     "Sunrise " + clock(c.Sunrise),
		Sunset:      "Sunset " + clock(c.Sunset),
	}
}

// ForecastItem is one formatted row of the daily forecast list.
type ForecastItem struct {
	Label       string `json:"label"`
	Condition   string `json:"condition"`
	Temperature string `json:"temperature"`
	IconURL     string `json:"iconUrl"`
}

// Forecast formats daily summaries for the forecast list.
func Forecast(days []forecast.DaySummary, units weather.Units) []ForecastItem {
	items := make([]ForecastItem, 0, len(days))
	for _, d := range days {
		label := d.Date
		if t, err := time.Parse("2006-01-02", d.Date); err == nil {
			label = t.Format("Mon, Jan 2")
		}
		items = append(items, ForecastItem{
			Label:       label,
			Condition:   d.Condition,
			Temperature: fmt.Sprintf("%d%s", roundInt(d.AvgTemp), units.TempSymbol()),
			IconURL:     IconURL(d.Icon),
		})
	}
	return items
}

// roundInt rounds half away from zero.
func roundInt(v float64) int {
	return int(math.Round(v))
}

func trimFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}

func clock(t time.Time) string {
	if t.IsZero() || t.Unix() == 0 {
		return "--:--"
	}
	return t.UTC().Format("15:04:05")
}
