package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/forecast"
	"github.com/i474232898/weather-lookup/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// ErrMalformedPayload is returned when a current-conditions response lacks
// fields every lookup depends on.
var ErrMalformedPayload = errors.New("malformed provider payload")

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)

func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) CurrentByCity(ctx context.Context, city string, units weather.Units) (weather.Current, error) {
	values := url.Values{}
	values.Set("q", city)
	return p.fetchCurrent(ctx, values, units, "City not found")
}

func (p *OpenWeatherProvider) CurrentByCoords(ctx context.Context, c weather.Coordinates, units weather.Units) (weather.Current, error) {
	return p.fetchCurrent(ctx, coordValues(c), units, "Weather error")
}

func (p *OpenWeatherProvider) ForecastByCoords(ctx context.Context, c weather.Coordinates, units weather.Units) ([]forecast.RawSample, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	resp, err := doRequest(ctx, p.client, p.circuit, p.requestBuilder("forecast", coordValues(c), units), "Forecast error")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}
	if payload.Cod != 0 && payload.Cod != http.StatusOK {
		return nil, apiErrorFrom(int(payload.Cod), string(payload.Message), "Forecast error")
	}

	return payload.samples(), nil
}

func (p *OpenWeatherProvider) fetchCurrent(ctx context.Context, values url.Values, units weather.Units, fallback string) (weather.Current, error) {
	if p.apiKey == "" {
		return weather.Current{}, fmt.Errorf("openweather api key is not configured")
	}

	resp, err := doRequest(ctx, p.client, p.circuit, p.requestBuilder("weather", values, units), fallback)
	if err != nil {
		return weather.Current{}, err
	}
	defer resp.Body.Close()

	var payload currentPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Current{}, fmt.Errorf("decode current conditions: %w", err)
	}
	if payload.Cod != 0 && payload.Cod != http.StatusOK {
		return weather.Current{}, apiErrorFrom(int(payload.Cod), string(payload.Message), fallback)
	}

	return payload.toCurrent()
}

func (p *OpenWeatherProvider) requestBuilder(endpoint string, values url.Values, units weather.Units) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		q := url.Values{}
		for k, v := range values {
			q[k] = v
		}
		q.Set("appid", p.apiKey)
		q.Set("units", string(units))

		u := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, q.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
}

func coordValues(c weather.Coordinates) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	return values
}

func apiErrorFrom(code int, message, fallback string) error {
	if message == "" {
		message = fallback
	}
	return &APIError{Status: code, Message: message}
}

type condition struct {
	Main        *string `json:"main"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

type currentPayload struct {
	Cod     apiCode    `json:"cod"`
	Message apiMessage `json:"message"`
	Name    string     `json:"name"`
	Dt      int64      `json:"dt"`
	Coord   *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike float64  `json:"feels_like"`
		Pressure  float64  `json:"pressure"`
		Humidity  float64  `json:"humidity"`
	} `json:"main"`
	Weather    []condition `json:"weather"`
	Visibility float64     `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

func (c currentPayload) toCurrent() (weather.Current, error) {
	if c.Main == nil || c.Main.Temp == nil {
		return weather.Current{}, fmt.Errorf("%w: current temperature is missing", ErrMalformedPayload)
	}
	if c.Coord == nil {
		return weather.Current{}, fmt.Errorf("%w: coordinates are missing", ErrMalformedPayload)
	}

	cur := weather.Current{
		Name:        c.Name,
		Country:     c.Sys.Country,
		Coords:      weather.Coordinates{Lat: c.Coord.Lat, Lon: c.Coord.Lon},
		Timestamp:   time.Unix(c.Dt, 0).UTC(),
		Temperature: *c.Main.Temp,
		FeelsLike:   c.Main.FeelsLike,
		Humidity:    c.Main.Humidity,
		Pressure:    c.Main.Pressure,
		WindSpeed:   c.Wind.Speed,
		Visibility:  c.Visibility,
		Sunrise:     time.Unix(c.Sys.Sunrise, 0).UTC(),
		Sunset:      time.Unix(c.Sys.Sunset, 0).UTC(),
	}
	if c.Dt == 0 {
		cur.Timestamp = time.Now().UTC()
	}
	if len(c.Weather) > 0 {
		if c.Weather[0].Main != nil {
			cur.Condition = *c.Weather[0].Main
		}
		cur.Description = c.Weather[0].Description
		cur.Icon = c.Weather[0].Icon
	}
	return cur, nil
}

type forecastPayload struct {
	Cod     apiCode    `json:"cod"`
	Message apiMessage `json:"message"`
	List    []struct {
		Dt   *int64 `json:"dt"`
		Main *struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
		Weather []condition `json:"weather"`
	} `json:"list"`
}

// samples maps entries one-to-one so that indexes in validation errors
// match the provider's list.
func (f forecastPayload) samples() []forecast.RawSample {
	out := make([]forecast.RawSample, 0, len(f.List))
	for _, item := range f.List {
		s := forecast.RawSample{Timestamp: item.Dt}
		if item.Main != nil {
			s.Temperature = item.Main.Temp
		}
		if len(item.Weather) > 0 {
			s.Condition = item.Weather[0].Main
			s.Icon = item.Weather[0].Icon
		}
		out = append(out, s)
	}
	return out
}
