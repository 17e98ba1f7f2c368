package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/i474232898/weather-lookup/internal/forecast"
	"github.com/i474232898/weather-lookup/internal/render"
	"github.com/i474232898/weather-lookup/internal/session"
	"github.com/i474232898/weather-lookup/internal/weather"
)

// SessionHeader carries the session id in both directions.
const SessionHeader = "X-Session-ID"

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, sessions *session.Manager) {
	v1 := app.Group("/api/v1", withSession(sessions))

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseLookupQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		s := currentSession(c)
		snap, err := s.Search(c.UserContext(), q)
		if err != nil {
			return lookupError(snap, err)
		}
		return c.JSON(newView(snap))
	})

	v1.Post("/units/toggle", func(c *fiber.Ctx) error {
		s := currentSession(c)
		snap, err := s.ToggleUnits(c.UserContext())
		if err != nil {
			return lookupError(snap, err)
		}
		return c.JSON(newView(snap))
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		s := currentSession(c)
		history, err := s.Prefs().History(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load search history")
		}
		return c.JSON(fiber.Map{
			"session": s.ID,
			"history": history,
		})
	})

	v1.Get("/suggestions", func(c *fiber.Ctx) error {
		s := currentSession(c)
		suggestions, err := s.Prefs().Suggestions(c.UserContext(), c.Query("q"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load suggestions")
		}
		return c.JSON(fiber.Map{
			"session":     s.ID,
			"suggestions": suggestions,
		})
	})

	v1.Get("/forecast/chart", func(c *fiber.Ctx) error {
		s := currentSession(c)
		series, err := s.Chart()
		if err != nil {
			if errors.Is(err, session.ErrNoResult) {
				return fiber.NewError(fiber.StatusNotFound, "no forecast for session; run a lookup first")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to build chart")
		}
		return c.JSON(series)
	})
}

func withSession(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Fiber reuses request buffers; ids may outlive the request.
		s := sessions.GetOrCreate(utils.CopyString(c.Get(SessionHeader)))
		c.Locals("session", s)
		c.Set(SessionHeader, s.ID)
		return c.Next()
	}
}

func currentSession(c *fiber.Ctx) *session.Session {
	return c.Locals("session").(*session.Session)
}

// lookupError maps lookup failures to status codes. The message carries the
// session status line so clients can display it as-is.
func lookupError(snap session.Snapshot, err error) error {
	msg := snap.Status
	if msg == "" {
		msg = "Error: " + err.Error()
	}

	switch {
	case errors.Is(err, weather.ErrEmptyQuery):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrPreferences):
		return fiber.NewError(fiber.StatusInternalServerError, msg)
	default:
		return fiber.NewError(fiber.StatusBadGateway, msg)
	}
}

// view is the lookup response body.
type view struct {
	Session  string                `json:"session"`
	Units    weather.Units         `json:"units"`
	Status   string                `json:"status"`
	Current  *render.CurrentCard   `json:"current,omitempty"`
	Forecast []render.ForecastItem `json:"forecast,omitempty"`
	Days     []forecast.DaySummary `json:"days,omitempty"`
	Chart    *forecast.Series      `json:"chart,omitempty"`
	Theme    render.Gradient       `json:"theme"`
}

func newView(snap session.Snapshot) view {
	v := view{
		Session: snap.ID,
		Units:   snap.Units,
		Status:  snap.Status,
		Theme:   render.DefaultTheme,
	}
	if snap.Result == nil {
		return v
	}

	r := snap.Result
	card := render.Current(r.Current, r.Units)
	chart := r.Chart
	v.Current = &card
	v.Forecast = render.Forecast(r.Days, r.Units)
	v.Days = r.Days
	v.Chart = &chart
	v.Theme = render.Theme(r.Current.Condition)
	return v
}

// lookupQuery holds query parameters for a lookup. Either City or both
// coordinates must be given.
type lookupQuery struct {
	City string   `validate:"required_without_all=Lat Lon,omitempty,max=100"`
	Lat  *float64 `validate:"required_without=City,omitempty,gte=-90,lte=90"`
	Lon  *float64 `validate:"required_without=City,omitempty,gte=-180,lte=180"`
}

func parseLookupQuery(c *fiber.Ctx) (weather.Query, error) {
	var q lookupQuery
	q.City = utils.CopyString(strings.TrimSpace(c.Query("city")))

	for _, p := range []struct {
		name string
		dst  **float64
	}{{"lat", &q.Lat}, {"lon", &q.Lon}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return weather.Query{}, errors.New("invalid " + p.name + "; must be a number")
		}
		*p.dst = &v
	}

	if err := validate.Struct(q); err != nil {
		return weather.Query{}, err
	}
	if (q.Lat == nil) != (q.Lon == nil) {
		return weather.Query{}, errors.New("lat and lon must be given together")
	}

	if q.Lat != nil {
		return weather.Query{Coords: &weather.Coordinates{Lat: *q.Lat, Lon: *q.Lon}}, nil
	}
	return weather.Query{City: q.City}, nil
}
