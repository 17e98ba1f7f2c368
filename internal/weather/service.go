package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/i474232898/weather-lookup/internal/forecast"
)

// ErrEmptyQuery is returned when a lookup names no location.
var ErrEmptyQuery = errors.New("city or coordinates are required")

// Service orchestrates provider calls and forecast aggregation for a lookup.
type Service struct {
	provider Provider
	logger   *zap.Logger
}

// NewService creates a new Service.
func NewService(provider Provider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		logger:   logger,
	}
}

// Lookup dispatches on the query kind.
func (s *Service) Lookup(ctx context.Context, q Query, units Units) (Result, error) {
	switch {
	case q.Coords != nil:
		return s.LookupByCoords(ctx, *q.Coords, units)
	case q.City != "":
		return s.LookupByCity(ctx, q.City, units)
	default:
		return Result{}, ErrEmptyQuery
	}
}

// LookupByCoords fetches current conditions and the forecast concurrently.
// Either failure fails the whole lookup.
func (s *Service) LookupByCoords(ctx context.Context, c Coordinates, units Units) (Result, error) {
	if s.provider == nil {
		return Result{}, fmt.Errorf("no weather provider configured")
	}

	var (
		wg         sync.WaitGroup
		current    Current
		raw        []forecast.RawSample
		currentErr error
		rawErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		current, currentErr = s.provider.CurrentByCoords(ctx, c, units)
	}()
	go func() {
		defer wg.Done()
		raw, rawErr = s.provider.ForecastByCoords(ctx, c, units)
	}()
	wg.Wait()

	if currentErr != nil {
		s.logger.Warn("current conditions failed",
			zap.String("provider", s.provider.Name()), zap.Float64("lat", c.Lat), zap.Float64("lon", c.Lon), zap.Error(currentErr))
		return Result{}, currentErr
	}
	if rawErr != nil {
		s.logger.Warn("forecast failed",
			zap.String("provider", s.provider.Name()), zap.Float64("lat", c.Lat), zap.Float64("lon", c.Lon), zap.Error(rawErr))
		return Result{}, rawErr
	}

	return s.assemble(Query{Coords: &c}, units, current, raw)
}

// LookupByCity resolves the city through current conditions first, then
// fetches the forecast for the coordinates the provider returned.
func (s *Service) LookupByCity(ctx context.Context, city string, units Units) (Result, error) {
	if s.provider == nil {
		return Result{}, fmt.Errorf("no weather provider configured")
	}

	current, err := s.provider.CurrentByCity(ctx, city, units)
	if err != nil {
		s.logger.Warn("current conditions failed",
			zap.String("provider", s.provider.Name()), zap.String("city", city), zap.Error(err))
		return Result{}, err
	}

	raw, err := s.provider.ForecastByCoords(ctx, current.Coords, units)
	if err != nil {
		s.logger.Warn("forecast failed",
			zap.String("provider", s.provider.Name()), zap.String("city", city), zap.Error(err))
		return Result{}, err
	}

	return s.assemble(Query{City: city}, units, current, raw)
}

func (s *Service) assemble(q Query, units Units, current Current, raw []forecast.RawSample) (Result, error) {
	days, err := forecast.SummarizeRaw(raw)
	if err != nil {
		s.logger.Error("forecast payload rejected", zap.Stringer("query", q), zap.Error(err))
		return Result{}, fmt.Errorf("forecast: %w", err)
	}

	s.logger.Debug("lookup completed",
		zap.Stringer("query", q), zap.String("name", current.Name), zap.Int("days", len(days)))

	return Result{
		Query:   q,
		Units:   units,
		Current: current,
		Days:    days,
		Chart:   forecast.ChartSeries(days),
	}, nil
}
