package forecast

import (
	"errors"
	"fmt"
)

// MaxDays bounds the number of daily summaries produced from one forecast.
const MaxDays = 5

// Sample is one three-hour forecast observation.
type Sample struct {
	Timestamp   int64   `json:"dt"` // seconds since epoch, UTC
	Temperature float64 `json:"temp"`
	Condition   string  `json:"condition"`
	Icon        string  `json:"icon"`
}

// RawSample is a forecast entry as decoded from a provider payload.
// Nil fields were absent on the wire.
type RawSample struct {
	Timestamp   *int64
	Temperature *float64
	Condition   *string
	Icon        string
}

// DaySummary aggregates all samples that fall on one UTC calendar date.
type DaySummary struct {
	Date      string   `json:"date"` // YYYY-MM-DD
	AvgTemp   float64  `json:"avgTemp"`
	Condition string   `json:"condition"`
	Icon      string   `json:"icon"`
	Samples   []Sample `json:"samples,omitempty"`
}

// ErrMalformedSample is matched by every *MalformedSampleError.
var ErrMalformedSample = errors.New("malformed sample")

// MalformedSampleError identifies the offending input position.
type MalformedSampleError struct {
	Index  int
	Field  string
	Reason string
}

func (e *MalformedSampleError) Error() string {
	return fmt.Sprintf("malformed sample at index %d: %s %s", e.Index, e.Field, e.Reason)
}

func (e *MalformedSampleError) Is(target error) bool {
	return target == ErrMalformedSample
}
