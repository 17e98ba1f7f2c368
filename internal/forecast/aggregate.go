package forecast

import (
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// Summarize buckets samples into at most MaxDays daily summaries keyed by UTC date.
// Days appear in the order their date is first seen in samples; the input is
// never re-sorted. The average temperature is rounded half away from zero to
// one decimal, the dominant condition is the most frequent label (first seen
// wins ties) and the icon comes from the sample at index len/2 of the day.
func Summarize(samples []Sample) ([]DaySummary, error) {
	for i, s := range samples {
		if err := validate(i, s); err != nil {
			return nil, err
		}
	}

	var order []string
	groups := make(map[string][]Sample)

	for _, s := range samples {
		key := DateOf(s.Timestamp)
		if _, seen := groups[key]; !seen {
			if len(order) == MaxDays {
				continue
			}
			order = append(order, key)
		}
		groups[key] = append(groups[key], s)
	}

	days := make([]DaySummary, 0, len(order))
	for _, key := range order {
		days = append(days, summarizeDay(key, groups[key]))
	}
	return days, nil
}

// SummarizeRaw validates provider entries and summarizes them.
// No summaries are returned when any entry is malformed.
func SummarizeRaw(raw []RawSample) ([]DaySummary, error) {
	samples, err := FromRaw(raw)
	if err != nil {
		return nil, err
	}
	return Summarize(samples)
}

// FromRaw converts decoded provider entries into complete samples.
func FromRaw(raw []RawSample) ([]Sample, error) {
	samples := make([]Sample, 0, len(raw))
	for i, r := range raw {
		switch {
		case r.Timestamp == nil:
			return nil, &MalformedSampleError{Index: i, Field: "timestamp", Reason: "is missing"}
		case r.Temperature == nil:
			return nil, &MalformedSampleError{Index: i, Field: "temperature", Reason: "is missing"}
		case r.Condition == nil:
			return nil, &MalformedSampleError{Index: i, Field: "condition", Reason: "is missing"}
		}
		s := Sample{
			Timestamp:   *r.Timestamp,
			Temperature: *r.Temperature,
			Condition:   *r.Condition,
			Icon:        r.Icon,
		}
		if err := validate(i, s); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// DateOf returns the UTC calendar date of an epoch timestamp.
func DateOf(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(dateLayout)
}

func validate(i int, s Sample) error {
	switch {
	case s.Timestamp <= 0:
		return &MalformedSampleError{Index: i, Field: "timestamp", Reason: "must be positive"}
	case math.IsNaN(s.Temperature) || math.IsInf(s.Temperature, 0):
		return &MalformedSampleError{Index: i, Field: "temperature", Reason: "must be finite"}
	case s.Condition == "":
		return &MalformedSampleError{Index: i, Field: "condition", Reason: "is empty"}
	}
	return nil
}

func summarizeDay(date string, entries []Sample) DaySummary {
	var sumTemp float64

	// Labels in first-seen order so ties resolve deterministically.
	var labels []string
	counts := make(map[string]int)

	for _, e := range entries {
		sumTemp += e.Temperature
		if _, ok := counts[e.Condition]; !ok {
			labels = append(labels, e.Condition)
		}
		counts[e.Condition]++
	}

	best := labels[0]
	for _, l := range labels[1:] {
		if counts[l] > counts[best] {
			best = l
		}
	}

	return DaySummary{
		Date:      date,
		AvgTemp:   round1(sumTemp / float64(len(entries))),
		Condition: best,
		Icon:      entries[len(entries)/2].Icon,
		Samples:   entries,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
