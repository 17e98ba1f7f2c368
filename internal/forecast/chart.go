package forecast

import "time"

// Series is the parallel label/value pair a chart is drawn from.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// ChartSeries labels each day with its short weekday name and uses the
// average temperature as the value.
func ChartSeries(days []DaySummary) Series {
	s := Series{
		Labels: make([]string, 0, len(days)),
		Values: make([]float64, 0, len(days)),
	}
	for _, d := range days {
		label := d.Date
		if t, err := time.Parse(dateLayout, d.Date); err == nil {
			label = t.Format("Mon")
		}
		s.Labels = append(s.Labels, label)
		s.Values = append(s.Values, d.AvgTemp)
	}
	return s
}
