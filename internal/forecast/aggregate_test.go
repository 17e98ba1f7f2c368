package forecast

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

const (
	may1 int64 = 1714521600 // 2024-05-01T00:00:00Z
	day  int64 = 86400
	hour int64 = 3600
)

func sample(ts int64, temp float64, cond, icon string) Sample {
	return Sample{Timestamp: ts, Temperature: temp, Condition: cond, Icon: icon}
}

func TestSummarizeSingleDay(t *testing.T) {
	in := []Sample{
		sample(may1+3*hour, 10.0, "Clear", "01d"),
		sample(may1+6*hour, 12.0, "Clear", "01d"),
		sample(may1+9*hour, 11.0, "Clouds", "02d"),
	}

	days, err := Summarize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}

	got := days[0]
	if got.Date != "2024-05-01" {
		t.Errorf("expected date 2024-05-01, got %s", got.Date)
	}
	if got.AvgTemp != 11.0 {
		t.Errorf("expected avg 11.0, got %v", got.AvgTemp)
	}
	if got.Condition != "Clear" {
		t.Errorf("expected Clear, got %s", got.Condition)
	}
	if got.Icon != "01d" {
		t.Errorf("expected icon 01d, got %s", got.Icon)
	}
	if len(got.Samples) != 3 {
		t.Errorf("expected 3 retained samples, got %d", len(got.Samples))
	}
}

func TestSummarizeConditionTieFirstSeenWins(t *testing.T) {
	tests := []struct {
		name  string
		conds []string
		want  string
	}{
		{"two way tie", []string{"Rain", "Clouds"}, "Rain"},
		{"reverse order", []string{"Clouds", "Rain"}, "Clouds"},
		{"later majority", []string{"Snow", "Rain", "Rain"}, "Rain"},
		{"tie after interleave", []string{"Clouds", "Rain", "Rain", "Clouds"}, "Clouds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in []Sample
			for i, c := range tt.conds {
				in = append(in, sample(may1+day+int64(i)*3*hour, 15, c, "10d"))
			}
			days, err := Summarize(in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if days[0].Condition != tt.want {
				t.Errorf("expected %s, got %s", tt.want, days[0].Condition)
			}
		})
	}
}

func TestSummarizeTruncatesToFiveDays(t *testing.T) {
	var in []Sample
	for i := int64(0); i < 7; i++ {
		in = append(in, sample(may1+i*day+12*hour, float64(i), "Clear", "01d"))
	}

	days, err := Summarize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"2024-05-01", "2024-05-02", "2024-05-03", "2024-05-04", "2024-05-05"}
	var got []string
	for _, d := range days {
		got = append(got, d.Date)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSummarizeKeptDayAfterSixthDate(t *testing.T) {
	var in []Sample
	for i := int64(0); i < 5; i++ {
		in = append(in, sample(may1+i*day+3*hour, 10, "Clear", "01d"))
	}
	in = append(in,
		sample(may1+5*day+3*hour, 99, "Snow", "13d"),
		sample(may1+6*hour, 20, "Rain", "10d"),
		sample(may1+9*hour, 30, "Rain", "10n"),
	)

	days, err := Summarize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != MaxDays {
		t.Fatalf("expected %d days, got %d", MaxDays, len(days))
	}

	first := days[0]
	if first.Date != "2024-05-01" || len(first.Samples) != 3 {
		t.Fatalf("expected three samples on 2024-05-01, got %+v", first)
	}
	if first.AvgTemp != 20 || first.Condition != "Rain" || first.Icon != "10d" {
		t.Errorf("unexpected first day %+v", first)
	}
	for _, d := range days {
		if d.Date == "2024-05-06" {
			t.Errorf("sixth date should be dropped, got %+v", d)
		}
	}
}

func TestSummarizeRoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name  string
		temps []float64
		want  float64
	}{
		{"positive half", []float64{10.24, 10.26}, 10.3},
		{"negative half", []float64{-10.24, -10.26}, -10.3},
		{"below half", []float64{10.0, 10.04}, 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in []Sample
			for i, temp := range tt.temps {
				in = append(in, sample(may1+2*day+int64(i)*3*hour, temp, "Rain", "10d"))
			}
			days, err := Summarize(in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if days[0].AvgTemp != tt.want {
				t.Errorf("expected %v, got %v", tt.want, days[0].AvgTemp)
			}
		})
	}
}

func TestSummarizeIconIsMiddleSample(t *testing.T) {
	in := []Sample{
		sample(may1, 1, "Clear", "a"),
		sample(may1+3*hour, 1, "Clear", "b"),
		sample(may1+6*hour, 1, "Clear", "c"),
		sample(may1+9*hour, 1, "Clear", "d"),
	}
	days, err := Summarize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// floor(4/2) = 2, the sample just past the midpoint.
	if days[0].Icon != "c" {
		t.Errorf("expected icon c, got %s", days[0].Icon)
	}
}

func TestSummarizeKeepsFirstSeenOrder(t *testing.T) {
	in := []Sample{
		sample(may1+2*day, 20, "Clear", "01d"),
		sample(may1, 10, "Rain", "10d"),
		sample(may1+2*day+3*hour, 22, "Clear", "01d"),
		sample(may1+day, 15, "Clouds", "03d"),
	}

	days, err := Summarize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"2024-05-03", "2024-05-01", "2024-05-02"}
	for i, d := range days {
		if d.Date != want[i] {
			t.Errorf("day %d: expected %s, got %s", i, want[i], d.Date)
		}
	}
	if days[0].AvgTemp != 21 || len(days[0].Samples) != 2 {
		t.Errorf("expected 2 samples averaging 21 on 2024-05-03, got %d averaging %v",
			len(days[0].Samples), days[0].AvgTemp)
	}
}

func TestSummarizeAssignsEverySampleOnce(t *testing.T) {
	var in []Sample
	for i := int64(0); i < 40; i++ {
		in = append(in, sample(may1+i*3*hour+1800, float64(i%7), "Clouds", "04d"))
	}

	days, err := Summarize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(days))
	}

	total := 0
	for _, d := range days {
		for _, s := range d.Samples {
			if DateOf(s.Timestamp) != d.Date {
				t.Errorf("sample %d attributed to %s", s.Timestamp, d.Date)
			}
		}
		total += len(d.Samples)
	}
	if total != len(in) {
		t.Errorf("expected %d samples across days, got %d", len(in), total)
	}
}

func TestSummarizeIsIdempotent(t *testing.T) {
	in := []Sample{
		sample(may1, 3.3, "Snow", "13d"),
		sample(may1+day, 4.4, "Mist", "50d"),
	}
	snapshot := append([]Sample(nil), in...)

	first, err := Summarize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Summarize(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical output, got %v and %v", first, second)
	}
	if !reflect.DeepEqual(in, snapshot) {
		t.Errorf("input was mutated")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	days, err := Summarize(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days == nil || len(days) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", days)
	}
}

func TestSummarizePassesUnknownVocabularyThrough(t *testing.T) {
	days, err := Summarize([]Sample{sample(may1, 5, "Volcanic Ash", "zz9")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days[0].Condition != "Volcanic Ash" || days[0].Icon != "zz9" {
		t.Errorf("unexpected summary %+v", days[0])
	}
}

func TestSummarizeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		in    []Sample
		field string
		index int
	}{
		{"zero timestamp", []Sample{sample(may1, 1, "Clear", ""), sample(0, 1, "Clear", "")}, "timestamp", 1},
		{"nan temperature", []Sample{sample(may1, math.NaN(), "Clear", "")}, "temperature", 0},
		{"inf temperature", []Sample{sample(may1, 1, "Clear", ""), sample(may1, 1, "Clear", ""), sample(may1, math.Inf(1), "Clear", "")}, "temperature", 2},
		{"empty condition", []Sample{sample(may1, 1, "", "01d")}, "condition", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := Summarize(tt.in)
			if days != nil {
				t.Errorf("expected no output, got %v", days)
			}
			var me *MalformedSampleError
			if !errors.As(err, &me) {
				t.Fatalf("expected MalformedSampleError, got %v", err)
			}
			if me.Index != tt.index || me.Field != tt.field {
				t.Errorf("expected %s at %d, got %s at %d", tt.field, tt.index, me.Field, me.Index)
			}
			if !errors.Is(err, ErrMalformedSample) {
				t.Errorf("expected errors.Is ErrMalformedSample")
			}
		})
	}
}

func TestSummarizeRawMissingTemperature(t *testing.T) {
	ts := may1
	temp := 10.0
	clear := "Clear"

	raw := []RawSample{
		{Timestamp: &ts, Temperature: &temp, Condition: &clear, Icon: "01d"},
		{Timestamp: &ts, Condition: &clear, Icon: "01d"},
	}

	days, err := SummarizeRaw(raw)
	if days != nil {
		t.Errorf("expected no partial output, got %v", days)
	}
	var me *MalformedSampleError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedSampleError, got %v", err)
	}
	if me.Index != 1 || me.Field != "temperature" {
		t.Errorf("expected temperature at index 1, got %s at %d", me.Field, me.Index)
	}
}

func TestSummarizeRawWellFormed(t *testing.T) {
	ts1, ts2 := may1, may1+3*hour
	t1, t2 := 8.0, 9.0
	c := "Drizzle"

	days, err := SummarizeRaw([]RawSample{
		{Timestamp: &ts1, Temperature: &t1, Condition: &c, Icon: "09d"},
		{Timestamp: &ts2, Temperature: &t2, Condition: &c, Icon: "09n"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 1 || days[0].AvgTemp != 8.5 || days[0].Icon != "09n" {
		t.Errorf("unexpected summary %+v", days)
	}
}
