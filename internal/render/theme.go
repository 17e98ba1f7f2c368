package render

// Gradient is a two-stop background.
type Gradient struct {
	From string `json:"from"`
	To   string `json:"to"`
}

var themes = map[string]Gradient{
	"Clear":        {"#f6d365", "#fda085"},
	"Clouds":       {"#d7d2cc", "#304352"},
	"Rain":         {"#4e54c8", "#8f94fb"},
	"Drizzle":      {"#4e54c8", "#8f94fb"},
	"Snow":         {"#83a4d4", "#b6fbff"},
	"Thunderstorm": {"#232526", "#414345"},
}

// DefaultTheme is used for conditions without a dedicated gradient.
var DefaultTheme = Gradient{"#89f7fe", "#66a6ff"}

// Theme returns the background gradient for a condition label.
func Theme(condition string) Gradient {
	if g, ok := themes[condition]; ok {
		return g
	}
	return DefaultTheme
}
