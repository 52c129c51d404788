package archetype

import "github.com/MikeSquared-Agency/wrapped/internal/analytics"

// Flair thresholds. Each axis has three tiers: at or above high, at or above mid, below mid.
const (
	IntensityHigh = 2_000_000
	IntensityMid  = 500_000
	CadenceHigh   = 1000
	CadenceMid    = 200
	StyleHigh     = 0.85
	StyleMid      = 0.65
)

// Flair is one descriptive line per axis.
type Flair struct {
	Intensity string `json:"intensity"`
	Cadence   string `json:"cadence"`
	Style     string `json:"style"`
}

// Lines returns the flair in display order.
func (f Flair) Lines() []string {
	return []string{f.Intensity, f.Cadence, f.Style}
}

// Map returns the flair keyed by axis name.
func (f Flair) Map() map[string]string {
	return map[string]string{"intensity": f.Intensity, "cadence": f.Cadence, "style": f.Style}
}

// AddFlair derives the three flair lines from totals. Every input yields exactly one line per axis.
func AddFlair(t analytics.Totals) Flair {
	var f Flair

	switch {
	case t.Tokens >= IntensityHigh:
		f.Intensity = "High-volume year: you treated ChatGPT like a second brain."
	case t.Tokens >= IntensityMid:
		f.Intensity = "Consistent year: you used ChatGPT as a daily work partner."
	default:
		f.Intensity = "Light-touch year: you dipped in when it mattered."
	}

	switch {
	case t.Conversations >= CadenceHigh:
		f.Cadence = "You work in lots of threads: rapid context switching, fast iteration."
	case t.Conversations >= CadenceMid:
		f.Cadence = "You build a healthy number of threads: project-based exploration."
	default:
		f.Cadence = "You keep things focused: fewer threads, deeper dives."
	}

	switch {
	case t.AssistantTokenShare >= StyleHigh:
		f.Style = "You prompt for deep outputs and big syntheses."
	case t.AssistantTokenShare >= StyleMid:
		f.Style = "Balanced dialogue: you steer, ChatGPT elaborates."
	default:
		f.Style = "You do more of the talking: short replies and quick turns."
	}

	return f
}
