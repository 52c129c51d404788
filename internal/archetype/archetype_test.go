package archetype

import (
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/wrapped/internal/analytics"
	"github.com/MikeSquared-Agency/wrapped/internal/categorise"
)

func rollup(cats ...string) []analytics.CategoryTokens {
	out := make([]analytics.CategoryTokens, len(cats))
	for i, c := range cats {
		out[i] = analytics.CategoryTokens{Category: c, Tokens: 100 - i}
	}
	return out
}

func TestAssign(t *testing.T) {
	tests := []struct {
		name  string
		input []analytics.CategoryTokens
		want  string
	}{
		{"empty", nil, "Adventurer"},
		{"combo", rollup(categorise.AI, categorise.AppDevelopment), "Applied Futurist"},
		{"combo is ordered", rollup(categorise.AppDevelopment, categorise.AI), "AI Engineer"},
		{"single category", rollup(categorise.DataEngineering), "Technician"},
		{"no combo falls back to primary", rollup(categorise.Personal, categorise.AI), "Adventurer"},
		{"unknown pair uses top", rollup(categorise.Security, categorise.Writing), "Guardian"},
		{"unknown category", rollup("Underwater basket weaving"), "Adventurer"},
		{"only first two count", rollup(categorise.Writing, categorise.Personal, categorise.AI), "Storyteller"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Assign(tt.input); got.Title != tt.want {
				t.Errorf("Assign = %q, want %q", got.Title, tt.want)
			}
		})
	}
}

func TestCatalogCoversEveryCategory(t *testing.T) {
	for _, name := range categorise.Names() {
		a, ok := Catalog[name]
		if !ok {
			t.Errorf("no archetype for %q", name)
			continue
		}
		if a.Title == "" || a.Tagline == "" || a.Emoji == "" {
			t.Errorf("incomplete archetype for %q: %+v", name, a)
		}
		for _, tr := range a.Traits {
			if tr == "" {
				t.Errorf("empty trait for %q", name)
			}
		}
	}
}

func TestCombosAreComplete(t *testing.T) {
	if len(combos) < 10 {
		t.Errorf("expected a curated combination table, got %d entries", len(combos))
	}
	for p, a := range combos {
		if p.first == p.second {
			t.Errorf("combo pairs %q with itself", p.first)
		}
		if _, ok := Catalog[p.first]; !ok {
			t.Errorf("combo references unknown category %q", p.first)
		}
		if _, ok := Catalog[p.second]; !ok {
			t.Errorf("combo references unknown category %q", p.second)
		}
		if a.Title == "" || a.Traits[2] == "" {
			t.Errorf("incomplete combo %+v", a)
		}
	}
}

func TestAddFlair_Tiers(t *testing.T) {
	tests := []struct {
		name   string
		totals analytics.Totals
		want   [3]string // prefixes
	}{
		{"zero", analytics.Totals{}, [3]string{"Light-touch", "You keep things focused", "You do more of the talking"}},
		{"mid boundaries", analytics.Totals{Tokens: 500_000, Conversations: 200, AssistantTokenShare: 0.65},
			[3]string{"Consistent", "You build a healthy", "Balanced dialogue"}},
		{"high boundaries", analytics.Totals{Tokens: 2_000_000, Conversations: 1000, AssistantTokenShare: 0.85},
			[3]string{"High-volume", "You work in lots", "You prompt for deep"}},
		{"just below mid", analytics.Totals{Tokens: 499_999, Conversations: 199, AssistantTokenShare: 0.6499},
			[3]string{"Light-touch", "You keep things focused", "You do more of the talking"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := AddFlair(tt.totals).Lines()
			for i, prefix := range tt.want {
				if !strings.HasPrefix(lines[i], prefix) {
					t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix)
				}
			}
		})
	}
}

func TestFlair_Map(t *testing.T) {
	m := AddFlair(analytics.Totals{}).Map()
	for _, k := range []string{"intensity", "cadence", "style"} {
		if m[k] == "" {
			t.Errorf("missing %s", k)
		}
	}
}
