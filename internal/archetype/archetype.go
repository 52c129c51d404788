// Package archetype turns a category mix into a persona and a few lines of flair.
package archetype

import (
	"github.com/MikeSquared-Agency/wrapped/internal/analytics"
	"github.com/MikeSquared-Agency/wrapped/internal/categorise"
)

// Archetype is a persona descriptor. Values are immutable lookups.
type Archetype struct {
	Title   string    `json:"title"`
	Tagline string    `json:"tagline"`
	Emoji   string    `json:"emoji"`
	Traits  [3]string `json:"traits"`
}

// Catalog maps each category to its primary persona.
var Catalog = map[string]Archetype{
	categorise.DataEngineering: {
		Title:   "Technician",
		Tagline: "You chase correctness, performance, and clean data like it is a sport.",
		Emoji:   "🛠️",
		Traits:  [3]string{"Rigorous", "Systems-minded", "Relentless about edge cases"},
	},
	categorise.Security: {
		Title:   "Guardian",
		Tagline: "You prioritise trust, governance, and safe adoption over hype.",
		Emoji:   "🛡️",
		Traits:  [3]string{"Risk-aware", "Practical", "Trust-first"},
	},
	categorise.AI: {
		Title:   "Explorer",
		Tagline: "You test new models and workflows, looking for real leverage.",
		Emoji:   "🧭",
		Traits:  [3]string{"Curious", "Fast learner", "Tool-oriented"},
	},
	categorise.BusinessStrategy: {
		Title:   "Strategist",
		Tagline: "You think in trade-offs, incentives, and paths to scale.",
		Emoji:   "♟️",
		Traits:  [3]string{"Commercial", "Decisive", "Option-creating"},
	},
	categorise.Writing: {
		Title:   "Storyteller",
		Tagline: "You turn ideas into language that moves people.",
		Emoji:   "🖋️",
		Traits:  [3]string{"Clear", "Persuasive", "Audience-aware"},
	},
	categorise.AppDevelopment: {
		Title:   "Builder",
		Tagline: "You ship tools, prototypes, and platforms that make work easier.",
		Emoji:   "🏗️",
		Traits:  [3]string{"Hands-on", "Iterative", "Product-minded"},
	},
	categorise.Analytics: {
		Title:   "Analyst",
		Tagline: "You make data legible and decision-ready.",
		Emoji:   "📈",
		Traits:  [3]string{"Insightful", "Structured", "Outcome-focused"},
	},
	categorise.Troubleshooting: {
		Title:   "Fixer",
		Tagline: "You keep the machine running, one thorny error at a time.",
		Emoji:   "🔧",
		Traits:  [3]string{"Pragmatic", "Persistent", "Detail-oriented"},
	},
	categorise.DataQuality: {
		Title:   "Archivist",
		Tagline: "You care about truth over time, canonical records, and clean history.",
		Emoji:   "📚",
		Traits:  [3]string{"Precise", "Audit-friendly", "Consistency-obsessed"},
	},
	categorise.Personal: {
		Title:   "Adventurer",
		Tagline: "You mix the serious with the fun. Work hard, play thoughtfully.",
		Emoji:   "✨",
		Traits:  [3]string{"Well-rounded", "Playful", "Human-first"},
	},
}

// Default is the persona for an empty or unrecognised category mix.
func Default() Archetype { return Catalog[categorise.Default] }

// Assign picks a persona from a category rollup ordered by tokens descending.
// A known (first, second) pair wins over the first category's own persona.
func Assign(byCategory []analytics.CategoryTokens) Archetype {
	if len(byCategory) == 0 {
		return Default()
	}
	top := byCategory[0].Category
	if len(byCategory) > 1 {
		if a, ok := combos[pair{top, byCategory[1].Category}]; ok {
			return a
		}
	}
	if a, ok := Catalog[top]; ok {
		return a
	}
	return Default()
}
