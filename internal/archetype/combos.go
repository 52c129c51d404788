package archetype

import "github.com/MikeSquared-Agency/wrapped/internal/categorise"

type pair struct{ first, second string }

// combos holds personas for a dominant category followed by a strong runner-up. Order matters.
var combos = map[pair]Archetype{
	{categorise.AI, categorise.AppDevelopment}: {
		Title:   "Applied Futurist",
		Tagline: "You turn new models into working software before the hype settles.",
		Emoji:   "🚀",
		Traits:  [3]string{"Early adopter", "Builder's instinct", "Leverage-seeking"},
	},
	{categorise.AppDevelopment, categorise.AI}: {
		Title:   "AI Engineer",
		Tagline: "You wire models into products and care whether they hold up in production.",
		Emoji:   "🤖",
		Traits:  [3]string{"Pragmatic", "Integration-minded", "Ship-focused"},
	},
	{categorise.DataEngineering, categorise.Analytics}: {
		Title:   "Pipeline Architect",
		Tagline: "From raw tables to the dashboard, you own the whole path.",
		Emoji:   "🧱",
		Traits:  [3]string{"End-to-end", "Model-minded", "Reliable"},
	},
	{categorise.Analytics, categorise.DataEngineering}: {
		Title:   "Insight Engineer",
		Tagline: "You build the numbers you report on, and you trust them because you built them.",
		Emoji:   "🔬",
		Traits:  [3]string{"Curious", "Hands-on", "Evidence-led"},
	},
	{categorise.DataEngineering, categorise.DataQuality}: {
		Title:   "Data Steward",
		Tagline: "Clean schemas, clean history, no surprises downstream.",
		Emoji:   "🗄️",
		Traits:  [3]string{"Meticulous", "Consistent", "Audit-ready"},
	},
	{categorise.DataQuality, categorise.DataEngineering}: {
		Title:   "Record Keeper",
		Tagline: "You reconcile every edge case until the ledger balances.",
		Emoji:   "🧾",
		Traits:  [3]string{"Exacting", "Patient", "Canonical"},
	},
	{categorise.AppDevelopment, categorise.Troubleshooting}: {
		Title:   "Debugger-in-Chief",
		Tagline: "You build fast and fix faster, stack trace in one hand and editor in the other.",
		Emoji:   "🐛",
		Traits:  [3]string{"Tenacious", "Iterative", "Unflappable"},
	},
	{categorise.Troubleshooting, categorise.AppDevelopment}: {
		Title:   "Toolsmith",
		Tagline: "When the build breaks you do not just patch it, you make it better.",
		Emoji:   "⚙️",
		Traits:  [3]string{"Resourceful", "Systematic", "Calm under fire"},
	},
	{categorise.AI, categorise.Writing}: {
		Title:   "Prompt Poet",
		Tagline: "You treat models as a writing partner and language as an interface.",
		Emoji:   "🪶",
		Traits:  [3]string{"Expressive", "Experimental", "Wordsmith"},
	},
	{categorise.Writing, categorise.AI}: {
		Title:   "Amplified Author",
		Tagline: "You write with a co-pilot and keep your own voice.",
		Emoji:   "📝",
		Traits:  [3]string{"Prolific", "Editorial", "Voice-driven"},
	},
	{categorise.AI, categorise.Security}: {
		Title:   "Responsible Pioneer",
		Tagline: "You push on what models can do while asking what they should do.",
		Emoji:   "⚖️",
		Traits:  [3]string{"Principled", "Curious", "Risk-aware"},
	},
	{categorise.Security, categorise.AI}: {
		Title:   "AI Gatekeeper",
		Tagline: "New tools get through the door once they have earned your trust.",
		Emoji:   "🔐",
		Traits:  [3]string{"Vigilant", "Policy-minded", "Fair"},
	},
	{categorise.BusinessStrategy, categorise.Analytics}: {
		Title:   "Numbers Dealmaker",
		Tagline: "You back every strategic call with a model you can defend.",
		Emoji:   "💼",
		Traits:  [3]string{"Quantitative", "Persuasive", "Commercial"},
	},
	{categorise.BusinessStrategy, categorise.Writing}: {
		Title:   "Pitch Crafter",
		Tagline: "You shape the story that gets the deal over the line.",
		Emoji:   "🎯",
		Traits:  [3]string{"Compelling", "Sharp", "Stakeholder-aware"},
	},
	{categorise.Analytics, categorise.BusinessStrategy}: {
		Title:   "Decision Scientist",
		Tagline: "You turn dashboards into decisions and decisions into results.",
		Emoji:   "🧮",
		Traits:  [3]string{"Analytical", "Commercial", "Outcome-driven"},
	},
}
