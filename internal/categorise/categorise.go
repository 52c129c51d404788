// Package categorise buckets message text into a fixed set of topics.
package categorise

import "regexp"

// Category names. The set is closed.
const (
	DataEngineering  = "Data engineering and SQL"
	AppDevelopment   = "App development and code"
	Troubleshooting  = "Troubleshooting and tooling"
	DataQuality      = "Data quality and parsing"
	AI               = "AI and LLMs"
	Security         = "Security, privacy and compliance"
	Analytics        = "Analytics and reporting"
	BusinessStrategy = "Business strategy, finance and deals"
	Writing          = "Writing, marketing and comms"
	Personal         = "Personal and lifestyle"
)

// Default is returned when no rule matches.
const Default = Personal

// Rule assigns Name to any text matching Pattern.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// rules are evaluated in order and the first match wins, so a message that
// mentions both SQL and an LLM is always filed under data engineering.
var rules = []Rule{
	{DataEngineering, words(`SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP|PL/pgSQL|postgres|psql|uuid|index|join|window function`)},
	{AppDevelopment, words(`streamlit|stripe|frontend|backend|api|oauth|auth|typescript|javascript|react|tauri|rust|docker|cloud run|gcp|mysql`)},
	{Troubleshooting, words(`error|stack trace|traceback|npm|vite|cargo|compile|dependency|cannot be resolved|failed to run|port\s+\d+\s+is\s+in\s+use`)},
	{DataQuality, words(`price_parser|parse_price|canonical|normalise|normalize|dedupe|edge case|test summary|false events|lineage`)},
	{AI, words(`chatgpt|claude|gemini|copilot|llm|prompt|hallucination|arena|model`)},
	{Security, words(`gdpr|soc2|pii|privacy|leak|redact|compliance|governance|risk perception|data loss`)},
	{Analytics, words(`power bi|dax|dashboard|oracle api|metrics|kpi|reporting|visuali[sz]ation`)},
	{BusinessStrategy, words(`jv|joint venture|acquisition|sell|search fund|private equity|due diligence|valuation|irr|wacc`)},
	{Writing, words(`linkedin|carousel|blog|seo|press|pr|media release|copywriting`)},
}

// words matches any of the alternatives as a whole word, case-insensitively.
// Word characters include every Unicode letter and digit, not just ASCII.
func words(alternatives string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(?:` + alternatives + `)(?:$|[^\p{L}\p{N}_])`)
}

// Categorise returns the first matching category, or Default.
func Categorise(text string) string {
	if text == "" {
		return Default
	}
	for _, r := range rules {
		if r.Pattern.MatchString(text) {
			return r.Name
		}
	}
	return Default
}

// Names returns every category in rule priority order, Default last.
func Names() []string {
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.Name)
	}
	return append(out, Default)
}

// Priority is the rule index of a category; unknown names sort after Default.
func Priority(name string) int {
	for i, r := range rules {
		if r.Name == name {
			return i
		}
	}
	if name == Default {
		return len(rules)
	}
	return len(rules) + 1
}
