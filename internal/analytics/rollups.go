package analytics

// Options tune Compute.
type Options struct {
	Filter   Filter
	Freq     Freq
	Keywords int
}

// Rollups bundles every aggregate for one filtered row set.
type Rollups struct {
	Rows                 []Row                 `json:"-"`
	Totals               Totals                `json:"totals"`
	Conversations        []ConversationSummary `json:"conversations"`
	TokensByCategory     []CategoryTokens      `json:"tokens_by_category"`
	TokensByCategoryRole []CategoryRoleTokens  `json:"tokens_by_category_role"`
	TokensOverTime       []TokenPoint          `json:"tokens_over_time"`
	TimeByCategory       []CategoryTime        `json:"time_by_category"`
	TimeOverTime         []TimePoint           `json:"time_over_time"`
	Activity             ActivityMatrix        `json:"activity"`
	Keywords             []KeywordCount        `json:"keywords"`
	Highlights           Highlights            `json:"highlights"`
}

// Compute filters rows and derives every rollup from the result.
func Compute(rows []Row, opts Options) Rollups {
	freq := opts.Freq
	if freq == "" {
		freq = Daily
	}
	n := opts.Keywords
	if n <= 0 {
		n = DefaultKeywords
	}

	filtered := opts.Filter.Apply(rows)
	conv := ConversationLevel(filtered)
	return Rollups{
		Rows:                 filtered,
		Totals:               ComputeTotals(filtered),
		Conversations:        conv,
		TokensByCategory:     TokensByCategory(filtered),
		TokensByCategoryRole: TokensByCategoryAndRole(filtered),
		TokensOverTime:       TokensOverTime(filtered, freq),
		TimeByCategory:       TimeByCategory(conv),
		TimeOverTime:         TimeOverTime(conv, freq),
		Activity:             ActivityHeatmap(filtered),
		Keywords:             TopKeywords(filtered, n),
		Highlights:           ComputeHighlights(filtered, conv),
	}
}
