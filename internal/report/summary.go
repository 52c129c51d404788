// Package report renders pipeline results as JSON, CSV, HTML and a terminal card.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/MikeSquared-Agency/wrapped/internal/analytics"
	"github.com/MikeSquared-Agency/wrapped/internal/archetype"
	"github.com/MikeSquared-Agency/wrapped/internal/pipeline"
)

// TopN caps the category lists in a Summary.
const TopN = 10

// Summary is the downloadable digest of one run.
type Summary struct {
	Year              string                     `json:"year"`
	Timezone          string                     `json:"timezone"`
	Start             string                     `json:"start,omitempty"`
	End               string                     `json:"end,omitempty"`
	Archetype         archetype.Archetype        `json:"archetype"`
	Flair             archetype.Flair            `json:"flair"`
	Metrics           analytics.Totals           `json:"metrics"`
	Highlights        analytics.Highlights       `json:"highlights"`
	TopCategories     []analytics.CategoryTokens `json:"top_categories"`
	TopTimeCategories []analytics.CategoryTime   `json:"top_time_categories"`
	TokensOverTime    []analytics.TokenPoint     `json:"tokens_over_time"`
	TimeOverTime      []analytics.TimePoint      `json:"time_over_time"`
	Keywords          []analytics.KeywordCount   `json:"keywords"`
	Tokenizer         string                     `json:"tokenizer"`
	TokenizerNote     string                     `json:"tokenizer_note,omitempty"`
	GeneratedAt       time.Time                  `json:"generated_at"`
}

// NewSummary digests a pipeline result.
func NewSummary(res *pipeline.Result) Summary {
	r := res.Rollups
	return Summary{
		Year:              res.Filter.YearLabel(),
		Timezone:          res.Timezone,
		Start:             res.Filter.Start,
		End:               res.Filter.End,
		Archetype:         res.Archetype,
		Flair:             res.Flair,
		Metrics:           r.Totals,
		Highlights:        r.Highlights,
		TopCategories:     head(r.TokensByCategory, TopN),
		TopTimeCategories: head(r.TimeByCategory, TopN),
		TokensOverTime:    nonNil(r.TokensOverTime),
		TimeOverTime:      nonNil(r.TimeOverTime),
		Keywords:          nonNil(r.Keywords),
		Tokenizer:         res.TokenLabel,
		TokenizerNote:     res.TokenNote,
		GeneratedAt:       res.GeneratedAt,
	}
}

// WriteJSON writes s as indented JSON.
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		s = s[:n]
	}
	return nonNil(s)
}

// nonNil keeps empty lists as [] rather than null in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return append([]T(nil), s...)
}
