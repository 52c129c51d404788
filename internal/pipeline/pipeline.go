// Package pipeline runs parse, annotate, aggregate and classify for one export.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/wrapped/internal/analytics"
	"github.com/MikeSquared-Agency/wrapped/internal/archetype"
	"github.com/MikeSquared-Agency/wrapped/internal/export"
	"github.com/MikeSquared-Agency/wrapped/internal/tokens"
)

// Request describes one run.
type Request struct {
	Raw      []byte
	Filename string
	Timezone string
	Options  analytics.Options
}

// Result is everything derived from one export. Callers own it exclusively.
type Result struct {
	Filename    string
	Timezone    string
	Filter      analytics.Filter
	Freq        analytics.Freq
	Rows        []analytics.Row // every annotated row, before filtering
	YearOptions []string
	Rollups     analytics.Rollups
	Archetype   archetype.Archetype
	Flair       archetype.Flair
	TokenLabel  string
	TokenNote   string
	GeneratedAt time.Time
}

// Empty reports whether the filtered row set has no messages.
func (r *Result) Empty() bool { return r.Rollups.Totals.Messages == 0 }

// Pipeline holds the token strategy chosen at startup and an optional memo.
type Pipeline struct {
	tokens tokens.Selection
	memo   *Memo
	logger *slog.Logger
	now    func() time.Time
}

// New builds a Pipeline. memo may be nil to disable caching.
func New(sel tokens.Selection, memo *Memo, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{tokens: sel, memo: memo, logger: logger, now: time.Now}
}

// Tokens reports the token strategy in use.
func (p *Pipeline) Tokens() tokens.Selection { return p.tokens }

// Run processes one export. Parse and config errors abort the run; everything
// else degrades to fewer rows or empty rollups. ctx is checked between stages.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	start := p.now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Filename == "" {
		req.Filename = "conversations.json"
	}
	if err := req.Options.Filter.Validate(); err != nil {
		return nil, err
	}
	loc, err := export.LoadLocation(req.Timezone)
	if err != nil {
		return nil, err
	}

	parseKey := ParseKey(req.Raw, req.Filename, req.Timezone)
	msgs, err := remember(ctx, p.memo, parseKey, func() ([]export.Message, error) {
		return export.Parse(req.Raw, req.Filename, req.Timezone)
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("after parse: %w", err)
	}

	rows, err := remember(ctx, p.memo, AnnotateKey(parseKey, p.tokens.Counter.Name()), func() ([]analytics.Row, error) {
		return analytics.BuildRows(msgs, p.tokens.Counter), nil
	})
	if err != nil {
		return nil, err
	}
	// Decoded times carry a fixed offset; restore the named zone.
	for i := range rows {
		rows[i].CreatedAt = rows[i].CreatedAt.In(loc)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("after annotate: %w", err)
	}

	rollups := analytics.Compute(rows, req.Options)
	res := &Result{
		Filename:    req.Filename,
		Timezone:    req.Timezone,
		Filter:      req.Options.Filter,
		Freq:        req.Options.Freq,
		Rows:        rows,
		YearOptions: analytics.YearOptions(rows),
		Rollups:     rollups,
		Archetype:   archetype.Assign(rollups.TokensByCategory),
		Flair:       archetype.AddFlair(rollups.Totals),
		TokenLabel:  p.tokens.Label(),
		TokenNote:   p.tokens.Note,
		GeneratedAt: p.now().UTC(),
	}
	if res.Freq == "" {
		res.Freq = analytics.Daily
	}

	p.logger.Info("export processed",
		"filename", req.Filename,
		"messages", len(msgs),
		"rows", len(rollups.Rows),
		"conversations", rollups.Totals.Conversations,
		"archetype", res.Archetype.Title,
		"duration", p.now().Sub(start).String(),
	)
	return res, nil
}
