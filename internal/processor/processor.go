// Package processor turns stored exports announced over NATS into reports.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/wrapped/internal/analytics"
	"github.com/MikeSquared-Agency/wrapped/internal/hermes"
	"github.com/MikeSquared-Agency/wrapped/internal/objstore"
	"github.com/MikeSquared-Agency/wrapped/internal/pipeline"
	"github.com/MikeSquared-Agency/wrapped/internal/report"
)

// Publisher emits lifecycle events.
type Publisher interface {
	PublishEvent(evt hermes.Event) error
}

// Notifier announces finished reports to people.
type Notifier interface {
	PostSummary(ctx context.Context, sum report.Summary, exportID string) (string, error)
}

// Options configures a Processor.
type Options struct {
	Timezone       string
	Keywords       int
	MaxUploadBytes int64
	Timeout        time.Duration
}

// Processor consumes wrapped.export.stored events.
type Processor struct {
	pipe     *pipeline.Pipeline
	store    objstore.Store
	events   Publisher
	notifier Notifier
	opts     Options
	logger   *slog.Logger
	now      func() time.Time
}

// New builds a Processor. notifier may be nil.
func New(pipe *pipeline.Pipeline, store objstore.Store, events Publisher, notifier Notifier, opts Options, logger *slog.Logger) *Processor {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	return &Processor{
		pipe:     pipe,
		store:    store,
		events:   events,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// HandleExportStored is the NATS handler for wrapped.export.stored.
func (p *Processor) HandleExportStored(subject string, data []byte) {
	var evt hermes.ExportStored
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse export event", "subject", subject, "error", err)
		return
	}
	if evt.ExportID == "" || evt.ObjectKey == "" {
		p.logger.Error("export event missing fields", "export_id", evt.ExportID, "object_key", evt.ObjectKey)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.opts.Timeout)
	defer cancel()

	if _, err := p.Process(ctx, evt); err != nil {
		p.logger.Error("export processing failed", "export_id", evt.ExportID, "error", err)
		p.publish(hermes.ReportFailed{
			ExportID: evt.ExportID,
			Error:    err.Error(),
			FailedAt: p.now().UTC(),
		})
	}
}

// Process fetches the export, runs the pipeline and stores the rendered report.
// It returns the generated event after publishing it.
func (p *Processor) Process(ctx context.Context, evt hermes.ExportStored) (*hermes.ReportGenerated, error) {
	p.logger.Info("processing export",
		"export_id", evt.ExportID,
		"object_key", evt.ObjectKey,
		"year", evt.Year,
	)

	raw, err := p.store.Get(ctx, evt.ObjectKey, p.opts.MaxUploadBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", evt.ObjectKey, err)
	}

	filename := evt.Filename
	if filename == "" {
		filename = path.Base(evt.ObjectKey)
	}
	tz := evt.Timezone
	if tz == "" {
		tz = p.opts.Timezone
	}
	res, err := p.pipe.Run(ctx, pipeline.Request{
		Raw:      raw,
		Filename: filename,
		Timezone: tz,
		Options: analytics.Options{
			Filter:   analytics.Filter{Year: evt.Year},
			Keywords: p.opts.Keywords,
		},
	})
	if err != nil {
		return nil, err
	}

	sum := report.NewSummary(res)
	if err := p.storeReport(ctx, evt.ExportID, sum); err != nil {
		return nil, err
	}

	generated := hermes.ReportGenerated{
		ReportID:    uuid.New().String(),
		ExportID:    evt.ExportID,
		Archetype:   sum.Archetype.Title,
		Emoji:       sum.Archetype.Emoji,
		Totals:      sum.Metrics,
		Highlights:  sum.Highlights,
		Flair:       sum.Flair.Map(),
		GeneratedAt: sum.GeneratedAt,
	}
	p.publish(generated)

	if p.notifier != nil {
		if _, err := p.notifier.PostSummary(ctx, sum, evt.ExportID); err != nil {
			p.logger.Error("slack post failed", "export_id", evt.ExportID, "error", err)
		}
	}

	p.logger.Info("export processed",
		"export_id", evt.ExportID,
		"report_id", generated.ReportID,
		"messages", sum.Metrics.Messages,
		"archetype", sum.Archetype.Title,
	)
	return &generated, nil
}

func (p *Processor) storeReport(ctx context.Context, exportID string, sum report.Summary) error {
	var js, page bytes.Buffer
	if err := report.WriteJSON(&js, sum); err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	if err := report.WriteHTML(&page, sum); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	jsonKey := objstore.ReportKey(exportID, report.SummaryFileName(sum.Year))
	if err := p.store.Put(ctx, jsonKey, js.Bytes(), "application/json"); err != nil {
		return fmt.Errorf("store summary: %w", err)
	}
	htmlKey := objstore.ReportKey(exportID, report.HTMLFileName(sum.Year))
	if err := p.store.Put(ctx, htmlKey, page.Bytes(), "text/html; charset=utf-8"); err != nil {
		return fmt.Errorf("store html: %w", err)
	}
	return nil
}

func (p *Processor) publish(evt hermes.Event) {
	if p.events == nil {
		return
	}
	if err := p.events.PublishEvent(evt); err != nil {
		p.logger.Error("failed to publish event", "subject", evt.Subject(), "error", err)
	}
}
