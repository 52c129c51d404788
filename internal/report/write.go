package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/MikeSquared-Agency/wrapped/internal/pipeline"
)

// WriteOptions controls WriteDir.
type WriteOptions struct {
	// AllTables also writes every rollup table as CSV, not just messages and conversations.
	AllTables bool
}

// WriteDir writes the summary JSON, HTML report and CSV tables for res into dir,
// creating it if needed. It returns the written paths.
func WriteDir(ctx context.Context, dir string, res *pipeline.Result, opts WriteOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	sum := NewSummary(res)
	label := sum.Year

	type job struct {
		name  string
		write func(*bytes.Buffer) error
	}
	jobs := []job{
		{SummaryFileName(label), func(b *bytes.Buffer) error { return WriteJSON(b, sum) }},
		{HTMLFileName(label), func(b *bytes.Buffer) error { return WriteHTML(b, sum) }},
	}
	tables := []string{TableMessages, TableConversations}
	if opts.AllTables {
		tables = TableNames()
	}
	for _, name := range tables {
		t, _ := TableByName(res, name)
		jobs = append(jobs, job{TableFileName(name, label), func(b *bytes.Buffer) error { return WriteCSV(b, t) }})
	}

	paths := make([]string, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := j.write(&buf); err != nil {
				return err
			}
			path := filepath.Join(dir, j.name)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
