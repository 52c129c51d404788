// Package watch regenerates reports whenever a new export lands in a directory.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MikeSquared-Agency/wrapped/internal/analytics"
	"github.com/MikeSquared-Agency/wrapped/internal/pipeline"
	"github.com/MikeSquared-Agency/wrapped/internal/report"
)

// DefaultDebounce is how long a file must stay quiet before it is processed.
const DefaultDebounce = 2 * time.Second

// Options configures a Watcher.
type Options struct {
	Dir       string
	OutDir    string
	Timezone  string
	Analytics analytics.Options
	AllTables bool
	Debounce  time.Duration
}

// Watcher turns exports dropped into Dir into report directories under OutDir.
type Watcher struct {
	pipe   *pipeline.Pipeline
	state  *State
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

// New builds a Watcher. The state is saved after every processed file.
func New(pipe *pipeline.Pipeline, state *State, opts Options, logger *slog.Logger) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{
		pipe:    pipe,
		state:   state,
		opts:    opts,
		logger:  logger,
		pending: make(map[string]time.Time),
	}
}

// Matches reports whether a file name looks like a ChatGPT export.
func Matches(name string) bool {
	base := strings.ToLower(filepath.Base(name))
	if strings.HasPrefix(base, ".") {
		return false
	}
	if strings.HasSuffix(base, ".zip") {
		return true
	}
	return strings.HasSuffix(base, ".json") && strings.Contains(base, "conversations")
}

// Run watches Dir until ctx is cancelled. Exports already present are queued on start.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.opts.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.opts.Dir, err)
	}
	w.logger.Info("watching for exports", "dir", w.opts.Dir, "out", w.opts.OutDir)

	entries, err := os.ReadDir(w.opts.Dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", w.opts.Dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() && Matches(e.Name()) {
			w.touch(filepath.Join(w.opts.Dir, e.Name()))
		}
	}

	tick := w.opts.Debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				if Matches(event.Name) {
					w.touch(event.Name)
				}
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case now := <-ticker.C:
			for _, path := range w.due(now) {
				if _, err := w.ProcessFile(ctx, path); err != nil {
					w.logger.Error("export failed", "path", path, "error", err)
				}
			}
		}
	}
}

func (w *Watcher) touch(path string) {
	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// due pops every pending path that has been quiet for the debounce window.
func (w *Watcher) due(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, changed := range w.pending {
		if now.Sub(changed) >= w.opts.Debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	return ready
}

// ProcessFile writes the reports for one export and returns the output directory.
// An export whose content hash is already in the state is skipped and returns "".
func (w *Watcher) ProcessFile(ctx context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	sum := sha256.Sum256(raw)
	hash := hex.EncodeToString(sum[:])
	if w.state.IsProcessed(hash) {
		w.logger.Info("export already processed", "path", path, "hash", hash[:12])
		return "", nil
	}

	name := filepath.Base(path)
	outDir := filepath.Join(w.opts.OutDir, strings.TrimSuffix(name, filepath.Ext(name)))

	res, err := w.pipe.Run(ctx, pipeline.Request{
		Raw:      raw,
		Filename: name,
		Timezone: w.opts.Timezone,
		Options:  w.opts.Analytics,
	})
	if err != nil {
		return "", w.fail(path, err)
	}

	paths, err := report.WriteDir(ctx, outDir, res, report.WriteOptions{AllTables: w.opts.AllTables})
	if err != nil {
		return "", w.fail(path, err)
	}

	w.state.MarkProcessed(hash, outDir)
	if err := w.state.Save(); err != nil {
		w.logger.Warn("failed to save watch state", "path", w.state.Path(), "error", err)
	}
	w.logger.Info("report written",
		"path", path,
		"out", outDir,
		"files", len(paths),
		"messages", res.Rollups.Totals.Messages,
		"archetype", res.Archetype.Title,
	)
	return outDir, nil
}

func (w *Watcher) fail(path string, err error) error {
	w.state.AddError(fmt.Sprintf("%s: %s: %v", time.Now().UTC().Format(time.RFC3339), filepath.Base(path), err))
	if saveErr := w.state.Save(); saveErr != nil {
		w.logger.Warn("failed to save watch state", "path", w.state.Path(), "error", saveErr)
	}
	return err
}
