package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/wrapped/internal/analytics"
	"github.com/MikeSquared-Agency/wrapped/internal/api"
	"github.com/MikeSquared-Agency/wrapped/internal/cache"
	"github.com/MikeSquared-Agency/wrapped/internal/config"
	"github.com/MikeSquared-Agency/wrapped/internal/hermes"
	"github.com/MikeSquared-Agency/wrapped/internal/objstore"
	"github.com/MikeSquared-Agency/wrapped/internal/pipeline"
	"github.com/MikeSquared-Agency/wrapped/internal/processor"
	"github.com/MikeSquared-Agency/wrapped/internal/report"
	"github.com/MikeSquared-Agency/wrapped/internal/slack"
	"github.com/MikeSquared-Agency/wrapped/internal/tokens"
	"github.com/MikeSquared-Agency/wrapped/internal/watch"
)

const usage = `usage: wrapped <command> [flags]

commands:
  serve    run the HTTP API and the export processor (default)
  report   build a report for one export file
  watch    regenerate reports for exports dropped into a directory
`

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", envErr)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		err = serve(cfg)
	case "report":
		err = runReport(cfg, args)
	case "watch":
		err = runWatch(cfg, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		slog.Error(cmd+" failed", "error", err)
		os.Exit(1)
	}
}

// newPipeline picks the token strategy and the memo store. Redis is used when
// configured and reachable, otherwise an in-process store.
func newPipeline(ctx context.Context, cfg config.Config) (*pipeline.Pipeline, string, func()) {
	sel := tokens.Select(cfg.PreciseTokens, cfg.TokenEncoding)
	if sel.UsingPrecise {
		slog.Info("token counter ready", "counter", sel.Counter.Name())
	} else {
		slog.Warn("using heuristic token counts", "reason", sel.Note)
	}

	var (
		store   cache.Store
		cleanup = func() {}
	)
	if cfg.RedisEnabled() {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := cache.Dial(dialCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cancel()
		if err != nil {
			slog.Warn("redis unavailable, falling back to memory cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			store = cache.NewRedis(client, cache.DefaultPrefix)
			cleanup = func() { client.Close() }
			slog.Info("redis cache connected", "addr", cfg.RedisAddr)
		}
	}
	if store == nil {
		mem := cache.NewMemory()
		store = mem
		sweepCtx, stop := context.WithCancel(ctx)
		go sweep(sweepCtx, mem, cfg.CacheTTL)
		cleanup = stop
	}

	memo := pipeline.NewMemo(store, cfg.CacheTTL, slog.Default())
	return pipeline.New(sel, memo, slog.Default()), store.Name(), cleanup
}

func sweep(ctx context.Context, mem *cache.Memory, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := mem.Sweep(); n > 0 {
				slog.Debug("cache swept", "expired", n)
			}
		}
	}
}

func serve(cfg config.Config) error {
	slog.Info("wrapped starting", "port", cfg.Port, "timezone", cfg.Timezone)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pipe, cacheName, closeCache := newPipeline(ctx, cfg)
	defer closeCache()

	// NATS/Hermes (optional: the HTTP API works without it)
	var hermesClient *hermes.Client
	if cfg.NatsEnabled() {
		connCtx, connCancel := context.WithTimeout(ctx, 10*time.Second)
		client, err := hermes.NewClient(connCtx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		connCancel()
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		hermesClient = client
		defer hermesClient.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured, export events disabled")
	}

	if hermesClient != nil {
		if cfg.MinioEnabled() {
			store, err := objstore.NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
			if err != nil {
				return fmt.Errorf("connect to object storage: %w", err)
			}
			slog.Info("object storage ready", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)

			var notifier processor.Notifier
			if cfg.SlackEnabled() {
				notifier = slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default())
				slog.Info("slack poster ready", "channel", cfg.SlackChannel)
			} else {
				slog.Warn("slack not configured, reports will not be announced")
			}

			proc := processor.New(pipe, store, hermesClient, notifier, processor.Options{
				Timezone:       cfg.Timezone,
				Keywords:       cfg.Keywords,
				MaxUploadBytes: cfg.MaxUploadBytes(),
				Timeout:        cfg.RequestTimeout,
			}, slog.Default())
			if err := hermesClient.Subscribe(hermes.SubjectExportStored, hermes.QueueProcessors, proc.HandleExportStored); err != nil {
				return fmt.Errorf("subscribe to export events: %w", err)
			}
		} else {
			slog.Warn("object storage not configured, export events ignored")
		}
	}

	srv := api.NewServer(api.Options{
		Port:           cfg.Port,
		APIToken:       cfg.APIToken,
		Timezone:       cfg.Timezone,
		Keywords:       cfg.Keywords,
		RequestTimeout: cfg.RequestTimeout,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		CacheName:      cacheName,
	}, pipe, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if hermesClient != nil {
		if err := hermesClient.PublishEvent(hermes.Registered{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Port:      cfg.Port,
			Tokenizer: pipe.Tokens().Counter.Name(),
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("wrapped ready", "port", cfg.Port, "cache", cacheName)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown", "error", err)
	}
	cancel()
	slog.Info("wrapped stopped")
	return nil
}

func runReport(cfg config.Config, args []string) error {
	fset := flag.NewFlagSet("report", flag.ExitOnError)
	in := fset.String("in", "", "path to conversations.json or the export zip (required)")
	tz := fset.String("tz", cfg.Timezone, "IANA timezone")
	year := fset.String("year", "", "calendar year, empty for all time")
	start := fset.String("start", "", "first day to include (YYYY-MM-DD)")
	end := fset.String("end", "", "last day to include (YYYY-MM-DD)")
	freq := fset.String("freq", "D", "time series bucket: D, W or M")
	keywords := fset.Int("keywords", cfg.Keywords, "number of keywords to keep")
	out := fset.String("out", "", "directory to write the JSON, HTML and CSV reports into")
	tables := fset.Bool("tables", false, "write every rollup table, not just messages and conversations")
	fset.Parse(args)

	if *in == "" {
		fset.Usage()
		return errors.New("-in is required")
	}
	opts, err := analyticsOptions(*year, *start, *end, *freq, *keywords)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipe := pipeline.New(tokens.Select(cfg.PreciseTokens, cfg.TokenEncoding), nil, slog.Default())
	res, err := pipe.Run(ctx, pipeline.Request{
		Raw:      raw,
		Filename: filepath.Base(*in),
		Timezone: *tz,
		Options:  opts,
	})
	if err != nil {
		return err
	}

	fmt.Println(report.RenderTerminal(report.NewSummary(res)))

	if *out != "" {
		paths, err := report.WriteDir(ctx, *out, res, report.WriteOptions{AllTables: *tables})
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
	}
	return nil
}

func runWatch(cfg config.Config, args []string) error {
	fset := flag.NewFlagSet("watch", flag.ExitOnError)
	dir := fset.String("dir", "", "directory to watch for exports (required)")
	out := fset.String("out", "reports", "directory to write reports into")
	tz := fset.String("tz", cfg.Timezone, "IANA timezone")
	year := fset.String("year", "", "calendar year, empty for all time")
	freq := fset.String("freq", "D", "time series bucket: D, W or M")
	statePath := fset.String("state", cfg.WatchState, "state file tracking processed exports")
	tables := fset.Bool("tables", false, "write every rollup table, not just messages and conversations")
	debounce := fset.Duration("debounce", watch.DefaultDebounce, "quiet period before a changed file is processed")
	fset.Parse(args)

	if *dir == "" {
		fset.Usage()
		return errors.New("-dir is required")
	}
	opts, err := analyticsOptions(*year, "", "", *freq, cfg.Keywords)
	if err != nil {
		return err
	}

	state, err := watch.LoadState(*statePath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipe, _, closeCache := newPipeline(ctx, cfg)
	defer closeCache()

	w := watch.New(pipe, state, watch.Options{
		Dir:       *dir,
		OutDir:    *out,
		Timezone:  *tz,
		Analytics: opts,
		AllTables: *tables,
		Debounce:  *debounce,
	}, slog.Default())
	return w.Run(ctx)
}

func analyticsOptions(year, start, end, freq string, keywords int) (analytics.Options, error) {
	f, err := analytics.ParseFilter(year, start, end)
	if err != nil {
		return analytics.Options{}, err
	}
	fq, err := analytics.ParseFreq(freq)
	if err != nil {
		return analytics.Options{}, err
	}
	return analytics.Options{Filter: f, Freq: fq, Keywords: keywords}, nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
