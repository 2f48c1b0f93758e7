package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Amon20044/SketchFab-Apify-Actor/internal/cache/memory"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/config"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/derive"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/input"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/llm"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/llm/gemini"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/metrics"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/pipeline"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/ratelimit"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/search/sketchfab"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/sink"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/sink/postgres"
)

const searchKey = "sketchfab"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("actor failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	raw, err := readInput()
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	in, err := input.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	m := metrics.New()

	// A per-run credential overrides the environment one.
	apiKey := in.Intent.APIKey
	if apiKey == "" {
		apiKey = cfg.Gemini.APIKey
	}
	var llmClient llm.Client
	if apiKey != "" {
		llmClient = gemini.New(gemini.Config{
			APIKey:  apiKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
			Timeout: cfg.Gemini.Timeout,
		}, logger)
	}

	searchClient := sketchfab.New(sketchfab.Config{
		BaseURL: cfg.Sketchfab.BaseURL,
		Timeout: cfg.Sketchfab.Timeout,
	}, logger)

	out, cleanup, err := buildSink(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var dedupe *memory.Cache
	if in.Dedupe {
		dedupe = memory.New()
	}

	svc := pipeline.New(pipeline.Deps{
		Deriver: derive.New(llmClient, logger),
		Search:  searchClient,
		Sink:    out,
		Logger:  logger,
		Metrics: m,
		Config:  pipeline.Config{SearchTimeout: cfg.Sketchfab.Timeout},
		Dedupe:  dedupe,
	})

	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
	})

	// The metrics server, when enabled, lives exactly as long as the page
	// loop.
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(loopCtx)

	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}

		g.Go(func() error {
			logger.Info("metrics server listening", zap.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer cancel()
		return runPages(gctx, svc, limiter, m, in, dedupe, logger)
	})

	return g.Wait()
}

// runPages walks the result pages: one invocation per page, each throttled
// against the remote API, following the next-cursor until the service runs
// out of pages, a page fails, or maxPages is reached.
func runPages(ctx context.Context, svc *pipeline.Service, limiter *ratelimit.Limiter, m *metrics.Metrics, in input.ActorInput, dedupe *memory.Cache, logger *zap.Logger) error {
	intent := in.Intent

	for page := 1; page <= in.MaxPages; page++ {
		if !limiter.Allow(searchKey) {
			m.RecordRateLimitWait()
			logger.Debug("rate limit reached, waiting",
				zap.Time("reset", limiter.ResetTime(searchKey)),
			)
			if err := limiter.Wait(ctx, searchKey); err != nil {
				return err
			}
		}

		outcome, err := svc.Run(ctx, intent)
		if err != nil {
			return err
		}
		if outcome.SearchError != "" {
			logger.Warn("stopping pagination after failed page",
				zap.Int("page", page),
				zap.String("error", outcome.SearchError),
			)
			return nil
		}
		if !outcome.Pagination.HasNext {
			logger.Info("no further pages", zap.Int("pages_fetched", page))
			return nil
		}

		intent.Cursor = outcome.Pagination.NextCursor
		if dedupe != nil {
			dedupe.Prune()
		}
	}

	logger.Info("page limit reached", zap.Int("pages_fetched", in.MaxPages))
	return nil
}

// buildSink picks the record sink: the Postgres dataset when a database is
// configured, stdout JSON lines otherwise.
func buildSink(ctx context.Context, cfg *config.Config, logger *zap.Logger) (sink.Sink, func(), error) {
	if cfg.Sink.DatabaseURL == "" {
		return sink.NewJSONLines(os.Stdout), func() {}, nil
	}

	db, err := postgres.New(ctx, cfg.Sink.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect dataset store: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate dataset store: %w", err)
	}

	runID := uuid.NewString()
	logger.Info("writing to dataset store", zap.String("dataset_run_id", runID))
	return postgres.NewDataset(db, runID), db.Close, nil
}

// readInput takes the run request from the file named by the first
// argument, or from stdin when no argument is given.
func readInput() ([]byte, error) {
	if len(os.Args) > 1 {
		return os.ReadFile(os.Args[1])
	}
	return io.ReadAll(os.Stdin)
}
