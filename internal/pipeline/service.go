package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/Amon20044/SketchFab-Apify-Actor/internal/cache/memory"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/derive"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/domain"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/metrics"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/search"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/sink"
)

type Config struct {
	SearchTimeout time.Duration
	DedupeTTL     time.Duration
}

type Deps struct {
	Deriver *derive.Adapter
	Search  search.SearchClient
	Sink    sink.Sink
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Config  Config

	// Dedupe, when set, suppresses result records whose uid was already
	// pushed by an earlier page of the same run.
	Dedupe *memory.Cache
}

// Service runs one search invocation end to end: route, derive or
// normalize, compile, execute, assemble. Each stage reads its
// predecessor's output and produces the next state; nothing is shared
// between invocations.
type Service struct {
	deriver *derive.Adapter
	search  search.SearchClient
	sink    sink.Sink
	dedupe  *memory.Cache
	logger  *zap.Logger
	metrics *metrics.Metrics
	config  Config
}

func New(deps Deps) *Service {
	if deps.Config.SearchTimeout == 0 {
		deps.Config.SearchTimeout = 30 * time.Second
	}
	if deps.Config.DedupeTTL == 0 {
		deps.Config.DedupeTTL = time.Hour
	}

	return &Service{
		deriver: deps.Deriver,
		search:  deps.Search,
		sink:    deps.Sink,
		dedupe:  deps.Dedupe,
		logger:  deps.Logger,
		metrics: deps.Metrics,
		config:  deps.Config,
	}
}

// Run executes one invocation. A CompilationError aborts before any remote
// call or sink write; a failed search still publishes the metadata record
// with the error attached and zero results.
func (s *Service) Run(ctx context.Context, intent domain.SearchIntent) (*Outcome, error) {
	startTime := time.Now()

	if s.metrics != nil {
		s.metrics.IncRunsInFlight()
		defer s.metrics.DecRunsInFlight()
	}

	runID := uuid.NewString()
	mode := Route(intent)

	s.logger.Info("processing search intent",
		zap.String("run_id", runID),
		zap.String("mode", string(mode)),
		zap.Bool("use_ai", intent.UseAI),
		zap.Int("filter_count", len(intent.Filters)),
	)

	var params domain.ParameterSet
	var derivation derive.Derivation

	switch mode {
	case PathAI:
		deriveStart := time.Now()
		derivation = s.deriver.Derive(ctx, intent.NaturalQuery)
		params = derivation.Params
		if s.metrics != nil {
			outcome := "ai"
			if derivation.Fallback {
				outcome = "fallback"
			}
			s.metrics.RecordDerivation(outcome, time.Since(deriveStart))
		}
	default:
		params = NormalizeManual(intent.Filters)
	}

	params.Normalize()

	query, err := Compile(params, intent.Pagination())
	if err != nil {
		s.logger.Error("parameter compilation failed",
			zap.String("run_id", runID),
			zap.Error(err),
		)
		if s.metrics != nil {
			s.metrics.RecordRun(string(mode), "compile_error", time.Since(startTime))
		}
		return nil, err
	}

	outcome := &Outcome{
		RunID:      runID,
		Mode:       mode,
		Intent:     intent,
		Derivation: derivation,
		Params:     params,
		Query:      query,
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.config.SearchTimeout)
	defer cancel()

	searchStart := time.Now()
	resp, err := s.search.Search(searchCtx, query)
	if err != nil {
		// Partial success: the invocation completes and the metadata
		// record carries the failure.
		outcome.SearchError = err.Error()
		s.logger.Error("search request failed",
			zap.String("run_id", runID),
			zap.Error(err),
		)
		if s.metrics != nil {
			s.metrics.RecordSearch("error", time.Since(searchStart))
		}
	} else {
		outcome.Results = resp.Results
		outcome.Pagination = resp.Pagination
		if s.metrics != nil {
			s.metrics.RecordSearch("ok", time.Since(searchStart))
		}
	}

	if err := s.publish(ctx, outcome); err != nil {
		if s.metrics != nil {
			s.metrics.RecordRun(string(mode), "sink_error", time.Since(startTime))
		}
		return nil, err
	}

	status := "ok"
	if outcome.SearchError != "" {
		status = "search_error"
	}
	if s.metrics != nil {
		s.metrics.RecordRun(string(mode), status, time.Since(startTime))
	}

	s.logger.Info("search complete",
		zap.String("run_id", runID),
		zap.String("mode", string(mode)),
		zap.Bool("ai_used", derivation.AIUsed),
		zap.Int("result_count", len(outcome.Results)),
		zap.Bool("has_next", outcome.Pagination.HasNext),
	)

	return outcome, nil
}

// publish is the only writer to the sink: one metadata record first, then
// each result verbatim in service order.
func (s *Service) publish(ctx context.Context, o *Outcome) error {
	meta, err := json.Marshal(buildMetadata(o))
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := s.sink.Push(ctx, meta); err != nil {
		return fmt.Errorf("push metadata: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordPush("metadata")
	}

	for _, result := range o.Results {
		if s.dedupe != nil {
			uid := gjson.GetBytes(result, "uid").String()
			if uid != "" && s.dedupe.Seen(uid, s.config.DedupeTTL) {
				if s.metrics != nil {
					s.metrics.RecordDuplicateSkipped()
				}
				continue
			}
		}
		if err := s.sink.Push(ctx, result); err != nil {
			return fmt.Errorf("push result: %w", err)
		}
		if s.metrics != nil {
			s.metrics.RecordPush("result")
		}
	}

	return nil
}
