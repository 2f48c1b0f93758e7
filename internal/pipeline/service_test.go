package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Amon20044/SketchFab-Apify-Actor/internal/cache/memory"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/derive"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/domain"
	llmmock "github.com/Amon20044/SketchFab-Apify-Actor/internal/llm/mock"
	"github.com/Amon20044/SketchFab-Apify-Actor/internal/search"
	searchmock "github.com/Amon20044/SketchFab-Apify-Actor/internal/search/mock"
	sinkmock "github.com/Amon20044/SketchFab-Apify-Actor/internal/sink/mock"
)

func newTestService(searchClient search.SearchClient, out *sinkmock.Sink, llm *llmmock.Client) *Service {
	logger := zap.NewNop()

	var deriver *derive.Adapter
	if llm != nil {
		deriver = derive.New(llm, logger)
	} else {
		deriver = derive.New(nil, logger)
	}

	return New(Deps{
		Deriver: deriver,
		Search:  searchClient,
		Sink:    out,
		Logger:  logger,
	})
}

func decodeMetadata(t *testing.T, record json.RawMessage) Metadata {
	t.Helper()
	var m Metadata
	if err := json.Unmarshal(record, &m); err != nil {
		t.Fatalf("unmarshal metadata: %v", err)
	}
	return m
}

func TestRun_ManualPath(t *testing.T) {
	results := []json.RawMessage{
		json.RawMessage(`{"uid":"a1","name":"Robot"}`),
		json.RawMessage(`{"uid":"b2","name":"Mech"}`),
	}
	sc := searchmock.New().WithResults(results).WithPagination(search.PaginationInfo{
		NextCursor: "24",
		HasNext:    true,
	})
	out := sinkmock.New()
	svc := newTestService(sc, out, nil)

	outcome, err := svc.Run(context.Background(), domain.SearchIntent{
		Filters: map[string]any{
			"tags":           []any{"low-poly"},
			"max_face_count": float64(5000),
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if outcome.Mode != PathManual {
		t.Errorf("Mode = %q, want manual", outcome.Mode)
	}
	if len(outcome.Results) != 2 {
		t.Errorf("Results = %d, want 2", len(outcome.Results))
	}

	records := out.Records()
	if len(records) != 3 {
		t.Fatalf("pushed %d records, want metadata + 2 results", len(records))
	}

	meta := decodeMetadata(t, records[0])
	if !meta.IsMetadata {
		t.Error("first record must be the metadata record")
	}
	if meta.AIUsed {
		t.Error("ai_used must be false on the manual path")
	}
	if meta.ResultCount != 2 {
		t.Errorf("result_count = %d, want 2", meta.ResultCount)
	}
	if meta.Error != nil {
		t.Errorf("error = %q, want null", *meta.Error)
	}
	if !meta.Pagination.HasNext || meta.Pagination.NextCursor != "24" {
		t.Errorf("pagination = %+v", meta.Pagination)
	}
	if meta.SearchParams["tags"] != "low-poly" {
		t.Errorf("search_params tags = %v", meta.SearchParams["tags"])
	}
	if meta.OriginalQuery != "" {
		t.Errorf("original_query = %q, want absent on manual path", meta.OriginalQuery)
	}

	// Result records are passed through verbatim.
	if string(records[1]) != string(results[0]) || string(records[2]) != string(results[1]) {
		t.Error("result records altered or reordered")
	}
}

func TestRun_AIPath(t *testing.T) {
	client := llmmock.New().WithResponse(
		`{"q": "sci-fi robot", "tags": ["robot", "sci-fi"], "downloadable": true}`)
	sc := searchmock.New().WithResults([]json.RawMessage{
		json.RawMessage(`{"uid":"x"}`),
	})
	out := sinkmock.New()
	svc := newTestService(sc, out, client)

	outcome, err := svc.Run(context.Background(), domain.SearchIntent{
		UseAI:        true,
		NaturalQuery: "a cool sci-fi robot",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if outcome.Mode != PathAI {
		t.Errorf("Mode = %q, want ai", outcome.Mode)
	}
	if !outcome.Derivation.AIUsed {
		t.Error("AIUsed = false, want true")
	}

	meta := decodeMetadata(t, out.Records()[0])
	if !meta.AIUsed {
		t.Error("ai_used = false in metadata")
	}
	if meta.OriginalQuery != "a cool sci-fi robot" {
		t.Errorf("original_query = %q", meta.OriginalQuery)
	}
	if meta.SearchParams["q"] != "sci-fi robot" {
		t.Errorf("search_params q = %v", meta.SearchParams["q"])
	}
}

func TestRun_AIFallbackOnBackendError(t *testing.T) {
	client := llmmock.New().WithError(errors.New("backend down"))
	sc := searchmock.New()
	out := sinkmock.New()
	svc := newTestService(sc, out, client)

	outcome, err := svc.Run(context.Background(), domain.SearchIntent{
		UseAI:        true,
		NaturalQuery: "best quality sci fi spaceship",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !outcome.Derivation.Fallback {
		t.Error("Fallback = false, want true")
	}
	if got := outcome.Query.Get("q"); got != "best quality sci" {
		t.Errorf("fallback q = %q, want first three tokens", got)
	}

	meta := decodeMetadata(t, out.Records()[0])
	if meta.AIUsed {
		t.Error("ai_used must be false when derivation fell back")
	}
	if meta.DerivationNote == "" {
		t.Error("derivation_note must explain the fallback")
	}
}

func TestRun_SearchFailureIsPartialSuccess(t *testing.T) {
	sc := searchmock.New().WithError(search.ErrSearchFailed)
	out := sinkmock.New()
	svc := newTestService(sc, out, nil)

	outcome, err := svc.Run(context.Background(), domain.SearchIntent{
		Filters: map[string]any{"q": "castle"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v, want nil on search failure", err)
	}

	if outcome.SearchError == "" {
		t.Error("SearchError empty, want captured failure")
	}
	if len(outcome.Results) != 0 {
		t.Errorf("Results = %d, want 0", len(outcome.Results))
	}

	records := out.Records()
	if len(records) != 1 {
		t.Fatalf("pushed %d records, want metadata only", len(records))
	}
	meta := decodeMetadata(t, records[0])
	if meta.Error == nil {
		t.Fatal("metadata error is null, want failure description")
	}
	if meta.ResultCount != 0 {
		t.Errorf("result_count = %d, want 0", meta.ResultCount)
	}
}

func TestRun_CompilationErrorPushesNothing(t *testing.T) {
	sc := searchmock.New()
	out := sinkmock.New()
	svc := newTestService(sc, out, nil)

	_, err := svc.Run(context.Background(), domain.SearchIntent{
		Filters: map[string]any{
			"min_face_count": float64(10000),
			"max_face_count": float64(500),
		},
	})

	var ce *domain.CompilationError
	if !errors.As(err, &ce) {
		t.Fatalf("Run() error = %v, want CompilationError", err)
	}
	if sc.CallCount != 0 {
		t.Error("search must not be called after a compilation error")
	}
	if out.Len() != 0 {
		t.Error("nothing may be pushed after a compilation error")
	}
}

func TestRun_SinkFailureAborts(t *testing.T) {
	sc := searchmock.New()
	out := sinkmock.New().WithError(errors.New("dataset gone"))
	svc := newTestService(sc, out, nil)

	if _, err := svc.Run(context.Background(), domain.SearchIntent{
		Filters: map[string]any{"q": "car"},
	}); err == nil {
		t.Fatal("Run() error = nil, want sink failure")
	}
}

func TestRun_DedupeAcrossPages(t *testing.T) {
	sc := searchmock.New().WithResults([]json.RawMessage{
		json.RawMessage(`{"uid":"same"}`),
		json.RawMessage(`{"uid":"other"}`),
	})
	out := sinkmock.New()
	logger := zap.NewNop()
	svc := New(Deps{
		Deriver: derive.New(nil, logger),
		Search:  sc,
		Sink:    out,
		Logger:  logger,
		Dedupe:  memory.New(),
	})

	intent := domain.SearchIntent{Filters: map[string]any{"q": "car"}}
	if _, err := svc.Run(context.Background(), intent); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if _, err := svc.Run(context.Background(), intent); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	// First run: metadata + 2 results. Second run: metadata only, both
	// uids already seen.
	if got := out.Len(); got != 4 {
		t.Errorf("pushed %d records, want 4", got)
	}
}

func TestRun_NoDedupeWithoutCache(t *testing.T) {
	sc := searchmock.New().WithResults([]json.RawMessage{
		json.RawMessage(`{"uid":"same"}`),
	})
	out := sinkmock.New()
	svc := newTestService(sc, out, nil)

	intent := domain.SearchIntent{Filters: map[string]any{"q": "car"}}
	for range 2 {
		if _, err := svc.Run(context.Background(), intent); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	}

	if got := out.Len(); got != 4 {
		t.Errorf("pushed %d records, want 4 (no dedupe configured)", got)
	}
}
