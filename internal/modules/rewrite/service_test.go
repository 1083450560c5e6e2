package rewrite

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yungbote/adforge-backend/internal/data/graph"
	"github.com/yungbote/adforge-backend/internal/domain"
	"github.com/yungbote/adforge-backend/internal/platform/qdrant"
)

type fakeStrategies struct {
	platforms     map[string]*domain.PlatformStrategy
	similar       []domain.SimilarPlatform
	existsCalls   atomic.Int64
	strategyCalls atomic.Int64
}

func (f *fakeStrategies) PlatformExists(ctx context.Context, platform string) (bool, error) {
	f.existsCalls.Add(1)
	_, ok := f.platforms[platform]
	return ok, nil
}

func (f *fakeStrategies) PlatformStrategy(ctx context.Context, q graph.StrategyQuery) (*domain.PlatformStrategy, error) {
	f.strategyCalls.Add(1)
	s, ok := f.platforms[q.Platform]
	if !ok {
		return nil, nil
	}
	clone := *s
	return &clone, nil
}

func (f *fakeStrategies) SimilarPlatforms(ctx context.Context, platform string, limit int) ([]domain.SimilarPlatform, error) {
	return f.similar, nil
}

type fakeModel struct {
	jsonResult map[string]any
	jsonErr    error
	embeddings [][]float32
}

func (f *fakeModel) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if f.embeddings != nil {
		return f.embeddings, nil
	}
	out := make([][]float32, len(inputs))
	for i := range out {
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

func (f *fakeModel) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	return f.jsonResult, f.jsonErr
}

func (f *fakeModel) GenerateText(ctx context.Context, system, user string) (string, error) {
	return "", errors.New("not implemented")
}

type fakeVectorStore struct {
	matches  []qdrant.VectorMatch
	queryErr error
}

func (f *fakeVectorStore) Upsert(ctx context.Context, namespace string, vectors []qdrant.Vector) error {
	return nil
}

func (f *fakeVectorStore) QueryMatches(ctx context.Context, namespace string, q []float32, topK int, filter map[string]any) ([]qdrant.VectorMatch, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.matches, nil
}

func (f *fakeVectorStore) DeleteIDs(ctx context.Context, namespace string, ids []string) error {
	return nil
}

func instagramStrategy() *domain.PlatformStrategy {
	return &domain.PlatformStrategy{
		Constraints:     domain.ConstraintSet{MaxLengthChars: 2200, AllowEmojis: true, CTARequired: false},
		PreferredStyles: []string{"visual", "fun"},
	}
}

func newTestService(strategies StrategySource, llm *fakeModel, store qdrant.VectorStore) *Service {
	return NewService(ServiceDeps{Strategies: strategies, LLM: llm, Store: store})
}

func TestStrategyForUnknownPlatform(t *testing.T) {
	src := &fakeStrategies{platforms: map[string]*domain.PlatformStrategy{}}
	svc := newTestService(src, &fakeModel{}, &fakeVectorStore{})

	_, err := svc.StrategyFor(context.Background(), "myspace", "", "", "")
	if !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("want ErrUnsupportedPlatform, got %v", err)
	}
	if src.strategyCalls.Load() != 0 {
		t.Fatalf("strategy query must not run for unknown platform")
	}
}

func TestStrategyForSubstitutesDefaultConstraints(t *testing.T) {
	src := &fakeStrategies{platforms: map[string]*domain.PlatformStrategy{
		"twitter": {PreferredStyles: []string{"bold"}},
	}}
	svc := newTestService(src, &fakeModel{}, &fakeVectorStore{})

	strategy, err := svc.StrategyFor(context.Background(), "twitter", "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strategy.Constraints.MaxLengthChars != 280 {
		t.Fatalf("default constraints: want=280 got=%d", strategy.Constraints.MaxLengthChars)
	}
}

func TestStrategyForCachesLookups(t *testing.T) {
	src := &fakeStrategies{platforms: map[string]*domain.PlatformStrategy{
		"instagram": instagramStrategy(),
	}}
	svc := newTestService(src, &fakeModel{}, &fakeVectorStore{})
	ctx := context.Background()

	if _, err := svc.StrategyFor(ctx, "instagram", "gen-z", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.StrategyFor(ctx, "Instagram", "Gen-Z", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := src.strategyCalls.Load(); got != 1 {
		t.Fatalf("strategy calls: want=1 got=%d", got)
	}
}

func TestDefaultConstraintsTable(t *testing.T) {
	if cs := DefaultConstraints("youtube"); cs.MaxLengthChars != 5000 || !cs.CTARequired {
		t.Fatalf("youtube defaults: %+v", cs)
	}
	if cs := DefaultConstraints("unknown-platform"); cs.MaxLengthChars != 2000 || cs.CTARequired {
		t.Fatalf("generic defaults: %+v", cs)
	}
}

func TestRewriteForPlatformMergesSanitizeIssues(t *testing.T) {
	src := &fakeStrategies{platforms: map[string]*domain.PlatformStrategy{
		"instagram": instagramStrategy(),
	}}
	llm := &fakeModel{jsonResult: map[string]any{
		"platform":       "instagram",
		"rewritten_text": "Clean rewrite. Shop now",
		"explanation":    "tightened copy",
	}}
	svc := newTestService(src, llm, &fakeVectorStore{})

	res, err := svc.RewriteForPlatform(context.Background(), Request{
		Text:     "This damn coffee is great",
		Platform: "instagram",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Validation.OK {
		t.Fatalf("sanitize issues must fail validation: %+v", res.Validation)
	}
	found := false
	for _, issue := range res.Validation.Issues {
		if issue == "PROFANITY_MASKED" {
			found = true
		}
	}
	if !found {
		t.Fatalf("PROFANITY_MASKED missing from %v", res.Validation.Issues)
	}
	if res.RewrittenText != "Clean rewrite. Shop now" {
		t.Fatalf("rewritten: got %q", res.RewrittenText)
	}
	if res.StrategyData == nil {
		t.Fatalf("strategy data must be attached")
	}
}

func TestRewriteForPlatformCleanRunIsOK(t *testing.T) {
	src := &fakeStrategies{platforms: map[string]*domain.PlatformStrategy{
		"instagram": instagramStrategy(),
	}}
	llm := &fakeModel{jsonResult: map[string]any{
		"platform":       "instagram",
		"rewritten_text": "Fresh roast, brewed daily",
		"explanation":    "kept it simple",
	}}
	svc := newTestService(src, llm, &fakeVectorStore{})

	res, err := svc.RewriteForPlatform(context.Background(), Request{
		Text:     "Our coffee is freshly roasted",
		Platform: "instagram",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Validation.OK || len(res.Validation.Issues) != 0 {
		t.Fatalf("expected clean validation, got %+v", res.Validation)
	}
}

func TestRewriteForPlatformLengthPrefTightensLimit(t *testing.T) {
	src := &fakeStrategies{platforms: map[string]*domain.PlatformStrategy{
		"instagram": instagramStrategy(),
	}}
	llm := &fakeModel{jsonResult: map[string]any{
		"platform":       "instagram",
		"rewritten_text": strings.Repeat("x", 60),
		"explanation":    "",
	}}
	svc := newTestService(src, llm, &fakeVectorStore{})

	res, err := svc.RewriteForPlatform(context.Background(), Request{
		Text:       "hello",
		Platform:   "instagram",
		LengthPref: 40,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.RewrittenText) != 40 {
		t.Fatalf("length pref must cap output: got %d", len(res.RewrittenText))
	}
	if res.Validation.OK {
		t.Fatalf("truncation must be reported")
	}
}

func TestRewriteForPlatformIncludesRetrievedExamples(t *testing.T) {
	src := &fakeStrategies{platforms: map[string]*domain.PlatformStrategy{
		"instagram": instagramStrategy(),
	}}
	llm := &fakeModel{jsonResult: map[string]any{
		"platform":       "instagram",
		"rewritten_text": "rewrite",
		"explanation":    "",
	}}
	store := &fakeVectorStore{matches: []qdrant.VectorMatch{
		{ID: "ex1", Score: 0.9, Payload: map[string]any{"text": "Golden hour, golden deals", "tone": "fun"}},
	}}
	svc := newTestService(src, llm, store)

	res, err := svc.RewriteForPlatform(context.Background(), Request{Text: "sale", Platform: "instagram"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.ExamplesUsed) != 1 || res.ExamplesUsed[0].Text != "Golden hour, golden deals" {
		t.Fatalf("examples: %+v", res.ExamplesUsed)
	}
}

func TestRewriteForPlatformRetrievalErrorPropagates(t *testing.T) {
	src := &fakeStrategies{platforms: map[string]*domain.PlatformStrategy{
		"instagram": instagramStrategy(),
	}}
	llm := &fakeModel{jsonResult: map[string]any{
		"platform":       "instagram",
		"rewritten_text": "should never be produced",
		"explanation":    "",
	}}
	store := &fakeVectorStore{queryErr: errors.New("vector store down")}
	svc := newTestService(src, llm, store)

	res, err := svc.RewriteForPlatform(context.Background(), Request{Text: "sale", Platform: "instagram"})
	if err == nil {
		t.Fatalf("retrieval failure must propagate, got result %+v", res)
	}
	if !strings.Contains(err.Error(), "vector store down") {
		t.Fatalf("error must carry the store failure, got %v", err)
	}
	if res.Validation.OK || res.RewrittenText != "" {
		t.Fatalf("failed pipeline must not look validated: %+v", res)
	}

	results := svc.RunParallelRewrites(context.Background(), FanoutRequest{
		Text:            "sale",
		TargetPlatforms: []string{"instagram"},
	})
	if results[0].Error == "" || !strings.Contains(results[0].Error, "vector store down") {
		t.Fatalf("fan-out must surface the retrieval failure: %+v", results[0])
	}
	if results[0].Validation.OK {
		t.Fatalf("failed platform must not report ok: %+v", results[0])
	}
}

func TestRunParallelRewritesKeepsOrderAndIsolatesFailures(t *testing.T) {
	src := &fakeStrategies{platforms: map[string]*domain.PlatformStrategy{
		"instagram": instagramStrategy(),
		"twitter":   {Constraints: domain.ConstraintSet{MaxLengthChars: 280, AllowEmojis: true}},
	}}
	llm := &fakeModel{jsonResult: map[string]any{
		"platform":       "any",
		"rewritten_text": "ok copy",
		"explanation":    "",
	}}
	svc := newTestService(src, llm, &fakeVectorStore{})

	results := svc.RunParallelRewrites(context.Background(), FanoutRequest{
		Text:            "hello world",
		TargetPlatforms: []string{"instagram", "myspace", "twitter"},
	})
	if len(results) != 3 {
		t.Fatalf("results: want=3 got=%d", len(results))
	}
	if results[0].Platform != "instagram" || results[2].Platform != "twitter" {
		t.Fatalf("order must match request: %+v", results)
	}
	if results[1].Error == "" || !strings.Contains(results[1].Error, "unsupported platform") {
		t.Fatalf("middle platform must carry its failure: %+v", results[1])
	}
	if results[0].Error != "" || results[2].Error != "" {
		t.Fatalf("healthy platforms must not fail: %+v", results)
	}
}
