package rewrite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/adforge-backend/internal/data/graph"
	"github.com/yungbote/adforge-backend/internal/domain"
	"github.com/yungbote/adforge-backend/internal/modules/rewrite/steps"
	"github.com/yungbote/adforge-backend/internal/platform/logger"
	"github.com/yungbote/adforge-backend/internal/platform/neo4jdb"
	"github.com/yungbote/adforge-backend/internal/platform/openai"
	"github.com/yungbote/adforge-backend/internal/platform/qdrant"
	"github.com/yungbote/adforge-backend/internal/platform/redisdb"
)

// ErrUnsupportedPlatform rejects platforms absent from the knowledge graph
// before any model or retrieval calls are made.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

const (
	defaultTopK          = 3
	defaultFanoutWorkers = 4
)

// StrategySource resolves platform strategy out of the knowledge graph.
type StrategySource interface {
	PlatformExists(ctx context.Context, platform string) (bool, error)
	PlatformStrategy(ctx context.Context, q graph.StrategyQuery) (*domain.PlatformStrategy, error)
	SimilarPlatforms(ctx context.Context, platform string, limit int) ([]domain.SimilarPlatform, error)
}

// GraphSource adapts the Neo4j client to StrategySource.
type GraphSource struct {
	Client *neo4jdb.Client
	Log    *logger.Logger
}

func (g *GraphSource) PlatformExists(ctx context.Context, platform string) (bool, error) {
	return graph.PlatformExists(ctx, g.Client, g.Log, platform)
}

func (g *GraphSource) PlatformStrategy(ctx context.Context, q graph.StrategyQuery) (*domain.PlatformStrategy, error) {
	return graph.PlatformStrategy(ctx, g.Client, g.Log, q)
}

func (g *GraphSource) SimilarPlatforms(ctx context.Context, platform string, limit int) ([]domain.SimilarPlatform, error) {
	return graph.SimilarPlatforms(ctx, g.Client, g.Log, platform, limit)
}

// Service runs the sanitize/retrieve/generate/validate pipeline per platform
// and fans it out across target platforms.
type Service struct {
	log           *logger.Logger
	strategies    StrategySource
	llm           openai.Client
	store         qdrant.VectorStore
	cache         *strategyCache
	fanoutWorkers int
}

type ServiceDeps struct {
	Log        *logger.Logger
	Strategies StrategySource
	LLM        openai.Client
	Store      qdrant.VectorStore
	Redis      *redisdb.Client
}

func NewService(deps ServiceDeps) *Service {
	return &Service{
		log:           deps.Log,
		strategies:    deps.Strategies,
		llm:           deps.LLM,
		store:         deps.Store,
		cache:         newStrategyCache(deps.Redis, deps.Log),
		fanoutWorkers: defaultFanoutWorkers,
	}
}

// Request is one platform rewrite ask.
type Request struct {
	Text            string
	Platform        string
	Tone            string
	LengthPref      int
	Audience        string
	Intent          string
	ProductCategory string
	TopK            int
}

// defaultConstraintTable covers platforms the graph knows but carries no
// constraint rows for.
var defaultConstraintTable = map[string]domain.ConstraintSet{
	"twitter":   {MaxLengthChars: 280, AllowEmojis: true, CTARequired: false},
	"youtube":   {MaxLengthChars: 5000, AllowEmojis: true, CTARequired: true},
	"pinterest": {MaxLengthChars: 500, AllowEmojis: true, CTARequired: false},
}

var genericConstraints = domain.ConstraintSet{MaxLengthChars: 2000, AllowEmojis: true, CTARequired: false}

// DefaultConstraints returns the fallback constraint set for a platform.
func DefaultConstraints(platform string) domain.ConstraintSet {
	if cs, ok := defaultConstraintTable[strings.ToLower(strings.TrimSpace(platform))]; ok {
		return cs
	}
	return genericConstraints
}

// StrategyFor resolves (and caches) the knowledge-graph strategy for a
// platform/audience/intent/category tuple. Platforms missing from the graph
// return ErrUnsupportedPlatform.
func (s *Service) StrategyFor(ctx context.Context, platform, audience, intent, category string) (*domain.PlatformStrategy, error) {
	if s.strategies == nil {
		return nil, fmt.Errorf("rewrite strategy: missing strategy source")
	}
	key := newStrategyKey(platform, audience, intent, category)
	if key.Platform == "" {
		return nil, fmt.Errorf("%w: empty platform", ErrUnsupportedPlatform)
	}
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	exists, err := s.strategies.PlatformExists(ctx, key.Platform)
	if err != nil {
		return nil, fmt.Errorf("rewrite strategy: platform lookup: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, key.Platform)
	}

	strategy, err := s.strategies.PlatformStrategy(ctx, graph.StrategyQuery{
		Platform:        key.Platform,
		Audience:        key.Audience,
		Intent:          key.Intent,
		ProductCategory: key.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("rewrite strategy: %w", err)
	}
	if strategy == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, key.Platform)
	}
	if strategy.Constraints.MaxLengthChars <= 0 {
		strategy.Constraints = DefaultConstraints(key.Platform)
	}

	s.cache.Put(ctx, key, strategy)
	return strategy, nil
}

// SimilarPlatforms surfaces audience-overlap alternatives for the API layer.
func (s *Service) SimilarPlatforms(ctx context.Context, platform string, limit int) ([]domain.SimilarPlatform, error) {
	if s.strategies == nil {
		return nil, nil
	}
	return s.strategies.SimilarPlatforms(ctx, platform, limit)
}

// RewriteForPlatform runs the full pipeline for one platform: strategy lookup,
// sanitize, entity extraction, example retrieval, model rewrite, then
// validation with repair. Sanitize issues merge into the final validation and
// OK reflects the merged list.
func (s *Service) RewriteForPlatform(ctx context.Context, req Request) (domain.PlatformResult, error) {
	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	result := domain.PlatformResult{Platform: platform}

	strategy, err := s.StrategyFor(ctx, platform, req.Audience, req.Intent, req.ProductCategory)
	if err != nil {
		return result, err
	}

	constraints := strategy.Constraints
	if req.LengthPref > 0 && req.LengthPref < constraints.MaxLengthChars {
		constraints.MaxLengthChars = req.LengthPref
	}

	mergedStyles := steps.MergeStyles(strategy)
	tone := strings.TrimSpace(req.Tone)
	if tone == "" {
		if len(mergedStyles) > 0 {
			tone = mergedStyles[0]
		} else {
			tone = "neutral"
		}
	}

	sanitized, sanitizeIssues := steps.SanitizeText(req.Text)
	entities := steps.ExtractEntities(sanitized)

	retrieval, err := steps.RetrieveExamples(ctx, steps.RetrieveExamplesDeps{
		Log:      s.log,
		Embedder: s.llm,
		Store:    s.store,
	}, steps.RetrieveExamplesInput{
		Query:    sanitized,
		Platform: platform,
		TopK:     orDefault(req.TopK, defaultTopK),
	})
	if err != nil {
		return result, fmt.Errorf("rewrite retrieval: %w", err)
	}

	generated, err := steps.GenerateRewrite(ctx, steps.GenerateRewriteDeps{Log: s.log, LLM: s.llm}, steps.GenerateRewriteInput{
		Platform:    platform,
		Tone:        tone,
		InputText:   sanitized,
		Entities:    entities,
		Constraints: constraints,
		Styles:      mergedStyles,
		Examples:    retrieval.Examples,
	})
	if err != nil {
		return result, err
	}

	validation := steps.ValidateText(generated.RewrittenText, constraints)
	issues := append([]string{}, validation.Issues...)
	issues = append(issues, sanitizeIssues...)

	result.RewrittenText = validation.RepairedText
	result.Explanation = generated.Explanation
	result.ExamplesUsed = retrieval.Examples
	result.Validation = domain.Validation{OK: len(issues) == 0, Issues: issues}
	result.Entities = entities
	result.StrategyData = strategy
	return result, nil
}

// FanoutRequest rewrites one text for many platforms concurrently.
type FanoutRequest struct {
	Text            string
	TargetPlatforms []string
	Audience        string
	Intent          string
	ProductCategory string
	ToneMap         map[string]string
	LengthPrefs     map[string]int
	TopK            int
}

// RunParallelRewrites fans the pipeline out across target platforms. Each
// platform failure lands in that platform's result instead of aborting the
// batch; result order matches the request order.
func (s *Service) RunParallelRewrites(ctx context.Context, req FanoutRequest) []domain.PlatformResult {
	results := make([]domain.PlatformResult, len(req.TargetPlatforms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanoutWorkers)
	for i, platform := range req.TargetPlatforms {
		i, platform := i, platform
		g.Go(func() error {
			res, err := s.RewriteForPlatform(gctx, Request{
				Text:            req.Text,
				Platform:        platform,
				Tone:            req.ToneMap[platform],
				LengthPref:      req.LengthPrefs[platform],
				Audience:        req.Audience,
				Intent:          req.Intent,
				ProductCategory: req.ProductCategory,
				TopK:            req.TopK,
			})
			if err != nil {
				if s.log != nil {
					s.log.Warn("platform rewrite failed", "platform", platform, "error", err)
				}
				res.Error = err.Error()
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
