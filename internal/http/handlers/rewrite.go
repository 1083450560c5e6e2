package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/yungbote/adforge-backend/internal/domain"
	"github.com/yungbote/adforge-backend/internal/http/response"
	"github.com/yungbote/adforge-backend/internal/modules/rewrite"
	"github.com/yungbote/adforge-backend/internal/platform/logger"
	"github.com/yungbote/adforge-backend/internal/repos"
)

type RewriteHandler struct {
	log     *logger.Logger
	service *rewrite.Service
	runs    repos.RewriteRunRepo
}

func NewRewriteHandler(baseLog *logger.Logger, service *rewrite.Service, runs repos.RewriteRunRepo) *RewriteHandler {
	return &RewriteHandler{
		log:     baseLog.With("handler", "RewriteHandler"),
		service: service,
		runs:    runs,
	}
}

type runAgentRequest struct {
	Text            string   `json:"text" binding:"required"`
	TargetPlatforms []string `json:"target_platforms" binding:"required"`

	Audience        string `json:"audience"`
	UserIntent      string `json:"user_intent"`
	ProductCategory string `json:"product_category"`

	ToneMap     map[string]string `json:"tone_map"`
	LengthPrefs map[string]int    `json:"length_prefs"`
	TopK        int               `json:"top_k"`

	IncludeStrategyInsights     *bool `json:"include_strategy_insights"`
	SuggestAlternativePlatforms *bool `json:"suggest_alternative_platforms"`
}

type runMeta struct {
	LatencyMS      int64          `json:"latency_ms"`
	TotalPlatforms int            `json:"total_platforms"`
	Context        map[string]any `json:"context"`
}

type validationSummary struct {
	Total  int `json:"total"`
	OK     int `json:"ok"`
	Failed int `json:"failed"`
}

type platformInsights struct {
	RecommendedStyles        []string `json:"recommended_styles"`
	RecommendedCreativeTypes []string `json:"recommended_creative_types"`
	TargetAudiences          []string `json:"target_audiences"`
	AudiencePreferredStyles  []string `json:"audience_preferred_styles,omitempty"`
	IntentRequiredStyles     []string `json:"intent_required_styles,omitempty"`
	CategorySuitabilityScore *float64 `json:"category_suitability_score,omitempty"`
}

type runAgentResponse struct {
	Meta                 runMeta                            `json:"meta"`
	ValidationSummary    validationSummary                  `json:"validation_summary"`
	Results              []domain.PlatformResult            `json:"results"`
	StrategyInsights     map[string]platformInsights        `json:"strategy_insights,omitempty"`
	AlternativePlatforms map[string][]domain.SimilarPlatform `json:"alternative_platforms,omitempty"`
}

// RunAgent fans the rewrite pipeline out across the requested platforms and
// assembles the aggregate response.
func (h *RewriteHandler) RunAgent(c *gin.Context) {
	var req runAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
		return
	}
	if len(req.TargetPlatforms) == 0 {
		response.RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", errors.New("target_platforms is required"))
		return
	}

	ctx := c.Request.Context()
	start := time.Now()

	results := h.service.RunParallelRewrites(ctx, rewrite.FanoutRequest{
		Text:            req.Text,
		TargetPlatforms: req.TargetPlatforms,
		Audience:        req.Audience,
		Intent:          req.UserIntent,
		ProductCategory: req.ProductCategory,
		ToneMap:         req.ToneMap,
		LengthPrefs:     req.LengthPrefs,
		TopK:            req.TopK,
	})
	latency := time.Since(start)

	summary := validationSummary{Total: len(results)}
	for _, r := range results {
		if r.Error == "" && r.Validation.OK {
			summary.OK++
		} else {
			summary.Failed++
		}
	}

	resp := runAgentResponse{
		Meta: runMeta{
			LatencyMS:      latency.Milliseconds(),
			TotalPlatforms: len(results),
			Context: map[string]any{
				"audience":         req.Audience,
				"user_intent":      req.UserIntent,
				"product_category": req.ProductCategory,
			},
		},
		ValidationSummary: summary,
		Results:           results,
	}

	if boolOrTrue(req.IncludeStrategyInsights) {
		resp.StrategyInsights = buildStrategyInsights(results, req)
		if boolOrTrue(req.SuggestAlternativePlatforms) {
			resp.AlternativePlatforms = h.buildAlternatives(ctx, req.TargetPlatforms)
		}
	}

	h.persistRun(ctx, req, resp)
	response.RespondOK(c, resp)
}

func buildStrategyInsights(results []domain.PlatformResult, req runAgentRequest) map[string]platformInsights {
	insights := map[string]platformInsights{}
	for _, r := range results {
		strategy := r.StrategyData
		if strategy == nil {
			continue
		}
		entry := platformInsights{
			RecommendedStyles:        capList(strategy.PreferredStyles, 5),
			RecommendedCreativeTypes: capList(strategy.RecommendedCreativeTypes, 5),
			TargetAudiences:          capList(strategy.TargetAudiences, 5),
		}
		if req.Audience != "" {
			entry.AudiencePreferredStyles = strategy.AudiencePreferredStyles
		}
		if req.UserIntent != "" {
			entry.IntentRequiredStyles = strategy.IntentRequiredStyles
		}
		if req.ProductCategory != "" {
			entry.CategorySuitabilityScore = strategy.CategorySuitabilityScore
		}
		insights[r.Platform] = entry
	}
	if len(insights) == 0 {
		return nil
	}
	return insights
}

func (h *RewriteHandler) buildAlternatives(ctx context.Context, platforms []string) map[string][]domain.SimilarPlatform {
	alternatives := map[string][]domain.SimilarPlatform{}
	for _, platform := range platforms {
		similar, err := h.service.SimilarPlatforms(ctx, platform, 3)
		if err != nil {
			h.log.Warn("similar platform lookup failed", "platform", platform, "error", err)
			continue
		}
		if len(similar) > 0 {
			alternatives[platform] = similar
		}
	}
	if len(alternatives) == 0 {
		return nil
	}
	return alternatives
}

// persistRun records the run for history; persistence failures never fail the
// request.
func (h *RewriteHandler) persistRun(ctx context.Context, req runAgentRequest, resp runAgentResponse) {
	if h.runs == nil {
		return
	}
	run := &domain.RewriteRun{
		InputText:       req.Text,
		Audience:        req.Audience,
		Intent:          req.UserIntent,
		ProductCategory: req.ProductCategory,
		LatencyMS:       int(resp.Meta.LatencyMS),
		TotalPlatforms:  resp.Meta.TotalPlatforms,
		OKCount:         resp.ValidationSummary.OK,
		FailedCount:     resp.ValidationSummary.Failed,
	}
	for _, r := range resp.Results {
		run.Results = append(run.Results, domain.RewriteRunResult{
			Platform:      r.Platform,
			RewrittenText: r.RewrittenText,
			Explanation:   r.Explanation,
			ValidationOK:  r.Validation.OK,
			Issues:        mustJSON(r.Validation.Issues),
			Entities:      mustJSON(r.Entities),
			ExamplesUsed:  mustJSON(r.ExamplesUsed),
			Error:         r.Error,
		})
	}
	if _, err := h.runs.Create(ctx, nil, run); err != nil {
		h.log.Warn("failed to persist rewrite run", "error", err)
	}
}

func mustJSON(v any) datatypes.JSON {
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}

func boolOrTrue(v *bool) bool {
	return v == nil || *v
}

func capList(in []string, n int) []string {
	if len(in) <= n {
		return in
	}
	return in[:n]
}
