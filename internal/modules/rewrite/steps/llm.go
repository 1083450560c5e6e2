package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/adforge-backend/internal/domain"
	"github.com/yungbote/adforge-backend/internal/platform/logger"
	"github.com/yungbote/adforge-backend/internal/platform/openai"
)

const nonJSONExplanation = "Model returned non-JSON, raw text forwarded."

type GenerateRewriteDeps struct {
	Log *logger.Logger
	LLM openai.Client
}

type GenerateRewriteInput struct {
	Platform    string
	Tone        string
	InputText   string
	Entities    domain.Entities
	Constraints domain.ConstraintSet
	Styles      []string
	Examples    []domain.Example
}

type GenerateRewriteOutput struct {
	RewrittenText string
	Explanation   string
}

// GenerateRewrite asks the model for a platform-adapted rewrite using strict
// structured output. If the structured call fails, one plain-text attempt is
// made and its output parsed leniently; raw text is forwarded as the rewrite
// when even that is not JSON. Empty model output falls back to the input text.
func GenerateRewrite(ctx context.Context, deps GenerateRewriteDeps, in GenerateRewriteInput) (GenerateRewriteOutput, error) {
	out := GenerateRewriteOutput{}
	if deps.LLM == nil {
		return out, fmt.Errorf("generate rewrite: missing llm client")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	user, err := buildRewriteUserPrompt(in.Platform, in.Tone, in.InputText, in.Entities, in.Constraints, in.Styles, in.Examples)
	if err != nil {
		return out, fmt.Errorf("generate rewrite: build prompt: %w", err)
	}

	obj, jsonErr := deps.LLM.GenerateJSON(ctx, rewriteSystemPrompt, user, "platform_rewrite", rewriteResponseSchema())
	if jsonErr == nil {
		rewritten, _ := obj["rewritten_text"].(string)
		explanation, _ := obj["explanation"].(string)
		out.RewrittenText = strings.TrimSpace(rewritten)
		out.Explanation = explanation
	} else {
		if deps.Log != nil {
			deps.Log.Warn("structured rewrite failed, retrying as text", "platform", in.Platform, "error", jsonErr)
		}
		raw, textErr := deps.LLM.GenerateText(ctx, rewriteSystemPrompt, user)
		if textErr != nil {
			return out, fmt.Errorf("generate rewrite: %w", jsonErr)
		}
		out.RewrittenText, out.Explanation = ParseRewriteResponse(raw)
	}

	if out.RewrittenText == "" {
		out.RewrittenText = in.InputText
	}
	return out, nil
}

// ParseRewriteResponse decodes a model reply that should be JSON with
// rewritten_text and explanation keys. Non-JSON replies are forwarded verbatim
// with a fixed explanation.
func ParseRewriteResponse(raw string) (rewritten, explanation string) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return strings.TrimSpace(raw), nonJSONExplanation
	}
	rewritten, _ = obj["rewritten_text"].(string)
	explanation, _ = obj["explanation"].(string)
	return strings.TrimSpace(rewritten), explanation
}
