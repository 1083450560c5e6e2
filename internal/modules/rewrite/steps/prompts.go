package steps

import (
	"encoding/json"

	"github.com/yungbote/adforge-backend/internal/domain"
)

const rewriteSystemPrompt = "You rewrite ads for specific platforms. " +
	"Respect the constraint rules and preferred styles exactly. " +
	"Respond only in JSON with keys: platform, rewritten_text, explanation."

type rewritePromptInput struct {
	Platform  string            `json:"platform"`
	Tone      string            `json:"tone"`
	InputText string            `json:"input_text"`
	Entities  domain.Entities   `json:"entities"`
	KGRules   rewriteRules      `json:"kg_rules"`
	Examples  []promptExample   `json:"examples"`
}

type rewriteRules struct {
	MaxLengthChars  int      `json:"max_length_chars"`
	AllowEmojis     bool     `json:"allow_emojis"`
	CTARequired     bool     `json:"cta_required"`
	PreferredStyles []string `json:"preferred_styles,omitempty"`
}

type promptExample struct {
	Text string `json:"text"`
	Tone string `json:"tone,omitempty"`
}

// buildRewriteUserPrompt renders the single JSON input block the model sees.
// Examples are capped at three regardless of retrieval depth.
func buildRewriteUserPrompt(platform, tone, inputText string, entities domain.Entities, constraints domain.ConstraintSet, styles []string, examples []domain.Example) (string, error) {
	capped := examples
	if len(capped) > 3 {
		capped = capped[:3]
	}
	promptExamples := make([]promptExample, 0, len(capped))
	for _, ex := range capped {
		promptExamples = append(promptExamples, promptExample{Text: ex.Text, Tone: ex.Tone})
	}

	payload := rewritePromptInput{
		Platform:  platform,
		Tone:      tone,
		InputText: inputText,
		Entities:  entities,
		KGRules: rewriteRules{
			MaxLengthChars:  constraints.MaxLengthChars,
			AllowEmojis:     constraints.AllowEmojis,
			CTARequired:     constraints.CTARequired,
			PreferredStyles: styles,
		},
		Examples: promptExamples,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return "Input JSON:\n" + string(b), nil
}

func rewriteResponseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"platform":       map[string]any{"type": "string"},
			"rewritten_text": map[string]any{"type": "string"},
			"explanation":    map[string]any{"type": "string"},
		},
		"required":             []string{"platform", "rewritten_text", "explanation"},
		"additionalProperties": false,
	}
}
