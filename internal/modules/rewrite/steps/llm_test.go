package steps

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/adforge-backend/internal/domain"
)

type fakeLLM struct {
	jsonResult map[string]any
	jsonErr    error
	textResult string
	textErr    error
	lastUser   string
}

func (f *fakeLLM) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	f.lastUser = user
	return f.jsonResult, f.jsonErr
}

func (f *fakeLLM) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.lastUser = user
	return f.textResult, f.textErr
}

func TestParseRewriteResponseValidJSON(t *testing.T) {
	rewritten, explanation := ParseRewriteResponse(`{"platform":"twitter","rewritten_text":"Short and sharp","explanation":"trimmed"}`)
	if rewritten != "Short and sharp" {
		t.Fatalf("rewritten: got %q", rewritten)
	}
	if explanation != "trimmed" {
		t.Fatalf("explanation: got %q", explanation)
	}
}

func TestParseRewriteResponseRawTextFallback(t *testing.T) {
	rewritten, explanation := ParseRewriteResponse("  Here is your ad copy!  ")
	if rewritten != "Here is your ad copy!" {
		t.Fatalf("rewritten: got %q", rewritten)
	}
	if explanation != nonJSONExplanation {
		t.Fatalf("explanation: got %q", explanation)
	}
}

func TestGenerateRewriteStructuredPath(t *testing.T) {
	llm := &fakeLLM{jsonResult: map[string]any{
		"platform":       "instagram",
		"rewritten_text": " Sun-soaked sips ☀ ",
		"explanation":    "added seasonal hook",
	}}
	out, err := GenerateRewrite(context.Background(), GenerateRewriteDeps{LLM: llm}, GenerateRewriteInput{
		Platform:    "instagram",
		Tone:        "fun",
		InputText:   "Iced coffee for summer",
		Constraints: domain.ConstraintSet{MaxLengthChars: 2200, AllowEmojis: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.RewrittenText != "Sun-soaked sips ☀" {
		t.Fatalf("rewritten: got %q", out.RewrittenText)
	}
	if out.Explanation != "added seasonal hook" {
		t.Fatalf("explanation: got %q", out.Explanation)
	}
}

func TestGenerateRewriteFallsBackToTextCall(t *testing.T) {
	llm := &fakeLLM{
		jsonErr:    errors.New("failed to parse model JSON"),
		textResult: "Just plain copy, no JSON",
	}
	out, err := GenerateRewrite(context.Background(), GenerateRewriteDeps{LLM: llm}, GenerateRewriteInput{
		Platform:  "twitter",
		InputText: "original",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.RewrittenText != "Just plain copy, no JSON" {
		t.Fatalf("rewritten: got %q", out.RewrittenText)
	}
	if out.Explanation != nonJSONExplanation {
		t.Fatalf("explanation: got %q", out.Explanation)
	}
}

func TestGenerateRewriteEmptyOutputFallsBackToInput(t *testing.T) {
	llm := &fakeLLM{jsonResult: map[string]any{"rewritten_text": "", "explanation": ""}}
	out, err := GenerateRewrite(context.Background(), GenerateRewriteDeps{LLM: llm}, GenerateRewriteInput{
		Platform:  "twitter",
		InputText: "keep me",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.RewrittenText != "keep me" {
		t.Fatalf("rewritten: got %q", out.RewrittenText)
	}
}

func TestGenerateRewriteBothCallsFail(t *testing.T) {
	llm := &fakeLLM{jsonErr: errors.New("boom"), textErr: errors.New("also boom")}
	_, err := GenerateRewrite(context.Background(), GenerateRewriteDeps{LLM: llm}, GenerateRewriteInput{
		Platform:  "twitter",
		InputText: "x",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestBuildRewriteUserPromptCapsExamples(t *testing.T) {
	examples := []domain.Example{
		{Text: "one"}, {Text: "two"}, {Text: "three"}, {Text: "four"},
	}
	prompt, err := buildRewriteUserPrompt("twitter", "bold", "hello", domain.Entities{}, domain.ConstraintSet{MaxLengthChars: 280}, nil, examples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := strings.TrimPrefix(prompt, "Input JSON:\n")
	var payload struct {
		Examples []promptExample `json:"examples"`
		KGRules  rewriteRules    `json:"kg_rules"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("prompt body must be JSON: %v", err)
	}
	if len(payload.Examples) != 3 {
		t.Fatalf("examples cap: want=3 got=%d", len(payload.Examples))
	}
	if payload.KGRules.MaxLengthChars != 280 {
		t.Fatalf("kg_rules missing: %+v", payload.KGRules)
	}
	if strings.Contains(body, "four") {
		t.Fatalf("fourth example leaked into prompt")
	}
}
