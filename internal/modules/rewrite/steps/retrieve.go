package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/adforge-backend/internal/domain"
	"github.com/yungbote/adforge-backend/internal/platform/logger"
	"github.com/yungbote/adforge-backend/internal/platform/openai"
	"github.com/yungbote/adforge-backend/internal/platform/qdrant"
)

// ExampleNamespace is the vector-store namespace holding the curated ad corpus.
const ExampleNamespace = "ad-examples"

type RetrieveExamplesDeps struct {
	Log      *logger.Logger
	Embedder openai.Client
	Store    qdrant.VectorStore
}

type RetrieveExamplesInput struct {
	Query    string
	Platform string
	TopK     int
}

type RetrieveExamplesOutput struct {
	Examples []domain.Example
}

// RetrieveExamples embeds the sanitized query and pulls the nearest curated
// ads for the platform. Missing retrieval infrastructure degrades to zero
// examples rather than failing the rewrite.
func RetrieveExamples(ctx context.Context, deps RetrieveExamplesDeps, in RetrieveExamplesInput) (RetrieveExamplesOutput, error) {
	out := RetrieveExamplesOutput{}
	if deps.Embedder == nil || deps.Store == nil {
		return out, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return out, nil
	}
	topK := in.TopK
	if topK <= 0 {
		topK = 3
	}

	embeddings, err := deps.Embedder.Embed(ctx, []string{query})
	if err != nil {
		return out, fmt.Errorf("retrieve examples: embed query: %w", err)
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return out, fmt.Errorf("retrieve examples: empty query embedding")
	}

	matches, err := deps.Store.QueryMatches(ctx, ExampleNamespace, embeddings[0], topK, map[string]any{
		"platform": strings.ToLower(strings.TrimSpace(in.Platform)),
	})
	if err != nil {
		return out, fmt.Errorf("retrieve examples: query store: %w", err)
	}

	examples := make([]domain.Example, 0, len(matches))
	for _, m := range matches {
		text, _ := m.Payload["text"].(string)
		if strings.TrimSpace(text) == "" {
			continue
		}
		tone, _ := m.Payload["tone"].(string)
		platform, _ := m.Payload["platform"].(string)
		examples = append(examples, domain.Example{
			Text:     text,
			Tone:     tone,
			Platform: platform,
			Score:    m.Score,
		})
	}
	out.Examples = examples
	return out, nil
}
