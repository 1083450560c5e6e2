package steps

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/adforge-backend/internal/platform/qdrant"
)

type fakeEmbedder struct {
	fakeLLM
	vectors [][]float32
	err     error
	inputs  []string
}

func (f *fakeEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	f.inputs = inputs
	return f.vectors, f.err
}

type fakeStore struct {
	matches   []qdrant.VectorMatch
	err       error
	namespace string
	topK      int
	filter    map[string]any
}

func (f *fakeStore) Upsert(ctx context.Context, namespace string, vectors []qdrant.Vector) error {
	return nil
}

func (f *fakeStore) QueryMatches(ctx context.Context, namespace string, q []float32, topK int, filter map[string]any) ([]qdrant.VectorMatch, error) {
	f.namespace = namespace
	f.topK = topK
	f.filter = filter
	return f.matches, f.err
}

func (f *fakeStore) DeleteIDs(ctx context.Context, namespace string, ids []string) error {
	return nil
}

func TestRetrieveExamplesHappyPath(t *testing.T) {
	embedder := &fakeEmbedder{vectors: [][]float32{{0.1, 0.2, 0.3}}}
	store := &fakeStore{matches: []qdrant.VectorMatch{
		{ID: "ex1", Score: 0.91, Payload: map[string]any{"text": "Fresh drops daily", "tone": "fun", "platform": "instagram"}},
		{ID: "ex2", Score: 0.85, Payload: map[string]any{"text": "New arrivals", "tone": "casual", "platform": "instagram"}},
	}}

	out, err := RetrieveExamples(context.Background(), RetrieveExamplesDeps{Embedder: embedder, Store: store}, RetrieveExamplesInput{
		Query:    "summer shoes",
		Platform: "Instagram",
		TopK:     3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Examples) != 2 {
		t.Fatalf("examples: want=2 got=%d", len(out.Examples))
	}
	if out.Examples[0].Text != "Fresh drops daily" || out.Examples[0].Tone != "fun" {
		t.Fatalf("first example: %+v", out.Examples[0])
	}
	if out.Examples[0].Score != 0.91 {
		t.Fatalf("score: got %v", out.Examples[0].Score)
	}
	if store.namespace != ExampleNamespace {
		t.Fatalf("namespace: got %q", store.namespace)
	}
	if store.filter["platform"] != "instagram" {
		t.Fatalf("platform filter must be lowercased: %v", store.filter)
	}
	if store.topK != 3 {
		t.Fatalf("topK: got %d", store.topK)
	}
}

func TestRetrieveExamplesSkipsEmptyPayloadText(t *testing.T) {
	embedder := &fakeEmbedder{vectors: [][]float32{{0.5}}}
	store := &fakeStore{matches: []qdrant.VectorMatch{
		{ID: "ex1", Score: 0.9, Payload: map[string]any{"tone": "fun"}},
		{ID: "ex2", Score: 0.8, Payload: map[string]any{"text": "usable"}},
	}}
	out, err := RetrieveExamples(context.Background(), RetrieveExamplesDeps{Embedder: embedder, Store: store}, RetrieveExamplesInput{
		Query: "q", Platform: "twitter",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Examples) != 1 || out.Examples[0].Text != "usable" {
		t.Fatalf("examples: %+v", out.Examples)
	}
}

func TestRetrieveExamplesWithoutInfraReturnsEmpty(t *testing.T) {
	out, err := RetrieveExamples(context.Background(), RetrieveExamplesDeps{}, RetrieveExamplesInput{Query: "q", Platform: "twitter"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Examples) != 0 {
		t.Fatalf("expected no examples, got %+v", out.Examples)
	}
}

func TestRetrieveExamplesEmbedErrorPropagates(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("quota exceeded")}
	store := &fakeStore{}
	_, err := RetrieveExamples(context.Background(), RetrieveExamplesDeps{Embedder: embedder, Store: store}, RetrieveExamplesInput{
		Query: "q", Platform: "twitter",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestRetrieveExamplesDefaultTopK(t *testing.T) {
	embedder := &fakeEmbedder{vectors: [][]float32{{0.5}}}
	store := &fakeStore{}
	if _, err := RetrieveExamples(context.Background(), RetrieveExamplesDeps{Embedder: embedder, Store: store}, RetrieveExamplesInput{
		Query: "q", Platform: "twitter",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.topK != 3 {
		t.Fatalf("default topK: want=3 got=%d", store.topK)
	}
}
