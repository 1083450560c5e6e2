// Command ingest_examples embeds the curated ad corpus and upserts it into
// the vector store so the rewrite pipeline can ground on it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/adforge-backend/internal/modules/rewrite/steps"
	"github.com/yungbote/adforge-backend/internal/platform/logger"
	"github.com/yungbote/adforge-backend/internal/platform/openai"
	"github.com/yungbote/adforge-backend/internal/platform/qdrant"
)

const embedBatchSize = 64

type exampleFile struct {
	Examples []exampleEntry `yaml:"examples"`
}

type exampleEntry struct {
	ID       string `yaml:"id"`
	Platform string `yaml:"platform"`
	Tone     string `yaml:"tone"`
	Text     string `yaml:"text"`
}

func main() {
	path := flag.String("examples", "data/examples.yaml", "path to the curated examples file")
	flag.Parse()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	entries, err := loadExamples(*path)
	if err != nil {
		log.Fatal("failed to load examples", "path", *path, "error", err)
	}
	log.Info("loaded examples", "count", len(entries))

	llm, err := openai.NewClient(log)
	if err != nil {
		log.Fatal("openai client init failed", "error", err)
	}
	qcfg, err := qdrant.ResolveConfigFromEnv()
	if err != nil {
		log.Fatal("qdrant config invalid", "error", err)
	}
	store, err := qdrant.NewVectorStore(log, qcfg)
	if err != nil {
		log.Fatal("qdrant init failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for start := 0; start < len(entries); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[start:end]

		texts := make([]string, len(batch))
		for i, e := range batch {
			texts[i] = e.Text
		}
		embeddings, err := llm.Embed(ctx, texts)
		if err != nil {
			log.Fatal("embedding failed", "batch_start", start, "error", err)
		}

		vectors := make([]qdrant.Vector, len(batch))
		for i, e := range batch {
			vectors[i] = qdrant.Vector{
				ID:     e.ID,
				Values: embeddings[i],
				Metadata: map[string]any{
					"platform": strings.ToLower(e.Platform),
					"tone":     e.Tone,
					"text":     e.Text,
				},
			}
		}
		if err := store.Upsert(ctx, steps.ExampleNamespace, vectors); err != nil {
			log.Fatal("upsert failed", "batch_start", start, "error", err)
		}
		log.Info("upserted batch", "from", start, "to", end)
	}

	log.Info("ingestion complete", "examples", len(entries))
}

func loadExamples(path string) ([]exampleEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file exampleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	out := make([]exampleEntry, 0, len(file.Examples))
	for _, e := range file.Examples {
		if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.Text) == "" || strings.TrimSpace(e.Platform) == "" {
			return nil, fmt.Errorf("example missing id, platform, or text: %+v", e)
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no examples found in %s", path)
	}
	return out, nil
}
