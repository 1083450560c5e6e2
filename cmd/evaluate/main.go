// Command evaluate scores the agent against the curated corpus: each curated
// ad doubles as ground truth for a genericized version of itself.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/adforge-backend/internal/modules/rewrite"
	"github.com/yungbote/adforge-backend/internal/modules/rewrite/eval"
	"github.com/yungbote/adforge-backend/internal/platform/logger"
	"github.com/yungbote/adforge-backend/internal/platform/neo4jdb"
	"github.com/yungbote/adforge-backend/internal/platform/openai"
	"github.com/yungbote/adforge-backend/internal/platform/qdrant"
)

const (
	maxCasesPerPlatform = 3
	defaultMaxCases     = 20
)

type exampleFile struct {
	Examples []exampleEntry `yaml:"examples"`
}

type exampleEntry struct {
	ID       string `yaml:"id"`
	Platform string `yaml:"platform"`
	Tone     string `yaml:"tone"`
	Text     string `yaml:"text"`
}

type testCase struct {
	Input       string `json:"input"`
	Platform    string `json:"platform"`
	GroundTruth string `json:"ground_truth"`
	Tone        string `json:"tone,omitempty"`
}

type caseResult struct {
	TestCase  testCase     `json:"test_case"`
	Predicted string       `json:"predicted"`
	Metrics   eval.Metrics `json:"metrics"`
}

type report struct {
	Summary map[string]eval.Summary `json:"summary"`
	Results []caseResult            `json:"results"`
}

func main() {
	examplesPath := flag.String("examples", "data/examples.yaml", "path to the curated examples file")
	outPath := flag.String("out", "eval_results.json", "where to write detailed results")
	maxCases := flag.Int("cases", defaultMaxCases, "maximum number of test cases")
	flag.Parse()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cases, err := buildTestCases(*examplesPath, *maxCases)
	if err != nil {
		log.Fatal("failed to build test cases", "error", err)
	}
	log.Info("built test cases", "count", len(cases))

	neo, err := neo4jdb.NewFromEnv(log)
	if err != nil || neo == nil {
		log.Fatal("neo4j is required for evaluation", "error", err)
	}
	llm, err := openai.NewClient(log)
	if err != nil {
		log.Fatal("openai client init failed", "error", err)
	}
	var store qdrant.VectorStore
	if qcfg, err := qdrant.ResolveConfigFromEnv(); err == nil {
		if store, err = qdrant.NewVectorStore(log, qcfg); err != nil {
			log.Warn("qdrant unavailable, evaluating without retrieval", "error", err)
			store = nil
		}
	}

	svc := rewrite.NewService(rewrite.ServiceDeps{
		Log:        log,
		Strategies: &rewrite.GraphSource{Client: neo, Log: log},
		LLM:        llm,
		Store:      store,
	})

	ctx := context.Background()
	results := make([]caseResult, 0, len(cases))
	for i, tc := range cases {
		log.Info("evaluating", "case", i+1, "total", len(cases), "platform", tc.Platform)

		runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		res, err := svc.RewriteForPlatform(runCtx, rewrite.Request{Text: tc.Input, Platform: tc.Platform})
		cancel()
		if err != nil {
			log.Warn("rewrite failed, skipping case", "platform", tc.Platform, "error", err)
			continue
		}
		if strings.TrimSpace(res.RewrittenText) == "" {
			log.Warn("empty rewrite, skipping case", "platform", tc.Platform)
			continue
		}

		similarity := semanticSimilarity(ctx, llm, res.RewrittenText, tc.GroundTruth, log)
		results = append(results, caseResult{
			TestCase:  tc,
			Predicted: res.RewrittenText,
			Metrics:   eval.Score(res.RewrittenText, tc.GroundTruth, similarity),
		})
	}
	if len(results) == 0 {
		log.Fatal("no results to evaluate")
	}

	rep := summarize(results)
	printReport(rep)

	raw, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatal("marshal report failed", "error", err)
	}
	if err := os.WriteFile(*outPath, raw, 0o644); err != nil {
		log.Fatal("write report failed", "path", *outPath, "error", err)
	}
	log.Info("detailed results saved", "path", *outPath)
}

// buildTestCases genericizes curated ads into inputs: lowercase, with emphatic
// punctuation flattened, paired against the original as ground truth.
func buildTestCases(path string, maxCases int) ([]testCase, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file exampleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	byPlatform := map[string][]exampleEntry{}
	order := []string{}
	for _, e := range file.Examples {
		platform := strings.ToLower(strings.TrimSpace(e.Platform))
		if platform == "" || strings.TrimSpace(e.Text) == "" {
			continue
		}
		if _, seen := byPlatform[platform]; !seen {
			order = append(order, platform)
		}
		byPlatform[platform] = append(byPlatform[platform], e)
	}

	cases := []testCase{}
	for _, platform := range order {
		for i, e := range byPlatform[platform] {
			if i >= maxCasesPerPlatform || len(cases) >= maxCases {
				break
			}
			input := strings.ToLower(e.Text)
			input = strings.ReplaceAll(input, "!", ".")
			input = strings.ReplaceAll(input, "?", ".")
			cases = append(cases, testCase{
				Input:       input,
				Platform:    platform,
				GroundTruth: e.Text,
				Tone:        e.Tone,
			})
		}
		if len(cases) >= maxCases {
			break
		}
	}
	return cases, nil
}

func semanticSimilarity(ctx context.Context, llm openai.Client, predicted, reference string, log *logger.Logger) float64 {
	embedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	embeddings, err := llm.Embed(embedCtx, []string{predicted, reference})
	if err != nil || len(embeddings) != 2 {
		log.Warn("similarity embedding failed", "error", err)
		return 0
	}
	return eval.CosineSimilarity(embeddings[0], embeddings[1])
}

func summarize(results []caseResult) report {
	series := map[string][]float64{}
	for _, r := range results {
		series["rouge_l"] = append(series["rouge_l"], r.Metrics.RougeL.F1)
		series["rouge_l_precision"] = append(series["rouge_l_precision"], r.Metrics.RougeL.Precision)
		series["rouge_l_recall"] = append(series["rouge_l_recall"], r.Metrics.RougeL.Recall)
		series["bleu"] = append(series["bleu"], r.Metrics.BLEU)
		series["semantic_similarity"] = append(series["semantic_similarity"], r.Metrics.SemanticSimilarity)
		series["length_ratio"] = append(series["length_ratio"], r.Metrics.LengthRatio)
	}
	summary := map[string]eval.Summary{}
	for name, values := range series {
		summary[name] = eval.Summarize(values)
	}
	return report{Summary: summary, Results: results}
}

func printReport(rep report) {
	fmt.Printf("Total test cases: %d\n\n", len(rep.Results))
	fmt.Println("Average metrics:")
	for _, name := range []string{"rouge_l", "rouge_l_precision", "rouge_l_recall", "bleu", "semantic_similarity", "length_ratio"} {
		s, ok := rep.Summary[name]
		if !ok {
			continue
		}
		fmt.Printf("  %-22s mean=%.4f median=%.4f\n", name, s.Mean, s.Median)
	}
}
