// Package eval scores agent rewrites against a curated ground-truth corpus.
package eval

import (
	"math"
	"sort"
	"strings"
)

// RougeL holds longest-common-subsequence overlap scores.
type RougeL struct {
	F1        float64
	Precision float64
	Recall    float64
}

// Metrics is the full score set for one predicted rewrite.
type Metrics struct {
	RougeL             RougeL
	BLEU               float64
	SemanticSimilarity float64
	LengthRatio        float64
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// ScoreRougeL computes ROUGE-L on whitespace tokens.
func ScoreRougeL(predicted, reference string) RougeL {
	pred := tokenize(predicted)
	ref := tokenize(reference)
	if len(pred) == 0 || len(ref) == 0 {
		return RougeL{}
	}
	lcs := lcsLength(pred, ref)
	precision := float64(lcs) / float64(len(pred))
	recall := float64(lcs) / float64(len(ref))
	var f1 float64
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return RougeL{F1: f1, Precision: precision, Recall: recall}
}

func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

const bleuSmoothingEpsilon = 0.1

// ScoreBLEU computes sentence BLEU up to 4-grams with epsilon smoothing for
// zero-match orders and the standard brevity penalty.
func ScoreBLEU(predicted, reference string) float64 {
	pred := tokenize(predicted)
	ref := tokenize(reference)
	if len(pred) == 0 || len(ref) == 0 {
		return 0
	}

	maxOrder := 4
	if len(pred) < maxOrder {
		maxOrder = len(pred)
	}

	logSum := 0.0
	for n := 1; n <= maxOrder; n++ {
		matches, total := clippedNgramMatches(pred, ref, n)
		if total == 0 {
			return 0
		}
		p := float64(matches) / float64(total)
		if matches == 0 {
			p = bleuSmoothingEpsilon / float64(total)
		}
		logSum += math.Log(p)
	}
	geoMean := math.Exp(logSum / float64(maxOrder))

	bp := 1.0
	if len(pred) < len(ref) {
		bp = math.Exp(1 - float64(len(ref))/float64(len(pred)))
	}
	return bp * geoMean
}

func clippedNgramMatches(pred, ref []string, n int) (matches, total int) {
	if len(pred) < n {
		return 0, 0
	}
	refCounts := map[string]int{}
	for i := 0; i+n <= len(ref); i++ {
		refCounts[strings.Join(ref[i:i+n], " ")]++
	}
	for i := 0; i+n <= len(pred); i++ {
		total++
		gram := strings.Join(pred[i:i+n], " ")
		if refCounts[gram] > 0 {
			refCounts[gram]--
			matches++
		}
	}
	return matches, total
}

// CosineSimilarity compares two embedding vectors; zero vectors or mismatched
// dimensions score zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// LengthRatio is predicted length over reference length, in runes.
func LengthRatio(predicted, reference string) float64 {
	refLen := len([]rune(reference))
	if refLen == 0 {
		return 0
	}
	return float64(len([]rune(predicted))) / float64(refLen)
}

// Score bundles every text metric; semantic similarity is supplied by the
// caller since it needs embeddings.
func Score(predicted, reference string, similarity float64) Metrics {
	return Metrics{
		RougeL:             ScoreRougeL(predicted, reference),
		BLEU:               ScoreBLEU(predicted, reference),
		SemanticSimilarity: similarity,
		LengthRatio:        LengthRatio(predicted, reference),
	}
}

// Summary is the aggregate over a metric series.
type Summary struct {
	Mean   float64
	Median float64
	StdDev float64
}

// Summarize computes mean, median, and sample standard deviation.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	var stddev float64
	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			sq += (v - mean) * (v - mean)
		}
		stddev = math.Sqrt(sq / float64(len(values)-1))
	}
	return Summary{Mean: mean, Median: median, StdDev: stddev}
}
