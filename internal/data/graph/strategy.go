package graph

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/adforge-backend/internal/domain"
	"github.com/yungbote/adforge-backend/internal/platform/logger"
	"github.com/yungbote/adforge-backend/internal/platform/neo4jdb"
)

// StrategyQuery names are lowercased before hitting the graph; empty optional
// fields skip their sub-lookup.
type StrategyQuery struct {
	Platform        string
	Audience        string
	Intent          string
	ProductCategory string
}

const strategyCypher = `
MATCH (p:Platform {name: $platform})
OPTIONAL MATCH (p)-[:HAS_CONSTRAINT]->(c:Constraint)
WITH p, collect(DISTINCT {name: c.name, value: c.value, type: c.type}) AS constraints
OPTIONAL MATCH (p)-[r1:PREFERS_STYLE]->(s1:ContentStyle)
WITH p, constraints, collect(DISTINCT {name: s1.name, score: r1.score}) AS platform_styles
OPTIONAL MATCH (p)-[r2:SUPPORTS]->(ct:CreativeType)
WITH p, constraints, platform_styles, collect(DISTINCT {name: ct.name, score: r2.score}) AS creative_types
OPTIONAL MATCH (p)-[r3:TARGETS]->(a:Audience)
WITH p, constraints, platform_styles, creative_types, collect(DISTINCT {name: a.name, score: r3.weight}) AS audiences
OPTIONAL MATCH (a2:Audience {name: $audience})-[r4:PREFERS_STYLE]->(s2:ContentStyle)
WITH p, constraints, platform_styles, creative_types, audiences,
     CASE WHEN $audience IS NOT NULL THEN collect(DISTINCT {name: s2.name, score: r4.preference_score}) ELSE [] END AS audience_styles
OPTIONAL MATCH (ui:UserIntent {name: $intent})-[r5:REQUIRES_STYLE]->(s3:ContentStyle)
WITH p, constraints, platform_styles, creative_types, audiences, audience_styles,
     CASE WHEN $intent IS NOT NULL THEN collect(DISTINCT {name: s3.name, score: r5.strength}) ELSE [] END AS intent_styles
OPTIONAL MATCH (pc:ProductCategory {name: $category})-[r6:SUITABLE_FOR]->(p)
WITH constraints, platform_styles, creative_types, audiences, audience_styles, intent_styles,
     CASE WHEN $category IS NOT NULL AND r6 IS NOT NULL THEN r6.suitability_score ELSE null END AS category_score
RETURN constraints, platform_styles, creative_types, audiences, audience_styles, intent_styles, category_score
`

// PlatformExists reports whether the platform node is present in the graph.
func PlatformExists(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, platform string) (bool, error) {
	if client == nil || client.Driver == nil {
		return false, fmt.Errorf("graph platform exists: missing client")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (p:Platform {name: $platform}) RETURN count(p) AS count`, map[string]any{
			"platform": strings.ToLower(strings.TrimSpace(platform)),
		})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		count, _ := rec.Get("count")
		return count, nil
	})
	if err != nil {
		return false, err
	}
	count, _ := out.(int64)
	return count > 0, nil
}

// PlatformStrategy runs the single batched strategy query. Returns nil when
// the platform node is absent.
func PlatformStrategy(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, q StrategyQuery) (*domain.PlatformStrategy, error) {
	if client == nil || client.Driver == nil {
		return nil, fmt.Errorf("graph platform strategy: missing client")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	params := map[string]any{
		"platform": strings.ToLower(strings.TrimSpace(q.Platform)),
		"audience": nullableLower(q.Audience),
		"intent":   nullableLower(q.Intent),
		"category": nullableLower(q.ProductCategory),
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, strategyCypher, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}

	records, _ := out.([]*neo4j.Record)
	if len(records) == 0 {
		return nil, nil
	}
	rec := records[0]

	strategy := &domain.PlatformStrategy{
		PreferredStyles:          rankedNames(recordList(rec, "platform_styles")),
		RecommendedCreativeTypes: rankedNames(recordList(rec, "creative_types")),
		TargetAudiences:          rankedNames(recordList(rec, "audiences")),
	}

	if constraints, ok := constraintsFromRecords(recordList(rec, "constraints")); ok {
		strategy.Constraints = constraints
	}

	if audienceStyles := rankedNames(recordList(rec, "audience_styles")); len(audienceStyles) > 0 {
		strategy.AudiencePreferredStyles = capStrings(audienceStyles, 5)
	}
	if intentStyles := rankedNames(recordList(rec, "intent_styles")); len(intentStyles) > 0 {
		strategy.IntentRequiredStyles = capStrings(intentStyles, 5)
	}
	if raw, ok := rec.Get("category_score"); ok && raw != nil {
		if score, ok := toFloat(raw); ok {
			strategy.CategorySuitabilityScore = &score
		}
	}

	return strategy, nil
}

// SimilarPlatforms returns platforms sharing audiences, highest overlap first.
func SimilarPlatforms(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, platform string, limit int) ([]domain.SimilarPlatform, error) {
	if client == nil || client.Driver == nil {
		return nil, fmt.Errorf("graph similar platforms: missing client")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 {
		limit = 3
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (p1:Platform {name: $platform})-[r:SHARES_AUDIENCE_WITH]->(p2:Platform)
RETURN p2.name AS platform, r.overlap_pct AS overlap
ORDER BY r.overlap_pct DESC
LIMIT $limit
`, map[string]any{
			"platform": strings.ToLower(strings.TrimSpace(platform)),
			"limit":    limit,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}

	records, _ := out.([]*neo4j.Record)
	similar := make([]domain.SimilarPlatform, 0, len(records))
	for _, rec := range records {
		name, _ := rec.Get("platform")
		nameStr, _ := name.(string)
		if strings.TrimSpace(nameStr) == "" {
			continue
		}
		overlapRaw, _ := rec.Get("overlap")
		overlap, _ := toFloat(overlapRaw)
		similar = append(similar, domain.SimilarPlatform{Platform: nameStr, Overlap: overlap})
	}
	return similar, nil
}

func nullableLower(s string) any {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	return s
}

func recordList(rec *neo4j.Record, key string) []any {
	raw, ok := rec.Get(key)
	if !ok || raw == nil {
		return nil
	}
	list, _ := raw.([]any)
	return list
}

// rankedNames extracts {name, score} entries and orders them by score
// descending, dropping entries without a name. Sort is stable so equal scores
// keep graph order.
func rankedNames(items []any) []string {
	type scored struct {
		name  string
		score float64
	}
	entries := make([]scored, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if strings.TrimSpace(name) == "" {
			continue
		}
		score, _ := toFloat(m["score"])
		entries = append(entries, scored{name: name, score: score})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.name)
	}
	return out
}

// constraintsFromRecords converts {name, value, type} rows into a ConstraintSet.
// Returns ok=false when no usable constraint rows exist, so the caller can
// substitute the default table.
func constraintsFromRecords(items []any) (domain.ConstraintSet, bool) {
	var out domain.ConstraintSet
	found := false
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if strings.TrimSpace(name) == "" {
			continue
		}
		switch name {
		case "max_length_chars":
			if v, ok := toInt(m["value"]); ok && v > 0 {
				out.MaxLengthChars = v
				found = true
			}
		case "allow_emojis":
			if v, ok := toBool(m["value"]); ok {
				out.AllowEmojis = v
				found = true
			}
		case "cta_required":
			if v, ok := toBool(m["value"]); ok {
				out.CTARequired = v
				found = true
			}
		}
	}
	if !found || out.MaxLengthChars <= 0 {
		return domain.ConstraintSet{}, false
	}
	return out, true
}

func capStrings(in []string, n int) []string {
	if len(in) <= n {
		return in
	}
	return in[:n]
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int64:
		return int(t), true
	case int:
		return t, true
	case float64:
		return int(t), true
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return parsed, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}
