package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/adforge-backend/internal/platform/logger"
	"github.com/yungbote/adforge-backend/internal/platform/neo4jdb"
)

type seedNode struct {
	Name  string
	Props map[string]any
}

type seedRel struct {
	From  string
	To    string
	Score float64
}

var seedPlatforms = []seedNode{
	{Name: "instagram", Props: map[string]any{"description": "Visual-first social platform", "type": "social"}},
	{Name: "linkedin", Props: map[string]any{"description": "Professional networking platform", "type": "professional"}},
	{Name: "tiktok", Props: map[string]any{"description": "Short-form video platform", "type": "social"}},
	{Name: "facebook", Props: map[string]any{"description": "Social networking platform", "type": "social"}},
	{Name: "google", Props: map[string]any{"description": "Search and display ads", "type": "advertising"}},
	{Name: "twitter", Props: map[string]any{"description": "Real-time social platform", "type": "social"}},
	{Name: "youtube", Props: map[string]any{"description": "Video sharing platform", "type": "video"}},
	{Name: "pinterest", Props: map[string]any{"description": "Visual discovery platform", "type": "social"}},
}

var seedAudiences = []seedNode{
	{Name: "gen-z", Props: map[string]any{"age_range": "18-27", "demographics": "Digital natives, value authenticity"}},
	{Name: "millennials", Props: map[string]any{"age_range": "28-43", "demographics": "Tech-savvy, value experiences"}},
	{Name: "gen-x", Props: map[string]any{"age_range": "44-59", "demographics": "Independent, value quality"}},
	{Name: "b2b professionals", Props: map[string]any{"age_range": "25-55", "demographics": "Decision makers, value efficiency"}},
	{Name: "seniors", Props: map[string]any{"age_range": "60+", "demographics": "Traditional, value trust"}},
	{Name: "parents", Props: map[string]any{"age_range": "25-50", "demographics": "Family-focused, value safety"}},
	{Name: "students", Props: map[string]any{"age_range": "18-25", "demographics": "Budget-conscious, value deals"}},
}

var seedIntents = []seedNode{
	{Name: "awareness", Props: map[string]any{"funnel_stage": "top", "description": "Building brand awareness"}},
	{Name: "consideration", Props: map[string]any{"funnel_stage": "middle", "description": "Evaluating options"}},
	{Name: "purchase", Props: map[string]any{"funnel_stage": "bottom", "description": "Ready to buy"}},
	{Name: "retention", Props: map[string]any{"funnel_stage": "post", "description": "Keeping customers engaged"}},
	{Name: "engagement", Props: map[string]any{"funnel_stage": "any", "description": "Driving interactions"}},
}

var seedCreativeTypes = []seedNode{
	{Name: "video", Props: map[string]any{"format": "moving"}},
	{Name: "image", Props: map[string]any{"format": "static"}},
	{Name: "carousel", Props: map[string]any{"format": "interactive"}},
	{Name: "story", Props: map[string]any{"format": "ephemeral"}},
	{Name: "reel", Props: map[string]any{"format": "short-video"}},
	{Name: "text-only", Props: map[string]any{"format": "text"}},
	{Name: "poll", Props: map[string]any{"format": "interactive"}},
	{Name: "live", Props: map[string]any{"format": "real-time"}},
}

var seedContentStyles = []seedNode{
	{Name: "professional", Props: map[string]any{"tone": "formal"}},
	{Name: "casual", Props: map[string]any{"tone": "relaxed"}},
	{Name: "energetic", Props: map[string]any{"tone": "high-energy"}},
	{Name: "visual", Props: map[string]any{"tone": "aesthetic"}},
	{Name: "educational", Props: map[string]any{"tone": "informative"}},
	{Name: "conversational", Props: map[string]any{"tone": "chatty"}},
	{Name: "humorous", Props: map[string]any{"tone": "funny"}},
	{Name: "inspirational", Props: map[string]any{"tone": "uplifting"}},
	{Name: "fun", Props: map[string]any{"tone": "playful"}},
	{Name: "bold", Props: map[string]any{"tone": "confident"}},
	{Name: "neutral", Props: map[string]any{"tone": "balanced"}},
	{Name: "concise", Props: map[string]any{"tone": "brief"}},
}

var seedProductCategories = []seedNode{
	{Name: "tech", Props: map[string]any{"industry": "technology"}},
	{Name: "fashion", Props: map[string]any{"industry": "retail"}},
	{Name: "food", Props: map[string]any{"industry": "food & beverage"}},
	{Name: "services", Props: map[string]any{"industry": "services"}},
	{Name: "b2b", Props: map[string]any{"industry": "business"}},
	{Name: "healthcare", Props: map[string]any{"industry": "health"}},
	{Name: "education", Props: map[string]any{"industry": "education"}},
	{Name: "finance", Props: map[string]any{"industry": "financial"}},
}

// Platforms with explicit constraint records; the rest fall back to the
// default table in the rewrite service.
var seedConstraints = []map[string]any{
	{"platform": "instagram", "name": "max_length_chars", "type": "integer", "value": 2200},
	{"platform": "instagram", "name": "allow_emojis", "type": "boolean", "value": true},
	{"platform": "instagram", "name": "cta_required", "type": "boolean", "value": false},
	{"platform": "linkedin", "name": "max_length_chars", "type": "integer", "value": 1300},
	{"platform": "linkedin", "name": "allow_emojis", "type": "boolean", "value": false},
	{"platform": "linkedin", "name": "cta_required", "type": "boolean", "value": true},
	{"platform": "facebook", "name": "max_length_chars", "type": "integer", "value": 2000},
	{"platform": "facebook", "name": "allow_emojis", "type": "boolean", "value": true},
	{"platform": "facebook", "name": "cta_required", "type": "boolean", "value": true},
	{"platform": "google", "name": "max_length_chars", "type": "integer", "value": 150},
	{"platform": "google", "name": "allow_emojis", "type": "boolean", "value": false},
	{"platform": "google", "name": "cta_required", "type": "boolean", "value": true},
	{"platform": "tiktok", "name": "max_length_chars", "type": "integer", "value": 2200},
	{"platform": "tiktok", "name": "allow_emojis", "type": "boolean", "value": true},
	{"platform": "tiktok", "name": "cta_required", "type": "boolean", "value": false},
}

var seedTargets = []seedRel{
	{"instagram", "gen-z", 0.85}, {"instagram", "millennials", 0.80}, {"instagram", "gen-x", 0.40},
	{"instagram", "parents", 0.50}, {"instagram", "students", 0.70},
	{"linkedin", "b2b professionals", 0.95}, {"linkedin", "millennials", 0.60}, {"linkedin", "gen-x", 0.70},
	{"tiktok", "gen-z", 0.90}, {"tiktok", "millennials", 0.65}, {"tiktok", "students", 0.75},
	{"facebook", "millennials", 0.75}, {"facebook", "gen-x", 0.80}, {"facebook", "seniors", 0.70}, {"facebook", "parents", 0.85},
	{"google", "millennials", 0.70}, {"google", "gen-x", 0.75}, {"google", "b2b professionals", 0.80}, {"google", "parents", 0.70},
	{"twitter", "b2b professionals", 0.70}, {"twitter", "gen-z", 0.65}, {"twitter", "millennials", 0.75},
	{"youtube", "gen-z", 0.80}, {"youtube", "millennials", 0.85}, {"youtube", "gen-x", 0.75}, {"youtube", "parents", 0.70},
	{"pinterest", "millennials", 0.80}, {"pinterest", "gen-x", 0.70}, {"pinterest", "parents", 0.85},
}

var seedSupports = []seedRel{
	{"instagram", "image", 0.95}, {"instagram", "carousel", 0.90}, {"instagram", "story", 0.85},
	{"instagram", "reel", 0.90}, {"instagram", "video", 0.75}, {"instagram", "poll", 0.60},
	{"linkedin", "image", 0.80}, {"linkedin", "video", 0.85}, {"linkedin", "text-only", 0.90}, {"linkedin", "carousel", 0.70},
	{"tiktok", "video", 0.98}, {"tiktok", "reel", 0.95}, {"tiktok", "live", 0.70},
	{"facebook", "image", 0.90}, {"facebook", "video", 0.85}, {"facebook", "carousel", 0.80},
	{"facebook", "text-only", 0.75}, {"facebook", "live", 0.70},
	{"google", "text-only", 0.95}, {"google", "image", 0.80}, {"google", "video", 0.70},
	{"twitter", "text-only", 0.90}, {"twitter", "image", 0.85}, {"twitter", "video", 0.70}, {"twitter", "poll", 0.75},
	{"youtube", "video", 0.98}, {"youtube", "live", 0.85},
	{"pinterest", "image", 0.95}, {"pinterest", "carousel", 0.90}, {"pinterest", "video", 0.60},
}

var seedPlatformStyles = []seedRel{
	{"instagram", "visual", 0.95}, {"instagram", "fun", 0.90}, {"instagram", "energetic", 0.85},
	{"instagram", "casual", 0.80}, {"instagram", "inspirational", 0.75},
	{"linkedin", "professional", 0.95}, {"linkedin", "educational", 0.85}, {"linkedin", "neutral", 0.80},
	{"linkedin", "conversational", 0.70},
	{"tiktok", "energetic", 0.95}, {"tiktok", "fun", 0.90}, {"tiktok", "humorous", 0.85}, {"tiktok", "casual", 0.80},
	{"facebook", "conversational", 0.90}, {"facebook", "casual", 0.80}, {"facebook", "inspirational", 0.75},
	{"google", "concise", 0.95}, {"google", "neutral", 0.90}, {"google", "professional", 0.75},
	{"twitter", "conversational", 0.85}, {"twitter", "bold", 0.80}, {"twitter", "professional", 0.75}, {"twitter", "humorous", 0.70},
	{"youtube", "educational", 0.90}, {"youtube", "professional", 0.85}, {"youtube", "conversational", 0.80},
	{"pinterest", "visual", 0.95}, {"pinterest", "inspirational", 0.90}, {"pinterest", "casual", 0.80},
}

var seedAudienceStyles = []seedRel{
	{"gen-z", "energetic", 0.90}, {"gen-z", "fun", 0.85}, {"gen-z", "humorous", 0.80},
	{"gen-z", "visual", 0.85}, {"gen-z", "casual", 0.75},
	{"millennials", "conversational", 0.85}, {"millennials", "casual", 0.80},
	{"millennials", "visual", 0.75}, {"millennials", "inspirational", 0.70},
	{"gen-x", "professional", 0.80}, {"gen-x", "conversational", 0.75},
	{"gen-x", "educational", 0.70}, {"gen-x", "neutral", 0.75},
	{"b2b professionals", "professional", 0.95}, {"b2b professionals", "educational", 0.85},
	{"b2b professionals", "neutral", 0.80}, {"b2b professionals", "conversational", 0.70},
	{"seniors", "professional", 0.85}, {"seniors", "neutral", 0.80}, {"seniors", "conversational", 0.75},
	{"parents", "conversational", 0.85}, {"parents", "inspirational", 0.80},
	{"parents", "professional", 0.75}, {"parents", "casual", 0.70},
	{"students", "fun", 0.85}, {"students", "casual", 0.80},
	{"students", "energetic", 0.75}, {"students", "humorous", 0.70},
}

var seedIntentStyles = []seedRel{
	{"awareness", "visual", 0.90}, {"awareness", "energetic", 0.85}, {"awareness", "fun", 0.80},
	{"awareness", "inspirational", 0.75},
	{"consideration", "educational", 0.90}, {"consideration", "professional", 0.85}, {"consideration", "conversational", 0.80},
	{"purchase", "concise", 0.90}, {"purchase", "professional", 0.85}, {"purchase", "bold", 0.80}, {"purchase", "neutral", 0.75},
	{"retention", "conversational", 0.85}, {"retention", "inspirational", 0.80}, {"retention", "fun", 0.75},
	{"engagement", "fun", 0.90}, {"engagement", "humorous", 0.85}, {"engagement", "energetic", 0.80},
	{"engagement", "conversational", 0.75},
}

var seedSharesAudience = []seedRel{
	{"instagram", "tiktok", 0.75},
	{"linkedin", "twitter", 0.65},
	{"facebook", "instagram", 0.60}, {"facebook", "youtube", 0.55},
	{"youtube", "instagram", 0.65}, {"youtube", "tiktok", 0.60},
	{"pinterest", "instagram", 0.70},
}

var seedCategorySuitability = []seedRel{
	{"tech", "linkedin", 0.90}, {"tech", "twitter", 0.85}, {"tech", "youtube", 0.80}, {"tech", "google", 0.95},
	{"fashion", "instagram", 0.95}, {"fashion", "pinterest", 0.90}, {"fashion", "tiktok", 0.85}, {"fashion", "facebook", 0.75},
	{"food", "instagram", 0.90}, {"food", "facebook", 0.85}, {"food", "tiktok", 0.80}, {"food", "pinterest", 0.75},
	{"services", "linkedin", 0.85}, {"services", "google", 0.90}, {"services", "facebook", 0.80},
	{"b2b", "linkedin", 0.95}, {"b2b", "twitter", 0.85}, {"b2b", "google", 0.90},
	{"healthcare", "facebook", 0.85}, {"healthcare", "google", 0.90}, {"healthcare", "linkedin", 0.75},
	{"education", "youtube", 0.95}, {"education", "linkedin", 0.85}, {"education", "facebook", 0.80},
	{"finance", "linkedin", 0.90}, {"finance", "google", 0.95}, {"finance", "facebook", 0.75},
}

// SeedGraph upserts the full ad knowledge graph: nodes, constraints, and the
// relationship tables. Idempotent (MERGE throughout).
func SeedGraph(ctx context.Context, client *neo4jdb.Client, log *logger.Logger) error {
	if client == nil || client.Driver == nil {
		return fmt.Errorf("graph seed: missing client")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		nodeBatches := []struct {
			label string
			nodes []seedNode
		}{
			{"Platform", seedPlatforms},
			{"Audience", seedAudiences},
			{"UserIntent", seedIntents},
			{"CreativeType", seedCreativeTypes},
			{"ContentStyle", seedContentStyles},
			{"ProductCategory", seedProductCategories},
		}
		for _, batch := range nodeBatches {
			if err := upsertNodes(ctx, tx, batch.label, batch.nodes); err != nil {
				return nil, fmt.Errorf("seed %s nodes: %w", batch.label, err)
			}
		}

		if err := runBatch(ctx, tx, `
UNWIND $rows AS row
MERGE (c:Constraint {name: row.name})
SET c.type = row.type
WITH c, row
MATCH (p:Platform {name: row.platform})
MERGE (p)-[r:HAS_CONSTRAINT]->(c)
SET r.value = row.value
`, seedConstraints); err != nil {
			return nil, fmt.Errorf("seed constraints: %w", err)
		}

		relBatches := []struct {
			name   string
			cypher string
			rows   []seedRel
			mirror bool
		}{
			{"targets", `
UNWIND $rows AS row
MATCH (p:Platform {name: row.from})
MATCH (a:Audience {name: row.to})
MERGE (p)-[r:TARGETS]->(a)
SET r.weight = row.score
`, seedTargets, false},
			{"supports", `
UNWIND $rows AS row
MATCH (p:Platform {name: row.from})
MATCH (ct:CreativeType {name: row.to})
MERGE (p)-[r:SUPPORTS]->(ct)
SET r.score = row.score
`, seedSupports, false},
			{"platform_styles", `
UNWIND $rows AS row
MATCH (p:Platform {name: row.from})
MATCH (cs:ContentStyle {name: row.to})
MERGE (p)-[r:PREFERS_STYLE]->(cs)
SET r.score = row.score
`, seedPlatformStyles, false},
			{"audience_styles", `
UNWIND $rows AS row
MATCH (a:Audience {name: row.from})
MATCH (cs:ContentStyle {name: row.to})
MERGE (a)-[r:PREFERS_STYLE]->(cs)
SET r.preference_score = row.score
`, seedAudienceStyles, false},
			{"intent_styles", `
UNWIND $rows AS row
MATCH (ui:UserIntent {name: row.from})
MATCH (cs:ContentStyle {name: row.to})
MERGE (ui)-[r:REQUIRES_STYLE]->(cs)
SET r.strength = row.score
`, seedIntentStyles, false},
			{"shares_audience", `
UNWIND $rows AS row
MATCH (p1:Platform {name: row.from})
MATCH (p2:Platform {name: row.to})
MERGE (p1)-[r:SHARES_AUDIENCE_WITH]->(p2)
SET r.overlap_pct = row.score
`, seedSharesAudience, true},
			{"category_suitability", `
UNWIND $rows AS row
MATCH (pc:ProductCategory {name: row.from})
MATCH (p:Platform {name: row.to})
MERGE (pc)-[r:SUITABLE_FOR]->(p)
SET r.suitability_score = row.score
`, seedCategorySuitability, false},
		}
		for _, batch := range relBatches {
			rows := relRows(batch.rows, batch.mirror)
			if err := runBatch(ctx, tx, batch.cypher, rows); err != nil {
				return nil, fmt.Errorf("seed %s: %w", batch.name, err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	if log != nil {
		log.Info("knowledge graph seeded",
			"platforms", len(seedPlatforms),
			"audiences", len(seedAudiences),
			"intents", len(seedIntents),
			"styles", len(seedContentStyles),
			"categories", len(seedProductCategories),
		)
	}
	return nil
}

func upsertNodes(ctx context.Context, tx neo4j.ManagedTransaction, label string, nodes []seedNode) error {
	rows := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		row := map[string]any{"name": n.Name}
		for k, v := range n.Props {
			row[k] = v
		}
		rows = append(rows, map[string]any{"name": n.Name, "props": row})
	}
	cypher := fmt.Sprintf(`
UNWIND $rows AS row
MERGE (n:%s {name: row.name})
SET n += row.props
`, label)
	return runBatch(ctx, tx, cypher, rows)
}

func runBatch[T any](ctx context.Context, tx neo4j.ManagedTransaction, cypher string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	anyRows := make([]any, 0, len(rows))
	for _, r := range rows {
		anyRows = append(anyRows, r)
	}
	res, err := tx.Run(ctx, cypher, map[string]any{"rows": anyRows})
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

func relRows(rels []seedRel, mirror bool) []map[string]any {
	rows := make([]map[string]any, 0, len(rels)*2)
	for _, r := range rels {
		rows = append(rows, map[string]any{"from": r.From, "to": r.To, "score": r.Score})
		if mirror {
			rows = append(rows, map[string]any{"from": r.To, "to": r.From, "score": r.Score})
		}
	}
	return rows
}
