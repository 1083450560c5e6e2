package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/adforge-backend/internal/platform/logger"
	"github.com/yungbote/adforge-backend/internal/platform/neo4jdb"
)

var schemaStatements = []string{
	`CREATE CONSTRAINT platform_name IF NOT EXISTS FOR (p:Platform) REQUIRE p.name IS UNIQUE`,
	`CREATE CONSTRAINT audience_name IF NOT EXISTS FOR (a:Audience) REQUIRE a.name IS UNIQUE`,
	`CREATE CONSTRAINT intent_name IF NOT EXISTS FOR (ui:UserIntent) REQUIRE ui.name IS UNIQUE`,
	`CREATE CONSTRAINT creativetype_name IF NOT EXISTS FOR (ct:CreativeType) REQUIRE ct.name IS UNIQUE`,
	`CREATE CONSTRAINT contentstyle_name IF NOT EXISTS FOR (cs:ContentStyle) REQUIRE cs.name IS UNIQUE`,
	`CREATE CONSTRAINT productcategory_name IF NOT EXISTS FOR (pc:ProductCategory) REQUIRE pc.name IS UNIQUE`,
	`CREATE CONSTRAINT constraint_name IF NOT EXISTS FOR (c:Constraint) REQUIRE c.name IS UNIQUE`,
	`CREATE INDEX platform_name_idx IF NOT EXISTS FOR (p:Platform) ON (p.name)`,
	`CREATE INDEX contentstyle_name_idx IF NOT EXISTS FOR (cs:ContentStyle) ON (cs.name)`,
}

// EnsureSchema creates uniqueness constraints and indexes best-effort; failures
// are logged and skipped (restricted users may not hold schema privileges).
func EnsureSchema(ctx context.Context, client *neo4jdb.Client, log *logger.Logger) {
	if client == nil || client.Driver == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	for _, stmt := range schemaStatements {
		if res, err := session.Run(ctx, stmt, nil); err != nil {
			if log != nil {
				log.Warn("neo4j schema init failed (continuing)", "error", err)
			}
		} else {
			_, _ = res.Consume(ctx)
		}
	}
}
