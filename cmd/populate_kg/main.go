// Command populate_kg seeds the Neo4j knowledge graph with platforms,
// audiences, intents, styles, constraints, and their relationships.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/adforge-backend/internal/data/graph"
	"github.com/yungbote/adforge-backend/internal/platform/logger"
	"github.com/yungbote/adforge-backend/internal/platform/neo4jdb"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	client, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Fatal("neo4j connection failed", "error", err)
	}
	if client == nil {
		log.Fatal("NEO4J_URI is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	defer client.Close(ctx)

	graph.EnsureSchema(ctx, client, log)
	if err := graph.SeedGraph(ctx, client, log); err != nil {
		log.Fatal("seed failed", "error", err)
	}
	log.Info("knowledge graph populated")
}
