package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/adforge-backend/internal/db"
	httpX "github.com/yungbote/adforge-backend/internal/http"
	httpH "github.com/yungbote/adforge-backend/internal/http/handlers"
	"github.com/yungbote/adforge-backend/internal/modules/rewrite"
	"github.com/yungbote/adforge-backend/internal/observability"
	"github.com/yungbote/adforge-backend/internal/platform/logger"
	"github.com/yungbote/adforge-backend/internal/platform/neo4jdb"
	"github.com/yungbote/adforge-backend/internal/platform/openai"
	"github.com/yungbote/adforge-backend/internal/platform/qdrant"
	"github.com/yungbote/adforge-backend/internal/platform/redisdb"
	"github.com/yungbote/adforge-backend/internal/repos"
)

type App struct {
	Log    *logger.Logger
	DB     *gorm.DB
	Neo4j  *neo4jdb.Client
	Redis  *redisdb.Client
	Router *gin.Engine
	Cfg    Config

	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig()

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "adforge",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	var gdb *gorm.DB
	var runRepo repos.RewriteRunRepo
	if pg != nil {
		if err := pg.AutoMigrateAll(); err != nil {
			log.Sync()
			return nil, fmt.Errorf("postgres automigrate: %w", err)
		}
		gdb = pg.DB()
		runRepo = repos.NewRewriteRunRepo(gdb, log)
	}

	neo, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init neo4j: %w", err)
	}
	if neo == nil {
		log.Warn("NEO4J_URI not set, knowledge graph lookups will fail")
	}

	redis, err := redisdb.NewFromEnv(log)
	if err != nil {
		log.Warn("redis unavailable, strategy cache is in-process only", "error", err)
		redis = nil
	}

	llm, err := openai.NewClient(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init openai: %w", err)
	}

	var store qdrant.VectorStore
	if qcfg, err := qdrant.ResolveConfigFromEnv(); err != nil {
		log.Warn("qdrant not configured, rewrites run without example retrieval", "error", err)
	} else if store, err = qdrant.NewVectorStore(log, qcfg); err != nil {
		log.Warn("qdrant unavailable, rewrites run without example retrieval", "error", err)
		store = nil
	}

	svc := rewrite.NewService(rewrite.ServiceDeps{
		Log:        log,
		Strategies: &rewrite.GraphSource{Client: neo, Log: log},
		LLM:        llm,
		Store:      store,
		Redis:      redis,
	})

	routerCfg := httpX.RouterConfig{
		RewriteHandler: httpH.NewRewriteHandler(log, svc, runRepo),
		HealthHandler:  httpH.NewHealthHandler(),
	}
	if runRepo != nil {
		routerCfg.HistoryHandler = httpH.NewHistoryHandler(log, runRepo)
	}
	router := httpX.NewRouter(routerCfg)

	return &App{
		Log:          log,
		DB:           gdb,
		Neo4j:        neo,
		Redis:        redis,
		Router:       router,
		Cfg:          cfg,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx := context.Background()
	if a.otelShutdown != nil {
		_ = a.otelShutdown(ctx)
	}
	if a.Neo4j != nil {
		_ = a.Neo4j.Close(ctx)
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
