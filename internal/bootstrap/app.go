package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"dota-coach-backend/internal/advice"
	"dota-coach-backend/internal/audit"
	"dota-coach-backend/internal/catalog"
	"dota-coach-backend/internal/llm"
	openai "dota-coach-backend/internal/llm/openai"
	"dota-coach-backend/internal/services/health"
	"dota-coach-backend/internal/shared/config"
	"dota-coach-backend/internal/shared/server"
	"dota-coach-backend/internal/shared/storage/db"
	"dota-coach-backend/internal/shared/tracing"
	"dota-coach-backend/internal/tickextract"
)

// App holds shared dependencies. Everything here is built once and read-only afterwards.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	Tracing     *tracing.Provider
	Catalog     *catalog.Catalog
	LLM         llm.Invoker
	AuditRepo   audit.Repo
	AdviceSvc   *advice.Service
	Extractor   *tickextract.Extractor
	HealthSvc   *health.Service
	AuditSource string
}

// Build prepares dependencies and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	tp, err := tracing.Init(ctx, tracing.Config{
		Enabled:     cfg.TracingEnabled,
		Endpoint:    cfg.TracingEndpoint,
		Environment: cfg.Env,
	})
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.ItemCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load item catalog: %w", err)
	}
	log.Printf("bootstrap: item catalog loaded with %d items", cat.Len())

	invoker, err := buildInvoker(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	repo, source := buildAuditRepo(cfg, sqlDB)
	log.Printf("bootstrap: recommendation audit backend=%s", source)

	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		Tracing:     tp,
		Catalog:     cat,
		LLM:         invoker,
		AuditRepo:   repo,
		AuditSource: source,
	}
	app.AdviceSvc = &advice.Service{
		LLM:          invoker,
		Catalog:      cat,
		Budget:       cfg.StartingBudget,
		DefaultPatch: cfg.CurrentPatch,
		Audit:        audit.NewRecorder(repo),
	}
	app.Extractor = &tickextract.Extractor{LLM: invoker}

	var pinger health.Pinger
	if sqlDB != nil {
		pinger = sqlDB
	}
	app.HealthSvc = health.NewService(pinger, cat.Len(), cfg.LLMProvider)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:      cfg,
		Advice:      advice.NewHandler(app.AdviceSvc),
		TickExtract: tickextract.NewHandler(app.Extractor, cfg.MaxImageBytes),
		Audit:       audit.NewHandler(repo),
		Health:      app.HealthSvc,
	})
	return app, nil
}

// Close flushes spans and releases the database pool.
func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if err := a.Tracing.Shutdown(ctx); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
	if a.DB != nil && !db.IsLambdaRuntime() {
		if err := a.DB.Close(); err != nil {
			log.Printf("db close: %v", err)
		}
	}
}

func buildInvoker(cfg config.Config) (llm.Invoker, error) {
	if cfg.LLMProvider == "placeholder" {
		log.Printf("bootstrap: LLM_PROVIDER=placeholder; model calls will fail")
		return llm.PlaceholderInvoker{}, nil
	}
	client, err := openai.NewClient(openai.Config{
		APIKey:          cfg.OpenAIAPIKey,
		BaseURL:         cfg.OpenAIBaseURL,
		Model:           cfg.LLMModel,
		ReasoningEffort: cfg.LLMReasoningEffort,
		Timeout:         cfg.OpenAITimeout,
	})
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: openai client unavailable, using placeholder: %v", err)
			return llm.PlaceholderInvoker{}, nil
		}
		return nil, err
	}
	log.Printf("bootstrap: openai model=%s", client.Model())
	return client, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, nil
	}
	var (
		sqlDB *sql.DB
		err   error
	)
	opts := db.RuntimeOptions().WithEnv()
	if db.IsLambdaRuntime() {
		sqlDB, err = db.Shared(ctx, cfg.DatabaseURL, opts)
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; auditing in memory: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if config.IsDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			log.Printf("bootstrap: migrations failed; auditing in memory: %v", err)
			sqlDB.Close()
			return nil, nil
		}
	}
	return sqlDB, nil
}

// buildAuditRepo keeps request context only where an operator asked for it:
// Postgres when DATABASE_URL is set, the memory ring with AUDIT_MEMORY in dev.
func buildAuditRepo(cfg config.Config, sqlDB *sql.DB) (audit.Repo, string) {
	switch {
	case sqlDB != nil:
		return &audit.PGRepo{DB: sqlDB}, "postgres"
	case cfg.AuditMemory && config.IsDevLike(cfg.Env):
		return audit.NewMemoryRepo(0), "memory"
	default:
		return audit.NopRepo{}, "none"
	}
}
