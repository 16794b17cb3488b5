package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-inspector/internal/analyzer"
	"resume-inspector/internal/report/pdf"
	"resume-inspector/internal/results"
	"resume-inspector/internal/services/health"
	"resume-inspector/internal/shared/config"
	"resume-inspector/internal/shared/server"
	"resume-inspector/internal/shared/server/middleware"
	"resume-inspector/internal/shared/storage/db"
	"resume-inspector/internal/shared/storage/object"
	localstore "resume-inspector/internal/shared/storage/object/local"
	s3store "resume-inspector/internal/shared/storage/object/s3"
	"resume-inspector/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	Analyzer        *analyzer.Client
	Reports         *pdf.Generator
	StateRepo       results.StateRepo
	ExportRepo      results.ExportRepo
	ResultsService  *results.Service
	HealthService   *health.Service
	ResultsHandler  *results.Handler
	AnalyzerHandler *analyzer.Handler
}

// Build prepares dependencies and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := BuildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Analyzer: analyzer.NewClient(cfg.AnalyzerURL),
		Reports:  pdf.NewGenerator(ReportOptions(cfg)),
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Health:          app.HealthService,
		ResultsHandler:  app.ResultsHandler,
		AnalyzerHandler: app.AnalyzerHandler,
		Limiter:         middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap.memory_state", map[string]any{"reason": "DATABASE_URL empty"})
		return nil, nil
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_state", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

// BuildStore returns the report archive, or nil when archiving is off.
func BuildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ReportStore {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("REPORT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		return nil, nil
	}
}

// ReportOptions maps configuration onto PDF generator options.
func ReportOptions(cfg config.Config) pdf.Options {
	opts := pdf.DefaultOptions()
	if cfg.ReportAttribution != "" {
		opts.Attribution = cfg.ReportAttribution
	}
	if cfg.ReportLineFactor > 0 {
		opts.LineFactor = cfg.ReportLineFactor
	}
	return opts
}

func buildServices(app *App) {
	if app.DB != nil {
		app.StateRepo = &results.PGStateRepo{DB: app.DB}
		app.ExportRepo = &results.PGExportRepo{DB: app.DB}
	} else {
		app.StateRepo = results.NewMemoryStateRepo()
		app.ExportRepo = results.NewMemoryExportRepo()
	}

	app.ResultsService = &results.Service{
		State:    app.StateRepo,
		Exports:  app.ExportRepo,
		Analyzer: app.Analyzer,
		Reports:  app.Reports,
		Store:    app.Store,
		Guard:    results.NewGuard(),
	}

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	app.HealthService = health.NewService(app.Analyzer, pinger)
	app.ResultsHandler = results.NewHandler(app.ResultsService)
	app.AnalyzerHandler = analyzer.NewHandler(app.Analyzer)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
