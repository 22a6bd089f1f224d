package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/refset/refset/internal/config"
	"github.com/refset/refset/internal/domain/audit"
	"github.com/refset/refset/internal/domain/edition"
	"github.com/refset/refset/internal/domain/mapping"
	"github.com/refset/refset/internal/domain/mapuser"
	"github.com/refset/refset/internal/domain/project"
	"github.com/refset/refset/internal/domain/refset"
	"github.com/refset/refset/internal/platform/db"
	"github.com/refset/refset/internal/platform/middleware"
	"github.com/refset/refset/internal/platform/search"
	"github.com/refset/refset/internal/platform/telemetry"
)

// app holds the wired services shared by serve and reindex.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	pool    *pgxpool.Pool
	index   *search.Index
	metrics *telemetry.Metrics

	registry *prometheus.Registry

	editions *edition.Service
	projects *project.Service
	users    *mapuser.Service
	refsets  *refset.Service
	mappings *mapping.Service
	audit    *audit.Service
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info().Msg("connected to database")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.New(reg, reg)
	telemetry.RegisterPool(reg, pool)

	projectRepo := project.NewRepoPG(pool)
	userRepo := mapuser.NewRepoPG(pool)
	refsetRepo := refset.NewRepoPG(pool)
	mappingRepo := mapping.NewRepoPG(pool)

	projectEntity := project.NewEntity(projectRepo)
	userEntity := mapuser.NewEntity(userRepo)
	refsetEntity := refset.NewEntity(refsetRepo)
	mappingEntity := mapping.NewEntity(mappingRepo)

	idx, err := search.OpenIndex(cfg.IndexPath, projectEntity, userEntity, refsetEntity, mappingEntity)
	if err != nil {
		pool.Close()
		return nil, err
	}

	kinds, err := cfg.Handlers()
	if err != nil {
		_ = idx.Close()
		pool.Close()
		return nil, err
	}
	searchRegistry, err := search.NewRegistry(buildHandlers(kinds, idx, pool))
	if err != nil {
		_ = idx.Close()
		pool.Close()
		return nil, err
	}
	searchSvc := search.NewService(searchRegistry, logger,
		search.WithTimeout(cfg.SearchTimeout),
		search.WithObserver(metrics),
		search.WithStrictSort(cfg.SearchStrictSort),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		index:    idx,
		metrics:  metrics,
		registry: reg,
		editions: edition.NewService(edition.NewRepoPG(pool), searchSvc),
		projects: project.NewService(projectRepo,
			search.NewFinder(searchSvc, projectEntity),
			search.NewSync(search.NewIndexer(idx, projectEntity), logger, metrics)),
		users: mapuser.NewService(userRepo,
			search.NewFinder(searchSvc, userEntity),
			search.NewSync(search.NewIndexer(idx, userEntity), logger, metrics)),
		refsets: refset.NewService(refsetRepo,
			search.NewFinder(searchSvc, refsetEntity),
			search.NewSync(search.NewIndexer(idx, refsetEntity), logger, metrics)),
		mappings: mapping.NewService(mappingRepo,
			search.NewFinder(searchSvc, mappingEntity),
			search.NewSync(search.NewIndexer(idx, mappingEntity), logger, metrics)),
		audit: audit.NewService(audit.NewRepoPG(pool), searchSvc),
	}, nil
}

// buildHandlers instantiates one search handler per configured name.
func buildHandlers(kinds map[string]string, idx *search.Index, conn db.Querier) map[string]search.Handler {
	handlers := make(map[string]search.Handler, len(kinds))
	for name, kind := range kinds {
		switch kind {
		case config.HandlerBleve:
			handlers[name] = search.NewBleveHandler(idx)
		case config.HandlerPostgres:
			handlers[name] = search.NewPostgresHandler(conn)
		}
	}
	return handlers
}

// Reindex writes every stored searchable entity to the index.
func (a *app) Reindex(ctx context.Context) (int, error) {
	var result *multierror.Error
	total := 0
	for _, step := range []struct {
		name string
		run  func(context.Context) (int, error)
	}{
		{project.EntityName, a.projects.Reindex},
		{mapuser.EntityName, a.users.Reindex},
		{refset.EntityName, a.refsets.Reindex},
		{mapping.EntityName, a.mappings.Reindex},
	} {
		n, err := step.run(ctx)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("reindex %s: %w", step.name, err))
			continue
		}
		a.logger.Info().Str("entity", step.name).Int("count", n).Msg("reindexed")
		total += n
	}
	return total, result.ErrorOrNil()
}

func (a *app) Close() {
	if err := a.index.Close(); err != nil {
		a.logger.Error().Err(err).Msg("close index")
	}
	a.pool.Close()
}

func (a *app) indexCheck() db.Check {
	return db.Check{
		Name: "index",
		Probe: func(ctx context.Context) (any, error) {
			n, err := a.index.DocCount()
			return map[string]any{"documents": n, "path": a.cfg.IndexPath}, err
		},
	}
}

func (a *app) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(a.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(a.logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: a.cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))
	e.Use(middleware.RequestTimeout(a.cfg.RequestTimeout))
	e.Use(a.metrics.Middleware())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(db.PoolCheck(a.pool), a.indexCheck()))
	e.GET("/metrics", a.metrics.Handler())

	apiV1 := e.Group("/api/v1", middleware.Audit(a.logger, a.audit))
	edition.NewHandler(a.editions).RegisterRoutes(apiV1)
	project.NewHandler(a.projects).RegisterRoutes(apiV1)
	mapuser.NewHandler(a.users).RegisterRoutes(apiV1)
	refset.NewHandler(a.refsets).RegisterRoutes(apiV1)
	mapping.NewHandler(a.mappings).RegisterRoutes(apiV1)
	audit.NewHandler(a.audit).RegisterRoutes(apiV1)

	return e
}

func runServer() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to start")
		return err
	}
	defer a.Close()

	docs, err := a.index.DocCount()
	if err != nil {
		return fmt.Errorf("count index documents: %w", err)
	}
	if cfg.IndexPath == "" || docs == 0 {
		n, err := a.Reindex(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("initial reindex incomplete")
		}
		logger.Info().Int("documents", n).Msg("search index built")
	}

	e := a.routes()

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
