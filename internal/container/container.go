package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/patrickmn/go-cache"

	database "github.com/FACorreiaa/go-travel-recommender/app/db"
	"github.com/FACorreiaa/go-travel-recommender/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-recommender/config"
	"github.com/FACorreiaa/go-travel-recommender/internal/api/destination"
	"github.com/FACorreiaa/go-travel-recommender/internal/recommend"
)

// Container holds all application dependencies
type Container struct {
	Config             *config.Config
	Logger             *slog.Logger
	Pool               *pgxpool.Pool
	Engine             *recommend.Engine
	DestinationService destination.Service
	DestinationHandler *destination.DestinationHandler
}

// NewContainer wires the data provider selected by dataset.source into the
// recommendation engine, service and handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	var provider recommend.DataProvider
	switch cfg.Dataset.Source {
	case config.SourcePostgres:
		pool, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		c.Pool = pool
		provider = destination.NewPostgresRepository(pool, logger)
	case config.SourceCSV:
		provider = destination.NewCSVRepository(cfg.Dataset.DestinationsPath, cfg.Dataset.HistoryPath, logger)
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
	}
	logger.Info("Dataset provider selected", slog.String("source", cfg.Dataset.Source))

	metrics.InitAppMetrics()
	c.Engine = recommend.NewEngine(provider, logger)
	resultCache := cache.New(cfg.Recommender.CacheTTL, cfg.Recommender.CacheCleanup)
	c.DestinationService = destination.NewServiceImpl(c.Engine, resultCache, metrics.Get(), logger)
	c.DestinationHandler = destination.NewDestinationHandler(c.DestinationService, destination.Limits{
		DefaultCount:        cfg.Recommender.DefaultCount,
		DefaultSimilarCount: cfg.Recommender.DefaultSimilarCount,
		MaxCount:            cfg.Recommender.MaxCount,
	}, logger)
	return c, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		return nil, err
	}
	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		return nil, err
	}
	if !database.WaitForDB(ctx, pool, logger) {
		pool.Close()
		return nil, fmt.Errorf("database not ready")
	}
	return pool, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
