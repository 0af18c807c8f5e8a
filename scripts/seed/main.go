// Command seed loads the CSV dataset into Postgres, replacing what is there.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	database "github.com/FACorreiaa/go-travel-recommender/app/db"
	appLogger "github.com/FACorreiaa/go-travel-recommender/app/logger"
	"github.com/FACorreiaa/go-travel-recommender/config"
	"github.com/FACorreiaa/go-travel-recommender/internal/api/destination"
	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}
	destinationsPath := flag.String("destinations", cfg.Dataset.DestinationsPath, "destinations CSV")
	historyPath := flag.String("history", cfg.Dataset.HistoryPath, "user history CSV")
	flag.Parse()

	logger := appLogger.New(cfg.Mode, os.Stderr)
	if err := run(context.Background(), &cfg, *destinationsPath, *historyPath, logger); err != nil {
		logger.Error("Seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, destinationsPath, historyPath string, logger *slog.Logger) error {
	repo := destination.NewCSVRepository(destinationsPath, historyPath, logger)
	catalog, err := repo.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	history, err := repo.LoadHistory(ctx)
	if err != nil {
		return err
	}

	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		return err
	}
	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "TRUNCATE user_visits, destinations"); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"destinations"},
		[]string{"id", "name", "country", "destination_type", "activities", "climate", "budget_level", "popularity_score"},
		pgx.CopyFromSlice(len(catalog), func(i int) ([]any, error) {
			d := catalog[i]
			return []any{d.ID, d.Name, d.Country, d.Type, d.Activities, d.Climate, int16(d.BudgetLevel), d.PopularityScore}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy destinations: %w", err)
	}
	logger.Info("Copied destinations", slog.Int64("rows", n))

	n, err = tx.CopyFrom(ctx,
		pgx.Identifier{"user_visits"},
		[]string{"user_id", "destination_id", "rating", "visit_date"},
		pgx.CopyFromSlice(len(history), func(i int) ([]any, error) {
			return visitRow(history[i]), nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy user visits: %w", err)
	}
	logger.Info("Copied user visits", slog.Int64("rows", n))

	return tx.Commit(ctx)
}

func visitRow(v types.Visit) []any {
	var visitDate any
	if !v.VisitDate.IsZero() {
		visitDate = v.VisitDate
	}
	return []any{v.UserID, v.DestinationID, v.Rating, visitDate}
}
