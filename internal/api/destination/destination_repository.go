package destination

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-travel-recommender/internal/recommend"
	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

var _ recommend.DataProvider = (*PostgresRepository)(nil)

// Querier is the subset of *pgxpool.Pool the repository needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresRepository struct {
	logger *slog.Logger
	db     Querier
}

func NewPostgresRepository(db Querier, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		db:     db,
	}
}

const selectDestinations = `
	SELECT id, name, country, destination_type, activities, climate, budget_level, popularity_score
	FROM destinations
	ORDER BY id`

// Undated visits come back as the zero time.
const selectVisits = `
	SELECT user_id, destination_id, rating, COALESCE(visit_date, DATE '0001-01-01')
	FROM user_visits
	ORDER BY user_id, visit_date NULLS FIRST`

func (r *PostgresRepository) LoadCatalog(ctx context.Context) ([]types.Destination, error) {
	ctx, span := otel.Tracer("DestinationRepository").Start(ctx, "LoadCatalog")
	defer span.End()

	rows, err := r.db.Query(ctx, selectDestinations)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to query destinations: %w", err)
	}
	defer rows.Close()

	var catalog []types.Destination
	for rows.Next() {
		var d types.Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.Country, &d.Type, &d.Activities, &d.Climate, &d.BudgetLevel, &d.PopularityScore); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan destination row: %w", err)
		}
		d.Activities = normalizeActivities(d.Activities)
		if err := validateDestination(d); err != nil {
			r.logger.WarnContext(ctx, "Rejected destination row", slog.Int64("destination_id", d.ID), slog.Any("error", err))
			return nil, err
		}
		catalog = append(catalog, d)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating destination rows: %w", err)
	}

	span.SetAttributes(attribute.Int("destinations.count", len(catalog)))
	span.SetStatus(codes.Ok, "catalog loaded")
	r.logger.DebugContext(ctx, "Loaded destinations from postgres", slog.Int("count", len(catalog)))
	return catalog, nil
}

func (r *PostgresRepository) LoadHistory(ctx context.Context) ([]types.Visit, error) {
	ctx, span := otel.Tracer("DestinationRepository").Start(ctx, "LoadHistory")
	defer span.End()

	rows, err := r.db.Query(ctx, selectVisits)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to query user visits: %w", err)
	}
	defer rows.Close()

	var history []types.Visit
	for rows.Next() {
		var v types.Visit
		if err := rows.Scan(&v.UserID, &v.DestinationID, &v.Rating, &v.VisitDate); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan visit row: %w", err)
		}
		if err := validateVisit(v); err != nil {
			return nil, err
		}
		history = append(history, v)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating visit rows: %w", err)
	}

	span.SetAttributes(attribute.Int("visits.count", len(history)))
	span.SetStatus(codes.Ok, "history loaded")
	r.logger.DebugContext(ctx, "Loaded visits from postgres", slog.Int("count", len(history)))
	return history, nil
}
