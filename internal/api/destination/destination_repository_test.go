package destination

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

var (
	destinationRowColumns = []string{"id", "name", "country", "destination_type", "activities", "climate", "budget_level", "popularity_score"}
	visitRowColumns       = []string{"user_id", "destination_id", "rating", "visit_date"}
)

func setupRepositoryTest(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewPostgresRepository(mockPool, slog.New(slog.NewTextHandler(io.Discard, nil))), mockPool
}

func TestPostgresRepository_LoadCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		rows := pgxmock.NewRows(destinationRowColumns).
			AddRow(int64(1), "Goa", "India", "Beach", []string{"Swimming", " Nightlife", "Swimming"}, "Tropical", 3, 9.1).
			AddRow(int64(2), "Manali", "India", "Mountain", []string{"Trekking"}, "Cold", 2, 8.2)
		mockPool.ExpectQuery("FROM destinations").WillReturnRows(rows)

		catalog, err := repo.LoadCatalog(ctx)
		require.NoError(t, err)
		require.Len(t, catalog, 2)
		assert.Equal(t, types.Destination{
			ID: 1, Name: "Goa", Country: "India", Type: "Beach",
			Activities: []string{"Swimming", "Nightlife"}, Climate: "Tropical",
			BudgetLevel: 3, PopularityScore: 9.1,
		}, catalog[0])
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		mockPool.ExpectQuery("FROM destinations").WillReturnError(errors.New("connection refused"))

		_, err := repo.LoadCatalog(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query destinations")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("invalid row", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		rows := pgxmock.NewRows(destinationRowColumns).
			AddRow(int64(1), "Goa", "India", "Beach", []string{"Swimming"}, "Tropical", 9, 9.1)
		mockPool.ExpectQuery("FROM destinations").WillReturnRows(rows)

		_, err := repo.LoadCatalog(ctx)
		assert.ErrorIs(t, err, types.ErrInvalidRecord)
	})

	t.Run("row error", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		rows := pgxmock.NewRows(destinationRowColumns).
			AddRow(int64(1), "Goa", "India", "Beach", []string{"Swimming"}, "Tropical", 3, 9.1).
			RowError(0, errors.New("network reset"))
		mockPool.ExpectQuery("FROM destinations").WillReturnRows(rows)

		_, err := repo.LoadCatalog(ctx)
		require.Error(t, err)
	})
}

func TestPostgresRepository_LoadHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		rows := pgxmock.NewRows(visitRowColumns).
			AddRow(int64(1), int64(2), 4.0, date("2023-02-01")).
			AddRow(int64(1), int64(1), 5.0, date("2023-05-20"))
		mockPool.ExpectQuery("FROM user_visits").WillReturnRows(rows)

		history, err := repo.LoadHistory(ctx)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, types.Visit{UserID: 1, DestinationID: 2, Rating: 4, VisitDate: date("2023-02-01")}, history[0])
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("rating out of range", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		rows := pgxmock.NewRows(visitRowColumns).
			AddRow(int64(1), int64(2), 0.0, date("2023-02-01"))
		mockPool.ExpectQuery("FROM user_visits").WillReturnRows(rows)

		_, err := repo.LoadHistory(ctx)
		assert.ErrorIs(t, err, types.ErrInvalidRecord)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		mockPool.ExpectQuery("FROM user_visits").WillReturnError(errors.New("timeout"))

		_, err := repo.LoadHistory(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query user visits")
	})
}
