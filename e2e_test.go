package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"

	appLogger "github.com/FACorreiaa/go-travel-recommender/app/logger"
	"github.com/FACorreiaa/go-travel-recommender/config"
	"github.com/FACorreiaa/go-travel-recommender/internal/container"
	"github.com/FACorreiaa/go-travel-recommender/internal/router"
	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

// E2ETestSuite drives the full HTTP stack over the bundled CSV dataset.
type E2ETestSuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	container *container.Container
}

func (s *E2ETestSuite) SetupSuite() {
	var cfg config.Config
	cfg.Dataset.Source = config.SourceCSV
	cfg.Dataset.DestinationsPath = "data/destinations.csv"
	cfg.Dataset.HistoryPath = "data/user_history.csv"
	cfg.Recommender.DefaultCount = 5
	cfg.Recommender.DefaultSimilarCount = 3
	cfg.Recommender.MaxCount = 50
	cfg.Recommender.CacheTTL = time.Minute
	cfg.Recommender.CacheCleanup = time.Minute
	s.Require().NoError(cfg.Validate())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := container.NewContainer(context.Background(), &cfg, logger)
	s.Require().NoError(err)
	s.Require().NoError(c.DestinationService.Warmup(context.Background()))
	s.container = c

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(appLogger.StructuredLogger(logger))
	r.Use(middleware.StripSlashes)
	r.Mount("/", router.SetupRouter(&router.Config{DestinationHandler: c.DestinationHandler}))

	s.server = httptest.NewServer(r)
	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *E2ETestSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.container != nil {
		s.container.Close()
	}
}

func (s *E2ETestSuite) get(path string, out any) int {
	resp, err := s.client.Get(s.server.URL + path)
	s.Require().NoError(err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *E2ETestSuite) TestPing() {
	resp, err := s.client.Get(s.server.URL + "/ping")
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("pong", string(body))
}

func (s *E2ETestSuite) TestRecommendationsForBeachLover() {
	var recs []types.Recommendation
	s.Require().Equal(http.StatusOK, s.get("/api/v1/users/1/recommendations?n=3", &recs))
	s.Require().Len(recs, 3)

	s.Equal(int64(17), recs[0].ID)
	for _, r := range recs {
		s.NotContains([]int64{1, 5, 13}, r.ID, "visited destinations must not be recommended")
	}
	for i := 1; i < len(recs); i++ {
		s.GreaterOrEqual(recs[i-1].SimilarityScore, recs[i].SimilarityScore)
	}
}

func (s *E2ETestSuite) TestColdStartIsPopularity() {
	var recs []types.Recommendation
	s.Require().Equal(http.StatusOK, s.get("/api/v1/users/999/recommendations", &recs))

	ids := make([]int64, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	s.Equal([]int64{1, 15, 5, 8, 9}, ids)
	s.InDelta(0.91, recs[0].SimilarityScore, 1e-9)
}

func (s *E2ETestSuite) TestSimilarDestinations() {
	var results []types.SimilarityResult
	s.Require().Equal(http.StatusOK, s.get("/api/v1/destinations/1/similar", &results))
	s.Require().Len(results, 3)
	s.Equal(int64(13), results[0].ID)
	for _, r := range results {
		s.NotEqual(int64(1), r.ID)
	}

	var cosine []types.SimilarityResult
	s.Require().Equal(http.StatusOK, s.get("/api/v1/destinations/1/similar?method=cosine&k=2", &cosine))
	s.Len(cosine, 2)

	s.Equal(http.StatusBadRequest, s.get("/api/v1/destinations/1/similar?method=jaccard", nil))

	var none []types.SimilarityResult
	s.Require().Equal(http.StatusOK, s.get("/api/v1/destinations/404/similar", &none))
	s.Empty(none)
}

func (s *E2ETestSuite) TestUserProfile() {
	var resp types.UserProfileResponse
	s.Require().Equal(http.StatusOK, s.get("/api/v1/users/2/profile", &resp))
	s.Equal(int64(2), resp.UserID)
	s.Require().NotNil(resp.Summary.PreferredType)
	s.Equal("Mountain", resp.Summary.PreferredType.Name)
	s.Equal("Camping", resp.Summary.TopActivities[0].Name, "ties break by name")
	s.Equal("Trekking", resp.Summary.TopActivities[1].Name)

	s.Equal(http.StatusNotFound, s.get("/api/v1/users/999/profile", nil))
}

func (s *E2ETestSuite) TestCatalogEndpoints() {
	var all []types.Destination
	s.Require().Equal(http.StatusOK, s.get("/api/v1/destinations", &all))
	s.Len(all, 20)

	var beaches []types.Destination
	s.Require().Equal(http.StatusOK, s.get("/api/v1/destinations?type=Beach", &beaches))
	s.Len(beaches, 4)

	var d types.Destination
	s.Require().Equal(http.StatusOK, s.get("/api/v1/destinations/3", &d))
	s.Equal("Jaipur", d.Name)
	s.Equal(http.StatusNotFound, s.get("/api/v1/destinations/300", nil))

	var stats types.CatalogStats
	s.Require().Equal(http.StatusOK, s.get("/api/v1/destinations/stats", &stats))
	s.Equal(20, stats.Total)
	s.Equal(4, stats.ByType["Beach"])
}

func (s *E2ETestSuite) TestHistoryEndpoints() {
	var history []types.VisitDetail
	s.Require().Equal(http.StatusOK, s.get("/api/v1/users/3/history", &history))
	s.Require().Len(history, 4)
	s.Equal("Jaipur", history[0].Name)

	var stats types.HistoryStats
	s.Require().Equal(http.StatusOK, s.get("/api/v1/users/3/history/stats", &stats))
	s.Equal(4, stats.TotalVisits)
	s.Equal("City", stats.FavouriteType)
	s.InDelta(4.0, stats.AverageRating, 1e-9)
}

func (s *E2ETestSuite) TestFeatureTable() {
	var table types.FeatureTableResponse
	s.Require().Equal(http.StatusOK, s.get("/api/v1/features", &table))
	s.Len(table.Rows, 20)
	for _, row := range table.Rows {
		s.Len(row.Values, len(table.Columns), fmt.Sprintf("row %d", row.DestinationID))
	}
}

func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
