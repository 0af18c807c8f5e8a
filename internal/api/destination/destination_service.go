package destination

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-travel-recommender/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-recommender/internal/recommend"
	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// SimilarityMethod selects how destinations are compared to each other.
type SimilarityMethod string

const (
	SimilarityWeighted SimilarityMethod = "weighted"
	SimilarityCosine   SimilarityMethod = "cosine"
)

const topProfileActivities = 5

// Recommender is the engine surface the service depends on.
type Recommender interface {
	Initialize(ctx context.Context) error
	GetRecommendations(ctx context.Context, userID int64, n int) ([]types.Recommendation, error)
	GetSimilarDestinations(ctx context.Context, destinationID int64, k int) ([]types.SimilarityResult, error)
	GetSimilarByFeatures(ctx context.Context, destinationID int64, k int) ([]types.SimilarityResult, error)
	CreateUserProfile(ctx context.Context, userID int64) (types.UserProfile, bool, error)
	FeatureTable(ctx context.Context) (*recommend.FeatureTable, error)
	Catalog(ctx context.Context) ([]types.Destination, error)
	Destination(ctx context.Context, id int64) (types.Destination, error)
	History(ctx context.Context, userID int64) ([]types.Visit, error)
}

// Service defines the destination recommendation use cases.
type Service interface {
	Warmup(ctx context.Context) error
	GetRecommendations(ctx context.Context, userID int64, n int) ([]types.Recommendation, error)
	GetSimilarDestinations(ctx context.Context, destinationID int64, k int, method SimilarityMethod) ([]types.SimilarityResult, error)
	GetUserProfile(ctx context.Context, userID int64) (*types.UserProfileResponse, bool, error)
	ListDestinations(ctx context.Context, filter types.DestinationFilter) ([]types.Destination, error)
	GetDestination(ctx context.Context, destinationID int64) (*types.Destination, error)
	CatalogStats(ctx context.Context, filter types.DestinationFilter) (*types.CatalogStats, error)
	GetUserHistory(ctx context.Context, userID int64) ([]types.VisitDetail, error)
	HistoryStats(ctx context.Context, userID int64) (*types.HistoryStats, error)
	FeatureTable(ctx context.Context) (*types.FeatureTableResponse, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	engine  Recommender
	cache   *cache.Cache
	metrics *metrics.AppMetrics
}

func NewServiceImpl(engine Recommender, resultCache *cache.Cache, appMetrics *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		engine:  engine,
		cache:   resultCache,
		metrics: appMetrics,
	}
}

// Warmup loads the dataset eagerly so the first request does not pay for it.
func (s *ServiceImpl) Warmup(ctx context.Context) error {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "Warmup")
	defer span.End()

	start := time.Now()
	err := s.engine.Initialize(ctx)
	s.metrics.DatasetLoadDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		s.metrics.DatasetLoadErrorsTotal.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "dataset load failed")
		return fmt.Errorf("failed to initialize recommendation engine: %w", err)
	}
	span.SetStatus(codes.Ok, "dataset loaded")
	return nil
}

func (s *ServiceImpl) GetRecommendations(ctx context.Context, userID int64, n int) ([]types.Recommendation, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "GetRecommendations", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int("n", n),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecommendationDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}()
	s.metrics.RecommendationRequestsTotal.Add(ctx, 1)

	cacheKey := fmt.Sprintf("recommendations:%d:%d", userID, n)
	if cached, found := s.cache.Get(cacheKey); found {
		s.metrics.RecommendationCacheHitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "recommendations")))
		span.AddEvent("cache hit")
		return cloneRecommendations(cached.([]types.Recommendation)), nil
	}

	recs, err := s.engine.GetRecommendations(ctx, userID, n)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to compute recommendations", slog.Int64("user_id", userID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "recommendation failed")
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}
	s.cache.Set(cacheKey, cloneRecommendations(recs), cache.DefaultExpiration)

	span.SetAttributes(attribute.Int("recommendations.count", len(recs)))
	span.SetStatus(codes.Ok, "recommendations computed")
	return cloneRecommendations(recs), nil
}

func (s *ServiceImpl) GetSimilarDestinations(ctx context.Context, destinationID int64, k int, method SimilarityMethod) ([]types.SimilarityResult, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "GetSimilarDestinations", trace.WithAttributes(
		attribute.Int64("destination.id", destinationID),
		attribute.Int("k", k),
		attribute.String("method", string(method)),
	))
	defer span.End()

	switch method {
	case "":
		method = SimilarityWeighted
	case SimilarityWeighted, SimilarityCosine:
	default:
		span.SetStatus(codes.Error, "unknown similarity method")
		return nil, fmt.Errorf("%w: unknown similarity method %q", types.ErrInvalidArgument, method)
	}
	s.metrics.SimilarityRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("method", string(method))))

	cacheKey := fmt.Sprintf("similar:%s:%d:%d", method, destinationID, k)
	if cached, found := s.cache.Get(cacheKey); found {
		s.metrics.RecommendationCacheHitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", "similar")))
		span.AddEvent("cache hit")
		return cloneSimilar(cached.([]types.SimilarityResult)), nil
	}

	var (
		results []types.SimilarityResult
		err     error
	)
	if method == SimilarityCosine {
		results, err = s.engine.GetSimilarByFeatures(ctx, destinationID, k)
	} else {
		results, err = s.engine.GetSimilarDestinations(ctx, destinationID, k)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to compute similar destinations", slog.Int64("destination_id", destinationID), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "similarity failed")
		return nil, fmt.Errorf("failed to get similar destinations: %w", err)
	}
	s.cache.Set(cacheKey, cloneSimilar(results), cache.DefaultExpiration)

	span.SetAttributes(attribute.Int("results.count", len(results)))
	span.SetStatus(codes.Ok, "similar destinations computed")
	return cloneSimilar(results), nil
}

// Cached results are deep-copied on the way in and out so callers never
// alias a cache entry.
func cloneRecommendations(in []types.Recommendation) []types.Recommendation {
	out := make([]types.Recommendation, len(in))
	for i, r := range in {
		r.Destination = r.Destination.Clone()
		out[i] = r
	}
	return out
}

func cloneSimilar(in []types.SimilarityResult) []types.SimilarityResult {
	out := make([]types.SimilarityResult, len(in))
	for i, r := range in {
		r.Destination = r.Destination.Clone()
		out[i] = r
	}
	return out
}

// GetUserProfile returns false when the user has no usable history.
func (s *ServiceImpl) GetUserProfile(ctx context.Context, userID int64) (*types.UserProfileResponse, bool, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "GetUserProfile", trace.WithAttributes(
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	profile, ok, err := s.engine.CreateUserProfile(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, false, fmt.Errorf("failed to build user profile: %w", err)
	}
	if !ok {
		span.AddEvent("no history")
		return nil, false, nil
	}
	return &types.UserProfileResponse{
		UserID:  userID,
		Profile: profile,
		Summary: recommend.Summarize(profile, topProfileActivities),
	}, true, nil
}

func (s *ServiceImpl) ListDestinations(ctx context.Context, filter types.DestinationFilter) ([]types.Destination, error) {
	catalog, err := s.engine.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return filterDestinations(catalog, filter), nil
}

func (s *ServiceImpl) GetDestination(ctx context.Context, destinationID int64) (*types.Destination, error) {
	d, err := s.engine.Destination(ctx, destinationID)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *ServiceImpl) CatalogStats(ctx context.Context, filter types.DestinationFilter) (*types.CatalogStats, error) {
	destinations, err := s.ListDestinations(ctx, filter)
	if err != nil {
		return nil, err
	}
	return catalogStats(destinations), nil
}

// GetUserHistory joins the user's visits with the catalog, oldest first.
// Visits to destinations missing from the catalog are skipped.
func (s *ServiceImpl) GetUserHistory(ctx context.Context, userID int64) ([]types.VisitDetail, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "GetUserHistory", trace.WithAttributes(
		attribute.Int64("user.id", userID),
	))
	defer span.End()

	visits, err := s.engine.History(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	catalog, err := s.engine.Catalog(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	byID := make(map[int64]types.Destination, len(catalog))
	for _, d := range catalog {
		byID[d.ID] = d
	}

	details := make([]types.VisitDetail, 0, len(visits))
	for _, v := range visits {
		d, ok := byID[v.DestinationID]
		if !ok {
			s.logger.WarnContext(ctx, "Visit references unknown destination",
				slog.Int64("user_id", userID), slog.Int64("destination_id", v.DestinationID))
			continue
		}
		details = append(details, types.VisitDetail{Destination: d, Rating: v.Rating, VisitDate: v.VisitDate})
	}
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].VisitDate.Before(details[j].VisitDate)
	})
	return details, nil
}

func (s *ServiceImpl) HistoryStats(ctx context.Context, userID int64) (*types.HistoryStats, error) {
	details, err := s.GetUserHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	return historyStats(details), nil
}

func (s *ServiceImpl) FeatureTable(ctx context.Context) (*types.FeatureTableResponse, error) {
	table, err := s.engine.FeatureTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	catalog, err := s.engine.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	names := make(map[int64]string, len(catalog))
	for _, d := range catalog {
		names[d.ID] = d.Name
	}

	resp := &types.FeatureTableResponse{
		Columns: table.Columns,
		Rows:    make([]types.FeatureRowResponse, 0, len(table.Rows)),
	}
	for _, row := range table.Rows {
		resp.Rows = append(resp.Rows, types.FeatureRowResponse{
			DestinationID: row.DestinationID,
			Name:          names[row.DestinationID],
			Values:        row.Values,
		})
	}
	return resp, nil
}
