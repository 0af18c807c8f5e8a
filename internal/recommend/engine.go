package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

// DataProvider supplies the static catalog and visit history.
type DataProvider interface {
	LoadCatalog(ctx context.Context) ([]types.Destination, error)
	LoadHistory(ctx context.Context) ([]types.Visit, error)
}

// snapshot is immutable once built.
type snapshot struct {
	catalog []types.Destination
	byID    map[int64]int
	history []types.Visit
	visited map[int64]map[int64]struct{}
	encoder *Encoder
	table   *FeatureTable
}

// Engine ranks destinations for users and destinations against each other.
// Data is loaded once, on the first call to Initialize or to any query.
type Engine struct {
	provider DataProvider
	logger   *slog.Logger
	weights  FacetWeights

	mu   sync.RWMutex
	snap *snapshot
}

func NewEngine(provider DataProvider, logger *slog.Logger) *Engine {
	return &Engine{
		provider: provider,
		logger:   logger,
		weights:  DefaultFacetWeights,
	}
}

// Initialize loads the catalog and history. Calling it again after a
// successful load is a no-op.
func (e *Engine) Initialize(ctx context.Context) error {
	_, err := e.load(ctx)
	return err
}

func (e *Engine) load(ctx context.Context) (*snapshot, error) {
	e.mu.RLock()
	snap := e.snap
	e.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snap != nil {
		return e.snap, nil
	}
	if e.provider == nil {
		return nil, types.ErrDataNotLoaded
	}

	start := time.Now()
	var (
		catalog []types.Destination
		history []types.Visit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = e.provider.LoadCatalog(gctx)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		history, err = e.provider.LoadHistory(gctx)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		e.logger.ErrorContext(ctx, "Failed to load recommendation data", slog.Any("error", err))
		return nil, err
	}

	snap, err := buildSnapshot(catalog, history)
	if err != nil {
		e.logger.ErrorContext(ctx, "Invalid recommendation data", slog.Any("error", err))
		return nil, err
	}
	e.snap = snap

	e.logger.InfoContext(ctx, "Recommendation engine initialized",
		slog.Int("destinations", len(snap.catalog)),
		slog.Int("visits", len(snap.history)),
		slog.Int("features", len(snap.table.Columns)),
		slog.Duration("took", time.Since(start)))
	return snap, nil
}

func buildSnapshot(catalog []types.Destination, history []types.Visit) (*snapshot, error) {
	if len(catalog) == 0 {
		return nil, types.ErrEmptyCatalog
	}

	s := &snapshot{
		catalog: make([]types.Destination, len(catalog)),
		byID:    make(map[int64]int, len(catalog)),
		history: append([]types.Visit(nil), history...),
		visited: make(map[int64]map[int64]struct{}),
	}
	for i, d := range catalog {
		if _, dup := s.byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: %d", types.ErrDuplicateDestination, d.ID)
		}
		d.Activities = distinctTags(d.Activities)
		s.catalog[i] = d
		s.byID[d.ID] = i
	}
	for _, v := range s.history {
		if s.visited[v.UserID] == nil {
			s.visited[v.UserID] = make(map[int64]struct{})
		}
		if _, dup := s.visited[v.UserID][v.DestinationID]; dup {
			return nil, fmt.Errorf("%w: user %d destination %d", types.ErrDuplicateVisit, v.UserID, v.DestinationID)
		}
		s.visited[v.UserID][v.DestinationID] = struct{}{}
	}

	enc, err := NewEncoder(s.catalog)
	if err != nil {
		return nil, err
	}
	table, err := enc.Table(s.catalog)
	if err != nil {
		return nil, err
	}
	s.encoder = enc
	s.table = table
	return s, nil
}

// CreateUserProfile returns the user's preference profile, or false when the
// user has no usable history.
func (e *Engine) CreateUserProfile(ctx context.Context, userID int64) (types.UserProfile, bool, error) {
	snap, err := e.load(ctx)
	if err != nil {
		return nil, false, err
	}
	profile, ok := BuildProfile(userID, snap.catalog, snap.history)
	return profile, ok, nil
}

// GetRecommendations ranks the destinations userID has not visited. Users
// without history get the n most popular destinations instead.
func (e *Engine) GetRecommendations(ctx context.Context, userID int64, n int) ([]types.Recommendation, error) {
	snap, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []types.Recommendation{}, nil
	}

	profile, ok := BuildProfile(userID, snap.catalog, snap.history)
	if !ok {
		e.logger.DebugContext(ctx, "No history for user, falling back to popularity", slog.Int64("user_id", userID))
		return popular(snap.catalog, n), nil
	}

	visited := snap.visited[userID]
	recs := make([]types.Recommendation, 0, len(snap.catalog))
	for _, d := range snap.catalog {
		if _, seen := visited[d.ID]; seen {
			continue
		}
		recs = append(recs, types.Recommendation{
			Destination:     d,
			SimilarityScore: e.weights.ProfileScore(profile, d),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return ranksBefore(recs[i].SimilarityScore, recs[j].SimilarityScore, recs[i].ID, recs[j].ID)
	})
	if len(recs) > n {
		recs = recs[:n]
	}
	for i := range recs {
		recs[i].Destination = recs[i].Destination.Clone()
	}
	return recs, nil
}

// ProfileScore scores destination d against profile. The budget weight is
// always part of the denominator, even when the profile has no avg_budget.
func (w FacetWeights) ProfileScore(profile types.UserProfile, d types.Destination) float64 {
	var score, total float64

	var activity float64
	if len(d.Activities) > 0 {
		for _, tag := range d.Activities {
			activity += profile[tag]
		}
		activity /= float64(len(d.Activities))
	}
	score += activity * w.Activities
	total += w.Activities

	score += profile[types.ClimateKey(d.Climate)] * w.Climate
	total += w.Climate

	score += profile[types.TypeKey(d.Type)] * w.Type
	total += w.Type

	if avgBudget, ok := profile[types.AvgBudgetKey]; ok {
		budget := math.Max(0, 1-math.Abs(avgBudget-float64(d.BudgetLevel))/budgetRange)
		score += budget * w.Budget
	}
	total += w.Budget

	score += d.PopularityScore / popularityRange * w.Popularity
	total += w.Popularity

	if total == 0 {
		return 0
	}
	return score / total
}

func popular(catalog []types.Destination, n int) []types.Recommendation {
	recs := make([]types.Recommendation, 0, len(catalog))
	for _, d := range catalog {
		recs = append(recs, types.Recommendation{
			Destination:     d,
			SimilarityScore: d.PopularityScore / popularityRange,
		})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return ranksBefore(recs[i].PopularityScore, recs[j].PopularityScore, recs[i].ID, recs[j].ID)
	})
	if len(recs) > n {
		recs = recs[:n]
	}
	for i := range recs {
		recs[i].Destination = recs[i].Destination.Clone()
	}
	return recs
}

// GetSimilarDestinations ranks every other catalog destination by weighted
// facet similarity to destinationID. An unknown id yields an empty result.
func (e *Engine) GetSimilarDestinations(ctx context.Context, destinationID int64, k int) ([]types.SimilarityResult, error) {
	snap, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	idx, ok := snap.byID[destinationID]
	if !ok || k <= 0 {
		return []types.SimilarityResult{}, nil
	}
	target := FacetsOf(snap.catalog[idx])

	return rankOthers(snap.catalog, destinationID, k, func(d types.Destination) float64 {
		return e.weights.Similarity(target, FacetsOf(d))
	}), nil
}

// GetSimilarByFeatures ranks destinations by cosine similarity of their
// encoded feature vectors. An unknown id yields an empty result.
func (e *Engine) GetSimilarByFeatures(ctx context.Context, destinationID int64, k int) ([]types.SimilarityResult, error) {
	snap, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	target, ok := snap.table.Lookup(destinationID)
	if !ok || k <= 0 {
		return []types.SimilarityResult{}, nil
	}
	rows := make(map[int64][]float64, len(snap.table.Rows))
	for _, row := range snap.table.Rows {
		rows[row.DestinationID] = row.Values
	}

	return rankOthers(snap.catalog, destinationID, k, func(d types.Destination) float64 {
		return CosineSimilarity(target.Values, rows[d.ID])
	}), nil
}

func rankOthers(catalog []types.Destination, exclude int64, k int, score func(types.Destination) float64) []types.SimilarityResult {
	results := make([]types.SimilarityResult, 0, len(catalog))
	for _, d := range catalog {
		if d.ID == exclude {
			continue
		}
		results = append(results, types.SimilarityResult{Destination: d, SimilarityScore: score(d)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return ranksBefore(results[i].SimilarityScore, results[j].SimilarityScore, results[i].ID, results[j].ID)
	})
	if len(results) > k {
		results = results[:k]
	}
	for i := range results {
		results[i].Destination = results[i].Destination.Clone()
	}
	return results
}

// ranksBefore orders by score descending, then id ascending.
func ranksBefore(scoreA, scoreB float64, idA, idB int64) bool {
	if scoreA != scoreB {
		return scoreA > scoreB
	}
	return idA < idB
}

// FeatureTable returns the encoded catalog.
func (e *Engine) FeatureTable(ctx context.Context) (*FeatureTable, error) {
	snap, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.table, nil
}

// Catalog returns a deep copy of the loaded destinations in catalog order.
func (e *Engine) Catalog(ctx context.Context) ([]types.Destination, error) {
	snap, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	catalog := make([]types.Destination, len(snap.catalog))
	for i, d := range snap.catalog {
		catalog[i] = d.Clone()
	}
	return catalog, nil
}

// Destination looks up one catalog entry.
func (e *Engine) Destination(ctx context.Context, id int64) (types.Destination, error) {
	snap, err := e.load(ctx)
	if err != nil {
		return types.Destination{}, err
	}
	idx, ok := snap.byID[id]
	if !ok {
		return types.Destination{}, fmt.Errorf("%w: %d", types.ErrDestinationNotFound, id)
	}
	return snap.catalog[idx].Clone(), nil
}

// History returns the visits recorded for userID.
func (e *Engine) History(ctx context.Context, userID int64) ([]types.Visit, error) {
	snap, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	var visits []types.Visit
	for _, v := range snap.history {
		if v.UserID == userID {
			visits = append(visits, v)
		}
	}
	return visits, nil
}
