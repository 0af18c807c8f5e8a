package destination

import (
	"slices"
	"sort"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

func filterDestinations(catalog []types.Destination, filter types.DestinationFilter) []types.Destination {
	out := make([]types.Destination, 0, len(catalog))
	for _, d := range catalog {
		if !matches(filter.Countries, d.Country) || !matches(filter.Types, d.Type) || !matches(filter.Climates, d.Climate) {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// matches treats an empty selection as "any".
func matches(selected []string, value string) bool {
	return len(selected) == 0 || slices.Contains(selected, value)
}

func catalogStats(destinations []types.Destination) *types.CatalogStats {
	stats := &types.CatalogStats{
		Total:     len(destinations),
		ByType:    make(map[string]int),
		ByClimate: make(map[string]int),
	}
	if len(destinations) == 0 {
		return stats
	}
	var budget, popularity float64
	for _, d := range destinations {
		stats.ByType[d.Type]++
		stats.ByClimate[d.Climate]++
		budget += float64(d.BudgetLevel)
		popularity += d.PopularityScore
	}
	stats.AverageBudget = budget / float64(len(destinations))
	stats.AveragePopularity = popularity / float64(len(destinations))
	return stats
}

func historyStats(details []types.VisitDetail) *types.HistoryStats {
	stats := &types.HistoryStats{
		TotalVisits:     len(details),
		RatingsByType:   []types.TypeRating{},
		VisitsByClimate: make(map[string]int),
	}
	if len(details) == 0 {
		return stats
	}

	var ratingSum float64
	typeCount := make(map[string]int)
	typeRatings := make(map[string]float64)
	for _, v := range details {
		ratingSum += v.Rating
		typeCount[v.Type]++
		typeRatings[v.Type] += v.Rating
		stats.VisitsByClimate[v.Climate]++
	}
	stats.AverageRating = ratingSum / float64(len(details))

	for t, n := range typeCount {
		stats.RatingsByType = append(stats.RatingsByType, types.TypeRating{
			Type:          t,
			AverageRating: typeRatings[t] / float64(n),
			Visits:        n,
		})
		if n > typeCount[stats.FavouriteType] || (n == typeCount[stats.FavouriteType] && t < stats.FavouriteType) {
			stats.FavouriteType = t
		}
	}
	sort.Slice(stats.RatingsByType, func(i, j int) bool {
		a, b := stats.RatingsByType[i], stats.RatingsByType[j]
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		return a.Type < b.Type
	})
	return stats
}
