package recommend

import (
	"sort"
	"strings"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

// BuildProfile folds the visits of userID into a weighted preference
// profile. It returns false when none of the user's visits resolve to a
// catalog destination.
//
// Each visited destination contributes w = rating / Σratings once to every
// one of its activity tags, to climate_<climate> and to type_<type>.
// avg_budget and avg_popularity accumulate value*w and so end up as
// rating-weighted averages.
func BuildProfile(userID int64, catalog []types.Destination, history []types.Visit) (types.UserProfile, bool) {
	ratings := make(map[int64]float64)
	var totalWeight float64
	for _, v := range history {
		if v.UserID != userID {
			continue
		}
		ratings[v.DestinationID] = v.Rating
		totalWeight += v.Rating
	}
	if len(ratings) == 0 {
		return nil, false
	}

	visited := make([]types.Destination, 0, len(ratings))
	for _, d := range catalog {
		if _, ok := ratings[d.ID]; ok {
			visited = append(visited, d)
		}
	}
	if len(visited) == 0 {
		return nil, false
	}

	profile := make(types.UserProfile)
	for _, d := range visited {
		rating, ok := ratings[d.ID]
		if !ok {
			rating = 1.0
		}
		w := visitWeight(rating, totalWeight, len(visited))

		for _, activity := range distinctTags(d.Activities) {
			profile[activity] += w
		}
		profile[types.ClimateKey(d.Climate)] += w
		profile[types.TypeKey(d.Type)] += w
		profile[types.AvgBudgetKey] += float64(d.BudgetLevel) * w
		profile[types.AvgPopularityKey] += d.PopularityScore * w
	}
	return profile, true
}

// visitWeight normalises a rating by the user's rating total. A zero total
// can only come from out-of-domain ratings and falls back to uniform weights.
func visitWeight(rating, total float64, visited int) float64 {
	if total == 0 {
		return 1 / float64(visited)
	}
	return rating / total
}

// Summarize extracts the strongest preferences of a profile.
func Summarize(profile types.UserProfile, topActivities int) types.ProfileSummary {
	var (
		activities []types.WeightedFeature
		climates   []types.WeightedFeature
		destTypes  []types.WeightedFeature
	)
	for key, weight := range profile {
		switch {
		case strings.HasPrefix(key, types.ClimateKeyPrefix):
			climates = append(climates, types.WeightedFeature{Name: strings.TrimPrefix(key, types.ClimateKeyPrefix), Weight: weight})
		case strings.HasPrefix(key, types.TypeKeyPrefix):
			destTypes = append(destTypes, types.WeightedFeature{Name: strings.TrimPrefix(key, types.TypeKeyPrefix), Weight: weight})
		case types.IsActivityKey(key):
			activities = append(activities, types.WeightedFeature{Name: key, Weight: weight})
		}
	}

	sortFeatures(activities)
	sortFeatures(climates)
	sortFeatures(destTypes)

	if topActivities >= 0 && len(activities) > topActivities {
		activities = activities[:topActivities]
	}
	summary := types.ProfileSummary{
		TopActivities: activities,
		AvgBudget:     profile[types.AvgBudgetKey],
		AvgPopularity: profile[types.AvgPopularityKey],
	}
	if len(climates) > 0 {
		summary.PreferredClimate = &climates[0]
	}
	if len(destTypes) > 0 {
		summary.PreferredType = &destTypes[0]
	}
	return summary
}

func sortFeatures(fs []types.WeightedFeature) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].Weight != fs[j].Weight {
			return fs[i].Weight > fs[j].Weight
		}
		return fs[i].Name < fs[j].Name
	})
}
