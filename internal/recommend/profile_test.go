package recommend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

func TestBuildProfile(t *testing.T) {
	t.Run("single visit", func(t *testing.T) {
		history := []types.Visit{{UserID: 1, DestinationID: 1, Rating: 5}}
		profile, ok := BuildProfile(1, twoDestinations(), history)
		require.True(t, ok)
		assert.Equal(t, types.UserProfile{
			"swim":             1.0,
			"surf":             1.0,
			"climate_tropical": 1.0,
			"type_beach":       1.0,
			"avg_budget":       3.0,
			"avg_popularity":   8.0,
		}, profile)
	})

	t.Run("no visits", func(t *testing.T) {
		profile, ok := BuildProfile(42, twoDestinations(), []types.Visit{{UserID: 1, DestinationID: 1, Rating: 5}})
		assert.False(t, ok)
		assert.Nil(t, profile)
	})

	t.Run("visits outside the catalog", func(t *testing.T) {
		_, ok := BuildProfile(1, twoDestinations(), []types.Visit{{UserID: 1, DestinationID: 99, Rating: 4}})
		assert.False(t, ok)
	})

	t.Run("rating weighted", func(t *testing.T) {
		history := []types.Visit{
			{UserID: 1, DestinationID: 1, Rating: 4},
			{UserID: 1, DestinationID: 2, Rating: 1},
			{UserID: 2, DestinationID: 2, Rating: 5},
		}
		profile, ok := BuildProfile(1, twoDestinations(), history)
		require.True(t, ok)
		assert.InDelta(t, 0.8, profile["swim"], 1e-9)
		assert.InDelta(t, 0.2, profile["hike"], 1e-9)
		assert.InDelta(t, 0.8, profile["climate_tropical"], 1e-9)
		assert.InDelta(t, 0.2, profile["type_mountain"], 1e-9)
		assert.InDelta(t, 3*0.8+2*0.2, profile["avg_budget"], 1e-9)
		assert.InDelta(t, 8*0.8+5*0.2, profile["avg_popularity"], 1e-9)
	})

	t.Run("visit weights sum to one", func(t *testing.T) {
		catalog := sampleCatalog()
		history := []types.Visit{
			{UserID: 7, DestinationID: 1, Rating: 5},
			{UserID: 7, DestinationID: 3, Rating: 3},
			{UserID: 7, DestinationID: 4, Rating: 2},
		}
		profile, ok := BuildProfile(7, catalog, history)
		require.True(t, ok)

		var climateTotal, typeTotal float64
		for key, w := range profile {
			switch {
			case strings.HasPrefix(key, types.ClimateKeyPrefix):
				climateTotal += w
			case strings.HasPrefix(key, types.TypeKeyPrefix):
				typeTotal += w
			}
		}
		assert.InDelta(t, 1.0, climateTotal, 1e-9)
		assert.InDelta(t, 1.0, typeTotal, 1e-9)
	})

	t.Run("zero ratings fall back to uniform weights", func(t *testing.T) {
		history := []types.Visit{
			{UserID: 1, DestinationID: 1, Rating: 0},
			{UserID: 1, DestinationID: 2, Rating: 0},
		}
		profile, ok := BuildProfile(1, twoDestinations(), history)
		require.True(t, ok)
		assert.InDelta(t, 0.5, profile["swim"], 1e-9)
		assert.InDelta(t, 2.5, profile["avg_budget"], 1e-9)
	})
}

func TestSummarize(t *testing.T) {
	profile := types.UserProfile{
		"swim":             0.6,
		"surf":             0.6,
		"hike":             0.4,
		"yoga":             0.1,
		"climate_tropical": 0.6,
		"climate_cold":     0.4,
		"type_beach":       0.6,
		"type_mountain":    0.4,
		"avg_budget":       2.6,
		"avg_popularity":   6.8,
	}

	summary := Summarize(profile, 2)
	assert.Equal(t, []types.WeightedFeature{{Name: "surf", Weight: 0.6}, {Name: "swim", Weight: 0.6}}, summary.TopActivities)
	require.NotNil(t, summary.PreferredClimate)
	assert.Equal(t, "tropical", summary.PreferredClimate.Name)
	require.NotNil(t, summary.PreferredType)
	assert.Equal(t, "beach", summary.PreferredType.Name)
	assert.Equal(t, 2.6, summary.AvgBudget)
	assert.Equal(t, 6.8, summary.AvgPopularity)

	empty := Summarize(types.UserProfile{}, 5)
	assert.Empty(t, empty.TopActivities)
	assert.Nil(t, empty.PreferredClimate)
}
