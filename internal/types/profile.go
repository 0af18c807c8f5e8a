package types

import "strings"

const (
	ClimateKeyPrefix = "climate_"
	TypeKeyPrefix    = "type_"
	AvgBudgetKey     = "avg_budget"
	AvgPopularityKey = "avg_popularity"
)

// UserProfile maps feature names (activity tags, climate_<v>, type_<v>,
// avg_budget, avg_popularity) to preference weights.
type UserProfile map[string]float64

func ClimateKey(climate string) string { return ClimateKeyPrefix + climate }

func TypeKey(destType string) string { return TypeKeyPrefix + destType }

// IsActivityKey reports whether key names an activity tag rather than a
// climate, type or averaged scalar entry.
func IsActivityKey(key string) bool {
	return !strings.HasPrefix(key, ClimateKeyPrefix) &&
		!strings.HasPrefix(key, TypeKeyPrefix) &&
		!strings.HasPrefix(key, "avg_")
}

// WeightedFeature is a single (name, weight) pair taken from a profile.
type WeightedFeature struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// ProfileSummary is the human-facing digest of a UserProfile.
type ProfileSummary struct {
	TopActivities    []WeightedFeature `json:"top_activities"`
	PreferredClimate *WeightedFeature  `json:"preferred_climate,omitempty"`
	PreferredType    *WeightedFeature  `json:"preferred_type,omitempty"`
	AvgBudget        float64           `json:"avg_budget"`
	AvgPopularity    float64           `json:"avg_popularity"`
}

// UserProfileResponse is returned by the profile endpoint.
type UserProfileResponse struct {
	UserID  int64          `json:"user_id"`
	Profile UserProfile    `json:"profile"`
	Summary ProfileSummary `json:"summary"`
}

// FeatureTableResponse is the encoded catalog, one row per destination.
type FeatureTableResponse struct {
	Columns []string             `json:"columns"`
	Rows    []FeatureRowResponse `json:"rows"`
}

type FeatureRowResponse struct {
	DestinationID int64     `json:"destination_id"`
	Name          string    `json:"name"`
	Values        []float64 `json:"values"`
}
