package types

import (
	"slices"
	"time"
)

// Destination is a read-only catalog record.
type Destination struct {
	ID              int64    `json:"destination_id"`
	Name            string   `json:"name" validate:"required"`
	Country         string   `json:"country"`
	Type            string   `json:"type" validate:"required"`
	Activities      []string `json:"activities" validate:"min=1,dive,required"`
	Climate         string   `json:"climate" validate:"required"`
	BudgetLevel     int      `json:"budget_level" validate:"min=1,max=5"`
	PopularityScore float64  `json:"popularity_score" validate:"gte=0,lte=10"`
}

// Visit links a user to a destination they rated.
type Visit struct {
	UserID        int64     `json:"user_id"`
	DestinationID int64     `json:"destination_id"`
	Rating        float64   `json:"rating" validate:"gte=1,lte=5"`
	VisitDate     time.Time `json:"visit_date"`
}

// Clone returns a copy of d that shares no memory with it.
func (d Destination) Clone() Destination {
	d.Activities = slices.Clone(d.Activities)
	return d
}

// Recommendation is a ranked, unvisited destination for a user.
type Recommendation struct {
	Destination
	SimilarityScore float64 `json:"similarity_score"`
}

// SimilarityResult is a catalog destination ranked against a target destination.
type SimilarityResult struct {
	Destination
	SimilarityScore float64 `json:"similarity_score"`
}

// DestinationFilter restricts catalog listings. Empty slices do not filter.
type DestinationFilter struct {
	Countries []string `json:"countries,omitempty"`
	Types     []string `json:"types,omitempty"`
	Climates  []string `json:"climates,omitempty"`
}

// CatalogStats summarises a (filtered) slice of the catalog.
type CatalogStats struct {
	Total             int            `json:"total"`
	ByType            map[string]int `json:"by_type"`
	ByClimate         map[string]int `json:"by_climate"`
	AverageBudget     float64        `json:"average_budget"`
	AveragePopularity float64        `json:"average_popularity"`
}

// VisitDetail is a visit joined with its destination.
type VisitDetail struct {
	Destination
	Rating    float64   `json:"rating"`
	VisitDate time.Time `json:"visit_date"`
}

// TypeRating is the average rating a user gave to one destination type.
type TypeRating struct {
	Type          string  `json:"type"`
	AverageRating float64 `json:"average_rating"`
	Visits        int     `json:"visits"`
}

// HistoryStats aggregates a user's travel history.
type HistoryStats struct {
	TotalVisits     int            `json:"total_visits"`
	AverageRating   float64        `json:"average_rating"`
	FavouriteType   string         `json:"favourite_type"`
	RatingsByType   []TypeRating   `json:"ratings_by_type"`
	VisitsByClimate map[string]int `json:"visits_by_climate"`
}
