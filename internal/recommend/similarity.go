package recommend

import (
	"math"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

// FacetWeights holds the per-facet weights used by WeightedSimilarity and
// by the profile-to-destination score.
type FacetWeights struct {
	Activities float64
	Climate    float64
	Type       float64
	Budget     float64
	Popularity float64
}

var DefaultFacetWeights = FacetWeights{
	Activities: 0.4,
	Climate:    0.2,
	Type:       0.2,
	Budget:     0.1,
	Popularity: 0.1,
}

const (
	budgetRange     = 4.0  // budget levels 1..5
	popularityRange = 10.0 // popularity 0..10
)

// Facets is the comparable view of a destination. A facet that a record
// does not expose is left unset: nil Activities, empty Climate or Type,
// HasBudget/HasPopularity false.
type Facets struct {
	Activities    []string
	Climate       string
	Type          string
	Budget        float64
	HasBudget     bool
	Popularity    float64
	HasPopularity bool
}

// FacetsOf exposes every facet of a catalog destination.
func FacetsOf(d types.Destination) Facets {
	activities := d.Activities
	if activities == nil {
		activities = []string{}
	}
	return Facets{
		Activities:    activities,
		Climate:       d.Climate,
		Type:          d.Type,
		Budget:        float64(d.BudgetLevel),
		HasBudget:     true,
		Popularity:    d.PopularityScore,
		HasPopularity: true,
	}
}

// CosineSimilarity compares two dense vectors over their common prefix.
// Returns 0 when either prefix has zero norm.
func CosineSimilarity(a, b []float64) float64 {
	n := min(len(a), len(b))
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Jaccard returns |A∩B| / |A∪B| over the distinct tags of a and b, or 0 when
// both are empty.
func Jaccard(a, b []string) float64 {
	setA := tagSet(a)
	setB := tagSet(b)
	union := len(setA)
	intersection := 0
	for tag := range setB {
		if _, ok := setA[tag]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// WeightedSimilarity compares two destinations facet by facet using
// DefaultFacetWeights.
func WeightedSimilarity(a, b Facets) float64 {
	return DefaultFacetWeights.Similarity(a, b)
}

// Similarity is the weighted mean of the facet similarities that both
// records expose. Facets missing on either side are left out of the
// numerator and the denominator.
func (w FacetWeights) Similarity(a, b Facets) float64 {
	var score, total float64

	if a.Activities != nil && b.Activities != nil {
		score += Jaccard(a.Activities, b.Activities) * w.Activities
		total += w.Activities
	}
	if a.Climate != "" && b.Climate != "" {
		score += equalScore(a.Climate, b.Climate) * w.Climate
		total += w.Climate
	}
	if a.Type != "" && b.Type != "" {
		score += equalScore(a.Type, b.Type) * w.Type
		total += w.Type
	}
	if a.HasBudget && b.HasBudget {
		score += (1 - math.Abs(a.Budget-b.Budget)/budgetRange) * w.Budget
		total += w.Budget
	}
	if a.HasPopularity && b.HasPopularity {
		score += (1 - math.Abs(a.Popularity-b.Popularity)/popularityRange) * w.Popularity
		total += w.Popularity
	}

	if total == 0 {
		return 0
	}
	return score / total
}

func equalScore(a, b string) float64 {
	if a == b {
		return 1
	}
	return 0
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

// distinctTags keeps the first occurrence of every tag, in order.
func distinctTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
