package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

const (
	BudgetColumn     = "budget_level"
	PopularityColumn = "popularity_score"
)

// UnknownFeatureError is returned when a destination carries an activity,
// climate or type value outside the encoder's column universe.
type UnknownFeatureError struct {
	DestinationID int64
	Feature       string
}

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("destination %d: unknown feature %q", e.DestinationID, e.Feature)
}

// FeatureVector is one encoded row of the feature table.
type FeatureVector struct {
	DestinationID int64
	Values        []float64
}

// FeatureTable is the encoded catalog. Rows follow catalog order.
type FeatureTable struct {
	Columns []string
	Rows    []FeatureVector
}

// Lookup returns the row for a destination id.
func (t *FeatureTable) Lookup(id int64) (FeatureVector, bool) {
	for _, row := range t.Rows {
		if row.DestinationID == id {
			return row, true
		}
	}
	return FeatureVector{}, false
}

// Map turns a row into a feature-name keyed map. When an activity tag shares
// its name with a categorical column, the categorical value wins.
func (t *FeatureTable) Map(row FeatureVector) map[string]float64 {
	out := make(map[string]float64, len(t.Columns))
	for i, col := range t.Columns {
		out[col] = row.Values[i]
	}
	return out
}

// Encoder maps destinations to dense feature vectors. The column universe
// is fixed by the catalog passed to NewEncoder: activity indicators (multi-hot),
// climate_<v> and type_<v> indicators (one-hot), then z-scored budget and
// popularity.
// Activity tags and categorical keys are indexed separately, so a tag that
// spells a climate_ or type_ key still gets its own column.
type Encoder struct {
	columns  []string
	activity map[string]int
	category map[string]int

	budgetMean, budgetStd         float64
	popularityMean, popularityStd float64
}

func NewEncoder(catalog []types.Destination) (*Encoder, error) {
	if len(catalog) == 0 {
		return nil, types.ErrEmptyCatalog
	}

	activities := map[string]struct{}{}
	climates := map[string]struct{}{}
	destTypes := map[string]struct{}{}
	budgets := make([]float64, 0, len(catalog))
	popularity := make([]float64, 0, len(catalog))

	for _, d := range catalog {
		for _, a := range d.Activities {
			activities[a] = struct{}{}
		}
		climates[types.ClimateKey(d.Climate)] = struct{}{}
		destTypes[types.TypeKey(d.Type)] = struct{}{}
		budgets = append(budgets, float64(d.BudgetLevel))
		popularity = append(popularity, d.PopularityScore)
	}

	e := &Encoder{
		activity: make(map[string]int, len(activities)),
		category: make(map[string]int, len(climates)+len(destTypes)+2),
	}
	for _, a := range sortedKeys(activities) {
		e.activity[a] = len(e.columns)
		e.columns = append(e.columns, a)
	}
	categorical := append(sortedKeys(climates), sortedKeys(destTypes)...)
	for _, c := range append(categorical, BudgetColumn, PopularityColumn) {
		e.category[c] = len(e.columns)
		e.columns = append(e.columns, c)
	}

	e.budgetMean, e.budgetStd = meanStd(budgets)
	e.popularityMean, e.popularityStd = meanStd(popularity)
	return e, nil
}

// Columns returns a copy of the column names in encoding order.
func (e *Encoder) Columns() []string {
	return append([]string(nil), e.columns...)
}

// Encode returns the feature vector of d. Values outside the column
// universe yield an *UnknownFeatureError.
func (e *Encoder) Encode(d types.Destination) (FeatureVector, error) {
	values := make([]float64, len(e.columns))

	for _, a := range d.Activities {
		i, ok := e.activity[a]
		if !ok {
			return FeatureVector{}, &UnknownFeatureError{DestinationID: d.ID, Feature: a}
		}
		values[i] = 1
	}
	for _, key := range []string{types.ClimateKey(d.Climate), types.TypeKey(d.Type)} {
		i, ok := e.category[key]
		if !ok {
			return FeatureVector{}, &UnknownFeatureError{DestinationID: d.ID, Feature: key}
		}
		values[i] = 1
	}

	values[e.category[BudgetColumn]] = zScore(float64(d.BudgetLevel), e.budgetMean, e.budgetStd)
	values[e.category[PopularityColumn]] = zScore(d.PopularityScore, e.popularityMean, e.popularityStd)

	return FeatureVector{DestinationID: d.ID, Values: values}, nil
}

// Table encodes every destination of catalog.
func (e *Encoder) Table(catalog []types.Destination) (*FeatureTable, error) {
	table := &FeatureTable{Columns: e.Columns(), Rows: make([]FeatureVector, 0, len(catalog))}
	for _, d := range catalog {
		row, err := e.Encode(d)
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// meanStd uses the population standard deviation.
func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
}

func zScore(x, mean, std float64) float64 {
	if std == 0 {
		return 0
	}
	return (x - mean) / std
}
