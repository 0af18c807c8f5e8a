package destination

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/go-travel-recommender/internal/recommend"
	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

var _ recommend.DataProvider = (*CSVRepository)(nil)

var (
	destinationColumns = []string{"destination_id", "name", "country", "type", "activities", "climate", "budget_level", "popularity_score"}
	visitColumns       = []string{"user_id", "destination_id", "rating", "visit_date"}
	visitDateLayouts   = []string{time.DateOnly, time.DateTime, "02-01-2006", "01/02/2006"}
)

// CSVRepository reads the catalog and history from two CSV files with a
// header row. Column order is free; extra columns are ignored.
type CSVRepository struct {
	logger           *slog.Logger
	destinationsPath string
	historyPath      string
}

func NewCSVRepository(destinationsPath, historyPath string, logger *slog.Logger) *CSVRepository {
	return &CSVRepository{
		logger:           logger,
		destinationsPath: destinationsPath,
		historyPath:      historyPath,
	}
}

func (r *CSVRepository) LoadCatalog(ctx context.Context) ([]types.Destination, error) {
	f, err := os.Open(r.destinationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open destinations file: %w", err)
	}
	defer f.Close()

	catalog, err := ParseDestinations(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.destinationsPath, err)
	}
	r.logger.DebugContext(ctx, "Loaded destinations from csv", slog.String("path", r.destinationsPath), slog.Int("count", len(catalog)))
	return catalog, nil
}

func (r *CSVRepository) LoadHistory(ctx context.Context) ([]types.Visit, error) {
	f, err := os.Open(r.historyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	history, err := ParseVisits(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.historyPath, err)
	}
	r.logger.DebugContext(ctx, "Loaded visits from csv", slog.String("path", r.historyPath), slog.Int("count", len(history)))
	return history, nil
}

// ParseDestinations decodes a destinations CSV document.
func ParseDestinations(in io.Reader) ([]types.Destination, error) {
	var catalog []types.Destination
	err := readRecords(in, destinationColumns, func(line int, rec record) error {
		d := types.Destination{
			Name:       rec.get("name"),
			Country:    rec.get("country"),
			Type:       rec.get("type"),
			Activities: splitActivities(rec.get("activities")),
			Climate:    rec.get("climate"),
		}
		var err error
		if d.ID, err = strconv.ParseInt(rec.get("destination_id"), 10, 64); err != nil {
			return fmt.Errorf("line %d: %w: destination_id: %v", line, types.ErrInvalidRecord, err)
		}
		if d.BudgetLevel, err = parseLevel(rec.get("budget_level")); err != nil {
			return fmt.Errorf("line %d: %w: budget_level: %v", line, types.ErrInvalidRecord, err)
		}
		if d.PopularityScore, err = strconv.ParseFloat(rec.get("popularity_score"), 64); err != nil {
			return fmt.Errorf("line %d: %w: popularity_score: %v", line, types.ErrInvalidRecord, err)
		}
		if err := validateDestination(d); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		catalog = append(catalog, d)
		return nil
	})
	return catalog, err
}

// ParseVisits decodes a visit history CSV document.
func ParseVisits(in io.Reader) ([]types.Visit, error) {
	var history []types.Visit
	err := readRecords(in, visitColumns, func(line int, rec record) error {
		var (
			v   types.Visit
			err error
		)
		if v.UserID, err = strconv.ParseInt(rec.get("user_id"), 10, 64); err != nil {
			return fmt.Errorf("line %d: %w: user_id: %v", line, types.ErrInvalidRecord, err)
		}
		if v.DestinationID, err = strconv.ParseInt(rec.get("destination_id"), 10, 64); err != nil {
			return fmt.Errorf("line %d: %w: destination_id: %v", line, types.ErrInvalidRecord, err)
		}
		if v.Rating, err = strconv.ParseFloat(rec.get("rating"), 64); err != nil {
			return fmt.Errorf("line %d: %w: rating: %v", line, types.ErrInvalidRecord, err)
		}
		if v.VisitDate, err = parseVisitDate(rec.get("visit_date")); err != nil {
			return fmt.Errorf("line %d: %w: visit_date: %v", line, types.ErrInvalidRecord, err)
		}
		if err := validateVisit(v); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		history = append(history, v)
		return nil
	})
	return history, err
}

type record struct {
	fields []string
	index  map[string]int
}

func (r record) get(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func readRecords(in io.Reader, required []string, fn func(line int, rec record) error) error {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: missing header row", types.ErrInvalidRecord)
		}
		return fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("%w: missing column %q", types.ErrInvalidRecord, col)
		}
	}

	line := 1
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if isBlank(fields) {
			continue
		}
		if err := fn(line, record{fields: fields, index: index}); err != nil {
			return err
		}
	}
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseLevel accepts "3" as well as spreadsheet exports such as "3.0".
func parseLevel(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a whole number", raw)
	}
	return int(f), nil
}

func parseVisitDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range visitDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}
