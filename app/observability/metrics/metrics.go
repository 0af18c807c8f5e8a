package metrics

import (
	"fmt"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RecommendationRequestsTotal   metric.Int64Counter
	RecommendationDurationSeconds metric.Float64Histogram
	SimilarityRequestsTotal       metric.Int64Counter
	RecommendationCacheHitsTotal  metric.Int64Counter
	DatasetLoadDurationSeconds    metric.Float64Histogram
	DatasetLoadErrorsTotal        metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments once, from the globally configured
// MeterProvider. Without a configured provider the instruments are no-ops.
func InitAppMetrics() {
	once.Do(func() {
		m, err := NewAppMetrics(otel.GetMeterProvider().Meter("TravelRecommender"))
		if err != nil {
			log.Fatalf("Metrics: %v", err)
		}
		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// NewAppMetrics creates the instruments on meter.
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.RecommendationRequestsTotal, err = meter.Int64Counter(
		"recommendation_requests_total",
		metric.WithDescription("Total number of recommendation requests served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation_requests_total: %w", err)
	}

	m.RecommendationDurationSeconds, err = meter.Float64Histogram(
		"recommendation_duration_seconds",
		metric.WithDescription("Time spent ranking destinations for a request"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation_duration_seconds: %w", err)
	}

	m.SimilarityRequestsTotal, err = meter.Int64Counter(
		"similarity_requests_total",
		metric.WithDescription("Total number of similar-destination requests served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create similarity_requests_total: %w", err)
	}

	m.RecommendationCacheHitsTotal, err = meter.Int64Counter(
		"recommendation_cache_hits_total",
		metric.WithDescription("Ranking requests answered from the result cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation_cache_hits_total: %w", err)
	}

	m.DatasetLoadDurationSeconds, err = meter.Float64Histogram(
		"dataset_load_duration_seconds",
		metric.WithDescription("Duration of catalog and history loading in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset_load_duration_seconds: %w", err)
	}

	m.DatasetLoadErrorsTotal, err = meter.Int64Counter(
		"dataset_load_errors_total",
		metric.WithDescription("Total number of failed dataset loads"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset_load_errors_total: %w", err)
	}

	return m, nil
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
