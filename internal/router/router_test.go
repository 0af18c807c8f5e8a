package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-travel-recommender/internal/api/destination"
)

func newTestRouter(requests int) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return SetupRouter(&Config{
		DestinationHandler: destination.NewDestinationHandler(nil, destination.Limits{}, logger),
		RateLimitRequests:  requests,
		RateLimitWindow:    time.Minute,
	})
}

func TestSetupRouter_Ping(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter(0).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestSetupRouter_RateLimit(t *testing.T) {
	h := newTestRouter(2)

	// invalid ids are rejected before the service is reached
	codes := make([]int, 0, 3)
	for range 3 {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/destinations/abc", nil))
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)

	// /ping sits outside the limited group
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSetupRouter_RateLimitDisabled(t *testing.T) {
	h := newTestRouter(0)
	for range 5 {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/destinations/abc", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	}
}
