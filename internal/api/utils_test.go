package api

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

func TestErrorResponse(t *testing.T) {
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(w, r, http.StatusNotFound, "Destination not found")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body types.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Destination not found", body.Error)
	assert.NotEmpty(t, body.RequestID)
}

func TestWriteJSONResponse(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteJSONResponse(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNoContent, map[string]int{"a": 1})
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("unencodable payload", func(t *testing.T) {
		rr := httptest.NewRecorder()
		WriteJSONResponse(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, math.NaN())
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
