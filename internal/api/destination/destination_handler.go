package destination

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-travel-recommender/internal/api"
	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

// Limits bounds the result sizes a caller can ask for.
type Limits struct {
	DefaultCount        int
	DefaultSimilarCount int
	MaxCount            int
}

type DestinationHandler struct {
	service Service
	limits  Limits
	logger  *slog.Logger
}

func NewDestinationHandler(service Service, limits Limits, logger *slog.Logger) *DestinationHandler {
	return &DestinationHandler{
		service: service,
		limits:  limits,
		logger:  logger,
	}
}

// GetRecommendations godoc
// @Summary      Recommend destinations for a user
// @Description  Ranks unvisited destinations against the user's rating-weighted profile. Users without history get the most popular destinations.
// @Tags         Recommendations
// @Produce      json
// @Param        userID path int true "User ID"
// @Param        n query int false "Number of recommendations"
// @Success      200 {array} types.Recommendation
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /users/{userID}/recommendations [get]
func (h *DestinationHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "GetRecommendations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/users/{userID}/recommendations"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetRecommendations"))

	userID, err := parseID(chi.URLParam(r, "userID"))
	if err != nil {
		l.WarnContext(ctx, "Invalid user ID", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}
	span.SetAttributes(semconv.EnduserIDKey.String(strconv.FormatInt(userID, 10)))

	n, err := h.count(r, "n", h.limits.DefaultCount)
	if err != nil {
		l.WarnContext(ctx, "Invalid count", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	recs, err := h.service.GetRecommendations(ctx, userID, n)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get recommendations", slog.Int64("user_id", userID), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get recommendations")
		return
	}

	l.DebugContext(ctx, "Recommendations served", slog.Int64("user_id", userID), slog.Int("count", len(recs)))
	api.WriteJSONResponse(w, r, http.StatusOK, recs)
}

// GetSimilarDestinations godoc
// @Summary      Destinations similar to a destination
// @Description  Compares one destination to the rest of the catalog. method=weighted uses facet similarity, method=cosine uses encoded feature vectors.
// @Tags         Destinations
// @Produce      json
// @Param        destinationID path int true "Destination ID"
// @Param        k query int false "Number of results"
// @Param        method query string false "weighted or cosine"
// @Success      200 {array} types.SimilarityResult
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /destinations/{destinationID}/similar [get]
func (h *DestinationHandler) GetSimilarDestinations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "GetSimilarDestinations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/destinations/{destinationID}/similar"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetSimilarDestinations"))

	destinationID, err := parseID(chi.URLParam(r, "destinationID"))
	if err != nil {
		l.WarnContext(ctx, "Invalid destination ID", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid destination ID")
		return
	}
	k, err := h.count(r, "k", h.limits.DefaultSimilarCount)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	method := SimilarityMethod(strings.ToLower(r.URL.Query().Get("method")))

	results, err := h.service.GetSimilarDestinations(ctx, destinationID, k, method)
	if err != nil {
		if errors.Is(err, types.ErrInvalidArgument) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to get similar destinations", slog.Int64("destination_id", destinationID), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get similar destinations")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, results)
}

// GetUserProfile godoc
// @Summary      Preference profile of a user
// @Tags         Users
// @Produce      json
// @Param        userID path int true "User ID"
// @Success      200 {object} types.UserProfileResponse
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      404 {object} types.Response "No History"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /users/{userID}/profile [get]
func (h *DestinationHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "GetUserProfile", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/users/{userID}/profile"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetUserProfile"))

	userID, err := parseID(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	profile, ok, err := h.service.GetUserProfile(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to build profile", slog.Int64("user_id", userID), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to build user profile")
		return
	}
	if !ok {
		api.ErrorResponse(w, r, http.StatusNotFound, "User has no travel history")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// GetUserHistory godoc
// @Summary      Visit history of a user
// @Tags         Users
// @Produce      json
// @Param        userID path int true "User ID"
// @Success      200 {array} types.VisitDetail
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /users/{userID}/history [get]
func (h *DestinationHandler) GetUserHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "GetUserHistory", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/users/{userID}/history"),
	))
	defer span.End()

	userID, err := parseID(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	history, err := h.service.GetUserHistory(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to load user history", slog.Int64("user_id", userID), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load user history")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, history)
}

// GetHistoryStats godoc
// @Summary      Travel statistics of a user
// @Tags         Users
// @Produce      json
// @Param        userID path int true "User ID"
// @Success      200 {object} types.HistoryStats
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /users/{userID}/history/stats [get]
func (h *DestinationHandler) GetHistoryStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "GetHistoryStats", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/users/{userID}/history/stats"),
	))
	defer span.End()

	userID, err := parseID(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	stats, err := h.service.HistoryStats(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to compute history stats", slog.Int64("user_id", userID), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to compute history stats")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}

// ListDestinations godoc
// @Summary      List destinations
// @Description  Filters accept comma separated values and may be repeated.
// @Tags         Destinations
// @Produce      json
// @Param        country query string false "Country filter"
// @Param        type query string false "Destination type filter"
// @Param        climate query string false "Climate filter"
// @Success      200 {array} types.Destination
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /destinations [get]
func (h *DestinationHandler) ListDestinations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "ListDestinations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/destinations"),
	))
	defer span.End()

	destinations, err := h.service.ListDestinations(ctx, parseFilter(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list destinations", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list destinations")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, destinations)
}

// GetCatalogStats godoc
// @Summary      Catalog statistics
// @Tags         Destinations
// @Produce      json
// @Param        country query string false "Country filter"
// @Param        type query string false "Destination type filter"
// @Param        climate query string false "Climate filter"
// @Success      200 {object} types.CatalogStats
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /destinations/stats [get]
func (h *DestinationHandler) GetCatalogStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "GetCatalogStats", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/destinations/stats"),
	))
	defer span.End()

	stats, err := h.service.CatalogStats(ctx, parseFilter(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to compute catalog stats", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to compute catalog stats")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, stats)
}

// GetDestination godoc
// @Summary      Get a destination
// @Tags         Destinations
// @Produce      json
// @Param        destinationID path int true "Destination ID"
// @Success      200 {object} types.Destination
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      404 {object} types.Response "Destination Not Found"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /destinations/{destinationID} [get]
func (h *DestinationHandler) GetDestination(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "GetDestination", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/destinations/{destinationID}"),
	))
	defer span.End()

	destinationID, err := parseID(chi.URLParam(r, "destinationID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid destination ID")
		return
	}

	d, err := h.service.GetDestination(ctx, destinationID)
	if err != nil {
		if errors.Is(err, types.ErrDestinationNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Destination not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to get destination", slog.Int64("destination_id", destinationID), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to get destination")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, d)
}

// GetFeatureTable godoc
// @Summary      Encoded feature table
// @Description  One-hot and standardized features of every destination, as fed to cosine similarity.
// @Tags         Destinations
// @Produce      json
// @Success      200 {object} types.FeatureTableResponse
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /features [get]
func (h *DestinationHandler) GetFeatureTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DestinationHandler").Start(r.Context(), "GetFeatureTable", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/features"),
	))
	defer span.End()

	table, err := h.service.FeatureTable(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to encode features", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to encode features")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, table)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id < 0 {
		return 0, errors.New("id must not be negative")
	}
	return id, nil
}

// count reads a non-negative result size from the query string, capped at MaxCount.
func (h *DestinationHandler) count(r *http.Request, param string, def int) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("query parameter " + param + " must be a non-negative integer")
	}
	if h.limits.MaxCount > 0 && n > h.limits.MaxCount {
		n = h.limits.MaxCount
	}
	return n, nil
}

func parseFilter(r *http.Request) types.DestinationFilter {
	q := r.URL.Query()
	return types.DestinationFilter{
		Countries: splitQuery(q["country"]),
		Types:     splitQuery(q["type"]),
		Climates:  splitQuery(q["climate"]),
	}
}

func splitQuery(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, normalizeActivities(strings.Split(v, ","))...)
	}
	return out
}
