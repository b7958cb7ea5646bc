package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ironsheep/landcover-analytics/internal/catalog"
	"github.com/ironsheep/landcover-analytics/internal/logging"
	"github.com/ironsheep/landcover-analytics/internal/metrics"
	"github.com/ironsheep/landcover-analytics/internal/service"
)

const component = "httpapi"

// Handler serves the land-cover HTTP API.
type Handler struct {
	svc     *service.Service
	logger  *logging.Logger
	metrics *metrics.Collector
	version string
}

// NewHandler creates a new API handler. A nil logger discards logs and a
// nil collector disables request metrics.
func NewHandler(svc *service.Service, logger *logging.Logger, metricsCollector *metrics.Collector, version string) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{
		svc:     svc,
		logger:  logger,
		metrics: metricsCollector,
		version: version,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by GET /.
type HealthResponse struct {
	Status  string          `json:"status"`
	Service string          `json:"service"`
	Version string          `json:"version"`
	Catalog catalog.Listing `json:"catalog"`
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Health).Methods("GET")

	router.HandleFunc("/lulc/{year}", h.GetLULCStats).Methods("GET")
	router.HandleFunc("/change/{start}/{end}", h.GetChangeStats).Methods("GET")

	router.HandleFunc("/confidence/{year}", h.GetConfidence).Methods("GET")
	router.HandleFunc("/confidence/lulc/{year}", h.GetConfidenceByClass).Methods("GET")
	router.HandleFunc("/confidence/change/{start}/{end}", h.GetConfidenceByChange).Methods("GET")
	router.HandleFunc("/confidence/bands/{year}", h.GetConfidenceBands).Methods("GET")

	router.HandleFunc("/map/bounds", h.GetBounds).Methods("GET")
	router.HandleFunc("/map/legend", h.GetLegend).Methods("GET")
	router.HandleFunc("/map/lulc/{year}", h.GetLULCMap).Methods("GET")
	router.HandleFunc("/map/change/{start}/{end}", h.GetChangeMap).Methods("GET")
	router.HandleFunc("/map/confidence/{year}", h.GetConfidenceMap).Methods("GET")
	router.HandleFunc("/map/composite/{start}/{end}", h.GetCompositeMap).Methods("GET")
}

// Health handles GET /
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, HealthResponse{
		Status:  "ok",
		Service: "landcover-analytics",
		Version: h.version,
		Catalog: h.svc.Catalog(),
	}, http.StatusOK)
}

// GetLULCStats handles GET /lulc/{year}
func (h *Handler) GetLULCStats(w http.ResponseWriter, r *http.Request) {
	year, ok := h.pathInt(w, r, "year")
	if !ok {
		return
	}
	pixelSize, ok := h.queryPixelSize(w, r)
	if !ok {
		return
	}

	result, err := h.svc.LULCStats(r.Context(), year, pixelSize)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendJSON(w, result, http.StatusOK)
}

// GetChangeStats handles GET /change/{start}/{end}
func (h *Handler) GetChangeStats(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.pathPair(w, r)
	if !ok {
		return
	}
	pixelSize, ok := h.queryPixelSize(w, r)
	if !ok {
		return
	}

	result, err := h.svc.ChangeStats(r.Context(), start, end, pixelSize)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendJSON(w, result, http.StatusOK)
}

// GetConfidence handles GET /confidence/{year}
func (h *Handler) GetConfidence(w http.ResponseWriter, r *http.Request) {
	year, ok := h.pathInt(w, r, "year")
	if !ok {
		return
	}

	result, err := h.svc.YearConfidenceSummary(r.Context(), year)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendJSON(w, result, http.StatusOK)
}

// GetConfidenceByClass handles GET /confidence/lulc/{year}
func (h *Handler) GetConfidenceByClass(w http.ResponseWriter, r *http.Request) {
	year, ok := h.pathInt(w, r, "year")
	if !ok {
		return
	}

	result, err := h.svc.YearConfidenceByClass(r.Context(), year)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendJSON(w, result, http.StatusOK)
}

// GetConfidenceByChange handles GET /confidence/change/{start}/{end}
func (h *Handler) GetConfidenceByChange(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.pathPair(w, r)
	if !ok {
		return
	}

	result, err := h.svc.ChangeConfidenceStats(r.Context(), start, end)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendJSON(w, result, http.StatusOK)
}

// GetConfidenceBands handles GET /confidence/bands/{year}
func (h *Handler) GetConfidenceBands(w http.ResponseWriter, r *http.Request) {
	year, ok := h.pathInt(w, r, "year")
	if !ok {
		return
	}

	result, err := h.svc.YearConfidenceBands(r.Context(), year)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendJSON(w, result, http.StatusOK)
}

// GetBounds handles GET /map/bounds
func (h *Handler) GetBounds(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, map[string]interface{}{"bounds": h.svc.Bounds()}, http.StatusOK)
}

// GetLegend handles GET /map/legend
func (h *Handler) GetLegend(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, h.svc.Legend(), http.StatusOK)
}

// GetLULCMap handles GET /map/lulc/{year}
func (h *Handler) GetLULCMap(w http.ResponseWriter, r *http.Request) {
	year, ok := h.pathInt(w, r, "year")
	if !ok {
		return
	}
	h.sendMap(w, r, func(ctx context.Context) (image.Image, error) {
		return h.svc.LULCMap(ctx, year)
	})
}

// GetChangeMap handles GET /map/change/{start}/{end}
func (h *Handler) GetChangeMap(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.pathPair(w, r)
	if !ok {
		return
	}
	h.sendMap(w, r, func(ctx context.Context) (image.Image, error) {
		return h.svc.YearChangeMap(ctx, start, end)
	})
}

// GetConfidenceMap handles GET /map/confidence/{year}
func (h *Handler) GetConfidenceMap(w http.ResponseWriter, r *http.Request) {
	year, ok := h.pathInt(w, r, "year")
	if !ok {
		return
	}
	h.sendMap(w, r, func(ctx context.Context) (image.Image, error) {
		return h.svc.YearConfidenceMap(ctx, year)
	})
}

// GetCompositeMap handles GET /map/composite/{start}/{end}
func (h *Handler) GetCompositeMap(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.pathPair(w, r)
	if !ok {
		return
	}
	h.sendMap(w, r, func(ctx context.Context) (image.Image, error) {
		return h.svc.YearCompositeMap(ctx, start, end)
	})
}

// sendMap renders a map and writes it as PNG, honouring ?max_dim=.
func (h *Handler) sendMap(w http.ResponseWriter, r *http.Request, render func(context.Context) (image.Image, error)) {
	maxDim, ok := h.queryInt(w, r, "max_dim")
	if !ok {
		return
	}

	img, err := render(r.Context())
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	data, err := h.svc.PNG(img, maxDim)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := mux.Vars(r)[name]
	v, err := strconv.Atoi(raw)
	if err != nil {
		h.sendError(w, r, fmt.Sprintf("invalid %s %q, expected an integer", name, raw), http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func (h *Handler) pathPair(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	start, ok := h.pathInt(w, r, "start")
	if !ok {
		return 0, 0, false
	}
	end, ok := h.pathInt(w, r, "end")
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// queryPixelSize returns nil when ?pixel_size= is absent so the configured
// size applies. A given value, zero included, goes to the engine as is.
func (h *Handler) queryPixelSize(w http.ResponseWriter, r *http.Request) (*float64, bool) {
	q := r.URL.Query()
	if !q.Has("pixel_size") {
		return nil, true
	}
	raw := q.Get("pixel_size")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		h.sendError(w, r, fmt.Sprintf("invalid pixel_size %q, expected a number", raw), http.StatusBadRequest)
		return nil, false
	}
	return &v, true
}

// queryInt returns 0 when the parameter is absent.
func (h *Handler) queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		h.sendError(w, r, fmt.Sprintf("invalid %s %q, expected an integer", name, raw), http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch service.KindOf(err) {
	case service.KindPrecondition:
		return http.StatusBadRequest
	case service.KindNotAvailable, service.KindNoData:
		return http.StatusNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *Handler) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error(component, "[API_ERROR] Request failed", err, logging.Fields{
			"request_id": RequestID(r.Context()),
			"path":       r.URL.Path,
		})
		h.sendError(w, r, "internal error", code)
		return
	}
	h.sendError(w, r, err.Error(), code)
}

// sendJSON sends a JSON response
func (h *Handler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}
