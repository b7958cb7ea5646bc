package httpapi

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the API router: h's routes plus /metrics served from
// gatherer, wrapped with request ids, request metrics and permissive CORS.
// A nil gatherer leaves /metrics unregistered.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	router := mux.NewRouter()
	h.RegisterRoutes(router)

	if gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)
	return requestID(h.instrument(router, cors(router)))
}
