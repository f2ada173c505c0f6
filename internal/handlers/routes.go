package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{Mail: deps.Dispatcher}
	contactHandler := ContactHandler{
		Limiter:    deps.Limiter,
		Stats:      deps.Stats,
		Dispatcher: deps.Dispatcher,
	}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/contact", contactHandler.Submit)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Limiter    RateLimiter
	Stats      DecisionRecorder
	Dispatcher ContactDispatcher
}
