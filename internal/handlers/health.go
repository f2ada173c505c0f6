package handlers

import (
	"net/http"
)

// HealthHandler responds with service health information.
type HealthHandler struct {
	// Mail, when set, lets the health check report whether delivery is configured.
	Mail interface{ CheckConfig() error }
}

type healthResponse struct {
	Status string `json:"status"`
	Mail   string `json:"mail,omitempty"`
}

// Handle implements GET /healthz.
func (h HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		respondError(r.Context(), w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	payload := healthResponse{Status: "ok"}
	if h.Mail != nil {
		payload.Mail = "configured"
		if err := h.Mail.CheckConfig(); err != nil {
			payload.Mail = "unconfigured"
		}
	}

	respondJSON(r.Context(), w, http.StatusOK, payload)
}
