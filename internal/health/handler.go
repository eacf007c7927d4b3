package health

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"baseapi/pkg/platform/httputil"
)

// Checker produces a health report.
type Checker interface {
	Check(ctx context.Context) Report
}

// Handler serves GET /health.
type Handler struct {
	checker Checker
}

func NewHandler(checker Checker) *Handler {
	return &Handler{checker: checker}
}

// Register registers the health route with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Check(r.Context())
	status := http.StatusOK
	if report.Status != StatusUp {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", "no-store")
	httputil.WriteJSON(w, status, report)
}
