package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"baseapi/internal/examplestatus/models"
	"baseapi/internal/platform/middleware"
	dErrors "baseapi/pkg/domain-errors"
	"baseapi/pkg/platform/httputil"
)

// Service defines the catalog reads the handler needs.
type Service interface {
	GetByID(ctx context.Context, id string) (*models.ExampleStatus, bool)
	ListAll(ctx context.Context) ([]*models.ExampleStatus, error)
	ListActive(ctx context.Context) ([]*models.ExampleStatus, error)
}

// Handler serves the /example-status routes.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register registers the catalog routes with the chi router. The static
// /active route is matched before the {id} pattern.
func (h *Handler) Register(r chi.Router) {
	r.Route("/example-status", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/active", h.handleListActive)
		r.Get("/{id}", h.handleGet)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.service.ListAll)
}

func (h *Handler) handleListActive(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.service.ListActive)
}

func (h *Handler) writeList(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]*models.ExampleStatus, error)) {
	ctx := r.Context()
	statuses, err := list(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list example statuses",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	if statuses == nil {
		statuses = []*models.ExampleStatus{}
	}
	httputil.WriteJSON(w, http.StatusOK, statuses)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	st, ok := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "example status not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}
