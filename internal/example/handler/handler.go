package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"baseapi/internal/example/models"
	"baseapi/internal/platform/middleware"
	dErrors "baseapi/pkg/domain-errors"
	"baseapi/pkg/platform/httputil"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

// Service defines the interface for example operations.
type Service interface {
	Create(ctx context.Context, candidate *models.Example) (*models.Example, error)
	FindByNationalID(ctx context.Context, nationalID string) (*models.Example, bool, error)
}

// Handler serves the /examples routes.
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

// Register registers the example routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/examples", func(r chi.Router) {
		r.With(middleware.ContentTypeJSON).Post("/", h.handleCreate)
		r.Get("/dni/{dni}", h.handleGetByNationalID)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req CreateExampleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid create example request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	candidate, err := req.ToCandidate()
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeValidation, err.Error()))
		return
	}

	created, err := h.service.Create(ctx, candidate)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			h.logger.InfoContext(ctx, "duplicate national ID rejected", "request_id", requestID)
		} else {
			h.logger.ErrorContext(ctx, "failed to create example",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Location", "/examples/dni/"+created.NationalID)
	httputil.WriteJSON(w, http.StatusCreated, toExampleResponse(created))
}

func (h *Handler) handleGetByNationalID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	nationalID := chi.URLParam(r, "dni")

	found, ok, err := h.service.FindByNationalID(ctx, nationalID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load example",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "example not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toExampleResponse(found))
}
