package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatehouse/internal/access"
	"gatehouse/internal/employee/models"
	"gatehouse/pkg/platform/httputil"
	"gatehouse/pkg/requestcontext"
)

// Service defines the employee operations the handler needs.
type Service interface {
	ListActiveEmployees(ctx context.Context, actor access.Actor) ([]*models.Employee, error)
}

// Handler serves the employee picker for the registration form.
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

// Register mounts employee endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/employees", h.HandleListActive)
}

// HandleListActive handles GET /employees.
func (h *Handler) HandleListActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := access.Actor{
		ID:   requestcontext.ActorID(ctx),
		Role: requestcontext.ActorRole(ctx),
	}
	employees, err := h.service.ListActiveEmployees(ctx, actor)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, employees)
}
