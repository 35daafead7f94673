package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gatehouse/internal/access"
	"gatehouse/internal/visit/models"
	"gatehouse/internal/visit/service"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/platform/httputil"
	"gatehouse/pkg/requestcontext"
)

// Service defines the visit operations the handler needs.
type Service interface {
	RegisterVisit(ctx context.Context, actor access.Actor, input service.RegisterVisitInput) (*service.RegisteredVisit, error)
	ApproveVisit(ctx context.Context, actor access.Actor, visitID id.VisitID) (*models.Visit, error)
	RejectVisit(ctx context.Context, actor access.Actor, visitID id.VisitID, reason string) (*models.Visit, error)
	CheckOutVisit(ctx context.Context, actor access.Actor, visitID id.VisitID) (*models.Visit, error)
	PendingApprovals(ctx context.Context, actor access.Actor) ([]*service.VisitDetail, error)
	ActiveVisits(ctx context.Context, actor access.Actor, search string) ([]*service.VisitDetail, error)
	Stats(ctx context.Context, actor access.Actor) (*service.DashboardStats, error)
	RecentActivity(ctx context.Context, actor access.Actor, limit int) ([]*service.VisitDetail, error)
}

// Handler wires visit endpoints to the lifecycle service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a visit handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts visit and dashboard endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/visits", h.HandleRegister)
	r.Get("/visits/pending", h.HandlePending)
	r.Get("/visits/active", h.HandleActive)
	r.Post("/visits/{visitID}/approve", h.HandleApprove)
	r.Post("/visits/{visitID}/reject", h.HandleReject)
	r.Post("/visits/{visitID}/checkout", h.HandleCheckOut)
	r.Get("/dashboard/stats", h.HandleStats)
	r.Get("/dashboard/recent", h.HandleRecent)
}

func actorFrom(ctx context.Context) access.Actor {
	return access.Actor{
		ID:   requestcontext.ActorID(ctx),
		Role: requestcontext.ActorRole(ctx),
	}
}

// HandleRegister handles POST /visits.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterVisitRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}
	input, err := req.ToInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	registered, err := h.service.RegisterVisit(ctx, actorFrom(ctx), input)
	if err != nil {
		h.logger.WarnContext(ctx, "visit registration failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, RegisterVisitResponse{
		Visit:   fromVisit(registered.Visit),
		Visitor: *registered.Visitor,
	})
}

// HandlePending handles GET /visits/pending.
func (h *Handler) HandlePending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pending, err := h.service.PendingApprovals(ctx, actorFrom(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromDetails(pending))
}

// HandleActive handles GET /visits/active?q=.
func (h *Handler) HandleActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	active, err := h.service.ActiveVisits(ctx, actorFrom(ctx), r.URL.Query().Get("q"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromDetails(active))
}

// HandleApprove handles POST /visits/{visitID}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ApproveVisit)
}

// HandleCheckOut handles POST /visits/{visitID}/checkout.
func (h *Handler) HandleCheckOut(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CheckOutVisit)
}

// HandleReject handles POST /visits/{visitID}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	visitID, err := id.ParseVisitID(chi.URLParam(r, "visitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[RejectVisitRequest](w, r, h.logger, requestID)
	if !ok {
		return
	}

	visit, err := h.service.RejectVisit(ctx, actorFrom(ctx), visitID, req.Reason)
	if err != nil {
		h.logger.WarnContext(ctx, "visit rejection failed",
			"request_id", requestID,
			"visit_id", visitID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromVisit(visit))
}

// HandleStats handles GET /dashboard/stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.service.Stats(ctx, actorFrom(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// HandleRecent handles GET /dashboard/recent?limit=.
func (h *Handler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	recent, err := h.service.RecentActivity(ctx, actorFrom(ctx), limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromDetails(recent))
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, access.Actor, id.VisitID) (*models.Visit, error)) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	visitID, err := id.ParseVisitID(chi.URLParam(r, "visitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	visit, err := op(ctx, actorFrom(ctx), visitID)
	if err != nil {
		h.logger.WarnContext(ctx, "visit transition failed",
			"request_id", requestID,
			"visit_id", visitID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromVisit(visit))
}
