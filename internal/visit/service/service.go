// Package service is the visit lifecycle engine. It owns transition policy:
// every operation authorizes the actor first, validates against the state it
// observed, and then asks the store for a conditional transition so at most
// one of any set of racing actors wins.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gatehouse/internal/access"
	employeestore "gatehouse/internal/employee/store"
	visitmetrics "gatehouse/internal/visit/metrics"
	"gatehouse/internal/visit/models"
	visitstore "gatehouse/internal/visit/store"
	visitormodels "gatehouse/internal/visitor/models"
	visitorstore "gatehouse/internal/visitor/store"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/platform/sentinel"
	"gatehouse/pkg/requestcontext"
)

var tracer = otel.Tracer("gatehouse/visit")

// VisitService orchestrates the visit lifecycle and its queries.
type VisitService struct {
	visits         visitstore.VisitStore
	visitors       visitorstore.VisitorStore
	employees      employeestore.EmployeeStore
	metrics        *visitmetrics.Metrics
	logger         *slog.Logger
	registrationTx RegistrationTx
}

// Option configures optional service collaborators.
type Option func(*VisitService)

// WithRegistrationTx installs the transactional boundary for the
// visitor+visit pair. Postgres-backed deployments pass a runner that wraps
// both inserts in one transaction; the default runs the writes directly.
func WithRegistrationTx(tx RegistrationTx) Option {
	return func(s *VisitService) { s.registrationTx = tx }
}

func New(visits visitstore.VisitStore, visitors visitorstore.VisitorStore, employees employeestore.EmployeeStore, metrics *visitmetrics.Metrics, logger *slog.Logger, opts ...Option) *VisitService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &VisitService{
		visits:         visits,
		visitors:       visitors,
		employees:      employees,
		metrics:        metrics,
		logger:         logger,
		registrationTx: passthroughTx{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// VisitorInput carries the identity fields captured at the reception desk.
type VisitorInput struct {
	FullName string
	Phone    string
	Email    string
	Company  string
	IDType   visitormodels.IDType
	IDNumber string
}

// RegisterVisitInput is the full registration request: who is visiting,
// whom, and why.
type RegisterVisitInput struct {
	Visitor    VisitorInput
	EmployeeID id.EmployeeID
	Purpose    string
}

// RegisteredVisit pairs the new visit with the visitor record created
// alongside it.
type RegisteredVisit struct {
	Visit   *models.Visit
	Visitor *visitormodels.Visitor
}

// RegisterVisit creates a visitor record and a pending_approval visit in one
// operation. All validation happens before either write, so a rejected
// request never leaves a partial record behind.
func (s *VisitService) RegisterVisit(ctx context.Context, actor access.Actor, input RegisterVisitInput) (*RegisteredVisit, error) {
	ctx, span := tracer.Start(ctx, "visit.Register", trace.WithAttributes(
		attribute.String("actor.role", actor.Role.String()),
	))
	defer span.End()
	start := time.Now()

	if err := access.Authorize(actor, access.CapRegisterVisit); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	visitor, err := visitormodels.NewVisitor(id.NewVisitorID(),
		input.Visitor.FullName, input.Visitor.Phone, input.Visitor.Email,
		input.Visitor.Company, input.Visitor.IDType, input.Visitor.IDNumber, now)
	if err != nil {
		return nil, err
	}

	employee, err := s.employees.Get(ctx, input.EmployeeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeValidation, "unknown host employee")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "employee directory unavailable")
	}
	if !employee.Active {
		return nil, dErrors.New(dErrors.CodeValidation, "host employee is not active")
	}

	visit, err := models.NewVisit(id.NewVisitID(), visitor.ID, employee.ID, input.Purpose, now)
	if err != nil {
		return nil, err
	}

	err = s.registrationTx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.visitors.Create(txCtx, visitor); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to save visitor")
		}
		if err := s.visits.Create(txCtx, visit); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				// A reference the insert depends on vanished after validation.
				return dErrors.New(dErrors.CodeValidation, "host employee no longer exists")
			}
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to save visit")
		}
		return nil
	})
	if err != nil {
		// A transactional runner rolled both writes back; the passthrough
		// runner may have persisted the visitor, so unwind it here.
		if delErr := s.visitors.Delete(ctx, visitor.ID); delErr != nil {
			s.logger.WarnContext(ctx, "could not unwind visitor after failed registration",
				"request_id", requestcontext.RequestID(ctx),
				"visitor_id", visitor.ID.String(),
				"error", delErr,
			)
		}
		return nil, err
	}

	s.metrics.IncrementRegistered()
	s.metrics.ObserveRegister(start)
	s.logger.InfoContext(ctx, "visit registered",
		"request_id", requestcontext.RequestID(ctx),
		"visit_id", visit.ID.String(),
		"employee_id", employee.ID.String(),
	)
	return &RegisteredVisit{Visit: visit, Visitor: visitor}, nil
}

// ApproveVisit moves a pending visit to checked_in, stamping the deciding
// actor and the check-in time.
func (s *VisitService) ApproveVisit(ctx context.Context, actor access.Actor, visitID id.VisitID) (*models.Visit, error) {
	ctx, span := tracer.Start(ctx, "visit.Approve", trace.WithAttributes(
		attribute.String("visit.id", visitID.String()),
	))
	defer span.End()

	if err := access.Authorize(actor, access.CapDecideVisit); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	visit, err := s.transition(ctx, visitID, models.StatusPendingApproval,
		func(v *models.Visit) error {
			if err := v.CanApprove(); err != nil {
				return err
			}
			v.ApplyApproval(actor.ID, now)
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementApproved()
	s.logger.InfoContext(ctx, "visit approved",
		"request_id", requestcontext.RequestID(ctx),
		"visit_id", visit.ID.String(),
		"approved_by", actor.ID.String(),
	)
	return visit, nil
}

// RejectVisit moves a pending visit to the terminal rejected state. The
// reason is required; it is shown to the requesting party.
func (s *VisitService) RejectVisit(ctx context.Context, actor access.Actor, visitID id.VisitID, reason string) (*models.Visit, error) {
	ctx, span := tracer.Start(ctx, "visit.Reject", trace.WithAttributes(
		attribute.String("visit.id", visitID.String()),
	))
	defer span.End()

	if err := access.Authorize(actor, access.CapDecideVisit); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "rejection reason is required")
	}

	now := requestcontext.Now(ctx)
	visit, err := s.transition(ctx, visitID, models.StatusPendingApproval,
		func(v *models.Visit) error {
			if err := v.CanReject(); err != nil {
				return err
			}
			v.ApplyRejection(actor.ID, reason, now)
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementRejected()
	s.logger.InfoContext(ctx, "visit rejected",
		"request_id", requestcontext.RequestID(ctx),
		"visit_id", visit.ID.String(),
		"rejected_by", actor.ID.String(),
	)
	return visit, nil
}

// CheckOutVisit moves a checked_in visit to the terminal checked_out state.
func (s *VisitService) CheckOutVisit(ctx context.Context, actor access.Actor, visitID id.VisitID) (*models.Visit, error) {
	ctx, span := tracer.Start(ctx, "visit.CheckOut", trace.WithAttributes(
		attribute.String("visit.id", visitID.String()),
	))
	defer span.End()

	if err := access.Authorize(actor, access.CapCheckOutVisit); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	visit, err := s.transition(ctx, visitID, models.StatusCheckedIn,
		func(v *models.Visit) error {
			if err := v.CanCheckOut(); err != nil {
				return err
			}
			v.ApplyCheckOut(now)
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementCheckedOut()
	s.logger.InfoContext(ctx, "visit checked out",
		"request_id", requestcontext.RequestID(ctx),
		"visit_id", visit.ID.String(),
	)
	return visit, nil
}

// transition reads the visit, distinguishes "illegal from the state we
// observed" (invalid_state) from "legal when we looked but another actor got
// there first" (conflict), and translates store sentinels into coded errors.
func (s *VisitService) transition(ctx context.Context, visitID id.VisitID, from models.VisitStatus, mutate func(*models.Visit) error) (*models.Visit, error) {
	observed, err := s.visits.Get(ctx, visitID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if observed.Status != from {
		// Run the transition check against the observed state so the caller
		// gets the model's own message.
		if err := mutate(observed); err != nil {
			return nil, err
		}
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "visit is in state %s", observed.Status)
	}

	visit, err := s.visits.Transition(ctx, visitID, from, mutate)
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			s.metrics.IncrementConflict()
			return nil, dErrors.New(dErrors.CodeConflict, "visit was modified by another actor")
		}
		return nil, translateStoreErr(err)
	}
	return visit, nil
}

func translateStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "visit not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "visit already exists")
	case dErrors.HasCode(err, dErrors.CodeInvalidState), dErrors.HasCode(err, dErrors.CodeValidation):
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "visit store unavailable")
	}
}

