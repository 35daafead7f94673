package store

import (
	"context"
	"time"

	"gatehouse/internal/visit/models"
	id "gatehouse/pkg/domain"
)

// VisitStore is the persistence boundary for visit records. Stores are pure
// I/O: transition legality lives in the model, policy in the service. They
// report infrastructure facts through pkg/platform/sentinel; the service
// translates those into coded domain errors.
//
// Transition is the only write path after Create. It applies mutate under the
// store's concurrency guard keyed on (visit id, expected prior status): the
// memory store holds its mutex across the check and the mutation, the
// postgres store issues a single conditional UPDATE. At most one of any set
// of concurrent callers observes success; losers get sentinel.ErrInvalidState
// (record exists, status moved on) or sentinel.ErrNotFound.
type VisitStore interface {
	Create(ctx context.Context, visit *models.Visit) error
	Get(ctx context.Context, visitID id.VisitID) (*models.Visit, error)
	Transition(ctx context.Context, visitID id.VisitID, from models.VisitStatus, mutate func(*models.Visit) error) (*models.Visit, error)

	// ListPending returns pending_approval visits, oldest first.
	ListPending(ctx context.Context) ([]*models.Visit, error)
	// ListActive returns checked_in visits, most recent check-in first.
	ListActive(ctx context.Context) ([]*models.Visit, error)
	// ListRecent returns the most recently created visits, newest first.
	ListRecent(ctx context.Context, limit int) ([]*models.Visit, error)

	CountByStatus(ctx context.Context, status models.VisitStatus) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}
