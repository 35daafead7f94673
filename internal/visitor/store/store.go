package store

import (
	"context"

	"gatehouse/internal/visitor/models"
	id "gatehouse/pkg/domain"
)

// VisitorStore persists visitor identity records. Records are write-once:
// there is no update path, and no automatic deduplication of returning
// guests.
type VisitorStore interface {
	Create(ctx context.Context, visitor *models.Visitor) error
	// Delete removes a visitor record. It exists only to unwind a
	// registration whose visit write failed; a missing record is not an
	// error.
	Delete(ctx context.Context, visitorID id.VisitorID) error
	Get(ctx context.Context, visitorID id.VisitorID) (*models.Visitor, error)
	GetMany(ctx context.Context, visitorIDs []id.VisitorID) (map[id.VisitorID]*models.Visitor, error)
	// Count reports all visitors ever registered.
	Count(ctx context.Context) (int, error)
}
