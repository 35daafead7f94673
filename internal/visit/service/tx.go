package service

import "context"

// RegistrationTx is the transactional boundary for the visitor+visit pair
// written by RegisterVisit. Implementations may wrap a database transaction
// or, in-memory, run the writes directly and rely on the service's unwind.
type RegistrationTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// passthroughTx runs the registration against the bare stores. Used with the
// in-memory stores, where a failed visit write is unwound by deleting the
// visitor record instead of rolling back.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
