package provider

import "context"

// Handle is a resolved provider client. Callers must hold a lease from
// Acquire while the client performs its outbound call.
type Handle[C any] struct {
	Type        Type
	Capability  Capability
	DisplayName string
	Client      C

	pool *Pool
}

// Acquire takes a lease on the handle's provider. Without a pool it returns
// a no-op release.
func (h *Handle[C]) Acquire(ctx context.Context) (func(), error) {
	if h.pool == nil {
		return func() {}, nil
	}
	return h.pool.Acquire(ctx, h.Type)
}
