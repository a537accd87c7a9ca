package provider

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

// WaitObserver is told how long each lease acquisition waited.
type WaitObserver func(providerType Type, wait time.Duration)

// Pool caps the number of in-flight outbound calls per provider type.
// Leases are shared by every capability of the same provider.
type Pool struct {
	defaultCapacity int64
	capacities      map[Type]int64
	observer        WaitObserver

	mu    sync.Mutex
	sems  map[Type]*semaphore.Weighted
	inUse map[Type]int64
}

type PoolOption func(*Pool)

// WithCapacity overrides the lease limit of one provider type.
func WithCapacity(providerType Type, capacity int64) PoolOption {
	return func(p *Pool) {
		if capacity > 0 {
			p.capacities[providerType] = capacity
		}
	}
}

func WithWaitObserver(observer WaitObserver) PoolOption {
	return func(p *Pool) {
		p.observer = observer
	}
}

// NewPool creates a pool with defaultCapacity leases per provider type.
func NewPool(defaultCapacity int64, opts ...PoolOption) *Pool {
	if defaultCapacity <= 0 {
		defaultCapacity = 1
	}
	p := &Pool{
		defaultCapacity: defaultCapacity,
		capacities:      make(map[Type]int64),
		sems:            make(map[Type]*semaphore.Weighted),
		inUse:           make(map[Type]int64),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pool) semaphoreFor(providerType Type) *semaphore.Weighted {
	p.mu.Lock()
	defer p.mu.Unlock()
	sem, ok := p.sems[providerType]
	if !ok {
		capacity := p.defaultCapacity
		if c, found := p.capacities[providerType]; found {
			capacity = c
		}
		sem = semaphore.NewWeighted(capacity)
		p.sems[providerType] = sem
	}
	return sem
}

// Acquire blocks until a lease for providerType is free or ctx is done.
// The returned release func is safe to call more than once; only the first
// call returns the lease.
func (p *Pool) Acquire(ctx context.Context, providerType Type) (func(), error) {
	sem := p.semaphoreFor(providerType)
	started := time.Now()
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "acquire provider lease")
	}
	if p.observer != nil {
		p.observer(providerType, time.Since(started))
	}

	p.mu.Lock()
	p.inUse[providerType]++
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			p.inUse[providerType]--
			p.mu.Unlock()
			sem.Release(1)
		})
	}, nil
}

// InUse returns the number of leases currently held for providerType.
func (p *Pool) InUse(providerType Type) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse[providerType]
}
