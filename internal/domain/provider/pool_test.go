package provider

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

func TestPoolLimitsConcurrentLeases(t *testing.T) {
	pool := NewPool(2)
	ctx := context.Background()

	release1, err := pool.Acquire(ctx, TypeOpenAI)
	require.NoError(t, err)
	release2, err := pool.Acquire(ctx, TypeOpenAI)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pool.InUse(TypeOpenAI))

	// A different provider type has its own limit.
	releaseOther, err := pool.Acquire(ctx, TypeAnthropic)
	require.NoError(t, err)
	releaseOther()

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = pool.Acquire(waitCtx, TypeOpenAI)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeTimeout))

	release1()
	release1()
	assert.Equal(t, int64(1), pool.InUse(TypeOpenAI))

	release3, err := pool.Acquire(ctx, TypeOpenAI)
	require.NoError(t, err)
	release2()
	release3()
	assert.Equal(t, int64(0), pool.InUse(TypeOpenAI))
}

func TestPoolCapacityOverrideAndObserver(t *testing.T) {
	var mu sync.Mutex
	observed := map[Type]int{}
	pool := NewPool(8, WithCapacity(TypeOllama, 1), WithWaitObserver(func(tp Type, _ time.Duration) {
		mu.Lock()
		observed[tp]++
		mu.Unlock()
	}))

	release, err := pool.Acquire(context.Background(), TypeOllama)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r, err := pool.Acquire(context.Background(), TypeOllama)
		if err == nil {
			r()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second lease acquired while capacity was exhausted")
	case <-time.After(20 * time.Millisecond):
	}
	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lease was not handed over after release")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, observed[TypeOllama])
}

func TestHandleAcquireWithoutPool(t *testing.T) {
	h := &Handle[fakeClient]{Type: TypeOpenAI}
	release, err := h.Acquire(context.Background())
	require.NoError(t, err)
	release()
}
