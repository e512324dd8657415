package locks

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex(2 * time.Second)

	var mu sync.Mutex
	active := 0
	maxActive := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := km.Acquire(context.Background(), "invoice:abc")
			require.NoError(t, err)
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive, "two holders of the same key must never overlap")
}

func TestKeyedMutexIndependentKeysDoNotBlock(t *testing.T) {
	km := NewKeyedMutex(time.Second)

	r1, err := km.Acquire(context.Background(), "invoice:a")
	require.NoError(t, err)
	defer r1()

	done := make(chan struct{})
	go func() {
		r2, err := km.Acquire(context.Background(), "invoice:b")
		require.NoError(t, err)
		r2()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("different key should acquire immediately")
	}
}

func TestKeyedMutexTimesOutBusy(t *testing.T) {
	km := NewKeyedMutex(50 * time.Millisecond)

	release, err := km.Acquire(context.Background(), "order:1")
	require.NoError(t, err)

	_, err = km.Acquire(context.Background(), "order:1")
	assert.ErrorIs(t, err, ErrBusy)

	release()

	// lock is usable again after release
	r2, err := km.Acquire(context.Background(), "order:1")
	require.NoError(t, err)
	r2()
}

func TestKeyedMutexContextCancel(t *testing.T) {
	km := NewKeyedMutex(5 * time.Second)

	release, err := km.Acquire(context.Background(), "transfer:9")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err = km.Acquire(ctx, "transfer:9")
	assert.ErrorIs(t, err, ErrBusy)
}

func TestKeyHashStable(t *testing.T) {
	assert.Equal(t, KeyHash("invoice:x"), KeyHash("invoice:x"))
	assert.NotEqual(t, KeyHash("invoice:x"), KeyHash("invoice:y"))
}
