package lock

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryReceiptLock_AcquireRelease(t *testing.T) {
	locker := NewInMemoryReceiptLock()
	tenantID := uuid.New()
	receiptID := uuid.New()

	release, err := locker.Acquire(context.Background(), tenantID, receiptID)
	require.NoError(t, err)
	require.NotNil(t, release)
	assert.Equal(t, 1, locker.Size())

	release()

	// reacquire after release should succeed immediately
	release2, err := locker.Acquire(context.Background(), tenantID, receiptID)
	require.NoError(t, err)
	release2()
}

func TestInMemoryReceiptLock_BlocksSecondHolder(t *testing.T) {
	locker := NewInMemoryReceiptLock()
	tenantID := uuid.New()
	receiptID := uuid.New()

	release, err := locker.Acquire(context.Background(), tenantID, receiptID)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		release2, err := locker.Acquire(context.Background(), tenantID, receiptID)
		assert.NoError(t, err)
		close(acquired)
		release2()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired the lock while the first still held it")
	case <-time.After(50 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second holder never acquired the lock after release")
	}
}

func TestInMemoryReceiptLock_DistinctReceiptsDoNotContend(t *testing.T) {
	locker := NewInMemoryReceiptLock()
	tenantID := uuid.New()

	release1, err := locker.Acquire(context.Background(), tenantID, uuid.New())
	require.NoError(t, err)
	defer release1()

	done := make(chan struct{})
	go func() {
		release2, err := locker.Acquire(context.Background(), tenantID, uuid.New())
		assert.NoError(t, err)
		release2()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different receipt should not block")
	}

	assert.Equal(t, 2, locker.Size())
}

func TestInMemoryReceiptLock_ContextCancelled(t *testing.T) {
	locker := NewInMemoryReceiptLock()
	tenantID := uuid.New()
	receiptID := uuid.New()

	release, err := locker.Acquire(context.Background(), tenantID, receiptID)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = locker.Acquire(ctx, tenantID, receiptID)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFactory_FallsBackToInMemory(t *testing.T) {
	// point at a port nobody listens on so the Redis dial fails fast
	factory := NewFactory(
		redisUnreachableConfig(),
		lockTestConfig(),
	)

	locker, err := factory.CreateLocker()
	require.NoError(t, err)
	_, ok := locker.(*InMemoryReceiptLock)
	assert.True(t, ok)
}

func TestFactory_NoFallbackReturnsError(t *testing.T) {
	factory := NewFactory(
		redisUnreachableConfig(),
		lockTestConfig(),
		WithInMemoryFallback(false),
	)

	locker, err := factory.CreateLocker()
	require.Error(t, err)
	assert.Nil(t, locker)
}
