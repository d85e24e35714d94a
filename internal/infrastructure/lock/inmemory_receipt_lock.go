package lock

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryReceiptLock implements a per-receipt lock with an in-process map.
// Suitable for single-instance deployments and testing; it does not protect
// against a second process working on the same receipt.
type InMemoryReceiptLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewInMemoryReceiptLock creates a new in-memory receipt lock
func NewInMemoryReceiptLock() *InMemoryReceiptLock {
	return &InMemoryReceiptLock{
		locks: make(map[string]*sync.Mutex),
	}
}

// Acquire blocks until the receipt's lock is held
func (l *InMemoryReceiptLock) Acquire(ctx context.Context, tenantID, receiptID uuid.UUID) (func(), error) {
	key := tenantID.String() + ":" + receiptID.String()

	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		m.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return m.Unlock, nil
	case <-ctx.Done():
		// the goroutine will still take the mutex; give it back immediately
		go func() {
			<-acquired
			m.Unlock()
		}()
		return nil, ctx.Err()
	}
}

// Size returns the number of tracked receipt locks (for testing/monitoring)
func (l *InMemoryReceiptLock) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
