package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

func newTestReceivingMetrics(t *testing.T, provider PayablesMetricsProvider) *ReceivingMetrics {
	t.Helper()

	rm, err := NewReceivingMetrics(ReceivingMetricsConfig{
		Meter:            noop.NewMeterProvider().Meter("test"),
		Logger:           zap.NewNop(),
		PayablesProvider: provider,
	})
	require.NoError(t, err)
	return rm
}

type stubPayablesProvider struct {
	mu    sync.Mutex
	calls int
	count int64
	total decimal.Decimal
}

func (s *stubPayablesProvider) GetOpenDebitNoteStats(_ context.Context, _ uuid.UUID) (int64, decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.count, s.total, nil
}

func (s *stubPayablesProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubTenantProvider struct {
	ids []uuid.UUID
}

func (s *stubTenantProvider) GetActiveTenantIDs(_ context.Context) ([]uuid.UUID, error) {
	return s.ids, nil
}

func TestNewReceivingMetrics(t *testing.T) {
	rm := newTestReceivingMetrics(t, nil)
	assert.NotNil(t, rm)
}

func TestNewReceivingMetrics_NilMeter(t *testing.T) {
	_, err := NewReceivingMetrics(ReceivingMetricsConfig{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestReceivingMetrics_RecordCounters(t *testing.T) {
	rm := newTestReceivingMetrics(t, nil)
	ctx := context.Background()
	tenantID := uuid.New()

	assert.NotPanics(t, func() {
		rm.RecordReceiptCompleted(ctx, tenantID, decimal.NewFromFloat(12500.50))
		rm.RecordDebitNoteRaised(ctx, tenantID, uuid.New())
		rm.RecordUIDsIssued(ctx, tenantID, "SERIALIZED", 25)
		rm.RecordStockPosting(ctx, tenantID, uuid.New())
		rm.RecordOpenPayables(ctx, tenantID, 3, decimal.NewFromInt(4500))
	})
}

func TestReceivingMetrics_PeriodicCollection(t *testing.T) {
	provider := &stubPayablesProvider{count: 2, total: decimal.NewFromInt(800)}
	rm := newTestReceivingMetrics(t, provider)
	defer rm.Stop()

	tenants := &stubTenantProvider{ids: []uuid.UUID{uuid.New(), uuid.New()}}
	rm.StartPeriodicCollection(context.Background(), tenants, time.Hour)

	// first collection runs immediately on start
	assert.Eventually(t, func() bool {
		return provider.callCount() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestReceivingMetrics_PeriodicCollection_NoProvider(t *testing.T) {
	rm := newTestReceivingMetrics(t, nil)
	defer rm.Stop()

	tenants := &stubTenantProvider{ids: []uuid.UUID{uuid.New()}}

	assert.NotPanics(t, func() {
		rm.StartPeriodicCollection(context.Background(), tenants, time.Hour)
	})
}

func TestReceivingMetrics_Stop_Idempotent(t *testing.T) {
	rm := newTestReceivingMetrics(t, nil)

	assert.NotPanics(t, func() {
		rm.Stop()
		rm.Stop()
	})
}

func TestReceivingMetrics_StartPeriodicCollection_OnlyOnce(t *testing.T) {
	provider := &stubPayablesProvider{}
	rm := newTestReceivingMetrics(t, provider)
	defer rm.Stop()

	tenants := &stubTenantProvider{ids: []uuid.UUID{uuid.New()}}
	rm.StartPeriodicCollection(context.Background(), tenants, time.Hour)
	rm.StartPeriodicCollection(context.Background(), tenants, time.Hour)

	assert.Eventually(t, func() bool {
		return provider.callCount() == 1
	}, time.Second, 10*time.Millisecond)

	// a second goroutine would have doubled the immediate collection
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, provider.callCount())
}

func TestMetricsError_Error(t *testing.T) {
	err := &MetricsError{Op: "TestOp", Err: "boom"}
	assert.Equal(t, "TestOp: boom", err.Error())
}
