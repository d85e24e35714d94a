package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ReceivingMetrics tracks goods-receipt activity: completed receipts, issued
// identifiers, stock postings, debit claims and the open payables position.
type ReceivingMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	receiptCompletedTotal *Counter
	receiptAmountTotal    *Counter
	debitNoteRaisedTotal  *Counter
	uidIssuedTotal        *Counter
	stockPostingTotal     *Counter

	openDebitNoteCount *Gauge
	openPayablesAmount *FloatGauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	payablesProvider PayablesMetricsProvider
}

// PayablesMetricsProvider reports the open vendor-claim position for a tenant.
// The interface keeps the telemetry layer off the receiving domain packages.
type PayablesMetricsProvider interface {
	// GetOpenDebitNoteStats returns the count and total amount of debit notes
	// that are neither closed nor cancelled for a tenant.
	GetOpenDebitNoteStats(ctx context.Context, tenantID uuid.UUID) (int64, decimal.Decimal, error)
}

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// ReceivingMetricsConfig holds configuration for receiving metrics.
type ReceivingMetricsConfig struct {
	Meter            metric.Meter
	Logger           *zap.Logger
	PayablesProvider PayablesMetricsProvider
}

// NewReceivingMetrics creates a new ReceivingMetrics instance.
func NewReceivingMetrics(cfg ReceivingMetricsConfig) (*ReceivingMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rm := &ReceivingMetrics{
		meter:            cfg.Meter,
		logger:           logger,
		stopChan:         make(chan struct{}),
		payablesProvider: cfg.PayablesProvider,
	}

	var err error

	rm.receiptCompletedTotal, err = NewCounter(
		cfg.Meter,
		"backoffice_receipt_completed_total",
		"Total number of goods receipts completed",
		"{receipts}",
	)
	if err != nil {
		return nil, err
	}

	rm.receiptAmountTotal, err = NewCounter(
		cfg.Meter,
		"backoffice_receipt_amount_total",
		"Total net payable amount of completed receipts in paise",
		"{paise}",
	)
	if err != nil {
		return nil, err
	}

	rm.debitNoteRaisedTotal, err = NewCounter(
		cfg.Meter,
		"backoffice_debit_note_raised_total",
		"Total number of debit notes raised against vendors",
		"{notes}",
	)
	if err != nil {
		return nil, err
	}

	rm.uidIssuedTotal, err = NewCounter(
		cfg.Meter,
		"backoffice_uid_issued_total",
		"Total number of traceability identifiers issued",
		"{uids}",
	)
	if err != nil {
		return nil, err
	}

	rm.stockPostingTotal, err = NewCounter(
		cfg.Meter,
		"backoffice_stock_posting_total",
		"Total number of stock ledger postings from receipts",
		"{postings}",
	)
	if err != nil {
		return nil, err
	}

	rm.openDebitNoteCount, err = NewGauge(
		cfg.Meter,
		"backoffice_open_debit_note_count",
		"Number of debit notes not yet closed or cancelled",
		"{notes}",
	)
	if err != nil {
		return nil, err
	}

	rm.openPayablesAmount, err = NewFloatGauge(
		cfg.Meter,
		"backoffice_open_payables_amount",
		"Open debit claim amount against vendors in rupees",
		"{rupees}",
	)
	if err != nil {
		return nil, err
	}

	return rm, nil
}

// RecordReceiptCompleted records a receipt completion with its net payable.
// Amount is converted to paise so the counter stays integral.
func (rm *ReceivingMetrics) RecordReceiptCompleted(ctx context.Context, tenantID uuid.UUID, netPayable decimal.Decimal) {
	rm.receiptCompletedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
	)
	rm.receiptAmountTotal.Add(ctx, netPayable.Mul(decimal.NewFromInt(100)).IntPart(),
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordDebitNoteRaised records the creation of a debit note.
func (rm *ReceivingMetrics) RecordDebitNoteRaised(ctx context.Context, tenantID, vendorID uuid.UUID) {
	rm.debitNoteRaisedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrVendorID.String(vendorID.String()),
	)
}

// RecordUIDsIssued records a batch of issued identifiers.
func (rm *ReceivingMetrics) RecordUIDsIssued(ctx context.Context, tenantID uuid.UUID, strategy string, count int64) {
	rm.uidIssuedTotal.Add(ctx, count,
		AttrTenantID.String(tenantID.String()),
		AttrUIDStrategy.String(strategy),
	)
}

// RecordStockPosting records a stock ledger posting for a warehouse.
func (rm *ReceivingMetrics) RecordStockPosting(ctx context.Context, tenantID, warehouseID uuid.UUID) {
	rm.stockPostingTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrWarehouseID.String(warehouseID.String()),
	)
}

// RecordOpenPayables records the current open debit claim position for a tenant.
func (rm *ReceivingMetrics) RecordOpenPayables(ctx context.Context, tenantID uuid.UUID, count int64, total decimal.Decimal) {
	rm.openDebitNoteCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
	rm.openPayablesAmount.Record(ctx, total.InexactFloat64(),
		AttrTenantID.String(tenantID.String()),
	)
}

// StartPeriodicCollection starts periodic collection of the payables gauges.
// Non-blocking; use Stop() to stop collection.
func (rm *ReceivingMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	rm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go rm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

func (rm *ReceivingMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	rm.collectPayablesMetrics(ctx, tenantProvider)

	for {
		select {
		case <-rm.stopChan:
			rm.logger.Info("Stopping periodic receiving metrics collection")
			return
		case <-ctx.Done():
			rm.logger.Info("Context cancelled, stopping periodic receiving metrics collection")
			return
		case <-ticker.C:
			rm.collectPayablesMetrics(ctx, tenantProvider)
		}
	}
}

func (rm *ReceivingMetrics) collectPayablesMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if rm.payablesProvider == nil {
		rm.logger.Debug("No payables provider configured, skipping payables metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		rm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		count, total, err := rm.payablesProvider.GetOpenDebitNoteStats(ctx, tenantID)
		if err != nil {
			rm.logger.Warn("Failed to get open debit note stats for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			continue
		}
		rm.RecordOpenPayables(ctx, tenantID, count, total)
	}
}

// Stop stops the periodic collection.
func (rm *ReceivingMetrics) Stop() {
	rm.stopOnce.Do(func() {
		close(rm.stopChan)
	})
}

// ErrMeterNil is returned when the meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewReceivingMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
