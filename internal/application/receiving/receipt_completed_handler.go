package receiving

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/sakmfg/backoffice/internal/domain/shared"
)

// ActivityRecorder receives receipt and debit-note activity for telemetry.
// Implemented by the metrics layer; the application package stays off the
// OpenTelemetry API.
type ActivityRecorder interface {
	RecordReceiptCompleted(ctx context.Context, tenantID uuid.UUID, netPayable decimal.Decimal)
	RecordDebitNoteRaised(ctx context.Context, tenantID, vendorID uuid.UUID)
}

// ReceiptCompletedHandler reacts to completed receipts by recording the
// settlement position for telemetry
type ReceiptCompletedHandler struct {
	recorder ActivityRecorder
	logger   *zap.Logger
}

// NewReceiptCompletedHandler creates a new handler for receipt completed events
func NewReceiptCompletedHandler(recorder ActivityRecorder, logger *zap.Logger) *ReceiptCompletedHandler {
	return &ReceiptCompletedHandler{
		recorder: recorder,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ReceiptCompletedHandler) EventTypes() []string {
	return []string{receiving.EventTypeReceiptCompleted}
}

// Handle processes a ReceiptCompletedEvent
func (h *ReceiptCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*receiving.ReceiptCompletedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", receiving.EventTypeReceiptCompleted),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			receiving.EventTypeReceiptCompleted, event.EventType())
	}

	h.logger.Info("receipt completed",
		zap.String("receipt_id", completed.ReceiptID.String()),
		zap.String("receipt_number", completed.ReceiptNumber),
		zap.String("vendor_id", completed.VendorID.String()),
		zap.String("net_payable", completed.NetPayable.String()),
	)

	if h.recorder != nil {
		h.recorder.RecordReceiptCompleted(ctx, completed.TenantID(), completed.NetPayable)
	}

	return nil
}

// Ensure ReceiptCompletedHandler implements shared.EventHandler
var _ shared.EventHandler = (*ReceiptCompletedHandler)(nil)
