package receiving

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/sakmfg/backoffice/internal/domain/shared"
)

// DebitNoteCreatedHandler reacts to raised debit notes by recording the
// vendor claim for telemetry
type DebitNoteCreatedHandler struct {
	recorder ActivityRecorder
	logger   *zap.Logger
}

// NewDebitNoteCreatedHandler creates a new handler for debit note created events
func NewDebitNoteCreatedHandler(recorder ActivityRecorder, logger *zap.Logger) *DebitNoteCreatedHandler {
	return &DebitNoteCreatedHandler{
		recorder: recorder,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *DebitNoteCreatedHandler) EventTypes() []string {
	return []string{receiving.EventTypeDebitNoteCreated}
}

// Handle processes a DebitNoteCreatedEvent
func (h *DebitNoteCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*receiving.DebitNoteCreatedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", receiving.EventTypeDebitNoteCreated),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			receiving.EventTypeDebitNoteCreated, event.EventType())
	}

	h.logger.Info("debit note raised",
		zap.String("debit_note_id", created.DebitNoteID.String()),
		zap.String("debit_note_number", created.DebitNoteNumber),
		zap.String("vendor_id", created.VendorID.String()),
		zap.String("vendor_name", created.VendorName),
		zap.String("total_amount", created.TotalAmount.String()),
		zap.Int("lines", len(created.Lines)),
	)

	if h.recorder != nil {
		h.recorder.RecordDebitNoteRaised(ctx, created.TenantID(), created.VendorID)
	}

	return nil
}

// Ensure DebitNoteCreatedHandler implements shared.EventHandler
var _ shared.EventHandler = (*DebitNoteCreatedHandler)(nil)
