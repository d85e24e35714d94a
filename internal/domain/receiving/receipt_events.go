package receiving

import (
	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Receipt
const AggregateTypeReceipt = "Receipt"

// Event type constants for Receipt
const (
	EventTypeReceiptCreated               = "ReceiptCreated"
	EventTypeReceiptLineDisposed          = "ReceiptLineDisposed"
	EventTypeReceiptQCCompleted           = "ReceiptQCCompleted"
	EventTypeReceiptCompleted             = "ReceiptCompleted"
	EventTypeReceiptCancelled             = "ReceiptCancelled"
	EventTypeReceiptFinancialsRecomputed  = "ReceiptFinancialsRecomputed"
	EventTypeReceiptPaymentRecorded       = "ReceiptPaymentRecorded"
)

// ReceiptCreatedEvent is raised when a new goods receipt is created
type ReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptID       uuid.UUID `json:"receipt_id"`
	ReceiptNumber   string    `json:"receipt_number"`
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	PONumber        string    `json:"po_number"`
	VendorID        uuid.UUID `json:"vendor_id"`
	VendorName      string    `json:"vendor_name"`
	WarehouseID     uuid.UUID `json:"warehouse_id"`
}

// NewReceiptCreatedEvent creates a new ReceiptCreatedEvent
func NewReceiptCreatedEvent(r *Receipt) *ReceiptCreatedEvent {
	return &ReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptCreated, AggregateTypeReceipt, r.ID, r.TenantID),
		ReceiptID:       r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		PurchaseOrderID: r.PurchaseOrderID,
		PONumber:        r.PONumber,
		VendorID:        r.VendorID,
		VendorName:      r.VendorName,
		WarehouseID:     r.WarehouseID,
	}
}

// EventType returns the event type name
func (e *ReceiptCreatedEvent) EventType() string {
	return EventTypeReceiptCreated
}

// ReceiptLineDisposedEvent is raised when QC records an accept/reject split
type ReceiptLineDisposedEvent struct {
	shared.BaseDomainEvent
	ReceiptID       uuid.UUID       `json:"receipt_id"`
	ReceiptNumber   string          `json:"receipt_number"`
	LineID          uuid.UUID       `json:"line_id"`
	ItemID          uuid.UUID       `json:"item_id"`
	ItemCode        string          `json:"item_code"`
	AcceptedQty     decimal.Decimal `json:"accepted_qty"`
	RejectedQty     decimal.Decimal `json:"rejected_qty"`
	QCStatus        QCStatus        `json:"qc_status"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	RejectionAmount decimal.Decimal `json:"rejection_amount"`
}

// NewReceiptLineDisposedEvent creates a new ReceiptLineDisposedEvent
func NewReceiptLineDisposedEvent(r *Receipt, line *ReceiptLine) *ReceiptLineDisposedEvent {
	return &ReceiptLineDisposedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptLineDisposed, AggregateTypeReceipt, r.ID, r.TenantID),
		ReceiptID:       r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		LineID:          line.ID,
		ItemID:          line.ItemID,
		ItemCode:        line.ItemCode,
		AcceptedQty:     line.AcceptedQty,
		RejectedQty:     line.RejectedQty,
		QCStatus:        line.QCStatus,
		RejectionReason: line.RejectionReason,
		RejectionAmount: line.RejectionAmount,
	}
}

// EventType returns the event type name
func (e *ReceiptLineDisposedEvent) EventType() string {
	return EventTypeReceiptLineDisposed
}

// ReceiptQCCompletedEvent is raised when QC disposition covers every line
type ReceiptQCCompletedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	ReceiptNumber string          `json:"receipt_number"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	TotalRejected decimal.Decimal `json:"total_rejected"`
}

// NewReceiptQCCompletedEvent creates a new ReceiptQCCompletedEvent
func NewReceiptQCCompletedEvent(r *Receipt) *ReceiptQCCompletedEvent {
	return &ReceiptQCCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptQCCompleted, AggregateTypeReceipt, r.ID, r.TenantID),
		ReceiptID:       r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		VendorID:        r.VendorID,
		TotalRejected:   r.TotalRejectedAmount(),
	}
}

// EventType returns the event type name
func (e *ReceiptQCCompletedEvent) EventType() string {
	return EventTypeReceiptQCCompleted
}

// ReceiptCompletedEvent is raised when a receipt transitions to COMPLETED
type ReceiptCompletedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	ReceiptNumber string          `json:"receipt_number"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	NetPayable    decimal.Decimal `json:"net_payable"`
}

// NewReceiptCompletedEvent creates a new ReceiptCompletedEvent
func NewReceiptCompletedEvent(r *Receipt) *ReceiptCompletedEvent {
	return &ReceiptCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptCompleted, AggregateTypeReceipt, r.ID, r.TenantID),
		ReceiptID:       r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		VendorID:        r.VendorID,
		GrossAmount:     r.GrossAmount,
		NetPayable:      r.NetPayableAmount,
	}
}

// EventType returns the event type name
func (e *ReceiptCompletedEvent) EventType() string {
	return EventTypeReceiptCompleted
}

// ReceiptCancelledEvent is raised when a receipt transitions to CANCELLED
type ReceiptCancelledEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID `json:"receipt_id"`
	ReceiptNumber string    `json:"receipt_number"`
	VendorID      uuid.UUID `json:"vendor_id"`
}

// NewReceiptCancelledEvent creates a new ReceiptCancelledEvent
func NewReceiptCancelledEvent(r *Receipt) *ReceiptCancelledEvent {
	return &ReceiptCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptCancelled, AggregateTypeReceipt, r.ID, r.TenantID),
		ReceiptID:       r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		VendorID:        r.VendorID,
	}
}

// EventType returns the event type name
func (e *ReceiptCancelledEvent) EventType() string {
	return EventTypeReceiptCancelled
}

// ReceiptFinancialsRecomputedEvent is raised when the financial summary changes
type ReceiptFinancialsRecomputedEvent struct {
	shared.BaseDomainEvent
	ReceiptID       uuid.UUID       `json:"receipt_id"`
	ReceiptNumber   string          `json:"receipt_number"`
	GrossAmount     decimal.Decimal `json:"gross_amount"`
	DebitNoteAmount decimal.Decimal `json:"debit_note_amount"`
	NetPayable      decimal.Decimal `json:"net_payable"`
}

// NewReceiptFinancialsRecomputedEvent creates a new ReceiptFinancialsRecomputedEvent
func NewReceiptFinancialsRecomputedEvent(r *Receipt) *ReceiptFinancialsRecomputedEvent {
	return &ReceiptFinancialsRecomputedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptFinancialsRecomputed, AggregateTypeReceipt, r.ID, r.TenantID),
		ReceiptID:       r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		GrossAmount:     r.GrossAmount,
		DebitNoteAmount: r.DebitNoteAmount,
		NetPayable:      r.NetPayableAmount,
	}
}

// EventType returns the event type name
func (e *ReceiptFinancialsRecomputedEvent) EventType() string {
	return EventTypeReceiptFinancialsRecomputed
}

// ReceiptPaymentRecordedEvent is raised when a settlement payment is applied
type ReceiptPaymentRecordedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	ReceiptNumber string          `json:"receipt_number"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

// NewReceiptPaymentRecordedEvent creates a new ReceiptPaymentRecordedEvent
func NewReceiptPaymentRecordedEvent(r *Receipt, amount decimal.Decimal) *ReceiptPaymentRecordedEvent {
	return &ReceiptPaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptPaymentRecorded, AggregateTypeReceipt, r.ID, r.TenantID),
		ReceiptID:       r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		VendorID:        r.VendorID,
		Amount:          amount,
		PaidAmount:      r.PaidAmount,
		PaymentStatus:   r.PaymentStatus,
	}
}

// EventType returns the event type name
func (e *ReceiptPaymentRecordedEvent) EventType() string {
	return EventTypeReceiptPaymentRecorded
}
