package receiving

import (
	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for DebitNote
const AggregateTypeDebitNote = "DebitNote"

// Event type constants for DebitNote
const (
	EventTypeDebitNoteCreated           = "DebitNoteCreated"
	EventTypeDebitNoteApproved          = "DebitNoteApproved"
	EventTypeDebitNoteSent              = "DebitNoteSent"
	EventTypeDebitNoteStatusChanged     = "DebitNoteStatusChanged"
	EventTypeDebitNoteLineReturnUpdated = "DebitNoteLineReturnUpdated"
)

// DebitNoteLineInfo represents line information for events
type DebitNoteLineInfo struct {
	LineID        uuid.UUID       `json:"line_id"`
	ReceiptLineID uuid.UUID       `json:"receipt_line_id"`
	ItemID        uuid.UUID       `json:"item_id"`
	ItemCode      string          `json:"item_code"`
	RejectedQty   decimal.Decimal `json:"rejected_qty"`
	Rate          decimal.Decimal `json:"rate"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
}

// DebitNoteCreatedEvent is raised when a new debit note is created
type DebitNoteCreatedEvent struct {
	shared.BaseDomainEvent
	DebitNoteID     uuid.UUID           `json:"debit_note_id"`
	DebitNoteNumber string              `json:"debit_note_number"`
	ReceiptID       *uuid.UUID          `json:"receipt_id,omitempty"`
	ReceiptNumber   string              `json:"receipt_number,omitempty"`
	VendorID        uuid.UUID           `json:"vendor_id"`
	VendorName      string              `json:"vendor_name"`
	Lines           []DebitNoteLineInfo `json:"lines"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Reason          string              `json:"reason"`
}

// NewDebitNoteCreatedEvent creates a new DebitNoteCreatedEvent
func NewDebitNoteCreatedEvent(dn *DebitNote) *DebitNoteCreatedEvent {
	lines := make([]DebitNoteLineInfo, len(dn.Lines))
	for i, line := range dn.Lines {
		lines[i] = DebitNoteLineInfo{
			LineID:        line.ID,
			ReceiptLineID: line.ReceiptLineID,
			ItemID:        line.ItemID,
			ItemCode:      line.ItemCode,
			RejectedQty:   line.RejectedQty,
			Rate:          line.Rate,
			Amount:        line.Amount,
			Reason:        line.Reason,
		}
	}

	return &DebitNoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebitNoteCreated, AggregateTypeDebitNote, dn.ID, dn.TenantID),
		DebitNoteID:     dn.ID,
		DebitNoteNumber: dn.DebitNoteNumber,
		ReceiptID:       dn.ReceiptID,
		ReceiptNumber:   dn.ReceiptNumber,
		VendorID:        dn.VendorID,
		VendorName:      dn.VendorName,
		Lines:           lines,
		TotalAmount:     dn.TotalAmount,
		Reason:          dn.Reason,
	}
}

// EventType returns the event type name
func (e *DebitNoteCreatedEvent) EventType() string {
	return EventTypeDebitNoteCreated
}

// DebitNoteApprovedEvent is raised when a debit note is approved
type DebitNoteApprovedEvent struct {
	shared.BaseDomainEvent
	DebitNoteID     uuid.UUID       `json:"debit_note_id"`
	DebitNoteNumber string          `json:"debit_note_number"`
	VendorID        uuid.UUID       `json:"vendor_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ApprovedBy      *uuid.UUID      `json:"approved_by,omitempty"`
}

// NewDebitNoteApprovedEvent creates a new DebitNoteApprovedEvent
func NewDebitNoteApprovedEvent(dn *DebitNote) *DebitNoteApprovedEvent {
	return &DebitNoteApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebitNoteApproved, AggregateTypeDebitNote, dn.ID, dn.TenantID),
		DebitNoteID:     dn.ID,
		DebitNoteNumber: dn.DebitNoteNumber,
		VendorID:        dn.VendorID,
		TotalAmount:     dn.TotalAmount,
		ApprovedBy:      dn.ApprovedBy,
	}
}

// EventType returns the event type name
func (e *DebitNoteApprovedEvent) EventType() string {
	return EventTypeDebitNoteApproved
}

// DebitNoteSentEvent is raised when a debit note is delivered to the vendor
type DebitNoteSentEvent struct {
	shared.BaseDomainEvent
	DebitNoteID     uuid.UUID       `json:"debit_note_id"`
	DebitNoteNumber string          `json:"debit_note_number"`
	VendorID        uuid.UUID       `json:"vendor_id"`
	VendorName      string          `json:"vendor_name"`
	SentTo          string          `json:"sent_to"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// NewDebitNoteSentEvent creates a new DebitNoteSentEvent
func NewDebitNoteSentEvent(dn *DebitNote) *DebitNoteSentEvent {
	return &DebitNoteSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebitNoteSent, AggregateTypeDebitNote, dn.ID, dn.TenantID),
		DebitNoteID:     dn.ID,
		DebitNoteNumber: dn.DebitNoteNumber,
		VendorID:        dn.VendorID,
		VendorName:      dn.VendorName,
		SentTo:          dn.SentTo,
		TotalAmount:     dn.TotalAmount,
	}
}

// EventType returns the event type name
func (e *DebitNoteSentEvent) EventType() string {
	return EventTypeDebitNoteSent
}

// DebitNoteStatusChangedEvent is raised on any other status transition
type DebitNoteStatusChangedEvent struct {
	shared.BaseDomainEvent
	DebitNoteID     uuid.UUID       `json:"debit_note_id"`
	DebitNoteNumber string          `json:"debit_note_number"`
	Status          DebitNoteStatus `json:"status"`
}

// NewDebitNoteStatusChangedEvent creates a new DebitNoteStatusChangedEvent
func NewDebitNoteStatusChangedEvent(dn *DebitNote) *DebitNoteStatusChangedEvent {
	return &DebitNoteStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebitNoteStatusChanged, AggregateTypeDebitNote, dn.ID, dn.TenantID),
		DebitNoteID:     dn.ID,
		DebitNoteNumber: dn.DebitNoteNumber,
		Status:          dn.Status,
	}
}

// EventType returns the event type name
func (e *DebitNoteStatusChangedEvent) EventType() string {
	return EventTypeDebitNoteStatusChanged
}

// DebitNoteLineReturnUpdatedEvent is raised when rejected material is dispositioned
type DebitNoteLineReturnUpdatedEvent struct {
	shared.BaseDomainEvent
	DebitNoteID   uuid.UUID    `json:"debit_note_id"`
	LineID        uuid.UUID    `json:"line_id"`
	ReceiptLineID uuid.UUID    `json:"receipt_line_id"`
	ItemCode      string       `json:"item_code"`
	ReturnStatus  ReturnStatus `json:"return_status"`
}

// NewDebitNoteLineReturnUpdatedEvent creates a new DebitNoteLineReturnUpdatedEvent
func NewDebitNoteLineReturnUpdatedEvent(dn *DebitNote, line *DebitNoteLine) *DebitNoteLineReturnUpdatedEvent {
	return &DebitNoteLineReturnUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDebitNoteLineReturnUpdated, AggregateTypeDebitNote, dn.ID, dn.TenantID),
		DebitNoteID:     dn.ID,
		LineID:          line.ID,
		ReceiptLineID:   line.ReceiptLineID,
		ItemCode:        line.ItemCode,
		ReturnStatus:    line.ReturnStatus,
	}
}

// EventType returns the event type name
func (e *DebitNoteLineReturnUpdatedEvent) EventType() string {
	return EventTypeDebitNoteLineReturnUpdated
}
