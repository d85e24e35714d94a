package receiving

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DebitNoteStatus represents the status of a debit note
type DebitNoteStatus string

const (
	DebitNoteStatusDraft        DebitNoteStatus = "DRAFT"
	DebitNoteStatusApproved     DebitNoteStatus = "APPROVED"
	DebitNoteStatusSent         DebitNoteStatus = "SENT"
	DebitNoteStatusAcknowledged DebitNoteStatus = "ACKNOWLEDGED"
	DebitNoteStatusClosed       DebitNoteStatus = "CLOSED"
	DebitNoteStatusCancelled    DebitNoteStatus = "CANCELLED"
)

// IsValid checks if the status is a valid DebitNoteStatus
func (s DebitNoteStatus) IsValid() bool {
	switch s {
	case DebitNoteStatusDraft, DebitNoteStatusApproved, DebitNoteStatusSent,
		DebitNoteStatusAcknowledged, DebitNoteStatusClosed, DebitNoteStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DebitNoteStatus
func (s DebitNoteStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s DebitNoteStatus) CanTransitionTo(target DebitNoteStatus) bool {
	switch s {
	case DebitNoteStatusDraft:
		return target == DebitNoteStatusApproved || target == DebitNoteStatusCancelled
	case DebitNoteStatusApproved:
		return target == DebitNoteStatusSent || target == DebitNoteStatusCancelled
	case DebitNoteStatusSent:
		return target == DebitNoteStatusAcknowledged || target == DebitNoteStatusClosed
	case DebitNoteStatusAcknowledged:
		return target == DebitNoteStatusClosed
	case DebitNoteStatusClosed, DebitNoteStatusCancelled:
		return false // Terminal states
	}
	return false
}

// DebitNoteLine mirrors one rejected receipt line on a debit note
type DebitNoteLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	DebitNoteID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ReceiptLineID uuid.UUID       `gorm:"type:uuid;not null"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null"`
	ItemCode      string          `gorm:"type:varchar(50);not null"`
	ItemName      string          `gorm:"type:varchar(200);not null"`
	RejectedQty   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason        string          `gorm:"type:varchar(500);not null"`
	ReturnStatus  ReturnStatus    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DebitNoteLine) TableName() string {
	return "debit_note_lines"
}

// DebitNote represents a monetary claim against a vendor for rejected goods.
// At most one exists per receipt; its total equals the sum of its lines.
type DebitNote struct {
	shared.TenantAggregateRoot
	DebitNoteNumber string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_debit_note_tenant_number,priority:2"`
	ReceiptID       *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_debit_note_tenant_receipt,priority:2"`
	ReceiptNumber   string     `gorm:"type:varchar(50)"`
	VendorID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	VendorName      string     `gorm:"type:varchar(200);not null"`
	Status          DebitNoteStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Reason          string          `gorm:"type:varchar(500)"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NoteDate        time.Time       `gorm:"not null"`
	ApprovedBy      *uuid.UUID      `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	SentTo          string `gorm:"type:varchar(200)"`
	SentAt          *time.Time
	Notes           string          `gorm:"type:text"`
	Lines           []DebitNoteLine `gorm:"foreignKey:DebitNoteID;references:ID"`
}

// TableName returns the table name for GORM
func (DebitNote) TableName() string {
	return "debit_notes"
}

// NewDebitNote creates a new debit note in DRAFT status linked to a receipt
func NewDebitNote(
	tenantID uuid.UUID,
	debitNoteNumber string,
	receiptID uuid.UUID,
	receiptNumber string,
	vendorID uuid.UUID,
	vendorName string,
	reason string,
) (*DebitNote, error) {
	if debitNoteNumber == "" {
		return nil, shared.NewValidationError("INVALID_DEBIT_NOTE_NUMBER", "Debit note number cannot be empty")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}

	dn := &DebitNote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DebitNoteNumber:     debitNoteNumber,
		VendorID:            vendorID,
		VendorName:          vendorName,
		ReceiptNumber:       receiptNumber,
		Status:              DebitNoteStatusDraft,
		Reason:              reason,
		TotalAmount:         decimal.Zero,
		NoteDate:            time.Now(),
		Lines:               make([]DebitNoteLine, 0),
	}
	if receiptID != uuid.Nil {
		dn.ReceiptID = &receiptID
	}

	dn.AddDomainEvent(NewDebitNoteCreatedEvent(dn))

	return dn, nil
}

// NewManualDebitNote creates a debit note unlinked to any receipt
func NewManualDebitNote(
	tenantID uuid.UUID,
	debitNoteNumber string,
	vendorID uuid.UUID,
	vendorName string,
	reason string,
) (*DebitNote, error) {
	return NewDebitNote(tenantID, debitNoteNumber, uuid.Nil, "", vendorID, vendorName, reason)
}

// AddLine adds a claim line priced at rejectedQty x rate. Only allowed while DRAFT.
func (dn *DebitNote) AddLine(
	receiptLineID, itemID uuid.UUID,
	itemCode, itemName string,
	rejectedQty, rate decimal.Decimal,
	reason string,
) (*DebitNoteLine, error) {
	return dn.AddLineWithAmount(receiptLineID, itemID, itemCode, itemName, rejectedQty, rate, rejectedQty.Mul(rate), reason)
}

// AddLineWithAmount adds a claim line carrying an explicit claim amount. Used
// when the persisted rejection amount is authoritative and the rate may be
// unresolvable, so the note total still matches what was recorded at QC.
func (dn *DebitNote) AddLineWithAmount(
	receiptLineID, itemID uuid.UUID,
	itemCode, itemName string,
	rejectedQty, rate, amount decimal.Decimal,
	reason string,
) (*DebitNoteLine, error) {
	if dn.Status != DebitNoteStatusDraft {
		return nil, shared.NewInvalidStateError("INVALID_STATE", "Cannot add lines to a non-draft debit note")
	}
	if rejectedQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Rejected quantity must be positive")
	}
	if rate.IsNegative() {
		return nil, shared.NewValidationError("INVALID_RATE", "Rate cannot be negative")
	}
	if amount.IsNegative() {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Claim amount cannot be negative")
	}

	now := time.Now()
	line := DebitNoteLine{
		ID:            uuid.New(),
		DebitNoteID:   dn.ID,
		ReceiptLineID: receiptLineID,
		ItemID:        itemID,
		ItemCode:      itemCode,
		ItemName:      itemName,
		RejectedQty:   rejectedQty,
		Rate:          rate,
		Amount:        amount,
		Reason:        reason,
		ReturnStatus:  ReturnStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	dn.Lines = append(dn.Lines, line)
	dn.recomputeTotal()
	dn.UpdatedAt = now
	dn.IncrementVersion()

	return &dn.Lines[len(dn.Lines)-1], nil
}

// FindLine returns the line with the given ID
func (dn *DebitNote) FindLine(lineID uuid.UUID) (*DebitNoteLine, error) {
	for i := range dn.Lines {
		if dn.Lines[i].ID == lineID {
			return &dn.Lines[i], nil
		}
	}
	return nil, shared.NewNotFoundError("Debit note line")
}

// recomputeTotal recalculates the claim total from the lines
func (dn *DebitNote) recomputeTotal() {
	total := decimal.Zero
	for i := range dn.Lines {
		total = total.Add(dn.Lines[i].Amount)
	}
	dn.TotalAmount = total
}

// Approve transitions the debit note to APPROVED
func (dn *DebitNote) Approve(approvedBy uuid.UUID) error {
	if !dn.Status.CanTransitionTo(DebitNoteStatusApproved) {
		return shared.NewInvalidStateError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot approve debit note in status %s", dn.Status))
	}
	if len(dn.Lines) == 0 {
		return shared.NewPreconditionError("EMPTY_DEBIT_NOTE", "Cannot approve a debit note without lines")
	}

	now := time.Now()
	dn.Status = DebitNoteStatusApproved
	dn.ApprovedBy = &approvedBy
	dn.ApprovedAt = &now
	dn.UpdatedAt = now
	dn.IncrementVersion()
	dn.AddDomainEvent(NewDebitNoteApprovedEvent(dn))

	return nil
}

// MarkSent records that the claim was delivered to the vendor
func (dn *DebitNote) MarkSent(sentTo string) error {
	if !dn.Status.CanTransitionTo(DebitNoteStatusSent) {
		return shared.NewInvalidStateError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot send debit note in status %s", dn.Status))
	}

	now := time.Now()
	dn.Status = DebitNoteStatusSent
	dn.SentTo = sentTo
	dn.SentAt = &now
	dn.UpdatedAt = now
	dn.IncrementVersion()
	dn.AddDomainEvent(NewDebitNoteSentEvent(dn))

	return nil
}

// TransitionTo moves the debit note to the target status
func (dn *DebitNote) TransitionTo(target DebitNoteStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("Invalid debit note status: %s", target))
	}
	if !dn.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition debit note from %s to %s", dn.Status, target))
	}

	dn.Status = target
	dn.UpdatedAt = time.Now()
	dn.IncrementVersion()
	dn.AddDomainEvent(NewDebitNoteStatusChangedEvent(dn))

	return nil
}

// UpdateLineReturnStatus updates the return disposition on one claim line
func (dn *DebitNote) UpdateLineReturnStatus(lineID uuid.UUID, status ReturnStatus) (*DebitNoteLine, error) {
	if !status.IsValid() || status == ReturnStatusNone {
		return nil, shared.NewValidationError("INVALID_RETURN_STATUS", fmt.Sprintf("Invalid return status: %s", status))
	}
	line, err := dn.FindLine(lineID)
	if err != nil {
		return nil, err
	}

	line.ReturnStatus = status
	line.UpdatedAt = time.Now()
	dn.UpdatedAt = line.UpdatedAt
	dn.IncrementVersion()
	dn.AddDomainEvent(NewDebitNoteLineReturnUpdatedEvent(dn, line))

	return line, nil
}

// IsLinkedToReceipt reports whether this debit note claims against a receipt
func (dn *DebitNote) IsLinkedToReceipt() bool {
	return dn.ReceiptID != nil && *dn.ReceiptID != uuid.Nil
}
