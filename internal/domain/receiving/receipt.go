package receiving

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceiptStatus represents the storage status of a goods receipt note
type ReceiptStatus string

const (
	ReceiptStatusDraft     ReceiptStatus = "DRAFT"
	ReceiptStatusCompleted ReceiptStatus = "COMPLETED"
	ReceiptStatusCancelled ReceiptStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ReceiptStatus
func (s ReceiptStatus) IsValid() bool {
	switch s {
	case ReceiptStatusDraft, ReceiptStatusCompleted, ReceiptStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReceiptStatus
func (s ReceiptStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the receipt is in a terminal state
func (s ReceiptStatus) IsTerminal() bool {
	return s == ReceiptStatusCompleted || s == ReceiptStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s ReceiptStatus) CanTransitionTo(target ReceiptStatus) bool {
	switch s {
	case ReceiptStatusDraft:
		return target == ReceiptStatusCompleted || target == ReceiptStatusCancelled
	case ReceiptStatusCompleted, ReceiptStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentStatus represents how much of the net payable has been settled
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// QCStatus represents the disposition of a receipt line after inspection
type QCStatus string

const (
	QCStatusPending  QCStatus = "PENDING"
	QCStatusAccepted QCStatus = "ACCEPTED"
	QCStatusRejected QCStatus = "REJECTED"
	QCStatusPartial  QCStatus = "PARTIAL"
)

// IsValid checks if the status is a valid QCStatus
func (s QCStatus) IsValid() bool {
	switch s {
	case QCStatusPending, QCStatusAccepted, QCStatusRejected, QCStatusPartial:
		return true
	}
	return false
}

// IsDisposed returns true once an accept/reject split has been recorded
func (s QCStatus) IsDisposed() bool {
	return s == QCStatusAccepted || s == QCStatusRejected || s == QCStatusPartial
}

// ReturnStatus represents the return disposition of rejected material
type ReturnStatus string

const (
	ReturnStatusNone ReturnStatus = "NONE"
	// PENDING_RETURN marks a freshly rejected receipt line; debit note lines
	// start at PENDING. Both resolve to RETURNED/DESTROYED/REWORKED.
	ReturnStatusPendingReturn ReturnStatus = "PENDING_RETURN"
	ReturnStatusPending       ReturnStatus = "PENDING"
	ReturnStatusReturned      ReturnStatus = "RETURNED"
	ReturnStatusDestroyed     ReturnStatus = "DESTROYED"
	ReturnStatusReworked      ReturnStatus = "REWORKED"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusNone, ReturnStatusPendingReturn, ReturnStatusPending,
		ReturnStatusReturned, ReturnStatusDestroyed, ReturnStatusReworked:
		return true
	}
	return false
}

// ReceiptLine represents one ordered item on a receipt
type ReceiptLine struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReceiptID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null"`
	POLineID        *uuid.UUID      `gorm:"type:uuid"`
	ItemCode        string          `gorm:"type:varchar(50);not null"`
	ItemName        string          `gorm:"type:varchar(200);not null"`
	OrderedQty      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQty     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AcceptedQty     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RejectedQty     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate            decimal.Decimal `gorm:"type:decimal(18,4);not null"` // unit price; falls back to PO-line rate when zero
	BatchNumber     string          `gorm:"type:varchar(50)"`
	ExpiryDate      *time.Time
	Notes           string          `gorm:"type:varchar(500)"`
	QCStatus        QCStatus        `gorm:"type:varchar(20);not null;default:'PENDING'"`
	RejectionReason string          `gorm:"type:varchar(500)"`
	RejectionAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReturnStatus    ReturnStatus    `gorm:"type:varchar(20);not null;default:'NONE'"`
	QCBy            *uuid.UUID      `gorm:"type:uuid"`
	QCAt            *time.Time
	QCAttachment    string     `gorm:"type:varchar(500)"` // reference to an uploaded inspection document
	IssuedUIDCount  int        `gorm:"column:issued_uid_count;not null;default:0"`
	UIDsIssued      bool       `gorm:"column:uids_issued;not null;default:false"`
	DebitNoteID     *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReceiptLine) TableName() string {
	return "receipt_lines"
}

// EffectiveRate returns the line rate, falling back to the given PO-line rate
// when the line's own rate is unset
func (l *ReceiptLine) EffectiveRate(poLineRate decimal.Decimal) decimal.Decimal {
	if l.Rate.IsPositive() {
		return l.Rate
	}
	return poLineRate
}

// Receipt represents a goods receipt note (GRN) aggregate root.
// It records one vendor delivery against a purchase order: received quantities,
// QC disposition per line, the financial summary net of rejections, and
// settlement payments against the net payable.
type Receipt struct {
	shared.TenantAggregateRoot
	ReceiptNumber    string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_receipt_tenant_number,priority:2"`
	PurchaseOrderID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_receipt_tenant_po,priority:2"`
	PONumber         string     `gorm:"type:varchar(50);not null"`
	VendorID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	VendorName       string     `gorm:"type:varchar(200);not null"`
	WarehouseID      uuid.UUID  `gorm:"type:uuid;not null"`
	ReceiptDate      time.Time  `gorm:"not null"`
	InvoiceNumber    string     `gorm:"type:varchar(100)"`
	InvoiceDate      *time.Time
	Status           ReceiptStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	QCCompleted      bool          `gorm:"not null;default:false"`
	Notes            string        `gorm:"type:text"`
	ReceivedBy       *uuid.UUID    `gorm:"type:uuid"`
	Lines            []ReceiptLine `gorm:"foreignKey:ReceiptID;references:ID"`
	GrossAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DebitNoteAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NetPayableAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentStatus    PaymentStatus   `gorm:"type:varchar(20);not null;default:'UNPAID'"`
	PaymentMethod    string          `gorm:"type:varchar(50)"`
	PaymentReference string          `gorm:"type:varchar(100)"`
	PaymentDate      *time.Time
	PaymentNotes     string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Receipt) TableName() string {
	return "receipts"
}

// NewReceipt creates a new goods receipt in DRAFT status
func NewReceipt(
	tenantID uuid.UUID,
	receiptNumber string,
	purchaseOrderID uuid.UUID,
	poNumber string,
	vendorID uuid.UUID,
	vendorName string,
	warehouseID uuid.UUID,
	receiptDate time.Time,
) (*Receipt, error) {
	if receiptNumber == "" {
		return nil, shared.NewValidationError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if purchaseOrderID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PURCHASE_ORDER", "Purchase order ID cannot be empty")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if receiptDate.IsZero() {
		receiptDate = time.Now()
	}

	r := &Receipt{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReceiptNumber:       receiptNumber,
		PurchaseOrderID:     purchaseOrderID,
		PONumber:            poNumber,
		VendorID:            vendorID,
		VendorName:          vendorName,
		WarehouseID:         warehouseID,
		ReceiptDate:         receiptDate,
		Status:              ReceiptStatusDraft,
		Lines:               make([]ReceiptLine, 0),
		GrossAmount:         decimal.Zero,
		DebitNoteAmount:     decimal.Zero,
		NetPayableAmount:    decimal.Zero,
		PaidAmount:          decimal.Zero,
		PaymentStatus:       PaymentStatusUnpaid,
	}

	r.AddDomainEvent(NewReceiptCreatedEvent(r))

	return r, nil
}

// AddLine adds an ordered item to the receipt. Only allowed while DRAFT.
func (r *Receipt) AddLine(
	itemID uuid.UUID,
	poLineID *uuid.UUID,
	itemCode, itemName string,
	orderedQty, receivedQty, rate decimal.Decimal,
	batchNumber string,
	expiryDate *time.Time,
	notes string,
) (*ReceiptLine, error) {
	if r.Status != ReceiptStatusDraft {
		return nil, shared.NewInvalidStateError("INVALID_STATE", "Cannot add lines to a non-draft receipt")
	}
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if receivedQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	if rate.IsNegative() {
		return nil, shared.NewValidationError("INVALID_RATE", "Rate cannot be negative")
	}

	now := time.Now()
	line := ReceiptLine{
		ID:              uuid.New(),
		ReceiptID:       r.ID,
		ItemID:          itemID,
		POLineID:        poLineID,
		ItemCode:        itemCode,
		ItemName:        itemName,
		OrderedQty:      orderedQty,
		ReceivedQty:     receivedQty,
		AcceptedQty:     decimal.Zero,
		RejectedQty:     decimal.Zero,
		Rate:            rate,
		BatchNumber:     batchNumber,
		ExpiryDate:      expiryDate,
		Notes:           notes,
		QCStatus:        QCStatusPending,
		RejectionAmount: decimal.Zero,
		ReturnStatus:    ReturnStatusNone,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.Lines = append(r.Lines, line)
	r.recomputeGross()
	r.UpdatedAt = now
	r.IncrementVersion()

	return &r.Lines[len(r.Lines)-1], nil
}

// FindLine returns the line with the given ID
func (r *Receipt) FindLine(lineID uuid.UUID) (*ReceiptLine, error) {
	for i := range r.Lines {
		if r.Lines[i].ID == lineID {
			return &r.Lines[i], nil
		}
	}
	return nil, shared.NewNotFoundError("Receipt line")
}

// ApplyDisposition records the accept/reject split for one line.
// effectiveRate is the resolved unit price used to value the rejection
// (the line rate, or the PO-line rate when the line rate is unset).
func (r *Receipt) ApplyDisposition(
	lineID uuid.UUID,
	acceptedQty, rejectedQty decimal.Decimal,
	rejectionReason, notes string,
	inspector *uuid.UUID,
	attachment string,
	effectiveRate decimal.Decimal,
) (*ReceiptLine, error) {
	line, err := r.FindLine(lineID)
	if err != nil {
		return nil, err
	}
	if acceptedQty.IsNegative() || rejectedQty.IsNegative() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Accepted and rejected quantities cannot be negative")
	}
	if !acceptedQty.Add(rejectedQty).Equal(line.ReceivedQty) {
		return nil, shared.NewValidationError("QUANTITY_MISMATCH",
			fmt.Sprintf("Accepted (%s) plus rejected (%s) must equal received (%s)",
				acceptedQty, rejectedQty, line.ReceivedQty))
	}
	if rejectedQty.IsPositive() && rejectionReason == "" {
		return nil, shared.NewValidationError("MISSING_REJECTION_REASON", "Rejection reason is required for rejected quantity")
	}

	now := time.Now()
	line.AcceptedQty = acceptedQty
	line.RejectedQty = rejectedQty
	line.QCStatus = dispositionStatus(acceptedQty, rejectedQty)
	line.QCBy = inspector
	line.QCAt = &now
	if attachment != "" {
		line.QCAttachment = attachment
	}
	if notes != "" {
		line.Notes = notes
	}

	if rejectedQty.IsPositive() {
		line.RejectionReason = rejectionReason
		line.RejectionAmount = rejectedQty.Mul(effectiveRate)
		line.ReturnStatus = ReturnStatusPendingReturn
	} else {
		line.RejectionReason = ""
		line.RejectionAmount = decimal.Zero
		line.ReturnStatus = ReturnStatusNone
	}
	line.UpdatedAt = now

	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewReceiptLineDisposedEvent(r, line))

	return line, nil
}

// dispositionStatus derives the QC status from the accept/reject split
func dispositionStatus(accepted, rejected decimal.Decimal) QCStatus {
	switch {
	case accepted.IsPositive() && rejected.IsPositive():
		return QCStatusPartial
	case rejected.IsPositive():
		return QCStatusRejected
	default:
		return QCStatusAccepted
	}
}

// AllLinesDisposed returns true once every line has a recorded disposition
func (r *Receipt) AllLinesDisposed() bool {
	if len(r.Lines) == 0 {
		return false
	}
	for i := range r.Lines {
		if !r.Lines[i].QCStatus.IsDisposed() {
			return false
		}
	}
	return true
}

// QCStarted returns true if any line has a recorded disposition
func (r *Receipt) QCStarted() bool {
	for i := range r.Lines {
		if r.Lines[i].QCStatus.IsDisposed() {
			return true
		}
	}
	return false
}

// MarkQCCompleted flips the one-way QC completion flag
func (r *Receipt) MarkQCCompleted() {
	if r.QCCompleted {
		return
	}
	r.QCCompleted = true
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewReceiptQCCompletedEvent(r))
}

// Complete transitions the receipt to COMPLETED
func (r *Receipt) Complete() error {
	if !r.Status.CanTransitionTo(ReceiptStatusCompleted) {
		return shared.NewInvalidStateError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition receipt from %s to %s", r.Status, ReceiptStatusCompleted))
	}
	r.Status = ReceiptStatusCompleted
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewReceiptCompletedEvent(r))
	return nil
}

// Cancel transitions the receipt to CANCELLED
func (r *Receipt) Cancel() error {
	if !r.Status.CanTransitionTo(ReceiptStatusCancelled) {
		return shared.NewInvalidStateError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition receipt from %s to %s", r.Status, ReceiptStatusCancelled))
	}
	r.Status = ReceiptStatusCancelled
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewReceiptCancelledEvent(r))
	return nil
}

// recomputeGross recalculates the gross amount from the lines
func (r *Receipt) recomputeGross() {
	gross := decimal.Zero
	for i := range r.Lines {
		gross = gross.Add(r.Lines[i].Rate.Mul(r.Lines[i].ReceivedQty))
	}
	r.GrossAmount = gross
	r.NetPayableAmount = r.GrossAmount.Sub(r.DebitNoteAmount)
}

// RecomputeFinancials refreshes the financial summary: gross from the lines,
// debit from the given claim total, net as gross minus debit
func (r *Receipt) RecomputeFinancials(debitTotal decimal.Decimal) {
	r.DebitNoteAmount = debitTotal
	r.recomputeGross()
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewReceiptFinancialsRecomputedEvent(r))
}

// LinkDebitNote back-links a line to the debit note that claims its rejection
func (r *Receipt) LinkDebitNote(lineID, debitNoteID uuid.UUID) error {
	line, err := r.FindLine(lineID)
	if err != nil {
		return err
	}
	line.DebitNoteID = &debitNoteID
	line.UpdatedAt = time.Now()
	return nil
}

// MarkLineUIDsIssued records the issued identifier count on a line
func (r *Receipt) MarkLineUIDsIssued(lineID uuid.UUID, count int) error {
	line, err := r.FindLine(lineID)
	if err != nil {
		return err
	}
	line.IssuedUIDCount = count
	line.UIDsIssued = true
	line.UpdatedAt = time.Now()
	return nil
}

// UpdateLineReturnStatus updates the return disposition of a rejected line
func (r *Receipt) UpdateLineReturnStatus(lineID uuid.UUID, status ReturnStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("INVALID_RETURN_STATUS", fmt.Sprintf("Invalid return status: %s", status))
	}
	line, err := r.FindLine(lineID)
	if err != nil {
		return err
	}
	line.ReturnStatus = status
	line.UpdatedAt = time.Now()
	return nil
}

// RecordPayment applies a settlement payment against the net payable.
// Overpayment is accepted; the stored paid amount keeps the full value.
func (r *Receipt) RecordPayment(
	amount decimal.Decimal,
	method, reference string,
	date time.Time,
	notes string,
) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_PAYMENT_AMOUNT", "Payment amount must be positive")
	}
	if date.IsZero() {
		date = time.Now()
	}

	newPaid := r.PaidAmount.Add(amount)
	r.PaidAmount = newPaid
	r.PaymentStatus = derivePaymentStatus(newPaid, r.NetPayableAmount)
	r.PaymentMethod = method
	r.PaymentReference = reference
	r.PaymentDate = &date
	r.PaymentNotes = notes
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewReceiptPaymentRecordedEvent(r, amount))

	return nil
}

// derivePaymentStatus computes the payment status from amounts
func derivePaymentStatus(paid, netPayable decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(netPayable) && paid.IsPositive():
		return PaymentStatusPaid
	case paid.IsPositive():
		return PaymentStatusPartial
	default:
		return PaymentStatusUnpaid
	}
}

// RemainingPayable returns the outstanding amount, clamped at zero
func (r *Receipt) RemainingPayable() decimal.Decimal {
	remaining := r.NetPayableAmount.Sub(r.PaidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// TotalRejectedAmount sums the persisted rejection amounts across lines
func (r *Receipt) TotalRejectedAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Lines {
		total = total.Add(r.Lines[i].RejectionAmount)
	}
	return total
}

// HasRejections returns true if any line has rejected quantity
func (r *Receipt) HasRejections() bool {
	for i := range r.Lines {
		if r.Lines[i].RejectedQty.IsPositive() {
			return true
		}
	}
	return false
}
