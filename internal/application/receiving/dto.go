package receiving

import (
	"time"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/shopspring/decimal"
)

// ==================== Receipt DTOs ====================

// CreateReceiptRequest represents a request to create a goods receipt
type CreateReceiptRequest struct {
	PurchaseOrderID uuid.UUID                `json:"purchase_order_id" binding:"required"`
	WarehouseID     uuid.UUID                `json:"warehouse_id" binding:"required"`
	ReceiptDate     *time.Time               `json:"receipt_date"`
	InvoiceNumber   string                   `json:"invoice_number"`
	InvoiceDate     *time.Time               `json:"invoice_date"`
	Notes           string                   `json:"notes"`
	ReceivedBy      *uuid.UUID               `json:"received_by"`
	Lines           []CreateReceiptLineInput `json:"lines" binding:"required,min=1"`
}

// CreateReceiptLineInput represents one line in the create receipt request
type CreateReceiptLineInput struct {
	ItemID      uuid.UUID        `json:"item_id" binding:"required"`
	POLineID    *uuid.UUID       `json:"po_line_id"`
	OrderedQty  decimal.Decimal  `json:"ordered_qty"`
	ReceivedQty decimal.Decimal  `json:"received_qty" binding:"required"`
	Rate        *decimal.Decimal `json:"rate"`
	BatchNumber string           `json:"batch_number"`
	ExpiryDate  *time.Time       `json:"expiry_date"`
	Notes       string           `json:"notes"`
}

// UpdateReceiptRequest represents a request to update a draft receipt header
type UpdateReceiptRequest struct {
	InvoiceNumber *string    `json:"invoice_number"`
	InvoiceDate   *time.Time `json:"invoice_date"`
	Notes         *string    `json:"notes"`
}

// UpdateReceiptStatusRequest carries a business or storage status value
type UpdateReceiptStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReceiptLineResponse represents a receipt line in API responses
type ReceiptLineResponse struct {
	ID              uuid.UUID              `json:"id"`
	ItemID          uuid.UUID              `json:"item_id"`
	POLineID        *uuid.UUID             `json:"po_line_id,omitempty"`
	ItemCode        string                 `json:"item_code"`
	ItemName        string                 `json:"item_name"`
	OrderedQty      decimal.Decimal        `json:"ordered_qty"`
	ReceivedQty     decimal.Decimal        `json:"received_qty"`
	AcceptedQty     decimal.Decimal        `json:"accepted_qty"`
	RejectedQty     decimal.Decimal        `json:"rejected_qty"`
	Rate            decimal.Decimal        `json:"rate"`
	BatchNumber     string                 `json:"batch_number,omitempty"`
	ExpiryDate      *time.Time             `json:"expiry_date,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	QCStatus        receiving.QCStatus     `json:"qc_status"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
	RejectionAmount decimal.Decimal        `json:"rejection_amount"`
	ReturnStatus    receiving.ReturnStatus `json:"return_status"`
	QCBy            *uuid.UUID             `json:"qc_by,omitempty"`
	QCAt            *time.Time             `json:"qc_at,omitempty"`
	IssuedUIDCount  int                    `json:"issued_uid_count"`
	UIDsIssued      bool                   `json:"uids_issued"`
	DebitNoteID     *uuid.UUID             `json:"debit_note_id,omitempty"`
}

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	ID               uuid.UUID               `json:"id"`
	ReceiptNumber    string                  `json:"receipt_number"`
	PurchaseOrderID  uuid.UUID               `json:"purchase_order_id"`
	PONumber         string                  `json:"po_number"`
	VendorID         uuid.UUID               `json:"vendor_id"`
	VendorName       string                  `json:"vendor_name"`
	WarehouseID      uuid.UUID               `json:"warehouse_id"`
	ReceiptDate      time.Time               `json:"receipt_date"`
	InvoiceNumber    string                  `json:"invoice_number,omitempty"`
	InvoiceDate      *time.Time              `json:"invoice_date,omitempty"`
	Status           receiving.ReceiptStatus `json:"status"`
	BusinessStatus   string                  `json:"business_status"`
	QCCompleted      bool                    `json:"qc_completed"`
	Notes            string                  `json:"notes,omitempty"`
	Lines            []ReceiptLineResponse   `json:"lines"`
	GrossAmount      decimal.Decimal         `json:"gross_amount"`
	DebitNoteAmount  decimal.Decimal         `json:"debit_note_amount"`
	NetPayableAmount decimal.Decimal         `json:"net_payable_amount"`
	PaidAmount       decimal.Decimal         `json:"paid_amount"`
	RemainingAmount  decimal.Decimal         `json:"remaining_amount"`
	PaymentStatus    receiving.PaymentStatus `json:"payment_status"`
	PaymentMethod    string                  `json:"payment_method,omitempty"`
	PaymentReference string                  `json:"payment_reference,omitempty"`
	PaymentDate      *time.Time              `json:"payment_date,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// ReceiptListFilter represents filter options for listing receipts
type ReceiptListFilter struct {
	Page          int
	PageSize      int
	OrderBy       string
	OrderDir      string
	Status        string
	PaymentStatus string
	VendorID      *uuid.UUID
	WarehouseID   *uuid.UUID
	DateFrom      *time.Time
	DateTo        *time.Time
	Search        string
}

// ToReceiptLineResponse converts a domain receipt line to a response DTO
func ToReceiptLineResponse(line *receiving.ReceiptLine) ReceiptLineResponse {
	return ReceiptLineResponse{
		ID:              line.ID,
		ItemID:          line.ItemID,
		POLineID:        line.POLineID,
		ItemCode:        line.ItemCode,
		ItemName:        line.ItemName,
		OrderedQty:      line.OrderedQty,
		ReceivedQty:     line.ReceivedQty,
		AcceptedQty:     line.AcceptedQty,
		RejectedQty:     line.RejectedQty,
		Rate:            line.Rate,
		BatchNumber:     line.BatchNumber,
		ExpiryDate:      line.ExpiryDate,
		Notes:           line.Notes,
		QCStatus:        line.QCStatus,
		RejectionReason: line.RejectionReason,
		RejectionAmount: line.RejectionAmount,
		ReturnStatus:    line.ReturnStatus,
		QCBy:            line.QCBy,
		QCAt:            line.QCAt,
		IssuedUIDCount:  line.IssuedUIDCount,
		UIDsIssued:      line.UIDsIssued,
		DebitNoteID:     line.DebitNoteID,
	}
}

// ToReceiptResponse converts a domain receipt to a response DTO
func ToReceiptResponse(r *receiving.Receipt) ReceiptResponse {
	lines := make([]ReceiptLineResponse, len(r.Lines))
	for i := range r.Lines {
		lines[i] = ToReceiptLineResponse(&r.Lines[i])
	}

	return ReceiptResponse{
		ID:               r.ID,
		ReceiptNumber:    r.ReceiptNumber,
		PurchaseOrderID:  r.PurchaseOrderID,
		PONumber:         r.PONumber,
		VendorID:         r.VendorID,
		VendorName:       r.VendorName,
		WarehouseID:      r.WarehouseID,
		ReceiptDate:      r.ReceiptDate,
		InvoiceNumber:    r.InvoiceNumber,
		InvoiceDate:      r.InvoiceDate,
		Status:           r.Status,
		BusinessStatus:   receiving.BusinessStatus(r.Status),
		QCCompleted:      r.QCCompleted,
		Notes:            r.Notes,
		Lines:            lines,
		GrossAmount:      r.GrossAmount,
		DebitNoteAmount:  r.DebitNoteAmount,
		NetPayableAmount: r.NetPayableAmount,
		PaidAmount:       r.PaidAmount,
		RemainingAmount:  r.RemainingPayable(),
		PaymentStatus:    r.PaymentStatus,
		PaymentMethod:    r.PaymentMethod,
		PaymentReference: r.PaymentReference,
		PaymentDate:      r.PaymentDate,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// ==================== QC Disposition DTOs ====================

// DisposeLineInput represents one line's accepted/rejected split
type DisposeLineInput struct {
	LineID          uuid.UUID       `json:"line_id" binding:"required"`
	AcceptedQty     decimal.Decimal `json:"accepted_qty"`
	RejectedQty     decimal.Decimal `json:"rejected_qty"`
	RejectionReason string          `json:"rejection_reason"`
	Notes           string          `json:"notes"`
	Attachment      string          `json:"attachment"`
}

// DisposeItemsRequest represents a QC disposition for a receipt
type DisposeItemsRequest struct {
	Inspector *uuid.UUID         `json:"inspector"`
	Lines     []DisposeLineInput `json:"lines" binding:"required,min=1"`
}

// SideEffectFailure reports one best-effort side effect that failed.
// Primary disposition writes always abort the call; these never do.
type SideEffectFailure struct {
	Kind   string     `json:"kind"`
	LineID *uuid.UUID `json:"line_id,omitempty"`
	Error  string     `json:"error"`
}

// DisposeItemsResult is the outcome of a QC disposition
type DisposeItemsResult struct {
	Receipt     ReceiptResponse     `json:"receipt"`
	QCCompleted bool                `json:"qc_completed"`
	DebitNoteID *uuid.UUID          `json:"debit_note_id,omitempty"`
	IssuedUIDs  map[string][]string `json:"issued_uids,omitempty"`
	SideEffects []SideEffectFailure `json:"side_effect_failures,omitempty"`
}

// ==================== Debit Note DTOs ====================

// CreateDebitNoteLineInput represents one line in a manual debit note
type CreateDebitNoteLineInput struct {
	ReceiptLineID *uuid.UUID      `json:"receipt_line_id"`
	ItemID        uuid.UUID       `json:"item_id" binding:"required"`
	ItemCode      string          `json:"item_code"`
	ItemName      string          `json:"item_name"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	Rate          decimal.Decimal `json:"rate" binding:"required"`
	Reason        string          `json:"reason" binding:"required"`
}

// CreateDebitNoteRequest represents a manual debit note creation
type CreateDebitNoteRequest struct {
	VendorID  uuid.UUID                  `json:"vendor_id" binding:"required"`
	ReceiptID *uuid.UUID                 `json:"receipt_id"`
	Reason    string                     `json:"reason"`
	Notes     string                     `json:"notes"`
	Lines     []CreateDebitNoteLineInput `json:"lines" binding:"required,min=1"`
}

// UpdateDebitNoteStatusRequest carries a target debit note status
type UpdateDebitNoteStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SendDebitNoteRequest optionally overrides the delivery recipient
type SendDebitNoteRequest struct {
	Recipient string `json:"recipient"`
}

// UpdateReturnStatusRequest carries a return disposition for a claim line
type UpdateReturnStatusRequest struct {
	ReturnStatus string `json:"return_status" binding:"required"`
}

// DebitNoteLineResponse represents a debit note line in API responses
type DebitNoteLineResponse struct {
	ID            uuid.UUID              `json:"id"`
	ReceiptLineID uuid.UUID              `json:"receipt_line_id"`
	ItemID        uuid.UUID              `json:"item_id"`
	ItemCode      string                 `json:"item_code"`
	ItemName      string                 `json:"item_name"`
	RejectedQty   decimal.Decimal        `json:"rejected_qty"`
	Rate          decimal.Decimal        `json:"rate"`
	Amount        decimal.Decimal        `json:"amount"`
	Reason        string                 `json:"reason"`
	ReturnStatus  receiving.ReturnStatus `json:"return_status"`
}

// DebitNoteResponse represents a debit note in API responses
type DebitNoteResponse struct {
	ID              uuid.UUID                 `json:"id"`
	DebitNoteNumber string                    `json:"debit_note_number"`
	ReceiptID       *uuid.UUID                `json:"receipt_id,omitempty"`
	ReceiptNumber   string                    `json:"receipt_number,omitempty"`
	VendorID        uuid.UUID                 `json:"vendor_id"`
	VendorName      string                    `json:"vendor_name"`
	Status          receiving.DebitNoteStatus `json:"status"`
	Reason          string                    `json:"reason,omitempty"`
	TotalAmount     decimal.Decimal           `json:"total_amount"`
	NoteDate        time.Time                 `json:"note_date"`
	ApprovedBy      *uuid.UUID                `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time                `json:"approved_at,omitempty"`
	SentTo          string                    `json:"sent_to,omitempty"`
	SentAt          *time.Time                `json:"sent_at,omitempty"`
	Notes           string                    `json:"notes,omitempty"`
	Lines           []DebitNoteLineResponse   `json:"lines"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// DebitNoteListFilter represents filter options for listing debit notes
type DebitNoteListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Status   string
	VendorID *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
}

// ToDebitNoteResponse converts a domain debit note to a response DTO
func ToDebitNoteResponse(dn *receiving.DebitNote) DebitNoteResponse {
	lines := make([]DebitNoteLineResponse, len(dn.Lines))
	for i, line := range dn.Lines {
		lines[i] = DebitNoteLineResponse{
			ID:            line.ID,
			ReceiptLineID: line.ReceiptLineID,
			ItemID:        line.ItemID,
			ItemCode:      line.ItemCode,
			ItemName:      line.ItemName,
			RejectedQty:   line.RejectedQty,
			Rate:          line.Rate,
			Amount:        line.Amount,
			Reason:        line.Reason,
			ReturnStatus:  line.ReturnStatus,
		}
	}

	return DebitNoteResponse{
		ID:              dn.ID,
		DebitNoteNumber: dn.DebitNoteNumber,
		ReceiptID:       dn.ReceiptID,
		ReceiptNumber:   dn.ReceiptNumber,
		VendorID:        dn.VendorID,
		VendorName:      dn.VendorName,
		Status:          dn.Status,
		Reason:          dn.Reason,
		TotalAmount:     dn.TotalAmount,
		NoteDate:        dn.NoteDate,
		ApprovedBy:      dn.ApprovedBy,
		ApprovedAt:      dn.ApprovedAt,
		SentTo:          dn.SentTo,
		SentAt:          dn.SentAt,
		Notes:           dn.Notes,
		Lines:           lines,
		CreatedAt:       dn.CreatedAt,
		UpdatedAt:       dn.UpdatedAt,
	}
}

// ==================== Payment DTOs ====================

// RecordPaymentRequest represents a settlement payment against a receipt
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference string          `json:"reference"`
	Date      *time.Time      `json:"date"`
	Notes     string          `json:"notes"`
}

// PaymentResponse summarizes the settlement position after a payment
type PaymentResponse struct {
	ReceiptID       uuid.UUID               `json:"receipt_id"`
	ReceiptNumber   string                  `json:"receipt_number"`
	NetPayable      decimal.Decimal         `json:"net_payable"`
	PaidAmount      decimal.Decimal         `json:"paid_amount"`
	RemainingAmount decimal.Decimal         `json:"remaining_amount"`
	PaymentStatus   receiving.PaymentStatus `json:"payment_status"`
}
