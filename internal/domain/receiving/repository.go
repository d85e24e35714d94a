package receiving

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceiptFilter describes query criteria for listing receipts
type ReceiptFilter struct {
	shared.Filter
	Status        *ReceiptStatus
	PaymentStatus *PaymentStatus
	VendorID      *uuid.UUID
	WarehouseID   *uuid.UUID
	DateFrom      *time.Time
	DateTo        *time.Time
	Search        string
}

// DebitNoteFilter describes query criteria for listing debit notes
type DebitNoteFilter struct {
	shared.Filter
	Status   *DebitNoteStatus
	VendorID *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
}

// VendorPayable summarizes outstanding debit claims against one vendor
type VendorPayable struct {
	VendorID    uuid.UUID       `json:"vendor_id"`
	VendorName  string          `json:"vendor_name"`
	NoteCount   int64           `json:"note_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ReceiptRepository defines the persistence interface for receipts
type ReceiptRepository interface {
	Save(ctx context.Context, receipt *Receipt) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Receipt, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*Receipt, error)
	FindByPurchaseOrderID(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (*Receipt, error)
	ExistsForPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (bool, error)
	List(ctx context.Context, tenantID uuid.UUID, filter ReceiptFilter) (*shared.Paginated[Receipt], error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// DebitNoteRepository defines the persistence interface for debit notes
type DebitNoteRepository interface {
	Save(ctx context.Context, note *DebitNote) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*DebitNote, error)
	FindByReceiptID(ctx context.Context, tenantID, receiptID uuid.UUID) (*DebitNote, error)
	ExistsForReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (bool, error)
	List(ctx context.Context, tenantID uuid.UUID, filter DebitNoteFilter) (*shared.Paginated[DebitNote], error)
	VendorPayables(ctx context.Context, tenantID uuid.UUID) ([]VendorPayable, error)
}

// SequenceRepository hands out document numbers scoped by tenant, prefix and
// calendar period. Next must be atomic so concurrent callers in the same
// period never receive the same number.
type SequenceRepository interface {
	Next(ctx context.Context, tenantID uuid.UUID, prefix, period string) (int, error)
}
