package receiving

import (
	"context"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/shopspring/decimal"
)

// StockPostingInput carries one accepted-quantity posting to the stock ledger
type StockPostingInput struct {
	ItemID        uuid.UUID
	ItemCategory  string
	WarehouseID   uuid.UUID
	Quantity      decimal.Decimal
	Rate          decimal.Decimal
	BatchNumber   string
	ReceiptID     uuid.UUID
	ReceiptNumber string
	InvoiceNumber string
}

// StockPoster posts accepted quantities into the stock ledger
type StockPoster interface {
	PostAcceptedStock(ctx context.Context, tenantID uuid.UUID, input StockPostingInput) error
}

// IdentifierIssuer issues traceability identifiers for an accepted line.
// Implementations must be idempotent per (receipt, item).
type IdentifierIssuer interface {
	IssueForLine(ctx context.Context, receipt *receiving.Receipt, line *receiving.ReceiptLine) ([]string, error)
}

// Notifier delivers vendor-facing messages for debit claims
type Notifier interface {
	SendDebitNote(ctx context.Context, note *receiving.DebitNote, recipient string) error
}

// DebitNoteGenerator derives a vendor claim from a receipt's rejected lines.
// Returns nil without error when nothing is claimable. Must be idempotent:
// a receipt that already has a debit note gets its existing one back.
type DebitNoteGenerator interface {
	GenerateForReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (*DebitNoteResponse, error)
}

// UIDCounter reports how many identifiers reference a receipt
type UIDCounter interface {
	CountByReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (int64, error)
}

// ReceiptLocker serializes mutating operations per receipt. Acquire blocks
// idempotency-guarded sequences from racing; the returned function releases
// the lock.
type ReceiptLocker interface {
	Acquire(ctx context.Context, tenantID, receiptID uuid.UUID) (func(), error)
}
