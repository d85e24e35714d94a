package traceability

import (
	"context"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/shared"
)

// UIDFilter describes query criteria for listing identifiers
type UIDFilter struct {
	shared.Filter
	EntityType *EntityType
	Status     *UIDStatus
	ItemID     *uuid.UUID
	VendorID   *uuid.UUID
	ReceiptID  *uuid.UUID
	Search     string
}

// UIDRepository defines the persistence interface for the identifier registry
type UIDRepository interface {
	Save(ctx context.Context, record *UIDRecord) error
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*UIDRecord, error)
	FindByReceiptAndItem(ctx context.Context, tenantID, receiptID, itemID uuid.UUID) ([]UIDRecord, error)
	CountByReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (int64, error)
	List(ctx context.Context, tenantID uuid.UUID, filter UIDFilter) (*shared.Paginated[UIDRecord], error)
	// NextSequence returns the next issuance sequence for a code prefix.
	// Must be atomic per (tenant, prefix) so concurrent issuers never collide.
	NextSequence(ctx context.Context, tenantID uuid.UUID, prefix string) (int, error)
}
