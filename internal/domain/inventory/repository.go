package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementFilter describes query criteria for listing ledger entries
type MovementFilter struct {
	shared.Filter
	ItemID       *uuid.UUID
	WarehouseID  *uuid.UUID
	MovementType *MovementType
	DateFrom     *time.Time
	DateTo       *time.Time
}

// BalanceFilter describes query criteria for listing balances
type BalanceFilter struct {
	shared.Filter
	ItemID      *uuid.UUID
	WarehouseID *uuid.UUID
	Category    string
}

// StockEntryRepository defines the persistence interface for the ledger
type StockEntryRepository interface {
	Save(ctx context.Context, entry *StockEntry) error
	List(ctx context.Context, tenantID uuid.UUID, filter MovementFilter) (*shared.Paginated[StockEntry], error)
	SumQuantity(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (decimal.Decimal, error)
}

// StockBalanceRepository defines the persistence interface for balances.
// Increment must upsert: a missing (item, warehouse) row is created at zero
// before the signed quantity is applied.
type StockBalanceRepository interface {
	Increment(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, itemCategory string, quantity decimal.Decimal) error
	Find(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*StockBalance, error)
	List(ctx context.Context, tenantID uuid.UUID, filter BalanceFilter) (*shared.Paginated[StockBalance], error)
}
