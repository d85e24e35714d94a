package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockBalance is the denormalized on-hand quantity per (item, warehouse).
// It is maintained by signed increments from the ledger and may be rebuilt
// from stock entries when it drifts.
type StockBalance struct {
	shared.TenantAggregateRoot
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_balance_scope,priority:2"`
	WarehouseID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_balance_scope,priority:3"`
	ItemCategory string          `gorm:"type:varchar(50)"`
	OnHandQty    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LastMovement *time.Time
}

// TableName returns the table name for GORM
func (StockBalance) TableName() string {
	return "stock_balances"
}

// NewStockBalance creates a zero balance for an (item, warehouse) pair
func NewStockBalance(tenantID, itemID, warehouseID uuid.UUID, itemCategory string) (*StockBalance, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}

	return &StockBalance{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ItemID:              itemID,
		WarehouseID:         warehouseID,
		ItemCategory:        itemCategory,
		OnHandQty:           decimal.Zero,
	}, nil
}

// Apply adds a signed quantity to the on-hand balance
func (b *StockBalance) Apply(quantity decimal.Decimal) {
	now := time.Now()
	b.OnHandQty = b.OnHandQty.Add(quantity)
	b.LastMovement = &now
	b.UpdatedAt = now
	b.IncrementVersion()
}
