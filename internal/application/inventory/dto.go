package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// StockEntryResponse represents a ledger entry in API responses
type StockEntryResponse struct {
	ID           uuid.UUID               `json:"id"`
	ItemID       uuid.UUID               `json:"item_id"`
	WarehouseID  uuid.UUID               `json:"warehouse_id"`
	MovementType inventory.MovementType  `json:"movement_type"`
	Quantity     decimal.Decimal         `json:"quantity"`
	AvailableQty decimal.Decimal         `json:"available_qty"`
	Rate         decimal.Decimal         `json:"rate"`
	BatchNumber  string                  `json:"batch_number,omitempty"`
	EntryDate    time.Time               `json:"entry_date"`
	Metadata     inventory.EntryMetadata `json:"metadata"`
}

// ToStockEntryResponse converts a domain entry to a response DTO
func ToStockEntryResponse(e *inventory.StockEntry) StockEntryResponse {
	return StockEntryResponse{
		ID:           e.ID,
		ItemID:       e.ItemID,
		WarehouseID:  e.WarehouseID,
		MovementType: e.MovementType,
		Quantity:     e.Quantity,
		AvailableQty: e.AvailableQty,
		Rate:         e.Rate,
		BatchNumber:  e.BatchNumber,
		EntryDate:    e.EntryDate,
		Metadata:     e.Metadata,
	}
}

// StockBalanceResponse represents an on-hand balance in API responses
type StockBalanceResponse struct {
	ItemID       uuid.UUID       `json:"item_id"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	ItemCategory string          `json:"item_category,omitempty"`
	OnHandQty    decimal.Decimal `json:"on_hand_qty"`
	LastMovement *time.Time      `json:"last_movement,omitempty"`
}

// ToStockBalanceResponse converts a domain balance to a response DTO
func ToStockBalanceResponse(b *inventory.StockBalance) StockBalanceResponse {
	return StockBalanceResponse{
		ItemID:       b.ItemID,
		WarehouseID:  b.WarehouseID,
		ItemCategory: b.ItemCategory,
		OnHandQty:    b.OnHandQty,
		LastMovement: b.LastMovement,
	}
}

// MovementListFilter represents filter options for listing ledger entries
type MovementListFilter struct {
	Page         int
	PageSize     int
	OrderBy      string
	OrderDir     string
	ItemID       *uuid.UUID
	WarehouseID  *uuid.UUID
	MovementType string
	DateFrom     *time.Time
	DateTo       *time.Time
}

// BalanceListFilter represents filter options for listing balances
type BalanceListFilter struct {
	Page        int
	PageSize    int
	ItemID      *uuid.UUID
	WarehouseID *uuid.UUID
	Category    string
}
