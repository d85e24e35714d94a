package inventory

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType classifies a stock ledger entry
type MovementType string

const (
	MovementTypeReceipt    MovementType = "RECEIPT"
	MovementTypeIssue      MovementType = "ISSUE"
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
	MovementTypeReturn     MovementType = "RETURN"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeReceipt, MovementTypeIssue, MovementTypeAdjustment, MovementTypeReturn:
		return true
	}
	return false
}

// EntryMetadata references the document that caused a ledger entry
type EntryMetadata struct {
	SourceType    string `json:"source_type,omitempty"`
	SourceID      string `json:"source_id,omitempty"`
	SourceNumber  string `json:"source_number,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// Value implements driver.Valuer for JSON storage
func (m EntryMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSON storage
func (m *EntryMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = EntryMetadata{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return fmt.Errorf("unsupported metadata column type %T", value)
}

// StockEntry is one immutable row in the stock ledger. The ledger is the
// audit source of truth; aggregate balances are a denormalized cache.
type StockEntry struct {
	shared.TenantAggregateRoot
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_entry_item_wh"`
	WarehouseID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_entry_item_wh"`
	MovementType MovementType    `gorm:"type:varchar(20);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AvailableQty decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BatchNumber  string          `gorm:"type:varchar(50)"`
	EntryDate    time.Time       `gorm:"not null;index"`
	Metadata     EntryMetadata   `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (StockEntry) TableName() string {
	return "stock_entries"
}

// NewStockEntry writes a signed quantity movement into the ledger.
// Available quantity defaults to the movement quantity for inbound entries.
func NewStockEntry(
	tenantID, itemID, warehouseID uuid.UUID,
	movementType MovementType,
	quantity, rate decimal.Decimal,
	batchNumber string,
	metadata EntryMetadata,
) (*StockEntry, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewValidationError("INVALID_MOVEMENT_TYPE", fmt.Sprintf("Invalid movement type: %s", movementType))
	}
	if quantity.IsZero() {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}

	available := quantity
	if quantity.IsNegative() {
		available = decimal.Zero
	}

	return &StockEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ItemID:              itemID,
		WarehouseID:         warehouseID,
		MovementType:        movementType,
		Quantity:            quantity,
		AvailableQty:        available,
		Rate:                rate,
		BatchNumber:         batchNumber,
		EntryDate:           time.Now(),
		Metadata:            metadata,
	}, nil
}
