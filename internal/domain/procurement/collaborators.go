// Package procurement defines the read-only views this service consumes from
// the purchasing and master-data subsystems. Requisition and purchase-order
// authoring live elsewhere; receiving only needs to look up what was ordered,
// from whom, and how items are tracked.
package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UIDStrategy controls how traceable identifiers are issued for an item
type UIDStrategy string

const (
	UIDStrategyNone       UIDStrategy = "NONE"       // no identifiers issued
	UIDStrategySerialized UIDStrategy = "SERIALIZED" // one identifier per unit
	UIDStrategyBatched    UIDStrategy = "BATCHED"    // one identifier per batch of BatchQuantity units
)

// IsValid checks if the strategy is a valid UIDStrategy
func (s UIDStrategy) IsValid() bool {
	switch s {
	case UIDStrategyNone, UIDStrategySerialized, UIDStrategyBatched:
		return true
	}
	return false
}

// ItemAttributes holds the item-master attributes receiving cares about
type ItemAttributes struct {
	ID            uuid.UUID
	Code          string
	Name          string
	Category      string
	UIDTracking   bool
	UIDStrategy   UIDStrategy
	BatchQuantity decimal.Decimal // units per batch when UIDStrategy is BATCHED
}

// PurchaseOrderLine is the slice of a purchase-order line receiving consumes
type PurchaseOrderLine struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	ItemID     uuid.UUID
	OrderedQty decimal.Decimal
	Rate       decimal.Decimal
}

// PurchaseOrderInfo identifies a purchase order and its vendor
type PurchaseOrderInfo struct {
	ID       uuid.UUID
	Number   string
	VendorID uuid.UUID
}

// VendorInfo is the vendor identity slice receiving consumes
type VendorInfo struct {
	ID    uuid.UUID
	Code  string
	Name  string
	Email string
}

// WarehouseInfo is the warehouse identity slice receiving consumes
type WarehouseInfo struct {
	ID   uuid.UUID
	Code string
	Name string
}

// ItemProvider looks up item-master attributes
type ItemProvider interface {
	GetItem(ctx context.Context, tenantID, itemID uuid.UUID) (*ItemAttributes, error)
}

// PurchaseOrderProvider looks up purchase orders and their lines
type PurchaseOrderProvider interface {
	GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderInfo, error)
	GetOrderLine(ctx context.Context, tenantID, lineID uuid.UUID) (*PurchaseOrderLine, error)
}

// VendorProvider looks up vendor identity
type VendorProvider interface {
	GetVendor(ctx context.Context, tenantID, vendorID uuid.UUID) (*VendorInfo, error)
}

// WarehouseProvider looks up warehouse identity
type WarehouseProvider interface {
	GetWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (*WarehouseInfo, error)
}
