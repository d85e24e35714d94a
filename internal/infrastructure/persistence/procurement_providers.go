package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sakmfg/backoffice/internal/domain/procurement"
	"github.com/sakmfg/backoffice/internal/domain/shared"
)

// The purchasing and master-data tables are owned by upstream services.
// These row types map only the columns receiving reads.

type itemRow struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null"`
	Code          string          `gorm:"type:varchar(50);not null"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Category      string          `gorm:"type:varchar(50)"`
	UIDTracking   bool            `gorm:"column:uid_tracking;not null;default:false"`
	UIDStrategy   string          `gorm:"column:uid_strategy;type:varchar(20)"`
	BatchQuantity decimal.Decimal `gorm:"type:decimal(18,4)"`
}

func (itemRow) TableName() string { return "items" }

type purchaseOrderRow struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID uuid.UUID `gorm:"type:uuid;not null"`
	Number   string    `gorm:"type:varchar(50);not null"`
	VendorID uuid.UUID `gorm:"type:uuid;not null"`
}

func (purchaseOrderRow) TableName() string { return "purchase_orders" }

type purchaseOrderLineRow struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null"`
	OrderedQty decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Rate       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (purchaseOrderLineRow) TableName() string { return "purchase_order_lines" }

type vendorRow struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID uuid.UUID `gorm:"type:uuid;not null"`
	Code     string    `gorm:"type:varchar(50);not null"`
	Name     string    `gorm:"type:varchar(200);not null"`
	Email    string    `gorm:"type:varchar(200)"`
}

func (vendorRow) TableName() string { return "vendors" }

type warehouseRow struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID uuid.UUID `gorm:"type:uuid;not null"`
	Code     string    `gorm:"type:varchar(50);not null"`
	Name     string    `gorm:"type:varchar(200);not null"`
}

func (warehouseRow) TableName() string { return "warehouses" }

// GormItemProvider implements ItemProvider over the item master table
type GormItemProvider struct {
	db *gorm.DB
}

// NewGormItemProvider creates a new GormItemProvider
func NewGormItemProvider(db *gorm.DB) *GormItemProvider {
	return &GormItemProvider{db: db}
}

// GetItem looks up the item-master attributes receiving cares about
func (p *GormItemProvider) GetItem(ctx context.Context, tenantID, itemID uuid.UUID) (*procurement.ItemAttributes, error) {
	var row itemRow
	if err := p.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, itemID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("item")
		}
		return nil, err
	}

	strategy := procurement.UIDStrategy(row.UIDStrategy)
	if !strategy.IsValid() {
		strategy = procurement.UIDStrategyNone
	}

	return &procurement.ItemAttributes{
		ID:            row.ID,
		Code:          row.Code,
		Name:          row.Name,
		Category:      row.Category,
		UIDTracking:   row.UIDTracking,
		UIDStrategy:   strategy,
		BatchQuantity: row.BatchQuantity,
	}, nil
}

// GormPurchaseOrderProvider implements PurchaseOrderProvider over the
// purchasing tables
type GormPurchaseOrderProvider struct {
	db *gorm.DB
}

// NewGormPurchaseOrderProvider creates a new GormPurchaseOrderProvider
func NewGormPurchaseOrderProvider(db *gorm.DB) *GormPurchaseOrderProvider {
	return &GormPurchaseOrderProvider{db: db}
}

// GetOrder looks up a purchase order's identity and vendor
func (p *GormPurchaseOrderProvider) GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*procurement.PurchaseOrderInfo, error) {
	var row purchaseOrderRow
	if err := p.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, orderID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("purchase order")
		}
		return nil, err
	}
	return &procurement.PurchaseOrderInfo{
		ID:       row.ID,
		Number:   row.Number,
		VendorID: row.VendorID,
	}, nil
}

// GetOrderLine looks up one purchase-order line
func (p *GormPurchaseOrderProvider) GetOrderLine(ctx context.Context, tenantID, lineID uuid.UUID) (*procurement.PurchaseOrderLine, error) {
	var row purchaseOrderLineRow
	if err := p.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, lineID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("purchase order line")
		}
		return nil, err
	}
	return &procurement.PurchaseOrderLine{
		ID:         row.ID,
		OrderID:    row.OrderID,
		ItemID:     row.ItemID,
		OrderedQty: row.OrderedQty,
		Rate:       row.Rate,
	}, nil
}

// GormVendorProvider implements VendorProvider over the vendor master table
type GormVendorProvider struct {
	db *gorm.DB
}

// NewGormVendorProvider creates a new GormVendorProvider
func NewGormVendorProvider(db *gorm.DB) *GormVendorProvider {
	return &GormVendorProvider{db: db}
}

// GetVendor looks up vendor identity
func (p *GormVendorProvider) GetVendor(ctx context.Context, tenantID, vendorID uuid.UUID) (*procurement.VendorInfo, error) {
	var row vendorRow
	if err := p.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, vendorID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("vendor")
		}
		return nil, err
	}
	return &procurement.VendorInfo{
		ID:    row.ID,
		Code:  row.Code,
		Name:  row.Name,
		Email: row.Email,
	}, nil
}

// GormWarehouseProvider implements WarehouseProvider over the warehouse
// master table
type GormWarehouseProvider struct {
	db *gorm.DB
}

// NewGormWarehouseProvider creates a new GormWarehouseProvider
func NewGormWarehouseProvider(db *gorm.DB) *GormWarehouseProvider {
	return &GormWarehouseProvider{db: db}
}

// GetWarehouse looks up warehouse identity
func (p *GormWarehouseProvider) GetWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (*procurement.WarehouseInfo, error) {
	var row warehouseRow
	if err := p.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, warehouseID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("warehouse")
		}
		return nil, err
	}
	return &procurement.WarehouseInfo{
		ID:   row.ID,
		Code: row.Code,
		Name: row.Name,
	}, nil
}

var (
	_ procurement.ItemProvider          = (*GormItemProvider)(nil)
	_ procurement.PurchaseOrderProvider = (*GormPurchaseOrderProvider)(nil)
	_ procurement.VendorProvider        = (*GormVendorProvider)(nil)
	_ procurement.WarehouseProvider     = (*GormWarehouseProvider)(nil)
)
