package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sakmfg/backoffice/internal/domain/inventory"
	"github.com/sakmfg/backoffice/internal/domain/shared"
)

// GormStockEntryRepository implements StockEntryRepository using GORM
type GormStockEntryRepository struct {
	db *gorm.DB
}

// NewGormStockEntryRepository creates a new GormStockEntryRepository
func NewGormStockEntryRepository(db *gorm.DB) *GormStockEntryRepository {
	return &GormStockEntryRepository{db: db}
}

// Save appends a ledger entry. Entries are immutable once written.
func (r *GormStockEntryRepository) Save(ctx context.Context, entry *inventory.StockEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List finds ledger entries matching the filter with pagination
func (r *GormStockEntryRepository) List(ctx context.Context, tenantID uuid.UUID, filter inventory.MovementFilter) (*shared.Paginated[inventory.StockEntry], error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockEntry{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	orderBy := ValidateSortField(filter.OrderBy, StockEntrySortFields, "entry_date")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var entries []inventory.StockEntry
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(entries, total, page, pageSize)
	return &result, nil
}

// SumQuantity sums the signed ledger quantities for one item and warehouse
func (r *GormStockEntryRepository) SumQuantity(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockEntry{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ?", tenantID, itemID, warehouseID).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *GormStockEntryRepository) applyFilter(query *gorm.DB, filter inventory.MovementFilter) *gorm.DB {
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.MovementType != nil {
		query = query.Where("movement_type = ?", *filter.MovementType)
	}
	if filter.DateFrom != nil {
		query = query.Where("entry_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("entry_date <= ?", *filter.DateTo)
	}
	return query
}

// Ensure GormStockEntryRepository implements StockEntryRepository
var _ inventory.StockEntryRepository = (*GormStockEntryRepository)(nil)
