package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sakmfg/backoffice/internal/domain/inventory"
	"github.com/sakmfg/backoffice/internal/domain/shared"
)

// GormStockBalanceRepository implements StockBalanceRepository using GORM
type GormStockBalanceRepository struct {
	db *gorm.DB
}

// NewGormStockBalanceRepository creates a new GormStockBalanceRepository
func NewGormStockBalanceRepository(db *gorm.DB) *GormStockBalanceRepository {
	return &GormStockBalanceRepository{db: db}
}

// Increment applies a signed quantity to the (item, warehouse) balance,
// creating the row at zero first when it does not exist. The adjustment
// happens inside the upsert so concurrent postings never lose an update.
func (r *GormStockBalanceRepository) Increment(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, itemCategory string, quantity decimal.Decimal) error {
	balance, err := inventory.NewStockBalance(tenantID, itemID, warehouseID, itemCategory)
	if err != nil {
		return err
	}
	balance.OnHandQty = quantity

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}, {Name: "item_id"}, {Name: "warehouse_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"on_hand_qty": gorm.Expr("stock_balances.on_hand_qty + ?", quantity),
				"updated_at":  balance.UpdatedAt,
			}),
		}).
		Create(balance).Error
}

// Find finds the balance for one item and warehouse
func (r *GormStockBalanceRepository) Find(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*inventory.StockBalance, error) {
	var balance inventory.StockBalance
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id = ? AND warehouse_id = ?", tenantID, itemID, warehouseID).
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("stock balance")
		}
		return nil, err
	}
	return &balance, nil
}

// List finds balances matching the filter with pagination
func (r *GormStockBalanceRepository) List(ctx context.Context, tenantID uuid.UUID, filter inventory.BalanceFilter) (*shared.Paginated[inventory.StockBalance], error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockBalance{}).
		Where("tenant_id = ?", tenantID)
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.Category != "" {
		query = query.Where("item_category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	orderBy := ValidateSortField(filter.OrderBy, StockBalanceSortFields, "updated_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var balances []inventory.StockBalance
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&balances).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(balances, total, page, pageSize)
	return &result, nil
}

// Ensure GormStockBalanceRepository implements StockBalanceRepository
var _ inventory.StockBalanceRepository = (*GormStockBalanceRepository)(nil)
