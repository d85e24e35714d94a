package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/sakmfg/backoffice/internal/domain/shared"
)

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormReceiptRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Save creates or updates a receipt together with its lines.
// When an outbox saver is configured, pending domain events are persisted
// in the same transaction and drained from the aggregate.
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *receiving.Receipt) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(receipt).Error; err != nil {
			return err
		}

		// Reconcile lines: remove the ones no longer on the aggregate,
		// then save the current set
		currentLineIDs := make([]uuid.UUID, len(receipt.Lines))
		for i, line := range receipt.Lines {
			currentLineIDs[i] = line.ID
		}

		if len(currentLineIDs) > 0 {
			if err := tx.Where("receipt_id = ? AND id NOT IN ?", receipt.ID, currentLineIDs).
				Delete(&receiving.ReceiptLine{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("receipt_id = ?", receipt.ID).
				Delete(&receiving.ReceiptLine{}).Error; err != nil {
				return err
			}
		}

		for i := range receipt.Lines {
			receipt.Lines[i].ReceiptID = receipt.ID
			if err := tx.Save(&receipt.Lines[i]).Error; err != nil {
				return err
			}
		}

		if r.outboxSaver != nil {
			if events := receipt.GetDomainEvents(); len(events) > 0 {
				if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
					return fmt.Errorf("failed to save events to outbox: %w", err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	if r.outboxSaver != nil {
		receipt.ClearDomainEvents()
	}
	return nil
}

// FindByID finds a receipt by ID within a tenant
func (r *GormReceiptRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*receiving.Receipt, error) {
	var receipt receiving.Receipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("receipt")
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByNumber finds a receipt by its document number within a tenant
func (r *GormReceiptRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*receiving.Receipt, error) {
	var receipt receiving.Receipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND receipt_number = ?", tenantID, receiptNumber).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("receipt")
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByPurchaseOrderID finds the receipt recorded against a purchase order
func (r *GormReceiptRepository) FindByPurchaseOrderID(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (*receiving.Receipt, error) {
	var receipt receiving.Receipt
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND purchase_order_id = ?", tenantID, purchaseOrderID).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("receipt")
		}
		return nil, err
	}
	return &receipt, nil
}

// ExistsForPurchaseOrder checks whether a receipt already exists for a purchase order
func (r *GormReceiptRepository) ExistsForPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&receiving.Receipt{}).
		Where("tenant_id = ? AND purchase_order_id = ?", tenantID, purchaseOrderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List finds receipts matching the filter with pagination
func (r *GormReceiptRepository) List(ctx context.Context, tenantID uuid.UUID, filter receiving.ReceiptFilter) (*shared.Paginated[receiving.Receipt], error) {
	query := r.db.WithContext(ctx).
		Model(&receiving.Receipt{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	orderBy := ValidateSortField(filter.OrderBy, ReceiptSortFields, "receipt_date")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var receipts []receiving.Receipt
	if err := query.
		Preload("Lines").
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&receipts).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(receipts, total, page, pageSize)
	return &result, nil
}

// Delete removes a receipt and its lines
func (r *GormReceiptRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("receipt_id = ?", id).
			Delete(&receiving.ReceiptLine{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&receiving.Receipt{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("receipt")
		}
		return nil
	})
}

func (r *GormReceiptRepository) applyFilter(query *gorm.DB, filter receiving.ReceiptFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.DateFrom != nil {
		query = query.Where("receipt_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("receipt_date <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("receipt_number ILIKE ? OR po_number ILIKE ? OR vendor_name ILIKE ?",
			pattern, pattern, pattern)
	}
	return query
}

// normalizePage clamps page and page size to sane values
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// Ensure GormReceiptRepository implements ReceiptRepository
var _ receiving.ReceiptRepository = (*GormReceiptRepository)(nil)
