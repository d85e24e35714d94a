package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/sakmfg/backoffice/internal/domain/traceability"
)

// uidSequenceRow is one issuance counter per (tenant, code prefix). It is a
// persistence detail; the domain only sees the next integer.
type uidSequenceRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_uid_seq_scope,priority:1"`
	Prefix    string    `gorm:"type:varchar(40);not null;uniqueIndex:idx_uid_seq_scope,priority:2"`
	Counter   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (uidSequenceRow) TableName() string {
	return "uid_sequences"
}

// GormUIDRepository implements UIDRepository using GORM
type GormUIDRepository struct {
	db *gorm.DB
}

// NewGormUIDRepository creates a new GormUIDRepository
func NewGormUIDRepository(db *gorm.DB) *GormUIDRepository {
	return &GormUIDRepository{db: db}
}

// Save creates or updates an identifier record
func (r *GormUIDRepository) Save(ctx context.Context, record *traceability.UIDRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// FindByCode finds an identifier by its code within a tenant
func (r *GormUIDRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*traceability.UIDRecord, error) {
	var record traceability.UIDRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("identifier")
		}
		return nil, err
	}
	return &record, nil
}

// FindByReceiptAndItem finds identifiers issued for one receipt line item
func (r *GormUIDRepository) FindByReceiptAndItem(ctx context.Context, tenantID, receiptID, itemID uuid.UUID) ([]traceability.UIDRecord, error) {
	var records []traceability.UIDRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND receipt_id = ? AND item_id = ?", tenantID, receiptID, itemID).
		Order("code ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountByReceipt counts identifiers issued against a receipt
func (r *GormUIDRepository) CountByReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&traceability.UIDRecord{}).
		Where("tenant_id = ? AND receipt_id = ?", tenantID, receiptID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List finds identifiers matching the filter with pagination
func (r *GormUIDRepository) List(ctx context.Context, tenantID uuid.UUID, filter traceability.UIDFilter) (*shared.Paginated[traceability.UIDRecord], error) {
	query := r.db.WithContext(ctx).
		Model(&traceability.UIDRecord{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	orderBy := ValidateSortField(filter.OrderBy, UIDSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var records []traceability.UIDRecord
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(records, total, page, pageSize)
	return &result, nil
}

// NextSequence atomically increments and returns the issuance counter for a
// code prefix
func (r *GormUIDRepository) NextSequence(ctx context.Context, tenantID uuid.UUID, prefix string) (int, error) {
	var counter int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO uid_sequences (id, tenant_id, prefix, counter, updated_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT (tenant_id, prefix)
		DO UPDATE SET counter = uid_sequences.counter + 1, updated_at = EXCLUDED.updated_at
		RETURNING counter`,
		uuid.New(), tenantID, prefix, time.Now().UTC(),
	).Scan(&counter).Error
	if err != nil {
		return 0, err
	}
	return counter, nil
}

func (r *GormUIDRepository) applyFilter(query *gorm.DB, filter traceability.UIDFilter) *gorm.DB {
	if filter.EntityType != nil {
		query = query.Where("entity_type = ?", *filter.EntityType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.ReceiptID != nil {
		query = query.Where("receipt_id = ?", *filter.ReceiptID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR batch_number ILIKE ?", pattern, pattern)
	}
	return query
}

// Ensure GormUIDRepository implements UIDRepository
var _ traceability.UIDRepository = (*GormUIDRepository)(nil)
