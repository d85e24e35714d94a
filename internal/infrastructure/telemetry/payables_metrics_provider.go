package telemetry

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPayablesMetricsProvider implements PayablesMetricsProvider by querying
// the debit_notes table directly.
type GormPayablesMetricsProvider struct {
	db *gorm.DB
}

// NewGormPayablesMetricsProvider creates a new GormPayablesMetricsProvider.
func NewGormPayablesMetricsProvider(db *gorm.DB) *GormPayablesMetricsProvider {
	return &GormPayablesMetricsProvider{db: db}
}

// GetOpenDebitNoteStats returns the count and total amount of debit notes that
// are neither closed nor cancelled for a tenant.
func (p *GormPayablesMetricsProvider) GetOpenDebitNoteStats(ctx context.Context, tenantID uuid.UUID) (int64, decimal.Decimal, error) {
	type result struct {
		NoteCount   int64           `gorm:"column:note_count"`
		TotalAmount decimal.Decimal `gorm:"column:total_amount"`
	}

	var r result
	err := p.db.WithContext(ctx).
		Table("debit_notes").
		Select("COUNT(*) AS note_count, COALESCE(SUM(total_amount), 0) AS total_amount").
		Where("tenant_id = ?", tenantID).
		Where("status NOT IN ?", []string{"CLOSED", "CANCELLED"}).
		Scan(&r).Error
	if err != nil {
		return 0, decimal.Zero, err
	}

	return r.NoteCount, r.TotalAmount, nil
}

// GormTenantProvider implements TenantProvider by listing the distinct tenants
// that own receipts.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns the tenant IDs present in the receipts table.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("receipts").
		Distinct("tenant_id").
		Find(&ids).Error

	return ids, err
}
