package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakmfg/backoffice/internal/domain/receiving"
)

// GormSequenceRepository implements SequenceRepository using GORM.
// Next uses a single upsert so two concurrent callers in the same period
// can never be handed the same number.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next atomically increments and returns the counter for (tenant, prefix, period)
func (r *GormSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, prefix, period string) (int, error) {
	var counter int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO document_sequences (id, tenant_id, prefix, period, counter, updated_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT (tenant_id, prefix, period)
		DO UPDATE SET counter = document_sequences.counter + 1, updated_at = EXCLUDED.updated_at
		RETURNING counter`,
		uuid.New(), tenantID, prefix, period, time.Now().UTC(),
	).Scan(&counter).Error
	if err != nil {
		return 0, err
	}
	return counter, nil
}

// Ensure GormSequenceRepository implements SequenceRepository
var _ receiving.SequenceRepository = (*GormSequenceRepository)(nil)
