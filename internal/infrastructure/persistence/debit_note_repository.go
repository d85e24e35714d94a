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

// GormDebitNoteRepository implements DebitNoteRepository using GORM
type GormDebitNoteRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormDebitNoteRepository creates a new GormDebitNoteRepository
func NewGormDebitNoteRepository(db *gorm.DB) *GormDebitNoteRepository {
	return &GormDebitNoteRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormDebitNoteRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// Save creates or updates a debit note together with its lines
func (r *GormDebitNoteRepository) Save(ctx context.Context, note *receiving.DebitNote) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(note).Error; err != nil {
			return err
		}

		currentLineIDs := make([]uuid.UUID, len(note.Lines))
		for i, line := range note.Lines {
			currentLineIDs[i] = line.ID
		}

		if len(currentLineIDs) > 0 {
			if err := tx.Where("debit_note_id = ? AND id NOT IN ?", note.ID, currentLineIDs).
				Delete(&receiving.DebitNoteLine{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("debit_note_id = ?", note.ID).
				Delete(&receiving.DebitNoteLine{}).Error; err != nil {
				return err
			}
		}

		for i := range note.Lines {
			note.Lines[i].DebitNoteID = note.ID
			if err := tx.Save(&note.Lines[i]).Error; err != nil {
				return err
			}
		}

		if r.outboxSaver != nil {
			if events := note.GetDomainEvents(); len(events) > 0 {
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
		note.ClearDomainEvents()
	}
	return nil
}

// FindByID finds a debit note by ID within a tenant
func (r *GormDebitNoteRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*receiving.DebitNote, error) {
	var note receiving.DebitNote
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("debit note")
		}
		return nil, err
	}
	return &note, nil
}

// FindByReceiptID finds the debit note raised against a receipt
func (r *GormDebitNoteRepository) FindByReceiptID(ctx context.Context, tenantID, receiptID uuid.UUID) (*receiving.DebitNote, error) {
	var note receiving.DebitNote
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("tenant_id = ? AND receipt_id = ?", tenantID, receiptID).
		First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("debit note")
		}
		return nil, err
	}
	return &note, nil
}

// ExistsForReceipt checks whether a debit note is already linked to a receipt
func (r *GormDebitNoteRepository) ExistsForReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&receiving.DebitNote{}).
		Where("tenant_id = ? AND receipt_id = ?", tenantID, receiptID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List finds debit notes matching the filter with pagination
func (r *GormDebitNoteRepository) List(ctx context.Context, tenantID uuid.UUID, filter receiving.DebitNoteFilter) (*shared.Paginated[receiving.DebitNote], error) {
	query := r.db.WithContext(ctx).
		Model(&receiving.DebitNote{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	orderBy := ValidateSortField(filter.OrderBy, DebitNoteSortFields, "note_date")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var notes []receiving.DebitNote
	if err := query.
		Preload("Lines").
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&notes).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(notes, total, page, pageSize)
	return &result, nil
}

// VendorPayables aggregates open debit claims per vendor. Cancelled and
// closed notes are settled and excluded.
func (r *GormDebitNoteRepository) VendorPayables(ctx context.Context, tenantID uuid.UUID) ([]receiving.VendorPayable, error) {
	var payables []receiving.VendorPayable
	if err := r.db.WithContext(ctx).
		Model(&receiving.DebitNote{}).
		Select("vendor_id, vendor_name, COUNT(*) AS note_count, COALESCE(SUM(total_amount), 0) AS total_amount").
		Where("tenant_id = ? AND status NOT IN ?", tenantID,
			[]receiving.DebitNoteStatus{receiving.DebitNoteStatusCancelled, receiving.DebitNoteStatusClosed}).
		Group("vendor_id, vendor_name").
		Order("total_amount DESC").
		Scan(&payables).Error; err != nil {
		return nil, err
	}
	return payables, nil
}

func (r *GormDebitNoteRepository) applyFilter(query *gorm.DB, filter receiving.DebitNoteFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.DateFrom != nil {
		query = query.Where("note_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("note_date <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("debit_note_number ILIKE ? OR receipt_number ILIKE ? OR vendor_name ILIKE ?",
			pattern, pattern, pattern)
	}
	return query
}

// Ensure GormDebitNoteRepository implements DebitNoteRepository
var _ receiving.DebitNoteRepository = (*GormDebitNoteRepository)(nil)
