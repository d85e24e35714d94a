package receiving

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Document number prefixes
const (
	PrefixReceipt   = "GRN"
	PrefixDebitNote = "DN"
)

// DocumentSequence is one monthly counter row per (tenant, prefix, period)
type DocumentSequence struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_doc_seq_scope,priority:1"`
	Prefix   string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_doc_seq_scope,priority:2"`
	Period   string    `gorm:"type:varchar(7);not null;uniqueIndex:idx_doc_seq_scope,priority:3"`
	Counter  int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// PeriodOf returns the YYYY-MM sequence period for a point in time
func PeriodOf(t time.Time) string {
	return t.Format("2006-01")
}

// FormatDocumentNumber renders {PREFIX}-{YYYY}-{MM}-{NNN}
func FormatDocumentNumber(prefix, period string, sequence int) string {
	year, month := period[:4], period[5:]
	return fmt.Sprintf("%s-%s-%s-%03d", prefix, year, month, sequence)
}
