package shared

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Kinds(t *testing.T) {
	tests := []struct {
		name string
		err  *DomainError
		kind ErrorKind
		code string
	}{
		{"not found", NewNotFoundError("Receipt"), KindNotFound, "NOT_FOUND"},
		{"conflict", NewConflictError("RECEIPT_EXISTS", "a receipt already exists for this purchase order"), KindConflict, "RECEIPT_EXISTS"},
		{"validation", NewValidationError("MISSING_REASON", "rejected lines require a reason"), KindValidation, "MISSING_REASON"},
		{"precondition", NewPreconditionError("QC_INCOMPLETE", "approval requires completed quality check"), KindPrecondition, "QC_INCOMPLETE"},
		{"invalid state", NewInvalidStateError("RECEIPT_TERMINAL", "receipt is already completed"), KindInvalidState, "RECEIPT_TERMINAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestNewNotFoundError_Message(t *testing.T) {
	err := NewNotFoundError("Debit note")
	assert.Equal(t, "Debit note not found", err.Error())
}

func TestIsKind(t *testing.T) {
	err := NewPreconditionError("QC_INCOMPLETE", "approval requires completed quality check")

	assert.True(t, IsKind(err, KindPrecondition))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(nil, KindPrecondition))
	assert.False(t, IsKind(fmt.Errorf("plain error"), KindInternal))
}

func TestIsKind_Wrapped(t *testing.T) {
	inner := NewConflictError("DEBIT_NOTE_EXISTS", "receipt already has a debit note")
	wrapped := fmt.Errorf("generating debit note: %w", inner)

	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(wrapped, KindValidation))
}

func TestNewPaginated(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		pageSize   int
		totalPages int
	}{
		{"exact fit", 40, 20, 2},
		{"partial last page", 41, 20, 3},
		{"empty", 0, 20, 0},
		{"single page", 5, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginated([]string{}, tt.total, 1, tt.pageSize)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.totalPages, p.TotalPages)
		})
	}
}

func TestDefaultFilter(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.PageSize)
	assert.Equal(t, "created_at", f.OrderBy)
	assert.Equal(t, "desc", f.OrderDir)
	assert.NotNil(t, f.Filters)
}
