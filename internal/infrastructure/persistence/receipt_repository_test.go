package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sakmfg/backoffice/internal/domain/shared"
)

// newMockDB opens a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newMockReceiptRepository(t *testing.T) (*GormReceiptRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormReceiptRepository(gormDB), mock, mockDB
}

func TestGormReceiptRepository_FindByID(t *testing.T) {
	t.Run("finds existing receipt with lines", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		receiptID := uuid.New()
		tenantID := uuid.New()
		lineID := uuid.New()

		receiptRows := sqlmock.NewRows([]string{"id", "tenant_id", "receipt_number", "po_number", "vendor_name", "status"}).
			AddRow(receiptID, tenantID, "GRN-2025-06-001", "PO-2025-0042", "Acme Castings Ltd", "DRAFT")
		mock.ExpectQuery(`SELECT \* FROM "receipts" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, receiptID, 1).
			WillReturnRows(receiptRows)

		lineRows := sqlmock.NewRows([]string{"id", "receipt_id", "item_code", "item_name"}).
			AddRow(lineID, receiptID, "RM-001", "Grey iron casting")
		mock.ExpectQuery(`SELECT \* FROM "receipt_lines" WHERE "receipt_lines"\."receipt_id" = \$1`).
			WithArgs(receiptID).
			WillReturnRows(lineRows)

		receipt, err := repo.FindByID(context.Background(), tenantID, receiptID)

		require.NoError(t, err)
		require.NotNil(t, receipt)
		assert.Equal(t, "GRN-2025-06-001", receipt.ReceiptNumber)
		require.Len(t, receipt.Lines, 1)
		assert.Equal(t, "RM-001", receipt.Lines[0].ItemCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing receipt", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		receiptID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "receipts" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, receiptID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		receipt, err := repo.FindByID(context.Background(), tenantID, receiptID)

		assert.Error(t, err)
		assert.Nil(t, receipt)
		assert.True(t, shared.IsKind(err, shared.KindNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReceiptRepository_ExistsForPurchaseOrder(t *testing.T) {
	t.Run("returns true when a receipt exists", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		poID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "receipts" WHERE tenant_id = \$1 AND purchase_order_id = \$2`).
			WithArgs(tenantID, poID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsForPurchaseOrder(context.Background(), tenantID, poID)

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when no receipt exists", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		poID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "receipts" WHERE tenant_id = \$1 AND purchase_order_id = \$2`).
			WithArgs(tenantID, poID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsForPurchaseOrder(context.Background(), tenantID, poID)

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReceiptRepository_Delete(t *testing.T) {
	t.Run("deletes receipt and its lines", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		receiptID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "receipt_lines" WHERE receipt_id = \$1`).
			WithArgs(receiptID).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`DELETE FROM "receipts" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, receiptID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), tenantID, receiptID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockReceiptRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		receiptID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "receipt_lines" WHERE receipt_id = \$1`).
			WithArgs(receiptID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "receipts" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, receiptID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), tenantID, receiptID)

		assert.Error(t, err)
		assert.True(t, shared.IsKind(err, shared.KindNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"defaults applied", 0, 0, 1, 20},
		{"negative page clamped", -3, 10, 1, 10},
		{"oversized page size capped", 1, 500, 1, 100},
		{"valid values pass through", 4, 50, 4, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pageSize := normalizePage(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPageSize, pageSize)
		})
	}
}
