package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sakmfg/backoffice/internal/domain/shared"
)

func TestGormStockEntryRepository_SumQuantity(t *testing.T) {
	t.Run("sums signed ledger quantities", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockEntryRepository(gormDB)

		tenantID := uuid.New()
		itemID := uuid.New()
		warehouseID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM "stock_entries"`).
			WithArgs(tenantID, itemID, warehouseID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("42.5"))

		sum, err := repo.SumQuantity(context.Background(), tenantID, itemID, warehouseID)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromFloat(42.5).Equal(sum))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero on query error", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockEntryRepository(gormDB)

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\) FROM "stock_entries"`).
			WillReturnError(assert.AnError)

		sum, err := repo.SumQuantity(context.Background(), uuid.New(), uuid.New(), uuid.New())

		assert.Error(t, err)
		assert.True(t, sum.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockBalanceRepository_Find(t *testing.T) {
	t.Run("finds existing balance", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockBalanceRepository(gormDB)

		tenantID := uuid.New()
		itemID := uuid.New()
		warehouseID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "item_id", "warehouse_id", "item_category", "on_hand_qty"}).
			AddRow(uuid.New(), tenantID, itemID, warehouseID, "RAW_MATERIAL", "100")
		mock.ExpectQuery(`SELECT \* FROM "stock_balances" WHERE tenant_id = \$1 AND item_id = \$2 AND warehouse_id = \$3`).
			WithArgs(tenantID, itemID, warehouseID, 1).
			WillReturnRows(rows)

		balance, err := repo.Find(context.Background(), tenantID, itemID, warehouseID)

		require.NoError(t, err)
		require.NotNil(t, balance)
		assert.Equal(t, "RAW_MATERIAL", balance.ItemCategory)
		assert.True(t, decimal.NewFromInt(100).Equal(balance.OnHandQty))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing balance", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockBalanceRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "stock_balances"`).
			WillReturnError(gorm.ErrRecordNotFound)

		balance, err := repo.Find(context.Background(), uuid.New(), uuid.New(), uuid.New())

		assert.Error(t, err)
		assert.Nil(t, balance)
		assert.True(t, shared.IsKind(err, shared.KindNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockBalanceRepository_Increment(t *testing.T) {
	t.Run("upserts the balance row", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockBalanceRepository(gormDB)

		mock.ExpectExec(`INSERT INTO "stock_balances" .* ON CONFLICT \("tenant_id","item_id","warehouse_id"\) DO UPDATE`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Increment(context.Background(), uuid.New(), uuid.New(), uuid.New(), "RAW_MATERIAL", decimal.NewFromInt(8))

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockBalanceRepository(gormDB)

		mock.ExpectExec(`INSERT INTO "stock_balances"`).
			WillReturnError(assert.AnError)

		err := repo.Increment(context.Background(), uuid.New(), uuid.New(), uuid.New(), "COMPONENT", decimal.NewFromInt(-2))

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
