package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sakmfg/backoffice/internal/domain/shared"
)

func TestGormUIDRepository_FindByCode(t *testing.T) {
	t.Run("finds registered identifier", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUIDRepository(gormDB)

		tenantID := uuid.New()
		recordID := uuid.New()
		code := "UID-SAIF-KOL-RM-000001-3F"

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "entity_type", "status"}).
			AddRow(recordID, tenantID, code, "RM", "ACTIVE")
		mock.ExpectQuery(`SELECT \* FROM "uid_registry" WHERE tenant_id = \$1 AND code = \$2`).
			WithArgs(tenantID, code, 1).
			WillReturnRows(rows)

		record, err := repo.FindByCode(context.Background(), tenantID, code)

		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, code, record.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for unregistered code", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUIDRepository(gormDB)

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "uid_registry" WHERE tenant_id = \$1 AND code = \$2`).
			WithArgs(tenantID, "UID-SAIF-KOL-RM-999999-00", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		record, err := repo.FindByCode(context.Background(), tenantID, "UID-SAIF-KOL-RM-999999-00")

		assert.Error(t, err)
		assert.Nil(t, record)
		assert.True(t, shared.IsKind(err, shared.KindNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUIDRepository_CountByReceipt(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormUIDRepository(gormDB)

	tenantID := uuid.New()
	receiptID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "uid_registry" WHERE tenant_id = \$1 AND receipt_id = \$2`).
		WithArgs(tenantID, receiptID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	count, err := repo.CountByReceipt(context.Background(), tenantID, receiptID)

	assert.NoError(t, err)
	assert.Equal(t, int64(25), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUIDRepository_NextSequence(t *testing.T) {
	t.Run("returns the incremented issuance counter", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUIDRepository(gormDB)

		tenantID := uuid.New()

		mock.ExpectQuery(`INSERT INTO uid_sequences`).
			WillReturnRows(sqlmock.NewRows([]string{"counter"}).AddRow(7))

		counter, err := repo.NextSequence(context.Background(), tenantID, "UID-SAIF-KOL-RM")

		assert.NoError(t, err)
		assert.Equal(t, 7, counter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUIDRepository(gormDB)

		mock.ExpectQuery(`INSERT INTO uid_sequences`).
			WillReturnError(assert.AnError)

		counter, err := repo.NextSequence(context.Background(), uuid.New(), "UID-SAIF-KOL-CP")

		assert.Error(t, err)
		assert.Zero(t, counter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
