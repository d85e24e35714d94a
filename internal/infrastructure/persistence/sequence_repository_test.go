package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGormSequenceRepository_Next(t *testing.T) {
	t.Run("first call in a period returns 1", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSequenceRepository(gormDB)

		tenantID := uuid.New()

		mock.ExpectQuery(`INSERT INTO document_sequences`).
			WillReturnRows(sqlmock.NewRows([]string{"counter"}).AddRow(1))

		counter, err := repo.Next(context.Background(), tenantID, "GRN", "2025-06")

		assert.NoError(t, err)
		assert.Equal(t, 1, counter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("subsequent calls return the incremented counter", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSequenceRepository(gormDB)

		tenantID := uuid.New()

		mock.ExpectQuery(`INSERT INTO document_sequences`).
			WillReturnRows(sqlmock.NewRows([]string{"counter"}).AddRow(42))

		counter, err := repo.Next(context.Background(), tenantID, "DN", "2025-06")

		assert.NoError(t, err)
		assert.Equal(t, 42, counter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database errors", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSequenceRepository(gormDB)

		mock.ExpectQuery(`INSERT INTO document_sequences`).
			WillReturnError(assert.AnError)

		counter, err := repo.Next(context.Background(), uuid.New(), "GRN", "2025-06")

		assert.Error(t, err)
		assert.Zero(t, counter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
