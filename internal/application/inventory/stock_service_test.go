package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	appreceiving "github.com/sakmfg/backoffice/internal/application/receiving"
	"github.com/sakmfg/backoffice/internal/domain/inventory"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockStockEntryRepository is a mock implementation of inventory.StockEntryRepository
type MockStockEntryRepository struct {
	mock.Mock
}

func (m *MockStockEntryRepository) Save(ctx context.Context, entry *inventory.StockEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStockEntryRepository) List(ctx context.Context, tenantID uuid.UUID, filter inventory.MovementFilter) (*shared.Paginated[inventory.StockEntry], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[inventory.StockEntry]), args.Error(1)
}

func (m *MockStockEntryRepository) SumQuantity(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, itemID, warehouseID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockStockBalanceRepository is a mock implementation of inventory.StockBalanceRepository
type MockStockBalanceRepository struct {
	mock.Mock
}

func (m *MockStockBalanceRepository) Increment(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID, itemCategory string, quantity decimal.Decimal) error {
	args := m.Called(ctx, tenantID, itemID, warehouseID, itemCategory, quantity)
	return args.Error(0)
}

func (m *MockStockBalanceRepository) Find(ctx context.Context, tenantID, itemID, warehouseID uuid.UUID) (*inventory.StockBalance, error) {
	args := m.Called(ctx, tenantID, itemID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockBalance), args.Error(1)
}

func (m *MockStockBalanceRepository) List(ctx context.Context, tenantID uuid.UUID, filter inventory.BalanceFilter) (*shared.Paginated[inventory.StockBalance], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[inventory.StockBalance]), args.Error(1)
}

func TestStockService_PostAcceptedStock(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	input := appreceiving.StockPostingInput{
		ItemID:        uuid.New(),
		ItemCategory:  "RAW_MATERIAL",
		WarehouseID:   uuid.New(),
		Quantity:      decimal.NewFromInt(8),
		Rate:          decimal.NewFromInt(100),
		BatchNumber:   "B-77",
		ReceiptID:     uuid.New(),
		ReceiptNumber: "GRN-2025-06-001",
		InvoiceNumber: "INV-5521",
	}

	t.Run("writes a ledger entry and increments the balance", func(t *testing.T) {
		entryRepo := new(MockStockEntryRepository)
		balanceRepo := new(MockStockBalanceRepository)
		service := NewStockService(entryRepo, balanceRepo, zap.NewNop())

		entryRepo.On("Save", ctx, mock.MatchedBy(func(e *inventory.StockEntry) bool {
			return e.MovementType == inventory.MovementTypeReceipt &&
				e.Quantity.Equal(decimal.NewFromInt(8)) &&
				e.AvailableQty.Equal(decimal.NewFromInt(8)) &&
				e.Metadata.SourceNumber == "GRN-2025-06-001"
		})).Return(nil)
		balanceRepo.On("Increment", ctx, tenantID, input.ItemID, input.WarehouseID, "RAW_MATERIAL", decimal.NewFromInt(8)).Return(nil)

		err := service.PostAcceptedStock(ctx, tenantID, input)

		require.NoError(t, err)
		entryRepo.AssertExpectations(t)
		balanceRepo.AssertExpectations(t)
	})

	t.Run("balance failure never rolls back the ledger entry", func(t *testing.T) {
		entryRepo := new(MockStockEntryRepository)
		balanceRepo := new(MockStockBalanceRepository)
		service := NewStockService(entryRepo, balanceRepo, zap.NewNop())

		entryRepo.On("Save", ctx, mock.AnythingOfType("*inventory.StockEntry")).Return(nil)
		balanceRepo.On("Increment", ctx, tenantID, input.ItemID, input.WarehouseID, "RAW_MATERIAL", decimal.NewFromInt(8)).
			Return(fmt.Errorf("deadlock detected"))

		err := service.PostAcceptedStock(ctx, tenantID, input)

		require.NoError(t, err)
	})

	t.Run("ledger failure is fatal", func(t *testing.T) {
		entryRepo := new(MockStockEntryRepository)
		balanceRepo := new(MockStockBalanceRepository)
		service := NewStockService(entryRepo, balanceRepo, zap.NewNop())

		entryRepo.On("Save", ctx, mock.AnythingOfType("*inventory.StockEntry")).Return(fmt.Errorf("connection reset"))

		err := service.PostAcceptedStock(ctx, tenantID, input)

		require.Error(t, err)
		balanceRepo.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("zero quantity is rejected before any write", func(t *testing.T) {
		entryRepo := new(MockStockEntryRepository)
		service := NewStockService(entryRepo, new(MockStockBalanceRepository), zap.NewNop())

		bad := input
		bad.Quantity = decimal.Zero

		err := service.PostAcceptedStock(ctx, tenantID, bad)

		require.Error(t, err)
		assert.True(t, shared.IsKind(err, shared.KindValidation))
		entryRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestStockService_Movements(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("defaults order to entry date descending", func(t *testing.T) {
		entryRepo := new(MockStockEntryRepository)
		service := NewStockService(entryRepo, new(MockStockBalanceRepository), zap.NewNop())

		entryRepo.On("List", ctx, tenantID, mock.MatchedBy(func(f inventory.MovementFilter) bool {
			return f.OrderBy == "entry_date" && f.OrderDir == "desc" && f.Page == 1 && f.PageSize == 20
		})).Return(&shared.Paginated[inventory.StockEntry]{}, nil)

		_, _, err := service.Movements(ctx, tenantID, MovementListFilter{})

		require.NoError(t, err)
		entryRepo.AssertExpectations(t)
	})

	t.Run("invalid movement type is rejected", func(t *testing.T) {
		service := NewStockService(new(MockStockEntryRepository), new(MockStockBalanceRepository), zap.NewNop())

		_, _, err := service.Movements(ctx, tenantID, MovementListFilter{MovementType: "TELEPORT"})

		require.Error(t, err)
		assert.True(t, shared.IsKind(err, shared.KindValidation))
	})
}
