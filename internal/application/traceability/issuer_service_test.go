package traceability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/procurement"
	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/sakmfg/backoffice/internal/domain/traceability"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUIDRepository is a mock implementation of traceability.UIDRepository
type MockUIDRepository struct {
	mock.Mock
}

func (m *MockUIDRepository) Save(ctx context.Context, record *traceability.UIDRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockUIDRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*traceability.UIDRecord, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*traceability.UIDRecord), args.Error(1)
}

func (m *MockUIDRepository) FindByReceiptAndItem(ctx context.Context, tenantID, receiptID, itemID uuid.UUID) ([]traceability.UIDRecord, error) {
	args := m.Called(ctx, tenantID, receiptID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]traceability.UIDRecord), args.Error(1)
}

func (m *MockUIDRepository) CountByReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, receiptID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUIDRepository) List(ctx context.Context, tenantID uuid.UUID, filter traceability.UIDFilter) (*shared.Paginated[traceability.UIDRecord], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[traceability.UIDRecord]), args.Error(1)
}

func (m *MockUIDRepository) NextSequence(ctx context.Context, tenantID uuid.UUID, prefix string) (int, error) {
	args := m.Called(ctx, tenantID, prefix)
	return args.Int(0), args.Error(1)
}

// MockItemProvider is a mock implementation of procurement.ItemProvider
type MockItemProvider struct {
	mock.Mock
}

func (m *MockItemProvider) GetItem(ctx context.Context, tenantID, itemID uuid.UUID) (*procurement.ItemAttributes, error) {
	args := m.Called(ctx, tenantID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.ItemAttributes), args.Error(1)
}

// MockWarehouseProvider is a mock implementation of procurement.WarehouseProvider
type MockWarehouseProvider struct {
	mock.Mock
}

func (m *MockWarehouseProvider) GetWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (*procurement.WarehouseInfo, error) {
	args := m.Called(ctx, tenantID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.WarehouseInfo), args.Error(1)
}

func newAcceptedReceipt(t *testing.T, tenantID uuid.UUID, acceptedQty decimal.Decimal) (*receiving.Receipt, *receiving.ReceiptLine) {
	t.Helper()
	receipt, err := receiving.NewReceipt(
		tenantID, "GRN-2025-06-001",
		uuid.New(), "PO-2025-0042",
		uuid.New(), "Acme Castings Ltd",
		uuid.New(), time.Now(),
	)
	require.NoError(t, err)
	line, err := receipt.AddLine(
		uuid.New(), nil,
		"RM-101", "Steel rod",
		acceptedQty, acceptedQty, decimal.NewFromInt(100),
		"B-77", nil, "",
	)
	require.NoError(t, err)
	_, err = receipt.ApplyDisposition(line.ID, acceptedQty, decimal.Zero, "", "", nil, "", line.Rate)
	require.NoError(t, err)
	return receipt, line
}

func TestIssuerService_IssueForLine(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	newService := func(uidRepo *MockUIDRepository, items *MockItemProvider, warehouses *MockWarehouseProvider) *IssuerService {
		return NewIssuerService(uidRepo, items, warehouses, "SAIF", "KOL", zap.NewNop())
	}

	t.Run("serialized item issues one identifier per accepted unit", func(t *testing.T) {
		uidRepo := new(MockUIDRepository)
		items := new(MockItemProvider)
		warehouses := new(MockWarehouseProvider)
		service := newService(uidRepo, items, warehouses)

		receipt, line := newAcceptedReceipt(t, tenantID, decimal.NewFromInt(3))
		items.On("GetItem", ctx, tenantID, line.ItemID).Return(&procurement.ItemAttributes{
			ID: line.ItemID, Code: "RM-101", Name: "Steel rod", Category: "RAW_MATERIAL",
			UIDTracking: true, UIDStrategy: procurement.UIDStrategySerialized,
		}, nil)
		uidRepo.On("FindByReceiptAndItem", ctx, tenantID, receipt.ID, line.ItemID).Return([]traceability.UIDRecord{}, nil)
		warehouses.On("GetWarehouse", ctx, tenantID, receipt.WarehouseID).Return(&procurement.WarehouseInfo{
			ID: receipt.WarehouseID, Name: "Main Store",
		}, nil)

		prefix := traceability.CodePrefix("SAIF", "KOL", traceability.EntityTypeRawMaterial)
		for i := 1; i <= 3; i++ {
			uidRepo.On("NextSequence", ctx, tenantID, prefix).Return(i, nil).Once()
		}
		uidRepo.On("Save", ctx, mock.AnythingOfType("*traceability.UIDRecord")).Return(nil)

		codes, err := service.IssueForLine(ctx, receipt, line)

		require.NoError(t, err)
		require.Len(t, codes, 3)
		for _, code := range codes {
			assert.NoError(t, traceability.ValidateCode(code))
		}
		assert.True(t, line.UIDsIssued)
		assert.Equal(t, 3, line.IssuedUIDCount)
		uidRepo.AssertExpectations(t)
	})

	t.Run("batched item rounds batches up", func(t *testing.T) {
		uidRepo := new(MockUIDRepository)
		items := new(MockItemProvider)
		warehouses := new(MockWarehouseProvider)
		service := newService(uidRepo, items, warehouses)

		// 25 accepted at 10 per batch needs 3 identifiers
		receipt, line := newAcceptedReceipt(t, tenantID, decimal.NewFromInt(25))
		items.On("GetItem", ctx, tenantID, line.ItemID).Return(&procurement.ItemAttributes{
			ID: line.ItemID, Code: "RM-101", Name: "Steel rod", Category: "RAW_MATERIAL",
			UIDTracking: true, UIDStrategy: procurement.UIDStrategyBatched,
			BatchQuantity: decimal.NewFromInt(10),
		}, nil)
		uidRepo.On("FindByReceiptAndItem", ctx, tenantID, receipt.ID, line.ItemID).Return([]traceability.UIDRecord{}, nil)
		warehouses.On("GetWarehouse", ctx, tenantID, receipt.WarehouseID).Return(nil, fmt.Errorf("lookup down"))

		prefix := traceability.CodePrefix("SAIF", "KOL", traceability.EntityTypeRawMaterial)
		for i := 1; i <= 3; i++ {
			uidRepo.On("NextSequence", ctx, tenantID, prefix).Return(i, nil).Once()
		}
		uidRepo.On("Save", ctx, mock.AnythingOfType("*traceability.UIDRecord")).Return(nil)

		codes, err := service.IssueForLine(ctx, receipt, line)

		require.NoError(t, err)
		assert.Len(t, codes, 3)
	})

	t.Run("batched item without batch quantity issues a single identifier", func(t *testing.T) {
		uidRepo := new(MockUIDRepository)
		items := new(MockItemProvider)
		warehouses := new(MockWarehouseProvider)
		service := newService(uidRepo, items, warehouses)

		receipt, line := newAcceptedReceipt(t, tenantID, decimal.NewFromInt(25))
		items.On("GetItem", ctx, tenantID, line.ItemID).Return(&procurement.ItemAttributes{
			ID: line.ItemID, Code: "RM-101", Name: "Steel rod",
			UIDTracking: true, UIDStrategy: procurement.UIDStrategyBatched,
		}, nil)
		uidRepo.On("FindByReceiptAndItem", ctx, tenantID, receipt.ID, line.ItemID).Return([]traceability.UIDRecord{}, nil)
		warehouses.On("GetWarehouse", ctx, tenantID, receipt.WarehouseID).Return(nil, fmt.Errorf("lookup down"))
		uidRepo.On("NextSequence", ctx, tenantID, mock.AnythingOfType("string")).Return(1, nil).Once()
		uidRepo.On("Save", ctx, mock.AnythingOfType("*traceability.UIDRecord")).Return(nil)

		codes, err := service.IssueForLine(ctx, receipt, line)

		require.NoError(t, err)
		assert.Len(t, codes, 1)
	})

	t.Run("untracked item is a no-op", func(t *testing.T) {
		uidRepo := new(MockUIDRepository)
		items := new(MockItemProvider)
		service := newService(uidRepo, items, new(MockWarehouseProvider))

		receipt, line := newAcceptedReceipt(t, tenantID, decimal.NewFromInt(5))
		items.On("GetItem", ctx, tenantID, line.ItemID).Return(&procurement.ItemAttributes{
			ID: line.ItemID, Code: "RM-101", UIDTracking: false,
		}, nil)

		codes, err := service.IssueForLine(ctx, receipt, line)

		require.NoError(t, err)
		assert.Empty(t, codes)
		assert.False(t, line.UIDsIssued)
		uidRepo.AssertNotCalled(t, "NextSequence", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repeat issuance returns the existing identifiers", func(t *testing.T) {
		uidRepo := new(MockUIDRepository)
		items := new(MockItemProvider)
		service := newService(uidRepo, items, new(MockWarehouseProvider))

		receipt, line := newAcceptedReceipt(t, tenantID, decimal.NewFromInt(2))
		items.On("GetItem", ctx, tenantID, line.ItemID).Return(&procurement.ItemAttributes{
			ID: line.ItemID, Code: "RM-101", Name: "Steel rod", Category: "RAW_MATERIAL",
			UIDTracking: true, UIDStrategy: procurement.UIDStrategySerialized,
		}, nil)

		first := traceability.GenerateCode("SAIF", "KOL", traceability.EntityTypeRawMaterial, 1)
		second := traceability.GenerateCode("SAIF", "KOL", traceability.EntityTypeRawMaterial, 2)
		uidRepo.On("FindByReceiptAndItem", ctx, tenantID, receipt.ID, line.ItemID).Return([]traceability.UIDRecord{
			{Code: first}, {Code: second},
		}, nil)

		codes, err := service.IssueForLine(ctx, receipt, line)

		require.NoError(t, err)
		assert.Equal(t, []string{first, second}, codes)
		assert.True(t, line.UIDsIssued)
		uidRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("a failed insert does not stop the remaining units", func(t *testing.T) {
		uidRepo := new(MockUIDRepository)
		items := new(MockItemProvider)
		warehouses := new(MockWarehouseProvider)
		service := newService(uidRepo, items, warehouses)

		receipt, line := newAcceptedReceipt(t, tenantID, decimal.NewFromInt(2))
		items.On("GetItem", ctx, tenantID, line.ItemID).Return(&procurement.ItemAttributes{
			ID: line.ItemID, Code: "RM-101", Name: "Steel rod", Category: "RAW_MATERIAL",
			UIDTracking: true, UIDStrategy: procurement.UIDStrategySerialized,
		}, nil)
		uidRepo.On("FindByReceiptAndItem", ctx, tenantID, receipt.ID, line.ItemID).Return([]traceability.UIDRecord{}, nil)
		warehouses.On("GetWarehouse", ctx, tenantID, receipt.WarehouseID).Return(nil, fmt.Errorf("lookup down"))

		prefix := traceability.CodePrefix("SAIF", "KOL", traceability.EntityTypeRawMaterial)
		uidRepo.On("NextSequence", ctx, tenantID, prefix).Return(1, nil).Once()
		uidRepo.On("NextSequence", ctx, tenantID, prefix).Return(2, nil).Once()
		uidRepo.On("Save", ctx, mock.AnythingOfType("*traceability.UIDRecord")).Return(fmt.Errorf("unique violation")).Once()
		uidRepo.On("Save", ctx, mock.AnythingOfType("*traceability.UIDRecord")).Return(nil).Once()

		codes, err := service.IssueForLine(ctx, receipt, line)

		require.NoError(t, err)
		assert.Len(t, codes, 1)
		assert.Equal(t, 1, line.IssuedUIDCount)
	})

	t.Run("component category maps to the CP segment", func(t *testing.T) {
		uidRepo := new(MockUIDRepository)
		items := new(MockItemProvider)
		warehouses := new(MockWarehouseProvider)
		service := newService(uidRepo, items, warehouses)

		receipt, line := newAcceptedReceipt(t, tenantID, decimal.NewFromInt(1))
		items.On("GetItem", ctx, tenantID, line.ItemID).Return(&procurement.ItemAttributes{
			ID: line.ItemID, Code: "CP-201", Name: "Bearing housing", Category: "COMPONENT",
			UIDTracking: true, UIDStrategy: procurement.UIDStrategySerialized,
		}, nil)
		uidRepo.On("FindByReceiptAndItem", ctx, tenantID, receipt.ID, line.ItemID).Return([]traceability.UIDRecord{}, nil)
		warehouses.On("GetWarehouse", ctx, tenantID, receipt.WarehouseID).Return(nil, fmt.Errorf("lookup down"))

		prefix := traceability.CodePrefix("SAIF", "KOL", traceability.EntityTypeComponentPart)
		uidRepo.On("NextSequence", ctx, tenantID, prefix).Return(1, nil)
		uidRepo.On("Save", ctx, mock.AnythingOfType("*traceability.UIDRecord")).Return(nil)

		codes, err := service.IssueForLine(ctx, receipt, line)

		require.NoError(t, err)
		require.Len(t, codes, 1)
		assert.Contains(t, codes[0], "-CP-")
		uidRepo.AssertExpectations(t)
	})
}
