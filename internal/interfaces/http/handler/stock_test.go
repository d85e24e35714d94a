package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/sakmfg/backoffice/internal/application/inventory"
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

func newTestStockEntry(t *testing.T) *inventory.StockEntry {
	t.Helper()
	entry, err := inventory.NewStockEntry(
		testTenantID,
		uuid.New(),
		uuid.New(),
		inventory.MovementTypeReceipt,
		decimal.NewFromInt(120),
		decimal.NewFromFloat(45.50),
		"BATCH-01",
		inventory.EntryMetadata{SourceType: "goods_receipt", SourceNumber: "GRN-2025-09-0001"},
	)
	require.NoError(t, err)
	return entry
}

func newStockTestRouter(entryRepo *MockStockEntryRepository, balanceRepo *MockStockBalanceRepository) *gin.Engine {
	service := inventoryapp.NewStockService(entryRepo, balanceRepo, zap.NewNop())
	h := NewStockHandler(service)

	r := gin.New()
	stock := r.Group("/api/v1/stock")
	{
		stock.GET("/movements", h.Movements)
		stock.GET("/balances", h.Balances)
	}
	return r
}

func TestStockHandler_Movements(t *testing.T) {
	t.Run("lists ledger entries", func(t *testing.T) {
		entry := newTestStockEntry(t)
		entryRepo := new(MockStockEntryRepository)
		page := shared.NewPaginated([]inventory.StockEntry{*entry}, 1, 1, 20)
		entryRepo.On("List", mock.Anything, testTenantID, mock.Anything).Return(&page, nil)
		router := newStockTestRouter(entryRepo, new(MockStockBalanceRepository))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/stock/movements?movement_type=RECEIPT", nil)
		req.Header.Set("X-Tenant-ID", testTenantID.String())
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.Total)
		assert.Contains(t, w.Body.String(), "GRN-2025-09-0001")
	})

	t.Run("missing tenant", func(t *testing.T) {
		router := newStockTestRouter(new(MockStockEntryRepository), new(MockStockBalanceRepository))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/stock/movements", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects malformed item filter", func(t *testing.T) {
		router := newStockTestRouter(new(MockStockEntryRepository), new(MockStockBalanceRepository))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/api/v1/stock/movements?item_id=nope", nil)
		req.Header.Set("X-Tenant-ID", testTenantID.String())
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStockHandler_Balances(t *testing.T) {
	itemID := uuid.New()
	warehouseID := uuid.New()

	balance, err := inventory.NewStockBalance(testTenantID, itemID, warehouseID, "fabric")
	require.NoError(t, err)
	balance.OnHandQty = decimal.NewFromInt(300)

	balanceRepo := new(MockStockBalanceRepository)
	page := shared.NewPaginated([]inventory.StockBalance{*balance}, 1, 1, 20)
	balanceRepo.On("List", mock.Anything, testTenantID, mock.Anything).Return(&page, nil)
	router := newStockTestRouter(new(MockStockEntryRepository), balanceRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/stock/balances?category=fabric", nil)
	req.Header.Set("X-Tenant-ID", testTenantID.String())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fabric")
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}
