package receiving

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/procurement"
	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReceiptRepository is a mock implementation of receiving.ReceiptRepository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) Save(ctx context.Context, receipt *receiving.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*receiving.Receipt, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receiving.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, receiptNumber string) (*receiving.Receipt, error) {
	args := m.Called(ctx, tenantID, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receiving.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByPurchaseOrderID(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (*receiving.Receipt, error) {
	args := m.Called(ctx, tenantID, purchaseOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receiving.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) ExistsForPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, purchaseOrderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReceiptRepository) List(ctx context.Context, tenantID uuid.UUID, filter receiving.ReceiptFilter) (*shared.Paginated[receiving.Receipt], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[receiving.Receipt]), args.Error(1)
}

func (m *MockReceiptRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockDebitNoteRepository is a mock implementation of receiving.DebitNoteRepository
type MockDebitNoteRepository struct {
	mock.Mock
}

func (m *MockDebitNoteRepository) Save(ctx context.Context, note *receiving.DebitNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockDebitNoteRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*receiving.DebitNote, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receiving.DebitNote), args.Error(1)
}

func (m *MockDebitNoteRepository) FindByReceiptID(ctx context.Context, tenantID, receiptID uuid.UUID) (*receiving.DebitNote, error) {
	args := m.Called(ctx, tenantID, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receiving.DebitNote), args.Error(1)
}

func (m *MockDebitNoteRepository) ExistsForReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, receiptID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDebitNoteRepository) List(ctx context.Context, tenantID uuid.UUID, filter receiving.DebitNoteFilter) (*shared.Paginated[receiving.DebitNote], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[receiving.DebitNote]), args.Error(1)
}

func (m *MockDebitNoteRepository) VendorPayables(ctx context.Context, tenantID uuid.UUID) ([]receiving.VendorPayable, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]receiving.VendorPayable), args.Error(1)
}

// MockSequenceRepository is a mock implementation of receiving.SequenceRepository
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, prefix, period string) (int, error) {
	args := m.Called(ctx, tenantID, prefix, period)
	return args.Int(0), args.Error(1)
}

// MockPurchaseOrderProvider is a mock implementation of procurement.PurchaseOrderProvider
type MockPurchaseOrderProvider struct {
	mock.Mock
}

func (m *MockPurchaseOrderProvider) GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*procurement.PurchaseOrderInfo, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrderInfo), args.Error(1)
}

func (m *MockPurchaseOrderProvider) GetOrderLine(ctx context.Context, tenantID, lineID uuid.UUID) (*procurement.PurchaseOrderLine, error) {
	args := m.Called(ctx, tenantID, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrderLine), args.Error(1)
}

// MockVendorProvider is a mock implementation of procurement.VendorProvider
type MockVendorProvider struct {
	mock.Mock
}

func (m *MockVendorProvider) GetVendor(ctx context.Context, tenantID, vendorID uuid.UUID) (*procurement.VendorInfo, error) {
	args := m.Called(ctx, tenantID, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.VendorInfo), args.Error(1)
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

// MockStockPoster is a mock implementation of StockPoster
type MockStockPoster struct {
	mock.Mock
}

func (m *MockStockPoster) PostAcceptedStock(ctx context.Context, tenantID uuid.UUID, input StockPostingInput) error {
	args := m.Called(ctx, tenantID, input)
	return args.Error(0)
}

// MockIdentifierIssuer is a mock implementation of IdentifierIssuer
type MockIdentifierIssuer struct {
	mock.Mock
}

func (m *MockIdentifierIssuer) IssueForLine(ctx context.Context, receipt *receiving.Receipt, line *receiving.ReceiptLine) ([]string, error) {
	args := m.Called(ctx, receipt, line)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockDebitNoteGenerator is a mock implementation of DebitNoteGenerator
type MockDebitNoteGenerator struct {
	mock.Mock
}

func (m *MockDebitNoteGenerator) GenerateForReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (*DebitNoteResponse, error) {
	args := m.Called(ctx, tenantID, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DebitNoteResponse), args.Error(1)
}

// MockUIDCounter is a mock implementation of UIDCounter
type MockUIDCounter struct {
	mock.Mock
}

func (m *MockUIDCounter) CountByReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, receiptID)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendDebitNote(ctx context.Context, note *receiving.DebitNote, recipient string) error {
	args := m.Called(ctx, note, recipient)
	return args.Error(0)
}

// noopLocker satisfies ReceiptLocker without any real locking
type noopLocker struct{}

func (noopLocker) Acquire(ctx context.Context, tenantID, receiptID uuid.UUID) (func(), error) {
	return func() {}, nil
}

func newTestReceipt(t *testing.T, tenantID uuid.UUID) *receiving.Receipt {
	t.Helper()
	receipt, err := receiving.NewReceipt(
		tenantID, "GRN-2025-06-001",
		uuid.New(), "PO-2025-0042",
		uuid.New(), "Acme Castings Ltd",
		uuid.New(), time.Now(),
	)
	require.NoError(t, err)
	return receipt
}

func addTestLine(t *testing.T, receipt *receiving.Receipt, code string, receivedQty, rate decimal.Decimal) *receiving.ReceiptLine {
	t.Helper()
	line, err := receipt.AddLine(
		uuid.New(), nil,
		code, code+" part",
		receivedQty, receivedQty, rate,
		"", nil, "",
	)
	require.NoError(t, err)
	return line
}
