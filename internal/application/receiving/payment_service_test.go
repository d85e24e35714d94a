package receiving

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// payableReceipt has gross 1000, a 200 claim and net 800
func payableReceipt(t *testing.T, tenantID uuid.UUID) *receiving.Receipt {
	t.Helper()
	receipt := newTestReceipt(t, tenantID)
	addTestLine(t, receipt, "RM-101", decimal.NewFromInt(10), decimal.NewFromInt(100))
	receipt.RecomputeFinancials(decimal.NewFromInt(200))
	return receipt
}

func TestPaymentService_RecordPayment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("partial payment", func(t *testing.T) {
		receiptRepo := new(MockReceiptRepository)
		service := NewPaymentService(receiptRepo, zap.NewNop())

		receipt := payableReceipt(t, tenantID)
		receiptRepo.On("FindByID", ctx, tenantID, receipt.ID).Return(receipt, nil)
		receiptRepo.On("Save", ctx, receipt).Return(nil)

		response, err := service.RecordPayment(ctx, tenantID, receipt.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(300), Method: "NEFT", Reference: "TXN-1001",
		})

		require.NoError(t, err)
		assert.Equal(t, receiving.PaymentStatusPartial, response.PaymentStatus)
		assert.True(t, response.PaidAmount.Equal(decimal.NewFromInt(300)))
		assert.True(t, response.RemainingAmount.Equal(decimal.NewFromInt(500)))
	})

	t.Run("payments accumulate to full settlement", func(t *testing.T) {
		receiptRepo := new(MockReceiptRepository)
		service := NewPaymentService(receiptRepo, zap.NewNop())

		receipt := payableReceipt(t, tenantID)
		receiptRepo.On("FindByID", ctx, tenantID, receipt.ID).Return(receipt, nil)
		receiptRepo.On("Save", ctx, receipt).Return(nil)

		_, err := service.RecordPayment(ctx, tenantID, receipt.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(300), Method: "NEFT",
		})
		require.NoError(t, err)

		response, err := service.RecordPayment(ctx, tenantID, receipt.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(500), Method: "NEFT", Reference: "TXN-1002",
		})

		require.NoError(t, err)
		assert.Equal(t, receiving.PaymentStatusPaid, response.PaymentStatus)
		assert.True(t, response.RemainingAmount.IsZero())
	})

	t.Run("overpayment is stored in full, remaining clamps to zero", func(t *testing.T) {
		receiptRepo := new(MockReceiptRepository)
		service := NewPaymentService(receiptRepo, zap.NewNop())

		receipt := payableReceipt(t, tenantID)
		receiptRepo.On("FindByID", ctx, tenantID, receipt.ID).Return(receipt, nil)
		receiptRepo.On("Save", ctx, receipt).Return(nil)

		response, err := service.RecordPayment(ctx, tenantID, receipt.ID, RecordPaymentRequest{
			Amount: decimal.NewFromInt(900), Method: "RTGS",
		})

		require.NoError(t, err)
		assert.Equal(t, receiving.PaymentStatusPaid, response.PaymentStatus)
		assert.True(t, response.PaidAmount.Equal(decimal.NewFromInt(900)))
		assert.True(t, response.RemainingAmount.IsZero())
		assert.True(t, receipt.PaidAmount.Equal(decimal.NewFromInt(900)))
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		receiptRepo := new(MockReceiptRepository)
		service := NewPaymentService(receiptRepo, zap.NewNop())

		receipt := payableReceipt(t, tenantID)
		receiptRepo.On("FindByID", ctx, tenantID, receipt.ID).Return(receipt, nil)

		_, err := service.RecordPayment(ctx, tenantID, receipt.ID, RecordPaymentRequest{
			Amount: decimal.Zero, Method: "NEFT",
		})

		require.Error(t, err)
		assert.True(t, shared.IsKind(err, shared.KindValidation))
		receiptRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
