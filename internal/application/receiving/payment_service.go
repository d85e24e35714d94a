package receiving

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"go.uber.org/zap"
)

// PaymentService settles vendor payables against completed receipts
type PaymentService struct {
	receiptRepo receiving.ReceiptRepository
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(receiptRepo receiving.ReceiptRepository, logger *zap.Logger) *PaymentService {
	return &PaymentService{receiptRepo: receiptRepo, logger: logger}
}

// RecordPayment applies a cumulative settlement payment to a receipt.
// Overpayment is accepted as stored; only the response clamps remaining to zero.
func (s *PaymentService) RecordPayment(ctx context.Context, tenantID, receiptID uuid.UUID, req RecordPaymentRequest) (*PaymentResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	if err := receipt.RecordPayment(req.Amount, req.Method, req.Reference, date, req.Notes); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("receipt_number", receipt.ReceiptNumber),
		zap.String("amount", req.Amount.String()),
		zap.String("payment_status", string(receipt.PaymentStatus)))

	return &PaymentResponse{
		ReceiptID:       receipt.ID,
		ReceiptNumber:   receipt.ReceiptNumber,
		NetPayable:      receipt.NetPayableAmount,
		PaidAmount:      receipt.PaidAmount,
		RemainingAmount: receipt.RemainingPayable(),
		PaymentStatus:   receipt.PaymentStatus,
	}, nil
}
