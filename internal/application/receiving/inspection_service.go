package receiving

import (
	"context"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/procurement"
	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InspectionService records QC dispositions and drives the downstream
// postings. The disposition write is the primary path; stock posting and
// identifier issuance are best-effort side effects that never abort it.
type InspectionService struct {
	receiptRepo receiving.ReceiptRepository
	orders      procurement.PurchaseOrderProvider
	items       procurement.ItemProvider
	stock       StockPoster
	issuer      IdentifierIssuer
	generator   DebitNoteGenerator
	locker      ReceiptLocker
	logger      *zap.Logger
}

// NewInspectionService creates a new InspectionService
func NewInspectionService(
	receiptRepo receiving.ReceiptRepository,
	orders procurement.PurchaseOrderProvider,
	items procurement.ItemProvider,
	stock StockPoster,
	issuer IdentifierIssuer,
	generator DebitNoteGenerator,
	locker ReceiptLocker,
	logger *zap.Logger,
) *InspectionService {
	return &InspectionService{
		receiptRepo: receiptRepo,
		orders:      orders,
		items:       items,
		stock:       stock,
		issuer:      issuer,
		generator:   generator,
		locker:      locker,
		logger:      logger,
	}
}

// DisposeItems records the accepted/rejected split for the given lines.
// Serialized per receipt so the issuance and claim idempotency guards
// cannot race with a concurrent disposition.
func (s *InspectionService) DisposeItems(ctx context.Context, tenantID, receiptID uuid.UUID, req DisposeItemsRequest) (*DisposeItemsResult, error) {
	release, err := s.locker.Acquire(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	defer release()

	receipt, err := s.receiptRepo.FindByID(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}

	for _, input := range req.Lines {
		line, err := receipt.FindLine(input.LineID)
		if err != nil {
			return nil, err
		}
		rate, err := s.effectiveRate(ctx, tenantID, line)
		if err != nil {
			return nil, err
		}
		if _, err := receipt.ApplyDisposition(
			input.LineID,
			input.AcceptedQty, input.RejectedQty,
			input.RejectionReason, input.Notes,
			req.Inspector, input.Attachment,
			rate,
		); err != nil {
			return nil, err
		}
	}

	qcCompleted := receipt.AllLinesDisposed()
	if qcCompleted {
		receipt.MarkQCCompleted()
	}

	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}

	issued, failures := s.runSideEffects(ctx, tenantID, receipt, req.Lines)

	var debitNoteID *uuid.UUID
	if qcCompleted {
		note, err := s.generator.GenerateForReceipt(ctx, tenantID, receiptID)
		if err != nil {
			return nil, err
		}
		if note != nil {
			debitNoteID = &note.ID
		}
		// reload: the generator back-links lines and refreshes the summary
		receipt, err = s.receiptRepo.FindByID(ctx, tenantID, receiptID)
		if err != nil {
			return nil, err
		}
	}

	return &DisposeItemsResult{
		Receipt:     ToReceiptResponse(receipt),
		QCCompleted: qcCompleted,
		DebitNoteID: debitNoteID,
		IssuedUIDs:  issued,
		SideEffects: failures,
	}, nil
}

// effectiveRate resolves the valuation rate for a line: its own rate, else
// the originating purchase-order line's rate, else zero
func (s *InspectionService) effectiveRate(ctx context.Context, tenantID uuid.UUID, line *receiving.ReceiptLine) (decimal.Decimal, error) {
	if line.Rate.IsPositive() {
		return line.Rate, nil
	}
	if line.POLineID == nil {
		return decimal.Zero, nil
	}
	poLine, err := s.orders.GetOrderLine(ctx, tenantID, *line.POLineID)
	if err != nil {
		s.logger.Warn("purchase order line lookup failed, rate falls back to zero",
			zap.String("po_line_id", line.POLineID.String()),
			zap.Error(err))
		return decimal.Zero, nil
	}
	return poLine.Rate, nil
}

// runSideEffects posts accepted stock and issues identifiers for each
// disposed line. Failures are logged and collected, never propagated.
func (s *InspectionService) runSideEffects(ctx context.Context, tenantID uuid.UUID, receipt *receiving.Receipt, inputs []DisposeLineInput) (map[string][]string, []SideEffectFailure) {
	issued := make(map[string][]string)
	var failures []SideEffectFailure
	linesTouched := false

	for _, input := range inputs {
		line, err := receipt.FindLine(input.LineID)
		if err != nil || !line.AcceptedQty.IsPositive() {
			continue
		}
		lineID := line.ID

		category := ""
		item, err := s.items.GetItem(ctx, tenantID, line.ItemID)
		if err != nil {
			s.logger.Warn("item lookup failed for stock posting",
				zap.String("item_id", line.ItemID.String()),
				zap.Error(err))
		} else {
			category = item.Category
		}

		if err := s.stock.PostAcceptedStock(ctx, tenantID, StockPostingInput{
			ItemID:        line.ItemID,
			ItemCategory:  category,
			WarehouseID:   receipt.WarehouseID,
			Quantity:      line.AcceptedQty,
			Rate:          line.Rate,
			BatchNumber:   line.BatchNumber,
			ReceiptID:     receipt.ID,
			ReceiptNumber: receipt.ReceiptNumber,
			InvoiceNumber: receipt.InvoiceNumber,
		}); err != nil {
			s.logger.Error("stock posting failed",
				zap.String("receipt_number", receipt.ReceiptNumber),
				zap.String("line_id", lineID.String()),
				zap.String("item_code", line.ItemCode),
				zap.Error(err))
			failures = append(failures, SideEffectFailure{Kind: "STOCK_POSTING", LineID: &lineID, Error: err.Error()})
		}

		if !line.UIDsIssued {
			codes, err := s.issuer.IssueForLine(ctx, receipt, line)
			if err != nil {
				s.logger.Error("identifier issuance failed",
					zap.String("receipt_number", receipt.ReceiptNumber),
					zap.String("line_id", lineID.String()),
					zap.String("item_code", line.ItemCode),
					zap.Error(err))
				failures = append(failures, SideEffectFailure{Kind: "UID_ISSUANCE", LineID: &lineID, Error: err.Error()})
			} else if len(codes) > 0 {
				issued[lineID.String()] = codes
				linesTouched = true
			}
		}
	}

	if linesTouched {
		if err := s.receiptRepo.Save(ctx, receipt); err != nil {
			s.logger.Error("failed to persist issued identifier counts",
				zap.String("receipt_number", receipt.ReceiptNumber),
				zap.Error(err))
			failures = append(failures, SideEffectFailure{Kind: "UID_COUNT_UPDATE", Error: err.Error()})
		}
	}

	return issued, failures
}
