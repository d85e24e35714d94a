package receiving

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/procurement"
	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DebitNoteService derives, manages and delivers vendor debit claims
type DebitNoteService struct {
	debitNoteRepo receiving.DebitNoteRepository
	receiptRepo   receiving.ReceiptRepository
	sequenceRepo  receiving.SequenceRepository
	orders        procurement.PurchaseOrderProvider
	vendors       procurement.VendorProvider
	notifier      Notifier
	logger        *zap.Logger
}

// NewDebitNoteService creates a new DebitNoteService
func NewDebitNoteService(
	debitNoteRepo receiving.DebitNoteRepository,
	receiptRepo receiving.ReceiptRepository,
	sequenceRepo receiving.SequenceRepository,
	orders procurement.PurchaseOrderProvider,
	vendors procurement.VendorProvider,
	notifier Notifier,
	logger *zap.Logger,
) *DebitNoteService {
	return &DebitNoteService{
		debitNoteRepo: debitNoteRepo,
		receiptRepo:   receiptRepo,
		sequenceRepo:  sequenceRepo,
		orders:        orders,
		vendors:       vendors,
		notifier:      notifier,
		logger:        logger,
	}
}

// GenerateForReceipt derives one debit note from a receipt's rejected lines.
// Idempotent: a receipt that already has a note gets the existing one back,
// with the financial summary refreshed. Returns nil when nothing is claimable.
func (s *DebitNoteService) GenerateForReceipt(ctx context.Context, tenantID, receiptID uuid.UUID) (*DebitNoteResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}

	existing, err := s.debitNoteRepo.FindByReceiptID(ctx, tenantID, receiptID)
	if err != nil && !shared.IsKind(err, shared.KindNotFound) {
		return nil, err
	}
	if existing != nil {
		receipt.RecomputeFinancials(existing.TotalAmount)
		if err := s.receiptRepo.Save(ctx, receipt); err != nil {
			return nil, err
		}
		response := ToDebitNoteResponse(existing)
		return &response, nil
	}

	type claim struct {
		line   *receiving.ReceiptLine
		rate   decimal.Decimal
		amount decimal.Decimal
	}
	var claims []claim
	for i := range receipt.Lines {
		line := &receipt.Lines[i]
		if !line.RejectedQty.IsPositive() {
			continue
		}
		rate := line.Rate
		if !rate.IsPositive() && line.POLineID != nil {
			if poLine, err := s.orders.GetOrderLine(ctx, tenantID, *line.POLineID); err == nil {
				rate = poLine.Rate
			}
		}
		amount := line.RejectionAmount
		if !amount.IsPositive() {
			amount = line.RejectedQty.Mul(rate)
		}
		if !amount.IsPositive() {
			s.logger.Info("skipping non-monetary rejection",
				zap.String("receipt_number", receipt.ReceiptNumber),
				zap.String("item_code", line.ItemCode),
				zap.String("rejected_qty", line.RejectedQty.String()))
			continue
		}
		claims = append(claims, claim{line: line, rate: rate, amount: amount})
	}
	if len(claims) == 0 {
		return nil, nil
	}

	now := time.Now()
	seq, err := s.sequenceRepo.Next(ctx, tenantID, receiving.PrefixDebitNote, receiving.PeriodOf(now))
	if err != nil {
		return nil, err
	}
	number := receiving.FormatDocumentNumber(receiving.PrefixDebitNote, receiving.PeriodOf(now), seq)

	note, err := receiving.NewDebitNote(
		tenantID, number,
		receipt.ID, receipt.ReceiptNumber,
		receipt.VendorID, receipt.VendorName,
		"Quality rejection on "+receipt.ReceiptNumber,
	)
	if err != nil {
		return nil, err
	}
	for _, c := range claims {
		if _, err := note.AddLineWithAmount(
			c.line.ID, c.line.ItemID,
			c.line.ItemCode, c.line.ItemName,
			c.line.RejectedQty, c.rate, c.amount,
			c.line.RejectionReason,
		); err != nil {
			return nil, err
		}
	}

	if err := s.debitNoteRepo.Save(ctx, note); err != nil {
		return nil, err
	}

	for _, c := range claims {
		if err := receipt.LinkDebitNote(c.line.ID, note.ID); err != nil {
			return nil, err
		}
	}
	receipt.RecomputeFinancials(note.TotalAmount)
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}

	s.logger.Info("debit note generated",
		zap.String("debit_note_number", note.DebitNoteNumber),
		zap.String("receipt_number", receipt.ReceiptNumber),
		zap.String("total_amount", note.TotalAmount.String()))

	response := ToDebitNoteResponse(note)
	return &response, nil
}

// CreateManual creates a debit note independent of QC. It does not touch any
// receipt's financial summary; only the automatic path maintains that.
func (s *DebitNoteService) CreateManual(ctx context.Context, tenantID uuid.UUID, req CreateDebitNoteRequest) (*DebitNoteResponse, error) {
	vendor, err := s.vendors.GetVendor(ctx, tenantID, req.VendorID)
	if err != nil {
		return nil, err
	}

	receiptID := uuid.Nil
	receiptNumber := ""
	if req.ReceiptID != nil {
		receipt, err := s.receiptRepo.FindByID(ctx, tenantID, *req.ReceiptID)
		if err != nil {
			return nil, err
		}
		hasNote, err := s.debitNoteRepo.ExistsForReceipt(ctx, tenantID, receipt.ID)
		if err != nil {
			return nil, err
		}
		if hasNote {
			return nil, shared.NewConflictError("DUPLICATE_DEBIT_NOTE",
				fmt.Sprintf("A debit note already exists for receipt %s", receipt.ReceiptNumber))
		}
		receiptID = receipt.ID
		receiptNumber = receipt.ReceiptNumber
	}

	now := time.Now()
	seq, err := s.sequenceRepo.Next(ctx, tenantID, receiving.PrefixDebitNote, receiving.PeriodOf(now))
	if err != nil {
		return nil, err
	}
	number := receiving.FormatDocumentNumber(receiving.PrefixDebitNote, receiving.PeriodOf(now), seq)

	note, err := receiving.NewDebitNote(tenantID, number, receiptID, receiptNumber, vendor.ID, vendor.Name, req.Reason)
	if err != nil {
		return nil, err
	}
	note.Notes = req.Notes

	for _, input := range req.Lines {
		receiptLineID := uuid.Nil
		if input.ReceiptLineID != nil {
			receiptLineID = *input.ReceiptLineID
		}
		if _, err := note.AddLine(
			receiptLineID, input.ItemID,
			input.ItemCode, input.ItemName,
			input.Quantity, input.Rate,
			input.Reason,
		); err != nil {
			return nil, err
		}
	}

	if err := s.debitNoteRepo.Save(ctx, note); err != nil {
		return nil, err
	}

	response := ToDebitNoteResponse(note)
	return &response, nil
}

// GetByID retrieves a debit note by ID
func (s *DebitNoteService) GetByID(ctx context.Context, tenantID, noteID uuid.UUID) (*DebitNoteResponse, error) {
	note, err := s.debitNoteRepo.FindByID(ctx, tenantID, noteID)
	if err != nil {
		return nil, err
	}
	response := ToDebitNoteResponse(note)
	return &response, nil
}

// List retrieves debit notes with filtering and pagination
func (s *DebitNoteService) List(ctx context.Context, tenantID uuid.UUID, filter DebitNoteListFilter) ([]DebitNoteResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := receiving.DebitNoteFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		VendorID: filter.VendorID,
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
		Search:   filter.Search,
	}
	if filter.Status != "" {
		status := receiving.DebitNoteStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("INVALID_STATUS",
				fmt.Sprintf("Invalid debit note status: %s", filter.Status))
		}
		domainFilter.Status = &status
	}

	page, err := s.debitNoteRepo.List(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DebitNoteResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = ToDebitNoteResponse(&page.Items[i])
	}
	return responses, page.Total, nil
}

// Approve approves a draft debit note
func (s *DebitNoteService) Approve(ctx context.Context, tenantID, noteID, approvedBy uuid.UUID) (*DebitNoteResponse, error) {
	note, err := s.debitNoteRepo.FindByID(ctx, tenantID, noteID)
	if err != nil {
		return nil, err
	}
	if err := note.Approve(approvedBy); err != nil {
		return nil, err
	}
	if err := s.debitNoteRepo.Save(ctx, note); err != nil {
		return nil, err
	}
	response := ToDebitNoteResponse(note)
	return &response, nil
}

// UpdateStatus transitions a debit note along its status chain
func (s *DebitNoteService) UpdateStatus(ctx context.Context, tenantID, noteID uuid.UUID, req UpdateDebitNoteStatusRequest) (*DebitNoteResponse, error) {
	target := receiving.DebitNoteStatus(req.Status)
	if target == receiving.DebitNoteStatusSent {
		return nil, shared.NewValidationError("USE_SEND",
			"SENT is reached through the send operation, not a plain status update")
	}

	note, err := s.debitNoteRepo.FindByID(ctx, tenantID, noteID)
	if err != nil {
		return nil, err
	}
	if err := note.TransitionTo(target); err != nil {
		return nil, err
	}
	if err := s.debitNoteRepo.Save(ctx, note); err != nil {
		return nil, err
	}
	response := ToDebitNoteResponse(note)
	return &response, nil
}

// Send delivers an approved debit note to the vendor and marks it SENT.
// The recipient defaults to the vendor's registered email.
func (s *DebitNoteService) Send(ctx context.Context, tenantID, noteID uuid.UUID, req SendDebitNoteRequest) (*DebitNoteResponse, error) {
	note, err := s.debitNoteRepo.FindByID(ctx, tenantID, noteID)
	if err != nil {
		return nil, err
	}

	recipient := req.Recipient
	if recipient == "" {
		vendor, err := s.vendors.GetVendor(ctx, tenantID, note.VendorID)
		if err != nil {
			return nil, err
		}
		recipient = vendor.Email
	}
	if recipient == "" {
		return nil, shared.NewValidationError("MISSING_RECIPIENT",
			"No recipient given and the vendor has no registered email")
	}

	if err := note.MarkSent(recipient); err != nil {
		return nil, err
	}
	if err := s.debitNoteRepo.Save(ctx, note); err != nil {
		return nil, err
	}

	// delivery is best-effort once the note is marked sent
	if err := s.notifier.SendDebitNote(ctx, note, recipient); err != nil {
		s.logger.Error("debit note delivery failed",
			zap.String("debit_note_number", note.DebitNoteNumber),
			zap.String("recipient", recipient),
			zap.Error(err))
	}

	response := ToDebitNoteResponse(note)
	return &response, nil
}

// UpdateLineReturnStatus records the physical disposition of rejected
// material and mirrors it onto the originating receipt line
func (s *DebitNoteService) UpdateLineReturnStatus(ctx context.Context, tenantID, noteID, lineID uuid.UUID, req UpdateReturnStatusRequest) (*DebitNoteResponse, error) {
	status := receiving.ReturnStatus(req.ReturnStatus)

	note, err := s.debitNoteRepo.FindByID(ctx, tenantID, noteID)
	if err != nil {
		return nil, err
	}
	line, err := note.UpdateLineReturnStatus(lineID, status)
	if err != nil {
		return nil, err
	}
	if err := s.debitNoteRepo.Save(ctx, note); err != nil {
		return nil, err
	}

	if note.IsLinkedToReceipt() && line.ReceiptLineID != uuid.Nil {
		receipt, err := s.receiptRepo.FindByID(ctx, tenantID, *note.ReceiptID)
		if err == nil {
			if err := receipt.UpdateLineReturnStatus(line.ReceiptLineID, status); err == nil {
				err = s.receiptRepo.Save(ctx, receipt)
			}
			if err != nil {
				s.logger.Warn("failed to mirror return status to receipt line",
					zap.String("debit_note_number", note.DebitNoteNumber),
					zap.String("receipt_line_id", line.ReceiptLineID.String()),
					zap.Error(err))
			}
		}
	}

	response := ToDebitNoteResponse(note)
	return &response, nil
}

// VendorPayables summarizes open debit claims grouped by vendor
func (s *DebitNoteService) VendorPayables(ctx context.Context, tenantID uuid.UUID) ([]receiving.VendorPayable, error) {
	return s.debitNoteRepo.VendorPayables(ctx, tenantID)
}
