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

// ReceiptService handles goods receipt lifecycle operations
type ReceiptService struct {
	receiptRepo    receiving.ReceiptRepository
	debitNoteRepo  receiving.DebitNoteRepository
	sequenceRepo   receiving.SequenceRepository
	orders         procurement.PurchaseOrderProvider
	vendors        procurement.VendorProvider
	warehouses     procurement.WarehouseProvider
	items          procurement.ItemProvider
	issuer         IdentifierIssuer
	uidCounter     UIDCounter
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	receiptRepo receiving.ReceiptRepository,
	debitNoteRepo receiving.DebitNoteRepository,
	sequenceRepo receiving.SequenceRepository,
	orders procurement.PurchaseOrderProvider,
	vendors procurement.VendorProvider,
	warehouses procurement.WarehouseProvider,
	items procurement.ItemProvider,
	issuer IdentifierIssuer,
	uidCounter UIDCounter,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo:   receiptRepo,
		debitNoteRepo: debitNoteRepo,
		sequenceRepo:  sequenceRepo,
		orders:        orders,
		vendors:       vendors,
		warehouses:    warehouses,
		items:         items,
		issuer:        issuer,
		uidCounter:    uidCounter,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReceiptService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new goods receipt against a purchase order
func (s *ReceiptService) Create(ctx context.Context, tenantID uuid.UUID, req CreateReceiptRequest) (*ReceiptResponse, error) {
	exists, err := s.receiptRepo.ExistsForPurchaseOrder(ctx, tenantID, req.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("DUPLICATE_RECEIPT",
			fmt.Sprintf("A receipt already exists for purchase order %s", req.PurchaseOrderID))
	}

	order, err := s.orders.GetOrder(ctx, tenantID, req.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	vendor, err := s.vendors.GetVendor(ctx, tenantID, order.VendorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.warehouses.GetWarehouse(ctx, tenantID, req.WarehouseID); err != nil {
		return nil, err
	}

	receiptDate := time.Now()
	if req.ReceiptDate != nil {
		receiptDate = *req.ReceiptDate
	}

	seq, err := s.sequenceRepo.Next(ctx, tenantID, receiving.PrefixReceipt, receiving.PeriodOf(receiptDate))
	if err != nil {
		return nil, err
	}
	receiptNumber := receiving.FormatDocumentNumber(receiving.PrefixReceipt, receiving.PeriodOf(receiptDate), seq)

	receipt, err := receiving.NewReceipt(
		tenantID, receiptNumber,
		order.ID, order.Number,
		vendor.ID, vendor.Name,
		req.WarehouseID, receiptDate,
	)
	if err != nil {
		return nil, err
	}
	receipt.InvoiceNumber = req.InvoiceNumber
	receipt.InvoiceDate = req.InvoiceDate
	receipt.Notes = req.Notes
	receipt.ReceivedBy = req.ReceivedBy
	if req.ReceivedBy != nil {
		receipt.SetCreatedBy(*req.ReceivedBy)
	}

	for _, input := range req.Lines {
		item, err := s.items.GetItem(ctx, tenantID, input.ItemID)
		if err != nil {
			return nil, err
		}

		orderedQty := input.OrderedQty
		rate := decimal.Zero
		if input.Rate != nil {
			rate = *input.Rate
		}
		if input.POLineID != nil {
			poLine, err := s.orders.GetOrderLine(ctx, tenantID, *input.POLineID)
			if err != nil {
				return nil, err
			}
			if orderedQty.IsZero() {
				orderedQty = poLine.OrderedQty
			}
			if rate.IsZero() {
				rate = poLine.Rate
			}
		}

		if _, err := receipt.AddLine(
			item.ID, input.POLineID,
			item.Code, item.Name,
			orderedQty, input.ReceivedQty, rate,
			input.BatchNumber, input.ExpiryDate, input.Notes,
		); err != nil {
			return nil, err
		}
	}

	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, receipt)

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// GetByID retrieves a receipt by ID
func (s *ReceiptService) GetByID(ctx context.Context, tenantID, receiptID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// List retrieves receipts with filtering and pagination
func (s *ReceiptService) List(ctx context.Context, tenantID uuid.UUID, filter ReceiptListFilter) ([]ReceiptResponse, int64, error) {
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

	domainFilter := receiving.ReceiptFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		VendorID:    filter.VendorID,
		WarehouseID: filter.WarehouseID,
		DateFrom:    filter.DateFrom,
		DateTo:      filter.DateTo,
		Search:      filter.Search,
	}
	if filter.Status != "" {
		status, _, err := receiving.ParseStatusInput(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Status = &status
	}
	if filter.PaymentStatus != "" {
		ps := receiving.PaymentStatus(filter.PaymentStatus)
		if !ps.IsValid() {
			return nil, 0, shared.NewValidationError("INVALID_PAYMENT_STATUS",
				fmt.Sprintf("Invalid payment status: %s", filter.PaymentStatus))
		}
		domainFilter.PaymentStatus = &ps
	}

	page, err := s.receiptRepo.List(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReceiptResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = ToReceiptResponse(&page.Items[i])
	}
	return responses, page.Total, nil
}

// SubmitResult is the outcome of submitting a receipt
type SubmitResult struct {
	Receipt     ReceiptResponse     `json:"receipt"`
	IssuedUIDs  map[string][]string `json:"issued_uids,omitempty"`
	SideEffects []SideEffectFailure `json:"side_effect_failures,omitempty"`
}

// Submit completes a receipt and bulk-issues identifiers for accepted lines.
// Issuance failures are best-effort and reported, never fatal.
func (s *ReceiptService) Submit(ctx context.Context, tenantID, receiptID uuid.UUID) (*SubmitResult, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	if err := receipt.Complete(); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, receipt)

	issued, failures := s.issueForAcceptedLines(ctx, receipt)

	response := ToReceiptResponse(receipt)
	return &SubmitResult{Receipt: response, IssuedUIDs: issued, SideEffects: failures}, nil
}

// UpdateStatus transitions a receipt using business or storage vocabulary.
// APPROVED requires QC completion first; on approval, identifiers are issued
// for accepted lines not yet issued.
func (s *ReceiptService) UpdateStatus(ctx context.Context, tenantID, receiptID uuid.UUID, req UpdateReceiptStatusRequest) (*SubmitResult, error) {
	target, aliased, err := receiving.ParseStatusInput(req.Status)
	if err != nil {
		return nil, err
	}

	receipt, err := s.receiptRepo.FindByID(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}

	if aliased && target == receiving.ReceiptStatusCompleted && !receipt.QCCompleted {
		return nil, shared.NewPreconditionError("QC_NOT_COMPLETED",
			"Receipt cannot be approved before quality control is completed")
	}

	switch target {
	case receiving.ReceiptStatusCompleted:
		err = receipt.Complete()
	case receiving.ReceiptStatusCancelled:
		err = receipt.Cancel()
	default:
		err = shared.NewInvalidStateError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition receipt from %s to %s", receipt.Status, target))
	}
	if err != nil {
		return nil, err
	}

	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, receipt)

	var issued map[string][]string
	var failures []SideEffectFailure
	if target == receiving.ReceiptStatusCompleted {
		issued, failures = s.issueForAcceptedLines(ctx, receipt)
	}

	response := ToReceiptResponse(receipt)
	return &SubmitResult{Receipt: response, IssuedUIDs: issued, SideEffects: failures}, nil
}

// Update edits header fields of a draft receipt
func (s *ReceiptService) Update(ctx context.Context, tenantID, receiptID uuid.UUID, req UpdateReceiptRequest) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByID(ctx, tenantID, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt.Status != receiving.ReceiptStatusDraft {
		return nil, shared.NewInvalidStateError("INVALID_STATE", "Only draft receipts can be edited")
	}

	if req.InvoiceNumber != nil {
		receipt.InvoiceNumber = *req.InvoiceNumber
	}
	if req.InvoiceDate != nil {
		receipt.InvoiceDate = req.InvoiceDate
	}
	if req.Notes != nil {
		receipt.Notes = *req.Notes
	}
	receipt.UpdatedAt = time.Now()
	receipt.IncrementVersion()

	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Delete removes a receipt with no dependent records
func (s *ReceiptService) Delete(ctx context.Context, tenantID, receiptID uuid.UUID) error {
	receipt, err := s.receiptRepo.FindByID(ctx, tenantID, receiptID)
	if err != nil {
		return err
	}

	if receipt.QCStarted() || receipt.QCCompleted {
		return shared.NewConflictError("RECEIPT_HAS_QC",
			"Receipt cannot be deleted after quality control has started")
	}

	uidCount, err := s.uidCounter.CountByReceipt(ctx, tenantID, receiptID)
	if err != nil {
		return err
	}
	if uidCount > 0 {
		return shared.NewConflictError("RECEIPT_HAS_UIDS",
			"Receipt cannot be deleted while issued identifiers reference it")
	}

	hasNote, err := s.debitNoteRepo.ExistsForReceipt(ctx, tenantID, receiptID)
	if err != nil {
		return err
	}
	if hasNote {
		return shared.NewConflictError("RECEIPT_HAS_DEBIT_NOTE",
			"Receipt cannot be deleted while a debit note references it")
	}

	return s.receiptRepo.Delete(ctx, tenantID, receiptID)
}

// issueForAcceptedLines runs the identifier issuer for every accepted,
// not-yet-issued line. Failures are logged and collected, not propagated.
func (s *ReceiptService) issueForAcceptedLines(ctx context.Context, receipt *receiving.Receipt) (map[string][]string, []SideEffectFailure) {
	issued := make(map[string][]string)
	var failures []SideEffectFailure

	for i := range receipt.Lines {
		line := &receipt.Lines[i]
		if !line.AcceptedQty.IsPositive() || line.UIDsIssued {
			continue
		}
		codes, err := s.issuer.IssueForLine(ctx, receipt, line)
		if err != nil {
			s.logger.Error("identifier issuance failed",
				zap.String("receipt_number", receipt.ReceiptNumber),
				zap.String("line_id", line.ID.String()),
				zap.String("item_code", line.ItemCode),
				zap.Error(err))
			lineID := line.ID
			failures = append(failures, SideEffectFailure{
				Kind:   "UID_ISSUANCE",
				LineID: &lineID,
				Error:  err.Error(),
			})
			continue
		}
		if len(codes) > 0 {
			issued[line.ID.String()] = codes
		}
	}

	if len(issued) > 0 {
		if err := s.receiptRepo.Save(ctx, receipt); err != nil {
			s.logger.Error("failed to persist issued identifier counts",
				zap.String("receipt_number", receipt.ReceiptNumber),
				zap.Error(err))
			failures = append(failures, SideEffectFailure{Kind: "UID_COUNT_UPDATE", Error: err.Error()})
		}
	}

	return issued, failures
}

func (s *ReceiptService) publishEvents(ctx context.Context, receipt *receiving.Receipt) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range receipt.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	receipt.ClearDomainEvents()
}
