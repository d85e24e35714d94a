package traceability

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/procurement"
	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"github.com/sakmfg/backoffice/internal/domain/traceability"
)

// TraceService answers provenance queries against the identifier registry
type TraceService struct {
	uidRepo     traceability.UIDRepository
	receiptRepo receiving.ReceiptRepository
	vendors     procurement.VendorProvider
}

// NewTraceService creates a new TraceService
func NewTraceService(
	uidRepo traceability.UIDRepository,
	receiptRepo receiving.ReceiptRepository,
	vendors procurement.VendorProvider,
) *TraceService {
	return &TraceService{
		uidRepo:     uidRepo,
		receiptRepo: receiptRepo,
		vendors:     vendors,
	}
}

// GetByCode retrieves one identifier
func (s *TraceService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*UIDResponse, error) {
	if err := traceability.ValidateCode(code); err != nil {
		return nil, err
	}
	record, err := s.uidRepo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	response := ToUIDResponse(record)
	return &response, nil
}

// List retrieves identifiers with filtering and pagination
func (s *TraceService) List(ctx context.Context, tenantID uuid.UUID, filter UIDListFilter) ([]UIDResponse, int64, error) {
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

	domainFilter := traceability.UIDFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		ItemID:    filter.ItemID,
		VendorID:  filter.VendorID,
		ReceiptID: filter.ReceiptID,
		Search:    filter.Search,
	}
	if filter.EntityType != "" {
		et := traceability.EntityType(filter.EntityType)
		if !et.IsValid() {
			return nil, 0, shared.NewValidationError("INVALID_ENTITY_TYPE",
				fmt.Sprintf("Invalid entity type: %s", filter.EntityType))
		}
		domainFilter.EntityType = &et
	}
	if filter.Status != "" {
		st := traceability.UIDStatus(filter.Status)
		if !st.IsValid() {
			return nil, 0, shared.NewValidationError("INVALID_UID_STATUS",
				fmt.Sprintf("Invalid identifier status: %s", filter.Status))
		}
		domainFilter.Status = &st
	}

	page, err := s.uidRepo.List(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UIDResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = ToUIDResponse(&page.Items[i])
	}
	return responses, page.Total, nil
}

// Trace walks an identifier back through vendor, purchase order and receipt.
// Missing legs are omitted rather than failing the whole trace.
func (s *TraceService) Trace(ctx context.Context, tenantID uuid.UUID, code string) (*TraceResponse, error) {
	record, err := s.uidRepo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	trace := &TraceResponse{UID: ToUIDResponse(record)}

	if record.VendorID != nil {
		if vendor, err := s.vendors.GetVendor(ctx, tenantID, *record.VendorID); err == nil {
			trace.Vendor = &TraceVendor{ID: vendor.ID, Code: vendor.Code, Name: vendor.Name}
		} else {
			trace.Vendor = &TraceVendor{ID: *record.VendorID}
		}
	}

	if record.ReceiptID != nil {
		if receipt, err := s.receiptRepo.FindByID(ctx, tenantID, *record.ReceiptID); err == nil {
			trace.Receipt = &TraceReceipt{
				ID:            receipt.ID,
				ReceiptNumber: receipt.ReceiptNumber,
				PONumber:      receipt.PONumber,
				ReceiptDate:   receipt.ReceiptDate,
				InvoiceNumber: receipt.InvoiceNumber,
			}
		}
	}

	return trace, nil
}

// AppendLifecycle adds an event to an identifier's history
func (s *TraceService) AppendLifecycle(ctx context.Context, tenantID uuid.UUID, code string, req AppendLifecycleRequest) (*UIDResponse, error) {
	record, err := s.uidRepo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	if err := record.AppendLifecycle(req.Stage, req.Location, req.Reference, req.Actor); err != nil {
		return nil, err
	}
	if err := s.uidRepo.Save(ctx, record); err != nil {
		return nil, err
	}
	response := ToUIDResponse(record)
	return &response, nil
}
