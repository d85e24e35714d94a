package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	appreceiving "github.com/sakmfg/backoffice/internal/application/receiving"
	"github.com/sakmfg/backoffice/internal/domain/inventory"
	"github.com/sakmfg/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// StockService maintains the stock ledger and the denormalized balances.
// The ledger write is authoritative; the balance increment is best-effort
// and never rolls the ledger entry back.
type StockService struct {
	entryRepo   inventory.StockEntryRepository
	balanceRepo inventory.StockBalanceRepository
	logger      *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	entryRepo inventory.StockEntryRepository,
	balanceRepo inventory.StockBalanceRepository,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		entryRepo:   entryRepo,
		balanceRepo: balanceRepo,
		logger:      logger,
	}
}

// PostAcceptedStock writes one inbound ledger entry for an accepted receipt
// quantity and increments the (item, warehouse) balance by the same amount
func (s *StockService) PostAcceptedStock(ctx context.Context, tenantID uuid.UUID, input appreceiving.StockPostingInput) error {
	entry, err := inventory.NewStockEntry(
		tenantID, input.ItemID, input.WarehouseID,
		inventory.MovementTypeReceipt,
		input.Quantity, input.Rate,
		input.BatchNumber,
		inventory.EntryMetadata{
			SourceType:    "RECEIPT",
			SourceID:      input.ReceiptID.String(),
			SourceNumber:  input.ReceiptNumber,
			InvoiceNumber: input.InvoiceNumber,
		},
	)
	if err != nil {
		return err
	}
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return err
	}

	if err := s.balanceRepo.Increment(ctx, tenantID, input.ItemID, input.WarehouseID, input.ItemCategory, input.Quantity); err != nil {
		s.logger.Error("balance increment failed, ledger entry stands",
			zap.String("item_id", input.ItemID.String()),
			zap.String("warehouse_id", input.WarehouseID.String()),
			zap.String("quantity", input.Quantity.String()),
			zap.Error(err))
	}

	return nil
}

// Movements retrieves ledger entries with filtering and pagination
func (s *StockService) Movements(ctx context.Context, tenantID uuid.UUID, filter MovementListFilter) ([]StockEntryResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "entry_date"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := inventory.MovementFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		ItemID:      filter.ItemID,
		WarehouseID: filter.WarehouseID,
		DateFrom:    filter.DateFrom,
		DateTo:      filter.DateTo,
	}
	if filter.MovementType != "" {
		mt := inventory.MovementType(filter.MovementType)
		if !mt.IsValid() {
			return nil, 0, shared.NewValidationError("INVALID_MOVEMENT_TYPE",
				fmt.Sprintf("Invalid movement type: %s", filter.MovementType))
		}
		domainFilter.MovementType = &mt
	}

	page, err := s.entryRepo.List(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StockEntryResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = ToStockEntryResponse(&page.Items[i])
	}
	return responses, page.Total, nil
}

// Balances retrieves on-hand balances with filtering and pagination
func (s *StockService) Balances(ctx context.Context, tenantID uuid.UUID, filter BalanceListFilter) ([]StockBalanceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	page, err := s.balanceRepo.List(ctx, tenantID, inventory.BalanceFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "updated_at",
			OrderDir: "desc",
		},
		ItemID:      filter.ItemID,
		WarehouseID: filter.WarehouseID,
		Category:    filter.Category,
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StockBalanceResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = ToStockBalanceResponse(&page.Items[i])
	}
	return responses, page.Total, nil
}
