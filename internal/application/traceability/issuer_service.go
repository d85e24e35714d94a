package traceability

import (
	"context"

	"github.com/sakmfg/backoffice/internal/domain/procurement"
	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/sakmfg/backoffice/internal/domain/traceability"
	"go.uber.org/zap"
)

// IssuerService issues traceability identifiers for accepted receipt lines.
// Issuance is idempotent per (receipt, item) and tolerates partial failure:
// a failed insert mid-loop is logged and the remaining units still issue.
type IssuerService struct {
	uidRepo    traceability.UIDRepository
	items      procurement.ItemProvider
	warehouses procurement.WarehouseProvider
	tenantCode string
	plantCode  string
	logger     *zap.Logger
}

// NewIssuerService creates a new IssuerService. tenantCode and plantCode are
// the fixed code segments embedded in every issued identifier.
func NewIssuerService(
	uidRepo traceability.UIDRepository,
	items procurement.ItemProvider,
	warehouses procurement.WarehouseProvider,
	tenantCode, plantCode string,
	logger *zap.Logger,
) *IssuerService {
	return &IssuerService{
		uidRepo:    uidRepo,
		items:      items,
		warehouses: warehouses,
		tenantCode: tenantCode,
		plantCode:  plantCode,
		logger:     logger,
	}
}

// entityTypeFor maps an item-master category to an identifier entity type
func entityTypeFor(category string) traceability.EntityType {
	switch category {
	case "COMPONENT", "COMPONENT_PART":
		return traceability.EntityTypeComponentPart
	case "FINISHED_GOOD", "FINISHED_GOODS":
		return traceability.EntityTypeFinishedGood
	case "ASSEMBLY":
		return traceability.EntityTypeAssembly
	default:
		return traceability.EntityTypeRawMaterial
	}
}

// IssueForLine issues identifiers for one accepted receipt line and updates
// the line's issued count and completion flag
func (s *IssuerService) IssueForLine(ctx context.Context, receipt *receiving.Receipt, line *receiving.ReceiptLine) ([]string, error) {
	item, err := s.items.GetItem(ctx, receipt.TenantID, line.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.UIDTracking || item.UIDStrategy == procurement.UIDStrategyNone {
		return nil, nil
	}

	existing, err := s.uidRepo.FindByReceiptAndItem(ctx, receipt.TenantID, receipt.ID, line.ItemID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		codes := make([]string, len(existing))
		for i := range existing {
			codes[i] = existing[i].Code
		}
		if err := receipt.MarkLineUIDsIssued(line.ID, len(codes)); err != nil {
			return nil, err
		}
		return codes, nil
	}

	count := s.issueCount(item, line)
	if count <= 0 {
		return nil, nil
	}

	location := ""
	if wh, err := s.warehouses.GetWarehouse(ctx, receipt.TenantID, receipt.WarehouseID); err == nil {
		location = wh.Name
	}

	entityType := entityTypeFor(item.Category)
	prefix := traceability.CodePrefix(s.tenantCode, s.plantCode, entityType)

	vendorID := receipt.VendorID
	orderID := receipt.PurchaseOrderID

	var codes []string
	for i := 0; i < count; i++ {
		seq, err := s.uidRepo.NextSequence(ctx, receipt.TenantID, prefix)
		if err != nil {
			s.logger.Error("identifier sequence allocation failed",
				zap.String("prefix", prefix), zap.Error(err))
			continue
		}
		code := traceability.GenerateCode(s.tenantCode, s.plantCode, entityType, seq)

		record, err := traceability.NewUIDRecord(
			receipt.TenantID, code, entityType, item.ID,
			traceability.LifecycleEvent{
				Stage:     traceability.StageReceived,
				Location:  location,
				Reference: receipt.ReceiptNumber,
			},
			traceability.Metadata{
				ItemCode:      item.Code,
				ItemName:      item.Name,
				BatchNumber:   line.BatchNumber,
				ExpiryDate:    line.ExpiryDate,
				InvoiceNumber: receipt.InvoiceNumber,
			},
		)
		if err != nil {
			s.logger.Error("identifier construction failed",
				zap.String("code", code), zap.Error(err))
			continue
		}
		record.AttachReceipt(receipt.ID, line.ID, &vendorID, &orderID, line.BatchNumber)

		if err := s.uidRepo.Save(ctx, record); err != nil {
			s.logger.Error("identifier insert failed, continuing with remaining units",
				zap.String("code", code),
				zap.String("receipt_number", receipt.ReceiptNumber),
				zap.Error(err))
			continue
		}
		codes = append(codes, code)
	}

	if len(codes) > 0 {
		if err := receipt.MarkLineUIDsIssued(line.ID, len(codes)); err != nil {
			return codes, err
		}
	}

	return codes, nil
}

// issueCount derives how many identifiers a line needs
func (s *IssuerService) issueCount(item *procurement.ItemAttributes, line *receiving.ReceiptLine) int {
	switch item.UIDStrategy {
	case procurement.UIDStrategySerialized:
		return int(line.AcceptedQty.Ceil().IntPart())
	case procurement.UIDStrategyBatched:
		if !item.BatchQuantity.IsPositive() {
			s.logger.Warn("batched item without batch quantity, issuing one identifier",
				zap.String("item_code", item.Code))
			return 1
		}
		return int(line.AcceptedQty.Div(item.BatchQuantity).Ceil().IntPart())
	default:
		return 0
	}
}
