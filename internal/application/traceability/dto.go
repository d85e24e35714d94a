package traceability

import (
	"time"

	"github.com/google/uuid"
	"github.com/sakmfg/backoffice/internal/domain/traceability"
)

// UIDResponse represents a registered identifier in API responses
type UIDResponse struct {
	ID              uuid.UUID                   `json:"id"`
	Code            string                      `json:"code"`
	EntityType      traceability.EntityType     `json:"entity_type"`
	ItemID          uuid.UUID                   `json:"item_id"`
	VendorID        *uuid.UUID                  `json:"vendor_id,omitempty"`
	PurchaseOrderID *uuid.UUID                  `json:"purchase_order_id,omitempty"`
	ReceiptID       *uuid.UUID                  `json:"receipt_id,omitempty"`
	ReceiptLineID   *uuid.UUID                  `json:"receipt_line_id,omitempty"`
	BatchNumber     string                      `json:"batch_number,omitempty"`
	Status          traceability.UIDStatus      `json:"status"`
	Location        string                      `json:"location,omitempty"`
	QualityStatus   string                      `json:"quality_status,omitempty"`
	CurrentStage    string                      `json:"current_stage"`
	Lifecycle       []traceability.LifecycleEvent `json:"lifecycle"`
	Metadata        traceability.Metadata       `json:"metadata"`
	CreatedAt       time.Time                   `json:"created_at"`
}

// ToUIDResponse converts a domain record to a response DTO
func ToUIDResponse(u *traceability.UIDRecord) UIDResponse {
	return UIDResponse{
		ID:              u.ID,
		Code:            u.Code,
		EntityType:      u.EntityType,
		ItemID:          u.ItemID,
		VendorID:        u.VendorID,
		PurchaseOrderID: u.PurchaseOrderID,
		ReceiptID:       u.ReceiptID,
		ReceiptLineID:   u.ReceiptLineID,
		BatchNumber:     u.BatchNumber,
		Status:          u.Status,
		Location:        u.Location,
		QualityStatus:   u.QualityStatus,
		CurrentStage:    u.CurrentStage(),
		Lifecycle:       u.Lifecycle,
		Metadata:        u.Metadata,
		CreatedAt:       u.CreatedAt,
	}
}

// UIDListFilter represents filter options for listing identifiers
type UIDListFilter struct {
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
	EntityType string
	Status     string
	ItemID     *uuid.UUID
	VendorID   *uuid.UUID
	ReceiptID  *uuid.UUID
	Search     string
}

// AppendLifecycleRequest adds one event to an identifier's history
type AppendLifecycleRequest struct {
	Stage     string `json:"stage" binding:"required"`
	Location  string `json:"location"`
	Reference string `json:"reference"`
	Actor     string `json:"actor"`
}

// TraceVendor is the vendor leg of a trace
type TraceVendor struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code,omitempty"`
	Name string    `json:"name,omitempty"`
}

// TraceReceipt is the receipt leg of a trace
type TraceReceipt struct {
	ID            uuid.UUID `json:"id"`
	ReceiptNumber string    `json:"receipt_number"`
	PONumber      string    `json:"po_number,omitempty"`
	ReceiptDate   time.Time `json:"receipt_date"`
	InvoiceNumber string    `json:"invoice_number,omitempty"`
}

// TraceResponse walks an identifier back to its provenance
type TraceResponse struct {
	UID     UIDResponse   `json:"uid"`
	Vendor  *TraceVendor  `json:"vendor,omitempty"`
	Receipt *TraceReceipt `json:"receipt,omitempty"`
}
