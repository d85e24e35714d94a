package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	receivingapp "github.com/sakmfg/backoffice/internal/application/receiving"
	"github.com/sakmfg/backoffice/internal/interfaces/http/dto"
)

// ReceiptHandler handles goods receipt API endpoints
type ReceiptHandler struct {
	BaseHandler
	receiptService    *receivingapp.ReceiptService
	inspectionService *receivingapp.InspectionService
	paymentService    *receivingapp.PaymentService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(
	receiptService *receivingapp.ReceiptService,
	inspectionService *receivingapp.InspectionService,
	paymentService *receivingapp.PaymentService,
) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService:    receiptService,
		inspectionService: inspectionService,
		paymentService:    paymentService,
	}
}

// ListReceiptsRequest represents query parameters for listing receipts
type ListReceiptsRequest struct {
	dto.ListRequest
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	VendorID      string `form:"vendor_id" binding:"omitempty,uuid"`
	WarehouseID   string `form:"warehouse_id" binding:"omitempty,uuid"`
	DateFrom      string `form:"date_from"`
	DateTo        string `form:"date_to"`
}

// Create creates a goods receipt against a purchase order
func (h *ReceiptHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req receivingapp.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, receipt)
}

// Get returns a single receipt with its lines
func (h *ReceiptHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	receiptID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.GetByID(c.Request.Context(), tenantID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// List returns receipts matching the filter
func (h *ReceiptHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req ListReceiptsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := receivingapp.ReceiptListFilter{
		Page:          req.Page,
		PageSize:      req.PageSize,
		OrderBy:       req.OrderBy,
		OrderDir:      req.OrderDir,
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
		Search:        req.Search,
	}
	if req.VendorID != "" {
		id := uuid.MustParse(req.VendorID)
		filter.VendorID = &id
	}
	if req.WarehouseID != "" {
		id := uuid.MustParse(req.WarehouseID)
		filter.WarehouseID = &id
	}
	if from, ok := parseDateParam(req.DateFrom); ok {
		filter.DateFrom = &from
	}
	if to, ok := parseDateParam(req.DateTo); ok {
		filter.DateTo = &to
	}

	receipts, total, err := h.receiptService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, receipts, total, req.Page, req.PageSize)
}

// Update modifies the header of a draft receipt
func (h *ReceiptHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	receiptID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req receivingapp.UpdateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.Update(c.Request.Context(), tenantID, receiptID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// Delete removes a draft receipt
func (h *ReceiptHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	receiptID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	if err := h.receiptService.Delete(c.Request.Context(), tenantID, receiptID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Submit completes a receipt and issues identifiers for accepted lines
func (h *ReceiptHandler) Submit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	receiptID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	result, err := h.receiptService.Submit(c.Request.Context(), tenantID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateStatus moves a receipt through its lifecycle
func (h *ReceiptHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	receiptID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req receivingapp.UpdateReceiptStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.receiptService.UpdateStatus(c.Request.Context(), tenantID, receiptID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Dispose records a QC disposition for receipt lines
func (h *ReceiptHandler) Dispose(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	receiptID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req receivingapp.DisposeItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.inspectionService.DisposeItems(c.Request.Context(), tenantID, receiptID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RecordPayment applies a settlement payment to a receipt
func (h *ReceiptHandler) RecordPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	receiptID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID")
		return
	}

	var req receivingapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), tenantID, receiptID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// parseDateParam parses a date query parameter in RFC3339 or YYYY-MM-DD form
func parseDateParam(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
