package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	traceapp "github.com/sakmfg/backoffice/internal/application/traceability"
	"github.com/sakmfg/backoffice/internal/interfaces/http/dto"
)

// UIDHandler handles identifier registry API endpoints
type UIDHandler struct {
	BaseHandler
	traceService *traceapp.TraceService
}

// NewUIDHandler creates a new UIDHandler
func NewUIDHandler(traceService *traceapp.TraceService) *UIDHandler {
	return &UIDHandler{traceService: traceService}
}

// ListUIDsRequest represents query parameters for listing identifiers
type ListUIDsRequest struct {
	dto.ListRequest
	EntityType string `form:"entity_type"`
	Status     string `form:"status"`
	ItemID     string `form:"item_id" binding:"omitempty,uuid"`
	VendorID   string `form:"vendor_id" binding:"omitempty,uuid"`
	ReceiptID  string `form:"receipt_id" binding:"omitempty,uuid"`
}

// List returns registered identifiers matching the filter
func (h *UIDHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req ListUIDsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := traceapp.UIDListFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		OrderBy:    req.OrderBy,
		OrderDir:   req.OrderDir,
		EntityType: req.EntityType,
		Status:     req.Status,
		Search:     req.Search,
	}
	if req.ItemID != "" {
		id := uuid.MustParse(req.ItemID)
		filter.ItemID = &id
	}
	if req.VendorID != "" {
		id := uuid.MustParse(req.VendorID)
		filter.VendorID = &id
	}
	if req.ReceiptID != "" {
		id := uuid.MustParse(req.ReceiptID)
		filter.ReceiptID = &id
	}

	uids, total, err := h.traceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, uids, total, req.Page, req.PageSize)
}

// Get returns a single identifier by its code
func (h *UIDHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Identifier code required")
		return
	}

	uid, err := h.traceService.GetByCode(c.Request.Context(), tenantID, code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, uid)
}

// Trace walks an identifier back to its receipt and vendor
func (h *UIDHandler) Trace(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Identifier code required")
		return
	}

	trace, err := h.traceService.Trace(c.Request.Context(), tenantID, code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, trace)
}

// AppendLifecycle appends one event to an identifier's history
func (h *UIDHandler) AppendLifecycle(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Identifier code required")
		return
	}

	var req traceapp.AppendLifecycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	uid, err := h.traceService.AppendLifecycle(c.Request.Context(), tenantID, code, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, uid)
}
