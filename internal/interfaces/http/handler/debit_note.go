package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	receivingapp "github.com/sakmfg/backoffice/internal/application/receiving"
	"github.com/sakmfg/backoffice/internal/interfaces/http/dto"
)

// DebitNoteHandler handles debit note API endpoints
type DebitNoteHandler struct {
	BaseHandler
	debitNoteService *receivingapp.DebitNoteService
}

// NewDebitNoteHandler creates a new DebitNoteHandler
func NewDebitNoteHandler(debitNoteService *receivingapp.DebitNoteService) *DebitNoteHandler {
	return &DebitNoteHandler{debitNoteService: debitNoteService}
}

// ListDebitNotesRequest represents query parameters for listing debit notes
type ListDebitNotesRequest struct {
	dto.ListRequest
	Status   string `form:"status"`
	VendorID string `form:"vendor_id" binding:"omitempty,uuid"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

// List returns debit notes matching the filter
func (h *DebitNoteHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req ListDebitNotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := receivingapp.DebitNoteListFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Status:   req.Status,
		Search:   req.Search,
	}
	if req.VendorID != "" {
		id := uuid.MustParse(req.VendorID)
		filter.VendorID = &id
	}
	if from, ok := parseDateParam(req.DateFrom); ok {
		filter.DateFrom = &from
	}
	if to, ok := parseDateParam(req.DateTo); ok {
		filter.DateTo = &to
	}

	notes, total, err := h.debitNoteService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, notes, total, req.Page, req.PageSize)
}

// Get returns a single debit note with its lines
func (h *DebitNoteHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	noteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid debit note ID")
		return
	}

	note, err := h.debitNoteService.GetByID(c.Request.Context(), tenantID, noteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, note)
}

// Generate raises a debit note from a receipt's rejected lines
func (h *DebitNoteHandler) Generate(c *gin.Context) {
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

	note, err := h.debitNoteService.GenerateForReceipt(c.Request.Context(), tenantID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, note)
}

// CreateManual creates a debit note not tied to a receipt's rejections
func (h *DebitNoteHandler) CreateManual(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req receivingapp.CreateDebitNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	note, err := h.debitNoteService.CreateManual(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, note)
}

// Approve approves a draft debit note
func (h *DebitNoteHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	noteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid debit note ID")
		return
	}

	approvedBy, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Acting user identification required")
		return
	}

	note, err := h.debitNoteService.Approve(c.Request.Context(), tenantID, noteID, approvedBy)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, note)
}

// UpdateStatus moves a debit note through its lifecycle
func (h *DebitNoteHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	noteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid debit note ID")
		return
	}

	var req receivingapp.UpdateDebitNoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	note, err := h.debitNoteService.UpdateStatus(c.Request.Context(), tenantID, noteID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, note)
}

// Send delivers an approved debit note to the vendor
func (h *DebitNoteHandler) Send(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	noteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid debit note ID")
		return
	}

	// Body is optional; an empty body keeps the vendor's default recipient
	var req receivingapp.SendDebitNoteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	note, err := h.debitNoteService.Send(c.Request.Context(), tenantID, noteID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, note)
}

// UpdateLineReturnStatus records the physical return disposition of a claim line
func (h *DebitNoteHandler) UpdateLineReturnStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	noteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid debit note ID")
		return
	}

	lineID, err := parseIDParam(c, "lineId")
	if err != nil {
		h.BadRequest(c, "Invalid debit note line ID")
		return
	}

	var req receivingapp.UpdateReturnStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	note, err := h.debitNoteService.UpdateLineReturnStatus(c.Request.Context(), tenantID, noteID, lineID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, note)
}

// VendorPayables returns the open payables position grouped by vendor
func (h *DebitNoteHandler) VendorPayables(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	payables, err := h.debitNoteService.VendorPayables(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payables)
}
