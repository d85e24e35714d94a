package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/sakmfg/backoffice/internal/application/inventory"
	"github.com/sakmfg/backoffice/internal/interfaces/http/dto"
)

// StockHandler handles stock ledger API endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// ListMovementsRequest represents query parameters for listing ledger entries
type ListMovementsRequest struct {
	dto.ListRequest
	ItemID       string `form:"item_id" binding:"omitempty,uuid"`
	WarehouseID  string `form:"warehouse_id" binding:"omitempty,uuid"`
	MovementType string `form:"movement_type"`
	DateFrom     string `form:"date_from"`
	DateTo       string `form:"date_to"`
}

// ListBalancesRequest represents query parameters for listing balances
type ListBalancesRequest struct {
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	ItemID      string `form:"item_id" binding:"omitempty,uuid"`
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
	Category    string `form:"category"`
}

// Movements returns stock ledger entries matching the filter
func (h *StockHandler) Movements(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req ListMovementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	filter := inventoryapp.MovementListFilter{
		Page:         req.Page,
		PageSize:     req.PageSize,
		OrderBy:      req.OrderBy,
		OrderDir:     req.OrderDir,
		MovementType: req.MovementType,
	}
	if req.ItemID != "" {
		id := uuid.MustParse(req.ItemID)
		filter.ItemID = &id
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

	entries, total, err := h.stockService.Movements(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, req.Page, req.PageSize)
}

// Balances returns on-hand balances matching the filter
func (h *StockHandler) Balances(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return
	}

	var req ListBalancesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	filter := inventoryapp.BalanceListFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Category: req.Category,
	}
	if req.ItemID != "" {
		id := uuid.MustParse(req.ItemID)
		filter.ItemID = &id
	}
	if req.WarehouseID != "" {
		id := uuid.MustParse(req.WarehouseID)
		filter.WarehouseID = &id
	}

	balances, total, err := h.stockService.Balances(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, balances, total, req.Page, req.PageSize)
}
