package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ReceiptSortFields contains allowed sort fields for goods receipts
var ReceiptSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"receipt_number":     true,
	"po_number":          true,
	"vendor_name":        true,
	"receipt_date":       true,
	"status":             true,
	"payment_status":     true,
	"gross_amount":       true,
	"net_payable_amount": true,
	"paid_amount":        true,
}

// DebitNoteSortFields contains allowed sort fields for debit notes
var DebitNoteSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"debit_note_number": true,
	"receipt_number":    true,
	"vendor_name":       true,
	"note_date":         true,
	"status":            true,
	"total_amount":      true,
}

// UIDSortFields contains allowed sort fields for the identifier registry
var UIDSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"entity_type":  true,
	"status":       true,
	"batch_number": true,
}

// StockEntrySortFields contains allowed sort fields for the stock ledger
var StockEntrySortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"entry_date":    true,
	"movement_type": true,
	"quantity":      true,
	"available_qty": true,
}

// StockBalanceSortFields contains allowed sort fields for stock balances
var StockBalanceSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"item_category": true,
	"on_hand_qty":   true,
}
