package receiving

import (
	"fmt"
	"strings"

	"github.com/sakmfg/backoffice/internal/domain/shared"
)

// Business-facing status aliases. Clients speak APPROVED/REJECTED while
// storage keeps COMPLETED/CANCELLED.
const (
	BusinessStatusApproved = "APPROVED"
	BusinessStatusRejected = "REJECTED"
)

var businessToStorage = map[string]ReceiptStatus{
	BusinessStatusApproved: ReceiptStatusCompleted,
	BusinessStatusRejected: ReceiptStatusCancelled,
}

var storageToBusiness = map[ReceiptStatus]string{
	ReceiptStatusCompleted: BusinessStatusApproved,
	ReceiptStatusCancelled: BusinessStatusRejected,
}

// ParseStatusInput resolves a client-supplied status value to storage form.
// Both vocabularies are accepted. The second return reports whether the
// input used the business alias.
func ParseStatusInput(input string) (ReceiptStatus, bool, error) {
	normalized := strings.ToUpper(strings.TrimSpace(input))
	if mapped, ok := businessToStorage[normalized]; ok {
		return mapped, true, nil
	}
	status := ReceiptStatus(normalized)
	if status.IsValid() {
		return status, false, nil
	}
	return "", false, shared.NewValidationError("INVALID_STATUS",
		fmt.Sprintf("Invalid receipt status: %s", input))
}

// BusinessStatus returns the business-facing alias for a storage status.
// DRAFT has no alias and is returned as-is.
func BusinessStatus(status ReceiptStatus) string {
	if alias, ok := storageToBusiness[status]; ok {
		return alias
	}
	return status.String()
}
