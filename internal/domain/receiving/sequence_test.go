package receiving

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDocumentNumber(t *testing.T) {
	period := PeriodOf(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-09", period)

	assert.Equal(t, "GRN-2026-09-001", FormatDocumentNumber(PrefixReceipt, period, 1))
	assert.Equal(t, "DN-2026-09-042", FormatDocumentNumber(PrefixDebitNote, period, 42))
	assert.Equal(t, "GRN-2026-09-1000", FormatDocumentNumber(PrefixReceipt, period, 1000))
}
