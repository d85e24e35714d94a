package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	appreceiving "github.com/sakmfg/backoffice/internal/application/receiving"
	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/sakmfg/backoffice/internal/infrastructure/config"
)

// LoggingNotifier records debit-note sends in the application log instead of
// delivering them. Used when no webhook endpoint is configured.
type LoggingNotifier struct {
	logger *zap.Logger
}

// NewLoggingNotifier creates a log-only notifier
func NewLoggingNotifier(logger *zap.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: logger}
}

// SendDebitNote logs the send and reports success
func (n *LoggingNotifier) SendDebitNote(_ context.Context, note *receiving.DebitNote, recipient string) error {
	n.logger.Info("debit note marked as sent, no webhook configured",
		zap.String("tenant_id", note.TenantID.String()),
		zap.String("debit_note_number", note.DebitNoteNumber),
		zap.String("vendor_name", note.VendorName),
		zap.String("recipient", recipient),
		zap.String("total_amount", note.TotalAmount.String()),
		zap.Time("note_date", note.NoteDate),
	)
	return nil
}

// NewNotifier selects the notifier implementation from configuration
func NewNotifier(cfg config.NotificationConfig, logger *zap.Logger) appreceiving.Notifier {
	if cfg.WebhookURL == "" {
		return NewLoggingNotifier(logger)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewWebhookNotifier(cfg.WebhookURL, timeout, logger)
}
