package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/sakmfg/backoffice/internal/domain/shared/valueobject"
)

// debitNotePayload is the JSON body posted to the vendor-notification webhook
type debitNotePayload struct {
	Event           string              `json:"event"`
	TenantID        string              `json:"tenant_id"`
	DebitNoteNumber string              `json:"debit_note_number"`
	ReceiptNumber   string              `json:"receipt_number"`
	VendorID        string              `json:"vendor_id"`
	VendorName      string              `json:"vendor_name"`
	Recipient       string              `json:"recipient"`
	Reason          string              `json:"reason,omitempty"`
	TotalAmount     string              `json:"total_amount"`
	Currency        string              `json:"currency"`
	NoteDate        string              `json:"note_date"`
	Lines           []debitNoteLineItem `json:"lines"`
}

type debitNoteLineItem struct {
	ItemCode    string `json:"item_code"`
	ItemName    string `json:"item_name"`
	RejectedQty string `json:"rejected_qty"`
	Rate        string `json:"rate"`
	Amount      string `json:"amount"`
	Reason      string `json:"reason,omitempty"`
}

// WebhookNotifier delivers debit-note notifications as JSON POSTs to a
// configured endpoint
type WebhookNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWebhookNotifier creates a webhook-backed notifier
func NewWebhookNotifier(webhookURL string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WebhookNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SendDebitNote posts the debit note to the webhook endpoint
func (n *WebhookNotifier) SendDebitNote(ctx context.Context, note *receiving.DebitNote, recipient string) error {
	payload := buildPayload(note, recipient)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode debit note notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build debit note notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver debit note notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("debit note notification rejected with status %d: %s", resp.StatusCode, string(respBody))
	}

	n.logger.Info("debit note notification delivered",
		zap.String("debit_note_number", note.DebitNoteNumber),
		zap.String("vendor_name", note.VendorName),
		zap.String("recipient", recipient),
	)
	return nil
}

func buildPayload(note *receiving.DebitNote, recipient string) debitNotePayload {
	total := valueobject.NewMoneyINR(note.TotalAmount).Round(2)
	payload := debitNotePayload{
		Event:           "debit_note.sent",
		TenantID:        note.TenantID.String(),
		DebitNoteNumber: note.DebitNoteNumber,
		ReceiptNumber:   note.ReceiptNumber,
		VendorID:        note.VendorID.String(),
		VendorName:      note.VendorName,
		Recipient:       recipient,
		Reason:          note.Reason,
		TotalAmount:     total.Amount().StringFixed(2),
		Currency:        string(total.Currency()),
		NoteDate:        note.NoteDate.Format(time.RFC3339),
		Lines:           make([]debitNoteLineItem, 0, len(note.Lines)),
	}
	for _, line := range note.Lines {
		payload.Lines = append(payload.Lines, debitNoteLineItem{
			ItemCode:    line.ItemCode,
			ItemName:    line.ItemName,
			RejectedQty: line.RejectedQty.String(),
			Rate:        line.Rate.String(),
			Amount:      line.Amount.String(),
			Reason:      line.Reason,
		})
	}
	return payload
}
