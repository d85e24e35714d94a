package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/sakmfg/backoffice/internal/infrastructure/config"
)

func testDebitNote(t *testing.T) *receiving.DebitNote {
	t.Helper()

	tenantID := uuid.New()
	receiptID := uuid.New()
	note, err := receiving.NewDebitNote(
		tenantID,
		"DN-SAIF-KOL-2025-00042",
		receiptID,
		"GR-SAIF-KOL-2025-00042",
		uuid.New(),
		"Bharat Steel Traders",
		"Rejected at quality check",
	)
	require.NoError(t, err)

	_, err = note.AddLine(
		uuid.New(),
		uuid.New(),
		"RM-COIL-01",
		"CR Steel Coil 1.2mm",
		decimal.NewFromInt(5),
		decimal.NewFromInt(80),
		"Surface rust",
	)
	require.NoError(t, err)
	return note
}

func TestWebhookNotifier_SendDebitNote(t *testing.T) {
	var received debitNotePayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	note := testDebitNote(t)
	notifier := NewWebhookNotifier(server.URL, 5*time.Second, zap.NewNop())

	err := notifier.SendDebitNote(context.Background(), note, "accounts@bharatsteel.example")
	require.NoError(t, err)

	assert.Equal(t, "debit_note.sent", received.Event)
	assert.Equal(t, note.DebitNoteNumber, received.DebitNoteNumber)
	assert.Equal(t, "Bharat Steel Traders", received.VendorName)
	assert.Equal(t, "accounts@bharatsteel.example", received.Recipient)
	assert.Equal(t, "400.00", received.TotalAmount)
	assert.Equal(t, "INR", received.Currency)
	require.Len(t, received.Lines, 1)
	assert.Equal(t, "RM-COIL-01", received.Lines[0].ItemCode)
	assert.Equal(t, "5", received.Lines[0].RejectedQty)
}

func TestWebhookNotifier_SendDebitNote_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "vendor endpoint unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL, 5*time.Second, zap.NewNop())

	err := notifier.SendDebitNote(context.Background(), testDebitNote(t), "accounts@bharatsteel.example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhookNotifier_SendDebitNote_Unreachable(t *testing.T) {
	notifier := NewWebhookNotifier("http://127.0.0.1:1/hooks/debit-notes", 500*time.Millisecond, zap.NewNop())

	err := notifier.SendDebitNote(context.Background(), testDebitNote(t), "accounts@bharatsteel.example")
	require.Error(t, err)
}

func TestLoggingNotifier_SendDebitNote(t *testing.T) {
	notifier := NewLoggingNotifier(zap.NewNop())

	err := notifier.SendDebitNote(context.Background(), testDebitNote(t), "accounts@bharatsteel.example")
	assert.NoError(t, err)
}

func TestNewNotifier(t *testing.T) {
	t.Run("returns logging notifier without webhook URL", func(t *testing.T) {
		notifier := NewNotifier(config.NotificationConfig{}, zap.NewNop())
		assert.IsType(t, &LoggingNotifier{}, notifier)
	})

	t.Run("returns webhook notifier with webhook URL", func(t *testing.T) {
		notifier := NewNotifier(config.NotificationConfig{
			WebhookURL: "https://hooks.example.com/debit-notes",
			Timeout:    10 * time.Second,
		}, zap.NewNop())
		assert.IsType(t, &WebhookNotifier{}, notifier)
	})
}
