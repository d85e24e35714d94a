package event

import (
	"github.com/sakmfg/backoffice/internal/domain/receiving"
	"github.com/sakmfg/backoffice/internal/domain/shared"
)

// register binds the concrete event type E to its type name.
func register[E any, PE interface {
	*E
	shared.DomainEvent
}](s *EventSerializer, eventType string) {
	s.Register(eventType, func() shared.DomainEvent {
		return PE(new(E))
	})
}

// RegisterAllEvents makes every receiving event type known to the serializer.
// The outbox processor can only replay event types registered here; an
// unregistered type dead-letters after its retries are exhausted.
func RegisterAllEvents(s *EventSerializer) {
	// Goods receipt lifecycle
	register[receiving.ReceiptCreatedEvent](s, receiving.EventTypeReceiptCreated)
	register[receiving.ReceiptLineDisposedEvent](s, receiving.EventTypeReceiptLineDisposed)
	register[receiving.ReceiptQCCompletedEvent](s, receiving.EventTypeReceiptQCCompleted)
	register[receiving.ReceiptCompletedEvent](s, receiving.EventTypeReceiptCompleted)
	register[receiving.ReceiptCancelledEvent](s, receiving.EventTypeReceiptCancelled)
	register[receiving.ReceiptFinancialsRecomputedEvent](s, receiving.EventTypeReceiptFinancialsRecomputed)
	register[receiving.ReceiptPaymentRecordedEvent](s, receiving.EventTypeReceiptPaymentRecorded)

	// Debit notes
	register[receiving.DebitNoteCreatedEvent](s, receiving.EventTypeDebitNoteCreated)
	register[receiving.DebitNoteApprovedEvent](s, receiving.EventTypeDebitNoteApproved)
	register[receiving.DebitNoteSentEvent](s, receiving.EventTypeDebitNoteSent)
	register[receiving.DebitNoteStatusChangedEvent](s, receiving.EventTypeDebitNoteStatusChanged)
	register[receiving.DebitNoteLineReturnUpdatedEvent](s, receiving.EventTypeDebitNoteLineReturnUpdated)
}
