package sse

import (
	"github.com/SmartDevNG/smartdev_api/internal/models"
)

// TransactionNotifier is the interface services use to emit transaction events.
// Implementations must not block the caller for long and never fail it.
type TransactionNotifier interface {
	NotifyTransactionBuilt(trx models.Transaction)
}

// HubNotifier pushes built transactions to stream subscribers.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyTransactionBuilt(trx models.Transaction) {
	if n.hub.SubscriberCount() == 0 {
		return
	}
	n.hub.Publish(transactionToEvent(EventTransactionBuilt, trx))
}

func transactionToEvent(eventType EventType, trx models.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Event:         eventType,
		TransactionID: trx.TransactionID,
		Service:       string(trx.Classification),
		Type:          trx.Type,
		Description:   trx.Description,
		ProviderID:    trx.ProviderID,
		Recipient:     trx.Recipient,
		Amount:        trx.Amount.StringFixed(2),
		PaymentMethod: string(trx.PaymentMethod),
		Status:        string(trx.Status),
		Timestamp:     trx.CreatedAt,
	}
}

// MultiNotifier fans a notification out to every notifier in order.
type MultiNotifier []TransactionNotifier

func (m MultiNotifier) NotifyTransactionBuilt(trx models.Transaction) {
	for _, n := range m {
		if n != nil {
			n.NotifyTransactionBuilt(trx)
		}
	}
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (n *NopNotifier) NotifyTransactionBuilt(trx models.Transaction) {}
