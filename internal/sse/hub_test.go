package sse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmartDevNG/smartdev_api/internal/models"
)

func sampleTransaction() models.Transaction {
	return models.Transaction{
		TransactionID:  "TX01HZY0000000000000000000",
		Classification: models.ServiceData,
		Type:           "DATA PURCHASE",
		Description:    "1GB - 30 days",
		ProviderID:     "mtn",
		Recipient:      "08031234567",
		Amount:         decimal.RequireFromString("463.05"),
		PaymentMethod:  models.PaymentWallet,
		Status:         models.StatusSuccessful,
		CreatedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestHubNotifierPublishesToSubscribers(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("s1")
	defer hub.Unsubscribe("s1")

	NewHubNotifier(hub).NotifyTransactionBuilt(sampleTransaction())

	select {
	case raw := <-sub.Events:
		var event TransactionEvent
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, EventTransactionBuilt, event.Event)
		assert.Equal(t, "data", event.Service)
		assert.Equal(t, "463.05", event.Amount)
		assert.Equal(t, "SUCCESSFUL", event.Status)
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
}

func TestPublishHonoursServiceFilter(t *testing.T) {
	hub := NewHub()
	tvOnly := hub.Subscribe("tv", models.ServiceTV)
	all := hub.Subscribe("all")
	defer hub.Unsubscribe("tv")
	defer hub.Unsubscribe("all")

	trx := sampleTransaction()
	delivered := hub.Publish(transactionToEvent(EventTransactionBuilt, trx))

	assert.Equal(t, 1, delivered)
	assert.Len(t, all.Events, 1)
	assert.Empty(t, tvOnly.Events)
	assert.True(t, tvOnly.Follows(models.ServiceTV))
	assert.False(t, tvOnly.Follows(models.ServiceData))
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("slow")
	defer hub.Unsubscribe("slow")

	n := NewHubNotifier(hub)
	for i := 0; i < cap(sub.Events)+10; i++ {
		n.NotifyTransactionBuilt(sampleTransaction())
	}
	assert.Len(t, sub.Events, cap(sub.Events))
	assert.Equal(t, int64(10), sub.Dropped())
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("s1")
	assert.Equal(t, 1, hub.SubscriberCount())

	hub.Unsubscribe("s1")
	hub.Unsubscribe("s1")
	_, open := <-sub.Events
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestResubscribeReplacesPrevious(t *testing.T) {
	hub := NewHub()
	first := hub.Subscribe("dup")
	second := hub.Subscribe("dup")
	defer hub.Unsubscribe("dup")

	_, open := <-first.Events
	assert.False(t, open)
	assert.Equal(t, 1, hub.SubscriberCount())
	assert.NotSame(t, first, second)
}

type recordingNotifier struct {
	got []models.Transaction
}

func (r *recordingNotifier) NotifyTransactionBuilt(trx models.Transaction) {
	r.got = append(r.got, trx)
}

func TestMultiNotifierFansOut(t *testing.T) {
	a, b := &recordingNotifier{}, &recordingNotifier{}
	MultiNotifier{a, nil, &NopNotifier{}, b}.NotifyTransactionBuilt(sampleTransaction())

	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
}
