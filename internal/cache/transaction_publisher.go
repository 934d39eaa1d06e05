package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SmartDevNG/smartdev_api/internal/models"
)

const publishTimeout = 2 * time.Second

// Publisher is the subset of RedisClient the transaction publisher needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) (int64, error)
}

// TransactionMessage is the JSON body published for each built transaction.
type TransactionMessage struct {
	TransactionID string    `json:"transactionId"`
	Service       string    `json:"service"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	ProviderID    string    `json:"providerId"`
	Recipient     string    `json:"recipient"`
	Amount        string    `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TransactionPublisher hands built transactions to downstream consumers
// (wallet debit, history) over a Redis channel. Failures are logged only.
type TransactionPublisher struct {
	redis   Publisher
	channel string
}

// NewTransactionPublisher creates a new TransactionPublisher.
func NewTransactionPublisher(redis Publisher, channel string) *TransactionPublisher {
	return &TransactionPublisher{
		redis:   redis,
		channel: channel,
	}
}

// NotifyTransactionBuilt publishes trx.
func (p *TransactionPublisher) NotifyTransactionBuilt(trx models.Transaction) {
	payload, err := json.Marshal(toMessage(trx))
	if err != nil {
		log.Error().Err(err).Str("transaction_id", trx.TransactionID).Msg("Failed to marshal transaction message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	receivers, err := p.redis.Publish(ctx, p.channel, payload)
	if err != nil {
		log.Error().Err(err).
			Str("transaction_id", trx.TransactionID).
			Str("channel", p.channel).
			Msg("Failed to publish transaction")
		return
	}
	log.Debug().
		Str("transaction_id", trx.TransactionID).
		Int64("receivers", receivers).
		Msg("Transaction published")
}

func toMessage(trx models.Transaction) TransactionMessage {
	return TransactionMessage{
		TransactionID: trx.TransactionID,
		Service:       string(trx.Classification),
		Type:          trx.Type,
		Description:   trx.Description,
		ProviderID:    trx.ProviderID,
		Recipient:     trx.Recipient,
		Amount:        trx.Amount.StringFixed(2),
		PaymentMethod: string(trx.PaymentMethod),
		Status:        string(trx.Status),
		CreatedAt:     trx.CreatedAt,
	}
}
