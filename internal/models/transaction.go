package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusSuccessful TransactionStatus = "SUCCESSFUL"
	StatusFailed     TransactionStatus = "FAILED"
)

// Transaction is the record produced by a completed submission.
// It is handed around by value and never modified after it is built.
type Transaction struct {
	TransactionID  string            `json:"transactionId"`
	Classification Service           `json:"classification"`
	Type           string            `json:"type"`
	Description    string            `json:"description"`
	ProviderID     string            `json:"providerId"`
	Recipient      string            `json:"recipient"`
	Amount         decimal.Decimal   `json:"amount"`
	PaymentMethod  PaymentMethod     `json:"paymentMethod"`
	Status         TransactionStatus `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
}
