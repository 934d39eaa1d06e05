package models

import "github.com/shopspring/decimal"

// Selection is the in-progress state of one purchase.
// Amount is derived; Valid=false means no payable amount yet.
type Selection struct {
	Service       Service             `json:"service"`
	ProviderID    string              `json:"providerId"`
	ProductID     string              `json:"productId,omitempty"`
	Denomination  int                 `json:"denomination,omitempty"`
	CustomAmount  string              `json:"customAmount,omitempty"`
	MeterType     MeterType           `json:"meterType"`
	Recipient     string              `json:"recipient"`
	PaymentMethod PaymentMethod       `json:"paymentMethod"`
	Secret        string              `json:"-"`
	Amount        decimal.NullDecimal `json:"amount"`
}
