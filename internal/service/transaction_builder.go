package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SmartDevNG/smartdev_api/internal/catalog"
	"github.com/SmartDevNG/smartdev_api/internal/models"
	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

// TransactionBuilder turns a validated selection into a transaction record.
type TransactionBuilder struct {
	catalog *catalog.Catalog
	now     func() time.Time
	newID   func() string
}

// NewTransactionBuilder constructs a TransactionBuilder with the wall clock
// and ULID-based ids.
func NewTransactionBuilder(c *catalog.Catalog) *TransactionBuilder {
	return &TransactionBuilder{
		catalog: c,
		now:     time.Now,
		newID:   utils.NewTransactionID,
	}
}

// WithClock replaces the timestamp source.
func (b *TransactionBuilder) WithClock(now func() time.Time) *TransactionBuilder {
	b.now = now
	return b
}

// WithIDGenerator replaces the transaction id source.
func (b *TransactionBuilder) WithIDGenerator(newID func() string) *TransactionBuilder {
	b.newID = newID
	return b
}

// Build assumes sel already passed Validate.
func (b *TransactionBuilder) Build(sel models.Selection, amount decimal.Decimal) models.Transaction {
	trx := models.Transaction{
		TransactionID:  b.newID(),
		Classification: sel.Service,
		ProviderID:     sel.ProviderID,
		Recipient:      strings.TrimSpace(sel.Recipient),
		Amount:         amount,
		PaymentMethod:  sel.PaymentMethod,
		Status:         models.StatusSuccessful,
		CreatedAt:      b.now().In(utils.WAT),
	}
	if trx.Recipient == "" {
		trx.Recipient = "-"
	}
	if rules, ok := rulesFor(sel.Service); ok {
		trx.Type = rules.label()
		trx.Description = rules.describe(sel, b.catalog)
	}
	return trx
}
