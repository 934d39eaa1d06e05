package service

import (
	"github.com/shopspring/decimal"

	"github.com/SmartDevNG/smartdev_api/internal/catalog"
	"github.com/SmartDevNG/smartdev_api/internal/models"
	"github.com/SmartDevNG/smartdev_api/internal/pricing"
	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

// SelectionMachine owns one in-progress Selection and applies the purchase
// transitions to it. Every upstream change clears the fields that depend on it.
// It is not safe for concurrent use; PurchaseSession serialises access.
type SelectionMachine struct {
	catalog         *catalog.Catalog
	initialService  models.Service
	initialProvider string
	sel             models.Selection
}

// NewSelectionMachine starts a selection on initialService (Data when empty or
// unknown). initialProvider is kept only if it belongs to that service.
func NewSelectionMachine(c *catalog.Catalog, initialService, initialProvider string) *SelectionMachine {
	service, ok := models.ParseService(initialService)
	if !ok {
		service = models.ServiceData
	}
	m := &SelectionMachine{catalog: c, initialService: service}
	if _, ok := c.Provider(service, initialProvider); ok {
		m.initialProvider = initialProvider
	}
	m.Reset()
	return m
}

// Reset discards the selection and starts a new purchase on the initial
// service and provider.
func (m *SelectionMachine) Reset() {
	m.sel = models.Selection{
		Service:       m.initialService,
		ProviderID:    m.initialProvider,
		MeterType:     models.MeterPrepaid,
		PaymentMethod: models.PaymentWallet,
	}
	if m.sel.ProviderID == "" {
		m.sel.ProviderID = m.firstProvider(m.initialService)
	}
}

// Snapshot returns a copy of the current selection.
func (m *SelectionMachine) Snapshot() models.Selection {
	return m.sel
}

// SetService switches service. The provider survives only if it also offers
// the new service; product, amount entries and recipient are cleared.
func (m *SelectionMachine) SetService(s models.Service) error {
	service, ok := models.ParseService(string(s))
	if !ok {
		return utils.ErrUnknownService
	}
	provider := m.sel.ProviderID
	if _, ok := m.catalog.Provider(service, provider); !ok {
		provider = m.firstProvider(service)
	}
	m.sel.Service = service
	m.sel.ProviderID = provider
	m.clearDownstream()
	return nil
}

// SetProvider picks a provider of the current service and clears everything
// chosen under the previous one.
func (m *SelectionMachine) SetProvider(providerID string) error {
	if _, ok := m.catalog.Provider(m.sel.Service, providerID); !ok {
		return utils.ErrUnknownProvider
	}
	m.sel.ProviderID = providerID
	m.clearDownstream()
	return nil
}

// SetProduct selects a data bundle or TV package. A TV package prefills the
// amount with its price; the amount stays editable.
func (m *SelectionMachine) SetProduct(productID string) error {
	if m.sel.Service != models.ServiceData && m.sel.Service != models.ServiceTV {
		return utils.ErrOperationNotSupported
	}
	product, ok := m.catalog.Product(m.sel.Service, m.sel.ProviderID, productID)
	if !ok {
		return utils.ErrUnknownProduct
	}
	m.sel.ProductID = product.ID
	m.sel.Amount = pricing.ComputeAmount(m.discountRate(), decimal.NewFromInt(product.Price))
	return nil
}

// SelectDenomination picks a preset airtime amount and drops any custom entry.
func (m *SelectionMachine) SelectDenomination(value int) error {
	if m.sel.Service != models.ServiceAirtime {
		return utils.ErrOperationNotSupported
	}
	if !m.catalog.HasDenomination(m.sel.Service, value) {
		return utils.ErrUnknownDenomination
	}
	m.sel.Denomination = value
	m.sel.CustomAmount = ""
	m.sel.Amount = pricing.ComputeAmount(m.discountRate(), decimal.NewFromInt(int64(value)))
	return nil
}

// SetCustomAmount records free-form airtime text and drops any denomination.
// Text below the minimum leaves the amount undefined.
func (m *SelectionMachine) SetCustomAmount(raw string) error {
	if m.sel.Service != models.ServiceAirtime {
		return utils.ErrOperationNotSupported
	}
	m.sel.Denomination = 0
	m.sel.CustomAmount = raw
	m.sel.Amount = pricing.CustomAirtimeAmount(raw, m.discountRate())
	return nil
}

// SetAmount edits the payable amount directly. Only TV and electricity
// amounts are user-editable.
func (m *SelectionMachine) SetAmount(raw string) error {
	if m.sel.Service != models.ServiceTV && m.sel.Service != models.ServiceElectricity {
		return utils.ErrAmountReadOnly
	}
	m.sel.Amount = pricing.ManualAmount(raw)
	return nil
}

// SetRecipient stores the phone, smartcard or meter number.
func (m *SelectionMachine) SetRecipient(recipient string) {
	m.sel.Recipient = recipient
}

// SetMeterType applies to electricity only.
func (m *SelectionMachine) SetMeterType(meterType models.MeterType) error {
	if m.sel.Service != models.ServiceElectricity {
		return utils.ErrOperationNotSupported
	}
	parsed, ok := models.ParseMeterType(string(meterType))
	if !ok {
		return utils.ErrInvalidMeterType
	}
	m.sel.MeterType = parsed
	return nil
}

// SetPaymentMethod accepts WALLET, CARD or BANK in any case.
func (m *SelectionMachine) SetPaymentMethod(method models.PaymentMethod) error {
	parsed, ok := models.ParsePaymentMethod(string(method))
	if !ok {
		return utils.ErrInvalidPaymentMethod
	}
	m.sel.PaymentMethod = parsed
	return nil
}

// SetSecret stores the transaction PIN until submission clears it.
func (m *SelectionMachine) SetSecret(secret string) {
	m.sel.Secret = secret
}

// ClearSecret forgets the PIN.
func (m *SelectionMachine) ClearSecret() {
	m.sel.Secret = ""
}

func (m *SelectionMachine) clearDownstream() {
	m.sel.ProductID = ""
	m.sel.Denomination = 0
	m.sel.CustomAmount = ""
	m.sel.Recipient = ""
	m.sel.Amount = decimal.NullDecimal{}
}

func (m *SelectionMachine) firstProvider(service models.Service) string {
	providers := m.catalog.ProvidersFor(service)
	if len(providers) == 0 {
		return ""
	}
	return providers[0].ID
}

func (m *SelectionMachine) discountRate() decimal.Decimal {
	p, ok := m.catalog.Provider(m.sel.Service, m.sel.ProviderID)
	if !ok {
		return decimal.Zero
	}
	return p.DiscountRate
}
