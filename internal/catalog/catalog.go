package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SmartDevNG/smartdev_api/internal/models"
)

// ProviderSpec is the literal form of a provider entry. Discount is a
// percentage string such as "5.5%"; empty means no discount.
type ProviderSpec struct {
	ID       string
	Name     string
	Discount string
}

// ProductSpec is the literal form of a bundle or package.
type ProductSpec struct {
	ID    string
	Name  string
	Price int64
}

// Spec describes a whole catalog before validation.
type Spec struct {
	Providers     map[models.Service][]ProviderSpec
	Products      map[models.Service]map[string][]ProductSpec
	Denominations map[models.Service][]int
	MeterTypes    []models.MeterTypeOption
}

// Catalog is read-only reference data. All lookups are safe for concurrent use
// and return copies; unknown services or providers yield empty results.
type Catalog struct {
	providers     map[models.Service][]models.Provider
	products      map[models.Service]map[string][]models.Product
	denominations map[models.Service][]int
	meterTypes    []models.MeterTypeOption
}

var one = decimal.NewFromInt(1)

// New validates spec and builds a Catalog from it.
func New(spec Spec) (*Catalog, error) {
	c := &Catalog{
		providers:     make(map[models.Service][]models.Provider),
		products:      make(map[models.Service]map[string][]models.Product),
		denominations: make(map[models.Service][]int),
		meterTypes:    append([]models.MeterTypeOption(nil), spec.MeterTypes...),
	}

	for service, list := range spec.Providers {
		seen := make(map[string]bool, len(list))
		for _, p := range list {
			if p.ID == "" {
				return nil, fmt.Errorf("%s: provider with empty id", service)
			}
			if seen[p.ID] {
				return nil, fmt.Errorf("%s: duplicate provider %q", service, p.ID)
			}
			seen[p.ID] = true

			rate, err := parseDiscount(p.Discount)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", service, p.ID, err)
			}
			c.providers[service] = append(c.providers[service], models.Provider{
				ID:           p.ID,
				Name:         p.Name,
				Service:      service,
				DiscountRate: rate,
			})
		}
	}

	for service, byProvider := range spec.Products {
		c.products[service] = make(map[string][]models.Product, len(byProvider))
		for providerID, list := range byProvider {
			if _, ok := c.Provider(service, providerID); !ok {
				return nil, fmt.Errorf("%s: products listed for unknown provider %q", service, providerID)
			}
			seen := make(map[string]bool, len(list))
			for _, p := range list {
				if seen[p.ID] {
					return nil, fmt.Errorf("%s/%s: duplicate product %q", service, providerID, p.ID)
				}
				seen[p.ID] = true
				if p.Price <= 0 {
					return nil, fmt.Errorf("%s/%s/%s: price must be positive", service, providerID, p.ID)
				}
				c.products[service][providerID] = append(c.products[service][providerID], models.Product{
					ID:         p.ID,
					Name:       p.Name,
					ProviderID: providerID,
					Price:      p.Price,
				})
			}
		}
	}

	for service, list := range spec.Denominations {
		for _, d := range list {
			if d <= 0 {
				return nil, fmt.Errorf("%s: denomination must be positive, got %d", service, d)
			}
		}
		c.denominations[service] = append([]int(nil), list...)
	}

	return c, nil
}

// parseDiscount converts "5.5%" into 0.055. Empty input is a zero rate.
func parseDiscount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	pct, err := decimal.NewFromString(strings.TrimSuffix(raw, "%"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid discount %q", raw)
	}
	rate := pct.Div(decimal.NewFromInt(100))
	if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
		return decimal.Zero, fmt.Errorf("discount %q out of range", raw)
	}
	return rate, nil
}

// Services returns every service in storefront order.
func (c *Catalog) Services() []models.Service {
	return append([]models.Service(nil), models.AllServices...)
}

// ProvidersFor returns the providers of a service in display order.
func (c *Catalog) ProvidersFor(service models.Service) []models.Provider {
	return append([]models.Provider{}, c.providers[service]...)
}

// Provider looks up a single provider of a service.
func (c *Catalog) Provider(service models.Service, providerID string) (models.Provider, bool) {
	for _, p := range c.providers[service] {
		if p.ID == providerID {
			return p, true
		}
	}
	return models.Provider{}, false
}

// ProductsFor returns the fixed-price products of a provider. Services
// without discrete products (airtime, electricity) always yield none.
func (c *Catalog) ProductsFor(service models.Service, providerID string) []models.Product {
	return append([]models.Product{}, c.products[service][providerID]...)
}

// Product looks up a single product.
func (c *Catalog) Product(service models.Service, providerID, productID string) (models.Product, bool) {
	for _, p := range c.products[service][providerID] {
		if p.ID == productID {
			return p, true
		}
	}
	return models.Product{}, false
}

// DenominationsFor returns the quick-select amounts of a service.
func (c *Catalog) DenominationsFor(service models.Service) []int {
	return append([]int{}, c.denominations[service]...)
}

// HasDenomination reports whether value is a preset amount of service.
func (c *Catalog) HasDenomination(service models.Service, value int) bool {
	for _, d := range c.denominations[service] {
		if d == value {
			return true
		}
	}
	return false
}

// MeterTypes returns the electricity meter options.
func (c *Catalog) MeterTypes() []models.MeterTypeOption {
	return append([]models.MeterTypeOption{}, c.meterTypes...)
}
