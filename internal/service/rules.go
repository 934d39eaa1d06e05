package service

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/SmartDevNG/smartdev_api/internal/catalog"
	"github.com/SmartDevNG/smartdev_api/internal/models"
	"github.com/SmartDevNG/smartdev_api/internal/pricing"
	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

const (
	minPhoneLength     = 11
	minSmartcardLength = 10
	minMeterLength     = 6
)

// serviceRules holds everything that differs between services when a
// selection is checked and turned into a transaction.
type serviceRules interface {
	// validate runs the service's structural checks.
	validate(sel models.Selection) error
	// describe returns the human-readable transaction description.
	describe(sel models.Selection, c *catalog.Catalog) string
	// label is the transaction type label.
	label() string
}

var rulesByService = map[models.Service]serviceRules{
	models.ServiceData:        dataRules{},
	models.ServiceAirtime:     airtimeRules{},
	models.ServiceTV:          tvRules{},
	models.ServiceElectricity: electricityRules{},
}

func rulesFor(service models.Service) (serviceRules, bool) {
	r, ok := rulesByService[service]
	return r, ok
}

type dataRules struct{}

func (dataRules) validate(sel models.Selection) error {
	if sel.ProductID == "" {
		return utils.ErrMissingBundle
	}
	if runeLen(sel.Recipient) < minPhoneLength {
		return utils.ErrInvalidRecipient
	}
	return nil
}

func (dataRules) describe(sel models.Selection, c *catalog.Catalog) string {
	return productName(sel, c)
}

func (dataRules) label() string { return "DATA PURCHASE" }

type airtimeRules struct{}

func (airtimeRules) validate(sel models.Selection) error {
	if _, ok := airtimeFaceValue(sel); !ok {
		return utils.ErrMissingAmount
	}
	if runeLen(sel.Recipient) < minPhoneLength {
		return utils.ErrInvalidRecipient
	}
	return nil
}

func (airtimeRules) describe(sel models.Selection, _ *catalog.Catalog) string {
	value, _ := airtimeFaceValue(sel)
	return value + " Naira top-up"
}

func (airtimeRules) label() string { return "AIRTIME PURCHASE" }

type tvRules struct{}

func (tvRules) validate(sel models.Selection) error {
	if sel.ProductID == "" {
		return utils.ErrMissingPackage
	}
	if runeLen(sel.Recipient) < minSmartcardLength {
		return utils.ErrInvalidRecipient
	}
	return nil
}

func (tvRules) describe(sel models.Selection, c *catalog.Catalog) string {
	return productName(sel, c)
}

func (tvRules) label() string { return "TV SUBSCRIPTION" }

type electricityRules struct{}

func (electricityRules) validate(sel models.Selection) error {
	if runeLen(sel.Recipient) < minMeterLength {
		return utils.ErrInvalidMeterNumber
	}
	return nil
}

func (electricityRules) describe(sel models.Selection, _ *catalog.Catalog) string {
	return string(sel.MeterType) + " - meter"
}

func (electricityRules) label() string { return "ELECTRICITY" }

// airtimeFaceValue is the undiscounted amount an airtime selection tops up,
// either the chosen denomination or the accepted custom entry.
func airtimeFaceValue(sel models.Selection) (string, bool) {
	if sel.Denomination > 0 {
		return strconv.Itoa(sel.Denomination), true
	}
	value, ok := pricing.ParseCustomAirtime(sel.CustomAmount)
	if !ok {
		return "", false
	}
	if value.Equal(pricing.MaxCustomAirtime) {
		return pricing.MaxCustomAirtime.String(), true
	}
	return strings.TrimSpace(sel.CustomAmount), true
}

func productName(sel models.Selection, c *catalog.Catalog) string {
	if p, ok := c.Product(sel.Service, sel.ProviderID, sel.ProductID); ok {
		return p.Name
	}
	return sel.ProductID
}

func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
