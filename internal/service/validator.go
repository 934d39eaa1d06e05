package service

import (
	"github.com/SmartDevNG/smartdev_api/internal/models"
	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

const minSecretLength = 4

// Validate checks a selection and returns the first failing reason, or nil.
// Order: provider, service rules, secret, amount.
func Validate(sel models.Selection) error {
	if sel.ProviderID == "" {
		return utils.ErrMissingProvider
	}

	rules, ok := rulesFor(sel.Service)
	if !ok {
		return utils.ErrUnknownService
	}
	if err := rules.validate(sel); err != nil {
		return err
	}

	if runeLen(sel.Secret) < minSecretLength {
		return utils.ErrMissingOrWeakSecret
	}

	if !sel.Amount.Valid || !sel.Amount.Decimal.IsPositive() {
		return utils.ErrInvalidAmount
	}
	return nil
}
