package handler

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/SmartDevNG/smartdev_api/internal/models"
	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

// tagErrors maps custom binding tags to the API error they stand for.
var tagErrors = map[string]error{
	"service":        utils.ErrUnknownService,
	"meter_type":     utils.ErrInvalidMeterType,
	"payment_method": utils.ErrInvalidPaymentMethod,
}

// RegisterValidators installs the purchase binding tags on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	if err := v.RegisterValidation("service", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseService(fl.Field().String())
		return ok
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("meter_type", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseMeterType(fl.Field().String())
		return ok
	}); err != nil {
		return err
	}
	return v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		_, ok := models.ParsePaymentMethod(fl.Field().String())
		return ok
	})
}

// bindingError converts a binding failure into the error code to report.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if mapped, ok := tagErrors[fe.Tag()]; ok {
				return mapped
			}
		}
	}
	return utils.ErrInvalidRequest
}
