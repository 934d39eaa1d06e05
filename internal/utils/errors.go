package utils

import "errors"

// Validation reasons. Each one blocks a submission and is shown to the user.
var (
	ErrMissingProvider     = errors.New("MISSING_PROVIDER")
	ErrMissingBundle       = errors.New("MISSING_BUNDLE")
	ErrMissingPackage      = errors.New("MISSING_PACKAGE")
	ErrMissingAmount       = errors.New("MISSING_AMOUNT")
	ErrInvalidRecipient    = errors.New("INVALID_RECIPIENT")
	ErrInvalidMeterNumber  = errors.New("INVALID_METER_NUMBER")
	ErrMissingOrWeakSecret = errors.New("MISSING_OR_WEAK_SECRET")
	ErrInvalidAmount       = errors.New("INVALID_AMOUNT")
)

// Caller errors raised by selection transitions.
var (
	ErrUnknownService        = errors.New("UNKNOWN_SERVICE")
	ErrUnknownProvider       = errors.New("UNKNOWN_PROVIDER")
	ErrUnknownProduct        = errors.New("UNKNOWN_PRODUCT")
	ErrUnknownDenomination   = errors.New("UNKNOWN_DENOMINATION")
	ErrOperationNotSupported = errors.New("OPERATION_NOT_SUPPORTED")
	ErrAmountReadOnly        = errors.New("AMOUNT_READ_ONLY")
	ErrInvalidMeterType      = errors.New("INVALID_METER_TYPE")
	ErrInvalidPaymentMethod  = errors.New("INVALID_PAYMENT_METHOD")
)

// Submission flow and session errors.
var (
	ErrSubmissionInProgress  = errors.New("SUBMISSION_IN_PROGRESS")
	ErrResultNotAcknowledged = errors.New("RESULT_NOT_ACKNOWLEDGED")
	ErrNothingToAcknowledge  = errors.New("NOTHING_TO_ACKNOWLEDGE")
	ErrSessionNotFound       = errors.New("SESSION_NOT_FOUND")
)

// Transport errors.
var (
	ErrInvalidRequest  = errors.New("INVALID_REQUEST")
	ErrTooManyRequests = errors.New("TOO_MANY_REQUESTS")
	ErrInternal        = errors.New("INTERNAL_ERROR")
)

var reasonMessages = map[error]string{
	ErrMissingProvider:     "Please select a provider.",
	ErrMissingBundle:       "Please select a data bundle.",
	ErrMissingPackage:      "Please select a package.",
	ErrMissingAmount:       "Please select or enter an airtime amount (min 50).",
	ErrInvalidRecipient:    "Please enter a valid recipient number.",
	ErrInvalidMeterNumber:  "Please enter a valid meter number.",
	ErrMissingOrWeakSecret: "Password is required to authenticate transaction.",
	ErrInvalidAmount:       "Please enter a valid amount.",
}

// IsValidationReason reports whether err is one of the validation reasons.
func IsValidationReason(err error) bool {
	for reason := range reasonMessages {
		if errors.Is(err, reason) {
			return true
		}
	}
	return false
}

// ReasonMessage returns the user-facing text for a validation reason,
// or an empty string for any other error.
func ReasonMessage(err error) string {
	for reason, msg := range reasonMessages {
		if errors.Is(err, reason) {
			return msg
		}
	}
	return ""
}
