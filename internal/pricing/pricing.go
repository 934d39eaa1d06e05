package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// MinCustomAirtime is the smallest accepted free-form airtime entry.
	MinCustomAirtime = decimal.NewFromInt(50)
	// MaxCustomAirtime caps free-form airtime entries.
	MaxCustomAirtime = decimal.NewFromInt(10000)
	// MaxManualAmount is the largest TV or electricity amount accepted.
	MaxManualAmount = decimal.NewFromInt(10_000_000)

	one = decimal.NewFromInt(1)
)

// undefined is the "no amount yet" result.
var undefined = decimal.NullDecimal{}

// plainAmount is the only entry shape accepted: at most twelve unsigned
// digits with an optional fraction of up to six, no sign or exponent.
var plainAmount = regexp.MustCompile(`^[0-9]{1,12}(\.[0-9]{1,6})?$`)

// ComputeAmount applies a discount rate to a base value and rounds half-up to
// two places. A non-positive base or a rate outside [0, 1) yields undefined.
func ComputeAmount(rate, base decimal.Decimal) decimal.NullDecimal {
	if !base.IsPositive() || rate.IsNegative() || rate.GreaterThanOrEqual(one) {
		return undefined
	}
	return decimal.NewNullDecimal(round2(base.Mul(one.Sub(rate))))
}

// CustomAirtimeAmount prices a free-form airtime entry. Entries below the
// minimum are undefined rather than raised; entries above the maximum are
// lowered to it.
func CustomAirtimeAmount(raw string, rate decimal.Decimal) decimal.NullDecimal {
	value, ok := ParseCustomAirtime(raw)
	if !ok {
		return undefined
	}
	return ComputeAmount(rate, value)
}

// ParseCustomAirtime returns the face value a free-form airtime entry charges,
// after enforcing the minimum and applying the cap.
func ParseCustomAirtime(raw string) (decimal.Decimal, bool) {
	value, ok := parse(raw)
	if !ok || value.LessThan(MinCustomAirtime) {
		return decimal.Zero, false
	}
	if value.GreaterThan(MaxCustomAirtime) {
		value = MaxCustomAirtime
	}
	return value, true
}

// ManualAmount parses a directly entered TV or electricity amount. No
// discount applies. Negative, non-numeric or entries above MaxManualAmount
// are undefined.
func ManualAmount(raw string) decimal.NullDecimal {
	value, ok := parse(raw)
	if !ok || value.GreaterThan(MaxManualAmount) {
		return undefined
	}
	return decimal.NewNullDecimal(round2(value))
}

func parse(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if !plainAmount.MatchString(raw) {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

// round2 rounds half away from zero, which is half-up for the non-negative
// values handled here.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
