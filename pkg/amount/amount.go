// Package amount converts between human decimal strings and the ledger's
// fixed-point integer representation.
package amount

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// DefaultDecimals is the display default for rendered amounts. It is not a
// substitute for a token's actual on-chain decimal count, which must be
// fetched per token and passed to Parse/Format.
const DefaultDecimals uint32 = 7

// ErrPrecisionExceeded is returned when a display value carries more
// fractional digits than the token's decimal count can represent.
var ErrPrecisionExceeded = errors.New("amount exceeds token precision")

var digits = big.NewInt(10)

// Parse converts a display value like "12.34" into the ledger's integer
// representation at the given decimal count. Trailing zeros in the fraction
// are stripped before padding; no rounding is ever performed.
func Parse(display string, decimals uint32) (*big.Int, error) {
	display = strings.TrimSpace(display)
	if display == "" {
		return nil, fmt.Errorf("empty amount")
	}

	comps := strings.Split(display, ".")
	if len(comps) > 2 {
		return nil, fmt.Errorf("invalid amount %q", display)
	}

	whole := comps[0]
	fraction := ""
	if len(comps) == 2 {
		fraction = comps[1]
	}
	if whole == "" {
		whole = "0"
	}

	fraction = strings.TrimRight(fraction, "0")
	if uint32(len(fraction)) > decimals {
		return nil, fmt.Errorf("%w: %q needs more than %d decimals", ErrPrecisionExceeded, display, decimals)
	}
	for uint32(len(fraction)) < decimals {
		fraction += "0"
	}
	if fraction == "" {
		fraction = "0"
	}

	wholeValue, ok := new(big.Int).SetString(whole, 10)
	if !ok || wholeValue.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", display)
	}
	fractionValue, ok := new(big.Int).SetString(fraction, 10)
	if !ok || fractionValue.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", display)
	}

	shift := new(big.Int).Exp(digits, big.NewInt(int64(decimals)), nil)
	return wholeValue.Mul(wholeValue, shift).Add(wholeValue, fractionValue), nil
}

// Format renders a ledger integer as a decimal string with up to decimals
// fractional digits, trimmed of trailing zeros.
func Format(v *big.Int, decimals uint32) string {
	if v == nil {
		return "0"
	}
	shift := new(big.Int).Exp(digits, big.NewInt(int64(decimals)), nil)
	whole, fraction := new(big.Int).QuoRem(new(big.Int).Abs(v), shift, new(big.Int))

	sign := ""
	if v.Sign() < 0 {
		sign = "-"
	}
	if decimals == 0 {
		return sign + whole.String()
	}

	frac := fmt.Sprintf("%0*s", decimals, fraction.String())
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return sign + whole.String()
	}
	return sign + whole.String() + "." + frac
}
