package escrowapi

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var maxUint64 = decimal.NewFromBigInt(new(big.Int).SetUint64(^uint64(0)), 0)

// FormatAmount returns the decimal representation of amount base units of a
// mint with the given decimals, ie. 1500 with 3 decimals is 1.5.
func FormatAmount(amount uint64, decimals uint8) string {
	return decimal.NewFromBigInt(
		new(big.Int).SetUint64(amount), -int32(decimals),
	).String()
}

// ParseAmount converts a decimal amount into base units of a mint with the
// given decimals. It fails if the amount is negative, too precise or does not
// fit 64 bits.
func ParseAmount(amount string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %s: %w", amount, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative")
	}

	units := d.Shift(int32(decimals))
	if !units.Equal(units.Truncate(0)) {
		return 0, fmt.Errorf(
			"amount %s exceeds the precision of %d decimals", amount, decimals,
		)
	}
	if units.GreaterThan(maxUint64) {
		return 0, fmt.Errorf("amount %s is too big", amount)
	}
	return units.BigInt().Uint64(), nil
}
