package common

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateAmount checks d is a valid currency amount in the smallest
// currency unit: a non-negative integer.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("amount can not be negative, got %s", d)
	}
	if !d.Equal(d.Truncate(0)) {
		return fmt.Errorf("amount must be a whole number of the smallest unit, got %s", d)
	}
	return nil
}
