package enums

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MovementType describes the direction of a stock movement.
type MovementType string

const (
	MovementTypeIn         MovementType = "in"
	MovementTypeOut        MovementType = "out"
	MovementTypeAdjustment MovementType = "adjustment"
)

var validMovementTypes = []MovementType{
	MovementTypeIn,
	MovementTypeOut,
	MovementTypeAdjustment,
}

// String implements fmt.Stringer.
func (m MovementType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementType.
func (m MovementType) IsValid() bool {
	for _, candidate := range validMovementTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementType converts raw input into a MovementType.
func ParseMovementType(value string) (MovementType, error) {
	for _, candidate := range validMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement type %q", value)
}

// SignedDelta converts an unsigned movement quantity into the change applied
// to the stock item. Adjustments carry their own sign.
func (m MovementType) SignedDelta(quantity decimal.Decimal) decimal.Decimal {
	switch m {
	case MovementTypeIn:
		return quantity.Abs()
	case MovementTypeOut:
		return quantity.Abs().Neg()
	default:
		return quantity
	}
}

// ValidateQuantity checks the quantity sign rules for the movement type.
func (m MovementType) ValidateQuantity(quantity decimal.Decimal) error {
	switch m {
	case MovementTypeIn, MovementTypeOut:
		if !quantity.IsPositive() {
			return fmt.Errorf("%s movements require a positive quantity", m)
		}
	case MovementTypeAdjustment:
		if quantity.IsZero() {
			return fmt.Errorf("adjustment quantity must not be zero")
		}
	default:
		return fmt.Errorf("invalid movement type %q", m)
	}
	return nil
}
