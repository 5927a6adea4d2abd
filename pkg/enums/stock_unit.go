package enums

import "fmt"

// StockUnit is the unit a stock item is counted in.
type StockUnit string

const (
	StockUnitPiece      StockUnit = "piece"
	StockUnitKilogram   StockUnit = "kg"
	StockUnitGram       StockUnit = "g"
	StockUnitSheet      StockUnit = "sheet"
	StockUnitRod        StockUnit = "rod"
	StockUnitMeter      StockUnit = "m"
	StockUnitLiter      StockUnit = "l"
	StockUnitMilliliter StockUnit = "ml"
	StockUnitBox        StockUnit = "box"
)

var validStockUnits = []StockUnit{
	StockUnitPiece,
	StockUnitKilogram,
	StockUnitGram,
	StockUnitSheet,
	StockUnitRod,
	StockUnitMeter,
	StockUnitLiter,
	StockUnitMilliliter,
	StockUnitBox,
}

// String implements fmt.Stringer.
func (u StockUnit) String() string {
	return string(u)
}

// IsValid reports whether the value is a known StockUnit.
func (u StockUnit) IsValid() bool {
	for _, candidate := range validStockUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseStockUnit converts raw input into a StockUnit.
func ParseStockUnit(value string) (StockUnit, error) {
	for _, candidate := range validStockUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock unit %q", value)
}
