package postersync

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Classification int

const (
	ClassStandard Classification = iota
	ClassWeightBased
	ClassBeverageWeightUnit
)

func (c Classification) String() string {
	switch c {
	case ClassWeightBased:
		return "weight_based"
	case ClassBeverageWeightUnit:
		return "beverage_weight_unit"
	default:
		return "standard"
	}
}

// beverageKeywords is the canonical lexicon. A product whose name contains
// any of these (case-insensitive) is a beverage regardless of the unit the
// remote system reports for it. Ukrainian terms and their common English
// counterparts are both listed because the catalog mixes languages.
var beverageKeywords = []string{
	"пиво",
	"beer",
	"вино",
	"wine",
	"сидр",
	"cider",
	"коктейль",
	"cocktail",
	"напій",
	"drink",
	"лимонад",
	"lemonade",
	"квас",
	"kvas",
	"сік",
	"juice",
	"вода",
	"water",
	"чай",
	"tea",
	"кава",
	"coffee",
}

// weightUnits are the remote unit codes treated as mass units.
var weightUnits = map[string]bool{
	"кг": true,
	"г":  true,
	"kg": true,
	"g":  true,
}

func IsBeverageName(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range beverageKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func IsWeightUnit(unit string) bool {
	return weightUnits[strings.ToLower(strings.TrimSpace(unit))]
}

// Classify derives the pricing class from the product name and the
// remote-reported unit. Beverages win over the unit code: a keg beer
// tracked in kilograms still sells by the liter.
func Classify(name, unit string) Classification {
	beverage := IsBeverageName(name)
	weight := IsWeightUnit(unit)
	switch {
	case beverage && weight:
		return ClassBeverageWeightUnit
	case weight:
		return ClassWeightBased
	default:
		return ClassStandard
	}
}

var subunitDivisor = decimal.NewFromInt(100)
var per100gDivisor = decimal.NewFromInt(10)

// NormalizePrice converts the raw remote price (smallest currency
// subunits, possibly tiered) into the display price. Weight-based goods
// are quoted per 100 g remotely and per kilogram locally. Junk input
// normalizes to zero instead of failing the item.
func NormalizePrice(raw string, class Classification) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}

	price = price.Div(subunitDivisor)
	if class == ClassWeightBased {
		price = price.Div(per100gDivisor)
	}
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

type RetailStep struct {
	Quantity decimal.Decimal
	Unit     string
	Step     int
}

// RetailDefaults returns the storefront quantity step for the class, or
// nil for standard goods sold by the piece.
func RetailDefaults(class Classification) *RetailStep {
	switch class {
	case ClassWeightBased:
		return &RetailStep{Quantity: decimal.NewFromFloat(0.05), Unit: "г", Step: 1}
	case ClassBeverageWeightUnit:
		return &RetailStep{Quantity: decimal.NewFromFloat(0.5), Unit: "л", Step: 1}
	default:
		return nil
	}
}

// DisplayUnit is the stock unit shown next to the price.
func DisplayUnit(class Classification, remoteUnit string) string {
	switch class {
	case ClassWeightBased:
		return "кг"
	case ClassBeverageWeightUnit:
		return "л"
	default:
		if unit := strings.TrimSpace(remoteUnit); unit != "" {
			return unit
		}
		return "шт"
	}
}
