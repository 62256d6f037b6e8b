package postersync

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		unit string
		want Classification
	}{
		{"Сир твердий", "кг", ClassWeightBased},
		{"Ковбаса домашня", "г", ClassWeightBased},
		{"Пиво Опілля світле", "кг", ClassBeverageWeightUnit},
		{"Beer IPA", "kg", ClassBeverageWeightUnit},
		{"Вино червоне сухе", "г", ClassBeverageWeightUnit},
		{"Квас хлібний", "кг", ClassBeverageWeightUnit},
		{"Лимонад Тархун", "шт", ClassStandard},
		{"Чіпси", "шт", ClassStandard},
		{"Хліб житній", "", ClassStandard},
		{"Кава зернова", "кг", ClassBeverageWeightUnit},
	}
	for _, tc := range cases {
		if got := Classify(tc.name, tc.unit); got != tc.want {
			t.Errorf("Classify(%q, %q) = %v, want %v", tc.name, tc.unit, got, tc.want)
		}
	}
}

func TestBeverageNeverWeightBased(t *testing.T) {
	// A mass unit must not force weight pricing on a drink.
	for _, unit := range []string{"кг", "г", "kg", "g"} {
		if got := Classify("Сидр яблучний", unit); got != ClassBeverageWeightUnit {
			t.Errorf("Classify(beverage, %q) = %v, want ClassBeverageWeightUnit", unit, got)
		}
	}
}

func TestNormalizePrice(t *testing.T) {
	cases := []struct {
		raw   string
		class Classification
		want  string
	}{
		{"15500", ClassStandard, "155"},
		{"15500", ClassWeightBased, "15.5"},
		{"15500", ClassBeverageWeightUnit, "155"},
		{"100", ClassStandard, "1"},
		{"0", ClassWeightBased, "0"},
		{"", ClassStandard, "0"},
		{"abc", ClassStandard, "0"},
		{"-500", ClassStandard, "0"},
	}
	for _, tc := range cases {
		got := NormalizePrice(tc.raw, tc.class)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("NormalizePrice(%q, %v) = %s, want %s", tc.raw, tc.class, got, tc.want)
		}
	}
}

func TestPriceTiersFirst(t *testing.T) {
	var tiers PriceTiers
	if err := tiers.UnmarshalJSON([]byte(`{"2":"20000","1":"15500"}`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if got := tiers.First(); got != "15500" {
		t.Errorf("First() = %q, want lowest-keyed tier 15500", got)
	}

	// Tier ids compare numerically, not lexicographically.
	var twoDigit PriceTiers
	if err := twoDigit.UnmarshalJSON([]byte(`{"10":"30000","2":"20000"}`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if got := twoDigit.First(); got != "20000" {
		t.Errorf("First() = %q, want tier 2 amount 20000", got)
	}

	var scalar PriceTiers
	if err := scalar.UnmarshalJSON([]byte(`"9900"`)); err != nil {
		t.Fatalf("UnmarshalJSON scalar: %v", err)
	}
	if got := scalar.First(); got != "9900" {
		t.Errorf("First() scalar = %q, want 9900", got)
	}

	var empty PriceTiers
	if got := empty.First(); got != "" {
		t.Errorf("First() empty = %q, want empty string", got)
	}
}

func TestRetailDefaults(t *testing.T) {
	weight := RetailDefaults(ClassWeightBased)
	if weight == nil || !weight.Quantity.Equal(decimal.NewFromFloat(0.05)) || weight.Unit != "г" || weight.Step != 1 {
		t.Errorf("RetailDefaults(weight) = %+v, want 0.05 г step 1", weight)
	}

	beverage := RetailDefaults(ClassBeverageWeightUnit)
	if beverage == nil || !beverage.Quantity.Equal(decimal.NewFromFloat(0.5)) || beverage.Unit != "л" || beverage.Step != 1 {
		t.Errorf("RetailDefaults(beverage) = %+v, want 0.5 л step 1", beverage)
	}

	if standard := RetailDefaults(ClassStandard); standard != nil {
		t.Errorf("RetailDefaults(standard) = %+v, want nil", standard)
	}
}

func TestDisplayUnit(t *testing.T) {
	if got := DisplayUnit(ClassWeightBased, "г"); got != "кг" {
		t.Errorf("DisplayUnit(weight) = %q, want кг", got)
	}
	if got := DisplayUnit(ClassBeverageWeightUnit, "кг"); got != "л" {
		t.Errorf("DisplayUnit(beverage) = %q, want л", got)
	}
	if got := DisplayUnit(ClassStandard, ""); got != "шт" {
		t.Errorf("DisplayUnit(standard, empty) = %q, want шт", got)
	}
	if got := DisplayUnit(ClassStandard, "уп"); got != "уп" {
		t.Errorf("DisplayUnit(standard, уп) = %q, want уп", got)
	}
}

func TestFlexString(t *testing.T) {
	var f FlexString
	if err := f.UnmarshalJSON([]byte(`42`)); err != nil || f.String() != "42" {
		t.Errorf("number: got %q err %v", f, err)
	}
	if err := f.UnmarshalJSON([]byte(`" 17 "`)); err != nil || f.String() != "17" {
		t.Errorf("padded string: got %q err %v", f, err)
	}
	if err := f.UnmarshalJSON([]byte(`null`)); err != nil || f.String() != "" {
		t.Errorf("null: got %q err %v", f, err)
	}
	if !FlexString("1").True() {
		t.Error(`FlexString("1").True() = false`)
	}
	if FlexString("0").True() {
		t.Error(`FlexString("0").True() = true`)
	}
}
