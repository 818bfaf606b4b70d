package typedom_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"cssval/css"
	"cssval/typedom"
)

func unit(t *testing.T, value float64, u string) *typedom.UnitValue {
	t.Helper()
	v, err := typedom.NewUnit(value, u)
	if err != nil {
		t.Fatalf("NewUnit(%v, %q) failed: %v", value, u, err)
	}
	return v
}

func sum(t *testing.T, values ...typedom.Numeric) *typedom.MathSum {
	t.Helper()
	v, err := typedom.NewSum(values...)
	if err != nil {
		t.Fatalf("NewSum failed: %v", err)
	}
	return v
}

func TestNewUnit(t *testing.T) {
	v := unit(t, 12.5, "px")
	if got := v.Value(); got != 12.5 {
		t.Errorf("Value() = %v, want 12.5", got)
	}
	if got := v.Unit(); got != "px" {
		t.Errorf("Unit() = %q, want px", got)
	}
	if got := v.Rat(); got.Cmp(big.NewRat(25, 2)) != 0 {
		t.Errorf("Rat() = %v, want 25/2", got)
	}
	if got := v.Type().String(); got != "{length:1}" {
		t.Errorf("Type() = %s, want {length:1}", got)
	}
	if got := unit(t, 3, "PX").Unit(); got != "px" {
		t.Errorf("Unit() = %q, want normalized px", got)
	}

	if _, err := typedom.NewUnit(1, "furlong"); !errors.Is(err, css.ErrUnknownUnit) {
		t.Errorf("NewUnit(1, furlong) error = %v, want ErrUnknownUnit", err)
	}
	if _, err := typedom.NewUnit(math.NaN(), "px"); !errors.Is(err, css.ErrValue) {
		t.Errorf("NewUnit(NaN, px) error = %v, want ErrValue", err)
	}
	if _, err := typedom.NewUnit(math.Inf(1), "px"); !errors.Is(err, css.ErrValue) {
		t.Errorf("NewUnit(+Inf, px) error = %v, want ErrValue", err)
	}
}

func TestUnitConversion(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		from  string
		to    string
		want  float64
	}{
		{"inches to pixels", 1, "in", "px", 96},
		{"half inch", 0.5, "in", "px", 48},
		{"points to pixels", 72, "pt", "px", 96},
		{"pixels to points", 100, "px", "pt", 75},
		{"picas to pixels", 1, "pc", "px", 16},
		{"seconds to milliseconds", 2, "s", "ms", 2000},
		{"fractional seconds", 1.5, "s", "ms", 1500},
		{"milliseconds to seconds", 250, "ms", "s", 0.25},
		{"degrees to turns", 90, "deg", "turn", 0.25},
		{"gradians to degrees", 100, "grad", "deg", 90},
		{"kilohertz to hertz", 2, "khz", "hz", 2000},
		{"dpi to dppx", 96, "dpi", "dppx", 1},
		{"same unit", 5, "em", "em", 5},
		{"number to number", 42, "", "", 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unit(t, tt.value, tt.from).To(tt.to)
			if err != nil {
				t.Fatalf("To(%q) failed: %v", tt.to, err)
			}
			if math.Abs(got.Value()-tt.want) > 1e-9 {
				t.Errorf("%v%s to %q = %v, want %v", tt.value, tt.from, tt.to, got.Value(), tt.want)
			}
			if got.Unit() != tt.to {
				t.Errorf("converted unit = %q, want %q", got.Unit(), tt.to)
			}
		})
	}

	bad := []struct {
		name string
		from string
		to   string
	}{
		{"length to time", "px", "s"},
		{"font relative to absolute", "em", "px"},
		{"percent to pixels", "%", "px"},
		{"number to pixels", "", "px"},
		{"viewport units", "vw", "vh"},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := unit(t, 1, tt.from).To(tt.to); !errors.Is(err, css.ErrConversion) {
				t.Errorf("To(%q) from %q error = %v, want ErrConversion", tt.to, tt.from, err)
			}
		})
	}
}

func TestUnitValueEquals(t *testing.T) {
	if !unit(t, 96, "px").Equals(unit(t, 1, "in")) {
		t.Errorf("96px.Equals(1in) = false, want true")
	}
	if !unit(t, 1, "in").Equals(unit(t, 96, "px")) {
		t.Errorf("1in.Equals(96px) = false, want true")
	}
	if unit(t, 95, "px").Equals(unit(t, 1, "in")) {
		t.Errorf("95px.Equals(1in) = true, want false")
	}
	if unit(t, 1, "em").Equals(unit(t, 16, "px")) {
		t.Errorf("1em.Equals(16px) = true, want false")
	}
	if unit(t, 1, "px").Equals(sum(t, unit(t, 1, "px"))) {
		t.Errorf("unit value equals a sum, want false")
	}

	a := sum(t, unit(t, 1, "px"), unit(t, 2, "em"))
	b := sum(t, unit(t, 1, "px"), unit(t, 2, "em"))
	swapped := sum(t, unit(t, 2, "em"), unit(t, 1, "px"))
	if !a.Equals(b) {
		t.Errorf("identical sums compare unequal")
	}
	if a.Equals(swapped) {
		t.Errorf("reordered sums compare equal, want false")
	}

	if typedom.NewNegate(unit(t, 1, "px")).Equals(typedom.NewNegate(unit(t, 1, "px"))) {
		t.Errorf("negation nodes compare equal, want false")
	}
	clamp, err := typedom.NewClamp(unit(t, 1, "px"), unit(t, 2, "px"), unit(t, 3, "px"))
	if err != nil {
		t.Fatalf("NewClamp failed: %v", err)
	}
	if clamp.Equals(clamp) {
		t.Errorf("clamp nodes compare equal, want false")
	}

	min1, err := typedom.NewMin(unit(t, 1, "px"), unit(t, 2, "px"))
	if err != nil {
		t.Fatalf("NewMin failed: %v", err)
	}
	min2, err := typedom.NewMin(unit(t, 1, "px"), unit(t, 2, "px"))
	if err != nil {
		t.Fatalf("NewMin failed: %v", err)
	}
	if !min1.Equals(min2) {
		t.Errorf("identical min nodes compare unequal")
	}
}

func TestUnitValueCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b *typedom.UnitValue
		want int
	}{
		{"equal across family", unit(t, 1, "in"), unit(t, 96, "px"), 0},
		{"less", unit(t, 1, "px"), unit(t, 2, "px"), -1},
		{"greater", unit(t, 2, "px"), unit(t, 1, "px"), 1},
		{"greater across family", unit(t, 2, "in"), unit(t, 96, "px"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Compare(tt.b, typedom.DefaultTolerance)
			if err != nil {
				t.Fatalf("Compare failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}

	if _, err := unit(t, 1, "px").Compare(unit(t, 1, "s"), typedom.DefaultTolerance); !errors.Is(err, css.ErrConversion) {
		t.Errorf("Compare(px, s) error = %v, want ErrConversion", err)
	}
	if _, err := unit(t, 1, "em").Compare(unit(t, 16, "px"), typedom.DefaultTolerance); !errors.Is(err, css.ErrConversion) {
		t.Errorf("Compare(em, px) error = %v, want ErrConversion", err)
	}
}

func TestMathSerialization(t *testing.T) {
	two := unit(t, 2, "")
	product, err := typedom.NewProduct(two, unit(t, 3, "px"))
	if err != nil {
		t.Fatalf("NewProduct failed: %v", err)
	}
	quotient, err := typedom.NewProduct(unit(t, 6, "px"), typedom.NewInvert(unit(t, 2, "")))
	if err != nil {
		t.Fatalf("NewProduct failed: %v", err)
	}
	innerSum := sum(t, unit(t, 1, "px"), unit(t, 2, "em"))
	parenless, err := typedom.NewMin(innerSum, unit(t, 3, "px"))
	if err != nil {
		t.Fatalf("NewMin failed: %v", err)
	}
	max, err := typedom.NewMax(unit(t, 1, "px"), unit(t, 2, "px"))
	if err != nil {
		t.Fatalf("NewMax failed: %v", err)
	}
	clamp, err := typedom.NewClamp(unit(t, 1, "px"), unit(t, 2, "px"), unit(t, 3, "px"))
	if err != nil {
		t.Fatalf("NewClamp failed: %v", err)
	}

	tests := []struct {
		name string
		n    typedom.Numeric
		want string
	}{
		{"plain unit", unit(t, 12, "px"), "12px"},
		{"number", unit(t, 2, ""), "2"},
		{"percent", unit(t, 50, "%"), "50%"},
		{"sum", sum(t, unit(t, 1, "px"), unit(t, 2, "em")), "calc(1px + 2em)"},
		{"sum with negation", sum(t, unit(t, 1, "px"), typedom.NewNegate(unit(t, 2, "em"))), "calc(1px - 2em)"},
		{"product", product, "calc(2 * 3px)"},
		{"product with inversion", quotient, "calc(6px / 2)"},
		{"nested product in sum", sum(t, unit(t, 1, "px"), product), "calc(1px + (2 * 3px))"},
		{"min drops inner parens", parenless, "min(1px + 2em, 3px)"},
		{"max", max, "max(1px, 2px)"},
		{"clamp", clamp, "clamp(1px, 2px, 3px)"},
		{"standalone negation", typedom.NewNegate(unit(t, 1, "px")), "calc(-1px)"},
		{"standalone inversion", typedom.NewInvert(unit(t, 2, "px")), "calc(1 / 2px)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.n.Serialize(css.DefaultFormat); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTo(t *testing.T) {
	quotient, err := typedom.NewProduct(unit(t, 6, "px"), typedom.NewInvert(unit(t, 2, "")))
	if err != nil {
		t.Fatalf("NewProduct failed: %v", err)
	}
	min, err := typedom.NewMin(unit(t, 2, "px"), unit(t, 1, "px"))
	if err != nil {
		t.Fatalf("NewMin failed: %v", err)
	}
	max, err := typedom.NewMax(unit(t, 1, "in"), unit(t, 48, "px"))
	if err != nil {
		t.Fatalf("NewMax failed: %v", err)
	}

	tests := []struct {
		name string
		n    typedom.Numeric
		unit string
		want float64
	}{
		{"unit value passes through", unit(t, 2, "em"), "em", 2},
		{"unit value converts", unit(t, 1, "in"), "px", 96},
		{"sum folds family", sum(t, unit(t, 1, "in"), unit(t, 4, "px")), "px", 100},
		{"sum folds to points", sum(t, unit(t, 1, "in"), unit(t, 4, "px")), "pt", 75},
		{"sum with negation", sum(t, unit(t, 1, "px"), typedom.NewNegate(unit(t, 2, "px"))), "px", -1},
		{"product divides", quotient, "px", 3},
		{"min picks smaller", min, "px", 1},
		{"max picks larger across family", max, "px", 96},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := typedom.To(tt.n, tt.unit)
			if err != nil {
				t.Fatalf("To(%q) failed: %v", tt.unit, err)
			}
			if math.Abs(got.Value()-tt.want) > 1e-9 {
				t.Errorf("To(%q) = %v, want %v", tt.unit, got.Value(), tt.want)
			}
		})
	}

	mixedMin, err := typedom.NewMin(unit(t, 1, "px"), unit(t, 2, "em"))
	if err != nil {
		t.Fatalf("NewMin failed: %v", err)
	}
	clamp, err := typedom.NewClamp(unit(t, 1, "px"), unit(t, 2, "px"), unit(t, 3, "px"))
	if err != nil {
		t.Fatalf("NewClamp failed: %v", err)
	}
	bad := []struct {
		name string
		n    typedom.Numeric
		unit string
	}{
		{"mixed units do not reduce", sum(t, unit(t, 1, "em"), unit(t, 2, "px")), "px"},
		{"min over mixed units", mixedMin, "px"},
		{"clamp has no sum form", clamp, "px"},
		{"inverse length", typedom.NewInvert(unit(t, 2, "px")), "px"},
		{"wrong family", unit(t, 1, "px"), "s"},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := typedom.To(tt.n, tt.unit); !errors.Is(err, css.ErrConversion) {
				t.Errorf("To(%q) error = %v, want ErrConversion", tt.unit, err)
			}
		})
	}
	if _, err := typedom.To(unit(t, 1, "px"), "furlong"); !errors.Is(err, css.ErrUnknownUnit) {
		t.Errorf("To(furlong) error = %v, want ErrUnknownUnit", err)
	}
}

func TestToSum(t *testing.T) {
	three := sum(t, unit(t, 1, "in"), unit(t, 4, "px"), unit(t, 1, "em"))

	flat, err := typedom.ToSum(three)
	if err != nil {
		t.Fatalf("ToSum() failed: %v", err)
	}
	if got := flat.Serialize(css.DefaultFormat); got != "calc(1em + 100px)" {
		t.Errorf("ToSum() = %q, want %q", got, "calc(1em + 100px)")
	}

	points, err := typedom.ToSum(sum(t, unit(t, 1, "in"), unit(t, 4, "px")), "pt")
	if err != nil {
		t.Fatalf("ToSum(pt) failed: %v", err)
	}
	if got := points.Serialize(css.DefaultFormat); got != "calc(75pt)" {
		t.Errorf("ToSum(pt) = %q, want %q", got, "calc(75pt)")
	}

	ordered, err := typedom.ToSum(sum(t, unit(t, 1, "em"), unit(t, 2, "px")), "px", "em")
	if err != nil {
		t.Fatalf("ToSum(px, em) failed: %v", err)
	}
	if got := ordered.Serialize(css.DefaultFormat); got != "calc(2px + 1em)" {
		t.Errorf("ToSum(px, em) = %q, want %q", got, "calc(2px + 1em)")
	}

	// A target with no matching source still contributes a zero term when
	// the percent hint keeps the sum type-compatible.
	padded, err := typedom.ToSum(unit(t, 2, "px"), "px", "%")
	if err != nil {
		t.Fatalf("ToSum(px, %%) failed: %v", err)
	}
	if got := padded.Serialize(css.DefaultFormat); got != "calc(2px + 0%)" {
		t.Errorf("ToSum(px, %%) = %q, want %q", got, "calc(2px + 0%)")
	}

	if _, err := typedom.ToSum(sum(t, unit(t, 1, "em"), unit(t, 2, "px")), "px"); !errors.Is(err, css.ErrConversion) {
		t.Errorf("ToSum(px) with leftover em error = %v, want ErrConversion", err)
	}
	clamp, err := typedom.NewClamp(unit(t, 1, "px"), unit(t, 2, "px"), unit(t, 3, "px"))
	if err != nil {
		t.Fatalf("NewClamp failed: %v", err)
	}
	if _, err := typedom.ToSum(clamp); !errors.Is(err, css.ErrConversion) {
		t.Errorf("ToSum(clamp) error = %v, want ErrConversion", err)
	}
}

func TestAdd(t *testing.T) {
	folded, err := typedom.Add(unit(t, 1, "px"), unit(t, 2, "px"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	u, ok := folded.(*typedom.UnitValue)
	if !ok {
		t.Fatalf("Add(1px, 2px) = %T, want *typedom.UnitValue", folded)
	}
	if u.Value() != 3 || u.Unit() != "px" {
		t.Errorf("Add(1px, 2px) = %v%s, want 3px", u.Value(), u.Unit())
	}

	mixed, err := typedom.Add(unit(t, 1, "px"), unit(t, 1, "in"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	s, ok := mixed.(*typedom.MathSum)
	if !ok {
		t.Fatalf("Add(1px, 1in) = %T, want *typedom.MathSum", mixed)
	}
	if got := len(s.Values()); got != 2 {
		t.Errorf("Add(1px, 1in) has %d operands, want 2", got)
	}
	total, err := typedom.To(s, "px")
	if err != nil {
		t.Fatalf("To(px) failed: %v", err)
	}
	if total.Value() != 97 {
		t.Errorf("To(px) = %v, want 97", total.Value())
	}

	flattened, err := typedom.Add(sum(t, unit(t, 1, "px"), unit(t, 2, "em")), unit(t, 3, "px"))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	fs, ok := flattened.(*typedom.MathSum)
	if !ok {
		t.Fatalf("Add(sum, 3px) = %T, want *typedom.MathSum", flattened)
	}
	if got := len(fs.Values()); got != 3 {
		t.Errorf("Add(sum, 3px) has %d operands, want 3", got)
	}

	if _, err := typedom.Add(unit(t, 1, "px"), unit(t, 2, "s")); !errors.Is(err, css.ErrIncompatibleNumericType) {
		t.Errorf("Add(1px, 2s) error = %v, want ErrIncompatibleNumericType", err)
	}
}

func TestSub(t *testing.T) {
	folded, err := typedom.Sub(unit(t, 5, "px"), unit(t, 2, "px"))
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	u, ok := folded.(*typedom.UnitValue)
	if !ok {
		t.Fatalf("Sub(5px, 2px) = %T, want *typedom.UnitValue", folded)
	}
	if u.Value() != 3 || u.Unit() != "px" {
		t.Errorf("Sub(5px, 2px) = %v%s, want 3px", u.Value(), u.Unit())
	}

	mixed, err := typedom.Sub(unit(t, 1, "px"), unit(t, 1, "in"))
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if _, ok := mixed.(*typedom.MathSum); !ok {
		t.Fatalf("Sub(1px, 1in) = %T, want *typedom.MathSum", mixed)
	}
	total, err := typedom.To(mixed, "px")
	if err != nil {
		t.Fatalf("To(px) failed: %v", err)
	}
	if total.Value() != -95 {
		t.Errorf("To(px) = %v, want -95", total.Value())
	}

	minNode, err := typedom.NewMin(unit(t, 2, "px"), unit(t, 3, "px"))
	if err != nil {
		t.Fatalf("NewMin failed: %v", err)
	}
	tree, err := typedom.Sub(unit(t, 10, "px"), minNode)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if got := tree.Serialize(css.DefaultFormat); got != "calc(10px - min(2px, 3px))" {
		t.Errorf("Sub(10px, min) = %q, want %q", got, "calc(10px - min(2px, 3px))")
	}
	reduced, err := typedom.To(tree, "px")
	if err != nil {
		t.Fatalf("To(px) failed: %v", err)
	}
	if reduced.Value() != 8 {
		t.Errorf("To(px) = %v, want 8", reduced.Value())
	}

	if _, err := typedom.Sub(unit(t, 1, "px"), unit(t, 2, "s")); !errors.Is(err, css.ErrIncompatibleNumericType) {
		t.Errorf("Sub(1px, 2s) error = %v, want ErrIncompatibleNumericType", err)
	}
}

func TestMul(t *testing.T) {
	scaled, err := typedom.Mul(unit(t, 3, "px"), unit(t, 2, ""))
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}
	u, ok := scaled.(*typedom.UnitValue)
	if !ok {
		t.Fatalf("Mul(3px, 2) = %T, want *typedom.UnitValue", scaled)
	}
	if u.Value() != 6 || u.Unit() != "px" {
		t.Errorf("Mul(3px, 2) = %v%s, want 6px", u.Value(), u.Unit())
	}

	percent, err := typedom.Mul(unit(t, 50, "%"), unit(t, 2, ""))
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}
	if pu := percent.(*typedom.UnitValue); pu.Value() != 100 || pu.Unit() != "%" {
		t.Errorf("Mul(50%%, 2) = %v%s, want 100%%", pu.Value(), pu.Unit())
	}

	area, err := typedom.Mul(unit(t, 2, "px"), unit(t, 3, "px"))
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}
	if _, ok := area.(*typedom.MathProduct); !ok {
		t.Fatalf("Mul(2px, 3px) = %T, want *typedom.MathProduct", area)
	}
	if got := area.Type().String(); got != "{length:2}" {
		t.Errorf("Mul(2px, 3px).Type() = %q, want %q", got, "{length:2}")
	}
	if got := area.Serialize(css.DefaultFormat); got != "calc(2px * 3px)" {
		t.Errorf("Mul(2px, 3px) = %q, want %q", got, "calc(2px * 3px)")
	}

	prod, err := typedom.NewProduct(unit(t, 2, ""), unit(t, 3, "px"))
	if err != nil {
		t.Fatalf("NewProduct failed: %v", err)
	}
	flattened, err := typedom.Mul(prod, unit(t, 4, ""))
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}
	if fu, ok := flattened.(*typedom.UnitValue); !ok || fu.Value() != 24 || fu.Unit() != "px" {
		t.Errorf("Mul(2 * 3px, 4) = %v, want 24px", flattened)
	}

	speed, err := typedom.Mul(unit(t, 1, "px"), unit(t, 1, "s"))
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}
	if got := speed.Type().String(); got != "{length:1, time:1}" {
		t.Errorf("Mul(1px, 1s).Type() = %q, want %q", got, "{length:1, time:1}")
	}
}

func TestDiv(t *testing.T) {
	halved, err := typedom.Div(unit(t, 6, "px"), unit(t, 2, ""))
	if err != nil {
		t.Fatalf("Div failed: %v", err)
	}
	u, ok := halved.(*typedom.UnitValue)
	if !ok {
		t.Fatalf("Div(6px, 2) = %T, want *typedom.UnitValue", halved)
	}
	if u.Value() != 3 || u.Unit() != "px" {
		t.Errorf("Div(6px, 2) = %v%s, want 3px", u.Value(), u.Unit())
	}

	quarter, err := typedom.Div(unit(t, 1, "in"), unit(t, 4, ""))
	if err != nil {
		t.Fatalf("Div failed: %v", err)
	}
	conv, err := typedom.To(quarter, "px")
	if err != nil {
		t.Fatalf("To(px) failed: %v", err)
	}
	if conv.Value() != 24 {
		t.Errorf("To(px) = %v, want 24", conv.Value())
	}

	inverse, err := typedom.Div(unit(t, 1, ""), unit(t, 2, "px"))
	if err != nil {
		t.Fatalf("Div failed: %v", err)
	}
	if _, ok := inverse.(*typedom.MathProduct); !ok {
		t.Fatalf("Div(1, 2px) = %T, want *typedom.MathProduct", inverse)
	}
	if got := inverse.Type().String(); got != "{length:-1}" {
		t.Errorf("Div(1, 2px).Type() = %q, want %q", got, "{length:-1}")
	}
	if got := inverse.Serialize(css.DefaultFormat); got != "calc(1 / 2px)" {
		t.Errorf("Div(1, 2px) = %q, want %q", got, "calc(1 / 2px)")
	}

	if _, err := typedom.Div(unit(t, 6, "px"), unit(t, 0, "")); !errors.Is(err, css.ErrValue) {
		t.Errorf("Div(6px, 0) error = %v, want ErrValue", err)
	}
}

func TestMinOfMaxOf(t *testing.T) {
	smallest, err := typedom.MinOf(unit(t, 1, "px"), unit(t, 3, "px"))
	if err != nil {
		t.Fatalf("MinOf failed: %v", err)
	}
	u, ok := smallest.(*typedom.UnitValue)
	if !ok {
		t.Fatalf("MinOf(1px, 3px) = %T, want *typedom.UnitValue", smallest)
	}
	if u.Value() != 1 || u.Unit() != "px" {
		t.Errorf("MinOf(1px, 3px) = %v%s, want 1px", u.Value(), u.Unit())
	}

	largest, err := typedom.MaxOf(unit(t, 1, "px"), unit(t, 3, "px"))
	if err != nil {
		t.Fatalf("MaxOf failed: %v", err)
	}
	if lu := largest.(*typedom.UnitValue); lu.Value() != 3 || lu.Unit() != "px" {
		t.Errorf("MaxOf(1px, 3px) = %v%s, want 3px", lu.Value(), lu.Unit())
	}

	mixed, err := typedom.MinOf(unit(t, 1, "px"), unit(t, 1, "in"))
	if err != nil {
		t.Fatalf("MinOf failed: %v", err)
	}
	if _, ok := mixed.(*typedom.MathMin); !ok {
		t.Fatalf("MinOf(1px, 1in) = %T, want *typedom.MathMin", mixed)
	}
	if got := mixed.Serialize(css.DefaultFormat); got != "min(1px, 1in)" {
		t.Errorf("MinOf(1px, 1in) = %q, want %q", got, "min(1px, 1in)")
	}
	conv, err := typedom.To(mixed, "px")
	if err != nil {
		t.Fatalf("To(px) failed: %v", err)
	}
	if conv.Value() != 1 {
		t.Errorf("To(px) = %v, want 1", conv.Value())
	}

	if _, err := typedom.MaxOf(); !errors.Is(err, css.ErrValue) {
		t.Errorf("MaxOf() error = %v, want ErrValue", err)
	}
	if _, err := typedom.MinOf(unit(t, 1, "px"), unit(t, 2, "s")); !errors.Is(err, css.ErrIncompatibleNumericType) {
		t.Errorf("MinOf(1px, 2s) error = %v, want ErrIncompatibleNumericType", err)
	}
}

func TestMathConstructorErrors(t *testing.T) {
	if _, err := typedom.NewSum(); !errors.Is(err, css.ErrValue) {
		t.Errorf("NewSum() error = %v, want ErrValue", err)
	}
	if _, err := typedom.NewProduct(); !errors.Is(err, css.ErrValue) {
		t.Errorf("NewProduct() error = %v, want ErrValue", err)
	}
	if _, err := typedom.NewSum(unit(t, 1, "px"), unit(t, 2, "s")); !errors.Is(err, css.ErrIncompatibleNumericType) {
		t.Errorf("NewSum(px, s) error = %v, want ErrIncompatibleNumericType", err)
	}
	if _, err := typedom.NewMin(unit(t, 1, "px"), unit(t, 2, "s")); !errors.Is(err, css.ErrIncompatibleNumericType) {
		t.Errorf("NewMin(px, s) error = %v, want ErrIncompatibleNumericType", err)
	}
	if _, err := typedom.NewClamp(unit(t, 1, "px"), unit(t, 2, "s"), unit(t, 3, "px")); !errors.Is(err, css.ErrIncompatibleNumericType) {
		t.Errorf("NewClamp(px, s, px) error = %v, want ErrIncompatibleNumericType", err)
	}
}
