package typedom

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"cssval/css"
)

// Numeric is a typed numeric value: either a single unit value or a
// math-expression node. The set of implementations is closed; values are
// immutable once constructed.
type Numeric interface {
	// Type returns the dimensional type of the value.
	Type() NumericType
	// Equals reports structural equality with another numeric value.
	Equals(other Numeric) bool
	// Serialize renders the value as CSS text with the given number
	// format. Values produced by ParseNumeric render their source text.
	Serialize(f css.Format) string
	String() string

	// sumTerms reduces the value to its canonical sum of terms. The
	// second result is false when the value has no such form.
	sumTerms() ([]Term, bool)
	writeTo(b *strings.Builder, f css.Format, nested, parenLess bool)
	styleValue()
}

// UnitMap maps a unit name to its integer power inside one term of a
// canonical sum.
type UnitMap map[string]int

func (m UnitMap) clone() UnitMap {
	out := make(UnitMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func unitMapsEqual(a, b UnitMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if w, ok := b[k]; !ok || w != v {
			return false
		}
	}
	return true
}

// Term is one addend of a canonical sum: a coefficient times a product
// of units raised to integer powers.
type Term struct {
	Coefficient *big.Rat
	Units       UnitMap
}

// UnitValue is a single number with an optional unit.
type UnitValue struct {
	value *big.Rat
	unit  string
	raw   string
}

// NewUnit builds a unit value after validating the unit against the
// unit table.
func NewUnit(value float64, unit string) (*UnitValue, error) {
	return newUnitRat(new(big.Rat).SetFloat64(value), unit)
}

func newUnitRat(value *big.Rat, unit string) (*UnitValue, error) {
	u, err := LookupUnit(unit)
	if err != nil {
		return nil, err
	}
	return &UnitValue{value: new(big.Rat).Set(value), unit: u}, nil
}

// Value returns the magnitude as a float64.
func (v *UnitValue) Value() float64 {
	f, _ := v.value.Float64()
	return f
}

// Rat returns a copy of the exact magnitude.
func (v *UnitValue) Rat() *big.Rat {
	return new(big.Rat).Set(v.value)
}

// Unit returns the unit name, "" for a plain number and "%" for a
// percentage.
func (v *UnitValue) Unit() string {
	return v.unit
}

func (v *UnitValue) Type() NumericType {
	t, _ := TypeOfUnit(v.unit)
	return t
}

// To converts the value into another unit of the same canonical family.
func (v *UnitValue) To(unit string) (*UnitValue, error) {
	u, err := LookupUnit(unit)
	if err != nil {
		return nil, err
	}
	if u == v.unit {
		return &UnitValue{value: new(big.Rat).Set(v.value), unit: u}, nil
	}
	cOld, okOld := CanonicalUnit(v.unit)
	cNew, okNew := CanonicalUnit(u)
	if !okOld || !okNew || cOld != cNew {
		return nil, fmt.Errorf("%w: cannot convert %q to %q",
			css.ErrConversion, v.unit, u)
	}
	out := new(big.Rat).Mul(v.value, conversionRatio(v.unit))
	out.Quo(out, conversionRatio(u))
	return &UnitValue{value: out, unit: u}, nil
}

func (v *UnitValue) Equals(other Numeric) bool {
	o, ok := other.(*UnitValue)
	if !ok {
		return false
	}
	if v.unit == o.unit {
		return v.value.Cmp(o.value) == 0
	}
	a, err := v.canonicalize()
	if err != nil {
		return false
	}
	b, err := o.canonicalize()
	if err != nil {
		return false
	}
	return a.unit == b.unit && a.value.Cmp(b.value) == 0
}

// canonicalize converts into the canonical unit of the value's family,
// returning the value unchanged when it has no canonical family.
func (v *UnitValue) canonicalize() (*UnitValue, error) {
	c, ok := CanonicalUnit(v.unit)
	if !ok || c == v.unit {
		return v, nil
	}
	return v.To(c)
}

// Compare orders two unit values of the same canonical family using the
// tolerance.
func (v *UnitValue) Compare(other *UnitValue, tol Tolerance) (int, error) {
	o := other
	if v.unit != o.unit {
		converted, err := other.To(v.unit)
		if err != nil {
			return 0, err
		}
		o = converted
	}
	return tol.CompareRat(v.value, o.value), nil
}

func (v *UnitValue) sumTerms() ([]Term, bool) {
	value := new(big.Rat).Set(v.value)
	unit := v.unit
	if c, ok := CanonicalUnit(v.unit); ok && c != v.unit {
		value.Mul(value, conversionRatio(v.unit))
		unit = c
	}
	units := UnitMap{}
	if unit != UnitNumber {
		units[unit] = 1
	}
	return []Term{{Coefficient: value, Units: units}}, true
}

func (v *UnitValue) writeTo(b *strings.Builder, f css.Format, nested, parenLess bool) {
	b.WriteString(f.Rat(v.value))
	b.WriteString(v.unit)
}

func (v *UnitValue) Serialize(f css.Format) string { return serializeNumeric(v, v.raw, f) }
func (v *UnitValue) String() string                { return v.Serialize(css.DefaultFormat) }
func (v *UnitValue) styleValue()                   {}

// MathSum is the sum of its operands.
type MathSum struct {
	values []Numeric
	typ    NumericType
	raw    string
}

// NewSum builds a sum node. The operand types must combine under
// addition.
func NewSum(values ...Numeric) (*MathSum, error) {
	typ, err := foldAddTypes("sum", values)
	if err != nil {
		return nil, err
	}
	return &MathSum{values: cloneValues(values), typ: typ}, nil
}

func (v *MathSum) Values() []Numeric { return cloneValues(v.values) }
func (v *MathSum) Type() NumericType { return v.typ }
func (v *MathSum) Equals(o Numeric) bool {
	s, ok := o.(*MathSum)
	return ok && valuesEqual(v.values, s.values)
}

func (v *MathSum) sumTerms() ([]Term, bool) {
	var merged []Term
	for _, value := range v.values {
		terms, ok := value.sumTerms()
		if !ok {
			return nil, false
		}
		for _, t := range terms {
			idx := -1
			for i := range merged {
				if unitMapsEqual(merged[i].Units, t.Units) {
					idx = i
					break
				}
			}
			if idx >= 0 {
				merged[idx].Coefficient.Add(merged[idx].Coefficient, t.Coefficient)
			} else {
				merged = append(merged, Term{
					Coefficient: new(big.Rat).Set(t.Coefficient),
					Units:       t.Units.clone(),
				})
			}
		}
	}
	// every merged term must still carry a well-formed type
	var typ NumericType
	for i, t := range merged {
		tt, err := typeOfUnitMap(t.Units)
		if err != nil {
			return nil, false
		}
		if i == 0 {
			typ = tt
			continue
		}
		typ, err = MultiplyTypes(typ, tt)
		if err != nil {
			return nil, false
		}
	}
	return merged, true
}

func (v *MathSum) writeTo(b *strings.Builder, f css.Format, nested, parenLess bool) {
	openMath(b, nested, parenLess)
	for i, value := range v.values {
		if i == 0 {
			value.writeTo(b, f, true, parenLess)
			continue
		}
		if neg, ok := value.(*MathNegate); ok {
			b.WriteString(" - ")
			neg.value.writeTo(b, f, true, parenLess)
			continue
		}
		b.WriteString(" + ")
		value.writeTo(b, f, true, parenLess)
	}
	closeMath(b, parenLess)
}

func (v *MathSum) Serialize(f css.Format) string { return serializeNumeric(v, v.raw, f) }
func (v *MathSum) String() string                { return v.Serialize(css.DefaultFormat) }
func (v *MathSum) styleValue()                   {}

// MathProduct is the product of its operands.
type MathProduct struct {
	values []Numeric
	typ    NumericType
	raw    string
}

// NewProduct builds a product node. The operand types compose by adding
// exponents.
func NewProduct(values ...Numeric) (*MathProduct, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: product needs at least one operand", css.ErrValue)
	}
	typ := values[0].Type()
	var err error
	for _, v := range values[1:] {
		typ, err = MultiplyTypes(typ, v.Type())
		if err != nil {
			return nil, err
		}
	}
	return &MathProduct{values: cloneValues(values), typ: typ}, nil
}

func (v *MathProduct) Values() []Numeric { return cloneValues(v.values) }
func (v *MathProduct) Type() NumericType { return v.typ }
func (v *MathProduct) Equals(o Numeric) bool {
	p, ok := o.(*MathProduct)
	return ok && valuesEqual(v.values, p.values)
}

func (v *MathProduct) sumTerms() ([]Term, bool) {
	out := []Term{{Coefficient: big.NewRat(1, 1), Units: UnitMap{}}}
	for _, value := range v.values {
		terms, ok := value.sumTerms()
		if !ok {
			return nil, false
		}
		next := make([]Term, 0, len(out)*len(terms))
		for _, a := range out {
			for _, b := range terms {
				units := a.Units.clone()
				for unit, power := range b.Units {
					if p := units[unit] + power; p == 0 {
						delete(units, unit)
					} else {
						units[unit] = p
					}
				}
				next = append(next, Term{
					Coefficient: new(big.Rat).Mul(a.Coefficient, b.Coefficient),
					Units:       units,
				})
			}
		}
		out = next
	}
	return out, true
}

func (v *MathProduct) writeTo(b *strings.Builder, f css.Format, nested, parenLess bool) {
	openMath(b, nested, parenLess)
	for i, value := range v.values {
		if i == 0 {
			value.writeTo(b, f, true, parenLess)
			continue
		}
		if inv, ok := value.(*MathInvert); ok {
			b.WriteString(" / ")
			inv.value.writeTo(b, f, true, parenLess)
			continue
		}
		b.WriteString(" * ")
		value.writeTo(b, f, true, parenLess)
	}
	closeMath(b, parenLess)
}

func (v *MathProduct) Serialize(f css.Format) string { return serializeNumeric(v, v.raw, f) }
func (v *MathProduct) String() string                { return v.Serialize(css.DefaultFormat) }
func (v *MathProduct) styleValue()                   {}

// MathNegate negates its operand.
type MathNegate struct {
	value Numeric
	typ   NumericType
	raw   string
}

func NewNegate(value Numeric) *MathNegate {
	return &MathNegate{value: value, typ: value.Type()}
}

func (v *MathNegate) Value() Numeric    { return v.value }
func (v *MathNegate) Type() NumericType { return v.typ }

// Equals on negation nodes is always false, matching the serialization
// model where negation only exists inside a sum.
func (v *MathNegate) Equals(o Numeric) bool { return false }

func (v *MathNegate) sumTerms() ([]Term, bool) {
	terms, ok := v.value.sumTerms()
	if !ok {
		return nil, false
	}
	for i := range terms {
		terms[i].Coefficient.Neg(terms[i].Coefficient)
	}
	return terms, true
}

func (v *MathNegate) writeTo(b *strings.Builder, f css.Format, nested, parenLess bool) {
	openMath(b, nested, parenLess)
	b.WriteByte('-')
	v.value.writeTo(b, f, nested, parenLess)
	closeMath(b, parenLess)
}

func (v *MathNegate) Serialize(f css.Format) string { return serializeNumeric(v, v.raw, f) }
func (v *MathNegate) String() string                { return v.Serialize(css.DefaultFormat) }
func (v *MathNegate) styleValue()                   {}

// MathInvert is the reciprocal of its operand.
type MathInvert struct {
	value Numeric
	typ   NumericType
	raw   string
}

func NewInvert(value Numeric) *MathInvert {
	return &MathInvert{value: value, typ: invertType(value.Type())}
}

func (v *MathInvert) Value() Numeric        { return v.value }
func (v *MathInvert) Type() NumericType     { return v.typ }
func (v *MathInvert) Equals(o Numeric) bool { return false }

func (v *MathInvert) sumTerms() ([]Term, bool) {
	terms, ok := v.value.sumTerms()
	if !ok || len(terms) != 1 {
		return nil, false
	}
	t := terms[0]
	if t.Coefficient.Sign() != 0 {
		t.Coefficient.Inv(t.Coefficient)
	}
	units := UnitMap{}
	for unit, power := range t.Units {
		units[unit] = -power
	}
	return []Term{{Coefficient: t.Coefficient, Units: units}}, true
}

func (v *MathInvert) writeTo(b *strings.Builder, f css.Format, nested, parenLess bool) {
	openMath(b, nested, parenLess)
	b.WriteString("1 / ")
	v.value.writeTo(b, f, nested, parenLess)
	closeMath(b, parenLess)
}

func (v *MathInvert) Serialize(f css.Format) string { return serializeNumeric(v, v.raw, f) }
func (v *MathInvert) String() string                { return v.Serialize(css.DefaultFormat) }
func (v *MathInvert) styleValue()                   {}

// MathMin is the minimum of its operands.
type MathMin struct {
	values []Numeric
	typ    NumericType
	raw    string
}

// NewMin builds a min node. The operand types must combine under
// addition.
func NewMin(values ...Numeric) (*MathMin, error) {
	typ, err := foldAddTypes("min", values)
	if err != nil {
		return nil, err
	}
	return &MathMin{values: cloneValues(values), typ: typ}, nil
}

func (v *MathMin) Values() []Numeric { return cloneValues(v.values) }
func (v *MathMin) Type() NumericType { return v.typ }
func (v *MathMin) Equals(o Numeric) bool {
	m, ok := o.(*MathMin)
	return ok && valuesEqual(v.values, m.values)
}

func (v *MathMin) sumTerms() ([]Term, bool) {
	return foldComparisonTerms(v.values, func(best, next *big.Rat) bool {
		return next.Cmp(best) < 0
	})
}

func (v *MathMin) writeTo(b *strings.Builder, f css.Format, nested, parenLess bool) {
	writeVariadic(b, f, "min(", v.values)
}

func (v *MathMin) Serialize(f css.Format) string { return serializeNumeric(v, v.raw, f) }
func (v *MathMin) String() string                { return v.Serialize(css.DefaultFormat) }
func (v *MathMin) styleValue()                   {}

// MathMax is the maximum of its operands.
type MathMax struct {
	values []Numeric
	typ    NumericType
	raw    string
}

// NewMax builds a max node. The operand types must combine under
// addition.
func NewMax(values ...Numeric) (*MathMax, error) {
	typ, err := foldAddTypes("max", values)
	if err != nil {
		return nil, err
	}
	return &MathMax{values: cloneValues(values), typ: typ}, nil
}

func (v *MathMax) Values() []Numeric { return cloneValues(v.values) }
func (v *MathMax) Type() NumericType { return v.typ }
func (v *MathMax) Equals(o Numeric) bool {
	m, ok := o.(*MathMax)
	return ok && valuesEqual(v.values, m.values)
}

func (v *MathMax) sumTerms() ([]Term, bool) {
	return foldComparisonTerms(v.values, func(best, next *big.Rat) bool {
		return next.Cmp(best) > 0
	})
}

func (v *MathMax) writeTo(b *strings.Builder, f css.Format, nested, parenLess bool) {
	writeVariadic(b, f, "max(", v.values)
}

func (v *MathMax) Serialize(f css.Format) string { return serializeNumeric(v, v.raw, f) }
func (v *MathMax) String() string                { return v.Serialize(css.DefaultFormat) }
func (v *MathMax) styleValue()                   {}

// MathClamp clamps its center operand between a lower and upper bound.
type MathClamp struct {
	lower  Numeric
	center Numeric
	upper  Numeric
	typ    NumericType
	raw    string
}

// NewClamp builds a clamp node. The three operand types must combine
// under addition.
func NewClamp(lower, center, upper Numeric) (*MathClamp, error) {
	typ, err := foldAddTypes("clamp", []Numeric{lower, center, upper})
	if err != nil {
		return nil, err
	}
	return &MathClamp{lower: lower, center: center, upper: upper, typ: typ}, nil
}

func (v *MathClamp) Lower() Numeric        { return v.lower }
func (v *MathClamp) Center() Numeric       { return v.center }
func (v *MathClamp) Upper() Numeric        { return v.upper }
func (v *MathClamp) Type() NumericType     { return v.typ }
func (v *MathClamp) Equals(o Numeric) bool { return false }

// Clamp nodes have no canonical sum form.
func (v *MathClamp) sumTerms() ([]Term, bool) { return nil, false }

func (v *MathClamp) writeTo(b *strings.Builder, f css.Format, nested, parenLess bool) {
	b.WriteString("clamp(")
	v.lower.writeTo(b, f, nested, parenLess)
	b.WriteString(", ")
	v.center.writeTo(b, f, nested, parenLess)
	b.WriteString(", ")
	v.upper.writeTo(b, f, nested, parenLess)
	b.WriteByte(')')
}

func (v *MathClamp) Serialize(f css.Format) string { return serializeNumeric(v, v.raw, f) }
func (v *MathClamp) String() string                { return v.Serialize(css.DefaultFormat) }
func (v *MathClamp) styleValue()                   {}

func cloneValues(values []Numeric) []Numeric {
	out := make([]Numeric, len(values))
	copy(out, values)
	return out
}

func valuesEqual(a, b []Numeric) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

func foldAddTypes(op string, values []Numeric) (NumericType, error) {
	if len(values) == 0 {
		return NumericType{}, fmt.Errorf("%w: %s needs at least one operand", css.ErrValue, op)
	}
	typ := values[0].Type()
	var err error
	for _, v := range values[1:] {
		typ, err = AddTypes(typ, v.Type())
		if err != nil {
			return NumericType{}, err
		}
	}
	return typ, nil
}

// foldComparisonTerms reduces min/max operands: every operand must
// reduce to a single term and all terms must share one unit map.
func foldComparisonTerms(values []Numeric, better func(best, next *big.Rat) bool) ([]Term, bool) {
	var best Term
	for i, value := range values {
		terms, ok := value.sumTerms()
		if !ok || len(terms) != 1 {
			return nil, false
		}
		t := terms[0]
		if i == 0 {
			best = t
			continue
		}
		if !unitMapsEqual(best.Units, t.Units) {
			return nil, false
		}
		if better(best.Coefficient, t.Coefficient) {
			best = t
		}
	}
	return []Term{best}, true
}

func openMath(b *strings.Builder, nested, parenLess bool) {
	if parenLess {
		return
	}
	if nested {
		b.WriteByte('(')
		return
	}
	b.WriteString("calc(")
}

func closeMath(b *strings.Builder, parenLess bool) {
	if !parenLess {
		b.WriteByte(')')
	}
}

func writeVariadic(b *strings.Builder, f css.Format, open string, values []Numeric) {
	b.WriteString(open)
	for i, value := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		value.writeTo(b, f, true, true)
	}
	b.WriteByte(')')
}

func serializeNumeric(n Numeric, raw string, f css.Format) string {
	if raw != "" {
		return raw
	}
	var b strings.Builder
	n.writeTo(&b, f, false, false)
	return b.String()
}

// To reduces any numeric value to a single unit value in the requested
// unit. The value must collapse to one term convertible into that unit.
func To(n Numeric, unit string) (*UnitValue, error) {
	u, err := LookupUnit(unit)
	if err != nil {
		return nil, err
	}
	terms, ok := n.sumTerms()
	if !ok || len(terms) != 1 {
		return nil, fmt.Errorf("%w: value does not reduce to a single unit",
			css.ErrConversion)
	}
	value, err := unitValueFromTerm(terms[0])
	if err != nil {
		return nil, err
	}
	return value.To(u)
}

// ToSum rewrites any numeric value as a flat sum of unit values. With
// explicit target units each term is converted into the first target of
// its family, and every term must be consumed. Without targets the terms
// are sorted by unit name.
func ToSum(n Numeric, units ...string) (*MathSum, error) {
	targets := make([]string, len(units))
	for i, unit := range units {
		u, err := LookupUnit(unit)
		if err != nil {
			return nil, err
		}
		targets[i] = u
	}
	terms, ok := n.sumTerms()
	if !ok {
		return nil, fmt.Errorf("%w: value has no sum form", css.ErrConversion)
	}
	values := make([]*UnitValue, 0, len(terms))
	for _, t := range terms {
		value, err := unitValueFromTerm(t)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	if len(targets) == 0 {
		sort.SliceStable(values, func(i, j int) bool {
			return values[i].unit < values[j].unit
		})
		return newSumOfUnits(values)
	}
	// Each target contributes a term even when no source term matches it.
	out := make([]*UnitValue, 0, len(targets))
	for _, target := range targets {
		total := new(big.Rat)
		for i, value := range values {
			if !sameFamily(value.unit, target) {
				continue
			}
			converted, err := value.To(target)
			if err != nil {
				return nil, err
			}
			total.Add(total, converted.value)
			values = append(values[:i], values[i+1:]...)
			break
		}
		out = append(out, &UnitValue{value: total, unit: target})
	}
	if len(values) > 0 {
		left := make([]string, len(values))
		for i, v := range values {
			left[i] = v.unit
		}
		return nil, fmt.Errorf("%w: units %v not covered by target units",
			css.ErrConversion, left)
	}
	return newSumOfUnits(out)
}

// Add sums a value with further values. A sum receiver contributes its
// operands rather than nesting. Unit values sharing one unit fold into
// a single unit value; anything else becomes a sum, whose construction
// checks type compatibility.
func Add(a Numeric, values ...Numeric) (Numeric, error) {
	var operands []Numeric
	if sum, ok := a.(*MathSum); ok {
		operands = append(sum.Values(), values...)
	} else {
		operands = append([]Numeric{a}, values...)
	}
	if folded, ok := foldSameUnit(operands); ok {
		return folded, nil
	}
	return NewSum(operands...)
}

func foldSameUnit(operands []Numeric) (*UnitValue, bool) {
	var unit string
	total := new(big.Rat)
	for i, v := range operands {
		u, ok := v.(*UnitValue)
		if !ok {
			return nil, false
		}
		if i == 0 {
			unit = u.unit
		} else if u.unit != unit {
			return nil, false
		}
		total.Add(total, u.value)
	}
	return &UnitValue{value: total, unit: unit}, true
}

// Sub subtracts further values from a value. Subtraction is addition of
// negated operands: unit values negate in place so the same-unit fold
// still applies, anything else wraps in a negate node.
func Sub(a Numeric, values ...Numeric) (Numeric, error) {
	negated := make([]Numeric, len(values))
	for i, v := range values {
		if u, ok := v.(*UnitValue); ok {
			negated[i] = &UnitValue{value: new(big.Rat).Neg(u.value), unit: u.unit}
			continue
		}
		negated[i] = NewNegate(v)
	}
	return Add(a, negated...)
}

// Mul multiplies a value with further values. A product receiver
// contributes its operands rather than nesting. Unit values with at
// most one carried unit fold into a single unit value; anything else
// becomes a product, whose construction checks type compatibility.
func Mul(a Numeric, values ...Numeric) (Numeric, error) {
	var operands []Numeric
	if prod, ok := a.(*MathProduct); ok {
		operands = append(prod.Values(), values...)
	} else {
		operands = append([]Numeric{a}, values...)
	}
	if folded, ok := foldScale(operands); ok {
		return folded, nil
	}
	return NewProduct(operands...)
}

func foldScale(operands []Numeric) (*UnitValue, bool) {
	unit := UnitNumber
	total := big.NewRat(1, 1)
	for _, v := range operands {
		u, ok := v.(*UnitValue)
		if !ok {
			return nil, false
		}
		if u.unit != UnitNumber {
			if unit != UnitNumber {
				return nil, false
			}
			unit = u.unit
		}
		total.Mul(total, u.value)
	}
	return &UnitValue{value: total, unit: unit}, true
}

// Div divides a value by further values. Division is multiplication by
// inverted operands: plain numbers invert in place, anything else wraps
// in an invert node. A zero unit-value divisor fails outright.
func Div(a Numeric, values ...Numeric) (Numeric, error) {
	inverted := make([]Numeric, len(values))
	for i, v := range values {
		if u, ok := v.(*UnitValue); ok {
			if u.value.Sign() == 0 {
				return nil, fmt.Errorf("%w: division by zero", css.ErrValue)
			}
			if u.unit == UnitNumber {
				inverted[i] = &UnitValue{value: new(big.Rat).Inv(u.value), unit: UnitNumber}
				continue
			}
		}
		inverted[i] = NewInvert(v)
	}
	return Mul(a, inverted...)
}

// MinOf picks the smallest of the values. Unit values sharing one unit
// fold to a single unit value; anything else becomes a min node.
func MinOf(values ...Numeric) (Numeric, error) {
	if folded, ok := foldExtremum(values, func(best, next *big.Rat) bool {
		return next.Cmp(best) < 0
	}); ok {
		return folded, nil
	}
	return NewMin(values...)
}

// MaxOf picks the largest of the values. Unit values sharing one unit
// fold to a single unit value; anything else becomes a max node.
func MaxOf(values ...Numeric) (Numeric, error) {
	if folded, ok := foldExtremum(values, func(best, next *big.Rat) bool {
		return next.Cmp(best) > 0
	}); ok {
		return folded, nil
	}
	return NewMax(values...)
}

func foldExtremum(operands []Numeric, better func(best, next *big.Rat) bool) (*UnitValue, bool) {
	if len(operands) == 0 {
		return nil, false
	}
	var unit string
	var best *big.Rat
	for i, v := range operands {
		u, ok := v.(*UnitValue)
		if !ok {
			return nil, false
		}
		if i == 0 {
			unit = u.unit
			best = u.value
			continue
		}
		if u.unit != unit {
			return nil, false
		}
		if better(best, u.value) {
			best = u.value
		}
	}
	return &UnitValue{value: new(big.Rat).Set(best), unit: unit}, true
}

func newSumOfUnits(values []*UnitValue) (*MathSum, error) {
	out := make([]Numeric, len(values))
	for i, v := range values {
		out[i] = v
	}
	return NewSum(out...)
}

func sameFamily(a, b string) bool {
	if a == b {
		return true
	}
	ca, okA := CanonicalUnit(a)
	cb, okB := CanonicalUnit(b)
	return okA && okB && ca == cb
}

// unitValueFromTerm turns one canonical term back into a unit value.
// The term must be a plain number or a single unit to the first power.
func unitValueFromTerm(t Term) (*UnitValue, error) {
	switch len(t.Units) {
	case 0:
		return &UnitValue{value: new(big.Rat).Set(t.Coefficient), unit: UnitNumber}, nil
	case 1:
		for unit, power := range t.Units {
			if power != 1 {
				return nil, fmt.Errorf("%w: unit %q has power %d",
					css.ErrConversion, unit, power)
			}
			return &UnitValue{value: new(big.Rat).Set(t.Coefficient), unit: unit}, nil
		}
	}
	return nil, fmt.Errorf("%w: term mixes %d units", css.ErrConversion, len(t.Units))
}
