package typedom

import (
	"fmt"
	"strings"

	"cssval/css"
)

// NumericType records the exponent of every base dimension a numeric
// value carries, plus an optional percent hint naming the dimension its
// percent component resolves against. The zero value is the type of a
// plain number.
type NumericType struct {
	exps    [numDims]int8
	hint    Dim
	hasHint bool
}

// TypeOfUnit returns the numeric type of a single unit: exponent one in
// the unit's dimension, all zero for a plain number.
func TypeOfUnit(unit string) (NumericType, error) {
	u, err := LookupUnit(unit)
	if err != nil {
		return NumericType{}, err
	}
	var t NumericType
	info := unitTable[u]
	if !info.dimless {
		t.exps[info.dim] = 1
	}
	return t, nil
}

// Exponent returns the exponent recorded for a dimension.
func (t NumericType) Exponent(d Dim) int {
	if d < 0 || int(d) >= numDims {
		return 0
	}
	return int(t.exps[d])
}

// PercentHint returns the dimension percent components resolve against,
// when one has been established.
func (t NumericType) PercentHint() (Dim, bool) {
	return t.hint, t.hasHint
}

// IsEmpty reports whether no dimension carries a nonzero exponent.
func (t NumericType) IsEmpty() bool {
	return t.exps == [numDims]int8{}
}

// Is reports whether the type is exactly the given dimension to the
// first power with every other exponent zero. Percent components folded
// into the dimension by a hint still qualify.
func (t NumericType) Is(d Dim) bool {
	var want [numDims]int8
	if d < 0 || int(d) >= numDims {
		return false
	}
	want[d] = 1
	return t.exps == want
}

func (t NumericType) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for d := 0; d < numDims; d++ {
		if t.exps[d] == 0 {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s:%d", Dim(d), t.exps[d])
	}
	if t.hasHint {
		if !first {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "hint:%s", t.hint)
	}
	b.WriteByte('}')
	return b.String()
}

// applyPercentHint folds the percent exponent into the named dimension
// and records the hint.
func (t NumericType) applyPercentHint(d Dim) NumericType {
	t.exps[d] += t.exps[DimPercent]
	t.exps[DimPercent] = 0
	t.hint = d
	t.hasHint = true
	return t
}

// reconcileHints makes two types agree on a percent hint before they
// are combined. Differing established hints cannot be reconciled.
func reconcileHints(a, b NumericType) (NumericType, NumericType, error) {
	switch {
	case a.hasHint && b.hasHint:
		if a.hint != b.hint {
			return a, b, fmt.Errorf("%w: percent hints %s and %s differ",
				css.ErrIncompatibleNumericType, a.hint, b.hint)
		}
	case a.hasHint:
		b = b.applyPercentHint(a.hint)
	case b.hasHint:
		a = a.applyPercentHint(b.hint)
	}
	return a, b, nil
}

func (t NumericType) hasBaseDim() bool {
	for d := 0; d < numDims; d++ {
		if Dim(d) != DimPercent && t.exps[d] != 0 {
			return true
		}
	}
	return false
}

// baseDimsEqual compares every dimension except percent.
func baseDimsEqual(a, b NumericType) bool {
	for d := 0; d < numDims; d++ {
		if Dim(d) != DimPercent && a.exps[d] != b.exps[d] {
			return false
		}
	}
	return true
}

// AddTypes combines the types of two values joined by addition. Both
// sides must end up with identical base-dimension exponents; a percent
// component may be folded into a differing base dimension, which
// establishes the percent hint of the result.
func AddTypes(a, b NumericType) (NumericType, error) {
	a, b, err := reconcileHints(a, b)
	if err != nil {
		return NumericType{}, err
	}
	if baseDimsEqual(a, b) {
		out := a
		if out.exps[DimPercent] == 0 {
			out.exps[DimPercent] = b.exps[DimPercent]
		}
		return out, nil
	}
	if (a.exps[DimPercent] != 0 || b.exps[DimPercent] != 0) &&
		(a.hasBaseDim() || b.hasBaseDim()) {
		for d := 0; d < numDims; d++ {
			if Dim(d) == DimPercent {
				continue
			}
			if a.exps[d] != b.exps[d] {
				a = a.applyPercentHint(Dim(d))
				b = b.applyPercentHint(Dim(d))
				if a.exps[d] != b.exps[d] {
					return NumericType{}, fmt.Errorf(
						"%w: exponents differ in %s", css.ErrIncompatibleNumericType, Dim(d))
				}
			}
		}
		return a, nil
	}
	return NumericType{}, fmt.Errorf("%w: cannot add %s and %s",
		css.ErrIncompatibleNumericType, a, b)
}

// MultiplyTypes combines the types of two multiplied values by adding
// the exponents of every dimension.
func MultiplyTypes(a, b NumericType) (NumericType, error) {
	a, b, err := reconcileHints(a, b)
	if err != nil {
		return NumericType{}, err
	}
	out := a
	for d := 0; d < numDims; d++ {
		out.exps[d] = a.exps[d] + b.exps[d]
	}
	return out, nil
}

// invertType negates every exponent, preserving the percent hint.
func invertType(t NumericType) NumericType {
	for d := 0; d < numDims; d++ {
		t.exps[d] = -t.exps[d]
	}
	return t
}

// typeOfUnitMap computes the type of a product of units raised to
// integer powers, as found in a canonical sum term.
func typeOfUnitMap(m UnitMap) (NumericType, error) {
	var out NumericType
	for unit, power := range m {
		t, err := TypeOfUnit(unit)
		if err != nil {
			return NumericType{}, err
		}
		for d := 0; d < numDims; d++ {
			if t.exps[d] != 0 {
				t.exps[d] = int8(power)
			}
		}
		out, err = MultiplyTypes(out, t)
		if err != nil {
			return NumericType{}, err
		}
	}
	return out, nil
}
