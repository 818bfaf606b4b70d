// Package typedom implements the typed CSS value model: unit values,
// math-expression trees with dimensional type checking, canonical
// sum-of-units decomposition, unit conversion, and reification of raw
// property value text into typed values.
package typedom

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"cssval/css"
)

// Dim is a base dimension a unit's exponent is recorded under.
type Dim int

const (
	DimLength Dim = iota
	DimAngle
	DimTime
	DimFrequency
	DimResolution
	DimFlex
	DimPercent

	numDims = int(DimPercent) + 1
)

var dimNames = [numDims]string{
	"length", "angle", "time", "frequency", "resolution", "flex", "percent",
}

func (d Dim) String() string {
	if d < 0 || int(d) >= numDims {
		return fmt.Sprintf("dim(%d)", int(d))
	}
	return dimNames[d]
}

// Unit name constants for the dimensionless entries. All other units are
// spelled by their CSS suffix ("px", "deg", ...).
const (
	UnitNumber  = ""
	UnitPercent = "%"
)

type unitInfo struct {
	dim       Dim
	dimless   bool // plain number
	canonical string
	// ratio converts one of this unit into the canonical unit.
	ratio *big.Rat
}

var one = big.NewRat(1, 1)

// radRatio approximates 180/pi. The ratio itself is irrational so the
// closest float64 is used.
var radRatio = new(big.Rat).SetFloat64(180 / math.Pi)

// unitTable is the closed set of recognized units. Lookup is
// case-insensitive. Units with no canonical entry (font-relative and
// viewport-relative lengths, percent, flex) convert only to themselves.
var unitTable = map[string]unitInfo{
	UnitNumber:  {dimless: true, canonical: UnitNumber, ratio: one},
	UnitPercent: {dim: DimPercent},

	// absolute lengths, canonical px
	"px": {dim: DimLength, canonical: "px", ratio: one},
	"in": {dim: DimLength, canonical: "px", ratio: big.NewRat(96, 1)},
	"cm": {dim: DimLength, canonical: "px", ratio: big.NewRat(4800, 127)},
	"mm": {dim: DimLength, canonical: "px", ratio: big.NewRat(480, 127)},
	"q":  {dim: DimLength, canonical: "px", ratio: big.NewRat(120, 127)},
	"pt": {dim: DimLength, canonical: "px", ratio: big.NewRat(4, 3)},
	"pc": {dim: DimLength, canonical: "px", ratio: big.NewRat(16, 1)},

	// context-relative lengths
	"em":   {dim: DimLength},
	"ex":   {dim: DimLength},
	"ch":   {dim: DimLength},
	"ic":   {dim: DimLength},
	"rem":  {dim: DimLength},
	"cap":  {dim: DimLength},
	"vw":   {dim: DimLength},
	"vh":   {dim: DimLength},
	"vmin": {dim: DimLength},
	"vmax": {dim: DimLength},

	// angles, canonical deg
	"deg":  {dim: DimAngle, canonical: "deg", ratio: one},
	"grad": {dim: DimAngle, canonical: "deg", ratio: big.NewRat(9, 10)},
	"rad":  {dim: DimAngle, canonical: "deg", ratio: radRatio},
	"turn": {dim: DimAngle, canonical: "deg", ratio: big.NewRat(360, 1)},

	// time, canonical ms
	"ms": {dim: DimTime, canonical: "ms", ratio: one},
	"s":  {dim: DimTime, canonical: "ms", ratio: big.NewRat(1000, 1)},

	// frequency, canonical hz
	"hz":  {dim: DimFrequency, canonical: "hz", ratio: one},
	"khz": {dim: DimFrequency, canonical: "hz", ratio: big.NewRat(1000, 1)},

	// resolution, canonical dppx
	"dppx": {dim: DimResolution, canonical: "dppx", ratio: one},
	"dpi":  {dim: DimResolution, canonical: "dppx", ratio: big.NewRat(1, 96)},
	"dpcm": {dim: DimResolution, canonical: "dppx", ratio: big.NewRat(127, 4800)},

	// flex
	"fr": {dim: DimFlex},
}

// LookupUnit normalizes a unit string against the fixed unit table and
// returns its table spelling. "number" and "percent" are accepted as
// aliases of "" and "%". Unknown units return css.ErrUnknownUnit.
func LookupUnit(unit string) (string, error) {
	u := strings.ToLower(strings.TrimSpace(unit))
	switch u {
	case "number":
		u = UnitNumber
	case "percent":
		u = UnitPercent
	}
	if _, ok := unitTable[u]; !ok {
		return "", fmt.Errorf("%w: %q", css.ErrUnknownUnit, unit)
	}
	return u, nil
}

// CanonicalUnit returns the reference unit a unit's family converts to
// for comparison, or false when the unit has no convertible family
// (context-relative lengths, percent and flex).
func CanonicalUnit(unit string) (string, bool) {
	info, ok := unitTable[unit]
	if !ok || info.ratio == nil {
		return "", false
	}
	return info.canonical, true
}

// conversionRatio returns the exact multiplier into the unit's canonical
// unit, or nil when the unit has no canonical family.
func conversionRatio(unit string) *big.Rat {
	return unitTable[unit].ratio
}

// IsLengthUnit reports whether the unit carries the length dimension.
func IsLengthUnit(unit string) bool {
	info, ok := unitTable[unit]
	return ok && !info.dimless && info.dim == DimLength
}

// IsAbsoluteLengthUnit reports whether the unit is an absolute length
// convertible to px without a context.
func IsAbsoluteLengthUnit(unit string) bool {
	info, ok := unitTable[unit]
	return ok && !info.dimless && info.dim == DimLength && info.ratio != nil
}

// IsResolutionUnit reports whether the unit belongs to the resolution
// family. Resolution units never convert to other families.
func IsResolutionUnit(unit string) bool {
	info, ok := unitTable[unit]
	return ok && !info.dimless && info.dim == DimResolution
}
