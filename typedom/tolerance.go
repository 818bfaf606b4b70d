package typedom

import "math/big"

// Tolerance controls approximate numeric comparison. Two values compare
// equal when their difference is within the relative tolerance scaled by
// the larger magnitude, or within the absolute tolerance near zero.
type Tolerance struct {
	Rel float64
	Abs float64
}

// DefaultTolerance is used wherever a comparison site does not supply
// its own.
var DefaultTolerance = Tolerance{Rel: 1e-9, Abs: 1e-9}

func (tol Tolerance) norm() (rel, abs float64) {
	rel, abs = tol.Rel, tol.Abs
	if rel < 0 {
		rel = 0
	}
	if abs < 0 {
		abs = 0
	}
	return rel, abs
}

// Close reports whether a and b are equal within the tolerance.
func (tol Tolerance) Close(a, b float64) bool {
	rel, abs := tol.norm()
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	am, bm := a, b
	if am < 0 {
		am = -am
	}
	if bm < 0 {
		bm = -bm
	}
	bound := rel * am
	if m := rel * bm; m > bound {
		bound = m
	}
	if abs > bound {
		bound = abs
	}
	return diff <= bound
}

// Compare orders a and b, treating values within the tolerance as equal.
func (tol Tolerance) Compare(a, b float64) int {
	if tol.Close(a, b) {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

// CloseRat reports whether two rationals are equal within the tolerance.
func (tol Tolerance) CloseRat(a, b *big.Rat) bool {
	rel, abs := tol.norm()
	diff := new(big.Rat).Sub(a, b)
	diff.Abs(diff)
	am := new(big.Rat).Abs(a)
	bm := new(big.Rat).Abs(b)
	if am.Cmp(bm) < 0 {
		am = bm
	}
	bound := new(big.Rat).Mul(new(big.Rat).SetFloat64(rel), am)
	if absRat := new(big.Rat).SetFloat64(abs); absRat.Cmp(bound) > 0 {
		bound = absRat
	}
	return diff.Cmp(bound) <= 0
}

// CompareRat orders two rationals, treating values within the tolerance
// as equal.
func (tol Tolerance) CompareRat(a, b *big.Rat) int {
	if tol.CloseRat(a, b) {
		return 0
	}
	return a.Cmp(b)
}
