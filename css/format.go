package css

import (
	"math/big"
	"strconv"
	"strings"
)

// Format controls number serialization. The zero value is not useful, use
// DefaultFormat or construct one with the wanted precision.
type Format struct {
	// Precision is the number of fractional digits printed before trailing
	// zeros are stripped.
	Precision int
}

// DefaultFormat matches the engine-wide serialization defaults.
var DefaultFormat = Format{Precision: 6}

// Float serializes a float64 with fixed precision, then strips trailing
// zeros and a trailing decimal point. Negative zero prints as "0".
func (f Format) Float(v float64) string {
	return clean(strconv.FormatFloat(v, 'f', f.Precision, 64))
}

// Rat serializes a rational with fixed precision, then strips trailing
// zeros and a trailing decimal point. Negative zero prints as "0".
func (f Format) Rat(r *big.Rat) string {
	return clean(r.FloatString(f.Precision))
}

func clean(s string) string {
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}
