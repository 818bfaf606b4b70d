package resolve

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"cssval/css"
)

const (
	fontSizeTableMin = 9
	fontSizeTableMax = 16
	minimumFontSize  = 10
)

// Absolute font-size keywords: a column into the quirks table and a
// scale factor for medium sizes outside the table range.
var absoluteFontSizeMap = map[string]struct {
	column int
	scale  float64
}{
	"xx-small": {0, 3.0 / 5},
	"x-small":  {1, 3.0 / 4},
	"small":    {2, 8.0 / 9},
	"medium":   {3, 1},
	"large":    {4, 6.0 / 5},
	"x-large":  {5, 3.0 / 2},
	"xx-large": {6, 2},
}

// Rows indexed by the medium font size, 9px through 16px; columns by
// the absolute-size keywords xx-small through xx-large.
var quirksFontSizeTable = [8][8]int{
	{9, 9, 9, 9, 11, 14, 18, 28},
	{9, 9, 9, 10, 11, 14, 18, 31},
	{9, 9, 9, 11, 13, 17, 22, 34},
	{9, 9, 10, 12, 14, 18, 24, 37},
	{9, 9, 10, 13, 16, 20, 26, 40},
	{9, 9, 11, 14, 17, 21, 28, 42},
	{9, 10, 12, 15, 17, 23, 30, 45},
	{9, 10, 13, 16, 18, 24, 32, 48}, // proportional font default (16px)
}

var fontWeightMap = map[string]float64{
	"normal": 400,
	"bold":   700,
}

var (
	inheritedWeightList = []float64{100, 200, 300, 400, 500, 600, 700, 800, 900}
	bolderWeightList    = []float64{400, 400, 400, 700, 700, 900, 900, 900, 900}
	lighterWeightList   = []float64{100, 100, 100, 100, 100, 400, 400, 700, 700}
)

// ComputeFontSize resolves the inherited font-size of ctx to pixels:
// absolute-size keywords through the quirks table, larger and smaller
// by rescaling along the ancestor chain, lengths and percentages
// through a context-bound Length. The result never goes below the
// 10px minimum.
func ComputeFontSize(ctx Context) (float64, error) {
	return computeFontSize(ctx, DefaultFontSize, "")
}

// computeFontSize resolves one element's font-size. override, when
// non-empty, substitutes the inherited value; inherited carries the
// size accumulated so far by a larger or smaller walk.
func computeFontSize(ctx Context, inherited float64, override string) (float64, error) {
	value := override
	if value == "" {
		if v, ok := inheritedValue(ctx, "font-size"); ok {
			value = v
		} else {
			value = "medium"
		}
	}

	var px float64
	if e, ok := absoluteFontSizeMap[value]; ok {
		medium := float64(DefaultFontSize)
		if row := DefaultFontSize - fontSizeTableMin; 0 <= row && row < len(quirksFontSizeTable) {
			px = float64(quirksFontSizeTable[row][e.column])
		} else {
			px = e.scale * medium
		}
	} else if value == "larger" || value == "smaller" {
		// Walk root-down, rescaling for keyword ancestors and
		// recomputing from scratch at ancestors that pin a size.
		chain, err := ancestorChain(ctx)
		if err != nil {
			return 0, err
		}
		for _, parent := range chain {
			v, ok := styleValue(parent, "font-size")
			if !ok {
				continue
			}
			if v == "larger" || v == "smaller" {
				if value == "larger" {
					inherited *= 1.2
				} else {
					inherited /= 1.2
				}
			} else if inherited, err = computeFontSize(parent, inherited, v); err != nil {
				return 0, err
			}
		}
		px = inherited
	} else {
		length, err := Parse(value)
		if err != nil {
			return 0, err
		}
		if px, err = length.WithContext(ctx).Value(UnitPx); err != nil {
			return 0, err
		}
	}

	if px < minimumFontSize {
		px = minimumFontSize
	}
	return px, nil
}

// ComputeFontWeight resolves the inherited font-weight of ctx: the
// normal and bold keywords, numeric weights, and bolder and lighter
// through the weight mapping tables along the ancestor chain.
func ComputeFontWeight(ctx Context) (int, error) {
	w, err := computeFontWeight(ctx, DefaultFontWeight, "")
	if err != nil {
		return 0, err
	}
	return int(w), nil
}

func computeFontWeight(ctx Context, inherited float64, override string) (float64, error) {
	value := override
	if value == "" {
		if v, ok := inheritedValue(ctx, "font-weight"); ok {
			value = v
		} else {
			value = "normal"
		}
	}

	if value == "bolder" || value == "lighter" {
		chain, err := ancestorChain(ctx)
		if err != nil {
			return 0, err
		}
		for _, parent := range chain {
			v, ok := styleValue(parent, "font-weight")
			if !ok {
				continue
			}
			switch v {
			case "bolder":
				inherited = interp(inherited, inheritedWeightList, bolderWeightList)
			case "lighter":
				inherited = interp(inherited, inheritedWeightList, lighterWeightList)
			default:
				if inherited, err = computeFontWeight(parent, inherited, v); err != nil {
					return 0, err
				}
			}
		}
		return inherited, nil
	}

	if w, ok := fontWeightMap[value]; ok {
		return w, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid font-weight: %q", css.ErrValue, value)
	}
	return float64(n), nil
}

// ComputeLineHeight resolves a line-height value against an element's
// computed font size. The normal keyword yields 1.2 times the font
// size, a percentage scales it, and lengths and bare numbers resolve
// to pixels through the context.
func ComputeLineHeight(ctx Context, value string, fontSize float64) (float64, error) {
	if value == "normal" {
		return 1.2 * fontSize, nil
	}
	h, err := Parse(value)
	if err != nil {
		return 0, err
	}
	if h.Unit() == UnitPercent {
		pct, err := h.Value(UnitPercent)
		if err != nil {
			return 0, err
		}
		return pct / 100 * fontSize, nil
	}
	return h.WithContext(ctx).Value(UnitPx)
}

// interp evaluates the piecewise-linear function through the points
// (xp, fp) at x, clamping to the end values outside the range.
func interp(x float64, xp, fp []float64) float64 {
	n := len(xp)
	if x <= xp[0] {
		return fp[0]
	}
	if x >= xp[n-1] {
		return fp[n-1]
	}
	i := sort.SearchFloat64s(xp, x)
	if xp[i] == x {
		return fp[i]
	}
	t := (x - xp[i-1]) / (xp[i] - xp[i-1])
	return fp[i-1] + t*(fp[i]-fp[i-1])
}
