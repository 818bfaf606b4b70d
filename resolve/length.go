package resolve

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strings"

	"cssval/css"
	"cssval/typedom"
)

// Unit strings accepted by the resolver. UnitNumber marks a bare
// number, treated as pixels.
const (
	UnitNumber  = ""
	UnitPercent = "%"
	UnitEm      = "em"
	UnitEx      = "ex"
	UnitCap     = "cap"
	UnitCh      = "ch"
	UnitIc      = "ic"
	UnitRem     = "rem"
	UnitPx      = "px"
	UnitCm      = "cm"
	UnitMm      = "mm"
	UnitQ       = "q"
	UnitIn      = "in"
	UnitPt      = "pt"
	UnitPc      = "pc"
	UnitVw      = "vw"
	UnitVh      = "vh"
	UnitVmin    = "vmin"
	UnitVmax    = "vmax"
	UnitDpi     = "dpi"
	UnitDpcm    = "dpcm"
	UnitDppx    = "dppx"
)

// Direction selects what a percentage resolves against.
type Direction int

const (
	// DirectionFontRelative resolves percentages against the parent
	// element's computed font size, the way font-size percentages do.
	// It is the zero value: a Length built without a box axis behaves
	// as a font-relative quantity.
	DirectionFontRelative Direction = iota

	// DirectionHorizontal resolves percentages against the viewport
	// width.
	DirectionHorizontal

	// DirectionVertical resolves percentages against the viewport
	// height.
	DirectionVertical

	// DirectionUnspecified resolves percentages against the viewport
	// diagonal normalized by sqrt(2), for lengths with no single axis.
	DirectionUnspecified
)

var supportedUnits = map[string]struct{}{
	UnitNumber: {}, UnitPercent: {},
	UnitEm: {}, UnitEx: {}, UnitCap: {}, UnitCh: {}, UnitIc: {}, UnitRem: {},
	UnitPx: {}, UnitCm: {}, UnitMm: {}, UnitQ: {}, UnitIn: {}, UnitPt: {}, UnitPc: {},
	UnitVw: {}, UnitVh: {}, UnitVmin: {}, UnitVmax: {},
	UnitDpi: {}, UnitDpcm: {}, UnitDppx: {},
}

// 1in = 2.54cm = 96px
// 1cm = 1in/2.54 = 96px/2.54
// 1mm = 1cm/10
// 1Q  = 1cm/40
// 1pt = 1in/72
// 1pc = 1in/6
var pixelRatio = map[string]*big.Rat{
	UnitPx: big.NewRat(1, 1),
	UnitIn: big.NewRat(96, 1),
	UnitCm: big.NewRat(4800, 127),
	UnitMm: big.NewRat(480, 127),
	UnitQ:  big.NewRat(120, 127),
	UnitPt: big.NewRat(4, 3),
	UnitPc: big.NewRat(16, 1),
}

var (
	two     = big.NewRat(2, 1)
	hundred = big.NewRat(100, 1)

	// dpi and dpcm relative to dppx: 96dpi = 1dppx, 1dpcm = 2.54dpi.
	dpiRatio  = big.NewRat(1, 96)
	dpcmRatio = big.NewRat(127, 4800)
)

var reLength = regexp.MustCompile(
	`^(?i)([+-]?(?:\d+(?:\.\d*)?(?:e[+-]?\d+)?|\d*\.\d+(?:e[+-]?\d+)?))(%|[a-z]+)?`)

// Length is a CSS length: an exact rational magnitude with a unit,
// optionally bound to a document context for font- and
// viewport-relative resolution.
type Length struct {
	num  *big.Rat
	unit string
	ctx  Context
	dir  Direction
}

// New returns a Length holding value in unit. The unit is matched
// case-insensitively against the fixed unit table.
func New(value float64, unit string) (*Length, error) {
	u, err := normalizeUnit(unit)
	if err != nil {
		return nil, err
	}
	num, err := finiteRat(value)
	if err != nil {
		return nil, err
	}
	return &Length{num: num, unit: u}, nil
}

// Parse reads a number with an optional unit suffix, such as "12.5px",
// "50%" or "1e2". Text after the match is ignored.
func Parse(text string) (*Length, error) {
	m := reLength.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil, fmt.Errorf("%w: expected number, got %q", css.ErrValue, text)
	}
	num, err := parseDecimal(m[1])
	if err != nil {
		return nil, err
	}
	u, err := normalizeUnit(m[2])
	if err != nil {
		return nil, err
	}
	return &Length{num: num, unit: u}, nil
}

// WithContext returns a copy bound to ctx for font- and
// viewport-relative resolution.
func (l *Length) WithContext(ctx Context) *Length {
	x := l.clone()
	x.ctx = ctx
	return x
}

// WithDirection returns a copy using dir for percentage resolution.
func (l *Length) WithDirection(dir Direction) *Length {
	x := l.clone()
	x.dir = dir
	return x
}

// Unit returns the stored unit, "" for a bare number.
func (l *Length) Unit() string { return l.unit }

// IsAbsolute reports whether the length resolves without a context.
func (l *Length) IsAbsolute() bool {
	switch l.unit {
	case UnitNumber, UnitPx, UnitCm, UnitMm, UnitQ, UnitIn, UnitPt, UnitPc:
		return true
	}
	return false
}

// IsRelative reports whether the length depends on font or viewport
// context.
func (l *Length) IsRelative() bool {
	switch l.unit {
	case UnitEm, UnitEx, UnitCap, UnitCh, UnitIc, UnitRem,
		UnitPercent, UnitVw, UnitVh, UnitVmin, UnitVmax:
		return true
	}
	return false
}

// IsResolution reports whether the length carries a resolution unit.
func (l *Length) IsResolution() bool {
	return isResolutionUnit(l.unit)
}

// Pixels resolves the length to CSS pixels.
func (l *Length) Pixels() (float64, error) {
	return l.Value(UnitPx)
}

// Value resolves the length into the target unit. Bare numbers and
// "px" are interchangeable targets. Font-relative units read the
// parent's computed font size (rem the root's), viewport-relative
// units the nearest viewport, both through the bound context; without
// one, the font size falls back to DefaultFontSize and the viewport to
// a 100x100 square so that viewport percentages degrade to plain
// percentages. Resolution units convert only among themselves.
func (l *Length) Value(unit string) (float64, error) {
	target, err := normalizeUnit(unit)
	if err != nil {
		return 0, err
	}
	if target == l.unit {
		f, _ := l.num.Float64()
		return f, nil
	}
	if isResolutionUnit(l.unit) != isResolutionUnit(target) {
		return 0, fmt.Errorf("%w: cannot convert %q to %q",
			css.ErrConversion, l.unit, target)
	}

	var rootFontSize, elementFontSize *big.Rat
	var vw, vh, vmin, vmax float64

	if l.unit == UnitRem || target == UnitRem {
		if l.ctx == nil {
			rootFontSize = big.NewRat(DefaultFontSize, 1)
		} else {
			root, err := rootOf(l.ctx)
			if err != nil {
				return 0, err
			}
			if rootFontSize, err = finiteRat(root.ComputedFontSize()); err != nil {
				return 0, err
			}
		}
	}
	if fontRelativeUnit(l.unit) || fontRelativeUnit(target) {
		parent := Context(nil)
		if l.ctx != nil {
			parent = l.ctx.Parent()
		}
		if parent == nil {
			elementFontSize = big.NewRat(DefaultFontSize, 1)
		} else {
			if elementFontSize, err = finiteRat(parent.ComputedFontSize()); err != nil {
				return 0, err
			}
		}
	}
	if viewportRelativeUnit(l.unit) || viewportRelativeUnit(target) {
		if l.ctx == nil {
			vw, vh = 100, 100
		} else {
			vw, vh = l.ctx.ViewportSize()
		}
		vmin = math.Min(vw, vh)
		vmax = math.Max(vw, vh)
	}

	// to pixels
	px := new(big.Rat)
	switch l.unit {
	case UnitNumber, UnitPx:
		px.Set(l.num)
	case UnitRem:
		px.Mul(l.num, rootFontSize)
	case UnitEm:
		px.Mul(l.num, elementFontSize)
	case UnitPercent:
		base, err := l.percentBase(vw, vh, elementFontSize)
		if err != nil {
			return 0, err
		}
		px.Mul(l.num, base)
		px.Quo(px, hundred)
	case UnitEx, UnitCap, UnitCh, UnitIc:
		px.Mul(l.num, l.metricFactor(l.unit, elementFontSize))
	case UnitVw, UnitVh, UnitVmin, UnitVmax:
		k, err := finiteRat(viewportFactor(l.unit, vw, vh, vmin, vmax))
		if err != nil {
			return 0, err
		}
		px.Mul(l.num, k)
		px.Quo(px, hundred)
	case UnitDpi:
		px.Mul(l.num, dpiRatio)
	case UnitDpcm:
		px.Mul(l.num, dpcmRatio)
	case UnitDppx:
		px.Set(l.num)
	default:
		px.Mul(l.num, pixelRatio[l.unit])
	}

	// to the target unit
	switch target {
	case UnitNumber, UnitPx, UnitDppx:
		return ratFloat(px), nil
	case UnitRem:
		if err := quo(px, rootFontSize, "root font size"); err != nil {
			return 0, err
		}
		return ratFloat(px), nil
	case UnitEm:
		if err := quo(px, elementFontSize, "font size"); err != nil {
			return 0, err
		}
		return ratFloat(px), nil
	case UnitPercent:
		base, err := l.percentBase(vw, vh, elementFontSize)
		if err != nil {
			return 0, err
		}
		if err := quo(px, base, "percentage base"); err != nil {
			return 0, err
		}
		px.Mul(px, hundred)
		return ratFloat(px), nil
	case UnitEx, UnitCap, UnitCh, UnitIc:
		if err := quo(px, l.metricFactor(target, elementFontSize), "font metric"); err != nil {
			return 0, err
		}
		return ratFloat(px), nil
	case UnitVw, UnitVh, UnitVmin, UnitVmax:
		k, err := finiteRat(viewportFactor(target, vw, vh, vmin, vmax))
		if err != nil {
			return 0, err
		}
		if err := quo(px, k, "viewport size"); err != nil {
			return 0, err
		}
		px.Mul(px, hundred)
		return ratFloat(px), nil
	case UnitDpi:
		if err := quo(px, dpiRatio, "resolution"); err != nil {
			return 0, err
		}
		return ratFloat(px), nil
	case UnitDpcm:
		if err := quo(px, dpcmRatio, "resolution"); err != nil {
			return 0, err
		}
		return ratFloat(px), nil
	default:
		if err := quo(px, pixelRatio[target], "unit ratio"); err != nil {
			return 0, err
		}
		return ratFloat(px), nil
	}
}

// percentBase returns what 100% corresponds to under the stored
// direction.
func (l *Length) percentBase(vw, vh float64, elementFontSize *big.Rat) (*big.Rat, error) {
	switch l.dir {
	case DirectionHorizontal:
		return finiteRat(vw)
	case DirectionVertical:
		return finiteRat(vh)
	case DirectionUnspecified:
		return finiteRat(math.Hypot(vw, vh) / math.Sqrt2)
	default:
		return elementFontSize, nil
	}
}

// metricFactor returns the pixel size of one ex, cap, ch or ic unit.
// A missing or zero metric falls back to half the element font size.
func (l *Length) metricFactor(unit string, elementFontSize *big.Rat) *big.Rat {
	if l.ctx != nil {
		var name string
		switch unit {
		case UnitEx:
			name = MetricXHeight
		case UnitCap:
			name = MetricCapHeight
		case UnitCh:
			name = MetricChAdvance
		default:
			name = MetricIcAdvance
		}
		if v, ok := l.ctx.FontMetric(name); ok && v != 0 {
			if r, err := finiteRat(v); err == nil {
				return r
			}
		}
	}
	return new(big.Rat).Quo(elementFontSize, two)
}

func viewportFactor(unit string, vw, vh, vmin, vmax float64) float64 {
	switch unit {
	case UnitVw:
		return vw
	case UnitVh:
		return vh
	case UnitVmin:
		return vmin
	default:
		return vmax
	}
}

// Convert re-bases the stored magnitude onto unit, resolving relative
// units through the bound context.
func (l *Length) Convert(unit string) error {
	target, err := normalizeUnit(unit)
	if err != nil {
		return err
	}
	if target == l.unit {
		return nil
	}
	v, err := l.Value(target)
	if err != nil {
		return err
	}
	num, err := finiteRat(v)
	if err != nil {
		return err
	}
	l.num = num
	l.unit = target
	return nil
}

// Compare orders l against other in l's unit, treating values within
// the default tolerance as equal.
func (l *Length) Compare(other *Length) (int, error) {
	v, err := other.Value(l.unit)
	if err != nil {
		return 0, err
	}
	mine, _ := l.num.Float64()
	return typedom.DefaultTolerance.Compare(mine, v), nil
}

// Equal reports whether the lengths resolve to the same magnitude.
// Lengths whose units cannot be reconciled are unequal.
func (l *Length) Equal(other *Length) bool {
	c, err := l.Compare(other)
	return err == nil && c == 0
}

// Add returns l + other. A unitless receiver first takes on other's
// unit.
func (l *Length) Add(other *Length) (*Length, error) {
	return l.combine(other, func(a, b *big.Rat) { a.Add(a, b) })
}

// Sub returns l - other. A unitless receiver first takes on other's
// unit.
func (l *Length) Sub(other *Length) (*Length, error) {
	return l.combine(other, func(a, b *big.Rat) { a.Sub(a, b) })
}

func (l *Length) combine(other *Length, op func(a, b *big.Rat)) (*Length, error) {
	x := l.clone()
	if x.unit == UnitNumber && other.unit != UnitNumber {
		if err := x.Convert(other.unit); err != nil {
			return nil, err
		}
	}
	v, err := other.Value(x.unit)
	if err != nil {
		return nil, err
	}
	o, err := finiteRat(v)
	if err != nil {
		return nil, err
	}
	op(x.num, o)
	return x, nil
}

// Mul returns the length scaled by f.
func (l *Length) Mul(f float64) (*Length, error) {
	k, err := finiteRat(f)
	if err != nil {
		return nil, err
	}
	x := l.clone()
	x.num.Mul(x.num, k)
	return x, nil
}

// Div returns the length divided by f.
func (l *Length) Div(f float64) (*Length, error) {
	if f == 0 {
		return nil, fmt.Errorf("%w: division by zero", css.ErrValue)
	}
	k, err := finiteRat(f)
	if err != nil {
		return nil, err
	}
	x := l.clone()
	x.num.Quo(x.num, k)
	return x, nil
}

// Neg returns the negated length.
func (l *Length) Neg() *Length {
	x := l.clone()
	x.num.Neg(x.num)
	return x
}

// Abs returns the length with a non-negative magnitude.
func (l *Length) Abs() *Length {
	x := l.clone()
	x.num.Abs(x.num)
	return x
}

// String serializes the stored magnitude and unit at the default
// precision.
func (l *Length) String() string {
	return css.DefaultFormat.Rat(l.num) + l.unit
}

// Format resolves the length into unit and serializes it at the
// default precision.
func (l *Length) Format(unit string) (string, error) {
	target, err := normalizeUnit(unit)
	if err != nil {
		return "", err
	}
	v, err := l.Value(target)
	if err != nil {
		return "", err
	}
	return css.DefaultFormat.Float(v) + target, nil
}

func (l *Length) clone() *Length {
	return &Length{
		num:  new(big.Rat).Set(l.num),
		unit: l.unit,
		ctx:  l.ctx,
		dir:  l.dir,
	}
}

func normalizeUnit(unit string) (string, error) {
	u := strings.ToLower(unit)
	if _, ok := supportedUnits[u]; !ok {
		return "", fmt.Errorf("%w: %q", css.ErrUnknownUnit, unit)
	}
	return u, nil
}

func fontRelativeUnit(unit string) bool {
	switch unit {
	case UnitEm, UnitPercent, UnitEx, UnitCap, UnitCh, UnitIc:
		return true
	}
	return false
}

func viewportRelativeUnit(unit string) bool {
	switch unit {
	case UnitVw, UnitVh, UnitVmin, UnitVmax, UnitPercent:
		return true
	}
	return false
}

func isResolutionUnit(unit string) bool {
	switch unit {
	case UnitDpi, UnitDpcm, UnitDppx:
		return true
	}
	return false
}

// parseDecimal reads CSS number text into an exact rational.
func parseDecimal(s string) (*big.Rat, error) {
	t := strings.TrimPrefix(s, "+")
	t = strings.Replace(t, ".e", "e", 1)
	t = strings.Replace(t, ".E", "E", 1)
	t = strings.TrimSuffix(t, ".")
	if strings.HasPrefix(t, ".") {
		t = "0" + t
	} else if strings.HasPrefix(t, "-.") {
		t = "-0" + t[1:]
	}
	r, ok := new(big.Rat).SetString(t)
	if !ok {
		return nil, fmt.Errorf("%w: invalid number: %q", css.ErrValue, s)
	}
	return r, nil
}

func finiteRat(f float64) (*big.Rat, error) {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		return nil, fmt.Errorf("%w: non-finite value", css.ErrConversion)
	}
	return r, nil
}

func ratFloat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}

func quo(px, d *big.Rat, what string) error {
	if d.Sign() == 0 {
		return fmt.Errorf("%w: zero %s", css.ErrConversion, what)
	}
	px.Quo(px, d)
	return nil
}
