package property

import (
	"regexp"
	"strings"

	"cssval/css"
)

var hexColor = regexp.MustCompile(
	`(?i)^([0-9a-f]{8}|[0-9a-f]{6}|[0-9a-f]{4}|[0-9a-f]{3})$`)

// unit families recognized by the grammar matcher. Units outside the
// fixed unit table never classify.
var (
	angleUnits = map[string]bool{
		"deg": true, "grad": true, "rad": true, "turn": true,
	}
	timeUnits = map[string]bool{
		"s": true, "ms": true,
	}
	resolutionUnits = map[string]bool{
		"dpi": true, "dpcm": true, "dppx": true,
	}
	lengthUnits = map[string]bool{
		"em": true, "ex": true, "cap": true, "ch": true, "ic": true,
		"rem": true, "vw": true, "vh": true, "vmin": true, "vmax": true,
		"cm": true, "mm": true, "q": true, "in": true, "pt": true,
		"pc": true, "px": true,
	}
)

var (
	colorFunctions = map[string]bool{
		"rgb": true, "rgba": true, "hsl": true, "hsla": true, "hwb": true,
		"gray": true, "device-cmyk": true,
	}
	imageFunctions = map[string]bool{
		"cross-fade": true, "image": true, "image-set": true,
		"conic-gradient": true, "linear-gradient": true, "radial-gradient": true,
		"repeating-conic-gradient": true, "repeating-linear-gradient": true,
		"repeating-radial-gradient": true,
	}
	mathFunctions = map[string]bool{
		"calc": true, "min": true, "max": true, "clamp": true,
	}
	transformFunctions = map[string]bool{
		"matrix": true,
		"translate": true, "translatex": true, "translatey": true,
		"scale": true, "scalex": true, "scaley": true,
		"rotate": true,
		"skew": true, "skewx": true, "skewy": true,
	}
)

// Classify checks one value token against the grammar and reports
// whether it is accepted, along with the category it classifies into.
// Accepted tokens without a specific category (CSS-wide keywords,
// grammar function placeholders) report CategoryNone.
func (d *Descriptor) Classify(tok css.Token) (bool, Category) {
	switch tok.Type {
	case css.DimensionToken:
		_, unit := css.SplitDimension(tok.Data)
		switch {
		case angleUnits[unit]:
			if d.allowed[CategoryAny] || d.allowed[CategoryAngle] {
				return true, CategoryAngle
			}
		case timeUnits[unit]:
			if d.allowed[CategoryAny] || d.allowed[CategoryTime] {
				return true, CategoryTime
			}
		case resolutionUnits[unit]:
			if d.allowed[CategoryAny] || d.allowed[CategoryResolution] {
				return true, CategoryResolution
			}
		case lengthUnits[unit]:
			if d.allowed[CategoryAny] || d.allowed[CategoryLength] {
				return true, CategoryLength
			}
			if d.allowed[CategoryLengthPercentage] {
				return true, CategoryLengthPercentage
			}
		}
		return false, CategoryNone

	case css.FunctionToken:
		name := tok.FunctionName()
		switch {
		case colorFunctions[name]:
			if d.allowed[CategoryAny] || d.allowed[CategoryColor] {
				return true, CategoryColor
			}
		case imageFunctions[name]:
			if d.allowed[CategoryAny] || d.allowed[CategoryImage] {
				return true, CategoryImage
			}
		case mathFunctions[name]:
			if d.allowed[CategoryAny] || d.allowed[CategoryLengthPercentage] {
				return true, CategoryLengthPercentage
			}
		case transformFunctions[name]:
			if d.allowed[CategoryAny] || d.allowed[CategoryTransformFunction] {
				return true, CategoryTransformFunction
			}
			if d.allowed[CategoryTransformList] {
				return true, CategoryTransformList
			}
		case d.functions[name]:
			return true, CategoryNone
		}
		return false, CategoryNone

	case css.HashToken:
		if d.allowed[CategoryAny] || d.allowed[CategoryColor] {
			if hexColor.MatchString(strings.TrimPrefix(tok.Data, "#")) {
				return true, CategoryColor
			}
		}
		return false, CategoryNone

	case css.IdentToken, css.StringToken:
		value := tok.Data
		if tok.Type == css.StringToken {
			value = css.Unquote(value)
		}
		if css.IsWideKeyword(value) {
			return true, CategoryNone
		}
		if d.identifiers[value] {
			return true, CategoryCustomIdent
		}
		if d.allowed[CategoryAny] || d.allowed[CategoryColor] {
			if strings.ToLower(value) == "currentcolor" {
				return true, CategoryCustomIdent
			}
			if IsNamedColor(value) {
				return true, CategoryColor
			}
		}
		if d.allowed[CategoryAny] || d.allowed[CategoryCustomIdent] ||
			d.allowed[CategoryString] {
			return true, CategoryCustomIdent
		}
		return false, CategoryNone

	case css.DelimToken, css.CommaToken, css.ColonToken, css.SemicolonToken:
		if d.identifiers[tok.Data] || d.allowed[CategoryAny] ||
			d.allowed[CategoryCustomIdent] {
			return true, CategoryCustomIdent
		}
		return false, CategoryNone

	case css.NumberToken:
		if css.IsIntegerText(tok.Data) &&
			(d.allowed[CategoryAny] || d.allowed[CategoryInteger]) {
			return true, CategoryInteger
		}
		if d.allowed[CategoryAny] || d.allowed[CategoryNumber] {
			return true, CategoryNumber
		}
		// unit-less number where a length is expected
		if d.allowed[CategoryLength] {
			return true, CategoryLength
		}
		if d.allowed[CategoryLengthPercentage] {
			return true, CategoryLengthPercentage
		}
		if d.allowed[CategoryCustomIdent] || d.allowed[CategoryString] {
			return true, CategoryCustomIdent
		}
		return false, CategoryNone

	case css.PercentageToken:
		if d.allowed[CategoryAny] || d.allowed[CategoryPercentage] {
			return true, CategoryPercentage
		}
		if d.allowed[CategoryLengthPercentage] {
			return true, CategoryLengthPercentage
		}
		return false, CategoryNone

	case css.URLToken:
		if d.allowed[CategoryAny] || d.allowed[CategoryURL] {
			return true, CategoryURL
		}
		if d.allowed[CategoryImage] {
			return true, CategoryImage
		}
		return false, CategoryNone
	}
	return false, CategoryNone
}

// Supports reports whether every component value of the text classifies
// under the grammar. Commas are allowed only for grammars that repeat
// components with "#" or name "," as an identifier. A CSS-wide keyword
// validates only when it is the sole component.
func (d *Descriptor) Supports(text string) bool {
	tokens := css.Significant(css.TopLevel(css.Tokenize(text)))
	wide := 0
	for _, tok := range tokens {
		if tok.Type == css.CommaToken {
			if strings.Contains(d.syntax, "#") || d.identifiers[","] {
				continue
			}
			return false
		}
		if css.IsWideKeyword(tok.Data) {
			wide++
			continue
		}
		if ok, _ := d.Classify(tok); !ok {
			return false
		}
	}
	if wide > 0 && len(tokens) > 1 {
		return false
	}
	return true
}
