package mediaquery

import (
	"math/big"
	"strconv"
	"strings"
)

// CompareFunc orders two feature values three-way: negative, zero or
// positive. An error makes the comparison a non-match.
type CompareFunc func(left, right string) (int, error)

// Matches evaluates a query list against a feature snapshot. It
// reports whether any query matches, along with the media type named
// by the first matching query, if one was named.
func Matches(list QueryList, features map[string]string, cmp CompareFunc) (bool, string) {
	for _, q := range list {
		if q.Root == nil {
			continue
		}
		if ok, media := matchNode(q.Root, features, cmp, false); ok {
			return true, media
		}
	}
	return false, ""
}

func matchNode(n Node, features map[string]string, cmp CompareFunc, negated bool) (bool, string) {
	switch v := n.(type) {
	case *Not:
		ok, media := matchNode(v.Child, features, cmp, true)
		return !ok, media
	case *BoolOp:
		return matchBoolOp(v, features, cmp, negated)
	case *Feature:
		return evalFeature(v, features)
	case *Compare:
		return evalCompare(v, features, cmp), ""
	default:
		return false, ""
	}
}

func matchBoolOp(v *BoolOp, features map[string]string, cmp CompareFunc, negated bool) (bool, string) {
	var ands, ors int
	for _, op := range v.Ops {
		switch op {
		case "and":
			ands++
		case "or":
			ors++
		}
	}
	if ands > 0 && ors > 0 {
		// mixing and with or at one level is invalid
		return false, ""
	}
	op := v.Op
	if op == "" {
		op = "or"
	}
	result := true
	var matched string
	for _, child := range v.Children {
		ok, media := matchNode(child, features, cmp, false)
		if ok && media != "" && matched == "" {
			matched = media
		}
		result = ok
		if settled(op, negated, ok) {
			break
		}
	}
	return result, matched
}

// settled reports whether evaluation can stop after a child result: a
// plain and stops on false, a plain or on true. Under negation the
// stop conditions invert, which distributes the not over the children
// instead of negating the combined result.
func settled(op string, negated, result bool) bool {
	if op == "and" {
		if negated {
			return result
		}
		return !result
	}
	if negated {
		return !result
	}
	return result
}

// evalFeature evaluates a media type or a feature in boolean context.
// The media type is returned on a type match so the caller can report
// which medium applied.
func evalFeature(f *Feature, features map[string]string) (bool, string) {
	name := f.Name
	if _, ok := mediaTypes[name]; ok {
		if name == "all" || features["media"] == name {
			return true, name
		}
		return false, ""
	}
	if isDiscrete(name) {
		switch name {
		case "orientation", "scan", "color-gamut":
			_, ok := features[name]
			return ok, ""
		case "grid":
			v, ok := features["grid"]
			if !ok {
				return false, ""
			}
			n, err := strconv.Atoi(strings.TrimSpace(v))
			return err == nil && n == 1, ""
		default:
			v, ok := features[name]
			return ok && v != "none", ""
		}
	}
	switch name {
	case "color", "color-index", "monochrome":
		v, ok := features[name]
		if !ok {
			return false, ""
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err == nil && n > 0, ""
	}
	_, ok := features[name]
	return ok, ""
}

// evalCompare evaluates a comparison chain left to right. The feature
// name seen most recently selects the comparison style for each link.
func evalCompare(c *Compare, features map[string]string, cmp CompareFunc) bool {
	var name string
	left, leftIsName, ok := operandValue(c.Left, features, &name)
	if !ok {
		return false
	}
	n := len(c.Ops)
	if len(c.Rights) < n {
		n = len(c.Rights)
	}
	for i := 0; i < n; i++ {
		op := c.Ops[i]
		right, rightIsName, ok := operandValue(c.Rights[i], features, &name)
		if !ok {
			return false
		}
		switch {
		case (leftIsName || rightIsName) && name != "grid" && isDiscrete(name):
			lv, rv := left, right
			if name == "orientation" {
				lv, rv = truncateOrientation(lv, rv)
			}
			if !strings.HasSuffix(op, "=") || lv != rv {
				return false
			}
		case name == "aspect-ratio" || name == "device-aspect-ratio":
			lr, lok := new(big.Rat).SetString(left)
			rr, rok := new(big.Rat).SetString(right)
			if !lok || !rok {
				return false
			}
			if !compareOK(lr.Cmp(rr), op) {
				return false
			}
		default:
			if cmp == nil {
				return false
			}
			r, err := cmp(left, right)
			if err != nil {
				return false
			}
			if !compareOK(r, op) {
				return false
			}
		}
		left, leftIsName = right, rightIsName
	}
	return true
}

// operandValue resolves one comparison operand. A feature operand
// reads the snapshot and records its name; a missing feature makes the
// whole comparison a non-match.
func operandValue(n Node, features map[string]string, name *string) (value string, isName, ok bool) {
	switch v := n.(type) {
	case *Feature:
		*name = v.Name
		value, ok = features[v.Name]
		return value, true, ok
	case *Literal:
		return v.Text, false, true
	default:
		return "", false, false
	}
}

// truncateOrientation drops the -primary/-secondary suffix from
// whichever side carries one when the other does not, so landscape
// matches landscape-primary.
func truncateOrientation(left, right string) (string, string) {
	li := strings.IndexByte(left, '-')
	ri := strings.IndexByte(right, '-')
	switch {
	case li >= 0 && ri < 0:
		left = left[:li]
	case ri >= 0 && li < 0:
		right = right[:ri]
	}
	return left, right
}

// compareOK reports whether a three-way comparison result satisfies
// the operator, one of ==, <, <=, > or >=.
func compareOK(c int, op string) bool {
	switch {
	case c == 0:
		return strings.HasSuffix(op, "=")
	case c > 0:
		return strings.HasPrefix(op, ">")
	default:
		return strings.HasPrefix(op, "<")
	}
}
