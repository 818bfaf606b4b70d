package typedom

import (
	"fmt"
	"math/big"
	"strings"

	"cssval/css"
)

type mathOp int

const (
	opNone mathOp = iota
	opSum
	opProduct
	opNegate
	opInvert
	opMin
	opMax
	opClamp
)

// exprNode is a mutable expression under construction. The parser
// rewrites the tree as operators arrive and reifies it into immutable
// Numeric values at the end.
type exprNode struct {
	parent *exprNode
	op     mathOp
	// values holds Numeric leaves and *exprNode subexpressions.
	values []any
}

// ParseNumeric parses value text containing exactly one numeric
// component: a number, a percentage, a dimension, or a math function
// (calc, min, max or clamp). The returned value serializes back to the
// source text.
func ParseNumeric(text string) (Numeric, error) {
	tokens := css.Significant(css.Tokenize(text))
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty value: %q", css.ErrValue, text)
	}
	arg, next, err := parseMathArg(text, tokens, 0, nil)
	if err != nil {
		return nil, err
	}
	if next != len(tokens) {
		return nil, fmt.Errorf("%w: expected a single component: %q", css.ErrValue, text)
	}
	value, err := reifyExpression(arg)
	if err != nil {
		return nil, err
	}
	return withRaw(value, text), nil
}

// parseMathArg parses one argument at tokens[i]: a unit value or a
// nested math function. It returns the argument and the index past it.
func parseMathArg(src string, tokens []css.Token, i int, root *exprNode) (any, int, error) {
	tok := tokens[i]
	switch tok.Type {
	case css.NumberToken:
		value, err := newDecimal(tok.Data)
		if err != nil {
			return nil, 0, err
		}
		return &UnitValue{value: value, unit: UnitNumber}, i + 1, nil
	case css.PercentageToken:
		value, err := newDecimal(strings.TrimSuffix(tok.Data, "%"))
		if err != nil {
			return nil, 0, err
		}
		return &UnitValue{value: value, unit: UnitPercent}, i + 1, nil
	case css.DimensionToken:
		number, unit := css.SplitDimension(tok.Data)
		value, err := newDecimal(number)
		if err != nil {
			return nil, 0, err
		}
		u, err := LookupUnit(unit)
		if err != nil {
			return nil, 0, err
		}
		return &UnitValue{value: value, unit: u}, i + 1, nil
	case css.FunctionToken:
		args, next := css.FunctionArgs(tokens, i)
		node, err := parseMathExpression(src, tok.FunctionName(), args, root)
		if err != nil {
			return nil, 0, err
		}
		return node, next, nil
	}
	return nil, 0, fmt.Errorf("%w: invalid math expression: %q in %q",
		css.ErrValue, tok.Data, src)
}

// parseMathExpression builds the expression tree for one math function
// invocation. root bounds tree rewrites for nested invocations.
func parseMathExpression(src, name string, args []css.Token, root *exprNode) (*exprNode, error) {
	var op mathOp
	switch name {
	case "calc":
		op = opNone
	case "min":
		op = opMin
	case "max":
		op = opMax
	case "clamp":
		op = opClamp
	default:
		return nil, fmt.Errorf("%w: invalid math function %q in %q",
			css.ErrValue, name, src)
	}
	args = css.Significant(args)
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: empty math expression in %q", css.ErrValue, src)
	}

	current := &exprNode{parent: root, op: op}
	for i := 0; i < len(args); {
		tok := args[i]
		operator := current.op
		switch {
		case tok.Type == css.CommaToken:
			if operator != opMin && operator != opMax && operator != opClamp {
				return nil, fmt.Errorf("%w: unexpected %q in %q", css.ErrValue, ",", src)
			}
			i++

		case tok.IsDelim('*'):
			i++
			if operator == opNone {
				current.op = opProduct
			} else if operator != opProduct {
				// demote the last value into a product subexpression
				last, err := popLast(current, src)
				if err != nil {
					return nil, err
				}
				child := &exprNode{parent: current, op: opProduct, values: []any{last}}
				current.values = append(current.values, child)
				current = child
			}

		case tok.IsDelim('+'):
			i++
			if operator == opNone {
				current.op = opSum
			} else if operator != opSum {
				// wrap the expression root in a new sum
				for current.parent != nil && current.parent != root {
					current = current.parent
				}
				prev := current
				current = &exprNode{parent: prev.parent, op: opSum, values: []any{prev}}
				prev.parent = current
			}

		case tok.IsDelim('/'):
			next, j, err := nextOperand(src, args, i+1, current)
			if err != nil {
				return nil, err
			}
			i = j
			invert := &exprNode{parent: current, op: opInvert, values: []any{next}}
			switch {
			case operator == opProduct:
				current.values = append(current.values, invert)
			case len(current.values) == 1:
				current.op = opProduct
				current.values = append(current.values, invert)
			default:
				last, err := popLast(current, src)
				if err != nil {
					return nil, err
				}
				node := &exprNode{parent: current, op: opProduct, values: []any{last, invert}}
				current.values = append(current.values, node)
			}

		case tok.IsDelim('-'):
			next, j, err := nextOperand(src, args, i+1, current)
			if err != nil {
				return nil, err
			}
			i = j
			negate := &exprNode{parent: current, op: opNegate, values: []any{next}}
			switch {
			case operator == opSum:
				current.values = append(current.values, negate)
			case len(current.values) == 1:
				current.op = opSum
				current.values = append(current.values, negate)
			default:
				parent := current.parent
				if parent == nil {
					node := &exprNode{op: opSum, values: []any{current, negate}}
					current.parent = node
					negate.parent = node
					current = node
					break
				}
				last, err := popLast(parent, src)
				if err != nil {
					return nil, err
				}
				node := &exprNode{parent: parent, op: opSum, values: []any{last, negate}}
				parent.values = append(parent.values, node)
			}

		case tok.Type == css.DelimToken:
			return nil, fmt.Errorf("%w: unexpected %q in %q", css.ErrValue, tok.Data, src)

		default:
			value, j, err := parseMathArg(src, args, i, current)
			if err != nil {
				return nil, err
			}
			i = j
			current.values = append(current.values, value)
		}
	}

	for current.parent != nil && current.parent != root {
		current = current.parent
	}
	return current, nil
}

// nextOperand parses the operand required after a '-' or '/' operator.
func nextOperand(src string, args []css.Token, i int, current *exprNode) (any, int, error) {
	if i >= len(args) {
		return nil, 0, fmt.Errorf("%w: missing operand in %q", css.ErrValue, src)
	}
	return parseMathArg(src, args, i, current)
}

func popLast(node *exprNode, src string) (any, error) {
	if len(node.values) == 0 {
		return nil, fmt.Errorf("%w: invalid math expression: %q", css.ErrValue, src)
	}
	last := node.values[len(node.values)-1]
	node.values = node.values[:len(node.values)-1]
	return last, nil
}

// reifyExpression converts the mutable parse tree into immutable math
// values, validating operand types along the way.
func reifyExpression(v any) (Numeric, error) {
	switch n := v.(type) {
	case Numeric:
		return n, nil
	case *exprNode:
		operands := make([]Numeric, len(n.values))
		for i, value := range n.values {
			operand, err := reifyExpression(value)
			if err != nil {
				return nil, err
			}
			operands[i] = operand
		}
		switch n.op {
		case opNone, opSum:
			return NewSum(operands...)
		case opProduct:
			return NewProduct(operands...)
		case opNegate:
			if len(operands) != 1 {
				return nil, fmt.Errorf("%w: negate takes one operand", css.ErrValue)
			}
			return NewNegate(operands[0]), nil
		case opInvert:
			if len(operands) != 1 {
				return nil, fmt.Errorf("%w: invert takes one operand", css.ErrValue)
			}
			return NewInvert(operands[0]), nil
		case opMin:
			return NewMin(operands...)
		case opMax:
			return NewMax(operands...)
		case opClamp:
			if len(operands) != 3 {
				return nil, fmt.Errorf("%w: clamp takes three operands, got %d",
					css.ErrValue, len(operands))
			}
			return NewClamp(operands[0], operands[1], operands[2])
		}
	}
	return nil, fmt.Errorf("%w: invalid math expression", css.ErrValue)
}

// newDecimal parses CSS number text into an exact rational.
func newDecimal(s string) (*big.Rat, error) {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(t, "+")
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

// withRaw records the source text on a parsed value so serialization
// round-trips it.
func withRaw(n Numeric, raw string) Numeric {
	switch v := n.(type) {
	case *UnitValue:
		v.raw = raw
	case *MathSum:
		v.raw = raw
	case *MathProduct:
		v.raw = raw
	case *MathNegate:
		v.raw = raw
	case *MathInvert:
		v.raw = raw
	case *MathMin:
		v.raw = raw
	case *MathMax:
		v.raw = raw
	case *MathClamp:
		v.raw = raw
	}
	return n
}
