package css

import "errors"

// Engine error kinds. Callers test with errors.Is; sites attach detail with
// fmt.Errorf("%w: ...", Err...).
var (
	// ErrGrammarViolation marks a value rejected by a property grammar.
	// The declaration keeps its previous value.
	ErrGrammarViolation = errors.New("grammar violation")

	// ErrUnknownUnit marks a unit string outside the fixed unit table.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrIncompatibleNumericType marks math-expression operands whose
	// dimensional types cannot be reconciled. Raised at construction.
	ErrIncompatibleNumericType = errors.New("incompatible numeric types")

	// ErrConversion marks a unit conversion outside the operand's
	// canonical family, such as a resolution asked for in pixels.
	ErrConversion = errors.New("conversion error")

	// ErrValue marks a property value that produced no usable typed value.
	ErrValue = errors.New("value error")

	// ErrContextCycle marks a resolution context whose parent chain
	// revisits a node. The walk stops instead of looping.
	ErrContextCycle = errors.New("context cycle")
)
