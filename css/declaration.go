package css

import "strings"

// RawDeclaration is a single name/value pair split out of a declaration
// list, before any property-level validation.
type RawDeclaration struct {
	Name      string
	Value     string
	Important bool
}

// SplitDeclarations breaks a declaration list, such as an inline style
// attribute value, into raw declarations. Entries without a name or a
// colon are dropped.
func SplitDeclarations(text string) []RawDeclaration {
	tokens := TopLevel(Tokenize(text))
	var decls []RawDeclaration
	start := 0
	for i := 0; i <= len(tokens); i++ {
		if i < len(tokens) && tokens[i].Type != SemicolonToken {
			continue
		}
		if raw, ok := splitDeclaration(tokens[start:i]); ok {
			decls = append(decls, raw)
		}
		start = i + 1
	}
	return decls
}

func splitDeclaration(tokens []Token) (RawDeclaration, bool) {
	tokens = trimSpace(tokens)
	if len(tokens) < 2 || tokens[0].Type != IdentToken {
		return RawDeclaration{}, false
	}
	name := tokens[0].Data
	rest := trimSpace(tokens[1:])
	if len(rest) == 0 || rest[0].Type != ColonToken {
		return RawDeclaration{}, false
	}
	value, important := splitImportant(trimSpace(rest[1:]))
	if len(value) == 0 {
		return RawDeclaration{}, false
	}
	return RawDeclaration{Name: name, Value: Text(value), Important: important}, true
}

// splitImportant strips a trailing !important from the value tokens.
func splitImportant(tokens []Token) ([]Token, bool) {
	if len(tokens) < 2 {
		return tokens, false
	}
	last := tokens[len(tokens)-1]
	if last.Type != IdentToken || !strings.EqualFold(last.Data, "important") {
		return tokens, false
	}
	rest := trimSpace(tokens[:len(tokens)-1])
	if len(rest) == 0 || !rest[len(rest)-1].IsDelim('!') {
		return tokens, false
	}
	return trimSpace(rest[:len(rest)-1]), true
}
