// Package css provides the shared token substrate for the value engine:
// tokenization of property value text, input byte-stream decoding, value
// normalization and number formatting.
package css

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	cssparse "github.com/tdewolff/parse/v2/css"
)

// TokenType identifies a CSS component token kind.
type TokenType = cssparse.TokenType

// Token types produced by Tokenize. Re-exported so consumers only need this
// package for token work.
const (
	ErrorToken            = cssparse.ErrorToken
	IdentToken            = cssparse.IdentToken
	FunctionToken         = cssparse.FunctionToken
	AtKeywordToken        = cssparse.AtKeywordToken
	HashToken             = cssparse.HashToken
	StringToken           = cssparse.StringToken
	BadStringToken        = cssparse.BadStringToken
	URLToken              = cssparse.URLToken
	BadURLToken           = cssparse.BadURLToken
	DelimToken            = cssparse.DelimToken
	NumberToken           = cssparse.NumberToken
	PercentageToken       = cssparse.PercentageToken
	DimensionToken        = cssparse.DimensionToken
	UnicodeRangeToken     = cssparse.UnicodeRangeToken
	WhitespaceToken       = cssparse.WhitespaceToken
	ColonToken            = cssparse.ColonToken
	SemicolonToken        = cssparse.SemicolonToken
	CommaToken            = cssparse.CommaToken
	LeftBracketToken      = cssparse.LeftBracketToken
	RightBracketToken     = cssparse.RightBracketToken
	LeftParenthesisToken  = cssparse.LeftParenthesisToken
	RightParenthesisToken = cssparse.RightParenthesisToken
	LeftBraceToken        = cssparse.LeftBraceToken
	RightBraceToken       = cssparse.RightBraceToken
	CommentToken          = cssparse.CommentToken
)

// Token is a single CSS component token.
type Token struct {
	Type TokenType
	Data string
}

// IsWhitespace returns true for whitespace tokens.
func (t Token) IsWhitespace() bool {
	return t.Type == WhitespaceToken
}

// IsDelim returns true if the token is a delimiter with the given rune.
func (t Token) IsDelim(r byte) bool {
	return t.Type == DelimToken && len(t.Data) == 1 && t.Data[0] == r
}

// FunctionName returns the lowercased function name for a FunctionToken
// ("calc(" -> "calc"), or an empty string for other token types. Works on
// collapsed tokens carrying the whole call text.
func (t Token) FunctionName() string {
	if t.Type != FunctionToken {
		return ""
	}
	name := t.Data
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

// Tokenize splits value text into component tokens. Comments are dropped,
// whitespace tokens are kept (callers that do not care use Significant).
func Tokenize(s string) []Token {
	l := cssparse.NewLexer(parse.NewInput(strings.NewReader(s)))
	var tokens []Token
	for {
		tt, data := l.Next()
		switch tt {
		case cssparse.ErrorToken:
			return tokens
		case cssparse.CommentToken:
			continue
		}
		tokens = append(tokens, Token{Type: tt, Data: string(data)})
	}
}

// TopLevel collapses every function call and bracketed block into a single
// token carrying the full raw text, so callers see one component value per
// token. Nested content keeps its original spacing inside the merged Data.
func TopLevel(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t.Type {
		case FunctionToken, LeftParenthesisToken, LeftBracketToken, LeftBraceToken:
			end := matchBlock(tokens, i)
			var b strings.Builder
			for j := i; j < end; j++ {
				b.WriteString(tokens[j].Data)
			}
			out = append(out, Token{Type: t.Type, Data: b.String()})
			i = end - 1
		default:
			out = append(out, t)
		}
	}
	return out
}

// matchBlock returns the index just past the block opened at tokens[start],
// including its closing token. Unterminated blocks extend to the end.
func matchBlock(tokens []Token, start int) int {
	depth := 0
	for i := start; i < len(tokens); i++ {
		switch tokens[i].Type {
		case FunctionToken, LeftParenthesisToken, LeftBracketToken, LeftBraceToken:
			depth++
		case RightParenthesisToken, RightBracketToken, RightBraceToken:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(tokens)
}

// Significant filters out whitespace tokens.
func Significant(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if !t.IsWhitespace() {
			out = append(out, t)
		}
	}
	return out
}

// Text reassembles tokens into a single string, collapsing whitespace runs
// to single spaces.
func Text(tokens []Token) string {
	var parts []string
	for _, t := range tokens {
		if t.IsWhitespace() {
			if len(parts) > 0 {
				parts = append(parts, " ")
			}
			continue
		}
		parts = append(parts, t.Data)
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// SplitComma splits tokens into groups separated by top-level commas.
// Commas nested inside function calls or brackets do not split.
func SplitComma(tokens []Token) [][]Token {
	var groups [][]Token
	var current []Token
	depth := 0
	for _, t := range tokens {
		switch t.Type {
		case FunctionToken, LeftParenthesisToken, LeftBracketToken:
			depth++
		case RightParenthesisToken, RightBracketToken:
			if depth > 0 {
				depth--
			}
		case CommaToken:
			if depth == 0 {
				groups = append(groups, trimSpace(current))
				current = nil
				continue
			}
		}
		current = append(current, t)
	}
	groups = append(groups, trimSpace(current))
	return groups
}

// FunctionArgs returns the tokens between a function token at tokens[start]
// and its matching closing parenthesis, plus the index just past it.
// The returned slice excludes the closing parenthesis.
func FunctionArgs(tokens []Token, start int) (args []Token, next int) {
	depth := 1
	for i := start + 1; i < len(tokens); i++ {
		switch tokens[i].Type {
		case FunctionToken, LeftParenthesisToken:
			depth++
		case RightParenthesisToken:
			depth--
			if depth == 0 {
				return tokens[start+1 : i], i + 1
			}
		}
	}
	return tokens[start+1:], len(tokens)
}

// trimSpace drops leading and trailing whitespace tokens.
func trimSpace(tokens []Token) []Token {
	for len(tokens) > 0 && tokens[0].IsWhitespace() {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].IsWhitespace() {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// Unquote removes surrounding single or double quotes from a string token.
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

// UnwrapURL extracts the target from a url(...) token, removing optional
// quotes. Handles url("path"), url('path') and url(path).
func UnwrapURL(s string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) >= 4 && strings.EqualFold(trimmed[:4], "url(") {
		trimmed = trimmed[4:]
		trimmed = strings.TrimSuffix(trimmed, ")")
	}
	return Unquote(strings.TrimSpace(trimmed))
}

// SplitDimension splits a dimension token into its numeric text and unit.
// The numeric part follows CSS number syntax including exponents.
func SplitDimension(s string) (number, unit string) {
	end := numberEnd(s)
	return s[:end], strings.ToLower(s[end:])
}

// numberEnd returns the index just past the CSS number at the start of s.
func numberEnd(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' && i+1 < len(s) && isDigit(s[i+1]) {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	// exponent must be followed by at least one digit
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

// IsIntegerText reports whether the numeric text is an integer, i.e. has no
// fractional or exponent part.
func IsIntegerText(s string) bool {
	return !strings.ContainsAny(s, ".eE")
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}
