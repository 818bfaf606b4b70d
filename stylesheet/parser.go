package stylesheet

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	cssparse "github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"cssval/mediaquery"
	"cssval/style"
)

// Parser parses CSS stylesheets into structured rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. Input must already be UTF-8,
// byte-stream decoding happens at the caller's boundary.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Items:    make([]Item, 0),
		Warnings: make([]string, 0),
	}

	// Log parsing start with source identifier if provided
	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := cssparse.NewParser(input, false)

	var pending []string

	for {
		gt, _, data := parser.Next()

		switch gt {
		case cssparse.ErrorGrammar:
			// End of input or error
			if parser.Err() != nil && parser.Err().Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(parser.Err()))
			}
			return sheet

		case cssparse.BeginAtRuleGrammar:
			atRule := string(data)
			switch atRule {
			case "@media":
				// Parse the @media prelude and preserve the block
				media := rawText(parser.Values())
				queries := mediaquery.Parse(media)
				if media != "" && neverMatches(queries) {
					sheet.Warnings = append(sheet.Warnings, "unrecognized media query: "+media)
				}
				rules := p.parseMediaRules(parser)
				p.log.Debug("Parsed @media block", zap.String("query", media), zap.Int("rules", len(rules)))
				sheet.Items = append(sheet.Items, Item{
					MediaBlock: &MediaBlock{Media: media, Queries: queries, Rules: rules},
				})
			case "@font-face":
				// Parse @font-face
				ff := p.parseFontFace(parser)
				sheet.Items = append(sheet.Items, Item{FontFace: &ff})
			default:
				// Skip other @-rules with blocks
				p.skipAtRuleBlock(parser)
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case cssparse.AtRuleGrammar:
			// Simple @-rule without block (e.g., @import)
			atRule := string(data)
			if atRule == "@import" {
				url := extractImportURL(parser.Values())
				if url != "" {
					sheet.Items = append(sheet.Items, Item{Import: &url})
					p.log.Debug("Parsed @import", zap.String("url", url))
				}
			} else {
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case cssparse.QualifiedRuleGrammar:
			// A comma-terminated selector prelude; the selectors of the
			// ruleset keep arriving until BeginRulesetGrammar
			pending = append(pending, p.parseSelectors(data, parser.Values())...)

		case cssparse.BeginRulesetGrammar:
			pending = append(pending, p.parseSelectors(data, parser.Values())...)
			block := p.parseDeclarations(parser)
			if len(pending) > 0 && block.Len() > 0 {
				sheet.Items = append(sheet.Items, Item{Rule: &Rule{Selectors: pending, Block: block}})
			}
			pending = nil
		}
	}
}

// extractImportURL extracts the URL from @import tokens.
// Handles: @import "url"; @import url("url"); @import url(url);
func extractImportURL(tokens []cssparse.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case cssparse.StringToken:
			return unquote(string(t.Data))
		case cssparse.URLToken:
			// url(something) - the token data is the full url(...) string
			s := string(t.Data)
			s = strings.TrimPrefix(s, "url(")
			s = strings.TrimSuffix(s, ")")
			return unquote(strings.TrimSpace(s))
		}
	}
	return ""
}

// parseSelectors extracts selector strings from token data.
func (p *Parser) parseSelectors(data []byte, values []cssparse.Token) []string {
	// Build full selector string from data and values
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	selectorStr := sb.String()

	// Split by comma for grouped selectors
	var selectors []string
	for s := range strings.SplitSeq(selectorStr, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// parseDeclarations collects property declarations until EndRulesetGrammar
// into a declaration block. Shorthands expand on storage.
func (p *Parser) parseDeclarations(parser *cssparse.Parser) *style.Declaration {
	block := style.NewDeclaration(nil)
	var parts []string

	for {
		gt, _, data := parser.Next()

		switch gt {
		case cssparse.ErrorGrammar, cssparse.EndRulesetGrammar:
			block.SetText(strings.Join(parts, "; "))
			return block

		case cssparse.DeclarationGrammar, cssparse.CustomPropertyGrammar:
			name := string(data)
			if value := rawText(parser.Values()); value != "" {
				parts = append(parts, name+": "+value)
			}
		}
	}
}

// rawText reassembles value text from tokens, collapsing whitespace runs
// and dropping comments.
func rawText(tokens []cssparse.Token) string {
	var parts []string
	for _, t := range tokens {
		switch t.TokenType {
		case cssparse.WhitespaceToken:
			if len(parts) > 0 {
				parts = append(parts, " ")
			}
		case cssparse.CommentToken:
			// skip
		default:
			parts = append(parts, string(t.Data))
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// neverMatches reports whether no query in the list can ever match.
func neverMatches(queries mediaquery.QueryList) bool {
	for _, q := range queries {
		if q.Root != nil {
			return false
		}
	}
	return true
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *cssparse.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case cssparse.ErrorGrammar:
			return
		case cssparse.BeginAtRuleGrammar, cssparse.BeginRulesetGrammar:
			depth++
		case cssparse.EndAtRuleGrammar, cssparse.EndRulesetGrammar:
			depth--
		}
	}
}

// parseFontFace parses an @font-face block.
func (p *Parser) parseFontFace(parser *cssparse.Parser) FontFace {
	ff := FontFace{}

	for {
		gt, _, data := parser.Next()

		switch gt {
		case cssparse.ErrorGrammar, cssparse.EndAtRuleGrammar:
			return ff

		case cssparse.DeclarationGrammar:
			propName := strings.ToLower(string(data))
			valStr := rawText(parser.Values())
			if valStr == "" {
				continue
			}

			switch propName {
			case "font-family":
				ff.Family = unquote(valStr)
			case "src":
				ff.Src = valStr
			case "font-style":
				ff.Style = valStr
			case "font-weight":
				ff.Weight = valStr
			}
		}
	}
}

// parseMediaRules parses rules inside an @media block and returns them.
func (p *Parser) parseMediaRules(parser *cssparse.Parser) []Rule {
	var rules []Rule
	var pending []string

	for {
		gt, _, data := parser.Next()

		switch gt {
		case cssparse.ErrorGrammar, cssparse.EndAtRuleGrammar:
			return rules

		case cssparse.QualifiedRuleGrammar:
			pending = append(pending, p.parseSelectors(data, parser.Values())...)

		case cssparse.BeginRulesetGrammar:
			pending = append(pending, p.parseSelectors(data, parser.Values())...)
			block := p.parseDeclarations(parser)
			if len(pending) > 0 && block.Len() > 0 {
				rules = append(rules, Rule{Selectors: pending, Block: block})
			}
			pending = nil
		}
	}
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
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
