package scanner

import (
	"strings"

	"github.com/docweave/docweave/internal/aliases"
)

// exprLiterals never become name references inside a captured expression;
// they are value keywords, not qualified names.
var exprLiterals = map[string]bool{
	"true": true, "false": true, "null": true,
	"array": true, "new": true, "static": true,
	"self": true, "parent": true,
}

// captureExpr captures a literal value expression token by token until one
// of the stop punctuators appears outside any nested parens, brackets, or
// braces. Qualified-name tokens become alias-table name references; every
// other token is copied verbatim, original spacing included, so the rewrite
// step reproduces the source text exactly. The stop token is consumed and
// returned. Reaching end of input is a hard failure for the unit.
func (u *unitScan) captureExpr(kw Token, stops ...string) (aliases.Expr, string, error) {
	var expr aliases.Expr
	depth := 0
	lastEnd := -1
	var prevText string

	for {
		tok := u.next()
		if tok.Kind == TokenEOF {
			return nil, "", unitErrorf(u.path, kw.Line, "unterminated expression")
		}
		if depth == 0 {
			for _, stop := range stops {
				if tok.IsPunct(stop) {
					return expr, stop, nil
				}
			}
		}
		switch {
		case tok.IsPunct("(") || tok.IsPunct("[") || tok.IsPunct("{"):
			depth++
		case tok.IsPunct(")") || tok.IsPunct("]") || tok.IsPunct("}"):
			depth--
			if depth < 0 {
				return nil, "", unitErrorf(u.path, kw.Line, "unbalanced expression")
			}
		}

		gap := ""
		if lastEnd >= 0 && tok.Pos > lastEnd {
			gap = string(u.src[lastEnd:tok.Pos])
		}
		lastEnd = tok.End()

		if isNameReference(tok, prevText) {
			expr = expr.AppendText(gap)
			expr = expr.AppendRef(u.unit.Aliases.NameRef(tok.Text))
		} else {
			expr = expr.AppendText(gap + tok.Text)
		}
		prevText = tok.Text
	}
}

// isNameReference reports whether the token is a qualified name that must be
// protected by a placeholder. Member names reached through :: or -> stay
// plain text: in "O::CONST" only "O" is a name reference.
func isNameReference(tok Token, prevText string) bool {
	if tok.Kind != TokenIdent {
		return false
	}
	if prevText == "::" || prevText == "->" {
		return false
	}
	return !exprLiterals[strings.ToLower(tok.Text)]
}
