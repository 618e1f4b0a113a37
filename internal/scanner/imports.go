package scanner

import (
	"strings"

	"github.com/docweave/docweave/internal/aliases"
)

// parseUse parses one use declaration: comma-separated clauses, each either
// a simple "name [as alias]" or a grouped "prefix\{...}" form. Every
// resolved (full name, alias, kind) triple is registered in the unit's alias
// table. A clause with no resolvable name or an unterminated declaration is
// a hard failure for the unit.
func (u *unitScan) parseUse(kw Token) error {
	u.pendingDoc = ""

	clauseKind := aliases.UseType
	tok := u.nextSignificant()
	if kind, ok := useKindKeyword(tok); ok && u.peek().Kind == TokenIdent {
		clauseKind = kind
		tok = u.nextSignificant()
	}

	for {
		if tok.Kind != TokenIdent {
			return unitErrorf(u.path, kw.Line, "use declaration missing name")
		}
		name := strings.TrimPrefix(tok.Text, "\\")

		next := u.nextSignificant()
		if next.IsPunct("\\") && u.peek().IsPunct("{") {
			u.nextSignificant() // consume '{'
			if err := u.parseUseGroup(kw, name, clauseKind); err != nil {
				return err
			}
			next = u.nextSignificant()
		} else {
			alias := lastSegment(name)
			if eqKeyword(next, "as") {
				aliasTok := u.nextSignificant()
				if aliasTok.Kind != TokenIdent {
					return unitErrorf(u.path, kw.Line, "use %s: missing alias after 'as'", name)
				}
				alias = aliasTok.Text
				next = u.nextSignificant()
			}
			u.unit.Aliases.Register(clauseKind, name, alias)
		}

		switch {
		case next.IsPunct(","):
			tok = u.nextSignificant()
		case next.IsPunct(";"):
			return nil
		case next.Kind == TokenEOF:
			return unitErrorf(u.path, kw.Line, "unterminated use declaration")
		default:
			return unitErrorf(u.path, kw.Line, "use declaration: unexpected %q", next.Text)
		}
	}
}

// parseUseGroup parses the braced entry list of a grouped import. The shared
// prefix has already been consumed. Each entry inherits the clause kind
// unless it carries its own function/const keyword.
func (u *unitScan) parseUseGroup(kw Token, prefix string, clauseKind aliases.UseKind) error {
	for {
		tok := u.nextSignificant()
		if tok.IsPunct("}") {
			return nil // covers a trailing comma before '}'
		}
		kind := clauseKind
		if k, ok := useKindKeyword(tok); ok && u.peek().Kind == TokenIdent {
			kind = k
			tok = u.nextSignificant()
		}
		if tok.Kind != TokenIdent {
			if tok.Kind == TokenEOF {
				return unitErrorf(u.path, kw.Line, "unterminated use group")
			}
			return unitErrorf(u.path, kw.Line, "use group missing name")
		}

		suffix := strings.Trim(tok.Text, "\\")
		alias := lastSegment(suffix)

		next := u.nextSignificant()
		if eqKeyword(next, "as") {
			aliasTok := u.nextSignificant()
			if aliasTok.Kind != TokenIdent {
				return unitErrorf(u.path, kw.Line, "use group %s: missing alias after 'as'", suffix)
			}
			alias = aliasTok.Text
			next = u.nextSignificant()
		}
		u.unit.Aliases.Register(kind, prefix+"\\"+suffix, alias)

		switch {
		case next.IsPunct(","):
			continue
		case next.IsPunct("}"):
			return nil
		case next.Kind == TokenEOF:
			return unitErrorf(u.path, kw.Line, "unterminated use group")
		default:
			return unitErrorf(u.path, kw.Line, "use group: unexpected %q", next.Text)
		}
	}
}

func useKindKeyword(tok Token) (aliases.UseKind, bool) {
	switch {
	case eqKeyword(tok, "function"):
		return aliases.UseFunction, true
	case eqKeyword(tok, "const"):
		return aliases.UseConstant, true
	default:
		return aliases.UseType, false
	}
}
