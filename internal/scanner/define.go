package scanner

import (
	"log"
	"strings"
)

// parseDefine handles the two-argument define() idiom at namespace-body
// depth. The first argument must be a plain string literal; a dynamic name
// is a recoverable skip. The second argument is captured like a const value.
// The constant's namespace comes from the name's own qualified prefix, not
// from the unit's active namespace: define() registers globally.
func (u *unitScan) parseDefine(kw Token) error {
	doc := u.takePending()

	open := u.nextSignificant()
	if !open.IsPunct("(") {
		return nil
	}

	nameTok := u.nextSignificant()
	if nameTok.Kind == TokenEOF {
		return unitErrorf(u.path, kw.Line, "unterminated define()")
	}
	if nameTok.Kind != TokenString {
		log.Printf("Warning: %s:%d: skipping define() with dynamic constant name", u.path, kw.Line)
		return u.skipBalancedParens(kw, 1)
	}
	name, ok := unquote(nameTok.Text)
	if !ok {
		log.Printf("Warning: %s:%d: skipping define() with unsupported string literal", u.path, kw.Line)
		return u.skipBalancedParens(kw, 1)
	}

	sep := u.nextSignificant()
	if sep.Kind == TokenEOF {
		return unitErrorf(u.path, kw.Line, "unterminated define(%q)", name)
	}
	if !sep.IsPunct(",") {
		// Concatenated or otherwise computed first argument, or a one
		// argument call; not a declaration we can represent.
		log.Printf("Warning: %s:%d: skipping define() with dynamic constant name", u.path, kw.Line)
		if sep.IsPunct(")") {
			return nil
		}
		return u.skipBalancedParens(kw, 1)
	}

	expr, stop, err := u.captureExpr(kw, ")", ",")
	if err != nil {
		return unitErrorf(u.path, kw.Line, "unterminated define(%q)", name)
	}
	if stop == "," {
		// Legacy third argument; the value has already been captured.
		if err := u.skipBalancedParens(kw, 1); err != nil {
			return err
		}
	}
	if u.peek().IsPunct(";") {
		u.nextSignificant()
	}

	u.appendSymbol(&Symbol{
		FQN:   "\\" + strings.Trim(name, "\\"),
		Kind:  KindDefine,
		Doc:   doc,
		Value: expr,
		Line:  kw.Line,
	})
	return nil
}

// skipBalancedParens consumes tokens until the open paren count returns to
// zero. Hitting end of input first fails the unit: a define() whose
// terminating statement is never found must not leave ambiguous state.
func (u *unitScan) skipBalancedParens(kw Token, depth int) error {
	for depth > 0 {
		tok := u.next()
		switch {
		case tok.Kind == TokenEOF:
			return unitErrorf(u.path, kw.Line, "unterminated define()")
		case tok.IsPunct("("):
			depth++
		case tok.IsPunct(")"):
			depth--
		}
	}
	return nil
}

// unquote evaluates a simple single- or double-quoted PHP string literal.
// Heredocs and interpolated strings report !ok; define() names must be
// concatenation-free plain literals.
func unquote(lit string) (string, bool) {
	if len(lit) < 2 {
		return "", false
	}
	quote := lit[0]
	if (quote != '\'' && quote != '"') || lit[len(lit)-1] != quote {
		return "", false
	}
	body := lit[1 : len(lit)-1]

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			if quote == '"' && (c == '$' || c == '{') {
				// Interpolation would make the name dynamic.
				return "", false
			}
			b.WriteByte(c)
			continue
		}
		i++
		esc := body[i]
		if quote == '\'' {
			switch esc {
			case '\\', '\'':
				b.WriteByte(esc)
			default:
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
			continue
		}
		switch esc {
		case '\\', '"', '$':
			b.WriteByte(esc)
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte('\\')
			b.WriteByte(esc)
		}
	}
	return b.String(), true
}
