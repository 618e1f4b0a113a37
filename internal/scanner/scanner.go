// Package scanner recovers declaration structure from raw PHP source: one
// depth-tracked pass over a unit's token stream that identifies namespace
// scope, import aliases, and top-level declarations. Bodies of classes and
// functions are opaque to the scanner; member detail belongs to the
// introspection index.
package scanner

import (
	"strings"

	"github.com/docweave/docweave/internal/aliases"
)

// Scanner scans source units. A single Scanner may be shared, but each
// ScanUnit call builds independent state, so units can be scanned in
// parallel.
type Scanner struct {
	// CaptureDefines enables recognition of the two-argument define() idiom
	// at namespace-body depth. When false those tokens are skipped without
	// side effects.
	CaptureDefines bool
}

// New returns a Scanner with define() capture enabled.
func New() *Scanner {
	return &Scanner{CaptureDefines: true}
}

// scanState makes the skip/resume transition explicit: the scanner is either
// looking at declaration-level tokens or inside an opaque body it only
// depth-counts through.
type scanState int

const (
	stateDeclarations scanState = iota
	stateOpaqueBody
)

type unitScan struct {
	path string
	src  []byte
	toks []Token
	pos  int

	state       scanState
	returnDepth int // opaque body: depth at which declaration scanning resumes
	braceDepth  int
	parenDepth  int
	nsDepth     int // depth at which the namespace body begins
	prefix      string

	pendingDoc string

	prev         Token // significant token before the current one
	lastReturned Token

	unit           *Unit
	captureDefines bool
}

// ScanUnit scans one source unit. On failure no partial unit is returned:
// ambiguous alias or symbol state must not propagate.
func (s *Scanner) ScanUnit(path string, src []byte) (*Unit, error) {
	u := &unitScan{
		path:           path,
		src:            src,
		toks:           Lex(src),
		captureDefines: s.CaptureDefines,
		unit: &Unit{
			Path:    path,
			Aliases: aliases.NewTable(),
		},
	}
	if err := u.run(); err != nil {
		return nil, err
	}
	return u.unit, nil
}

func (u *unitScan) run() error {
	for {
		tok := u.next()
		if tok.Kind == TokenEOF {
			return nil
		}
		if u.state == stateOpaqueBody {
			u.countDepth(tok)
			if u.braceDepth <= u.returnDepth {
				u.state = stateDeclarations
			}
			continue
		}
		if err := u.scanDeclarationToken(tok); err != nil {
			return err
		}
	}
}

// countDepth keeps brace and paren counters correct inside opaque bodies so
// scanning resumes at the right place.
func (u *unitScan) countDepth(tok Token) {
	switch {
	case tok.IsPunct("{"):
		u.braceDepth++
	case tok.IsPunct("}"):
		u.braceDepth--
	case tok.IsPunct("("):
		u.parenDepth++
	case tok.IsPunct(")"):
		u.parenDepth--
	}
}

func (u *unitScan) scanDeclarationToken(tok Token) error {
	switch tok.Kind {
	case TokenDocComment:
		u.pendingDoc = tok.Text
		return nil
	case TokenComment:
		return nil
	case TokenIdent:
		return u.scanIdent(tok)
	case TokenPunct:
		switch tok.Text {
		case "{":
			u.braceDepth++
			if u.braceDepth > u.nsDepth {
				u.state = stateOpaqueBody
				u.returnDepth = u.nsDepth
			}
		case "}":
			u.braceDepth--
		case "(":
			u.parenDepth++
			u.pendingDoc = ""
		case ")":
			u.parenDepth--
		case "#[":
			// Attributes sit between a doc comment and its declaration;
			// they do not drop the pending comment.
			return u.skipAttribute(tok)
		default:
			u.pendingDoc = ""
		}
		return nil
	default:
		// Any other statement token intervening before a declaration drops
		// the pending comment; it is never inherited forward.
		u.pendingDoc = ""
		return nil
	}
}

func (u *unitScan) scanIdent(tok Token) error {
	// Names reached through member access are never declarations
	// (Foo::class, $obj->function).
	if u.prev.IsPunct("::") || u.prev.IsPunct("->") {
		u.pendingDoc = ""
		return nil
	}
	// Declarations do not occur inside parenthesized expressions.
	if u.parenDepth > 0 {
		u.pendingDoc = ""
		return nil
	}

	switch {
	case eqKeyword(tok, "namespace"):
		return u.parseNamespace(tok)
	case eqKeyword(tok, "use"):
		return u.parseUse(tok)
	case eqKeyword(tok, "abstract"), eqKeyword(tok, "final"), eqKeyword(tok, "readonly"):
		// Modifier between comment and declaring keyword; keep pending.
		return nil
	case eqKeyword(tok, "class"):
		if eqKeyword(u.prev, "new") {
			u.pendingDoc = ""
			return nil
		}
		return u.parseClassLike(tok, KindClass)
	case eqKeyword(tok, "interface"):
		return u.parseClassLike(tok, KindInterface)
	case eqKeyword(tok, "trait"):
		return u.parseClassLike(tok, KindTrait)
	case eqKeyword(tok, "enum"):
		return u.parseClassLike(tok, KindEnum)
	case eqKeyword(tok, "function"):
		return u.parseFunction(tok)
	case eqKeyword(tok, "const"):
		return u.parseConst(tok)
	case u.captureDefines && isDefineCall(tok) && u.peek().IsPunct("("):
		return u.parseDefine(tok)
	default:
		u.pendingDoc = ""
		return nil
	}
}

// parseNamespace handles both the braced and the statement form. The active
// prefix applies until the next namespace declaration or end of unit.
func (u *unitScan) parseNamespace(kw Token) error {
	u.pendingDoc = ""
	u.nsDepth = 0

	tok := u.nextSignificant()
	prefix := ""
	if tok.Kind == TokenIdent {
		prefix = strings.Trim(tok.Text, "\\")
		tok = u.nextSignificant()
	}
	switch {
	case tok.IsPunct("{"):
		u.braceDepth++
		u.nsDepth = u.braceDepth
	case tok.IsPunct(";"):
		u.nsDepth = u.braceDepth
	default:
		return unitErrorf(u.path, kw.Line, "namespace declaration: expected '{' or ';', found %q", tok.Text)
	}
	u.prefix = prefix
	if u.unit.Namespace == "" {
		u.unit.Namespace = prefix
	}
	return nil
}

// parseClassLike registers a class, interface, trait, or enum symbol and
// consumes the heritage clause up to the opening brace; the body itself is
// skipped by the opaque-body state.
func (u *unitScan) parseClassLike(kw Token, kind SymbolKind) error {
	nameTok := u.peek()
	if nameTok.Kind != TokenIdent {
		// Anonymous class expression or a contextual keyword used as plain
		// code; not a declaration.
		u.pendingDoc = ""
		return nil
	}
	u.nextSignificant()
	u.addSymbol(kind, nameTok.Text, kw.Line, nil)

	for {
		tok := u.next()
		switch {
		case tok.Kind == TokenEOF:
			return nil
		case tok.IsPunct("{"):
			u.braceDepth++
			if u.braceDepth > u.nsDepth {
				u.state = stateOpaqueBody
				u.returnDepth = u.nsDepth
			}
			return nil
		case tok.IsPunct(";"):
			return nil
		}
	}
}

// parseFunction registers a top-level function. Closures are expressions,
// not declarations; their bodies are skipped through depth counting.
func (u *unitScan) parseFunction(kw Token) error {
	nameTok := u.peek()
	if nameTok.IsPunct("&") {
		u.nextSignificant()
		nameTok = u.peek()
	}
	if nameTok.Kind != TokenIdent {
		u.pendingDoc = ""
		return nil
	}
	u.nextSignificant()
	u.addSymbol(KindFunction, nameTok.Text, kw.Line, nil)

	depth := 0
	for {
		tok := u.next()
		switch {
		case tok.Kind == TokenEOF:
			return nil
		case tok.IsPunct("("):
			depth++
		case tok.IsPunct(")"):
			depth--
		case tok.IsPunct("{") && depth == 0:
			u.braceDepth++
			if u.braceDepth > u.nsDepth {
				u.state = stateOpaqueBody
				u.returnDepth = u.nsDepth
			}
			return nil
		case tok.IsPunct(";") && depth == 0:
			return nil
		}
	}
}

// parseConst registers each element of a top-level const declaration,
// capturing its literal value expression.
func (u *unitScan) parseConst(kw Token) error {
	doc := u.takePending()
	for {
		nameTok := u.nextSignificant()
		if nameTok.Kind != TokenIdent {
			return unitErrorf(u.path, kw.Line, "const declaration missing name")
		}
		// Typed constants: "const int X = 1" puts the type first.
		if u.peek().Kind == TokenIdent {
			nameTok = u.nextSignificant()
		}
		eq := u.nextSignificant()
		if !eq.IsPunct("=") {
			return unitErrorf(u.path, kw.Line, "const %s missing initializer", nameTok.Text)
		}
		expr, stop, err := u.captureExpr(kw, ",", ";")
		if err != nil {
			return err
		}
		u.appendSymbol(&Symbol{
			FQN:   u.qualify(nameTok.Text),
			Kind:  KindConstant,
			Doc:   doc,
			Value: expr,
			Line:  kw.Line,
		})
		if stop == ";" {
			return nil
		}
	}
}

// skipAttribute consumes a #[...] attribute group, brackets balanced.
func (u *unitScan) skipAttribute(open Token) error {
	depth := 1
	for depth > 0 {
		tok := u.next()
		switch {
		case tok.Kind == TokenEOF:
			return unitErrorf(u.path, open.Line, "unterminated attribute")
		case tok.IsPunct("["):
			depth++
		case tok.IsPunct("]"):
			depth--
		}
	}
	return nil
}

// next returns the next token and maintains the previous-significant-token
// pointer used by the member-access guards.
func (u *unitScan) next() Token {
	tok := u.toks[u.pos]
	if tok.Kind != TokenEOF {
		u.pos++
	}
	if tok.Kind != TokenComment && tok.Kind != TokenDocComment {
		u.prev = u.lastReturned
		u.lastReturned = tok
	}
	return tok
}

// nextSignificant returns the next non-comment token.
func (u *unitScan) nextSignificant() Token {
	for {
		tok := u.next()
		if tok.Kind != TokenComment && tok.Kind != TokenDocComment {
			return tok
		}
	}
}

// peek returns the next non-comment token without consuming it.
func (u *unitScan) peek() Token {
	for i := u.pos; i < len(u.toks); i++ {
		k := u.toks[i].Kind
		if k == TokenComment || k == TokenDocComment {
			continue
		}
		return u.toks[i]
	}
	return u.toks[len(u.toks)-1]
}

func (u *unitScan) takePending() string {
	doc := u.pendingDoc
	u.pendingDoc = ""
	return doc
}

// qualify combines the active namespace prefix with a short name into a
// rooted fully qualified name with normalized separators.
func (u *unitScan) qualify(name string) string {
	name = strings.Trim(name, "\\")
	if u.prefix == "" {
		return "\\" + name
	}
	return "\\" + u.prefix + "\\" + name
}

func (u *unitScan) addSymbol(kind SymbolKind, name string, line int, value aliases.Expr) {
	u.appendSymbol(&Symbol{
		FQN:   u.qualify(name),
		Kind:  kind,
		Doc:   u.takePending(),
		Value: value,
		Line:  line,
	})
}

func (u *unitScan) appendSymbol(sym *Symbol) {
	u.unit.Symbols = append(u.unit.Symbols, sym)
}

func eqKeyword(tok Token, kw string) bool {
	return tok.Kind == TokenIdent && strings.EqualFold(tok.Text, kw)
}

func isDefineCall(tok Token) bool {
	return eqKeyword(tok, "define") || eqKeyword(tok, "\\define")
}

// lastSegment returns the final qualified segment of a name.
func lastSegment(name string) string {
	name = strings.TrimSuffix(name, "\\")
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		return name[i+1:]
	}
	return name
}
