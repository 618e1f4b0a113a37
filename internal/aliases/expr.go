package aliases

// Expr is a captured literal expression: an ordered list of tokens that
// reconstruct the original source text when rewritten. Qualified names are
// held as NameRef tokens instead of inline text so the rewrite step can swap
// in an alias (or the full name) without any risk of matching legitimate
// expression text.
type Expr []ExprToken

// ExprToken is either a TextRun or a NameRef.
type ExprToken interface {
	exprToken()
}

// TextRun is a verbatim slice of expression text, whitespace included.
type TextRun string

func (TextRun) exprToken() {}

// NameRef stands in for one qualified name occurrence. The id is a stable
// content hash of the original name, identical across occurrences of the
// same name within a unit.
type NameRef struct {
	Name string
	id   uint64
}

func (NameRef) exprToken() {}

// ID returns the content-hash identity of the reference.
func (r NameRef) ID() uint64 { return r.id }

// Append helpers keep scanner call sites terse.

// AppendText appends a verbatim text run, merging with a trailing run.
func (e Expr) AppendText(s string) Expr {
	if s == "" {
		return e
	}
	if n := len(e); n > 0 {
		if run, ok := e[n-1].(TextRun); ok {
			e[n-1] = TextRun(string(run) + s)
			return e
		}
	}
	return append(e, TextRun(s))
}

// AppendRef appends a name reference.
func (e Expr) AppendRef(ref NameRef) Expr {
	return append(e, ref)
}

// IsEmpty reports whether the expression has no tokens.
func (e Expr) IsEmpty() bool { return len(e) == 0 }
