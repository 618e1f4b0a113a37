package scanner

// TokenKind classifies lexer output. The scanner works purely on this token
// stream; it never re-inspects raw source except through token offsets when
// capturing literal expressions verbatim.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	// TokenIdent covers identifiers and qualified names. Qualified names are
	// lexed as a single token including their backslash separators, with an
	// optional leading separator ("\App\Util").
	TokenIdent
	TokenVariable // $name
	TokenString   // quoted string, heredoc, or nowdoc, delimiters included
	TokenNumber
	TokenDocComment // /** ... */
	TokenComment    // //, #, /* ... */
	TokenPunct      // operators and punctuation; "::", "->", "#[" are multi-char
)

// Token is one lexical token. Text is the exact source slice, so the token
// ends at Pos+len(Text).
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
	Line int
}

// End returns the byte offset one past the token text.
func (t Token) End() int { return t.Pos + len(t.Text) }

// IsPunct reports whether the token is the given punctuation text.
func (t Token) IsPunct(s string) bool {
	return t.Kind == TokenPunct && t.Text == s
}
