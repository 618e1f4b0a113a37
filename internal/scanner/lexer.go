package scanner

import (
	"strings"
)

// Lex tokenizes one PHP source unit. Text outside <?php ... ?> regions is
// skipped; everything inside becomes tokens. The lexer never fails: malformed
// input degrades to punctuation tokens and the scanner decides what is fatal.
func Lex(src []byte) []Token {
	l := &lexer{src: src, line: 1}
	l.run()
	return l.tokens
}

type lexer struct {
	src    []byte
	pos    int
	line   int
	tokens []Token
}

func (l *lexer) run() {
	l.skipToOpenTag()
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '?' && l.peekAt(1) == '>':
			l.pos += 2
			l.skipToOpenTag()
		case isIdentStart(c) || (c == '\\' && isIdentStart(l.peekAt(1))):
			l.lexName()
		case c == '$':
			l.lexVariable()
		case c == '\'' || c == '"' || c == '`':
			l.lexQuoted(c)
		case c == '<' && l.peekAt(1) == '<' && l.peekAt(2) == '<':
			l.lexHeredoc()
		case c >= '0' && c <= '9':
			l.lexNumber()
		case c == '.' && l.peekAt(1) >= '0' && l.peekAt(1) <= '9':
			l.lexNumber()
		case c == '/' && l.peekAt(1) == '/':
			l.lexLineComment()
		case c == '#' && l.peekAt(1) == '[':
			l.emit(TokenPunct, l.pos, 2)
		case c == '#':
			l.lexLineComment()
		case c == '/' && l.peekAt(1) == '*':
			l.lexBlockComment()
		default:
			l.lexPunct()
		}
	}
	l.tokens = append(l.tokens, Token{Kind: TokenEOF, Pos: l.pos, Line: l.line})
}

// skipToOpenTag advances past inline HTML to just after the next PHP open
// tag, counting lines along the way.
func (l *lexer) skipToOpenTag() {
	for l.pos < len(l.src) {
		if l.src[l.pos] == '<' && l.peekAt(1) == '?' {
			l.pos += 2
			// "<?php" and "<?=" both open PHP mode; the tag text itself is
			// not a token.
			rest := l.src[l.pos:]
			if len(rest) >= 3 && strings.EqualFold(string(rest[:3]), "php") {
				l.pos += 3
			} else if len(rest) >= 1 && rest[0] == '=' {
				l.pos++
			}
			return
		}
		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
}

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) emit(kind TokenKind, start, length int) {
	l.tokens = append(l.tokens, Token{
		Kind: kind,
		Text: string(l.src[start : start+length]),
		Pos:  start,
		Line: l.line,
	})
	l.pos = start + length
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// lexName reads an identifier or qualified name. A backslash continues the
// name only when an identifier follows it, so "A\{" lexes as "A", "\", "{".
func (l *lexer) lexName() {
	start := l.pos
	if l.src[l.pos] == '\\' {
		l.pos++
	}
	for {
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		if l.pos < len(l.src) && l.src[l.pos] == '\\' && l.pos+1 < len(l.src) && isIdentStart(l.src[l.pos+1]) {
			l.pos++
			continue
		}
		break
	}
	l.tokens = append(l.tokens, Token{Kind: TokenIdent, Text: string(l.src[start:l.pos]), Pos: start, Line: l.line})
}

func (l *lexer) lexVariable() {
	start := l.pos
	l.pos++ // $
	if l.pos < len(l.src) && l.src[l.pos] == '$' {
		l.pos++ // variable variable
	}
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	l.tokens = append(l.tokens, Token{Kind: TokenVariable, Text: string(l.src[start:l.pos]), Pos: start, Line: l.line})
}

// lexQuoted reads a quoted string. Interpolation inside double quotes is not
// parsed; the whole literal is one token, which is all the scanner needs.
func (l *lexer) lexQuoted(quote byte) {
	start := l.pos
	startLine := l.line
	l.pos++
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos += 2
			continue
		}
		if c == '\n' {
			l.line++
		}
		l.pos++
		if c == quote {
			break
		}
	}
	l.tokens = append(l.tokens, Token{Kind: TokenString, Text: string(l.src[start:l.pos]), Pos: start, Line: startLine})
}

// lexHeredoc reads <<<LABEL ... LABEL and the nowdoc variant as one string
// token. The terminator is the first line whose leading identifier matches
// the label.
func (l *lexer) lexHeredoc() {
	start := l.pos
	startLine := l.line
	l.pos += 3
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
		l.pos++
	}
	quoted := byte(0)
	if l.pos < len(l.src) && (l.src[l.pos] == '\'' || l.src[l.pos] == '"') {
		quoted = l.src[l.pos]
		l.pos++
	}
	labelStart := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	label := string(l.src[labelStart:l.pos])
	if quoted != 0 && l.pos < len(l.src) && l.src[l.pos] == quoted {
		l.pos++
	}
	for l.pos < len(l.src) {
		// Advance to the next line and test it for the closing label.
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}
		if l.pos >= len(l.src) {
			break
		}
		l.pos++
		l.line++
		lineStart := l.pos
		for lineStart < len(l.src) && (l.src[lineStart] == ' ' || l.src[lineStart] == '\t') {
			lineStart++
		}
		if label != "" && strings.HasPrefix(string(l.src[lineStart:]), label) {
			l.pos = lineStart + len(label)
			break
		}
	}
	l.tokens = append(l.tokens, Token{Kind: TokenString, Text: string(l.src[start:l.pos]), Pos: start, Line: startLine})
}

func (l *lexer) lexNumber() {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '_' || c == 'x' || c == 'X' ||
			c == 'b' || c == 'B' || c == 'e' || c == 'E' ||
			(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			l.pos++
			continue
		}
		break
	}
	l.tokens = append(l.tokens, Token{Kind: TokenNumber, Text: string(l.src[start:l.pos]), Pos: start, Line: l.line})
}

func (l *lexer) lexLineComment() {
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		// A close tag ends a line comment in PHP.
		if l.src[l.pos] == '?' && l.peekAt(1) == '>' {
			break
		}
		l.pos++
	}
	l.tokens = append(l.tokens, Token{Kind: TokenComment, Text: string(l.src[start:l.pos]), Pos: start, Line: l.line})
}

func (l *lexer) lexBlockComment() {
	start := l.pos
	startLine := l.line
	l.pos += 2
	for l.pos < len(l.src) {
		if l.src[l.pos] == '*' && l.peekAt(1) == '/' {
			l.pos += 2
			break
		}
		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
	text := string(l.src[start:l.pos])
	kind := TokenComment
	if strings.HasPrefix(text, "/**") && len(text) > 4 {
		kind = TokenDocComment
	}
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Pos: start, Line: startLine})
}

// lexPunct emits one punctuation token. Only the operators the scanner keys
// on are lexed multi-char; the rest come out one byte at a time, which the
// verbatim expression capture reassembles anyway.
func (l *lexer) lexPunct() {
	if l.src[l.pos] == ':' && l.peekAt(1) == ':' {
		l.emit(TokenPunct, l.pos, 2)
		return
	}
	if l.src[l.pos] == '-' && l.peekAt(1) == '>' {
		l.emit(TokenPunct, l.pos, 2)
		return
	}
	l.emit(TokenPunct, l.pos, 1)
}
