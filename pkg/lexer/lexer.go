// Package lexer tokenises BASIC source text into a flat token stream
// consumed by pkg/parser.  It performs no recovery of its own; malformed
// input still yields a best-effort token stream plus diagnostics, leaving
// recovery to the parser.
package lexer

import (
	"strconv"
	"strings"

	"github.com/splanck/viper-sub025/pkg/diag"
	"github.com/splanck/viper-sub025/pkg/source"
	"github.com/splanck/viper-sub025/pkg/token"
)

// Lexer consumes UTF-8 bytes and emits token.Token values.
type Lexer struct {
	src     []byte
	pos     int
	fileID  source.FileID
	emitter *diag.Emitter
	// atLineStart tracks whether the next non-whitespace token begins a
	// physical line, so Tokenize can flag the token that starts a label.
	atLineStart bool
}

// New constructs a lexer over src.  emitter may be nil, in which case lexer
// errors are silently dropped (useful for quick scans); the parser always
// supplies a live emitter.
func New(src []byte, fileID source.FileID, emitter *diag.Emitter) *Lexer {
	return &Lexer{src: src, fileID: fileID, emitter: emitter, atLineStart: true}
}

// Tokenize scans the entire input, returning every token including a final
// EOF sentinel.
func Tokenize(src []byte, fileID source.FileID, emitter *diag.Emitter) []token.Token {
	l := New(src, fileID, emitter)

	var toks []token.Token
	for {
		t := l.Next()
		toks = append(toks, t)

		if t.Kind == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) errorf(span source.Span, code, format string, args ...any) {
	if l.emitter != nil {
		l.emitter.Errorf(code, l.fileID, span, format, args...)
	}
}

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}

	return l.src[l.pos]
}

func (l *Lexer) byteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}

	return l.src[l.pos+off]
}

// Next scans and returns the next token.
func (l *Lexer) Next() token.Token {
	l.skipWhitespaceAndComments()

	start := l.pos

	if l.pos >= len(l.src) {
		return token.Token{Kind: token.EOF, Span: source.NewSpan(start, start)}
	}

	c := l.peekByte()

	switch {
	case c == '\n':
		l.pos++
		l.atLineStart = true
		return token.Token{Kind: token.EOL, Span: source.NewSpan(start, l.pos)}
	case isDigit(c):
		return l.scanNumber()
	case c == '"':
		return l.scanString()
	case isIdentStart(c):
		return l.scanIdentOrKeyword()
	default:
		return l.scanPunct()
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.src) {
		c := l.peekByte()

		switch {
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '\'':
			l.skipToEOL()
		case c == 'R' || c == 'r':
			if l.matchKeywordAt(l.pos, "rem") {
				l.skipToEOL()
			} else {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) matchKeywordAt(pos int, kw string) bool {
	if pos+len(kw) > len(l.src) {
		return false
	}

	for i := 0; i < len(kw); i++ {
		if lowerByte(l.src[pos+i]) != kw[i] {
			return false
		}
	}

	// must be followed by a non-identifier character
	if pos+len(kw) < len(l.src) && isIdentPart(l.src[pos+len(kw)]) {
		return false
	}

	return true
}

func (l *Lexer) skipToEOL() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isSigil(c byte) bool {
	return c == '$' || c == '%' || c == '!' || c == '#'
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}

	return c
}

func (l *Lexer) markLineStart() (wasStart bool) {
	wasStart = l.atLineStart
	l.atLineStart = false

	return wasStart
}

func (l *Lexer) scanIdentOrKeyword() token.Token {
	wasLineStart := l.markLineStart()
	start := l.pos

	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}

	// A named label "Name:" is only recognised by the parser (it needs to
	// see the following COLON); the lexer just emits IDENT or a keyword.
	raw := string(l.src[start:l.pos])
	lowered := strings.ToLower(raw)

	if kind, ok := token.Lookup(lowered); ok {
		return token.Token{Kind: kind, Span: source.NewSpan(start, l.pos), Text: lowered, AtLineStart: wasLineStart}
	}

	// Optional trailing sigil, e.g. NAME$, COUNT%.
	if l.pos < len(l.src) && isSigil(l.src[l.pos]) {
		l.pos++
		raw = string(l.src[start:l.pos])
	}

	return token.Token{Kind: token.IDENT, Span: source.NewSpan(start, l.pos), Text: raw, AtLineStart: wasLineStart}
}

func (l *Lexer) scanNumber() token.Token {
	wasLineStart := l.markLineStart()
	start := l.pos

	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}

	isFloat := false

	if l.peekByte() == '.' && isDigit(l.byteAt(1)) {
		isFloat = true
		l.pos++

		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}

	digitsEnd := l.pos
	numText := string(l.src[start:digitsEnd])

	// Numeric suffixes: % (int16), & (int32/64), # (double), ! (single).
	suffix := byte(0)
	if l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '%', '&', '#', '!':
			suffix = l.src[l.pos]
			l.pos++
		}
	}

	span := source.NewSpan(start, l.pos)

	if isFloat || suffix == '#' || suffix == '!' {
		f, err := strconv.ParseFloat(numText, 64)
		if err != nil {
			l.errorf(span, "ERR_Lexer_BadFloat", "invalid float literal %q", numText)
		}

		return token.Token{Kind: token.FLOAT, Span: span, Float: f, Text: string(l.src[start:l.pos]), AtLineStart: wasLineStart}
	}

	iv, err := strconv.ParseInt(numText, 10, 64)
	if err != nil {
		l.errorf(span, "ERR_Lexer_BadInt", "invalid integer literal %q", numText)
	}

	return token.Token{Kind: token.INT, Span: span, Int: iv, Text: string(l.src[start:l.pos]), AtLineStart: wasLineStart}
}

func (l *Lexer) scanString() token.Token {
	l.markLineStart()
	start := l.pos
	l.pos++ // opening quote

	var sb strings.Builder

	for l.pos < len(l.src) && l.src[l.pos] != '"' {
		c := l.src[l.pos]

		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos++
			sb.WriteByte(decodeEscape(l.src[l.pos]))
			l.pos++

			continue
		}

		if c == '\n' {
			break
		}

		sb.WriteByte(c)
		l.pos++
	}

	if l.pos >= len(l.src) || l.src[l.pos] != '"' {
		l.errorf(source.NewSpan(start, l.pos), "ERR_Lexer_UnterminatedString", "unterminated string literal")
	} else {
		l.pos++ // closing quote
	}

	return token.Token{Kind: token.STRING, Span: source.NewSpan(start, l.pos), Str: sb.String()}
}

func decodeEscape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case '\\':
		return '\\'
	case '"':
		return '"'
	default:
		return c
	}
}

func (l *Lexer) scanPunct() token.Token {
	l.markLineStart()
	start := l.pos
	c := l.src[l.pos]

	two := func(k token.Kind) token.Token {
		l.pos += 2
		return token.Token{Kind: k, Span: source.NewSpan(start, l.pos)}
	}
	one := func(k token.Kind) token.Token {
		l.pos++
		return token.Token{Kind: k, Span: source.NewSpan(start, l.pos)}
	}

	switch c {
	case '(':
		return one(token.LPAREN)
	case ')':
		return one(token.RPAREN)
	case ',':
		return one(token.COMMA)
	case ';':
		return one(token.SEMICOLON)
	case ':':
		return one(token.COLON)
	case '#':
		return one(token.HASH)
	case '+':
		return one(token.PLUS)
	case '-':
		return one(token.MINUS)
	case '*':
		return one(token.STAR)
	case '/':
		return one(token.SLASH)
	case '\\':
		return one(token.BACKSLASH)
	case '^':
		return one(token.CARET)
	case '.':
		return one(token.DOT)
	case '<':
		if l.byteAt(1) == '>' {
			return two(token.NE)
		}

		if l.byteAt(1) == '=' {
			return two(token.LE)
		}

		return one(token.LT)
	case '>':
		if l.byteAt(1) == '=' {
			return two(token.GE)
		}

		return one(token.GT)
	case '=':
		return one(token.EQ)
	default:
		l.errorf(source.NewSpan(start, start+1), "ERR_Lexer_UnknownChar", "unexpected character %q", string(c))
		l.pos++

		return token.Token{Kind: token.ILLEGAL, Span: source.NewSpan(start, l.pos)}
	}
}
