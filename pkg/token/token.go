// Package token defines the lexical token kinds produced by pkg/lexer and
// consumed by pkg/parser.
package token

import "github.com/splanck/viper-sub025/pkg/source"

// Kind identifies the category of a token.  It is a closed set: keywords,
// punctuation, identifiers, integer/float/string literals, end-of-line and
// end-of-input.
type Kind uint

// Token kinds.
const (
	ILLEGAL Kind = iota
	EOF
	EOL // newline, statement separator

	IDENT
	INT
	FLOAT
	STRING

	// Punctuation / operators.
	LPAREN
	RPAREN
	COMMA
	SEMICOLON
	COLON
	HASH // '#' used for channel numbers, e.g. OPEN ... AS #1
	PLUS
	MINUS
	STAR
	SLASH
	BACKSLASH // integer division '\'
	CARET     // '^' power
	EQ        // '='
	NE        // '<>'
	LT
	LE
	GT
	GE
	DOT

	keywordBegin
	LET
	DIM
	REDIM
	CONST
	STATIC
	SHARED
	PRINT
	WRITE
	INPUT
	LINE
	OPEN
	CLOSE
	SEEK
	IF
	THEN
	ELSE
	ELSEIF
	END
	SELECT
	CASE
	WHILE
	DO
	LOOP
	UNTIL
	FOR
	TO
	STEP
	NEXT
	EXIT
	GOTO
	GOSUB
	RETURN
	ON
	ERROR
	RESUME
	TRY
	CATCH
	FUNCTION
	SUB
	CLASS
	TYPE
	INTERFACE
	IMPLEMENTS
	USING
	ME
	NEW
	IS
	AS
	ADDRESSOF
	MOD
	AND
	OR
	ANDALSO
	ORELSE
	NOT
	TRUE
	FALSE
	DELETE
	PROPERTY
	GET
	SET
	PUBLIC
	PRIVATE
	CONSTRUCTOR
	DESTRUCTOR
	METHOD
	RANDOMIZE
	BEEP
	CLS
	COLOR
	LOCATE
	SLEEP
	CURSOR
	ALTSCREEN
	keywordEnd
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", EOL: "EOL",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING",
	LPAREN: "(", RPAREN: ")", COMMA: ",", SEMICOLON: ";", COLON: ":",
	HASH: "#", PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", BACKSLASH: `\`,
	CARET: "^", EQ: "=", NE: "<>", LT: "<", LE: "<=", GT: ">", GE: ">=", DOT: ".",
	LET: "LET", DIM: "DIM", REDIM: "REDIM", CONST: "CONST", STATIC: "STATIC",
	SHARED: "SHARED", PRINT: "PRINT", WRITE: "WRITE", INPUT: "INPUT", LINE: "LINE",
	OPEN: "OPEN", CLOSE: "CLOSE", SEEK: "SEEK", IF: "IF", THEN: "THEN", ELSE: "ELSE",
	ELSEIF: "ELSEIF", END: "END", SELECT: "SELECT", CASE: "CASE", WHILE: "WHILE",
	DO: "DO", LOOP: "LOOP", UNTIL: "UNTIL", FOR: "FOR", TO: "TO", STEP: "STEP",
	NEXT: "NEXT", EXIT: "EXIT", GOTO: "GOTO", GOSUB: "GOSUB", RETURN: "RETURN",
	ON: "ON", ERROR: "ERROR", RESUME: "RESUME", TRY: "TRY", CATCH: "CATCH",
	FUNCTION: "FUNCTION", SUB: "SUB", CLASS: "CLASS", TYPE: "TYPE",
	INTERFACE: "INTERFACE", IMPLEMENTS: "IMPLEMENTS", USING: "USING", ME: "ME",
	NEW: "NEW", IS: "IS", AS: "AS", ADDRESSOF: "ADDRESSOF", MOD: "MOD", AND: "AND",
	OR: "OR", ANDALSO: "ANDALSO", ORELSE: "ORELSE", NOT: "NOT", TRUE: "TRUE",
	FALSE: "FALSE", DELETE: "DELETE", PROPERTY: "PROPERTY", GET: "GET", SET: "SET",
	PUBLIC: "PUBLIC", PRIVATE: "PRIVATE", CONSTRUCTOR: "CONSTRUCTOR",
	DESTRUCTOR: "DESTRUCTOR", METHOD: "METHOD", RANDOMIZE: "RANDOMIZE", BEEP: "BEEP",
	CLS: "CLS", COLOR: "COLOR", LOCATE: "LOCATE", SLEEP: "SLEEP", CURSOR: "CURSOR",
	ALTSCREEN: "ALTSCREEN",
}

// String returns the canonical spelling of a token kind.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}

	return "UNKNOWN"
}

// keywords maps the lower-cased spelling of each keyword to its Kind.  BASIC
// keywords are case-insensitive; the lexer lower-cases identifiers before
// looking them up here.
var keywords map[string]Kind

func init() {
	keywords = make(map[string]Kind)

	for k := keywordBegin + 1; k < keywordEnd; k++ {
		keywords[lower(names[k])] = k
	}
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}

	return string(b)
}

// Lookup returns the keyword Kind for a lower-cased identifier, or
// (ILLEGAL, false) if it is not a keyword.
func Lookup(lowerIdent string) (Kind, bool) {
	k, ok := keywords[lowerIdent]
	return k, ok
}

// Token associates a token kind with a source span and, for identifiers and
// literals, the decoded lexeme/value.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string // canonical lowercased text for keywords; raw spelling for IDENT
	Int   int64
	Float float64
	Str   string // decoded string literal payload
	// AtLineStart records whether this token is the first non-trivial token
	// on its physical line.  The parser uses this to recognise line-number
	// and named-label prefixes, which only have label meaning at the start
	// of a line.
	AtLineStart bool
}
