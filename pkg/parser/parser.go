// Package parser implements the recursive-descent BASIC parser: statement
// dispatch driven by keyword, Pratt/precedence-climbing expression parsing,
// and panic-free error recovery that always returns a well-formed Program
// even over malformed input.
package parser

import (
	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/diag"
	"github.com/splanck/viper-sub025/pkg/lexer"
	"github.com/splanck/viper-sub025/pkg/source"
	"github.com/splanck/viper-sub025/pkg/token"
)

// namedLabelBase is the first synthetic integer assigned to a named label
// (Invariant 6).
const namedLabelBase int64 = 1_000_000

// Parser consumes a token stream and builds an ast.Program. It never
// panics on malformed input: every failure path emits a diagnostic and
// synchronises to the next statement boundary.
type Parser struct {
	toks    []token.Token
	pos     int
	fileID  source.FileID
	emitter *diag.Emitter

	labelNames  map[string]int64
	nextLabelID int64
}

// New constructs a parser over a pre-scanned token stream.
func New(toks []token.Token, fileID source.FileID, emitter *diag.Emitter) *Parser {
	return &Parser{
		toks:        toks,
		fileID:      fileID,
		emitter:     emitter,
		labelNames:  make(map[string]int64),
		nextLabelID: namedLabelBase,
	}
}

// ParseProgram tokenizes src and parses it into a Program. A nil emitter is
// allowed: the lexer and parser then drop their diagnostics.
func ParseProgram(src []byte, fileID source.FileID, emitter *diag.Emitter) *ast.Program {
	toks := lexer.Tokenize(src, fileID, emitter)
	p := New(toks, fileID, emitter)

	return p.Parse()
}

// Parse consumes the entire token stream, returning a Program whose procs
// and main are populated by top-level statement dispatch: declarations
// accumulate into Procs, everything else into Main.
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{}

	for !p.atEOF() {
		p.skipBlankLines()

		if p.atEOF() {
			break
		}

		stmt := p.parseTopLevel()
		if stmt == nil {
			continue
		}

		switch stmt.(type) {
		case *ast.FunctionDecl, *ast.SubDecl, *ast.ClassDecl, *ast.TypeDecl,
			*ast.InterfaceDecl, *ast.UsingDecl:
			prog.Procs = append(prog.Procs, stmt)
		default:
			prog.Main = append(prog.Main, stmt)
		}
	}

	return prog
}

func (p *Parser) parseTopLevel() ast.Stmt {
	label, hasLabel := p.consumeLabelPrefix()

	var stmt ast.Stmt
	switch p.cur().Kind {
	case token.FUNCTION:
		stmt = p.parseFunctionDecl()
	case token.SUB:
		stmt = p.parseSubDecl()
	case token.CLASS:
		stmt = p.parseClassDecl()
	case token.TYPE:
		stmt = p.parseTypeDecl()
	case token.INTERFACE:
		stmt = p.parseInterfaceDecl()
	case token.USING:
		stmt = p.parseUsingDecl()
	default:
		stmt = p.parseStatement()
	}

	if hasLabel {
		span := label.Location()
		if stmt != nil {
			span = span.Join(stmt.Location())
		}

		return &ast.StmtList{Base: ast.Base{Span: span}, Stmts: []ast.Stmt{label, stmt}}
	}

	return stmt
}

// consumeLabelPrefix recognises a line-number or Name: label at the start of
// a physical line and returns it alongside whether one was present.
func (p *Parser) consumeLabelPrefix() (*ast.LabelStmt, bool) {
	t := p.cur()
	if !t.AtLineStart {
		return nil, false
	}

	if t.Kind == token.INT {
		p.advance()
		return &ast.LabelStmt{Base: ast.Base{Span: t.Span}, Value: t.Int}, true
	}

	if t.Kind == token.IDENT && p.peek(1).Kind == token.COLON {
		name := lowerName(t.Text)
		id, ok := p.labelNames[name]
		if !ok {
			id = p.nextLabelID
			p.nextLabelID++
			p.labelNames[name] = id
		}

		span := t.Span.Join(p.peek(1).Span)
		p.advance() // ident
		p.advance() // colon

		return &ast.LabelStmt{Base: ast.Base{Span: span}, Value: id}, true
	}

	return nil, false
}

func lowerName(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}

	return string(b)
}
