package parser

import (
	"github.com/splanck/viper-sub025/pkg/diag"
	"github.com/splanck/viper-sub025/pkg/source"
	"github.com/splanck/viper-sub025/pkg/token"
)

func (p *Parser) cur() token.Token { return p.peek(0) }

func (p *Parser) peek(off int) token.Token {
	idx := p.pos + off
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF sentinel
	}

	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}

	return t
}

func (p *Parser) atEOF() bool { return p.cur().Kind == token.EOF }

// skipBlankLines consumes consecutive EOL tokens that separate statements.
func (p *Parser) skipBlankLines() {
	for p.cur().Kind == token.EOL {
		p.advance()
	}
}

// expect consumes a token of the given kind, emitting a diagnostic and
// leaving the cursor in place if the kind doesn't match.
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.cur().Kind == k {
		return p.advance(), true
	}

	p.errorf(diag.ErrUnexpectedToken, p.cur().Span, "expected %s, found %s", k, p.cur().Kind)

	return p.cur(), false
}

func (p *Parser) errorf(code string, span source.Span, format string, args ...any) {
	if p.emitter != nil {
		p.emitter.Errorf(code, p.fileID, span, format, args...)
	}
}

// atStmtEnd reports whether the cursor sits at a statement terminator: EOL,
// COLON (single-line statement separator), or EOF.
func (p *Parser) atStmtEnd() bool {
	k := p.cur().Kind
	return k == token.EOL || k == token.COLON || k == token.EOF
}

// syncToStmtBoundary implements the parser's error-recovery heuristic: skip
// tokens through the next EOL (consuming it), stopping early at a token that
// begins a physical line, or at EOF.
func (p *Parser) syncToStmtBoundary() {
	for !p.atEOF() {
		if p.cur().Kind == token.EOL {
			p.advance()
			return
		}

		if p.cur().AtLineStart {
			return
		}

		p.advance()
	}
}

// atKeyword reports whether the current token is one of ks; block parsers
// use it to stop at their caller's terminator without consuming it.
func atKeyword(p *Parser, ks ...token.Kind) bool {
	for _, k := range ks {
		if p.cur().Kind == k {
			return true
		}
	}

	return false
}
