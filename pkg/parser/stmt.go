package parser

import (
	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/diag"
	"github.com/splanck/viper-sub025/pkg/source"
	"github.com/splanck/viper-sub025/pkg/token"
)

// parseStatement parses one statement at the current position. The caller
// (parseTopLevel, or a block-body loop) is responsible for consuming the
// trailing EOL/COLON terminator.
func (p *Parser) parseStatement() ast.Stmt {
	t := p.cur()

	switch t.Kind {
	case token.LET:
		return p.parseLet(true)
	case token.DIM:
		return p.parseDim()
	case token.REDIM:
		return p.parseReDim()
	case token.CONST:
		return p.parseConst()
	case token.STATIC:
		return p.parseStatic()
	case token.SHARED:
		return p.parseShared()
	case token.PRINT:
		return p.parsePrint()
	case token.WRITE:
		return p.parsePrintCh(ast.ModeWrite)
	case token.INPUT:
		return p.parseInput()
	case token.LINE:
		return p.parseLineInput()
	case token.OPEN:
		return p.parseOpen()
	case token.CLOSE:
		return p.parseClose()
	case token.SEEK:
		return p.parseSeek()
	case token.IF:
		return p.parseIf()
	case token.SELECT:
		return p.parseSelectCase()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDo()
	case token.FOR:
		return p.parseFor()
	case token.NEXT:
		return p.parseNext()
	case token.EXIT:
		return p.parseExit()
	case token.GOTO:
		return p.parseGoto()
	case token.GOSUB:
		return p.parseGosub()
	case token.RETURN:
		return p.parseReturn()
	case token.ON:
		return p.parseOnError()
	case token.RESUME:
		return p.parseResume()
	case token.TRY:
		return p.parseTryCatch()
	case token.END:
		return p.parseEnd()
	case token.CLS:
		p.advance()
		return &ast.Cls{Base: ast.Base{Span: t.Span}}
	case token.CURSOR:
		return p.parseCursor()
	case token.ALTSCREEN:
		return p.parseAltScreen()
	case token.COLOR:
		return p.parseColor()
	case token.LOCATE:
		return p.parseLocate()
	case token.SLEEP:
		p.advance()
		ms := p.parseExpr()

		return &ast.Sleep{Base: ast.Base{Span: t.Span.Join(ms.Location())}, Millis: ms}
	case token.BEEP:
		p.advance()
		return &ast.Beep{Base: ast.Base{Span: t.Span}}
	case token.RANDOMIZE:
		p.advance()
		seed := p.parseExpr()

		return &ast.Randomize{Base: ast.Base{Span: t.Span.Join(seed.Location())}, Seed: seed}
	case token.DELETE:
		p.advance()
		target := p.parseExpr()

		return &ast.Delete{Base: ast.Base{Span: t.Span.Join(target.Location())}, Target: target}
	case token.IDENT:
		return p.parseIdentLedStatement()
	case token.EOL, token.EOF:
		return nil
	default:
		p.errorf(diag.ErrUnexpectedToken, t.Span, "unexpected token %s at start of statement", t.Kind)
		p.syncToStmtBoundary()

		return nil
	}
}

// parseStmtListUntilTerm parses colon-separated statements on a single
// logical line (used for single-line IF/THEN bodies).
func (p *Parser) parseStmtListUntilTerm() ast.Stmt {
	first := p.parseStatement()

	if p.cur().Kind != token.COLON {
		return first
	}

	stmts := []ast.Stmt{}
	if first != nil {
		stmts = append(stmts, first)
	}

	for p.cur().Kind == token.COLON {
		p.advance()

		s := p.parseStatement()
		if s != nil {
			stmts = append(stmts, s)
		}
	}

	return &ast.StmtList{Base: ast.Base{Span: spanOfStmts(stmts)}, Stmts: stmts}
}

// spanOfStmts joins the locations of a non-empty statement list; callers
// guarantee at least one non-nil element survives parse errors.
func spanOfStmts(stmts []ast.Stmt) source.Span {
	var sp source.Span

	first := true
	for _, s := range stmts {
		if s == nil {
			continue
		}

		if first {
			sp = s.Location()
			first = false
		} else {
			sp = sp.Join(s.Location())
		}
	}

	return sp
}

// parseBlockBody parses a sequence of (possibly labelled) statements,
// stopping when the current token is one of the supplied terminator
// keywords or EOF.
func (p *Parser) parseBlockBody(terminators ...token.Kind) []ast.Stmt {
	var body []ast.Stmt

	for {
		p.skipBlankLines()

		if p.atEOF() || atKeyword(p, terminators...) {
			return body
		}

		label, hasLabel := p.consumeLabelPrefix()
		stmt := p.parseStmtListUntilTerm()

		if hasLabel {
			sp := label.Location()
			if stmt != nil {
				sp = sp.Join(stmt.Location())
			}

			body = append(body, &ast.StmtList{Base: ast.Base{Span: sp}, Stmts: []ast.Stmt{label, stmt}})
		} else if stmt != nil {
			body = append(body, stmt)
		}

		if p.cur().Kind == token.EOL {
			p.advance()
		} else if !p.atEOF() && !atKeyword(p, terminators...) {
			// Statement didn't consume its terminator (recovery path).
			p.syncToStmtBoundary()
		}
	}
}

func (p *Parser) parseIdentLedStatement() ast.Stmt {
	// IDENT can begin: a bare Let (implicit LET), a call statement, or a
	// Swap.  Peek to disambiguate.
	return p.parseLet(false)
}

func (p *Parser) parseLet(consumeLet bool) ast.Stmt {
	start := p.cur()
	if consumeLet {
		p.advance()
	}

	target := p.parsePostfix(p.parsePrimary())

	if p.cur().Kind == token.COMMA {
		// A swap is written as a bare "a, b" (there is no SWAP keyword):
		// LET/implicit-LET never takes a comma, so "IDENT , IDENT" can only
		// be a swap.
		p.advance()

		rhs := p.parsePostfix(p.parsePrimary())

		return &ast.Swap{Base: ast.Base{Span: start.Span.Join(rhs.Location())}, LHS: target, RHS: rhs}
	}

	if !consumeLet && p.cur().Kind != token.EQ {
		// Not an assignment: treat as a bare call statement.
		return &ast.CallStmt{Base: ast.Base{Span: start.Span.Join(target.Location())}, Call: target}
	}

	if _, ok := p.expect(token.EQ); !ok {
		// LET without '=': the error is reported; keep the target as a call.
		return &ast.CallStmt{Base: ast.Base{Span: start.Span.Join(target.Location())}, Call: target}
	}

	rhs := p.parseExpr()

	return &ast.Let{Base: ast.Base{Span: start.Span.Join(rhs.Location())}, Target: target, Expr: rhs}
}

func (p *Parser) parseTypeAnnotation() ast.Type {
	switch p.cur().Kind {
	case token.AS:
		p.advance()

		switch p.cur().Kind {
		case token.IDENT:
			name := lowerName(p.advance().Text)

			switch name {
			case "integer":
				return ast.I64
			case "double", "single":
				return ast.F64
			case "string":
				return ast.Str
			case "boolean":
				return ast.Bool
			default:
				return ast.I64
			}
		default:
			p.advance()
			return ast.I64
		}
	default:
		return ast.I64
	}
}

func (p *Parser) parseDim() ast.Stmt {
	start := p.advance() // DIM
	nameTok, _ := p.expect(token.IDENT)

	var size ast.Expr

	isArray := false
	if p.cur().Kind == token.LPAREN {
		isArray = true
		p.advance()

		if p.cur().Kind != token.RPAREN {
			size = p.parseExpr()
		}

		p.expect(token.RPAREN)
	}

	typ := p.parseTypeAnnotation()

	return &ast.Dim{Base: ast.Base{Span: start.Span.Join(nameTok.Span)}, Name: nameTok.Text, IsArray: isArray, Size: size, Type: typ}
}

func (p *Parser) parseReDim() ast.Stmt {
	start := p.advance() // REDIM
	nameTok, _ := p.expect(token.IDENT)
	p.expect(token.LPAREN)
	size := p.parseExpr()
	p.expect(token.RPAREN)

	return &ast.ReDim{Base: ast.Base{Span: start.Span.Join(size.Location())}, Name: nameTok.Text, Size: size}
}

func (p *Parser) parseConst() ast.Stmt {
	start := p.advance() // CONST
	nameTok, _ := p.expect(token.IDENT)
	p.expect(token.EQ)
	init := p.parseExpr()

	return &ast.Const{Base: ast.Base{Span: start.Span.Join(init.Location())}, Name: nameTok.Text, Initializer: init}
}

func (p *Parser) parseStatic() ast.Stmt {
	start := p.advance() // STATIC
	nameTok, _ := p.expect(token.IDENT)
	typ := p.parseTypeAnnotation()

	return &ast.Static{Base: ast.Base{Span: start.Span.Join(nameTok.Span)}, Name: nameTok.Text, Type: typ}
}

func (p *Parser) parseShared() ast.Stmt {
	start := p.advance() // SHARED
	var names []string

	for {
		nameTok, ok := p.expect(token.IDENT)
		if !ok {
			break
		}

		names = append(names, nameTok.Text)

		if p.cur().Kind != token.COMMA {
			break
		}

		p.advance()
	}

	return &ast.Shared{Base: ast.Base{Span: start.Span}, Names: names}
}

func (p *Parser) parsePrint() ast.Stmt {
	start := p.advance() // PRINT

	if p.cur().Kind == token.HASH {
		return p.parsePrintChAfterKeyword(start.Span, ast.ModePrint)
	}

	var items []ast.PrintItem

	for !p.atStmtEnd() {
		switch p.cur().Kind {
		case token.COMMA:
			p.advance()
			items = append(items, ast.PrintItem{Kind: ast.PrintItemComma})
		case token.SEMICOLON:
			p.advance()
			items = append(items, ast.PrintItem{Kind: ast.PrintItemSemicolon})
		default:
			e := p.parseExpr()
			items = append(items, ast.PrintItem{Kind: ast.PrintItemExpr, Expr: e})
		}
	}

	return &ast.Print{Base: ast.Base{Span: start.Span}, Items: items}
}

func (p *Parser) parsePrintCh(mode ast.PrintChMode) ast.Stmt {
	start := p.advance() // WRITE
	return p.parsePrintChAfterKeyword(start.Span, mode)
}

func (p *Parser) parsePrintChAfterKeyword(start source.Span, mode ast.PrintChMode) ast.Stmt {
	p.expect(token.HASH)
	channel := p.parseExpr()
	p.expect(token.COMMA)

	var args []ast.Expr
	for !p.atStmtEnd() {
		args = append(args, p.parseExpr())

		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}

		break
	}

	return &ast.PrintCh{Base: ast.Base{Span: start}, Mode: mode, Channel: channel, Args: args, TrailingNewline: true}
}

func (p *Parser) parseInput() ast.Stmt {
	start := p.advance() // INPUT

	if p.cur().Kind == token.HASH {
		return p.parseInputCh(start)
	}

	var prompt ast.Expr
	if p.cur().Kind == token.STRING {
		strTok := p.advance()
		prompt = &ast.StringExpr{Base: ast.Base{Span: strTok.Span}, Value: strTok.Str}

		if p.cur().Kind == token.SEMICOLON || p.cur().Kind == token.COMMA {
			p.advance()
		}
	}

	var vars []string
	for {
		nameTok, ok := p.expect(token.IDENT)
		if !ok {
			break
		}

		vars = append(vars, nameTok.Text)

		if p.cur().Kind != token.COMMA {
			break
		}

		p.advance()
	}

	return &ast.Input{Base: ast.Base{Span: start.Span}, Prompt: prompt, Vars: vars}
}

func (p *Parser) parseInputCh(start token.Token) ast.Stmt {
	p.expect(token.HASH)
	chTok, _ := p.expect(token.INT)
	p.expect(token.COMMA)

	var targets []ast.Param
	for {
		nameTok, ok := p.expect(token.IDENT)
		if !ok {
			break
		}

		targets = append(targets, ast.Param{Name: nameTok.Text})

		if p.cur().Kind != token.COMMA {
			break
		}

		p.advance()
	}

	return &ast.InputCh{Base: ast.Base{Span: start.Span}, Channel: chTok.Int, Targets: targets}
}

func (p *Parser) parseLineInput() ast.Stmt {
	start := p.advance() // LINE
	p.expect(token.INPUT)
	p.expect(token.HASH)
	channel := p.parseExpr()
	p.expect(token.COMMA)

	target := p.parsePostfix(p.parsePrimary())
	if !isLvalue(target) {
		p.errorf(diag.ErrExpectedVariable, target.Location(), "expected variable")
	}

	return &ast.LineInputCh{Base: ast.Base{Span: start.Span.Join(target.Location())}, Channel: channel, Target: target}
}

func isLvalue(e ast.Expr) bool {
	switch e.(type) {
	case *ast.VarExpr, *ast.ArrayExpr, *ast.MemberAccessExpr:
		return true
	default:
		return false
	}
}

func (p *Parser) parseOpen() ast.Stmt {
	start := p.advance() // OPEN
	path := p.parseExpr()
	p.expect(token.FOR)

	var mode ast.OpenMode

	if p.cur().Kind == token.INPUT {
		mode = ast.ModeInput
	} else {
		switch lowerName(p.cur().Text) {
		case "output":
			mode = ast.ModeOutput
		case "append":
			mode = ast.ModeAppend
		case "binary":
			mode = ast.ModeBinary
		case "random":
			mode = ast.ModeRandom
		default:
			p.errorf(diag.ErrUnexpectedToken, p.cur().Span, "expected file mode, found %s", p.cur().Kind)
		}
	}

	p.advance() // mode keyword/ident
	p.expect(token.AS)
	p.expect(token.HASH)
	channel := p.parseExpr()

	return &ast.Open{Base: ast.Base{Span: start.Span.Join(channel.Location())}, Path: path, Mode: mode, Channel: channel}
}

func (p *Parser) parseClose() ast.Stmt {
	start := p.advance() // CLOSE
	p.expect(token.HASH)
	channel := p.parseExpr()

	return &ast.Close{Base: ast.Base{Span: start.Span.Join(channel.Location())}, Channel: channel}
}

func (p *Parser) parseSeek() ast.Stmt {
	start := p.advance() // SEEK
	p.expect(token.HASH)
	channel := p.parseExpr()
	p.expect(token.COMMA)
	pos := p.parseExpr()

	return &ast.Seek{Base: ast.Base{Span: start.Span.Join(pos.Location())}, Channel: channel, Position: pos}
}
