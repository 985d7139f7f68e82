package parser

import (
	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/diag"
	"github.com/splanck/viper-sub025/pkg/token"
)

func (p *Parser) parseIf() ast.Stmt {
	start := p.advance() // IF
	cond := p.parseExpr()
	p.expect(token.THEN)

	// Single-line form: IF cond THEN stmt [: stmt]* [ELSE stmt [: stmt]*]
	if p.cur().Kind != token.EOL {
		then := p.parseStmtListUntilTerm()

		var elseifs []ast.ElseIf

		var elseBranch ast.Stmt
		if p.cur().Kind == token.ELSE {
			p.advance()
			elseBranch = p.parseStmtListUntilTerm()
		}

		return &ast.If{Base: ast.Base{Span: start.Span}, Cond: cond, Then: then, ElseIfs: elseifs, Else: elseBranch}
	}

	p.advance() // EOL

	thenBody := p.parseBlockBody(token.ELSEIF, token.ELSE, token.END)
	then := &ast.StmtList{Base: ast.Base{Span: start.Span}, Stmts: thenBody}

	var elseifs []ast.ElseIf

	for p.cur().Kind == token.ELSEIF {
		p.advance()
		econd := p.parseExpr()
		p.expect(token.THEN)
		p.expect(token.EOL)

		body := p.parseBlockBody(token.ELSEIF, token.ELSE, token.END)
		elseifs = append(elseifs, ast.ElseIf{Cond: econd, Then: &ast.StmtList{Base: ast.Base{Span: econd.Location()}, Stmts: body}})
	}

	var elseBranch ast.Stmt

	if p.cur().Kind == token.ELSE {
		p.advance()
		p.expect(token.EOL)

		body := p.parseBlockBody(token.END)
		elseBranch = &ast.StmtList{Base: ast.Base{Span: start.Span}, Stmts: body}
	}

	p.expect(token.END)
	p.expect(token.IF)

	return &ast.If{Base: ast.Base{Span: start.Span}, Cond: cond, Then: then, ElseIfs: elseifs, Else: elseBranch}
}

func (p *Parser) parseSelectCase() ast.Stmt {
	start := p.advance() // SELECT
	p.expect(token.CASE)
	selector := p.parseExpr()
	p.expect(token.EOL)

	var arms []ast.CaseArm

	var elseBody []ast.Stmt

	sawElse := false

	for p.cur().Kind == token.CASE {
		p.advance()

		if p.cur().Kind == token.ELSE {
			p.advance()

			if sawElse {
				p.errorf(diag.ErrSelectCaseDuplicateElse, p.cur().Span, "duplicate CASE ELSE")
			}

			sawElse = true
			p.expect(token.EOL)
			elseBody = p.parseBlockBody(token.CASE, token.END)

			continue
		}

		var labels []int64

		for {
			if p.cur().Kind != token.INT {
				p.errorf(diag.ErrCaseInvalidLabel, p.cur().Span, "CASE label must be an integer literal")

				break
			}

			labels = append(labels, p.advance().Int)

			if p.cur().Kind != token.COMMA {
				break
			}

			p.advance()
		}

		if len(labels) == 0 {
			p.errorf(diag.ErrCaseEmptyLabelList, p.cur().Span, "CASE requires at least one label")
		}

		p.expect(token.EOL)
		body := p.parseBlockBody(token.CASE, token.END)
		arms = append(arms, ast.CaseArm{Labels: labels, Body: body})
	}

	if p.cur().Kind == token.END && p.peek(1).Kind == token.SELECT {
		p.advance()
		p.advance()
	} else {
		p.errorf(diag.ErrSelectCaseMissingEndSelect, p.cur().Span, "missing END SELECT")
	}

	return &ast.SelectCase{Base: ast.Base{Span: start.Span}, Selector: selector, Arms: arms, ElseBody: elseBody}
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.advance() // WHILE
	cond := p.parseExpr()
	p.expect(token.EOL)

	body := p.parseBlockBody(token.END)

	if p.cur().Kind == token.END {
		p.advance()
		p.expect(token.WHILE)
	}

	return &ast.While{Base: ast.Base{Span: start.Span}, Cond: cond, Body: body}
}

func (p *Parser) parseDo() ast.Stmt {
	start := p.advance() // DO

	// Pre-test forms: DO WHILE <cond> / DO UNTIL <cond> / DO (bare)
	if p.cur().Kind == token.WHILE || p.cur().Kind == token.UNTIL {
		kind := ast.CondWhile
		if p.cur().Kind == token.UNTIL {
			kind = ast.CondUntil
		}

		p.advance()
		cond := p.parseExpr()
		p.expect(token.EOL)

		body := p.parseBlockBody(token.LOOP)
		p.expect(token.LOOP)

		return &ast.Do{Base: ast.Base{Span: start.Span}, TestPos: ast.TestPre, CondKind: kind, Cond: cond, Body: body}
	}

	p.expect(token.EOL)

	body := p.parseBlockBody(token.LOOP)
	p.expect(token.LOOP)

	// Post-test forms: LOOP WHILE <cond> / LOOP UNTIL <cond> / LOOP (bare)
	if p.cur().Kind == token.WHILE || p.cur().Kind == token.UNTIL {
		kind := ast.CondWhile
		if p.cur().Kind == token.UNTIL {
			kind = ast.CondUntil
		}

		p.advance()
		cond := p.parseExpr()

		return &ast.Do{Base: ast.Base{Span: start.Span}, TestPos: ast.TestPost, CondKind: kind, Cond: cond, Body: body}
	}

	return &ast.Do{Base: ast.Base{Span: start.Span}, TestPos: ast.TestPost, CondKind: ast.CondNone, Body: body}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.advance() // FOR
	varTok, _ := p.expect(token.IDENT)
	p.expect(token.EQ)
	from := p.parseExpr()
	p.expect(token.TO)
	to := p.parseExpr()

	var step ast.Expr
	if p.cur().Kind == token.STEP {
		p.advance()
		step = p.parseExpr()
	}

	p.expect(token.EOL)
	body := p.parseBlockBody(token.NEXT)

	if p.cur().Kind == token.NEXT {
		p.advance()

		if p.cur().Kind == token.IDENT {
			p.advance()
		}
	}

	return &ast.For{Base: ast.Base{Span: start.Span}, Var: varTok.Text, Start: from, End: to, Step: step, Body: body}
}

func (p *Parser) parseNext() ast.Stmt {
	start := p.advance() // NEXT

	var name string
	if p.cur().Kind == token.IDENT {
		name = p.advance().Text
	}

	return &ast.Next{Base: ast.Base{Span: start.Span}, Var: name}
}

func (p *Parser) parseExit() ast.Stmt {
	start := p.advance() // EXIT

	var kind ast.ExitKind

	switch p.cur().Kind {
	case token.FOR:
		kind = ast.ExitFor
	case token.WHILE:
		kind = ast.ExitWhile
	case token.DO:
		kind = ast.ExitDo
	default:
		p.errorf(diag.ErrUnexpectedToken, p.cur().Span, "expected FOR, WHILE, or DO after EXIT")
	}

	p.advance()

	return &ast.Exit{Base: ast.Base{Span: start.Span}, Kind: kind}
}

func (p *Parser) parseGoto() ast.Stmt {
	start := p.advance() // GOTO
	target := p.resolveLabelTarget()

	return &ast.Goto{Base: ast.Base{Span: start.Span}, Target: target}
}

func (p *Parser) parseGosub() ast.Stmt {
	start := p.advance() // GOSUB
	target := p.resolveLabelTarget()

	return &ast.Gosub{Base: ast.Base{Span: start.Span}, TargetLine: target}
}

// resolveLabelTarget consumes either a numeric literal or an identifier
// naming a label, returning its resolved target (synthetic id for named
// labels, per Invariant 6).
func (p *Parser) resolveLabelTarget() int64 {
	if p.cur().Kind == token.INT {
		return p.advance().Int
	}

	if p.cur().Kind == token.IDENT {
		name := lowerName(p.advance().Text)

		id, ok := p.labelNames[name]
		if !ok {
			id = p.nextLabelID
			p.nextLabelID++
			p.labelNames[name] = id
		}

		return id
	}

	p.errorf(diag.ErrUnexpectedToken, p.cur().Span, "expected a line number or label name")

	return 0
}

func (p *Parser) parseReturn() ast.Stmt {
	start := p.advance() // RETURN

	if p.atStmtEnd() {
		return &ast.Return{Base: ast.Base{Span: start.Span}}
	}

	val := p.parseExpr()

	return &ast.Return{Base: ast.Base{Span: start.Span}, Value: val}
}

func (p *Parser) parseOnError() ast.Stmt {
	start := p.advance() // ON
	p.expect(token.ERROR)
	p.expect(token.GOTO)

	if p.cur().Kind == token.INT && p.cur().Int == 0 {
		p.advance()
		return &ast.OnErrorGoto{Base: ast.Base{Span: start.Span}, ToZero: true}
	}

	target := p.resolveLabelTarget()

	return &ast.OnErrorGoto{Base: ast.Base{Span: start.Span}, Target: target}
}

func (p *Parser) parseResume() ast.Stmt {
	start := p.advance() // RESUME

	if p.cur().Kind == token.NEXT {
		p.advance()
		return &ast.Resume{Base: ast.Base{Span: start.Span}, Mode: ast.ResumeNext}
	}

	if p.atStmtEnd() {
		return &ast.Resume{Base: ast.Base{Span: start.Span}, Mode: ast.ResumeSame}
	}

	target := p.resolveLabelTarget()

	return &ast.Resume{Base: ast.Base{Span: start.Span}, Mode: ast.ResumeLabel, Target: target}
}

func (p *Parser) parseTryCatch() ast.Stmt {
	start := p.advance() // TRY
	p.expect(token.EOL)

	tryBody := p.parseBlockBody(token.CATCH, token.END)

	var catchVar string

	hasCatch := false

	var catchBody []ast.Stmt

	if p.cur().Kind == token.CATCH {
		hasCatch = true

		p.advance()

		if p.cur().Kind == token.IDENT {
			catchVar = lowerName(p.advance().Text)
		}

		p.expect(token.EOL)
		catchBody = p.parseBlockBody(token.END)
	}

	if p.cur().Kind == token.END && p.peek(1).Kind == token.TRY {
		p.advance()
		p.advance()
	} else {
		// A stray END TRY is missing; parse whatever END-led statement
		// follows as a plain End so the input stays fully consumed.
		p.errorf(diag.ErrUnexpectedToken, p.cur().Span, "missing END TRY")
	}

	return &ast.TryCatch{Base: ast.Base{Span: start.Span}, TryBody: tryBody, CatchVar: catchVar, HasCatch: hasCatch, CatchBody: catchBody}
}

// parseEnd handles both the bare END statement and the END <kw> forms that
// close a block. A bare END not immediately followed by a block keyword
// terminates the program — any unmatched END defaults to this terminal
// form.
func (p *Parser) parseEnd() ast.Stmt {
	start := p.advance() // END

	switch p.cur().Kind {
	case token.IF, token.SELECT, token.WHILE, token.TRY, token.FUNCTION,
		token.SUB, token.CLASS, token.TYPE, token.INTERFACE:
		p.advance()
	}

	return &ast.End{Base: ast.Base{Span: start.Span}}
}

func (p *Parser) parseCursor() ast.Stmt {
	start := p.advance() // CURSOR
	on := p.parseOnOffIdent()

	return &ast.Cursor{Base: ast.Base{Span: start.Span}, On: on}
}

func (p *Parser) parseAltScreen() ast.Stmt {
	start := p.advance() // ALTSCREEN
	on := p.parseOnOffIdent()

	return &ast.AltScreen{Base: ast.Base{Span: start.Span}, On: on}
}

func (p *Parser) parseOnOffIdent() bool {
	if p.cur().Kind == token.IDENT {
		switch lowerName(p.cur().Text) {
		case "off":
			p.advance()
			return false
		case "on":
			p.advance()
			return true
		}
	}

	return true
}

func (p *Parser) parseColor() ast.Stmt {
	start := p.advance() // COLOR
	fg := p.parseExpr()

	var bg ast.Expr
	if p.cur().Kind == token.COMMA {
		p.advance()
		bg = p.parseExpr()
	}

	return &ast.Color{Base: ast.Base{Span: start.Span}, FG: fg, BG: bg}
}

func (p *Parser) parseLocate() ast.Stmt {
	start := p.advance() // LOCATE
	row := p.parseExpr()
	p.expect(token.COMMA)
	col := p.parseExpr()

	return &ast.Locate{Base: ast.Base{Span: start.Span}, Row: row, Col: col}
}
