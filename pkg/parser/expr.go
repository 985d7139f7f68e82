package parser

import (
	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/diag"
	"github.com/splanck/viper-sub025/pkg/token"
)

// precedence levels, lowest to highest. ANDALSO/ORELSE bind loosest; unary
// NOT/+/- and ^ bind tightest.
const (
	precNone = iota
	precOrElse
	precAndOr
	precCompare
	precAdd
	precMul
	precPow
)

func binOpPrec(k token.Kind) (ast.BinaryOp, int, bool) {
	switch k {
	case token.ANDALSO:
		return ast.LogicalAndShort, precOrElse, true
	case token.ORELSE:
		return ast.LogicalOrShort, precOrElse, true
	case token.AND:
		return ast.LogicalAnd, precAndOr, true
	case token.OR:
		return ast.LogicalOr, precAndOr, true
	case token.EQ:
		return ast.Eq, precCompare, true
	case token.NE:
		return ast.Ne, precCompare, true
	case token.LT:
		return ast.Lt, precCompare, true
	case token.LE:
		return ast.Le, precCompare, true
	case token.GT:
		return ast.Gt, precCompare, true
	case token.GE:
		return ast.Ge, precCompare, true
	case token.PLUS:
		return ast.Add, precAdd, true
	case token.MINUS:
		return ast.Sub, precAdd, true
	case token.STAR:
		return ast.Mul, precMul, true
	case token.SLASH:
		return ast.Div, precMul, true
	case token.BACKSLASH:
		return ast.IDiv, precMul, true
	case token.MOD:
		return ast.Mod, precMul, true
	case token.CARET:
		return ast.Pow, precPow, true
	default:
		return 0, 0, false
	}
}

// parseExpr parses a full expression via precedence climbing.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinary(precOrElse)
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	lhs := p.parseUnary()

	for {
		op, prec, ok := binOpPrec(p.cur().Kind)
		if !ok || prec < minPrec {
			return lhs
		}

		p.advance()

		// ^ is right-associative; everything else is left-associative.
		nextMin := prec + 1
		if op == ast.Pow {
			nextMin = prec
		}

		rhs := p.parseBinary(nextMin)
		lhs = &ast.BinaryExpr{Base: ast.Base{Span: lhs.Location().Join(rhs.Location())}, Op: op, LHS: lhs, RHS: rhs}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Kind {
	case token.NOT:
		tok := p.advance()
		operand := p.parseUnary()

		return &ast.UnaryExpr{Base: ast.Base{Span: tok.Span.Join(operand.Location())}, Op: ast.LogicalNot, Operand: operand}
	case token.PLUS:
		tok := p.advance()
		operand := p.parseUnary()

		return &ast.UnaryExpr{Base: ast.Base{Span: tok.Span.Join(operand.Location())}, Op: ast.Plus, Operand: operand}
	case token.MINUS:
		tok := p.advance()
		operand := p.parseUnary()

		return &ast.UnaryExpr{Base: ast.Base{Span: tok.Span.Join(operand.Location())}, Op: ast.Negate, Operand: operand}
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

// parsePostfix handles member access (.Member), method calls, and trailing
// AS/IS expressions chained onto a primary expression.
func (p *Parser) parsePostfix(e ast.Expr) ast.Expr {
	for {
		switch p.cur().Kind {
		case token.DOT:
			p.advance()
			nameTok, _ := p.expect(token.IDENT)

			if p.cur().Kind == token.LPAREN {
				args := p.parseArgList()
				e = &ast.MethodCallExpr{Base: ast.Base{Span: e.Location().Join(nameTok.Span)}, Target: e, Method: nameTok.Text, Args: args}
			} else {
				e = &ast.MemberAccessExpr{Base: ast.Base{Span: e.Location().Join(nameTok.Span)}, Target: e, Member: nameTok.Text}
			}
		case token.IS:
			p.advance()
			name := p.parseQualifiedName()
			e = &ast.IsExpr{Base: ast.Base{Span: e.Location()}, Value: e, TypeName: name}
		case token.AS:
			p.advance()
			name := p.parseQualifiedName()
			e = &ast.AsExpr{Base: ast.Base{Span: e.Location()}, Value: e, TypeName: name}
		default:
			return e
		}
	}
}

func (p *Parser) parseQualifiedName() []string {
	var parts []string

	tok, ok := p.expect(token.IDENT)
	if !ok {
		return parts
	}

	parts = append(parts, tok.Text)

	for p.cur().Kind == token.DOT {
		p.advance()

		tok, ok := p.expect(token.IDENT)
		if !ok {
			break
		}

		parts = append(parts, tok.Text)
	}

	return parts
}

func (p *Parser) parseArgList() []ast.Expr {
	p.expect(token.LPAREN)

	var args []ast.Expr

	for p.cur().Kind != token.RPAREN && !p.atEOF() {
		args = append(args, p.parseExpr())

		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}

		break
	}

	p.expect(token.RPAREN)

	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.cur()

	switch t.Kind {
	case token.INT:
		p.advance()
		return &ast.IntExpr{Base: ast.Base{Span: t.Span}, Value: t.Int}
	case token.FLOAT:
		p.advance()
		return &ast.FloatExpr{Base: ast.Base{Span: t.Span}, Value: t.Float}
	case token.STRING:
		p.advance()
		return &ast.StringExpr{Base: ast.Base{Span: t.Span}, Value: t.Str}
	case token.TRUE:
		p.advance()
		return &ast.BoolExpr{Base: ast.Base{Span: t.Span}, Value: true}
	case token.FALSE:
		p.advance()
		return &ast.BoolExpr{Base: ast.Base{Span: t.Span}, Value: false}
	case token.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RPAREN)

		return e
	case token.ME:
		p.advance()
		return &ast.MeExpr{Base: ast.Base{Span: t.Span}}
	case token.NEW:
		return p.parseNewExpr()
	case token.ADDRESSOF:
		p.advance()
		nameTok, _ := p.expect(token.IDENT)

		return &ast.AddressOfExpr{Base: ast.Base{Span: t.Span.Join(nameTok.Span)}, TargetName: nameTok.Text}
	case token.IDENT:
		return p.parseIdentOrCallOrArray()
	default:
		p.errorf(diag.ErrUnexpectedToken, t.Span, "unexpected token %s in expression", t.Kind)
		p.advance()

		return &ast.IntExpr{Base: ast.Base{Span: t.Span}, Value: 0}
	}
}

func (p *Parser) parseNewExpr() ast.Expr {
	start := p.advance() // NEW
	name := p.parseQualifiedName()

	var args []ast.Expr
	if p.cur().Kind == token.LPAREN {
		args = p.parseArgList()
	}

	className := ""
	if len(name) > 0 {
		className = name[len(name)-1]
	}

	return &ast.NewExpr{Base: ast.Base{Span: start.Span}, ClassName: className, QualifiedType: name, Args: args}
}

// builtinNames maps a builtin's canonical lower-cased spelling (sigil
// included where the builtin name carries one) to its BuiltinID. Builtins
// are lexed as ordinary IDENT tokens — they are not reserved words — and
// recognised here purely by name; pkg/runtime's registry is keyed by the
// resulting BuiltinID.
var builtinNames = map[string]ast.BuiltinID{
	"len":    ast.BuiltinLen,
	"mid$":   ast.BuiltinMid,
	"left$":  ast.BuiltinLeft,
	"right$": ast.BuiltinRight,
	"val":    ast.BuiltinVal,
	"int":    ast.BuiltinInt,
	"fix":    ast.BuiltinFix,
	"round":  ast.BuiltinRound,
	"str$":   ast.BuiltinStr,
	"instr":  ast.BuiltinInstr,
	"ltrim$": ast.BuiltinLTrim,
	"rtrim$": ast.BuiltinRTrim,
	"trim$":  ast.BuiltinTrim,
	"ucase$": ast.BuiltinUCase,
	"lcase$": ast.BuiltinLCase,
	"chr$":   ast.BuiltinChr,
	"asc":    ast.BuiltinAsc,
	"rnd":    ast.BuiltinRnd,
}

// parseIdentOrCallOrArray disambiguates a builtin invocation, a subscripted
// array access, and a user-procedure call, all of which share the
// `IDENT [ "(" args ")" ]` production.
func (p *Parser) parseIdentOrCallOrArray() ast.Expr {
	tok := p.advance()

	if p.cur().Kind != token.LPAREN {
		return &ast.VarExpr{Base: ast.Base{Span: tok.Span}, Name: tok.Text}
	}

	if bi, ok := builtinNames[lowerName(tok.Text)]; ok {
		args := p.parseArgList()
		return &ast.BuiltinCallExpr{Base: ast.Base{Span: tok.Span}, Builtin: bi, Args: args}
	}

	args := p.parseArgList()

	// The semantic analyzer disambiguates array-vs-call once declarations
	// are visible; the parser records both candidate shapes via ArrayExpr,
	// which sema rewrites into CallExpr when the name resolves to a
	// procedure rather than a declared array.
	return &ast.ArrayExpr{Base: ast.Base{Span: tok.Span}, Name: tok.Text, Indices: args}
}
