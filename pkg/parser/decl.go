package parser

import (
	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/token"
)

func (p *Parser) parseParamList() []ast.Param {
	if p.cur().Kind != token.LPAREN {
		return nil
	}

	p.advance()

	var params []ast.Param

	for p.cur().Kind != token.RPAREN && !p.atEOF() {
		nameTok, ok := p.expect(token.IDENT)
		if !ok {
			break
		}

		isArray := false
		if p.cur().Kind == token.LPAREN {
			p.advance()
			p.expect(token.RPAREN)

			isArray = true
		}

		params = append(params, ast.Param{Name: nameTok.Text, IsArray: isArray})

		if p.cur().Kind == token.COMMA {
			p.advance()
			continue
		}

		break
	}

	p.expect(token.RPAREN)

	return params
}

func (p *Parser) parseReturnTypeAnnotation() (ast.Type, ast.BasicType) {
	if p.cur().Kind != token.AS {
		return ast.I64, ast.Unknown
	}

	p.advance()

	nameTok, _ := p.expect(token.IDENT)

	switch lowerName(nameTok.Text) {
	case "void":
		return ast.I64, ast.Void
	case "integer":
		return ast.I64, ast.BTI64
	case "double", "single":
		return ast.F64, ast.BTF64
	case "string":
		return ast.Str, ast.BTStr
	case "boolean":
		return ast.Bool, ast.BTBool
	default:
		return ast.I64, ast.Unknown
	}
}

func (p *Parser) parseFunctionDecl() ast.Stmt {
	start := p.advance() // FUNCTION
	nameTok, _ := p.expect(token.IDENT)
	params := p.parseParamList()
	ret, explicit := p.parseReturnTypeAnnotation()
	p.expect(token.EOL)

	body := p.parseBlockBody(token.END)
	p.expect(token.END)
	p.expect(token.FUNCTION)

	return &ast.FunctionDecl{
		Base: ast.Base{Span: start.Span}, Name: nameTok.Text, QualifiedName: nameTok.Text,
		Params: params, Ret: ret, ExplicitRetType: explicit, Body: body,
	}
}

func (p *Parser) parseSubDecl() ast.Stmt {
	start := p.advance() // SUB
	nameTok, _ := p.expect(token.IDENT)
	params := p.parseParamList()
	p.expect(token.EOL)

	body := p.parseBlockBody(token.END)
	p.expect(token.END)
	p.expect(token.SUB)

	return &ast.SubDecl{Base: ast.Base{Span: start.Span}, Name: nameTok.Text, QualifiedName: nameTok.Text, Params: params, Body: body}
}

func (p *Parser) parseTypeDecl() ast.Stmt {
	start := p.advance() // TYPE
	nameTok, _ := p.expect(token.IDENT)
	p.expect(token.EOL)

	var fields []ast.Field

	for !p.atEOF() && p.cur().Kind != token.END {
		p.skipBlankLines()

		if p.cur().Kind == token.END {
			break
		}

		fieldTok, ok := p.expect(token.IDENT)
		if !ok {
			p.syncToStmtBoundary()
			continue
		}

		typ := p.parseTypeAnnotation()
		fields = append(fields, ast.Field{Name: fieldTok.Text, Type: typ})

		if p.cur().Kind == token.EOL {
			p.advance()
		}
	}

	p.expect(token.END)
	p.expect(token.TYPE)

	return &ast.TypeDecl{Base: ast.Base{Span: start.Span}, Name: nameTok.Text, Fields: fields}
}

func (p *Parser) parseInterfaceDecl() ast.Stmt {
	start := p.advance() // INTERFACE
	name := p.parseQualifiedName()
	p.expect(token.EOL)

	var members []ast.Stmt

	for !p.atEOF() && p.cur().Kind != token.END {
		p.skipBlankLines()

		if p.cur().Kind == token.END {
			break
		}

		switch p.cur().Kind {
		case token.FUNCTION:
			members = append(members, p.parseFunctionSignature())
		case token.SUB:
			members = append(members, p.parseSubSignature())
		default:
			p.syncToStmtBoundary()
		}

		if p.cur().Kind == token.EOL {
			p.advance()
		}
	}

	p.expect(token.END)
	p.expect(token.INTERFACE)

	return &ast.InterfaceDecl{Base: ast.Base{Span: start.Span}, QualifiedName: name, Members: members}
}

// parseFunctionSignature/parseSubSignature parse an abstract member
// declaration inside an INTERFACE block: a header with no body.
func (p *Parser) parseFunctionSignature() ast.Stmt {
	start := p.advance() // FUNCTION
	nameTok, _ := p.expect(token.IDENT)
	params := p.parseParamList()
	ret, explicit := p.parseReturnTypeAnnotation()

	return &ast.FunctionDecl{Base: ast.Base{Span: start.Span}, Name: nameTok.Text, Params: params, Ret: ret, ExplicitRetType: explicit}
}

func (p *Parser) parseSubSignature() ast.Stmt {
	start := p.advance() // SUB
	nameTok, _ := p.expect(token.IDENT)
	params := p.parseParamList()

	return &ast.SubDecl{Base: ast.Base{Span: start.Span}, Name: nameTok.Text, Params: params}
}

func (p *Parser) parseUsingDecl() ast.Stmt {
	start := p.advance() // USING

	var alias string
	if p.cur().Kind == token.IDENT && p.peek(1).Kind == token.EQ {
		alias = p.advance().Text
		p.advance() // EQ
	}

	path := p.parseQualifiedName()

	return &ast.UsingDecl{Base: ast.Base{Span: start.Span}, Alias: alias, NamespacePath: path}
}

func (p *Parser) parseClassDecl() ast.Stmt {
	start := p.advance() // CLASS
	nameTok, _ := p.expect(token.IDENT)

	var implements [][]string

	if p.cur().Kind == token.IMPLEMENTS {
		p.advance()

		for {
			implements = append(implements, p.parseQualifiedName())

			if p.cur().Kind != token.COMMA {
				break
			}

			p.advance()
		}
	}

	p.expect(token.EOL)

	var fields []ast.Field

	var members []ast.Stmt

	for !p.atEOF() && p.cur().Kind != token.END {
		p.skipBlankLines()

		if p.cur().Kind == token.END {
			break
		}

		isStatic := false
		if p.cur().Kind == token.STATIC {
			isStatic = true
			p.advance()
		}

		switch p.cur().Kind {
		case token.CONSTRUCTOR:
			members = append(members, p.parseConstructorDecl(isStatic))
		case token.DESTRUCTOR:
			members = append(members, p.parseDestructorDecl())
		case token.METHOD:
			members = append(members, p.parseMethodDecl(isStatic))
		case token.PROPERTY:
			members = append(members, p.parsePropertyDecl(isStatic))
		case token.IDENT:
			fieldTok := p.advance()
			typ := p.parseTypeAnnotation()
			fields = append(fields, ast.Field{Name: fieldTok.Text, Type: typ, IsStatic: isStatic})
		default:
			p.syncToStmtBoundary()
		}

		if p.cur().Kind == token.EOL {
			p.advance()
		}
	}

	p.expect(token.END)
	p.expect(token.CLASS)

	return &ast.ClassDecl{
		Base: ast.Base{Span: start.Span}, Name: nameTok.Text, QualifiedName: nameTok.Text,
		Fields: fields, Implements: implements, Members: members,
	}
}

func (p *Parser) parseConstructorDecl(isStatic bool) ast.Stmt {
	start := p.advance() // CONSTRUCTOR
	params := p.parseParamList()
	p.expect(token.EOL)

	body := p.parseBlockBody(token.END)
	p.expect(token.END)
	p.expect(token.CONSTRUCTOR)

	return &ast.ConstructorDecl{Base: ast.Base{Span: start.Span}, IsStatic: isStatic, Params: params, Body: body}
}

func (p *Parser) parseDestructorDecl() ast.Stmt {
	start := p.advance() // DESTRUCTOR
	p.expect(token.EOL)

	body := p.parseBlockBody(token.END)
	p.expect(token.END)
	p.expect(token.DESTRUCTOR)

	return &ast.DestructorDecl{Base: ast.Base{Span: start.Span}, Body: body}
}

func (p *Parser) parseMethodDecl(isStatic bool) ast.Stmt {
	start := p.advance() // METHOD
	nameTok, _ := p.expect(token.IDENT)
	params := p.parseParamList()

	var ret *ast.Type
	if p.cur().Kind == token.AS {
		t, _ := p.parseReturnTypeAnnotation()
		ret = &t
	}

	p.expect(token.EOL)

	body := p.parseBlockBody(token.END)
	p.expect(token.END)
	p.expect(token.METHOD)

	return &ast.MethodDecl{Base: ast.Base{Span: start.Span}, IsStatic: isStatic, Name: nameTok.Text, Ret: ret, Params: params, Body: body}
}

func (p *Parser) parsePropertyDecl(isStatic bool) ast.Stmt {
	start := p.advance() // PROPERTY
	nameTok, _ := p.expect(token.IDENT)
	typ := p.parseTypeAnnotation()

	access := ast.Public
	if p.cur().Kind == token.PUBLIC {
		p.advance()
	} else if p.cur().Kind == token.PRIVATE {
		access = ast.Private
		p.advance()
	}

	p.expect(token.EOL)

	var get, set ast.Accessor

	for p.cur().Kind == token.GET || p.cur().Kind == token.SET {
		if p.cur().Kind == token.GET {
			p.advance()
			p.expect(token.EOL)

			body := p.parseBlockBody(token.END)
			p.expect(token.END)
			p.expect(token.GET)

			get = ast.Accessor{Present: true, Access: access, Body: body}
		} else {
			p.advance()

			paramName := ""
			if p.cur().Kind == token.LPAREN {
				p.advance()

				if p.cur().Kind == token.IDENT {
					paramName = p.advance().Text
				}

				p.expect(token.RPAREN)
			}

			p.expect(token.EOL)

			body := p.parseBlockBody(token.END)
			p.expect(token.END)
			p.expect(token.SET)

			set = ast.Accessor{Present: true, Access: access, ParamName: paramName, Body: body}
		}

		p.skipBlankLines()
	}

	p.expect(token.END)
	p.expect(token.PROPERTY)

	return &ast.PropertyDecl{Base: ast.Base{Span: start.Span}, IsStatic: isStatic, Name: nameTok.Text, Type: typ, Access: access, Get: get, Set: set}
}
