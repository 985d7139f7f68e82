package sema

import (
	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/diag"
)

// resolveExpr resolves every Var/Array reference reachable from e, renaming
// scoped locals in place, and returns the (possibly rewritten, e.g.
// Array→Call) expression together with its inferred type.
func (a *Analyzer) resolveExpr(e ast.Expr) (ast.Expr, ast.Type) {
	if e == nil {
		return nil, ast.I64
	}

	switch n := e.(type) {
	case *ast.IntExpr:
		return n, ast.I64
	case *ast.FloatExpr:
		return n, ast.F64
	case *ast.StringExpr:
		return n, ast.Str
	case *ast.BoolExpr:
		return n, ast.Bool
	case *ast.VarExpr:
		return a.resolveVar(n)
	case *ast.ArrayExpr:
		return a.resolveArray(n)
	case *ast.UnaryExpr:
		n.Operand, _ = a.resolveExpr(n.Operand)
		return n, a.unaryType(n)
	case *ast.BinaryExpr:
		return a.resolveBinary(n)
	case *ast.BuiltinCallExpr:
		for i := range n.Args {
			n.Args[i], _ = a.resolveExpr(n.Args[i])
		}

		return n, builtinResultType(n.Builtin)
	case *ast.CallExpr:
		return a.resolveCall(n)
	case *ast.LBoundExpr, *ast.UBoundExpr:
		return n, ast.I64
	case *ast.NewExpr:
		for i := range n.Args {
			n.Args[i], _ = a.resolveExpr(n.Args[i])
		}

		return n, ast.I64
	case *ast.MeExpr:
		return n, ast.I64
	case *ast.MemberAccessExpr:
		n.Target, _ = a.resolveExpr(n.Target)
		return n, ast.I64
	case *ast.MethodCallExpr:
		n.Target, _ = a.resolveExpr(n.Target)

		for i := range n.Args {
			n.Args[i], _ = a.resolveExpr(n.Args[i])
		}

		return n, ast.I64
	case *ast.IsExpr:
		n.Value, _ = a.resolveExpr(n.Value)
		return n, ast.Bool
	case *ast.AsExpr:
		n.Value, _ = a.resolveExpr(n.Value)
		return n, ast.I64
	case *ast.AddressOfExpr:
		return n, ast.I64
	default:
		return n, ast.I64
	}
}

func (a *Analyzer) resolveVar(n *ast.VarExpr) (ast.Expr, ast.Type) {
	sym := a.scopes.lookup(n.Name)
	if sym == nil {
		a.errorf(diag.CodeUndeclaredName, n.Location(), "undeclared name %s", n.Name)
		return n, inferSigilType(n.Name)
	}

	n.Name = sym.renamed

	return n, sym.typ
}

func (a *Analyzer) resolveArray(n *ast.ArrayExpr) (ast.Expr, ast.Type) {
	sym := a.scopes.lookup(n.Name)
	if sym != nil {
		if !sym.isArray {
			a.errorf(diag.CodeTypeMismatch, n.Location(), "%s is not an array", n.Name)
		}

		n.Name = sym.renamed

		for i := range n.Indices {
			n.Indices[i], _ = a.resolveExpr(n.Indices[i])
		}

		return n, sym.typ
	}

	if sig, ok := a.procs[n.Name]; ok {
		call := &ast.CallExpr{Base: n.Base, Callee: n.Name, Args: n.Indices}

		for i := range call.Args {
			call.Args[i], _ = a.resolveExpr(call.Args[i])
		}

		if len(call.Args) != len(sig.Params) {
			a.errorf(diag.CodeArityMismatch, n.Location(), "%s expects %d argument(s), got %d", n.Name, len(sig.Params), len(call.Args))
		}

		return call, sig.Ret
	}

	a.errorf(diag.CodeUndeclaredName, n.Location(), "undeclared name %s", n.Name)

	for i := range n.Indices {
		n.Indices[i], _ = a.resolveExpr(n.Indices[i])
	}

	return n, ast.I64
}

func (a *Analyzer) resolveCall(n *ast.CallExpr) (ast.Expr, ast.Type) {
	for i := range n.Args {
		n.Args[i], _ = a.resolveExpr(n.Args[i])
	}

	if len(n.QualifiedCallee) > 0 {
		return n, ast.I64
	}

	sig, ok := a.procs[n.Callee]
	if !ok {
		a.errorf(diag.CodeUndeclaredName, n.Location(), "undeclared procedure %s", n.Callee)
		return n, ast.I64
	}

	if len(n.Args) != len(sig.Params) {
		a.errorf(diag.CodeArityMismatch, n.Location(), "%s expects %d argument(s), got %d", n.Callee, len(sig.Params), len(n.Args))
	}

	return n, sig.Ret
}

func (a *Analyzer) unaryType(n *ast.UnaryExpr) ast.Type {
	t := exprStaticType(n.Operand)

	switch n.Op {
	case ast.LogicalNot:
		if t != ast.Bool && t != ast.I64 {
			a.errorf(diag.CodeTypeMismatch, n.Location(), "NOT requires a boolean or integer operand")
		}

		return t
	default: // Plus, Negate
		if !isNumeric(t) {
			a.errorf(diag.CodeTypeMismatch, n.Location(), "arithmetic operator requires a numeric operand")
		}

		return t
	}
}

func (a *Analyzer) resolveBinary(n *ast.BinaryExpr) (ast.Expr, ast.Type) {
	n.LHS, _ = a.resolveExpr(n.LHS)
	n.RHS, _ = a.resolveExpr(n.RHS)

	lt := exprStaticType(n.LHS)
	rt := exprStaticType(n.RHS)

	switch n.Op {
	case ast.Add:
		if lt == ast.Str || rt == ast.Str {
			if lt != ast.Str || rt != ast.Str {
				a.errorf(diag.CodeTypeMismatch, n.Location(), "cannot mix string and numeric operands")
			}

			return n, ast.Str
		}

		if !isNumeric(lt) || !isNumeric(rt) {
			a.errorf(diag.CodeTypeMismatch, n.Location(), "+ requires numeric or string operands")
		}

		return n, resultNumericType(lt, rt)
	case ast.Sub, ast.Mul, ast.Div, ast.Pow, ast.IDiv, ast.Mod:
		if !isNumeric(lt) || !isNumeric(rt) {
			a.errorf(diag.CodeTypeMismatch, n.Location(), "arithmetic operator requires numeric operands")
		}

		if n.Op == ast.IDiv || n.Op == ast.Mod {
			return n, ast.I64
		}

		return n, resultNumericType(lt, rt)
	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge:
		if lt == ast.Str || rt == ast.Str {
			if lt != rt {
				a.errorf(diag.CodeTypeMismatch, n.Location(), "cannot compare string and numeric operands")
			}
		} else if !isNumeric(lt) || !isNumeric(rt) {
			a.errorf(diag.CodeTypeMismatch, n.Location(), "comparison requires operands of the same kind")
		}

		return n, ast.Bool
	case ast.LogicalAnd, ast.LogicalOr, ast.LogicalAndShort, ast.LogicalOrShort:
		if lt == ast.Str || rt == ast.Str {
			a.errorf(diag.CodeTypeMismatch, n.Location(), "logical operator requires boolean or integer operands")
			return n, ast.I64
		}

		if lt == ast.Bool && rt == ast.Bool {
			return n, ast.Bool
		}

		return n, ast.I64
	default:
		return n, ast.I64
	}
}

func resultNumericType(lt, rt ast.Type) ast.Type {
	if lt == ast.F64 || rt == ast.F64 {
		return ast.F64
	}

	return ast.I64
}

// exprStaticType recovers the type of an already-resolved expression
// without re-walking the scope stack, used for binary/unary operand checks.
func exprStaticType(e ast.Expr) ast.Type {
	switch n := e.(type) {
	case *ast.IntExpr:
		return ast.I64
	case *ast.FloatExpr:
		return ast.F64
	case *ast.StringExpr:
		return ast.Str
	case *ast.BoolExpr:
		return ast.Bool
	case *ast.BinaryExpr:
		switch n.Op {
		case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge:
			return ast.Bool
		case ast.IDiv, ast.Mod:
			return ast.I64
		case ast.Add:
			if exprStaticType(n.LHS) == ast.Str {
				return ast.Str
			}

			return resultNumericType(exprStaticType(n.LHS), exprStaticType(n.RHS))
		default:
			return resultNumericType(exprStaticType(n.LHS), exprStaticType(n.RHS))
		}
	case *ast.UnaryExpr:
		return exprStaticType(n.Operand)
	case *ast.BuiltinCallExpr:
		return builtinResultType(n.Builtin)
	default:
		return ast.I64
	}
}

func builtinResultType(id ast.BuiltinID) ast.Type {
	switch id {
	case ast.BuiltinLen, ast.BuiltinInstr, ast.BuiltinAsc:
		return ast.I64
	case ast.BuiltinMid, ast.BuiltinLeft, ast.BuiltinRight, ast.BuiltinLTrim,
		ast.BuiltinRTrim, ast.BuiltinTrim, ast.BuiltinUCase, ast.BuiltinLCase,
		ast.BuiltinChr, ast.BuiltinStr:
		return ast.Str
	default: // Val, Int, Fix, Round, Rnd
		return ast.F64
	}
}
