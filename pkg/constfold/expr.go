package constfold

import (
	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/numeric"
)

// fold recurses into e's children, folds them first, then attempts to fold
// e itself. Nodes that don't simplify are returned unchanged (by reference,
// for pointer-typed Expr variants).
func (f *Folder) fold(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}

	switch n := e.(type) {
	case *ast.UnaryExpr:
		n.Operand = f.fold(n.Operand)
		return f.foldUnary(n)
	case *ast.BinaryExpr:
		return f.foldBinary(n)
	case *ast.BuiltinCallExpr:
		for i := range n.Args {
			n.Args[i] = f.fold(n.Args[i])
		}

		return f.foldBuiltin(n)
	case *ast.ArrayExpr:
		for i := range n.Indices {
			n.Indices[i] = f.fold(n.Indices[i])
		}

		return n
	case *ast.MemberAccessExpr:
		n.Target = f.fold(n.Target)
		return n
	case *ast.MethodCallExpr:
		n.Target = f.fold(n.Target)

		for i := range n.Args {
			n.Args[i] = f.fold(n.Args[i])
		}

		return n
	case *ast.IsExpr:
		n.Value = f.fold(n.Value)
		return n
	case *ast.AsExpr:
		n.Value = f.fold(n.Value)
		return n
	case *ast.NewExpr:
		for i := range n.Args {
			n.Args[i] = f.fold(n.Args[i])
		}

		return n
	case *ast.CallExpr:
		// Side effects unknown: arguments still fold, the call does not.
		for i := range n.Args {
			n.Args[i] = f.fold(n.Args[i])
		}

		return n
	default:
		return e
	}
}

func asNumeric(e ast.Expr) (numeric.Numeric, bool) {
	switch n := e.(type) {
	case *ast.IntExpr:
		return numeric.FromInt(n.Value), true
	case *ast.FloatExpr:
		return numeric.FromFloat(n.Value), true
	default:
		return numeric.Numeric{}, false
	}
}

func numericToExpr(span ast.Expr, n numeric.Numeric) ast.Expr {
	loc := span.Location()
	if n.IsFloat {
		return &ast.FloatExpr{Base: ast.Base{Span: loc}, Value: n.F}
	}

	return &ast.IntExpr{Base: ast.Base{Span: loc}, Value: n.I}
}

func (f *Folder) foldUnary(n *ast.UnaryExpr) ast.Expr {
	switch n.Op {
	case ast.Plus:
		if v, ok := asNumeric(n.Operand); ok {
			return numericToExpr(n, v)
		}

		return n
	case ast.Negate:
		switch op := n.Operand.(type) {
		case *ast.IntExpr:
			return &ast.IntExpr{Base: n.Base, Value: numeric.WrapNegate(op.Value)}
		case *ast.FloatExpr:
			return &ast.FloatExpr{Base: n.Base, Value: -op.Value}
		default:
			return n
		}
	case ast.LogicalNot:
		switch op := n.Operand.(type) {
		case *ast.BoolExpr:
			return &ast.BoolExpr{Base: n.Base, Value: !op.Value}
		case *ast.IntExpr:
			if op.Value == 0 {
				return &ast.IntExpr{Base: n.Base, Value: 1}
			}

			return &ast.IntExpr{Base: n.Base, Value: 0}
		default:
			return n
		}
	default:
		return n
	}
}

func (f *Folder) foldBinary(n *ast.BinaryExpr) ast.Expr {
	// Short-circuit operators must not fold (and in particular must not
	// even traverse) the RHS when the LHS literal already determines the
	// result.
	if n.Op == ast.LogicalAndShort || n.Op == ast.LogicalOrShort {
		n.LHS = f.fold(n.LHS)

		if lb, ok := n.LHS.(*ast.BoolExpr); ok {
			if n.Op == ast.LogicalAndShort && !lb.Value {
				return &ast.BoolExpr{Base: n.Base, Value: false}
			}

			if n.Op == ast.LogicalOrShort && lb.Value {
				return &ast.BoolExpr{Base: n.Base, Value: true}
			}
		}

		n.RHS = f.fold(n.RHS)

		lb, lok := n.LHS.(*ast.BoolExpr)
		rb, rok := n.RHS.(*ast.BoolExpr)

		if lok && rok {
			if n.Op == ast.LogicalAndShort {
				return &ast.BoolExpr{Base: n.Base, Value: lb.Value && rb.Value}
			}

			return &ast.BoolExpr{Base: n.Base, Value: lb.Value || rb.Value}
		}

		return n
	}

	n.LHS = f.fold(n.LHS)
	n.RHS = f.fold(n.RHS)

	if n.Op == ast.Add {
		if ls, ok := n.LHS.(*ast.StringExpr); ok {
			if rs, ok := n.RHS.(*ast.StringExpr); ok {
				return &ast.StringExpr{Base: n.Base, Value: ls.Value + rs.Value}
			}

			return n
		}
	}

	switch n.Op {
	case ast.Eq, ast.Ne:
		if ls, ok := n.LHS.(*ast.StringExpr); ok {
			if rs, ok := n.RHS.(*ast.StringExpr); ok {
				eq := ls.Value == rs.Value
				if n.Op == ast.Ne {
					eq = !eq
				}

				return intBool(n, eq)
			}

			return n
		}
	case ast.LogicalAnd, ast.LogicalOr:
		if lb, ok := n.LHS.(*ast.BoolExpr); ok {
			if rb, ok := n.RHS.(*ast.BoolExpr); ok {
				if n.Op == ast.LogicalAnd {
					return &ast.BoolExpr{Base: n.Base, Value: lb.Value && rb.Value}
				}

				return &ast.BoolExpr{Base: n.Base, Value: lb.Value || rb.Value}
			}

			return n
		}
	}

	lv, lok := asNumeric(n.LHS)
	rv, rok := asNumeric(n.RHS)

	if !lok || !rok {
		return n
	}

	switch n.Op {
	case ast.Add:
		return f.foldAdd(n, lv, rv)
	case ast.Sub:
		return foldWrap(n, lv, rv, numeric.WrapSub, func(a, b float64) float64 { return a - b })
	case ast.Mul:
		return foldWrap(n, lv, rv, numeric.WrapMul, func(a, b float64) float64 { return a * b })
	case ast.Div:
		return f.foldDiv(n, lv, rv)
	case ast.IDiv:
		return f.foldIDiv(n, lv, rv)
	case ast.Mod:
		return f.foldMod(n, lv, rv)
	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge:
		return foldCompare(n, lv, rv)
	case ast.LogicalAnd, ast.LogicalOr:
		return foldLogical(n, lv, rv)
	default:
		return n
	}
}

func (f *Folder) foldAdd(n *ast.BinaryExpr, a, b numeric.Numeric) ast.Expr {
	pa, pb := numeric.Promote(a, b)

	if !pa.IsFloat {
		sum := numeric.WrapAdd(pa.I, pb.I)

		if numeric.FitsInt16Range(pa) && numeric.FitsInt16Range(pb) && !fitsI16(sum) {
			return n // abort fold: let the runtime trap the overflow
		}

		return numericToExpr(n, numeric.FromInt(sum))
	}

	return numericToExpr(n, numeric.FromFloat(pa.F+pb.F))
}

func fitsI16(v int64) bool { return v >= -32768 && v <= 32767 }

func foldWrap(n *ast.BinaryExpr, a, b numeric.Numeric, iop func(int64, int64) int64, fop func(float64, float64) float64) ast.Expr {
	pa, pb := numeric.Promote(a, b)

	if !pa.IsFloat {
		return numericToExpr(n, numeric.FromInt(iop(pa.I, pb.I)))
	}

	return numericToExpr(n, numeric.FromFloat(fop(pa.F, pb.F)))
}

func (f *Folder) foldDiv(n *ast.BinaryExpr, a, b numeric.Numeric) ast.Expr {
	pa, pb := numeric.Promote(a, b)

	divisor := pb.F
	if !pb.IsFloat {
		divisor = float64(pb.I)
	}

	if divisor == 0 {
		return n // abort fold: runtime must trap division by zero
	}

	dividend := pa.F
	if !pa.IsFloat {
		dividend = float64(pa.I)
	}

	return numericToExpr(n, numeric.FromFloat(dividend/divisor))
}

func (f *Folder) foldIDiv(n *ast.BinaryExpr, a, b numeric.Numeric) ast.Expr {
	if a.IsFloat || b.IsFloat {
		return n
	}

	if b.I == 0 {
		return n
	}

	return numericToExpr(n, numeric.FromInt(a.I/b.I))
}

func (f *Folder) foldMod(n *ast.BinaryExpr, a, b numeric.Numeric) ast.Expr {
	if a.IsFloat || b.IsFloat {
		return n
	}

	if b.I == 0 {
		return n
	}

	return numericToExpr(n, numeric.FromInt(a.I%b.I))
}

func foldCompare(n *ast.BinaryExpr, a, b numeric.Numeric) ast.Expr {
	pa, pb := numeric.Promote(a, b)

	cmp, ok := numeric.CompareOrdered(pa, pb)
	if !ok {
		// NaN: unordered comparisons yield FALSE, except != which yields TRUE.
		return intBool(n, n.Op == ast.Ne)
	}

	var result bool

	switch n.Op {
	case ast.Eq:
		result = cmp == 0
	case ast.Ne:
		result = cmp != 0
	case ast.Lt:
		result = cmp < 0
	case ast.Le:
		result = cmp <= 0
	case ast.Gt:
		result = cmp > 0
	case ast.Ge:
		result = cmp >= 0
	}

	return intBool(n, result)
}

// intBool materialises a comparison's fold result as a BoolExpr, so a
// folded comparison and a literal TRUE/FALSE are indistinguishable to every
// later pass (ANDALSO/ORELSE's full-fold path in particular needs both
// sides to already be BoolExpr to fold past the LHS short-circuit check).
func intBool(span ast.Expr, v bool) ast.Expr {
	loc := span.Location()
	return &ast.BoolExpr{Base: ast.Base{Span: loc}, Value: v}
}

func foldLogical(n *ast.BinaryExpr, a, b numeric.Numeric) ast.Expr {
	if a.IsFloat || b.IsFloat {
		return n
	}

	var result bool

	switch n.Op {
	case ast.LogicalAnd:
		result = a.I != 0 && b.I != 0
	case ast.LogicalOr:
		result = a.I != 0 || b.I != 0
	}

	return &ast.BoolExpr{Base: n.Base, Value: result}
}
