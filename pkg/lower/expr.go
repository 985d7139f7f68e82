package lower

import (
	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/il"
	"github.com/splanck/viper-sub025/pkg/runtime"
)

// lowerExpr emits the instructions computing e and returns the value
// holding its result together with its type.
func (l *lowerer) lowerExpr(e ast.Expr) (il.Value, ast.Type) {
	switch n := e.(type) {
	case *ast.IntExpr:
		v := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpConstInt, Result: v, Type: ast.I64, IntImm: n.Value})

		return v, ast.I64
	case *ast.FloatExpr:
		v := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpConstFloat, Result: v, Type: ast.F64, FloatImm: n.Value})

		return v, ast.F64
	case *ast.StringExpr:
		v := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpConstStr, Result: v, Type: ast.Str, StrImm: n.Value})

		return v, ast.Str
	case *ast.BoolExpr:
		v := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpConstBool, Result: v, Type: ast.Bool, BoolImm: n.Value})

		return v, ast.Bool
	case *ast.VarExpr:
		v := l.fn.NewValue()
		t := varType(n.Name)
		l.cur.Emit(il.Instr{Op: il.OpLoad, Result: v, Name: n.Name, Type: t})

		return v, t
	case *ast.ArrayExpr:
		idx := make([]il.Value, len(n.Indices))
		for i, ix := range n.Indices {
			idx[i], _ = l.lowerExpr(ix)
		}

		v := l.fn.NewValue()
		t := varType(n.Name)
		l.cur.Emit(il.Instr{Op: il.OpArrayLoad, Result: v, Name: n.Name, Type: t, Operands: idx})

		return v, t
	case *ast.UnaryExpr:
		operand, t := l.lowerExpr(n.Operand)
		v := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpUnary, Result: v, Type: t, UnOp: n.Op, Operands: []il.Value{operand}})

		return v, t
	case *ast.BinaryExpr:
		lv, lt := l.lowerExpr(n.LHS)
		rv, rt := l.lowerExpr(n.RHS)
		v := l.fn.NewValue()
		t := binaryResultType(n.Op, lt, rt)
		l.cur.Emit(il.Instr{Op: il.OpBinary, Result: v, Type: t, BinOp: n.Op, Operands: []il.Value{lv, rv}})

		return v, t
	case *ast.BuiltinCallExpr:
		return l.lowerBuiltin(n)
	case *ast.CallExpr:
		args := make([]il.Value, len(n.Args))
		for i, a := range n.Args {
			args[i], _ = l.lowerExpr(a)
		}

		v := l.fn.NewValue()
		retType := ast.I64

		if sig, ok := l.sig[n.Callee]; ok {
			retType = sig.Ret
		}

		l.cur.Emit(il.Instr{Op: il.OpCall, Result: v, Type: retType, Name: n.Callee, Operands: args})

		return v, retType
	case *ast.LBoundExpr, *ast.UBoundExpr:
		v := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpConstInt, Result: v, Type: ast.I64, IntImm: 0})

		return v, ast.I64
	case *ast.NewExpr:
		for _, a := range n.Args {
			l.lowerExpr(a)
		}

		v := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Result: v, Name: "rt_obj_new", Type: ast.I64})

		return v, ast.I64
	case *ast.MeExpr:
		v := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpLoad, Result: v, Name: "ME", Type: ast.I64})

		return v, ast.I64
	case *ast.MemberAccessExpr:
		base, _ := l.lowerExpr(n.Target)
		v := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpLoad, Result: v, Name: n.Member, Type: ast.I64, Operands: []il.Value{base}})

		return v, ast.I64
	case *ast.MethodCallExpr:
		base, _ := l.lowerExpr(n.Target)
		args := []il.Value{base}

		for _, a := range n.Args {
			av, _ := l.lowerExpr(a)
			args = append(args, av)
		}

		v := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpCall, Result: v, Name: n.Method, Type: ast.I64, Operands: args})

		return v, ast.I64
	case *ast.IsExpr:
		l.lowerExpr(n.Value)

		v := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Result: v, Name: "rt_obj_is", Type: ast.Bool})

		return v, ast.Bool
	case *ast.AsExpr:
		val, t := l.lowerExpr(n.Value)
		return val, t
	case *ast.AddressOfExpr:
		v := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpConstInt, Result: v, Type: ast.I64, Name: n.TargetName})

		return v, ast.I64
	default:
		v := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpConstInt, Result: v, Type: ast.I64, IntImm: 0})

		return v, ast.I64
	}
}

func varType(name string) ast.Type {
	if len(name) == 0 {
		return ast.I64
	}

	switch name[len(name)-1] {
	case '$':
		return ast.Str
	case '!', '#':
		return ast.F64
	default:
		return ast.I64
	}
}

func binaryResultType(op ast.BinaryOp, lt, rt ast.Type) ast.Type {
	switch op {
	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge, ast.IDiv, ast.Mod:
		return ast.I64
	case ast.LogicalAnd, ast.LogicalOr, ast.LogicalAndShort, ast.LogicalOrShort:
		if lt == ast.Bool && rt == ast.Bool {
			return ast.Bool
		}

		return ast.I64
	case ast.Add:
		if lt == ast.Str {
			return ast.Str
		}

		fallthrough
	default:
		if lt == ast.F64 || rt == ast.F64 {
			return ast.F64
		}

		return ast.I64
	}
}

// lowerBuiltin emits a runtime call for a builtin, looking up its entry
// point symbol in the shared registry.
func (l *lowerer) lowerBuiltin(n *ast.BuiltinCallExpr) (il.Value, ast.Type) {
	argVals := make([]il.Value, len(n.Args))
	argTypes := make([]ast.Type, len(n.Args))

	for i, a := range n.Args {
		argVals[i], argTypes[i] = l.lowerExpr(a)
	}

	info, ok := runtime.Lookup(n.Builtin)

	v := l.fn.NewValue()

	if !ok {
		l.cur.Emit(il.Instr{Op: il.OpConstInt, Result: v, Type: ast.I64, IntImm: 0})
		return v, ast.I64
	}

	resultType := info.Result(argTypes)
	l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Result: v, Type: resultType, Name: info.Symbol(argTypes), Operands: argVals})

	if resultType == ast.Str {
		l.cur.Emit(il.Instr{Op: il.OpStringRef, Operands: []il.Value{v}})
	}

	return v, resultType
}
