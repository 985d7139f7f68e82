package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/runtime"
)

// builtinName looks up a builtin's BASIC-spelling name from the shared
// runtime registry, so the printer never maintains a second name table.
func builtinName(id ast.BuiltinID) string {
	if info, ok := runtime.Lookup(id); ok {
		return info.Name
	}

	return "?"
}

// binaryTokens is indexed by BinaryOp ordinal (Invariant 3): ordering here
// must track the const block in pkg/ast/expr.go exactly.
var binaryTokens = [...]string{
	"+", "-", "*", "/", "^", "\\", "MOD",
	"=", "<>", "<", "<=", ">", ">=",
	"ANDALSO", "ORELSE", "AND", "OR",
}

func binaryToken(op ast.BinaryOp) string {
	if int(op) < 0 || int(op) >= len(binaryTokens) {
		return "?"
	}

	return binaryTokens[op]
}

func unaryPrefix(op ast.UnaryOp) string {
	switch op {
	case ast.LogicalNot:
		return "NOT "
	case ast.Plus:
		return "+ "
	case ast.Negate:
		return "- "
	default:
		return "? "
	}
}

func quoteString(s string) string {
	var sb strings.Builder

	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}

	sb.WriteByte('"')

	return sb.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func qualifiedPath(parts []string, fallback string) string {
	if len(parts) > 0 {
		return strings.Join(parts, ".")
	}

	return fallback
}

// exprSexpr renders e in the richer of the printer's two historical output
// forms: array accesses keep all index expressions, calls print a
// qualified callee when one is present, and IS/AS/ADDRESSOF render
// explicitly.
func exprSexpr(e ast.Expr) string {
	if e == nil {
		return "<null>"
	}

	switch n := e.(type) {
	case *ast.IntExpr:
		return strconv.FormatInt(n.Value, 10)
	case *ast.FloatExpr:
		return formatFloat(n.Value)
	case *ast.StringExpr:
		return quoteString(n.Value)
	case *ast.BoolExpr:
		if n.Value {
			return "TRUE"
		}

		return "FALSE"
	case *ast.VarExpr:
		return n.Name
	case *ast.ArrayExpr:
		idx := make([]string, len(n.Indices))
		for i, ix := range n.Indices {
			idx[i] = exprSexpr(ix)
		}

		return fmt.Sprintf("(INDEX %s %s)", n.Name, strings.Join(idx, " "))
	case *ast.UnaryExpr:
		return unaryPrefix(n.Op) + exprSexpr(n.Operand)
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", exprSexpr(n.LHS), binaryToken(n.Op), exprSexpr(n.RHS))
	case *ast.BuiltinCallExpr:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = exprSexpr(a)
		}

		return fmt.Sprintf("(%s %s)", builtinName(n.Builtin), strings.Join(args, " "))
	case *ast.CallExpr:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = exprSexpr(a)
		}

		return fmt.Sprintf("(CALL %s %s)", qualifiedPath(n.QualifiedCallee, n.Callee), strings.Join(args, " "))
	case *ast.LBoundExpr:
		return fmt.Sprintf("(LBOUND %s)", n.Name)
	case *ast.UBoundExpr:
		return fmt.Sprintf("(UBOUND %s)", n.Name)
	case *ast.NewExpr:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = exprSexpr(a)
		}

		return fmt.Sprintf("(NEW %s %s)", qualifiedPath(n.QualifiedType, n.ClassName), strings.Join(args, " "))
	case *ast.MeExpr:
		return "ME"
	case *ast.MemberAccessExpr:
		return fmt.Sprintf("(MEMBER %s %s)", exprSexpr(n.Target), n.Member)
	case *ast.MethodCallExpr:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = exprSexpr(a)
		}

		return fmt.Sprintf("(CALL (MEMBER %s %s) %s)", exprSexpr(n.Target), n.Method, strings.Join(args, " "))
	case *ast.IsExpr:
		return fmt.Sprintf("(IS %s %s)", exprSexpr(n.Value), strings.Join(n.TypeName, "."))
	case *ast.AsExpr:
		return fmt.Sprintf("(AS %s %s)", exprSexpr(n.Value), strings.Join(n.TypeName, "."))
	case *ast.AddressOfExpr:
		return fmt.Sprintf("(ADDRESSOF %s)", n.TargetName)
	default:
		return "<null>"
	}
}
