package constfold

import (
	"math"
	"strconv"
	"strings"

	"github.com/splanck/viper-sub025/pkg/ast"
)

// foldBuiltin attempts to collapse a builtin call whose arguments have
// already been folded into literals. Builtins whose arguments aren't fully
// literal, or whose folded result would require losing precision the
// runtime wouldn't lose, are left unfolded.
func (f *Folder) foldBuiltin(n *ast.BuiltinCallExpr) ast.Expr {
	switch n.Builtin {
	case ast.BuiltinLen:
		return foldLen(n)
	case ast.BuiltinMid:
		return foldMid(n)
	case ast.BuiltinLeft:
		return foldLeftRight(n, true)
	case ast.BuiltinRight:
		return foldLeftRight(n, false)
	case ast.BuiltinInt:
		return foldFloatUnary(n, math.Floor)
	case ast.BuiltinFix:
		return foldFloatUnary(n, math.Trunc)
	case ast.BuiltinRound:
		return foldRound(n)
	case ast.BuiltinVal:
		return foldVal(n)
	case ast.BuiltinStr:
		return foldStr(n)
	default:
		return n
	}
}

func stringLit(e ast.Expr) (string, bool) {
	s, ok := e.(*ast.StringExpr)
	if !ok {
		return "", false
	}

	return s.Value, true
}

func intLit(e ast.Expr) (int64, bool) {
	i, ok := e.(*ast.IntExpr)
	if !ok {
		return 0, false
	}

	return i.Value, true
}

func foldLen(n *ast.BuiltinCallExpr) ast.Expr {
	if len(n.Args) != 1 {
		return n
	}

	s, ok := stringLit(n.Args[0])
	if !ok {
		return n
	}

	// LEN counts encoded bytes, not runes.
	return &ast.IntExpr{Base: n.Base, Value: int64(len(s))}
}

func clampCount(count int64, remaining int) int {
	if count <= 0 {
		return 0
	}

	if int(count) >= remaining {
		return remaining
	}

	return int(count)
}

// runeSlice converts s to its code points: MID$/LEFT$/RIGHT$ index by code
// point, not byte.
func runeSlice(s string) []rune { return []rune(s) }

func foldMid(n *ast.BuiltinCallExpr) ast.Expr {
	if len(n.Args) != 2 && len(n.Args) != 3 {
		return n
	}

	s, ok := stringLit(n.Args[0])
	if !ok {
		return n
	}

	start, ok := intLit(n.Args[1])
	if !ok {
		return n
	}

	runes := runeSlice(s)

	if start < 1 {
		start = 1
	}

	if int(start) > len(runes) {
		return &ast.StringExpr{Base: n.Base, Value: ""}
	}

	from := int(start) - 1
	remaining := len(runes) - from

	count := remaining
	if len(n.Args) == 3 {
		c, ok := intLit(n.Args[2])
		if !ok {
			return n
		}

		count = clampCount(c, remaining)
	}

	return &ast.StringExpr{Base: n.Base, Value: string(runes[from : from+count])}
}

func foldLeftRight(n *ast.BuiltinCallExpr, left bool) ast.Expr {
	if len(n.Args) != 2 {
		return n
	}

	s, ok := stringLit(n.Args[0])
	if !ok {
		return n
	}

	count, ok := intLit(n.Args[1])
	if !ok {
		return n
	}

	runes := runeSlice(s)
	c := clampCount(count, len(runes))

	if left {
		return &ast.StringExpr{Base: n.Base, Value: string(runes[:c])}
	}

	return &ast.StringExpr{Base: n.Base, Value: string(runes[len(runes)-c:])}
}

func foldFloatUnary(n *ast.BuiltinCallExpr, op func(float64) float64) ast.Expr {
	if len(n.Args) != 1 {
		return n
	}

	v, ok := asNumeric(n.Args[0])
	if !ok {
		return n
	}

	x := v.F
	if !v.IsFloat {
		x = float64(v.I)
	}

	return &ast.FloatExpr{Base: n.Base, Value: op(x)}
}

func foldRound(n *ast.BuiltinCallExpr) ast.Expr {
	if len(n.Args) != 1 && len(n.Args) != 2 {
		return n
	}

	v, ok := asNumeric(n.Args[0])
	if !ok {
		return n
	}

	x := v.F
	if !v.IsFloat {
		x = float64(v.I)
	}

	digits := int64(0)

	if len(n.Args) == 2 {
		d, ok := intLit(n.Args[1])
		if !ok {
			return n
		}

		digits = d
	}

	if math.IsNaN(x) || math.IsInf(x, 0) || digits < 0 || digits > 15 {
		return n
	}

	return &ast.FloatExpr{Base: n.Base, Value: bankersRound(x, int(digits))}
}

// bankersRound rounds to the nearest representable value at the given
// decimal digit count, breaking exact ties to even (banker's rounding),
// matching the runtime's ROUND formatter.
func bankersRound(x float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	scaled := x * scale

	floor := math.Floor(scaled)
	diff := scaled - floor

	var rounded float64

	switch {
	case diff < 0.5:
		rounded = floor
	case diff > 0.5:
		rounded = floor + 1
	default:
		if math.Mod(floor, 2) == 0 {
			rounded = floor
		} else {
			rounded = floor + 1
		}
	}

	return rounded / scale
}

func foldVal(n *ast.BuiltinCallExpr) ast.Expr {
	if len(n.Args) != 1 {
		return n
	}

	s, ok := stringLit(n.Args[0])
	if !ok {
		return n
	}

	return &ast.FloatExpr{Base: n.Base, Value: parseNumericPrefix(s)}
}

// parseNumericPrefix parses the longest numeric prefix of s, BASIC VAL$
// style; an empty or wholly non-numeric prefix yields 0.0.
func parseNumericPrefix(s string) float64 {
	s = strings.TrimLeft(s, " \t")

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}

	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}

	if i == start {
		return 0.0
	}

	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0.0
	}

	return v
}

func foldStr(n *ast.BuiltinCallExpr) ast.Expr {
	if len(n.Args) != 1 {
		return n
	}

	v, ok := asNumeric(n.Args[0])
	if !ok {
		return n
	}

	if v.IsFloat {
		return &ast.StringExpr{Base: n.Base, Value: strconv.FormatFloat(v.F, 'g', -1, 64)}
	}

	return &ast.StringExpr{Base: n.Base, Value: strconv.FormatInt(v.I, 10)}
}
