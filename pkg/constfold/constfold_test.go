package constfold_test

import (
	"testing"

	"github.com/splanck/viper-sub025/internal/assert"
	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/constfold"
)

func intE(v int64) *ast.IntExpr       { return &ast.IntExpr{Value: v} }
func floatE(v float64) *ast.FloatExpr { return &ast.FloatExpr{Value: v} }
func strE(v string) *ast.StringExpr   { return &ast.StringExpr{Value: v} }

func binE(op ast.BinaryOp, l, r ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, LHS: l, RHS: r}
}

func TestFoldStringConcat(t *testing.T) {
	f := constfold.New()
	got := f.FoldExpr(binE(ast.Add, strE("foo"), strE("bar")))

	s, ok := got.(*ast.StringExpr)
	assert.True(t, ok, "expected *ast.StringExpr")
	assert.Equal(t, "foobar", s.Value)
}

func TestFoldIntAddWithinRange(t *testing.T) {
	f := constfold.New()
	got := f.FoldExpr(binE(ast.Add, intE(100), intE(200)))

	i, ok := got.(*ast.IntExpr)
	assert.True(t, ok, "expected *ast.IntExpr")
	assert.Equal(t, int64(300), i.Value)
}

// Both operands fit a signed 16-bit range but their sum doesn't: the
// runtime's own overflow trap must still fire, so fold must abort and
// return the original BinaryExpr untouched.
func TestFoldIntAddOverflowAborts(t *testing.T) {
	f := constfold.New()
	n := binE(ast.Add, intE(32000), intE(1000))
	got := f.FoldExpr(n)

	_, stillBinary := got.(*ast.BinaryExpr)
	assert.True(t, stillBinary, "overflowing add must not fold")
}

func TestFoldDivisionByZeroAborts(t *testing.T) {
	f := constfold.New()
	n := binE(ast.Div, intE(10), intE(0))
	got := f.FoldExpr(n)

	_, stillBinary := got.(*ast.BinaryExpr)
	assert.True(t, stillBinary, "division by zero must not fold")
}

func TestFoldIDivByZeroAborts(t *testing.T) {
	f := constfold.New()
	n := binE(ast.IDiv, intE(10), intE(0))
	got := f.FoldExpr(n)

	_, stillBinary := got.(*ast.BinaryExpr)
	assert.True(t, stillBinary, "integer division by zero must not fold")
}

func TestFoldDivisionProducesFloat(t *testing.T) {
	f := constfold.New()
	got := f.FoldExpr(binE(ast.Div, intE(5), intE(2)))

	fl, ok := got.(*ast.FloatExpr)
	assert.True(t, ok, "expected *ast.FloatExpr")
	assert.Equal(t, 2.5, fl.Value)
}

// Folding is idempotent: running FoldExpr a second time over an
// already-folded literal must return the same literal unchanged.
func TestFoldIsIdempotent(t *testing.T) {
	f := constfold.New()

	once := f.FoldExpr(binE(ast.Add, intE(1), intE(2)))
	twice := f.FoldExpr(once)

	i1, ok1 := once.(*ast.IntExpr)
	i2, ok2 := twice.(*ast.IntExpr)
	assert.True(t, ok1 && ok2, "both folds must yield *ast.IntExpr")
	assert.Equal(t, i1.Value, i2.Value)
}

// ANDALSO/ORELSE must never fold their RHS once the LHS already decides
// the result; a CallExpr on the RHS that would otherwise be visited (and
// have its args folded) proves the short-circuit by surviving unfolded.
func TestFoldShortCircuitSkipsRHS(t *testing.T) {
	f := constfold.New()

	rhsCall := &ast.CallExpr{Callee: "Sideeffect", Args: []ast.Expr{binE(ast.Add, intE(1), intE(1))}}
	n := &ast.BinaryExpr{Op: ast.LogicalAndShort, LHS: &ast.BoolExpr{Value: false}, RHS: rhsCall}

	got := f.FoldExpr(n)

	b, ok := got.(*ast.BoolExpr)
	assert.True(t, ok, "expected *ast.BoolExpr")
	assert.False(t, b.Value)

	call, ok := rhsCall.Args[0].(*ast.BinaryExpr)
	assert.True(t, ok, "RHS call's argument must remain unfolded")
	_ = call
}

func TestFoldLenCountsBytes(t *testing.T) {
	f := constfold.New()
	got := f.FoldExpr(&ast.BuiltinCallExpr{Builtin: ast.BuiltinLen, Args: []ast.Expr{strE("café")}})

	i, ok := got.(*ast.IntExpr)
	assert.True(t, ok, "expected *ast.IntExpr")
	// "café" is 4 code points but 5 bytes (é is a 2-byte UTF-8 sequence).
	assert.Equal(t, int64(5), i.Value)
}

func TestFoldMidUsesCodePoints(t *testing.T) {
	f := constfold.New()
	got := f.FoldExpr(&ast.BuiltinCallExpr{
		Builtin: ast.BuiltinMid,
		Args:    []ast.Expr{strE("cafés"), intE(4), intE(2)},
	})

	s, ok := got.(*ast.StringExpr)
	assert.True(t, ok, "expected *ast.StringExpr")
	assert.Equal(t, "és", s.Value)
}

// 0 OR 1 folds to a BoolExpr, not an IntExpr(1): logical ops on integer
// literals coerce to bool at fold time.
func TestFoldLogicalOrOnIntsProducesBool(t *testing.T) {
	f := constfold.New()
	got := f.FoldExpr(binE(ast.LogicalOr, intE(0), intE(1)))

	b, ok := got.(*ast.BoolExpr)
	assert.True(t, ok, "expected *ast.BoolExpr")
	assert.True(t, b.Value, "0 OR 1 must be true")
}

// FALSE ORELSE (1 = 1) must fold all the way to BoolExpr(true): the
// comparison on the RHS has to materialize as BoolExpr, not IntExpr, for
// ORELSE's full-fold path (both sides already literal) to recognize it.
func TestFoldOrElseFoldsThroughComparisonRHS(t *testing.T) {
	f := constfold.New()
	cmp := binE(ast.Eq, intE(1), intE(1))
	n := &ast.BinaryExpr{Op: ast.LogicalOrShort, LHS: &ast.BoolExpr{Value: false}, RHS: cmp}

	got := f.FoldExpr(n)

	b, ok := got.(*ast.BoolExpr)
	assert.True(t, ok, "expected *ast.BoolExpr")
	assert.True(t, b.Value, "FALSE ORELSE (1 = 1) must be true")
}

// MID$ clamps a sub-one start up to 1 instead of rejecting the call.
func TestFoldMidClampsStartBelowOne(t *testing.T) {
	f := constfold.New()
	got := f.FoldExpr(&ast.BuiltinCallExpr{
		Builtin: ast.BuiltinMid,
		Args:    []ast.Expr{strE("Aßc"), intE(0), intE(5)},
	})

	s, ok := got.(*ast.StringExpr)
	assert.True(t, ok, "expected *ast.StringExpr")
	assert.Equal(t, "Aßc", s.Value)
}

func TestFoldLeftRightUseCodePoints(t *testing.T) {
	f := constfold.New()

	left := f.FoldExpr(&ast.BuiltinCallExpr{Builtin: ast.BuiltinLeft, Args: []ast.Expr{strE("café"), intE(3)}})
	ls, ok := left.(*ast.StringExpr)
	assert.True(t, ok, "expected *ast.StringExpr")
	assert.Equal(t, "caf", ls.Value)

	right := f.FoldExpr(&ast.BuiltinCallExpr{Builtin: ast.BuiltinRight, Args: []ast.Expr{strE("café"), intE(2)}})
	rs, ok := right.(*ast.StringExpr)
	assert.True(t, ok, "expected *ast.StringExpr")
	assert.Equal(t, "fé", rs.Value)
}
