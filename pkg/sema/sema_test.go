package sema_test

import (
	"strings"
	"testing"

	"github.com/splanck/viper-sub025/internal/assert"
	"github.com/splanck/viper-sub025/pkg/constfold"
	"github.com/splanck/viper-sub025/pkg/diag"
	"github.com/splanck/viper-sub025/pkg/parser"
	"github.com/splanck/viper-sub025/pkg/printer"
	"github.com/splanck/viper-sub025/pkg/sema"
	"github.com/splanck/viper-sub025/pkg/source"
)

func analyze(t *testing.T, src string) (string, *diag.Emitter) {
	t.Helper()

	mgr := source.NewManager()
	fileID, err := mgr.AddFile("sema.bas", []byte(src))
	assert.NoError(t, err)

	emitter := diag.NewEmitter(mgr)
	prog := parser.ParseProgram([]byte(src), fileID, emitter)
	assert.Equal(t, 0, emitter.ErrorCount())

	constfold.New().FoldProgram(prog)
	sema.Analyze(prog, emitter, fileID)

	return printer.Dump(prog), emitter
}

// Locals declared inside a SUB body are renamed with a per-procedure `_N`
// suffix, in declaration order, while the top-level program scope keeps
// its original spelling.
func TestScopeRenamesLocalsWithSuffix(t *testing.T) {
	src := "SUB P\n" +
		"DIM ARR(10)\n" +
		"DIM NAME$\n" +
		"DIM I\n" +
		"LET I = 1\n" +
		"END SUB\n" +
		"10 DIM I\n" +
		"20 LET I = 2\n"

	got, emitter := analyze(t, src)
	assert.Equal(t, 0, emitter.ErrorCount())

	assert.True(t, containsAll(got,
		"(DIM ARR_0 ARRAY 10)",
		"(DIM NAME$_1)",
		"(DIM I_2)",
		"(LET I_2 1)",
	), "expected renamed locals in: "+got)

	assert.True(t, containsAll(got, "10: (DIM I)\n", "20: (LET I 2)\n"),
		"expected unrenamed program-scope I in: "+got)
}

// A SHARED name resolves to the root scope's binding instead of minting a
// fresh local, so it keeps the program-scope spelling even inside a SUB.
func TestSharedNameResolvesToRootBinding(t *testing.T) {
	src := "10 DIM TOTAL\n" +
		"20 LET TOTAL = 0\n" +
		"SUB Bump\n" +
		"SHARED TOTAL\n" +
		"LET TOTAL = TOTAL + 1\n" +
		"END SUB\n"

	got, emitter := analyze(t, src)
	assert.Equal(t, 0, emitter.ErrorCount())
	assert.True(t, strings.Contains(got, "(LET TOTAL (TOTAL + 1))"), "expected shared TOTAL unrenamed in: "+got)
}

func TestUndeclaredNameIsDiagnosed(t *testing.T) {
	_, emitter := analyze(t, "10 LET X = Y + 1\n")
	assert.True(t, emitter.ErrorCount() > 0, "expected an undeclared-name diagnostic")
}

func TestDuplicateProcDeclarationIsDiagnosed(t *testing.T) {
	src := "SUB P\nEND SUB\nSUB P\nEND SUB\n"
	_, emitter := analyze(t, src)
	assert.True(t, emitter.ErrorCount() > 0, "expected a duplicate-declaration diagnostic")
}

func TestArityMismatchIsDiagnosed(t *testing.T) {
	src := "FUNCTION F(A, B)\nF = A + B\nEND FUNCTION\n" +
		"10 DIM X\n" +
		"20 LET X = F(1)\n"

	_, emitter := analyze(t, src)
	assert.True(t, emitter.ErrorCount() > 0, "expected an arity-mismatch diagnostic")
}

// A comparison's result must type-check the same whether or not it was
// constant-folded to a BoolExpr before reaching the analyzer: assigning it
// into a numeric slot is legal either way, BASIC's -1/0 convention.
func TestComparisonAssignsToNumericFoldedOrNot(t *testing.T) {
	folded := "10 DIM X\n20 LET X = 1 = 1\n"
	unfolded := "10 DIM A\n20 DIM B\n30 DIM X\n40 LET X = A = B\n"

	_, e1 := analyze(t, folded)
	assert.Equal(t, 0, e1.ErrorCount())

	_, e2 := analyze(t, unfolded)
	assert.Equal(t, 0, e2.ErrorCount())
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}

	return true
}
