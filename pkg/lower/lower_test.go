package lower_test

import (
	"testing"

	"github.com/splanck/viper-sub025/internal/assert"
	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/compiler"
	"github.com/splanck/viper-sub025/pkg/il"
	"github.com/splanck/viper-sub025/pkg/source"
)

func compile(t *testing.T, src string) *il.Module {
	t.Helper()

	mgr := source.NewManager()
	res := compiler.Compile(compiler.Input{Source: []byte(src), Path: "lower.bas"}, compiler.Options{BoundsChecks: true}, mgr)
	assert.True(t, res.Success(), "expected a clean compile")

	return res.Module
}

func TestLowerEmitsOneFunctionPerProc(t *testing.T) {
	src := "FUNCTION Square(N)\n" +
		"Square = N * N\n" +
		"END FUNCTION\n" +
		"10 DIM R\n" +
		"20 LET R = Square(4)\n"

	mod := compile(t, src)
	assert.Equal(t, 1, len(mod.Functions))
	assert.Equal(t, "Square", mod.Functions[0].Name)
}

// Every lowered function and main ends in a terminated block: lowering
// always appends an implicit return when control falls off the end.
func TestLowerTerminatesEveryBlock(t *testing.T) {
	src := "SUB DoNothing\n" +
		"END SUB\n" +
		"10 DoNothing()\n" +
		"20 END\n"

	mod := compile(t, src)

	for _, fn := range mod.Functions {
		for _, b := range fn.Blocks {
			assert.True(t, b.Terminated(), "expected every block in "+fn.Name+" to be terminated")
		}
	}

	for _, b := range mod.Main.Blocks {
		assert.True(t, b.Terminated(), "expected every block in main to be terminated")
	}
}

// A label target inside a loop lowers to a real block split, so GOTO can
// jump backward without falling through into code it shouldn't re-enter.
func TestLowerGotoSplitsBlocks(t *testing.T) {
	src := "10 DIM I\n" +
		"20 LET I = 0\n" +
		"30 LET I = I + 1\n" +
		"40 IF I < 3 THEN GOTO 30\n" +
		"50 END\n"

	mod := compile(t, src)
	assert.True(t, len(mod.Main.Blocks) > 1, "expected GOTO to force a block split")
}

// A multi-label CASE arm must match the selector against every listed
// label, not just the first — CASE 1, 2 is an OR of two equality checks,
// never a single comparison against label 1 alone.
func TestLowerSelectCaseMultiLabelOrsEveryLabel(t *testing.T) {
	src := "10 DIM X\n" +
		"20 LET X = 2\n" +
		"30 SELECT CASE X\n" +
		"40 CASE 1, 2\n" +
		"50 PRINT 1\n" +
		"60 END SELECT\n" +
		"70 END\n"

	mod := compile(t, src)

	var eqCount, orCount int

	for _, b := range mod.Main.Blocks {
		for _, instr := range b.Instrs {
			if instr.Op != il.OpBinary {
				continue
			}

			switch instr.BinOp {
			case ast.Eq:
				eqCount++
			case ast.LogicalOr:
				orCount++
			}
		}
	}

	assert.True(t, eqCount >= 2, "expected a separate equality check per label")
	assert.True(t, orCount >= 1, "expected the per-label checks to be OR-ed together")
}
