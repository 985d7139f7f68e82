package parser_test

import (
	"testing"

	"github.com/splanck/viper-sub025/internal/assert"
	"github.com/splanck/viper-sub025/pkg/diag"
	"github.com/splanck/viper-sub025/pkg/parser"
	"github.com/splanck/viper-sub025/pkg/source"
)

func parse(t *testing.T, src string) *diag.Emitter {
	t.Helper()

	mgr := source.NewManager()
	fileID, err := mgr.AddFile("diag.bas", []byte(src))
	assert.NoError(t, err)

	emitter := diag.NewEmitter(mgr)
	parser.ParseProgram([]byte(src), fileID, emitter)

	return emitter
}

func firstCode(t *testing.T, emitter *diag.Emitter) string {
	t.Helper()

	diags := emitter.Diagnostics()
	assert.True(t, len(diags) > 0, "expected at least one diagnostic")

	return diags[0].Code
}

func TestSelectCaseDuplicateElse(t *testing.T) {
	src := "10 SELECT CASE X\n" +
		"20 CASE ELSE\n" +
		"30 PRINT 1\n" +
		"40 CASE ELSE\n" +
		"50 PRINT 2\n" +
		"60 END SELECT\n"

	emitter := parse(t, src)
	assert.Equal(t, diag.ErrSelectCaseDuplicateElse, firstCode(t, emitter))
}

func TestSelectCaseMissingEndSelect(t *testing.T) {
	src := "10 SELECT CASE X\n" +
		"20 CASE 1\n" +
		"30 PRINT 1\n" +
		"40 END\n"

	emitter := parse(t, src)
	assert.Equal(t, diag.ErrSelectCaseMissingEndSelect, firstCode(t, emitter))
}

func TestLineInputRequiresVariable(t *testing.T) {
	emitter := parse(t, "10 LINE INPUT #1, 5\n")
	assert.Equal(t, diag.ErrExpectedVariable, firstCode(t, emitter))
}

func TestSelectCaseInvalidLabel(t *testing.T) {
	src := "10 SELECT CASE X\n" +
		"20 CASE Y\n" +
		"30 PRINT 1\n" +
		"40 END SELECT\n"

	emitter := parse(t, src)
	assert.Equal(t, diag.ErrCaseInvalidLabel, firstCode(t, emitter))
}

func TestUnexpectedTokenInExpression(t *testing.T) {
	emitter := parse(t, "10 LET X = *\n")
	assert.Equal(t, diag.ErrUnexpectedToken, firstCode(t, emitter))
}
