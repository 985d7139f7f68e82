package compiler_test

import (
	"testing"

	"github.com/splanck/viper-sub025/internal/assert"
	"github.com/splanck/viper-sub025/pkg/compiler"
	"github.com/splanck/viper-sub025/pkg/source"
)

func TestCompileSuccess(t *testing.T) {
	src := "SUB Greet\n" +
		"PRINT \"hi\"\n" +
		"END SUB\n" +
		"10 Greet()\n" +
		"20 END\n"

	mgr := source.NewManager()
	res := compiler.Compile(compiler.Input{Source: []byte(src), Path: "ok.bas"}, compiler.Options{BoundsChecks: true}, mgr)

	assert.True(t, res.Success(), "expected a clean compile")
	assert.True(t, res.Module != nil, "expected a populated Module on success")
	assert.Equal(t, 1, len(res.Module.Functions))
}

// A parse error must short-circuit the pipeline: folding, analysis and
// lowering never run, and Module stays nil.
func TestCompileShortCircuitsOnParseError(t *testing.T) {
	mgr := source.NewManager()
	res := compiler.Compile(compiler.Input{Source: []byte("10 LET = \n"), Path: "bad.bas"}, compiler.Options{}, mgr)

	assert.False(t, res.Success())
	assert.True(t, res.Module == nil, "expected no Module after a parse error")
}

// A semantic error (undeclared name) must still short-circuit before
// lowering runs.
func TestCompileShortCircuitsOnSemaError(t *testing.T) {
	mgr := source.NewManager()
	res := compiler.Compile(compiler.Input{Source: []byte("10 LET X = Y\n"), Path: "undecl.bas"}, compiler.Options{}, mgr)

	assert.False(t, res.Success())
	assert.True(t, res.Module == nil, "expected no Module after a semantic error")
}
