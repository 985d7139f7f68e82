// Package compiler wires the front-end stages — parse, fold, analyze,
// lower — into the single driver entry point described by the pipeline's
// external interface: parse -> fold -> analyze -> lower, short-circuiting
// as soon as any stage reports an error.
package compiler

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/constfold"
	"github.com/splanck/viper-sub025/pkg/diag"
	"github.com/splanck/viper-sub025/pkg/il"
	"github.com/splanck/viper-sub025/pkg/lower"
	"github.com/splanck/viper-sub025/pkg/parser"
	"github.com/splanck/viper-sub025/pkg/sema"
	"github.com/splanck/viper-sub025/pkg/source"
)

// Options controls optional pipeline behaviour.
type Options struct {
	// BoundsChecks requests that the lowerer emit array bounds checks.
	// Reserved for the runtime ABI; the lowerer does not yet consult it.
	BoundsChecks bool
}

// Input names the source being compiled.
type Input struct {
	Source []byte
	Path   string
}

// Result is the outcome of one call to Compile.
type Result struct {
	Program *ast.Program
	FileID  source.FileID
	Emitter *diag.Emitter
	// Module is non-nil iff every stage completed without reporting an
	// error.
	Module *il.Module
}

// Success reports whether every stage completed without error.
func (r *Result) Success() bool {
	return r.Emitter != nil && r.Emitter.ErrorCount() == 0
}

// Compile runs the full pipeline over in, registering its source text with
// mgr. Each stage records diagnostics on the returned Result's Emitter and
// the pipeline halts as soon as one reports an error.
func Compile(in Input, opts Options, mgr *source.Manager) *Result {
	_ = opts

	fileID, err := mgr.AddFile(in.Path, in.Source)
	emitter := diag.NewEmitter(mgr)

	if err != nil {
		emitter.Errorf(diag.CodeSourceExhausted, fileID, source.Span{}, "%s", err.Error())
		return &Result{Emitter: emitter, FileID: fileID}
	}

	res := &Result{Emitter: emitter, FileID: fileID}

	start := time.Now()
	prog := parser.ParseProgram(in.Source, fileID, emitter)
	log.Debugf("parse: %s", time.Since(start))
	res.Program = prog

	if emitter.ErrorCount() > 0 {
		return res
	}

	start = time.Now()
	constfold.New().FoldProgram(prog)
	log.Debugf("fold: %s", time.Since(start))

	if emitter.ErrorCount() > 0 {
		return res
	}

	start = time.Now()
	semaResult := sema.Analyze(prog, emitter, fileID)
	log.Debugf("analyze: %s", time.Since(start))

	if emitter.ErrorCount() > 0 {
		return res
	}

	start = time.Now()
	res.Module = lower.Lower(prog, semaResult.Procs)
	log.Debugf("lower: %s", time.Since(start))

	return res
}
