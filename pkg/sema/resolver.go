// Package sema resolves every variable and array reference to a declared
// binding, renames scoped locals to globally unique `_N` forms, and
// enforces BASIC's operand type-compatibility rules ahead of lowering.
package sema

import (
	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/diag"
	"github.com/splanck/viper-sub025/pkg/source"
)

// ProcSignature records a resolved procedure's parameter and return types,
// populated for the lowerer.
type ProcSignature struct {
	Params []ast.Type
	Ret    ast.Type
	IsSub  bool
}

// Analyzer walks a Program, mutating it in place: Var/Array references are
// rewritten to their renamed form, and array-shaped references that name a
// procedure become calls. Operand types are checked but not rewritten: no
// conversion nodes are inserted for implicit promotions.
type Analyzer struct {
	emitter *diag.Emitter
	fileID  source.FileID

	scopes scopeStack
	procs  map[string]*ProcSignature
	labels map[int64]bool
}

// New constructs an Analyzer reporting diagnostics against fileID via
// emitter.
func New(emitter *diag.Emitter, fileID source.FileID) *Analyzer {
	a := &Analyzer{emitter: emitter, fileID: fileID, procs: make(map[string]*ProcSignature)}
	a.scopes.push(newRootScope())

	return a
}

// Signatures returns the procedure signature table populated during
// Analyze, keyed by procedure name.
func (a *Analyzer) Signatures() map[string]*ProcSignature { return a.procs }

// Result is the output of a completed analysis pass, handed to pkg/lower.
type Result struct {
	Procs map[string]*ProcSignature
}

// Analyze resolves, renames and type-checks prog in a single pass, reporting
// diagnostics against fileID via emitter.
func Analyze(prog *ast.Program, emitter *diag.Emitter, fileID source.FileID) *Result {
	a := New(emitter, fileID)
	a.Analyze(prog)

	return &Result{Procs: a.Signatures()}
}

// checkLabelTarget reports CodeUnknownLabel when target names no line
// number or named label reachable from the current procedure body.
func (a *Analyzer) checkLabelTarget(target int64, span source.Span) {
	if a.labels != nil && a.labels[target] {
		return
	}

	a.errorf(diag.CodeUnknownLabel, span, "no such label %d", target)
}

func (a *Analyzer) errorf(code string, span source.Span, format string, args ...any) {
	if a.emitter != nil {
		a.emitter.Errorf(code, a.fileID, span, format, args...)
	}
}

// Analyze resolves and type-checks every procedure and the main program.
// Signatures are collected in a first pass so forward calls resolve. The
// main program is analyzed before procedure bodies, so its program-scope
// bindings exist when a SHARED name inside a procedure is resolved.
func (a *Analyzer) Analyze(prog *ast.Program) {
	for _, p := range prog.Procs {
		a.collectSignature(p)
	}

	a.labels = collectLabels(prog.Main)
	a.analyzeStmts(prog.Main)

	for _, p := range prog.Procs {
		a.analyzeDecl(p)
	}
}

// collectLabels gathers every line-number or named-label target reachable
// from stmts, recursing into every nested statement container the parser
// can produce — labels live in a single flat namespace per procedure body
// regardless of block nesting, mirroring pkg/lower's own label pre-scan.
func collectLabels(stmts []ast.Stmt) map[int64]bool {
	labels := map[int64]bool{}
	collectLabelsInto(labels, stmts)

	return labels
}

func collectLabelsInto(labels map[int64]bool, stmts []ast.Stmt) {
	for _, s := range stmts {
		collectLabelInto(labels, s)
	}
}

func collectLabelInto(labels map[int64]bool, s ast.Stmt) {
	switch n := s.(type) {
	case nil:
	case *ast.LabelStmt:
		labels[n.Value] = true
	case *ast.StmtList:
		collectLabelsInto(labels, n.Stmts)
	case *ast.If:
		collectLabelInto(labels, n.Then)

		for _, ei := range n.ElseIfs {
			collectLabelInto(labels, ei.Then)
		}

		collectLabelInto(labels, n.Else)
	case *ast.SelectCase:
		for _, arm := range n.Arms {
			collectLabelsInto(labels, arm.Body)
		}

		collectLabelsInto(labels, n.ElseBody)
	case *ast.While:
		collectLabelsInto(labels, n.Body)
	case *ast.Do:
		collectLabelsInto(labels, n.Body)
	case *ast.For:
		collectLabelsInto(labels, n.Body)
	case *ast.TryCatch:
		collectLabelsInto(labels, n.TryBody)
		collectLabelsInto(labels, n.CatchBody)
	}
}

func (a *Analyzer) collectSignature(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.FunctionDecl:
		sig := &ProcSignature{Ret: n.Ret}
		for _, p := range n.Params {
			sig.Params = append(sig.Params, inferSigilType(p.Name))
		}

		if _, dup := a.procs[n.Name]; dup {
			a.errorf(diag.CodeDuplicateDeclaration, n.Location(), "duplicate declaration of %s", n.Name)
		}

		a.procs[n.Name] = sig
	case *ast.SubDecl:
		sig := &ProcSignature{IsSub: true}
		for _, p := range n.Params {
			sig.Params = append(sig.Params, inferSigilType(p.Name))
		}

		if _, dup := a.procs[n.Name]; dup {
			a.errorf(diag.CodeDuplicateDeclaration, n.Location(), "duplicate declaration of %s", n.Name)
		}

		a.procs[n.Name] = sig
	}
}

func (a *Analyzer) analyzeDecl(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.FunctionDecl:
		a.scopes.push(newChildScope(a.scopes.top()))

		for i, p := range n.Params {
			sym := a.scopes.declare(p.Name, inferSigilType(p.Name), p.IsArray)
			n.Params[i].Name = sym.renamed
		}

		// The function's own name is assignable inside its body (F = ...).
		a.scopes.top().names[n.Name] = &symbol{renamed: n.Name, typ: n.Ret}

		outerLabels := a.labels
		a.labels = collectLabels(n.Body)
		a.analyzeStmts(n.Body)
		a.labels = outerLabels

		a.scopes.pop()
	case *ast.SubDecl:
		a.scopes.push(newChildScope(a.scopes.top()))

		for i, p := range n.Params {
			sym := a.scopes.declare(p.Name, inferSigilType(p.Name), p.IsArray)
			n.Params[i].Name = sym.renamed
		}

		outerLabels := a.labels
		a.labels = collectLabels(n.Body)
		a.analyzeStmts(n.Body)
		a.labels = outerLabels

		a.scopes.pop()
	case *ast.ConstructorDecl:
		a.scopes.push(newChildScope(a.scopes.top()))
		a.analyzeStmts(n.Body)
		a.scopes.pop()
	case *ast.DestructorDecl:
		a.scopes.push(newChildScope(a.scopes.top()))
		a.analyzeStmts(n.Body)
		a.scopes.pop()
	case *ast.MethodDecl:
		a.scopes.push(newChildScope(a.scopes.top()))
		a.analyzeStmts(n.Body)
		a.scopes.pop()
	case *ast.PropertyDecl:
		a.scopes.push(newChildScope(a.scopes.top()))
		a.analyzeStmts(n.Get.Body)
		a.scopes.pop()
		a.scopes.push(newChildScope(a.scopes.top()))
		a.analyzeStmts(n.Set.Body)
		a.scopes.pop()
	case *ast.ClassDecl:
		for _, m := range n.Members {
			a.analyzeDecl(m)
		}
	case *ast.TypeDecl, *ast.InterfaceDecl, *ast.UsingDecl:
		// no expressions to resolve
	}
}

func (a *Analyzer) analyzeStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		a.analyzeStmt(s)
	}
}
