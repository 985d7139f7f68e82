// Package constfold rewrites AST expression trees in place, collapsing
// subtrees whose operands are fully literal into an equivalent literal node.
// Folding never elides a trap the runtime would otherwise raise, and never
// introduces one that would not have fired: division-by-zero and the 16-bit
// addition overflow guard leave the original node untouched, and when the
// left operand of ANDALSO/ORELSE is a literal that decides the result, the
// right operand is neither folded nor evaluated.
package constfold

import (
	"github.com/splanck/viper-sub025/pkg/ast"
)

// Folder walks procedure bodies and the main program, rewriting each
// statement's expression slots with fold results.
type Folder struct{}

// New constructs a Folder. It carries no state: every fold call is a pure
// function of the expression passed to it.
func New() *Folder { return &Folder{} }

// FoldProgram folds every statement in prog.Procs and prog.Main.
// Declarations whose bodies don't participate in folding (Type, Interface,
// Using) are left untouched.
func (f *Folder) FoldProgram(prog *ast.Program) {
	for i, s := range prog.Procs {
		prog.Procs[i] = f.foldStmt(s)
	}

	for i, s := range prog.Main {
		prog.Main[i] = f.foldStmt(s)
	}
}

// FoldExpr folds a single expression tree, returning the (possibly
// replaced) root.
func (f *Folder) FoldExpr(e ast.Expr) ast.Expr {
	return f.fold(e)
}
