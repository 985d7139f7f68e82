package sema

import (
	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/diag"
	"github.com/splanck/viper-sub025/pkg/source"
)

// analyzeStmt resolves references and type-checks a single statement,
// recursing into nested bodies. Only FunctionDecl/SubDecl/method/
// constructor/destructor/SelectCase-arm bodies open a fresh scope; If/
// While/Do/For bodies share the enclosing scope.
func (a *Analyzer) analyzeStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.LabelStmt, *ast.End, *ast.Cls, *ast.Beep, *ast.Cursor, *ast.AltScreen:
		// no expressions to resolve
	case *ast.StmtList:
		a.analyzeStmts(n.Stmts)
	case *ast.CallStmt:
		if n.Call != nil {
			n.Call, _ = a.resolveExpr(n.Call)
		}
	case *ast.Print:
		for i := range n.Items {
			if n.Items[i].Kind == ast.PrintItemExpr {
				n.Items[i].Expr, _ = a.resolveExpr(n.Items[i].Expr)
			}
		}
	case *ast.PrintCh:
		n.Channel, _ = a.resolveExpr(n.Channel)
		for i := range n.Args {
			n.Args[i], _ = a.resolveExpr(n.Args[i])
		}
	case *ast.Input:
		n.Prompt, _ = a.resolveExpr(n.Prompt)
		a.renameLvalueNames(n.Vars, n.Location())
	case *ast.InputCh:
		for i := range n.Targets {
			a.renameParamTarget(&n.Targets[i], n.Location())
		}
	case *ast.LineInputCh:
		n.Channel, _ = a.resolveExpr(n.Channel)
		n.Target, _ = a.resolveExpr(n.Target)
	case *ast.Open:
		n.Path, _ = a.resolveExpr(n.Path)
		n.Channel, _ = a.resolveExpr(n.Channel)
	case *ast.Close:
		n.Channel, _ = a.resolveExpr(n.Channel)
	case *ast.Seek:
		n.Channel, _ = a.resolveExpr(n.Channel)
		n.Position, _ = a.resolveExpr(n.Position)
	case *ast.Let:
		a.analyzeLet(n)
	case *ast.Const:
		n.Initializer, _ = a.resolveExpr(n.Initializer)
		sym := a.scopes.declare(n.Name, n.Type, false)
		n.Name = sym.renamed
	case *ast.Dim:
		n.Size, _ = a.resolveExpr(n.Size)
		sym := a.scopes.declare(n.Name, n.Type, n.IsArray)
		n.Name = sym.renamed
	case *ast.ReDim:
		n.Size, _ = a.resolveExpr(n.Size)

		if sym := a.scopes.lookup(n.Name); sym != nil {
			n.Name = sym.renamed
		} else {
			a.errorf(diag.CodeUndeclaredName, n.Location(), "undeclared array %s", n.Name)
		}
	case *ast.Static:
		sym := a.scopes.declare(n.Name, n.Type, false)
		n.Name = sym.renamed
	case *ast.Shared:
		for _, name := range n.Names {
			a.scopes.markShared(name)
		}
	case *ast.Swap:
		n.LHS, _ = a.resolveExpr(n.LHS)
		n.RHS, _ = a.resolveExpr(n.RHS)
	case *ast.If:
		n.Cond, _ = a.resolveExpr(n.Cond)
		a.analyzeStmt(n.Then)

		for i := range n.ElseIfs {
			n.ElseIfs[i].Cond, _ = a.resolveExpr(n.ElseIfs[i].Cond)
			a.analyzeStmt(n.ElseIfs[i].Then)
		}

		if n.Else != nil {
			a.analyzeStmt(n.Else)
		}
	case *ast.SelectCase:
		n.Selector, _ = a.resolveExpr(n.Selector)

		for i := range n.Arms {
			a.scopes.push(newChildScope(a.scopes.top()))
			a.analyzeStmts(n.Arms[i].Body)
			a.scopes.pop()
		}

		if len(n.ElseBody) > 0 {
			a.scopes.push(newChildScope(a.scopes.top()))
			a.analyzeStmts(n.ElseBody)
			a.scopes.pop()
		}
	case *ast.While:
		n.Cond, _ = a.resolveExpr(n.Cond)
		a.analyzeStmts(n.Body)
	case *ast.Do:
		n.Cond, _ = a.resolveExpr(n.Cond)
		a.analyzeStmts(n.Body)
	case *ast.For:
		a.analyzeFor(n)
	case *ast.Next:
		if sym := a.scopes.lookup(n.Var); sym != nil {
			n.Var = sym.renamed
		}
	case *ast.Goto:
		a.checkLabelTarget(n.Target, n.Location())
	case *ast.Gosub:
		a.checkLabelTarget(n.TargetLine, n.Location())
	case *ast.OnErrorGoto:
		if !n.ToZero {
			a.checkLabelTarget(n.Target, n.Location())
		}
	case *ast.Return:
		if n.Value != nil {
			n.Value, _ = a.resolveExpr(n.Value)
		}
	case *ast.Resume:
		if n.Mode == ast.ResumeLabel {
			a.checkLabelTarget(n.Target, n.Location())
		}
	case *ast.TryCatch:
		a.analyzeStmts(n.TryBody)

		if n.HasCatch {
			sym := a.scopes.declare(n.CatchVar, ast.Str, false)
			n.CatchVar = sym.renamed
			a.analyzeStmts(n.CatchBody)
		}
	case *ast.Color:
		n.FG, _ = a.resolveExpr(n.FG)
		n.BG, _ = a.resolveExpr(n.BG)
	case *ast.Locate:
		n.Row, _ = a.resolveExpr(n.Row)
		n.Col, _ = a.resolveExpr(n.Col)
	case *ast.Sleep:
		n.Millis, _ = a.resolveExpr(n.Millis)
	case *ast.Randomize:
		if n.Seed != nil {
			n.Seed, _ = a.resolveExpr(n.Seed)
		}
	case *ast.Delete:
		n.Target, _ = a.resolveExpr(n.Target)
	case *ast.FunctionDecl, *ast.SubDecl, *ast.ConstructorDecl, *ast.DestructorDecl,
		*ast.MethodDecl, *ast.PropertyDecl, *ast.ClassDecl, *ast.TypeDecl,
		*ast.InterfaceDecl, *ast.UsingDecl:
		a.analyzeDecl(n)
	}
}

func (a *Analyzer) analyzeLet(n *ast.Let) {
	n.Expr, _ = a.resolveExpr(n.Expr)

	var dstType ast.Type

	switch target := n.Target.(type) {
	case *ast.VarExpr:
		resolved, t := a.resolveVar(target)
		n.Target = resolved
		dstType = t
	case *ast.ArrayExpr:
		resolved, t := a.resolveArray(target)
		n.Target = resolved
		dstType = t
	default:
		n.Target, dstType = a.resolveExpr(n.Target)
	}

	srcType := exprStaticType(n.Expr)
	if !assignable(dstType, srcType) {
		a.errorf(diag.CodeTypeMismatch, n.Location(), "cannot assign %s to %s", srcType, dstType)
	}
}

func (a *Analyzer) analyzeFor(n *ast.For) {
	sym := a.scopes.lookup(n.Var)
	if sym == nil {
		sym = a.scopes.declare(n.Var, inferSigilType(n.Var), false)
	}

	n.Var = sym.renamed

	n.Start, _ = a.resolveExpr(n.Start)
	n.End, _ = a.resolveExpr(n.End)

	if n.Step != nil {
		n.Step, _ = a.resolveExpr(n.Step)
	}

	a.analyzeStmts(n.Body)
}

// renameLvalueNames resolves a list of bare variable names (as used by
// INPUT's target list), renaming each in place.
func (a *Analyzer) renameLvalueNames(names []string, span source.Span) {
	for i, name := range names {
		sym := a.scopes.lookup(name)
		if sym == nil {
			a.errorf(diag.CodeUndeclaredName, span, "undeclared name %s", name)
			continue
		}

		names[i] = sym.renamed
	}
}

func (a *Analyzer) renameParamTarget(p *ast.Param, span source.Span) {
	sym := a.scopes.lookup(p.Name)
	if sym == nil {
		a.errorf(diag.CodeUndeclaredName, span, "undeclared name %s", p.Name)
		return
	}

	p.Name = sym.renamed
}
