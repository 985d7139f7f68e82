package constfold

import "github.com/splanck/viper-sub025/pkg/ast"

// foldStmt rewrites the expression slots reachable from s and recurses into
// nested bodies. Call expressions are never folded (their side effects are
// unknown to this stage).
func (f *Folder) foldStmt(s ast.Stmt) ast.Stmt {
	if s == nil {
		return nil
	}

	switch n := s.(type) {
	case *ast.StmtList:
		f.foldStmtSlice(n.Stmts)
	case *ast.Print:
		for i := range n.Items {
			if n.Items[i].Kind == ast.PrintItemExpr {
				n.Items[i].Expr = f.fold(n.Items[i].Expr)
			}
		}
	case *ast.PrintCh:
		n.Channel = f.fold(n.Channel)
		for i := range n.Args {
			n.Args[i] = f.fold(n.Args[i])
		}
	case *ast.Input:
		n.Prompt = foldMaybe(f, n.Prompt)
	case *ast.LineInputCh:
		n.Channel = f.fold(n.Channel)
	case *ast.Open:
		n.Path = f.fold(n.Path)
		n.Channel = f.fold(n.Channel)
	case *ast.Close:
		n.Channel = f.fold(n.Channel)
	case *ast.Seek:
		n.Channel = f.fold(n.Channel)
		n.Position = f.fold(n.Position)
	case *ast.Let:
		n.Target = f.fold(n.Target)
		n.Expr = f.fold(n.Expr)
	case *ast.Const:
		n.Initializer = f.fold(n.Initializer)
	case *ast.Dim:
		n.Size = foldMaybe(f, n.Size)
	case *ast.ReDim:
		n.Size = f.fold(n.Size)
	case *ast.Swap:
		n.LHS = f.fold(n.LHS)
		n.RHS = f.fold(n.RHS)
	case *ast.If:
		n.Cond = f.fold(n.Cond)
		n.Then = f.foldStmt(n.Then)

		for i := range n.ElseIfs {
			n.ElseIfs[i].Cond = f.fold(n.ElseIfs[i].Cond)
			n.ElseIfs[i].Then = f.foldStmt(n.ElseIfs[i].Then)
		}

		n.Else = f.foldStmt(n.Else)
	case *ast.SelectCase:
		n.Selector = f.fold(n.Selector)

		for i := range n.Arms {
			f.foldStmtSlice(n.Arms[i].Body)
		}

		f.foldStmtSlice(n.ElseBody)
	case *ast.While:
		n.Cond = f.fold(n.Cond)
		f.foldStmtSlice(n.Body)
	case *ast.Do:
		n.Cond = foldMaybe(f, n.Cond)
		f.foldStmtSlice(n.Body)
	case *ast.For:
		n.Start = f.fold(n.Start)
		n.End = f.fold(n.End)
		n.Step = foldMaybe(f, n.Step)
		f.foldStmtSlice(n.Body)
	case *ast.Return:
		n.Value = foldMaybe(f, n.Value)
	case *ast.TryCatch:
		f.foldStmtSlice(n.TryBody)
		f.foldStmtSlice(n.CatchBody)
	case *ast.Color:
		n.FG = foldMaybe(f, n.FG)
		n.BG = foldMaybe(f, n.BG)
	case *ast.Locate:
		n.Row = f.fold(n.Row)
		n.Col = f.fold(n.Col)
	case *ast.Sleep:
		n.Millis = f.fold(n.Millis)
	case *ast.Randomize:
		n.Seed = foldMaybe(f, n.Seed)
	case *ast.Delete:
		n.Target = f.fold(n.Target)
	case *ast.CallStmt:
		// Call expressions themselves are not folded, but their argument
		// list may still contain literal subexpressions worth simplifying.
		n.Call = f.foldCallArgsOnly(n.Call)
	case *ast.FunctionDecl:
		f.foldStmtSlice(n.Body)
	case *ast.SubDecl:
		f.foldStmtSlice(n.Body)
	case *ast.ConstructorDecl:
		f.foldStmtSlice(n.Body)
	case *ast.DestructorDecl:
		f.foldStmtSlice(n.Body)
	case *ast.MethodDecl:
		f.foldStmtSlice(n.Body)
	case *ast.PropertyDecl:
		f.foldStmtSlice(n.Get.Body)
		f.foldStmtSlice(n.Set.Body)
	case *ast.ClassDecl:
		for i := range n.Members {
			n.Members[i] = f.foldStmt(n.Members[i])
		}
	case *ast.TypeDecl, *ast.InterfaceDecl, *ast.UsingDecl:
		// Pure declarations: no expressions to fold.
	}

	return s
}

func (f *Folder) foldStmtSlice(stmts []ast.Stmt) {
	for i := range stmts {
		stmts[i] = f.foldStmt(stmts[i])
	}
}

func foldMaybe(f *Folder, e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}

	return f.fold(e)
}

// foldCallArgsOnly folds the argument list of a call-shaped expression
// without folding the call itself.
func (f *Folder) foldCallArgsOnly(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.CallExpr:
		for i := range n.Args {
			n.Args[i] = f.fold(n.Args[i])
		}
	case *ast.ArrayExpr:
		for i := range n.Indices {
			n.Indices[i] = f.fold(n.Indices[i])
		}
	case *ast.MethodCallExpr:
		for i := range n.Args {
			n.Args[i] = f.fold(n.Args[i])
		}
	}

	return e
}
