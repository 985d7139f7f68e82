// Package printer renders a Program as a deterministic S-expression text
// dump, used as a golden-test oracle. It never mutates the AST and is safe
// to call on a partially-analyzed program.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/splanck/viper-sub025/pkg/ast"
)

// Dump renders prog: declarations first (one line each), then the main
// statement sequence, one `<label>: <sexpr>` line per top-level entry.
func Dump(prog *ast.Program) string {
	var sb strings.Builder

	for _, p := range prog.Procs {
		sb.WriteString(stmtSexpr(p))
		sb.WriteByte('\n')
	}

	writeTopLevel(&sb, prog.Main)

	return sb.String()
}

// labelPair reports whether s is the parser's (label, stmt) pairing — an
// *ast.StmtList of exactly [LabelStmt, stmt] produced by consumeLabelPrefix
// wrapping a numbered source line.
func labelPair(s ast.Stmt) (int64, ast.Stmt, bool) {
	list, ok := s.(*ast.StmtList)
	if !ok || len(list.Stmts) != 2 {
		return 0, nil, false
	}

	label, ok := list.Stmts[0].(*ast.LabelStmt)
	if !ok {
		return 0, nil, false
	}

	return label.Value, list.Stmts[1], true
}

func writeTopLevel(sb *strings.Builder, stmts []ast.Stmt) {
	for _, s := range stmts {
		if label, inner, ok := labelPair(s); ok {
			if inner == nil {
				fmt.Fprintf(sb, "%d: (LABEL)\n", label)
			} else {
				fmt.Fprintf(sb, "%d: %s\n", label, stmtSexpr(inner))
			}

			continue
		}

		sb.WriteString(stmtSexpr(s))
		sb.WriteByte('\n')
	}
}

// braceBody renders a nested statement body (procedure body, loop body,
// If/SelectCase arm) as ` {<line>:(<stmt>) <line>:(<stmt>)…}` with no
// trailing space before the closing brace.
func braceBody(stmts []ast.Stmt) string {
	parts := make([]string, 0, len(stmts))

	for _, s := range stmts {
		if label, inner, ok := labelPair(s); ok {
			if inner == nil {
				parts = append(parts, fmt.Sprintf("%d:(LABEL)", label))
			} else {
				parts = append(parts, fmt.Sprintf("%d:%s", label, stmtSexpr(inner)))
			}

			continue
		}

		parts = append(parts, stmtSexpr(s))
	}

	return "{" + strings.Join(parts, " ") + "}"
}

func channelSexpr(e ast.Expr) string {
	if i, ok := e.(*ast.IntExpr); ok {
		return "#" + strconv.FormatInt(i.Value, 10)
	}

	return "#" + exprSexpr(e)
}

func paramList(params []ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.IsArray {
			parts[i] = p.Name + "[]"
		} else {
			parts[i] = p.Name
		}
	}

	return strings.Join(parts, " ")
}

func printItems(items []ast.PrintItem) string {
	parts := make([]string, 0, len(items))

	for _, it := range items {
		switch it.Kind {
		case ast.PrintItemComma:
			parts = append(parts, ",")
		case ast.PrintItemSemicolon:
			parts = append(parts, ";")
		default:
			parts = append(parts, exprSexpr(it.Expr))
		}
	}

	return strings.Join(parts, " ")
}

func exitKindName(k ast.ExitKind) string {
	switch k {
	case ast.ExitFor:
		return "FOR"
	case ast.ExitWhile:
		return "WHILE"
	case ast.ExitDo:
		return "DO"
	default:
		return "FOR"
	}
}

func qualifiedOrNull(s string) string {
	if s == "" {
		return "<null>"
	}

	return s
}

// stmtSexpr renders one statement as its S-expression form. Block-bodied
// statements embed their nested body via braceBody rather than recursing
// into writeTopLevel, since nested lines never get their own top-level
// output line.
func stmtSexpr(s ast.Stmt) string {
	if s == nil {
		return "(NOP)"
	}

	switch n := s.(type) {
	case *ast.LabelStmt:
		return "(LABEL)"
	case *ast.StmtList:
		return braceBody(n.Stmts)
	case *ast.CallStmt:
		if n.Call == nil {
			return "(CALL)"
		}

		return "(CALL " + exprSexpr(n.Call) + ")"
	case *ast.End:
		return "(END)"
	case *ast.Print:
		return "(PRINT " + printItems(n.Items) + ")"
	case *ast.PrintCh:
		kw := "PRINT#"
		if n.Mode == ast.ModeWrite {
			kw = "WRITE#"
		}

		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = exprSexpr(a)
		}

		out := fmt.Sprintf("(%s channel=%s args=[%s]", kw, channelSexpr(n.Channel), strings.Join(args, " "))
		if !n.TrailingNewline {
			out += " no-newline"
		}

		return out + ")"
	case *ast.Input:
		prompt := "<null>"
		if n.Prompt != nil {
			prompt = exprSexpr(n.Prompt)
		}

		return fmt.Sprintf("(INPUT prompt=%s vars=[%s])", prompt, strings.Join(n.Vars, " "))
	case *ast.InputCh:
		names := make([]string, len(n.Targets))
		for i, t := range n.Targets {
			names[i] = t.Name
		}

		return fmt.Sprintf("(INPUT# channel=#%d targets=[%s])", n.Channel, strings.Join(names, " "))
	case *ast.LineInputCh:
		return fmt.Sprintf("(LINE-INPUT# channel=%s target=%s)", channelSexpr(n.Channel), exprSexpr(n.Target))
	case *ast.Open:
		return fmt.Sprintf("(OPEN mode=%s(%d) path=%s channel=%s)", n.Mode.String(), int(n.Mode), exprSexpr(n.Path), channelSexpr(n.Channel))
	case *ast.Close:
		return fmt.Sprintf("(CLOSE channel=%s)", channelSexpr(n.Channel))
	case *ast.Seek:
		return fmt.Sprintf("(SEEK channel=%s position=%s)", channelSexpr(n.Channel), exprSexpr(n.Position))
	case *ast.Let:
		return fmt.Sprintf("(LET %s %s)", exprSexpr(n.Target), exprSexpr(n.Expr))
	case *ast.Const:
		return fmt.Sprintf("(CONST %s %s)", n.Name, exprSexpr(n.Initializer))
	case *ast.Dim:
		if n.IsArray {
			size := "<null>"
			if n.Size != nil {
				size = exprSexpr(n.Size)
			}

			return fmt.Sprintf("(DIM %s ARRAY %s)", n.Name, size)
		}

		return fmt.Sprintf("(DIM %s)", n.Name)
	case *ast.ReDim:
		return fmt.Sprintf("(REDIM %s %s)", n.Name, exprSexpr(n.Size))
	case *ast.Static:
		return fmt.Sprintf("(STATIC %s)", n.Name)
	case *ast.Shared:
		return fmt.Sprintf("(SHARED %s)", strings.Join(n.Names, " "))
	case *ast.Swap:
		return fmt.Sprintf("(SWAP %s %s)", exprSexpr(n.LHS), exprSexpr(n.RHS))
	case *ast.If:
		var sb strings.Builder

		sb.WriteString("(IF ")
		sb.WriteString(exprSexpr(n.Cond))
		sb.WriteString(" ")
		sb.WriteString(stmtSexpr(n.Then))

		for _, ei := range n.ElseIfs {
			sb.WriteString(" (ELSEIF ")
			sb.WriteString(exprSexpr(ei.Cond))
			sb.WriteString(" ")
			sb.WriteString(stmtSexpr(ei.Then))
			sb.WriteString(")")
		}

		if n.Else != nil {
			sb.WriteString(" (ELSE ")
			sb.WriteString(stmtSexpr(n.Else))
			sb.WriteString(")")
		}

		sb.WriteString(")")

		return sb.String()
	case *ast.SelectCase:
		var sb strings.Builder

		sb.WriteString("(SELECT CASE ")
		sb.WriteString(exprSexpr(n.Selector))

		for _, arm := range n.Arms {
			labels := make([]string, len(arm.Labels))
			for i, l := range arm.Labels {
				labels[i] = strconv.FormatInt(l, 10)
			}

			sb.WriteString(" (CASE ")
			sb.WriteString(strings.Join(labels, " "))
			sb.WriteString(") ")
			sb.WriteString(braceBody(arm.Body))
			sb.WriteString(")")
		}

		if n.ElseBody != nil {
			sb.WriteString(" (CASE ELSE) ")
			sb.WriteString(braceBody(n.ElseBody))
			sb.WriteString(")")
		}

		sb.WriteString(")")

		return sb.String()
	case *ast.While:
		return fmt.Sprintf("(WHILE %s %s)", exprSexpr(n.Cond), braceBody(n.Body))
	case *ast.Do:
		cond := "<null>"
		if n.Cond != nil {
			cond = exprSexpr(n.Cond)
		}

		kind := "NONE"
		switch n.CondKind {
		case ast.CondWhile:
			kind = "WHILE"
		case ast.CondUntil:
			kind = "UNTIL"
		}

		pos := "PRE"
		if n.TestPos == ast.TestPost {
			pos = "POST"
		}

		return fmt.Sprintf("(DO %s %s %s %s)", pos, kind, cond, braceBody(n.Body))
	case *ast.For:
		step := "<null>"
		if n.Step != nil {
			step = exprSexpr(n.Step)
		}

		return fmt.Sprintf("(FOR %s %s %s %s %s)", n.Var, exprSexpr(n.Start), exprSexpr(n.End), step, braceBody(n.Body))
	case *ast.Next:
		return fmt.Sprintf("(NEXT %s)", n.Var)
	case *ast.Exit:
		return fmt.Sprintf("(EXIT %s)", exitKindName(n.Kind))
	case *ast.Goto:
		return fmt.Sprintf("(GOTO %d)", n.Target)
	case *ast.Gosub:
		return fmt.Sprintf("(GOSUB %d)", n.TargetLine)
	case *ast.Return:
		if n.Value != nil {
			return fmt.Sprintf("(RETURN %s)", exprSexpr(n.Value))
		}

		return "(RETURN)"
	case *ast.OnErrorGoto:
		if n.ToZero {
			return "(ON-ERROR GOTO 0)"
		}

		return fmt.Sprintf("(ON-ERROR GOTO %d)", n.Target)
	case *ast.Resume:
		switch n.Mode {
		case ast.ResumeNext:
			return "(RESUME NEXT)"
		case ast.ResumeLabel:
			return fmt.Sprintf("(RESUME %d)", n.Target)
		default:
			return "(RESUME)"
		}
	case *ast.TryCatch:
		if !n.HasCatch {
			return fmt.Sprintf("(TRY %s)", braceBody(n.TryBody))
		}

		return fmt.Sprintf("(TRY %s (CATCH %s %s))", braceBody(n.TryBody), qualifiedOrNull(n.CatchVar), braceBody(n.CatchBody))
	case *ast.Cls:
		return "(CLS)"
	case *ast.Cursor:
		if n.On {
			return "(CURSOR ON)"
		}

		return "(CURSOR OFF)"
	case *ast.AltScreen:
		if n.On {
			return "(ALTSCREEN ON)"
		}

		return "(ALTSCREEN OFF)"
	case *ast.Color:
		fg, bg := "<null>", "<null>"
		if n.FG != nil {
			fg = exprSexpr(n.FG)
		}

		if n.BG != nil {
			bg = exprSexpr(n.BG)
		}

		return fmt.Sprintf("(COLOR %s %s)", fg, bg)
	case *ast.Locate:
		return fmt.Sprintf("(LOCATE %s %s)", exprSexpr(n.Row), exprSexpr(n.Col))
	case *ast.Sleep:
		return fmt.Sprintf("(SLEEP %s)", exprSexpr(n.Millis))
	case *ast.Beep:
		return "(BEEP)"
	case *ast.Randomize:
		if n.Seed == nil {
			return "(RANDOMIZE)"
		}

		return fmt.Sprintf("(RANDOMIZE %s)", exprSexpr(n.Seed))
	case *ast.Delete:
		return fmt.Sprintf("(DELETE %s)", exprSexpr(n.Target))
	case *ast.FunctionDecl:
		return fmt.Sprintf("(FUNCTION %s qualifiedName:%s params=[%s] ret=%s %s)",
			n.Name, qualifiedOrNull(n.QualifiedName), paramList(n.Params), n.Ret.String(), braceBody(n.Body))
	case *ast.SubDecl:
		return fmt.Sprintf("(SUB %s qualifiedName:%s params=[%s] %s)",
			n.Name, qualifiedOrNull(n.QualifiedName), paramList(n.Params), braceBody(n.Body))
	case *ast.ConstructorDecl:
		return fmt.Sprintf("(CONSTRUCTOR params=[%s] %s)", paramList(n.Params), braceBody(n.Body))
	case *ast.DestructorDecl:
		return fmt.Sprintf("(DESTRUCTOR %s)", braceBody(n.Body))
	case *ast.MethodDecl:
		ret := "<null>"
		if n.Ret != nil {
			ret = n.Ret.String()
		}

		return fmt.Sprintf("(METHOD %s params=[%s] ret=%s %s)", n.Name, paramList(n.Params), ret, braceBody(n.Body))
	case *ast.PropertyDecl:
		return fmt.Sprintf("(PROPERTY %s type=%s)", n.Name, n.Type.String())
	case *ast.ClassDecl:
		members := make([]string, len(n.Members))
		for i, m := range n.Members {
			members[i] = stmtSexpr(m)
		}

		return fmt.Sprintf("(CLASS %s qualifiedName:%s members=[%s])", n.Name, qualifiedOrNull(n.QualifiedName), strings.Join(members, " "))
	case *ast.TypeDecl:
		return fmt.Sprintf("(TYPE %s)", n.Name)
	case *ast.InterfaceDecl:
		return fmt.Sprintf("(INTERFACE %s)", strings.Join(n.QualifiedName, "."))
	case *ast.UsingDecl:
		return fmt.Sprintf("(USING %s)", strings.Join(n.NamespacePath, "."))
	default:
		return "(UNKNOWN)"
	}
}
