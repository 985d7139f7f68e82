// Package lower walks an analyzed AST and emits pkg/il. Lowering never runs
// if semantic analysis reported any errors: the driver in pkg/compiler is
// responsible for checking the emitter before calling Lower.
package lower

import (
	"github.com/splanck/viper-sub025/pkg/ast"
	"github.com/splanck/viper-sub025/pkg/il"
	"github.com/splanck/viper-sub025/pkg/runtime"
	"github.com/splanck/viper-sub025/pkg/sema"
)

// Lower emits il for every procedure in prog.Procs plus a synthetic "main"
// function for prog.Main. sig is the procedure signature table populated by
// sema.Analyze. Callers must not invoke Lower when any diagnostic at
// Error severity was recorded during parsing, folding or analysis.
func Lower(prog *ast.Program, sig map[string]*sema.ProcSignature) *il.Module {
	l := &lowerer{sig: sig}

	mod := &il.Module{}

	for _, p := range prog.Procs {
		if fn := l.lowerProc(p); fn != nil {
			mod.Functions = append(mod.Functions, fn)
		}
	}

	mod.Main = il.NewFunction("main", nil, ast.I64, true)
	l.fn = mod.Main
	l.cur = mod.Main.NewBlock("entry")
	l.collectLabels(prog.Main)
	l.lowerStmts(prog.Main)

	if !l.cur.Terminated() {
		l.cur.Emit(il.Instr{Op: il.OpReturn})
	}

	return mod
}

type lowerer struct {
	sig       map[string]*sema.ProcSignature
	fn        *il.Function
	cur       *il.Block
	labels    map[int64]*il.Block
	exitStack []*il.Block
}

func (l *lowerer) pushExit(b *il.Block)  { l.exitStack = append(l.exitStack, b) }
func (l *lowerer) popExit()              { l.exitStack = l.exitStack[:len(l.exitStack)-1] }
func (l *lowerer) topExit() (*il.Block, bool) {
	if len(l.exitStack) == 0 {
		return nil, false
	}

	return l.exitStack[len(l.exitStack)-1], true
}

func (l *lowerer) lowerProc(s ast.Stmt) *il.Function {
	switch n := s.(type) {
	case *ast.FunctionDecl:
		params := make([]il.Param, len(n.Params))
		for i, p := range n.Params {
			params[i] = il.Param{Name: p.Name, Type: paramType(p)}
		}

		fn := il.NewFunction(n.Name, params, n.Ret, false)
		l.fn = fn
		l.cur = fn.NewBlock("entry")
		l.labels = map[int64]*il.Block{}
		l.collectLabels(n.Body)
		l.lowerStmts(n.Body)

		if !l.cur.Terminated() {
			l.cur.Emit(il.Instr{Op: il.OpReturn})
		}

		return fn
	case *ast.SubDecl:
		params := make([]il.Param, len(n.Params))
		for i, p := range n.Params {
			params[i] = il.Param{Name: p.Name, Type: paramType(p)}
		}

		fn := il.NewFunction(n.Name, params, ast.I64, true)
		l.fn = fn
		l.cur = fn.NewBlock("entry")
		l.labels = map[int64]*il.Block{}
		l.collectLabels(n.Body)
		l.lowerStmts(n.Body)

		if !l.cur.Terminated() {
			l.cur.Emit(il.Instr{Op: il.OpReturn})
		}

		return fn
	default:
		// Class/type/interface/using declarations carry no executable
		// body of their own; their members were already visited via
		// sema and are out of scope for a standalone il.Function.
		return nil
	}
}

func paramType(p ast.Param) ast.Type {
	if len(p.Name) == 0 {
		return ast.I64
	}

	switch p.Name[len(p.Name)-1] {
	case '$':
		return ast.Str
	case '!', '#':
		return ast.F64
	default:
		return ast.I64
	}
}

// collectLabels pre-scans a statement list for LabelStmt nodes so forward
// GOTO/GOSUB references resolve to a block before it's lowered. BASIC line
// numbers are a single flat namespace regardless of block nesting, so this
// walks every nested statement container the parser can produce — in
// particular the (label, stmt) pairs the parser wraps as StmtList, which
// means a label is never a direct entry in stmts itself.
func (l *lowerer) collectLabels(stmts []ast.Stmt) {
	if l.labels == nil {
		l.labels = map[int64]*il.Block{}
	}

	for _, s := range stmts {
		l.collectLabelsIn(s)
	}
}

func (l *lowerer) collectLabelsIn(s ast.Stmt) {
	switch n := s.(type) {
	case nil:
	case *ast.LabelStmt:
		l.labels[n.Value] = l.fn.NewBlock(labelName(n.Value))
	case *ast.StmtList:
		l.collectLabels(n.Stmts)
	case *ast.If:
		l.collectLabelsIn(n.Then)

		for _, ei := range n.ElseIfs {
			l.collectLabelsIn(ei.Then)
		}

		l.collectLabelsIn(n.Else)
	case *ast.SelectCase:
		for _, arm := range n.Arms {
			l.collectLabels(arm.Body)
		}

		l.collectLabels(n.ElseBody)
	case *ast.While:
		l.collectLabels(n.Body)
	case *ast.Do:
		l.collectLabels(n.Body)
	case *ast.For:
		l.collectLabels(n.Body)
	case *ast.TryCatch:
		l.collectLabels(n.TryBody)
		l.collectLabels(n.CatchBody)
	}
}

func labelName(id int64) string {
	return "L" + itoa(id)
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var buf [20]byte

	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}

func (l *lowerer) lowerStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		l.lowerStmt(s)
	}
}

func (l *lowerer) jumpTo(b *il.Block) {
	if !l.cur.Terminated() {
		l.cur.Emit(il.Instr{Op: il.OpJump, Targets: []il.BlockID{b.ID}})
	}
}

func (l *lowerer) lowerStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.LabelStmt:
		target := l.labels[n.Value]
		l.jumpTo(target)
		l.cur = target
	case *ast.StmtList:
		l.lowerStmts(n.Stmts)
	case *ast.End:
		l.cur.Emit(il.Instr{Op: il.OpReturn})
	case *ast.CallStmt:
		if n.Call != nil {
			l.lowerExpr(n.Call)
		}
	case *ast.Print:
		for _, item := range n.Items {
			switch item.Kind {
			case ast.PrintItemExpr:
				v, t := l.lowerExpr(item.Expr)
				l.emitPrint(v, t)
			case ast.PrintItemComma:
				l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.PrintTab})
			}
		}

		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.PrintNewline})
	case *ast.PrintCh:
		ch, _ := l.lowerExpr(n.Channel)

		args := []il.Value{ch}
		for _, a := range n.Args {
			v, _ := l.lowerExpr(a)
			args = append(args, v)
		}

		sym := runtime.WriteChErr
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: sym, Operands: args})
	case *ast.Let:
		l.lowerLet(n)
	case *ast.Dim, *ast.Const, *ast.Static, *ast.Shared:
		// pure declarations: storage is allocated by the runtime's
		// frame layout, nothing to lower here
	case *ast.ReDim:
		sz, _ := l.lowerExpr(n.Size)
		l.cur.Emit(il.Instr{Op: il.OpStore, Name: n.Name, Operands: []il.Value{sz}})
	case *ast.Swap:
		lv, lt := l.lowerExpr(n.LHS)
		rv, _ := l.lowerExpr(n.RHS)
		l.storeTo(n.RHS, lv, lt)
		l.storeTo(n.LHS, rv, lt)
	case *ast.If:
		l.lowerIf(n)
	case *ast.SelectCase:
		l.lowerSelectCase(n)
	case *ast.While:
		l.lowerWhile(n)
	case *ast.Do:
		l.lowerDo(n)
	case *ast.For:
		l.lowerFor(n)
	case *ast.Next:
		// loop increment/condition recheck is emitted by lowerFor at the
		// loop's back-edge; Next itself is a no-op marker
	case *ast.Exit:
		if target, ok := l.topExit(); ok {
			l.jumpTo(target)
		} else {
			l.cur.Emit(il.Instr{Op: il.OpReturn})
		}
	case *ast.Goto:
		l.jumpTo(l.labels[n.Target])
	case *ast.Gosub:
		l.cur.Emit(il.Instr{Op: il.OpCall, Name: labelName(n.TargetLine)})
	case *ast.Return:
		if n.Value != nil {
			v, _ := l.lowerExpr(n.Value)
			l.cur.Emit(il.Instr{Op: il.OpReturn, Operands: []il.Value{v}})
		} else {
			l.cur.Emit(il.Instr{Op: il.OpReturn})
		}
	case *ast.OnErrorGoto:
		if n.ToZero {
			l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.TrapInstall, IntImm: 0})
		} else {
			l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.TrapInstall, IntImm: n.Target})
		}
	case *ast.Resume:
		switch n.Mode {
		case ast.ResumeSame:
			l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.TrapResumeSame})
		case ast.ResumeNext:
			l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.TrapResumeNext})
		case ast.ResumeLabel:
			l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.TrapResumeLabel, IntImm: n.Target})
		}
	case *ast.TryCatch:
		l.lowerStmts(n.TryBody)

		if n.HasCatch {
			l.lowerStmts(n.CatchBody)
		}
	case *ast.Open:
		path, _ := l.lowerExpr(n.Path)
		ch, _ := l.lowerExpr(n.Channel)
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.FileOpen, IntImm: int64(n.Mode), Operands: []il.Value{path, ch}})
	case *ast.Close:
		ch, _ := l.lowerExpr(n.Channel)
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.FileClose, Operands: []il.Value{ch}})
	case *ast.Seek:
		ch, _ := l.lowerExpr(n.Channel)
		pos, _ := l.lowerExpr(n.Position)
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.FileSeek, Operands: []il.Value{ch, pos}})
	case *ast.Input:
		if n.Prompt != nil {
			v, t := l.lowerExpr(n.Prompt)
			l.emitPrint(v, t)
		}

		for _, name := range n.Vars {
			r := l.fn.NewValue()
			l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Result: r, Name: runtime.FileInputFields})
			l.cur.Emit(il.Instr{Op: il.OpStore, Name: name, Operands: []il.Value{r}})
		}
	case *ast.InputCh:
		for _, p := range n.Targets {
			r := l.fn.NewValue()
			l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Result: r, Name: runtime.FileInputFields, IntImm: n.Channel})
			l.cur.Emit(il.Instr{Op: il.OpStore, Name: p.Name, Operands: []il.Value{r}})
		}
	case *ast.LineInputCh:
		ch, _ := l.lowerExpr(n.Channel)
		r := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Result: r, Name: runtime.FileInputLine, Operands: []il.Value{ch}})
		l.storeTo(n.Target, r, ast.Str)
	case *ast.Cls:
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.TermCls})
	case *ast.Cursor:
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.TermCursor, BoolImm: n.On})
	case *ast.AltScreen:
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.TermAltScreen, BoolImm: n.On})
	case *ast.Color:
		fg, _ := l.lowerExpr(n.FG)
		bg, _ := l.lowerExpr(n.BG)
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.TermColor, Operands: []il.Value{fg, bg}})
	case *ast.Locate:
		row, _ := l.lowerExpr(n.Row)
		col, _ := l.lowerExpr(n.Col)
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.TermLocate, Operands: []il.Value{row, col}})
	case *ast.Sleep:
		ms, _ := l.lowerExpr(n.Millis)
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.TermSleep, Operands: []il.Value{ms}})
	case *ast.Beep:
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.TermBeep})
	case *ast.Randomize:
		if n.Seed != nil {
			v, _ := l.lowerExpr(n.Seed)
			l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.NumRandomize, Operands: []il.Value{v}})
		} else {
			l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.NumRandomize})
		}
	case *ast.Delete:
		v, _ := l.lowerExpr(n.Target)
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.ObjDelete, Operands: []il.Value{v}})
	}
}

func (l *lowerer) emitPrint(v il.Value, t ast.Type) {
	switch t {
	case ast.Str:
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.PrintStr, Operands: []il.Value{v}})
	case ast.F64:
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.PrintFloat, Operands: []il.Value{v}})
	default:
		l.cur.Emit(il.Instr{Op: il.OpRuntimeCall, Name: runtime.PrintInt, Operands: []il.Value{v}})
	}
}

func (l *lowerer) lowerLet(n *ast.Let) {
	v, t := l.lowerExpr(n.Expr)
	l.storeTo(n.Target, v, t)
}

// storeTo emits the store instruction(s) for assigning v (of type t) into
// the lvalue target. String values are marked with rt_string_ref at the
// point of storage — the lowerer emits the bookkeeping call but does not
// itself track reference counts; that is the runtime's responsibility.
func (l *lowerer) storeTo(target ast.Expr, v il.Value, t ast.Type) {
	if t == ast.Str {
		l.cur.Emit(il.Instr{Op: il.OpStringRef, Operands: []il.Value{v}})
	}

	switch tgt := target.(type) {
	case *ast.VarExpr:
		l.cur.Emit(il.Instr{Op: il.OpStore, Name: tgt.Name, Type: t, Operands: []il.Value{v}})
	case *ast.ArrayExpr:
		idx := make([]il.Value, len(tgt.Indices))
		for i, ix := range tgt.Indices {
			idx[i], _ = l.lowerExpr(ix)
		}

		l.cur.Emit(il.Instr{Op: il.OpArrayStore, Name: tgt.Name, Type: t, Operands: append([]il.Value{v}, idx...)})
	case *ast.MemberAccessExpr:
		base, _ := l.lowerExpr(tgt.Target)
		l.cur.Emit(il.Instr{Op: il.OpStore, Name: tgt.Member, Type: t, Operands: []il.Value{base, v}})
	}
}

func (l *lowerer) lowerIf(n *ast.If) {
	after := l.fn.NewBlock("if.end")
	l.lowerIfChain(n.Cond, n.Then, n.ElseIfs, n.Else, after)
	l.cur = after
}

func (l *lowerer) lowerIfChain(cond ast.Expr, then ast.Stmt, elseIfs []ast.ElseIf, els ast.Stmt, after *il.Block) {
	cv, _ := l.lowerExpr(cond)

	thenBlk := l.fn.NewBlock("if.then")
	elseBlk := l.fn.NewBlock("if.else")

	l.cur.Emit(il.Instr{Op: il.OpBranch, Operands: []il.Value{cv}, Targets: []il.BlockID{thenBlk.ID, elseBlk.ID}})

	l.cur = thenBlk
	l.lowerStmt(then)
	l.jumpTo(after)

	l.cur = elseBlk

	if len(elseIfs) > 0 {
		l.lowerIfChain(elseIfs[0].Cond, elseIfs[0].Then, elseIfs[1:], els, after)
		return
	}

	if els != nil {
		l.lowerStmt(els)
	}

	l.jumpTo(after)
}

func (l *lowerer) lowerSelectCase(n *ast.SelectCase) {
	sel, _ := l.lowerExpr(n.Selector)
	after := l.fn.NewBlock("select.end")

	for _, arm := range n.Arms {
		armBlk := l.fn.NewBlock("select.arm")
		nextBlk := l.fn.NewBlock("select.next")

		matched := l.caseLabelMatch(sel, arm.Labels)
		l.cur.Emit(il.Instr{Op: il.OpBranch, Operands: []il.Value{matched}, Targets: []il.BlockID{armBlk.ID, nextBlk.ID}})

		l.cur = armBlk
		l.lowerStmts(arm.Body)
		l.jumpTo(after)

		l.cur = nextBlk
	}

	l.lowerStmts(n.ElseBody)
	l.jumpTo(after)
	l.cur = after
}

// caseLabelMatch emits sel == label for every label in a CASE arm's list and
// ORs the results together, so a multi-label arm like CASE 1, 2 matches
// whenever the selector equals any one of the listed labels.
func (l *lowerer) caseLabelMatch(sel il.Value, labels []int64) il.Value {
	if len(labels) == 0 {
		v := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpConstInt, Result: v, Type: ast.I64, IntImm: 0})

		return v
	}

	result := l.caseLabelEq(sel, labels[0])

	for _, lbl := range labels[1:] {
		eq := l.caseLabelEq(sel, lbl)

		or := l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpBinary, Result: or, Type: ast.I64, BinOp: ast.LogicalOr, Operands: []il.Value{result, eq}})
		result = or
	}

	return result
}

func (l *lowerer) caseLabelEq(sel il.Value, label int64) il.Value {
	lbl := l.fn.NewValue()
	l.cur.Emit(il.Instr{Op: il.OpConstInt, Result: lbl, Type: ast.I64, IntImm: label})

	eq := l.fn.NewValue()
	l.cur.Emit(il.Instr{Op: il.OpBinary, Result: eq, Type: ast.I64, BinOp: ast.Eq, Operands: []il.Value{sel, lbl}})

	return eq
}

func (l *lowerer) lowerWhile(n *ast.While) {
	head := l.fn.NewBlock("while.head")
	body := l.fn.NewBlock("while.body")
	after := l.fn.NewBlock("while.end")

	l.jumpTo(head)
	l.cur = head

	cv, _ := l.lowerExpr(n.Cond)
	l.cur.Emit(il.Instr{Op: il.OpBranch, Operands: []il.Value{cv}, Targets: []il.BlockID{body.ID, after.ID}})

	l.pushExit(after)
	l.cur = body
	l.lowerStmts(n.Body)
	l.popExit()
	l.jumpTo(head)

	l.cur = after
}

func (l *lowerer) lowerDo(n *ast.Do) {
	head := l.fn.NewBlock("do.head")
	body := l.fn.NewBlock("do.body")
	after := l.fn.NewBlock("do.end")

	l.jumpTo(head)
	l.cur = head

	if n.CondKind == ast.CondNone {
		l.jumpTo(body)
	} else if n.TestPos == ast.TestPre {
		cv, _ := l.lowerExpr(n.Cond)

		if n.CondKind == ast.CondUntil {
			l.cur.Emit(il.Instr{Op: il.OpBranch, Operands: []il.Value{cv}, Targets: []il.BlockID{after.ID, body.ID}})
		} else {
			l.cur.Emit(il.Instr{Op: il.OpBranch, Operands: []il.Value{cv}, Targets: []il.BlockID{body.ID, after.ID}})
		}
	} else {
		l.jumpTo(body)
	}

	l.pushExit(after)
	l.cur = body
	l.lowerStmts(n.Body)
	l.popExit()

	if n.CondKind != ast.CondNone && n.TestPos == ast.TestPost {
		cv, _ := l.lowerExpr(n.Cond)

		if n.CondKind == ast.CondUntil {
			l.cur.Emit(il.Instr{Op: il.OpBranch, Operands: []il.Value{cv}, Targets: []il.BlockID{after.ID, head.ID}})
		} else {
			l.cur.Emit(il.Instr{Op: il.OpBranch, Operands: []il.Value{cv}, Targets: []il.BlockID{head.ID, after.ID}})
		}
	} else {
		l.jumpTo(head)
	}

	l.cur = after
}

func (l *lowerer) lowerFor(n *ast.For) {
	start, _ := l.lowerExpr(n.Start)
	l.cur.Emit(il.Instr{Op: il.OpStore, Name: n.Var, Type: ast.I64, Operands: []il.Value{start}})

	head := l.fn.NewBlock("for.head")
	body := l.fn.NewBlock("for.body")
	after := l.fn.NewBlock("for.end")

	l.jumpTo(head)
	l.cur = head

	cur := l.fn.NewValue()
	l.cur.Emit(il.Instr{Op: il.OpLoad, Result: cur, Name: n.Var, Type: ast.I64})

	end, _ := l.lowerExpr(n.End)

	cond := l.fn.NewValue()
	l.cur.Emit(il.Instr{Op: il.OpBinary, Result: cond, Type: ast.I64, BinOp: ast.Le, Operands: []il.Value{cur, end}})
	l.cur.Emit(il.Instr{Op: il.OpBranch, Operands: []il.Value{cond}, Targets: []il.BlockID{body.ID, after.ID}})

	l.pushExit(after)
	l.cur = body
	l.lowerStmts(n.Body)
	l.popExit()

	step := il.Value(-1)
	if n.Step != nil {
		step, _ = l.lowerExpr(n.Step)
	} else {
		step = l.fn.NewValue()
		l.cur.Emit(il.Instr{Op: il.OpConstInt, Result: step, Type: ast.I64, IntImm: 1})
	}

	loaded := l.fn.NewValue()
	l.cur.Emit(il.Instr{Op: il.OpLoad, Result: loaded, Name: n.Var, Type: ast.I64})

	next := l.fn.NewValue()
	l.cur.Emit(il.Instr{Op: il.OpBinary, Result: next, Type: ast.I64, BinOp: ast.Add, Operands: []il.Value{loaded, step}})
	l.cur.Emit(il.Instr{Op: il.OpStore, Name: n.Var, Type: ast.I64, Operands: []il.Value{next}})
	l.jumpTo(head)

	l.cur = after
}
