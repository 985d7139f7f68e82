// Package runtime models the pre-declared runtime symbols the lowerer emits
// calls to: one static table of builtin metadata (name, arity, result type),
// plus the small set of fixed string/channel/file runtime entry points.
package runtime

import "github.com/splanck/viper-sub025/pkg/ast"

// BuiltinInfo describes one builtin function's calling convention.
type BuiltinInfo struct {
	Name    string
	MinArgs int
	MaxArgs int
	// Symbol returns the runtime entry point to call for the given
	// argument types, allowing overload-by-arity (MID$ with/without a
	// length argument resolve to distinct symbols).
	Symbol func(argTypes []ast.Type) string
	// Result returns the builtin's result type; it never depends on
	// argTypes for this language (every builtin has one fixed result
	// type), but the signature mirrors Symbol's for uniformity.
	Result func(argTypes []ast.Type) ast.Type
}

func fixedResult(t ast.Type) func([]ast.Type) ast.Type {
	return func([]ast.Type) ast.Type { return t }
}

func fixedSymbol(name string) func([]ast.Type) string {
	return func([]ast.Type) string { return name }
}

// Registry is the static builtin-id → metadata table consulted by the
// lowerer when emitting a BuiltinCallExpr.
var Registry = map[ast.BuiltinID]BuiltinInfo{
	ast.BuiltinLen:   {Name: "LEN", MinArgs: 1, MaxArgs: 1, Symbol: fixedSymbol("rt_str_len"), Result: fixedResult(ast.I64)},
	ast.BuiltinMid:   {Name: "MID$", MinArgs: 2, MaxArgs: 3, Symbol: midSymbol, Result: fixedResult(ast.Str)},
	ast.BuiltinLeft:  {Name: "LEFT$", MinArgs: 2, MaxArgs: 2, Symbol: fixedSymbol("rt_str_left"), Result: fixedResult(ast.Str)},
	ast.BuiltinRight: {Name: "RIGHT$", MinArgs: 2, MaxArgs: 2, Symbol: fixedSymbol("rt_str_right"), Result: fixedResult(ast.Str)},
	ast.BuiltinVal:   {Name: "VAL", MinArgs: 1, MaxArgs: 1, Symbol: fixedSymbol("rt_str_val"), Result: fixedResult(ast.F64)},
	ast.BuiltinInt:   {Name: "INT", MinArgs: 1, MaxArgs: 1, Symbol: fixedSymbol("rt_num_int"), Result: fixedResult(ast.F64)},
	ast.BuiltinFix:   {Name: "FIX", MinArgs: 1, MaxArgs: 1, Symbol: fixedSymbol("rt_num_fix"), Result: fixedResult(ast.F64)},
	ast.BuiltinRound: {Name: "ROUND", MinArgs: 1, MaxArgs: 2, Symbol: fixedSymbol("rt_num_round"), Result: fixedResult(ast.F64)},
	ast.BuiltinStr:   {Name: "STR$", MinArgs: 1, MaxArgs: 1, Symbol: fixedSymbol("rt_num_str"), Result: fixedResult(ast.Str)},
	ast.BuiltinInstr: {Name: "INSTR", MinArgs: 2, MaxArgs: 3, Symbol: fixedSymbol("rt_str_instr"), Result: fixedResult(ast.I64)},
	ast.BuiltinLTrim: {Name: "LTRIM$", MinArgs: 1, MaxArgs: 1, Symbol: fixedSymbol("rt_str_ltrim"), Result: fixedResult(ast.Str)},
	ast.BuiltinRTrim: {Name: "RTRIM$", MinArgs: 1, MaxArgs: 1, Symbol: fixedSymbol("rt_str_rtrim"), Result: fixedResult(ast.Str)},
	ast.BuiltinTrim:  {Name: "TRIM$", MinArgs: 1, MaxArgs: 1, Symbol: fixedSymbol("rt_str_trim"), Result: fixedResult(ast.Str)},
	ast.BuiltinUCase: {Name: "UCASE$", MinArgs: 1, MaxArgs: 1, Symbol: fixedSymbol("rt_str_ucase"), Result: fixedResult(ast.Str)},
	ast.BuiltinLCase: {Name: "LCASE$", MinArgs: 1, MaxArgs: 1, Symbol: fixedSymbol("rt_str_lcase"), Result: fixedResult(ast.Str)},
	ast.BuiltinChr:   {Name: "CHR$", MinArgs: 1, MaxArgs: 1, Symbol: fixedSymbol("rt_str_chr"), Result: fixedResult(ast.Str)},
	ast.BuiltinAsc:   {Name: "ASC", MinArgs: 1, MaxArgs: 1, Symbol: fixedSymbol("rt_str_asc"), Result: fixedResult(ast.I64)},
	ast.BuiltinRnd:   {Name: "RND", MinArgs: 0, MaxArgs: 1, Symbol: fixedSymbol("rt_num_rnd"), Result: fixedResult(ast.F64)},
}

// midSymbol distinguishes MID$(s, start) from MID$(s, start, length): the
// runtime exposes two entry points rather than a single variadic one.
func midSymbol(argTypes []ast.Type) string {
	if len(argTypes) == 3 {
		return "rt_str_mid3"
	}

	return "rt_str_mid2"
}

// Lookup returns the metadata for id, or false if id is not a recognised
// builtin (should not happen post-parse, since the parser only ever
// constructs BuiltinCallExpr nodes from its own builtinNames table).
func Lookup(id ast.BuiltinID) (BuiltinInfo, bool) {
	info, ok := Registry[id]
	return info, ok
}

// Fixed runtime entry points called directly by the lowerer outside the
// builtin registry (string ownership, channel I/O, file I/O).
const (
	StringRef       = "rt_string_ref"
	StringUnref     = "rt_string_unref"
	PrintStr        = "rt_print_str"
	PrintInt        = "rt_print_int"
	PrintFloat      = "rt_print_float"
	PrintNewline    = "rt_print_newline"
	PrintTab        = "rt_print_tab"
	WriteChErr      = "rt_write_ch_err"
	FileOpen        = "rt_file_open"
	FileClose       = "rt_file_close"
	FileSeek        = "rt_file_seek"
	FileInputLine   = "rt_file_input_line"
	FileInputFields = "rt_file_input_fields"
	TrapInstall     = "rt_trap_install"
	TrapResumeSame  = "rt_trap_resume_same"
	TrapResumeNext  = "rt_trap_resume_next"
	TrapResumeLabel = "rt_trap_resume_label"

	TermCls       = "rt_term_cls"
	TermCursor    = "rt_term_cursor"
	TermAltScreen = "rt_term_altscreen"
	TermColor     = "rt_term_color"
	TermLocate    = "rt_term_locate"
	TermSleep     = "rt_term_sleep"
	TermBeep      = "rt_term_beep"

	NumRandomize = "rt_num_randomize"

	ObjDelete = "rt_obj_delete"
)
