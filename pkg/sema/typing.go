package sema

import "github.com/splanck/viper-sub025/pkg/ast"

// inferSigilType implements the default-type-by-sigil rule: $→Str,
// %→I64 (16-bit range enforced at runtime, not at this stage), !/#→F64,
// no sigil→I64.
func inferSigilType(name string) ast.Type {
	if len(name) == 0 {
		return ast.I64
	}

	switch name[len(name)-1] {
	case '$':
		return ast.Str
	case '%':
		return ast.I64
	case '!', '#':
		return ast.F64
	default:
		return ast.I64
	}
}

// isNumeric reports whether t is one of the numeric value types.
func isNumeric(t ast.Type) bool { return t == ast.I64 || t == ast.F64 }

// assignable reports whether a value of type src may flow into a slot of
// type dst without an explicit conversion the lowerer must synthesize.
// int↔float promotions are always allowed; a Bool (comparisons, TRUE/FALSE)
// may flow into a numeric slot using BASIC's -1/0 convention; string is
// only self-compatible.
func assignable(dst, src ast.Type) bool {
	if dst == src {
		return true
	}

	if isNumeric(dst) && isNumeric(src) {
		return true
	}

	return src == ast.Bool && isNumeric(dst)
}
