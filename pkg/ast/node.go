// Package ast defines the BASIC abstract syntax tree: one Go interface per
// node family (Expr, Stmt), with one struct per variant.  Mutating passes
// (constant folding, semantic analysis) rewrite expressions in place by
// replacing the owning slot; there are no back-pointers in the tree itself —
// side tables keyed by node identity carry anything that needs to look
// upward.
package ast

import "github.com/splanck/viper-sub025/pkg/source"

// Node is the common interface implemented by every AST node: it reports the
// span of source text it was parsed from.  Every node must carry a non-zero
// location, propagated by rewriters (Invariant 1).
type Node interface {
	Location() source.Span
}

// Type is the set of first-class BASIC value types.
type Type int

// Value types.
const (
	I64 Type = iota
	F64
	Str
	Bool
)

// String renders a Type using BASIC's AS-clause spelling.
func (t Type) String() string {
	switch t {
	case I64:
		return "INTEGER"
	case F64:
		return "DOUBLE"
	case Str:
		return "STRING"
	case Bool:
		return "BOOLEAN"
	default:
		return "INTEGER"
	}
}

// BasicType extends Type with the additional markers needed for explicit
// function return-type annotations, where "no annotation" and "void" must be
// distinguishable from the default numeric type.
type BasicType int

// Explicit return-type annotations.
const (
	Unknown BasicType = iota
	Void
	BTI64
	BTF64
	BTStr
	BTBool
)

// String renders a BasicType.
func (t BasicType) String() string {
	switch t {
	case Unknown:
		return "UNKNOWN"
	case Void:
		return "VOID"
	case BTI64:
		return "INTEGER"
	case BTF64:
		return "DOUBLE"
	case BTStr:
		return "STRING"
	case BTBool:
		return "BOOLEAN"
	default:
		return "UNKNOWN"
	}
}

// Param is a procedure parameter: a name and whether it denotes an array.
type Param struct {
	Name    string
	IsArray bool
}

// Field is a TYPE/CLASS member: a name, declared type, and (for class
// fields) whether it is static.
type Field struct {
	Name     string
	Type     Type
	IsStatic bool
}
