package ast

import "github.com/splanck/viper-sub025/pkg/source"

// Expr is the sum type of BASIC expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Base embeds the common span bookkeeping shared by every node variant.
type Base struct {
	Span source.Span
}

// Location implements Node.
func (b Base) Location() source.Span { return b.Span }

// ---------------------------------------------------------------------------
// Literals
// ---------------------------------------------------------------------------

// IntExpr is an integer literal.
type IntExpr struct {
	Base
	Value int64
}

func (*IntExpr) exprNode() {}

// FloatExpr is a floating point literal.
type FloatExpr struct {
	Base
	Value float64
}

func (*FloatExpr) exprNode() {}

// StringExpr is a string literal; Value holds the already-decoded bytes
// (escape sequences resolved at lex time, Invariant 5).
type StringExpr struct {
	Base
	Value string
}

func (*StringExpr) exprNode() {}

// BoolExpr is a boolean literal, distinct from an integer 0/1 once folded
// (Invariant 4) so the lowerer can emit typed IL.
type BoolExpr struct {
	Base
	Value bool
}

func (*BoolExpr) exprNode() {}

// ---------------------------------------------------------------------------
// References
// ---------------------------------------------------------------------------

// VarExpr is a variable reference.  Name includes the BASIC sigil ($, %, !,
// #) when present.
type VarExpr struct {
	Base
	Name string
}

func (*VarExpr) exprNode() {}

// ArrayExpr is a subscripted array access with one or more index
// expressions, evaluated in syntactic order.
type ArrayExpr struct {
	Base
	Name    string
	Indices []Expr
}

func (*ArrayExpr) exprNode() {}

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

// UnaryOp enumerates unary operators.
type UnaryOp int

// Unary operators.
const (
	LogicalNot UnaryOp = iota
	Plus
	Negate
)

// UnaryExpr applies a unary operator to an operand.
type UnaryExpr struct {
	Base
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// BinaryOp enumerates binary operators.  The ordering is load-bearing: the
// printer indexes a parallel token table by this ordinal (Invariant 3).
type BinaryOp int

// Binary operators, ordered to match the printer's token table.
const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Pow
	IDiv
	Mod
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	LogicalAndShort // ANDALSO
	LogicalOrShort  // ORELSE
	LogicalAnd      // AND
	LogicalOr       // OR
)

// BinaryExpr applies a binary operator to two operands.
type BinaryExpr struct {
	Base
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

func (*BinaryExpr) exprNode() {}

// ---------------------------------------------------------------------------
// Calls
// ---------------------------------------------------------------------------

// BuiltinID enumerates builtin functions recognised by the parser and
// resolved against pkg/runtime's registry.
type BuiltinID int

// Builtins.
const (
	BuiltinLen BuiltinID = iota
	BuiltinMid
	BuiltinLeft
	BuiltinRight
	BuiltinVal
	BuiltinInt
	BuiltinFix
	BuiltinRound
	BuiltinStr
	BuiltinInstr
	BuiltinLTrim
	BuiltinRTrim
	BuiltinTrim
	BuiltinUCase
	BuiltinLCase
	BuiltinChr
	BuiltinAsc
	BuiltinRnd
)

// BuiltinCallExpr invokes an enumerated builtin with a fixed or
// variable-arity argument list.
type BuiltinCallExpr struct {
	Base
	Builtin BuiltinID
	Args    []Expr
}

func (*BuiltinCallExpr) exprNode() {}

// CallExpr invokes a user-defined procedure.  QualifiedCallee, when
// non-empty, takes precedence over Callee for printing and resolution
// (dotted namespace path).
type CallExpr struct {
	Base
	Callee          string
	QualifiedCallee []string
	Args            []Expr
}

func (*CallExpr) exprNode() {}

// LBoundExpr queries the lower bound of an array.
type LBoundExpr struct {
	Base
	Name string
}

func (*LBoundExpr) exprNode() {}

// UBoundExpr queries the upper bound of an array.
type UBoundExpr struct {
	Base
	Name string
}

func (*UBoundExpr) exprNode() {}

// ---------------------------------------------------------------------------
// Object model
// ---------------------------------------------------------------------------

// NewExpr constructs an object.  QualifiedType, when non-empty, takes
// precedence over ClassName for printing and resolution.
type NewExpr struct {
	Base
	ClassName     string
	QualifiedType []string
	Args          []Expr
}

func (*NewExpr) exprNode() {}

// MeExpr refers to the receiver within a type member.
type MeExpr struct {
	Base
}

func (*MeExpr) exprNode() {}

// MemberAccessExpr reads a field of an object.
type MemberAccessExpr struct {
	Base
	Target Expr
	Member string
}

func (*MemberAccessExpr) exprNode() {}

// MethodCallExpr invokes a method on an object.
type MethodCallExpr struct {
	Base
	Target Expr
	Method string
	Args   []Expr
}

func (*MethodCallExpr) exprNode() {}

// IsExpr performs a runtime type test.
type IsExpr struct {
	Base
	Value    Expr
	TypeName []string
}

func (*IsExpr) exprNode() {}

// AsExpr performs a runtime cast.
type AsExpr struct {
	Base
	Value    Expr
	TypeName []string
}

func (*AsExpr) exprNode() {}

// AddressOfExpr takes the address of a named procedure.
type AddressOfExpr struct {
	Base
	TargetName string
}

func (*AddressOfExpr) exprNode() {}
