package ast

import "github.com/rustlite/rlc/internal/token"

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	Not UnaryOp = iota
	Neg
	Deref
	Ref
	RefMut
)

// BinaryOp spans arithmetic, bitwise, shift, comparison, and short-circuit
// logical operators.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Rem
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	LogAnd
	LogOr
	CmpEq
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// AssignOp is plain `=` or one of its eleven compound forms.
type AssignOp int

const (
	Assign AssignOp = iota
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	RemAssign
	BitAndAssign
	BitOrAssign
	BitXorAssign
	ShlAssign
	ShrAssign
)

// IntegerLit is an integer literal with an optional width/sign suffix.
// Suffix is one of "", "i32", "u32", "isize", "usize"; Text is the source
// text with digit separators already stripped.
type IntegerLit struct {
	Text   string
	Suffix string
	span   token.Span
}

func NewIntegerLit(text, suffix string, span token.Span) *IntegerLit {
	return &IntegerLit{Text: text, Suffix: suffix, span: span}
}
func (e *IntegerLit) Span() token.Span { return e.span }
func (*IntegerLit) exprNode()          {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value bool
	span  token.Span
}

func NewBoolLit(value bool, span token.Span) *BoolLit { return &BoolLit{Value: value, span: span} }
func (e *BoolLit) Span() token.Span                   { return e.span }
func (*BoolLit) exprNode()                            {}

// CharLit is a single-character literal.
type CharLit struct {
	Value rune
	span  token.Span
}

func NewCharLit(value rune, span token.Span) *CharLit { return &CharLit{Value: value, span: span} }
func (e *CharLit) Span() token.Span                   { return e.span }
func (*CharLit) exprNode()                            {}

// StringLit is a string literal; IsCString marks the `c"..."` form.
type StringLit struct {
	Value     string
	IsCString bool
	span      token.Span
}

func NewStringLit(value string, isCString bool, span token.Span) *StringLit {
	return &StringLit{Value: value, IsCString: isCString, span: span}
}
func (e *StringLit) Span() token.Span { return e.span }
func (*StringLit) exprNode()          {}

// PathExpr references a local, const, function, struct, or enum variant by
// path; resolution happens in the HIR builder.
type PathExpr struct {
	Path *Path
	span token.Span
}

func NewPathExpr(path *Path, span token.Span) *PathExpr { return &PathExpr{Path: path, span: span} }
func (e *PathExpr) Span() token.Span                    { return e.span }
func (*PathExpr) exprNode()                             {}

// UnderscoreExpr is a bare `_` used as a discard target.
type UnderscoreExpr struct {
	span token.Span
}

func NewUnderscoreExpr(span token.Span) *UnderscoreExpr { return &UnderscoreExpr{span: span} }
func (e *UnderscoreExpr) Span() token.Span              { return e.span }
func (*UnderscoreExpr) exprNode()                       {}

// GroupedExpr is a parenthesized expression, `(expr)`.
type GroupedExpr struct {
	Inner Expr
	span  token.Span
}

func NewGroupedExpr(inner Expr, span token.Span) *GroupedExpr {
	return &GroupedExpr{Inner: inner, span: span}
}
func (e *GroupedExpr) Span() token.Span { return e.span }
func (*GroupedExpr) exprNode()          {}

// UnaryExpr is a prefix operator applied to an operand.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
	span    token.Span
}

func NewUnaryExpr(op UnaryOp, operand Expr, span token.Span) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand, span: span}
}
func (e *UnaryExpr) Span() token.Span { return e.span }
func (*UnaryExpr) exprNode()          {}

// BinaryExpr is an infix arithmetic/bitwise/shift/compare/logical operator.
type BinaryExpr struct {
	Op          BinaryOp
	Left, Right Expr
	span        token.Span
}

func NewBinaryExpr(op BinaryOp, left, right Expr, span token.Span) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right, span: span}
}
func (e *BinaryExpr) Span() token.Span { return e.span }
func (*BinaryExpr) exprNode()          {}

// AssignExpr is plain or compound assignment.
type AssignExpr struct {
	Op          AssignOp
	Target, Rhs Expr
	span        token.Span
}

func NewAssignExpr(op AssignOp, target, rhs Expr, span token.Span) *AssignExpr {
	return &AssignExpr{Op: op, Target: target, Rhs: rhs, span: span}
}
func (e *AssignExpr) Span() token.Span { return e.span }
func (*AssignExpr) exprNode()          {}

// CastExpr is `expr as Type`.
type CastExpr struct {
	Operand Expr
	Target  TypeExpr
	span    token.Span
}

func NewCastExpr(operand Expr, target TypeExpr, span token.Span) *CastExpr {
	return &CastExpr{Operand: operand, Target: target, span: span}
}
func (e *CastExpr) Span() token.Span { return e.span }
func (*CastExpr) exprNode()          {}

// ArrayInitExpr is `[e0, e1, ...]`.
type ArrayInitExpr struct {
	Elements []Expr
	span     token.Span
}

func NewArrayInitExpr(elems []Expr, span token.Span) *ArrayInitExpr {
	return &ArrayInitExpr{Elements: elems, span: span}
}
func (e *ArrayInitExpr) Span() token.Span { return e.span }
func (*ArrayInitExpr) exprNode()          {}

// ArrayRepeatExpr is `[value; count]`.
type ArrayRepeatExpr struct {
	Value, Count Expr
	span         token.Span
}

func NewArrayRepeatExpr(value, count Expr, span token.Span) *ArrayRepeatExpr {
	return &ArrayRepeatExpr{Value: value, Count: count, span: span}
}
func (e *ArrayRepeatExpr) Span() token.Span { return e.span }
func (*ArrayRepeatExpr) exprNode()          {}

// IndexExpr is `target[index]`.
type IndexExpr struct {
	Target, Index Expr
	span          token.Span
}

func NewIndexExpr(target, index Expr, span token.Span) *IndexExpr {
	return &IndexExpr{Target: target, Index: index, span: span}
}
func (e *IndexExpr) Span() token.Span { return e.span }
func (*IndexExpr) exprNode()          {}

// StructLiteralField is one `name: value` initializer inside a struct
// literal, in source order.
type StructLiteralField struct {
	Name  *Ident
	Value Expr
	span  token.Span
}

func NewStructLiteralField(name *Ident, value Expr, span token.Span) *StructLiteralField {
	return &StructLiteralField{Name: name, Value: value, span: span}
}
func (f *StructLiteralField) Span() token.Span { return f.span }

// StructLiteralExpr is `Path { field: value, ... }`.
type StructLiteralExpr struct {
	Path   *Path
	Fields []*StructLiteralField
	span   token.Span
}

func NewStructLiteralExpr(path *Path, fields []*StructLiteralField, span token.Span) *StructLiteralExpr {
	return &StructLiteralExpr{Path: path, Fields: fields, span: span}
}
func (e *StructLiteralExpr) Span() token.Span { return e.span }
func (*StructLiteralExpr) exprNode()          {}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	span   token.Span
}

func NewCallExpr(callee Expr, args []Expr, span token.Span) *CallExpr {
	return &CallExpr{Callee: callee, Args: args, span: span}
}
func (e *CallExpr) Span() token.Span { return e.span }
func (*CallExpr) exprNode()          {}

// MethodCallExpr is `receiver.method(args...)`.
type MethodCallExpr struct {
	Receiver Expr
	Method   *Ident
	Args     []Expr
	span     token.Span
}

func NewMethodCallExpr(receiver Expr, method *Ident, args []Expr, span token.Span) *MethodCallExpr {
	return &MethodCallExpr{Receiver: receiver, Method: method, Args: args, span: span}
}
func (e *MethodCallExpr) Span() token.Span { return e.span }
func (*MethodCallExpr) exprNode()          {}

// FieldAccessExpr is `target.field`.
type FieldAccessExpr struct {
	Target Expr
	Field  *Ident
	span   token.Span
}

func NewFieldAccessExpr(target Expr, field *Ident, span token.Span) *FieldAccessExpr {
	return &FieldAccessExpr{Target: target, Field: field, span: span}
}
func (e *FieldAccessExpr) Span() token.Span { return e.span }
func (*FieldAccessExpr) exprNode()          {}

// IfExpr is `if cond { then } else { else }`; Else may itself be an IfExpr
// (else-if chains) or a BlockExpr, or nil.
type IfExpr struct {
	Cond Expr
	Then *BlockExpr
	Else Expr
	span token.Span
}

func NewIfExpr(cond Expr, then *BlockExpr, els Expr, span token.Span) *IfExpr {
	return &IfExpr{Cond: cond, Then: then, Else: els, span: span}
}
func (e *IfExpr) Span() token.Span { return e.span }
func (*IfExpr) exprNode()          {}

// LoopExpr is `loop { body }`.
type LoopExpr struct {
	Body *BlockExpr
	span token.Span
}

func NewLoopExpr(body *BlockExpr, span token.Span) *LoopExpr {
	return &LoopExpr{Body: body, span: span}
}
func (e *LoopExpr) Span() token.Span { return e.span }
func (*LoopExpr) exprNode()          {}

// WhileExpr is `while cond { body }`.
type WhileExpr struct {
	Cond Expr
	Body *BlockExpr
	span token.Span
}

func NewWhileExpr(cond Expr, body *BlockExpr, span token.Span) *WhileExpr {
	return &WhileExpr{Cond: cond, Body: body, span: span}
}
func (e *WhileExpr) Span() token.Span { return e.span }
func (*WhileExpr) exprNode()          {}

// ReturnExpr is `return` or `return value`.
type ReturnExpr struct {
	Value Expr // nil if bare
	span  token.Span
}

func NewReturnExpr(value Expr, span token.Span) *ReturnExpr {
	return &ReturnExpr{Value: value, span: span}
}
func (e *ReturnExpr) Span() token.Span { return e.span }
func (*ReturnExpr) exprNode()          {}

// BreakExpr is `break`, `break 'label`, `break value`, or both.
type BreakExpr struct {
	Label *Ident // nil if unlabeled
	Value Expr   // nil if no payload
	span  token.Span
}

func NewBreakExpr(label *Ident, value Expr, span token.Span) *BreakExpr {
	return &BreakExpr{Label: label, Value: value, span: span}
}
func (e *BreakExpr) Span() token.Span { return e.span }
func (*BreakExpr) exprNode()          {}

// ContinueExpr is `continue` or `continue 'label`.
type ContinueExpr struct {
	Label *Ident
	span  token.Span
}

func NewContinueExpr(label *Ident, span token.Span) *ContinueExpr {
	return &ContinueExpr{Label: label, span: span}
}
func (e *ContinueExpr) Span() token.Span { return e.span }
func (*ContinueExpr) exprNode()          {}

// BlockExpr is `{ stmts...; tail? }`. Tail is nil when the block's value is
// unit (either empty, or the last statement ends in `;`).
type BlockExpr struct {
	Stmts []Stmt
	Tail  Expr
	span  token.Span
}

func NewBlockExpr(stmts []Stmt, tail Expr, span token.Span) *BlockExpr {
	return &BlockExpr{Stmts: stmts, Tail: tail, span: span}
}
func (e *BlockExpr) Span() token.Span { return e.span }
func (*BlockExpr) exprNode()          {}
