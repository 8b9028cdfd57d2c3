package hir

import (
	"github.com/rustlite/rlc/internal/ast"
	"github.com/rustlite/rlc/internal/token"
	"github.com/rustlite/rlc/internal/types"
)

// EndpointKind is one way control can leave an expression (§4.3, GLOSSARY).
type EndpointKind int

const (
	Normal EndpointKind = iota
	Return
	Break
	Continue
)

// Endpoint pairs a kind with the loop it targets; Loop is meaningless for
// Normal and Return.
type Endpoint struct {
	Kind EndpointKind
	Loop LoopId
}

// EndpointSet is the meet-semilattice of reachable endpoints; its union
// operation (Union) is associative and commutative.
type EndpointSet map[Endpoint]struct{}

// NewEndpointSet builds a set from zero or more endpoints.
func NewEndpointSet(eps ...Endpoint) EndpointSet {
	s := make(EndpointSet, len(eps))
	for _, e := range eps {
		s[e] = struct{}{}
	}
	return s
}

// Union returns the set union of a and b, without mutating either.
func (a EndpointSet) Union(b EndpointSet) EndpointSet {
	out := make(EndpointSet, len(a)+len(b))
	for e := range a {
		out[e] = struct{}{}
	}
	for e := range b {
		out[e] = struct{}{}
	}
	return out
}

// Has reports whether k (with the given loop, if relevant) is present.
func (a EndpointSet) Has(k EndpointKind) bool {
	for e := range a {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// HasBreakOf reports whether a Break(loop) endpoint targeting loop is present.
func (a EndpointSet) HasBreakOf(loop LoopId) bool {
	_, ok := a[Endpoint{Kind: Break, Loop: loop}]
	return ok
}

// Diverges reports whether Normal is absent — the expression's type is
// `never` iff this is true.
func (a EndpointSet) Diverges() bool { return !a.Has(Normal) }

// ExprInfo is attached to every HIR expression after semantic checking
// (§4.3): its resolved type, place-ness, mutability, and endpoint set.
type ExprInfo struct {
	Type      types.Id
	IsPlace   bool
	IsMut     bool
	Endpoints EndpointSet
}

// Expr is the HIR counterpart of ast.Expr: the same shape, decorated with
// resolved references and, once semantic checking runs, an *ExprInfo.
type Expr interface {
	Span() token.Span
	Info() *ExprInfo
	SetInfo(*ExprInfo)
	exprNode()
}

type exprBase struct {
	span token.Span
	info *ExprInfo
}

func (b *exprBase) Span() token.Span   { return b.span }
func (b *exprBase) Info() *ExprInfo    { return b.info }
func (b *exprBase) SetInfo(i *ExprInfo) { b.info = i }

// IntegerLit is an integer literal; Suffix is "" when the literal carries
// no explicit width/sign annotation (subject to the defaulting rule, §4.3).
type IntegerLit struct {
	exprBase
	Text   string
	Suffix string
}

// BoolLit, CharLit, StringLit mirror the AST literal shapes.
type BoolLit struct {
	exprBase
	Value bool
}

type CharLit struct {
	exprBase
	Value rune
}

type StringLit struct {
	exprBase
	Value     string
	IsCString bool
}

// Variable is a resolved reference to a Local (§3.3 "Variable points to a
// Local").
type Variable struct {
	exprBase
	Local LocalId
	Name  string
}

// FuncUse references a function item by its resolved FuncId.
type FuncUse struct {
	exprBase
	Func FuncId
	Name string
}

// ConstUse references a module-level constant.
type ConstUse struct {
	exprBase
	Const ConstId
	Name  string
}

// EnumVariantExpr resolves a bare path to a unit enum variant, carrying the
// enum definition and the variant's zero-based declaration index.
type EnumVariantExpr struct {
	exprBase
	Enum         types.Id
	VariantIndex int
	Name         string
}

// Underscore is the `_` expression, used as a discard target on an
// assignment's left-hand side. The checker does not reject it in other
// positions; there it has the underscore type and lowers to a unit constant.
type Underscore struct{ exprBase }

// Unary applies a resolved unary operator.
type Unary struct {
	exprBase
	Op      ast.UnaryOp
	Operand Expr
}

// Binary applies a resolved binary operator.
type Binary struct {
	exprBase
	Op          ast.BinaryOp
	Left, Right Expr
}

// Assign is plain or compound assignment, with Op capturing which; compound
// forms stay compound here and are expanded to their underlying binary op
// during MIR lowering.
type Assign struct {
	exprBase
	Op          ast.AssignOp
	Target, Rhs Expr
}

// Cast is `expr as Type`, resolved to a target types.Id.
type Cast struct {
	exprBase
	Operand Expr
	Target  types.Id
}

// ArrayInit is `[e0, e1, ...]`.
type ArrayInit struct {
	exprBase
	Elements []Expr
}

// ArrayRepeat is `[value; count]`; CompileTimeSize is set when count could
// be const-evaluated during HIR construction, else CountExpr carries the
// expression for MIR to lower at runtime.
type ArrayRepeat struct {
	exprBase
	Value           Expr
	CompileTimeSize uint64
	HasCompileSize  bool
	CountExpr       Expr
}

// Index is `target[index]`.
type Index struct {
	exprBase
	Target, IndexExpr Expr
}

// StructFieldInit is one resolved struct-literal field initializer,
// reordered by the HIR builder into declaration order (§3.3).
type StructFieldInit struct {
	Name  string
	Index int
	Value Expr
}

// StructLiteral carries canonical (declaration-order) field initializers.
type StructLiteral struct {
	exprBase
	Type   types.Id
	Fields []StructFieldInit
}

// Call is a resolved function call.
type Call struct {
	exprBase
	Callee Expr
	Args   []Expr
}

// MethodCall carries the resolved method definition.
type MethodCall struct {
	exprBase
	Receiver Expr
	Method   FuncId
	Name     string
	Args     []Expr
}

// FieldAccess carries the resolved, zero-based field index.
type FieldAccess struct {
	exprBase
	Target Expr
	Field  string
	Index  int
}

// If mirrors ast.IfExpr with resolved sub-expressions.
type If struct {
	exprBase
	Cond       Expr
	Then       *Block
	Else       Expr // nil, *Block, or *If
}

// Loop is `loop { body }`, identified by a LoopId for break/continue
// matching.
type Loop struct {
	exprBase
	ID   LoopId
	Body *Block
}

// While is `while cond { body }`.
type While struct {
	exprBase
	ID   LoopId
	Cond Expr
	Body *Block
}

// ReturnExpr is `return` / `return value`.
type ReturnExpr struct {
	exprBase
	Value Expr // nil if bare
}

// BreakExpr targets a resolved LoopId.
type BreakExpr struct {
	exprBase
	Loop  LoopId
	Value Expr // nil if no payload
}

// ContinueExpr targets a resolved LoopId.
type ContinueExpr struct {
	exprBase
	Loop LoopId
}

// Block is `{ stmts...; tail? }`.
type Block struct {
	exprBase
	Stmts []Stmt
	Tail  Expr
}

func (*IntegerLit) exprNode()      {}
func (*BoolLit) exprNode()         {}
func (*CharLit) exprNode()         {}
func (*StringLit) exprNode()       {}
func (*Variable) exprNode()        {}
func (*FuncUse) exprNode()         {}
func (*ConstUse) exprNode()        {}
func (*EnumVariantExpr) exprNode() {}
func (*Underscore) exprNode()      {}
func (*Unary) exprNode()           {}
func (*Binary) exprNode()          {}
func (*Assign) exprNode()          {}
func (*Cast) exprNode()            {}
func (*ArrayInit) exprNode()       {}
func (*ArrayRepeat) exprNode()     {}
func (*Index) exprNode()           {}
func (*StructLiteral) exprNode()   {}
func (*Call) exprNode()            {}
func (*MethodCall) exprNode()      {}
func (*FieldAccess) exprNode()     {}
func (*If) exprNode()              {}
func (*Loop) exprNode()            {}
func (*While) exprNode()           {}
func (*ReturnExpr) exprNode()      {}
func (*BreakExpr) exprNode()       {}
func (*ContinueExpr) exprNode()    {}
func (*Block) exprNode()           {}
