package ast

import "github.com/rustlite/rlc/internal/token"

// PrimitiveKind names one of the built-in scalar types.
type PrimitiveKind int

const (
	I32 PrimitiveKind = iota
	U32
	Isize
	Usize
	Bool
	Char
	Str
)

func (k PrimitiveKind) String() string {
	switch k {
	case I32:
		return "i32"
	case U32:
		return "u32"
	case Isize:
		return "isize"
	case Usize:
		return "usize"
	case Bool:
		return "bool"
	case Char:
		return "char"
	case Str:
		return "str"
	default:
		return "<unknown primitive>"
	}
}

// PathType names a user-defined type (struct, enum, or alias) by path.
type PathType struct {
	Path *Path
	span token.Span
}

func NewPathType(path *Path, span token.Span) *PathType { return &PathType{Path: path, span: span} }
func (t *PathType) Span() token.Span                    { return t.span }
func (*PathType) typeNode()                             {}

// PrimitiveType is one of the built-in scalar types.
type PrimitiveType struct {
	Kind PrimitiveKind
	span token.Span
}

func NewPrimitiveType(kind PrimitiveKind, span token.Span) *PrimitiveType {
	return &PrimitiveType{Kind: kind, span: span}
}
func (t *PrimitiveType) Span() token.Span { return t.span }
func (*PrimitiveType) typeNode()          {}

// ArrayType is `[Element; Size]`. Size is an arbitrary expression; whether
// it is a compile-time constant is decided during HIR construction.
type ArrayType struct {
	Element TypeExpr
	Size    Expr
	span    token.Span
}

func NewArrayType(elem TypeExpr, size Expr, span token.Span) *ArrayType {
	return &ArrayType{Element: elem, Size: size, span: span}
}
func (t *ArrayType) Span() token.Span { return t.span }
func (*ArrayType) typeNode()          {}

// ReferenceType is `&T` or `&mut T`.
type ReferenceType struct {
	Mutable bool
	Pointee TypeExpr
	span    token.Span
}

func NewReferenceType(mutable bool, pointee TypeExpr, span token.Span) *ReferenceType {
	return &ReferenceType{Mutable: mutable, Pointee: pointee, span: span}
}
func (t *ReferenceType) Span() token.Span { return t.span }
func (*ReferenceType) typeNode()          {}

// UnitType is the zero-information type `()`.
type UnitType struct {
	span token.Span
}

func NewUnitType(span token.Span) *UnitType { return &UnitType{span: span} }
func (t *UnitType) Span() token.Span        { return t.span }
func (*UnitType) typeNode()                 {}
