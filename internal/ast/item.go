package ast

import "github.com/rustlite/rlc/internal/token"

// SelfParam describes a method's receiver: `self`, `&self`, `&mut self`, or
// `mut self`. It is kept separate from the positional parameter list.
type SelfParam struct {
	IsReference bool
	IsMutable   bool
	span        token.Span
}

func NewSelfParam(isReference, isMutable bool, span token.Span) *SelfParam {
	return &SelfParam{IsReference: isReference, IsMutable: isMutable, span: span}
}
func (p *SelfParam) Span() token.Span { return p.span }

// Param is one positional function parameter, `pattern: type`.
type Param struct {
	Pattern Pattern
	Type    TypeExpr
	span    token.Span
}

func NewParam(pattern Pattern, typ TypeExpr, span token.Span) *Param {
	return &Param{Pattern: pattern, Type: typ, span: span}
}
func (p *Param) Span() token.Span { return p.span }

// FnDecl is a function or method declaration.
type FnDecl struct {
	Name       *Ident
	Self       *SelfParam // nil for free functions
	Params     []*Param
	ReturnType TypeExpr // nil means unit
	Body       *BlockExpr // nil for a trait method signature with no default body
	span       token.Span
}

func NewFnDecl(name *Ident, self *SelfParam, params []*Param, ret TypeExpr, body *BlockExpr, span token.Span) *FnDecl {
	return &FnDecl{Name: name, Self: self, Params: params, ReturnType: ret, Body: body, span: span}
}
func (d *FnDecl) Span() token.Span { return d.span }
func (*FnDecl) itemNode()          {}

// StructField is one named field in a struct declaration.
type StructField struct {
	Name *Ident
	Type TypeExpr
	span token.Span
}

func NewStructField(name *Ident, typ TypeExpr, span token.Span) *StructField {
	return &StructField{Name: name, Type: typ, span: span}
}
func (f *StructField) Span() token.Span { return f.span }

// StructDecl declares a struct type and its named fields, in definition
// order.
type StructDecl struct {
	Name   *Ident
	Fields []*StructField
	span   token.Span
}

func NewStructDecl(name *Ident, fields []*StructField, span token.Span) *StructDecl {
	return &StructDecl{Name: name, Fields: fields, span: span}
}
func (d *StructDecl) Span() token.Span { return d.span }
func (*StructDecl) itemNode()          {}

// EnumVariant is one unit (payload-less) variant of an enum declaration.
type EnumVariant struct {
	Name *Ident
	span token.Span
}

func NewEnumVariant(name *Ident, span token.Span) *EnumVariant {
	return &EnumVariant{Name: name, span: span}
}
func (v *EnumVariant) Span() token.Span { return v.span }

// EnumDecl declares an enum type and its variants, in definition order.
type EnumDecl struct {
	Name     *Ident
	Variants []*EnumVariant
	span     token.Span
}

func NewEnumDecl(name *Ident, variants []*EnumVariant, span token.Span) *EnumDecl {
	return &EnumDecl{Name: name, Variants: variants, span: span}
}
func (d *EnumDecl) Span() token.Span { return d.span }
func (*EnumDecl) itemNode()          {}

// ConstDecl declares a module-level constant.
type ConstDecl struct {
	Name  *Ident
	Type  TypeExpr
	Value Expr
	span  token.Span
}

func NewConstDecl(name *Ident, typ TypeExpr, value Expr, span token.Span) *ConstDecl {
	return &ConstDecl{Name: name, Type: typ, Value: value, span: span}
}
func (d *ConstDecl) Span() token.Span { return d.span }
func (*ConstDecl) itemNode()          {}

// TraitDecl declares a trait and its method signatures. Bound solving is
// out of scope; the checker only uses trait declarations to validate
// `impl Trait for Type` blocks shape-match.
type TraitDecl struct {
	Name  *Ident
	Items []Item
	span  token.Span
}

func NewTraitDecl(name *Ident, items []Item, span token.Span) *TraitDecl {
	return &TraitDecl{Name: name, Items: items, span: span}
}
func (d *TraitDecl) Span() token.Span { return d.span }
func (*TraitDecl) itemNode()          {}

// InherentImplDecl is `impl Type { ... }`.
type InherentImplDecl struct {
	ForType TypeExpr
	Items   []Item
	span    token.Span
}

func NewInherentImplDecl(forType TypeExpr, items []Item, span token.Span) *InherentImplDecl {
	return &InherentImplDecl{ForType: forType, Items: items, span: span}
}
func (d *InherentImplDecl) Span() token.Span { return d.span }
func (*InherentImplDecl) itemNode()          {}

// TraitImplDecl is `impl Trait for Type { ... }`.
type TraitImplDecl struct {
	Trait   *Path
	ForType TypeExpr
	Items   []Item
	span    token.Span
}

func NewTraitImplDecl(trait *Path, forType TypeExpr, items []Item, span token.Span) *TraitImplDecl {
	return &TraitImplDecl{Trait: trait, ForType: forType, Items: items, span: span}
}
func (d *TraitImplDecl) Span() token.Span { return d.span }
func (*TraitImplDecl) itemNode()          {}

// TypeAliasDecl is `type Name = Target;`.
type TypeAliasDecl struct {
	Name   *Ident
	Target TypeExpr
	span   token.Span
}

func NewTypeAliasDecl(name *Ident, target TypeExpr, span token.Span) *TypeAliasDecl {
	return &TypeAliasDecl{Name: name, Target: target, span: span}
}
func (d *TypeAliasDecl) Span() token.Span { return d.span }
func (*TypeAliasDecl) itemNode()          {}
