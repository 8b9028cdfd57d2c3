package ast

import "github.com/rustlite/rlc/internal/token"

// LiteralPattern matches a literal expression exactly, e.g. `0` or `-1`.
type LiteralPattern struct {
	Literal  Expr
	Negative bool
	span     token.Span
}

func NewLiteralPattern(lit Expr, negative bool, span token.Span) *LiteralPattern {
	return &LiteralPattern{Literal: lit, Negative: negative, span: span}
}
func (p *LiteralPattern) Span() token.Span { return p.span }
func (*LiteralPattern) patternNode()       {}

// BindingPattern introduces a new local, optionally `ref` and/or `mut`.
type BindingPattern struct {
	Name  *Ident
	IsRef bool
	IsMut bool
	span  token.Span
}

func NewBindingPattern(name *Ident, isRef, isMut bool, span token.Span) *BindingPattern {
	return &BindingPattern{Name: name, IsRef: isRef, IsMut: isMut, span: span}
}
func (p *BindingPattern) Span() token.Span { return p.span }
func (*BindingPattern) patternNode()       {}

// WildcardPattern is `_`: matches anything and binds nothing.
type WildcardPattern struct {
	span token.Span
}

func NewWildcardPattern(span token.Span) *WildcardPattern { return &WildcardPattern{span: span} }
func (p *WildcardPattern) Span() token.Span               { return p.span }
func (*WildcardPattern) patternNode()                      {}

// ReferencePattern is `&pat` or `&mut pat`.
type ReferencePattern struct {
	Mutable bool
	Inner   Pattern
	span    token.Span
}

func NewReferencePattern(mutable bool, inner Pattern, span token.Span) *ReferencePattern {
	return &ReferencePattern{Mutable: mutable, Inner: inner, span: span}
}
func (p *ReferencePattern) Span() token.Span { return p.span }
func (*ReferencePattern) patternNode()       {}

// PathPattern matches a const item or unit enum variant by path.
type PathPattern struct {
	Path *Path
	span token.Span
}

func NewPathPattern(path *Path, span token.Span) *PathPattern {
	return &PathPattern{Path: path, span: span}
}
func (p *PathPattern) Span() token.Span { return p.span }
func (*PathPattern) patternNode()       {}
