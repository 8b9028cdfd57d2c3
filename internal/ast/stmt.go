package ast

import "github.com/rustlite/rlc/internal/token"

// LetStmt is `let pat (: Type)? (= init)? ;`.
type LetStmt struct {
	Pattern Pattern
	Type    TypeExpr // nil if omitted
	Init    Expr     // nil if omitted
	span    token.Span
}

func NewLetStmt(pattern Pattern, typ TypeExpr, init Expr, span token.Span) *LetStmt {
	return &LetStmt{Pattern: pattern, Type: typ, Init: init, span: span}
}
func (s *LetStmt) Span() token.Span { return s.span }
func (*LetStmt) stmtNode()          {}

// ExprStmt is an expression used in statement position, noting whether the
// source carried a trailing `;`.
type ExprStmt struct {
	Expr            Expr
	TrailingSemi bool
	span         token.Span
}

func NewExprStmt(expr Expr, trailingSemi bool, span token.Span) *ExprStmt {
	return &ExprStmt{Expr: expr, TrailingSemi: trailingSemi, span: span}
}
func (s *ExprStmt) Span() token.Span { return s.span }
func (*ExprStmt) stmtNode()          {}

// EmptyStmt is a bare `;`.
type EmptyStmt struct {
	span token.Span
}

func NewEmptyStmt(span token.Span) *EmptyStmt { return &EmptyStmt{span: span} }
func (s *EmptyStmt) Span() token.Span         { return s.span }
func (*EmptyStmt) stmtNode()                  {}

// ItemStmt is an item declared at statement position inside a block.
type ItemStmt struct {
	Item Item
	span token.Span
}

func NewItemStmt(item Item, span token.Span) *ItemStmt {
	return &ItemStmt{Item: item, span: span}
}
func (s *ItemStmt) Span() token.Span { return s.span }
func (*ItemStmt) stmtNode()          {}
