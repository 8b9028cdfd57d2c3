// Package ast defines the syntax tree produced by the parser: a set of
// mutually recursive tagged variants, each exclusively owned by its parent.
package ast

import "github.com/rustlite/rlc/internal/token"

// Node is any AST node with an associated source span.
type Node interface {
	Span() token.Span
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Item is a top-level (or trait/impl-nested) declaration.
type Item interface {
	Node
	itemNode()
}

// TypeExpr is a type annotation expression.
type TypeExpr interface {
	Node
	typeNode()
}

// Pattern is a binding pattern, as found in `let` and function parameters.
type Pattern interface {
	Node
	patternNode()
}

// Ident is an interned name plus its defining occurrence's span.
type Ident struct {
	Name string
	span token.Span
}

func NewIdent(name string, span token.Span) *Ident { return &Ident{Name: name, span: span} }
func (i *Ident) Span() token.Span                   { return i.span }

// Path is a `::`-separated sequence of identifiers, e.g. `foo::Bar`.
type Path struct {
	Segments []*Ident
	span     token.Span
}

func NewPath(segments []*Ident, span token.Span) *Path { return &Path{Segments: segments, span: span} }
func (p *Path) Span() token.Span                       { return p.span }

// String renders the path as source text, for diagnostics.
func (p *Path) String() string {
	s := ""
	for i, seg := range p.Segments {
		if i > 0 {
			s += "::"
		}
		s += seg.Name
	}
	return s
}

// File is a parsed compilation unit: a flat list of items.
type File struct {
	Items []Item
	span  token.Span
}

func NewFile(items []Item, span token.Span) *File { return &File{Items: items, span: span} }
func (f *File) Span() token.Span                  { return f.span }
