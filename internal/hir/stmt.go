package hir

import "github.com/rustlite/rlc/internal/token"

// Stmt is the HIR counterpart of ast.Stmt.
type Stmt interface {
	Span() token.Span
	stmtNode()
}

type stmtBase struct{ span token.Span }

func (b *stmtBase) Span() token.Span { return b.span }

// LetStmt binds a pattern to the resolved Local id, with an optional
// initializer.
type LetStmt struct {
	stmtBase
	Local LocalId
	Init  Expr // nil if omitted
}

// ExprStmt is an expression used in statement position.
type ExprStmt struct {
	stmtBase
	Expr Expr
}

// EmptyStmt is a bare `;`.
type EmptyStmt struct{ stmtBase }

func (*LetStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()  {}
func (*EmptyStmt) stmtNode() {}
