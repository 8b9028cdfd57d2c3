package parser

import (
	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/token"
)

// InfixOp describes one entry of a Pratt operator table: how tightly it
// binds, which way it associates, and how to combine the parsed operands
// into a result node.
type InfixOp[R any] struct {
	Precedence int
	RightAssoc bool
	Combine    func(lhs, rhs R, opTok token.Token) R
}

// PostfixOp describes a postfix operator (index, call, field access, method
// call, cast) that attaches to an already-parsed left operand without
// itself needing a right-hand precedence climb.
type PostfixOp[R any] struct {
	Precedence int
	Parse      func(ctx *Context, lhs R, opTok token.Token) (R, *diag.ParseError)
}

// PrattBuilder climbs operator precedence over a fixed atom parser. Infix
// and postfix operators are registered by the token they start on; look up
// functions decide applicability and binding power per successful match.
type PrattBuilder[R any] struct {
	atom    Parser[R]
	infix   func(tok token.Token) (InfixOp[R], bool)
	postfix func(tok token.Token) (PostfixOp[R], bool)
	prefix  func(ctx *Context) (R, bool, *diag.ParseError)
}

// NewPratt creates a builder parsing atoms with atom.
func NewPratt[R any](atom Parser[R]) *PrattBuilder[R] {
	return &PrattBuilder[R]{atom: atom}
}

// WithInfix installs the infix operator table.
func (b *PrattBuilder[R]) WithInfix(lookup func(tok token.Token) (InfixOp[R], bool)) *PrattBuilder[R] {
	b.infix = lookup
	return b
}

// WithPostfix installs the postfix operator table (index/call/field/method/cast).
func (b *PrattBuilder[R]) WithPostfix(lookup func(tok token.Token) (PostfixOp[R], bool)) *PrattBuilder[R] {
	b.postfix = lookup
	return b
}

// WithPrefix installs a prefix-operator hook tried before falling back to
// atom; it reports (value, handled, err). handled=false means "not a prefix
// operator here, try atom instead."
func (b *PrattBuilder[R]) WithPrefix(prefix func(ctx *Context) (R, bool, *diag.ParseError)) *PrattBuilder[R] {
	b.prefix = prefix
	return b
}

// Parser returns a Parser[R] that performs a full precedence climb starting
// at minimum binding power 0.
func (b *PrattBuilder[R]) Parser() Parser[R] {
	return func(ctx *Context) (R, *diag.ParseError) {
		return b.parseExpr(ctx, 0)
	}
}

// ParseAt climbs starting from minPrec instead of 0, used by prefix-operator
// hooks that need their operand parsed at a specific binding power.
func (b *PrattBuilder[R]) ParseAt(ctx *Context, minPrec int) (R, *diag.ParseError) {
	return b.parseExpr(ctx, minPrec)
}

func (b *PrattBuilder[R]) parseAtomOrPrefix(ctx *Context) (R, *diag.ParseError) {
	if b.prefix != nil {
		start := ctx.Pos()
		v, handled, err := b.prefix(ctx)
		if handled {
			if err != nil {
				ctx.Seek(start)
				return v, err
			}
			return v, nil
		}
		ctx.Seek(start)
	}
	return b.atom(ctx)
}

func (b *PrattBuilder[R]) parseExpr(ctx *Context, minPrec int) (R, *diag.ParseError) {
	lhs, err := b.parseAtomOrPrefix(ctx)
	if err != nil {
		var zero R
		return zero, err
	}

	for {
		start := ctx.Pos()
		tok := ctx.Peek()

		if b.postfix != nil {
			if op, ok := b.postfix(tok); ok && op.Precedence >= minPrec {
				newLhs, perr := op.Parse(ctx, lhs, tok)
				if perr != nil {
					ctx.Seek(start)
					var zero R
					return zero, perr
				}
				lhs = newLhs
				continue
			}
		}

		if b.infix == nil {
			break
		}
		op, ok := b.infix(tok)
		if !ok || op.Precedence < minPrec {
			break
		}
		ctx.Advance()

		nextMin := op.Precedence + 1
		if op.RightAssoc {
			nextMin = op.Precedence
		}
		rhs, rerr := b.parseExpr(ctx, nextMin)
		if rerr != nil {
			ctx.Seek(start)
			var zero R
			return zero, rerr
		}
		lhs = op.Combine(lhs, rhs, tok)
	}

	return lhs, nil
}
