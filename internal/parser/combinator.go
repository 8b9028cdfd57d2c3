// Package parser implements the front end's combinator/Pratt parser: a
// small generic combinator kernel (this file), a Pratt sub-parser for
// expressions (pratt.go), and the grammar built on top of both (grammar.go
// and friends).
package parser

import (
	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/token"
)

// Context is an immutable token slice paired with a mutable cursor. It is
// the sole piece of state threaded through every combinator.
type Context struct {
	tokens []token.Token
	pos    int

	// furthest tracks the deepest failure seen so far, so that alternatives
	// which backtrack can still report a useful error upward.
	furthest *diag.ParseError
}

// NewContext creates a parsing context over a token stream.
func NewContext(tokens []token.Token) *Context {
	return &Context{tokens: tokens}
}

// Peek returns the token under the cursor without consuming it.
func (c *Context) Peek() token.Token {
	if c.pos >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1] // EOF sentinel
	}
	return c.tokens[c.pos]
}

// PeekAt returns the token offset tokens ahead of the cursor, clamped to EOF.
func (c *Context) PeekAt(offset int) token.Token {
	i := c.pos + offset
	if i >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1]
	}
	return c.tokens[i]
}

// Pos returns the current cursor position.
func (c *Context) Pos() int { return c.pos }

// Seek resets the cursor, used by combinators to backtrack.
func (c *Context) Seek(pos int) { c.pos = pos }

// Advance consumes the current token and returns it.
func (c *Context) Advance() token.Token {
	t := c.Peek()
	if c.pos < len(c.tokens) {
		c.pos++
	}
	return t
}

func (c *Context) recordFailure(err *diag.ParseError) {
	if c.furthest == nil || err.Span.Start > c.furthest.Span.Start {
		c.furthest = err
		return
	}
	if err.Span.Start == c.furthest.Span.Start {
		c.furthest.Expected = append(c.furthest.Expected, err.Expected...)
	}
}

// Furthest returns the deepest failure recorded in this context, if any.
func (c *Context) Furthest() *diag.ParseError { return c.furthest }

// Parser is a rule that consumes from ctx and yields R or a ParseError. On
// failure, a well-behaved Parser must leave ctx positioned exactly where it
// started (the combinators in this file maintain that invariant so custom
// leaf parsers are the only place it must be hand-checked).
type Parser[R any] func(ctx *Context) (R, *diag.ParseError)

// Satisfy advances by one token if pred holds for it, else fails without
// consuming.
func Satisfy(pred func(token.Token) bool, label string) Parser[token.Token] {
	return func(ctx *Context) (token.Token, *diag.ParseError) {
		start := ctx.Pos()
		tok := ctx.Peek()
		if pred(tok) {
			ctx.Advance()
			return tok, nil
		}
		err := &diag.ParseError{Span: tok.Span, Expected: []string{label}}
		ctx.recordFailure(err)
		ctx.Seek(start)
		var zero token.Token
		return zero, err
	}
}

// Map transforms a parser's result with f.
func Map[R, S any](p Parser[R], f func(R) S) Parser[S] {
	return func(ctx *Context) (S, *diag.ParseError) {
		v, err := p(ctx)
		if err != nil {
			var zero S
			return zero, err
		}
		return f(v), nil
	}
}

// TryMap transforms a parser's result, allowing the transform itself to
// fail (e.g. literal decoding). A TryMap failure backtracks like any other.
func TryMap[R, S any](p Parser[R], f func(R) (S, *diag.ParseError)) Parser[S] {
	return func(ctx *Context) (S, *diag.ParseError) {
		start := ctx.Pos()
		v, err := p(ctx)
		if err != nil {
			var zero S
			return zero, err
		}
		s, serr := f(v)
		if serr != nil {
			ctx.recordFailure(serr)
			ctx.Seek(start)
			var zero S
			return zero, serr
		}
		return s, nil
	}
}

// OrElse tries p1; if it fails without success, tries p2 from the same
// starting position. If both fail at the same furthest position their
// expected-labels are unioned onto the returned error.
func OrElse[R any](p1, p2 Parser[R]) Parser[R] {
	return func(ctx *Context) (R, *diag.ParseError) {
		start := ctx.Pos()
		v, err := p1(ctx)
		if err == nil {
			return v, nil
		}
		ctx.Seek(start)
		v2, err2 := p2(ctx)
		if err2 == nil {
			return v2, nil
		}
		if err.Span.Start == err2.Span.Start {
			err2.Expected = append(append([]string{}, err.Expected...), err2.Expected...)
		} else if err.Span.Start > err2.Span.Start {
			err2 = err
		}
		ctx.Seek(start)
		var zero R
		return zero, err2
	}
}

// Choice tries each alternative in order, as repeated OrElse.
func Choice[R any](ps ...Parser[R]) Parser[R] {
	if len(ps) == 0 {
		panic("parser: Choice requires at least one alternative")
	}
	acc := ps[0]
	for _, p := range ps[1:] {
		acc = OrElse(acc, p)
	}
	return acc
}

// Pair is the flattened result of AndThen.
type Pair[A, B any] struct {
	First  A
	Second B
}

// AndThen runs p1 then p2 in sequence, backtracking to the start position
// if either fails.
func AndThen[A, B any](p1 Parser[A], p2 Parser[B]) Parser[Pair[A, B]] {
	return func(ctx *Context) (Pair[A, B], *diag.ParseError) {
		start := ctx.Pos()
		a, err := p1(ctx)
		if err != nil {
			ctx.Seek(start)
			return Pair[A, B]{}, err
		}
		b, err := p2(ctx)
		if err != nil {
			ctx.Seek(start)
			return Pair[A, B]{}, err
		}
		return Pair[A, B]{First: a, Second: b}, nil
	}
}

// KeepLeft runs both parsers in sequence and keeps only the first result.
func KeepLeft[A, B any](p1 Parser[A], p2 Parser[B]) Parser[A] {
	return Map(AndThen(p1, p2), func(pr Pair[A, B]) A { return pr.First })
}

// KeepRight runs both parsers in sequence and keeps only the second result.
func KeepRight[A, B any](p1 Parser[A], p2 Parser[B]) Parser[B] {
	return Map(AndThen(p1, p2), func(pr Pair[A, B]) B { return pr.Second })
}

// Many applies p greedily until it fails, never failing itself.
func Many[R any](p Parser[R]) Parser[[]R] {
	return func(ctx *Context) ([]R, *diag.ParseError) {
		var out []R
		for {
			start := ctx.Pos()
			v, err := p(ctx)
			if err != nil {
				ctx.Seek(start)
				return out, nil
			}
			out = append(out, v)
		}
	}
}

// Many1 is Many but requires at least one success.
func Many1[R any](p Parser[R]) Parser[[]R] {
	return func(ctx *Context) ([]R, *diag.ParseError) {
		first, err := p(ctx)
		if err != nil {
			return nil, err
		}
		rest, _ := Many(p)(ctx)
		return append([]R{first}, rest...), nil
	}
}

// Option is the result of Optional: Present is false when p failed without
// consuming input.
type Option[R any] struct {
	Value   R
	Present bool
}

// Optional converts a failing-without-consuming parser into a present/absent
// result instead of propagating the failure.
func Optional[R any](p Parser[R]) Parser[Option[R]] {
	return func(ctx *Context) (Option[R], *diag.ParseError) {
		start := ctx.Pos()
		v, err := p(ctx)
		if err != nil {
			ctx.Seek(start)
			return Option[R]{}, nil
		}
		return Option[R]{Value: v, Present: true}, nil
	}
}

// SepBy parses zero or more R separated by sep, with no trailing separator.
func SepBy[R, S any](item Parser[R], sep Parser[S]) Parser[[]R] {
	return func(ctx *Context) ([]R, *diag.ParseError) {
		start := ctx.Pos()
		first, err := item(ctx)
		if err != nil {
			ctx.Seek(start)
			return nil, nil
		}
		out := []R{first}
		for {
			loopStart := ctx.Pos()
			_, serr := sep(ctx)
			if serr != nil {
				ctx.Seek(loopStart)
				return out, nil
			}
			v, ierr := item(ctx)
			if ierr != nil {
				ctx.Seek(loopStart)
				return out, nil
			}
			out = append(out, v)
		}
	}
}

// SepBy1 is SepBy but fails if no item is present.
func SepBy1[R, S any](item Parser[R], sep Parser[S]) Parser[[]R] {
	return func(ctx *Context) ([]R, *diag.ParseError) {
		start := ctx.Pos()
		items, _ := SepBy(item, sep)(ctx)
		if len(items) == 0 {
			_, err := item(ctx)
			ctx.Seek(start)
			return nil, err
		}
		return items, nil
	}
}

// SepByTrailing is SepBy but also consumes one optional trailing separator
// after the final item (the "tuple" variant used by argument/field lists).
func SepByTrailing[R, S any](item Parser[R], sep Parser[S]) Parser[[]R] {
	return func(ctx *Context) ([]R, *diag.ParseError) {
		items, _ := SepBy(item, sep)(ctx)
		trailingStart := ctx.Pos()
		if _, err := sep(ctx); err != nil {
			ctx.Seek(trailingStart)
		}
		return items, nil
	}
}

// thunk is the mutable cell Lazy installs its body into exactly once.
type thunk[R any] struct {
	body Parser[R]
	set  bool
}

// Lazy returns a parser/setter pair for building recursive grammars. The
// returned parser may be embedded in other rules before its body is known;
// calling it before Set has been invoked, or calling Set twice, is a
// programmer error and panics.
func Lazy[R any]() (Parser[R], func(Parser[R])) {
	cell := &thunk[R]{}
	p := func(ctx *Context) (R, *diag.ParseError) {
		if !cell.set {
			panic("parser: lazy parser used before its body was set")
		}
		return cell.body(ctx)
	}
	set := func(body Parser[R]) {
		if cell.set {
			panic("parser: lazy parser body set more than once")
		}
		cell.body = body
		cell.set = true
	}
	return p, set
}

// Label attaches a human-readable expectation to p: whenever p fails, the
// error's expected set is replaced by name and name is prepended to its
// context.
func Label[R any](p Parser[R], name string) Parser[R] {
	return func(ctx *Context) (R, *diag.ParseError) {
		start := ctx.Pos()
		v, err := p(ctx)
		if err == nil {
			return v, nil
		}
		labeled := &diag.ParseError{
			Span:     err.Span,
			Expected: []string{name},
			Context:  append([]string{name}, err.Context...),
		}
		ctx.recordFailure(labeled)
		ctx.Seek(start)
		var zero R
		return zero, labeled
	}
}

// Run wraps p to require EOF consumption and returns the furthest error
// seen across the whole attempt on failure.
func Run[R any](p Parser[R], tokens []token.Token) (R, *diag.ParseError) {
	ctx := NewContext(tokens)
	v, err := p(ctx)
	if err != nil {
		if f := ctx.Furthest(); f != nil {
			return v, f
		}
		return v, err
	}
	if ctx.Peek().Kind != token.EOF {
		eofErr := &diag.ParseError{Span: ctx.Peek().Span, Expected: []string{"end of file"}}
		ctx.recordFailure(eofErr)
		if f := ctx.Furthest(); f != nil {
			return v, f
		}
		return v, eofErr
	}
	return v, nil
}
