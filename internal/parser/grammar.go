package parser

import (
	"strings"

	"github.com/rustlite/rlc/internal/ast"
	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/token"
)

// Parse runs the full grammar over a token stream and returns a File.
func Parse(tokens []token.Token) (*ast.File, *diag.ParseError) {
	return Run(fileParser(), tokens)
}

// ---- token-level helpers -------------------------------------------------

func isOperator(text string) func(token.Token) bool {
	return func(t token.Token) bool { return t.Kind == token.Operator && t.Text == text }
}
func isDelimiter(text string) func(token.Token) bool {
	return func(t token.Token) bool { return t.Kind == token.Delimiter && t.Text == text }
}
func isSeparator(text string) func(token.Token) bool {
	return func(t token.Token) bool { return t.Kind == token.Separator && t.Text == text }
}
func isKeyword(text string) func(token.Token) bool {
	return func(t token.Token) bool { return t.Kind == token.Keyword && t.Text == text }
}

func op(text string) Parser[token.Token]  { return Satisfy(isOperator(text), "'"+text+"'") }
func delim(text string) Parser[token.Token] { return Satisfy(isDelimiter(text), "'"+text+"'") }
func sep(text string) Parser[token.Token]   { return Satisfy(isSeparator(text), "'"+text+"'") }
func kw(text string) Parser[token.Token]    { return Satisfy(isKeyword(text), "'"+text+"'") }

func ident() Parser[*ast.Ident] {
	return Map(Satisfy(func(t token.Token) bool { return t.Kind == token.Identifier }, "identifier"),
		func(t token.Token) *ast.Ident { return ast.NewIdent(t.Text, t.Span) })
}

// ---- paths and types -----------------------------------------------------

func pathParser() Parser[*ast.Path] {
	return TryMap(SepBy1(ident(), sep("::")), func(segs []*ast.Ident) (*ast.Path, *diag.ParseError) {
		if len(segs) == 0 {
			return nil, &diag.ParseError{Expected: []string{"path"}}
		}
		sp := segs[0].Span()
		for _, s := range segs[1:] {
			sp = token.Merge(sp, s.Span())
		}
		return ast.NewPath(segs, sp), nil
	})
}

var primitiveNames = map[string]ast.PrimitiveKind{
	"i32": ast.I32, "u32": ast.U32, "isize": ast.Isize, "usize": ast.Usize,
	"bool": ast.Bool, "char": ast.Char, "str": ast.Str,
}

func typeExprParser() Parser[ast.TypeExpr] {
	p, set := Lazy[ast.TypeExpr]()

	primitive := TryMap(Satisfy(func(t token.Token) bool {
		if t.Kind != token.Identifier {
			return false
		}
		_, ok := primitiveNames[t.Text]
		return ok
	}, "primitive type"), func(t token.Token) (ast.TypeExpr, *diag.ParseError) {
		return ast.NewPrimitiveType(primitiveNames[t.Text], t.Span), nil
	})

	unit := Map(AndThen(delim("("), delim(")")), func(pr Pair[token.Token, token.Token]) ast.TypeExpr {
		return ast.NewUnitType(token.Merge(pr.First.Span, pr.Second.Span))
	})

	pathType := Map(pathParser(), func(path *ast.Path) ast.TypeExpr {
		return ast.NewPathType(path, path.Span())
	})

	reference := Map(
		AndThen(op("&"), AndThen(Optional(kw("mut")), p)),
		func(pr Pair[token.Token, Pair[Option[token.Token], ast.TypeExpr]]) ast.TypeExpr {
			sp := token.Merge(pr.First.Span, pr.Second.Second.Span())
			return ast.NewReferenceType(pr.Second.First.Present, pr.Second.Second, sp)
		})

	array := TryMap(
		AndThen(delim("["), AndThen(p, AndThen(sep(";"), AndThen(lazyExpr(), delim("]"))))),
		func(pr Pair[token.Token, Pair[ast.TypeExpr, Pair[token.Token, Pair[ast.Expr, token.Token]]]]) (ast.TypeExpr, *diag.ParseError) {
			sp := token.Merge(pr.First.Span, pr.Second.Second.Second.Second.Span)
			return ast.NewArrayType(pr.Second.First, pr.Second.Second.Second.First, sp), nil
		})

	body := Choice(unit, array, reference, primitive, pathType)
	set(Label(body, "type"))
	return p
}

// ---- patterns -------------------------------------------------------------

func patternParser() Parser[ast.Pattern] {
	p, set := Lazy[ast.Pattern]()

	// `_` lexes as Identifier "_".
	wildcard := Map(Satisfy(func(t token.Token) bool {
		return t.Kind == token.Identifier && t.Text == "_"
	}, "'_'"), func(t token.Token) ast.Pattern { return ast.NewWildcardPattern(t.Span) })

	binding := Map(
		AndThen(Optional(kw("ref")), AndThen(Optional(kw("mut")), ident())),
		func(pr Pair[Option[token.Token], Pair[Option[token.Token], *ast.Ident]]) ast.Pattern {
			name := pr.Second.Second
			sp := name.Span()
			if pr.First.Present {
				sp = token.Merge(pr.First.Value.Span, sp)
			}
			if pr.Second.First.Present {
				sp = token.Merge(pr.Second.First.Value.Span, sp)
			}
			return ast.NewBindingPattern(name, pr.First.Present, pr.Second.First.Present, sp)
		})

	reference := Map(
		AndThen(op("&"), AndThen(Optional(kw("mut")), p)),
		func(pr Pair[token.Token, Pair[Option[token.Token], ast.Pattern]]) ast.Pattern {
			sp := token.Merge(pr.First.Span, pr.Second.Second.Span())
			return ast.NewReferencePattern(pr.Second.First.Present, pr.Second.Second, sp)
		})

	literal := Map(literalExprAtom(), func(e ast.Expr) ast.Pattern {
		return ast.NewLiteralPattern(e, false, e.Span())
	})
	negLiteral := Map(AndThen(op("-"), literalExprAtom()), func(pr Pair[token.Token, ast.Expr]) ast.Pattern {
		return ast.NewLiteralPattern(pr.Second, true, token.Merge(pr.First.Span, pr.Second.Span()))
	})

	pathPat := Map(pathParser(), func(path *ast.Path) ast.Pattern {
		return ast.NewPathPattern(path, path.Span())
	})

	body := Choice(wildcard, reference, negLiteral, literal, binding, pathPat)
	set(Label(body, "pattern"))
	return p
}

// ---- expressions ----------------------------------------------------------

var exprCell, setExprCell = Lazy[ast.Expr]()
var blockCell, setBlockCell = Lazy[*ast.BlockExpr]()

func lazyExpr() Parser[ast.Expr]        { return exprCell }
func lazyBlock() Parser[*ast.BlockExpr] { return blockCell }

func stripSeparators(text string) string {
	return strings.ReplaceAll(text, "_", "")
}

func literalExprAtom() Parser[ast.Expr] {
	integer := TryMap(Satisfy(func(t token.Token) bool { return t.Kind == token.Number }, "integer literal"),
		func(t token.Token) (ast.Expr, *diag.ParseError) {
			text := stripSeparators(t.Text)
			suffix := ""
			for _, s := range []string{"isize", "usize", "i32", "u32"} {
				if strings.HasSuffix(text, s) {
					suffix = s
					text = strings.TrimSuffix(text, s)
					break
				}
			}
			return ast.NewIntegerLit(text, suffix, t.Span), nil
		})

	boolLit := Map(Choice(kw("true"), kw("false")), func(t token.Token) ast.Expr {
		return ast.NewBoolLit(t.Text == "true", t.Span)
	})

	charLit := Map(Satisfy(func(t token.Token) bool { return t.Kind == token.Char }, "character literal"),
		func(t token.Token) ast.Expr {
			r := rune(0)
			if len(t.Value) > 0 {
				r = []rune(t.Value)[0]
			}
			return ast.NewCharLit(r, t.Span)
		})

	strLit := Map(Satisfy(func(t token.Token) bool { return t.Kind == token.String }, "string literal"),
		func(t token.Token) ast.Expr { return ast.NewStringLit(t.Value, false, t.Span) })

	cstrLit := Map(Satisfy(func(t token.Token) bool { return t.Kind == token.CString }, "c-string literal"),
		func(t token.Token) ast.Expr { return ast.NewStringLit(t.Value, true, t.Span) })

	return Choice(integer, boolLit, charLit, strLit, cstrLit)
}

func identExprParser() Parser[ast.Expr] {
	underscore := Map(Satisfy(func(t token.Token) bool {
		return t.Kind == token.Identifier && t.Text == "_"
	}, "'_'"), func(t token.Token) ast.Expr { return ast.NewUnderscoreExpr(t.Span) })

	selfExpr := Map(kw("self"), func(t token.Token) ast.Expr {
		return ast.NewPathExpr(ast.NewPath([]*ast.Ident{ast.NewIdent("self", t.Span)}, t.Span), t.Span)
	})
	pathExpr := Map(pathParser(), func(p *ast.Path) ast.Expr { return ast.NewPathExpr(p, p.Span()) })
	return Choice(underscore, selfExpr, pathExpr)
}

func structLiteralFieldParser() Parser[*ast.StructLiteralField] {
	return Map(AndThen(ident(), AndThen(sep(":"), lazyExpr())),
		func(pr Pair[*ast.Ident, Pair[token.Token, ast.Expr]]) *ast.StructLiteralField {
			return ast.NewStructLiteralField(pr.First, pr.Second.Second, token.Merge(pr.First.Span(), pr.Second.Second.Span()))
		})
}

func structLiteralParser() Parser[ast.Expr] {
	return TryMap(
		AndThen(pathParser(), AndThen(delim("{"), AndThen(SepByTrailing(structLiteralFieldParser(), sep(",")), delim("}")))),
		func(pr Pair[*ast.Path, Pair[token.Token, Pair[[]*ast.StructLiteralField, token.Token]]]) (ast.Expr, *diag.ParseError) {
			sp := token.Merge(pr.First.Span(), pr.Second.Second.Second.Span)
			return ast.NewStructLiteralExpr(pr.First, pr.Second.Second.First, sp), nil
		})
}

func groupedOrArrayParser() Parser[ast.Expr] {
	grouped := Map(AndThen(delim("("), AndThen(lazyExpr(), delim(")"))),
		func(pr Pair[token.Token, Pair[ast.Expr, token.Token]]) ast.Expr {
			return ast.NewGroupedExpr(pr.Second.First, token.Merge(pr.First.Span, pr.Second.Second.Span))
		})

	arrayRepeat := Map(
		AndThen(delim("["), AndThen(lazyExpr(), AndThen(sep(";"), AndThen(lazyExpr(), delim("]"))))),
		func(pr Pair[token.Token, Pair[ast.Expr, Pair[token.Token, Pair[ast.Expr, token.Token]]]]) ast.Expr {
			sp := token.Merge(pr.First.Span, pr.Second.Second.Second.Second.Span)
			return ast.NewArrayRepeatExpr(pr.Second.First, pr.Second.Second.Second.First, sp)
		})

	arrayInit := Map(
		AndThen(delim("["), AndThen(SepByTrailing(lazyExpr(), sep(",")), delim("]"))),
		func(pr Pair[token.Token, Pair[[]ast.Expr, token.Token]]) ast.Expr {
			sp := token.Merge(pr.First.Span, pr.Second.Second.Span)
			return ast.NewArrayInitExpr(pr.Second.First, sp)
		})

	return Choice(grouped, OrElse(arrayRepeat, arrayInit))
}

func blockExprParser() Parser[*ast.BlockExpr] {
	stmt := statementParser()
	return TryMap(AndThen(delim("{"), AndThen(Many(stmt), delim("}"))),
		func(pr Pair[token.Token, Pair[[]ast.Stmt, token.Token]]) (*ast.BlockExpr, *diag.ParseError) {
			stmts := pr.Second.First
			sp := token.Merge(pr.First.Span, pr.Second.Second.Span)
			var tail ast.Expr
			if n := len(stmts); n > 0 {
				if es, ok := stmts[n-1].(*ast.ExprStmt); ok && !es.TrailingSemi {
					tail = es.Expr
					stmts = stmts[:n-1]
				}
			}
			return ast.NewBlockExpr(stmts, tail, sp), nil
		})
}

func ifExprParser() Parser[ast.Expr] {
	p, set := Lazy[ast.Expr]()

	elseBranch := Optional(KeepRight(kw("else"),
		Choice(Map(p, func(e ast.Expr) ast.Expr { return e }),
			Map(lazyBlock(), func(b *ast.BlockExpr) ast.Expr { return b }))))

	body := Map(
		AndThen(kw("if"), AndThen(exprNoStruct(), AndThen(lazyBlock(), elseBranch))),
		func(pr Pair[token.Token, Pair[ast.Expr, Pair[*ast.BlockExpr, Option[ast.Expr]]]]) ast.Expr {
			sp := pr.First.Span
			sp = token.Merge(sp, pr.Second.Second.First.Span())
			var els ast.Expr
			if pr.Second.Second.Second.Present {
				els = pr.Second.Second.Second.Value
				sp = token.Merge(sp, els.Span())
			}
			return ast.NewIfExpr(pr.Second.First, pr.Second.Second.First, els, sp)
		})
	set(body)
	return p
}

func loopExprParser() Parser[ast.Expr] {
	return Map(AndThen(kw("loop"), lazyBlock()), func(pr Pair[token.Token, *ast.BlockExpr]) ast.Expr {
		return ast.NewLoopExpr(pr.Second, token.Merge(pr.First.Span, pr.Second.Span()))
	})
}

func whileExprParser() Parser[ast.Expr] {
	return Map(AndThen(kw("while"), AndThen(exprNoStruct(), lazyBlock())),
		func(pr Pair[token.Token, Pair[ast.Expr, *ast.BlockExpr]]) ast.Expr {
			sp := token.Merge(pr.First.Span, pr.Second.Second.Span())
			return ast.NewWhileExpr(pr.Second.First, pr.Second.Second, sp)
		})
}

func returnExprParser() Parser[ast.Expr] {
	valueOpt := Optional(lazyExpr())
	return Map(AndThen(kw("return"), valueOpt), func(pr Pair[token.Token, Option[ast.Expr]]) ast.Expr {
		sp := pr.First.Span
		var v ast.Expr
		if pr.Second.Present {
			v = pr.Second.Value
			sp = token.Merge(sp, v.Span())
		}
		return ast.NewReturnExpr(v, sp)
	})
}

func labelParser() Parser[*ast.Ident] {
	return Map(Satisfy(func(t token.Token) bool {
		return t.Kind == token.Identifier && strings.HasPrefix(t.Text, "'")
	}, "label"), func(t token.Token) *ast.Ident { return ast.NewIdent(t.Text, t.Span) })
}

func breakExprParser() Parser[ast.Expr] {
	return Map(
		AndThen(kw("break"), AndThen(Optional(labelParser()), Optional(lazyExpr()))),
		func(pr Pair[token.Token, Pair[Option[*ast.Ident], Option[ast.Expr]]]) ast.Expr {
			sp := pr.First.Span
			var label *ast.Ident
			var value ast.Expr
			if pr.Second.First.Present {
				label = pr.Second.First.Value
				sp = token.Merge(sp, label.Span())
			}
			if pr.Second.Second.Present {
				value = pr.Second.Second.Value
				sp = token.Merge(sp, value.Span())
			}
			return ast.NewBreakExpr(label, value, sp)
		})
}

func continueExprParser() Parser[ast.Expr] {
	return Map(AndThen(kw("continue"), Optional(labelParser())),
		func(pr Pair[token.Token, Option[*ast.Ident]]) ast.Expr {
			sp := pr.First.Span
			var label *ast.Ident
			if pr.Second.Present {
				label = pr.Second.Value
				sp = token.Merge(sp, label.Span())
			}
			return ast.NewContinueExpr(label, sp)
		})
}

// noStruct controls whether struct-literal atoms are permitted; `if`/`while`
// conditions disallow bare struct literals so `{` unambiguously starts the
// body block, matching the grammar note in §4.1.2.
var noStructDepth int

func exprNoStruct() Parser[ast.Expr] {
	return func(ctx *Context) (ast.Expr, *diag.ParseError) {
		noStructDepth++
		defer func() { noStructDepth-- }()
		return lazyExpr()(ctx)
	}
}

func atomParser() Parser[ast.Expr] {
	blockAsExpr := Map(lazyBlock(), func(b *ast.BlockExpr) ast.Expr { return b })

	var structOrIdent Parser[ast.Expr]
	structOrIdent = func(ctx *Context) (ast.Expr, *diag.ParseError) {
		if noStructDepth > 0 {
			return identExprParser()(ctx)
		}
		return OrElse(structLiteralParser(), identExprParser())(ctx)
	}

	return Choice(
		literalExprAtom(),
		groupedOrArrayParser(),
		ifExprParser(),
		loopExprParser(),
		whileExprParser(),
		returnExprParser(),
		breakExprParser(),
		continueExprParser(),
		blockAsExpr,
		structOrIdent,
	)
}

func unaryOpFor(t token.Token) (ast.UnaryOp, bool) {
	switch {
	case t.Kind == token.Operator && t.Text == "!":
		return ast.Not, true
	case t.Kind == token.Operator && t.Text == "-":
		return ast.Neg, true
	case t.Kind == token.Operator && t.Text == "*":
		return ast.Deref, true
	}
	return 0, false
}

// unaryOperandMinPrec is cast precedence: a prefix operator's operand may
// absorb postfix and `as` chains but stops short of all binary infix
// operators, so `-x as i32` parses as `-(x as i32)` and `-a + b` parses as
// `(-a) + b`.
const unaryOperandMinPrec = precCast

func prefixParser(ctx *Context) (ast.Expr, bool, *diag.ParseError) {
	tok := ctx.Peek()
	if tok.Kind == token.Operator && tok.Text == "&" {
		ctx.Advance()
		mutTok := ctx.Peek()
		isMut := mutTok.Kind == token.Keyword && mutTok.Text == "mut"
		if isMut {
			ctx.Advance()
		}
		operand, err := exprPrattBuilder.ParseAt(ctx, unaryOperandMinPrec)
		if err != nil {
			return nil, true, err
		}
		op := ast.Ref
		if isMut {
			op = ast.RefMut
		}
		return ast.NewUnaryExpr(op, operand, token.Merge(tok.Span, operand.Span())), true, nil
	}
	if uop, ok := unaryOpFor(tok); ok {
		ctx.Advance()
		operand, err := exprPrattBuilder.ParseAt(ctx, unaryOperandMinPrec)
		if err != nil {
			return nil, true, err
		}
		return ast.NewUnaryExpr(uop, operand, token.Merge(tok.Span, operand.Span())), true, nil
	}
	return nil, false, nil
}

const (
	precAssign = 10
	precOr     = 20
	precAnd    = 30
	precCmp    = 40
	precBitOr  = 41
	precBitXor = 42
	precBitAnd = 45
	precShift  = 48
	precAdd    = 50
	precMul    = 60
	precCast   = 70
	precPostfix = 80
)

var binaryOpTable = map[string]ast.BinaryOp{
	"||": ast.LogOr, "&&": ast.LogAnd,
	"==": ast.CmpEq, "!=": ast.CmpNe, "<": ast.CmpLt, "<=": ast.CmpLe, ">": ast.CmpGt, ">=": ast.CmpGe,
	"|": ast.BitOr, "^": ast.BitXor, "&": ast.BitAnd,
	"<<": ast.Shl, ">>": ast.Shr,
	"+": ast.Add, "-": ast.Sub, "*": ast.Mul, "/": ast.Div, "%": ast.Rem,
}

var assignOpTable = map[string]ast.AssignOp{
	"=": ast.Assign, "+=": ast.AddAssign, "-=": ast.SubAssign, "*=": ast.MulAssign, "/=": ast.DivAssign,
	"%=": ast.RemAssign, "&=": ast.BitAndAssign, "|=": ast.BitOrAssign, "^=": ast.BitXorAssign,
	"<<=": ast.ShlAssign, ">>=": ast.ShrAssign,
}

func infixLookup(tok token.Token) (InfixOp[ast.Expr], bool) {
	if tok.Kind != token.Operator {
		return InfixOp[ast.Expr]{}, false
	}
	if aop, ok := assignOpTable[tok.Text]; ok {
		return InfixOp[ast.Expr]{Precedence: precAssign, RightAssoc: true, Combine: func(lhs, rhs ast.Expr, _ token.Token) ast.Expr {
			return ast.NewAssignExpr(aop, lhs, rhs, token.Merge(lhs.Span(), rhs.Span()))
		}}, true
	}
	bop, ok := binaryOpTable[tok.Text]
	if !ok {
		return InfixOp[ast.Expr]{}, false
	}
	var prec int
	switch {
	case tok.Text == "||":
		prec = precOr
	case tok.Text == "&&":
		prec = precAnd
	case tok.Text == "|":
		prec = precBitOr
	case tok.Text == "^":
		prec = precBitXor
	case tok.Text == "&":
		prec = precBitAnd
	case tok.Text == "<<" || tok.Text == ">>":
		prec = precShift
	case tok.Text == "+" || tok.Text == "-":
		prec = precAdd
	case tok.Text == "*" || tok.Text == "/" || tok.Text == "%":
		prec = precMul
	default:
		prec = precCmp
	}
	return InfixOp[ast.Expr]{Precedence: prec, RightAssoc: false, Combine: func(lhs, rhs ast.Expr, _ token.Token) ast.Expr {
		return ast.NewBinaryExpr(bop, lhs, rhs, token.Merge(lhs.Span(), rhs.Span()))
	}}, true
}

func callArgsParser() Parser[[]ast.Expr] {
	return Map(AndThen(delim("("), AndThen(SepByTrailing(lazyExpr(), sep(",")), delim(")"))),
		func(pr Pair[token.Token, Pair[[]ast.Expr, token.Token]]) []ast.Expr { return pr.Second.First })
}

func postfixLookup(tok token.Token) (PostfixOp[ast.Expr], bool) {
	switch {
	case tok.Kind == token.Delimiter && tok.Text == "(":
		return PostfixOp[ast.Expr]{Precedence: precPostfix, Parse: func(ctx *Context, lhs ast.Expr, _ token.Token) (ast.Expr, *diag.ParseError) {
			args, err := callArgsParser()(ctx)
			if err != nil {
				return nil, err
			}
			return ast.NewCallExpr(lhs, args, token.Merge(lhs.Span(), ctx.PeekAt(-1).Span)), nil
		}}, true
	case tok.Kind == token.Delimiter && tok.Text == "[":
		return PostfixOp[ast.Expr]{Precedence: precPostfix, Parse: func(ctx *Context, lhs ast.Expr, _ token.Token) (ast.Expr, *diag.ParseError) {
			res, err := Map(AndThen(delim("["), AndThen(lazyExpr(), delim("]"))),
				func(pr Pair[token.Token, Pair[ast.Expr, token.Token]]) ast.Expr {
					return ast.NewIndexExpr(lhs, pr.Second.First, token.Merge(lhs.Span(), pr.Second.Second.Span))
				})(ctx)
			return res, err
		}}, true
	case tok.Kind == token.Operator && tok.Text == ".":
		return PostfixOp[ast.Expr]{Precedence: precPostfix, Parse: func(ctx *Context, lhs ast.Expr, _ token.Token) (ast.Expr, *diag.ParseError) {
			ctx.Advance() // consume '.'
			name, err := ident()(ctx)
			if err != nil {
				return nil, err
			}
			start := ctx.Pos()
			if args, aerr := callArgsParser()(ctx); aerr == nil {
				return ast.NewMethodCallExpr(lhs, name, args, token.Merge(lhs.Span(), ctx.PeekAt(-1).Span)), nil
			} else {
				ctx.Seek(start)
			}
			return ast.NewFieldAccessExpr(lhs, name, token.Merge(lhs.Span(), name.Span())), nil
		}}, true
	case tok.Kind == token.Keyword && tok.Text == "as":
		return PostfixOp[ast.Expr]{Precedence: precCast, Parse: func(ctx *Context, lhs ast.Expr, asTok token.Token) (ast.Expr, *diag.ParseError) {
			ctx.Advance() // consume 'as'
			target, err := typeExprParser()(ctx)
			if err != nil {
				return nil, err
			}
			return ast.NewCastExpr(lhs, target, token.Merge(lhs.Span(), target.Span())), nil
		}}, true
	}
	return PostfixOp[ast.Expr]{}, false
}

// exprPrattBuilder is the single shared Pratt instance for expressions; it
// is built once (see init below) so prefixParser can recurse into it at a
// specific minimum precedence via ParseAt.
var exprPrattBuilder *PrattBuilder[ast.Expr]

func buildExprPrattBuilder() *PrattBuilder[ast.Expr] {
	b := NewPratt(atomParser()).WithInfix(infixLookup).WithPostfix(postfixLookup)
	b.WithPrefix(prefixParser)
	return b
}

func exprParser() Parser[ast.Expr] { return exprPrattBuilder.Parser() }

// ---- statements -------------------------------------------------------------

func letStmtParser() Parser[ast.Stmt] {
	typeAnn := Optional(KeepRight(sep(":"), typeExprParser()))
	initAnn := Optional(KeepRight(op("="), lazyExpr()))
	return Map(
		AndThen(kw("let"), AndThen(patternParser(), AndThen(typeAnn, AndThen(initAnn, sep(";"))))),
		func(pr Pair[token.Token, Pair[ast.Pattern, Pair[Option[ast.TypeExpr], Pair[Option[ast.Expr], token.Token]]]]) ast.Stmt {
			var typ ast.TypeExpr
			if pr.Second.Second.First.Present {
				typ = pr.Second.Second.First.Value
			}
			var init ast.Expr
			if pr.Second.Second.Second.First.Present {
				init = pr.Second.Second.Second.First.Value
			}
			sp := token.Merge(pr.First.Span, pr.Second.Second.Second.Second.Span)
			return ast.NewLetStmt(pr.Second.First, typ, init, sp)
		})
}

func emptyStmtParser() Parser[ast.Stmt] {
	return Map(sep(";"), func(t token.Token) ast.Stmt { return ast.NewEmptyStmt(t.Span) })
}

// isExprWithBlock reports whether e ends in `{ ... }` so a trailing `;`
// after it is optional, per §4.1.2.
func isExprWithBlock(e ast.Expr) bool {
	switch e.(type) {
	case *ast.BlockExpr, *ast.IfExpr, *ast.LoopExpr, *ast.WhileExpr:
		return true
	}
	return false
}

func exprStmtParser() Parser[ast.Stmt] {
	return func(ctx *Context) (ast.Stmt, *diag.ParseError) {
		start := ctx.Pos()
		e, err := exprParser()(ctx)
		if err != nil {
			ctx.Seek(start)
			return nil, err
		}
		if isExprWithBlock(e) {
			semiStart := ctx.Pos()
			if _, serr := sep(";")(ctx); serr == nil {
				return ast.NewExprStmt(e, true, token.Merge(e.Span(), ctx.PeekAt(-1).Span)), nil
			}
			ctx.Seek(semiStart)
			return ast.NewExprStmt(e, false, e.Span()), nil
		}
		semiStart := ctx.Pos()
		_, serr := sep(";")(ctx)
		if serr != nil {
			ctx.Seek(semiStart)
			if next := ctx.Peek(); next.Kind == token.Delimiter && next.Text == "}" {
				return ast.NewExprStmt(e, false, e.Span()), nil
			}
			ctx.Seek(start)
			return nil, serr
		}
		return ast.NewExprStmt(e, true, e.Span()), nil
	}
}

func statementParser() Parser[ast.Stmt] {
	itemStmt := Map(itemParser(), func(it ast.Item) ast.Stmt { return ast.NewItemStmt(it, it.Span()) })
	return Choice(emptyStmtParser(), letStmtParser(), itemStmt, exprStmtParser())
}

// ---- items ------------------------------------------------------------------

func selfParamParser() Parser[*ast.SelfParam] {
	plain := Map(kw("self"), func(t token.Token) *ast.SelfParam { return ast.NewSelfParam(false, false, t.Span) })
	mutSelf := Map(AndThen(kw("mut"), kw("self")), func(pr Pair[token.Token, token.Token]) *ast.SelfParam {
		return ast.NewSelfParam(false, true, token.Merge(pr.First.Span, pr.Second.Span))
	})
	refSelf := Map(AndThen(op("&"), kw("self")), func(pr Pair[token.Token, token.Token]) *ast.SelfParam {
		return ast.NewSelfParam(true, false, token.Merge(pr.First.Span, pr.Second.Span))
	})
	refMutSelf := Map(AndThen(op("&"), AndThen(kw("mut"), kw("self"))), func(pr Pair[token.Token, Pair[token.Token, token.Token]]) *ast.SelfParam {
		return ast.NewSelfParam(true, true, token.Merge(pr.First.Span, pr.Second.Second.Span))
	})
	return Choice(refMutSelf, refSelf, mutSelf, plain)
}

func paramParser() Parser[*ast.Param] {
	return Map(AndThen(patternParser(), AndThen(sep(":"), typeExprParser())),
		func(pr Pair[ast.Pattern, Pair[token.Token, ast.TypeExpr]]) *ast.Param {
			return ast.NewParam(pr.First, pr.Second.Second, token.Merge(pr.First.Span(), pr.Second.Second.Span()))
		})
}

func fnDeclParser() Parser[ast.Item] {
	selfComma := Optional(KeepLeft(selfParamParser(), Optional(sep(","))))
	params := SepByTrailing(paramParser(), sep(","))
	ret := Optional(KeepRight(op("->"), typeExprParser()))
	bodyOrSemi := Choice(
		Map(lazyBlock(), func(b *ast.BlockExpr) *ast.BlockExpr { return b }),
		Map(sep(";"), func(token.Token) *ast.BlockExpr { return nil }),
	)

	return Map(
		AndThen(kw("fn"), AndThen(ident(), AndThen(delim("("), AndThen(selfComma, AndThen(params, AndThen(delim(")"), AndThen(ret, bodyOrSemi))))))),
		func(pr Pair[token.Token, Pair[*ast.Ident, Pair[token.Token, Pair[Option[*ast.SelfParam], Pair[[]*ast.Param, Pair[token.Token, Pair[Option[ast.TypeExpr], *ast.BlockExpr]]]]]]]) ast.Item {
			name := pr.Second.First
			var self *ast.SelfParam
			if pr.Second.Second.Second.First.Present {
				self = pr.Second.Second.Second.First.Value
			}
			paramList := pr.Second.Second.Second.Second.First
			var retType ast.TypeExpr
			if pr.Second.Second.Second.Second.Second.Second.First.Present {
				retType = pr.Second.Second.Second.Second.Second.Second.First.Value
			}
			body := pr.Second.Second.Second.Second.Second.Second.Second
			sp := token.Merge(pr.First.Span, name.Span())
			if body != nil {
				sp = token.Merge(sp, body.Span())
			}
			return ast.NewFnDecl(name, self, paramList, retType, body, sp)
		})
}

func structFieldParser() Parser[*ast.StructField] {
	return Map(AndThen(ident(), AndThen(sep(":"), typeExprParser())),
		func(pr Pair[*ast.Ident, Pair[token.Token, ast.TypeExpr]]) *ast.StructField {
			return ast.NewStructField(pr.First, pr.Second.Second, token.Merge(pr.First.Span(), pr.Second.Second.Span()))
		})
}

func structDeclParser() Parser[ast.Item] {
	semiForm := Map(AndThen(kw("struct"), AndThen(ident(), sep(";"))),
		func(pr Pair[token.Token, Pair[*ast.Ident, token.Token]]) ast.Item {
			return ast.NewStructDecl(pr.Second.First, nil, token.Merge(pr.First.Span, pr.Second.Second.Span))
		})
	bodyForm := Map(
		AndThen(kw("struct"), AndThen(ident(), AndThen(delim("{"), AndThen(SepByTrailing(structFieldParser(), sep(",")), delim("}"))))),
		func(pr Pair[token.Token, Pair[*ast.Ident, Pair[token.Token, Pair[[]*ast.StructField, token.Token]]]]) ast.Item {
			sp := token.Merge(pr.First.Span, pr.Second.Second.Second.Second.Span)
			return ast.NewStructDecl(pr.Second.First, pr.Second.Second.Second.First, sp)
		})
	return OrElse(bodyForm, semiForm)
}

func enumVariantParser() Parser[*ast.EnumVariant] {
	return Map(ident(), func(id *ast.Ident) *ast.EnumVariant { return ast.NewEnumVariant(id, id.Span()) })
}

func enumDeclParser() Parser[ast.Item] {
	return Map(
		AndThen(kw("enum"), AndThen(ident(), AndThen(delim("{"), AndThen(SepByTrailing(enumVariantParser(), sep(",")), delim("}"))))),
		func(pr Pair[token.Token, Pair[*ast.Ident, Pair[token.Token, Pair[[]*ast.EnumVariant, token.Token]]]]) ast.Item {
			sp := token.Merge(pr.First.Span, pr.Second.Second.Second.Second.Span)
			return ast.NewEnumDecl(pr.Second.First, pr.Second.Second.Second.First, sp)
		})
}

func constDeclParser() Parser[ast.Item] {
	return Map(
		AndThen(kw("const"), AndThen(ident(), AndThen(sep(":"), AndThen(typeExprParser(), AndThen(op("="), AndThen(lazyExpr(), sep(";"))))))),
		func(pr Pair[token.Token, Pair[*ast.Ident, Pair[token.Token, Pair[ast.TypeExpr, Pair[token.Token, Pair[ast.Expr, token.Token]]]]]]) ast.Item {
			sp := token.Merge(pr.First.Span, pr.Second.Second.Second.Second.Second.Second.Span)
			return ast.NewConstDecl(pr.Second.First, pr.Second.Second.Second.First, pr.Second.Second.Second.Second.Second.First, sp)
		})
}

func traitItemsParser() Parser[[]ast.Item] {
	var item Parser[ast.Item]
	return Many(func(ctx *Context) (ast.Item, *diag.ParseError) {
		if item == nil {
			item = itemParser()
		}
		return item(ctx)
	})
}

func traitDeclParser() Parser[ast.Item] {
	return Map(
		AndThen(kw("trait"), AndThen(ident(), AndThen(delim("{"), AndThen(traitItemsParser(), delim("}"))))),
		func(pr Pair[token.Token, Pair[*ast.Ident, Pair[token.Token, Pair[[]ast.Item, token.Token]]]]) ast.Item {
			sp := token.Merge(pr.First.Span, pr.Second.Second.Second.Second.Span)
			return ast.NewTraitDecl(pr.Second.First, pr.Second.Second.Second.First, sp)
		})
}

func implDeclParser() Parser[ast.Item] {
	traitImpl := Map(
		AndThen(kw("impl"), AndThen(pathParser(), AndThen(kw("for"), AndThen(typeExprParser(), AndThen(delim("{"), AndThen(traitItemsParser(), delim("}"))))))),
		func(pr Pair[token.Token, Pair[*ast.Path, Pair[token.Token, Pair[ast.TypeExpr, Pair[token.Token, Pair[[]ast.Item, token.Token]]]]]]) ast.Item {
			sp := token.Merge(pr.First.Span, pr.Second.Second.Second.Second.Second.Second.Span)
			return ast.NewTraitImplDecl(pr.Second.First, pr.Second.Second.Second.First, pr.Second.Second.Second.Second.Second.First, sp)
		})
	inherentImpl := Map(
		AndThen(kw("impl"), AndThen(typeExprParser(), AndThen(delim("{"), AndThen(traitItemsParser(), delim("}"))))),
		func(pr Pair[token.Token, Pair[ast.TypeExpr, Pair[token.Token, Pair[[]ast.Item, token.Token]]]]) ast.Item {
			sp := token.Merge(pr.First.Span, pr.Second.Second.Second.Second.Span)
			return ast.NewInherentImplDecl(pr.Second.First, pr.Second.Second.Second.First, sp)
		})
	return OrElse(traitImpl, inherentImpl)
}

func typeAliasDeclParser() Parser[ast.Item] {
	return Map(
		AndThen(kw("type"), AndThen(ident(), AndThen(op("="), AndThen(typeExprParser(), sep(";"))))),
		func(pr Pair[token.Token, Pair[*ast.Ident, Pair[token.Token, Pair[ast.TypeExpr, token.Token]]]]) ast.Item {
			sp := token.Merge(pr.First.Span, pr.Second.Second.Second.Second.Span)
			return ast.NewTypeAliasDecl(pr.Second.First, pr.Second.Second.Second.First, sp)
		})
}

func itemParser() Parser[ast.Item] {
	return Choice(
		fnDeclParser(),
		structDeclParser(),
		enumDeclParser(),
		constDeclParser(),
		traitDeclParser(),
		implDeclParser(),
		typeAliasDeclParser(),
	)
}

func fileParser() Parser[*ast.File] {
	return Map(Many(itemParser()), func(items []ast.Item) *ast.File {
		sp := token.Invalid
		for _, it := range items {
			sp = token.Merge(sp, it.Span())
		}
		return ast.NewFile(items, sp)
	})
}

func init() {
	exprPrattBuilder = buildExprPrattBuilder()
	setExprCell(Label(exprParser(), "expression"))
	setBlockCell(Label(blockExprParser(), "block"))
}
