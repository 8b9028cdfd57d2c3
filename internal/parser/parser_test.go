package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rustlite/rlc/internal/ast"
	"github.com/rustlite/rlc/internal/lexer"
	"github.com/rustlite/rlc/internal/parser"
)

func parseSource(t *testing.T, src string) *ast.File {
	t.Helper()
	toks, err := lexer.Lex(0, src)
	require.NoError(t, err)
	file, perr := parser.Parse(toks)
	require.Nil(t, perr, "unexpected parse error: %v", perr)
	return file
}

func TestParse_EmptyFileYieldsNoItems(t *testing.T) {
	file := parseSource(t, "")
	require.Empty(t, file.Items)
}

func TestParse_FnDeclWithoutBodyIsAnExternDeclaration(t *testing.T) {
	file := parseSource(t, "fn exit(code: i32);")
	require.Len(t, file.Items, 1)
	fn := file.Items[0].(*ast.FnDecl)
	require.Equal(t, "exit", fn.Name.Name)
	require.Nil(t, fn.Body)
}

func TestParse_PrattPrecedenceBindsMulTighterThanAdd(t *testing.T) {
	file := parseSource(t, "fn f() { 1i32 + 2i32 * 3i32; }")
	fn := file.Items[0].(*ast.FnDecl)
	stmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	bin := stmt.Expr.(*ast.BinaryExpr)
	require.Equal(t, ast.Add, bin.Op)
	rhs := bin.Right.(*ast.BinaryExpr)
	require.Equal(t, ast.Mul, rhs.Op)
}

func TestParse_UnaryBindsTighterThanBinaryButLooserThanCast(t *testing.T) {
	file := parseSource(t, "fn f() { -x as i32; }")
	fn := file.Items[0].(*ast.FnDecl)
	stmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	unary := stmt.Expr.(*ast.UnaryExpr)
	require.Equal(t, ast.Neg, unary.Op)
	_, isCast := unary.Operand.(*ast.CastExpr)
	require.True(t, isCast, "expected -x as i32 to parse as -(x as i32), got %T", unary.Operand)
}

func TestParse_MethodCallAndFieldAccessAreDistinguishedByTrailingParens(t *testing.T) {
	file := parseSource(t, "fn f() { a.b; a.c(); }")
	fn := file.Items[0].(*ast.FnDecl)
	field := fn.Body.Stmts[0].(*ast.ExprStmt).Expr.(*ast.FieldAccessExpr)
	require.Equal(t, "b", field.Field.Name)
	call := fn.Body.Stmts[1].(*ast.ExprStmt).Expr.(*ast.MethodCallExpr)
	require.Equal(t, "c", call.Method.Name)
}

func TestParse_IfConditionDisallowsBareStructLiteral(t *testing.T) {
	file := parseSource(t, "fn f() { if a { 1i32 } else { 2i32 }; }")
	fn := file.Items[0].(*ast.FnDecl)
	ifExpr := fn.Body.Stmts[0].(*ast.ExprStmt).Expr.(*ast.IfExpr)
	_, isPath := ifExpr.Cond.(*ast.PathExpr)
	require.True(t, isPath)
}

func TestParse_BlockTailExpressionHasNoTrailingSemicolon(t *testing.T) {
	file := parseSource(t, "fn f() -> i32 { 1i32 + 2i32 }")
	fn := file.Items[0].(*ast.FnDecl)
	require.NotNil(t, fn.Body.Tail)
	require.Empty(t, fn.Body.Stmts)
}

func TestParse_StructLiteralAndDeclRoundTrip(t *testing.T) {
	file := parseSource(t, `
struct Point { x: i32, y: i32 }
fn origin() -> Point { Point { x: 0i32, y: 0i32 } }
`)
	sd := file.Items[0].(*ast.StructDecl)
	require.Len(t, sd.Fields, 2)
	fn := file.Items[1].(*ast.FnDecl)
	lit := fn.Body.Tail.(*ast.StructLiteralExpr)
	require.Equal(t, "Point", lit.Path.String())
	require.Len(t, lit.Fields, 2)
}

func TestParse_ImplBlockDistinguishesInherentFromTrait(t *testing.T) {
	file := parseSource(t, `
impl Point { fn new() -> Point; }
impl Show for Point { fn show(self); }
`)
	_, isInherent := file.Items[0].(*ast.InherentImplDecl)
	require.True(t, isInherent)
	traitImpl, isTrait := file.Items[1].(*ast.TraitImplDecl)
	require.True(t, isTrait)
	require.Equal(t, "Show", traitImpl.Trait.String())
}

func TestParse_InvalidTokenAtTopLevelProducesAParseError(t *testing.T) {
	toks, err := lexer.Lex(0, "fn (")
	require.NoError(t, err)
	_, perr := parser.Parse(toks)
	require.NotNil(t, perr)
}

func TestParse_TrailingTokensAfterAWellFormedFileAreAnError(t *testing.T) {
	toks, err := lexer.Lex(0, "fn f() {} )")
	require.NoError(t, err)
	_, perr := parser.Parse(toks)
	require.NotNil(t, perr)
}

func TestParse_PrettyPrintRendersEveryItemKindWithoutPanicking(t *testing.T) {
	file := parseSource(t, `
struct Point { x: i32, y: i32 }
enum Color { Red, Green, Blue }
const LIMIT: i32 = 10i32;
trait Show { fn show(self); }
impl Point { fn new() -> Point; }
impl Show for Point { fn show(self); }
type Coord = i32;
fn main() {
    let mut total = 0i32;
    while total < LIMIT {
        total += 1i32;
    }
}
`)
	out := file.PrettyPrint()
	require.Contains(t, out, "struct Point")
	require.Contains(t, out, "enum Color")
	require.Contains(t, out, "const LIMIT")
	require.Contains(t, out, "trait Show")
	require.Contains(t, out, "impl Point")
	require.Contains(t, out, "impl Show for Point")
	require.Contains(t, out, "type Coord")
	require.Contains(t, out, "fn main")
}
