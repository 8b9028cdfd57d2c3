package ast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rustlite/rlc/internal/lexer"
	"github.com/rustlite/rlc/internal/parser"
)

func TestPrettyPrint_RoundTripsAllItemAndStmtKinds(t *testing.T) {
	src := `
struct Point { x: i32, y: i32 }
enum Color { Red, Green, Blue }
const LIMIT: i32 = 10i32;
trait Show { fn show(self); }
impl Point { fn new() -> Point; }
impl Show for Point { fn show(self); }
type Coord = i32;

fn main() {
    let mut total = 0i32;
    let _ = total;
    ;
    if total < LIMIT {
        total += 1i32;
    } else {
        total -= 1i32;
    }
    loop {
        break;
    }
    while total < LIMIT {
        continue;
    }
    total
}
`
	toks, err := lexer.Lex(0, src)
	require.NoError(t, err)
	file, perr := parser.Parse(toks)
	require.Nil(t, perr)

	out := file.PrettyPrint()
	require.NotContains(t, out, "<unknown")
	require.Contains(t, out, "fn main(")
	require.Contains(t, out, "let mut total")
}

func TestPrettyPrint_ItemStatementIsIndentedOnceNotTwice(t *testing.T) {
	toks, err := lexer.Lex(0, "fn outer() { struct Inner { x: i32 } }")
	require.NoError(t, err)
	file, perr := parser.Parse(toks)
	require.Nil(t, perr)

	out := file.PrettyPrint()
	require.NotContains(t, out, "    struct Inner", "nested item statement should not be double-indented")
	require.Contains(t, out, "  struct Inner")
}
