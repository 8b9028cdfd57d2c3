package hir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rustlite/rlc/internal/hir"
	"github.com/rustlite/rlc/internal/lexer"
	"github.com/rustlite/rlc/internal/parser"
	"github.com/rustlite/rlc/internal/sema"
)

func buildProgram(t *testing.T, src string) *hir.Program {
	t.Helper()
	toks, err := lexer.Lex(0, src)
	require.NoError(t, err)
	file, perr := parser.Parse(toks)
	require.Nil(t, perr)
	prog, herr := hir.Build(file)
	require.NoError(t, herr)
	require.NoError(t, sema.Check(prog))
	return prog
}

func TestPrettyPrint_QualifiesResolvedNamesWithTheirIds(t *testing.T) {
	prog := buildProgram(t, `
fn exit(code: i32);

struct Point { x: i32, y: i32 }
enum Color { Red, Green }
const LIMIT: i32 = 10i32;

fn helper(n: i32) -> i32 {
    n
}

fn main() {
    let total = helper(LIMIT);
    let mut i = 0i32;
    while i < total {
        if i == 3i32 {
            i += 1i32;
            continue;
        }
        i += 1i32;
    }
    let p = Point { x: 1i32, y: 2i32 };
    let c = Color::Red;
    let _ = p.x;
    let _ = c;
    exit(0i32);
}
`)
	out := prog.PrettyPrint()
	require.NotContains(t, out, "<unknown")
	require.Contains(t, out, "struct Point")
	require.Contains(t, out, "enum Color")
	require.Contains(t, out, "const LIMIT#")
	require.Contains(t, out, "fn helper#")
	require.Contains(t, out, "fn main#")
	require.Contains(t, out, "helper#")
	require.Contains(t, out, "while#")
}

func TestPrettyPrint_MethodCallsQualifyWithTheResolvedMethodId(t *testing.T) {
	prog := buildProgram(t, `
fn exit(code: i32);

struct Counter { n: i32 }

impl Counter {
    fn get(self) -> i32 {
        self.n
    }
}

fn main() {
    let c = Counter { n: 1i32 };
    let _ = c.get();
    exit(0i32);
}
`)
	out := prog.PrettyPrint()
	require.Contains(t, out, "get#")
}
