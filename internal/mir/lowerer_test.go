package mir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rustlite/rlc/internal/hir"
	"github.com/rustlite/rlc/internal/lexer"
	"github.com/rustlite/rlc/internal/mir"
	"github.com/rustlite/rlc/internal/parser"
	"github.com/rustlite/rlc/internal/sema"
)

func lowerSource(t *testing.T, src string) *mir.Module {
	t.Helper()
	toks, err := lexer.Lex(0, src)
	require.NoError(t, err)
	file, perr := parser.Parse(toks)
	require.Nil(t, perr)
	prog, herr := hir.Build(file)
	require.NoError(t, herr)
	require.NoError(t, sema.Check(prog))
	mod, lerr := mir.Lower(prog, "test.rl")
	require.NoError(t, lerr)
	return mod
}

func findFunc(t *testing.T, mod *mir.Module, name string) *mir.Function {
	t.Helper()
	for _, fn := range mod.Functions {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("no lowered function named %q", name)
	return nil
}

// TestLower_MinimalLiteralFunction exercises boundary scenario 1: a
// function whose whole body is one literal lowers to a single block ending
// in a direct Return, no intermediate control flow at all.
func TestLower_MinimalLiteralFunction(t *testing.T) {
	src := `
fn exit(code: i32);

fn answer() -> i32 {
    42i32
}

fn main() {
    let _ = answer();
    exit(0i32);
}
`
	mod := lowerSource(t, src)
	fn := findFunc(t, mod, "answer")
	require.Len(t, fn.Blocks, 1)
	ret, ok := fn.Blocks[0].Terminator.(*mir.Return)
	require.True(t, ok, "expected a Return terminator, got %T", fn.Blocks[0].Terminator)
	require.NotNil(t, ret.Value)
}

// TestLower_ShortCircuitAnd exercises boundary scenario 2: `&&` lowers to
// an entry/rhs/join CFG shape with a phi merging the short-circuit path.
func TestLower_ShortCircuitAnd(t *testing.T) {
	src := `
fn exit(code: i32);
fn side(x: bool) -> bool;

fn both(a: bool, b: bool) -> bool {
    a && side(b)
}

fn main() {
    exit(0i32);
}
`
	mod := lowerSource(t, src)
	fn := findFunc(t, mod, "both")

	entry := fn.Blocks[0]
	sw, ok := entry.Terminator.(*mir.SwitchInt)
	require.True(t, ok, "expected entry block to end in a SwitchInt, got %T", entry.Terminator)
	require.Len(t, sw.Cases, 1)

	var joinBlock *mir.BasicBlock
	for _, b := range fn.Blocks {
		if len(b.Phis) > 0 {
			joinBlock = b
		}
	}
	require.NotNil(t, joinBlock, "expected a join block carrying a phi")
	require.Len(t, joinBlock.Phis, 1)
	require.Len(t, joinBlock.Phis[0].Incoming, 2)

	seen := map[mir.BlockId]bool{}
	for _, in := range joinBlock.Phis[0].Incoming {
		seen[in.Block] = true
	}
	require.True(t, seen[entry.ID], "phi should have an incoming from the entry (short-circuit) block")
}

// TestLower_StructReturnUsesSRet exercises §4.4.1's ABI shaping: a
// struct-valued return goes through a synthetic SRET parameter.
func TestLower_StructReturnUsesSRet(t *testing.T) {
	src := `
fn exit(code: i32);

struct Point {
    x: i32,
    y: i32,
}

fn origin() -> Point {
    Point { x: 0i32, y: 0i32 }
}

fn main() {
    let _ = origin();
    exit(0i32);
}
`
	mod := lowerSource(t, src)
	fn := findFunc(t, mod, "origin")
	require.True(t, fn.Storage.UsesSRet)
	require.Equal(t, mir.RetIndirectSRet, fn.Return.Kind)
	require.Equal(t, ABISRetFirst(fn), true)
}

// ABISRetFirst checks the synthesized SRET slot occupies ABI position 0,
// per §4.4.1 ("indirect param prepended at position 0").
func ABISRetFirst(fn *mir.Function) bool {
	return len(fn.ABIParams) > 0 && fn.ABIParams[0].Kind == mir.ABISRet
}

// TestLower_NRVOAppliesToSoleNamedReturnLocal exercises the documented NRVO
// approximation: a function whose body is exactly `let out = ...; out`
// reuses that local as the return slot instead of synthesizing one.
func TestLower_NRVOAppliesToSoleNamedReturnLocal(t *testing.T) {
	src := `
fn exit(code: i32);

struct Point {
    x: i32,
    y: i32,
}

fn make(a: i32, b: i32) -> Point {
    let out = Point { x: a, y: b };
    out
}

fn main() {
    let _ = make(1i32, 2i32);
    exit(0i32);
}
`
	mod := lowerSource(t, src)
	fn := findFunc(t, mod, "make")
	require.True(t, fn.Storage.UsesSRet)
	require.Equal(t, "out", fn.Locals[fn.Storage.ReturnLocal].Name)
}

// TestLower_EveryBlockHasExactlyOneTerminator is a structural invariant
// check (§3.5) run across every lowered function in a small program mixing
// if/loop/while/break/continue.
func TestLower_EveryBlockHasExactlyOneTerminator(t *testing.T) {
	src := `
fn exit(code: i32);

fn count(limit: i32) -> i32 {
    let mut i = 0i32;
    let mut total = 0i32;
    while i < limit {
        if i == 3i32 {
            i += 1i32;
            continue;
        }
        total += i;
        i += 1i32;
    }
    let result = loop {
        if total > 100i32 {
            break total;
        }
        total += 1i32;
    };
    result
}

fn main() {
    let _ = count(10i32);
    exit(0i32);
}
`
	mod := lowerSource(t, src)
	fn := findFunc(t, mod, "count")
	for _, b := range fn.Blocks {
		require.NotNil(t, b.Terminator, "block %d (%s) has no terminator", b.ID, b.Hint)
	}
}

// TestLower_DiscardAssignEvaluatesRhsOnly exercises the `_ = rhs` path:
// only the rhs's side effects are lowered, with no place materialized for
// the discard target.
func TestLower_DiscardAssignEvaluatesRhsOnly(t *testing.T) {
	src := `
fn exit(code: i32);
fn side(x: i32) -> i32;

fn main() {
    _ = side(1i32);
    exit(0i32);
}
`
	mod := lowerSource(t, src)
	fn := findFunc(t, mod, "main")
	foundCall := false
	for _, b := range fn.Blocks {
		for _, s := range b.Stmts {
			if _, ok := s.(*mir.Call); ok {
				foundCall = true
			}
		}
	}
	require.True(t, foundCall, "expected the discarded call to still be lowered for its side effect")
}

// TestLower_ExternFunctionHasNoBlocks confirms a body-less declaration
// lowers to an external with an empty CFG.
func TestLower_ExternFunctionHasNoBlocks(t *testing.T) {
	src := `
fn exit(code: i32);

fn main() {
    exit(0i32);
}
`
	mod := lowerSource(t, src)
	require.Len(t, mod.Externs, 1)
	require.Equal(t, "exit", mod.Externs[0].Name)
	require.Empty(t, mod.Externs[0].Blocks)
}
