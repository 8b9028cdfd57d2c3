package mir2llvm_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rustlite/rlc/internal/codegen/llvm"
	"github.com/rustlite/rlc/internal/hir"
	"github.com/rustlite/rlc/internal/lexer"
	"github.com/rustlite/rlc/internal/mir"
	"github.com/rustlite/rlc/internal/parser"
	"github.com/rustlite/rlc/internal/sema"
)

func generateSource(t *testing.T, src string) string {
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
	out, gerr := mir2llvm.NewGenerator().Generate(mod)
	require.NoError(t, gerr)
	return out
}

// TestGenerate_ModuleHeaderNamesTheSourceFile exercises the module
// preamble (§3.6): ModuleID/source_filename track the compiled file, not a
// hardcoded project name.
func TestGenerate_ModuleHeaderNamesTheSourceFile(t *testing.T) {
	out := generateSource(t, `
fn exit(code: i32);

fn main() {
    exit(0i32);
}
`)
	require.Contains(t, out, `ModuleID = 'test.rl'`)
	require.Contains(t, out, `source_filename = "test.rl"`)
	require.Contains(t, out, "%__rc_unit = type {}")
}

// TestGenerate_ExternDeclarationHasNoBody confirms a body-less function
// lowers to a bare `declare`.
func TestGenerate_ExternDeclarationHasNoBody(t *testing.T) {
	out := generateSource(t, `
fn exit(code: i32);

fn main() {
    exit(0i32);
}
`)
	require.Contains(t, out, "declare void @exit(i32")
	require.Contains(t, out, "define void @main()")
}

// TestGenerate_MinimalLiteralFunctionReturnsDirectly exercises a function
// whose body is one literal: a single-block define+ret, no branching.
func TestGenerate_MinimalLiteralFunctionReturnsDirectly(t *testing.T) {
	out := generateSource(t, `
fn exit(code: i32);

fn answer() -> i32 {
    42i32
}

fn main() {
    let _ = answer();
    exit(0i32);
}
`)
	require.Contains(t, out, "define i32 @answer()")
	require.Contains(t, out, "entry:")
	require.Contains(t, out, "ret i32")
}

// TestGenerate_StructReturnUsesSRetPointerArgument exercises §4.4.1's ABI
// shaping end to end: a struct-returning function takes a leading sret
// pointer parameter and returns void.
func TestGenerate_StructReturnUsesSRetPointerArgument(t *testing.T) {
	out := generateSource(t, `
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
`)
	require.Contains(t, out, "%struct.Point = type { i32, i32 }")
	require.Contains(t, out, "define void @origin(%struct.Point* sret(%struct.Point) %arg.0)")
	require.Contains(t, out, "ret void")
	originBody := out[strings.Index(out, "define void @origin"):]
	originBody = originBody[:strings.Index(originBody, "\n}")]
	require.NotContains(t, originBody, "alloca %struct.Point")
}

// TestGenerate_StringLiteralDecaysToBytePointer exercises the str
// type-vs-storage resolution: the global is an [N x i8] array, and every
// read of it produces an i8* via getelementptr, never a single byte.
func TestGenerate_StringLiteralDecaysToBytePointer(t *testing.T) {
	out := generateSource(t, `
fn exit(code: i32);
fn puts(s: str);

fn main() {
    let greeting = "hi";
    puts(greeting);
    exit(0i32);
}
`)
	require.Contains(t, out, `@.str.0 = private unnamed_addr constant [2 x i8] c"hi", align 1`)
	require.Contains(t, out, "alloca i8*")
	require.Contains(t, out, "getelementptr inbounds [2 x i8], [2 x i8]* @.str.0, i32 0, i32 0")
	require.Contains(t, out, "declare void @puts(i8*")
}

// TestGenerate_CStringLiteralGetsNulTerminator confirms a c"..." literal's
// global array is one byte longer than its content.
func TestGenerate_CStringLiteralGetsNulTerminator(t *testing.T) {
	out := generateSource(t, `
fn exit(code: i32);
fn puts(s: str);

fn main() {
    puts(c"hi");
    exit(0i32);
}
`)
	require.Contains(t, out, `[3 x i8] c"hi\00"`)
}

// TestGenerate_ShortCircuitAndLowersToBranchAndPhi exercises the control
// flow shape for `&&`: a conditional branch into a join block carrying a
// phi, not a boolean `and` instruction.
func TestGenerate_ShortCircuitAndLowersToBranchAndPhi(t *testing.T) {
	out := generateSource(t, `
fn exit(code: i32);
fn side(x: bool) -> bool;

fn both(a: bool, b: bool) -> bool {
    a && side(b)
}

fn main() {
    exit(0i32);
}
`)
	require.Contains(t, out, "br i1")
	require.Contains(t, out, "phi i1")
}

// TestGenerate_IntCastsClassifyByBitWidth exercises §4.5.2's three-way
// cast classification: growing from bool/char to the i32 family zext/
// sext's, shrinking truncs, and same-width casts are an identity add.
func TestGenerate_IntCastsClassifyByBitWidth(t *testing.T) {
	out := generateSource(t, `
fn exit(code: i32);

fn widen(flag: bool) -> i32 {
    flag as i32
}

fn narrow(n: i32) -> char {
    n as char
}

fn same(n: i32) -> usize {
    n as usize
}

fn main() {
    exit(0i32);
}
`)
	require.Contains(t, out, "zext i1")
	require.Contains(t, out, "trunc i32")
	require.True(t, strings.Contains(out, "add i32 0,"))
}

// TestGenerate_AggregateCopyUsesMemcpy exercises the InitCopy split: a
// struct-to-struct copy goes through llvm.memcpy, sized via the
// getelementptr-to-null-pointer trick, not a field-by-field store.
func TestGenerate_AggregateCopyUsesMemcpy(t *testing.T) {
	out := generateSource(t, `
fn exit(code: i32);

struct Point {
    x: i32,
    y: i32,
}

fn main() {
    let a = Point { x: 1i32, y: 2i32 };
    let b = a;
    exit(0i32);
}
`)
	require.Contains(t, out, "declare void @llvm.memcpy.p0i8.p0i8.i64(i8*, i8*, i64, i1)")
	require.Contains(t, out, "call void @llvm.memcpy.p0i8.p0i8.i64")
	require.Contains(t, out, "getelementptr inbounds %struct.Point, %struct.Point* null, i32 1")
}

// TestGenerate_DiscardedSRetCallStillAllocatesStorage exercises the
// "_"-locals decision: a discarded struct-returning call still needs a
// real address to pass as its sret argument.
func TestGenerate_DiscardedSRetCallStillAllocatesStorage(t *testing.T) {
	out := generateSource(t, `
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
`)
	require.Contains(t, out, "alloca %struct.Point")
	require.Contains(t, out, "call void @origin(%struct.Point*")
}

// TestGenerate_EveryFunctionEndsInATerminatorInstruction is a smoke test
// across a program mixing if/loop/while/break/continue: every block must
// emit exactly one terminator line, matching the MIR-level invariant.
func TestGenerate_EveryFunctionEndsInATerminatorInstruction(t *testing.T) {
	out := generateSource(t, `
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
`)
	require.Contains(t, out, "define i32 @count(i32 %arg.0)")
	require.True(t, strings.Count(out, "br ") > 0)
	require.Contains(t, out, "ret i32")
	inBlock, terminators := false, 0
	for _, line := range strings.Split(out, "\n") {
		switch {
		case line == "}" || (strings.HasSuffix(line, ":") && !strings.HasPrefix(line, " ")):
			if inBlock {
				require.Equal(t, 1, terminators, "block ending before %q", line)
			}
			inBlock, terminators = line != "}", 0
		case strings.HasPrefix(line, "  br ") || strings.HasPrefix(line, "  ret ") || strings.HasPrefix(line, "  switch ") || line == "  unreachable":
			terminators++
		}
	}
}
