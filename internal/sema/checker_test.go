package sema

import (
	"testing"

	"github.com/rustlite/rlc/internal/hir"
	"github.com/rustlite/rlc/internal/lexer"
	"github.com/rustlite/rlc/internal/parser"
)

func buildProgram(t *testing.T, src string) *hir.Program {
	t.Helper()
	toks, err := lexer.Lex(0, src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	file, perr := parser.Parse(toks)
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	prog, herr := hir.Build(file)
	if herr != nil {
		t.Fatalf("hir build error: %v", herr)
	}
	return prog
}

func TestCheck_ExitAtEndOfMainPasses(t *testing.T) {
	src := `
fn exit(code: i32);

fn main() {
    exit(0i32);
}
`
	prog := buildProgram(t, src)
	if err := Check(prog); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestCheck_MissingExitFails(t *testing.T) {
	src := `
fn exit(code: i32);

fn main() {
    let x = 1;
}
`
	prog := buildProgram(t, src)
	if err := Check(prog); err == nil {
		t.Fatalf("expected exit-check error, got none")
	}
}

func TestCheck_ExitOutsideMainFails(t *testing.T) {
	src := `
fn exit(code: i32);

fn helper() {
    exit(1i32);
}

fn main() {
    helper();
    exit(0i32);
}
`
	prog := buildProgram(t, src)
	if err := Check(prog); err == nil {
		t.Fatalf("expected error for exit() call outside main")
	}
}

func TestCheck_LiteralDefaultsToSiblingOperand(t *testing.T) {
	src := `
fn exit(code: i32);

fn add(a: u32) -> u32 {
    a + 1
}

fn main() {
    let _ = add(2u32);
    exit(0i32);
}
`
	prog := buildProgram(t, src)
	if err := Check(prog); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestCheck_MismatchedBinaryOperandsFail(t *testing.T) {
	src := `
fn exit(code: i32);

fn main() {
    let a: u32 = 1u32;
    let b: i32 = 2i32;
    let _ = a + b;
    exit(0i32);
}
`
	prog := buildProgram(t, src)
	if err := Check(prog); err == nil {
		t.Fatalf("expected a type error for mismatched operand types")
	}
}

func TestCheck_AssignToImmutableFails(t *testing.T) {
	src := `
fn exit(code: i32);

fn main() {
    let x = 1i32;
    x = 2i32;
    exit(0i32);
}
`
	prog := buildProgram(t, src)
	if err := Check(prog); err == nil {
		t.Fatalf("expected an error assigning to an immutable local")
	}
}

func TestCheck_AssignToMutablePasses(t *testing.T) {
	src := `
fn exit(code: i32);

fn main() {
    let mut x = 1i32;
    x = 2i32;
    exit(0i32);
}
`
	prog := buildProgram(t, src)
	if err := Check(prog); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestCheck_LoopBreakValueUnifiesType(t *testing.T) {
	src := `
fn exit(code: i32);

fn main() {
    let x = loop {
        break 5i32;
    };
    let _ = x;
    exit(0i32);
}
`
	prog := buildProgram(t, src)
	if err := Check(prog); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestCheck_BreakOutsideLoopRejectedByHIRBuilder(t *testing.T) {
	// break/continue outside any loop is rejected during HIR construction
	// (name/control resolution), before the semantic checker ever runs.
	src := `
fn main() {
    if true {
        break;
    }
    exit(0i32);
}
`
	toks, err := lexer.Lex(0, src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	file, perr := parser.Parse(toks)
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	if _, herr := hir.Build(file); herr == nil {
		t.Fatalf("expected hir build error for break outside a loop")
	}
}

func TestCheck_IfBranchTypeMismatchFails(t *testing.T) {
	src := `
fn exit(code: i32);

fn main() {
    let _ = if true { 1i32 } else { 2u32 };
    exit(0i32);
}
`
	prog := buildProgram(t, src)
	if err := Check(prog); err == nil {
		t.Fatalf("expected a type error for mismatched if branches")
	}
}
