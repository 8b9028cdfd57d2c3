// Command rlc is the compiler driver (§6): read a source file, run it
// through lex -> parse -> resolve/check -> lower -> emit, and print
// whichever stage's output -emit selects. Native code generation, linking,
// and running the result are explicitly out of scope — this binary ends at
// printing LLVM IR text.
package main

import (
	"flag"
	"fmt"
	"os"

	mir2llvm "github.com/rustlite/rlc/internal/codegen/llvm"
	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/hir"
	"github.com/rustlite/rlc/internal/lexer"
	"github.com/rustlite/rlc/internal/mir"
	"github.com/rustlite/rlc/internal/parser"
	"github.com/rustlite/rlc/internal/sema"
	"github.com/rustlite/rlc/internal/source"
)

func main() {
	emit := flag.String("emit", "ast", "pipeline stage to print: ast, hir, mir, or llvm")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rlc [-emit ast|hir|mir|llvm] <path-to-source-file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	switch *emit {
	case "ast", "hir", "mir", "llvm":
	default:
		fmt.Fprintf(os.Stderr, "error: unrecognized -emit stage %q\n", *emit)
		os.Exit(1)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	text, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := source.NewFileSet()
	fileID := fs.AddFile(path, string(text))

	toks, lexErr := lexer.Lex(fileID, string(text))
	if lexErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", lexErr)
		os.Exit(1)
	}

	file, perr := parser.Parse(toks)
	if perr != nil {
		fmt.Fprintln(os.Stderr, "--> Parsing failed")
		if snippet := fs.Caret(perr.Span); snippet != "" {
			fmt.Fprintln(os.Stderr, snippet)
		}
		fmt.Fprintf(os.Stderr, "%s\n", perr.Error())
		os.Exit(1)
	}

	if *emit == "ast" {
		fmt.Print(file.PrettyPrint())
		return
	}

	prog, herr := hir.Build(file)
	if herr != nil {
		reportStageError(fs, herr)
		os.Exit(1)
	}
	if err := sema.Check(prog); err != nil {
		reportStageError(fs, err)
		os.Exit(1)
	}

	if *emit == "hir" {
		fmt.Print(prog.PrettyPrint())
		return
	}

	mod, lerr := mir.Lower(prog, path)
	if lerr != nil {
		reportStageError(fs, lerr)
		os.Exit(1)
	}

	if *emit == "mir" {
		fmt.Print(mod.PrettyPrint())
		return
	}

	out, gerr := mir2llvm.NewGenerator().Generate(mod)
	if gerr != nil {
		reportStageError(fs, gerr)
		os.Exit(1)
	}
	fmt.Print(out)
}

// reportStageError renders a resolve/type/exit-check/lowering/codegen
// failure (§7): a caret snippet when the underlying diagnostic carries a
// valid span, the bare message otherwise (an InternalError has no source
// span — it names a compiler bug, not a location in the input program).
func reportStageError(fs *source.FileSet, err error) {
	type diagnosable interface{ ToDiagnostic() diag.Diagnostic }
	d, ok := err.(diagnosable)
	if !ok {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	dg := d.ToDiagnostic()
	fmt.Fprintf(os.Stderr, "--> %s error\n", dg.Stage)
	if dg.Span.IsValid() {
		if snippet := fs.Caret(dg.Span); snippet != "" {
			fmt.Fprintln(os.Stderr, snippet)
		}
	}
	fmt.Fprintf(os.Stderr, "%s\n", dg.Message)
}
