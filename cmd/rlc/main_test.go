package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rustlite/rlc/internal/hir"
	"github.com/rustlite/rlc/internal/lexer"
	"github.com/rustlite/rlc/internal/parser"
	"github.com/rustlite/rlc/internal/sema"
	"github.com/rustlite/rlc/internal/source"
)

// captureStderr redirects os.Stderr for the duration of fn and returns what
// was written to it. reportStageError writes straight to os.Stderr, so this
// is the simplest way to assert on its output without spawning a subprocess.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	fn()
	w.Close()
	os.Stderr = orig
	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}

func TestReportStageError_ShowsACaretSnippetForASpannedDiagnostic(t *testing.T) {
	src := "fn main() {\n    let x: i32 = true;\n}\n"
	toks, err := lexer.Lex(0, src)
	require.NoError(t, err)
	file, perr := parser.Parse(toks)
	require.Nil(t, perr)
	prog, herr := hir.Build(file)
	require.NoError(t, herr)
	checkErr := sema.Check(prog)
	require.Error(t, checkErr)

	fs := source.NewFileSet()
	fs.AddFile("test.rl", src)

	out := captureStderr(t, func() { reportStageError(fs, checkErr) })
	require.Contains(t, out, "-->")
	require.Contains(t, out, "|")
}

func TestReportStageError_FallsBackToBareMessageWithoutADiagnosable(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddFile("test.rl", "")

	out := captureStderr(t, func() { reportStageError(fs, errPlain{"boom"}) })
	require.Contains(t, out, "boom")
}

type errPlain struct{ msg string }

func (e errPlain) Error() string { return e.msg }
