// Package source is the (file, byte-offset) -> line:column mapping the core
// pipeline treats as an external collaborator. It also renders the
// caret-annotated source snippet the CLI prints on parse failure.
package source

import (
	"strings"

	"github.com/rustlite/rlc/internal/token"
)

// File records one source file's text together with the byte offsets of
// its line starts, enabling fast offset -> line:column lookups.
type File struct {
	Name        string
	Text        string
	lineOffsets []int
}

// FileSet owns every source file opened during a compilation, addressed by
// the small integer id stamped into every Span.
type FileSet struct {
	files []*File
}

// NewFileSet returns an empty file set.
func NewFileSet() *FileSet {
	return &FileSet{}
}

// AddFile registers a new source file and returns its id.
func (fs *FileSet) AddFile(name, text string) int {
	offsets := []int{0}
	for i, r := range text {
		if r == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	fs.files = append(fs.files, &File{Name: name, Text: text, lineOffsets: offsets})
	return len(fs.files) - 1
}

// File returns the file registered under id, or nil if id is out of range.
func (fs *FileSet) File(id int) *File {
	if id < 0 || id >= len(fs.files) {
		return nil
	}
	return fs.files[id]
}

// Position is a resolved 1-based line/column pair.
type Position struct {
	Line, Column int
}

// Position resolves a byte offset within the file to a line:column pair.
// Offsets past the end of the file clamp to the last position.
func (f *File) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Text) {
		offset = len(f.Text)
	}
	// Binary search for the last line start <= offset.
	lo, hi := 0, len(f.lineOffsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lineOffsets[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := lo
	col := offset - f.lineOffsets[line]
	return Position{Line: line + 1, Column: col + 1}
}

// LineText returns the text of the given 1-based line, without its
// trailing newline.
func (f *File) LineText(line int) string {
	if line < 1 || line > len(f.lineOffsets) {
		return ""
	}
	start := f.lineOffsets[line-1]
	end := len(f.Text)
	if line < len(f.lineOffsets) {
		end = f.lineOffsets[line] - 1
	}
	if end < start {
		end = start
	}
	return strings.TrimRight(f.Text[start:end], "\r")
}

// Caret renders the one-line, caret-underlined snippet the CLI prints for a
// failed parse: "<line> | <text>" followed by a line of spaces and '^'
// underlining span's extent on that first line.
func (fs *FileSet) Caret(span token.Span) string {
	f := fs.File(span.File)
	if f == nil {
		return ""
	}
	start := f.Position(span.Start)
	end := f.Position(span.End)
	lineText := f.LineText(start.Line)

	prefix := itoa(start.Line) + " | "
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(lineText)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", len(prefix)+start.Column-1))
	width := end.Column - start.Column
	if end.Line != start.Line || width < 1 {
		width = 1
	}
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}
