package mir2llvm

import (
	"fmt"
	"strings"
)

// emitStructDefinitions emits one LLVM named-type definition per struct
// reachable from the module, in dependency order (§4.5.1).
func (g *Generator) emitStructDefinitions() {
	order := collectStructTypes(g.mod)
	if len(order) == 0 {
		return
	}
	for _, id := range order {
		info, _ := g.tctx.Struct(id)
		fieldTypes := make([]string, len(info.Fields))
		for i, f := range info.Fields {
			fieldTypes[i] = g.storageType(f.Type)
		}
		g.emit(fmt.Sprintf("%s = type { %s }", g.structName(id), strings.Join(fieldTypes, ", ")))
	}
	g.emit("")
}

// emitStringGlobals emits one private unnamed_addr constant per
// deduplicated string literal (§4.4.2 / §4.5.1). A c-style literal gets an
// appended NUL terminator byte.
func (g *Generator) emitStringGlobals() {
	if len(g.mod.Globals) == 0 {
		return
	}
	for i, gl := range g.mod.Globals {
		n := len(gl.Bytes)
		escaped := escapeStringForLLVM(gl.Bytes)
		if gl.IsCStyle {
			n++
			escaped += "\\00"
		}
		g.emit(fmt.Sprintf("%s = private unnamed_addr constant [%d x i8] c\"%s\", align 1", globalName(i), n, escaped))
	}
	g.emit("")
}

func globalName(gid int) string { return fmt.Sprintf("@.str.%d", gid) }

func globalArrayType(n int) string { return fmt.Sprintf("[%d x i8]", n) }

func (g *Generator) globalByteLen(gid int) int {
	gl := g.mod.Globals[gid]
	n := len(gl.Bytes)
	if gl.IsCStyle {
		n++
	}
	return n
}
