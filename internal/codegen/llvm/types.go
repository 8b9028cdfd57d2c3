package mir2llvm

import (
	"fmt"
	"strings"

	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/mir"
	"github.com/rustlite/rlc/internal/types"
)

// llvmType renders the canonical MIR type id per §4.5.1. str's general
// type-formatting rule is its element type, i8 — the decayed-pointer form
// (i8*) a str VALUE actually takes is handled separately at the few sites
// that hold one (see storageType): a struct field or
// local of type str still reports i8* there, not this function's i8.
func (g *Generator) llvmType(id types.Id) string {
	switch g.tctx.Kind(id) {
	case types.KindBool:
		return "i1"
	case types.KindChar:
		return "i8"
	case types.KindI32, types.KindU32, types.KindIsize, types.KindUsize:
		return "i32"
	case types.KindStr:
		return "i8"
	case types.KindUnit:
		return "%__rc_unit"
	case types.KindNever:
		return "void"
	case types.KindStruct:
		return g.structName(id)
	case types.KindReference:
		pointee, _, ok := g.tctx.Pointee(id)
		if !ok {
			panic(diag.NewCodegenBug("reference type %d has no pointee", id))
		}
		return g.llvmType(pointee) + "*"
	case types.KindArray:
		elem, size, ok := g.tctx.ArrayShape(id)
		if !ok {
			panic(diag.NewCodegenBug("array type %d has no shape", id))
		}
		return fmt.Sprintf("[%d x %s]", size, g.llvmType(elem))
	default:
		panic(diag.NewCodegenBug("type %d (kind %v) has no LLVM rendering — MIR types are always canonicalized, so enums should never reach here", id, g.tctx.Kind(id)))
	}
}

// storageType is llvmType, except for str: a place or slot that HOLDS a
// str value (a local's alloca, a temp, a struct field, a Load's
// destination) stores the decayed pointer to the byte data, i8*, never a
// single byte. See DESIGN.md's "str's LLVM type vs. its Load/storage form".
func (g *Generator) storageType(id types.Id) string {
	if g.tctx.Kind(id) == types.KindStr {
		return "i8*"
	}
	return g.llvmType(id)
}

// structName memoizes the LLVM named-type spelling for a struct Id.
func (g *Generator) structName(id types.Id) string {
	if name, ok := g.structNames[id]; ok {
		return name
	}
	info, ok := g.tctx.Struct(id)
	if !ok {
		panic(diag.NewCodegenBug("type %d is not a struct", id))
	}
	var name string
	if info.Name == "" {
		name = fmt.Sprintf("%%anon.struct.%d", g.anonCounter)
		g.anonCounter++
	} else {
		name = "%struct." + sanitizeName(info.Name)
	}
	g.structNames[id] = name
	return name
}

// collectStructTypes walks every type that appears anywhere in mod
// (parameter, ABI-parameter, local, temp, and return types of every
// function and extern) and returns the struct Ids reached, deduplicated,
// in postorder (a struct's field types are listed before the struct
// itself) so emitStructDefinitions can emit LLVM named types in dependency
// order.
func collectStructTypes(mod *mir.Module) []types.Id {
	tctx := mod.Types
	seen := map[types.Id]bool{}
	var order []types.Id

	var visit func(id types.Id)
	visit = func(id types.Id) {
		if seen[id] {
			return
		}
		seen[id] = true
		switch tctx.Kind(id) {
		case types.KindStruct:
			info, _ := tctx.Struct(id)
			for _, f := range info.Fields {
				visit(f.Type)
			}
			order = append(order, id)
		case types.KindArray:
			elem, _, _ := tctx.ArrayShape(id)
			visit(elem)
		case types.KindReference:
			pointee, _, _ := tctx.Pointee(id)
			visit(pointee)
		}
	}

	visitFn := func(fn *mir.Function) {
		for _, l := range fn.Locals {
			visit(l.Type)
		}
		for _, a := range fn.ABIParams {
			visit(a.Type)
		}
		for _, t := range fn.TempTypes {
			visit(t)
		}
		if fn.Return.Kind == mir.RetDirect || fn.Return.Kind == mir.RetIndirectSRet {
			visit(fn.Return.Type)
		}
	}

	for _, fn := range mod.Functions {
		visitFn(fn)
	}
	for _, fn := range mod.Externs {
		visitFn(fn)
	}
	return order
}

// sanitizeName maps an arbitrary source identifier to a valid LLVM
// identifier: only [a-zA-Z0-9_.] survive, everything else becomes '_', and
// a leading digit gets a '_' prefix.
func sanitizeName(name string) string {
	result := make([]rune, 0, len(name))
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '_' || r == '.' {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	if len(result) == 0 {
		return "_"
	}
	if result[0] >= '0' && result[0] <= '9' {
		return "_" + string(result)
	}
	return string(result)
}

// escapeStringForLLVM renders bytes as the body of an LLVM c"..." string
// constant: printable, non-quote, non-backslash bytes pass through, every
// other byte becomes \XX.
func escapeStringForLLVM(bytes []byte) string {
	var sb strings.Builder
	for _, b := range bytes {
		if b >= 32 && b < 127 && b != '"' && b != '\\' {
			sb.WriteByte(b)
		} else {
			sb.WriteString(fmt.Sprintf("\\%02X", b))
		}
	}
	return sb.String()
}
