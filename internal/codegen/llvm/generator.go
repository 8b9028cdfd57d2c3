// Package mir2llvm implements §3.6/§4.5: rendering a lowered mir.Module as
// LLVM textual IR. It is a pure text emitter — it never shells out to llc
// or opt, and never validates the text it produces against a real LLVM
// parser; correctness rests entirely on following the MIR data model.
package mir2llvm

import (
	"fmt"
	"strings"

	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/mir"
	"github.com/rustlite/rlc/internal/types"
)

// Generator renders one mir.Module to LLVM IR text. It is not safe for
// concurrent use, and a single instance renders exactly one module:
// Generate resets per-function state but never per-module state.
type Generator struct {
	b strings.Builder

	mod  *mir.Module
	tctx *types.Context

	structNames map[types.Id]string
	anonCounter int

	funcByID map[mir.FuncId]*mir.Function

	regCounter int

	curFn        *mir.Function
	abiRegByPos  []string       // ABI parameter position -> SSA register name
	paramNames   map[int]string // semantic param index -> SSA register name
	blockLabels  map[mir.BlockId]string
}

// NewGenerator creates an empty Generator ready for Generate.
func NewGenerator() *Generator {
	return &Generator{
		structNames: map[types.Id]string{},
	}
}

// Generate renders mod as LLVM IR text (§3.6). A returned error wraps a
// diag.InternalError: a MIR invariant the emitter depends on was violated,
// never a problem with the source program itself (that would have failed
// an earlier stage).
func (g *Generator) Generate(mod *mir.Module) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	g.mod = mod
	g.tctx = mod.Types
	g.funcByID = map[mir.FuncId]*mir.Function{}
	for _, fn := range mod.Functions {
		g.funcByID[fn.ID] = fn
	}
	for _, fn := range mod.Externs {
		g.funcByID[fn.ID] = fn
	}

	g.emitModuleHeader()
	g.emit("%__rc_unit = type {}")
	g.emit("")

	g.emitStructDefinitions()
	g.emitStringGlobals()
	g.emitMemcpyDeclaration()

	for _, fn := range mod.Externs {
		g.emitExternDeclaration(fn)
	}
	if len(mod.Externs) > 0 {
		g.emit("")
	}

	for i, fn := range mod.Functions {
		if i > 0 {
			g.emit("")
		}
		g.emitFunction(fn)
	}

	return g.b.String(), nil
}

// emit appends one line (newline-terminated) to the output.
func (g *Generator) emit(line string) {
	g.b.WriteString(line)
	g.b.WriteString("\n")
}

// emitModuleHeader writes the boilerplate LLVM module preamble (§3.6).
func (g *Generator) emitModuleHeader() {
	g.emit(fmt.Sprintf("; ModuleID = '%s'", g.mod.SourcePath))
	g.emit(fmt.Sprintf("source_filename = %q", g.mod.SourcePath))
	g.emit("target datalayout = \"e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-f80:128-n8:16:32:64-S128\"")
	g.emit("target triple = \"x86_64-unknown-linux-gnu\"")
	g.emit("")
}

func (g *Generator) emitMemcpyDeclaration() {
	g.emit("declare void @llvm.memcpy.p0i8.p0i8.i64(i8*, i8*, i64, i1)")
	g.emit("")
}

func (g *Generator) emitExternDeclaration(fn *mir.Function) {
	params := make([]string, len(fn.ABIParams))
	for i, a := range fn.ABIParams {
		params[i] = g.abiParamTypeText(a)
	}
	ret := g.retTypeText(fn)
	g.emit(fmt.Sprintf("declare %s @%s(%s)", ret, sanitizeName(fn.Name), strings.Join(params, ", ")))
}

func (g *Generator) abiParamTypeText(a mir.ABIParam) string {
	if a.Kind == mir.ABISRet {
		t := g.llvmType(a.Type)
		return t + "* sret(" + t + ")"
	}
	if a.Kind == mir.ABIIndirect {
		return g.llvmType(a.Type) + "*"
	}
	return g.storageType(a.Type)
}

func (g *Generator) retTypeText(fn *mir.Function) string {
	switch fn.Return.Kind {
	case mir.RetVoid, mir.RetNever, mir.RetIndirectSRet:
		return "void"
	case mir.RetDirect:
		return g.storageType(fn.Return.Type)
	default:
		panic(diag.NewCodegenBug("function %q has unrecognized return kind %d", fn.Name, fn.Return.Kind))
	}
}

func (g *Generator) nextReg() string {
	r := fmt.Sprintf("%%r%d", g.regCounter)
	g.regCounter++
	return r
}

func tempReg(t mir.TempId) string { return fmt.Sprintf("%%t%d", t) }

func localAllocaName(id mir.LocalId) string { return fmt.Sprintf("%%local.%d", id) }
