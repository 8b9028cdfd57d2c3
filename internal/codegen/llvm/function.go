package mir2llvm

import (
	"fmt"
	"strings"

	"github.com/rustlite/rlc/internal/mir"
)

// emitFunction renders one function definition (§4.5.3). Parameter stores
// into their Locals are not special-cased here: lowerFunction already
// emitted them as ordinary Assign statements at the front of the entry
// block's Stmts, so this only needs to (a) allocate storage for every
// non-aliased local up front and (b) process blocks like any other.
func (g *Generator) emitFunction(fn *mir.Function) {
	g.curFn = fn
	g.regCounter = 0
	g.paramNames = map[int]string{}
	g.abiRegByPos = make([]string, len(fn.ABIParams))
	for i, a := range fn.ABIParams {
		reg := fmt.Sprintf("%%arg.%d", i)
		g.abiRegByPos[i] = reg
		if a.Kind != mir.ABISRet {
			g.paramNames[a.SemanticParam] = reg
		}
	}

	params := make([]string, len(fn.ABIParams))
	for i, a := range fn.ABIParams {
		params[i] = fmt.Sprintf("%s %s", g.abiParamTypeText(a), g.abiRegByPos[i])
	}
	g.emit(fmt.Sprintf("define %s @%s(%s) {", g.retTypeText(fn), sanitizeName(fn.Name), strings.Join(params, ", ")))

	g.blockLabels = computeBlockLabels(fn)

	for i, blk := range fn.Blocks {
		g.emit(fmt.Sprintf("%s:", g.blockLabels[blk.ID]))
		if i == 0 {
			g.emitAllocas(fn)
		}
		g.emitPhis(blk)
		for _, s := range blk.Stmts {
			g.emitStatement(s)
		}
		g.emitTerminator(blk.Terminator)
	}

	g.emit("}")
}

// emitAllocas allocates storage for every local that isn't an alias of an
// ABI parameter. A "_"-named local still gets a real alloca: a discarded
// `let _ = <sret-returning call>();` still needs a real address to hand
// the callee as its sret argument, so literal elision (§4.5.3) would break
// SRET-call correctness — see DESIGN.md.
func (g *Generator) emitAllocas(fn *mir.Function) {
	for i, l := range fn.Locals {
		if l.Alias != mir.AliasNone {
			continue
		}
		g.emit(fmt.Sprintf("  %s = alloca %s", localAllocaName(mir.LocalId(i)), g.storageType(l.Type)))
	}
}

func (g *Generator) emitPhis(blk *mir.BasicBlock) {
	for _, phi := range blk.Phis {
		llvmT := g.storageType(phi.Type)
		parts := make([]string, len(phi.Incoming))
		for i, in := range phi.Incoming {
			parts[i] = fmt.Sprintf("[ %s, %%%s ]", g.operandValue(in.Operand), g.blockLabels[in.Block])
		}
		g.emit(fmt.Sprintf("  %s = phi %s %s", tempReg(phi.Dest), llvmT, strings.Join(parts, ", ")))
	}
}

// computeBlockLabels assigns each block a unique LLVM label (§4.5.3):
// block 0 is always "entry" (lowerFunction always starts there); every
// other block uses its sanitized hint, suffixed with .1, .2, … on
// collision.
func computeBlockLabels(fn *mir.Function) map[mir.BlockId]string {
	labels := make(map[mir.BlockId]string, len(fn.Blocks))
	counts := map[string]int{}
	for i, blk := range fn.Blocks {
		if i == 0 {
			labels[blk.ID] = "entry"
			continue
		}
		hint := blk.Hint
		if hint == "" {
			hint = "bb"
		}
		hint = sanitizeName(hint)
		n := counts[hint]
		counts[hint] = n + 1
		if n == 0 {
			labels[blk.ID] = hint
		} else {
			labels[blk.ID] = fmt.Sprintf("%s.%d", hint, n)
		}
	}
	return labels
}
