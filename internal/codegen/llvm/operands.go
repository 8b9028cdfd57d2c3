package mir2llvm

import (
	"fmt"

	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/mir"
	"github.com/rustlite/rlc/internal/types"
)

// operandValue renders the bare SSA value (or literal) text for op, with no
// type prefix — used for GEP indices, call-argument values, and Assign
// right-hand sides.
func (g *Generator) operandValue(op mir.Operand) string {
	switch o := op.(type) {
	case mir.TempOperand:
		return tempReg(o.Temp)
	case mir.Constant:
		return constLiteralText(o)
	case mir.ABIParamOperand:
		name, ok := g.paramNames[o.Index]
		if !ok {
			panic(diag.NewCodegenBug("no ABI register recorded for semantic param %d in %q", o.Index, g.curFn.Name))
		}
		return name
	default:
		panic(diag.NewCodegenBug("unrecognized operand type %T", op))
	}
}

// operandType returns the canonical static type of op within the current
// function.
func (g *Generator) operandType(op mir.Operand) types.Id {
	switch o := op.(type) {
	case mir.TempOperand:
		return g.curFn.TempTypes[o.Temp]
	case mir.Constant:
		return o.Type
	case mir.ABIParamOperand:
		return g.curFn.Params[o.Index].Type
	default:
		panic(diag.NewCodegenBug("unrecognized operand type %T", op))
	}
}

// constLiteralText renders a Constant's bare numeral (§4.5.2): booleans
// and chars render as plain integers, matching every other scalar's
// `add <T> 0, <value>` materialization shape.
func constLiteralText(c mir.Constant) string {
	switch c.Kind {
	case mir.ConstBool:
		if c.BoolVal {
			return "1"
		}
		return "0"
	case mir.ConstInt:
		if c.Negative {
			return fmt.Sprintf("-%d", c.IntVal)
		}
		return fmt.Sprintf("%d", c.IntVal)
	case mir.ConstChar:
		return fmt.Sprintf("%d", c.CharVal)
	case mir.ConstUnit:
		return "zeroinitializer"
	default:
		panic(diag.NewCodegenBug("constant kind %d has no literal text — string constants never flow through mir.Constant, only through a GlobalPlace", c.Kind))
	}
}

// placeAddress computes the memory address and current (unprojected-so-far)
// type of p, walking its projection chain via getelementptr. p must not be
// a bare GlobalPlace: every global is a string-literal byte array, and the
// only thing ever done with one is reading its decayed pointer via
// readPlaceValue — it is never assigned to, nor does it ever carry a
// projection.
func (g *Generator) placeAddress(p mir.Place) (addr string, curType types.Id) {
	switch base := p.Base.(type) {
	case mir.LocalPlace:
		local := g.curFn.Locals[base.Local]
		curType = local.Type
		switch local.Alias {
		case mir.AliasNone:
			addr = localAllocaName(base.Local)
		case mir.AliasOfABIParam:
			addr = g.abiRegByPos[local.AliasOf]
		default:
			panic(diag.NewCodegenBug("local %d has unsupported alias kind %d — AliasOfTemp is never produced by lowering", base.Local, local.Alias))
		}
	case mir.PointerPlace:
		addr = g.operandValue(mir.TempOperand{Temp: base.Pointer})
		refType := g.curFn.TempTypes[base.Pointer]
		pointee, _, ok := g.tctx.Pointee(refType)
		if !ok {
			panic(diag.NewCodegenBug("pointer place's backing temp %d is not reference-typed", base.Pointer))
		}
		curType = pointee
	case mir.GlobalPlace:
		panic(diag.NewCodegenBug("global place %d has no directly-addressable storage — use readPlaceValue", base.Global))
	default:
		panic(diag.NewCodegenBug("unrecognized place base %T", p.Base))
	}

	for _, proj := range p.Projections {
		switch pr := proj.(type) {
		case mir.FieldProjection:
			info, ok := g.tctx.Struct(curType)
			if !ok {
				panic(diag.NewCodegenBug("field projection on non-struct type %d", curType))
			}
			aggLLVM := g.llvmType(curType)
			reg := g.nextReg()
			g.emit(fmt.Sprintf("  %s = getelementptr inbounds %s, %s* %s, i32 0, i32 %d", reg, aggLLVM, aggLLVM, addr, pr.Index))
			addr = reg
			curType = info.Fields[pr.Index].Type
		case mir.IndexProjection:
			elem, _, ok := g.tctx.ArrayShape(curType)
			if !ok {
				panic(diag.NewCodegenBug("index projection on non-array type %d", curType))
			}
			aggLLVM := g.llvmType(curType)
			idx := g.operandValue(pr.Index)
			idxType := g.llvmType(g.operandType(pr.Index))
			reg := g.nextReg()
			g.emit(fmt.Sprintf("  %s = getelementptr inbounds %s, %s* %s, i32 0, %s %s", reg, aggLLVM, aggLLVM, addr, idxType, idx))
			addr = reg
			curType = elem
		default:
			panic(diag.NewCodegenBug("unrecognized projection %T", proj))
		}
	}
	return addr, curType
}

// readPlaceValue loads p's current value into a fresh register. A bare
// (unprojected) global place is every string literal's only read site: it
// decays to i8* via GEP rather than a generic load, since the global
// itself is the byte array, not a pointer variable holding one
// (§4.5.1/§4.5.2).
func (g *Generator) readPlaceValue(p mir.Place) string {
	return g.readPlaceValueInto(p, g.nextReg())
}

// readPlaceValueInto is readPlaceValue with an explicit destination
// register, so Load statements (whose destination is a specific,
// already-numbered MIR temp) can reuse the same place-reading logic
// instead of duplicating it under a fresh, differently-named register.
func (g *Generator) readPlaceValueInto(p mir.Place, dest string) string {
	if gp, ok := p.Base.(mir.GlobalPlace); ok && len(p.Projections) == 0 {
		n := g.globalByteLen(int(gp.Global))
		arrT := globalArrayType(n)
		g.emit(fmt.Sprintf("  %s = getelementptr inbounds %s, %s* %s, i32 0, i32 0", dest, arrT, arrT, globalName(int(gp.Global))))
		return dest
	}
	addr, curType := g.placeAddress(p)
	llvmT := g.storageType(curType)
	g.emit(fmt.Sprintf("  %s = load %s, %s* %s", dest, llvmT, llvmT, addr))
	return dest
}
