package mir2llvm

import (
	"fmt"
	"strings"

	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/mir"
	"github.com/rustlite/rlc/internal/types"
)

// emitStatement dispatches one of Define | Load | Assign | Init | Call
// (§4.5.2/§4.5.3).
func (g *Generator) emitStatement(s mir.Statement) {
	switch st := s.(type) {
	case *mir.Define:
		g.emitDefine(st)
	case *mir.Load:
		g.emitLoad(st)
	case *mir.Assign:
		g.emitAssign(st)
	case *mir.Init:
		g.emitInit(st)
	case *mir.Call:
		g.emitCall(st)
	default:
		panic(diag.NewCodegenBug("unrecognized statement %T", s))
	}
}

func (g *Generator) emitLoad(l *mir.Load) {
	g.readPlaceValueInto(l.Place, tempReg(l.Dest))
}

func (g *Generator) emitAssign(a *mir.Assign) {
	addr, curType := g.placeAddress(a.Dest)
	llvmT := g.storageType(curType)
	var val string
	switch v := a.Value.(type) {
	case mir.OperandSource:
		val = g.operandValue(v.Operand)
	case mir.PlaceSource:
		val = g.readPlaceValue(v.Place)
	default:
		panic(diag.NewCodegenBug("unrecognized value source %T", a.Value))
	}
	g.emit(fmt.Sprintf("  store %s %s, %s* %s", llvmT, val, llvmT, addr))
}

func (g *Generator) emitInit(in *mir.Init) {
	switch pat := in.Pattern.(type) {
	case mir.InitStruct:
		g.emitInitLeaves(in.Dest, pat.Leaves, false)
	case mir.InitArrayLiteral:
		g.emitInitLeaves(in.Dest, pat.Leaves, true)
	case mir.InitArrayRepeat:
		g.emitInitArrayRepeat(in.Dest, pat)
	case mir.InitCopy:
		g.emitInitCopy(in.Dest, pat.Src)
	default:
		panic(diag.NewCodegenBug("unrecognized init pattern %T", in.Pattern))
	}
}

func (g *Generator) emitInitLeaves(dest mir.Place, leaves []mir.InitLeaf, isArray bool) {
	for i, leaf := range leaves {
		if leaf.Omitted {
			continue
		}
		slot := g.fieldOrElemPlace(dest, i, isArray)
		addr, curType := g.placeAddress(slot)
		llvmT := g.storageType(curType)
		var val string
		switch v := leaf.Value.(type) {
		case mir.OperandSource:
			val = g.operandValue(v.Operand)
		case mir.PlaceSource:
			val = g.readPlaceValue(v.Place)
		default:
			panic(diag.NewCodegenBug("unrecognized value source %T", leaf.Value))
		}
		g.emit(fmt.Sprintf("  store %s %s, %s* %s", llvmT, val, llvmT, addr))
	}
}

// fieldOrElemPlace appends the right projection kind for leaf index i: a
// struct literal's leaves are fields, an array literal's leaves are
// elements (an index projection by a usize constant), both addressed by the
// same constant-index GEP shape.
func (g *Generator) fieldOrElemPlace(dest mir.Place, i int, isArray bool) mir.Place {
	if isArray {
		return dest.Index(mir.Constant{Type: g.tctx.Usize(), Kind: mir.ConstInt, IntVal: uint64(i)})
	}
	return dest.Field(i)
}

func (g *Generator) emitInitArrayRepeat(dest mir.Place, pat mir.InitArrayRepeat) {
	var val string
	var llvmT string
	for i := uint64(0); i < pat.Count; i++ {
		slot := g.fieldOrElemPlace(dest, int(i), true)
		addr, curType := g.placeAddress(slot)
		if llvmT == "" {
			llvmT = g.storageType(curType)
			switch v := pat.Element.(type) {
			case mir.OperandSource:
				val = g.operandValue(v.Operand)
			case mir.PlaceSource:
				val = g.readPlaceValue(v.Place)
			default:
				panic(diag.NewCodegenBug("unrecognized value source %T", pat.Element))
			}
		}
		g.emit(fmt.Sprintf("  store %s %s, %s* %s", llvmT, val, llvmT, addr))
	}
}

// emitInitCopy copies src into dest (§4.4.2's InitCopy). Scalar-shaped
// types (including str, which is held as i8*) are a plain load-then-store;
// struct/array types go through llvm.memcpy sized via the
// getelementptr-to-null-pointer trick, since MIR never breaks an aggregate
// copy down field-by-field.
func (g *Generator) emitInitCopy(dest mir.Place, src mir.Place) {
	dstAddr, dstType := g.placeAddress(dest)
	kind := g.tctx.Kind(dstType)
	if kind != types.KindStruct && kind != types.KindArray {
		val := g.readPlaceValue(src)
		llvmT := g.storageType(dstType)
		g.emit(fmt.Sprintf("  store %s %s, %s* %s", llvmT, val, llvmT, dstAddr))
		return
	}

	srcAddr, _ := g.placeAddress(src)
	llvmT := g.llvmType(dstType)
	g.emitMemcpyAgg(dstAddr, srcAddr, llvmT)
}

func (g *Generator) emitMemcpyAgg(dstAddr, srcAddr, llvmT string) {
	sizeReg1 := g.nextReg()
	g.emit(fmt.Sprintf("  %s = getelementptr inbounds %s, %s* null, i32 1", sizeReg1, llvmT, llvmT))
	sizeReg2 := g.nextReg()
	g.emit(fmt.Sprintf("  %s = ptrtoint %s* %s to i64", sizeReg2, llvmT, sizeReg1))

	dstCast := g.nextReg()
	g.emit(fmt.Sprintf("  %s = bitcast %s* %s to i8*", dstCast, llvmT, dstAddr))
	srcCast := g.nextReg()
	g.emit(fmt.Sprintf("  %s = bitcast %s* %s to i8*", srcCast, llvmT, srcAddr))

	g.emit(fmt.Sprintf("  call void @llvm.memcpy.p0i8.p0i8.i64(i8* %s, i8* %s, i64 %s, i1 false)", dstCast, srcCast, sizeReg2))
}

// emitCall renders a Call statement (§4.5.3): a leading sret argument when
// the callee is indirect-returning, followed by the semantic arguments
// typed from the callee's ABI parameter list.
func (g *Generator) emitCall(c *mir.Call) {
	callee, ok := g.funcByID[c.Target]
	if !ok {
		panic(diag.NewCodegenBug("call targets unknown function id %d", c.Target))
	}

	var args []string
	abi := callee.ABIParams
	if callee.Return.Kind == mir.RetIndirectSRet {
		if c.SRetDest == nil {
			panic(diag.NewCodegenBug("call to sret function %q has no SRetDest", callee.Name))
		}
		sretAddr, sretType := g.placeAddress(*c.SRetDest)
		sretLLVM := g.llvmType(sretType)
		args = append(args, fmt.Sprintf("%s* %s", sretLLVM, sretAddr))
		abi = abi[1:]
	}
	for i, a := range c.Args {
		llvmT := g.storageType(abi[i].Type)
		args = append(args, fmt.Sprintf("%s %s", llvmT, g.operandValue(a)))
	}

	calleeName := "@" + sanitizeName(callee.Name)
	argsText := strings.Join(args, ", ")

	switch callee.Return.Kind {
	case mir.RetVoid, mir.RetNever, mir.RetIndirectSRet:
		g.emit(fmt.Sprintf("  call void %s(%s)", calleeName, argsText))
	case mir.RetDirect:
		retT := g.storageType(callee.Return.Type)
		if c.Dest != nil {
			g.emit(fmt.Sprintf("  %s = call %s %s(%s)", tempReg(*c.Dest), retT, calleeName, argsText))
		} else {
			g.emit(fmt.Sprintf("  call %s %s(%s)", retT, calleeName, argsText))
		}
	default:
		panic(diag.NewCodegenBug("callee %q has unrecognized return kind %d", callee.Name, callee.Return.Kind))
	}
}
