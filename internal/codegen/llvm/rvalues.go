package mir2llvm

import (
	"fmt"

	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/mir"
	"github.com/rustlite/rlc/internal/types"
)

// emitDefine computes an RValue into its destination temp (§4.5.2).
func (g *Generator) emitDefine(d *mir.Define) {
	switch rv := d.Value.(type) {
	case mir.ConstRValue:
		llvmT := g.storageType(rv.Value.Type)
		g.emit(fmt.Sprintf("  %s = add %s 0, %s", tempReg(d.Dest), llvmT, constLiteralText(rv.Value)))
	case mir.BinaryRValue:
		g.emitBinary(d.Dest, rv)
	case mir.UnaryRValue:
		g.emitUnary(d.Dest, rv)
	case mir.RefRValue:
		g.emitRef(d.Dest, rv)
	case mir.FieldOfTempRValue:
		g.emitFieldOfTemp(d.Dest, rv)
	case mir.CastRValue:
		g.emitCast(d.Dest, rv)
	case mir.IdentityRValue:
		llvmT := g.storageType(g.operandType(rv.Operand))
		g.emit(fmt.Sprintf("  %s = add %s 0, %s", tempReg(d.Dest), llvmT, g.operandValue(rv.Operand)))
	default:
		panic(diag.NewCodegenBug("unrecognized rvalue %T", d.Value))
	}
}

func (g *Generator) emitBinary(dest mir.TempId, rv mir.BinaryRValue) {
	llvmT := g.llvmType(g.operandType(rv.Lhs))
	lhs := g.operandValue(rv.Lhs)
	rhs := g.operandValue(rv.Rhs)
	op, ok := binOpcode(rv.Op)
	if !ok {
		panic(diag.NewCodegenBug("binary op %d never reaches codegen — it is eliminated during lowering (short-circuit && / ||)", rv.Op))
	}
	g.emit(fmt.Sprintf("  %s = %s %s %s, %s", tempReg(dest), op, llvmT, lhs, rhs))
}

// binOpcode maps a BinOp to its LLVM instruction text. BinLogAnd/BinLogOr
// are declared for data-model completeness but never produced by lowering
// (short-circuit && / || always lowers to control flow, §4.4.2).
func binOpcode(op mir.BinOp) (string, bool) {
	switch op {
	case mir.BinAddI:
		return "add", true
	case mir.BinSubI:
		return "sub", true
	case mir.BinMulI:
		return "mul", true
	case mir.BinSDiv:
		return "sdiv", true
	case mir.BinUDiv:
		return "udiv", true
	case mir.BinSRem:
		return "srem", true
	case mir.BinURem:
		return "urem", true
	case mir.BinAnd:
		return "and", true
	case mir.BinOr:
		return "or", true
	case mir.BinXor:
		return "xor", true
	case mir.BinShl:
		return "shl", true
	case mir.BinLShr:
		return "lshr", true
	case mir.BinAShr:
		return "ashr", true
	case mir.BinCmpEq:
		return "icmp eq", true
	case mir.BinCmpNe:
		return "icmp ne", true
	case mir.BinCmpSlt:
		return "icmp slt", true
	case mir.BinCmpSle:
		return "icmp sle", true
	case mir.BinCmpSgt:
		return "icmp sgt", true
	case mir.BinCmpSge:
		return "icmp sge", true
	case mir.BinCmpUlt:
		return "icmp ult", true
	case mir.BinCmpUle:
		return "icmp ule", true
	case mir.BinCmpUgt:
		return "icmp ugt", true
	case mir.BinCmpUge:
		return "icmp uge", true
	default:
		return "", false
	}
}

func (g *Generator) emitUnary(dest mir.TempId, rv mir.UnaryRValue) {
	opndType := g.operandType(rv.Operand)
	llvmT := g.llvmType(opndType)
	val := g.operandValue(rv.Operand)
	switch rv.Op {
	case mir.UnNot:
		if g.tctx.Kind(opndType) == types.KindBool {
			g.emit(fmt.Sprintf("  %s = xor %s %s, 1", tempReg(dest), llvmT, val))
		} else {
			g.emit(fmt.Sprintf("  %s = xor %s %s, -1", tempReg(dest), llvmT, val))
		}
	case mir.UnNeg:
		g.emit(fmt.Sprintf("  %s = sub %s 0, %s", tempReg(dest), llvmT, val))
	case mir.UnDeref:
		// Operand is a pointer-valued temp; the dereferenced value's type
		// is the operand's reference pointee.
		pointee, _, ok := g.tctx.Pointee(opndType)
		if !ok {
			panic(diag.NewCodegenBug("deref of non-reference type %d", opndType))
		}
		pointeeT := g.storageType(pointee)
		g.emit(fmt.Sprintf("  %s = load %s, %s* %s", tempReg(dest), pointeeT, pointeeT, val))
	default:
		panic(diag.NewCodegenBug("unrecognized unary op %d", rv.Op))
	}
}

// emitRef takes the address of a place (`&place`, §4.5.2): re-derives the
// same address via an identity getelementptr, matching the literal
// instruction shape even though it adds no information beyond
// placeAddress's own result.
func (g *Generator) emitRef(dest mir.TempId, rv mir.RefRValue) {
	addr, curType := g.placeAddress(rv.Place)
	llvmT := g.llvmType(curType)
	g.emit(fmt.Sprintf("  %s = getelementptr inbounds %s, %s* %s, i32 0", tempReg(dest), llvmT, llvmT, addr))
}

// emitFieldOfTemp reads a field directly out of an aggregate-valued temp
// via extractvalue. Never produced by the current lowering (aggregates are
// always addressed through a Place, not held directly in a temp) — kept
// for data-model completeness.
func (g *Generator) emitFieldOfTemp(dest mir.TempId, rv mir.FieldOfTempRValue) {
	aggType := g.curFn.TempTypes[rv.Temp]
	aggLLVM := g.llvmType(aggType)
	if _, ok := g.tctx.Struct(aggType); !ok {
		panic(diag.NewCodegenBug("field-of-temp on non-struct type %d", aggType))
	}
	g.emit(fmt.Sprintf("  %s = extractvalue %s %s, %d", tempReg(dest), aggLLVM, tempReg(rv.Temp), rv.Index))
}

// emitCast implements §4.5.2's cast classification. Every integer kind
// (bool/char/i32-family) collapses to one of three bit widths under
// BitWidth (1, 8, 32), so growth/shrink only ever happens between {bool, char} and
// the i32 family, or between bool and char; everything else (e.g.
// i32 -> usize) is same-width and therefore an identity.
func (g *Generator) emitCast(dest mir.TempId, rv mir.CastRValue) {
	srcType := g.operandType(rv.Operand)
	srcKind := g.tctx.Kind(srcType)
	dstKind := g.tctx.Kind(rv.Type)
	srcW := types.BitWidth(srcKind)
	dstW := types.BitWidth(dstKind)
	val := g.operandValue(rv.Operand)
	srcT := g.llvmType(srcType)
	dstT := g.llvmType(rv.Type)

	switch {
	case srcW == dstW:
		g.emit(fmt.Sprintf("  %s = add %s 0, %s", tempReg(dest), dstT, val))
	case dstW > srcW:
		if types.IsSigned(srcKind) {
			g.emit(fmt.Sprintf("  %s = sext %s %s to %s", tempReg(dest), srcT, val, dstT))
		} else {
			g.emit(fmt.Sprintf("  %s = zext %s %s to %s", tempReg(dest), srcT, val, dstT))
		}
	default:
		g.emit(fmt.Sprintf("  %s = trunc %s %s to %s", tempReg(dest), srcT, val, dstT))
	}
}
