package mir

import (
	"github.com/rustlite/rlc/internal/ast"
	"github.com/rustlite/rlc/internal/hir"
	"github.com/rustlite/rlc/internal/types"
)

func (l *Lowerer) lowerUnary(n *hir.Unary) (LowerResult, error) {
	resultType := l.canon(n.Info().Type)
	switch n.Op {
	case ast.Not, ast.Neg:
		opRes, err := l.lowerExpr(n.Operand, nil)
		if err != nil {
			return LowerResult{}, err
		}
		operandType := l.canon(n.Operand.Info().Type)
		val := l.asOperand(opRes, operandType)
		op := UnNot
		if n.Op == ast.Neg {
			op = UnNeg
		}
		t := l.defineTemp(resultType, UnaryRValue{Op: op, Operand: val})
		return operandResult(TempOperand{Temp: t}), nil

	case ast.Deref:
		opRes, err := l.lowerExpr(n.Operand, nil)
		if err != nil {
			return LowerResult{}, err
		}
		operandType := l.canon(n.Operand.Info().Type)
		ptrVal := l.asOperand(opRes, operandType)
		ptrTemp := l.asTempOperand(ptrVal, operandType)
		return placeResult(PlaceOf(PointerPlace{Pointer: ptrTemp})), nil

	case ast.Ref, ast.RefMut:
		if n.Operand.Info().IsPlace {
			place, err := l.lowerAsPlace(n.Operand)
			if err != nil {
				return LowerResult{}, err
			}
			t := l.defineTemp(resultType, RefRValue{Place: place})
			return operandResult(TempOperand{Temp: t}), nil
		}
		// Not a place: materialize into a synthetic, debug-named local
		// (§4.4.2 "Unary ref / mut-ref") before taking its address.
		name := "_ref_tmp"
		if n.Op == ast.RefMut {
			name = "_ref_mut_tmp"
		}
		operandType := l.canon(n.Operand.Info().Type)
		opRes, err := l.lowerExpr(n.Operand, nil)
		if err != nil {
			return LowerResult{}, err
		}
		local := l.newLocal(name, operandType)
		place := PlaceOf(LocalPlace{Local: local})
		l.writeToDest(opRes, place, operandType)
		t := l.defineTemp(resultType, RefRValue{Place: place})
		return operandResult(TempOperand{Temp: t}), nil

	default:
		return LowerResult{}, nil
	}
}

func (l *Lowerer) lowerBinary(n *hir.Binary) (LowerResult, error) {
	resultType := l.canon(n.Info().Type)
	if n.Op == ast.LogAnd || n.Op == ast.LogOr {
		return l.lowerShortCircuit(n, resultType)
	}
	lhsRes, err := l.lowerExpr(n.Left, nil)
	if err != nil {
		return LowerResult{}, err
	}
	operandType := l.canon(n.Left.Info().Type)
	lhs := l.asOperand(lhsRes, operandType)
	rhsRes, err := l.lowerExpr(n.Right, nil)
	if err != nil {
		return LowerResult{}, err
	}
	rhs := l.asOperand(rhsRes, l.canon(n.Right.Info().Type))
	op := binOpFor(n.Op, l.prog.Types.Kind(operandType))
	t := l.defineTemp(resultType, BinaryRValue{Op: op, Lhs: lhs, Rhs: rhs})
	return operandResult(TempOperand{Temp: t}), nil
}

// lowerShortCircuit implements §4.4.2's `&&`/`||` short-circuit lowering
// and boundary scenario 2: entry evaluates lhs and switches on it; one
// branch evaluates rhs and joins, the other joins directly carrying the
// short-circuited constant; a phi on the join block picks up both.
func (l *Lowerer) lowerShortCircuit(n *hir.Binary, resultType types.Id) (LowerResult, error) {
	lhsRes, err := l.lowerExpr(n.Left, nil)
	if err != nil {
		return LowerResult{}, err
	}
	boolT := l.prog.Types.Bool()
	lhsVal := l.asOperand(lhsRes, boolT)
	entryBlock := l.cur

	rhsBlock := l.newBlock("logic.rhs")
	joinBlock := l.newBlock("logic.join")

	var trueTarget, falseTarget BlockId
	shortVal := false
	if n.Op == ast.LogAnd {
		trueTarget, falseTarget = rhsBlock, joinBlock
		shortVal = false
	} else {
		trueTarget, falseTarget = joinBlock, rhsBlock
		shortVal = true
	}
	l.terminate(&SwitchInt{
		Discriminant: lhsVal,
		Cases:        []SwitchCase{{Value: Constant{Type: boolT, Kind: ConstBool, BoolVal: true}, Block: trueTarget}},
		Otherwise:    falseTarget,
	})

	l.setBlock(rhsBlock)
	rhsRes, err := l.lowerExpr(n.Right, nil)
	if err != nil {
		return LowerResult{}, err
	}
	rhsVal := l.asOperand(rhsRes, boolT)
	rhsEndBlock := l.cur
	l.terminate(&Goto{Target: joinBlock})

	l.setBlock(joinBlock)
	resultTemp := l.newTemp(resultType)
	l.block().Phis = append(l.block().Phis, Phi{
		Dest: resultTemp,
		Type: resultType,
		Incoming: []PhiIncoming{
			{Block: entryBlock, Operand: Constant{Type: boolT, Kind: ConstBool, BoolVal: shortVal}},
			{Block: rhsEndBlock, Operand: rhsVal},
		},
	})
	return operandResult(TempOperand{Temp: resultTemp}), nil
}

func binOpFor(op ast.BinaryOp, k types.Kind) BinOp {
	signed := types.IsSigned(k)
	switch op {
	case ast.Add:
		return BinAddI
	case ast.Sub:
		return BinSubI
	case ast.Mul:
		return BinMulI
	case ast.Div:
		if signed {
			return BinSDiv
		}
		return BinUDiv
	case ast.Rem:
		if signed {
			return BinSRem
		}
		return BinURem
	case ast.BitAnd:
		return BinAnd
	case ast.BitOr:
		return BinOr
	case ast.BitXor:
		return BinXor
	case ast.Shl:
		return BinShl
	case ast.Shr:
		if signed {
			return BinAShr
		}
		return BinLShr
	case ast.CmpEq:
		return BinCmpEq
	case ast.CmpNe:
		return BinCmpNe
	case ast.CmpLt:
		if signed {
			return BinCmpSlt
		}
		return BinCmpUlt
	case ast.CmpLe:
		if signed {
			return BinCmpSle
		}
		return BinCmpUle
	case ast.CmpGt:
		if signed {
			return BinCmpSgt
		}
		return BinCmpUgt
	case ast.CmpGe:
		if signed {
			return BinCmpSge
		}
		return BinCmpUge
	default:
		return BinAddI
	}
}

func (l *Lowerer) lowerCast(n *hir.Cast) (LowerResult, error) {
	opRes, err := l.lowerExpr(n.Operand, nil)
	if err != nil {
		return LowerResult{}, err
	}
	operandType := l.canon(n.Operand.Info().Type)
	val := l.asOperand(opRes, operandType)
	target := l.canon(n.Target)
	t := l.defineTemp(target, CastRValue{Operand: val, Type: target})
	return operandResult(TempOperand{Temp: t}), nil
}

func (l *Lowerer) lowerAssign(n *hir.Assign) (LowerResult, error) {
	if _, discard := n.Target.(*hir.Underscore); discard {
		// `_ = rhs`: evaluate rhs for its side effects only, no place
		// needed at all.
		if _, err := l.lowerExpr(n.Rhs, nil); err != nil {
			return LowerResult{}, err
		}
		return operandResult(Constant{Kind: ConstUnit}), nil
	}

	targetPlace, err := l.lowerAsPlace(n.Target)
	if err != nil {
		return LowerResult{}, err
	}
	targetType := l.canon(n.Target.Info().Type)

	if n.Op == ast.Assign {
		rhsRes, err := l.lowerExpr(n.Rhs, &targetPlace)
		if err != nil {
			return LowerResult{}, err
		}
		l.writeToDest(rhsRes, targetPlace, targetType)
		return operandResult(Constant{Kind: ConstUnit}), nil
	}

	// Compound assignment: x op= rhs desugars to x = x op rhs (§9's
	// "compound forms are expanded to their underlying binary op").
	curTemp := l.newTemp(targetType)
	l.emit(&Load{Dest: curTemp, Place: targetPlace})
	rhsRes, err := l.lowerExpr(n.Rhs, nil)
	if err != nil {
		return LowerResult{}, err
	}
	rhsVal := l.asOperand(rhsRes, l.canon(n.Rhs.Info().Type))
	op := compoundBinOp(n.Op, l.prog.Types.Kind(targetType))
	resTemp := l.defineTemp(targetType, BinaryRValue{Op: op, Lhs: TempOperand{Temp: curTemp}, Rhs: rhsVal})
	l.emit(&Assign{Dest: targetPlace, Value: OperandSource{Operand: TempOperand{Temp: resTemp}}})
	return operandResult(Constant{Kind: ConstUnit}), nil
}

func compoundBinOp(op ast.AssignOp, k types.Kind) BinOp {
	signed := types.IsSigned(k)
	switch op {
	case ast.AddAssign:
		return BinAddI
	case ast.SubAssign:
		return BinSubI
	case ast.MulAssign:
		return BinMulI
	case ast.DivAssign:
		if signed {
			return BinSDiv
		}
		return BinUDiv
	case ast.RemAssign:
		if signed {
			return BinSRem
		}
		return BinURem
	case ast.BitAndAssign:
		return BinAnd
	case ast.BitOrAssign:
		return BinOr
	case ast.BitXorAssign:
		return BinXor
	case ast.ShlAssign:
		return BinShl
	case ast.ShrAssign:
		if signed {
			return BinAShr
		}
		return BinLShr
	default:
		return BinAddI
	}
}
