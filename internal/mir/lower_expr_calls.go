package mir

import (
	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/hir"
)

func (l *Lowerer) lowerCall(n *hir.Call, dest *Place) (LowerResult, error) {
	fu, ok := n.Callee.(*hir.FuncUse)
	if !ok {
		return LowerResult{}, diag.NewLoweringBug("call target is not a direct function reference: %T", n.Callee)
	}
	return l.emitCall(l.prog.Func(fu.Func), n.Args, dest)
}

// lowerMethodCall treats the receiver as the leading argument: the
// checker already verified it matches the method's self-kind exactly, so
// no auto-referencing is needed at this layer (§4.3, §4.4.2).
func (l *Lowerer) lowerMethodCall(n *hir.MethodCall, dest *Place) (LowerResult, error) {
	args := make([]hir.Expr, 0, len(n.Args)+1)
	args = append(args, n.Receiver)
	args = append(args, n.Args...)
	return l.emitCall(l.prog.Func(n.Method), args, dest)
}

// emitCall builds and emits one Call statement (§4.4.2): each argument is
// lowered as_operand (every semantic param in this target is ABIDirect);
// an SRET callee receives the caller's destination hint, or a synthetic
// local if none was given.
func (l *Lowerer) emitCall(callee *hir.Function, argExprs []hir.Expr, dest *Place) (LowerResult, error) {
	retDesc, _ := shapeSignature(callee, l.prog.Types)

	var sretDest *Place
	if retDesc.Kind == RetIndirectSRet {
		target := dest
		if target == nil {
			local := l.newLocal("_call_ret", retDesc.Type)
			p := PlaceOf(LocalPlace{Local: local})
			target = &p
		}
		sretDest = target
	}

	args := make([]Operand, 0, len(argExprs))
	for _, a := range argExprs {
		res, err := l.lowerExpr(a, nil)
		if err != nil {
			return LowerResult{}, err
		}
		args = append(args, l.asOperand(res, l.canon(a.Info().Type)))
	}

	var destTemp *TempId
	if retDesc.Kind == RetDirect {
		t := l.newTemp(retDesc.Type)
		destTemp = &t
	}
	l.emit(&Call{Dest: destTemp, Target: FuncId(callee.ID), Args: args, SRetDest: sretDest})

	switch retDesc.Kind {
	case RetIndirectSRet:
		if dest != nil {
			return writtenResult(), nil
		}
		return placeResult(*sretDest), nil
	case RetDirect:
		return operandResult(TempOperand{Temp: *destTemp}), nil
	default:
		return operandResult(Constant{Kind: ConstUnit}), nil
	}
}
