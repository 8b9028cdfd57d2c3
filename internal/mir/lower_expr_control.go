package mir

import (
	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/hir"
	"github.com/rustlite/rlc/internal/types"
)

// lowerIf implements §4.4.2's "If": evaluate the condition, SwitchInt into
// then/else blocks, each lowering its arm with dest forwarded so a
// destination-bearing if can write both arms directly (no temp-then-copy).
// A value-producing if with no dest joins through a phi; a void/never if
// just falls through to join.
func (l *Lowerer) lowerIf(n *hir.If, dest *Place) (LowerResult, error) {
	condRes, err := l.lowerExpr(n.Cond, nil)
	if err != nil {
		return LowerResult{}, err
	}
	boolT := l.prog.Types.Bool()
	condVal := l.asOperand(condRes, boolT)

	thenBlock := l.newBlock("if.then")
	elseBlock := l.newBlock("if.else")
	l.terminate(&SwitchInt{
		Discriminant: condVal,
		Cases:        []SwitchCase{{Value: Constant{Type: boolT, Kind: ConstBool, BoolVal: true}, Block: thenBlock}},
		Otherwise:    elseBlock,
	})

	resultType := l.canon(n.Info().Type)

	l.setBlock(thenBlock)
	thenRes, err := l.lowerBlockBody(n.Then, dest)
	if err != nil {
		return LowerResult{}, err
	}
	thenEnd := l.cur
	thenTerminated := l.block().Terminator != nil

	l.setBlock(elseBlock)
	var elseRes LowerResult
	var elseEnd BlockId
	elseTerminated := false
	if n.Else != nil {
		elseRes, err = l.lowerExpr(n.Else, dest)
		if err != nil {
			return LowerResult{}, err
		}
	} else {
		elseRes = operandResult(Constant{Kind: ConstUnit})
	}
	elseEnd = l.cur
	elseTerminated = l.block().Terminator != nil

	joinBlock := l.newBlock("if.join")
	var incoming []PhiIncoming
	var joinTemp *TempId

	if dest == nil && resultType != l.prog.Types.Unit() && resultType != l.prog.Types.Never() {
		t := l.newTemp(resultType)
		joinTemp = &t
	}

	if !thenTerminated {
		l.setBlock(thenEnd)
		if joinTemp != nil {
			v := l.asOperand(thenRes, resultType)
			incoming = append(incoming, PhiIncoming{Block: thenEnd, Operand: v})
		}
		l.terminate(&Goto{Target: joinBlock})
	}
	if !elseTerminated {
		l.setBlock(elseEnd)
		if joinTemp != nil {
			v := l.asOperand(elseRes, resultType)
			incoming = append(incoming, PhiIncoming{Block: elseEnd, Operand: v})
		}
		l.terminate(&Goto{Target: joinBlock})
	}

	l.setBlock(joinBlock)
	if thenTerminated && elseTerminated {
		l.terminate(&Unreachable{})
		return operandResult(Constant{Kind: ConstUnit}), nil
	}
	if joinTemp != nil {
		l.block().Phis = append(l.block().Phis, Phi{Dest: *joinTemp, Type: resultType, Incoming: incoming})
		return operandResult(TempOperand{Temp: *joinTemp}), nil
	}
	if dest != nil {
		return writtenResult(), nil
	}
	return operandResult(Constant{Kind: ConstUnit}), nil
}

// lowerLoop implements §4.4.2's "Loop": push a LoopContext whose
// continue_block is the body's own entry and whose break_block is a fresh
// block reached only via `break`.
func (l *Lowerer) lowerLoop(n *hir.Loop) (LowerResult, error) {
	bodyBlock := l.newBlock("loop.body")
	breakBlock := l.newBlock("loop.break")
	breakType := l.canon(n.Info().Type)

	ctx := &loopCtx{continueBlock: bodyBlock, breakBlock: breakBlock, breakType: breakType}
	l.loops[n.ID] = ctx
	defer delete(l.loops, n.ID)

	l.terminate(&Goto{Target: bodyBlock})
	l.setBlock(bodyBlock)
	if _, err := l.lowerBlockBody(n.Body, nil); err != nil {
		return LowerResult{}, err
	}
	if l.block().Terminator == nil {
		l.terminate(&Goto{Target: bodyBlock})
	}

	return l.finishLoop(ctx, breakBlock, breakType)
}

// lowerWhile implements §4.4.2's "While": like Loop, but with a header
// block evaluating the condition that either enters the body or jumps
// straight to break_block.
func (l *Lowerer) lowerWhile(n *hir.While) (LowerResult, error) {
	headerBlock := l.newBlock("while.header")
	bodyBlock := l.newBlock("while.body")
	breakBlock := l.newBlock("while.break")
	breakType := l.canon(n.Info().Type)

	ctx := &loopCtx{continueBlock: headerBlock, breakBlock: breakBlock, breakType: breakType}
	l.loops[n.ID] = ctx
	defer delete(l.loops, n.ID)

	l.terminate(&Goto{Target: headerBlock})
	l.setBlock(headerBlock)
	boolT := l.prog.Types.Bool()
	condRes, err := l.lowerExpr(n.Cond, nil)
	if err != nil {
		return LowerResult{}, err
	}
	condVal := l.asOperand(condRes, boolT)
	l.terminate(&SwitchInt{
		Discriminant: condVal,
		Cases:        []SwitchCase{{Value: Constant{Type: boolT, Kind: ConstBool, BoolVal: true}, Block: bodyBlock}},
		Otherwise:    breakBlock,
	})

	l.setBlock(bodyBlock)
	if _, err := l.lowerBlockBody(n.Body, nil); err != nil {
		return LowerResult{}, err
	}
	if l.block().Terminator == nil {
		l.terminate(&Goto{Target: headerBlock})
	}

	return l.finishLoop(ctx, breakBlock, breakType)
}

// finishLoop installs the join-block phi (if any break carried a value)
// once body lowering is complete and positions the lowerer on breakBlock
// so the enclosing context continues from there.
func (l *Lowerer) finishLoop(ctx *loopCtx, breakBlock BlockId, breakType types.Id) (LowerResult, error) {
	l.setBlock(breakBlock)
	unitT := l.prog.Types.Unit()
	if !ctx.hasBreak || ctx.breakTemp == nil || breakType == unitT {
		return operandResult(Constant{Kind: ConstUnit}), nil
	}
	l.block().Phis = append(l.block().Phis, Phi{Dest: *ctx.breakTemp, Type: breakType, Incoming: ctx.incoming})
	return operandResult(TempOperand{Temp: *ctx.breakTemp}), nil
}

// lowerBreak implements §4.4.2's "Break": if the loop expects a value,
// evaluate the payload, materialize it to a temp, record it as a phi
// incoming on the loop's break-block, then Goto(break_block).
func (l *Lowerer) lowerBreak(n *hir.BreakExpr) (LowerResult, error) {
	ctx, ok := l.loops[n.Loop]
	if !ok {
		return LowerResult{}, diag.NewLoweringBug("break outside of any lowered loop")
	}
	ctx.hasBreak = true
	if n.Value != nil {
		valRes, err := l.lowerExpr(n.Value, nil)
		if err != nil {
			return LowerResult{}, err
		}
		val := l.asOperand(valRes, ctx.breakType)
		if ctx.breakTemp == nil {
			t := l.newTemp(ctx.breakType)
			ctx.breakTemp = &t
		}
		ctx.incoming = append(ctx.incoming, PhiIncoming{Block: l.cur, Operand: val})
	}
	l.terminate(&Goto{Target: ctx.breakBlock})
	return operandResult(Constant{Kind: ConstUnit}), nil
}

// lowerContinue implements §4.4.2's "Continue": Goto(continue_block).
func (l *Lowerer) lowerContinue(n *hir.ContinueExpr) (LowerResult, error) {
	ctx, ok := l.loops[n.Loop]
	if !ok {
		return LowerResult{}, diag.NewLoweringBug("continue outside of any lowered loop")
	}
	l.terminate(&Goto{Target: ctx.continueBlock})
	return operandResult(Constant{Kind: ConstUnit}), nil
}

// lowerReturn implements §4.4.2's "Return": an SRET function writes its
// payload to the return slot with write_to_dest and returns void;
// otherwise the payload is coerced as_operand and carried on Return.
func (l *Lowerer) lowerReturn(n *hir.ReturnExpr) (LowerResult, error) {
	if l.fn.Return.Kind == RetIndirectSRet {
		dest := PlaceOf(LocalPlace{Local: l.fn.Storage.ReturnLocal})
		retType := l.fn.Return.Type
		if n.Value != nil {
			valRes, err := l.lowerExpr(n.Value, &dest)
			if err != nil {
				return LowerResult{}, err
			}
			l.writeToDest(valRes, dest, retType)
		}
		l.terminate(&Return{})
		return operandResult(Constant{Kind: ConstUnit}), nil
	}

	if n.Value == nil {
		l.terminate(&Return{})
		return operandResult(Constant{Kind: ConstUnit}), nil
	}
	valRes, err := l.lowerExpr(n.Value, nil)
	if err != nil {
		return LowerResult{}, err
	}
	op := l.asOperand(valRes, l.fn.Return.Type)
	l.terminate(&Return{Value: op})
	return operandResult(Constant{Kind: ConstUnit}), nil
}
