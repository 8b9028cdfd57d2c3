package mir

import "github.com/rustlite/rlc/internal/hir"

// lowerBlockBody lowers a hir.Block's statements followed by its tail
// expression (if any), forwarding dest as the tail's destination hint so
// aggregate tails avoid a temp-then-copy (§4.4 "let pat = init").
//
// Once a statement terminates the current block (divergence), the
// remaining statements are unreachable: the supplemented
// unreachable-code-after-divergence pruning (SPEC_FULL §10) means we stop
// lowering right there instead of emitting dead code after a terminator.
func (l *Lowerer) lowerBlockBody(blk *hir.Block, dest *Place) (LowerResult, error) {
	for _, st := range blk.Stmts {
		if err := l.lowerStmt(st); err != nil {
			return LowerResult{}, err
		}
		if l.block().Terminator != nil {
			return operandResult(Constant{Kind: ConstUnit}), nil
		}
	}
	if blk.Tail == nil {
		return operandResult(Constant{Kind: ConstUnit}), nil
	}
	return l.lowerExpr(blk.Tail, dest)
}

func (l *Lowerer) lowerStmt(s hir.Stmt) error {
	switch st := s.(type) {
	case *hir.LetStmt:
		if st.Init == nil {
			return nil
		}
		place := l.localPlace(st.Local)
		res, err := l.lowerExpr(st.Init, &place)
		if err != nil {
			return err
		}
		l.writeToDest(res, place, l.fn.Locals[int(st.Local)].Type)
		return nil
	case *hir.ExprStmt:
		_, err := l.lowerExpr(st.Expr, nil)
		return err
	case *hir.EmptyStmt:
		return nil
	default:
		return nil
	}
}
