package mir

import "github.com/rustlite/rlc/internal/hir"

// basePlaceForAccess resolves the base of a field/index access to a
// Place, auto-dereferencing one reference layer when the target's static
// type is a reference (the checker already verified this is legal, §4.3
// "field access / index of a place"; a bare value base is materialized
// into a synthetic local, §4.4.2).
func (l *Lowerer) basePlaceForAccess(target hir.Expr) (Place, error) {
	targetType := l.canon(target.Info().Type)
	if _, _, isRef := l.prog.Types.Pointee(targetType); isRef {
		res, err := l.lowerExpr(target, nil)
		if err != nil {
			return Place{}, err
		}
		ptrVal := l.asOperand(res, targetType)
		ptrTemp := l.asTempOperand(ptrVal, targetType)
		return PlaceOf(PointerPlace{Pointer: ptrTemp}), nil
	}
	return l.lowerAsPlace(target)
}

func (l *Lowerer) lowerFieldAccess(n *hir.FieldAccess) (LowerResult, error) {
	base, err := l.basePlaceForAccess(n.Target)
	if err != nil {
		return LowerResult{}, err
	}
	return placeResult(base.Field(n.Index)), nil
}

func (l *Lowerer) lowerIndex(n *hir.Index) (LowerResult, error) {
	base, err := l.basePlaceForAccess(n.Target)
	if err != nil {
		return LowerResult{}, err
	}
	idxRes, err := l.lowerExpr(n.IndexExpr, nil)
	if err != nil {
		return LowerResult{}, err
	}
	idxVal := l.asOperand(idxRes, l.canon(n.IndexExpr.Info().Type))
	return placeResult(base.Index(idxVal)), nil
}
