package mir

import "github.com/rustlite/rlc/internal/hir"

// initLeafFor turns one element's lowering result into the InitLeaf the
// enclosing Init statement should record: Omitted when the element's own
// lowering already wrote fully into its sub-place (deep elision), else the
// concrete ValueSource.
func (l *Lowerer) initLeafFor(res LowerResult) InitLeaf {
	if res.kind == resWritten {
		return InitLeaf{Omitted: true}
	}
	return InitLeaf{Value: l.valueSourceFor(res)}
}

func (l *Lowerer) valueSourceFor(res LowerResult) ValueSource {
	if res.kind == resOperand {
		return OperandSource{Operand: res.operand}
	}
	return PlaceSource{Place: res.place}
}

func (l *Lowerer) lowerStructLiteral(n *hir.StructLiteral, dest *Place) (LowerResult, error) {
	target := dest
	if target == nil {
		local := l.newLocal("_struct_tmp", l.canon(n.Info().Type))
		p := PlaceOf(LocalPlace{Local: local})
		target = &p
	}
	leaves := make([]InitLeaf, len(n.Fields))
	for i, f := range n.Fields {
		fieldPlace := target.Field(f.Index)
		res, err := l.lowerExpr(f.Value, &fieldPlace)
		if err != nil {
			return LowerResult{}, err
		}
		leaves[i] = l.initLeafFor(res)
	}
	l.emit(&Init{Dest: *target, Pattern: InitStruct{Leaves: leaves}})
	if dest != nil {
		return writtenResult(), nil
	}
	return placeResult(*target), nil
}

func (l *Lowerer) lowerArrayInit(n *hir.ArrayInit, dest *Place) (LowerResult, error) {
	target := dest
	if target == nil {
		local := l.newLocal("_array_tmp", l.canon(n.Info().Type))
		p := PlaceOf(LocalPlace{Local: local})
		target = &p
	}
	usize := l.prog.Types.Usize()
	leaves := make([]InitLeaf, len(n.Elements))
	for i, el := range n.Elements {
		idxConst := Constant{Type: usize, Kind: ConstInt, IntVal: uint64(i)}
		elemPlace := target.Index(idxConst)
		res, err := l.lowerExpr(el, &elemPlace)
		if err != nil {
			return LowerResult{}, err
		}
		leaves[i] = l.initLeafFor(res)
	}
	l.emit(&Init{Dest: *target, Pattern: InitArrayLiteral{Leaves: leaves}})
	if dest != nil {
		return writtenResult(), nil
	}
	return placeResult(*target), nil
}

// lowerArrayRepeat lowers `[value; count]`. The count is read off the
// expression's own canonicalized array type rather than re-evaluating
// CountExpr: by MIR time the checker has already fixed the array's shape,
// and §3.5 requires every array type to carry a resolved static size.
func (l *Lowerer) lowerArrayRepeat(n *hir.ArrayRepeat, dest *Place) (LowerResult, error) {
	arrType := l.canon(n.Info().Type)
	_, size, _ := l.prog.Types.ArrayShape(arrType)
	target := dest
	if target == nil {
		local := l.newLocal("_array_tmp", arrType)
		p := PlaceOf(LocalPlace{Local: local})
		target = &p
	}
	valRes, err := l.lowerExpr(n.Value, nil)
	if err != nil {
		return LowerResult{}, err
	}
	l.emit(&Init{Dest: *target, Pattern: InitArrayRepeat{Element: l.valueSourceFor(valRes), Count: size}})
	if dest != nil {
		return writtenResult(), nil
	}
	return placeResult(*target), nil
}
