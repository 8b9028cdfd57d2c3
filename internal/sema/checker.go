// Package sema implements the semantic checker (spec §4.3): it walks an
// already-resolved hir.Program and attaches the authoritative ExprInfo
// (type, place-ness, mutability, endpoints) to every expression, then runs
// the separate exit-check sweep over `main`.
package sema

import (
	"github.com/rustlite/rlc/internal/ast"
	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/hir"
	"github.com/rustlite/rlc/internal/types"
)

// Check runs the semantic checker and exit-check pass over prog, returning
// the first violation encountered.
func Check(prog *hir.Program) error {
	c := &Checker{prog: prog, loopBreaks: map[hir.LoopId][]types.Id{}}
	for _, fn := range prog.Funcs {
		if fn.Body == nil {
			continue
		}
		c.fn = fn
		if _, err := c.checkBlock(fn.Body); err != nil {
			return err
		}
	}
	return runExitCheck(prog)
}

// Checker carries the per-function state needed while walking one body.
type Checker struct {
	prog       *hir.Program
	fn         *hir.Function
	loopBreaks map[hir.LoopId][]types.Id
}

func normalSet() hir.EndpointSet { return hir.NewEndpointSet(hir.Endpoint{Kind: hir.Normal}) }

// seq folds a left-to-right evaluation sequence's endpoint sets: once a
// part diverges, later parts are unreachable and do not contribute their
// own Normal endpoint, but any of their non-Normal escapes are still folded
// in (spec §4.3's general composition rule).
func seq(parts ...hir.EndpointSet) hir.EndpointSet {
	out := normalSet()
	diverged := false
	for _, p := range parts {
		if diverged {
			continue
		}
		if !p.Has(hir.Normal) {
			out = out.Union(p)
			delete(out, hir.Endpoint{Kind: hir.Normal})
			diverged = true
		} else {
			out = out.Union(p)
		}
	}
	return out
}

func (c *Checker) finalize(eps hir.EndpointSet, natural types.Id) types.Id {
	if !eps.Has(hir.Normal) {
		return c.prog.Types.Never()
	}
	return natural
}

// ---- blocks & statements ----------------------------------------------------

func (c *Checker) checkBlock(blk *hir.Block) (*hir.ExprInfo, error) {
	eps := normalSet()
	diverged := false
	for _, st := range blk.Stmts {
		stEps, err := c.checkStmt(st)
		if err != nil {
			return nil, err
		}
		if diverged {
			continue
		}
		if !stEps.Has(hir.Normal) {
			eps = eps.Union(stEps)
			delete(eps, hir.Endpoint{Kind: hir.Normal})
			diverged = true
		} else {
			eps = eps.Union(stEps)
		}
	}

	var tailType types.Id
	if blk.Tail != nil {
		tailInfo, err := c.checkExpr(blk.Tail)
		if err != nil {
			return nil, err
		}
		if !diverged {
			if !tailInfo.Endpoints.Has(hir.Normal) {
				eps = eps.Union(tailInfo.Endpoints)
				delete(eps, hir.Endpoint{Kind: hir.Normal})
			} else {
				eps = eps.Union(tailInfo.Endpoints)
			}
			tailType = tailInfo.Type
		}
	} else {
		tailType = c.prog.Types.Unit()
	}

	blockType := c.finalize(eps, tailType)
	info := &hir.ExprInfo{Type: blockType, Endpoints: eps}
	blk.SetInfo(info)
	return info, nil
}

func (c *Checker) checkStmt(s hir.Stmt) (hir.EndpointSet, error) {
	switch st := s.(type) {
	case *hir.LetStmt:
		if st.Init == nil {
			return normalSet(), nil
		}
		builtType := st.Init.Info().Type
		info, err := c.checkExpr(st.Init)
		if err != nil {
			return nil, err
		}
		local := &c.fn.Locals[st.Local]
		if local.Type == builtType && info.Type != builtType && !isUnsuffixedIntLit(st.Init) {
			// An unannotated let took the builder's structural type for its
			// initializer; the checked type refines it.
			local.Type = info.Type
		}
		if isUnsuffixedIntLit(st.Init) && types.IsIntegerKind(c.prog.Types.Kind(local.Type)) {
			c.defaultLiteralTo(st.Init, local.Type)
			info = st.Init.Info()
		}
		if local.Type != info.Type {
			return nil, diag.NewTypeError(st.Span(), "initializer type %s does not match declared type %s",
				c.prog.Types.String(info.Type), c.prog.Types.String(local.Type))
		}
		return info.Endpoints, nil
	case *hir.ExprStmt:
		info, err := c.checkExpr(st.Expr)
		if err != nil {
			return nil, err
		}
		return info.Endpoints, nil
	case *hir.EmptyStmt:
		return normalSet(), nil
	default:
		return normalSet(), nil
	}
}

// ---- expressions -------------------------------------------------------------

func (c *Checker) checkExpr(e hir.Expr) (*hir.ExprInfo, error) {
	switch n := e.(type) {
	case *hir.IntegerLit, *hir.BoolLit, *hir.CharLit, *hir.StringLit, *hir.Underscore, *hir.EnumVariantExpr, *hir.FuncUse:
		info := &hir.ExprInfo{Type: e.Info().Type, Endpoints: normalSet()}
		e.SetInfo(info)
		return info, nil
	case *hir.ConstUse:
		info := &hir.ExprInfo{Type: n.Info().Type, Endpoints: normalSet()}
		n.SetInfo(info)
		return info, nil
	case *hir.Variable:
		local := c.fn.Locals[n.Local]
		info := &hir.ExprInfo{Type: local.Type, IsPlace: true, IsMut: local.Mutable, Endpoints: normalSet()}
		n.SetInfo(info)
		return info, nil
	case *hir.Unary:
		return c.checkUnary(n)
	case *hir.Binary:
		return c.checkBinary(n)
	case *hir.Assign:
		return c.checkAssign(n)
	case *hir.Cast:
		return c.checkCast(n)
	case *hir.ArrayInit:
		return c.checkArrayInit(n)
	case *hir.ArrayRepeat:
		return c.checkArrayRepeat(n)
	case *hir.Index:
		return c.checkIndex(n)
	case *hir.StructLiteral:
		return c.checkStructLiteral(n)
	case *hir.Call:
		return c.checkCall(n)
	case *hir.MethodCall:
		return c.checkMethodCall(n)
	case *hir.FieldAccess:
		return c.checkFieldAccess(n)
	case *hir.If:
		return c.checkIf(n)
	case *hir.Loop:
		return c.checkLoop(n)
	case *hir.While:
		return c.checkWhile(n)
	case *hir.ReturnExpr:
		return c.checkReturn(n)
	case *hir.BreakExpr:
		return c.checkBreak(n)
	case *hir.ContinueExpr:
		info := &hir.ExprInfo{Type: c.prog.Types.Never(), Endpoints: hir.NewEndpointSet(hir.Endpoint{Kind: hir.Continue, Loop: n.Loop})}
		n.SetInfo(info)
		return info, nil
	case *hir.Block:
		return c.checkBlock(n)
	default:
		return nil, diag.NewTypeError(e.Span(), "unchecked expression kind")
	}
}

func (c *Checker) checkUnary(n *hir.Unary) (*hir.ExprInfo, error) {
	operand, err := c.checkExpr(n.Operand)
	if err != nil {
		return nil, err
	}
	var natural types.Id
	isPlace, isMut := false, false
	switch n.Op {
	case ast.Not:
		k := c.prog.Types.Kind(operand.Type)
		if k != types.KindBool && !types.IsIntegerKind(k) {
			return nil, diag.NewTypeError(n.Span(), "operand of '!' must be bool or integer, found %s", c.prog.Types.String(operand.Type))
		}
		natural = operand.Type
	case ast.Neg:
		k := c.prog.Types.Kind(operand.Type)
		if !types.IsIntegerKind(k) {
			return nil, diag.NewTypeError(n.Span(), "operand of unary '-' must be numeric, found %s", c.prog.Types.String(operand.Type))
		}
		natural = operand.Type
	case ast.Ref, ast.RefMut:
		if n.Op == ast.RefMut && operand.IsPlace && !operand.IsMut {
			return nil, diag.NewTypeError(n.Span(), "cannot take '&mut' of an immutable place")
		}
		natural = c.prog.Types.Reference(operand.Type, n.Op == ast.RefMut)
	case ast.Deref:
		pointee, mutable, ok := c.prog.Types.Pointee(operand.Type)
		if !ok {
			return nil, diag.NewTypeError(n.Span(), "cannot dereference non-reference type %s", c.prog.Types.String(operand.Type))
		}
		natural = pointee
		isPlace = true
		isMut = mutable
	}
	info := &hir.ExprInfo{
		Type:      c.finalize(operand.Endpoints, natural),
		IsPlace:   isPlace,
		IsMut:     isMut,
		Endpoints: operand.Endpoints,
	}
	n.SetInfo(info)
	return info, nil
}

func isUnsuffixedIntLit(e hir.Expr) bool {
	lit, ok := e.(*hir.IntegerLit)
	return ok && lit.Suffix == ""
}

func (c *Checker) defaultLiteralTo(e hir.Expr, target types.Id) {
	if lit, ok := e.(*hir.IntegerLit); ok {
		lit.SetInfo(&hir.ExprInfo{Type: target, Endpoints: normalSet()})
	}
}

func (c *Checker) checkBinary(n *hir.Binary) (*hir.ExprInfo, error) {
	left, err := c.checkExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.checkExpr(n.Right)
	if err != nil {
		return nil, err
	}

	leftIsLit, rightIsLit := isUnsuffixedIntLit(n.Left), isUnsuffixedIntLit(n.Right)
	switch {
	case leftIsLit && !rightIsLit && types.IsIntegerKind(c.prog.Types.Kind(right.Type)):
		c.defaultLiteralTo(n.Left, right.Type)
		left = n.Left.Info()
	case rightIsLit && !leftIsLit && types.IsIntegerKind(c.prog.Types.Kind(left.Type)):
		c.defaultLiteralTo(n.Right, left.Type)
		right = n.Right.Info()
	}

	var natural types.Id
	switch n.Op {
	case ast.LogAnd, ast.LogOr:
		if c.prog.Types.Kind(left.Type) != types.KindBool || c.prog.Types.Kind(right.Type) != types.KindBool {
			return nil, diag.NewTypeError(n.Span(), "operands of logical operator must be bool")
		}
		natural = c.prog.Types.Bool()
	case ast.CmpEq, ast.CmpNe, ast.CmpLt, ast.CmpLe, ast.CmpGt, ast.CmpGe:
		if left.Type != right.Type {
			return nil, diag.NewTypeError(n.Span(), "comparison operands have mismatched types %s and %s",
				c.prog.Types.String(left.Type), c.prog.Types.String(right.Type))
		}
		natural = c.prog.Types.Bool()
	default: // arithmetic / bitwise / shift
		if !types.IsIntegerKind(c.prog.Types.Kind(left.Type)) || left.Type != right.Type {
			return nil, diag.NewTypeError(n.Span(), "operands of binary operator must share the same integer type, found %s and %s",
				c.prog.Types.String(left.Type), c.prog.Types.String(right.Type))
		}
		natural = left.Type
	}

	eps := seq(left.Endpoints, right.Endpoints)
	info := &hir.ExprInfo{Type: c.finalize(eps, natural), Endpoints: eps}
	n.SetInfo(info)
	return info, nil
}

func (c *Checker) checkAssign(n *hir.Assign) (*hir.ExprInfo, error) {
	target, err := c.checkExpr(n.Target)
	if err != nil {
		return nil, err
	}
	rhs, err := c.checkExpr(n.Rhs)
	if err != nil {
		return nil, err
	}
	_, isDiscard := n.Target.(*hir.Underscore)
	if !isDiscard && (!target.IsPlace || !target.IsMut) {
		return nil, diag.NewTypeError(n.Span(), "assignment target is not a mutable place")
	}
	if !isDiscard {
		if isUnsuffixedIntLit(n.Rhs) && types.IsIntegerKind(c.prog.Types.Kind(target.Type)) {
			c.defaultLiteralTo(n.Rhs, target.Type)
			rhs = n.Rhs.Info()
		}
		if target.Type != rhs.Type {
			return nil, diag.NewTypeError(n.Span(), "cannot assign %s to place of type %s",
				c.prog.Types.String(rhs.Type), c.prog.Types.String(target.Type))
		}
		if n.Op != ast.Assign && !types.IsIntegerKind(c.prog.Types.Kind(target.Type)) {
			return nil, diag.NewTypeError(n.Span(), "compound assignment operand must be an integer type, found %s",
				c.prog.Types.String(target.Type))
		}
	}
	eps := seq(target.Endpoints, rhs.Endpoints)
	info := &hir.ExprInfo{Type: c.finalize(eps, c.prog.Types.Unit()), Endpoints: eps}
	n.SetInfo(info)
	return info, nil
}

func (c *Checker) checkCast(n *hir.Cast) (*hir.ExprInfo, error) {
	operand, err := c.checkExpr(n.Operand)
	if err != nil {
		return nil, err
	}
	srcKind := c.prog.Types.Kind(operand.Type)
	dstKind := c.prog.Types.Kind(n.Target)
	castable := func(k types.Kind) bool {
		return types.IsIntegerKind(k) || k == types.KindBool || k == types.KindChar
	}
	if !castable(srcKind) || !castable(dstKind) {
		return nil, diag.NewTypeError(n.Span(), "cannot cast %s to %s", c.prog.Types.String(operand.Type), c.prog.Types.String(n.Target))
	}
	info := &hir.ExprInfo{Type: c.finalize(operand.Endpoints, n.Target), Endpoints: operand.Endpoints}
	n.SetInfo(info)
	return info, nil
}

func (c *Checker) checkArrayInit(n *hir.ArrayInit) (*hir.ExprInfo, error) {
	var eps []hir.EndpointSet
	var elemType types.Id
	for i, el := range n.Elements {
		info, err := c.checkExpr(el)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			elemType = info.Type
		} else if info.Type != elemType {
			return nil, diag.NewTypeError(el.Span(), "array element type %s does not match %s",
				c.prog.Types.String(info.Type), c.prog.Types.String(elemType))
		}
		eps = append(eps, info.Endpoints)
	}
	combined := seq(eps...)
	natural := c.prog.Types.Array(elemType, uint64(len(n.Elements)))
	info := &hir.ExprInfo{Type: c.finalize(combined, natural), Endpoints: combined}
	n.SetInfo(info)
	return info, nil
}

func (c *Checker) checkArrayRepeat(n *hir.ArrayRepeat) (*hir.ExprInfo, error) {
	value, err := c.checkExpr(n.Value)
	if err != nil {
		return nil, err
	}
	eps := value.Endpoints
	if n.CountExpr != nil {
		countInfo, err := c.checkExpr(n.CountExpr)
		if err != nil {
			return nil, err
		}
		if c.prog.Types.Kind(countInfo.Type) != types.KindUsize {
			return nil, diag.NewTypeError(n.CountExpr.Span(), "array repeat count must be usize")
		}
		eps = seq(value.Endpoints, countInfo.Endpoints)
	}
	size := n.CompileTimeSize
	natural := c.prog.Types.Array(value.Type, size)
	info := &hir.ExprInfo{Type: c.finalize(eps, natural), Endpoints: eps}
	n.SetInfo(info)
	return info, nil
}

func (c *Checker) checkIndex(n *hir.Index) (*hir.ExprInfo, error) {
	target, err := c.checkExpr(n.Target)
	if err != nil {
		return nil, err
	}
	index, err := c.checkExpr(n.IndexExpr)
	if err != nil {
		return nil, err
	}
	if c.prog.Types.Kind(index.Type) != types.KindUsize && !types.IsIntegerKind(c.prog.Types.Kind(index.Type)) {
		return nil, diag.NewTypeError(n.IndexExpr.Span(), "array index must be an integer type")
	}
	baseType := target.Type
	if pointee, _, ok := c.prog.Types.Pointee(baseType); ok {
		baseType = pointee
	}
	elem, _, ok := c.prog.Types.ArrayShape(baseType)
	if !ok {
		return nil, diag.NewTypeError(n.Span(), "cannot index non-array type %s", c.prog.Types.String(target.Type))
	}
	eps := seq(target.Endpoints, index.Endpoints)
	info := &hir.ExprInfo{
		Type:      c.finalize(eps, elem),
		IsPlace:   target.IsPlace,
		IsMut:     target.IsMut,
		Endpoints: eps,
	}
	n.SetInfo(info)
	return info, nil
}

func (c *Checker) checkStructLiteral(n *hir.StructLiteral) (*hir.ExprInfo, error) {
	structInfo, _ := c.prog.Types.Struct(n.Type)
	var eps []hir.EndpointSet
	for i := range n.Fields {
		fi := &n.Fields[i]
		info, err := c.checkExpr(fi.Value)
		if err != nil {
			return nil, err
		}
		want := structInfo.Fields[fi.Index].Type
		if isUnsuffixedIntLit(fi.Value) && types.IsIntegerKind(c.prog.Types.Kind(want)) {
			c.defaultLiteralTo(fi.Value, want)
			info = fi.Value.Info()
		}
		if info.Type != want {
			return nil, diag.NewTypeError(fi.Value.Span(), "field %q expects %s, found %s",
				fi.Name, c.prog.Types.String(want), c.prog.Types.String(info.Type))
		}
		eps = append(eps, info.Endpoints)
	}
	combined := seq(eps...)
	info := &hir.ExprInfo{Type: c.finalize(combined, n.Type), Endpoints: combined}
	n.SetInfo(info)
	return info, nil
}

func (c *Checker) checkCall(n *hir.Call) (*hir.ExprInfo, error) {
	calleeInfo, err := c.checkExpr(n.Callee)
	if err != nil {
		return nil, err
	}
	fu, ok := n.Callee.(*hir.FuncUse)
	if !ok {
		return nil, diag.NewTypeError(n.Span(), "call target is not a function")
	}
	fn := c.prog.Funcs[fu.Func]
	if len(n.Args) != len(fn.Params) {
		return nil, diag.NewTypeError(n.Span(), "function %q expects %d arguments, found %d", fn.Name, len(fn.Params), len(n.Args))
	}
	eps := []hir.EndpointSet{calleeInfo.Endpoints}
	for i, a := range n.Args {
		info, err := c.checkExpr(a)
		if err != nil {
			return nil, err
		}
		want := fn.Params[i].Type
		if isUnsuffixedIntLit(a) && types.IsIntegerKind(c.prog.Types.Kind(want)) {
			c.defaultLiteralTo(a, want)
			info = a.Info()
		}
		if info.Type != want {
			return nil, diag.NewTypeError(a.Span(), "argument %d to %q expects %s, found %s", i, fn.Name,
				c.prog.Types.String(want), c.prog.Types.String(info.Type))
		}
		eps = append(eps, info.Endpoints)
	}
	combined := seq(eps...)
	info := &hir.ExprInfo{Type: c.finalize(combined, fn.Return), Endpoints: combined}
	n.SetInfo(info)
	return info, nil
}

func (c *Checker) checkMethodCall(n *hir.MethodCall) (*hir.ExprInfo, error) {
	receiver, err := c.checkExpr(n.Receiver)
	if err != nil {
		return nil, err
	}
	fn := c.prog.Funcs[n.Method]
	if fn.Self != nil {
		recvBase, recvMutable, recvIsRef := c.prog.Types.Pointee(receiver.Type)
		if !recvIsRef {
			recvBase = receiver.Type
		}
		selfBase, _, selfIsRef := c.prog.Types.Pointee(fn.Self.Type)
		if !selfIsRef {
			selfBase = fn.Self.Type
		}
		if recvBase != selfBase {
			return nil, diag.NewTypeError(n.Span(), "receiver type %s does not match method %q's self type",
				c.prog.Types.String(receiver.Type), n.Name)
		}
		if fn.Self.IsReference && fn.Self.IsMutable {
			switch {
			case recvIsRef && !recvMutable:
				return nil, diag.NewTypeError(n.Span(), "method %q requires a mutable reference receiver", n.Name)
			case !recvIsRef && (!receiver.IsPlace || !receiver.IsMut):
				return nil, diag.NewTypeError(n.Span(), "method %q requires a mutable receiver", n.Name)
			}
		}
	}
	if len(n.Args) != len(fn.Params) {
		return nil, diag.NewTypeError(n.Span(), "method %q expects %d arguments, found %d", fn.Name, len(fn.Params), len(n.Args))
	}
	eps := []hir.EndpointSet{receiver.Endpoints}
	for i, a := range n.Args {
		info, err := c.checkExpr(a)
		if err != nil {
			return nil, err
		}
		want := fn.Params[i].Type
		if isUnsuffixedIntLit(a) && types.IsIntegerKind(c.prog.Types.Kind(want)) {
			c.defaultLiteralTo(a, want)
			info = a.Info()
		}
		if info.Type != want {
			return nil, diag.NewTypeError(a.Span(), "argument %d to %q expects %s, found %s", i, fn.Name,
				c.prog.Types.String(want), c.prog.Types.String(info.Type))
		}
		eps = append(eps, info.Endpoints)
	}
	combined := seq(eps...)
	info := &hir.ExprInfo{Type: c.finalize(combined, fn.Return), Endpoints: combined}
	n.SetInfo(info)
	return info, nil
}

func (c *Checker) checkFieldAccess(n *hir.FieldAccess) (*hir.ExprInfo, error) {
	target, err := c.checkExpr(n.Target)
	if err != nil {
		return nil, err
	}
	baseType := target.Type
	if pointee, _, ok := c.prog.Types.Pointee(baseType); ok {
		baseType = pointee
	}
	structInfo, ok := c.prog.Types.Struct(baseType)
	if !ok {
		return nil, diag.NewTypeError(n.Span(), "field access on non-struct type %s", c.prog.Types.String(target.Type))
	}
	fieldType := structInfo.Fields[n.Index].Type
	info := &hir.ExprInfo{
		Type:      c.finalize(target.Endpoints, fieldType),
		IsPlace:   target.IsPlace,
		IsMut:     target.IsMut,
		Endpoints: target.Endpoints,
	}
	n.SetInfo(info)
	return info, nil
}

func (c *Checker) checkIf(n *hir.If) (*hir.ExprInfo, error) {
	cond, err := c.checkExpr(n.Cond)
	if err != nil {
		return nil, err
	}
	if c.prog.Types.Kind(cond.Type) != types.KindBool {
		return nil, diag.NewTypeError(n.Cond.Span(), "'if' condition must be bool, found %s", c.prog.Types.String(cond.Type))
	}
	thenInfo, err := c.checkExpr(n.Then)
	if err != nil {
		return nil, err
	}

	var natural types.Id
	var branchEps hir.EndpointSet
	if n.Else != nil {
		elseInfo, err := c.checkExpr(n.Else)
		if err != nil {
			return nil, err
		}
		if thenInfo.Type != elseInfo.Type && thenInfo.Endpoints.Has(hir.Normal) && elseInfo.Endpoints.Has(hir.Normal) {
			return nil, diag.NewTypeError(n.Span(), "'if' branches have mismatched types %s and %s",
				c.prog.Types.String(thenInfo.Type), c.prog.Types.String(elseInfo.Type))
		}
		natural = thenInfo.Type
		if !thenInfo.Endpoints.Has(hir.Normal) {
			natural = elseInfo.Type
		}
		branchEps = thenInfo.Endpoints.Union(elseInfo.Endpoints)
	} else {
		natural = c.prog.Types.Unit()
		branchEps = thenInfo.Endpoints.Union(normalSet())
	}

	eps := seq(cond.Endpoints, branchEps)
	info := &hir.ExprInfo{Type: c.finalize(eps, natural), Endpoints: eps}
	n.SetInfo(info)
	return info, nil
}

func (c *Checker) checkLoop(n *hir.Loop) (*hir.ExprInfo, error) {
	c.loopBreaks[n.ID] = nil
	bodyInfo, err := c.checkBlock(n.Body)
	if err != nil {
		return nil, err
	}
	breakTypes := c.loopBreaks[n.ID]
	delete(c.loopBreaks, n.ID)

	eps := hir.EndpointSet{}
	if bodyInfo.Endpoints.HasBreakOf(n.ID) {
		eps[hir.Endpoint{Kind: hir.Normal}] = struct{}{}
	}
	for e := range bodyInfo.Endpoints {
		switch e.Kind {
		case hir.Return:
			eps[e] = struct{}{}
		case hir.Break:
			if e.Loop != n.ID {
				eps[e] = struct{}{}
			}
		case hir.Continue:
			if e.Loop != n.ID {
				eps[e] = struct{}{}
			}
		}
	}

	var natural types.Id
	if len(breakTypes) == 0 {
		natural = c.prog.Types.Never()
	} else {
		natural = breakTypes[0]
		for _, t := range breakTypes[1:] {
			if t != natural {
				return nil, diag.NewTypeError(n.Span(), "loop break values have mismatched types")
			}
		}
	}

	info := &hir.ExprInfo{Type: c.finalize(eps, natural), Endpoints: eps}
	n.SetInfo(info)
	return info, nil
}

func (c *Checker) checkWhile(n *hir.While) (*hir.ExprInfo, error) {
	cond, err := c.checkExpr(n.Cond)
	if err != nil {
		return nil, err
	}
	if c.prog.Types.Kind(cond.Type) != types.KindBool {
		return nil, diag.NewTypeError(n.Cond.Span(), "'while' condition must be bool, found %s", c.prog.Types.String(cond.Type))
	}
	c.loopBreaks[n.ID] = nil
	bodyInfo, err := c.checkBlock(n.Body)
	delete(c.loopBreaks, n.ID)
	if err != nil {
		return nil, err
	}
	if bodyInfo.Type != c.prog.Types.Unit() && bodyInfo.Endpoints.Has(hir.Normal) {
		return nil, diag.NewTypeError(n.Body.Span(), "'while' body must have unit type, found %s", c.prog.Types.String(bodyInfo.Type))
	}
	eps := normalSet()
	info := &hir.ExprInfo{Type: c.prog.Types.Unit(), Endpoints: eps}
	n.SetInfo(info)
	return info, nil
}

func (c *Checker) checkReturn(n *hir.ReturnExpr) (*hir.ExprInfo, error) {
	wantType := c.fn.Return
	var eps hir.EndpointSet = normalSet()
	if n.Value != nil {
		info, err := c.checkExpr(n.Value)
		if err != nil {
			return nil, err
		}
		if isUnsuffixedIntLit(n.Value) && types.IsIntegerKind(c.prog.Types.Kind(wantType)) {
			c.defaultLiteralTo(n.Value, wantType)
			info = n.Value.Info()
		}
		if info.Type != wantType {
			return nil, diag.NewTypeError(n.Span(), "return type %s does not match function return type %s",
				c.prog.Types.String(info.Type), c.prog.Types.String(wantType))
		}
		eps = info.Endpoints
	} else if c.prog.Types.Kind(wantType) != types.KindUnit {
		return nil, diag.NewTypeError(n.Span(), "bare 'return' in function with non-unit return type %s", c.prog.Types.String(wantType))
	}
	combined := seq(eps, hir.NewEndpointSet(hir.Endpoint{Kind: hir.Return}))
	info := &hir.ExprInfo{Type: c.prog.Types.Never(), Endpoints: combined}
	n.SetInfo(info)
	return info, nil
}

func (c *Checker) checkBreak(n *hir.BreakExpr) (*hir.ExprInfo, error) {
	var valueType types.Id = c.prog.Types.Unit()
	var eps hir.EndpointSet = normalSet()
	if n.Value != nil {
		info, err := c.checkExpr(n.Value)
		if err != nil {
			return nil, err
		}
		valueType = info.Type
		eps = info.Endpoints
	}
	c.loopBreaks[n.Loop] = append(c.loopBreaks[n.Loop], valueType)
	combined := seq(eps, hir.NewEndpointSet(hir.Endpoint{Kind: hir.Break, Loop: n.Loop}))
	info := &hir.ExprInfo{Type: c.prog.Types.Never(), Endpoints: combined}
	n.SetInfo(info)
	return info, nil
}
