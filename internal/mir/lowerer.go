package mir

import (
	"github.com/rustlite/rlc/internal/hir"
	"github.com/rustlite/rlc/internal/types"
)

// lowerFunction implements §4.4.1: build the signature/ABI shape, the
// return-storage plan, then walk the body producing basic blocks. A
// body-less hir.Function (a signature-only declaration, e.g. `fn exit(code:
// i32);`) lowers to an external declaration with no blocks.
func (l *Lowerer) lowerFunction(hfn *hir.Function) (*Function, error) {
	fn := &Function{ID: FuncId(hfn.ID), Name: hfn.Name, IsExtern: hfn.Body == nil}
	l.fn = fn
	l.loops = map[hir.LoopId]*loopCtx{}

	// Pre-allocate one mir Local per hir Local so that mir LocalId(i) ==
	// hir LocalId(i): the HIR builder already finished populating
	// Function.Locals (parameters first, then every let-binding in
	// declaration order) before lowering ever runs.
	for _, hl := range hfn.Locals {
		fn.Locals = append(fn.Locals, Local{Name: hl.Name, Type: l.canon(hl.Type)})
	}
	l.hirLocalBase = len(fn.Locals)

	semParams := semanticParams(hfn)
	for _, sp := range semParams {
		fn.Params = append(fn.Params, Param{Name: sp.name, Local: LocalId(sp.local), Type: l.canon(sp.typ)})
	}

	retType := l.canon(hfn.Return)
	fn.Return, fn.ABIParams = shapeSignature(hfn, l.prog.Types)
	indirect := fn.Return.Kind == RetIndirectSRet

	if indirect {
		fn.Storage.UsesSRet = true
		fn.Storage.SRetABIndex = 0
		if nrvo, ok := findNRVOLocal(hfn, retType); ok {
			fn.Locals[nrvo].Alias = AliasOfABIParam
			fn.Locals[nrvo].AliasOf = 0
			fn.Storage.ReturnLocal = LocalId(nrvo)
		} else {
			slot := fn.newLocal("_ret_slot", retType)
			fn.Locals[slot].Alias = AliasOfABIParam
			fn.Locals[slot].AliasOf = 0
			fn.Storage.ReturnLocal = slot
		}
	}

	if hfn.Body == nil {
		return fn, nil
	}

	entry := l.newBlock("entry")
	fn.StartBlock = entry
	l.setBlock(entry)

	// Parameter stores: each non-aliased semantic parameter's ABI value is
	// stored into its Local in the entry block.
	for i, sp := range semParams {
		abi := fn.ABIParams[abiFor(fn, i)]
		l.emit(&Assign{Dest: l.localPlace(sp.local), Value: OperandSource{Operand: abiParamOperand(abi)}})
	}

	var dest *Place
	if indirect {
		retPlace := PlaceOf(LocalPlace{Local: fn.Storage.ReturnLocal})
		dest = &retPlace
	}
	res, err := l.loweringPanic(func() (LowerResult, error) { return l.lowerBlockBody(hfn.Body, dest) })
	if err != nil {
		return nil, err
	}
	if l.block().Terminator == nil {
		l.finishImplicitReturn(res, retType)
	}
	return fn, nil
}

// loweringPanic converts the panic-based invariant violations raised by
// emit/terminate (programmer errors, §3.5) into a returned error so a
// malformed program can't crash the whole compiler process.
func (l *Lowerer) loweringPanic(f func() (LowerResult, error)) (res LowerResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	return f()
}

// abiFor maps a semantic-param index to its ABIParams index (accounting
// for a leading SRET slot).
func abiFor(fn *Function, semanticIdx int) int {
	for i, a := range fn.ABIParams {
		if a.Kind != ABISRet && a.SemanticParam == semanticIdx {
			return i
		}
	}
	panic("mir: semantic param has no ABI entry")
}

func abiParamOperand(a ABIParam) Operand {
	// ABI parameter values are referenced by their position; the emitter
	// resolves this to the function's %argN at emission time via
	// ABIParamOperand. Lowering only needs a marker operand here.
	return ABIParamOperand{Index: a.SemanticParam}
}

// finishImplicitReturn installs the terminator for a function body whose
// last block fell off the end without an explicit `return` (the tail
// expression's value is the function's result, or there is none).
func (l *Lowerer) finishImplicitReturn(res LowerResult, retType types.Id) {
	switch l.fn.Return.Kind {
	case RetNever:
		l.terminate(&Unreachable{})
	case RetVoid:
		l.terminate(&Return{})
	case RetIndirectSRet:
		dest := PlaceOf(LocalPlace{Local: l.fn.Storage.ReturnLocal})
		l.writeToDest(res, dest, retType)
		l.terminate(&Return{})
	default:
		op := l.asOperand(res, retType)
		l.terminate(&Return{Value: op})
	}
}

type semanticParam struct {
	name  string
	local hir.LocalId
	typ   types.Id
}

func semanticParams(hfn *hir.Function) []semanticParam {
	var out []semanticParam
	if hfn.Self != nil {
		out = append(out, semanticParam{name: "self", local: hfn.Self.Local, typ: hfn.Self.Type})
	}
	for _, p := range hfn.Params {
		out = append(out, semanticParam{name: p.Name, local: p.Local, typ: p.Type})
	}
	return out
}

// shapeSignature computes a function's ReturnDesc and ABI parameter list
// from its HIR signature alone (§4.4.1 step 1) — independent of whether
// the function's body has been lowered yet, so call sites can shape a
// callee's signature without ordering constraints.
func shapeSignature(hfn *hir.Function, tctx *types.Context) (ReturnDesc, []ABIParam) {
	retType := tctx.Canonicalize(hfn.Return)
	indirect := isAggregate(tctx, retType)

	var ret ReturnDesc
	switch {
	case retType == tctx.Never():
		ret = ReturnDesc{Kind: RetNever}
	case retType == tctx.Unit():
		ret = ReturnDesc{Kind: RetVoid}
	case indirect:
		ret = ReturnDesc{Kind: RetIndirectSRet, Type: retType, SRetABIndex: 0}
	default:
		ret = ReturnDesc{Kind: RetDirect, Type: retType}
	}

	var abi []ABIParam
	if indirect {
		abi = append(abi, ABIParam{Kind: ABISRet, Type: retType, SemanticParam: -1, Name: "sret"})
	}
	for i, sp := range semanticParams(hfn) {
		abi = append(abi, ABIParam{Kind: ABIDirect, Type: tctx.Canonicalize(sp.typ), SemanticParam: i, Name: sp.name})
	}
	return ret, abi
}

func isAggregate(tctx *types.Context, t types.Id) bool {
	switch tctx.Kind(t) {
	case types.KindStruct, types.KindArray:
		return true
	default:
		return false
	}
}

// findNRVOLocal implements the common case of §4.4.1 step 2's NRVO rule: a
// named local of the return type that is the sole, unmodified source of
// every `return` in the function (including an implicit trailing tail
// expression) and whose `let` binding textually precedes every such return
// at the function's top level. Structured control flow (no goto) makes
// this positional check a sound approximation of full dominance for the
// common "named accumulator returned at the end" shape; anything more
// exotic (conditionally-bound candidates, loops that return mid-iteration)
// falls back to a synthesized return slot, which is always correct.
func findNRVOLocal(hfn *hir.Function, retType types.Id) (hir.LocalId, bool) {
	blk := hfn.Body
	candidate, candidateIdx, ok := topLevelCandidateLet(hfn, blk, retType)
	if !ok {
		return 0, false
	}
	allMatch := true
	sawAny := false
	walkReturnSources(blk, func(stmtIdx int, src hir.Expr) {
		sawAny = true
		v, ok := src.(*hir.Variable)
		if !ok || v.Local != candidate || stmtIdx < candidateIdx {
			allMatch = false
		}
	})
	if blk.Tail != nil {
		sawAny = true
		if v, ok := blk.Tail.(*hir.Variable); !ok || v.Local != candidate {
			allMatch = false
		}
	}
	if !sawAny || !allMatch {
		return 0, false
	}
	return candidate, true
}

// topLevelCandidateLet finds the first top-level `let name = init;`
// statement binding a local of exactly retType, returning its local id and
// statement index.
func topLevelCandidateLet(hfn *hir.Function, blk *hir.Block, retType types.Id) (hir.LocalId, int, bool) {
	for i, st := range blk.Stmts {
		ls, ok := st.(*hir.LetStmt)
		if !ok {
			continue
		}
		if hfn.Locals[ls.Local].Type == retType && hfn.Locals[ls.Local].Name != "_" {
			return ls.Local, i, true
		}
	}
	return 0, 0, false
}

// walkReturnSources visits every `return` expression's payload reachable
// from blk, paired with the index of the top-level statement (within blk)
// that contains it (or len(blk.Stmts) if found within the tail).
func walkReturnSources(blk *hir.Block, visit func(stmtIdx int, src hir.Expr)) {
	for i, st := range blk.Stmts {
		walkStmtReturns(st, i, visit)
	}
	if blk.Tail != nil {
		walkExprReturns(blk.Tail, len(blk.Stmts), visit)
	}
}

func walkStmtReturns(s hir.Stmt, idx int, visit func(int, hir.Expr)) {
	switch st := s.(type) {
	case *hir.LetStmt:
		if st.Init != nil {
			walkExprReturns(st.Init, idx, visit)
		}
	case *hir.ExprStmt:
		walkExprReturns(st.Expr, idx, visit)
	}
}

func walkExprReturns(e hir.Expr, idx int, visit func(int, hir.Expr)) {
	switch n := e.(type) {
	case *hir.ReturnExpr:
		if n.Value != nil {
			visit(idx, n.Value)
		} else {
			visit(idx, nil)
		}
	case *hir.Unary:
		walkExprReturns(n.Operand, idx, visit)
	case *hir.Binary:
		walkExprReturns(n.Left, idx, visit)
		walkExprReturns(n.Right, idx, visit)
	case *hir.Assign:
		walkExprReturns(n.Target, idx, visit)
		walkExprReturns(n.Rhs, idx, visit)
	case *hir.Cast:
		walkExprReturns(n.Operand, idx, visit)
	case *hir.ArrayInit:
		for _, el := range n.Elements {
			walkExprReturns(el, idx, visit)
		}
	case *hir.ArrayRepeat:
		walkExprReturns(n.Value, idx, visit)
	case *hir.Index:
		walkExprReturns(n.Target, idx, visit)
		walkExprReturns(n.IndexExpr, idx, visit)
	case *hir.StructLiteral:
		for _, f := range n.Fields {
			walkExprReturns(f.Value, idx, visit)
		}
	case *hir.Call:
		walkExprReturns(n.Callee, idx, visit)
		for _, a := range n.Args {
			walkExprReturns(a, idx, visit)
		}
	case *hir.MethodCall:
		walkExprReturns(n.Receiver, idx, visit)
		for _, a := range n.Args {
			walkExprReturns(a, idx, visit)
		}
	case *hir.FieldAccess:
		walkExprReturns(n.Target, idx, visit)
	case *hir.If:
		walkExprReturns(n.Cond, idx, visit)
		walkReturnSources(n.Then, visit)
		if n.Else != nil {
			walkExprReturns(n.Else, idx, visit)
		}
	case *hir.Loop:
		walkReturnSources(n.Body, visit)
	case *hir.While:
		walkExprReturns(n.Cond, idx, visit)
		walkReturnSources(n.Body, visit)
	case *hir.BreakExpr:
		if n.Value != nil {
			walkExprReturns(n.Value, idx, visit)
		}
	case *hir.Block:
		walkReturnSources(n, visit)
	}
}
