package mir

import (
	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/hir"
	"github.com/rustlite/rlc/internal/types"
)

// loopCtx tracks the blocks and break-value plumbing for one enclosing
// loop/while (§4.4.2 "Loop" / "While").
type loopCtx struct {
	continueBlock BlockId
	breakBlock    BlockId
	breakType     types.Id
	breakTemp     *TempId
	incoming      []PhiIncoming
	hasBreak      bool
}

// Lowerer walks one hir.Program, producing a Module. It is re-used across
// functions; lowerFunction resets the per-function fields.
type Lowerer struct {
	prog *hir.Program
	mod  *Module

	fn    *Function
	cur   BlockId
	loops map[hir.LoopId]*loopCtx

	hirLocalBase int // mir LocalId(i) == hir LocalId(i) for i < hirLocalBase
}

// Lower runs MIR lowering over a type-checked program (§4.4). The program
// must already have passed sema.Check.
func Lower(prog *hir.Program, sourcePath string) (*Module, error) {
	l := &Lowerer{prog: prog, mod: NewModule(sourcePath, prog.Types)}
	for _, fn := range prog.Funcs {
		mfn, err := l.lowerFunction(fn)
		if err != nil {
			return nil, err
		}
		if fn.Body == nil {
			l.mod.Externs = append(l.mod.Externs, mfn)
		} else {
			l.mod.Functions = append(l.mod.Functions, mfn)
		}
	}
	return l.mod, nil
}

func (l *Lowerer) canon(t types.Id) types.Id { return l.prog.Types.Canonicalize(t) }

// --- block/temp/local plumbing ------------------------------------------

func (l *Lowerer) setBlock(id BlockId) { l.cur = id }

func (l *Lowerer) block() *BasicBlock { return l.fn.block(l.cur) }

func (l *Lowerer) emit(s Statement) {
	b := l.block()
	if b.Terminator != nil {
		panic(diag.NewLoweringBug("attempted to append a statement after block %d's terminator", b.ID))
	}
	b.Stmts = append(b.Stmts, s)
}

func (l *Lowerer) terminate(t Terminator) {
	b := l.block()
	if b.Terminator != nil {
		panic(diag.NewLoweringBug("attempted to terminate block %d twice", b.ID))
	}
	b.Terminator = t
}

func (l *Lowerer) newBlock(hint string) BlockId { return l.fn.newBlock(hint) }

func (l *Lowerer) newTemp(t types.Id) TempId { return l.fn.newTemp(l.canon(t)) }

func (l *Lowerer) newLocal(name string, t types.Id) LocalId {
	return l.fn.newLocal(name, l.canon(t))
}

func (l *Lowerer) defineTemp(t types.Id, rv RValue) TempId {
	dest := l.newTemp(t)
	l.emit(&Define{Dest: dest, Value: rv})
	return dest
}

func (l *Lowerer) localPlace(id hir.LocalId) Place {
	return PlaceOf(LocalPlace{Local: LocalId(id)})
}

// --- LowerResult: the DPS adapter trio (§4.4) ---------------------------

type resultKind int

const (
	resOperand resultKind = iota
	resPlace
	resWritten
)

// LowerResult is the outcome of lowering one expression: Operand, Place,
// or Written (the caller's destination hint was already fully
// initialized — copy elision).
type LowerResult struct {
	kind    resultKind
	operand Operand
	place   Place
}

func operandResult(op Operand) LowerResult { return LowerResult{kind: resOperand, operand: op} }
func placeResult(p Place) LowerResult      { return LowerResult{kind: resPlace, place: p} }
func writtenResult() LowerResult           { return LowerResult{kind: resWritten} }

// asOperand: if already Operand, return it; if Place, emit a Load; Written
// is a compiler bug (a destination was already satisfied, there is no
// value left to read generically).
func (l *Lowerer) asOperand(r LowerResult, t types.Id) Operand {
	switch r.kind {
	case resOperand:
		return r.operand
	case resPlace:
		dest := l.newTemp(t)
		l.emit(&Load{Dest: dest, Place: r.place})
		return TempOperand{Temp: dest}
	default:
		panic(diag.NewLoweringBug("asOperand called on a Written result"))
	}
}

// asPlace: if Place, return it; if Operand, materialize into a synthetic
// local and return that; Written is a compiler bug.
func (l *Lowerer) asPlace(r LowerResult, t types.Id) Place {
	switch r.kind {
	case resPlace:
		return r.place
	case resOperand:
		local := l.newLocal("_tmp", t)
		p := PlaceOf(LocalPlace{Local: local})
		l.emit(&Assign{Dest: p, Value: OperandSource{Operand: r.operand}})
		return p
	default:
		panic(diag.NewLoweringBug("asPlace called on a Written result"))
	}
}

// writeToDest: if Written, no-op (the callee already wrote dest in full);
// if Operand, emit Assign(dest, operand); if Place, emit
// Init(dest, InitCopy(src)).
func (l *Lowerer) writeToDest(r LowerResult, dest Place, t types.Id) {
	switch r.kind {
	case resWritten:
		return
	case resOperand:
		l.emit(&Assign{Dest: dest, Value: OperandSource{Operand: r.operand}})
	case resPlace:
		l.emit(&Init{Dest: dest, Pattern: InitCopy{Src: r.place}})
	}
}

// asTempOperand forces op into a TempId, materializing constants and other
// non-temp operands via an IdentityRValue define.
func (l *Lowerer) asTempOperand(op Operand, t types.Id) TempId {
	if to, ok := op.(TempOperand); ok {
		return to.Temp
	}
	return l.defineTemp(t, IdentityRValue{Operand: op})
}

// lowerAsPlace lowers e with no destination hint and coerces the result to
// a Place, materializing a synthetic local if e produced a bare value.
func (l *Lowerer) lowerAsPlace(e hir.Expr) (Place, error) {
	res, err := l.lowerExpr(e, nil)
	if err != nil {
		return Place{}, err
	}
	return l.asPlace(res, l.canon(e.Info().Type)), nil
}

// asDiscardable runs r's side effects to completion without producing a
// usable value; used for expression-statements whose value is ignored but
// whose Written variant must still be considered "handled".
func (l *Lowerer) asDiscardable(r LowerResult) {
	// Nothing further to do: lowering itself already emitted every
	// statement needed to produce r; an unused Operand/Place needs no
	// Load, and a Written result already wrote its own scratch dest.
}
