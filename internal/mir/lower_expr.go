package mir

import (
	"strconv"

	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/hir"
	"github.com/rustlite/rlc/internal/types"
)

// lowerExpr is the central DPS dispatch (§4.4): dest, if non-nil, is the
// caller's destination hint, honored only by the expression kinds that
// can avoid a temp-then-copy by writing directly into it (struct/array
// literals, if/block with a forwarded hint, SRET calls).
func (l *Lowerer) lowerExpr(e hir.Expr, dest *Place) (LowerResult, error) {
	switch n := e.(type) {
	case *hir.IntegerLit:
		return operandResult(l.lowerIntLit(n)), nil
	case *hir.BoolLit:
		return operandResult(Constant{Type: l.canon(n.Info().Type), Kind: ConstBool, BoolVal: n.Value}), nil
	case *hir.CharLit:
		return operandResult(Constant{Type: l.canon(n.Info().Type), Kind: ConstChar, CharVal: n.Value}), nil
	case *hir.StringLit:
		return l.lowerStringLit(n), nil
	case *hir.Underscore:
		return operandResult(Constant{Kind: ConstUnit}), nil
	case *hir.Variable:
		return placeResult(l.localPlace(n.Local)), nil
	case *hir.ConstUse:
		return l.lowerConstUse(n)
	case *hir.EnumVariantExpr:
		return operandResult(Constant{Type: l.prog.Types.Usize(), Kind: ConstInt, IntVal: uint64(n.VariantIndex), Signed: false}), nil
	case *hir.FuncUse:
		// A bare function reference only ever appears as a Call's callee,
		// which is handled directly by lowerCall; reaching here is a bug.
		return LowerResult{}, diag.NewLoweringBug("function reference used outside of call position: %s", n.Name)
	case *hir.Unary:
		return l.lowerUnary(n)
	case *hir.Binary:
		return l.lowerBinary(n)
	case *hir.Assign:
		return l.lowerAssign(n)
	case *hir.Cast:
		return l.lowerCast(n)
	case *hir.ArrayInit:
		return l.lowerArrayInit(n, dest)
	case *hir.ArrayRepeat:
		return l.lowerArrayRepeat(n, dest)
	case *hir.Index:
		return l.lowerIndex(n)
	case *hir.StructLiteral:
		return l.lowerStructLiteral(n, dest)
	case *hir.Call:
		return l.lowerCall(n, dest)
	case *hir.MethodCall:
		return l.lowerMethodCall(n, dest)
	case *hir.FieldAccess:
		return l.lowerFieldAccess(n)
	case *hir.If:
		return l.lowerIf(n, dest)
	case *hir.Loop:
		return l.lowerLoop(n)
	case *hir.While:
		return l.lowerWhile(n)
	case *hir.ReturnExpr:
		return l.lowerReturn(n)
	case *hir.BreakExpr:
		return l.lowerBreak(n)
	case *hir.ContinueExpr:
		return l.lowerContinue(n)
	case *hir.Block:
		return l.lowerBlockBody(n, dest)
	default:
		return LowerResult{}, diag.NewLoweringBug("unsupported expression kind %T", e)
	}
}

func (l *Lowerer) lowerIntLit(n *hir.IntegerLit) Constant {
	t := l.canon(n.Info().Type)
	val, _ := strconv.ParseUint(n.Text, 10, 64)
	return Constant{Type: t, Kind: ConstInt, IntVal: val, Signed: types.IsSigned(l.prog.Types.Kind(t))}
}

// lowerStringLit interns the literal's bytes into a deduplicated module
// global and returns a Place referencing it; as_operand (via asOperand)
// is what actually emits the Load, per §4.4.2.
func (l *Lowerer) lowerStringLit(n *hir.StringLit) LowerResult {
	gid := l.mod.internString([]byte(n.Value), n.IsCString)
	return placeResult(PlaceOf(GlobalPlace{Global: gid}))
}

func (l *Lowerer) lowerConstUse(n *hir.ConstUse) (LowerResult, error) {
	def := l.prog.Const(n.Const)
	return l.lowerExpr(def.Value, nil)
}
