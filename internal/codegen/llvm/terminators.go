package mir2llvm

import (
	"fmt"
	"strings"

	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/mir"
	"github.com/rustlite/rlc/internal/types"
)

// emitTerminator renders one of Goto | SwitchInt | Return | Unreachable
// (§4.5.3).
func (g *Generator) emitTerminator(t mir.Terminator) {
	switch tm := t.(type) {
	case *mir.Goto:
		g.emit(fmt.Sprintf("  br label %%%s", g.blockLabels[tm.Target]))
	case *mir.SwitchInt:
		g.emitSwitchInt(tm)
	case *mir.Return:
		g.emitReturn(tm)
	case *mir.Unreachable:
		g.emit("  unreachable")
	default:
		panic(diag.NewCodegenBug("unrecognized terminator %T", t))
	}
}

func (g *Generator) emitSwitchInt(tm *mir.SwitchInt) {
	discType := g.operandType(tm.Discriminant)
	discVal := g.operandValue(tm.Discriminant)
	otherLabel := g.blockLabels[tm.Otherwise]

	if g.tctx.Kind(discType) == types.KindBool && len(tm.Cases) == 1 {
		caseLabel := g.blockLabels[tm.Cases[0].Block]
		if tm.Cases[0].Value.BoolVal {
			g.emit(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", discVal, caseLabel, otherLabel))
		} else {
			g.emit(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", discVal, otherLabel, caseLabel))
		}
		return
	}

	llvmT := g.llvmType(discType)
	arms := make([]string, len(tm.Cases))
	for i, c := range tm.Cases {
		arms[i] = fmt.Sprintf("%s %s, label %%%s", llvmT, constLiteralText(c.Value), g.blockLabels[c.Block])
	}
	g.emit(fmt.Sprintf("  switch %s %s, label %%%s [ %s ]", llvmT, discVal, otherLabel, strings.Join(arms, " ")))
}

func (g *Generator) emitReturn(tm *mir.Return) {
	switch g.curFn.Return.Kind {
	case mir.RetVoid, mir.RetNever, mir.RetIndirectSRet:
		g.emit("  ret void")
	case mir.RetDirect:
		llvmT := g.storageType(g.curFn.Return.Type)
		g.emit(fmt.Sprintf("  ret %s %s", llvmT, g.operandValue(tm.Value)))
	default:
		panic(diag.NewCodegenBug("function %q has unrecognized return kind %d", g.curFn.Name, g.curFn.Return.Kind))
	}
}
