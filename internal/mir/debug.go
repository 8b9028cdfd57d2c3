package mir

import (
	"fmt"
	"strings"
)

// PrettyPrint renders a module in a readable, non-normative text form
// useful for -emit=mir output and test fixtures; it is not the LLVM
// textual syntax (§3.6 covers that, in internal/codegen/llvm).
func (m *Module) PrettyPrint() string {
	var b strings.Builder
	for i, fn := range m.Externs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("extern fn %s\n", fn.Name))
	}
	if len(m.Externs) > 0 && len(m.Functions) > 0 {
		b.WriteString("\n")
	}
	for i, fn := range m.Functions {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fn.PrettyPrint())
	}
	return b.String()
}

func (f *Function) PrettyPrint() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("fn %s(", f.Name))
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s: t%d", p.Name, p.Type)
	}
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(") {\n")

	if len(f.Locals) > 0 {
		b.WriteString("  // locals:\n")
		for i, l := range f.Locals {
			b.WriteString(fmt.Sprintf("  //   %s = %s\n", localDebugName(LocalId(i), l), aliasSuffix(l)))
		}
	}
	if f.Storage.UsesSRet {
		b.WriteString(fmt.Sprintf("  // sret: abi[%d] aliases %s\n", f.Storage.SRetABIndex, localDebugName(f.Storage.ReturnLocal, f.Locals[f.Storage.ReturnLocal])))
	}

	for _, blk := range f.Blocks {
		b.WriteString(blk.PrettyPrint())
	}
	b.WriteString("}")
	return b.String()
}

func aliasSuffix(l Local) string {
	switch l.Alias {
	case AliasOfABIParam:
		return fmt.Sprintf("t%d (aliases abi[%d])", l.Type, l.AliasOf)
	case AliasOfTemp:
		return fmt.Sprintf("t%d (aliases %%%d)", l.Type, l.AliasOf)
	default:
		return fmt.Sprintf("t%d", l.Type)
	}
}

func localDebugName(id LocalId, l Local) string {
	if l.Name == "" || l.Name == "_" {
		return fmt.Sprintf("_%d", id)
	}
	return l.Name
}

func (bb *BasicBlock) PrettyPrint() string {
	var b strings.Builder
	label := bb.Hint
	if label == "" {
		label = fmt.Sprintf("bb%d", bb.ID)
	}
	b.WriteString(fmt.Sprintf("  %s:\n", label))
	for _, phi := range bb.Phis {
		b.WriteString(fmt.Sprintf("    %%%d = phi %s\n", phi.Dest, phiIncomingString(phi.Incoming)))
	}
	for _, s := range bb.Stmts {
		b.WriteString("    ")
		b.WriteString(statementString(s))
		b.WriteString("\n")
	}
	if bb.Terminator != nil {
		b.WriteString("    ")
		b.WriteString(terminatorString(bb.Terminator))
		b.WriteString("\n")
	}
	return b.String()
}

func phiIncomingString(incoming []PhiIncoming) string {
	parts := make([]string, len(incoming))
	for i, in := range incoming {
		parts[i] = fmt.Sprintf("[bb%d: %s]", in.Block, operandString(in.Operand))
	}
	return strings.Join(parts, ", ")
}

func statementString(s Statement) string {
	switch st := s.(type) {
	case *Define:
		return fmt.Sprintf("%%%d = %s", st.Dest, rvalueString(st.Value))
	case *Load:
		return fmt.Sprintf("%%%d = load %s", st.Dest, placeString(st.Place))
	case *Assign:
		return fmt.Sprintf("%s = %s", placeString(st.Dest), valueSourceString(st.Value))
	case *Init:
		return fmt.Sprintf("%s = %s", placeString(st.Dest), initPatternString(st.Pattern))
	case *Call:
		return callString(st)
	default:
		return fmt.Sprintf("<?stmt:%T>", s)
	}
}

func callString(c *Call) string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = operandString(a)
	}
	call := fmt.Sprintf("call fn%d(%s)", c.Target, strings.Join(args, ", "))
	if c.SRetDest != nil {
		call = fmt.Sprintf("%s sret %s", call, placeString(*c.SRetDest))
	}
	if c.Dest != nil {
		return fmt.Sprintf("%%%d = %s", *c.Dest, call)
	}
	return call
}

func terminatorString(t Terminator) string {
	switch tm := t.(type) {
	case *Goto:
		return fmt.Sprintf("goto bb%d", tm.Target)
	case *SwitchInt:
		cases := make([]string, len(tm.Cases))
		for i, c := range tm.Cases {
			cases[i] = fmt.Sprintf("%s -> bb%d", operandString(c.Value), c.Block)
		}
		return fmt.Sprintf("switch %s {%s, otherwise -> bb%d}", operandString(tm.Discriminant), strings.Join(cases, ", "), tm.Otherwise)
	case *Return:
		if tm.Value == nil {
			return "return"
		}
		return fmt.Sprintf("return %s", operandString(tm.Value))
	case *Unreachable:
		return "unreachable"
	default:
		return fmt.Sprintf("<?terminator:%T>", t)
	}
}

func placeString(p Place) string {
	var b strings.Builder
	switch base := p.Base.(type) {
	case LocalPlace:
		b.WriteString(fmt.Sprintf("_%d", base.Local))
	case GlobalPlace:
		b.WriteString(fmt.Sprintf("@%d", base.Global))
	case PointerPlace:
		b.WriteString(fmt.Sprintf("(*%s)", operandString(TempOperand{Temp: base.Pointer})))
	}
	for _, proj := range p.Projections {
		switch pr := proj.(type) {
		case FieldProjection:
			b.WriteString(fmt.Sprintf(".%d", pr.Index))
		case IndexProjection:
			b.WriteString(fmt.Sprintf("[%s]", operandString(pr.Index)))
		}
	}
	return b.String()
}

func operandString(op Operand) string {
	switch o := op.(type) {
	case TempOperand:
		return fmt.Sprintf("%%%d", o.Temp)
	case Constant:
		return constantString(o)
	case ABIParamOperand:
		return fmt.Sprintf("abi[%d]", o.Index)
	default:
		return fmt.Sprintf("<?operand:%T>", op)
	}
}

func constantString(c Constant) string {
	switch c.Kind {
	case ConstBool:
		return fmt.Sprintf("%t", c.BoolVal)
	case ConstInt:
		if c.Negative {
			return fmt.Sprintf("-%d", c.IntVal)
		}
		return fmt.Sprintf("%d", c.IntVal)
	case ConstChar:
		return fmt.Sprintf("%q", c.CharVal)
	case ConstString:
		return fmt.Sprintf("%q", string(c.StrBytes))
	case ConstUnit:
		return "()"
	default:
		return "<?const>"
	}
}

func rvalueString(rv RValue) string {
	switch r := rv.(type) {
	case ConstRValue:
		return constantString(r.Value)
	case BinaryRValue:
		return fmt.Sprintf("%s %s, %s", binOpString(r.Op), operandString(r.Lhs), operandString(r.Rhs))
	case UnaryRValue:
		return fmt.Sprintf("%s %s", unOpString(r.Op), operandString(r.Operand))
	case RefRValue:
		return fmt.Sprintf("ref %s", placeString(r.Place))
	case FieldOfTempRValue:
		return fmt.Sprintf("field %%%d.%d", r.Temp, r.Index)
	case CastRValue:
		return fmt.Sprintf("cast %s to t%d", operandString(r.Operand), r.Type)
	case IdentityRValue:
		return fmt.Sprintf("id %s", operandString(r.Operand))
	default:
		return fmt.Sprintf("<?rvalue:%T>", rv)
	}
}

func valueSourceString(v ValueSource) string {
	switch vs := v.(type) {
	case OperandSource:
		return operandString(vs.Operand)
	case PlaceSource:
		return placeString(vs.Place)
	default:
		return fmt.Sprintf("<?valuesource:%T>", v)
	}
}

func initPatternString(p InitPattern) string {
	switch pat := p.(type) {
	case InitStruct:
		return fmt.Sprintf("struct {%s}", initLeavesString(pat.Leaves))
	case InitArrayLiteral:
		return fmt.Sprintf("array [%s]", initLeavesString(pat.Leaves))
	case InitArrayRepeat:
		return fmt.Sprintf("array [%s; %d]", valueSourceString(pat.Element), pat.Count)
	case InitCopy:
		return fmt.Sprintf("copy %s", placeString(pat.Src))
	default:
		return fmt.Sprintf("<?initpattern:%T>", p)
	}
}

func initLeavesString(leaves []InitLeaf) string {
	parts := make([]string, len(leaves))
	for i, l := range leaves {
		if l.Omitted {
			parts[i] = "_"
		} else {
			parts[i] = valueSourceString(l.Value)
		}
	}
	return strings.Join(parts, ", ")
}

func binOpString(op BinOp) string {
	switch op {
	case BinAddI:
		return "add"
	case BinSubI:
		return "sub"
	case BinMulI:
		return "mul"
	case BinSDiv:
		return "sdiv"
	case BinUDiv:
		return "udiv"
	case BinSRem:
		return "srem"
	case BinURem:
		return "urem"
	case BinAnd:
		return "and"
	case BinOr:
		return "or"
	case BinXor:
		return "xor"
	case BinShl:
		return "shl"
	case BinAShr:
		return "ashr"
	case BinLShr:
		return "lshr"
	case BinLogAnd:
		return "and.bool"
	case BinLogOr:
		return "or.bool"
	case BinCmpEq:
		return "icmp eq"
	case BinCmpNe:
		return "icmp ne"
	case BinCmpSlt:
		return "icmp slt"
	case BinCmpUlt:
		return "icmp ult"
	case BinCmpSle:
		return "icmp sle"
	case BinCmpUle:
		return "icmp ule"
	case BinCmpSgt:
		return "icmp sgt"
	case BinCmpUgt:
		return "icmp ugt"
	case BinCmpSge:
		return "icmp sge"
	case BinCmpUge:
		return "icmp uge"
	default:
		return "<?binop>"
	}
}

func unOpString(op UnOp) string {
	switch op {
	case UnNot:
		return "not"
	case UnNeg:
		return "neg"
	case UnDeref:
		return "deref"
	default:
		return "<?unop>"
	}
}
