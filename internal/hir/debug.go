package hir

import (
	"fmt"
	"strings"

	"github.com/rustlite/rlc/internal/ast"
)

// PrettyPrint renders a resolved program as readable, source-like text for
// `-emit hir` output and test fixtures (§6): names are qualified with their
// resolved ids (a Variable prints as `name#<local>`) so a reader can see
// that resolution, not just parsing, has happened.
func (p *Program) PrettyPrint() string {
	var b strings.Builder
	for i, s := range p.Structs {
		if i > 0 {
			b.WriteString("\n")
		}
		info, _ := p.Types.Struct(s.Type)
		b.WriteString(fmt.Sprintf("struct %s {\n", info.Name))
		for _, f := range info.Fields {
			b.WriteString(fmt.Sprintf("  %s: %s,\n", f.Name, p.Types.String(f.Type)))
		}
		b.WriteString("}\n")
	}
	for i, e := range p.Enums {
		if i > 0 || len(p.Structs) > 0 {
			b.WriteString("\n")
		}
		info, _ := p.Types.Enum(e.Type)
		b.WriteString(fmt.Sprintf("enum %s {\n", info.Name))
		for _, v := range info.Variants {
			b.WriteString(fmt.Sprintf("  %s,\n", v))
		}
		b.WriteString("}\n")
	}
	for i, c := range p.Consts {
		if i > 0 || len(p.Structs) > 0 || len(p.Enums) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("const %s#%d: %s = %s;\n", c.Name, c.ID, p.Types.String(c.Type), exprText(c.Value)))
	}
	for i, fn := range p.Funcs {
		if i > 0 || len(p.Structs) > 0 || len(p.Enums) > 0 || len(p.Consts) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fn.PrettyPrint(p))
	}
	return b.String()
}

// PrettyPrint renders one resolved function. p is needed to format types.Id
// via its interning context.
func (f *Function) PrettyPrint(p *Program) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("fn %s#%d(", f.Name, f.ID))
	parts := make([]string, 0, len(f.Params)+1)
	if f.Self != nil {
		parts = append(parts, fmt.Sprintf("self#%d", f.Self.Local))
	}
	for _, prm := range f.Params {
		parts = append(parts, fmt.Sprintf("%s#%d: %s", prm.Name, prm.Local, p.Types.String(prm.Type)))
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString(") -> ")
	b.WriteString(p.Types.String(f.Return))
	if f.Body == nil {
		b.WriteString(";\n")
		return b.String()
	}
	b.WriteString(" ")
	writeBlock(&b, f.Body, 0)
	b.WriteString("\n")
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func writeBlock(b *strings.Builder, blk *Block, depth int) {
	b.WriteString("{\n")
	for _, s := range blk.Stmts {
		indent(b, depth+1)
		writeStmt(b, s, depth+1)
	}
	if blk.Tail != nil {
		indent(b, depth+1)
		b.WriteString(exprText(blk.Tail))
		b.WriteString("\n")
	}
	indent(b, depth)
	b.WriteString("}")
}

func writeStmt(b *strings.Builder, s Stmt, depth int) {
	switch st := s.(type) {
	case *LetStmt:
		b.WriteString(fmt.Sprintf("let _#%d", st.Local))
		if st.Init != nil {
			b.WriteString(" = ")
			b.WriteString(exprText(st.Init))
		}
		b.WriteString(";\n")
	case *ExprStmt:
		b.WriteString(exprText(st.Expr))
		b.WriteString(";\n")
	case *EmptyStmt:
		b.WriteString(";\n")
	default:
		b.WriteString(fmt.Sprintf("<unknown stmt %T>\n", s))
	}
}

var binaryOpText = map[ast.BinaryOp]string{
	ast.Add: "+", ast.Sub: "-", ast.Mul: "*", ast.Div: "/", ast.Rem: "%",
	ast.BitAnd: "&", ast.BitOr: "|", ast.BitXor: "^", ast.Shl: "<<", ast.Shr: ">>",
	ast.LogAnd: "&&", ast.LogOr: "||",
	ast.CmpEq: "==", ast.CmpNe: "!=", ast.CmpLt: "<", ast.CmpLe: "<=", ast.CmpGt: ">", ast.CmpGe: ">=",
}

var assignOpText = map[ast.AssignOp]string{
	ast.Assign: "=", ast.AddAssign: "+=", ast.SubAssign: "-=", ast.MulAssign: "*=",
	ast.DivAssign: "/=", ast.RemAssign: "%=", ast.BitAndAssign: "&=", ast.BitOrAssign: "|=",
	ast.BitXorAssign: "^=", ast.ShlAssign: "<<=", ast.ShrAssign: ">>=",
}

var unaryOpText = map[ast.UnaryOp]string{
	ast.Not: "!", ast.Neg: "-", ast.Deref: "*", ast.Ref: "&", ast.RefMut: "&mut ",
}

func exprText(e Expr) string {
	if e == nil {
		return ""
	}
	switch ex := e.(type) {
	case *IntegerLit:
		return ex.Text + ex.Suffix
	case *BoolLit:
		if ex.Value {
			return "true"
		}
		return "false"
	case *CharLit:
		return fmt.Sprintf("'%c'", ex.Value)
	case *StringLit:
		if ex.IsCString {
			return fmt.Sprintf("c%q", ex.Value)
		}
		return fmt.Sprintf("%q", ex.Value)
	case *Variable:
		return fmt.Sprintf("%s#%d", ex.Name, ex.Local)
	case *FuncUse:
		return fmt.Sprintf("%s#%d", ex.Name, ex.Func)
	case *ConstUse:
		return fmt.Sprintf("%s#%d", ex.Name, ex.Const)
	case *EnumVariantExpr:
		return fmt.Sprintf("%s::%d", ex.Name, ex.VariantIndex)
	case *Underscore:
		return "_"
	case *Unary:
		return unaryOpText[ex.Op] + exprText(ex.Operand)
	case *Binary:
		return fmt.Sprintf("%s %s %s", exprText(ex.Left), binaryOpText[ex.Op], exprText(ex.Right))
	case *Assign:
		return fmt.Sprintf("%s %s %s", exprText(ex.Target), assignOpText[ex.Op], exprText(ex.Rhs))
	case *Cast:
		return fmt.Sprintf("%s as t%d", exprText(ex.Operand), ex.Target)
	case *ArrayInit:
		parts := make([]string, len(ex.Elements))
		for i, el := range ex.Elements {
			parts[i] = exprText(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ArrayRepeat:
		if ex.HasCompileSize {
			return fmt.Sprintf("[%s; %d]", exprText(ex.Value), ex.CompileTimeSize)
		}
		return fmt.Sprintf("[%s; %s]", exprText(ex.Value), exprText(ex.CountExpr))
	case *Index:
		return fmt.Sprintf("%s[%s]", exprText(ex.Target), exprText(ex.IndexExpr))
	case *StructLiteral:
		parts := make([]string, len(ex.Fields))
		for i, f := range ex.Fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, exprText(f.Value))
		}
		return fmt.Sprintf("t%d { %s }", ex.Type, strings.Join(parts, ", "))
	case *Call:
		parts := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			parts[i] = exprText(a)
		}
		return fmt.Sprintf("%s(%s)", exprText(ex.Callee), strings.Join(parts, ", "))
	case *MethodCall:
		parts := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			parts[i] = exprText(a)
		}
		return fmt.Sprintf("%s.%s#%d(%s)", exprText(ex.Receiver), ex.Name, ex.Method, strings.Join(parts, ", "))
	case *FieldAccess:
		return fmt.Sprintf("%s.%s#%d", exprText(ex.Target), ex.Field, ex.Index)
	case *If:
		var sb strings.Builder
		sb.WriteString("if ")
		sb.WriteString(exprText(ex.Cond))
		sb.WriteString(" ")
		writeBlock(&sb, ex.Then, 0)
		if ex.Else != nil {
			sb.WriteString(" else ")
			sb.WriteString(exprText(ex.Else))
		}
		return sb.String()
	case *Loop:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("loop#%d ", ex.ID))
		writeBlock(&sb, ex.Body, 0)
		return sb.String()
	case *While:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("while#%d %s ", ex.ID, exprText(ex.Cond)))
		writeBlock(&sb, ex.Body, 0)
		return sb.String()
	case *ReturnExpr:
		if ex.Value == nil {
			return "return"
		}
		return "return " + exprText(ex.Value)
	case *BreakExpr:
		s := fmt.Sprintf("break#%d", ex.Loop)
		if ex.Value != nil {
			s += " " + exprText(ex.Value)
		}
		return s
	case *ContinueExpr:
		return fmt.Sprintf("continue#%d", ex.Loop)
	case *Block:
		var sb strings.Builder
		writeBlock(&sb, ex, 0)
		return sb.String()
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}
