package ast

import (
	"fmt"
	"strings"
)

// PrettyPrint renders the parsed tree as readable, source-like text for
// `-emit ast` output and test fixtures (§6); it round-trips structure, not
// exact source formatting (whitespace/comments are not preserved by the
// tree itself).
func (f *File) PrettyPrint() string {
	var b strings.Builder
	for i, item := range f.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		writeItem(&b, item, 0)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func writeItem(b *strings.Builder, item Item, depth int) {
	indent(b, depth)
	switch it := item.(type) {
	case *FnDecl:
		b.WriteString("fn ")
		b.WriteString(it.Name.Name)
		b.WriteString("(")
		parts := make([]string, 0, len(it.Params)+1)
		if it.Self != nil {
			parts = append(parts, selfParamText(it.Self))
		}
		for _, p := range it.Params {
			parts = append(parts, fmt.Sprintf("%s: %s", patternText(p.Pattern), typeText(p.Type)))
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(")")
		if it.ReturnType != nil {
			b.WriteString(" -> ")
			b.WriteString(typeText(it.ReturnType))
		}
		if it.Body == nil {
			b.WriteString(";\n")
			return
		}
		b.WriteString(" ")
		writeBlock(b, it.Body, depth)
		b.WriteString("\n")
	case *StructDecl:
		b.WriteString("struct ")
		b.WriteString(it.Name.Name)
		b.WriteString(" {\n")
		for _, f := range it.Fields {
			indent(b, depth+1)
			b.WriteString(fmt.Sprintf("%s: %s,\n", f.Name.Name, typeText(f.Type)))
		}
		indent(b, depth)
		b.WriteString("}\n")
	case *EnumDecl:
		b.WriteString("enum ")
		b.WriteString(it.Name.Name)
		b.WriteString(" {\n")
		for _, v := range it.Variants {
			indent(b, depth+1)
			b.WriteString(v.Name.Name)
			b.WriteString(",\n")
		}
		indent(b, depth)
		b.WriteString("}\n")
	case *ConstDecl:
		b.WriteString("const ")
		b.WriteString(it.Name.Name)
		b.WriteString(": ")
		b.WriteString(typeText(it.Type))
		b.WriteString(" = ")
		b.WriteString(exprText(it.Value))
		b.WriteString(";\n")
	case *TraitDecl:
		b.WriteString("trait ")
		b.WriteString(it.Name.Name)
		b.WriteString(" {\n")
		for _, sub := range it.Items {
			writeItem(b, sub, depth+1)
		}
		indent(b, depth)
		b.WriteString("}\n")
	case *InherentImplDecl:
		b.WriteString("impl ")
		b.WriteString(typeText(it.ForType))
		b.WriteString(" {\n")
		for _, sub := range it.Items {
			writeItem(b, sub, depth+1)
		}
		indent(b, depth)
		b.WriteString("}\n")
	case *TraitImplDecl:
		b.WriteString("impl ")
		b.WriteString(it.Trait.String())
		b.WriteString(" for ")
		b.WriteString(typeText(it.ForType))
		b.WriteString(" {\n")
		for _, sub := range it.Items {
			writeItem(b, sub, depth+1)
		}
		indent(b, depth)
		b.WriteString("}\n")
	case *TypeAliasDecl:
		b.WriteString("type ")
		b.WriteString(it.Name.Name)
		b.WriteString(" = ")
		b.WriteString(typeText(it.Target))
		b.WriteString(";\n")
	default:
		b.WriteString(fmt.Sprintf("<unknown item %T>\n", item))
	}
}

func selfParamText(s *SelfParam) string {
	switch {
	case s.IsReference && s.IsMutable:
		return "&mut self"
	case s.IsReference:
		return "&self"
	case s.IsMutable:
		return "mut self"
	default:
		return "self"
	}
}

func patternText(p Pattern) string {
	switch pt := p.(type) {
	case *LiteralPattern:
		sign := ""
		if pt.Negative {
			sign = "-"
		}
		return sign + exprText(pt.Literal)
	case *BindingPattern:
		prefix := ""
		if pt.IsRef {
			prefix += "ref "
		}
		if pt.IsMut {
			prefix += "mut "
		}
		return prefix + pt.Name.Name
	case *WildcardPattern:
		return "_"
	case *ReferencePattern:
		if pt.Mutable {
			return "&mut " + patternText(pt.Inner)
		}
		return "&" + patternText(pt.Inner)
	case *PathPattern:
		return pt.Path.String()
	default:
		return fmt.Sprintf("<unknown pattern %T>", p)
	}
}

func typeText(t TypeExpr) string {
	if t == nil {
		return "()"
	}
	switch tt := t.(type) {
	case *PathType:
		return tt.Path.String()
	case *PrimitiveType:
		return tt.Kind.String()
	case *ArrayType:
		return fmt.Sprintf("[%s; %s]", typeText(tt.Element), exprText(tt.Size))
	case *ReferenceType:
		if tt.Mutable {
			return "&mut " + typeText(tt.Pointee)
		}
		return "&" + typeText(tt.Pointee)
	case *UnitType:
		return "()"
	default:
		return fmt.Sprintf("<unknown type %T>", t)
	}
}

var binaryOpText = map[BinaryOp]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/", Rem: "%",
	BitAnd: "&", BitOr: "|", BitXor: "^", Shl: "<<", Shr: ">>",
	LogAnd: "&&", LogOr: "||",
	CmpEq: "==", CmpNe: "!=", CmpLt: "<", CmpLe: "<=", CmpGt: ">", CmpGe: ">=",
}

var assignOpText = map[AssignOp]string{
	Assign: "=", AddAssign: "+=", SubAssign: "-=", MulAssign: "*=",
	DivAssign: "/=", RemAssign: "%=", BitAndAssign: "&=", BitOrAssign: "|=",
	BitXorAssign: "^=", ShlAssign: "<<=", ShrAssign: ">>=",
}

var unaryOpText = map[UnaryOp]string{
	Not: "!", Neg: "-", Deref: "*", Ref: "&", RefMut: "&mut ",
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
	case *PathExpr:
		return ex.Path.String()
	case *UnderscoreExpr:
		return "_"
	case *GroupedExpr:
		return "(" + exprText(ex.Inner) + ")"
	case *UnaryExpr:
		return unaryOpText[ex.Op] + exprText(ex.Operand)
	case *BinaryExpr:
		return fmt.Sprintf("%s %s %s", exprText(ex.Left), binaryOpText[ex.Op], exprText(ex.Right))
	case *AssignExpr:
		return fmt.Sprintf("%s %s %s", exprText(ex.Target), assignOpText[ex.Op], exprText(ex.Rhs))
	case *CastExpr:
		return fmt.Sprintf("%s as %s", exprText(ex.Operand), typeText(ex.Target))
	case *ArrayInitExpr:
		parts := make([]string, len(ex.Elements))
		for i, el := range ex.Elements {
			parts[i] = exprText(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ArrayRepeatExpr:
		return fmt.Sprintf("[%s; %s]", exprText(ex.Value), exprText(ex.Count))
	case *IndexExpr:
		return fmt.Sprintf("%s[%s]", exprText(ex.Target), exprText(ex.Index))
	case *StructLiteralExpr:
		parts := make([]string, len(ex.Fields))
		for i, f := range ex.Fields {
			parts[i] = fmt.Sprintf("%s: %s", f.Name.Name, exprText(f.Value))
		}
		return fmt.Sprintf("%s { %s }", ex.Path.String(), strings.Join(parts, ", "))
	case *CallExpr:
		parts := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			parts[i] = exprText(a)
		}
		return fmt.Sprintf("%s(%s)", exprText(ex.Callee), strings.Join(parts, ", "))
	case *MethodCallExpr:
		parts := make([]string, len(ex.Args))
		for i, a := range ex.Args {
			parts[i] = exprText(a)
		}
		return fmt.Sprintf("%s.%s(%s)", exprText(ex.Receiver), ex.Method.Name, strings.Join(parts, ", "))
	case *FieldAccessExpr:
		return fmt.Sprintf("%s.%s", exprText(ex.Target), ex.Field.Name)
	case *IfExpr:
		s := fmt.Sprintf("if %s %s", exprText(ex.Cond), blockText(ex.Then))
		if ex.Else != nil {
			s += " else " + exprText(ex.Else)
		}
		return s
	case *LoopExpr:
		return "loop " + blockText(ex.Body)
	case *WhileExpr:
		return fmt.Sprintf("while %s %s", exprText(ex.Cond), blockText(ex.Body))
	case *ReturnExpr:
		if ex.Value == nil {
			return "return"
		}
		return "return " + exprText(ex.Value)
	case *BreakExpr:
		s := "break"
		if ex.Label != nil {
			s += " '" + ex.Label.Name
		}
		if ex.Value != nil {
			s += " " + exprText(ex.Value)
		}
		return s
	case *ContinueExpr:
		if ex.Label != nil {
			return "continue '" + ex.Label.Name
		}
		return "continue"
	case *BlockExpr:
		return blockText(ex)
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func blockText(b *BlockExpr) string {
	var sb strings.Builder
	writeBlock(&sb, b, 0)
	return sb.String()
}

func writeBlock(b *strings.Builder, blk *BlockExpr, depth int) {
	b.WriteString("{\n")
	for _, s := range blk.Stmts {
		if _, ok := s.(*ItemStmt); !ok {
			indent(b, depth+1)
		}
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
		b.WriteString("let ")
		b.WriteString(patternText(st.Pattern))
		if st.Type != nil {
			b.WriteString(": ")
			b.WriteString(typeText(st.Type))
		}
		if st.Init != nil {
			b.WriteString(" = ")
			b.WriteString(exprText(st.Init))
		}
		b.WriteString(";\n")
	case *ExprStmt:
		b.WriteString(exprText(st.Expr))
		if st.TrailingSemi {
			b.WriteString(";")
		}
		b.WriteString("\n")
	case *EmptyStmt:
		b.WriteString(";\n")
	case *ItemStmt:
		writeItem(b, st.Item, depth)
	default:
		b.WriteString(fmt.Sprintf("<unknown stmt %T>\n", s))
	}
}
