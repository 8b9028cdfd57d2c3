package hir

import (
	"strconv"

	"github.com/rustlite/rlc/internal/ast"
	"github.com/rustlite/rlc/internal/diag"
	"github.com/rustlite/rlc/internal/types"
)

// scope is one lexical block's name->Local bindings.
type scope map[string]LocalId

// Builder walks an ast.File twice in definition order (a declare pass, then a
// define pass), producing a Program.
// It performs name resolution, type interning, field canonicalization, and
// method resolution (§4.2); it also infers a structural type for every
// expression as it is built, which the semantic checker (internal/sema)
// consumes and refines into the full ExprInfo.
type Builder struct {
	prog *Program

	aliases map[string]types.Id

	fn        *Function
	scopes    []scope
	loopStack []LoopId
	nextLoop  LoopId
}

// Build runs the HIR builder over file and returns the resolved Program.
func Build(file *ast.File) (*Program, error) {
	b := &Builder{
		prog: &Program{
			Types:        types.NewContext(),
			FuncByName:   map[string]FuncId{},
			StructByName: map[string]types.Id{},
			EnumByName:   map[string]types.Id{},
			ConstByName:  map[string]ConstId{},
		},
		aliases: map[string]types.Id{},
	}
	if err := b.declarePass(file.Items); err != nil {
		return nil, err
	}
	if err := b.definePass(file.Items); err != nil {
		return nil, err
	}
	if fid, ok := b.prog.FuncByName["main"]; ok {
		b.prog.MainFunc = fid
		b.prog.HasMain = true
	}
	return b.prog, nil
}

// ---- pass 1: declare names so forward references resolve -----------------

func (b *Builder) declarePass(items []ast.Item) error {
	for _, it := range items {
		switch d := it.(type) {
		case *ast.StructDecl:
			info := &types.StructInfo{Name: d.Name.Name}
			id := b.prog.Types.DeclareStruct(info)
			b.prog.StructByName[d.Name.Name] = id
			b.prog.Structs = append(b.prog.Structs, &StructDef{Type: id, Span: d.Span()})
		case *ast.EnumDecl:
			names := make([]string, len(d.Variants))
			for i, v := range d.Variants {
				names[i] = v.Name.Name
			}
			info := &types.EnumInfo{Name: d.Name.Name, Variants: names}
			id := b.prog.Types.DeclareEnum(info)
			b.prog.EnumByName[d.Name.Name] = id
			b.prog.Enums = append(b.prog.Enums, &EnumDef{Type: id, Span: d.Span()})
		case *ast.FnDecl:
			b.declareFunc(d.Name.Name)
		case *ast.ConstDecl:
			id := ConstId(len(b.prog.Consts))
			b.prog.Consts = append(b.prog.Consts, &ConstDef{ID: id, Name: d.Name.Name, Span: d.Span()})
			b.prog.ConstByName[d.Name.Name] = id
		case *ast.TraitDecl, *ast.TraitImplDecl, *ast.InherentImplDecl, *ast.TypeAliasDecl:
			// resolved in definePass; impls/methods need struct/enum ids first.
		}
	}
	return nil
}

func (b *Builder) mintFunc(name string) FuncId {
	id := FuncId(len(b.prog.Funcs))
	b.prog.Funcs = append(b.prog.Funcs, &Function{ID: id, Name: name})
	return id
}

func (b *Builder) declareFunc(name string) FuncId {
	id := b.mintFunc(name)
	b.prog.FuncByName[name] = id
	return id
}

// ---- pass 2: resolve field/param types, method bodies, const values ------

func (b *Builder) definePass(items []ast.Item) error {
	for _, it := range items {
		switch d := it.(type) {
		case *ast.TypeAliasDecl:
			target, err := b.resolveType(d.Target)
			if err != nil {
				return err
			}
			b.aliases[d.Name.Name] = target
		}
	}
	for _, it := range items {
		switch d := it.(type) {
		case *ast.StructDecl:
			if err := b.defineStruct(d); err != nil {
				return err
			}
		case *ast.ConstDecl:
			if err := b.defineConst(d); err != nil {
				return err
			}
		}
	}
	for _, it := range items {
		switch d := it.(type) {
		case *ast.FnDecl:
			if err := b.defineFunction(d, nil, types.Id(-1), ""); err != nil {
				return err
			}
		case *ast.InherentImplDecl:
			if err := b.defineImpl(d.ForType, "", d.Items); err != nil {
				return err
			}
		case *ast.TraitImplDecl:
			if err := b.defineImpl(d.ForType, d.Trait.String(), d.Items); err != nil {
				return err
			}
		case *ast.TraitDecl:
			// Signature-only declarations; bound solving is out of scope.
		}
	}
	return nil
}

func (b *Builder) defineStruct(d *ast.StructDecl) error {
	id := b.prog.StructByName[d.Name.Name]
	fields := make([]types.FieldInfo, len(d.Fields))
	for i, f := range d.Fields {
		ft, err := b.resolveType(f.Type)
		if err != nil {
			return err
		}
		fields[i] = types.FieldInfo{Name: f.Name.Name, Type: ft}
	}
	b.prog.Types.SetStructFields(id, fields)
	return nil
}

func (b *Builder) defineConst(d *ast.ConstDecl) error {
	id := b.prog.ConstByName[d.Name.Name]
	typ, err := b.resolveType(d.Type)
	if err != nil {
		return err
	}
	b.fn = nil
	b.scopes = nil
	val, err := b.buildExpr(d.Value)
	if err != nil {
		return err
	}
	cd := b.prog.Consts[id]
	cd.Type = typ
	cd.Value = val
	return nil
}

func (b *Builder) defineImpl(forTypeExpr ast.TypeExpr, traitName string, items []ast.Item) error {
	forType, err := b.resolveType(forTypeExpr)
	if err != nil {
		return err
	}
	impl := &Impl{ForType: forType, TraitName: traitName, Methods: map[string]FuncId{}}
	for _, it := range items {
		fd, ok := it.(*ast.FnDecl)
		if !ok {
			continue
		}
		if _, dup := impl.Methods[fd.Name.Name]; dup {
			return diag.NewResolveError(fd.Span(), "duplicate method %q in impl for %s", fd.Name.Name, b.prog.Types.String(forType))
		}
		fid := b.mintFunc(fd.Name.Name)
		if err := b.defineFunction(fd, &fid, forType, traitName); err != nil {
			return err
		}
		impl.Methods[fd.Name.Name] = fid
	}
	b.prog.Impls = append(b.prog.Impls, impl)
	return nil
}

func (b *Builder) defineFunction(d *ast.FnDecl, existing *FuncId, selfType types.Id, _ string) error {
	var fid FuncId
	if existing != nil {
		fid = *existing
	} else {
		fid = b.prog.FuncByName[d.Name.Name]
	}
	fn := b.prog.Funcs[fid]
	fn.Span = d.Span()
	b.fn = fn
	b.scopes = []scope{{}}
	b.loopStack = nil

	if d.Self != nil {
		typ := selfType
		if d.Self.IsReference {
			typ = b.prog.Types.Reference(selfType, d.Self.IsMutable)
		}
		lid := b.addLocal("self", typ, d.Self.IsMutable)
		fn.Self = &SelfParam{IsReference: d.Self.IsReference, IsMutable: d.Self.IsMutable, Local: lid, Type: typ}
	}

	for _, p := range d.Params {
		pt, err := b.resolveType(p.Type)
		if err != nil {
			return err
		}
		name, mut := patternBindingName(p.Pattern)
		lid := b.addLocal(name, pt, mut)
		fn.Params = append(fn.Params, Param{Name: name, Local: lid, Type: pt})
	}

	if d.ReturnType != nil {
		rt, err := b.resolveType(d.ReturnType)
		if err != nil {
			return err
		}
		fn.Return = rt
	} else {
		fn.Return = b.prog.Types.Unit()
	}

	if d.Body != nil {
		body, err := b.buildBlock(d.Body)
		if err != nil {
			return err
		}
		fn.Body = body
	}
	fn.Locals = b.fn.Locals
	b.fn = nil
	return nil
}

func patternBindingName(p ast.Pattern) (string, bool) {
	switch pt := p.(type) {
	case *ast.BindingPattern:
		return pt.Name.Name, pt.IsMut
	case *ast.WildcardPattern:
		return "_", false
	default:
		return "_", false
	}
}

// ---- locals & scopes -------------------------------------------------------

func (b *Builder) addLocal(name string, typ types.Id, mutable bool) LocalId {
	id := LocalId(len(b.fn.Locals))
	b.fn.Locals = append(b.fn.Locals, Local{Name: name, Type: typ, Mutable: mutable})
	if name != "_" {
		b.scopes[len(b.scopes)-1][name] = id
	}
	return id
}

func (b *Builder) pushScope()  { b.scopes = append(b.scopes, scope{}) }
func (b *Builder) popScope()   { b.scopes = b.scopes[:len(b.scopes)-1] }

func (b *Builder) lookupLocal(name string) (LocalId, bool) {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if id, ok := b.scopes[i][name]; ok {
			return id, true
		}
	}
	return 0, false
}

// ---- type resolution --------------------------------------------------------

func (b *Builder) resolveType(te ast.TypeExpr) (types.Id, error) {
	switch t := te.(type) {
	case *ast.PrimitiveType:
		return b.prog.Types.Primitive(primitiveToKind(t.Kind)), nil
	case *ast.UnitType:
		return b.prog.Types.Unit(), nil
	case *ast.ReferenceType:
		pointee, err := b.resolveType(t.Pointee)
		if err != nil {
			return 0, err
		}
		return b.prog.Types.Reference(pointee, t.Mutable), nil
	case *ast.ArrayType:
		elem, err := b.resolveType(t.Element)
		if err != nil {
			return 0, err
		}
		size, err := b.evalConstUsize(t.Size)
		if err != nil {
			return 0, err
		}
		return b.prog.Types.Array(elem, size), nil
	case *ast.PathType:
		name := t.Path.String()
		if id, ok := b.prog.StructByName[name]; ok {
			return id, nil
		}
		if id, ok := b.prog.EnumByName[name]; ok {
			return id, nil
		}
		if id, ok := b.aliases[name]; ok {
			return id, nil
		}
		return 0, diag.NewResolveError(t.Span(), "unresolved type %q", name)
	default:
		return 0, diag.NewResolveError(te.Span(), "unsupported type expression")
	}
}

func primitiveToKind(k ast.PrimitiveKind) types.Kind {
	switch k {
	case ast.I32:
		return types.KindI32
	case ast.U32:
		return types.KindU32
	case ast.Isize:
		return types.KindIsize
	case ast.Usize:
		return types.KindUsize
	case ast.Bool:
		return types.KindBool
	case ast.Char:
		return types.KindChar
	case ast.Str:
		return types.KindStr
	default:
		return types.KindI32
	}
}

// evalConstUsize evaluates a compile-time array-size expression. Only
// direct integer literals are supported; anything else is an error (array
// sizes referencing named consts are not folded).
func (b *Builder) evalConstUsize(e ast.Expr) (uint64, error) {
	lit, ok := e.(*ast.IntegerLit)
	if !ok {
		return 0, diag.NewResolveError(e.Span(), "array size must be a compile-time integer literal")
	}
	n, err := strconv.ParseUint(lit.Text, 10, 64)
	if err != nil {
		return 0, diag.NewResolveError(e.Span(), "invalid array size %q", lit.Text)
	}
	return n, nil
}

// ---- statements & blocks ----------------------------------------------------

func (b *Builder) buildBlock(blk *ast.BlockExpr) (*Block, error) {
	b.pushScope()
	defer b.popScope()

	out := &Block{exprBase: exprBase{span: blk.Span()}}
	for _, s := range blk.Stmts {
		hs, err := b.buildStmt(s)
		if err != nil {
			return nil, err
		}
		out.Stmts = append(out.Stmts, hs)
	}
	if blk.Tail != nil {
		tail, err := b.buildExpr(blk.Tail)
		if err != nil {
			return nil, err
		}
		out.Tail = tail
		out.SetInfo(&ExprInfo{Type: tail.Info().Type})
	} else {
		out.SetInfo(&ExprInfo{Type: b.prog.Types.Unit()})
	}
	return out, nil
}

func (b *Builder) buildStmt(s ast.Stmt) (Stmt, error) {
	switch st := s.(type) {
	case *ast.EmptyStmt:
		return &EmptyStmt{stmtBase{st.Span()}}, nil
	case *ast.LetStmt:
		var declaredType types.Id
		haveType := false
		if st.Type != nil {
			t, err := b.resolveType(st.Type)
			if err != nil {
				return nil, err
			}
			declaredType = t
			haveType = true
		}
		var init Expr
		if st.Init != nil {
			e, err := b.buildExpr(st.Init)
			if err != nil {
				return nil, err
			}
			init = e
			if !haveType {
				declaredType = e.Info().Type
			}
		}
		name, mut := patternBindingName(st.Pattern)
		lid := b.addLocal(name, declaredType, mut)
		return &LetStmt{stmtBase{st.Span()}, lid, init}, nil
	case *ast.ExprStmt:
		e, err := b.buildExpr(st.Expr)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{stmtBase{st.Span()}, e}, nil
	case *ast.ItemStmt:
		return &EmptyStmt{stmtBase{st.Span()}}, nil
	default:
		return nil, diag.NewResolveError(s.Span(), "unsupported statement")
	}
}

// ---- expressions -------------------------------------------------------------

func (b *Builder) buildExpr(e ast.Expr) (Expr, error) {
	switch n := e.(type) {
	case *ast.IntegerLit:
		typ := b.prog.Types.I32()
		switch n.Suffix {
		case "u32":
			typ = b.prog.Types.U32()
		case "isize":
			typ = b.prog.Types.Isize()
		case "usize":
			typ = b.prog.Types.Usize()
		}
		out := &IntegerLit{exprBase{span: n.Span()}, n.Text, n.Suffix}
		out.SetInfo(&ExprInfo{Type: typ})
		return out, nil
	case *ast.BoolLit:
		out := &BoolLit{exprBase{span: n.Span()}, n.Value}
		out.SetInfo(&ExprInfo{Type: b.prog.Types.Bool()})
		return out, nil
	case *ast.CharLit:
		out := &CharLit{exprBase{span: n.Span()}, n.Value}
		out.SetInfo(&ExprInfo{Type: b.prog.Types.Char()})
		return out, nil
	case *ast.StringLit:
		out := &StringLit{exprBase{span: n.Span()}, n.Value, n.IsCString}
		out.SetInfo(&ExprInfo{Type: b.prog.Types.Str()})
		return out, nil
	case *ast.UnderscoreExpr:
		out := &Underscore{exprBase{span: n.Span()}}
		out.SetInfo(&ExprInfo{Type: b.prog.Types.Underscore()})
		return out, nil
	case *ast.GroupedExpr:
		return b.buildExpr(n.Inner)
	case *ast.PathExpr:
		return b.buildPathExpr(n)
	case *ast.UnaryExpr:
		return b.buildUnary(n)
	case *ast.BinaryExpr:
		return b.buildBinary(n)
	case *ast.AssignExpr:
		return b.buildAssign(n)
	case *ast.CastExpr:
		return b.buildCast(n)
	case *ast.ArrayInitExpr:
		return b.buildArrayInit(n)
	case *ast.ArrayRepeatExpr:
		return b.buildArrayRepeat(n)
	case *ast.IndexExpr:
		return b.buildIndex(n)
	case *ast.StructLiteralExpr:
		return b.buildStructLiteral(n)
	case *ast.CallExpr:
		return b.buildCall(n)
	case *ast.MethodCallExpr:
		return b.buildMethodCall(n)
	case *ast.FieldAccessExpr:
		return b.buildFieldAccess(n)
	case *ast.IfExpr:
		return b.buildIf(n)
	case *ast.LoopExpr:
		return b.buildLoop(n)
	case *ast.WhileExpr:
		return b.buildWhile(n)
	case *ast.ReturnExpr:
		return b.buildReturn(n)
	case *ast.BreakExpr:
		return b.buildBreak(n)
	case *ast.ContinueExpr:
		return b.buildContinue(n)
	case *ast.BlockExpr:
		blk, err := b.buildBlock(n)
		if err != nil {
			return nil, err
		}
		return blk, nil
	default:
		return nil, diag.NewResolveError(e.Span(), "unsupported expression")
	}
}

func (b *Builder) buildPathExpr(n *ast.PathExpr) (Expr, error) {
	segs := n.Path.Segments
	if len(segs) == 2 {
		enumName, variantName := segs[0].Name, segs[1].Name
		if enumID, ok := b.prog.EnumByName[enumName]; ok {
			info, _ := b.prog.Types.Enum(enumID)
			idx := info.VariantIndex(variantName)
			if idx < 0 {
				return nil, diag.NewResolveError(n.Span(), "enum %q has no variant %q", enumName, variantName)
			}
			out := &EnumVariantExpr{exprBase{span: n.Span()}, enumID, idx, variantName}
			out.SetInfo(&ExprInfo{Type: enumID})
			return out, nil
		}
	}
	if len(segs) != 1 {
		return nil, diag.NewResolveError(n.Span(), "unresolved path %q", n.Path.String())
	}
	name := segs[0].Name
	if lid, ok := b.lookupLocal(name); ok {
		out := &Variable{exprBase{span: n.Span()}, lid, name}
		out.SetInfo(&ExprInfo{Type: b.fn.Locals[lid].Type})
		return out, nil
	}
	if cid, ok := b.prog.ConstByName[name]; ok {
		out := &ConstUse{exprBase{span: n.Span()}, cid, name}
		out.SetInfo(&ExprInfo{Type: b.prog.Consts[cid].Type})
		return out, nil
	}
	if fid, ok := b.prog.FuncByName[name]; ok {
		out := &FuncUse{exprBase{span: n.Span()}, fid, name}
		out.SetInfo(&ExprInfo{Type: b.prog.Types.Unit()})
		return out, nil
	}
	return nil, diag.NewResolveError(n.Span(), "unresolved identifier %q", name)
}

func (b *Builder) buildUnary(n *ast.UnaryExpr) (Expr, error) {
	operand, err := b.buildExpr(n.Operand)
	if err != nil {
		return nil, err
	}
	out := &Unary{exprBase{span: n.Span()}, n.Op, operand}
	var typ types.Id
	switch n.Op {
	case ast.Ref:
		typ = b.prog.Types.Reference(operand.Info().Type, false)
	case ast.RefMut:
		typ = b.prog.Types.Reference(operand.Info().Type, true)
	case ast.Deref:
		if pointee, _, ok := b.prog.Types.Pointee(operand.Info().Type); ok {
			typ = pointee
		} else {
			typ = operand.Info().Type
		}
	default:
		typ = operand.Info().Type
	}
	out.SetInfo(&ExprInfo{Type: typ})
	return out, nil
}

func (b *Builder) buildBinary(n *ast.BinaryExpr) (Expr, error) {
	left, err := b.buildExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := b.buildExpr(n.Right)
	if err != nil {
		return nil, err
	}
	out := &Binary{exprBase{span: n.Span()}, n.Op, left, right}
	var typ types.Id
	switch n.Op {
	case ast.CmpEq, ast.CmpNe, ast.CmpLt, ast.CmpLe, ast.CmpGt, ast.CmpGe, ast.LogAnd, ast.LogOr:
		typ = b.prog.Types.Bool()
	default:
		typ = left.Info().Type
	}
	out.SetInfo(&ExprInfo{Type: typ})
	return out, nil
}

func (b *Builder) buildAssign(n *ast.AssignExpr) (Expr, error) {
	target, err := b.buildExpr(n.Target)
	if err != nil {
		return nil, err
	}
	rhs, err := b.buildExpr(n.Rhs)
	if err != nil {
		return nil, err
	}
	out := &Assign{exprBase{span: n.Span()}, n.Op, target, rhs}
	out.SetInfo(&ExprInfo{Type: b.prog.Types.Unit()})
	return out, nil
}

func (b *Builder) buildCast(n *ast.CastExpr) (Expr, error) {
	operand, err := b.buildExpr(n.Operand)
	if err != nil {
		return nil, err
	}
	target, err := b.resolveType(n.Target)
	if err != nil {
		return nil, err
	}
	out := &Cast{exprBase{span: n.Span()}, operand, target}
	out.SetInfo(&ExprInfo{Type: target})
	return out, nil
}

func (b *Builder) buildArrayInit(n *ast.ArrayInitExpr) (Expr, error) {
	elems := make([]Expr, len(n.Elements))
	var elemType types.Id
	for i, e := range n.Elements {
		he, err := b.buildExpr(e)
		if err != nil {
			return nil, err
		}
		elems[i] = he
		if i == 0 {
			elemType = he.Info().Type
		}
	}
	out := &ArrayInit{exprBase{span: n.Span()}, elems}
	out.SetInfo(&ExprInfo{Type: b.prog.Types.Array(elemType, uint64(len(elems)))})
	return out, nil
}

func (b *Builder) buildArrayRepeat(n *ast.ArrayRepeatExpr) (Expr, error) {
	value, err := b.buildExpr(n.Value)
	if err != nil {
		return nil, err
	}
	out := &ArrayRepeat{exprBase: exprBase{span: n.Span()}, Value: value}
	if size, err := b.evalConstUsize(n.Count); err == nil {
		out.HasCompileSize = true
		out.CompileTimeSize = size
		out.SetInfo(&ExprInfo{Type: b.prog.Types.Array(value.Info().Type, size)})
		return out, nil
	}
	count, err := b.buildExpr(n.Count)
	if err != nil {
		return nil, err
	}
	out.CountExpr = count
	out.SetInfo(&ExprInfo{Type: b.prog.Types.Array(value.Info().Type, 0)})
	return out, nil
}

func (b *Builder) buildIndex(n *ast.IndexExpr) (Expr, error) {
	target, err := b.buildExpr(n.Target)
	if err != nil {
		return nil, err
	}
	index, err := b.buildExpr(n.Index)
	if err != nil {
		return nil, err
	}
	out := &Index{exprBase{span: n.Span()}, target, index}
	baseType := target.Info().Type
	if pointee, _, ok := b.prog.Types.Pointee(baseType); ok {
		baseType = pointee
	}
	elem, _, ok := b.prog.Types.ArrayShape(baseType)
	if !ok {
		elem = baseType
	}
	out.SetInfo(&ExprInfo{Type: elem})
	return out, nil
}

func (b *Builder) buildStructLiteral(n *ast.StructLiteralExpr) (Expr, error) {
	name := n.Path.String()
	structID, ok := b.prog.StructByName[name]
	if !ok {
		return nil, diag.NewResolveError(n.Span(), "unresolved struct %q", name)
	}
	info, _ := b.prog.Types.Struct(structID)
	canonical := make([]StructFieldInit, len(info.Fields))
	seen := make([]bool, len(info.Fields))
	for _, fi := range n.Fields {
		idx := info.FieldIndex(fi.Name.Name)
		if idx < 0 {
			return nil, diag.NewResolveError(fi.Span(), "struct %q has no field %q", name, fi.Name.Name)
		}
		if seen[idx] {
			return nil, diag.NewResolveError(fi.Span(), "duplicate field %q in struct literal", fi.Name.Name)
		}
		seen[idx] = true
		val, err := b.buildExpr(fi.Value)
		if err != nil {
			return nil, err
		}
		canonical[idx] = StructFieldInit{Name: fi.Name.Name, Index: idx, Value: val}
	}
	for i, ok := range seen {
		if !ok {
			return nil, diag.NewResolveError(n.Span(), "missing field %q in struct literal for %q", info.Fields[i].Name, name)
		}
	}
	out := &StructLiteral{exprBase{span: n.Span()}, structID, canonical}
	out.SetInfo(&ExprInfo{Type: structID})
	return out, nil
}

func (b *Builder) buildCall(n *ast.CallExpr) (Expr, error) {
	callee, err := b.buildExpr(n.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]Expr, len(n.Args))
	for i, a := range n.Args {
		ha, err := b.buildExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = ha
	}
	out := &Call{exprBase{span: n.Span()}, callee, args}
	retType := b.prog.Types.Unit()
	if fu, ok := callee.(*FuncUse); ok {
		retType = b.prog.Funcs[fu.Func].Return
	}
	out.SetInfo(&ExprInfo{Type: retType})
	return out, nil
}

func (b *Builder) buildMethodCall(n *ast.MethodCallExpr) (Expr, error) {
	receiver, err := b.buildExpr(n.Receiver)
	if err != nil {
		return nil, err
	}
	recvType := receiver.Info().Type
	if pointee, _, ok := b.prog.Types.Pointee(recvType); ok {
		recvType = pointee
	}
	fid, ok := b.prog.InherentImpl(recvType, n.Method.Name)
	if !ok {
		return nil, diag.NewResolveError(n.Span(), "no method %q on type %s", n.Method.Name, b.prog.Types.String(recvType))
	}
	args := make([]Expr, len(n.Args))
	for i, a := range n.Args {
		ha, err := b.buildExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = ha
	}
	out := &MethodCall{exprBase{span: n.Span()}, receiver, fid, n.Method.Name, args}
	out.SetInfo(&ExprInfo{Type: b.prog.Funcs[fid].Return})
	return out, nil
}

func (b *Builder) buildFieldAccess(n *ast.FieldAccessExpr) (Expr, error) {
	target, err := b.buildExpr(n.Target)
	if err != nil {
		return nil, err
	}
	baseType := target.Info().Type
	if pointee, _, ok := b.prog.Types.Pointee(baseType); ok {
		baseType = pointee
	}
	info, ok := b.prog.Types.Struct(baseType)
	if !ok {
		return nil, diag.NewResolveError(n.Span(), "field access on non-struct type %s", b.prog.Types.String(baseType))
	}
	idx := info.FieldIndex(n.Field.Name)
	if idx < 0 {
		return nil, diag.NewResolveError(n.Span(), "struct %q has no field %q", info.Name, n.Field.Name)
	}
	out := &FieldAccess{exprBase{span: n.Span()}, target, n.Field.Name, idx}
	out.SetInfo(&ExprInfo{Type: info.Fields[idx].Type})
	return out, nil
}

func (b *Builder) buildIf(n *ast.IfExpr) (Expr, error) {
	cond, err := b.buildExpr(n.Cond)
	if err != nil {
		return nil, err
	}
	then, err := b.buildBlock(n.Then)
	if err != nil {
		return nil, err
	}
	out := &If{exprBase: exprBase{span: n.Span()}, Cond: cond, Then: then}
	typ := b.prog.Types.Unit()
	if n.Else != nil {
		switch els := n.Else.(type) {
		case *ast.BlockExpr:
			elseBlock, err := b.buildBlock(els)
			if err != nil {
				return nil, err
			}
			out.Else = elseBlock
			typ = then.Info().Type
		case *ast.IfExpr:
			elseExpr, err := b.buildIf(els)
			if err != nil {
				return nil, err
			}
			out.Else = elseExpr
			typ = then.Info().Type
		}
	}
	out.SetInfo(&ExprInfo{Type: typ})
	return out, nil
}

func (b *Builder) pushLoop() LoopId {
	id := b.nextLoop
	b.nextLoop++
	b.loopStack = append(b.loopStack, id)
	return id
}
func (b *Builder) popLoop() { b.loopStack = b.loopStack[:len(b.loopStack)-1] }
func (b *Builder) currentLoop() (LoopId, bool) {
	if len(b.loopStack) == 0 {
		return 0, false
	}
	return b.loopStack[len(b.loopStack)-1], true
}

func (b *Builder) buildLoop(n *ast.LoopExpr) (Expr, error) {
	id := b.pushLoop()
	body, err := b.buildBlock(n.Body)
	b.popLoop()
	if err != nil {
		return nil, err
	}
	out := &Loop{exprBase: exprBase{span: n.Span()}, ID: id, Body: body}
	out.SetInfo(&ExprInfo{Type: b.prog.Types.Never()})
	return out, nil
}

func (b *Builder) buildWhile(n *ast.WhileExpr) (Expr, error) {
	cond, err := b.buildExpr(n.Cond)
	if err != nil {
		return nil, err
	}
	id := b.pushLoop()
	body, err := b.buildBlock(n.Body)
	b.popLoop()
	if err != nil {
		return nil, err
	}
	out := &While{exprBase{span: n.Span()}, id, cond, body}
	out.SetInfo(&ExprInfo{Type: b.prog.Types.Unit()})
	return out, nil
}

func (b *Builder) buildReturn(n *ast.ReturnExpr) (Expr, error) {
	var value Expr
	if n.Value != nil {
		v, err := b.buildExpr(n.Value)
		if err != nil {
			return nil, err
		}
		value = v
	}
	out := &ReturnExpr{exprBase{span: n.Span()}, value}
	out.SetInfo(&ExprInfo{Type: b.prog.Types.Never()})
	return out, nil
}

func (b *Builder) buildBreak(n *ast.BreakExpr) (Expr, error) {
	loop, ok := b.currentLoop()
	if !ok {
		return nil, diag.NewResolveError(n.Span(), "'break' outside a loop")
	}
	var value Expr
	if n.Value != nil {
		v, err := b.buildExpr(n.Value)
		if err != nil {
			return nil, err
		}
		value = v
	}
	out := &BreakExpr{exprBase{span: n.Span()}, loop, value}
	out.SetInfo(&ExprInfo{Type: b.prog.Types.Never()})
	return out, nil
}

func (b *Builder) buildContinue(n *ast.ContinueExpr) (Expr, error) {
	loop, ok := b.currentLoop()
	if !ok {
		return nil, diag.NewResolveError(n.Span(), "'continue' outside a loop")
	}
	out := &ContinueExpr{exprBase{span: n.Span()}, loop}
	out.SetInfo(&ExprInfo{Type: b.prog.Types.Never()})
	return out, nil
}
