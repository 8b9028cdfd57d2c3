// Package hir implements the HIR (spec §3.3): the AST decorated with
// resolved symbol references, interned types, and canonical field
// orderings. It is built from the AST by Builder (builder.go) in two passes:
// item declarations first, then item bodies.
package hir

import (
	"github.com/rustlite/rlc/internal/token"
	"github.com/rustlite/rlc/internal/types"
)

// LocalId identifies a named storage slot within one function body.
type LocalId int

// FuncId identifies a free function or method definition.
type FuncId int

// ConstId identifies a module-level constant.
type ConstId int

// LoopId identifies one `loop`/`while` expression, used to match `break`
// and `continue` to their enclosing loop.
type LoopId int

// Local is a named storage slot; both parameters and `let`-bindings
// produce Locals, owned by the enclosing function body.
type Local struct {
	Name    string
	Type    types.Id
	Mutable bool
	Span    token.Span
}

// Function is a resolved function or method definition.
type Function struct {
	ID     FuncId
	Name   string
	Self   *SelfParam // nil for free functions
	Params []Param
	Return types.Id
	Locals []Local // index 0..len(Params)-1 (plus self, if any) are parameter locals
	Body   *Block  // nil for a signature-only trait method
	Span   token.Span
}

// SelfParam mirrors ast.SelfParam, resolved to the Local it binds.
type SelfParam struct {
	IsReference bool
	IsMutable   bool
	Local       LocalId
	Type        types.Id
}

// Param is one resolved positional parameter.
type Param struct {
	Name  string
	Local LocalId
	Type  types.Id
}

// StructDef is a resolved struct declaration.
type StructDef struct {
	Type types.Id // KindStruct id; StructInfo carries name + fields
	Span token.Span
}

// EnumDef is a resolved enum declaration.
type EnumDef struct {
	Type types.Id // KindEnum id; EnumInfo carries name + variants
	Span token.Span
}

// ConstDef is a resolved module-level constant.
type ConstDef struct {
	ID    ConstId
	Name  string
	Type  types.Id
	Value Expr
	Span  token.Span
}

// Impl is a resolved inherent or trait impl block; method resolution only
// ever consults inherent impls (trait-bound solving is out of scope).
type Impl struct {
	ForType   types.Id
	TraitName string // "" for inherent impls
	Methods   map[string]FuncId
	Span      token.Span
}

// Program is the root HIR artifact: every function, struct, enum, const,
// and impl block in the compilation unit, plus the type-interning context
// that produced every types.Id appearing in it.
type Program struct {
	Types *types.Context

	Funcs   []*Function
	Structs []*StructDef
	Enums   []*EnumDef
	Consts  []*ConstDef
	Impls   []*Impl

	FuncByName   map[string]FuncId
	StructByName map[string]types.Id
	EnumByName   map[string]types.Id
	ConstByName  map[string]ConstId

	MainFunc FuncId
	HasMain  bool
}

func (p *Program) Func(id FuncId) *Function { return p.Funcs[id] }
func (p *Program) Const(id ConstId) *ConstDef { return p.Consts[id] }

// InherentImpl finds the unique inherent-impl method named name on forType,
// per §4.2 rule 4 (method resolution). Returns (FuncId, true) if exactly
// one inherent impl of forType defines it.
func (p *Program) InherentImpl(forType types.Id, name string) (FuncId, bool) {
	var found FuncId
	matches := 0
	for _, impl := range p.Impls {
		if impl.TraitName != "" || impl.ForType != forType {
			continue
		}
		if fid, ok := impl.Methods[name]; ok {
			found = fid
			matches++
		}
	}
	return found, matches == 1
}
