// Package mir implements the mid-level IR (spec §3.5): a CFG of basic
// blocks over SSA temps and addressable locals, built from HIR by a
// destination-passing-style lowerer (lowerer.go, §4.4) and consumed by the
// LLVM text emitter (internal/codegen/llvm).
//
// Following the arena/index redesign (§9): LocalId, TempId, BlockId,
// GlobalId and FuncId are plain int handles into slices owned by the
// enclosing Function or Module — never pointers — so back-references stay
// stable across slice growth.
package mir

import (
	"github.com/google/uuid"

	"github.com/rustlite/rlc/internal/types"
)

// LocalId indexes Function.Locals: an addressable, typed storage slot
// (parameters, `let`-bindings, synthetic temporaries materialized during
// lowering, and the SRET/NRVO return slot).
type LocalId int

// TempId indexes Function.TempTypes: an SSA value defined exactly once by
// a Define/Load/Call statement.
type TempId int

// BlockId indexes Function.Blocks.
type BlockId int

// GlobalId indexes Module.Globals.
type GlobalId int

// FuncId indexes Module.Functions (and, for externals, Module.Externs).
type FuncId int

// Local is a named, addressable slot. Alias records when this local is a
// re-use of a temp or an ABI parameter rather than an independent stack
// slot, so the emitter can skip allocating/storing it twice.
type Local struct {
	Name    string
	Type    types.Id
	Alias   AliasKind
	AliasOf int // meaning depends on Alias
}

// AliasKind tags what, if anything, a Local re-uses.
type AliasKind int

const (
	AliasNone AliasKind = iota
	AliasOfABIParam
	AliasOfTemp
)

// GlobalString is one deduplicated string-literal global.
type GlobalString struct {
	Bytes    []byte
	IsCStyle bool
}

// Module owns every function and string-literal global produced by one
// compilation. SessionID is a debug/trace label only; it never affects
// codegen determinism (§8: identical inputs produce byte-identical output).
type Module struct {
	SourcePath string
	SessionID  uuid.UUID

	Globals   []GlobalString
	Functions []*Function
	Externs   []*Function

	Types *types.Context
}

// NewModule creates an empty module tagged with a fresh session id.
func NewModule(sourcePath string, tctx *types.Context) *Module {
	return &Module{SourcePath: sourcePath, SessionID: uuid.New(), Types: tctx}
}

func (m *Module) internString(bytes []byte, isCStyle bool) GlobalId {
	for i, g := range m.Globals {
		if g.IsCStyle == isCStyle && string(g.Bytes) == string(bytes) {
			return GlobalId(i)
		}
	}
	m.Globals = append(m.Globals, GlobalString{Bytes: bytes, IsCStyle: isCStyle})
	return GlobalId(len(m.Globals) - 1)
}

// ABIParamKind classifies how one ABI-level parameter is passed.
type ABIParamKind int

const (
	ABIDirect ABIParamKind = iota
	ABIIndirect
	ABISRet
)

// ABIParam is one entry of a function's ABI-level parameter list.
type ABIParam struct {
	Kind ABIParamKind
	Type types.Id
	// SemanticParam is the index into Function.Params this ABI param
	// corresponds to, or -1 for the synthetic SRET slot.
	SemanticParam int
	Name          string
}

// ReturnDescKind tags how a function returns its value.
type ReturnDescKind int

const (
	RetNever ReturnDescKind = iota
	RetVoid
	RetDirect
	RetIndirectSRet
)

// ReturnDesc is the semantic+ABI view of a function's return (§3.5).
type ReturnDesc struct {
	Kind        ReturnDescKind
	Type        types.Id // meaningful for RetDirect / RetIndirectSRet
	SRetABIndex int      // ABI index of the SRET parameter, for RetIndirectSRet
}

// ReturnStoragePlan records whether and how a function materializes its
// return value in memory before the `ret` terminator (§4.4.1 step 2).
type ReturnStoragePlan struct {
	UsesSRet    bool
	ReturnLocal LocalId // valid iff UsesSRet; may alias a user local (NRVO)
	SRetABIndex int
}

// Param is one semantic (source-level) parameter.
type Param struct {
	Name  string
	Local LocalId
	Type  types.Id
}

// Function is one MIR function: CFG, locals, temps, and its ABI shape.
type Function struct {
	ID         FuncId
	Name       string
	Params     []Param
	ABIParams  []ABIParam
	Return     ReturnDesc
	Storage    ReturnStoragePlan
	Locals     []Local
	TempTypes  []types.Id
	Blocks     []*BasicBlock
	StartBlock BlockId
	IsExtern   bool
}

func (f *Function) newLocal(name string, t types.Id) LocalId {
	f.Locals = append(f.Locals, Local{Name: name, Type: t})
	return LocalId(len(f.Locals) - 1)
}

func (f *Function) newTemp(t types.Id) TempId {
	f.TempTypes = append(f.TempTypes, t)
	return TempId(len(f.TempTypes) - 1)
}

func (f *Function) newBlock(hint string) BlockId {
	id := BlockId(len(f.Blocks))
	f.Blocks = append(f.Blocks, &BasicBlock{ID: id, Hint: hint})
	return id
}

func (f *Function) block(id BlockId) *BasicBlock { return f.Blocks[id] }

// BasicBlock is a straight-line sequence of statements ending in exactly
// one terminator, plus any phi nodes merging predecessor values.
type BasicBlock struct {
	ID         BlockId
	Hint       string
	Phis       []Phi
	Stmts      []Statement
	Terminator Terminator
}

// Phi merges one value per predecessor block into Dest.
type Phi struct {
	Dest     TempId
	Type     types.Id
	Incoming []PhiIncoming
}

// PhiIncoming pairs a predecessor block with the operand coming from it.
type PhiIncoming struct {
	Block   BlockId
	Operand Operand
}

// --- Places ------------------------------------------------------------

// Place is an addressable memory location: a base plus zero or more
// projections.
type Place struct {
	Base        PlaceBase
	Projections []Projection
}

// PlaceBase is a closed sum: LocalPlace | GlobalPlace | PointerPlace.
type PlaceBase interface{ placeBaseNode() }

type LocalPlace struct{ Local LocalId }
type GlobalPlace struct{ Global GlobalId }
type PointerPlace struct{ Pointer TempId }

func (LocalPlace) placeBaseNode()   {}
func (GlobalPlace) placeBaseNode()  {}
func (PointerPlace) placeBaseNode() {}

// Projection is a closed sum: FieldProjection | IndexProjection.
type Projection interface{ projectionNode() }

type FieldProjection struct{ Index int }
type IndexProjection struct{ Index Operand }

func (FieldProjection) projectionNode() {}
func (IndexProjection) projectionNode() {}

// PlaceOf builds a bare place (no projections) from a base.
func PlaceOf(base PlaceBase) Place { return Place{Base: base} }

// Field appends a field projection, returning a new Place.
func (p Place) Field(index int) Place {
	out := Place{Base: p.Base, Projections: append(append([]Projection{}, p.Projections...), FieldProjection{Index: index})}
	return out
}

// Index appends an index projection, returning a new Place.
func (p Place) Index(idx Operand) Place {
	out := Place{Base: p.Base, Projections: append(append([]Projection{}, p.Projections...), IndexProjection{Index: idx})}
	return out
}

// --- Operands & constants ------------------------------------------------

// Operand is a closed sum: TempOperand | Constant | ABIParamOperand.
type Operand interface{ operandNode() }

type TempOperand struct{ Temp TempId }

func (TempOperand) operandNode() {}

// ABIParamOperand stands for "the raw ABI-level value at this parameter
// position", consumed directly by the LLVM emitter rather than through a
// temp — it never reaches a RValue position other than the initial Assign
// a parameter store performs. Index is the semantic parameter index (not
// the ABI-list position), matching ABIParam.SemanticParam.
type ABIParamOperand struct{ Index int }

func (ABIParamOperand) operandNode() {}

// ConstKind tags a Constant's value shape.
type ConstKind int

const (
	ConstBool ConstKind = iota
	ConstInt
	ConstChar
	ConstString
	ConstUnit
)

// Constant is a fully-resolved literal value carrying its canonical type.
type Constant struct {
	Type     types.Id
	Kind     ConstKind
	BoolVal  bool
	IntVal   uint64
	Negative bool
	Signed   bool
	CharVal  rune
	StrBytes []byte
	IsCStyle bool
	StrLen   int
}

func (Constant) operandNode() {}

// --- RValues -------------------------------------------------------------

// RValue is a closed sum of the right-hand sides a Define statement may
// compute.
type RValue interface{ rvalueNode() }

// ConstRValue wraps a Constant as an rvalue (for `Define(t, const)`).
type ConstRValue struct{ Value Constant }

// BinOp enumerates the 25 binary opcodes (§3.5): arithmetic, bitwise,
// shift, logical, and comparison. Add, sub, and mul have one opcode for
// both signednesses; division, remainder, right shift, and the ordered
// comparisons have separate signed and unsigned opcodes.
type BinOp int

const (
	BinAddI BinOp = iota
	BinSubI
	BinMulI
	BinSDiv
	BinUDiv
	BinSRem
	BinURem
	BinAnd
	BinOr
	BinXor
	BinShl
	BinLShr
	BinAShr
	BinLogAnd
	BinLogOr
	BinCmpEq
	BinCmpNe
	BinCmpSlt
	BinCmpSle
	BinCmpSgt
	BinCmpSge
	BinCmpUlt
	BinCmpUle
	BinCmpUgt
	BinCmpUge
)

// BinaryRValue computes Op(Lhs, Rhs); Lhs/Rhs are already-lowered operands.
type BinaryRValue struct {
	Op       BinOp
	Lhs, Rhs Operand
}

// UnOp enumerates the three unary opcodes.
type UnOp int

const (
	UnNot UnOp = iota
	UnNeg
	UnDeref
)

// UnaryRValue computes Op(Operand).
type UnaryRValue struct {
	Op      UnOp
	Operand Operand
}

// RefRValue takes the address of a place (`&place`).
type RefRValue struct{ Place Place }

// FieldOfTempRValue reads a field directly out of an aggregate-valued temp
// (as opposed to a place load): `extractvalue`-shaped access.
type FieldOfTempRValue struct {
	Temp  TempId
	Index int
}

// CastRValue converts Operand to Type per §4.5.2's cast classification.
type CastRValue struct {
	Operand Operand
	Type    types.Id
}

// IdentityRValue materializes an already-computed Operand (a Constant or
// an ABI-parameter placeholder) into a fresh temp with no conversion —
// the `%t = add <type> 0, <value>` shape §4.5.2 describes for constants,
// generalized to any operand that needs a temp of its own.
type IdentityRValue struct{ Operand Operand }

func (ConstRValue) rvalueNode()      {}
func (BinaryRValue) rvalueNode()     {}
func (UnaryRValue) rvalueNode()      {}
func (RefRValue) rvalueNode()        {}
func (FieldOfTempRValue) rvalueNode() {}
func (CastRValue) rvalueNode()        {}
func (IdentityRValue) rvalueNode()    {}

// --- Statements ------------------------------------------------------------

// Statement is a closed sum: Define | Load | Assign | Init | Call.
type Statement interface{ stmtNode() }

// Define computes an RValue into a fresh temp.
type Define struct {
	Dest  TempId
	Value RValue
}

// Load reads a place into a fresh temp.
type Load struct {
	Dest  TempId
	Place Place
}

// ValueSource is a closed sum: Operand | a Place to copy from.
type ValueSource interface{ valueSourceNode() }

type OperandSource struct{ Operand Operand }
type PlaceSource struct{ Place Place }

func (OperandSource) valueSourceNode() {}
func (PlaceSource) valueSourceNode()   {}

// Assign writes a scalar ValueSource into a place.
type Assign struct {
	Dest  Place
	Value ValueSource
}

// InitLeaf is Omitted (another statement in this block fills the slot) or
// a concrete Value.
type InitLeaf struct {
	Omitted bool
	Value   ValueSource
}

// InitPattern is a closed sum describing a destination-passing-style
// aggregate write: InitStruct | InitArrayLiteral | InitArrayRepeat |
// InitCopy.
type InitPattern interface{ initPatternNode() }

type InitStruct struct{ Leaves []InitLeaf }
type InitArrayLiteral struct{ Leaves []InitLeaf }
type InitArrayRepeat struct {
	Element ValueSource
	Count   uint64
}
type InitCopy struct{ Src Place }

func (InitStruct) initPatternNode()       {}
func (InitArrayLiteral) initPatternNode() {}
func (InitArrayRepeat) initPatternNode()  {}
func (InitCopy) initPatternNode()         {}

// Init writes an aggregate into Dest via a destination-passing pattern.
type Init struct {
	Dest    Place
	Pattern InitPattern
}

// Call invokes Target with Args. Dest is nil for void/SRET calls that
// don't need the result captured in a temp; SRetDest is set when the
// callee is SRET.
type Call struct {
	Dest     *TempId
	Target   FuncId
	Args     []Operand
	SRetDest *Place
}

func (*Define) stmtNode() {}
func (*Load) stmtNode()   {}
func (*Assign) stmtNode() {}
func (*Init) stmtNode()   {}
func (*Call) stmtNode()   {}

// --- Terminators -----------------------------------------------------------

// Terminator is a closed sum: Goto | SwitchInt | Return | Unreachable.
type Terminator interface{ terminatorNode() }

type Goto struct{ Target BlockId }

// SwitchCase matches one constant against the discriminant.
type SwitchCase struct {
	Value Constant
	Block BlockId
}

type SwitchInt struct {
	Discriminant Operand
	Cases        []SwitchCase
	Otherwise    BlockId
}

type Return struct {
	Value Operand // nil for void/no payload
}

type Unreachable struct{}

func (*Goto) terminatorNode()        {}
func (*SwitchInt) terminatorNode()   {}
func (*Return) terminatorNode()      {}
func (*Unreachable) terminatorNode() {}
