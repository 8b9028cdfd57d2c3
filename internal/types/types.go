// Package types implements the canonical, deduplicated type table (spec
// §3.4): a process-session-owned interning context that mints one Id per
// distinct structural type. Equality between types reduces to comparing
// Ids.
package types

import "fmt"

// Kind tags the shape of a canonicalized type.
type Kind int

const (
	KindBool Kind = iota
	KindChar
	KindI32
	KindU32
	KindIsize
	KindUsize
	KindStr
	KindUnit
	KindNever
	KindUnderscore
	KindStruct
	KindEnum
	KindReference
	KindArray
)

// Id is a cheap handle into a Context's type table.
type Id int

// FieldInfo is one field of a struct type, in declaration order.
type FieldInfo struct {
	Name string
	Type Id
}

// StructInfo describes a struct type's shape.
type StructInfo struct {
	Name   string
	Fields []FieldInfo
}

// FieldIndex returns the declaration-order index of name, or -1.
func (s *StructInfo) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// EnumInfo describes an enum type's variants, in declaration order.
type EnumInfo struct {
	Name     string
	Variants []string
}

// VariantIndex returns the declaration-order index of a variant name, or -1.
func (e *EnumInfo) VariantIndex(name string) int {
	for i, v := range e.Variants {
		if v == name {
			return i
		}
	}
	return -1
}

type entry struct {
	kind Kind

	// reference
	pointee Id
	mutable bool

	// array
	elem Id
	size uint64

	// struct / enum
	structInfo *StructInfo
	enumInfo   *EnumInfo
}

type refKey struct {
	pointee Id
	mutable bool
}

type arrayKey struct {
	elem Id
	size uint64
}

// Context is the per-compilation-session type-interning table. It is not a
// process-wide singleton (§9's redesign note): callers own one Context per
// compilation and pass it by reference.
type Context struct {
	entries []entry

	primitives map[Kind]Id
	references map[refKey]Id
	arrays     map[arrayKey]Id
}

// NewContext creates a fresh interning table with all primitives
// pre-seeded.
func NewContext() *Context {
	c := &Context{
		primitives: make(map[Kind]Id),
		references: make(map[refKey]Id),
		arrays:     make(map[arrayKey]Id),
	}
	for _, k := range []Kind{KindBool, KindChar, KindI32, KindU32, KindIsize, KindUsize, KindStr, KindUnit, KindNever, KindUnderscore} {
		c.entries = append(c.entries, entry{kind: k})
		c.primitives[k] = Id(len(c.entries) - 1)
	}
	return c
}

func (c *Context) intern(e entry) Id {
	c.entries = append(c.entries, e)
	return Id(len(c.entries) - 1)
}

// Primitive returns the canonical Id for a pre-seeded primitive kind.
// Panics if k is not a primitive kind (programmer error: use DeclareStruct
// / DeclareEnum / Reference / Array for those).
func (c *Context) Primitive(k Kind) Id {
	id, ok := c.primitives[k]
	if !ok {
		panic(fmt.Sprintf("types: %v is not a primitive kind", k))
	}
	return id
}

func (c *Context) Bool() Id       { return c.Primitive(KindBool) }
func (c *Context) Char() Id       { return c.Primitive(KindChar) }
func (c *Context) I32() Id        { return c.Primitive(KindI32) }
func (c *Context) U32() Id        { return c.Primitive(KindU32) }
func (c *Context) Isize() Id      { return c.Primitive(KindIsize) }
func (c *Context) Usize() Id      { return c.Primitive(KindUsize) }
func (c *Context) Str() Id        { return c.Primitive(KindStr) }
func (c *Context) Unit() Id       { return c.Primitive(KindUnit) }
func (c *Context) Never() Id      { return c.Primitive(KindNever) }
func (c *Context) Underscore() Id { return c.Primitive(KindUnderscore) }

// Reference interns `&T` / `&mut T`, deduplicated on (pointee, mutable).
func (c *Context) Reference(pointee Id, mutable bool) Id {
	key := refKey{pointee: pointee, mutable: mutable}
	if id, ok := c.references[key]; ok {
		return id
	}
	id := c.intern(entry{kind: KindReference, pointee: pointee, mutable: mutable})
	c.references[key] = id
	return id
}

// Array interns `[T; N]`, deduplicated on (elem, size).
func (c *Context) Array(elem Id, size uint64) Id {
	key := arrayKey{elem: elem, size: size}
	if id, ok := c.arrays[key]; ok {
		return id
	}
	id := c.intern(entry{kind: KindArray, elem: elem, size: size})
	c.arrays[key] = id
	return id
}

// DeclareStruct mints a fresh struct type. Each declaration site gets its
// own Id; the HIR builder calls this exactly once per struct item.
func (c *Context) DeclareStruct(info *StructInfo) Id {
	return c.intern(entry{kind: KindStruct, structInfo: info})
}

// DeclareEnum mints a fresh enum type.
func (c *Context) DeclareEnum(info *EnumInfo) Id {
	return c.intern(entry{kind: KindEnum, enumInfo: info})
}

// SetStructFields patches a previously-declared struct's field list. Used
// for forward declaration: a struct's Id can be minted before its field
// types (which may reference other not-yet-declared structs) are known.
func (c *Context) SetStructFields(id Id, fields []FieldInfo) {
	c.entries[id].structInfo.Fields = fields
}

// SetEnumVariants patches a previously-declared enum's variant list.
func (c *Context) SetEnumVariants(id Id, variants []string) {
	c.entries[id].enumInfo.Variants = variants
}

// Kind returns the shape tag for id.
func (c *Context) Kind(id Id) Kind { return c.entries[id].kind }

// Struct returns the struct info for id, if id names a struct type.
func (c *Context) Struct(id Id) (*StructInfo, bool) {
	e := c.entries[id]
	if e.kind != KindStruct {
		return nil, false
	}
	return e.structInfo, true
}

// Enum returns the enum info for id, if id names an enum type.
func (c *Context) Enum(id Id) (*EnumInfo, bool) {
	e := c.entries[id]
	if e.kind != KindEnum {
		return nil, false
	}
	return e.enumInfo, true
}

// Pointee returns the referenced type and mutability, if id is a reference.
func (c *Context) Pointee(id Id) (pointee Id, mutable bool, ok bool) {
	e := c.entries[id]
	if e.kind != KindReference {
		return 0, false, false
	}
	return e.pointee, e.mutable, true
}

// ArrayShape returns the element type and size, if id is an array.
func (c *Context) ArrayShape(id Id) (elem Id, size uint64, ok bool) {
	e := c.entries[id]
	if e.kind != KindArray {
		return 0, 0, false
	}
	return e.elem, e.size, true
}

// IsNever reports whether id is the never type.
func (c *Context) IsNever(id Id) bool { return c.Kind(id) == KindNever }

// IsIntegerKind reports whether k names one of the four signed/unsigned
// integer primitive kinds.
func IsIntegerKind(k Kind) bool {
	switch k {
	case KindI32, KindU32, KindIsize, KindUsize:
		return true
	}
	return false
}

// IsSigned reports whether k is a signed integer kind.
func IsSigned(k Kind) bool {
	return k == KindI32 || k == KindIsize
}

// BitWidth returns the LLVM-level bit width used for k, per §4.5.1 (all
// four integer widths collapse to i32 in this target's type formatting).
func BitWidth(k Kind) int {
	switch k {
	case KindBool:
		return 1
	case KindChar:
		return 8
	case KindI32, KindU32, KindIsize, KindUsize:
		return 32
	default:
		return 0
	}
}

// Canonicalize applies the MIR canonicalization rule from §4.4.3: enum
// types collapse to usize; references and arrays are normalized
// recursively; everything else is unchanged. All downstream MIR equality
// checks use the canonicalized id.
func (c *Context) Canonicalize(id Id) Id {
	e := c.entries[id]
	switch e.kind {
	case KindEnum:
		return c.Usize()
	case KindReference:
		return c.Reference(c.Canonicalize(e.pointee), e.mutable)
	case KindArray:
		return c.Array(c.Canonicalize(e.elem), e.size)
	default:
		return id
	}
}

// String renders id in the surface-syntax-like debug form used by the AST
// and MIR pretty-printers.
func (c *Context) String(id Id) string {
	e := c.entries[id]
	switch e.kind {
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindI32:
		return "i32"
	case KindU32:
		return "u32"
	case KindIsize:
		return "isize"
	case KindUsize:
		return "usize"
	case KindStr:
		return "str"
	case KindUnit:
		return "()"
	case KindNever:
		return "!"
	case KindUnderscore:
		return "_"
	case KindStruct:
		return e.structInfo.Name
	case KindEnum:
		return e.enumInfo.Name
	case KindReference:
		if e.mutable {
			return "&mut " + c.String(e.pointee)
		}
		return "&" + c.String(e.pointee)
	case KindArray:
		return fmt.Sprintf("[%s; %d]", c.String(e.elem), e.size)
	default:
		return "<unknown type>"
	}
}
