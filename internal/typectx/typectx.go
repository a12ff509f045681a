// Package typectx implements the external type-context collaborator
// that the ir package consumes but does not own: size/alignment
// queries, value-type classification, struct field lookup, and
// structural interning of type descriptors into stable, comparable
// ids. The ir package stores only a typectx.ID on values; equality of
// types is equality of ids.
package typectx

import "fmt"

// Kind classifies a type the way ir needs to dispatch on shape
// without knowing its full structure.
type Kind int

const (
	KindVoid Kind = iota
	KindPointer
	KindInt
	KindFloat
	KindVector
	KindArray
	KindStruct
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindPointer:
		return "ptr"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindVector:
		return "vector"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// ID is an opaque, stable type identifier. The zero value names no
// type; a fresh Context never hands it out.
type ID int

// desc is the interned representation of a type. Only one field set
// is meaningful per Kind; the struct is kept flat rather than an
// interface because interning compares descriptors by value.
type desc struct {
	kind     Kind
	bits     int   // KindInt, KindFloat
	elem     ID    // KindPointer, KindVector, KindArray
	len      int   // KindVector, KindArray
	name     string
	fields   []ID  // KindStruct
	params   []ID  // KindFunction
	ret      ID    // KindFunction
	variadic bool  // KindFunction
	key      string
}

// Context interns type descriptors and answers layout/classification
// queries about the ids it has handed out. A Context is not
// safe for concurrent use, matching the rest of the module's
// single-threaded cooperative model (spec.md §5).
type Context struct {
	byKey map[string]ID
	descs []desc
}

// NewContext returns a Context pre-seeded with void and the common
// integer widths, the same way the teacher's type hierarchy leans on
// a handful of builtin kinds before anything user-defined is interned.
func NewContext() *Context {
	c := &Context{byKey: make(map[string]ID)}
	c.descs = append(c.descs, desc{}) // index 0 reserved, never returned as an ID
	c.Void()
	for _, bits := range []int{1, 8, 16, 32, 64} {
		c.Int(bits)
	}
	return c
}

func (c *Context) intern(d desc) ID {
	if id, ok := c.byKey[d.key]; ok {
		return id
	}
	id := ID(len(c.descs))
	c.descs = append(c.descs, d)
	c.byKey[d.key] = id
	return id
}

// Void returns the id of the void type.
func (c *Context) Void() ID {
	return c.intern(desc{kind: KindVoid, key: "void"})
}

// Int returns the id of a signless integer type of the given bit width.
func (c *Context) Int(bits int) ID {
	return c.intern(desc{kind: KindInt, bits: bits, key: fmt.Sprintf("i%d", bits)})
}

// Float returns the id of a floating-point type of the given bit width.
func (c *Context) Float(bits int) ID {
	return c.intern(desc{kind: KindFloat, bits: bits, key: fmt.Sprintf("f%d", bits)})
}

// Pointer returns the id of a pointer to elem.
func (c *Context) Pointer(elem ID) ID {
	return c.intern(desc{kind: KindPointer, elem: elem, key: fmt.Sprintf("ptr(%d)", elem)})
}

// Array returns the id of a fixed-length array of elem.
func (c *Context) Array(elem ID, length int) ID {
	return c.intern(desc{kind: KindArray, elem: elem, len: length, key: fmt.Sprintf("array(%d,%d)", elem, length)})
}

// Vector returns the id of a fixed-length SIMD vector of elem.
func (c *Context) Vector(elem ID, length int) ID {
	return c.intern(desc{kind: KindVector, elem: elem, len: length, key: fmt.Sprintf("vector(%d,%d)", elem, length)})
}

// Struct returns the id of a named aggregate with the given field
// types in order. Two Struct calls with the same name and fields
// intern to the same id; a name reused with different fields is a
// caller bug and panics, mirroring how LLVM treats identified-struct
// redefinition as malformed IR rather than something to silently allow.
func (c *Context) Struct(name string, fields []ID) ID {
	key := fmt.Sprintf("struct(%s)", name)
	if id, ok := c.byKey[key]; ok {
		existing := c.descs[id]
		if len(existing.fields) != len(fields) {
			panic(fmt.Sprintf("typectx: struct %q redefined with a different field count", name))
		}
		for i := range fields {
			if existing.fields[i] != fields[i] {
				panic(fmt.Sprintf("typectx: struct %q redefined with a different field %d", name, i))
			}
		}
		return id
	}
	cp := make([]ID, len(fields))
	copy(cp, fields)
	return c.intern(desc{kind: KindStruct, name: name, fields: cp, key: key})
}

// Function returns the id of a function type.
func (c *Context) Function(params []ID, ret ID, variadic bool) ID {
	key := fmt.Sprintf("fn(%v,%d,%v)", params, ret, variadic)
	cp := make([]ID, len(params))
	copy(cp, params)
	return c.intern(desc{kind: KindFunction, params: cp, ret: ret, variadic: variadic, key: key})
}

func (c *Context) mustDesc(id ID) desc {
	if int(id) <= 0 || int(id) >= len(c.descs) {
		panic(fmt.Sprintf("typectx: id %d not interned by this context", id))
	}
	return c.descs[id]
}

// Kind classifies id.
func (c *Context) Kind(id ID) Kind {
	return c.mustDesc(id).kind
}

// String renders id in an LLVM-flavored textual form, used by the
// dump writer.
func (c *Context) String(id ID) string {
	d := c.mustDesc(id)
	switch d.kind {
	case KindVoid:
		return "void"
	case KindInt:
		return fmt.Sprintf("i%d", d.bits)
	case KindFloat:
		return fmt.Sprintf("f%d", d.bits)
	case KindPointer:
		return c.String(d.elem) + "*"
	case KindArray:
		return fmt.Sprintf("[%d x %s]", d.len, c.String(d.elem))
	case KindVector:
		return fmt.Sprintf("<%d x %s>", d.len, c.String(d.elem))
	case KindStruct:
		return "%" + d.name
	case KindFunction:
		s := c.String(d.ret) + " ("
		for i, p := range d.params {
			if i > 0 {
				s += ", "
			}
			s += c.String(p)
		}
		if d.variadic {
			if len(d.params) > 0 {
				s += ", "
			}
			s += "..."
		}
		return s + ")"
	default:
		return "?"
	}
}

// SizeOf returns the size in bytes of id, assuming a 64-bit target
// with natural alignment and no struct padding beyond alignment.
func (c *Context) SizeOf(id ID) uint64 {
	d := c.mustDesc(id)
	switch d.kind {
	case KindVoid:
		return 0
	case KindInt, KindFloat:
		return uint64((d.bits + 7) / 8)
	case KindPointer:
		return 8
	case KindArray:
		return uint64(d.len) * c.roundUp(c.SizeOf(d.elem), c.AlignOf(d.elem))
	case KindVector:
		return uint64(d.len) * c.SizeOf(d.elem)
	case KindStruct:
		var offset uint64
		var maxAlign uint64 = 1
		for _, f := range d.fields {
			a := c.AlignOf(f)
			if a > maxAlign {
				maxAlign = a
			}
			offset = c.roundUp(offset, a)
			offset += c.SizeOf(f)
		}
		return c.roundUp(offset, maxAlign)
	default:
		return 0
	}
}

// AlignOf returns the natural alignment in bytes of id.
func (c *Context) AlignOf(id ID) uint64 {
	d := c.mustDesc(id)
	switch d.kind {
	case KindVoid:
		return 1
	case KindInt, KindFloat:
		size := uint64((d.bits + 7) / 8)
		if size == 0 {
			return 1
		}
		return size
	case KindPointer:
		return 8
	case KindArray:
		return c.AlignOf(d.elem)
	case KindVector:
		return c.SizeOf(id)
	case KindStruct:
		var maxAlign uint64 = 1
		for _, f := range d.fields {
			if a := c.AlignOf(f); a > maxAlign {
				maxAlign = a
			}
		}
		return maxAlign
	default:
		return 1
	}
}

func (c *Context) roundUp(v, align uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) / align * align
}

// FieldCount returns the number of fields of a struct type, or 0 for
// any other kind.
func (c *Context) FieldCount(id ID) int {
	d := c.mustDesc(id)
	if d.kind != KindStruct {
		return 0
	}
	return len(d.fields)
}

// FieldType returns the type of struct field i.
func (c *Context) FieldType(id ID, i int) (ID, bool) {
	d := c.mustDesc(id)
	if d.kind != KindStruct || i < 0 || i >= len(d.fields) {
		return 0, false
	}
	return d.fields[i], true
}

// ElemType returns the element type of a pointer, array, or vector.
func (c *Context) ElemType(id ID) (ID, bool) {
	d := c.mustDesc(id)
	switch d.kind {
	case KindPointer, KindArray, KindVector:
		return d.elem, true
	default:
		return 0, false
	}
}
