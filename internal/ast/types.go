// Package ast holds the lowered representation that the rest of the
// compiler consumes: type and method descriptors plus the method and
// variable nodes attached to a type.
//
// All values are immutable once built. Descriptor "updates" return a copy.
package ast

import "strings"

// Nullability of a reference type descriptor.
type Nullability int

const (
	Nullable Nullability = iota
	NonNull
)

func (n Nullability) String() string {
	if n == NonNull {
		return "non-null"
	}
	return "nullable"
}

// TypeKind classifies a type descriptor.
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindClass
	KindInterface
	KindTypeVariable
	KindArray
	KindWildcard
)

func (k TypeKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindTypeVariable:
		return "typevar"
	case KindArray:
		return "array"
	case KindWildcard:
		return "wildcard"
	}
	return "unknown"
}

// TypeDescriptor describes a (possibly parameterized) type reference.
type TypeDescriptor struct {
	Kind TypeKind
	// Name is the qualified name for classes and interfaces, the keyword
	// for primitives and the variable name for type variables. Arrays are
	// named after their leaf component.
	Name string
	Args []TypeDescriptor
	// Dims is the array dimension count; zero unless Kind is KindArray.
	Dims     int
	Nullable bool
	// Bound is the upper bound of a wildcard, nil when unbounded.
	Bound *TypeDescriptor
}

// Primitive returns the descriptor of a primitive type keyword.
func Primitive(name string) TypeDescriptor {
	return TypeDescriptor{Kind: KindPrimitive, Name: name}
}

func (t TypeDescriptor) IsPrimitive() bool { return t.Kind == KindPrimitive }

// IsVoid reports whether t is the void pseudo-type.
func (t TypeDescriptor) IsVoid() bool { return t.Kind == KindPrimitive && t.Name == "void" }

// SimpleName returns the last segment of the qualified name.
func (t TypeDescriptor) SimpleName() string {
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// WithNullable returns a copy of t with the nullability set. Primitives
// stay non-nullable.
func (t TypeDescriptor) WithNullable(nullable bool) TypeDescriptor {
	if t.Kind == KindPrimitive {
		nullable = false
	}
	t.Nullable = nullable
	return t
}

// WithArgs returns a copy of t with the given type arguments.
func (t TypeDescriptor) WithArgs(args ...TypeDescriptor) TypeDescriptor {
	t.Args = append([]TypeDescriptor(nil), args...)
	return t
}

// Equal reports structural equality, nullability included.
func (t TypeDescriptor) Equal(o TypeDescriptor) bool {
	if t.Kind != o.Kind || t.Name != o.Name || t.Dims != o.Dims || t.Nullable != o.Nullable || len(t.Args) != len(o.Args) {
		return false
	}
	if (t.Bound == nil) != (o.Bound == nil) || t.Bound != nil && !t.Bound.Equal(*o.Bound) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// String renders t the way it is written in source, using simple names.
func (t TypeDescriptor) String() string { return t.format(false, false) }

// Qualified renders t with qualified names.
func (t TypeDescriptor) Qualified() string { return t.format(true, false) }

// Annotated renders t with simple names and a '?' or '!' nullability mark
// on references.
func (t TypeDescriptor) Annotated() string { return t.format(false, true) }

func (t TypeDescriptor) format(qualified, marks bool) string {
	var b strings.Builder
	t.write(&b, qualified, marks)
	return b.String()
}

func (t TypeDescriptor) write(b *strings.Builder, qualified, marks bool) {
	if t.Kind == KindWildcard {
		b.WriteByte('?')
		if t.Bound != nil {
			b.WriteString(" extends ")
			t.Bound.write(b, qualified, marks)
		}
		return
	}
	if qualified {
		b.WriteString(t.Name)
	} else {
		b.WriteString(t.SimpleName())
	}
	if len(t.Args) > 0 {
		b.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.write(b, qualified, marks)
		}
		b.WriteByte('>')
	}
	for i := 0; i < t.Dims; i++ {
		b.WriteString("[]")
	}
	if marks && t.Kind != KindPrimitive {
		if t.Nullable {
			b.WriteByte('?')
		} else {
			b.WriteByte('!')
		}
	}
}

// key is a canonical encoding used for set membership of descriptors.
func (t TypeDescriptor) key(b *strings.Builder) {
	b.WriteString(t.Kind.String())
	b.WriteByte(':')
	t.write(b, true, true)
}
