package ast

import (
	"fmt"
	"strings"
)

// MethodDescriptor is a fully resolved method signature.
//
// A descriptor may carry a separate declaration descriptor: the signature
// as written where the method was first declared. When none is set the
// descriptor is its own declaration.
type MethodDescriptor struct {
	Name       string
	Enclosing  TypeDescriptor
	TypeParams []TypeDescriptor
	Params     []TypeDescriptor
	Return     TypeDescriptor
	Static     bool
	Abstract   bool
	Final      bool
	Default    bool

	declaration *MethodDescriptor
}

// Declaration returns the declaration form of m.
func (m MethodDescriptor) Declaration() MethodDescriptor {
	if m.declaration == nil {
		return m
	}
	return *m.declaration
}

// IsDeclaration reports whether m is its own declaration.
func (m MethodDescriptor) IsDeclaration() bool { return m.declaration == nil }

// WithDeclaration returns a copy of m whose declaration form is d.
func (m MethodDescriptor) WithDeclaration(d MethodDescriptor) MethodDescriptor {
	d = d.Declaration()
	m.declaration = &d
	return m
}

// WithEnclosing returns a copy of m re-homed in type t. The declaration
// form, if any, is left untouched.
func (m MethodDescriptor) WithEnclosing(t TypeDescriptor) MethodDescriptor {
	m.Enclosing = t
	return m
}

// WithParams returns a copy of m with the given parameter types.
func (m MethodDescriptor) WithParams(params ...TypeDescriptor) MethodDescriptor {
	m.Params = append([]TypeDescriptor(nil), params...)
	return m
}

// InType returns m re-declared in type t: both the specialized and the
// declaration forms get t as their enclosing type.
func (m MethodDescriptor) InType(t TypeDescriptor) MethodDescriptor {
	return m.WithDeclaration(m.Declaration().WithEnclosing(t)).WithEnclosing(t)
}

// Equal reports structural equality of m and o, declaration forms
// included.
func (m MethodDescriptor) Equal(o MethodDescriptor) bool {
	return m.Key() == o.Key()
}

// Key returns a canonical encoding of m. Structurally equal descriptors
// have equal keys.
func (m MethodDescriptor) Key() string {
	var b strings.Builder
	m.key(&b)
	if m.declaration != nil {
		b.WriteString(" decl=")
		m.declaration.key(&b)
	}
	return b.String()
}

func (m MethodDescriptor) key(b *strings.Builder) {
	m.Enclosing.key(b)
	b.WriteByte('#')
	b.WriteString(m.Name)
	if len(m.TypeParams) > 0 {
		b.WriteByte('<')
		for i, tp := range m.TypeParams {
			if i > 0 {
				b.WriteByte(',')
			}
			tp.key(b)
		}
		b.WriteByte('>')
	}
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		p.key(b)
	}
	b.WriteString(")")
	m.Return.key(b)
	fmt.Fprintf(b, "[s=%t a=%t f=%t d=%t]", m.Static, m.Abstract, m.Final, m.Default)
}

// Signature renders m as name(params): return with simple names.
func (m MethodDescriptor) Signature() string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString("): ")
	b.WriteString(m.Return.String())
	return b.String()
}

func (m MethodDescriptor) String() string {
	return m.Enclosing.SimpleName() + "." + m.Signature()
}
