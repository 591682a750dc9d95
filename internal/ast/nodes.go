package ast

import "strings"

// Variable is a local or parameter declaration.
type Variable struct {
	Name      string
	Type      TypeDescriptor
	Final     bool
	Parameter bool
}

// Method is a method declaration node. Synthesized stubs carry no body.
type Method struct {
	Descriptor MethodDescriptor
	Parameters []Variable
	Abstract   bool
	Final      bool
	// Synthetic marks methods created during lowering rather than parsed
	// from source.
	Synthetic bool
	// HasBody is set for source methods that declare a body.
	HasBody bool
}

// Summary renders m on one line as
// name(arg0: T, ...): R [abstract] [final], with '?'/'!' nullability
// marks on reference parameter types.
func (m *Method) Summary() string {
	var b strings.Builder
	b.WriteString(m.Descriptor.Name)
	b.WriteByte('(')
	for i, p := range m.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(p.Type.Annotated())
	}
	b.WriteString("): ")
	b.WriteString(m.Descriptor.Return.String())
	if m.Abstract {
		b.WriteString(" abstract")
	}
	if m.Final {
		b.WriteString(" final")
	}
	return b.String()
}

// Type is a lowered class or interface together with its method set.
type Type struct {
	Descriptor TypeDescriptor
	Super      *TypeDescriptor
	Interfaces []TypeDescriptor
	Abstract   bool
	Methods    []*Method
	// Source is the file the type was declared in.
	Source string
}

// AddMethods appends methods to the type's method collection in order.
func (t *Type) AddMethods(methods ...*Method) {
	t.Methods = append(t.Methods, methods...)
}

// SyntheticMethods returns the methods that were added during lowering.
func (t *Type) SyntheticMethods() []*Method {
	var out []*Method
	for _, m := range t.Methods {
		if m.Synthetic {
			out = append(out, m)
		}
	}
	return out
}

// IsInterface reports whether the type is an interface.
func (t *Type) IsInterface() bool { return t.Descriptor.Kind == KindInterface }
