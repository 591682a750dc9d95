// Package binding is the resolved model of the parsed Java hierarchy:
// types, methods and the parameterized references between them.
package binding

import (
	"fmt"
	"strings"
)

const ObjectName = "java.lang.Object"

type Kind int

const (
	KindClass Kind = iota
	KindInterface
)

func (k Kind) String() string {
	if k == KindInterface {
		return "interface"
	}
	return "class"
}

// Nullness is an explicit nullability annotation on a declaration.
type Nullness int

const (
	Unannotated Nullness = iota
	AnnotatedNullable
	AnnotatedNonNull
)

// Type is a class or interface declaration.
type Type struct {
	Package    string
	Name       string
	Kind       Kind
	Abstract   bool
	Final      bool
	NullMarked bool
	// External types come from the prelude and are never lowered.
	External   bool
	TypeParams []*TypeParam
	// Super is the superclass reference; nil for java.lang.Object and for
	// interfaces.
	Super *TypeRef
	// Interfaces lists implemented interfaces for classes, and extended
	// interfaces for interfaces.
	Interfaces []TypeRef
	Methods    []*Method
	Pos        Pos
}

// QualifiedName returns the package-qualified name of t.
func (t *Type) QualifiedName() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

func (t *Type) IsInterface() bool { return t.Kind == KindInterface }

func (t *Type) String() string { return t.QualifiedName() }

// Ref returns the reference of t to itself, parameterized by its own
// type variables.
func (t *Type) Ref() TypeRef {
	ref := TypeRef{Kind: RefDeclared, Name: t.QualifiedName(), Type: t}
	for _, tp := range t.TypeParams {
		ref.Args = append(ref.Args, tp.Ref())
	}
	return ref
}

// Method is a method declared in a type.
type Method struct {
	Name       string
	Owner      *Type
	TypeParams []*TypeParam
	Params     []Param
	Return     TypeRef
	Abstract   bool
	Final      bool
	Static     bool
	Default    bool
	HasBody    bool
	Pos        Pos
}

func (m *Method) String() string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = p.Type.String()
	}
	return fmt.Sprintf("%s.%s(%s)", m.Owner.Name, m.Name, strings.Join(parts, ", "))
}

type Param struct {
	Name     string
	Type     TypeRef
	Nullness Nullness
	Final    bool
}

// TypeParam is a type variable declaration. Scope names its declaring
// type or method.
type TypeParam struct {
	Name   string
	Scope  string
	Bounds []TypeRef
}

// Ref returns a reference to the type variable.
func (tp *TypeParam) Ref() TypeRef {
	return TypeRef{Kind: RefVar, Name: tp.Name, Param: tp}
}

// Pos is a source position.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.File == "" {
		return "<prelude>"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}
