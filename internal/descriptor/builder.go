// Package descriptor lowers binding types and signatures into ast
// descriptors.
package descriptor

import (
	"fmt"

	"github.com/calumari/stubfill/internal/ast"
	"github.com/calumari/stubfill/internal/binding"
	"github.com/calumari/stubfill/internal/stubs"
)

// Builder implements stubs.DescriptorBuilder. Types annotated @NullMarked
// default to non-null references; every other type uses the project
// default.
type Builder struct {
	projectDefault ast.Nullability
}

func New(projectDefault ast.Nullability) *Builder {
	return &Builder{projectDefault: projectDefault}
}

var _ stubs.DescriptorBuilder = (*Builder)(nil)

func (b *Builder) DefaultNullability(t stubs.TypeBinding) ast.Nullability {
	if ty, ok := t.(*binding.Type); ok && ty.NullMarked {
		return ast.NonNull
	}
	return b.projectDefault
}

// TypeDescriptor returns the declared descriptor of t, parameterized by
// its own type variables. Enclosing types are never nullable.
func (b *Builder) TypeDescriptor(t stubs.TypeBinding) (ast.TypeDescriptor, error) {
	ty, ok := t.(*binding.Type)
	if !ok {
		return ast.TypeDescriptor{}, fmt.Errorf("unsupported type binding %T", t)
	}
	return b.Ref(ty.Ref(), ast.NonNull)
}

// Ref converts a type reference. Reference types, type arguments
// included, get nullability def.
func (b *Builder) Ref(r binding.TypeRef, def ast.Nullability) (ast.TypeDescriptor, error) {
	var d ast.TypeDescriptor
	switch r.Kind {
	case binding.RefPrimitive:
		d = ast.Primitive(r.Name)
	case binding.RefVar:
		d = ast.TypeDescriptor{Kind: ast.KindTypeVariable, Name: r.Name}
	case binding.RefWildcard:
		d = ast.TypeDescriptor{Kind: ast.KindWildcard, Name: "?"}
		if r.Bound != nil {
			bound, err := b.Ref(*r.Bound, def)
			if err != nil {
				return ast.TypeDescriptor{}, err
			}
			d.Bound = &bound
		}
		return d, nil
	case binding.RefDeclared:
		if r.Type == nil {
			return ast.TypeDescriptor{}, fmt.Errorf("unresolved type %s", r.Name)
		}
		d = ast.TypeDescriptor{Kind: ast.KindClass, Name: r.Name}
		if r.Type.IsInterface() {
			d.Kind = ast.KindInterface
		}
		for _, a := range r.Args {
			arg, err := b.Ref(a, def)
			if err != nil {
				return ast.TypeDescriptor{}, err
			}
			d.Args = append(d.Args, arg)
		}
	default:
		return ast.TypeDescriptor{}, fmt.Errorf("unknown reference kind %d", r.Kind)
	}
	if r.Dims > 0 {
		d.Kind = ast.KindArray
		d.Dims = r.Dims
	}
	return d.WithNullable(def == ast.Nullable), nil
}

// MethodDescriptor returns the descriptor of m as a member of the
// parameterized supertype it is seen through, with the declaration form
// as written in the declaring type.
func (b *Builder) MethodDescriptor(m stubs.MethodSignature) (ast.MethodDescriptor, error) {
	sig, err := signature(m)
	if err != nil {
		return ast.MethodDescriptor{}, err
	}
	owner := sig.Method.Owner
	if owner == nil {
		return ast.MethodDescriptor{}, fmt.Errorf("method %s has no declaring type", sig.Method.Name)
	}
	policy := b.DefaultNullability(owner)

	declParams := make([]binding.TypeRef, len(sig.Method.Params))
	for i, p := range sig.Method.Params {
		declParams[i] = p.Type
	}
	decl, err := b.method(sig.Method, owner.Ref(), declParams, sig.Method.Return, policy)
	if err != nil {
		return ast.MethodDescriptor{}, err
	}
	specialized, err := b.method(sig.Method, sig.In, sig.ParamTypes(), sig.ReturnType(), policy)
	if err != nil {
		return ast.MethodDescriptor{}, err
	}
	return specialized.WithDeclaration(decl), nil
}

func (b *Builder) method(m *binding.Method, in binding.TypeRef, params []binding.TypeRef, ret binding.TypeRef, policy ast.Nullability) (ast.MethodDescriptor, error) {
	enclosing, err := b.Ref(in, ast.NonNull)
	if err != nil {
		return ast.MethodDescriptor{}, fmt.Errorf("enclosing type of %s: %w", m.Name, err)
	}
	md := ast.MethodDescriptor{
		Name:      m.Name,
		Enclosing: enclosing,
		Static:    m.Static,
		Abstract:  m.Abstract,
		Final:     m.Final,
		Default:   m.Default,
	}
	for _, tp := range m.TypeParams {
		md.TypeParams = append(md.TypeParams, ast.TypeDescriptor{Kind: ast.KindTypeVariable, Name: tp.Name})
	}
	for i, p := range params {
		d, err := b.Ref(p, nullability(m.Params[i], policy))
		if err != nil {
			return ast.MethodDescriptor{}, fmt.Errorf("parameter %d of %s: %w", i, m.Name, err)
		}
		md.Params = append(md.Params, d)
	}
	if md.Return, err = b.Ref(ret, policy); err != nil {
		return ast.MethodDescriptor{}, fmt.Errorf("return type of %s: %w", m.Name, err)
	}
	return md, nil
}

// ParameterType returns parameter i of m as seen through m's supertype.
// An explicit annotation on the parameter wins over def.
func (b *Builder) ParameterType(m stubs.MethodSignature, i int, def ast.Nullability) (ast.TypeDescriptor, error) {
	sig, err := signature(m)
	if err != nil {
		return ast.TypeDescriptor{}, err
	}
	if i < 0 || i >= len(sig.Method.Params) {
		return ast.TypeDescriptor{}, fmt.Errorf("%s has no parameter %d", sig, i)
	}
	return b.Ref(sig.ParamTypes()[i], nullability(sig.Method.Params[i], def))
}

func nullability(p binding.Param, def ast.Nullability) ast.Nullability {
	switch p.Nullness {
	case binding.AnnotatedNullable:
		return ast.Nullable
	case binding.AnnotatedNonNull:
		return ast.NonNull
	}
	return def
}

func signature(m stubs.MethodSignature) (*binding.Signature, error) {
	sig, ok := m.(*binding.Signature)
	if !ok {
		return nil, fmt.Errorf("unsupported method signature %T", m)
	}
	if sig.Method == nil {
		return nil, fmt.Errorf("signature without a method")
	}
	return sig, nil
}
