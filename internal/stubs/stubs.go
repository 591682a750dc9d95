// Package stubs synthesizes abstract stub methods for interface methods a
// class inherits but never implements anywhere in its superclass chain.
//
// Java lets an abstract class leave interface methods unimplemented. The
// lowered form requires every interface method to be declared on the
// class, so each missing method is stubbed once, on the highest class
// where it is first missing.
package stubs

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/calumari/stubfill/internal/ast"
)

// ErrPrecondition is wrapped by every error caused by a malformed or
// unresolved binding handed over by a collaborator.
var ErrPrecondition = errors.New("binding precondition violated")

// TypeBinding is an opaque handle on a class type.
type TypeBinding interface {
	QualifiedName() string
}

// MethodSignature is an opaque handle on a method as seen from the type
// that requires it.
type MethodSignature interface {
	Name() string
	NumParams() int
	IsFinal() bool
}

// BindingResolver answers hierarchy questions about bindings.
type BindingResolver interface {
	// Superclass returns the direct superclass of t, if any.
	Superclass(t TypeBinding) (TypeBinding, bool)
	// UnimplementedMethods returns the methods required by the interfaces
	// of t and its ancestors that no class in the chain implements, in a
	// stable order and deduplicated by override-equivalence.
	UnimplementedMethods(t TypeBinding) ([]MethodSignature, error)
	IsOverrideEquivalent(a, b MethodSignature) bool
}

// DescriptorBuilder turns bindings into descriptors.
type DescriptorBuilder interface {
	TypeDescriptor(t TypeBinding) (ast.TypeDescriptor, error)
	// MethodDescriptor returns the descriptor of m as a member of the
	// supertype that declares it, carrying its declaration form.
	MethodDescriptor(m MethodSignature) (ast.MethodDescriptor, error)
	DefaultNullability(t TypeBinding) ast.Nullability
	// ParameterType returns the type of parameter i of m, with
	// nullability taken from m's own annotations or else def.
	ParameterType(m MethodSignature, i int, def ast.Nullability) (ast.TypeDescriptor, error)
}

// Synthesizer computes stub methods for one type at a time.
type Synthesizer struct {
	resolver BindingResolver
	builder  DescriptorBuilder
}

func New(resolver BindingResolver, builder DescriptorBuilder) *Synthesizer {
	return &Synthesizer{resolver: resolver, builder: builder}
}

// Synthesize returns the stubs to append to t's methods, in the order
// the resolver reports the missing methods.
//
// Methods the superclass is missing as well are skipped: the stub for
// those belongs to the superclass, which must have been (or will be)
// processed on its own.
func (s *Synthesizer) Synthesize(t TypeBinding) ([]*ast.Method, error) {
	var inherited []MethodSignature
	if super, ok := s.resolver.Superclass(t); ok {
		var err error
		if inherited, err = s.resolver.UnimplementedMethods(super); err != nil {
			return nil, fmt.Errorf("%w: unimplemented methods of %s: %w", ErrPrecondition, super.QualifiedName(), err)
		}
	}
	required, err := s.resolver.UnimplementedMethods(t)
	if err != nil {
		return nil, fmt.Errorf("%w: unimplemented methods of %s: %w", ErrPrecondition, t.QualifiedName(), err)
	}
	if len(required) == 0 {
		return nil, nil
	}

	enclosing, err := s.builder.TypeDescriptor(t)
	if err != nil {
		return nil, fmt.Errorf("%w: descriptor of %s: %w", ErrPrecondition, t.QualifiedName(), err)
	}
	policy := s.builder.DefaultNullability(t)

	var out []*ast.Method
	accepted := make(map[string]bool)
	for _, m := range required {
		if s.overridesAny(m, inherited) {
			continue
		}
		md, err := s.builder.MethodDescriptor(m)
		if err != nil {
			return nil, fmt.Errorf("%w: descriptor of %s in %s: %w", ErrPrecondition, m.Name(), t.QualifiedName(), err)
		}
		stub, err := s.stub(t, m, md.InType(enclosing), policy)
		if err != nil {
			return nil, err
		}
		key := stub.Descriptor.Key()
		if accepted[key] {
			continue
		}
		accepted[key] = true
		out = append(out, stub)
	}
	return out, nil
}

func (s *Synthesizer) overridesAny(m MethodSignature, candidates []MethodSignature) bool {
	for _, c := range candidates {
		if s.resolver.IsOverrideEquivalent(m, c) {
			return true
		}
	}
	return false
}

// stub materializes an abstract method for m with descriptor md. The
// parameter types of the specialized descriptor are replaced by those of
// the parameters, so both carry t's nullability.
func (s *Synthesizer) stub(t TypeBinding, m MethodSignature, md ast.MethodDescriptor, policy ast.Nullability) (*ast.Method, error) {
	n := m.NumParams()
	if n != len(md.Params) {
		return nil, fmt.Errorf("%w: %s in %s: signature has %d parameters, descriptor has %d", ErrPrecondition, m.Name(), t.QualifiedName(), n, len(md.Params))
	}
	params := make([]ast.Variable, n)
	types := make([]ast.TypeDescriptor, n)
	for i := range params {
		pt, err := s.builder.ParameterType(m, i, policy)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %d of %s in %s: %w", ErrPrecondition, i, m.Name(), t.QualifiedName(), err)
		}
		params[i] = ast.Variable{Name: paramName(i), Type: pt, Parameter: true}
		types[i] = pt
	}
	return &ast.Method{
		Descriptor: md.WithParams(types...),
		Parameters: params,
		Abstract:   true,
		Final:      m.IsFinal(),
		Synthetic:  true,
	}, nil
}

func paramName(i int) string { return "arg" + strconv.Itoa(i) }
