package generator

import (
	"fmt"

	"github.com/calumari/stubfill/internal/ast"
	"github.com/calumari/stubfill/internal/binding"
)

// lowerType builds the ast form of t with its declared methods. Stubs are
// appended later by the pass.
func (g *generator) lowerType(t *binding.Type) (*ast.Type, error) {
	desc, err := g.builder.TypeDescriptor(t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Pos, err)
	}
	out := &ast.Type{Descriptor: desc, Abstract: t.Abstract, Source: t.Pos.File}
	if t.Super != nil {
		super, err := g.builder.Ref(*t.Super, ast.NonNull)
		if err != nil {
			return nil, fmt.Errorf("%s: superclass: %w", t.Pos, err)
		}
		out.Super = &super
	}
	for _, i := range t.Interfaces {
		d, err := g.builder.Ref(i, ast.NonNull)
		if err != nil {
			return nil, fmt.Errorf("%s: interface: %w", t.Pos, err)
		}
		out.Interfaces = append(out.Interfaces, d)
	}
	for _, m := range t.Methods {
		lm, err := g.lowerMethod(t, m)
		if err != nil {
			return nil, err
		}
		out.AddMethods(lm)
	}
	return out, nil
}

// lowerMethod lowers a declared method, keeping its parameter names.
func (g *generator) lowerMethod(t *binding.Type, m *binding.Method) (*ast.Method, error) {
	sig := &binding.Signature{Method: m, In: t.Ref()}
	md, err := g.builder.MethodDescriptor(sig)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.Pos, err)
	}
	policy := g.builder.DefaultNullability(t)
	out := &ast.Method{
		Descriptor: md,
		Abstract:   m.Abstract,
		Final:      m.Final,
		HasBody:    m.HasBody,
	}
	for i, p := range m.Params {
		pt, err := g.builder.ParameterType(sig, i, policy)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Pos, err)
		}
		out.Parameters = append(out.Parameters, ast.Variable{Name: p.Name, Type: pt, Final: p.Final, Parameter: true})
	}
	return out, nil
}

// stubModels converts the synthetic methods of t for rendering.
func stubModels(t *ast.Type) []stubModel {
	var out []stubModel
	for _, m := range t.SyntheticMethods() {
		md := m.Descriptor
		sm := stubModel{
			Name:        md.Name,
			Summary:     m.Summary(),
			Signature:   md.Signature(),
			Declaration: md.Declaration().Signature(),
			Return:      md.Return.Qualified(),
			Final:       m.Final,
		}
		for _, p := range m.Parameters {
			sm.Params = append(sm.Params, paramModel{Name: p.Name, Type: p.Type.Qualified(), Nullable: p.Type.Nullable})
		}
		out = append(out, sm)
	}
	return out
}
