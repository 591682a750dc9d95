package stubs

import (
	"errors"
	"fmt"

	"github.com/calumari/stubfill/internal/ast"
)

var (
	// ErrOutOfOrder is returned when a type is visited before its
	// superclass.
	ErrOutOfOrder = errors.New("type visited before its superclass")
	// ErrAlreadyVisited is returned when a type is visited twice.
	ErrAlreadyVisited = errors.New("type already visited")
	// ErrNotInPass is returned when a type outside the compiled set is visited.
	ErrNotInPass = errors.New("type is not part of the pass")
)

// Pass drives a Synthesizer over a set of types and enforces that every
// type is visited exactly once, after its superclass. Ancestors outside
// the set (library types) are exempt.
type Pass struct {
	synth    *Synthesizer
	resolver BindingResolver
	members  map[string]bool
	visited  map[string]bool
}

// NewPass prepares a pass over types.
func NewPass(resolver BindingResolver, builder DescriptorBuilder, types []TypeBinding) *Pass {
	members := make(map[string]bool, len(types))
	for _, t := range types {
		members[t.QualifiedName()] = true
	}
	return &Pass{
		synth:    New(resolver, builder),
		resolver: resolver,
		members:  members,
		visited:  make(map[string]bool, len(types)),
	}
}

// Visit synthesizes the stubs of t.
func (p *Pass) Visit(t TypeBinding) ([]*ast.Method, error) {
	name := t.QualifiedName()
	if !p.members[name] {
		return nil, fmt.Errorf("%s: %w", name, ErrNotInPass)
	}
	if p.visited[name] {
		return nil, fmt.Errorf("%s: %w", name, ErrAlreadyVisited)
	}
	if super, ok := p.resolver.Superclass(t); ok {
		sn := super.QualifiedName()
		if p.members[sn] && !p.visited[sn] {
			return nil, fmt.Errorf("%s before %s: %w", name, sn, ErrOutOfOrder)
		}
	}
	p.visited[name] = true
	return p.synth.Synthesize(t)
}

// Visited reports whether t has been visited.
func (p *Pass) Visited(t TypeBinding) bool { return p.visited[t.QualifiedName()] }
