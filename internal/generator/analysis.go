package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/calumari/stubfill/internal/binding"
)

// ErrCycle is returned when source classes inherit from each other in a
// loop.
var ErrCycle = errors.New("cyclic inheritance")

// classOrder returns the source classes of u with every class after its
// superclass. Otherwise registration order is kept. Interfaces are
// skipped: they never receive stubs.
func classOrder(u *binding.Universe) ([]*binding.Type, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := map[*binding.Type]int{}
	var out []*binding.Type

	var visit func(t *binding.Type, path []string) error
	visit = func(t *binding.Type, path []string) error {
		switch state[t] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%s: %w: %s", t.Pos, ErrCycle, strings.Join(append(path, t.QualifiedName()), " -> "))
		}
		state[t] = visiting
		if t.Super != nil && t.Super.Type != nil && !t.Super.Type.External {
			if err := visit(t.Super.Type, append(path, t.QualifiedName())); err != nil {
				return err
			}
		}
		state[t] = done
		out = append(out, t)
		return nil
	}

	for _, t := range u.Sources() {
		if t.IsInterface() {
			continue
		}
		if err := visit(t, nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}
