package binding

import "fmt"

// Universe holds every known type, keyed by qualified name.
type Universe struct {
	types map[string]*Type
	order []*Type
}

func NewUniverse() *Universe {
	return &Universe{types: make(map[string]*Type)}
}

// Add registers t. Declaring the same qualified name twice is an error.
func (u *Universe) Add(t *Type) error {
	name := t.QualifiedName()
	if prev, ok := u.types[name]; ok {
		return fmt.Errorf("%s: duplicate type %s (first declared at %s)", t.Pos, name, prev.Pos)
	}
	u.types[name] = t
	u.order = append(u.order, t)
	return nil
}

func (u *Universe) Lookup(name string) (*Type, bool) {
	t, ok := u.types[name]
	return t, ok
}

// Types returns all types in registration order.
func (u *Universe) Types() []*Type {
	return append([]*Type(nil), u.order...)
}

// Sources returns the non-external types in registration order.
func (u *Universe) Sources() []*Type {
	var out []*Type
	for _, t := range u.order {
		if !t.External {
			out = append(out, t)
		}
	}
	return out
}

// Object returns java.lang.Object, or nil before the prelude is loaded.
func (u *Universe) Object() *Type {
	return u.types[ObjectName]
}
