package binding

import "strings"

type RefKind int

const (
	RefPrimitive RefKind = iota
	RefDeclared
	RefVar
	RefWildcard
)

// TypeRef is a use of a type: a primitive, a (possibly parameterized)
// declared type, a type variable or a wildcard.
type TypeRef struct {
	Kind RefKind
	// Name is the primitive keyword, the qualified name of a declared type
	// or the name of a type variable.
	Name  string
	Type  *Type      // RefDeclared
	Param *TypeParam // RefVar
	Args  []TypeRef
	Dims  int
	// Bound is the upper bound of a wildcard; nil means unbounded. Lower
	// bounded wildcards keep a nil bound.
	Bound *TypeRef
}

func (r TypeRef) IsPrimitive() bool { return r.Kind == RefPrimitive }

// String renders r with simple names.
func (r TypeRef) String() string {
	var b strings.Builder
	r.write(&b, false)
	return b.String()
}

// Key is the canonical qualified rendering of r.
func (r TypeRef) Key() string {
	var b strings.Builder
	r.write(&b, true)
	return b.String()
}

func (r TypeRef) write(b *strings.Builder, qualified bool) {
	switch r.Kind {
	case RefWildcard:
		b.WriteByte('?')
		if r.Bound != nil {
			b.WriteString(" extends ")
			r.Bound.write(b, qualified)
		}
	case RefVar:
		b.WriteString(r.Name)
		if qualified && r.Param != nil {
			b.WriteByte('@')
			b.WriteString(r.Param.Scope)
		}
	default:
		name := r.Name
		if !qualified {
			if i := strings.LastIndexByte(name, '.'); i >= 0 {
				name = name[i+1:]
			}
		}
		b.WriteString(name)
	}
	if len(r.Args) > 0 {
		b.WriteByte('<')
		for i, a := range r.Args {
			if i > 0 {
				b.WriteByte(',')
				if !qualified {
					b.WriteByte(' ')
				}
			}
			a.write(b, qualified)
		}
		b.WriteByte('>')
	}
	for i := 0; i < r.Dims; i++ {
		b.WriteString("[]")
	}
}

// withDims returns r with n more array dimensions.
func (r TypeRef) withDims(n int) TypeRef {
	r.Dims += n
	return r
}

// Erasure returns the erased name of r: type variables erase to their
// first bound, parameterized types to their raw type.
func Erasure(r TypeRef) string {
	return erasure(r, 0)
}

// maxBoundDepth guards against cyclic variable bounds in malformed input.
const maxBoundDepth = 16

func erasure(r TypeRef, depth int) string {
	dims := strings.Repeat("[]", r.Dims)
	switch r.Kind {
	case RefPrimitive, RefDeclared:
		return r.Name + dims
	case RefVar:
		if r.Param != nil && len(r.Param.Bounds) > 0 && depth < maxBoundDepth {
			return erasure(r.Param.Bounds[0], depth+1) + dims
		}
	case RefWildcard:
		if r.Bound != nil && depth < maxBoundDepth {
			return erasure(*r.Bound, depth+1) + dims
		}
	}
	return ObjectName + dims
}

// Subst maps type variables to their replacement in a parameterized use.
type Subst map[*TypeParam]TypeRef

// Apply substitutes the variables in r.
func (s Subst) Apply(r TypeRef) TypeRef {
	if len(s) == 0 {
		return r
	}
	switch r.Kind {
	case RefVar:
		if rep, ok := s[r.Param]; ok {
			return rep.withDims(r.Dims)
		}
		return r
	case RefWildcard:
		if r.Bound != nil {
			b := s.Apply(*r.Bound)
			r.Bound = &b
		}
		return r
	case RefDeclared:
		if len(r.Args) == 0 {
			return r
		}
		args := make([]TypeRef, len(r.Args))
		for i, a := range r.Args {
			args[i] = s.Apply(a)
		}
		r.Args = args
		return r
	}
	return r
}

// substFor builds the substitution that views the members of ref.Type
// through the type arguments of ref. Raw uses substitute the erasure of
// each variable's bound.
func substFor(ref TypeRef, object *Type) Subst {
	t := ref.Type
	if t == nil || len(t.TypeParams) == 0 {
		return nil
	}
	s := make(Subst, len(t.TypeParams))
	if len(ref.Args) != len(t.TypeParams) {
		for _, tp := range t.TypeParams {
			s[tp] = erasedRef(tp.Ref(), object)
		}
		return s
	}
	for i, tp := range t.TypeParams {
		s[tp] = ref.Args[i]
	}
	return s
}

// erasedRef returns the raw declared reference r erases to.
func erasedRef(r TypeRef, object *Type) TypeRef {
	for depth := 0; depth < maxBoundDepth; depth++ {
		switch r.Kind {
		case RefPrimitive:
			return r
		case RefDeclared:
			return TypeRef{Kind: RefDeclared, Name: r.Name, Type: r.Type, Dims: r.Dims}
		case RefVar:
			if r.Param == nil || len(r.Param.Bounds) == 0 {
				return objectRef(object).withDims(r.Dims)
			}
			r = r.Param.Bounds[0].withDims(r.Dims)
		case RefWildcard:
			if r.Bound == nil {
				return objectRef(object).withDims(r.Dims)
			}
			r = r.Bound.withDims(r.Dims)
		}
	}
	return objectRef(object).withDims(r.Dims)
}

func objectRef(object *Type) TypeRef {
	return TypeRef{Kind: RefDeclared, Name: ObjectName, Type: object}
}
