package binding

import (
	"fmt"

	"github.com/calumari/stubfill/internal/stubs"
)

// Signature is a method viewed as a member of a parameterized supertype,
// e.g. compareTo(Foo) of Comparable<Foo>.
type Signature struct {
	Method *Method
	// In is the declaring type as seen from the type being resolved.
	In    TypeRef
	subst Subst
	// raw members have their whole signature erased.
	raw    bool
	object *Type
}

func (s *Signature) Name() string   { return s.Method.Name }
func (s *Signature) NumParams() int { return len(s.Method.Params) }
func (s *Signature) IsFinal() bool  { return s.Method.Final }

// ParamTypes returns the parameter types with type arguments of In
// substituted. Members of a raw In are erased.
func (s *Signature) ParamTypes() []TypeRef {
	out := make([]TypeRef, len(s.Method.Params))
	for i, p := range s.Method.Params {
		out[i] = s.apply(p.Type)
	}
	return out
}

// ReturnType returns the substituted return type.
func (s *Signature) ReturnType() TypeRef { return s.apply(s.Method.Return) }

func (s *Signature) apply(r TypeRef) TypeRef {
	if s.raw {
		return erasedRef(r, s.object)
	}
	return s.subst.Apply(r)
}

// Subst returns the substitution applied to the declaring type's members.
func (s *Signature) Subst() Subst { return s.subst }

func (s *Signature) String() string {
	return s.In.String() + "." + s.Method.Name + paramList(s.ParamTypes())
}

func paramList(refs []TypeRef) string {
	out := "("
	for i, r := range refs {
		if i > 0 {
			out += ", "
		}
		out += r.String()
	}
	return out + ")"
}

// OverrideEquivalent reports whether a and b have the same name, arity
// and erased parameter types.
func OverrideEquivalent(a, b *Signature) bool {
	if a.Method.Name != b.Method.Name || len(a.Method.Params) != len(b.Method.Params) {
		return false
	}
	pa, pb := a.ParamTypes(), b.ParamTypes()
	for i := range pa {
		if Erasure(pa[i]) != Erasure(pb[i]) {
			return false
		}
	}
	return true
}

// Resolver answers hierarchy questions over a Universe.
type Resolver struct {
	u *Universe
}

func NewResolver(u *Universe) *Resolver { return &Resolver{u: u} }

var _ stubs.BindingResolver = (*Resolver)(nil)

// Supertype is a superclass as seen from a subclass, e.g. Base<String>
// for a class declared as extending Base<String>. Its members carry the
// subclass's type arguments.
type Supertype struct {
	Ref TypeRef
	pos Pos
}

func (s *Supertype) QualifiedName() string { return s.Ref.Type.QualifiedName() }

// Superclass returns the parameterized superclass of t.
func (r *Resolver) Superclass(t stubs.TypeBinding) (stubs.TypeBinding, bool) {
	var ref TypeRef
	var pos Pos
	switch ty := t.(type) {
	case *Type:
		if ty.Super == nil {
			return nil, false
		}
		ref, pos = *ty.Super, ty.Pos
	case *Supertype:
		st := ty.Ref.Type
		if st == nil || st.Super == nil {
			return nil, false
		}
		ref, pos = newView(ty.Ref, r.u.Object()).apply(*st.Super), ty.pos
	default:
		return nil, false
	}
	if ref.Type == nil {
		return nil, false
	}
	return &Supertype{Ref: ref, pos: pos}, true
}

func (r *Resolver) UnimplementedMethods(t stubs.TypeBinding) ([]stubs.MethodSignature, error) {
	var (
		sigs []*Signature
		err  error
	)
	switch ty := t.(type) {
	case *Type:
		sigs, err = r.Unimplemented(ty)
	case *Supertype:
		sigs, err = r.unimplemented(newView(ty.Ref, r.u.Object()), ty.pos)
	default:
		return nil, fmt.Errorf("unsupported type binding %T", t)
	}
	if err != nil {
		return nil, err
	}
	out := make([]stubs.MethodSignature, len(sigs))
	for i, s := range sigs {
		out[i] = s
	}
	return out, nil
}

func (r *Resolver) IsOverrideEquivalent(a, b stubs.MethodSignature) bool {
	sa, okA := a.(*Signature)
	sb, okB := b.(*Signature)
	return okA && okB && OverrideEquivalent(sa, sb)
}

// view is a supertype reference together with the substitution that
// maps its declaration's variables to the reference's arguments.
type view struct {
	ref    TypeRef
	subst  Subst
	raw    bool
	object *Type
}

func newView(ref TypeRef, object *Type) view {
	raw := ref.Type != nil && len(ref.Type.TypeParams) > 0 && len(ref.Args) == 0
	return view{ref: ref, subst: substFor(ref, object), raw: raw, object: object}
}

func (v view) signatures() []*Signature {
	out := make([]*Signature, 0, len(v.ref.Type.Methods))
	for _, m := range v.ref.Type.Methods {
		out = append(out, &Signature{Method: m, In: v.ref, subst: v.subst, raw: v.raw, object: v.object})
	}
	return out
}

// apply views r, a supertype reference written in v's declaration.
func (v view) apply(r TypeRef) TypeRef {
	if v.raw {
		return erasedRef(r, v.object)
	}
	return v.subst.Apply(r)
}

// Chain returns t followed by its superclasses, each as seen from t.
func (r *Resolver) Chain(t *Type) ([]TypeRef, error) {
	views, err := r.chain(t)
	if err != nil {
		return nil, err
	}
	out := make([]TypeRef, len(views))
	for i, v := range views {
		out[i] = v.ref
	}
	return out, nil
}

func (r *Resolver) chain(t *Type) ([]view, error) {
	return r.chainFrom(view{ref: t.Ref()}, t.Pos)
}

// chainFrom walks the superclasses of start, reporting errors at pos.
func (r *Resolver) chainFrom(start view, pos Pos) ([]view, error) {
	cur := start
	seen := map[*Type]bool{}
	var out []view
	for {
		ct := cur.ref.Type
		if ct == nil {
			return nil, fmt.Errorf("%s: unresolved superclass %s", pos, cur.ref)
		}
		if seen[ct] {
			return nil, fmt.Errorf("%s: cyclic inheritance involving %s", pos, ct.QualifiedName())
		}
		seen[ct] = true
		out = append(out, cur)
		if ct.Super == nil {
			return out, nil
		}
		cur = newView(cur.apply(*ct.Super), r.u.Object())
	}
}

// Interfaces returns every interface t implements, directly or through
// superclasses and super-interfaces, each as seen from t.
func (r *Resolver) Interfaces(t *Type) ([]TypeRef, error) {
	chain, err := r.chain(t)
	if err != nil {
		return nil, err
	}
	views, err := r.interfaces(chain)
	if err != nil {
		return nil, err
	}
	out := make([]TypeRef, len(views))
	for i, v := range views {
		out[i] = v.ref
	}
	return out, nil
}

// interfaces walks the chain from the bottom up; for each class it
// visits the direct interfaces in declaration order, depth first through
// their super-interfaces. A parameterized interface is visited once.
func (r *Resolver) interfaces(chain []view) ([]view, error) {
	seen := map[string]bool{}
	var out []view
	var visit func(ref TypeRef, depth int) error
	visit = func(ref TypeRef, depth int) error {
		if ref.Type == nil {
			return fmt.Errorf("unresolved interface %s", ref)
		}
		key := ref.Key()
		if seen[key] {
			return nil
		}
		if depth > len(r.u.order) {
			return fmt.Errorf("%s: cyclic interface inheritance", ref.Type.Pos)
		}
		seen[key] = true
		v := newView(ref, r.u.Object())
		out = append(out, v)
		for _, super := range ref.Type.Interfaces {
			if err := visit(v.apply(super), depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, c := range chain {
		for _, iface := range c.ref.Type.Interfaces {
			if err := visit(c.apply(iface), 0); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Unimplemented returns the interface methods t is required to declare
// that no class in its chain declares, deduplicated by
// override-equivalence in first-seen order.
//
// A class declaration counts whether or not it has a body: an explicit
// abstract re-declaration already gives the lowered class the method.
// A default method counts unless the interface requiring the method
// extends the one providing the default, which re-abstracts it.
func (r *Resolver) Unimplemented(t *Type) ([]*Signature, error) {
	return r.unimplemented(view{ref: t.Ref()}, t.Pos)
}

func (r *Resolver) unimplemented(start view, pos Pos) ([]*Signature, error) {
	chain, err := r.chainFrom(start, pos)
	if err != nil {
		return nil, err
	}
	ifaces, err := r.interfaces(chain)
	if err != nil {
		return nil, err
	}

	var declared []*Signature
	for _, c := range chain {
		for _, s := range c.signatures() {
			if !s.Method.Static {
				declared = append(declared, s)
			}
		}
	}
	var required, defaults []*Signature
	for _, i := range ifaces {
		for _, s := range i.signatures() {
			switch {
			case s.Method.Static:
			case s.Method.Default:
				defaults = append(defaults, s)
			case !s.Method.HasBody:
				required = append(required, s)
			}
		}
	}

	var out []*Signature
	for _, s := range required {
		if anyEquivalent(s, out) || anyEquivalent(s, declared) || coveredByDefault(s, defaults) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func anyEquivalent(s *Signature, among []*Signature) bool {
	for _, o := range among {
		if OverrideEquivalent(s, o) {
			return true
		}
	}
	return false
}

func coveredByDefault(s *Signature, defaults []*Signature) bool {
	for _, d := range defaults {
		if OverrideEquivalent(s, d) && !extendsInterface(s.In.Type, d.In.Type, map[*Type]bool{}) {
			return true
		}
	}
	return false
}

// extendsInterface reports whether super is a proper super-interface of
// sub.
func extendsInterface(sub, super *Type, seen map[*Type]bool) bool {
	if sub == nil || seen[sub] {
		return false
	}
	seen[sub] = true
	for _, i := range sub.Interfaces {
		if i.Type == super || extendsInterface(i.Type, super, seen) {
			return true
		}
	}
	return false
}
