// Package frontend parses Java declarations and links them into the
// binding model.
package frontend

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"slices"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"golang.org/x/sync/errgroup"

	"github.com/calumari/stubfill/internal/binding"
)

//go:embed prelude/*.java
var preludeFS embed.FS

// Source is one compilation unit to load.
type Source struct {
	Name string
	Data []byte
}

var primitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}

// Load parses the embedded prelude and sources and links everything into
// a universe. Prelude types are marked external.
func Load(sources []Source) (*binding.Universe, error) {
	l := &linker{u: binding.NewUniverse()}
	prelude, err := readPrelude()
	if err != nil {
		return nil, err
	}
	files, err := parseAll(prelude)
	if err != nil {
		return nil, fmt.Errorf("prelude: %w", err)
	}
	for i, f := range files {
		if err := l.declareFile(prelude[i].Name, f, true); err != nil {
			return nil, fmt.Errorf("prelude: %w", err)
		}
	}
	if files, err = parseAll(sources); err != nil {
		return nil, err
	}
	for i, f := range files {
		if err := l.declareFile(sources[i].Name, f, false); err != nil {
			return nil, err
		}
	}
	if err := l.link(); err != nil {
		return nil, err
	}
	return l.u, nil
}

// parseAll parses sources concurrently. Results keep the input order.
func parseAll(sources []Source) ([]*File, error) {
	files := make([]*File, len(sources))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, src := range sources {
		g.Go(func() error {
			f, err := Parse(src.Name, src.Data)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func readPrelude() ([]Source, error) {
	entries, err := fs.ReadDir(preludeFS, "prelude")
	if err != nil {
		return nil, err
	}
	var out []Source
	for _, e := range entries {
		name := path.Join("prelude", e.Name())
		data, err := preludeFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Source{Name: name, Data: data})
	}
	return out, nil
}

// unit is the resolution context of one file.
type unit struct {
	name     string
	pkg      string
	imports  map[string]string // simple name -> qualified name
	onDemand []string
}

// decl is a declared type waiting to be linked.
type decl struct {
	ast    *TypeDecl
	prefix []*Modifier
	t      *binding.Type
	unit   *unit
	outer  *decl
}

// isInner reports whether d is a non-static nested class.
func (d *decl) isInner() bool {
	if d.outer == nil || d.outer.t.IsInterface() || d.t.IsInterface() {
		return false
	}
	return !keywords(d.prefix)["static"]
}

type linker struct {
	u     *binding.Universe
	decls []*decl
}

func (l *linker) declareFile(name string, f *File, external bool) error {
	u := &unit{name: name, imports: map[string]string{}}
	if f.Package != nil {
		u.pkg = strings.Join(f.Package.Parts, ".")
	}
	for _, imp := range f.Imports {
		if imp.Static {
			continue
		}
		last := imp.Parts[len(imp.Parts)-1]
		if last == "*" {
			u.onDemand = append(u.onDemand, strings.Join(imp.Parts[:len(imp.Parts)-1], "."))
			continue
		}
		u.imports[last] = strings.Join(imp.Parts, ".")
	}
	for _, td := range f.Types {
		if err := l.declare(u, td, td.Prefix, nil, external); err != nil {
			return err
		}
	}
	return nil
}

func toPos(p lexer.Position) binding.Pos {
	return binding.Pos{File: p.Filename, Line: p.Line, Column: p.Column}
}

func keywords(prefix []*Modifier) map[string]bool {
	out := map[string]bool{}
	for _, m := range prefix {
		if m.Keyword != "" {
			out[m.Keyword] = true
		}
	}
	return out
}

func annotated(prefix []*Modifier, names ...string) bool {
	for _, m := range prefix {
		if m.Annotation != nil && hasName(m.Annotation, names) {
			return true
		}
	}
	return false
}

func hasName(a *Annotation, names []string) bool {
	simple := a.Name.Parts[len(a.Name.Parts)-1]
	for _, n := range names {
		if simple == n {
			return true
		}
	}
	return false
}

func (l *linker) declare(u *unit, td *TypeDecl, prefix []*Modifier, outer *decl, external bool) error {
	mods := keywords(prefix)
	name := td.Name
	nullMarked := annotated(prefix, "NullMarked")
	if outer != nil {
		name = outer.t.Name + "." + td.Name
		nullMarked = nullMarked || outer.t.NullMarked
	}
	t := &binding.Type{
		Package:    u.pkg,
		Name:       name,
		Abstract:   mods["abstract"],
		Final:      mods["final"],
		NullMarked: nullMarked,
		External:   external,
		Pos:        toPos(td.Pos),
	}
	if td.Kind == "interface" {
		t.Kind = binding.KindInterface
		t.Abstract = true
	}
	for _, tp := range td.TypeParams {
		t.TypeParams = append(t.TypeParams, &binding.TypeParam{Name: tp.Name, Scope: t.QualifiedName()})
	}
	if err := l.u.Add(t); err != nil {
		return err
	}
	d := &decl{ast: td, prefix: prefix, t: t, unit: u, outer: outer}
	l.decls = append(l.decls, d)
	for _, m := range td.Members {
		if m.Nested != nil {
			prefix := slices.Concat(m.Prefix, m.Nested.Prefix)
			if err := l.declare(u, m.Nested, prefix, d, external); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *linker) link() error {
	for _, d := range l.decls {
		if err := l.linkDecl(d); err != nil {
			return err
		}
	}
	return nil
}

// scope resolves names inside one declaration.
type scope struct {
	l    *linker
	d    *decl
	vars map[string]*binding.TypeParam
}

func (s *scope) with(params []*binding.TypeParam) *scope {
	vars := make(map[string]*binding.TypeParam, len(s.vars)+len(params))
	for k, v := range s.vars {
		vars[k] = v
	}
	for _, p := range params {
		vars[p.Name] = p
	}
	return &scope{l: s.l, d: s.d, vars: vars}
}

func (l *linker) linkDecl(d *decl) error {
	t := d.t
	s := &scope{l: l, d: d, vars: map[string]*binding.TypeParam{}}
	// inner classes see the type variables of their enclosing instances
	var enclosing []*decl
	for inner := d; inner.outer != nil && inner.isInner(); inner = inner.outer {
		enclosing = append(enclosing, inner.outer)
	}
	for i := len(enclosing) - 1; i >= 0; i-- {
		s = s.with(enclosing[i].t.TypeParams)
	}
	s = s.with(t.TypeParams)
	if err := s.bounds(d.ast.TypeParams, t.TypeParams); err != nil {
		return err
	}

	if t.IsInterface() {
		if len(d.ast.Implements) > 0 {
			return fmt.Errorf("%s: interface %s cannot implement other interfaces", t.Pos, t.Name)
		}
		refs, err := s.supertypes(d.ast.Extends, binding.KindInterface)
		if err != nil {
			return err
		}
		t.Interfaces = refs
	} else {
		if len(d.ast.Extends) > 1 {
			return fmt.Errorf("%s: class %s cannot extend more than one class", t.Pos, t.Name)
		}
		supers, err := s.supertypes(d.ast.Extends, binding.KindClass)
		if err != nil {
			return err
		}
		switch {
		case len(supers) == 1:
			if supers[0].Type.Final {
				return fmt.Errorf("%s: class %s cannot extend final class %s", t.Pos, t.Name, supers[0].Name)
			}
			t.Super = &supers[0]
		case t.QualifiedName() != binding.ObjectName:
			object, ok := l.u.Lookup(binding.ObjectName)
			if !ok {
				return fmt.Errorf("%s: %s is not loaded", t.Pos, binding.ObjectName)
			}
			ref := object.Ref()
			t.Super = &ref
		}
		refs, err := s.supertypes(d.ast.Implements, binding.KindInterface)
		if err != nil {
			return err
		}
		t.Interfaces = refs
	}

	for _, m := range d.ast.Members {
		if m.Decl == nil || m.Decl.Method == nil {
			continue
		}
		meth, err := s.method(m)
		if err != nil {
			return err
		}
		t.Methods = append(t.Methods, meth)
	}
	return nil
}

func (s *scope) bounds(decls []*TypeParam, params []*binding.TypeParam) error {
	for i, tp := range decls {
		for _, b := range tp.Bounds {
			ref, err := s.resolve(b)
			if err != nil {
				return err
			}
			params[i].Bounds = append(params[i].Bounds, ref)
		}
	}
	return nil
}

func (s *scope) supertypes(types []*Type, want binding.Kind) ([]binding.TypeRef, error) {
	var out []binding.TypeRef
	for _, ty := range types {
		ref, err := s.resolve(ty)
		if err != nil {
			return nil, err
		}
		if ref.Kind != binding.RefDeclared || ref.Dims > 0 {
			return nil, fmt.Errorf("%s: %s cannot be used as a supertype", toPos(ty.Pos), ref)
		}
		if ref.Type.Kind != want {
			return nil, fmt.Errorf("%s: %s is not %s", toPos(ty.Pos), ref, article(want))
		}
		out = append(out, ref)
	}
	return out, nil
}

func article(k binding.Kind) string {
	if k == binding.KindInterface {
		return "an interface"
	}
	return "a class"
}

func (s *scope) method(m *Member) (*binding.Method, error) {
	md, rest := m.Decl, m.Decl.Method
	owner := s.d.t
	mods := keywords(m.Prefix)
	meth := &binding.Method{
		Name:    md.Name,
		Owner:   owner,
		Static:  mods["static"],
		Final:   mods["final"],
		Default: mods["default"],
		HasBody: rest.Body != nil,
		Pos:     toPos(m.Pos),
	}
	meth.Abstract = mods["abstract"] || (owner.IsInterface() && !meth.Static && !meth.HasBody)
	switch {
	case mods["abstract"] && meth.HasBody:
		return nil, fmt.Errorf("%s: abstract method %s cannot have a body", meth.Pos, md.Name)
	case meth.Default && !owner.IsInterface():
		return nil, fmt.Errorf("%s: default method %s outside an interface", meth.Pos, md.Name)
	case meth.Default && !meth.HasBody:
		return nil, fmt.Errorf("%s: default method %s needs a body", meth.Pos, md.Name)
	}

	scopeName := owner.QualifiedName() + "." + md.Name + "()"
	for _, tp := range md.TypeParams {
		meth.TypeParams = append(meth.TypeParams, &binding.TypeParam{Name: tp.Name, Scope: scopeName})
	}
	ms := s.with(meth.TypeParams)
	if err := ms.bounds(md.TypeParams, meth.TypeParams); err != nil {
		return nil, err
	}

	ret, err := ms.resolveVoid(md.Type, true)
	if err != nil {
		return nil, err
	}
	meth.Return = ret
	meth.Return.Dims += len(rest.Dims)

	for _, p := range rest.Params {
		ref, err := ms.resolve(p.Type)
		if err != nil {
			return nil, err
		}
		ref.Dims += len(p.Dims)
		if p.Varargs {
			ref.Dims++
		}
		param := binding.Param{Name: p.Name, Type: ref, Final: keywords(p.Prefix)["final"]}
		switch {
		case annotated(p.Prefix, nonNullNames...) || typeAnnotated(p.Type, nonNullNames...):
			param.Nullness = binding.AnnotatedNonNull
		case annotated(p.Prefix, nullableNames...) || typeAnnotated(p.Type, nullableNames...):
			param.Nullness = binding.AnnotatedNullable
		}
		meth.Params = append(meth.Params, param)
	}
	return meth, nil
}

var (
	nullableNames = []string{"Nullable", "CheckForNull"}
	nonNullNames  = []string{"NonNull", "Nonnull", "NotNull"}
)

func typeAnnotated(ty *Type, names ...string) bool {
	for _, a := range ty.Annotations {
		if hasName(a, names) {
			return true
		}
	}
	return false
}

func (s *scope) resolve(ty *Type) (binding.TypeRef, error) {
	return s.resolveVoid(ty, false)
}

func (s *scope) resolveVoid(ty *Type, allowVoid bool) (binding.TypeRef, error) {
	parts := ty.Name.Parts
	pos := toPos(ty.Pos)
	dims := len(ty.Dims)
	if len(parts) == 1 {
		name := parts[0]
		if primitives[name] {
			if len(ty.Args) > 0 {
				return binding.TypeRef{}, fmt.Errorf("%s: primitive %s cannot have type arguments", pos, name)
			}
			if name == "void" && (!allowVoid || dims > 0) {
				return binding.TypeRef{}, fmt.Errorf("%s: void is only allowed as a return type", pos)
			}
			return binding.TypeRef{Kind: binding.RefPrimitive, Name: name, Dims: dims}, nil
		}
		if tp, ok := s.vars[name]; ok {
			if len(ty.Args) > 0 {
				return binding.TypeRef{}, fmt.Errorf("%s: type variable %s cannot have type arguments", pos, name)
			}
			ref := tp.Ref()
			ref.Dims = dims
			return ref, nil
		}
	}
	t, ok := s.lookup(parts)
	if !ok {
		return binding.TypeRef{}, fmt.Errorf("%s: cannot resolve type %s", pos, strings.Join(parts, "."))
	}
	ref := binding.TypeRef{Kind: binding.RefDeclared, Name: t.QualifiedName(), Type: t, Dims: dims}
	for _, a := range ty.Args {
		arg, err := s.typeArg(a)
		if err != nil {
			return binding.TypeRef{}, err
		}
		ref.Args = append(ref.Args, arg)
	}
	if len(ref.Args) > 0 && len(ref.Args) != len(t.TypeParams) {
		return binding.TypeRef{}, fmt.Errorf("%s: %s takes %d type arguments, got %d", pos, t.Name, len(t.TypeParams), len(ref.Args))
	}
	return ref, nil
}

func (s *scope) typeArg(a *TypeArg) (binding.TypeRef, error) {
	if a.Wildcard {
		w := binding.TypeRef{Kind: binding.RefWildcard, Name: "?"}
		switch {
		case a.Extends != nil:
			b, err := s.resolve(a.Extends)
			if err != nil {
				return binding.TypeRef{}, err
			}
			w.Bound = &b
		case a.Super != nil:
			if _, err := s.resolve(a.Super); err != nil {
				return binding.TypeRef{}, err
			}
		}
		return w, nil
	}
	ref, err := s.resolve(a.Type)
	if err != nil {
		return binding.TypeRef{}, err
	}
	if ref.IsPrimitive() && ref.Dims == 0 {
		return binding.TypeRef{}, fmt.Errorf("%s: primitive %s cannot be a type argument", toPos(a.Type.Pos), ref.Name)
	}
	return ref, nil
}

// lookup resolves a type name: member types of enclosing declarations,
// single-type imports, the current package, on-demand imports and
// finally java.lang.
func (s *scope) lookup(parts []string) (*binding.Type, bool) {
	u := s.l.u
	if len(parts) > 1 {
		if t, ok := u.Lookup(strings.Join(parts, ".")); ok {
			return t, true
		}
		outer, ok := s.lookup(parts[:1])
		if !ok {
			return nil, false
		}
		return u.Lookup(outer.QualifiedName() + "." + strings.Join(parts[1:], "."))
	}
	name := parts[0]
	for d := s.d; d != nil; d = d.outer {
		if t, ok := u.Lookup(d.t.QualifiedName() + "." + name); ok {
			return t, true
		}
		if d.t.Name == name || strings.HasSuffix(d.t.Name, "."+name) {
			return d.t, true
		}
	}
	unit := s.d.unit
	if q, ok := unit.imports[name]; ok {
		return u.Lookup(q)
	}
	if t, ok := u.Lookup(qualify(unit.pkg, name)); ok {
		return t, true
	}
	for _, pkg := range unit.onDemand {
		if t, ok := u.Lookup(pkg + "." + name); ok {
			return t, true
		}
	}
	return u.Lookup("java.lang." + name)
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
