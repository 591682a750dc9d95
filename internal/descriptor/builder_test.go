package descriptor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calumari/stubfill/internal/ast"
	"github.com/calumari/stubfill/internal/binding"
	"github.com/calumari/stubfill/internal/descriptor"
	"github.com/calumari/stubfill/internal/frontend"
	"github.com/calumari/stubfill/internal/stubs"
)

func setup(t *testing.T, src string) (*binding.Universe, *binding.Resolver) {
	t.Helper()
	u, err := frontend.Load([]frontend.Source{{Name: "p/Src.java", Data: []byte("package p;\n" + src)}})
	require.NoError(t, err)
	return u, binding.NewResolver(u)
}

func typ(t *testing.T, u *binding.Universe, name string) *binding.Type {
	t.Helper()
	ty, ok := u.Lookup(name)
	require.True(t, ok)
	return ty
}

func summaries(methods []*ast.Method) []string {
	out := make([]string, len(methods))
	for i, m := range methods {
		out[i] = m.Summary()
	}
	return out
}

func TestDefaultNullability(t *testing.T) {
	u, _ := setup(t, `
@NullMarked abstract class Marked {}
abstract class Plain {}`)
	b := descriptor.New(ast.Nullable)
	require.Equal(t, ast.NonNull, b.DefaultNullability(typ(t, u, "p.Marked")))
	require.Equal(t, ast.Nullable, b.DefaultNullability(typ(t, u, "p.Plain")))
	require.Equal(t, ast.NonNull, descriptor.New(ast.NonNull).DefaultNullability(typ(t, u, "p.Plain")))
}

func TestTypeDescriptor(t *testing.T) {
	u, _ := setup(t, `
interface Box<T> {}
abstract class Pair<K, V> implements Box<K> {}`)
	b := descriptor.New(ast.Nullable)

	d, err := b.TypeDescriptor(typ(t, u, "p.Pair"))
	require.NoError(t, err)
	require.Equal(t, ast.KindClass, d.Kind)
	require.Equal(t, "p.Pair<K, V>", d.Qualified())
	require.False(t, d.Nullable)

	d, err = b.TypeDescriptor(typ(t, u, "p.Box"))
	require.NoError(t, err)
	require.Equal(t, ast.KindInterface, d.Kind)
}

func TestRef(t *testing.T) {
	u, _ := setup(t, `
abstract class A {
  abstract void f(int a, int[] b, String[][] c, java.util.List<? extends CharSequence> d, java.util.List<?> e);
}`)
	b := descriptor.New(ast.Nullable)
	params := typ(t, u, "p.A").Methods[0].Params

	want := []string{"int", "int[]?", "String[][]?", "List<? extends CharSequence?>?", "List<?>?"}
	for i, p := range params {
		d, err := b.Ref(p.Type, ast.Nullable)
		require.NoError(t, err)
		require.Equal(t, want[i], d.Annotated())
	}

	d, err := b.Ref(params[1].Type, ast.Nullable)
	require.NoError(t, err)
	require.Equal(t, ast.KindArray, d.Kind)
	require.Equal(t, "int", d.Name)

	_, err = b.Ref(binding.TypeRef{Kind: binding.RefDeclared, Name: "q.Gone"}, ast.Nullable)
	require.ErrorContains(t, err, "unresolved type q.Gone")
}

func TestSynthesizedStubs(t *testing.T) {
	t.Run("specialized parameter types", func(t *testing.T) {
		u, r := setup(t, `abstract class Foo implements Comparable<Foo> {}`)
		foo := typ(t, u, "p.Foo")
		out, err := stubs.New(r, descriptor.New(ast.Nullable)).Synthesize(foo)
		require.NoError(t, err)
		require.Equal(t, []string{"compareTo(arg0: Foo?): int abstract"}, summaries(out))

		md := out[0].Descriptor
		require.Equal(t, "p.Foo", md.Enclosing.Name)
		require.Equal(t, "p.Foo", md.Declaration().Enclosing.Name)
		require.Equal(t, ast.KindTypeVariable, md.Declaration().Params[0].Kind)
		require.Equal(t, "p.Foo", md.Params[0].Name)
		require.True(t, md.Abstract)
	})

	t.Run("null marked class uses non-null references", func(t *testing.T) {
		u, r := setup(t, `
@NullMarked abstract class Names implements java.util.function.Function<String, Integer> {}`)
		out, err := stubs.New(r, descriptor.New(ast.Nullable)).Synthesize(typ(t, u, "p.Names"))
		require.NoError(t, err)
		require.Equal(t, []string{"apply(arg0: String!): Integer abstract"}, summaries(out))
	})

	t.Run("explicit annotations win over the policy", func(t *testing.T) {
		u, r := setup(t, `
interface Sink { void put(@NonNull String key, @Nullable Object value, int n, final Object tag); }
@NullMarked abstract class A implements Sink {}
abstract class B implements Sink {}`)
		s := stubs.New(r, descriptor.New(ast.Nullable))

		out, err := s.Synthesize(typ(t, u, "p.A"))
		require.NoError(t, err)
		require.Equal(t, []string{"put(arg0: String!, arg1: Object?, arg2: int, arg3: Object!): void abstract"}, summaries(out))

		out, err = s.Synthesize(typ(t, u, "p.B"))
		require.NoError(t, err)
		require.Equal(t, []string{"put(arg0: String!, arg1: Object?, arg2: int, arg3: Object?): void abstract"}, summaries(out))
	})

	t.Run("stubs belong to the highest class missing them", func(t *testing.T) {
		u, r := setup(t, `
interface I { void a(); void b(); }
abstract class Top implements I { public void b() {} }
abstract class Bottom extends Top implements Runnable {}`)
		s := stubs.New(r, descriptor.New(ast.Nullable))

		out, err := s.Synthesize(typ(t, u, "p.Top"))
		require.NoError(t, err)
		require.Equal(t, []string{"a(): void abstract"}, summaries(out))

		out, err = s.Synthesize(typ(t, u, "p.Bottom"))
		require.NoError(t, err)
		require.Equal(t, []string{"run(): void abstract"}, summaries(out))
	})

	t.Run("foreign signature is a precondition error", func(t *testing.T) {
		_, err := descriptor.New(ast.Nullable).ParameterType(fakeSig{}, 0, ast.Nullable)
		require.ErrorContains(t, err, "unsupported method signature")
	})
}

type fakeSig struct{}

func (fakeSig) Name() string   { return "f" }
func (fakeSig) NumParams() int { return 0 }
func (fakeSig) IsFinal() bool  { return false }
