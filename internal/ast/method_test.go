package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func class(name string) TypeDescriptor {
	return TypeDescriptor{Kind: KindClass, Name: name}
}

func iface(name string, args ...TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: KindInterface, Name: name, Args: args}
}

func TestMethodDescriptor(t *testing.T) {
	typeVar := TypeDescriptor{Kind: KindTypeVariable, Name: "T", Nullable: true}
	decl := MethodDescriptor{
		Name:      "compareTo",
		Enclosing: iface("java.lang.Comparable", typeVar),
		Params:    []TypeDescriptor{typeVar},
		Return:    Primitive("int"),
		Abstract:  true,
	}
	foo := class("pkg.Foo").WithNullable(true)
	specialized := decl.WithEnclosing(iface("java.lang.Comparable", foo)).WithParams(foo).WithDeclaration(decl)

	t.Run("descriptor without declaration is its own declaration", func(t *testing.T) {
		require.True(t, decl.IsDeclaration())
		require.True(t, decl.Declaration().Equal(decl))
	})

	t.Run("with declaration keeps the origin", func(t *testing.T) {
		require.False(t, specialized.IsDeclaration())
		require.True(t, specialized.Declaration().Equal(decl))
		require.False(t, specialized.Equal(decl))
	})

	t.Run("in type rewrites both forms and leaves the receiver untouched", func(t *testing.T) {
		home := class("pkg.Foo")
		moved := specialized.InType(home)
		require.Equal(t, "pkg.Foo", moved.Enclosing.Name)
		require.Equal(t, "pkg.Foo", moved.Declaration().Enclosing.Name)
		require.Equal(t, "T", moved.Declaration().Params[0].Name)
		require.Equal(t, "pkg.Foo", moved.Params[0].Name)
		require.Equal(t, "java.lang.Comparable", specialized.Enclosing.Name)
		require.Equal(t, "java.lang.Comparable", specialized.Declaration().Enclosing.Name)
	})

	t.Run("independent declarations re-homed in one type are equal", func(t *testing.T) {
		fromFoo := MethodDescriptor{Name: "m", Enclosing: iface("p.Foo"), Params: []TypeDescriptor{Primitive("int")}, Return: Primitive("void"), Abstract: true}
		fromBar := fromFoo.WithEnclosing(iface("p.Bar"))
		require.False(t, fromFoo.Equal(fromBar))
		home := class("p.C")
		require.True(t, fromFoo.InType(home).Equal(fromBar.InType(home)))
		require.Equal(t, fromFoo.InType(home).Key(), fromBar.InType(home).Key())
	})

	t.Run("nullability participates in equality", func(t *testing.T) {
		a := decl.WithParams(class("java.lang.String").WithNullable(true))
		b := decl.WithParams(class("java.lang.String").WithNullable(false))
		require.False(t, a.Equal(b))
	})

	t.Run("signature rendering", func(t *testing.T) {
		require.Equal(t, "compareTo(Foo): int", specialized.Signature())
		require.Equal(t, "Comparable.compareTo(T): int", decl.String())
	})
}

func TestTypeDescriptor(t *testing.T) {
	str := class("java.lang.String")
	list := iface("java.util.List", str.WithNullable(true))

	require.Equal(t, "List<String>", list.String())
	require.Equal(t, "java.util.List<java.lang.String>", list.Qualified())
	require.Equal(t, "List<String?>!", list.Annotated())
	require.False(t, Primitive("int").WithNullable(true).Nullable)
	require.True(t, Primitive("void").IsVoid())

	arr := TypeDescriptor{Kind: KindArray, Name: "int", Dims: 2}
	require.Equal(t, "int[][]", arr.String())
	require.False(t, arr.Equal(Primitive("int")))
}

func TestMethodSummary(t *testing.T) {
	str := class("java.lang.String")
	m := &Method{
		Descriptor: MethodDescriptor{Name: "n", Params: []TypeDescriptor{str}, Return: Primitive("void")},
		Parameters: []Variable{{Name: "arg0", Type: str.WithNullable(true), Parameter: true}},
		Abstract:   true,
	}
	require.Equal(t, "n(arg0: String?): void abstract", m.Summary())

	ty := &Type{Descriptor: class("p.D")}
	ty.AddMethods(&Method{Descriptor: MethodDescriptor{Name: "own"}}, &Method{Descriptor: MethodDescriptor{Name: "stub"}, Synthetic: true})
	require.Len(t, ty.Methods, 2)
	require.Len(t, ty.SyntheticMethods(), 1)
	require.Equal(t, "stub", ty.SyntheticMethods()[0].Descriptor.Name)
}
