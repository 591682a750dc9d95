package generator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"

	"github.com/calumari/stubfill/internal/ast"
	"github.com/calumari/stubfill/internal/config"
	"github.com/calumari/stubfill/internal/diag"
	"github.com/calumari/stubfill/internal/frontend"
)

// extract writes the non-"want" files of ar into a fresh directory.
func extract(t *testing.T, ar *txtar.Archive) (dir string, want []byte) {
	t.Helper()
	dir = t.TempDir()
	for _, f := range ar.Files {
		if f.Name == "want" {
			want = f.Data
			continue
		}
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, f.Data, 0o644))
	}
	return dir, want
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func TestGolden(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, archives)

	for _, path := range archives {
		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(name, func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)
			dir, want := extract(t, ar)
			require.NotNil(t, want, "archive has no want file")

			cfg := Config{Dirs: []string{dir}, Version: "test", Nullability: ast.Nullable}
			for _, line := range strings.Split(string(ar.Comment), "\n") {
				if v, ok := strings.CutPrefix(line, "nullability:"); ok {
					cfg.Nullability, err = config.ParseNullability(strings.TrimSpace(v))
					require.NoError(t, err)
				}
			}

			got, err := Generate(cfg)
			require.NoError(t, err)
			require.Equal(t, string(want), string(got))
		})
	}
}

func TestGenerate(t *testing.T) {
	t.Run("yaml manifest", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			"p/Foo.java": "package p;\n@NullMarked abstract class Foo implements Comparable<Foo> {}\n",
		})
		out, err := Generate(Config{Dirs: []string{dir}, Format: config.FormatYAML, Version: "v1", Command: "stubfill -format yaml"})
		require.NoError(t, err)

		var got fileModel
		require.NoError(t, yaml.Unmarshal(out, &got))
		require.Equal(t, "v1", got.Version)
		require.Equal(t, "stubfill -format yaml", got.Command)
		require.Len(t, got.Types, 1)
		foo := got.Types[0]
		require.Equal(t, "p.Foo", foo.Name)
		require.Equal(t, "p/Foo.java", foo.Source)
		require.True(t, foo.Abstract)
		require.Equal(t, "java.lang.Object", foo.Super)
		require.Len(t, foo.Stubs, 1)
		stub := foo.Stubs[0]
		require.Equal(t, "compareTo", stub.Name)
		require.Equal(t, "compareTo(Foo): int", stub.Signature)
		require.Equal(t, "compareTo(T): int", stub.Declaration)
		require.Equal(t, "int", stub.Return)
		require.Equal(t, []paramModel{{Name: "arg0", Type: "p.Foo", Nullable: false}}, stub.Params)
	})

	t.Run("command header", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"A.java": "abstract class A implements Runnable {}\n"})
		out, err := Generate(Config{Dirs: []string{dir}, Command: "stubfill -dir ."})
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(string(out), "# Code generated by stubfill. DO NOT EDIT.\n# stubfill -dir .\n\nA (A.java)\n"))
	})

	t.Run("multiple source directories", func(t *testing.T) {
		lib := writeFiles(t, map[string]string{"lib/Api.java": "package lib; public interface Api { void call(); }\n"})
		app := writeFiles(t, map[string]string{"app/Impl.java": "package app; import lib.Api; abstract class Impl implements Api {}\n"})
		out, err := Generate(Config{Dirs: []string{app, lib}})
		require.NoError(t, err)
		require.Contains(t, string(out), "app.Impl (app/Impl.java)\n  call(): void abstract\n")
	})

	t.Run("warns about concrete classes", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"C.java": "class C implements Runnable {}\n"})
		var stdout, stderr bytes.Buffer
		rep := diag.New(diag.Info, diag.WithWriters(&stdout, &stderr), diag.WithColor(false))
		_, err := Generate(Config{Dirs: []string{dir}, Reporter: rep})
		require.NoError(t, err)
		require.Contains(t, stderr.String(), "[warn] C.java:1:1: class C is not abstract and does not implement run(): void")
		require.Contains(t, stdout.String(), "[info] synthesized 1 stubs in 1 classes")
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name  string
			files map[string]string
			cfg   Config
			want  string
		}{
			{"no dirs", nil, Config{}, "no source directories"},
			{"no sources", map[string]string{"README": "x"}, Config{}, "no .java files found"},
			{"syntax", map[string]string{"A.java": "class A {"}, Config{}, "A.java:1:"},
			{"unresolved", map[string]string{"A.java": "abstract class A implements Nope {}"}, Config{}, "cannot resolve type Nope"},
			{"format", map[string]string{"A.java": "class A {}"}, Config{Format: "xml"}, "unknown output format"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := tt.cfg
				if tt.files != nil {
					cfg.Dirs = []string{writeFiles(t, tt.files)}
				}
				_, err := Generate(cfg)
				require.ErrorContains(t, err, tt.want)
			})
		}
	})

	t.Run("cycle", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{
			"A.java": "abstract class A extends B {}\n",
			"B.java": "abstract class B extends A {}\n",
		})
		_, err := Generate(Config{Dirs: []string{dir}})
		require.ErrorIs(t, err, ErrCycle)
		require.ErrorContains(t, err, "A -> B -> A")
	})
}

func TestRun(t *testing.T) {
	dir := writeFiles(t, map[string]string{"A.java": "abstract class A implements Runnable {}\n"})

	t.Run("writes into the first source dir", func(t *testing.T) {
		require.NoError(t, Run(Config{Dirs: []string{dir}, Output: "stubs.txt"}))
		data, err := os.ReadFile(filepath.Join(dir, "stubs.txt"))
		require.NoError(t, err)
		require.Contains(t, string(data), "run(): void abstract")
	})

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Run(Config{Dirs: []string{dir}, Output: "-", Stdout: &buf}))
		require.Contains(t, buf.String(), "A (A.java)")
	})
}

func TestClassOrder(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a/A.java": "package a; abstract class A extends b.B {}\n",
		"b/B.java": "package b; public abstract class B extends c.C {}\n",
		"c/C.java": "package c; public abstract class C implements I {}\ninterface I {}\n",
	})
	sources, err := discoverSources([]string{dir})
	require.NoError(t, err)
	require.Len(t, sources, 3)
	require.Equal(t, "a/A.java", sources[0].Name)

	u, err := frontend.Load(sources)
	require.NoError(t, err)
	types, err := classOrder(u)
	require.NoError(t, err)
	var names []string
	for _, ty := range types {
		names = append(names, ty.QualifiedName())
	}
	require.Equal(t, []string{"c.C", "b.B", "a.A"}, names)
}

func TestPlural(t *testing.T) {
	require.Equal(t, "1 stub", plural(1, "stub"))
	require.Equal(t, "2 stubs", plural(2, "stub"))
	require.Equal(t, "0 classes", plural(0, "class"))
}
