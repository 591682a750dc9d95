package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func project(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func TestRun(t *testing.T) {
	t.Run("flags only", func(t *testing.T) {
		dir := project(t, map[string]string{"src/Job.java": "abstract class Job implements Runnable {}\n"})
		var stdout, stderr bytes.Buffer
		code := run([]string{"-dir", filepath.Join(dir, "src"), "-nullability", "non-null", "-no-color"}, &stdout, &stderr)
		require.Equal(t, 0, code, stderr.String())
		require.Contains(t, stdout.String(), "-nullability=non-null\n")
		require.Contains(t, stdout.String(), "Job (Job.java)\n  run(): void abstract\n")
	})

	t.Run("project file", func(t *testing.T) {
		dir := project(t, map[string]string{
			"stubfill.toml": "[source]\ndirs = [\"src\"]\n\n[output]\nfile = \"stubs.yaml\"\nformat = \"yaml\"\n",
			"src/p/Job.java": "package p; abstract class Job implements Runnable {}\n",
		})
		var stdout, stderr bytes.Buffer
		code := run([]string{"-config", dir, "-quiet"}, &stdout, &stderr)
		require.Equal(t, 0, code, stderr.String())
		require.Empty(t, stdout.String())

		data, err := os.ReadFile(filepath.Join(dir, "src", "stubs.yaml"))
		require.NoError(t, err)
		require.Contains(t, string(data), "name: p.Job")
		require.Contains(t, string(data), "run(): void")
	})

	t.Run("flags override the project file", func(t *testing.T) {
		dir := project(t, map[string]string{
			"stubfill.toml": "[output]\nformat = \"yaml\"\n",
			"Job.java":      "abstract class Job implements Runnable {}\n",
		})
		var stdout, stderr bytes.Buffer
		code := run([]string{"-config", dir, "-dir", dir, "-format", "text", "-no-color"}, &stdout, &stderr)
		require.Equal(t, 0, code, stderr.String())
		require.Contains(t, stdout.String(), "# Code generated by stubfill")
	})

	t.Run("command header records effective settings", func(t *testing.T) {
		dir := project(t, map[string]string{
			"stubfill.toml": "[source]\ndirs = [\"src\"]\n\n[output]\nfile = \"stubs.yaml\"\nformat = \"yaml\"\n",
			"src/Job.java":  "abstract class Job implements Runnable {}\n",
		})
		var stdout, stderr bytes.Buffer
		require.Equal(t, 0, run([]string{"-config", dir, "-no-color"}, &stdout, &stderr), stderr.String())
		data, err := os.ReadFile(filepath.Join(dir, "src", "stubs.yaml"))
		require.NoError(t, err)
		require.Contains(t, string(data), "command: stubfill -output=stubs.yaml -format=yaml\n")
	})

	t.Run("errors exit with status 1", func(t *testing.T) {
		dir := project(t, map[string]string{"Bad.java": "class Bad extends Missing {}\n"})
		for _, args := range [][]string{
			{"-dir", dir, "-no-color"},
			{"-dir", dir, "-format", "json", "-no-color"},
			{"-unknown"},
		} {
			var stdout, stderr bytes.Buffer
			require.Equal(t, 1, run(args, &stdout, &stderr), args)
			require.NotEmpty(t, stderr.String())
		}
	})

	t.Run("help", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		require.Equal(t, 0, run([]string{"-h"}, &stdout, &stderr))
		require.Contains(t, stderr.String(), "Usage: stubfill")
	})
}

// The example projects carry their generated output next to the sources.
func TestExamples(t *testing.T) {
	projects, err := filepath.Glob(filepath.Join("..", "..", "examples", "*", "stubfill.toml"))
	require.NoError(t, err)
	require.NotEmpty(t, projects)

	for _, toml := range projects {
		dir := filepath.Dir(toml)
		t.Run(filepath.Base(dir), func(t *testing.T) {
			matches, err := filepath.Glob(filepath.Join(dir, "src", "stubs_gen.*"))
			require.NoError(t, err)
			require.Len(t, matches, 1)
			want, err := os.ReadFile(matches[0])
			require.NoError(t, err)

			work := t.TempDir()
			require.NoError(t, os.CopyFS(work, os.DirFS(dir)))
			out := filepath.Join(work, "src", filepath.Base(matches[0]))
			require.NoError(t, os.Remove(out))

			var stdout, stderr bytes.Buffer
			code := run([]string{"-config", work, "-no-color"}, &stdout, &stderr)
			require.Equal(t, 0, code, stderr.String())
			require.Empty(t, stderr.String())
			got, err := os.ReadFile(out)
			require.NoError(t, err)

			if filepath.Ext(out) == ".yaml" {
				var w, g map[string]any
				require.NoError(t, yaml.Unmarshal(want, &w))
				require.NoError(t, yaml.Unmarshal(got, &g))
				delete(w, "version")
				delete(g, "version")
				require.Equal(t, w, g)
				return
			}
			// the first line carries the build version
			_, wantBody, _ := strings.Cut(string(want), "\n")
			_, gotBody, _ := strings.Cut(string(got), "\n")
			require.Equal(t, wantBody, gotBody)
		})
	}
}
