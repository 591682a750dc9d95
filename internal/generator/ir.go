package generator

import (
	"io"

	"github.com/calumari/stubfill/internal/ast"
	"github.com/calumari/stubfill/internal/diag"
)

// This file houses the configuration and the output models shared by the
// generator phases (discovery -> linking -> pass -> render).

// Config holds generation settings.
type Config struct {
	Dirs        []string        // source directories scanned for *.java files
	Output      string          // output file, relative to the first source dir; "-" for stdout
	Format      string          // "text" or "yaml"
	Nullability ast.Nullability // project default for types without @NullMarked
	Command     string          // full invocation command line
	Version     string          // stubfill build version

	Reporter *diag.Reporter // nil discards diagnostics
	Stdout   io.Writer      // destination for "-"; nil means os.Stdout
}

// fileModel is the root model of a rendered stub listing.
type fileModel struct {
	Version string      `yaml:"version,omitempty"`
	Command string      `yaml:"command,omitempty"`
	Types   []typeModel `yaml:"types"`
}

// typeModel is one class that received stubs.
type typeModel struct {
	Name     string      `yaml:"name"`
	Source   string      `yaml:"source"`
	Abstract bool        `yaml:"abstract"`
	Super    string      `yaml:"super,omitempty"`
	Stubs    []stubModel `yaml:"stubs"`
}

// stubModel is one synthesized method.
type stubModel struct {
	Name        string       `yaml:"name"`
	Summary     string       `yaml:"-"`
	Signature   string       `yaml:"signature"`
	Declaration string       `yaml:"declaration"`
	Return      string       `yaml:"return"`
	Final       bool         `yaml:"final,omitempty"`
	Params      []paramModel `yaml:"params,omitempty"`
}

type paramModel struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable"`
}
