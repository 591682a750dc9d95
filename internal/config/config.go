// Package config handles stubfill.toml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/calumari/stubfill/internal/ast"
)

// FileName is the project configuration file looked up by Find.
const FileName = "stubfill.toml"

// ErrInvalid is wrapped by validation errors.
var ErrInvalid = errors.New("invalid configuration")

const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Config is a stubfill.toml project configuration.
type Config struct {
	Source      Source      `toml:"source"`
	Output      Output      `toml:"output"`
	Nullability Nullability `toml:"nullability"`

	// Dir is the directory containing the stubfill.toml file (set at load
	// time).
	Dir string `toml:"-"`
}

type Source struct {
	Dirs []string `toml:"dirs"`
}

type Output struct {
	File   string `toml:"file"`
	Format string `toml:"format"`
}

type Nullability struct {
	Default string `toml:"default"`
}

// Default returns the configuration used when no file is found.
func Default(dir string) *Config {
	c := &Config{Dir: dir}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if len(c.Source.Dirs) == 0 {
		c.Source.Dirs = []string{"."}
	}
	if c.Output.File == "" {
		c.Output.File = "-"
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatText
	}
	if c.Nullability.Default == "" {
		c.Nullability.Default = "nullable"
	}
}

// Load parses the stubfill.toml file in dir.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: %s: unknown key %s", ErrInvalid, path, undecoded[0])
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// Find walks up from startDir to the first stubfill.toml and loads it.
// It returns nil when no file is found.
func Find(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatYAML:
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrInvalid, c.Output.Format)
	}
	if _, err := ParseNullability(c.Nullability.Default); err != nil {
		return err
	}
	return nil
}

// DefaultNullability returns the configured project policy.
func (c *Config) DefaultNullability() ast.Nullability {
	n, _ := ParseNullability(c.Nullability.Default)
	return n
}

// ParseNullability accepts "nullable" and "non-null".
func ParseNullability(s string) (ast.Nullability, error) {
	switch s {
	case "nullable":
		return ast.Nullable, nil
	case "non-null", "nonnull":
		return ast.NonNull, nil
	}
	return ast.Nullable, fmt.Errorf("%w: unknown nullability %q", ErrInvalid, s)
}

// SourceDirPaths returns absolute paths for the configured source
// directories.
func (c *Config) SourceDirPaths() []string {
	var paths []string
	for _, d := range c.Source.Dirs {
		if filepath.IsAbs(d) {
			paths = append(paths, d)
			continue
		}
		paths = append(paths, filepath.Join(c.Dir, d))
	}
	return paths
}
