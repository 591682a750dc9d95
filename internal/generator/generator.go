// Package generator finds the interface methods abstract Java classes
// leave unimplemented and renders the stubs each class receives.
package generator

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/calumari/stubfill/internal/ast"
	"github.com/calumari/stubfill/internal/binding"
	"github.com/calumari/stubfill/internal/config"
	"github.com/calumari/stubfill/internal/descriptor"
	"github.com/calumari/stubfill/internal/diag"
	"github.com/calumari/stubfill/internal/frontend"
	"github.com/calumari/stubfill/internal/stubs"
)

// generator holds the state of one run.
type generator struct {
	cfg      Config
	log      *diag.Reporter
	universe *binding.Universe
	resolver *binding.Resolver
	builder  *descriptor.Builder
}

// Run generates the stub listing and writes it to cfg.Output.
func Run(cfg Config) error {
	out, err := Generate(cfg)
	if err != nil {
		return err
	}
	return write(cfg, out)
}

// Generate returns the rendered stub listing without writing it.
func Generate(cfg Config) ([]byte, error) {
	if len(cfg.Dirs) == 0 {
		return nil, errors.New("no source directories provided")
	}
	if cfg.Format == "" {
		cfg.Format = config.FormatText
	}
	g := &generator{cfg: cfg, log: cfg.Reporter, builder: descriptor.New(cfg.Nullability)}
	if g.log == nil {
		g.log = diag.Discard()
	}
	types, err := g.load()
	if err != nil {
		return nil, err
	}
	return g.render(types)
}

func (g *generator) load() ([]*ast.Type, error) {
	sources, err := discoverSources(g.cfg.Dirs)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no .java files found in %s", strings.Join(g.cfg.Dirs, ", "))
	}
	g.log.Verbosef("found %d source files", len(sources))

	if g.universe, err = frontend.Load(sources); err != nil {
		return nil, err
	}
	g.resolver = binding.NewResolver(g.universe)

	classes, err := classOrder(g.universe)
	if err != nil {
		return nil, err
	}
	members := make([]stubs.TypeBinding, len(classes))
	for i, c := range classes {
		members[i] = c
	}
	pass := stubs.NewPass(g.resolver, g.builder, members)

	var lowered []*ast.Type
	total := 0
	for _, c := range classes {
		lt, err := g.lowerType(c)
		if err != nil {
			return nil, err
		}
		methods, err := pass.Visit(c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Pos, err)
		}
		lt.AddMethods(methods...)
		if len(methods) > 0 {
			g.reportStubs(c, methods)
		}
		total += len(methods)
		lowered = append(lowered, lt)
	}
	g.log.Infof("synthesized %d stubs in %d classes", total, len(classes))
	return lowered, nil
}

func (g *generator) reportStubs(c *binding.Type, methods []*ast.Method) {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Descriptor.Signature()
	}
	if !c.Abstract {
		g.log.Warnf("%s: class %s is not abstract and does not implement %s", c.Pos, c.QualifiedName(), strings.Join(names, ", "))
		return
	}
	g.log.Verbosef("%s: %d stubs", c.QualifiedName(), len(methods))
	g.log.Indent()
	for _, n := range names {
		g.log.Debugf("%s", n)
	}
	g.log.Unindent()
}

// write emits out to the configured destination.
func write(cfg Config, out []byte) error {
	if cfg.Output == "" || cfg.Output == "-" {
		w := cfg.Stdout
		if w == nil {
			w = os.Stdout
		}
		_, err := bytes.NewReader(out).WriteTo(w)
		return err
	}
	path := cfg.Output
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Dirs[0], path)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return err
	}
	if cfg.Reporter != nil {
		cfg.Reporter.Infof("wrote %s", path)
	}
	return nil
}
