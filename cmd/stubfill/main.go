package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/calumari/stubfill/internal/config"
	"github.com/calumari/stubfill/internal/diag"
	"github.com/calumari/stubfill/internal/generator"
)

// deriveVersion inspects build info for module version or vcs revision.
// preference order: module semantic version -> short commit hash -> "devel".
func deriveVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		if semver.IsValid(bi.Main.Version) {
			return semver.Canonical(bi.Main.Version)
		}
		var revision string
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				revision = s.Value
				break
			}
		}
		if len(revision) >= 12 {
			return revision[:12]
		}
		if revision != "" {
			return revision
		}
	}
	return "devel"
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	dirs        string
	output      string
	format      string
	configDir   string
	nullability string
	verbose     bool
	quiet       bool
	noColor     bool
	set         map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("stubfill", flag.ContinueOnError)
	fs.SetOutput(stderr)
	o := &options{}
	fs.StringVar(&o.dirs, "dir", ".", "Comma-separated source directories to scan for .java files")
	fs.StringVar(&o.output, "output", "-", "Output file, relative to the first source directory (\"-\" for stdout)")
	fs.StringVar(&o.format, "format", config.FormatText, "Output format: text or yaml")
	fs.StringVar(&o.configDir, "config", "", "Directory holding stubfill.toml (default: search upward from the first -dir)")
	fs.StringVar(&o.nullability, "nullability", "nullable", "Default nullability outside @NullMarked types: nullable or non-null")
	fs.BoolVar(&o.verbose, "verbose", false, "Report every class that receives stubs")
	fs.BoolVar(&o.quiet, "quiet", false, "Only report errors")
	fs.BoolVar(&o.noColor, "no-color", false, "Disable colored diagnostics")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: stubfill [flags]\n")
		fmt.Fprintf(stderr, "\nStubfill lists the abstract stubs Java classes need for interface methods they leave unimplemented.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExample:\n")
		fmt.Fprintf(stderr, "  stubfill -dir=src -output=stubs_gen.txt\n")
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	o.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

func splitList(csv string) []string {
	var out []string
	for p := range strings.SplitSeq(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// settings merges the project file, if any, with the flags. Flags given
// on the command line win.
func settings(o *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	dirs := splitList(o.dirs)
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	if o.configDir != "" {
		cfg, err = config.Load(o.configDir)
	} else {
		cfg, err = config.Find(dirs[0])
	}
	if err != nil {
		return nil, err
	}
	found := cfg != nil
	if !found {
		cfg = config.Default(".")
	}
	if o.set["dir"] || !found {
		cfg.Source.Dirs = cfg.Source.Dirs[:0]
		for _, d := range dirs {
			abs, err := filepath.Abs(d)
			if err != nil {
				return nil, err
			}
			cfg.Source.Dirs = append(cfg.Source.Dirs, abs)
		}
	}
	if o.set["output"] {
		cfg.Output.File = o.output
	}
	if o.set["format"] {
		cfg.Output.Format = o.format
	}
	if o.set["nullability"] {
		cfg.Nullability.Default = o.nullability
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	level := diag.Warn
	switch {
	case o.quiet:
		level = diag.Error
	case o.verbose:
		level = diag.Debug
	}
	opts := []diag.Option{diag.WithWriters(stderr, stderr)}
	if o.noColor {
		opts = append(opts, diag.WithColor(false))
	}
	rep := diag.New(level, opts...)

	cfg, err := settings(o)
	if err != nil {
		rep.Errorf("stubfill: %v", err)
		return 1
	}

	// build a simplified canonical command representation instead of raw argv
	cmdParts := []string{"stubfill", "-output=" + cfg.Output.File}
	if o.set["dir"] {
		cmdParts = append(cmdParts, "-dir="+strings.Join(splitList(o.dirs), ","))
	}
	if cfg.Output.Format != config.FormatText {
		cmdParts = append(cmdParts, "-format="+cfg.Output.Format)
	}
	if cfg.Nullability.Default != "nullable" {
		cmdParts = append(cmdParts, "-nullability="+cfg.Nullability.Default)
	}

	gen := generator.Config{
		Dirs:        cfg.SourceDirPaths(),
		Output:      cfg.Output.File,
		Format:      cfg.Output.Format,
		Nullability: cfg.DefaultNullability(),
		Command:     strings.Join(cmdParts, " "),
		Version:     deriveVersion(),
		Reporter:    rep,
		Stdout:      stdout,
	}
	if err := generator.Run(gen); err != nil {
		rep.Errorf("stubfill: %v", err)
		return 1
	}
	return 0
}
