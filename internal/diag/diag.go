// Package diag writes leveled, optionally colored diagnostics for the
// command line.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level is the verbosity of diagnostic output.
type Level int

const (
	Silent Level = iota
	Error
	Warn
	Info
	Verbose
	Debug
)

// Reporter writes diagnostics at or below its level. Errors and warnings
// go to the error writer, everything else to the output writer.
type Reporter struct {
	level  Level
	out    io.Writer
	errOut io.Writer
	indent int

	errorTag, warnTag, infoTag, verboseTag, debugTag *color.Color
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithWriters replaces stdout and stderr.
func WithWriters(out, errOut io.Writer) Option {
	return func(r *Reporter) {
		r.out = out
		r.errOut = errOut
	}
}

// WithColor forces colored tags on or off.
func WithColor(enabled bool) Option {
	return func(r *Reporter) { r.setColor(enabled) }
}

func New(level Level, opts ...Option) *Reporter {
	r := &Reporter{
		level:      level,
		out:        os.Stdout,
		errOut:     os.Stderr,
		errorTag:   color.New(color.FgRed, color.Bold),
		warnTag:    color.New(color.FgYellow),
		infoTag:    color.New(color.FgBlue),
		verboseTag: color.New(color.FgHiBlack),
		debugTag:   color.New(color.FgMagenta),
	}
	r.setColor(shouldUseColors())
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Discard returns a reporter that writes nothing.
func Discard() *Reporter {
	return New(Silent, WithWriters(io.Discard, io.Discard), WithColor(false))
}

func (r *Reporter) setColor(enabled bool) {
	for _, c := range []*color.Color{r.errorTag, r.warnTag, r.infoTag, r.verboseTag, r.debugTag} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

func (r *Reporter) Level() Level { return r.level }

func (r *Reporter) Errorf(format string, args ...any) {
	if r.level >= Error {
		r.write(r.errOut, r.errorTag, "error", format, args...)
	}
}

func (r *Reporter) Warnf(format string, args ...any) {
	if r.level >= Warn {
		r.write(r.errOut, r.warnTag, "warn", format, args...)
	}
}

func (r *Reporter) Infof(format string, args ...any) {
	if r.level >= Info {
		r.write(r.out, r.infoTag, "info", format, args...)
	}
}

func (r *Reporter) Verbosef(format string, args ...any) {
	if r.level >= Verbose {
		r.write(r.out, r.verboseTag, "verbose", format, args...)
	}
}

func (r *Reporter) Debugf(format string, args ...any) {
	if r.level >= Debug {
		r.write(r.out, r.debugTag, "debug", format, args...)
	}
}

// Indent nests subsequent messages one level deeper.
func (r *Reporter) Indent() { r.indent++ }

func (r *Reporter) Unindent() {
	if r.indent > 0 {
		r.indent--
	}
}

func (r *Reporter) write(w io.Writer, tag *color.Color, label, format string, args ...any) {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", r.indent))
	b.WriteString(tag.Sprintf("[%s]", label))
	b.WriteByte(' ')
	fmt.Fprintf(&b, format, args...)
	b.WriteByte('\n')
	io.WriteString(w, b.String())
}

func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
