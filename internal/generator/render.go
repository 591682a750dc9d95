package generator

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/calumari/stubfill/internal/ast"
	"github.com/calumari/stubfill/internal/config"
)

// render builds the file model from the lowered classes that received
// stubs and encodes it in the configured format.
func (g *generator) render(types []*ast.Type) ([]byte, error) {
	data := fileModel{Version: g.cfg.Version, Command: g.cfg.Command, Types: []typeModel{}}
	for _, t := range types {
		sm := stubModels(t)
		if len(sm) == 0 {
			continue
		}
		tm := typeModel{Name: t.Descriptor.Name, Source: t.Source, Abstract: t.Abstract, Stubs: sm}
		if t.Super != nil {
			tm.Super = t.Super.Qualified()
		}
		data.Types = append(data.Types, tm)
	}

	var out bytes.Buffer
	switch g.cfg.Format {
	case config.FormatText:
		if err := ensureTemplates(); err != nil {
			return nil, err
		}
		if err := fileTmpl.ExecuteTemplate(&out, tmplFile, data); err != nil {
			return nil, err
		}
	case config.FormatYAML:
		enc := yaml.NewEncoder(&out)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", config.ErrInvalid, g.cfg.Format)
	}
	return out.Bytes(), nil
}
