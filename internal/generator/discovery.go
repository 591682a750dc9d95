package generator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/calumari/stubfill/internal/frontend"
)

// discoverSources collects the *.java files under dirs. Names are
// slash-separated and relative to the directory they were found in;
// directories are scanned in order, files sorted within each.
func discoverSources(dirs []string) ([]frontend.Source, error) {
	var out []frontend.Source
	for _, dir := range dirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		var paths []string
		err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != absDir && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(d.Name(), ".java") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		sort.Strings(paths)
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			rel, err := filepath.Rel(absDir, path)
			if err != nil {
				return nil, err
			}
			out = append(out, frontend.Source{Name: filepath.ToSlash(rel), Data: data})
		}
	}
	return out, nil
}
