package rubric

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed rubrics/*.yaml
var builtinFS embed.FS

// Parse decodes a single YAML rubric. It does not validate.
func Parse(data []byte) (*Rubric, error) {
	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrap(err, "rubric: parse")
	}
	return &r, nil
}

// Builtin returns the rubrics compiled into the binary, sorted by name.
func Builtin() ([]*Rubric, error) {
	return loadFS(builtinFS, "rubrics")
}

// LoadDir reads every *.yaml and *.yml file in dir as a rubric.
func LoadDir(dir string) ([]*Rubric, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "rubric: stat %s", dir)
	}
	if !info.IsDir() {
		return nil, eris.Errorf("rubric: %s is not a directory", dir)
	}
	return loadFS(os.DirFS(dir), ".")
}

func loadFS(fsys fs.FS, root string) ([]*Rubric, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, eris.Wrapf(err, "rubric: read dir %s", root)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	rubrics := make([]*Rubric, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(root, name)))
		if err != nil {
			return nil, eris.Wrapf(err, "rubric: read %s", name)
		}
		r, err := Parse(data)
		if err != nil {
			return nil, eris.Wrapf(err, "rubric: %s", name)
		}
		rubrics = append(rubrics, r)
	}
	return rubrics, nil
}
