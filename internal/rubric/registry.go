package rubric

import (
	"sort"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Registry holds validated rubrics keyed by case type. It is read-only
// after construction and safe for concurrent use.
type Registry struct {
	byName map[string]*Rubric
	names  []string
}

// NewRegistry validates each rubric and indexes it by name.
func NewRegistry(rubrics ...*Rubric) (*Registry, error) {
	reg := &Registry{byName: make(map[string]*Rubric, len(rubrics))}
	for _, r := range rubrics {
		if err := Validate(r); err != nil {
			return nil, err
		}
		if _, dup := reg.byName[r.Name]; dup {
			return nil, eris.Errorf("rubric: duplicate case type %q", r.Name)
		}
		reg.byName[r.Name] = r
		reg.names = append(reg.names, r.Name)
	}
	sort.Strings(reg.names)
	return reg, nil
}

// Get returns the rubric for a case type.
func (reg *Registry) Get(name string) (*Rubric, bool) {
	r, ok := reg.byName[name]
	return r, ok
}

// Names returns the registered case types, sorted.
func (reg *Registry) Names() []string {
	out := make([]string, len(reg.names))
	copy(out, reg.names)
	return out
}

// All returns the registered rubrics sorted by name.
func (reg *Registry) All() []*Rubric {
	out := make([]*Rubric, len(reg.names))
	for i, n := range reg.names {
		out[i] = reg.byName[n]
	}
	return out
}

// Load builds a registry from the builtin rubrics plus any rubrics in dir.
// A rubric in dir replaces the builtin of the same name. An empty dir
// loads the builtins only.
func Load(dir string) (*Registry, error) {
	builtin, err := Builtin()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return NewRegistry(builtin...)
	}

	extra, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]*Rubric, len(builtin)+len(extra))
	for _, r := range builtin {
		merged[r.Name] = r
	}
	for _, r := range extra {
		if _, ok := merged[r.Name]; ok {
			zap.L().Info("rubric: overriding builtin", zap.String("case_type", r.Name), zap.String("dir", dir))
		}
		merged[r.Name] = r
	}

	all := make([]*Rubric, 0, len(merged))
	for _, r := range merged {
		all = append(all, r)
	}
	return NewRegistry(all...)
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// Default returns the process-wide registry of builtin rubrics.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Load("")
	})
	return defaultReg, defaultErr
}
