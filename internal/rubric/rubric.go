// Package rubric defines the per-case-type weighting tables used by the
// compensation estimate engine.
package rubric

// Kind identifies how a factor's input resolves and how its value applies.
type Kind string

// Factor kinds.
const (
	KindMultiplier       Kind = "multiplier"         // categorical, multiplies
	KindAdditive         Kind = "additive"           // categorical, adds
	KindAdditiveFromBand Kind = "additive-from-band" // numeric bands, adds
	KindLookupMultiplier Kind = "lookup-multiplier"  // numeric bands, multiplies
	KindAmount           Kind = "amount"             // raw numeric entry, adds
)

var knownKinds = map[Kind]bool{
	KindMultiplier:       true,
	KindAdditive:         true,
	KindAdditiveFromBand: true,
	KindLookupMultiplier: true,
	KindAmount:           true,
}

// Known reports whether k is one of the declared kinds.
func (k Kind) Known() bool { return knownKinds[k] }

// Multiplicative reports whether values of this kind multiply into the
// running multiplier rather than summing.
func (k Kind) Multiplicative() bool {
	return k == KindMultiplier || k == KindLookupMultiplier
}

// Categorical reports whether the input is a category tag looked up in a table.
func (k Kind) Categorical() bool {
	return k == KindMultiplier || k == KindAdditive
}

// Banded reports whether the input is numeric and resolves through bands.
func (k Kind) Banded() bool {
	return k == KindAdditiveFromBand || k == KindLookupMultiplier
}

// Band is one numeric bracket. The first band whose Max is >= the input applies.
type Band struct {
	Max   float64 `yaml:"max" json:"max"`
	Value float64 `yaml:"value" json:"value"`
}

// Option is one selectable choice offered for a categorical factor.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Factor is one scoring dimension within a rubric.
type Factor struct {
	Key        string             `yaml:"key" json:"key"`
	Label      string             `yaml:"label" json:"label"`
	Kind       Kind               `yaml:"kind" json:"kind"`
	Group      string             `yaml:"group,omitempty" json:"group,omitempty"`
	Compounded bool               `yaml:"compounded,omitempty" json:"compounded,omitempty"`
	Required   bool               `yaml:"required,omitempty" json:"required,omitempty"`
	Options    []Option           `yaml:"options,omitempty" json:"options,omitempty"`
	Table      map[string]float64 `yaml:"table,omitempty" json:"table,omitempty"`
	Bands      []Band             `yaml:"bands,omitempty" json:"bands,omitempty"`
	Scale      float64            `yaml:"scale,omitempty" json:"scale,omitempty"`
}

// Rubric is the static weighting table for one case type.
type Rubric struct {
	Name            string   `yaml:"name" json:"name"`
	Title           string   `yaml:"title" json:"title"`
	BaseAmount      float64  `yaml:"base_amount" json:"base_amount"`
	LowSpread       float64  `yaml:"low_spread" json:"low_spread"`
	HighSpread      float64  `yaml:"high_spread" json:"high_spread"`
	BaseLabel       string   `yaml:"base_label" json:"base_label"`
	MultiplierLabel string   `yaml:"multiplier_label" json:"multiplier_label"`
	Factors         []Factor `yaml:"factors" json:"factors"`
}

// Factor returns the factor declared under key.
func (r *Rubric) Factor(key string) (*Factor, bool) {
	for i := range r.Factors {
		if r.Factors[i].Key == key {
			return &r.Factors[i], true
		}
	}
	return nil, false
}

// Keys returns the factor keys in declaration order.
func (r *Rubric) Keys() []string {
	keys := make([]string, len(r.Factors))
	for i, f := range r.Factors {
		keys[i] = f.Key
	}
	return keys
}

// Neutral returns the value that leaves the computation unchanged:
// 1 for multiplicative kinds, 0 otherwise.
func (f *Factor) Neutral() float64 {
	if f.Kind.Multiplicative() {
		return 1
	}
	return 0
}

// Coefficient looks up a categorical value. Unknown values report false.
func (f *Factor) Coefficient(value string) (float64, bool) {
	v, ok := f.Table[value]
	return v, ok
}

// Accepts reports whether value is one of the factor's offered options.
func (f *Factor) Accepts(value string) bool {
	for _, o := range f.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// BandValue resolves x through the factor's bands. Inputs above every
// bound use the last band. A factor with no bands resolves to neutral.
func (f *Factor) BandValue(x float64) float64 {
	if len(f.Bands) == 0 {
		return f.Neutral()
	}
	for _, b := range f.Bands {
		if x <= b.Max {
			return b.Value
		}
	}
	return f.Bands[len(f.Bands)-1].Value
}

// OptionValues returns the option values in declaration order.
func (f *Factor) OptionValues() []string {
	vals := make([]string, len(f.Options))
	for i, o := range f.Options {
		vals[i] = o.Value
	}
	return vals
}
