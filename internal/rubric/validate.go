package rubric

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks that a rubric is internally consistent and that every
// option the presentation layer can offer resolves to a coefficient.
func Validate(r *Rubric) error {
	if r == nil {
		return eris.New("rubric: nil rubric")
	}

	var errs []string

	if r.Name == "" {
		errs = append(errs, "name is required")
	}
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"base_amount", r.BaseAmount},
		{"low_spread", r.LowSpread},
		{"high_spread", r.HighSpread},
	} {
		switch {
		case !finite(v.value):
			errs = append(errs, fmt.Sprintf("%s must be a finite number", v.name))
		case v.value < 0:
			errs = append(errs, v.name+" must be >= 0")
		}
	}
	if finite(r.LowSpread) && finite(r.HighSpread) && r.HighSpread < r.LowSpread {
		errs = append(errs, fmt.Sprintf("high_spread (%.2f) must be >= low_spread (%.2f)", r.HighSpread, r.LowSpread))
	}

	seen := make(map[string]bool, len(r.Factors))
	for i := range r.Factors {
		f := &r.Factors[i]
		if f.Key == "" {
			errs = append(errs, fmt.Sprintf("factor %d: key is required", i))
			continue
		}
		if seen[f.Key] {
			errs = append(errs, fmt.Sprintf("factor %s: duplicate key", f.Key))
		}
		seen[f.Key] = true
		errs = append(errs, validateFactor(f)...)
	}

	if len(errs) > 0 {
		return eris.Errorf("rubric %s: validation failed: %s", r.Name, strings.Join(errs, "; "))
	}
	return nil
}

func validateFactor(f *Factor) []string {
	var errs []string
	prefix := "factor " + f.Key + ": "

	if !f.Kind.Known() {
		return []string{fmt.Sprintf("%sunknown kind %q", prefix, f.Kind)}
	}
	if f.Compounded && f.Kind.Multiplicative() {
		errs = append(errs, prefix+"compounded applies to additive kinds only")
	}

	switch {
	case f.Kind.Categorical():
		if len(f.Options) == 0 {
			errs = append(errs, prefix+"categorical factor needs options")
		}
		offered := make(map[string]bool, len(f.Options))
		for _, o := range f.Options {
			if o.Value == "" {
				errs = append(errs, prefix+"option with empty value")
				continue
			}
			if offered[o.Value] {
				errs = append(errs, fmt.Sprintf("%sduplicate option %q", prefix, o.Value))
			}
			offered[o.Value] = true
			if _, ok := f.Table[o.Value]; !ok {
				errs = append(errs, fmt.Sprintf("%soption %q has no table entry", prefix, o.Value))
			}
		}
		keys := make([]string, 0, len(f.Table))
		for k := range f.Table {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !offered[k] {
				errs = append(errs, fmt.Sprintf("%stable entry %q is not offered as an option", prefix, k))
			}
			errs = append(errs, checkCoefficient(f, fmt.Sprintf("table entry %q", k), f.Table[k], f.Kind.Multiplicative())...)
		}

	case f.Kind.Banded():
		if len(f.Bands) == 0 {
			errs = append(errs, prefix+"banded factor needs bands")
		}
		for i, b := range f.Bands {
			if !finite(b.Max) {
				errs = append(errs, fmt.Sprintf("%sband %d max must be a finite number", prefix, i))
			}
			errs = append(errs, checkCoefficient(f, fmt.Sprintf("band %d value", i), b.Value, true)...)
		}
		for i := 1; i < len(f.Bands); i++ {
			if f.Bands[i].Max <= f.Bands[i-1].Max {
				errs = append(errs, fmt.Sprintf("%sband %d max %.2f must exceed previous max %.2f",
					prefix, i, f.Bands[i].Max, f.Bands[i-1].Max))
			}
		}

	case f.Kind == KindAmount:
		switch {
		case !finite(f.Scale):
			errs = append(errs, prefix+"scale must be a finite number")
		case f.Scale < 0:
			errs = append(errs, prefix+"scale must be >= 0")
		}
	}

	return errs
}

// checkCoefficient rejects non-finite values and, when nonNegative is set,
// values below zero. A negative multiplier flips the sign of the estimate.
func checkCoefficient(f *Factor, what string, v float64, nonNegative bool) []string {
	prefix := "factor " + f.Key + ": "
	switch {
	case !finite(v):
		return []string{fmt.Sprintf("%s%s must be a finite number", prefix, what)}
	case nonNegative && v < 0:
		return []string{fmt.Sprintf("%s%s (%.2f) must be >= 0", prefix, what, v)}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
