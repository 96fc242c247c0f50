package estimate

import (
	"fmt"
	"sort"

	"github.com/sells-group/compcalc/internal/rubric"
)

// Issue describes an answer the rubric cannot resolve. Issues never stop an
// estimate; they flag drift between the rubric and whatever produced the input.
type Issue struct {
	Key    string `json:"key"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (i Issue) String() string {
	if i.Value == "" {
		return fmt.Sprintf("%s: %s", i.Key, i.Reason)
	}
	return fmt.Sprintf("%s=%q: %s", i.Key, i.Value, i.Reason)
}

// Drift reports input keys the rubric does not declare and categorical
// values outside a factor's options, sorted by key.
func Drift(r *rubric.Rubric, in Input) []Issue {
	if r == nil {
		return nil
	}

	var issues []Issue
	for key, raw := range in {
		f, ok := r.Factor(key)
		if !ok {
			issues = append(issues, Issue{Key: key, Reason: "not a factor of " + r.Name})
			continue
		}
		if isEmpty(raw) || !f.Kind.Categorical() {
			continue
		}
		value := categoryOf(raw)
		if !f.Accepts(value) {
			issues = append(issues, Issue{Key: key, Value: value, Reason: "not an offered option"})
		}
	}

	sort.Slice(issues, func(a, b int) bool { return issues[a].Key < issues[b].Key })
	return issues
}

// Missing returns the keys of required factors left unanswered, in
// declaration order.
func Missing(r *rubric.Rubric, in Input) []string {
	if r == nil {
		return nil
	}
	var missing []string
	for _, f := range r.Factors {
		if f.Required && isEmpty(in[f.Key]) {
			missing = append(missing, f.Key)
		}
	}
	return missing
}
