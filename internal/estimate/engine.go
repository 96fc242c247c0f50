// Package estimate computes compensation estimate ranges from a case-type
// rubric and a set of user answers.
package estimate

import (
	"math"

	"github.com/sells-group/compcalc/internal/rubric"
)

// Disclaimer accompanies every estimate and is not configurable.
const Disclaimer = "This calculator provides a rough estimate for informational purposes only and is not legal advice. " +
	"Every case is different, and actual compensation depends on the specific facts, applicable law, insurance coverage, " +
	"and many other factors. Past results do not guarantee a similar outcome. Contact an attorney for a free case evaluation."

// Input maps factor keys to raw answers: a category tag, a number, a
// numeric string, or nil for unanswered.
type Input map[string]any

// LineItem is one itemized contribution to the average.
type LineItem struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// Result is the outcome of a single estimate.
type Result struct {
	CaseType   string     `json:"case_type"`
	Low        int64      `json:"low"`
	High       int64      `json:"high"`
	Average    int64      `json:"average"`
	Breakdown  []LineItem `json:"breakdown"`
	Disclaimer string     `json:"disclaimer"`
}

// group accumulates additive amounts under one breakdown label.
type group struct {
	label  string
	amount float64
}

// Estimate applies the rubric to the input. It is pure: the same rubric and
// input always produce the same result, and no input makes it fail.
//
//	average = (base + compounded additives) * product(multipliers) + other additives
//	low     = round(average * low_spread), clamped at 0
//	high    = round(average * high_spread), never below low
//
// Amounts saturate at math.MaxInt64 rather than overflowing.
func Estimate(r *rubric.Rubric, in Input) Result {
	if r == nil {
		return Result{Breakdown: []LineItem{}, Disclaimer: Disclaimer}
	}

	multiplier := 1.0
	var compounded, additive float64
	var pre, post []*group

	for i := range r.Factors {
		f := &r.Factors[i]
		v := resolve(r.Name, f, in[f.Key])

		switch {
		case f.Kind.Multiplicative():
			multiplier *= v
		case f.Compounded:
			compounded += v
			pre = addToGroup(pre, groupLabel(f), v)
		default:
			additive += v
			post = addToGroup(post, groupLabel(f), v)
		}
	}

	principal := r.BaseAmount + compounded
	average := principal*multiplier + additive

	low := roundMoney(average * r.LowSpread)
	high := roundMoney(average * r.HighSpread)
	if low < 0 {
		low = 0
	}
	if high < low {
		high = low
	}

	breakdown := make([]LineItem, 0, len(pre)+len(post)+2)
	breakdown = append(breakdown, LineItem{Label: r.BaseLabel, Amount: roundMoney(r.BaseAmount)})
	for _, g := range pre {
		breakdown = append(breakdown, LineItem{Label: g.label, Amount: roundMoney(g.amount)})
	}
	breakdown = append(breakdown, LineItem{
		Label:  r.MultiplierLabel,
		Amount: roundMoney(principal * (multiplier - 1)),
	})
	for _, g := range post {
		breakdown = append(breakdown, LineItem{Label: g.label, Amount: roundMoney(g.amount)})
	}

	return Result{
		CaseType:   r.Name,
		Low:        low,
		High:       high,
		Average:    roundMoney(average),
		Breakdown:  breakdown,
		Disclaimer: Disclaimer,
	}
}

func addToGroup(groups []*group, label string, v float64) []*group {
	for _, g := range groups {
		if g.label == label {
			g.amount += v
			return groups
		}
	}
	return append(groups, &group{label: label, amount: v})
}

func groupLabel(f *rubric.Factor) string {
	if f.Group != "" {
		return f.Group
	}
	return f.Label
}

// maxMoney is 2^63; every float at or above it is out of int64 range.
const maxMoney = float64(math.MaxInt64)

// roundMoney rounds to whole dollars, saturating at ±math.MaxInt64 so
// oversized or infinite amounts never wrap around. NaN is 0.
func roundMoney(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= maxMoney:
		return math.MaxInt64
	case v <= -maxMoney:
		return -math.MaxInt64
	}
	return int64(math.Round(v))
}
