package estimate

import (
	"math"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/sells-group/compcalc/internal/rubric"
)

var amountReplacer = strings.NewReplacer("$", "", ",", "", "_", "", " ", "")

// resolve turns one raw answer into the factor's contribution. Empty
// answers and unknown categories resolve to the factor's neutral value.
func resolve(caseType string, f *rubric.Factor, raw any) float64 {
	if isEmpty(raw) {
		return f.Neutral()
	}

	switch {
	case f.Kind.Categorical():
		value := categoryOf(raw)
		v, ok := f.Coefficient(value)
		if !ok {
			zap.L().Debug("estimate: unknown category, using neutral value",
				zap.String("case_type", caseType),
				zap.String("factor", f.Key),
				zap.String("value", value),
			)
			return f.Neutral()
		}
		return v

	case f.Kind.Banded():
		return f.BandValue(ParseAmount(raw))

	case f.Kind == rubric.KindAmount:
		amt := ParseAmount(raw)
		if amt < 0 {
			return 0
		}
		scale := f.Scale
		if scale == 0 {
			scale = 1
		}
		return amt * scale
	}

	return f.Neutral()
}

// ParseAmount coerces a raw answer to a number. Currency symbols, thousands
// separators and whitespace are ignored. Anything unparseable is 0.
func ParseAmount(raw any) float64 {
	var v float64
	switch t := raw.(type) {
	case nil:
		return 0
	case string:
		s := amountReplacer.Replace(strings.TrimSpace(t))
		if s == "" {
			return 0
		}
		parsed, err := cast.ToFloat64E(s)
		if err != nil {
			return 0
		}
		v = parsed
	default:
		parsed, err := cast.ToFloat64E(t)
		if err != nil {
			return 0
		}
		v = parsed
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func categoryOf(raw any) string {
	return strings.TrimSpace(cast.ToString(raw))
}

func isEmpty(raw any) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
