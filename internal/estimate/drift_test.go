package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrift(t *testing.T) {
	r := builtin(t, "personal-injury")

	issues := Drift(r, Input{
		"injuryType":   "spinal-injury",
		"severity":     "apocalyptic",
		"medicalCosts": "",
		"shoeSize":     11,
		"ageGroup":     nil,
	})

	require.Len(t, issues, 2)
	assert.Equal(t, Issue{Key: "severity", Value: "apocalyptic", Reason: "not an offered option"}, issues[0])
	assert.Equal(t, Issue{Key: "shoeSize", Reason: "not a factor of personal-injury"}, issues[1])
	assert.Equal(t, `severity="apocalyptic": not an offered option`, issues[0].String())
	assert.Equal(t, "shoeSize: not a factor of personal-injury", issues[1].String())
}

func TestDrift_NumericFactorsNotChecked(t *testing.T) {
	r := builtin(t, "bus-accident")
	assert.Empty(t, Drift(r, Input{"medicalExpenses": "lots", "busType": "charter"}))
}

func TestDrift_NilRubric(t *testing.T) {
	assert.Nil(t, Drift(nil, Input{"a": "b"}))
}

func TestMissing(t *testing.T) {
	r := builtin(t, "personal-injury")

	assert.Equal(t, []string{"medicalCosts", "injuryType", "severity"}, Missing(r, Input{}))
	assert.Equal(t, []string{"severity"}, Missing(r, Input{
		"medicalCosts": "10k-50k",
		"injuryType":   "fracture",
		"severity":     "  ",
	}))
	assert.Empty(t, Missing(r, Input{
		"medicalCosts": "10k-50k",
		"injuryType":   "fracture",
		"severity":     "minor",
	}))
	assert.Nil(t, Missing(nil, Input{}))
}
