package main

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/compcalc/internal/estimate"
	"github.com/sells-group/compcalc/internal/rubric"
)

func testRegistry(t *testing.T) *rubric.Registry {
	t.Helper()
	reg, err := rubric.Default()
	require.NoError(t, err)
	return reg
}

func mustRubric(t *testing.T, name string) *rubric.Rubric {
	t.Helper()
	r, ok := testRegistry(t).Get(name)
	require.True(t, ok, "builtin rubric %q", name)
	return r
}

func TestEstimateOne_Table(t *testing.T) {
	r := mustRubric(t, "personal-injury")
	var buf bytes.Buffer

	err := estimateOne(&buf, r, estimate.Input{}, "table", true, estimate.DefaultFormatter())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, r.Title)
	assert.Contains(t, out, "Estimated range:")
	assert.Contains(t, out, "$10,500 - $27,000")
	assert.Contains(t, out, "$15,000")
	assert.Contains(t, out, "Breakdown:")
	assert.Contains(t, out, r.BaseLabel)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), estimate.Disclaimer))
}

func TestEstimateOne_JSON(t *testing.T) {
	r := mustRubric(t, "personal-injury")
	in := estimate.Input{
		"injuryType":   "fracture",
		"severity":     "moderate",
		"medicalCosts": "10k-50k",
	}
	var buf bytes.Buffer

	err := estimateOne(&buf, r, in, "json", false, estimate.DefaultFormatter())
	require.NoError(t, err)

	var got estimate.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	want := estimate.Estimate(r, in)
	assert.Equal(t, want, got)
	assert.Equal(t, "personal-injury", got.CaseType)
	assert.Equal(t, estimate.Disclaimer, got.Disclaimer)
	assert.LessOrEqual(t, got.Low, got.Average)
	assert.LessOrEqual(t, got.Average, got.High)
}

func TestEstimateOne_MissingRequired(t *testing.T) {
	r := mustRubric(t, "personal-injury")
	var buf bytes.Buffer

	err := estimateOne(&buf, r, estimate.Input{"injuryType": "fracture"}, "table", false, estimate.DefaultFormatter())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required answers")
	assert.Contains(t, err.Error(), "severity")
	assert.Contains(t, err.Error(), "--partial")
	assert.Empty(t, buf.String())
}

func TestEstimateBatch(t *testing.T) {
	r := mustRubric(t, "personal-injury")
	rows := [][]string{
		{"injuryType", "severity", "medicalCosts", "notes"},
		{"fracture", "moderate", "10k-50k", "referral"},
		{"", "", "", ""},
		{"spinal-injury", "catastrophic", "over-500k", ""},
	}
	var buf bytes.Buffer

	require.NoError(t, estimateBatch(&buf, r, rows, 0))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"injuryType", "severity", "medicalCosts", "notes", "low", "high", "average"}, records[0])
	assert.Equal(t, []string{"fracture", "moderate", "10k-50k", "referral"}, records[1][:4])

	want := estimate.Estimate(r, estimate.Input{
		"injuryType":   "fracture",
		"severity":     "moderate",
		"medicalCosts": "10k-50k",
		"notes":        "referral",
	})
	assert.Equal(t, strconv.FormatInt(want.Low, 10), records[1][4])
	assert.Equal(t, strconv.FormatInt(want.High, 10), records[1][5])
	assert.Equal(t, strconv.FormatInt(want.Average, 10), records[1][6])

	first, err := strconv.ParseInt(records[1][6], 10, 64)
	require.NoError(t, err)
	second, err := strconv.ParseInt(records[2][6], 10, 64)
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestEstimateBatch_MaxRows(t *testing.T) {
	r := mustRubric(t, "retail-accident")
	rows := [][]string{
		{"medicalBills"},
		{"1000"},
		{"2000"},
		{"3000"},
	}

	err := estimateBatch(&bytes.Buffer{}, r, rows, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 rows exceeds batch.max_rows (2)")

	require.NoError(t, estimateBatch(&bytes.Buffer{}, r, rows, 3))
}

func TestEstimateBatch_NoHeader(t *testing.T) {
	r := mustRubric(t, "retail-accident")
	err := estimateBatch(&bytes.Buffer{}, r, nil, 0)
	assert.Error(t, err)
}

func TestValidateRubrics(t *testing.T) {
	reg := testRegistry(t)
	var buf bytes.Buffer

	require.NoError(t, validateRubrics(&buf, reg.All()))
	for _, name := range reg.Names() {
		assert.Contains(t, buf.String(), "ok    "+name)
	}

	bad := &rubric.Rubric{Name: "broken", BaseAmount: 1000, LowSpread: 2, HighSpread: 1}
	buf.Reset()
	err := validateRubrics(&buf, append(reg.All(), bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 7 invalid: broken")
	assert.Contains(t, buf.String(), "FAIL  broken")
	assert.Contains(t, buf.String(), "high_spread")
}

func TestFormatRubricList(t *testing.T) {
	reg := testRegistry(t)
	var buf bytes.Buffer

	formatRubricList(&buf, reg.All(), estimate.DefaultFormatter())

	out := buf.String()
	assert.Contains(t, out, "CASE TYPE")
	assert.Contains(t, out, "personal-injury")
	assert.Contains(t, out, "$15,000")
	assert.Contains(t, out, "0.70-1.80")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2+len(reg.Names()))
}

func TestFormatRubricDetail(t *testing.T) {
	r := mustRubric(t, "truck-accident")
	var buf bytes.Buffer

	formatRubricDetail(&buf, r, estimate.DefaultFormatter())

	out := buf.String()
	assert.Contains(t, out, "(truck-accident)")
	assert.Contains(t, out, "$30,000")
	assert.Contains(t, out, "annualIncome")
	assert.Contains(t, out, "(compounded)")
	assert.Contains(t, out, "medicalBills")
	assert.Contains(t, out, "number")
	assert.Contains(t, out, r.MultiplierLabel)
}

func TestDescribeChoices(t *testing.T) {
	assert.Equal(t, "a, b", describeChoices(rubric.Factor{
		Kind:    rubric.KindMultiplier,
		Options: []rubric.Option{{Value: "a"}, {Value: "b"}},
	}))
	assert.Equal(t, "<=10:1 <=20:1.5", describeChoices(rubric.Factor{
		Kind:  rubric.KindLookupMultiplier,
		Bands: []rubric.Band{{Max: 10, Value: 1}, {Max: 20, Value: 1.5}},
	}))
	assert.Equal(t, "number", describeChoices(rubric.Factor{Kind: rubric.KindAmount}))
}

func TestWriteBatchCSV_NilValues(t *testing.T) {
	var buf bytes.Buffer
	err := writeBatchCSV(&buf, []string{"a", "b"},
		[]estimate.Input{{"a": "x"}},
		[]estimate.Result{{Low: 1, High: 3, Average: 2}},
	)
	require.NoError(t, err)
	assert.Equal(t, "a,b,low,high,average\nx,,1,3,2\n", buf.String())
}
