package dqi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score int
		want  Grade
	}{
		{100, GradeA},
		{90, GradeA},
		{89, GradeB},
		{80, GradeB},
		{79, GradeC},
		{70, GradeC},
		{69, GradeD},
		{60, GradeD},
		{59, GradeF},
		{0, GradeF},
	}
	for _, tt := range tests {
		if got := GradeFor(tt.score); got != tt.want {
			t.Errorf("GradeFor(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		rows int
		want int
	}{
		{0, 70},
		{1, 70},
		{10, 80},
		{100, 90},
		{316, 95},
		{1000, 95},
		{1000000, 95},
	}
	for _, tt := range tests {
		if got := confidenceFor(tt.rows); got != tt.want {
			t.Errorf("confidenceFor(%d) = %d, want %d", tt.rows, got, tt.want)
		}
	}
}

func allDimensions(scores map[DimensionID]int, inapplicable ...DimensionID) []Dimension {
	skip := make(map[DimensionID]bool)
	for _, id := range inapplicable {
		skip[id] = true
	}
	var dims []Dimension
	for _, r := range DimensionRules() {
		d := Dimension{ID: r.ID, Name: r.Name, Applicable: !skip[r.ID], Findings: []string{}, ImpactedColumns: []string{}}
		if d.Applicable {
			d.Score = scores[r.ID]
		}
		dims = append(dims, d)
	}
	return dims
}

func TestNormalizeWeights(t *testing.T) {
	tests := []struct {
		name         string
		inapplicable []DimensionID
	}{
		{name: "all applicable"},
		{name: "no timeliness", inapplicable: []DimensionID{DimTimeliness}},
		{name: "no integrity", inapplicable: []DimensionID{DimIntegrity}},
		{name: "neither", inapplicable: []DimensionID{DimTimeliness, DimIntegrity}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dims := allDimensions(nil, tt.inapplicable...)
			normalizeWeights(dims)

			sum := 0.0
			for _, d := range dims {
				if !d.Applicable {
					assert.Zero(t, d.Weight, d.ID)
					continue
				}
				sum += d.Weight
			}
			assert.InDelta(t, 1.0, sum, 0.02)
		})
	}
}

func TestNormalizeWeights_Proportional(t *testing.T) {
	dims := allDimensions(nil, DimTimeliness, DimIntegrity)
	normalizeWeights(dims)

	weights := make(map[DimensionID]float64)
	for _, d := range dims {
		weights[d.ID] = d.Weight
	}
	assert.Equal(t, 0.25, weights[DimCompleteness])
	assert.Equal(t, 0.19, weights[DimConsistency])
}

func TestCompositeScore(t *testing.T) {
	dims := allDimensions(map[DimensionID]int{
		DimCompleteness: 100,
		DimConsistency:  100,
		DimUniqueness:   100,
		DimValidity:     100,
		DimTimeliness:   100,
		DimAccuracy:     0,
		DimIntegrity:    100,
	})
	normalizeWeights(dims)

	got := compositeScore(dims, 10)
	assert.Equal(t, CompositeScore{Score: 90, Grade: GradeA, Confidence: 80}, got)
}

func TestCompositeScore_IgnoresInapplicable(t *testing.T) {
	dims := allDimensions(map[DimensionID]int{
		DimCompleteness: 80,
		DimConsistency:  80,
		DimUniqueness:   80,
		DimValidity:     80,
		DimAccuracy:     80,
		DimIntegrity:    80,
	}, DimTimeliness)
	normalizeWeights(dims)

	assert.Equal(t, 80, compositeScore(dims, 1).Score)
}

// ----------------------------------------------------------------------------
// Explanations, recommendations, risk
// ----------------------------------------------------------------------------

func TestExplain(t *testing.T) {
	dims := allDimensions(map[DimensionID]int{DimCompleteness: 97, DimValidity: 10}, DimTimeliness)
	for i := range dims {
		if dims[i].ID == DimValidity {
			dims[i].Findings = []string{"first", "second"}
		}
	}

	exps := explain(dims)
	require.Len(t, exps, 6)

	for _, e := range exps {
		assert.NotEqual(t, DimTimeliness, e.DimensionID)
		assert.NotEmpty(t, e.Summary, e.DimensionID)
		assert.NotEmpty(t, e.BusinessImpact, e.DimensionID)
	}
	assert.Contains(t, exps[0].Summary, "97")
	assert.Equal(t, noIssuesDetail, exps[0].TechnicalDetail)

	for _, e := range exps {
		if e.DimensionID == DimValidity {
			assert.Equal(t, "first; second", e.TechnicalDetail)
		}
	}
}

func TestExplanationBands_Complete(t *testing.T) {
	for _, r := range DimensionRules() {
		bands := explanationBands[r.ID]
		require.Len(t, bands, 4, r.ID)
		assert.Equal(t, 0, bands[len(bands)-1].min, r.ID)
		for _, b := range bands {
			assert.Equal(t, 1, strings.Count(b.summary, "%d"), r.ID)
		}
	}
}

func TestRecommend(t *testing.T) {
	dims := allDimensions(map[DimensionID]int{
		DimCompleteness: 40,
		DimConsistency:  95,
		DimUniqueness:   85,
		DimValidity:     60,
		DimAccuracy:     10,
		DimIntegrity:    90,
	}, DimTimeliness)
	dims[0].ImpactedColumns = []string{"a", "b", "c", "d"}

	recs := recommend(dims)
	require.Len(t, recs, 3)

	assert.Equal(t, "REC-001", recs[0].ID)
	assert.Equal(t, PriorityCritical, recs[0].Priority)
	assert.Equal(t, 32, recs[0].ExpectedImprovement)
	assert.Equal(t, "Completeness scored 40, below the target of 80. Most affected columns: a, b, c (and 1 more).", recs[0].Description)

	assert.Equal(t, "REC-003", recs[1].ID)
	assert.Equal(t, DimValidity, recs[1].DimensionID)
	assert.Equal(t, PriorityHigh, recs[1].Priority)
	assert.Equal(t, 14, recs[1].ExpectedImprovement)

	assert.Equal(t, "REC-002", recs[2].ID)
	assert.Equal(t, DimUniqueness, recs[2].DimensionID)
	assert.Equal(t, PriorityMedium, recs[2].Priority)
	assert.Equal(t, 5, recs[2].ExpectedImprovement)
	assert.Equal(t, "Uniqueness scored 85, below the target of 90.", recs[2].Description)
}

func TestRecommend_NoneWhenHealthy(t *testing.T) {
	dims := allDimensions(map[DimensionID]int{
		DimCompleteness: 100,
		DimConsistency:  100,
		DimUniqueness:   100,
		DimValidity:     100,
		DimTimeliness:   100,
		DimAccuracy:     100,
		DimIntegrity:    100,
	})
	recs := recommend(dims)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRiskSummary(t *testing.T) {
	dims := allDimensions(map[DimensionID]int{
		DimCompleteness: 95,
		DimConsistency:  70,
		DimUniqueness:   50,
		DimValidity:     90,
		DimAccuracy:     90,
	}, DimTimeliness, DimIntegrity)

	assert.Equal(t, lowRiskSummary, riskSummary(GradeA, dims))
	assert.Equal(t, criticalRiskSummary, riskSummary(GradeF, dims))

	moderate := riskSummary(GradeB, dims)
	assert.True(t, strings.HasPrefix(moderate, "MODERATE RISK"))
	assert.Contains(t, moderate, "1 dimension(s) in warning (Consistency)")
	assert.Contains(t, moderate, "1 critical (Uniqueness)")

	assert.True(t, strings.HasPrefix(riskSummary(GradeC, dims), "ELEVATED RISK"))
	assert.True(t, strings.HasPrefix(riskSummary(GradeD, dims), "HIGH RISK"))
}

func TestComplianceStatus(t *testing.T) {
	tests := []struct {
		name      string
		composite int
		minDim    int
		want      ComplianceStatus
	}{
		{name: "healthy", composite: 85, minDim: 60, want: Compliant},
		{name: "composite below 70", composite: 69, minDim: 90, want: RequiresRemediation},
		{name: "dimension below 60", composite: 85, minDim: 59, want: RequiresRemediation},
		{name: "composite below 50", composite: 49, minDim: 90, want: NonCompliant},
		{name: "dimension below 50", composite: 90, minDim: 49, want: NonCompliant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dims := allDimensions(map[DimensionID]int{
				DimCompleteness: 100,
				DimConsistency:  tt.minDim,
				DimUniqueness:   100,
				DimValidity:     100,
				DimAccuracy:     100,
				DimIntegrity:    100,
			}, DimTimeliness)
			if got := complianceStatus(tt.composite, dims); got != tt.want {
				t.Errorf("complianceStatus(%d) = %s, want %s", tt.composite, got, tt.want)
			}
		})
	}
}
