package dqi

import "math"

// Grade thresholds are inclusive lower bounds.
const (
	gradeAMin = 90
	gradeBMin = 80
	gradeCMin = 70
	gradeDMin = 60
)

const (
	confidenceBase = 70.0
	confidenceCap  = 95
)

// normalizeWeights spreads weight over the applicable dimensions in
// proportion to their base weights, rounded to two decimals.
func normalizeWeights(dims []Dimension) {
	base := make(map[DimensionID]float64, len(dimensionRules))
	for _, r := range dimensionRules {
		base[r.ID] = r.BaseWeight
	}

	sum := 0.0
	for _, d := range dims {
		if d.Applicable {
			sum += base[d.ID]
		}
	}

	for i := range dims {
		if !dims[i].Applicable || sum == 0 {
			dims[i].Weight = 0
			continue
		}
		dims[i].Weight = round2(base[dims[i].ID] / sum)
	}
}

// GradeFor maps a composite score to its letter grade.
func GradeFor(score int) Grade {
	switch {
	case score >= gradeAMin:
		return GradeA
	case score >= gradeBMin:
		return GradeB
	case score >= gradeCMin:
		return GradeC
	case score >= gradeDMin:
		return GradeD
	default:
		return GradeF
	}
}

// confidenceFor grows with the row count and is capped at 95.
func confidenceFor(rows int) int {
	if rows < 1 {
		rows = 1
	}
	c := int(math.Round(confidenceBase + math.Log10(float64(rows))*10))
	return min(confidenceCap, c)
}

func compositeScore(dims []Dimension, rows int) CompositeScore {
	total := 0.0
	for _, d := range dims {
		if d.Applicable {
			total += float64(d.Score) * d.Weight
		}
	}
	score := clampScore(total)
	return CompositeScore{
		Score:      score,
		Grade:      GradeFor(score),
		Confidence: confidenceFor(rows),
	}
}
