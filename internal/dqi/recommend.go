package dqi

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// maxColumnsInDescription is how many impacted columns a recommendation names.
const maxColumnsInDescription = 3

// recommendationRule fires when an applicable dimension scores below
// threshold. The gap below threshold selects the priority: at least critical
// points is Critical, at least high points is High, otherwise Medium.
type recommendationRule struct {
	threshold   int
	critical    int
	high        int
	factor      float64
	title       string
	affected    []DimensionID
	remediation string
}

var recommendationRules = map[DimensionID]recommendationRule{
	DimCompleteness: {
		threshold:   80,
		critical:    30,
		high:        15,
		factor:      0.8,
		title:       "Fill missing values",
		affected:    []DimensionID{DimCompleteness, DimAccuracy},
		remediation: "Make the affected fields mandatory at the source, backfill historical gaps from the system of record, and document an explicit default for optional fields.",
	},
	DimConsistency: {
		threshold:   80,
		critical:    30,
		high:        15,
		factor:      0.6,
		title:       "Standardize formats and types",
		affected:    []DimensionID{DimConsistency, DimAccuracy},
		remediation: "Define one canonical format per field, normalize casing of categorical values, and validate types before export.",
	},
	DimUniqueness: {
		threshold:   90,
		critical:    40,
		high:        20,
		factor:      0.9,
		title:       "Remove duplicate records",
		affected:    []DimensionID{DimUniqueness, DimIntegrity},
		remediation: "Deduplicate on the business key, enforce a unique constraint on identifier columns, and make the producing job idempotent.",
	},
	DimValidity: {
		threshold:   80,
		critical:    30,
		high:        15,
		factor:      0.7,
		title:       "Correct invalid values",
		affected:    []DimensionID{DimValidity, DimAccuracy},
		remediation: "Add range and format checks for amounts, replace placeholder text with real nulls, and review statistical outliers with the data owner.",
	},
	DimTimeliness: {
		threshold:   80,
		critical:    40,
		high:        20,
		factor:      0.5,
		title:       "Refresh and repair dates",
		affected:    []DimensionID{DimTimeliness},
		remediation: "Use ISO 8601 dates, reject future-dated entries at capture, and archive or refresh records older than the retention window.",
	},
	DimIntegrity: {
		threshold:   80,
		critical:    35,
		high:        15,
		factor:      0.6,
		title:       "Restore referential integrity",
		affected:    []DimensionID{DimIntegrity, DimCompleteness},
		remediation: "Populate reference and status fields, pair every amount with its currency, and reject records whose references cannot be resolved.",
	},
}

func (r recommendationRule) priority(score int) Priority {
	gap := r.threshold - score
	switch {
	case gap >= r.critical:
		return PriorityCritical
	case gap >= r.high:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

func describeColumns(cols []string) string {
	if len(cols) == 0 {
		return ""
	}
	shown := cols[:min(len(cols), maxColumnsInDescription)]
	desc := " Most affected columns: " + strings.Join(shown, ", ")
	if extra := len(cols) - len(shown); extra > 0 {
		desc += fmt.Sprintf(" (and %d more)", extra)
	}
	return desc + "."
}

// recommend derives remediation actions from the dimension scores, sorted by
// priority and, within a priority, by evaluation order.
func recommend(dims []Dimension) []Recommendation {
	recs := []Recommendation{}
	for _, d := range dims {
		rule, ok := recommendationRules[d.ID]
		if !ok || !d.Applicable || d.Score >= rule.threshold {
			continue
		}
		recs = append(recs, Recommendation{
			ID:                  fmt.Sprintf("REC-%03d", len(recs)+1),
			DimensionID:         d.ID,
			Priority:            rule.priority(d.Score),
			Title:               rule.title,
			Description:         fmt.Sprintf("%s scored %d, below the target of %d.%s", d.Name, d.Score, rule.threshold, describeColumns(d.ImpactedColumns)),
			ExpectedImprovement: int(math.Round(float64(rule.threshold-d.Score) * rule.factor)),
			AffectedDimensions:  append([]DimensionID(nil), rule.affected...),
			Remediation:         rule.remediation,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.rank() < recs[j].Priority.rank()
	})
	return recs
}
