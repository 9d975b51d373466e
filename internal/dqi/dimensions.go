package dqi

import (
	"fmt"
	"math"
	"time"
)

// scoringInput is everything a dimension rule may look at. Rules must not
// modify it.
type scoringInput struct {
	table   *Table
	meta    *DatasetMetadata
	columns map[string]*ColumnSchema
	now     time.Time
}

func newScoringInput(t *Table, meta *DatasetMetadata, now time.Time) *scoringInput {
	in := &scoringInput{
		table:   t,
		meta:    meta,
		columns: make(map[string]*ColumnSchema, len(meta.Columns)),
		now:     now,
	}
	for i := range meta.Columns {
		in.columns[meta.Columns[i].Name] = &meta.Columns[i]
	}
	return in
}

func (in *scoringInput) rows() int { return len(in.table.Rows) }
func (in *scoringInput) totalCells() int { return in.meta.Summary.TotalCells }

// values returns the cells of one column in row order.
func (in *scoringInput) values(col string) []Value {
	return columnValues(in.table, col)
}

// dimensionResult is the raw output of a scoring rule. Score is clamped and
// rounded by the runner.
type dimensionResult struct {
	score    float64
	findings []string
	impacted []string
}

// DimensionRule declares one quality dimension: when it applies and how it
// scores. Penalty factors inside the rules are policy constants.
type DimensionRule struct {
	ID         DimensionID
	Name       string
	BaseWeight float64
	Applicable func(in *scoringInput) bool
	Score      func(in *scoringInput) dimensionResult
}

var dimensionRules []DimensionRule

// registerDimension appends a rule to the evaluation order.
// Panics if a rule with the same id is already registered.
func registerDimension(rule DimensionRule) {
	for _, r := range dimensionRules {
		if r.ID == rule.ID {
			panic(fmt.Sprintf("dimension already registered: %s", rule.ID))
		}
	}
	dimensionRules = append(dimensionRules, rule)
}

// DimensionRules returns the registered rules in evaluation order.
func DimensionRules() []DimensionRule {
	out := make([]DimensionRule, len(dimensionRules))
	copy(out, dimensionRules)
	return out
}

func always(*scoringInput) bool { return true }

func init() {
	registerDimension(DimensionRule{ID: DimCompleteness, Name: "Completeness", BaseWeight: 0.20, Applicable: always, Score: scoreCompleteness})
	registerDimension(DimensionRule{ID: DimConsistency, Name: "Consistency", BaseWeight: 0.15, Applicable: always, Score: scoreConsistency})
	registerDimension(DimensionRule{ID: DimUniqueness, Name: "Uniqueness", BaseWeight: 0.15, Applicable: always, Score: scoreUniqueness})
	registerDimension(DimensionRule{ID: DimValidity, Name: "Validity", BaseWeight: 0.20, Applicable: always, Score: scoreValidity})
	registerDimension(DimensionRule{ID: DimTimeliness, Name: "Timeliness", BaseWeight: 0.10, Applicable: hasDateColumns, Score: scoreTimeliness})
	registerDimension(DimensionRule{ID: DimAccuracy, Name: "Accuracy", BaseWeight: 0.10, Applicable: always, Score: scoreAccuracy})
	registerDimension(DimensionRule{ID: DimIntegrity, Name: "Integrity", BaseWeight: 0.10, Applicable: hasEnoughColumns, Score: scoreIntegrity})
}

// evaluateDimensions runs every registered rule. Inapplicable dimensions are
// still reported, with score and weight zero.
func evaluateDimensions(in *scoringInput) []Dimension {
	dims := make([]Dimension, 0, len(dimensionRules))
	for _, rule := range dimensionRules {
		d := Dimension{
			ID:              rule.ID,
			Name:            rule.Name,
			Findings:        []string{},
			ImpactedColumns: []string{},
		}
		if rule.Applicable(in) {
			res := rule.Score(in)
			d.Applicable = true
			d.Score = clampScore(res.score)
			if res.findings != nil {
				d.Findings = res.findings
			}
			if res.impacted != nil {
				d.ImpactedColumns = res.impacted
			}
		}
		dims = append(dims, d)
	}
	return dims
}

// penalize converts a defect rate into a 0-100 score.
func penalize(defectRate, factor float64) float64 {
	return 100 - defectRate*factor
}

func clampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, score))))
}

func safeRate(n, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return n / total
}

// findingSet collects findings in detection order and impacted columns
// without repeats.
type findingSet struct {
	findings []string
	impacted []string
	seen     map[string]bool
}

func (f *findingSet) add(column, format string, args ...any) {
	f.findings = append(f.findings, fmt.Sprintf(format, args...))
	f.touch(column)
}

func (f *findingSet) touch(column string) {
	if column == "" {
		return
	}
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	if !f.seen[column] {
		f.seen[column] = true
		f.impacted = append(f.impacted, column)
	}
}

func (f *findingSet) result(score float64) dimensionResult {
	return dimensionResult{score: score, findings: f.findings, impacted: f.impacted}
}

func pct(rate float64) float64 {
	return math.Round(rate*1000) / 10
}
