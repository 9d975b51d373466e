package dqi

import (
	"fmt"
	"strings"
)

// explanationBand is selected when a dimension scores at least min.
// Summary takes the score as its only argument.
type explanationBand struct {
	min     int
	summary string
	impact  string
}

const noIssuesDetail = "No issues detected for this dimension."

// explanationBands lists bands per dimension from best to worst.
var explanationBands = map[DimensionID][]explanationBand{
	DimCompleteness: {
		{95, "Data is highly complete (%d/100); nearly every field is populated.", "Reports and models can rely on full coverage of the dataset."},
		{80, "Data is mostly complete (%d/100) with some gaps in individual fields.", "Aggregates may slightly under-count; affected fields should be reviewed."},
		{60, "Data has notable gaps (%d/100); several fields are frequently empty.", "Analyses that depend on the sparse fields are likely to be biased."},
		{0, "Data is largely incomplete (%d/100); many required values are missing.", "Missing values make the dataset unreliable for decisions and compliance reporting."},
	},
	DimConsistency: {
		{90, "Values follow consistent types and formats (%d/100).", "Data can be joined and aggregated without normalization work."},
		{75, "Values are mostly consistent (%d/100) with a few format deviations.", "Minor normalization is needed before reliable grouping and matching."},
		{50, "Formats and types vary noticeably across records (%d/100).", "Grouping, joins and deduplication will produce fragmented results."},
		{0, "Values are highly inconsistent (%d/100) in type, format and casing.", "Downstream systems are likely to reject or misinterpret many records."},
	},
	DimUniqueness: {
		{98, "Records are unique (%d/100); no meaningful duplication found.", "Counts and totals reflect real entities without double counting."},
		{90, "Minor duplication detected (%d/100).", "Totals may be slightly inflated by repeated records."},
		{70, "Significant duplication detected (%d/100).", "Duplicate records distort counts, revenue figures and customer metrics."},
		{0, "Severe duplication detected (%d/100).", "Metrics derived from this data are unreliable until duplicates are removed."},
	},
	DimValidity: {
		{95, "Values fall within expected ranges and formats (%d/100).", "Business rules can be applied to the data as-is."},
		{85, "A small share of values break business rules (%d/100).", "Isolated invalid values may cause individual processing failures."},
		{65, "Many values break business rules (%d/100).", "Invalid amounts and placeholders will skew financial and operational reports."},
		{0, "Validity is poor (%d/100); invalid values are widespread.", "The dataset cannot be trusted for financial or regulatory use."},
	},
	DimTimeliness: {
		{90, "Dates are current and well formed (%d/100).", "Time-based reporting reflects the present state of the business."},
		{75, "Some dates are stale or irregular (%d/100).", "Trend analyses may include outdated records."},
		{50, "Many dates are stale, future-dated or unparseable (%d/100).", "Period reporting and SLA tracking are likely to be wrong."},
		{0, "Date quality is poor (%d/100).", "Time-dependent processes cannot rely on this data."},
	},
	DimAccuracy: {
		{95, "Values appear accurate (%d/100).", "The data is a reliable representation of the source system."},
		{85, "Minor accuracy concerns detected (%d/100).", "A few records may not reflect reality and should be spot-checked."},
		{70, "Accuracy concerns are noticeable (%d/100).", "Decisions based on affected fields carry elevated risk."},
		{0, "Accuracy is poor (%d/100).", "Many values are likely wrong; verify against the system of record."},
	},
	DimIntegrity: {
		{95, "References and related fields are intact (%d/100).", "Records can be linked to related entities reliably."},
		{80, "Some related fields are missing (%d/100).", "A portion of records cannot be fully linked or reconciled."},
		{60, "Referential gaps are common (%d/100).", "Reconciliation across systems will require manual effort."},
		{0, "Integrity is poor (%d/100); many records lack required links.", "Records cannot be reconciled or audited end to end."},
	},
}

func explainDimension(d Dimension) Explanation {
	exp := Explanation{DimensionID: d.ID, TechnicalDetail: noIssuesDetail}
	for _, b := range explanationBands[d.ID] {
		if d.Score >= b.min {
			exp.Summary = fmt.Sprintf(b.summary, d.Score)
			exp.BusinessImpact = b.impact
			break
		}
	}
	if len(d.Findings) > 0 {
		exp.TechnicalDetail = strings.Join(d.Findings, "; ")
	}
	return exp
}

// explain returns one explanation per applicable dimension, in evaluation order.
func explain(dims []Dimension) []Explanation {
	out := []Explanation{}
	for _, d := range dims {
		if d.Applicable {
			out = append(out, explainDimension(d))
		}
	}
	return out
}
