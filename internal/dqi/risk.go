package dqi

import (
	"fmt"
	"strings"
)

// Band limits used by the risk narrative and compliance classifier.
const (
	warningBandMin          = 60
	healthyBandMin          = 80
	nonCompliantBelow       = 50
	remediationCompositeMin = 70
	remediationDimensionMin = 60
)

const (
	lowRiskSummary      = "LOW RISK: Data quality meets enterprise standards. The dataset is suitable for analytics, reporting and downstream automation."
	criticalRiskSummary = "CRITICAL RISK: The dataset is not fit for use. Quality failures across multiple dimensions require immediate remediation before any processing."
)

func dimensionNames(dims []Dimension) string {
	if len(dims) == 0 {
		return "none"
	}
	names := make([]string, len(dims))
	for i, d := range dims {
		names[i] = d.Name
	}
	return strings.Join(names, ", ")
}

// riskBands splits the applicable dimensions into warning (60-79) and
// critical (below 60) sets.
func riskBands(dims []Dimension) (warning, critical []Dimension) {
	for _, d := range dims {
		if !d.Applicable {
			continue
		}
		switch {
		case d.Score < warningBandMin:
			critical = append(critical, d)
		case d.Score < healthyBandMin:
			warning = append(warning, d)
		}
	}
	return warning, critical
}

// riskSummary selects the narrative from the composite grade alone.
func riskSummary(grade Grade, dims []Dimension) string {
	warning, critical := riskBands(dims)
	switch grade {
	case GradeA:
		return lowRiskSummary
	case GradeB:
		return fmt.Sprintf("MODERATE RISK: Data quality is acceptable, with %d dimension(s) in warning (%s) and %d critical (%s). Targeted fixes are advised before high-stakes use.",
			len(warning), dimensionNames(warning), len(critical), dimensionNames(critical))
	case GradeC:
		return fmt.Sprintf("ELEVATED RISK: Quality issues may affect business decisions. %d critical dimension(s) (%s) and %d warning dimension(s) (%s) require remediation.",
			len(critical), dimensionNames(critical), len(warning), dimensionNames(warning))
	case GradeD:
		return fmt.Sprintf("HIGH RISK: Significant quality problems detected. %d critical dimension(s) (%s) and %d warning dimension(s) (%s) must be addressed before production use.",
			len(critical), dimensionNames(critical), len(warning), dimensionNames(warning))
	default:
		return criticalRiskSummary
	}
}

// complianceStatus is evaluated from the scores directly, not from the grade.
func complianceStatus(composite int, dims []Dimension) ComplianceStatus {
	minDim := 100
	for _, d := range dims {
		if d.Applicable {
			minDim = min(minDim, d.Score)
		}
	}

	switch {
	case composite < nonCompliantBelow || minDim < nonCompliantBelow:
		return NonCompliant
	case composite < remediationCompositeMin || minDim < remediationDimensionMin:
		return RequiresRemediation
	default:
		return Compliant
	}
}
