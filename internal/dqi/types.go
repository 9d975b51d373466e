package dqi

import "time"

// ValueKind is the normalized type of a single cell.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindNumber
	KindBool
	KindString
)

// String returns the lowercase kind name.
func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value is a typed cell. Raw keeps the trimmed cell text as it appeared in the file.
type Value struct {
	Kind ValueKind
	Num  float64
	Bool bool
	Raw  string
}

// IsNull reports whether the cell carries no value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// RawRow maps column name to the typed cell. Rows only live for the duration
// of an analysis.
type RawRow map[string]Value

// Table is the parsed form of an uploaded file.
type Table struct {
	Columns     []string
	Rows        []RawRow
	DroppedRows int // lines discarded for a field-count mismatch
}

// ColumnType is the inferred semantic type of a column.
type ColumnType string

const (
	TypeString     ColumnType = "string"
	TypeNumber     ColumnType = "number"
	TypeDate       ColumnType = "date"
	TypeBoolean    ColumnType = "boolean"
	TypeCurrency   ColumnType = "currency"
	TypeIdentifier ColumnType = "identifier"
	TypeMixed      ColumnType = "mixed"
)

// NumericStatistics summarizes the numeric values of a number or currency column.
type NumericStatistics struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stdDev"`
}

// ColumnSchema is the inferred profile of one input column.
type ColumnSchema struct {
	Name         string             `json:"name"`
	InferredType ColumnType         `json:"inferredType"`
	NullRatio    float64            `json:"nullRatio"`
	UniqueRatio  float64            `json:"uniqueRatio"`
	SampleValues []string           `json:"sampleValues"`
	Patterns     []string           `json:"patterns"`
	Statistics   *NumericStatistics `json:"statistics,omitempty"`
}

// StatisticalSummary holds dataset-wide cell and row counts.
type StatisticalSummary struct {
	TotalCells    int `json:"totalCells"`
	NullCells     int `json:"nullCells"`
	UniqueRows    int `json:"uniqueRows"`
	DuplicateRows int `json:"duplicateRows"`
	AnomalyCount  int `json:"anomalyCount"`
}

// DatasetMetadata describes the analyzed file without any raw row content.
type DatasetMetadata struct {
	FileName    string             `json:"fileName"`
	FileSize    int64              `json:"fileSize"`
	RowCount    int                `json:"rowCount"`
	ColumnCount int                `json:"columnCount"`
	DroppedRows int                `json:"droppedRows"`
	Columns     []ColumnSchema     `json:"columns"`
	Summary     StatisticalSummary `json:"summary"`
	ContentHash string             `json:"contentHash"`
	AnalyzedAt  time.Time          `json:"analyzedAt"`
}

// DimensionID names one of the seven quality dimensions.
type DimensionID string

const (
	DimCompleteness DimensionID = "completeness"
	DimConsistency  DimensionID = "consistency"
	DimUniqueness   DimensionID = "uniqueness"
	DimValidity     DimensionID = "validity"
	DimTimeliness   DimensionID = "timeliness"
	DimAccuracy     DimensionID = "accuracy"
	DimIntegrity    DimensionID = "integrity"
)

// Dimension is the scored result of one quality dimension.
type Dimension struct {
	ID              DimensionID `json:"id"`
	Name            string      `json:"name"`
	Score           int         `json:"score"`
	Weight          float64     `json:"weight"`
	Applicable      bool        `json:"applicable"`
	Findings        []string    `json:"findings"`
	ImpactedColumns []string    `json:"impactedColumns"`
}

// Grade is the letter grade of the composite score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// CompositeScore is the weighted score across applicable dimensions.
type CompositeScore struct {
	Score      int   `json:"score"`
	Grade      Grade `json:"grade"`
	Confidence int   `json:"confidence"`
}

// Explanation is the narrative for one applicable dimension.
type Explanation struct {
	DimensionID     DimensionID `json:"dimensionId"`
	Summary         string      `json:"summary"`
	BusinessImpact  string      `json:"businessImpact"`
	TechnicalDetail string      `json:"technicalDetail"`
}

// Priority orders recommendations; lower rank sorts first.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// Recommendation is one remediation action derived from a low dimension score.
type Recommendation struct {
	ID                  string        `json:"id"`
	DimensionID         DimensionID   `json:"dimensionId"`
	Priority            Priority      `json:"priority"`
	Title               string        `json:"title"`
	Description         string        `json:"description"`
	ExpectedImprovement int           `json:"expectedImprovement"`
	AffectedDimensions  []DimensionID `json:"affectedDimensions"`
	Remediation         string        `json:"remediation"`
}

// ComplianceStatus is the regulatory-readiness verdict of a report.
type ComplianceStatus string

const (
	Compliant           ComplianceStatus = "COMPLIANT"
	RequiresRemediation ComplianceStatus = "REQUIRES_REMEDIATION"
	NonCompliant        ComplianceStatus = "NON_COMPLIANT"
)

// AuditTrail stamps a report for reproducibility.
type AuditTrail struct {
	EvaluationID     string    `json:"evaluationId"`
	Timestamp        time.Time `json:"timestamp"`
	EngineVersion    string    `json:"engineVersion"`
	ChecksumVerified bool      `json:"checksumVerified"`
}

// Report is the immutable result of one analysis and the only unit that is persisted.
type Report struct {
	Metadata         DatasetMetadata  `json:"metadata"`
	Dimensions       []Dimension      `json:"dimensions"`
	Composite        CompositeScore   `json:"composite"`
	Explanations     []Explanation    `json:"explanations"`
	Recommendations  []Recommendation `json:"recommendations"`
	RiskSummary      string           `json:"riskSummary"`
	ComplianceStatus ComplianceStatus `json:"complianceStatus"`
	AuditTrail       AuditTrail       `json:"auditTrail"`
}

// Dimension returns the dimension with the given id.
func (r *Report) Dimension(id DimensionID) (Dimension, bool) {
	for _, d := range r.Dimensions {
		if d.ID == id {
			return d, true
		}
	}
	return Dimension{}, false
}
