package dqi

import (
	"math"
	"sort"
	"strings"
	"time"
)

// outlierSigma is the distance from the mean, in standard deviations, beyond
// which a numeric value is treated as an outlier.
const outlierSigma = 3.0

// rowKey serializes a row independently of column order so that two rows
// with equal content always collide.
func rowKey(row RawRow, sortedCols []string) string {
	var b strings.Builder
	for _, c := range sortedCols {
		b.WriteString(c)
		b.WriteByte('=')
		b.WriteString(valueKey(row[c]))
		b.WriteByte(0x1f)
	}
	return b.String()
}

// duplicateRowCount returns the number of rows that repeat an earlier row.
func duplicateRowCount(t *Table) (unique, duplicates int) {
	sortedCols := append([]string(nil), t.Columns...)
	sort.Strings(sortedCols)

	seen := make(map[string]struct{}, len(t.Rows))
	for _, row := range t.Rows {
		seen[rowKey(row, sortedCols)] = struct{}{}
	}
	return len(seen), len(t.Rows) - len(seen)
}

// outlierFlags marks the numeric cells of vals lying more than outlierSigma
// population standard deviations from the mean.
func outlierFlags(vals []Value) []bool {
	flags := make([]bool, len(vals))
	nums := numbers(vals)
	mean, std := meanStdDev(nums)
	if std == 0 || math.IsInf(std, 0) || math.IsNaN(std) {
		return flags
	}
	// Halved on both sides so the distance cannot overflow.
	limit := outlierSigma / 2 * std
	for i, v := range vals {
		if v.Kind == KindNumber && math.Abs(v.Num/2-mean/2) > limit {
			flags[i] = true
		}
	}
	return flags
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

// BuildMetadata aggregates the file identity, the column schemas and the
// dataset-wide counts. It holds no row content.
func BuildMetadata(t *Table, schemas []ColumnSchema, fileName string, fileSize int64, hash string, analyzedAt time.Time) DatasetMetadata {
	summary := StatisticalSummary{
		TotalCells: len(t.Rows) * len(t.Columns),
	}

	for _, row := range t.Rows {
		for _, c := range t.Columns {
			if row[c].IsNull() {
				summary.NullCells++
			}
		}
	}

	summary.UniqueRows, summary.DuplicateRows = duplicateRowCount(t)

	for _, col := range schemas {
		if col.InferredType == TypeNumber || col.InferredType == TypeCurrency {
			summary.AnomalyCount += countTrue(outlierFlags(columnValues(t, col.Name)))
		}
	}

	return DatasetMetadata{
		FileName:    fileName,
		FileSize:    fileSize,
		RowCount:    len(t.Rows),
		ColumnCount: len(t.Columns),
		DroppedRows: t.DroppedRows,
		Columns:     schemas,
		Summary:     summary,
		ContentHash: hash,
		AnalyzedAt:  analyzedAt,
	}
}
