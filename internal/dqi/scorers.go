package dqi

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Penalty factors and estimated defect shares. These are tuned policy
// values; changing any of them changes every score.
const (
	completenessPenalty = 150.0

	consistencyPenalty       = 500.0
	mixedTypeRowShare        = 0.3
	multiPatternRowShare     = 0.1
	uniquenessDupPenalty     = 300.0
	uniquenessIDPenalty      = 20.0
	validityPenalty          = 300.0
	timelinessFuturePenalty  = 150.0
	timelinessInvalidPenalty = 100.0
	timelinessStalePenalty   = 30.0
	accuracyPenalty          = 300.0
	mixedTypeDefectShare     = 0.2
	integrityPenalty         = 100.0

	staleAfterYears = 2
)

// nullLikeLiterals are text values standing in for a missing value.
var nullLikeLiterals = map[string]bool{
	"null": true, "na": true, "n/a": true, "none": true, "undefined": true, "-": true, "": true,
}

// dateLayouts are tried in order when a date cell is checked for timeliness.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
	"20060102",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isStringLike(t ColumnType) bool {
	return t == TypeString || t == TypeIdentifier || t == TypeMixed
}

// keyColumns are the columns expected to hold one value per record.
func (in *scoringInput) keyColumns() []ColumnSchema {
	var cols []ColumnSchema
	for _, c := range in.meta.Columns {
		if c.InferredType == TypeIdentifier || isKeyName(c.Name) {
			cols = append(cols, c)
		}
	}
	return cols
}

// repeats returns the non-null count and how many of those repeat an
// earlier value.
func repeats(vals []Value) (present, repeated int) {
	seen := make(map[string]struct{})
	for _, v := range vals {
		if v.IsNull() {
			continue
		}
		present++
		k := valueKey(v)
		if _, ok := seen[k]; ok {
			repeated++
			continue
		}
		seen[k] = struct{}{}
	}
	return present, repeated
}

// ---------------------------------------------------------------------------
// Completeness
// ---------------------------------------------------------------------------

func scoreCompleteness(in *scoringInput) dimensionResult {
	var f findingSet
	total := float64(in.totalCells())
	nulls := float64(in.meta.Summary.NullCells)
	defect := 1 - safeRate(total-nulls, total)

	if nulls > 0 {
		f.add("", "%d of %d cells (%.1f%%) are empty", int(nulls), int(total), pct(defect))
	}
	for _, c := range in.meta.Columns {
		if c.NullRatio > 0 {
			f.add(c.Name, "Column '%s' is %.1f%% empty", c.Name, pct(c.NullRatio))
		}
	}

	return f.result(penalize(defect, completenessPenalty))
}

// ---------------------------------------------------------------------------
// Consistency
// ---------------------------------------------------------------------------

// caseVariants counts occurrences of spellings that differ from the most
// common spelling of the same case-folded value, and returns one example pair.
func caseVariants(vals []Value) (int, string) {
	folder := cases.Fold()
	groups := make(map[string]map[string]int)
	for _, v := range vals {
		if v.Kind != KindString {
			continue
		}
		key := folder.String(v.Raw)
		if groups[key] == nil {
			groups[key] = make(map[string]int)
		}
		groups[key][v.Raw]++
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	variants := 0
	example := ""
	for _, k := range keys {
		spellings := groups[k]
		if len(spellings) < 2 {
			continue
		}
		names := make([]string, 0, len(spellings))
		total, top := 0, 0
		for s, n := range spellings {
			names = append(names, s)
			total += n
			top = max(top, n)
		}
		variants += total - top
		if example == "" {
			sort.Strings(names)
			example = fmt.Sprintf("'%s' vs '%s'", names[0], names[1])
		}
	}
	return variants, example
}

func scoreConsistency(in *scoringInput) dimensionResult {
	var f findingSet
	rows := float64(in.rows())
	penalty := 0.0

	for _, c := range in.meta.Columns {
		if c.InferredType == TypeMixed {
			penalty += rows * mixedTypeRowShare
			f.add(c.Name, "Column '%s' mixes several value types", c.Name)
		}
		if len(c.Patterns) > 1 {
			penalty += rows * multiPatternRowShare
			f.add(c.Name, "Column '%s' uses %d different formats (%s)", c.Name, len(c.Patterns), strings.Join(c.Patterns, ", "))
		}
		if isStringLike(c.InferredType) {
			if n, example := caseVariants(in.values(c.Name)); n > 0 {
				penalty += float64(n)
				f.add(c.Name, "Column '%s' has %d values differing only by letter case (e.g. %s)", c.Name, n, example)
			}
		}
	}

	rate := safeRate(penalty, float64(in.totalCells()))
	return f.result(penalize(rate, consistencyPenalty))
}

// ---------------------------------------------------------------------------
// Uniqueness
// ---------------------------------------------------------------------------

func scoreUniqueness(in *scoringInput) dimensionResult {
	var f findingSet
	dups := in.meta.Summary.DuplicateRows
	dupRate := safeRate(float64(dups), float64(in.rows()))
	if dups > 0 {
		f.add("", "%d duplicate rows (%.1f%% of rows)", dups, pct(dupRate))
	}

	keyCols := in.keyColumns()
	idRatio := 0.0
	for _, c := range keyCols {
		present, repeated := repeats(in.values(c.Name))
		idRatio += safeRate(float64(repeated), float64(present))
		if repeated > 0 {
			f.add(c.Name, "Identifier column '%s' has %d repeated values", c.Name, repeated)
		}
	}
	if len(keyCols) > 0 {
		idRatio /= float64(len(keyCols))
	}

	return f.result(100 - (dupRate*uniquenessDupPenalty + idRatio*uniquenessIDPenalty))
}

// ---------------------------------------------------------------------------
// Validity
// ---------------------------------------------------------------------------

func scoreValidity(in *scoringInput) dimensionResult {
	var f findingSet
	invalid := 0

	for _, c := range in.meta.Columns {
		vals := in.values(c.Name)
		bad := make([]bool, len(vals))
		mark := func(check func(Value) bool) int {
			n := 0
			for i, v := range vals {
				if check(v) {
					bad[i] = true
					n++
				}
			}
			return n
		}

		if isPositiveName(c.Name) {
			if n := mark(func(v Value) bool { return v.Kind == KindNumber && v.Num < 0 }); n > 0 {
				f.add(c.Name, "Column '%s' has %d negative values", c.Name, n)
			}
		}
		if isAmountName(c.Name) {
			if n := mark(func(v Value) bool { return v.Kind == KindNumber && v.Num == 0 }); n > 0 {
				f.add(c.Name, "Column '%s' has %d zero amounts", c.Name, n)
			}
		}
		if c.InferredType == TypeNumber || c.InferredType == TypeCurrency {
			outliers := outlierFlags(vals)
			if n := countTrue(outliers); n > 0 {
				for i, o := range outliers {
					bad[i] = bad[i] || o
				}
				f.add(c.Name, "Column '%s' has %d statistical outliers beyond 3 standard deviations", c.Name, n)
			}
		}
		if n := mark(func(v Value) bool { return v.Kind == KindString && nullLikeLiterals[strings.ToLower(v.Raw)] }); n > 0 {
			f.add(c.Name, "Column '%s' has %d placeholder values such as 'N/A' or 'none'", c.Name, n)
		}
		if isAmountName(c.Name) {
			if n := mark(func(v Value) bool { return v.Kind == KindString || v.Kind == KindBool }); n > 0 {
				f.add(c.Name, "Column '%s' has %d non-numeric values", c.Name, n)
			}
		}

		invalid += countTrue(bad)
	}

	rate := safeRate(float64(invalid), float64(in.totalCells()))
	return f.result(penalize(rate, validityPenalty))
}

// ---------------------------------------------------------------------------
// Timeliness
// ---------------------------------------------------------------------------

func (in *scoringInput) dateColumns() []ColumnSchema {
	var cols []ColumnSchema
	for _, c := range in.meta.Columns {
		if c.InferredType == TypeDate || isDateName(c.Name) {
			cols = append(cols, c)
		}
	}
	return cols
}

func hasDateColumns(in *scoringInput) bool {
	return len(in.dateColumns()) > 0
}

func scoreTimeliness(in *scoringInput) dimensionResult {
	var f findingSet
	staleBefore := in.now.AddDate(-staleAfterYears, 0, 0)

	var checked, future, invalid, stale int
	for _, c := range in.dateColumns() {
		var colFuture, colInvalid, colStale int
		for _, v := range in.values(c.Name) {
			if v.IsNull() {
				continue
			}
			checked++
			t, ok := parseDate(v.Raw)
			switch {
			case !ok:
				colInvalid++
			case t.After(in.now):
				colFuture++
			case t.Before(staleBefore):
				colStale++
			}
		}
		if colFuture > 0 {
			f.add(c.Name, "Column '%s' has %d future-dated values", c.Name, colFuture)
		}
		if colInvalid > 0 {
			f.add(c.Name, "Column '%s' has %d unparseable dates", c.Name, colInvalid)
		}
		if colStale > 0 {
			f.add(c.Name, "Column '%s' has %d values older than %d years", c.Name, colStale, staleAfterYears)
		}
		future += colFuture
		invalid += colInvalid
		stale += colStale
	}

	total := float64(checked)
	defect := safeRate(float64(future), total)*timelinessFuturePenalty +
		safeRate(float64(invalid), total)*timelinessInvalidPenalty +
		safeRate(float64(stale), total)*timelinessStalePenalty

	return f.result(100 - defect)
}

// ---------------------------------------------------------------------------
// Accuracy
// ---------------------------------------------------------------------------

func scoreAccuracy(in *scoringInput) dimensionResult {
	var f findingSet
	inaccurate := 0.0

	for _, c := range in.meta.Columns {
		vals := in.values(c.Name)

		if c.InferredType == TypeMixed {
			present := len(nonNull(vals))
			inaccurate += float64(present) * mixedTypeDefectShare
			f.add(c.Name, "Column '%s' has inconsistent types; about %d%% of its values are likely wrong", c.Name, int(mixedTypeDefectShare*100))
		}

		if c.InferredType == TypeIdentifier || isKeyName(c.Name) {
			if _, repeated := repeats(vals); repeated > 0 {
				inaccurate += float64(repeated)
				f.add(c.Name, "Identifier column '%s' repeats %d values", c.Name, repeated)
			}
		}

		if isNumericName(c.Name) {
			n := 0
			for _, v := range vals {
				if v.Kind == KindString || v.Kind == KindBool {
					n++
				}
			}
			if n > 0 {
				inaccurate += float64(n)
				f.add(c.Name, "Numeric column '%s' contains %d non-numeric values", c.Name, n)
			}
		}

		placeholders := 0
		for _, v := range vals {
			if v.IsNull() && v.Raw != "" {
				placeholders++
			}
		}
		if placeholders > 0 {
			inaccurate += float64(placeholders)
			f.add(c.Name, "Column '%s' encodes %d missing values as text placeholders", c.Name, placeholders)
		}
	}

	rate := safeRate(inaccurate, float64(in.totalCells()))
	return f.result(penalize(rate, accuracyPenalty))
}

// ---------------------------------------------------------------------------
// Integrity
// ---------------------------------------------------------------------------

func hasEnoughColumns(in *scoringInput) bool {
	return len(in.meta.Columns) > 3
}

func scoreIntegrity(in *scoringInput) dimensionResult {
	var f findingSet
	issues := 0
	cols := in.meta.Columns

	nullCount := func(name string) int {
		n := 0
		for _, v := range in.values(name) {
			if v.IsNull() {
				n++
			}
		}
		return n
	}

	for _, c := range cols {
		if isForeignKeyName(c.Name) {
			if n := nullCount(c.Name); n > 0 {
				issues += n
				f.add(c.Name, "Reference column '%s' is empty in %d rows", c.Name, n)
			}
		}
	}

	sparse := 0
	for _, row := range in.table.Rows {
		empty := 0
		for _, c := range in.table.Columns {
			if row[c].IsNull() {
				empty++
			}
		}
		if float64(empty) > float64(len(in.table.Columns))/2 {
			sparse++
		}
	}
	if sparse > 0 {
		issues += sparse
		f.add("", "%d rows are more than half empty", sparse)
	}

	var amountCols, currencyCols []string
	for _, c := range cols {
		switch {
		case isCurrencyName(c.Name):
			currencyCols = append(currencyCols, c.Name)
		case isAmountName(c.Name) && c.InferredType != TypeCurrency:
			amountCols = append(amountCols, c.Name)
		}
	}
	if len(amountCols) > 0 {
		if len(currencyCols) == 0 {
			for _, a := range amountCols {
				issues++
				f.add(a, "Amount column '%s' has no accompanying currency field", a)
			}
		} else {
			missing := 0
			for _, row := range in.table.Rows {
				if !anyPresent(row, amountCols) || anyPresent(row, currencyCols) {
					continue
				}
				missing++
			}
			if missing > 0 {
				issues += missing
				f.add(currencyCols[0], "%d rows have an amount but no currency", missing)
				for _, a := range amountCols {
					f.touch(a)
				}
			}
		}
	}

	for _, c := range cols {
		if isStatusName(c.Name) {
			if n := nullCount(c.Name); n > 0 {
				issues += n
				f.add(c.Name, "Status column '%s' is empty in %d rows", c.Name, n)
			}
		}
	}

	rate := safeRate(float64(issues), float64(in.totalCells()))
	return f.result(penalize(rate, integrityPenalty))
}

func anyPresent(row RawRow, cols []string) bool {
	for _, c := range cols {
		if !row[c].IsNull() {
			return true
		}
	}
	return false
}
