package dqi

import (
	"math"
	"regexp"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// dominanceThreshold is the share of non-null values the leading type needs
// before a column with several observed types is still given that type.
const dominanceThreshold = 0.8

// patternScanLimit caps how many cells are scanned for format signatures.
const patternScanLimit = 100

// maxSamples is the number of sample values kept per column.
const maxSamples = 3

var (
	// Currency-like values need a "$" prefix or an ISO-4217 style suffix so that
	// zero-padded codes such as "00123" are not read as money.
	currencyPrefixRegex = regexp.MustCompile(`^\$\s?(\d{1,3}(,\d{3})+|\d+)(\.\d+)?$`)
	currencySuffixRegex = regexp.MustCompile(`^\$?\s?(\d{1,3}(,\d{3})+|\d+)(\.\d+)?\s?[A-Z]{3}$`)

	dateRegexes = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\S.*)?$`),
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`),
	}

	identifierValueRegex = regexp.MustCompile(`(?i)^[A-Z0-9\-_]+$`)
)

// patternSignature is a named format detected in column values.
type patternSignature struct {
	tag string
	re  *regexp.Regexp
}

var patternSignatures = []patternSignature{
	{"date:YYYY-MM-DD", regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)},
	{"date:MM/DD/YYYY", regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)},
	{"date:DD-MM-YYYY", regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)},
	{"currency:$XXX.XX", regexp.MustCompile(`^\$\d{1,3}(,?\d{3})*\.\d{2}$`)},
	{"code:AA", regexp.MustCompile(`^[A-Z]{2,3}$`)},
	{"id:AAA000", regexp.MustCompile(`^[A-Z]{3}[-_]?\d+$`)},
}

// typeOrder breaks ties between equally frequent types.
var typeOrder = []ColumnType{TypeNumber, TypeCurrency, TypeDate, TypeIdentifier, TypeBoolean, TypeString}

func isCurrencyLike(s string) bool {
	return currencyPrefixRegex.MatchString(s) || currencySuffixRegex.MatchString(s)
}

func isDateLike(s string) bool {
	for _, re := range dateRegexes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// columnValues returns the cells of one column in row order.
func columnValues(t *Table, name string) []Value {
	vals := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		vals[i] = row[name]
	}
	return vals
}

func nonNull(vals []Value) []Value {
	out := make([]Value, 0, len(vals))
	for _, v := range vals {
		if !v.IsNull() {
			out = append(out, v)
		}
	}
	return out
}

// valueKey is the canonical identity of a typed value, so "1.0" and "1"
// compare equal as numbers.
func valueKey(v Value) string {
	switch v.Kind {
	case KindNull:
		return "z:"
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindBool:
		return "b:" + strconv.FormatBool(v.Bool)
	default:
		return "s:" + v.Raw
	}
}

// ExtractSchema profiles every column of the table. Up to parallelism
// columns are profiled at once; each worker writes only its own slot, so the
// result does not depend on scheduling.
func ExtractSchema(t *Table, parallelism int) []ColumnSchema {
	schemas := make([]ColumnSchema, len(t.Columns))
	if parallelism < 1 {
		parallelism = 1
	}

	// Workers never fail; the group is only used for its concurrency limit.
	var g errgroup.Group
	g.SetLimit(parallelism)
	for i, name := range t.Columns {
		g.Go(func() error {
			schemas[i] = extractColumn(name, columnValues(t, name))
			return nil
		})
	}
	_ = g.Wait()

	return schemas
}

func extractColumn(name string, vals []Value) ColumnSchema {
	present := nonNull(vals)

	col := ColumnSchema{
		Name:         name,
		InferredType: inferType(name, present),
		Patterns:     detectPatterns(present),
		SampleValues: sampleValues(name, present),
	}

	if len(vals) > 0 {
		col.NullRatio = round2(1 - float64(len(present))/float64(len(vals)))
	}

	distinct := make(map[string]struct{}, len(present))
	for _, v := range present {
		distinct[valueKey(v)] = struct{}{}
	}
	col.UniqueRatio = round2(float64(len(distinct)) / float64(max(len(present), 1)))

	if col.InferredType == TypeNumber || col.InferredType == TypeCurrency {
		col.Statistics = numericStatistics(numbers(present))
	}

	return col
}

// classifyValue returns the type a single non-null cell votes for.
func classifyValue(v Value, idHint bool) ColumnType {
	switch v.Kind {
	case KindNumber:
		return TypeNumber
	case KindBool:
		return TypeBoolean
	}
	switch {
	case isCurrencyLike(v.Raw):
		return TypeCurrency
	case isDateLike(v.Raw):
		return TypeDate
	case idHint && identifierValueRegex.MatchString(v.Raw):
		return TypeIdentifier
	default:
		return TypeString
	}
}

func inferType(name string, present []Value) ColumnType {
	if len(present) == 0 {
		return TypeString
	}

	idHint := hasIdentifierHint(name)
	tally := make(map[ColumnType]int)
	for _, v := range present {
		tally[classifyValue(v, idHint)]++
	}

	dominant := TypeString
	best := -1
	for _, t := range typeOrder {
		if tally[t] > best {
			dominant, best = t, tally[t]
		}
	}

	share := float64(best) / float64(len(present))
	if share < dominanceThreshold && len(tally) > 1 {
		return TypeMixed
	}
	return dominant
}

// detectPatterns returns the format tags seen in the first cells of a column,
// in signature order and without repeats.
func detectPatterns(present []Value) []string {
	scan := present
	if len(scan) > patternScanLimit {
		scan = scan[:patternScanLimit]
	}

	patterns := []string{}
	for _, sig := range patternSignatures {
		for _, v := range scan {
			if sig.re.MatchString(v.Raw) {
				patterns = append(patterns, sig.tag)
				break
			}
		}
	}
	return patterns
}

func sampleValues(name string, present []Value) []string {
	n := min(len(present), maxSamples)
	samples := make([]string, 0, n)
	for _, v := range present[:n] {
		samples = append(samples, redactSample(name, v.Raw))
	}
	return samples
}

func numbers(present []Value) []float64 {
	var nums []float64
	for _, v := range present {
		if v.Kind == KindNumber {
			nums = append(nums, v.Num)
		}
	}
	return nums
}

// numericStatistics returns nil when there is nothing to summarize or when
// the values cannot be summarized with finite numbers.
func numericStatistics(nums []float64) *NumericStatistics {
	if len(nums) == 0 {
		return nil
	}

	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)

	mean, std := meanStdDev(nums)

	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = sorted[mid-1]/2 + sorted[mid]/2
	} else {
		median = sorted[mid]
	}

	stats := &NumericStatistics{
		Min:    round2(sorted[0]),
		Max:    round2(sorted[len(sorted)-1]),
		Mean:   round2(mean),
		Median: round2(median),
		StdDev: round2(std),
	}
	for _, f := range []float64{stats.Min, stats.Max, stats.Mean, stats.Median, stats.StdDev} {
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil
		}
	}
	return stats
}

// meanStdDev returns the mean and population standard deviation. Values are
// scaled by their largest magnitude first so sums near the float64 limit
// stay finite.
func meanStdDev(nums []float64) (float64, float64) {
	if len(nums) == 0 {
		return 0, 0
	}

	scale := 0.0
	for _, n := range nums {
		scale = max(scale, math.Abs(n))
	}
	if scale == 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return 0, 0
	}

	var mean float64
	for i, n := range nums {
		mean += (n/scale - mean) / float64(i+1)
	}

	var sq float64
	for _, n := range nums {
		d := n/scale - mean
		sq += d * d
	}
	return mean * scale, math.Sqrt(sq/float64(len(nums))) * scale
}

// round2 rounds to two decimals. Magnitudes past 1e15 already have no
// fractional precision left and are returned as is.
func round2(f float64) float64 {
	if math.Abs(f) > 1e15 || math.IsNaN(f) {
		return f
	}
	return math.Round(f*100) / 100
}
