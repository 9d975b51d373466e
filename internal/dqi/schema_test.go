package dqi

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, content string) *Table {
	t.Helper()
	table, err := ParseTable(content)
	require.NoError(t, err)
	return table
}

func schemaByName(schemas []ColumnSchema, name string) ColumnSchema {
	for _, s := range schemas {
		if s.Name == name {
			return s
		}
	}
	return ColumnSchema{}
}

func TestExtractSchema_InferredTypes(t *testing.T) {
	table := mustParse(t, strings.Join([]string{
		"customer_id,amount,created_date,active,label,price,mixed",
		"C-001,10,2024-01-05,true,alpha,100 USD,1",
		"C-002,20,2024-01-06,false,beta,200 USD,x",
		"C-003,30,2024-01-07,true,gamma,300 USD,2",
		"C-004,40,2024-01-08,false,delta,400 USD,y",
		"C-005,abc,2024-01-09,true,epsilon,500 USD,3",
	}, "\n"))

	schemas := ExtractSchema(table, 4)
	require.Len(t, schemas, 7)

	want := map[string]ColumnType{
		"customer_id":  TypeIdentifier,
		"amount":       TypeNumber, // 4 of 5 is exactly the dominance threshold
		"created_date": TypeDate,
		"active":       TypeBoolean,
		"label":        TypeString,
		"price":        TypeCurrency,
		"mixed":        TypeMixed,
	}
	for name, typ := range want {
		assert.Equal(t, typ, schemaByName(schemas, name).InferredType, name)
	}

	// Output keeps header order regardless of parallelism.
	for i, name := range table.Columns {
		assert.Equal(t, name, schemas[i].Name)
	}
}

func TestExtractSchema_IdentifierHintInsideName(t *testing.T) {
	table := mustParse(t, strings.Join([]string{
		"invoice_number,reference,city",
		"INV-001,REF-A1,Oslo",
		"INV-002,REF-A2,Bergen",
		"INV-003,REF-B1,Tromso",
	}, "\n"))
	schemas := ExtractSchema(table, 2)

	assert.Equal(t, TypeIdentifier, schemaByName(schemas, "invoice_number").InferredType)
	assert.Equal(t, TypeIdentifier, schemaByName(schemas, "reference").InferredType)
	assert.Equal(t, TypeString, schemaByName(schemas, "city").InferredType)
}

func TestExtractSchema_AllNullColumnIsString(t *testing.T) {
	table := mustParse(t, "a,b\n1,\n2,null")
	col := schemaByName(ExtractSchema(table, 1), "b")

	assert.Equal(t, TypeString, col.InferredType)
	assert.Equal(t, 1.0, col.NullRatio)
	assert.Equal(t, 0.0, col.UniqueRatio)
	assert.Empty(t, col.SampleValues)
	assert.Nil(t, col.Statistics)
}

func TestExtractSchema_RatiosAndStatistics(t *testing.T) {
	table := mustParse(t, "qty\n1\n2\n\n3\n4\n4\nNA")
	col := ExtractSchema(table, 1)[0]

	// Blank lines are skipped, so the column holds 1,2,3,4,4,null.
	assert.Equal(t, 0.17, col.NullRatio)
	assert.Equal(t, 0.8, col.UniqueRatio)
	require.NotNil(t, col.Statistics)
	assert.Equal(t, NumericStatistics{Min: 1, Max: 4, Mean: 2.8, Median: 3, StdDev: 1.17}, *col.Statistics)
}

func TestExtractSchema_Patterns(t *testing.T) {
	table := mustParse(t, "when,code\n2024-01-05,US\n01/05/2024,GB\n2024-02-01,USD")
	schemas := ExtractSchema(table, 2)

	assert.Equal(t, []string{"date:YYYY-MM-DD", "date:MM/DD/YYYY"}, schemaByName(schemas, "when").Patterns)
	assert.Equal(t, []string{"code:AA"}, schemaByName(schemas, "code").Patterns)
}

func TestExtractSchema_PatternScanLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("d\n")
	for range patternScanLimit {
		b.WriteString("2024-01-01\n")
	}
	b.WriteString("01/01/2024\n")

	col := ExtractSchema(mustParse(t, b.String()), 1)[0]
	assert.Equal(t, []string{"date:YYYY-MM-DD"}, col.Patterns)
}

func TestExtractSchema_Redaction(t *testing.T) {
	table := mustParse(t, strings.Join([]string{
		"card_number,contact,city,note",
		"4111-1111-1111-1111,jane@example.com,Oslo," + strings.Repeat("x", 60),
		"5500-0000-0000-0004,john@example.org,Bergen,short",
		"3400-0000-0000-009,555-123-4567,Tromso,ok",
		"6011-0000-0000-0004,+1 555 123 4567,Bodo,fine",
	}, "\n"))
	schemas := ExtractSchema(table, 2)

	card := schemaByName(schemas, "card_number")
	require.Len(t, card.SampleValues, maxSamples)
	for _, s := range card.SampleValues {
		assert.Equal(t, RedactionMarker, s)
	}

	for _, s := range schemaByName(schemas, "contact").SampleValues {
		assert.Equal(t, RedactionMarker, s)
	}

	assert.Equal(t, []string{"Oslo", "Bergen", "Tromso"}, schemaByName(schemas, "city").SampleValues)

	note := schemaByName(schemas, "note").SampleValues
	assert.Equal(t, strings.Repeat("x", maxSampleLength)+"...", note[0])
	assert.Equal(t, "short", note[1])
}

func TestRedactSample_SensitiveNames(t *testing.T) {
	for _, name := range []string{"PAN", "Card Number", "cardNo", "cvv", "SSN", "password", "api_key", "Account Number", "IBAN"} {
		assert.Equal(t, RedactionMarker, redactSample(name, "abc"), name)
	}
	assert.Equal(t, "abc", redactSample("city", "abc"))
}

func TestBuildMetadata(t *testing.T) {
	table := mustParse(t, "a,b\n1,x\n1,x\n2,\n3,y")
	schemas := ExtractSchema(table, 1)
	meta := BuildMetadata(table, schemas, "f.csv", 99, "abc", fixedNow)

	assert.Equal(t, "f.csv", meta.FileName)
	assert.Equal(t, int64(99), meta.FileSize)
	assert.Equal(t, 4, meta.RowCount)
	assert.Equal(t, 2, meta.ColumnCount)
	assert.Equal(t, StatisticalSummary{
		TotalCells:    8,
		NullCells:     1,
		UniqueRows:    3,
		DuplicateRows: 1,
	}, meta.Summary)
}

func TestDuplicateRowCount_ColumnOrderIndependent(t *testing.T) {
	a := mustParse(t, "x,y\n1,2\n1,2\n3,4")
	b := mustParse(t, "y,x\n2,1\n2,1\n4,3")

	ua, da := duplicateRowCount(a)
	ub, db := duplicateRowCount(b)
	assert.Equal(t, ua, ub)
	assert.Equal(t, da, db)
	assert.Equal(t, 1, da)
}

func TestOutlierFlags(t *testing.T) {
	vals := make([]Value, 0, 21)
	for range 20 {
		vals = append(vals, TypeValue("10"))
	}
	vals = append(vals, TypeValue("1000"))

	flags := outlierFlags(vals)
	assert.Equal(t, 1, countTrue(flags))
	assert.True(t, flags[20])

	assert.Zero(t, countTrue(outlierFlags([]Value{TypeValue("5"), TypeValue("5")})))
}

func TestNumericStatistics_ExtremeValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMin float64
		wantMax float64
	}{
		{name: "single huge value", content: "value\n1e307\n2\n3", wantMin: 2, wantMax: 1e307},
		{name: "both float limits", content: "value\n-1e308\n1e308\n0", wantMin: -1e308, wantMax: 1e308},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := ExtractSchema(mustParse(t, tt.content), 1)[0]
			require.Equal(t, TypeNumber, col.InferredType)
			require.NotNil(t, col.Statistics)

			st := *col.Statistics
			for _, f := range []float64{st.Min, st.Max, st.Mean, st.Median, st.StdDev} {
				assert.False(t, math.IsInf(f, 0) || math.IsNaN(f), "statistics = %+v", st)
			}
			assert.Equal(t, tt.wantMin, st.Min)
			assert.Equal(t, tt.wantMax, st.Max)

			_, err := json.Marshal(col)
			assert.NoError(t, err)
		})
	}
}

func TestMeanStdDev(t *testing.T) {
	mean, std := meanStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 1e-9)
	assert.InDelta(t, 2.0, std, 1e-9)

	mean, std = meanStdDev([]float64{-1e308, 1e308})
	assert.Equal(t, 0.0, mean)
	assert.InDelta(t, 1e308, std, 1e294)

	mean, std = meanStdDev([]float64{0, 0})
	assert.Zero(t, mean)
	assert.Zero(t, std)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.234, 1.23},
		{-2.346, -2.35},
		{1e307, 1e307},
		{-1.7e308, -1.7e308},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutlierFlags_HugeValues(t *testing.T) {
	vals := []Value{TypeValue("-1e308"), TypeValue("1e308"), TypeValue("0")}
	assert.Zero(t, countTrue(outlierFlags(vals)))
}
