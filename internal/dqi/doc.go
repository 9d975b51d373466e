// Package dqi computes Data Quality Intelligence reports for delimited text
// files.
//
// An analysis decodes the upload, parses it into typed rows, profiles every
// column, scores seven quality dimensions, combines them into a weighted
// composite with a letter grade and derives explanations, recommendations,
// a risk summary and a compliance verdict. The engine is stateless: the
// parsed rows are dropped once the report is assembled and only redacted
// samples of raw values reach the report.
//
//	e := dqi.New(dqi.WithParallelism(4))
//	report, err := e.Analyze(ctx, dqi.Input{FileName: "tx.csv", Size: n, Content: f})
package dqi
