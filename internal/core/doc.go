// Package core runs data quality analyses for the service and the CLI.
//
// It sits between the transports and the scoring engine in package dqi. The
// engine only turns bytes into a report; core decides how many analyses run
// at once, how long one may take, where its report is kept and for how long.
//
// # Service
//
// [Service.Analyze] takes a slot from the [AnalysisLimiter], runs the engine
// under a timeout and stores the report under its evaluation id. Reports are
// read back with [Service.Report] and removed with [Service.DeleteReport].
//
//	svc := core.NewService(dqi.New(), reports, core.ServiceOptions{MaxConcurrent: 4})
//	report, err := svc.Analyze(ctx, core.AnalyzeRequest{FileName: name, Size: n, Content: f})
//
// # Retention
//
// [Service.StartRetention] prunes stored reports older than the configured
// retention period on a fixed interval.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a code for support reference:
//
//   - FILE001-FILE005: File errors (size, form, read, missing, no data)
//   - ANL001-ANL004: Analysis errors (checksum, busy, cancelled, timeout)
//   - RPT001-RPT002: Report lookup errors
//   - STO001-STO002: Report store connectivity
package core
