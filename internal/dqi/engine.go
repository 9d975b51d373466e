package dqi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EngineVersion is stamped into every audit trail.
const EngineVersion = "1.0.0"

// hashContentLimit bounds the prefix of the decoded text that is digested.
const hashContentLimit = 10000

// Input is one uploaded file to analyze.
type Input struct {
	FileName string
	Size     int64
	Content  io.Reader
}

// Engine runs the analysis pipeline. It holds no per-analysis state and is
// safe for concurrent use.
type Engine struct {
	now         func() time.Time
	version     string
	parallelism int
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for timeliness and audit stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithVersion overrides the engine version recorded in the audit trail.
func WithVersion(v string) Option {
	return func(e *Engine) {
		if v != "" {
			e.version = v
		}
	}
}

// WithParallelism caps the number of columns profiled concurrently.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithLogger sets the logger for stage timings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		now:         time.Now,
		version:     EngineVersion,
		parallelism: runtime.GOMAXPROCS(0),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Version returns the engine version recorded in reports.
func (e *Engine) Version() string { return e.version }

// Analyze reads, profiles and scores the input and returns the assembled report.
// It fails only with ErrRead, ErrNoData, ErrHash or a context error.
func (e *Engine) Analyze(ctx context.Context, in Input) (*Report, error) {
	start := time.Now()

	content, err := Decode(in.Content)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report, err := e.analyzeContent(ctx, in.FileName, in.Size, content)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("analysis complete",
		"evaluation_id", report.AuditTrail.EvaluationID,
		"rows", report.Metadata.RowCount,
		"columns", report.Metadata.ColumnCount,
		"score", report.Composite.Score,
		"duration", time.Since(start),
	)
	return report, nil
}

// AnalyzeContent scores already-decoded text. size is reported as-is in the
// metadata; pass the original byte length when known.
func (e *Engine) AnalyzeContent(ctx context.Context, fileName string, size int64, content string) (*Report, error) {
	return e.analyzeContent(ctx, fileName, size, content)
}

func (e *Engine) analyzeContent(ctx context.Context, fileName string, size int64, content string) (*Report, error) {
	stage := time.Now()
	table, err := ParseTable(content)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("parsed table",
		"rows", len(table.Rows),
		"columns", len(table.Columns),
		"dropped", table.DroppedRows,
		"duration", time.Since(stage),
	)

	hash, err := contentHash(content)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := e.now()

	stage = time.Now()
	schemas := ExtractSchema(table, e.parallelism)
	meta := BuildMetadata(table, schemas, fileName, size, hash, now)
	e.logger.Debug("extracted schema", "duration", time.Since(stage))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stage = time.Now()
	dims := evaluateDimensions(newScoringInput(table, &meta, now))
	normalizeWeights(dims)
	composite := compositeScore(dims, meta.RowCount)
	e.logger.Debug("scored dimensions", "duration", time.Since(stage))

	return &Report{
		Metadata:         meta,
		Dimensions:       dims,
		Composite:        composite,
		Explanations:     explain(dims),
		Recommendations:  recommend(dims),
		RiskSummary:      riskSummary(composite.Grade, dims),
		ComplianceStatus: complianceStatus(composite.Score, dims),
		AuditTrail: AuditTrail{
			EvaluationID:     newEvaluationID(now),
			Timestamp:        now,
			EngineVersion:    e.version,
			ChecksumVerified: hash != "",
		},
	}, nil
}

// contentHash digests the first hashContentLimit characters of content.
func contentHash(content string) (string, error) {
	prefix := content
	n := 0
	for i := range content {
		if n == hashContentLimit {
			prefix = content[:i]
			break
		}
		n++
	}

	h := sha256.New()
	if _, err := io.WriteString(h, prefix); err != nil {
		return "", fmt.Errorf("%w: %w", ErrHash, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// newEvaluationID returns DQI-<unix millis>-<8 uppercase hex>.
func newEvaluationID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("DQI-%d-%s", now.UnixMilli(), strings.ToUpper(suffix))
}
