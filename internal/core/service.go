package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JonMunkholm/dqi/internal/dqi"
	"github.com/JonMunkholm/dqi/internal/logging"
	"github.com/JonMunkholm/dqi/internal/metrics"
	"github.com/JonMunkholm/dqi/internal/store"
)

var (
	// ErrNoFile is returned when an analysis request carries no content.
	ErrNoFile = errors.New("no file provided")

	// ErrFileTooLarge is returned when the declared size exceeds the limit.
	ErrFileTooLarge = errors.New("file too large")
)

// DefaultAnalysisTimeout bounds one analysis when no timeout is configured.
const DefaultAnalysisTimeout = 2 * time.Minute

// ServiceOptions configures a Service. Zero values select defaults.
type ServiceOptions struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWait       time.Duration
	Timeout       time.Duration
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
	Clock         func() time.Time
}

// Service runs analyses and manages their stored reports. It is safe for
// concurrent use.
type Service struct {
	engine      *dqi.Engine
	store       store.ReportStore
	limiter     *AnalysisLimiter
	maxFileSize int64
	timeout     time.Duration
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// AnalyzeRequest is one file submitted for analysis. Size is the size
// declared by the caller; Content is read to the end.
type AnalyzeRequest struct {
	FileName string
	Size     int64
	Content  io.Reader
}

// NewService wires an engine to a report store. A nil store keeps reports
// in memory for the life of the process.
func NewService(engine *dqi.Engine, st store.ReportStore, opts ServiceOptions) *Service {
	if engine == nil {
		engine = dqi.New()
	}
	if st == nil {
		st = store.NewMemory()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultAnalysisTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Service{
		engine:      engine,
		store:       st,
		limiter:     NewAnalysisLimiter(opts.MaxConcurrent, opts.MaxWait),
		maxFileSize: opts.MaxFileSize,
		timeout:     opts.Timeout,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		now:         opts.Clock,
	}
}

// Analyze scores one file and stores the report under its evaluation id.
// Nothing is stored when the analysis fails.
//
// Returns ErrTooManyAnalyses if no analysis slot frees up in time.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*dqi.Report, error) {
	start := time.Now()
	log := s.requestLogger(ctx).With("file", req.FileName, "size", req.Size)

	if req.Content == nil {
		return nil, ErrNoFile
	}
	if s.maxFileSize > 0 && req.Size > s.maxFileSize {
		s.metrics.ObserveAnalysis(metrics.OutcomeRejected, time.Since(start))
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, req.Size, s.maxFileSize)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		s.metrics.ObserveAnalysis(metrics.OutcomeRejected, time.Since(start))
		log.Warn("analysis rejected", "error", err, "active", s.limiter.ActiveCount())
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report, err := s.run(ctx, req)
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, dqi.ErrNoData) {
			outcome = metrics.OutcomeNoData
		}
		s.metrics.ObserveAnalysis(outcome, time.Since(start))
		log.Warn("analysis failed", "error", err, "code", MapError(err).Code)
		return nil, err
	}

	id := report.AuditTrail.EvaluationID
	if err := s.store.Put(ctx, id, report); err != nil {
		s.metrics.ObserveAnalysis(metrics.OutcomeError, time.Since(start))
		log.Error("store report failed", "evaluation_id", id, "error", err)
		return nil, fmt.Errorf("store report: %w", err)
	}

	s.metrics.ObserveAnalysis(metrics.OutcomeSuccess, time.Since(start))
	s.metrics.ObserveReport(report)

	log.Info("analysis complete",
		"evaluation_id", id,
		"rows", report.Metadata.RowCount,
		"columns", report.Metadata.ColumnCount,
		"score", report.Composite.Score,
		"grade", report.Composite.Grade,
		"compliance", report.ComplianceStatus,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// run invokes the engine, turning a panic into an error so the caller's
// deferred Release still runs on a clean stack.
func (s *Service) run(ctx context.Context, req AnalyzeRequest) (report *dqi.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in analysis", "file", req.FileName, "panic", r)
			report, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	return s.engine.Analyze(ctx, dqi.Input{
		FileName: req.FileName,
		Size:     req.Size,
		Content:  req.Content,
	})
}

// Report returns the stored report for an evaluation id.
func (s *Service) Report(ctx context.Context, id string) (*dqi.Report, error) {
	return s.store.Get(ctx, id)
}

// DeleteReport removes a stored report. It reports store.ErrNotFound when
// no report exists under id.
func (s *Service) DeleteReport(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.requestLogger(ctx).Info("report deleted", "evaluation_id", id)
	return nil
}

// EngineVersion returns the version stamped into new reports.
func (s *Service) EngineVersion() string {
	return s.engine.Version()
}

// LimiterStatus returns the analysis slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForAnalyses blocks until in-flight analyses finish or ctx ends.
func (s *Service) WaitForAnalyses(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Close releases the report store.
func (s *Service) Close() error {
	return s.store.Close()
}

func (s *Service) requestLogger(ctx context.Context) *slog.Logger {
	log := logging.Attach(ctx, s.logger)
	if ip := ClientIPFromContext(ctx); ip != "" {
		log = log.With("client_ip", ip)
	}
	return log
}
