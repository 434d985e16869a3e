package core

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/JonMunkholm/CrawlClean/internal/config"
	"github.com/JonMunkholm/CrawlClean/internal/logging"
	"github.com/google/uuid"
)

// Service provides the clean and validate operations used by the web and CLI frontends.
type Service struct {
	detector       Detector
	limiter        *RunLimiter
	skipValidation bool
	previewRows    int

	// now is read once per run so every row shares one capture timestamp.
	now func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock, for deterministic capture fields.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service from configuration.
func NewService(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if RetailerCount() == 0 {
		return nil, errors.New("no retailers registered")
	}

	s := &Service{
		detector:       NewDetector(cfg.Clean.SampleSize, cfg.Clean.MatchThreshold),
		limiter:        NewRunLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		skipValidation: cfg.Clean.SkipValidation,
		previewRows:    cfg.Clean.PreviewRows,
		now:            time.Now,
	}
	for _, def := range All() {
		if !slices.Contains(s.detector.HeaderRows, def.Info.HeaderRow) {
			s.detector.HeaderRows = append(s.detector.HeaderRows, def.Info.HeaderRow)
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CleanRequest is one table to clean.
type CleanRequest struct {
	Retailer       Retailer
	FileName       string
	Table          RawTable
	SkipValidation bool
}

// ListRetailers returns information about all registered retailers.
func (s *Service) ListRetailers() []RetailerInfo {
	defs := All()
	infos := make([]RetailerInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// HeaderRow returns the physical header row for a retailer's export.
func (s *Service) HeaderRow(r Retailer) (int, error) {
	def, ok := Get(r)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRetailer, r)
	}
	return def.Info.HeaderRow, nil
}

// PreviewRows is the number of rows frontends show after a run.
func (s *Service) PreviewRows() int {
	return s.previewRows
}

// Validate checks a raw table against the declared retailer.
func (s *Service) Validate(table RawTable, declared Retailer) Validation {
	return s.detector.Validate(table, declared)
}

// Clean validates and normalizes one table. Structural failures (unknown
// retailer, retailer mismatch, missing mandatory column, a failure inside a
// normalizer) abort the run with no partial output.
func (s *Service) Clean(ctx context.Context, req CleanRequest) (CleanResult, error) {
	def, ok := Get(req.Retailer)
	if !ok {
		return CleanResult{}, fmt.Errorf("%w: %q", ErrUnknownRetailer, req.Retailer)
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return CleanResult{}, err
	}
	defer s.limiter.Release()

	start := time.Now()
	result := CleanResult{
		RunID:     uuid.New().String(),
		Retailer:  req.Retailer,
		FileName:  req.FileName,
		InputRows: req.Table.Len(),
	}

	logger := logging.WithFields(ctx,
		"run_id", result.RunID,
		"retailer", req.Retailer,
		"file", req.FileName,
	)
	if ip := GetIPAddressFromContext(ctx); ip != "" {
		logger = logger.With("ip", ip)
	}
	if ua := GetUserAgentFromContext(ctx); ua != "" {
		logger = logger.With("user_agent", ua)
	}

	if !s.skipValidation && !req.SkipValidation {
		v := s.detector.Validate(req.Table, req.Retailer)
		result.Validation = &v
		if err := v.Err(); err != nil {
			logger.Warn("retailer validation failed",
				"detected", v.Detected,
				"url_column", v.URLColumn,
				"sampled", v.Sampled,
			)
			return result, err
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	table, err := normalizeSafely(def, req.Table.Clone(), NewCapture(s.now()))
	if err != nil {
		logger.Error("clean failed", "error", err)
		return result, err
	}

	result.Table = table
	result.Dropped = result.InputRows - len(table.Rows)
	result.Duration = time.Since(start)

	logger.Info("clean completed",
		"rows_in", result.InputRows,
		"rows_out", len(table.Rows),
		"dropped", result.Dropped,
		"columns", len(table.PresentColumns()),
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

// normalizeSafely runs a normalizer, turning a panic into ErrUnexpectedProcessing
// so a bad table never takes the process down and never yields partial output.
func normalizeSafely(def RetailerDefinition, raw RawTable, captured Capture) (table NormalizedTable, err error) {
	defer func() {
		if r := recover(); r != nil {
			table = NormalizedTable{}
			err = fmt.Errorf("%w: %v", ErrUnexpectedProcessing, r)
		}
	}()

	table, err = def.Normalize(raw, captured)
	if err != nil {
		return NormalizedTable{}, err
	}
	return table, nil
}

// WaitForRuns blocks until all active runs complete, for graceful shutdown.
func (s *Service) WaitForRuns(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// RunLimiterStatus returns the current run limiter state.
func (s *Service) RunLimiterStatus() RunLimiterStatus {
	return s.limiter.Status()
}
