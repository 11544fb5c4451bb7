package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/viant/nfereport/cache"
	"github.com/viant/nfereport/export"
	"github.com/viant/nfereport/extractor"
	"github.com/viant/nfereport/filter"
	"github.com/viant/nfereport/job"
	"github.com/viant/nfereport/mapping"
	"github.com/viant/nfereport/report"
)

// Option configures the Service.
type Option func(*Service)

// WithTable sets the field mapping table.
func WithTable(table *mapping.Table) Option {
	return func(s *Service) { s.table = table }
}

// WithNamespace overrides the invoice namespace URI.
func WithNamespace(space string) Option {
	return func(s *Service) { s.namespace = space }
}

// WithStore sets the job store (default in-memory).
func WithStore(store job.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithPlaceholders sets the filter values treated as unset.
func WithPlaceholders(values ...string) Option {
	return func(s *Service) { s.placeholders = values }
}

// WithSheet sets the worksheet name.
func WithSheet(name string) Option {
	return func(s *Service) { s.sheet = name }
}

// WithFileName sets the report attachment name.
func WithFileName(name string) Option {
	return func(s *Service) { s.fileName = name }
}

// WithLogf sets the logger used for per-document failures and job events.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(s *Service) { s.logf = logf }
}

// Service exposes report generation and job tracking.
type Service struct {
	table        *mapping.Table
	namespace    string
	store        job.Store
	placeholders []string
	sheet        string
	fileName     string
	logf         func(format string, args ...any)

	extractor *extractor.Extractor
	writer    *export.Writer
	runner    *job.Runner
}

// NewService creates a new Service.
func NewService(opts ...Option) (*Service, error) {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.table == nil {
		s.table = mapping.Default()
	}
	if s.store == nil {
		s.store = job.NewMemoryStore()
	}
	if s.fileName == "" {
		s.fileName = export.DefaultFileName
	}
	if s.logf == nil {
		s.logf = func(string, ...any) {}
	}
	s.extractor = extractor.New(s.table, extractor.WithNamespace(s.namespace))
	s.writer = export.NewWriter(export.WithSheet(s.sheet))
	s.runner = job.NewRunner(s.store, s.logf)
	return s, nil
}

// NewServiceFromConfig creates a Service from a loaded config.
func NewServiceFromConfig(ctx context.Context, cfg *Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		return NewService(opts...)
	}
	var base []Option
	switch cfg.Jobs.Driver {
	case "", "memory":
	case "sqlite":
		if cfg.Jobs.DSN == "" {
			return nil, fmt.Errorf("service: jobs.dsn required for sqlite driver")
		}
		store, err := job.OpenSQLite(ctx, cfg.Jobs.DSN)
		if err != nil {
			return nil, err
		}
		base = append(base, WithStore(store))
	default:
		return nil, fmt.Errorf("service: unsupported jobs driver %q", cfg.Jobs.Driver)
	}
	base = append(base,
		WithSheet(cfg.Report.Sheet),
		WithFileName(cfg.Report.FileName),
		WithNamespace(cfg.Report.Namespace),
	)
	if len(cfg.Report.Placeholders) > 0 {
		base = append(base, WithPlaceholders(cfg.Report.Placeholders...))
	}
	return NewService(append(base, opts...)...)
}

// Close waits for running jobs and releases the job store.
func (s *Service) Close() error {
	s.runner.Wait()
	return s.store.Close()
}

// Table returns the field mapping table.
func (s *Service) Table() *mapping.Table { return s.table }

// Process runs extraction and filtering without rendering.
func (s *Service) Process(req GenerateRequest) *report.Result {
	criteria := filter.Normalize(req.Filters, s.placeholders...)
	processor := report.New(s.extractor, report.WithMode(req.Mode), report.WithCriteria(criteria))
	result := processor.Process(req.Sources)
	for _, docErr := range result.Errors {
		s.logf("report: source=%s err=%v", docErr.Source, docErr.Message)
	}
	return result
}

// Generate processes the request and renders the spreadsheet. It returns
// export.ErrEmptyResult when no row survives.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Report, error) {
	if len(req.Sources) == 0 {
		return nil, ErrNoInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := s.Process(req)
	data, err := s.writer.Bytes(s.table.Titles(), result.Rows)
	if err != nil {
		if errors.Is(err, export.ErrEmptyResult) {
			s.logf("report: documents=%d failed=%d rows=0", result.Documents, len(result.Errors))
		}
		return nil, err
	}
	s.logf("report: documents=%d failed=%d rows=%d mode=%s", result.Documents, len(result.Errors), len(result.Rows), req.Mode)
	return &Report{
		Data:      data,
		FileName:  s.fileName,
		Rows:      len(result.Rows),
		Documents: result.Documents,
		Errors:    result.Errors,
		ETag:      cache.ETag(data),
	}, nil
}

// Submit schedules Generate as a background job and returns its id.
func (s *Service) Submit(ctx context.Context, req GenerateRequest) (string, error) {
	if len(req.Sources) == 0 {
		return "", ErrNoInput
	}
	return s.runner.Submit(ctx, func(ctx context.Context) (*job.Artifact, error) {
		rep, err := s.Generate(ctx, req)
		if err != nil {
			return nil, err
		}
		artifact := &job.Artifact{Data: rep.Data, Rows: rep.Rows, Documents: rep.Documents}
		for _, e := range rep.Errors {
			artifact.Errors = append(artifact.Errors, e.Error())
		}
		return artifact, nil
	})
}

// Status returns the job state.
func (s *Service) Status(ctx context.Context, id string) (*JobInfo, error) {
	j, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return newJobInfo(j), nil
}

// Artifact returns the spreadsheet of a ready job, job.ErrNotReady while
// pending, or the failure message wrapped for failed jobs.
func (s *Service) Artifact(ctx context.Context, id string) (*Report, error) {
	j, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch j.Status {
	case job.StatusPending:
		return nil, job.ErrNotReady
	case job.StatusFailed:
		return nil, &JobError{ID: id, Message: j.Error}
	}
	if j.Artifact == nil {
		return nil, fmt.Errorf("service: job %s has no artifact", id)
	}
	return &Report{
		Data:      j.Artifact.Data,
		FileName:  s.fileName,
		Rows:      j.Artifact.Rows,
		Documents: j.Artifact.Documents,
		ETag:      cache.ETag(j.Artifact.Data),
	}, nil
}

// Prune removes finished jobs older than ttl.
func (s *Service) Prune(ctx context.Context, ttl time.Duration) (int, error) {
	return s.store.Prune(ctx, time.Now().Add(-ttl))
}

// Wait blocks until running jobs finish.
func (s *Service) Wait() { s.runner.Wait() }
