package compare

import (
	"context"
	"errors"
	"fmt"

	"tablecompare/core/database"
	"tablecompare/core/logger"
	"tablecompare/core/reconcile"
	"tablecompare/core/source"
	"tablecompare/core/storage"

	"go.uber.org/zap"
)

// Notifier delivers the failing records of a report.
type Notifier interface {
	Notify(ctx context.Context, recipient string, rep *reconcile.Report) (bool, error)
}

// Service resolves descriptors into sources and runs comparisons.
type Service struct {
	cfg      Config
	storage  storage.Client
	connect  source.ConnectFunc
	notifier Notifier
	logger   *zap.Logger
	trusted  bool
}

// NewService creates a comparison service.
// storage, connect and notifier may be nil when the corresponding backend is
// not configured; requests needing them then fail with a descriptive error.
func NewService(cfg Config, client storage.Client, connect source.ConnectFunc, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:      cfg,
		storage:  client,
		connect:  connect,
		notifier: notifier,
		logger:   logger,
	}
}

// WithTrusted allows descriptors naming local files and database URLs.
func (s *Service) WithTrusted(trusted bool) *Service {
	s.trusted = trusted
	return s
}

// Opener resolves one descriptor. Database sources are sorted by the key
// columns of spec in its key order.
func (s *Service) Opener(d Descriptor, spec *reconcile.Spec) (reconcile.Opener, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	if d.isDatabase() {
		connect, err := s.connectFor(d.Database)
		if err != nil {
			return nil, err
		}
		if d.Table != "" {
			return source.NewTable(connect, d.Table, spec.KeyColumns).WithKeyOrder(spec.KeyOrder), nil
		}
		return source.NewQuery(connect, d.Query).SortedBy(spec.KeyOrder, spec.KeyColumns...), nil
	}

	delimiter := d.Delimiter
	if delimiter == "" {
		delimiter = s.cfg.Delimiter
	}
	comma, err := source.ParseDelimiter(delimiter)
	if err != nil {
		return nil, err
	}
	opts := source.CSVOptions{Delimiter: comma, NoHeader: d.NoHeader}

	if storage.IsURL(d.Path) {
		if s.storage == nil {
			return nil, errors.New("object storage is not configured")
		}
		return source.NewObjectFromURL(s.storage, d.Path, opts)
	}
	if !s.trusted {
		return nil, ErrUntrustedSource
	}
	return source.NewCSVFile(d.Path, opts), nil
}

func (s *Service) connectFor(url string) (source.ConnectFunc, error) {
	if url != "" {
		if !s.trusted {
			return nil, ErrUntrustedSource
		}
		cfg, err := database.ParseURL(url)
		if err != nil {
			return nil, err
		}
		return source.Dedicated(cfg), nil
	}
	if s.connect == nil {
		return nil, errors.New("no database is configured")
	}
	return s.connect, nil
}

// Spec builds the engine configuration of a request, applying the defaults.
func (s *Service) Spec(req Request) (*reconcile.Spec, error) {
	order := req.KeyOrder
	if order == "" {
		order = s.cfg.KeyOrder
	}
	switch reconcile.KeyOrder(order) {
	case "", reconcile.KeyOrderText, reconcile.KeyOrderNumeric:
	default:
		return nil, fmt.Errorf("unsupported key order %q (use text or numeric)", order)
	}

	maxFailures := s.cfg.MaxFailures
	if req.MaxFailures != nil {
		maxFailures = *req.MaxFailures
	}

	return &reconcile.Spec{
		KeyColumns:    req.KeyColumns,
		KeyOrder:      reconcile.KeyOrder(order),
		IgnoreColumns: req.IgnoreColumns,
		MaxFailures:   maxFailures,
	}, nil
}

// Run compares the two sides of req and mails the failing records when an
// email recipient is given. A notification failure is logged and reported in
// the result; it never discards the report.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, &InvalidRequestError{Err: err}
	}
	spec, err := s.Spec(req)
	if err != nil {
		return nil, &InvalidRequestError{Err: err}
	}

	left, err := s.Opener(req.Left, spec)
	if err != nil {
		return nil, &InvalidRequestError{Err: fmt.Errorf("left: %w", err)}
	}
	right, err := s.Opener(req.Right, spec)
	if err != nil {
		return nil, &InvalidRequestError{Err: fmt.Errorf("right: %w", err)}
	}

	prefetch := s.cfg.Prefetch
	if req.Prefetch != nil {
		prefetch = *req.Prefetch
	}

	l, runID := logger.WithRunID(s.logger)
	spec.Logger = l
	l.Info("Comparison started",
		zap.String("left", left.Name()),
		zap.String("right", right.Name()),
		zap.Strings("key", req.KeyColumns),
		zap.Int("prefetch", prefetch))

	rep, err := reconcile.Compare(ctx, spec, source.Prefetch(left, prefetch), source.Prefetch(right, prefetch))
	if err != nil {
		l.Error("Comparison failed", zap.Error(err))
		return nil, err
	}

	res := &Result{RunID: runID, Report: rep}
	if req.Email == "" {
		return res, nil
	}

	if s.notifier == nil {
		res.NotifyError = "notifications are not configured"
		l.Warn("Notification skipped", zap.String("reason", res.NotifyError))
		return res, nil
	}

	sent, err := s.notifier.Notify(ctx, req.Email, rep)
	if err != nil {
		res.NotifyError = err.Error()
		l.Warn("Notification failed", zap.String("recipient", req.Email), zap.Error(err))
		return res, nil
	}
	res.Notified = sent
	if sent {
		l.Info("Notification sent", zap.String("recipient", req.Email))
	}
	return res, nil
}
