// Package service imports rosters: it parses the upload, validates every row
// against the personal numeric code it carries, and optionally onboards the
// valid rows as residents.
package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	residentmodels "carehub/internal/residents/models"
	residentservice "carehub/internal/residents/service"
	rostermetrics "carehub/internal/roster/metrics"
	"carehub/internal/roster/models"
	"carehub/internal/roster/parser"
	"carehub/internal/roster/tracer"
	"carehub/pkg/domain"
	dErrors "carehub/pkg/domain-errors"
	platformsync "carehub/pkg/platform/sync"
	"carehub/pkg/requestcontext"
)

// ResidentCreator onboards one resident. Satisfied by the residents service.
type ResidentCreator interface {
	Create(ctx context.Context, cmd residentservice.CreateCommand) (*residentmodels.Resident, error)
}

const (
	defaultMaxRows = 2000
	defaultWorkers = 8
)

type Service struct {
	residents ResidentCreator
	tracer    tracer.Tracer
	logger    *slog.Logger
	metrics   *rostermetrics.Metrics
	maxRows   int
	workers   int

	// Commits for one tenant run one at a time.
	tenantLocks *platformsync.ShardedMutex
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *rostermetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithLimits bounds rows per import and concurrent row validations.
// Non-positive values keep the defaults.
func WithLimits(maxRows, workers int) Option {
	return func(s *Service) {
		if maxRows > 0 {
			s.maxRows = maxRows
		}
		if workers > 0 {
			s.workers = workers
		}
	}
}

func New(residents ResidentCreator, opts ...Option) *Service {
	s := &Service{
		residents:   residents,
		tracer:      tracer.NewNoop(),
		maxRows:     defaultMaxRows,
		workers:     defaultWorkers,
		tenantLocks: platformsync.NewShardedMutex(platformsync.DefaultShards),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportCommand is one uploaded roster.
type ImportCommand struct {
	TenantID domain.TenantID
	Format   parser.Format
	Data     []byte
	// Commit onboards valid rows as residents of Kind.
	Commit bool
	Kind   residentmodels.Kind
}

// Import parses and validates a roster. Row problems are reported in the
// report; only unreadable files, oversized rosters, and store failures are errors.
func (s *Service) Import(ctx context.Context, cmd ImportCommand) (report *models.Report, err error) {
	if cmd.TenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	if cmd.Commit && !cmd.Kind.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "kind must be one of [child elder patient guest], got %q", cmd.Kind)
	}

	start := time.Now()
	importID := domain.NewImportID()
	ctx, span := s.tracer.Start(ctx, tracer.SpanImport,
		tracer.String(tracer.AttrTenantID, cmd.TenantID.String()),
		tracer.String(tracer.AttrImportID, importID.String()),
		tracer.String(tracer.AttrFormat, string(cmd.Format)),
		tracer.Bool("commit", cmd.Commit),
	)
	defer func() {
		span.End(err)
		s.observe(cmd.Format, report, err, start)
	}()

	parsed, err := s.parse(ctx, cmd)
	if err != nil {
		return nil, err
	}

	asOf := requestcontext.Now(ctx)
	rows, codes, err := s.validate(ctx, parsed.Rows, asOf)
	if err != nil {
		return nil, err
	}
	flagDuplicates(rows, codes)

	report = &models.Report{
		ImportID:   importID,
		TenantID:   cmd.TenantID,
		Format:     string(parsed.Format),
		HeaderLine: parsed.HeaderLine,
		AsOf:       asOf,
		Committed:  cmd.Commit,
		Rows:       rows,
	}

	if cmd.Commit {
		if err := s.commit(ctx, cmd, report, codes); err != nil {
			return nil, err
		}
	}
	report.Tally()

	span.SetAttributes(
		tracer.Int(tracer.AttrRows, report.Total),
		tracer.Int(tracer.AttrValid, report.Valid),
		tracer.Int(tracer.AttrInvalid, report.Invalid),
	)
	s.logInfo(ctx, "roster imported",
		"tenant_id", cmd.TenantID.String(),
		"import_id", importID.String(),
		"format", report.Format,
		"rows", report.Total,
		"valid", report.Valid,
		"invalid", report.Invalid,
		"committed", report.CommittedRows(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return report, nil
}

func (s *Service) parse(ctx context.Context, cmd ImportCommand) (res *parser.Result, err error) {
	_, span := s.tracer.Start(ctx, tracer.SpanParse, tracer.String(tracer.AttrFormat, string(cmd.Format)))
	defer func() { span.End(err) }()

	res, err = parser.Parse(cmd.Data, cmd.Format, s.maxRows)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeTooLarge) {
			span.AddEvent(tracer.EventRowLimit, tracer.Int(tracer.AttrRows, s.maxRows))
		}
		return nil, err
	}
	span.AddEvent(tracer.EventHeaderFound, tracer.Int(tracer.AttrHeaderRow, res.HeaderLine))
	span.SetAttributes(tracer.Int(tracer.AttrRows, len(res.Rows)))
	return res, nil
}

// validate checks rows on a bounded worker pool. Each worker writes only its
// own index, so output order matches input order.
func (s *Service) validate(ctx context.Context, rows []parser.Row, asOf time.Time) (results []models.RowResult, codes []string, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanValidate, tracer.Int(tracer.AttrRows, len(rows)))
	defer func() { span.End(err) }()

	results = make([]models.RowResult, len(rows))
	codes = make([]string, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, row := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], codes[i] = validateRow(row, asOf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeTimeout, "roster validation cancelled")
	}
	return results, codes, nil
}

// commit onboards valid rows in file order. A code already enrolled in the
// tenant turns the row invalid; any other failure aborts the import.
func (s *Service) commit(ctx context.Context, cmd ImportCommand, report *models.Report, codes []string) (err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanCommit)
	defer func() { span.End(err) }()

	tenant := cmd.TenantID.String()
	s.tenantLocks.Lock(tenant)
	defer s.tenantLocks.Unlock(tenant)

	committed := 0
	for i := range report.Rows {
		row := &report.Rows[i]
		if !row.Valid {
			continue
		}
		if err := ctx.Err(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "roster commit cancelled")
		}
		resident, err := s.residents.Create(ctx, residentservice.CreateCommand{
			TenantID: cmd.TenantID,
			FullName: row.Name,
			CNP:      codes[i],
			Kind:     cmd.Kind,
			Group:    row.Group,
		})
		switch {
		case err == nil:
			row.Committed = true
			row.ResidentID = resident.ID.String()
			committed++
		case dErrors.HasCode(err, dErrors.CodeConflict):
			row.Valid = false
			row.Errors = append(row.Errors, lineError(row.Line, "CNP is already enrolled"))
		case dErrors.HasCode(err, dErrors.CodeValidation):
			row.Valid = false
			row.Errors = append(row.Errors, lineError(row.Line, "%s", err.Error()))
		default:
			return err
		}
	}
	span.SetAttributes(tracer.Int(tracer.AttrCommitted, committed))
	return nil
}

func (s *Service) observe(format parser.Format, report *models.Report, err error, start time.Time) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
		if outcome == "" {
			outcome = string(dErrors.CodeInternal)
		}
	}
	s.metrics.IncrementImport(string(format), outcome)
	s.metrics.ObserveImport(start)
	if report != nil {
		s.metrics.AddRows(report.Valid, report.Invalid, report.CommittedRows())
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
