package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"settlement-profit/internal/domain"
)

// ReportUseCase runs the reconciliation engine over one settlement report.
// It keeps no state between calls.
type ReportUseCase struct {
	source       WorkbookSource
	writer       ReportWriter
	layout       domain.ColumnLayout
	strictHeader bool
	logger       *slog.Logger
}

// Option configures a ReportUseCase.
type Option func(*ReportUseCase)

// WithLayout overrides the column layout of the settlement report.
func WithLayout(layout domain.ColumnLayout) Option {
	return func(uc *ReportUseCase) {
		uc.layout = layout
	}
}

// WithStrictHeader requires header labels to match the layout.
func WithStrictHeader(strict bool) Option {
	return func(uc *ReportUseCase) {
		uc.strictHeader = strict
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(uc *ReportUseCase) {
		if logger != nil {
			uc.logger = logger
		}
	}
}

// NewReportUseCase creates a new instance of the usecase.
func NewReportUseCase(source WorkbookSource, writer ReportWriter, opts ...Option) *ReportUseCase {
	uc := &ReportUseCase{
		source: source,
		writer: writer,
		layout: domain.DefaultLayout,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Reconcile reads the report at req.ReportPath in a single pass, reconciles logistics
// charges, computes profit per entry and writes the result to req.OutputPath.
// Any read or write failure fails the whole call.
func (uc *ReportUseCase) Reconcile(ctx context.Context, req domain.ReconcileRequest) (*domain.ReconcileResult, error) {
	if req.ReportPath == "" || req.OutputPath == "" {
		return nil, fmt.Errorf("%w: report and output paths are required", domain.ErrInvalidRequest)
	}

	pricing, skipped := BuildPricingIndex(req.Pricing)
	for _, err := range skipped {
		uc.logger.Warn("pricing entry skipped", slog.String("error", err.Error()))
	}

	stats := domain.RunStats{
		PricingEntries: len(pricing),
		PricingSkipped: len(skipped),
	}
	calc := NewProfitCalculator(pricing)
	reconciler := NewReconciler()
	var rows []domain.ReportRow
	headerSeen := false

	err := uc.source.Rows(ctx, req.ReportPath, func(cells []string) error {
		if !headerSeen {
			headerSeen = true
			return uc.layout.Validate(cells, uc.strictHeader)
		}
		stats.RowsRead++
		raw, ok := ExtractRow(cells, uc.layout)
		if !ok {
			return nil
		}
		stats.RowsRetained++
		if entry, emit := reconciler.Step(raw); emit {
			rows = append(rows, calc.Compute(entry))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not read settlement report: %w", err)
	}
	if !headerSeen {
		return nil, fmt.Errorf("could not read settlement report: %w: %s has no header row", domain.ErrInvalidWorkbook, req.ReportPath)
	}

	flushed := reconciler.Flush()
	for _, entry := range flushed {
		rows = append(rows, calc.Compute(entry))
	}
	stats.PendingFlushed = len(flushed)
	stats.EntriesEmitted = len(rows)

	totals := calc.Totals()
	if err := uc.writer.WriteReport(ctx, req.OutputPath, BuildReport(rows, totals)); err != nil {
		return nil, fmt.Errorf("could not write report: %w", err)
	}

	uc.logger.Info("settlement report reconciled",
		slog.String("report", req.ReportPath),
		slog.String("artifact", req.OutputPath),
		slog.Int("rows_read", stats.RowsRead),
		slog.Int("rows_retained", stats.RowsRetained),
		slog.Int("entries", stats.EntriesEmitted),
		slog.Int("pending_flushed", stats.PendingFlushed),
	)

	return &domain.ReconcileResult{
		ArtifactPath: req.OutputPath,
		Totals:       totals.Round(presentationPlaces),
		Stats:        stats,
	}, nil
}
