package query

import (
	"context"

	"github.com/alga4school/katysym/internal/domain/period"
	"github.com/alga4school/katysym/internal/domain/reporting"
	"github.com/alga4school/katysym/internal/domain/shared"
	"github.com/alga4school/katysym/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT REPORT QUERY
// Resolves the period, fetches a fresh report, and serializes it into the
// semicolon-delimited CSV download. A NoData condition aborts with no file.
// ══════════════════════════════════════════════════════════════════════════════

// ExportReportQuery contains the period selection and class filter.
type ExportReportQuery struct {
	Period     period.Selection
	ClassLabel string
}

// ExportReportHandler handles export queries.
type ExportReportHandler struct {
	provider ReportProvider
	clock    shared.Clock
	logger   *logger.Logger
}

// NewExportReportHandler creates the handler.
func NewExportReportHandler(provider ReportProvider, clock shared.Clock, log *logger.Logger) *ExportReportHandler {
	if log == nil {
		log = logger.Default()
	}
	return &ExportReportHandler{
		provider: provider,
		clock:    clock,
		logger:   log.With(logger.Component("query.export_report")),
	}
}

// Handle produces the export file bytes and the deterministic filename.
func (h *ExportReportHandler) Handle(ctx context.Context, q ExportReportQuery) (reporting.ExportFile, error) {
	rng, ok := period.Resolve(q.Period, h.clock)
	if !ok {
		return reporting.ExportFile{}, shared.ErrPeriodInput
	}

	filter, err := classFilter(q.ClassLabel)
	if err != nil {
		return reporting.ExportFile{}, err
	}

	report, err := h.provider.FetchReport(ctx, rng, filter)
	if err != nil {
		return reporting.ExportFile{}, err
	}

	file, err := reporting.Export(report, rng, q.ClassLabel)
	if err != nil {
		return reporting.ExportFile{}, err
	}

	h.logger.Info("export built",
		logger.String("file", file.Name),
		logger.Int("bytes", len(file.Content)),
		logger.ClassLabel(q.ClassLabel),
	)
	return file, nil
}
