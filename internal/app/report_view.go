package app

import (
	"context"
	"errors"
	"time"

	"granite-console/internal/core"
	"granite-console/internal/export"
)

// ErrNoReportData is returned when exporting with no report loaded, or with a
// report that has no data points.
var ErrNoReportData = errors.New("no report data available")

// ReportView holds the most recently generated report of one console session
// so it can be exported later. A failed fetch clears it.
type ReportView struct {
	source   ReportSource
	renderer export.Renderer
	now      func() time.Time
	current  *core.Report
}

func NewReportView(source ReportSource, renderer export.Renderer, now func() time.Time) *ReportView {
	if now == nil {
		now = time.Now
	}
	return &ReportView{source: source, renderer: renderer, now: now}
}

// Generate validates the request, fetches the report and makes it current.
func (v *ReportView) Generate(ctx context.Context, req ReportRequest) (*core.Report, error) {
	rt, err := core.ParseReportType(req.Type)
	if err != nil {
		return nil, err
	}
	start, end := core.DatePart(req.Start), core.DatePart(req.End)
	if err := core.ValidateDateRange(start, end); err != nil {
		return nil, err
	}

	rep, err := v.source.Report(ctx, rt, start, end)
	if err != nil {
		v.current = nil
		return nil, err
	}
	if rep.ReportType == "" {
		rep.ReportType = rt
	}
	v.current = rep
	return rep, nil
}

// Current returns the current report, or nil.
func (v *ReportView) Current() *core.Report {
	return v.current
}

// Filename is the export name of the current report.
func (v *ReportView) Filename() (string, error) {
	if v.current == nil || len(v.current.ReportData) == 0 {
		return "", ErrNoReportData
	}
	return export.ReportFilename(v.current.ReportType, v.now()), nil
}

// Export renders the current report to <reportType>-report-<YYYY-MM-DD>.pdf.
func (v *ReportView) Export() (*export.Result, error) {
	name, err := v.Filename()
	if err != nil {
		return nil, err
	}
	return v.renderer.RenderRegionToPDF(export.ReportRegion(v.current, v.now()), name)
}
