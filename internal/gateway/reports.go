package gateway

import (
	"context"
	"net/http"
	"net/url"

	"granite-console/internal/core"
)

func (c *Client) Dashboard(ctx context.Context) (*core.Dashboard, error) {
	var out core.Dashboard
	if err := c.do(ctx, "dashboard summary", http.MethodGet, "/reports/dashboard-summary", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Report fetches /reports/{type}?start=&end=. Empty bounds are sent empty.
func (c *Client) Report(ctx context.Context, reportType core.ReportType, start, end string) (*core.Report, error) {
	q := url.Values{}
	q.Set("start", start)
	q.Set("end", end)
	var out core.Report
	path := "/reports/" + escape(string(reportType)) + "?" + q.Encode()
	if err := c.do(ctx, "generate report", http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	if out.ReportType == "" {
		out.ReportType = reportType
	}
	return &out, nil
}
