package core

import (
	"fmt"
	"strings"
	"time"
)

// ── Dashboard ─────────────────────────────────────────────────────────────────

// DashboardSummary holds the headline numbers shown on the dashboard cards.
type DashboardSummary struct {
	TotalStock    float64 `json:"totalStock"`
	TodaysSales   float64 `json:"todaysSales"`
	TotalInvoices int     `json:"totalInvoices"`
	LowStockItems int     `json:"lowStockItems"`
}

// MonthlySales is the invoiced revenue of one calendar month ("2024-03").
type MonthlySales struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// Dashboard is the dashboard-summary response.
type Dashboard struct {
	Summary      DashboardSummary `json:"summary"`
	MonthlySales []MonthlySales   `json:"monthlySales"`
}

// LastTwelveMonths returns the YYYY-MM labels of the twelve months ending with
// the month of now, oldest first.
func LastTwelveMonths(now time.Time) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	labels := make([]string, 12)
	for i := 0; i < 12; i++ {
		labels[i] = first.AddDate(0, i-11, 0).Format("2006-01")
	}
	return labels
}

// ── Reports ───────────────────────────────────────────────────────────────────

// ReportType selects which report to generate.
type ReportType string

const (
	ReportSalesMonth     ReportType = "sales-month"
	ReportInventoryValue ReportType = "inventory-value"
)

// ParseReportType validates a report type name.
func ParseReportType(s string) (ReportType, error) {
	switch rt := ReportType(strings.ToLower(strings.TrimSpace(s))); rt {
	case ReportSalesMonth, ReportInventoryValue:
		return rt, nil
	case "":
		return ReportSalesMonth, nil
	}
	return "", &ValidationError{Field: "reportType", Message: fmt.Sprintf("unknown report type %q (want sales-month or inventory-value)", s)}
}

// ReportKPIs are the four headline figures shown above every report.
type ReportKPIs struct {
	TotalRevenue float64 `json:"totalRevenue"`
	ItemsSold    float64 `json:"itemsSold"`
	StockValue   float64 `json:"stockValue"`
	TopItem      string  `json:"topItem"`
}

// ReportPoint is one data point of a report. Sales reports fill Label and
// Revenue; inventory composition reports fill Type and Quantity. The numbers
// are always serialised so a zero is charted as zero.
type ReportPoint struct {
	Label    string  `json:"label,omitempty"`
	Revenue  float64 `json:"revenue"`
	Type     string  `json:"type,omitempty"`
	Quantity float64 `json:"quantity"`
}

// Name is the point's label or composition type.
func (p ReportPoint) Name() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Type
}

// Value is the point's revenue or quantity.
func (p ReportPoint) Value() float64 {
	if p.Label != "" {
		return p.Revenue
	}
	return p.Quantity
}

// Report is a generated report.
type Report struct {
	ReportType ReportType    `json:"reportType"`
	Start      string        `json:"start,omitempty"`
	End        string        `json:"end,omitempty"`
	KPIs       ReportKPIs    `json:"kpis"`
	ReportData []ReportPoint `json:"reportData"`
}

// ValidateDateRange checks optional YYYY-MM-DD bounds.
func ValidateDateRange(start, end string) error {
	for field, v := range map[string]string{"start": start, "end": end} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return &ValidationError{Field: field, Message: fmt.Sprintf("invalid %s date %q (want YYYY-MM-DD)", field, v)}
		}
	}
	if start != "" && end != "" && start > end {
		return &ValidationError{Field: "end", Message: "end date is before start date"}
	}
	return nil
}
