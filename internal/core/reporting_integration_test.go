package core_test

import (
	"context"
	"testing"
	"time"

	"granite-console/internal/core"
)

func TestReporting_DashboardAndReports(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	inv := core.NewInventoryService(pool)
	invoices := core.NewInvoiceService(pool, inv)
	reporting := core.NewReportingService(pool, 50)

	today := time.Now()
	first := sampleInvoice(core.RecordItem{Particulars: "Black Granite", Quantity: 5, Rate: 1200})
	first.InvoiceDate = today.Format("2006-01-02")
	if _, err := invoices.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	second := sampleInvoice(core.RecordItem{Particulars: "Tan Brown", Quantity: 2, Rate: 800})
	second.InvoiceNo = "INV-TEST02"
	second.InvoiceDate = time.Date(today.Year(), today.Month()-1, 1, 0, 0, 0, 0, today.Location()).Format("2006-01-02")
	if _, err := invoices.Create(ctx, second); err != nil {
		t.Fatalf("Create: %v", err)
	}

	t.Run("dashboard", func(t *testing.T) {
		d, err := reporting.Dashboard(ctx, today)
		if err != nil {
			t.Fatalf("Dashboard: %v", err)
		}
		// Stock: 95 + 28 + 60
		if d.Summary.TotalStock != 183 {
			t.Errorf("totalStock = %v, want 183", d.Summary.TotalStock)
		}
		if d.Summary.TodaysSales != 7080 {
			t.Errorf("todaysSales = %v, want 7080", d.Summary.TodaysSales)
		}
		if d.Summary.TotalInvoices != 2 {
			t.Errorf("totalInvoices = %d, want 2", d.Summary.TotalInvoices)
		}
		if d.Summary.LowStockItems != 1 {
			t.Errorf("lowStockItems = %d, want 1", d.Summary.LowStockItems)
		}
		if len(d.MonthlySales) != 12 {
			t.Fatalf("monthlySales has %d entries", len(d.MonthlySales))
		}
		if d.MonthlySales[11].Revenue != 7080 || d.MonthlySales[10].Revenue != 1888 {
			t.Errorf("monthly revenue = %+v", d.MonthlySales[10:])
		}
	})

	t.Run("sales by month", func(t *testing.T) {
		r, err := reporting.Report(ctx, core.ReportSalesMonth, "", "")
		if err != nil {
			t.Fatalf("Report: %v", err)
		}
		if len(r.ReportData) != 2 {
			t.Fatalf("reportData = %+v", r.ReportData)
		}
		if r.KPIs.TotalRevenue != 8968 || r.KPIs.ItemsSold != 7 {
			t.Errorf("kpis = %+v", r.KPIs)
		}
		if r.KPIs.TopItem != "Black Granite" {
			t.Errorf("topItem = %q", r.KPIs.TopItem)
		}
		// 95×1200 + 28×800 + 60×950
		if r.KPIs.StockValue != 193400 {
			t.Errorf("stockValue = %v, want 193400", r.KPIs.StockValue)
		}
	})

	t.Run("date range narrows sales", func(t *testing.T) {
		r, err := reporting.Report(ctx, core.ReportSalesMonth, today.Format("2006-01-02"), today.Format("2006-01-02"))
		if err != nil {
			t.Fatalf("Report: %v", err)
		}
		if len(r.ReportData) != 1 || r.KPIs.TotalRevenue != 7080 {
			t.Errorf("report = %+v", r)
		}
	})

	t.Run("inventory composition", func(t *testing.T) {
		r, err := reporting.Report(ctx, core.ReportInventoryValue, "", "")
		if err != nil {
			t.Fatalf("Report: %v", err)
		}
		want := map[string]float64{"Black": 95, "Brown": 28, "White": 60}
		if len(r.ReportData) != len(want) {
			t.Fatalf("reportData = %+v", r.ReportData)
		}
		for _, p := range r.ReportData {
			if want[p.Type] != p.Quantity {
				t.Errorf("%s = %v, want %v", p.Type, p.Quantity, want[p.Type])
			}
		}
	})

	t.Run("invalid range", func(t *testing.T) {
		if _, err := reporting.Report(ctx, core.ReportSalesMonth, "2024-06-01", "2024-01-01"); !core.IsValidation(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}
