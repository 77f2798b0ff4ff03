package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"granite-console/internal/core"
)

// ReportFilename is the export file name for a report generated on day.
func ReportFilename(reportType core.ReportType, day time.Time) string {
	return fmt.Sprintf("%s-report-%s.pdf", reportType, day.Format("2006-01-02"))
}

// ReportRegion lays out a generated report: the KPI summary followed by the data table.
func ReportRegion(r *core.Report, generated time.Time) Region {
	title := "Sales Report"
	cols := []Column{{Title: "Month", Width: 100}, {Title: "Revenue", Width: 90, Align: AlignRight}}
	if r.ReportType == core.ReportInventoryValue {
		title = "Inventory Report"
		cols = []Column{{Title: "Colour", Width: 100}, {Title: "Quantity", Width: 90, Align: AlignRight}}
	}

	period := "All dates"
	switch {
	case r.Start != "" && r.End != "":
		period = r.Start + " to " + r.End
	case r.Start != "":
		period = "From " + r.Start
	case r.End != "":
		period = "Up to " + r.End
	}

	topItem := r.KPIs.TopItem
	if topItem == "" {
		topItem = "-"
	}

	table := &Table{Columns: cols}
	for _, p := range r.ReportData {
		value := decimal.NewFromFloat(p.Value())
		cell := value.StringFixed(2)
		if r.ReportType == core.ReportSalesMonth {
			cell = core.FormatINR(value)
		}
		table.Rows = append(table.Rows, []string{p.Name(), cell})
	}

	return Region{
		Title:    title,
		Subtitle: fmt.Sprintf("%s · generated %s", period, generated.Format("2006-01-02")),
		Blocks: []Block{
			{Heading: "Summary", Pairs: []Pair{
				{"Total Revenue", core.FormatINR(decimal.NewFromFloat(r.KPIs.TotalRevenue))},
				{"Items Sold", decimal.NewFromFloat(r.KPIs.ItemsSold).String()},
				{"Stock Value", core.FormatINR(decimal.NewFromFloat(r.KPIs.StockValue))},
				{"Top Item", topItem},
			}},
			{Heading: "Details", Table: table},
		},
	}
}
