package export_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"granite-console/internal/core"
	"granite-console/internal/export"
)

func newDraft(t *testing.T, items int) *core.InvoiceDraft {
	t.Helper()
	d := core.NewDraft(core.DraftDefaults{
		Now:         time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		CGSTPercent: decimal.NewFromInt(9),
		SGSTPercent: decimal.NewFromInt(9),
	})
	if err := d.SetHeaderField("buyerName", "Sri Ganesh Constructions"); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= items; i++ {
		if i > 1 {
			d.AddItem()
		}
		for field, value := range map[core.ItemField]string{
			core.FieldParticulars: fmt.Sprintf("Black Granite %d", i),
			core.FieldQuantity:    "2",
			core.FieldRate:        "100",
		} {
			if err := d.SetItemField(i, field, value); err != nil {
				t.Fatal(err)
			}
		}
	}
	return d
}

func assertPDF(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("%s does not start with a PDF header", path)
	}
}

func TestRenderInvoice_SinglePage(t *testing.T) {
	dir := t.TempDir()
	d := newDraft(t, 1)
	r := export.NewPDFRenderer(dir)

	res, err := r.RenderRegionToPDF(export.InvoiceRegion(d, export.SellerDetails{Name: "Granite House"}), d.PDFFilename())
	if err != nil {
		t.Fatalf("RenderRegionToPDF: %v", err)
	}
	if want := filepath.Join(dir, "Invoice-INV-600000.pdf"); res.Path != want {
		t.Errorf("path: got %s, want %s", res.Path, want)
	}
	if res.Pages != 1 {
		t.Errorf("pages: got %d, want 1", res.Pages)
	}
	assertPDF(t, res.Path)
}

func TestRenderInvoice_PaginatesLongItemTables(t *testing.T) {
	d := newDraft(t, 80)
	res, err := export.NewPDFRenderer(t.TempDir()).RenderRegionToPDF(export.InvoiceRegion(d, export.SellerDetails{}), d.PDFFilename())
	if err != nil {
		t.Fatalf("RenderRegionToPDF: %v", err)
	}
	if res.Pages < 2 {
		t.Errorf("expected multiple pages for 80 items, got %d", res.Pages)
	}
	assertPDF(t, res.Path)
}

func TestInvoiceRegion(t *testing.T) {
	d := newDraft(t, 2)
	region := export.InvoiceRegion(d, export.SellerDetails{})

	if region.Subtitle != "INV-600000" {
		t.Errorf("subtitle: got %q", region.Subtitle)
	}

	var table *export.Table
	var words string
	for _, b := range region.Blocks {
		if b.Table != nil {
			table = b.Table
		}
		if b.Heading == "Amount in Words" {
			words = strings.Join(b.Lines, " ")
		}
		for _, p := range b.Pairs {
			if p.Value == "" {
				t.Errorf("block %q carries empty pair %q", b.Heading, p.Label)
			}
		}
	}
	if table == nil {
		t.Fatal("no item table")
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(table.Rows))
	}
	if got := table.Rows[1]; got[0] != "2" || got[1] != "Black Granite 2" || got[5] != "200.00" {
		t.Errorf("row 2: got %v", got)
	}
	if got := table.Footer[len(table.Footer)-1][5]; got != "₹ 472.00" {
		t.Errorf("grand total: got %q, want ₹ 472.00", got)
	}
	if words != d.Totals().AmountInWords {
		t.Errorf("words: got %q, want %q", words, d.Totals().AmountInWords)
	}
}

func TestRenderReport(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	rep := &core.Report{
		ReportType: core.ReportSalesMonth,
		KPIs:       core.ReportKPIs{TotalRevenue: 472, ItemsSold: 4, StockValue: 120000, TopItem: "Black Granite"},
		ReportData: []core.ReportPoint{{Label: "2024-02", Revenue: 236}, {Label: "2024-03", Revenue: 236}},
	}

	name := export.ReportFilename(rep.ReportType, day)
	if name != "sales-month-report-2024-03-15.pdf" {
		t.Errorf("filename: got %s", name)
	}

	res, err := export.NewPDFRenderer(t.TempDir()).RenderRegionToPDF(export.ReportRegion(rep, day), name)
	if err != nil {
		t.Fatalf("RenderRegionToPDF: %v", err)
	}
	assertPDF(t, res.Path)
}

func TestReportRegion_InventoryColumns(t *testing.T) {
	rep := &core.Report{
		ReportType: core.ReportInventoryValue,
		ReportData: []core.ReportPoint{{Type: "Black", Quantity: 100}},
	}
	region := export.ReportRegion(rep, time.Now())
	if region.Title != "Inventory Report" {
		t.Errorf("title: got %q", region.Title)
	}
	table := region.Blocks[1].Table
	if table.Columns[0].Title != "Colour" || table.Rows[0][0] != "Black" || table.Rows[0][1] != "100.00" {
		t.Errorf("unexpected table: %+v", table)
	}
	if top := region.Blocks[0].Pairs[3].Value; top != "-" {
		t.Errorf("empty top item: got %q, want -", top)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Invoice-INV-1.pdf", "Invoice-INV-1.pdf"},
		{"../../etc/passwd", "passwd.pdf"},
		{"report", "report.pdf"},
		{"a:b?.PDF", "a-b-.PDF"},
		{"", "export.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := export.SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
