package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"granite-console/internal/app"
	"granite-console/internal/core"
)

func printDraft(w io.Writer, d *core.InvoiceDraft) {
	h := d.Header()
	id := d.ID()
	if id == "" {
		id = "(new)"
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 78))
	fmt.Fprintf(w, "  TAX INVOICE %-20s  Date: %-12s  Id: %s\n", h.InvoiceNo, h.InvoiceDate, id)
	fmt.Fprintln(w, strings.Repeat("=", 78))
	fmt.Fprintf(w, "  Buyer     : %s\n", orDash(h.BuyerName))
	if h.BuyerAddress != "" {
		fmt.Fprintf(w, "              %s\n", h.BuyerAddress)
	}
	if h.BuyerState != "" || h.BuyerStateCode != "" {
		fmt.Fprintf(w, "  State     : %s (%s)\n", orDash(h.BuyerState), orDash(h.BuyerStateCode))
	}
	if h.BuyerGST != "" {
		fmt.Fprintf(w, "  GSTIN     : %s\n", h.BuyerGST)
	}
	if h.ConsigneeName != "" {
		fmt.Fprintf(w, "  Consignee : %s %s\n", h.ConsigneeName, h.ConsigneeAddress)
	}
	if h.VehicleNo != "" || h.TransportMode != "" {
		fmt.Fprintf(w, "  Transport : %s %s\n", h.TransportMode, h.VehicleNo)
	}
	printItems(w, d)
	printTotals(w, d)
	fmt.Fprintf(w, "  State: %s\n", d.State())
}

func printItems(w io.Writer, d *core.InvoiceDraft) {
	fmt.Fprintln(w, strings.Repeat("-", 78))
	fmt.Fprintf(w, "  %-4s %-30s %-6s %10s %10s %12s\n", "NO", "PARTICULARS", "HSN", "QTY", "RATE", "AMOUNT")
	fmt.Fprintln(w, strings.Repeat("-", 78))
	for _, r := range d.Rows() {
		fmt.Fprintf(w, "  %-4d %-30s %-6s %10s %10s %12s\n",
			r.SlNo, truncate(orDash(r.Item.Particulars), 30), r.Item.HSN,
			r.Item.Quantity.String(), r.Item.Rate.StringFixed(2), r.Amount.StringFixed(2))
	}
}

func printTotals(w io.Writer, d *core.InvoiceDraft) {
	t := d.Totals()
	fmt.Fprintln(w, strings.Repeat("-", 78))
	fmt.Fprintf(w, "  %-60s %15s\n", "Total before tax", t.TotalBeforeTax.StringFixed(2))
	fmt.Fprintf(w, "  %-60s %15s\n", fmt.Sprintf("CGST @ %s%%", d.CGSTPercent()), t.CGSTAmount.StringFixed(2))
	fmt.Fprintf(w, "  %-60s %15s\n", fmt.Sprintf("SGST @ %s%%", d.SGSTPercent()), t.SGSTAmount.StringFixed(2))
	fmt.Fprintf(w, "  %-60s %15s\n", "GRAND TOTAL", core.FormatINR(t.GrandTotal))
	fmt.Fprintf(w, "  %s\n", t.AmountInWords)
	fmt.Fprintln(w, strings.Repeat("=", 78))
}

func printProposal(w io.Writer, r *app.AIResult) {
	fmt.Fprintln(w, "\nPROPOSED ITEMS:")
	for i, it := range r.Items {
		fmt.Fprintf(w, "  %d. %-30s HSN %-6s qty %-8s @ %s\n",
			i+1, it.Particulars, it.HSN, it.Quantity.String(), it.Rate.StringFixed(2))
	}
	if r.Reasoning != "" {
		fmt.Fprintf(w, "REASONING: %s\n", r.Reasoning)
	}
}

func printInvoices(w io.Writer, res *app.InvoiceListResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 86))
	fmt.Fprintf(w, "  INVOICES (%d of %d)\n", len(res.Rows), res.Total)
	fmt.Fprintln(w, strings.Repeat("=", 86))
	if len(res.Rows) == 0 {
		fmt.Fprintln(w, "  No invoices found.")
		fmt.Fprintln(w, strings.Repeat("=", 86))
		return
	}
	fmt.Fprintf(w, "  %-4s %-12s %-11s %-25s %14s  %s\n", "NO", "INVOICE NO", "DATE", "BUYER", "TOTAL", "ID")
	fmt.Fprintln(w, strings.Repeat("-", 86))
	for _, r := range res.Rows {
		fmt.Fprintf(w, "  %-4d %-12s %-11s %-25s %14s  %s\n",
			r.SlNo, r.Record.InvoiceNo, core.DatePart(r.Record.InvoiceDate),
			truncate(r.Record.BuyerName, 25), decimal.NewFromFloat(r.Record.GrandTotal).StringFixed(2), r.Record.ID)
	}
	fmt.Fprintln(w, strings.Repeat("=", 86))
}

func printInventory(w io.Writer, res *app.InventoryListResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 86))
	fmt.Fprintf(w, "  INVENTORY (%d low stock)\n", res.LowStockCount)
	fmt.Fprintln(w, strings.Repeat("=", 86))
	if len(res.Rows) == 0 {
		fmt.Fprintln(w, "  No items found.")
		fmt.Fprintln(w, strings.Repeat("=", 86))
		return
	}
	fmt.Fprintf(w, "  %-24s %-10s %-8s %-10s %10s %-4s %10s %s\n",
		"ITEM", "COLOUR", "THICK", "POLISH", "QTY", "UNIT", "RATE", "")
	fmt.Fprintln(w, strings.Repeat("-", 86))
	for _, r := range res.Rows {
		flag := ""
		if r.LowStock {
			flag = "LOW"
		}
		it := r.Item
		fmt.Fprintf(w, "  %-24s %-10s %-8s %-10s %10s %-4s %10s %s\n",
			truncate(it.ItemName, 24), truncate(it.ItemColor, 10), truncate(it.ItemThickness, 8),
			truncate(it.ItemPolish, 10), decimal.NewFromFloat(it.Quantity).String(), it.UnitOrDefault(),
			decimal.NewFromFloat(it.Rate).StringFixed(2), flag)
	}
	fmt.Fprintln(w, strings.Repeat("=", 86))
}

func printDashboard(w io.Writer, d *core.Dashboard) {
	s := d.Summary
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w, "  DASHBOARD")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "  %-20s %25s\n", "Total stock", decimal.NewFromFloat(s.TotalStock).String())
	fmt.Fprintf(w, "  %-20s %25s\n", "Today's sales", core.FormatINR(decimal.NewFromFloat(s.TodaysSales)))
	fmt.Fprintf(w, "  %-20s %25d\n", "Total invoices", s.TotalInvoices)
	fmt.Fprintf(w, "  %-20s %25d\n", "Low stock items", s.LowStockItems)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for _, m := range d.MonthlySales {
		fmt.Fprintf(w, "  %-20s %25s\n", m.Month, decimal.NewFromFloat(m.Revenue).StringFixed(2))
	}
	fmt.Fprintln(w, strings.Repeat("=", 50))
}

func printReport(w io.Writer, r *core.Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "  REPORT: %s", r.ReportType)
	if r.Start != "" || r.End != "" {
		fmt.Fprintf(w, "  (%s .. %s)", orDash(r.Start), orDash(r.End))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "  %-20s %25s\n", "Total revenue", core.FormatINR(decimal.NewFromFloat(r.KPIs.TotalRevenue)))
	fmt.Fprintf(w, "  %-20s %25s\n", "Items sold", decimal.NewFromFloat(r.KPIs.ItemsSold).String())
	fmt.Fprintf(w, "  %-20s %25s\n", "Stock value", core.FormatINR(decimal.NewFromFloat(r.KPIs.StockValue)))
	fmt.Fprintf(w, "  %-20s %25s\n", "Top item", orDash(r.KPIs.TopItem))
	fmt.Fprintln(w, strings.Repeat("-", 50))
	if len(r.ReportData) == 0 {
		fmt.Fprintln(w, "  No data for this period.")
	}
	for _, p := range r.ReportData {
		fmt.Fprintf(w, "  %-20s %25s\n", p.Name(), decimal.NewFromFloat(p.Value()).StringFixed(2))
	}
	fmt.Fprintln(w, strings.Repeat("=", 50))
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `
Invoice
  /new                               start a new invoice
  /load <id>                         edit a saved invoice
  /show                              show the current invoice
  /add                               add a blank line
  /rm <n>                            remove line n
  /item <n> <field> <value>          set particulars, hsn, quantity or rate of line n
  /set <field> <value>               set a header field (buyerName, invoiceDate, ...)
  /cgst <p>  /sgst <p>               set the tax percentages
  /save                              save the invoice
  /pdf                               export the invoice to PDF

Browse
  /invoices [search] [YYYY-MM-DD]    list saved invoices
  /delete <id>                       delete a saved invoice (stock is not restored)
  /inventory [search]                list stock
  /dashboard                         sales and stock summary
  /report <type> [start] [end]       sales-month or inventory-value
  /export-report                     export the last report to PDF

Session
  /login <username>  /logout  /help  /exit

Anything else is read as a description of items to add, e.g. "12 sqm black granite at 1200".
`)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
