package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"granite-console/internal/core"
)

// SellerDetails is printed at the top of every invoice.
type SellerDetails struct {
	Name    string
	Address string
	GSTIN   string
}

var invoiceColumns = []Column{
	{Title: "Sl No", Width: 12, Align: AlignCenter},
	{Title: "Particulars", Width: 68, Align: AlignLeft},
	{Title: "HSN", Width: 20, Align: AlignCenter},
	{Title: "Quantity", Width: 25, Align: AlignRight},
	{Title: "Rate", Width: 30, Align: AlignRight},
	{Title: "Amount", Width: 35, Align: AlignRight},
}

// InvoiceRegion lays out a draft as a tax invoice: seller, invoice details,
// buyer and consignee, the item table with totals, and the amount in words.
// Totals come from the draft's live computation.
func InvoiceRegion(d *core.InvoiceDraft, seller SellerDetails) Region {
	h := d.Header()
	t := d.Totals()

	var blocks []Block
	if seller.Name != "" {
		lines := []string{seller.Name}
		if seller.Address != "" {
			lines = append(lines, seller.Address)
		}
		if seller.GSTIN != "" {
			lines = append(lines, "GSTIN: "+seller.GSTIN)
		}
		blocks = append(blocks, Block{Lines: lines})
	}

	blocks = append(blocks,
		Block{Heading: "Invoice Details", Pairs: nonEmpty([]Pair{
			{"Invoice No", h.InvoiceNo},
			{"Invoice Date", h.InvoiceDate},
			{"Reverse Charge", h.ReserveChange},
			{"E-Way Bill", h.EwayBill},
			{"Transport Mode", h.TransportMode},
			{"Vehicle No", h.VehicleNo},
			{"Date of Supply", h.DateOfSupply},
			{"Place of Supply", h.PlaceOfSupply},
		})},
		Block{Heading: "Details of Receiver (Billed To)", Pairs: nonEmpty([]Pair{
			{"Name", h.BuyerName},
			{"Address", h.BuyerAddress},
			{"State", h.BuyerState},
			{"State Code", h.BuyerStateCode},
			{"GSTIN", h.BuyerGST},
		})},
		Block{Heading: "Details of Consignee (Shipped To)", Pairs: nonEmpty([]Pair{
			{"Name", h.ConsigneeName},
			{"Address", h.ConsigneeAddress},
			{"State", h.ConsigneeState},
			{"State Code", h.ConsigneeStateCode},
			{"GSTIN", h.ConsigneeGSTIN},
		})},
	)

	table := &Table{Columns: invoiceColumns}
	for _, row := range d.Rows() {
		table.Rows = append(table.Rows, []string{
			fmt.Sprint(row.SlNo),
			row.Item.Particulars,
			row.Item.HSN,
			quantity(row.Item.Quantity),
			row.Item.Rate.StringFixed(2),
			row.Amount.StringFixed(2),
		})
	}
	table.Footer = [][]string{
		{"", "Total Amount Before Tax", "", "", "", t.TotalBeforeTax.StringFixed(2)},
		{"", fmt.Sprintf("Add: CGST @ %s%%", d.CGSTPercent().String()), "", "", "", t.CGSTAmount.StringFixed(2)},
		{"", fmt.Sprintf("Add: SGST @ %s%%", d.SGSTPercent().String()), "", "", "", t.SGSTAmount.StringFixed(2)},
		{"", "Grand Total", "", "", "", core.FormatINR(t.GrandTotal)},
	}
	blocks = append(blocks,
		Block{Heading: "Items", Table: table},
		Block{Heading: "Amount in Words", Lines: []string{t.AmountInWords}},
	)

	return Region{Title: "TAX INVOICE", Subtitle: h.InvoiceNo, Blocks: blocks}
}

func nonEmpty(pairs []Pair) []Pair {
	out := pairs[:0:0]
	for _, p := range pairs {
		if strings.TrimSpace(p.Value) != "" {
			out = append(out, p)
		}
	}
	return out
}

// quantity prints whole quantities without decimals and others to 3 places.
func quantity(q decimal.Decimal) string {
	if q.Equal(q.Truncate(0)) {
		return q.StringFixed(0)
	}
	return q.StringFixed(3)
}
