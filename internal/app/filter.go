package app

import (
	"strings"

	"granite-console/internal/core"
)

// FilterInvoices keeps records whose invoice number or buyer name contains
// search (case-insensitive) and, when date is set, whose invoice date falls on
// that day. Order is preserved and rows are numbered from 1.
func FilterInvoices(list []core.InvoiceRecord, search, date string) []InvoiceRow {
	q := strings.ToLower(strings.TrimSpace(search))
	date = core.DatePart(date)

	rows := []InvoiceRow{}
	for _, rec := range list {
		if q != "" &&
			!strings.Contains(strings.ToLower(rec.InvoiceNo), q) &&
			!strings.Contains(strings.ToLower(rec.BuyerName), q) {
			continue
		}
		if date != "" && core.DatePart(rec.InvoiceDate) != date {
			continue
		}
		rows = append(rows, InvoiceRow{SlNo: len(rows) + 1, Record: rec})
	}
	return rows
}
