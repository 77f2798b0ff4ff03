package app

// InvoiceQuery filters the invoice browser. Both fields are optional.
type InvoiceQuery struct {
	Search string // matched against invoice number or buyer name
	Date   string // YYYY-MM-DD, matched against the invoice date
}

// ReportRequest selects a report and its optional date bounds.
type ReportRequest struct {
	Type  string
	Start string
	End   string
}
