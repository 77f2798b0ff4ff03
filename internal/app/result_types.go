package app

import "granite-console/internal/core"

// InvoiceRow is one numbered row of the invoice browser.
type InvoiceRow struct {
	SlNo   int
	Record core.InvoiceRecord
}

// InvoiceListResult is returned by ListInvoices.
type InvoiceListResult struct {
	Rows  []InvoiceRow
	Total int // invoices before filtering
}

// InventoryRow is one stock item with its low-stock flag.
type InventoryRow struct {
	Item     core.InventoryItem
	LowStock bool
}

// InventoryListResult is returned by ListInventory.
type InventoryListResult struct {
	Rows          []InventoryRow
	LowStockCount int
}

// AIResult is returned by InterpretLineItems.
type AIResult struct {
	Items                []core.LineItem
	ClarificationMessage string
	IsClarification      bool
	Reasoning            string
}
