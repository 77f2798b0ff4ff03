package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"granite-console/internal/ai"
	"granite-console/internal/core"
	"granite-console/internal/export"
	"granite-console/internal/gateway"
)

// Backend is the REST surface the console talks to. *gateway.Client satisfies it.
type Backend interface {
	core.InvoiceGateway
	ReportSource
	ListInventory(ctx context.Context) ([]core.InventoryItem, error)
	Login(ctx context.Context, username, password string) (*gateway.Session, error)
	Logout() error
	Session() (gateway.Session, error)
}

// ReportSource generates dashboard and report data.
type ReportSource interface {
	Dashboard(ctx context.Context) (*core.Dashboard, error)
	Report(ctx context.Context, reportType core.ReportType, start, end string) (*core.Report, error)
}

// ConsoleService is the single interface the console adapters (REPL, CLI) call.
// Implementations hold one working draft and one report view per session and
// contain no display logic.
type ConsoleService interface {
	// Login authenticates against the backend and stores the session token.
	Login(ctx context.Context, username, password string) (*gateway.Session, error)

	// Logout forgets the stored session token.
	Logout() error

	// CurrentUser returns the logged-in username, or ErrUnauthenticated.
	CurrentUser() (string, error)

	// Draft returns the working invoice draft, starting a new one if there is none.
	Draft() *core.InvoiceDraft

	// NewDraft discards the working draft and starts a fresh invoice.
	NewDraft() *core.InvoiceDraft

	// LoadInvoice fetches a persisted invoice and makes it the working draft.
	// The working draft is left untouched when the fetch fails.
	LoadInvoice(ctx context.Context, id string) (*core.InvoiceDraft, error)

	// SaveDraft validates and persists the working draft (create or update).
	SaveDraft(ctx context.Context) (*core.SaveResult, error)

	// ExportDraft renders the working draft to Invoice-<invoiceNo>.pdf.
	ExportDraft() (*export.Result, error)

	// ExportInvoice renders a persisted invoice without touching the working draft.
	ExportInvoice(ctx context.Context, id string) (*export.Result, error)

	// GetInvoice returns a persisted invoice as a read-only draft view.
	GetInvoice(ctx context.Context, id string) (*core.InvoiceDraft, error)

	// ListInvoices returns persisted invoices filtered by search text and date.
	ListInvoices(ctx context.Context, q InvoiceQuery) (*InvoiceListResult, error)

	// DeleteInvoice removes a persisted invoice. Stock is not restored.
	DeleteInvoice(ctx context.Context, id string) error

	// ListInventory returns stock items matching search, flagging low stock.
	ListInventory(ctx context.Context, search string) (*InventoryListResult, error)

	// Dashboard returns the dashboard summary.
	Dashboard(ctx context.Context) (*core.Dashboard, error)

	// Reports returns the session's report view.
	Reports() *ReportView

	// InterpretLineItems proposes line items for free text using the stock
	// catalogue. Proposals are not applied; see ApplyLineItems.
	InterpretLineItems(ctx context.Context, text string) (*AIResult, error)

	// ApplyLineItems appends confirmed items to the working draft.
	ApplyLineItems(items []core.LineItem)
}

// Options wires a ConsoleService.
type Options struct {
	Backend     Backend
	Renderer    export.Renderer
	Interpreter ai.Interpreter // optional
	Seller      export.SellerDetails

	DefaultCGSTPercent decimal.Decimal
	DefaultSGSTPercent decimal.Decimal
	LowStockThreshold  float64

	// Now defaults to time.Now.
	Now func() time.Time
}
