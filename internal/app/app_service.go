package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"granite-console/internal/core"
	"granite-console/internal/export"
	"granite-console/internal/gateway"
	"granite-console/internal/logger"
)

// ErrInterpreterUnavailable is returned by InterpretLineItems when no AI key is configured.
var ErrInterpreterUnavailable = errors.New("line-item interpreter is not configured (set OPENAI_API_KEY)")

type consoleService struct {
	opts    Options
	draft   *core.InvoiceDraft
	reports *ReportView
}

// NewConsoleService constructs a consoleService that satisfies ConsoleService.
func NewConsoleService(opts Options) ConsoleService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = core.DefaultLowStockThreshold
	}
	return &consoleService{
		opts:    opts,
		reports: NewReportView(opts.Backend, opts.Renderer, opts.Now),
	}
}

// ── Session ───────────────────────────────────────────────────────────────────

func (s *consoleService) Login(ctx context.Context, username, password string) (*gateway.Session, error) {
	sess, err := s.opts.Backend.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("logged in", zap.String("user", sess.Username))
	return sess, nil
}

func (s *consoleService) Logout() error {
	return s.opts.Backend.Logout()
}

func (s *consoleService) CurrentUser() (string, error) {
	sess, err := s.opts.Backend.Session()
	if err != nil {
		return "", err
	}
	return sess.Username, nil
}

// ── Draft ─────────────────────────────────────────────────────────────────────

func (s *consoleService) defaults() core.DraftDefaults {
	return core.DraftDefaults{
		Now:         s.opts.Now(),
		CGSTPercent: s.opts.DefaultCGSTPercent,
		SGSTPercent: s.opts.DefaultSGSTPercent,
	}
}

func (s *consoleService) Draft() *core.InvoiceDraft {
	if s.draft == nil {
		s.draft = core.NewDraft(s.defaults())
	}
	return s.draft
}

func (s *consoleService) NewDraft() *core.InvoiceDraft {
	s.draft = core.NewDraft(s.defaults())
	return s.draft
}

func (s *consoleService) fetch(ctx context.Context, id string) (*core.InvoiceDraft, error) {
	rec, err := s.opts.Backend.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.ID == "" {
		rec.ID = id
	}
	return core.HydrateDraft(rec.ID, *rec), nil
}

func (s *consoleService) LoadInvoice(ctx context.Context, id string) (*core.InvoiceDraft, error) {
	d, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	s.draft = d
	return d, nil
}

func (s *consoleService) GetInvoice(ctx context.Context, id string) (*core.InvoiceDraft, error) {
	return s.fetch(ctx, id)
}

func (s *consoleService) SaveDraft(ctx context.Context) (*core.SaveResult, error) {
	d := s.Draft()
	res, err := d.Save(ctx, s.opts.Backend)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("invoice saved",
		zap.String("invoice_id", res.ID),
		zap.String("invoice_no", res.InvoiceNo),
	)
	return res, nil
}

func (s *consoleService) ExportDraft() (*export.Result, error) {
	d := s.Draft()
	return s.opts.Renderer.RenderRegionToPDF(export.InvoiceRegion(d, s.opts.Seller), d.PDFFilename())
}

func (s *consoleService) ExportInvoice(ctx context.Context, id string) (*export.Result, error) {
	d, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.opts.Renderer.RenderRegionToPDF(export.InvoiceRegion(d, s.opts.Seller), d.PDFFilename())
}

// ── Invoice browser ───────────────────────────────────────────────────────────

func (s *consoleService) ListInvoices(ctx context.Context, q InvoiceQuery) (*InvoiceListResult, error) {
	list, err := s.opts.Backend.List(ctx)
	if err != nil {
		return nil, err
	}
	return &InvoiceListResult{Rows: FilterInvoices(list, q.Search, q.Date), Total: len(list)}, nil
}

func (s *consoleService) DeleteInvoice(ctx context.Context, id string) error {
	if err := s.opts.Backend.Delete(ctx, id); err != nil {
		return err
	}
	// A deleted invoice can no longer be updated from the working draft.
	if s.draft != nil && s.draft.ID() == id {
		s.draft = nil
	}
	logger.FromContext(ctx).Info("invoice deleted", zap.String("invoice_id", id))
	return nil
}

// ── Inventory, dashboard, reports ─────────────────────────────────────────────

func (s *consoleService) ListInventory(ctx context.Context, search string) (*InventoryListResult, error) {
	items, err := s.opts.Backend.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	res := &InventoryListResult{Rows: []InventoryRow{}}
	for _, it := range core.FilterInventory(items, search) {
		low := it.IsLowStock(s.opts.LowStockThreshold)
		if low {
			res.LowStockCount++
		}
		res.Rows = append(res.Rows, InventoryRow{Item: it, LowStock: low})
	}
	return res, nil
}

func (s *consoleService) Dashboard(ctx context.Context) (*core.Dashboard, error) {
	return s.opts.Backend.Dashboard(ctx)
}

func (s *consoleService) Reports() *ReportView {
	return s.reports
}

// ── Line-item interpreter ─────────────────────────────────────────────────────

func (s *consoleService) InterpretLineItems(ctx context.Context, text string) (*AIResult, error) {
	if s.opts.Interpreter == nil {
		return nil, ErrInterpreterUnavailable
	}
	catalog, err := s.opts.Backend.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock catalogue: %w", err)
	}
	in, err := s.opts.Interpreter.InterpretLineItems(ctx, text, catalog)
	if err != nil {
		return nil, err
	}
	if in.IsClarification {
		return &AIResult{IsClarification: true, ClarificationMessage: in.ClarificationMessage, Reasoning: in.Reasoning}, nil
	}
	return &AIResult{Items: in.LineItems(), Reasoning: in.Reasoning}, nil
}

func (s *consoleService) ApplyLineItems(items []core.LineItem) {
	s.Draft().AppendItems(items)
}
