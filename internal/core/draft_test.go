package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"granite-console/internal/core"

	"github.com/shopspring/decimal"
)

// fakeGateway records calls and returns canned results.
type fakeGateway struct {
	mu      sync.Mutex
	created []core.InvoiceRecord
	updated map[string]core.InvoiceRecord
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (g *fakeGateway) List(ctx context.Context) ([]core.InvoiceRecord, error) { return nil, nil }
func (g *fakeGateway) Get(ctx context.Context, id string) (*core.InvoiceRecord, error) {
	return nil, core.ErrNotFound
}
func (g *fakeGateway) Delete(ctx context.Context, id string) error { return nil }

func (g *fakeGateway) Create(ctx context.Context, rec core.InvoiceRecord) (*core.SaveResult, error) {
	if g.entered != nil {
		close(g.entered)
	}
	if g.block != nil {
		<-g.block
	}
	if g.err != nil {
		return nil, g.err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created = append(g.created, rec)
	return &core.SaveResult{ID: "inv-1", InvoiceNo: rec.InvoiceNo}, nil
}

func (g *fakeGateway) Update(ctx context.Context, id string, rec core.InvoiceRecord) (*core.SaveResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.updated == nil {
		g.updated = map[string]core.InvoiceRecord{}
	}
	g.updated[id] = rec
	return &core.SaveResult{InvoiceNo: rec.InvoiceNo}, nil
}

func newTestDraft() *core.InvoiceDraft {
	return core.NewDraft(core.DraftDefaults{
		Now:         time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		CGSTPercent: decimal.NewFromInt(9),
		SGSTPercent: decimal.NewFromInt(9),
	})
}

func TestNewDraft_Defaults(t *testing.T) {
	d := newTestDraft()

	if d.State() != core.DraftEmpty {
		t.Errorf("state = %s, want EMPTY", d.State())
	}
	if !d.IsNew() {
		t.Error("new draft must not have an identifier")
	}
	if len(d.Items()) != 1 {
		t.Fatalf("expected one blank item, got %d", len(d.Items()))
	}
	h := d.Header()
	if h.InvoiceDate != "2024-03-15" {
		t.Errorf("invoiceDate = %q", h.InvoiceDate)
	}
	// 2024-03-15T10:30:00Z = 1710498600000 ms
	if h.InvoiceNo != "INV-600000" {
		t.Errorf("invoiceNo = %q, want INV-600000", h.InvoiceNo)
	}
	if d.Totals().AmountInWords != "Zero" {
		t.Errorf("amountInWords = %q", d.Totals().AmountInWords)
	}
}

func TestDraft_LiveTotalVersusPersistedItems(t *testing.T) {
	d := newTestDraft()
	mustSet(t, d.SetHeaderField("buyerName", "Sri Lakshmi Granites"))
	mustSet(t, d.SetItemField(1, core.FieldParticulars, "Black Galaxy"))
	mustSet(t, d.SetItemField(1, core.FieldQuantity, "2"))
	mustSet(t, d.SetItemField(1, core.FieldRate, "100"))
	pos := d.AddItem()
	mustSet(t, d.SetItemField(pos, core.FieldParticulars, "Tan Brown"))
	mustSet(t, d.SetItemField(pos, core.FieldRate, "50"))

	if d.State() != core.DraftEditing {
		t.Errorf("state = %s, want EDITING", d.State())
	}
	if got := d.Totals().TotalBeforeTax; !got.Equal(decimal.NewFromInt(200)) {
		t.Errorf("live totalBeforeTax = %s, want 200", got)
	}

	rec, err := d.ToPersistable()
	if err != nil {
		t.Fatalf("ToPersistable: %v", err)
	}
	if len(rec.Items) != 1 {
		t.Fatalf("persisted items = %d, want 1", len(rec.Items))
	}
	if rec.Items[0].Amount != 200 {
		t.Errorf("amount snapshot = %v, want 200", rec.Items[0].Amount)
	}
	if rec.GrandTotal != 236.00 {
		t.Errorf("grandTotal = %v, want 236", rec.GrandTotal)
	}
	if rec.CGSTAmount != 18 || rec.SGSTAmount != 18 {
		t.Errorf("tax amounts = %v/%v, want 18/18", rec.CGSTAmount, rec.SGSTAmount)
	}
}

func TestDraft_HydrateRoundTrip(t *testing.T) {
	rec := core.InvoiceRecord{
		InvoiceHeader: core.InvoiceHeader{
			InvoiceNo:   "INV-100200",
			InvoiceDate: "2024-03-15T00:00:00Z",
			BuyerName:   "Shree Stones",
		},
		Items: []core.RecordItem{
			{Particulars: "Black Granite", HSN: "6802", Quantity: 5, Rate: 1200, Amount: 1},
		},
	}

	d := core.HydrateDraft("65f0c0ffee", rec)
	if d.State() != core.DraftEditing {
		t.Errorf("state = %s, want EDITING", d.State())
	}
	if d.Header().InvoiceDate != "2024-03-15" {
		t.Errorf("invoiceDate = %q, want date part only", d.Header().InvoiceDate)
	}
	if d.Header().BuyerAddress != "" {
		t.Errorf("missing fields must hydrate as empty strings")
	}

	out, err := d.ToPersistable()
	if err != nil {
		t.Fatalf("ToPersistable: %v", err)
	}
	if out.ID != "65f0c0ffee" {
		t.Errorf("id = %q", out.ID)
	}
	if len(out.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(out.Items))
	}
	got := out.Items[0]
	if got.Particulars != "Black Granite" || got.HSN != "6802" || got.Quantity != 5 || got.Rate != 1200 {
		t.Errorf("item not reproduced: %+v", got)
	}
	// The stored amount of 1 is a stale cache and must be recomputed.
	if got.Amount != 6000 {
		t.Errorf("amount = %v, want 6000", got.Amount)
	}
	if out.TotalBeforeTax != 6000 {
		t.Errorf("totalBeforeTax = %v, want 6000", out.TotalBeforeTax)
	}
}

func TestDraft_HydrateWithoutItemsKeepsOneRow(t *testing.T) {
	d := core.HydrateDraft("x", core.InvoiceRecord{})
	if len(d.Items()) != 1 {
		t.Errorf("expected a blank row, got %d items", len(d.Items()))
	}
}

func TestDraft_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(d *core.InvoiceDraft)
		field string
	}{
		{
			name: "missing buyer name with valid items",
			setup: func(d *core.InvoiceDraft) {
				_ = d.SetItemField(1, core.FieldQuantity, "5")
				_ = d.SetItemField(1, core.FieldRate, "1200")
			},
			field: "buyerName",
		},
		{
			name: "whitespace buyer name",
			setup: func(d *core.InvoiceDraft) {
				_ = d.SetHeaderField("buyerName", "   ")
			},
			field: "buyerName",
		},
		{
			name: "no item with positive quantity",
			setup: func(d *core.InvoiceDraft) {
				_ = d.SetHeaderField("buyerName", "Acme")
				_ = d.SetItemField(1, core.FieldRate, "1200")
			},
			field: "items",
		},
		{
			name: "zero grand total",
			setup: func(d *core.InvoiceDraft) {
				_ = d.SetHeaderField("buyerName", "Acme")
				_ = d.SetItemField(1, core.FieldQuantity, "3")
			},
			field: "grandTotal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDraft()
			tt.setup(d)
			_, err := d.ToPersistable()
			var ve *core.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestDraft_SaveCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{}
	d := filledDraft(t)

	res, err := d.Save(ctx, gw)
	if err != nil {
		t.Fatalf("Save (create): %v", err)
	}
	if res.ID != "inv-1" || d.ID() != "inv-1" {
		t.Errorf("identifier not bound: res=%+v draft=%q", res, d.ID())
	}
	if d.State() != core.DraftPersisted {
		t.Errorf("state = %s, want PERSISTED", d.State())
	}
	if len(gw.created) != 1 {
		t.Fatalf("create calls = %d", len(gw.created))
	}

	mustSet(t, d.SetItemField(1, core.FieldQuantity, "10"))
	if d.State() != core.DraftEditing {
		t.Errorf("editing a persisted draft should return it to EDITING, got %s", d.State())
	}
	if _, err := d.Save(ctx, gw); err != nil {
		t.Fatalf("Save (update): %v", err)
	}
	if len(gw.created) != 1 {
		t.Errorf("second save must update, not create")
	}
	if got := gw.updated["inv-1"].TotalBeforeTax; got != 12000 {
		t.Errorf("updated totalBeforeTax = %v, want 12000", got)
	}
}

func TestDraft_SaveValidationFailureSkipsGateway(t *testing.T) {
	gw := &fakeGateway{}
	d := newTestDraft()

	_, err := d.Save(context.Background(), gw)
	if !core.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if d.State() != core.DraftValidationFailed {
		t.Errorf("state = %s, want VALIDATION_FAILED", d.State())
	}
	if len(gw.created) != 0 {
		t.Error("gateway must not be called when validation fails")
	}

	mustSet(t, d.SetHeaderField("buyerName", "Acme"))
	if d.State() != core.DraftEditing {
		t.Errorf("state after edit = %s, want EDITING", d.State())
	}
}

func TestDraft_SaveSurfacesGatewayMessage(t *testing.T) {
	gw := &fakeGateway{err: &core.GatewayError{StatusCode: 400, Message: "Item Tan Brown not found in inventory"}}
	d := filledDraft(t)

	_, err := d.Save(context.Background(), gw)
	var ge *core.GatewayError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if ge.Error() != "Item Tan Brown not found in inventory" {
		t.Errorf("message altered: %q", ge.Error())
	}
	if !d.IsNew() || d.State() != core.DraftEditing {
		t.Errorf("failed save must leave the draft unchanged: id=%q state=%s", d.ID(), d.State())
	}
}

func TestDraft_SaveRejectsDoubleSubmit(t *testing.T) {
	gw := &fakeGateway{block: make(chan struct{}), entered: make(chan struct{})}
	d := filledDraft(t)

	done := make(chan error, 1)
	go func() {
		_, err := d.Save(context.Background(), gw)
		done <- err
	}()
	<-gw.entered

	if !d.Saving() {
		t.Error("expected Saving() while create is pending")
	}
	if _, err := d.Save(context.Background(), gw); !errors.Is(err, core.ErrSaveInProgress) {
		t.Errorf("expected ErrSaveInProgress, got %v", err)
	}

	close(gw.block)
	if err := <-done; err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if len(gw.created) != 1 {
		t.Errorf("create calls = %d, want 1", len(gw.created))
	}
}

func TestDraft_AppendItemsReplacesBlankRow(t *testing.T) {
	d := newTestDraft()
	d.AppendItems([]core.LineItem{
		{Particulars: "Absolute Black", Quantity: decimal.NewFromInt(4), Rate: decimal.NewFromInt(950)},
	})
	items := d.Items()
	if len(items) != 1 || items[0].Particulars != "Absolute Black" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].HSN != core.DefaultHSN {
		t.Errorf("hsn = %q, want default", items[0].HSN)
	}
	if !d.Totals().TotalBeforeTax.Equal(decimal.NewFromInt(3800)) {
		t.Errorf("totals not recomputed: %s", d.Totals().TotalBeforeTax)
	}
}

func TestDraft_PDFFilename(t *testing.T) {
	d := newTestDraft()
	if got := d.PDFFilename(); got != "Invoice-INV-600000.pdf" {
		t.Errorf("got %q", got)
	}
	mustSet(t, d.SetHeaderField("invoiceNo", ""))
	if got := d.PDFFilename(); got != "Invoice-New.pdf" {
		t.Errorf("got %q", got)
	}
}

func TestDatePart(t *testing.T) {
	tests := map[string]string{
		"2024-03-15":               "2024-03-15",
		"2024-03-15T00:00:00Z":     "2024-03-15",
		"2024-03-15T18:30:00.000Z": "2024-03-15",
		"2024-03-15 10:30:00":      "2024-03-15",
		"":                         "",
		"tomorrow":                 "tomorrow",
	}
	for in, want := range tests {
		if got := core.DatePart(in); got != want {
			t.Errorf("DatePart(%q) = %q, want %q", in, got, want)
		}
	}
}

func filledDraft(t *testing.T) *core.InvoiceDraft {
	t.Helper()
	d := newTestDraft()
	mustSet(t, d.SetHeaderField("buyerName", "Sri Lakshmi Granites"))
	mustSet(t, d.SetItemField(1, core.FieldParticulars, "Black Granite"))
	mustSet(t, d.SetItemField(1, core.FieldQuantity, "5"))
	mustSet(t, d.SetItemField(1, core.FieldRate, "1200"))
	return d
}

func mustSet(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
