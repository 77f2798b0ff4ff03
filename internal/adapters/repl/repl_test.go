package repl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"granite-console/internal/ai"
	"granite-console/internal/app"
	"granite-console/internal/core"
	"granite-console/internal/export"
	"granite-console/internal/gateway"
)

type stubBackend struct {
	invoices map[string]core.InvoiceRecord
	created  []core.InvoiceRecord
	deleted  []string
	loggedIn string
}

func (b *stubBackend) List(ctx context.Context) ([]core.InvoiceRecord, error) {
	out := []core.InvoiceRecord{}
	for _, rec := range b.invoices {
		out = append(out, rec)
	}
	return out, nil
}

func (b *stubBackend) Get(ctx context.Context, id string) (*core.InvoiceRecord, error) {
	rec, ok := b.invoices[id]
	if !ok {
		return nil, &core.GatewayError{StatusCode: 404, Message: "Invoice not found"}
	}
	return &rec, nil
}

func (b *stubBackend) Create(ctx context.Context, rec core.InvoiceRecord) (*core.SaveResult, error) {
	b.created = append(b.created, rec)
	return &core.SaveResult{ID: "new-1", InvoiceNo: rec.InvoiceNo}, nil
}

func (b *stubBackend) Update(ctx context.Context, id string, rec core.InvoiceRecord) (*core.SaveResult, error) {
	return &core.SaveResult{ID: id, InvoiceNo: rec.InvoiceNo}, nil
}

func (b *stubBackend) Delete(ctx context.Context, id string) error {
	b.deleted = append(b.deleted, id)
	return nil
}

func (b *stubBackend) Dashboard(ctx context.Context) (*core.Dashboard, error) {
	return &core.Dashboard{Summary: core.DashboardSummary{TotalInvoices: 7, LowStockItems: 1}}, nil
}

func (b *stubBackend) Report(ctx context.Context, rt core.ReportType, start, end string) (*core.Report, error) {
	return &core.Report{ReportType: rt, Start: start, End: end, KPIs: core.ReportKPIs{TopItem: "Black Granite"}}, nil
}

func (b *stubBackend) ListInventory(ctx context.Context) ([]core.InventoryItem, error) {
	return []core.InventoryItem{{ItemName: "Black Granite", Quantity: 100, Rate: 1200}}, nil
}

func (b *stubBackend) Login(ctx context.Context, username, password string) (*gateway.Session, error) {
	if password != "secret" {
		return nil, &core.GatewayError{StatusCode: 400, Message: "Invalid credentials"}
	}
	b.loggedIn = username
	return &gateway.Session{Token: "t", Username: username}, nil
}

func (b *stubBackend) Logout() error {
	b.loggedIn = ""
	return nil
}

func (b *stubBackend) Session() (gateway.Session, error) {
	if b.loggedIn == "" {
		return gateway.Session{}, core.ErrUnauthenticated
	}
	return gateway.Session{Token: "t", Username: b.loggedIn}, nil
}

type stubRenderer struct{ names []string }

func (r *stubRenderer) RenderRegionToPDF(region export.Region, filename string) (*export.Result, error) {
	r.names = append(r.names, filename)
	return &export.Result{Path: "out/" + filename, Pages: 1}, nil
}

type scriptedInterpreter struct {
	answers []*ai.Interpretation
	texts   []string
}

func (s *scriptedInterpreter) InterpretLineItems(ctx context.Context, text string, catalog []core.InventoryItem) (*ai.Interpretation, error) {
	s.texts = append(s.texts, text)
	next := s.answers[0]
	s.answers = s.answers[1:]
	return next, nil
}

func run(t *testing.T, b *stubBackend, in ai.Interpreter, script string) (app.ConsoleService, string) {
	t.Helper()
	svc := app.NewConsoleService(app.Options{
		Backend:            b,
		Renderer:           &stubRenderer{},
		Interpreter:        in,
		DefaultCGSTPercent: decimal.NewFromInt(9),
		DefaultSGSTPercent: decimal.NewFromInt(9),
		Now:                func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) },
	})
	var out bytes.Buffer
	Run(context.Background(), svc, bufio.NewReader(strings.NewReader(script)), &out)
	return svc, out.String()
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n---\n%s", want, out)
		}
	}
}

func TestRun_EditAndSave(t *testing.T) {
	b := &stubBackend{loggedIn: "admin"}
	svc, out := run(t, b, nil, strings.Join([]string{
		"/set buyerName Acme Builders",
		"/item 1 particulars Black Granite",
		"/item 1 quantity 2",
		"/item 1 rate 100",
		"/save",
		"/exit",
	}, "\n")+"\n")

	assertContains(t, out, "Logged in as admin.", "buyerName = Acme Builders", "Invoice INV-600000 saved (id new-1).", "Goodbye!")
	if len(b.created) != 1 || b.created[0].BuyerName != "Acme Builders" || b.created[0].GrandTotal != 236 {
		t.Errorf("unexpected create: %+v", b.created)
	}
	if svc.Draft().State() != core.DraftPersisted {
		t.Errorf("state: got %s", svc.Draft().State())
	}
}

func TestRun_ReportsErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"save without buyer", "/item 1 quantity 1\n/item 1 rate 5\n/save\n", "Error: validation failed: customer name is required"},
		{"remove only line", "/rm 1\n", "Error: cannot remove the last line item"},
		{"unknown item field", "/item 1 colour red\n", `Error: unknown item field "colour"`},
		{"backend message verbatim", "/load missing\n", "Error: Invoice not found"},
		{"export before report", "/export-report\n", "Error: no report data available"},
		{"bad report type", "/report profit\n", "Error: validation failed: unknown report type"},
		{"unknown command", "/frobnicate\n", "Unknown command: /frobnicate"},
		{"interpreter not configured", "two slabs of black granite\n", "Error: line-item interpreter is not configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out := run(t, &stubBackend{loggedIn: "admin"}, nil, tt.script)
			assertContains(t, out, tt.want)
		})
	}
}

func TestRun_DeleteNeedsConfirmation(t *testing.T) {
	b := &stubBackend{loggedIn: "admin"}
	_, out := run(t, b, nil, "/delete a1\nn\n/delete a2\ny\n")

	assertContains(t, out, "Stock will not be restored", "Delete cancelled.", "Invoice a2 deleted.")
	if len(b.deleted) != 1 || b.deleted[0] != "a2" {
		t.Errorf("deleted: %v", b.deleted)
	}
}

func TestRun_LoginLogout(t *testing.T) {
	b := &stubBackend{}
	_, out := run(t, b, nil, "/login admin\nwrong\n/login admin\nsecret\n/logout\n")

	assertContains(t, out, "Not logged in.", "Error: Invalid credentials", "Welcome, admin.", "Logged out.")
	if b.loggedIn != "" {
		t.Errorf("still logged in as %q", b.loggedIn)
	}
}

func TestRun_InterpreterClarificationThenConfirm(t *testing.T) {
	in := &scriptedInterpreter{answers: []*ai.Interpretation{
		{IsClarification: true, ClarificationMessage: "How many square metres?"},
		{Items: []ai.ProposedItem{{Particulars: "Black Granite", Quantity: "12", Rate: "1200"}}, Reasoning: "listed rate"},
	}}
	svc, out := run(t, &stubBackend{loggedIn: "admin"}, in, "black granite please\n12\ny\n")

	assertContains(t, out, "[AI]: How many square metres?", "PROPOSED ITEMS:", "Added 1 item(s).")
	if len(in.texts) != 2 || !strings.Contains(in.texts[1], "User response: 12") {
		t.Errorf("follow-up not accumulated: %q", in.texts)
	}
	items := svc.Draft().Items()
	if len(items) != 1 || !items[0].Quantity.Equal(decimal.NewFromInt(12)) {
		t.Errorf("items not applied: %+v", items)
	}
}

func TestRun_InterpreterDeclined(t *testing.T) {
	in := &scriptedInterpreter{answers: []*ai.Interpretation{
		{Items: []ai.ProposedItem{{Particulars: "Black Granite", Quantity: "1", Rate: "1"}}},
	}}
	svc, out := run(t, &stubBackend{loggedIn: "admin"}, in, "one slab\nn\n")

	assertContains(t, out, "Cancelled.")
	if !svc.Draft().Totals().GrandTotal.IsZero() {
		t.Error("declined proposal was applied")
	}
}

func TestParseInvoiceQuery(t *testing.T) {
	tests := []struct {
		args   []string
		search string
		date   string
	}{
		{nil, "", ""},
		{[]string{"acme"}, "acme", ""},
		{[]string{"2024-03-15"}, "", "2024-03-15"},
		{[]string{"sri", "ganesh", "2024-03-15"}, "sri ganesh", "2024-03-15"},
		{[]string{"2024-03-15", "INV-1"}, "INV-1", "2024-03-15"},
	}
	for _, tt := range tests {
		q := parseInvoiceQuery(tt.args)
		if q.Search != tt.search || q.Date != tt.date {
			t.Errorf("parseInvoiceQuery(%v) = %+v, want search %q date %q", tt.args, q, tt.search, tt.date)
		}
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{core.ErrUnauthenticated, "use /login"},
		{&core.GatewayError{StatusCode: 400, Message: "Item X not found in inventory"}, "Item X not found in inventory"},
		{&core.TransportError{Op: "save", Err: errors.New("refused")}, "cannot reach the server (refused)"},
	}
	for _, tt := range tests {
		if got := describeError(tt.err); !strings.Contains(got, tt.want) {
			t.Errorf("describeError(%v) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
}
