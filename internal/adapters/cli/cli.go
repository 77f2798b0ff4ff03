package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"granite-console/internal/app"
	"granite-console/internal/core"
)

// ErrUsage is returned for an unknown command or missing arguments.
var ErrUsage = errors.New("usage")

const usage = `Available: login <username>, logout, invoices [search] [date], show <id>, pdf <id>,
           delete <id>, dashboard, report <type> [start] [end]`

// Run executes a one-shot CLI command.
// args is os.Args[1:]; the first element is the subcommand name. Passwords for
// login are read from in. Results go to out as text, or JSON for show.
func Run(ctx context.Context, svc app.ConsoleService, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command\n%s", ErrUsage, usage)
	}

	switch args[0] {
	case "login":
		if len(args) < 2 {
			return fmt.Errorf("%w: login <username>", ErrUsage)
		}
		fmt.Fprint(out, "Password: ")
		password, _ := bufio.NewReader(in).ReadString('\n')
		sess, err := svc.Login(ctx, args[1], strings.TrimSpace(password))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nLogged in as %s.\n", sess.Username)

	case "logout":
		if err := svc.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Logged out.")

	case "invoices", "ls":
		q := app.InvoiceQuery{}
		if len(args) > 1 {
			q.Search = args[1]
		}
		if len(args) > 2 {
			q.Date = args[2]
		}
		res, err := svc.ListInvoices(ctx, q)
		if err != nil {
			return err
		}
		for _, r := range res.Rows {
			fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\t%s\n", r.SlNo, r.Record.ID, r.Record.InvoiceNo,
				core.DatePart(r.Record.InvoiceDate), r.Record.BuyerName,
				decimal.NewFromFloat(r.Record.GrandTotal).StringFixed(2))
		}

	case "show":
		if len(args) < 2 {
			return fmt.Errorf("%w: show <id>", ErrUsage)
		}
		d, err := svc.GetInvoice(ctx, args[1])
		if err != nil {
			return err
		}
		rec, err := d.ToPersistable()
		if err != nil {
			// header only for records that fail validation
			rec = core.InvoiceRecord{ID: d.ID(), InvoiceHeader: d.Header()}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)

	case "pdf":
		if len(args) < 2 {
			return fmt.Errorf("%w: pdf <id>", ErrUsage)
		}
		res, err := svc.ExportInvoice(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%d page(s))\n", res.Path, res.Pages)

	case "delete", "rm":
		if len(args) < 2 {
			return fmt.Errorf("%w: delete <id>", ErrUsage)
		}
		if err := svc.DeleteInvoice(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(out, "Invoice %s deleted. Stock was not restored.\n", args[1])

	case "dashboard":
		d, err := svc.Dashboard(ctx)
		if err != nil {
			return err
		}
		s := d.Summary
		fmt.Fprintf(out, "total stock\t%s\ntoday's sales\t%s\ntotal invoices\t%d\nlow stock items\t%d\n",
			decimal.NewFromFloat(s.TotalStock).String(),
			decimal.NewFromFloat(s.TodaysSales).StringFixed(2),
			s.TotalInvoices, s.LowStockItems)
		for _, m := range d.MonthlySales {
			fmt.Fprintf(out, "%s\t%s\n", m.Month, decimal.NewFromFloat(m.Revenue).StringFixed(2))
		}

	case "report":
		if len(args) < 2 {
			return fmt.Errorf("%w: report <sales-month|inventory-value> [start] [end]", ErrUsage)
		}
		req := app.ReportRequest{Type: args[1]}
		if len(args) > 2 {
			req.Start = args[2]
		}
		if len(args) > 3 {
			req.End = args[3]
		}
		view := svc.Reports()
		rep, err := view.Generate(ctx, req)
		if err != nil {
			return err
		}
		for _, p := range rep.ReportData {
			fmt.Fprintf(out, "%s\t%s\n", p.Name(), decimal.NewFromFloat(p.Value()).StringFixed(2))
		}
		res, err := view.Export()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%d page(s))\n", res.Path, res.Pages)

	default:
		return fmt.Errorf("%w: unknown command %s\n%s", ErrUsage, args[0], usage)
	}
	return nil
}
