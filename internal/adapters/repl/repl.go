package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"granite-console/internal/app"
	"granite-console/internal/core"
)

var errExit = errors.New("exit")

// session is one interactive console: the service plus the terminal streams.
type session struct {
	ctx    context.Context
	svc    app.ConsoleService
	reader *bufio.Reader
	out    io.Writer
}

// Run starts the interactive REPL loop.
// Slash commands edit the working invoice deterministically; any other input is
// sent to the line-item interpreter and applied only after confirmation.
func Run(ctx context.Context, svc app.ConsoleService, reader *bufio.Reader, out io.Writer) {
	s := &session{ctx: ctx, svc: svc, reader: reader, out: out}

	fmt.Fprintln(out, "Granite Console")
	if user, err := svc.CurrentUser(); err == nil {
		fmt.Fprintf(out, "Logged in as %s.\n", user)
	} else {
		fmt.Fprintln(out, "Not logged in. Use /login <username> to start.")
	}
	fmt.Fprintln(out, "Edit the invoice with slash commands, describe items in plain words, or use /help.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	for {
		fmt.Fprint(out, "\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				return
			}
			continue
		}

		if strings.HasPrefix(input, "/") {
			if dErr := s.dispatch(input); dErr != nil {
				if errors.Is(dErr, errExit) {
					fmt.Fprintln(out, "Goodbye!")
					return
				}
				fmt.Fprintf(out, "Error: %s\n", describeError(dErr))
			}
		} else if s.interpret(input) {
			return
		}
		if err != nil {
			return
		}
	}
}

// dispatch runs one slash command against the working draft or the backend.
func (s *session) dispatch(input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]
	out := s.out

	switch cmd {
	case "new":
		printDraft(out, s.svc.NewDraft())

	case "load":
		if len(args) < 1 {
			fmt.Fprintln(out, "Usage: /load <invoice-id>")
			return nil
		}
		d, err := s.svc.LoadInvoice(s.ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Loaded invoice %s.\n", d.Header().InvoiceNo)
		printDraft(out, d)

	case "show":
		printDraft(out, s.svc.Draft())

	case "add":
		pos := s.svc.Draft().AddItem()
		fmt.Fprintf(out, "Added line %d.\n", pos)
		printItems(out, s.svc.Draft())

	case "rm", "remove":
		if len(args) < 1 {
			fmt.Fprintln(out, "Usage: /rm <line-no>")
			return nil
		}
		pos, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(out, "Invalid line number: %s\n", args[0])
			return nil
		}
		if err := s.svc.Draft().RemoveItem(pos); err != nil {
			return err
		}
		printItems(out, s.svc.Draft())

	case "item":
		if len(args) < 2 {
			fmt.Fprintln(out, "Usage: /item <line-no> <particulars|hsn|quantity|rate> <value>")
			return nil
		}
		pos, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(out, "Invalid line number: %s\n", args[0])
			return nil
		}
		field := core.ItemField(strings.ToLower(args[1]))
		if err := s.svc.Draft().SetItemField(pos, field, strings.Join(args[2:], " ")); err != nil {
			return err
		}
		printItems(out, s.svc.Draft())

	case "set":
		if len(args) < 1 {
			fmt.Fprintf(out, "Usage: /set <field> <value>\nFields: %s\n", strings.Join(core.HeaderFields, ", "))
			return nil
		}
		if err := s.svc.Draft().SetHeaderField(args[0], strings.Join(args[1:], " ")); err != nil {
			return err
		}
		h := s.svc.Draft().Header()
		fmt.Fprintf(out, "%s = %s\n", args[0], *h.Field(args[0]))

	case "cgst", "sgst":
		if len(args) < 1 {
			fmt.Fprintf(out, "Usage: /%s <percent>\n", cmd)
			return nil
		}
		d := s.svc.Draft()
		if cmd == "cgst" {
			d.SetCGSTPercent(args[0])
		} else {
			d.SetSGSTPercent(args[0])
		}
		printTotals(out, d)

	case "save":
		res, err := s.svc.SaveDraft(s.ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Invoice %s saved (id %s).\n", res.InvoiceNo, res.ID)

	case "pdf":
		res, err := s.svc.ExportDraft()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %s (%d page(s)).\n", res.Path, res.Pages)

	case "invoices":
		q := parseInvoiceQuery(args)
		res, err := s.svc.ListInvoices(s.ctx, q)
		if err != nil {
			return err
		}
		printInvoices(out, res)

	case "delete":
		if len(args) < 1 {
			fmt.Fprintln(out, "Usage: /delete <invoice-id>")
			return nil
		}
		return s.handleDelete(args[0])

	case "inventory", "stock":
		res, err := s.svc.ListInventory(s.ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		printInventory(out, res)

	case "dashboard":
		dash, err := s.svc.Dashboard(s.ctx)
		if err != nil {
			return err
		}
		printDashboard(out, dash)

	case "report":
		req := app.ReportRequest{}
		if len(args) > 0 {
			req.Type = args[0]
		}
		if len(args) > 1 {
			req.Start = args[1]
		}
		if len(args) > 2 {
			req.End = args[2]
		}
		rep, err := s.svc.Reports().Generate(s.ctx, req)
		if err != nil {
			return err
		}
		printReport(out, rep)

	case "export-report":
		res, err := s.svc.Reports().Export()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %s (%d page(s)).\n", res.Path, res.Pages)

	case "login":
		if len(args) < 1 {
			fmt.Fprintln(out, "Usage: /login <username>")
			return nil
		}
		return s.handleLogin(args[0])

	case "logout":
		if err := s.svc.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Logged out.")

	case "help", "h":
		printHelp(out)

	case "exit", "quit", "q":
		return errExit

	default:
		fmt.Fprintf(out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}

// parseInvoiceQuery treats an argument shaped like YYYY-MM-DD as the date
// filter and the remaining words as the search text.
func parseInvoiceQuery(args []string) app.InvoiceQuery {
	var q app.InvoiceQuery
	var words []string
	for _, a := range args {
		if _, err := time.Parse("2006-01-02", a); err == nil && q.Date == "" {
			q.Date = a
			continue
		}
		words = append(words, a)
	}
	q.Search = strings.Join(words, " ")
	return q
}

// interpret sends free text to the line-item interpreter, following up on
// clarification questions for up to three rounds. It reports whether the user
// asked to exit from inside the conversation.
func (s *session) interpret(input string) bool {
	out := s.out
	fmt.Fprintln(out, "[AI] Processing...")
	accumulated := input

	for round := 1; ; round++ {
		if round > 3 {
			fmt.Fprintln(out, "Could not work out the line items. Try /item instead, or type /help.")
			return false
		}

		result, err := s.svc.InterpretLineItems(s.ctx, accumulated)
		if err != nil {
			fmt.Fprintf(out, "Error: %s\n", describeError(err))
			return false
		}

		if result.IsClarification {
			fmt.Fprintf(out, "\n[AI]: %s\n", result.ClarificationMessage)
			answer := s.prompt("> ")

			if strings.HasPrefix(answer, "/") {
				fmt.Fprintln(out, "(AI session cancelled)")
				if err := s.dispatch(answer); err != nil {
					if errors.Is(err, errExit) {
						fmt.Fprintln(out, "Goodbye!")
						return true
					}
					fmt.Fprintf(out, "Error: %s\n", describeError(err))
				}
				return false
			}
			if answer == "" || strings.EqualFold(answer, "cancel") {
				fmt.Fprintln(out, "Cancelled.")
				return false
			}
			accumulated = fmt.Sprintf("Original request: %s\nClarification requested: %s\nUser response: %s",
				accumulated, result.ClarificationMessage, answer)
			fmt.Fprintln(out, "[AI] Thinking...")
			continue
		}

		printProposal(out, result)
		if !s.confirm("\nAdd these items to the invoice? (y/n): ") {
			fmt.Fprintln(out, "Cancelled.")
			return false
		}
		s.svc.ApplyLineItems(result.Items)
		fmt.Fprintf(out, "Added %d item(s).\n", len(result.Items))
		printItems(out, s.svc.Draft())
		printTotals(out, s.svc.Draft())
		return false
	}
}

// describeError turns service errors into console text. Backend messages are shown verbatim.
func describeError(err error) string {
	var gwErr *core.GatewayError
	var trErr *core.TransportError
	var lastErr *core.LastItemError
	switch {
	case errors.Is(err, core.ErrUnauthenticated):
		return "you are not logged in or your session has expired; use /login <username>"
	case errors.As(err, &gwErr):
		return gwErr.Message
	case errors.As(err, &trErr):
		return fmt.Sprintf("cannot reach the server (%v)", trErr.Err)
	case errors.As(err, &lastErr):
		return lastErr.Error()
	}
	return err.Error()
}
