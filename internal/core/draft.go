package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// DraftState is the lifecycle position of an InvoiceDraft.
//
//	EMPTY → EDITING → VALIDATION_FAILED → EDITING ...
//	EDITING → PERSISTED → (reload or further edits) EDITING
type DraftState string

const (
	DraftEmpty            DraftState = "EMPTY"
	DraftEditing          DraftState = "EDITING"
	DraftValidationFailed DraftState = "VALIDATION_FAILED"
	DraftPersisted        DraftState = "PERSISTED"
)

// DraftDefaults seeds a new draft.
type DraftDefaults struct {
	Now         time.Time
	CGSTPercent decimal.Decimal
	SGSTPercent decimal.Decimal
}

// InvoiceDraft is an invoice being edited in one console session.
// Totals are recomputed after every mutation and are never set directly.
// A draft is not safe for concurrent edits; only Save guards against re-entry.
type InvoiceDraft struct {
	id          string
	header      InvoiceHeader
	cgstPercent decimal.Decimal
	sgstPercent decimal.Decimal
	items       *LineItemStore
	totals      Totals
	state       DraftState
	saving      atomic.Bool
}

// NewDraft starts a new invoice with one blank line item, today's date and a
// timestamp-derived invoice number.
func NewDraft(defaults DraftDefaults) *InvoiceDraft {
	now := defaults.Now
	if now.IsZero() {
		now = time.Now()
	}
	d := &InvoiceDraft{
		header: InvoiceHeader{
			InvoiceNo:   InvoiceNumberFor(now),
			InvoiceDate: now.Format("2006-01-02"),
		},
		cgstPercent: clampPercent(defaults.CGSTPercent),
		sgstPercent: clampPercent(defaults.SGSTPercent),
		items:       NewLineItemStore(),
		state:       DraftEmpty,
	}
	d.items.AddItem()
	d.Recompute()
	return d
}

// HydrateDraft builds a draft for editing an already persisted invoice.
func HydrateDraft(id string, rec InvoiceRecord) *InvoiceDraft {
	d := &InvoiceDraft{items: NewLineItemStore()}
	d.Hydrate(id, rec)
	return d
}

// InvoiceNumberFor derives an invoice number from the last six digits of the
// millisecond timestamp, e.g. "INV-482913".
func InvoiceNumberFor(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "INV-" + ms
}

// Hydrate replaces the draft's contents with a persisted record and binds it to id.
// Stored item amounts are ignored and recomputed from quantity and rate.
func (d *InvoiceDraft) Hydrate(id string, rec InvoiceRecord) {
	d.id = id
	d.header = rec.InvoiceHeader
	d.header.InvoiceDate = DatePart(d.header.InvoiceDate)
	d.header.DateOfSupply = DatePart(d.header.DateOfSupply)
	d.cgstPercent = clampPercent(decimal.NewFromFloat(rec.CGSTPercent))
	d.sgstPercent = clampPercent(decimal.NewFromFloat(rec.SGSTPercent))
	d.items.reset(rec.LineItems())
	if d.items.Len() == 0 {
		d.items.AddItem()
	}
	d.state = DraftEditing
	d.Recompute()
}

// Recompute derives the totals from the current items and tax percentages.
func (d *InvoiceDraft) Recompute() Totals {
	d.totals = ComputeTotals(d.items.Items(), d.cgstPercent, d.sgstPercent)
	return d.totals
}

// AddItem appends a blank line item and returns its position.
func (d *InvoiceDraft) AddItem() int {
	pos := d.items.AddItem()
	d.edited()
	return pos
}

// AppendItems adds fully specified items, e.g. ones proposed by the interpreter.
// A single untouched blank row is replaced rather than kept.
func (d *InvoiceDraft) AppendItems(items []LineItem) {
	if len(items) == 0 {
		return
	}
	if d.items.Len() == 1 && isBlank(d.items.items[0]) {
		d.items.reset(nil)
	}
	for _, it := range items {
		d.items.Append(it)
	}
	d.edited()
}

// RemoveItem removes the item at position; see LineItemStore.RemoveItem.
func (d *InvoiceDraft) RemoveItem(position int) error {
	if err := d.items.RemoveItem(position); err != nil {
		return err
	}
	d.edited()
	return nil
}

// SetItemField edits one column of a line item.
func (d *InvoiceDraft) SetItemField(position int, field ItemField, value string) error {
	if err := d.items.SetField(position, field, value); err != nil {
		return err
	}
	d.edited()
	return nil
}

// SetHeaderField sets a header field by its JSON name. Date fields keep only the date part.
func (d *InvoiceDraft) SetHeaderField(name, value string) error {
	f := d.header.Field(name)
	if f == nil {
		return fmt.Errorf("unknown invoice field %q", name)
	}
	value = strings.TrimSpace(value)
	if f == &d.header.InvoiceDate || f == &d.header.DateOfSupply {
		value = DatePart(value)
	}
	*f = value
	d.edited()
	return nil
}

// SetCGSTPercent sets the central tax percentage, coerced to [0, 100].
func (d *InvoiceDraft) SetCGSTPercent(raw string) {
	d.cgstPercent = ParsePercent(raw)
	d.edited()
}

// SetSGSTPercent sets the state tax percentage, coerced to [0, 100].
func (d *InvoiceDraft) SetSGSTPercent(raw string) {
	d.sgstPercent = ParsePercent(raw)
	d.edited()
}

func (d *InvoiceDraft) edited() {
	d.state = DraftEditing
	d.Recompute()
}

// ToPersistable validates the draft and produces the record to send to the backend.
// Rows with quantity <= 0 are left out; totals still include every row.
func (d *InvoiceDraft) ToPersistable() (InvoiceRecord, error) {
	totals := d.Recompute()

	if strings.TrimSpace(d.header.BuyerName) == "" {
		return InvoiceRecord{}, &ValidationError{Field: "buyerName", Message: "customer name is required"}
	}

	var items []RecordItem
	for _, it := range d.items.Items() {
		if !it.Quantity.IsPositive() {
			continue
		}
		items = append(items, RecordItem{
			Particulars: it.Particulars,
			HSN:         it.HSN,
			Quantity:    it.Quantity.InexactFloat64(),
			Rate:        it.Rate.InexactFloat64(),
			Amount:      Money(it.Amount()),
		})
	}
	if len(items) == 0 {
		return InvoiceRecord{}, &ValidationError{Field: "items", Message: "at least one item with a valid quantity/rate is required"}
	}
	if !totals.GrandTotal.Round(2).IsPositive() {
		return InvoiceRecord{}, &ValidationError{Field: "grandTotal", Message: "grand total must be greater than zero"}
	}

	return InvoiceRecord{
		ID:             d.id,
		InvoiceHeader:  d.header,
		CGSTPercent:    d.cgstPercent.InexactFloat64(),
		SGSTPercent:    d.sgstPercent.InexactFloat64(),
		Items:          items,
		TotalBeforeTax: Money(totals.TotalBeforeTax),
		CGSTAmount:     Money(totals.CGSTAmount),
		SGSTAmount:     Money(totals.SGSTAmount),
		GrandTotal:     Money(totals.GrandTotal),
		AmountInWords:  totals.AmountInWords,
	}, nil
}

// Save validates and persists the draft: create when it has no identifier yet,
// update otherwise. Gateway errors are returned unchanged and leave the draft as it was.
// A second Save while one is pending returns ErrSaveInProgress.
func (d *InvoiceDraft) Save(ctx context.Context, gw InvoiceGateway) (*SaveResult, error) {
	if !d.saving.CompareAndSwap(false, true) {
		return nil, ErrSaveInProgress
	}
	defer d.saving.Store(false)

	rec, err := d.ToPersistable()
	if err != nil {
		d.state = DraftValidationFailed
		return nil, err
	}

	var res *SaveResult
	if d.id == "" {
		res, err = gw.Create(ctx, rec)
	} else {
		res, err = gw.Update(ctx, d.id, rec)
	}
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &SaveResult{}
	}
	if res.ID != "" {
		d.id = res.ID
	}
	if res.InvoiceNo != "" {
		d.header.InvoiceNo = res.InvoiceNo
	}
	d.state = DraftPersisted
	return res, nil
}

// ID returns the persisted identifier, or "" for a new invoice.
func (d *InvoiceDraft) ID() string { return d.id }

// IsNew reports whether the draft has never been persisted.
func (d *InvoiceDraft) IsNew() bool { return d.id == "" }

func (d *InvoiceDraft) State() DraftState { return d.state }
func (d *InvoiceDraft) Header() InvoiceHeader { return d.header }
func (d *InvoiceDraft) Items() []LineItem { return d.items.Items() }
func (d *InvoiceDraft) Rows() []ItemRow { return d.items.Rows() }
func (d *InvoiceDraft) Totals() Totals { return d.totals }
func (d *InvoiceDraft) CGSTPercent() decimal.Decimal { return d.cgstPercent }
func (d *InvoiceDraft) SGSTPercent() decimal.Decimal { return d.sgstPercent }

// Saving reports whether a Save call is in flight.
func (d *InvoiceDraft) Saving() bool { return d.saving.Load() }

// PDFFilename is the export file name for this invoice.
func (d *InvoiceDraft) PDFFilename() string {
	no := strings.TrimSpace(d.header.InvoiceNo)
	if no == "" {
		no = "New"
	}
	return fmt.Sprintf("Invoice-%s.pdf", no)
}

func isBlank(it LineItem) bool {
	return it.Particulars == "" && it.Quantity.IsZero() && it.Rate.IsZero()
}
