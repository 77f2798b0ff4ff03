package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ItemField names an editable column of a line item.
type ItemField string

const (
	FieldParticulars ItemField = "particulars"
	FieldHSN         ItemField = "hsn"
	FieldQuantity    ItemField = "quantity"
	FieldRate        ItemField = "rate"
)

// LineItemStore is the ordered list of line items on a draft.
// Insertion order is display order and serialization order. Positions are 1-based
// and always contiguous, so removing a row renumbers everything after it.
//
// The store does not recompute totals; its owner does that after each mutation.
type LineItemStore struct {
	items []LineItem
}

// NewLineItemStore returns an empty store. Drafts seed it with one blank item.
func NewLineItemStore() *LineItemStore {
	return &LineItemStore{}
}

// BlankItem returns a line item with the default values of a new row.
func BlankItem() LineItem {
	return LineItem{HSN: DefaultHSN, Quantity: decimal.Zero, Rate: decimal.Zero}
}

// AddItem appends a blank item and returns its position.
func (s *LineItemStore) AddItem() int {
	s.items = append(s.items, BlankItem())
	return len(s.items)
}

// RemoveItem removes the item at position. The last remaining item can never be removed.
func (s *LineItemStore) RemoveItem(position int) error {
	if len(s.items) == 1 {
		return &LastItemError{}
	}
	if position < 1 || position > len(s.items) {
		return fmt.Errorf("position %d: %w", position, ErrItemNotFound)
	}
	s.items = append(s.items[:position-1], s.items[position:]...)
	return nil
}

// Items returns a copy of the current items in order.
func (s *LineItemStore) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Rows returns the items numbered from 1 with their live amounts.
func (s *LineItemStore) Rows() []ItemRow {
	rows := make([]ItemRow, len(s.items))
	for i, it := range s.items {
		rows[i] = ItemRow{SlNo: i + 1, Item: it, Amount: it.Amount()}
	}
	return rows
}

// Len returns the number of items.
func (s *LineItemStore) Len() int {
	return len(s.items)
}

// SetField edits one column of the item at position. Quantity and rate are
// coerced with ParseQuantity; they never fail on malformed input.
func (s *LineItemStore) SetField(position int, field ItemField, value string) error {
	if position < 1 || position > len(s.items) {
		return fmt.Errorf("position %d: %w", position, ErrItemNotFound)
	}
	it := &s.items[position-1]
	switch ItemField(strings.ToLower(string(field))) {
	case FieldParticulars:
		it.Particulars = strings.TrimSpace(value)
	case FieldHSN:
		it.HSN = strings.TrimSpace(value)
	case FieldQuantity:
		it.Quantity = ParseQuantity(value)
	case FieldRate:
		it.Rate = ParseQuantity(value)
	default:
		return fmt.Errorf("unknown item field %q (want particulars, hsn, quantity or rate)", field)
	}
	return nil
}

// Append adds a fully specified item, coercing negative quantity/rate to zero.
func (s *LineItemStore) Append(item LineItem) int {
	if item.HSN == "" {
		item.HSN = DefaultHSN
	}
	item.Quantity = nonNegative(item.Quantity)
	item.Rate = nonNegative(item.Rate)
	s.items = append(s.items, item)
	return len(s.items)
}

// reset replaces the contents, used when hydrating from a persisted record.
func (s *LineItemStore) reset(items []LineItem) {
	s.items = nil
	for _, it := range items {
		s.Append(it)
	}
}

// ParseQuantity coerces user input to a non-negative number.
// Blank, malformed or negative input becomes zero.
func ParseQuantity(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return nonNegative(d)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
