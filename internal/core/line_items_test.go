package core_test

import (
	"errors"
	"math"
	"testing"

	"granite-console/internal/core"

	"github.com/shopspring/decimal"
)

func TestLineItem_AmountIsQuantityTimesRate(t *testing.T) {
	pairs := [][2]float64{
		{0, 0}, {1, 1}, {2, 100}, {5, 1200}, {2.5, 1200.4}, {0.333, 7.77}, {12.75, 3456.125}, {1e6, 0.01},
	}
	for _, p := range pairs {
		li := core.LineItem{Quantity: decimal.NewFromFloat(p[0]), Rate: decimal.NewFromFloat(p[1])}
		got := li.Amount().InexactFloat64()
		if math.Abs(got-p[0]*p[1]) > 1e-9 {
			t.Errorf("amount(%v, %v) = %v, want %v", p[0], p[1], got, p[0]*p[1])
		}
	}
}

func TestLineItemStore_AddDefaults(t *testing.T) {
	s := core.NewLineItemStore()
	if pos := s.AddItem(); pos != 1 {
		t.Fatalf("expected first position 1, got %d", pos)
	}
	if pos := s.AddItem(); pos != 2 {
		t.Fatalf("expected second position 2, got %d", pos)
	}
	it := s.Items()[1]
	if it.Particulars != "" || it.HSN != "6802" || !it.Quantity.IsZero() || !it.Rate.IsZero() {
		t.Errorf("unexpected default item: %+v", it)
	}
}

func TestLineItemStore_CannotRemoveLastItem(t *testing.T) {
	s := core.NewLineItemStore()
	s.AddItem()

	err := s.RemoveItem(1)
	var lastErr *core.LastItemError
	if !errors.As(err, &lastErr) {
		t.Fatalf("expected LastItemError, got %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("store must keep its last item, len=%d", s.Len())
	}

	// Repeated removals never empty the store.
	for i := 0; i < 3; i++ {
		s.AddItem()
	}
	for i := 0; i < 10; i++ {
		_ = s.RemoveItem(1)
		if s.Len() < 1 {
			t.Fatalf("store emptied after %d removals", i+1)
		}
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 item left, got %d", s.Len())
	}
}

func TestLineItemStore_RemoveRenumbers(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		removes []int
	}{
		{name: "remove first", n: 3, removes: []int{1}},
		{name: "remove middle twice", n: 5, removes: []int{3, 3}},
		{name: "remove tail", n: 4, removes: []int{4, 3}},
		{name: "remove all but one", n: 6, removes: []int{1, 1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := core.NewLineItemStore()
			for i := 0; i < tt.n; i++ {
				pos := s.AddItem()
				if err := s.SetField(pos, core.FieldParticulars, string(rune('A'+i))); err != nil {
					t.Fatalf("SetField: %v", err)
				}
			}
			for _, pos := range tt.removes {
				if err := s.RemoveItem(pos); err != nil {
					t.Fatalf("RemoveItem(%d): %v", pos, err)
				}
			}

			rows := s.Rows()
			if len(rows) != tt.n-len(tt.removes) {
				t.Fatalf("expected %d rows, got %d", tt.n-len(tt.removes), len(rows))
			}
			for i, r := range rows {
				if r.SlNo != i+1 {
					t.Errorf("row %d has serial %d", i, r.SlNo)
				}
			}
		})
	}
}

func TestLineItemStore_RemoveOutOfRange(t *testing.T) {
	s := core.NewLineItemStore()
	s.AddItem()
	s.AddItem()
	if err := s.RemoveItem(3); !errors.Is(err, core.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
	if err := s.RemoveItem(0); !errors.Is(err, core.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestLineItemStore_SetFieldCoercesNumbers(t *testing.T) {
	s := core.NewLineItemStore()
	s.AddItem()

	tests := []struct {
		raw  string
		want string
	}{
		{"12", "12"},
		{" 2.5 ", "2.5"},
		{"", "0"},
		{"abc", "0"},
		{"-4", "0"},
	}
	for _, tt := range tests {
		if err := s.SetField(1, core.FieldQuantity, tt.raw); err != nil {
			t.Fatalf("SetField(%q): %v", tt.raw, err)
		}
		if got := s.Items()[0].Quantity.String(); got != tt.want {
			t.Errorf("quantity %q: got %s, want %s", tt.raw, got, tt.want)
		}
	}

	if err := s.SetField(1, "colour", "black"); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestLineItemStore_ItemsIsACopy(t *testing.T) {
	s := core.NewLineItemStore()
	s.AddItem()
	items := s.Items()
	items[0].Particulars = "mutated"
	if s.Items()[0].Particulars != "" {
		t.Error("Items() must not expose internal storage")
	}
}
