package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUnit is the stock unit used when an item does not name one (cubic metres).
const DefaultUnit = "M³"

// DefaultLowStockThreshold is the quantity below which an item counts as low stock.
const DefaultLowStockThreshold = 50

// InventoryItem is one stocked granite product.
type InventoryItem struct {
	ID            string     `json:"_id,omitempty"`
	ItemName      string     `json:"itemName"`
	ItemColor     string     `json:"itemColor"`
	ItemThickness string     `json:"itemThickness"`
	ItemShape     string     `json:"itemShape"`
	ItemPolish    string     `json:"itemPolish"`
	Unit          string     `json:"unit"`
	Quantity      float64    `json:"quantity"`
	Rate          float64    `json:"rate"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// StockValue is quantity × rate for the item.
func (it InventoryItem) StockValue() decimal.Decimal {
	return decimal.NewFromFloat(it.Quantity).Mul(decimal.NewFromFloat(it.Rate))
}

// IsLowStock reports whether the item's quantity is under threshold.
func (it InventoryItem) IsLowStock(threshold float64) bool {
	return it.Quantity < threshold
}

// UnitOrDefault returns the item's unit, or DefaultUnit when blank.
func (it InventoryItem) UnitOrDefault() string {
	if strings.TrimSpace(it.Unit) == "" {
		return DefaultUnit
	}
	return it.Unit
}

// Validate checks an item before it is stored.
func (it InventoryItem) Validate() error {
	if strings.TrimSpace(it.ItemName) == "" {
		return &ValidationError{Field: "itemName", Message: "item name is required"}
	}
	if it.Quantity < 0 {
		return &ValidationError{Field: "quantity", Message: "quantity cannot be negative"}
	}
	if it.Rate < 0 {
		return &ValidationError{Field: "rate", Message: "rate cannot be negative"}
	}
	return nil
}

// FilterInventory keeps items whose name or colour contains search, case-insensitively.
// An empty search keeps everything. Order is preserved.
func FilterInventory(items []InventoryItem, search string) []InventoryItem {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]InventoryItem, 0, len(items))
	for _, it := range items {
		if q == "" ||
			strings.Contains(strings.ToLower(it.ItemName), q) ||
			strings.Contains(strings.ToLower(it.ItemColor), q) {
			out = append(out, it)
		}
	}
	return out
}
