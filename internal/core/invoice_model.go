package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultHSN is the HSN code for worked monumental/building stone (granite slabs).
const DefaultHSN = "6802"

// LineItem is one row of an invoice. Amount is always derived from Quantity and Rate.
type LineItem struct {
	Particulars string
	HSN         string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
}

// Amount returns Quantity × Rate, unrounded.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.Rate)
}

// ItemRow is a display view of a line item with its 1-based serial number.
type ItemRow struct {
	SlNo   int
	Item   LineItem
	Amount decimal.Decimal
}

// InvoiceHeader holds the buyer, consignee and shipping metadata of an invoice.
// JSON names follow the backend's persisted record.
type InvoiceHeader struct {
	InvoiceNo          string `json:"invoiceNo"`
	InvoiceDate        string `json:"invoiceDate"` // YYYY-MM-DD
	ReserveChange      string `json:"reserveChange,omitempty"`
	BuyerName          string `json:"buyerName"`
	BuyerAddress       string `json:"buyerAddress"`
	BuyerState         string `json:"buyerState"`
	BuyerStateCode     string `json:"buyerStateCode"`
	BuyerGST           string `json:"buyerGST"`
	EwayBill           string `json:"ewayBill"`
	TransportMode      string `json:"transportMode"`
	VehicleNo          string `json:"vehicleNo"`
	DateOfSupply       string `json:"dateOfSupply"`
	PlaceOfSupply      string `json:"placeOfSupply"`
	ConsigneeName      string `json:"consigneeName"`
	ConsigneeAddress   string `json:"consigneeAddress"`
	ConsigneeState     string `json:"consigneeState"`
	ConsigneeStateCode string `json:"consigneeStateCode"`
	ConsigneeGSTIN     string `json:"consigneeGSTIN"`
}

// HeaderFields lists the settable header field names, in form order.
var HeaderFields = []string{
	"invoiceNo", "invoiceDate", "reserveChange",
	"buyerName", "buyerAddress", "buyerState", "buyerStateCode", "buyerGST", "ewayBill",
	"transportMode", "vehicleNo", "dateOfSupply", "placeOfSupply",
	"consigneeName", "consigneeAddress", "consigneeState", "consigneeStateCode", "consigneeGSTIN",
}

// Field returns a pointer to the header field with the given JSON name
// (case-insensitive), or nil if no such field exists.
func (h *InvoiceHeader) Field(name string) *string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "invoiceno":
		return &h.InvoiceNo
	case "invoicedate":
		return &h.InvoiceDate
	case "reservechange":
		return &h.ReserveChange
	case "buyername":
		return &h.BuyerName
	case "buyeraddress":
		return &h.BuyerAddress
	case "buyerstate":
		return &h.BuyerState
	case "buyerstatecode":
		return &h.BuyerStateCode
	case "buyergst":
		return &h.BuyerGST
	case "ewaybill":
		return &h.EwayBill
	case "transportmode":
		return &h.TransportMode
	case "vehicleno":
		return &h.VehicleNo
	case "dateofsupply":
		return &h.DateOfSupply
	case "placeofsupply":
		return &h.PlaceOfSupply
	case "consigneename":
		return &h.ConsigneeName
	case "consigneeaddress":
		return &h.ConsigneeAddress
	case "consigneestate":
		return &h.ConsigneeState
	case "consigneestatecode":
		return &h.ConsigneeStateCode
	case "consigneegstin":
		return &h.ConsigneeGSTIN
	}
	return nil
}

// RecordItem is a persisted line item. Amount is a snapshot of quantity × rate
// rounded to 2 places; readers recompute it rather than trusting it.
type RecordItem struct {
	Particulars string  `json:"particulars"`
	HSN         string  `json:"hsn"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

// UnmarshalJSON accepts amount as a number or a numeric string ("200.00").
// Anything else reads as 0; the amount is recomputed anyway.
func (it *RecordItem) UnmarshalJSON(data []byte) error {
	type plain RecordItem
	aux := struct {
		*plain
		Amount json.RawMessage `json:"amount"`
	}{plain: (*plain)(it)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	it.Amount = 0

	raw := bytes.TrimSpace(aux.Amount)
	var s string
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
	} else {
		s = string(raw)
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
		it.Amount = d.InexactFloat64()
	}
	return nil
}

// InvoiceRecord is the JSON shape exchanged with the backend.
type InvoiceRecord struct {
	ID string `json:"_id,omitempty"`
	InvoiceHeader
	CGSTPercent    float64      `json:"cgstPercent"`
	SGSTPercent    float64      `json:"sgstPercent"`
	Items          []RecordItem `json:"items"`
	TotalBeforeTax float64      `json:"totalBeforeTax"`
	CGSTAmount     float64      `json:"cgstAmount"`
	SGSTAmount     float64      `json:"sgstAmount"`
	GrandTotal     float64      `json:"grandTotal"`
	AmountInWords  string       `json:"amountInWords"`
	CreatedAt      *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time   `json:"updatedAt,omitempty"`
}

// SaveResult is what the backend returns after a create or update.
type SaveResult struct {
	ID        string `json:"_id,omitempty"`
	InvoiceNo string `json:"invoiceNo"`
}

// LineItems converts the persisted items to line items, dropping the stored amount.
func (r InvoiceRecord) LineItems() []LineItem {
	items := make([]LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		hsn := it.HSN
		if hsn == "" {
			hsn = DefaultHSN
		}
		items = append(items, LineItem{
			Particulars: it.Particulars,
			HSN:         hsn,
			Quantity:    nonNegative(decimal.NewFromFloat(it.Quantity)),
			Rate:        nonNegative(decimal.NewFromFloat(it.Rate)),
		})
	}
	return items
}

// DatePart returns the YYYY-MM-DD portion of a bare date or a combined
// date-time value ("2024-03-15T00:00:00Z", "2024-03-15 10:30:00").
// Values that do not start with a date are returned trimmed but otherwise unchanged.
func DatePart(value string) string {
	value = strings.TrimSpace(value)
	if i := strings.IndexByte(value, 'T'); i > 0 {
		value = value[:i]
	}
	if len(value) >= 10 {
		if _, err := time.Parse("2006-01-02", value[:10]); err == nil {
			return value[:10]
		}
	}
	return value
}

// Money rounds a monetary value to 2 places for display or serialization.
func Money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// FormatINR renders an amount for display, e.g. "₹ 236.00".
func FormatINR(d decimal.Decimal) string {
	return fmt.Sprintf("₹ %s", d.StringFixed(2))
}
