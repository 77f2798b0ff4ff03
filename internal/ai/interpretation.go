package ai

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"granite-console/internal/core"
)

// ProposedItem is one line item suggested by the model. Numbers arrive as
// strings and go through the same coercion as manual edits.
type ProposedItem struct {
	Particulars string `json:"particulars" jsonschema_description:"Exact stock item name"`
	HSN         string `json:"hsn" jsonschema_description:"HSN code, usually 6802"`
	Quantity    string `json:"quantity" jsonschema_description:"Quantity as a decimal string"`
	Rate        string `json:"rate" jsonschema_description:"Rate per unit as a decimal string, empty for the listed rate"`
}

// Interpretation is the structured answer of the line-item interpreter.
type Interpretation struct {
	IsClarification      bool           `json:"is_clarification"`
	ClarificationMessage string         `json:"clarification_message"`
	Items                []ProposedItem `json:"items"`
	Reasoning            string         `json:"reasoning"`
}

// Resolve canonicalises each proposed item against the catalogue: the
// particulars take the catalogue's spelling and an empty or zero rate takes
// the catalogue rate. Unknown items are left as proposed.
func (in *Interpretation) Resolve(catalog []core.InventoryItem) {
	byName := make(map[string]core.InventoryItem, len(catalog))
	for _, it := range catalog {
		byName[strings.ToLower(strings.TrimSpace(it.ItemName))] = it
	}
	for i := range in.Items {
		p := &in.Items[i]
		p.Particulars = strings.TrimSpace(p.Particulars)
		it, ok := byName[strings.ToLower(p.Particulars)]
		if !ok {
			continue
		}
		p.Particulars = it.ItemName
		if core.ParseQuantity(p.Rate).IsZero() {
			p.Rate = fmtNumber(it.Rate)
		}
	}
}

// Validate rejects answers that are neither a question nor a usable proposal.
func (in *Interpretation) Validate() error {
	if in.IsClarification {
		if strings.TrimSpace(in.ClarificationMessage) == "" {
			return errors.New("clarification without a question")
		}
		return nil
	}
	if len(in.LineItems()) == 0 {
		return errors.New("no line items proposed")
	}
	return nil
}

// LineItems converts the proposal to draft line items. Items without
// particulars are dropped; a blank HSN becomes the default.
func (in *Interpretation) LineItems() []core.LineItem {
	out := make([]core.LineItem, 0, len(in.Items))
	for _, p := range in.Items {
		if p.Particulars == "" {
			continue
		}
		hsn := strings.TrimSpace(p.HSN)
		if hsn == "" {
			hsn = core.DefaultHSN
		}
		out = append(out, core.LineItem{
			Particulars: p.Particulars,
			HSN:         hsn,
			Quantity:    core.ParseQuantity(p.Quantity),
			Rate:        core.ParseQuantity(p.Rate),
		})
	}
	return out
}

func fmtNumber(f float64) string {
	return decimal.NewFromFloat(f).String()
}
