package gateway

import (
	"context"
	"net/http"

	"granite-console/internal/core"
)

func (c *Client) List(ctx context.Context) ([]core.InvoiceRecord, error) {
	var out []core.InvoiceRecord
	if err := c.do(ctx, "list invoices", http.MethodGet, "/invoices", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*core.InvoiceRecord, error) {
	var out core.InvoiceRecord
	if err := c.do(ctx, "get invoice", http.MethodGet, "/invoices/"+escape(id), nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, record core.InvoiceRecord) (*core.SaveResult, error) {
	record.ID = ""
	var out core.SaveResult
	if err := c.do(ctx, "create invoice", http.MethodPost, "/invoices", record, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, record core.InvoiceRecord) (*core.SaveResult, error) {
	var out core.SaveResult
	if err := c.do(ctx, "update invoice", http.MethodPut, "/invoices/"+escape(id), record, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete invoice", http.MethodDelete, "/invoices/"+escape(id), nil, nil, true)
}
