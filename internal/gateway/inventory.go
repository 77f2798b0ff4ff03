package gateway

import (
	"context"
	"net/http"

	"granite-console/internal/core"
)

func (c *Client) ListInventory(ctx context.Context) ([]core.InventoryItem, error) {
	var out []core.InventoryItem
	if err := c.do(ctx, "list inventory", http.MethodGet, "/inventory", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateInventory(ctx context.Context, item core.InventoryItem) (*core.InventoryItem, error) {
	item.ID = ""
	var out core.InventoryItem
	if err := c.do(ctx, "create inventory item", http.MethodPost, "/inventory", item, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateInventory(ctx context.Context, id string, item core.InventoryItem) (*core.InventoryItem, error) {
	var out core.InventoryItem
	if err := c.do(ctx, "update inventory item", http.MethodPut, "/inventory/"+escape(id), item, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteInventory(ctx context.Context, id string) error {
	return c.do(ctx, "delete inventory item", http.MethodDelete, "/inventory/"+escape(id), nil, nil, true)
}
