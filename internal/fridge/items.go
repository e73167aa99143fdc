package fridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

const itemsPath = "/api/inventory/items"

// ListItems fetches the authoritative inventory. The backend has returned
// both a bare array and an {items: [...]} wrapper across versions, so both
// shapes are accepted.
func (c *Client) ListItems(ctx context.Context) ([]InventoryItem, error) {
	req, err := c.newRequest(ctx, http.MethodGet, itemsPath, nil)
	if err != nil {
		return nil, err
	}
	raw, err := c.sendRaw(req)
	if err != nil {
		return nil, err
	}

	var items []InventoryItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var wrapped struct {
		Items []InventoryItem `json:"items"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode inventory list: %w", err)
	}
	return wrapped.Items, nil
}

// CreateItem adds a new inventory item. It serves both the manual-add path
// and reject-as-new.
func (c *Client) CreateItem(ctx context.Context, item NewItem) (InventoryItem, error) {
	var created InventoryItem
	if item.Name == "" {
		return created, fmt.Errorf("create item: name required")
	}
	if err := c.doJSON(ctx, http.MethodPost, itemsPath, item, &created); err != nil {
		return created, err
	}
	return created, nil
}

// UpdateItem applies a partial edit to an existing item.
func (c *Client) UpdateItem(ctx context.Context, id int, patch ItemPatch) (InventoryItem, error) {
	var updated InventoryItem
	if err := c.doJSON(ctx, http.MethodPut, itemsPath+"/"+strconv.Itoa(id), patch, &updated); err != nil {
		return updated, err
	}
	return updated, nil
}

// DeleteItem removes an item by identifier.
func (c *Client) DeleteItem(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, itemsPath+"/"+strconv.Itoa(id), nil, nil)
}

// ConfirmUpdates commits the quantity changes the user accepted.
func (c *Client) ConfirmUpdates(ctx context.Context, updates []QuantityUpdate) (ConfirmResult, error) {
	var result ConfirmResult
	if len(updates) == 0 {
		return result, nil
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/inventory/confirm-updates", updates, &result); err != nil {
		return result, err
	}
	return result, nil
}

// RejectUpdate reverts a proposed quantity change server-side, recording
// the evidence image as a new item. This is the alternate reject binding
// used when a prior quantity must be restored.
func (c *Client) RejectUpdate(ctx context.Context, req RejectRequest) error {
	if req.ItemName == "" {
		return fmt.Errorf("reject update: item name required")
	}
	return c.doJSON(ctx, http.MethodPost, "/api/inventory/reject-update", req, nil)
}
