package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dalemusser/campushub/internal/domain/models"
)

// List fetches one page of a resource kind. q carries page, limit, search
// and filters exactly as they should appear on the wire.
func (c *Client) List(ctx context.Context, k models.Kind, q url.Values) (models.Page, error) {
	var data map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, listPath(k), q, nil, &data); err != nil {
		return models.Page{}, err
	}

	var page models.Page
	if raw, ok := data[k.ItemsKey]; ok {
		if err := json.Unmarshal(raw, &page.Items); err != nil {
			return models.Page{}, fmt.Errorf("decode %s: %w", k.ItemsKey, err)
		}
	}
	if raw, ok := data["pagination"]; ok {
		if err := json.Unmarshal(raw, &page.Pagination); err != nil {
			return models.Page{}, fmt.Errorf("decode pagination: %w", err)
		}
	}
	if page.Items == nil {
		page.Items = []models.Item{}
	}
	page.Pagination = page.Pagination.Normalize()
	return page, nil
}

// GetBySlug fetches a single item by its slug.
func (c *Client) GetBySlug(ctx context.Context, k models.Kind, slug string) (models.Item, error) {
	return c.decodeItem(ctx, k, http.MethodGet, slugPath(k, slug), nil)
}

// Get fetches a single item by its id.
func (c *Client) Get(ctx context.Context, k models.Kind, id string) (models.Item, error) {
	return c.decodeItem(ctx, k, http.MethodGet, itemPath(k, id), nil)
}

// Create posts a new item. Owner is implied by the forwarded session.
// A 2xx answer without data still means the record was written; the zero
// Item is returned in that case.
func (c *Client) Create(ctx context.Context, k models.Kind, fields map[string]any) (models.Item, error) {
	it, err := c.decodeItem(ctx, k, http.MethodPost, listPath(k), fields)
	if errors.Is(err, ErrEmptyData) {
		return models.Item{}, nil
	}
	return it, err
}

// Update sends fields for item id. Callers decide whether fields is a
// diff or the full form.
func (c *Client) Update(ctx context.Context, k models.Kind, id string, fields map[string]any) error {
	return c.do(ctx, http.MethodPut, itemPath(k, id), nil, fields, nil)
}

// Delete removes item id.
func (c *Client) Delete(ctx context.Context, k models.Kind, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(k, id), nil, nil, nil)
}

// decodeItem accepts either {data:{<itemKey>:{...}}} or {data:{...item}}.
func (c *Client) decodeItem(ctx context.Context, k models.Kind, method, path string, body any) (models.Item, error) {
	var raw json.RawMessage
	if err := c.do(ctx, method, path, nil, body, &raw); err != nil {
		return models.Item{}, err
	}
	var wrapped map[string]json.RawMessage
	if json.Unmarshal(raw, &wrapped) == nil {
		if inner, ok := wrapped[k.ItemKey]; ok {
			raw = inner
		}
	}
	var it models.Item
	if err := json.Unmarshal(raw, &it); err != nil {
		return models.Item{}, fmt.Errorf("decode %s: %w", k.ItemKey, err)
	}
	return it, nil
}
