package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Products lists the catalog, optionally filtered by description.
func (c *Client) Products(ctx context.Context, description string) ([]Product, error) {
	var query url.Values
	if description != "" {
		query = url.Values{"description": {description}}
	}
	var out []Product
	if err := c.do(ctx, "list_products", http.MethodGet, "/products", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProductByID(ctx context.Context, id int64) (*Product, error) {
	var out Product
	if err := c.do(ctx, "get_product", http.MethodGet, productPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, payload ProductPayload) (*Product, error) {
	var out Product
	if err := c.do(ctx, "create_product", http.MethodPost, "/products", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct replaces the product. The id travels in the path only.
func (c *Client) UpdateProduct(ctx context.Context, id int64, payload ProductPayload) (*Product, error) {
	var out Product
	if err := c.do(ctx, "update_product", http.MethodPut, productPath(id), nil, payload, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		out.ID = id
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_product", http.MethodDelete, productPath(id), nil, nil, nil)
}

func productPath(id int64) string {
	return fmt.Sprintf("/products/%d", id)
}

// Streets returns the canonical street list.
func (c *Client) Streets(ctx context.Context) ([]Street, error) {
	var out []Street
	if err := c.do(ctx, "list_streets", http.MethodGet, "/streets", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
