package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// CartsByUnit lists the carts of a unit, most recent first.
func (c *Client) CartsByUnit(ctx context.Context, unitID int64) ([]CartSummary, error) {
	var out []CartSummary
	query := url.Values{"unitId": {strconv.FormatInt(unitID, 10)}}
	if err := c.do(ctx, "carts_by_unit", http.MethodGet, "/carts", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Carts(ctx context.Context) ([]CartSummary, error) {
	var out []CartSummary
	if err := c.do(ctx, "list_carts", http.MethodGet, "/carts", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CartByID(ctx context.Context, id int64) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, "get_cart", http.MethodGet, cartPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCart posts a new cart and returns it with the id the backend assigned.
func (c *Client) CreateCart(ctx context.Context, payload CartPayload) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, "create_cart", http.MethodPost, "/carts", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCart replaces cart id with payload.
func (c *Client) UpdateCart(ctx context.Context, id int64, payload CartPayload) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, "update_cart", http.MethodPut, cartPath(id), nil, payload, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		out.ID = id
	}
	return &out, nil
}

func (c *Client) UpdateCartStatus(ctx context.Context, id int64, status string) (*Cart, error) {
	var out Cart
	body := map[string]string{"status": status}
	if err := c.do(ctx, "update_cart_status", http.MethodPatch, cartPath(id)+"/status", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCartPickupStatus(ctx context.Context, id int64, status string) (*Cart, error) {
	var out Cart
	body := map[string]string{"status_retirada": status}
	if err := c.do(ctx, "update_cart_pickup_status", http.MethodPatch, cartPath(id)+"/pickup-status", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCart(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_cart", http.MethodDelete, cartPath(id), nil, nil, nil)
}

func cartPath(id int64) string {
	return fmt.Sprintf("/carts/%d", id)
}
