package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// UnitPayload is the writable part of a Unit. Altitude and the cart summary
// are never sent.
type UnitPayload struct {
	ExternalID string   `json:"idunidade,omitempty"`
	Name       string   `json:"nomeunidade"`
	Type       string   `json:"tipo"`
	Person     string   `json:"pessoa"`
	Email      *string  `json:"email"`
	Message    *string  `json:"recado"`
	Phone      *string  `json:"fone"`
	Mobile     *string  `json:"celular"`
	Commercial *string  `json:"comercial"`
	Address    *string  `json:"endereco"`
	Number     *string  `json:"numero"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

func (c *Client) Units(ctx context.Context, filter UnitFilter) ([]Unit, error) {
	query := url.Values{}
	if filter.Name != "" {
		query.Set("nomeunidade", filter.Name)
	}
	if filter.Person != "" {
		query.Set("pessoa", filter.Person)
	}
	if filter.CartID != 0 {
		query.Set("id_carrinho", strconv.FormatInt(filter.CartID, 10))
	}
	if filter.CartStatus != "" {
		query.Set("status_carrinho", filter.CartStatus)
	}
	if filter.PickupStatus != "" {
		query.Set("status_retirada", filter.PickupStatus)
	}

	var out []Unit
	if err := c.do(ctx, "list_units", http.MethodGet, "/units", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateUnit(ctx context.Context, id int64, payload UnitPayload) (*Unit, error) {
	var out Unit
	if err := c.do(ctx, "update_unit", http.MethodPut, unitPath(id), nil, payload, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		out.ID = id
	}
	return &out, nil
}

func (c *Client) CreateUnit(ctx context.Context, payload UnitPayload) (*Unit, error) {
	var out Unit
	if err := c.do(ctx, "create_unit", http.MethodPost, "/units", nil, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUnit(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_unit", http.MethodDelete, unitPath(id), nil, nil, nil)
}

func unitPath(id int64) string {
	return fmt.Sprintf("/units/%d", id)
}
