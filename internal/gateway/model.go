package gateway

import "github.com/shopspring/decimal"

func init() {
	// The backend reads and writes money as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	ProductActive   = "Ativo"
	ProductInactive = "Inativo"
)

// Product is a catalog entry as served by GET /products.
type Product struct {
	ID          int64           `json:"id_produto"`
	Description string          `json:"descricao"`
	Price       decimal.Decimal `json:"valor"`
	Status      string          `json:"status"`
}

func (p Product) Active() bool {
	return p.Status == ProductActive
}

// ProductPayload is the body of POST /products and PUT /products/{id}.
type ProductPayload struct {
	Description string          `json:"descricao"`
	Price       decimal.Decimal `json:"valor"`
	Status      string          `json:"status"`
}

type CartItem struct {
	CartID     int64 `json:"id_carrinho,omitempty"`
	CartItemID int64 `json:"id_carrinho_item,omitempty"`
	ProductID  int64 `json:"id_produto"`
	Quantity   int   `json:"quantidade"`
}

// Cart is the detailed cart returned by GET /carts/{id} and by the write calls.
type Cart struct {
	ID           int64           `json:"id_carrinho,omitempty"`
	UnitID       int64           `json:"id_unidade"`
	Date         string          `json:"data,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	PickupStatus string          `json:"status_retirada,omitempty"`
	Items        []CartItem      `json:"itens"`
}

// CartSummary is a row of GET /carts?unitId=, most recent first.
type CartSummary struct {
	ID           int64           `json:"id_carrinho"`
	UnitID       int64           `json:"id_unidade"`
	Date         string          `json:"data"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	PickupStatus string          `json:"status_retirada"`
	UnitName     string          `json:"nomeunidade"`
}

// CartPayload is the body of POST /carts and PUT /carts/{id}. It never
// carries the cart id.
type CartPayload struct {
	UnitID       int64           `json:"id_unidade"`
	Date         string          `json:"data"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	PickupStatus string          `json:"status_retirada"`
	Items        []CartItem      `json:"itens"`
}

type Street struct {
	ID   int64  `json:"idrua"`
	Name string `json:"nomerua"`
}

// Unit is a unit/owner record. The cart fields are only filled by the
// listing endpoint and are never sent back.
type Unit struct {
	ID         int64    `json:"id_unidade,omitempty"`
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
	Altitude   *float64 `json:"altitude,omitempty"`

	CartID           int64            `json:"id_carrinho,omitempty"`
	CartDate         string           `json:"data_carrinho,omitempty"`
	CartStatus       string           `json:"status_carrinho,omitempty"`
	CartPickupStatus string           `json:"status_retirada,omitempty"`
	CartTotal        *decimal.Decimal `json:"total_carrinho,omitempty"`
}

// UnitFilter maps to the query string of GET /units.
type UnitFilter struct {
	Name         string
	Person       string
	CartID       int64
	CartStatus   string
	PickupStatus string
}

// StrValue dereferences an optional text field.
func StrValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
