// Package notify builds the WhatsApp order messages sent to a unit.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/vasiliy-maslov/ecommerce-console/internal/catalog"
	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
)

var ErrNoMobile = errors.New("notify: unit has no mobile number")

const (
	statusPaid = "Pago"
	statusOpen = "Aberto"
)

type CartSource interface {
	CartByID(ctx context.Context, id int64) (*gateway.Cart, error)
}

// Line is one ordered product.
type Line struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is what the message describes. Number is zero when the unit has no
// cart yet.
type Order struct {
	Number       int64
	Status       string
	PickupStatus string
	Lines        []Line
}

type Message struct {
	Phone string `json:"phone"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

type Composer struct {
	carts       CartSource
	products    catalog.Source
	pixKey      string
	countryCode string
}

func NewComposer(carts CartSource, products catalog.Source, pixKey, countryCode string) *Composer {
	return &Composer{carts: carts, products: products, pixKey: pixKey, countryCode: countryCode}
}

// Compose renders the message for order and the wa.me link to send it.
func (c *Composer) Compose(unit gateway.Unit, order Order) (Message, error) {
	digits := onlyDigits(gateway.StrValue(unit.Mobile))
	if digits == "" {
		return Message{}, ErrNoMobile
	}
	phone := c.countryCode + digits
	text := c.text(unit, order)
	return Message{
		Phone: phone,
		Text:  text,
		URL:   "https://wa.me/" + phone + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20"),
	}, nil
}

// ForUnit composes the message from the unit's latest cart. A cart that
// cannot be fetched yields a message without lines.
func (c *Composer) ForUnit(ctx context.Context, unit gateway.Unit, status string) (Message, error) {
	if gateway.StrValue(unit.Mobile) == "" {
		return Message{}, ErrNoMobile
	}
	if status == "" {
		status = unit.CartStatus
	}
	if status == "" {
		status = statusOpen
	}
	order := Order{Number: unit.CartID, Status: status, PickupStatus: unit.CartPickupStatus}
	if unit.CartID != 0 {
		lines, err := c.latestLines(ctx, unit.CartID)
		if err != nil {
			log.Warn().Err(err).Int64("unit_id", unit.ID).Int64("cart_id", unit.CartID).Msg("notify: failed to load cart, sending message without items")
		}
		order.Lines = lines
	}
	return c.Compose(unit, order)
}

func (c *Composer) latestLines(ctx context.Context, cartID int64) ([]Line, error) {
	cart, err := c.carts.CartByID(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("notify: failed to load cart %d: %w", cartID, err)
	}
	snap, err := catalog.Load(ctx, c.products)
	if err != nil {
		return nil, err
	}

	qty := make(map[int64]int, len(cart.Items))
	for _, it := range cart.Items {
		qty[it.ProductID] = it.Quantity
	}
	var lines []Line
	for _, p := range snap.Products() {
		if q := qty[p.ID]; q > 0 {
			lines = append(lines, Line{Description: p.Description, Quantity: q, UnitPrice: p.Price})
		}
	}
	return lines, nil
}

func (c *Composer) text(unit gateway.Unit, order Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s!\n\n", unit.Person)

	if order.Status == statusPaid {
		if order.Number != 0 {
			fmt.Fprintf(&b, "Seu pedido #%d está pronto para retirada.\n\n", order.Number)
		} else {
			b.WriteString("Seu pedido está pronto para retirada.\n\n")
		}
		b.WriteString("*Instruções de Retirada:*\n")
		step := 1
		fmt.Fprintf(&b, "%d. Dirija-se ao local de retirada\n", step)
		if order.Number != 0 {
			step++
			fmt.Fprintf(&b, "%d. Informe o número do seu pedido: #%d\n", step, order.Number)
		}
		step++
		fmt.Fprintf(&b, "%d. Status atual: %s\n\n", step, order.PickupStatus)
	}

	b.WriteString("*Dados do Cliente:*\n")
	fmt.Fprintf(&b, "Unidade: %s\n", unit.Name)
	fmt.Fprintf(&b, "Pessoa: %s\n", unit.Person)
	fmt.Fprintf(&b, "Tipo: %s\n\n", unit.Type)
	b.WriteString("*Detalhes do Pedido:*\n")

	total := decimal.Zero
	for _, l := range order.Lines {
		if l.Quantity <= 0 {
			continue
		}
		amount := l.Amount()
		total = total.Add(amount)
		fmt.Fprintf(&b, "- %s: %d x %s = %s\n", l.Description, l.Quantity, FormatBRL(l.UnitPrice), FormatBRL(amount))
	}
	fmt.Fprintf(&b, "\n*Total: %s*", FormatBRL(total))

	if order.Status == statusOpen {
		if c.pixKey != "" {
			fmt.Fprintf(&b, "\n\nChave PIX: %s", c.pixKey)
		}
		if order.Number != 0 {
			fmt.Fprintf(&b, "\n\nFavor incluir na descrição: Pedido #%d", order.Number)
		}
	}
	return b.String()
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
