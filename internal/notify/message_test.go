package notify_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/notify"
)

type MockCarts struct {
	mock.Mock
}

func (m *MockCarts) CartByID(ctx context.Context, id int64) (*gateway.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Cart), args.Error(1)
}

type MockProducts struct {
	mock.Mock
}

func (m *MockProducts) Products(ctx context.Context, description string) ([]gateway.Product, error) {
	args := m.Called(ctx, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gateway.Product), args.Error(1)
}

func strPtr(s string) *string { return &s }

func maria() gateway.Unit {
	return gateway.Unit{
		ID:     31,
		Name:   "Casa 31",
		Type:   "Proprietario",
		Person: "Maria",
		Mobile: strPtr("(11) 98765-4321"),
	}
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "R$ 0,00"},
		{in: "7.5", want: "R$ 7,50"},
		{in: "20", want: "R$ 20,00"},
		{in: "999.99", want: "R$ 999,99"},
		{in: "1234.56", want: "R$ 1.234,56"},
		{in: "1234567.891", want: "R$ 1.234.567,89"},
		{in: "-45.1", want: "-R$ 45,10"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, notify.FormatBRL(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestCompose_OpenOrder(t *testing.T) {
	c := notify.NewComposer(nil, nil, "25.044.410/0001-65", "55")

	msg, err := c.Compose(maria(), notify.Order{
		Number: 7,
		Status: "Aberto",
		Lines: []notify.Line{
			{Description: "Pulseira azul", Quantity: 2, UnitPrice: decimal.RequireFromString("10")},
			{Description: "Pulseira verde", Quantity: 0, UnitPrice: decimal.RequireFromString("7.5")},
		},
	})
	require.NoError(t, err)

	want := "Olá Maria!\n\n" +
		"*Dados do Cliente:*\n" +
		"Unidade: Casa 31\n" +
		"Pessoa: Maria\n" +
		"Tipo: Proprietario\n\n" +
		"*Detalhes do Pedido:*\n" +
		"- Pulseira azul: 2 x R$ 10,00 = R$ 20,00\n" +
		"\n*Total: R$ 20,00*" +
		"\n\nChave PIX: 25.044.410/0001-65" +
		"\n\nFavor incluir na descrição: Pedido #7"
	assert.Equal(t, want, msg.Text)
	assert.Equal(t, "5511987654321", msg.Phone)
	assert.True(t, strings.HasPrefix(msg.URL, "https://wa.me/5511987654321?text="))
	assert.NotContains(t, msg.URL, "+")

	u, err := url.Parse(msg.URL)
	require.NoError(t, err)
	assert.Equal(t, want, u.Query().Get("text"))
}

func TestCompose_PaidOrder(t *testing.T) {
	c := notify.NewComposer(nil, nil, "chave", "55")

	msg, err := c.Compose(maria(), notify.Order{
		Number:       7,
		Status:       "Pago",
		PickupStatus: "Separado",
		Lines:        []notify.Line{{Description: "Pulseira", Quantity: 1, UnitPrice: decimal.RequireFromString("1234.5")}},
	})
	require.NoError(t, err)

	assert.Contains(t, msg.Text, "Seu pedido #7 está pronto para retirada.")
	assert.Contains(t, msg.Text, "2. Informe o número do seu pedido: #7\n3. Status atual: Separado")
	assert.Contains(t, msg.Text, "- Pulseira: 1 x R$ 1.234,50 = R$ 1.234,50")
	assert.NotContains(t, msg.Text, "Chave PIX", "payment data only goes with open orders")
}

func TestCompose_PaidWithoutNumber(t *testing.T) {
	c := notify.NewComposer(nil, nil, "", "55")

	msg, err := c.Compose(maria(), notify.Order{Status: "Pago", PickupStatus: "Aguardando"})
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "Seu pedido está pronto para retirada.")
	assert.Contains(t, msg.Text, "1. Dirija-se ao local de retirada\n2. Status atual: Aguardando")
	assert.Contains(t, msg.Text, "*Total: R$ 0,00*")
}

func TestCompose_NoMobile(t *testing.T) {
	c := notify.NewComposer(nil, nil, "", "55")
	u := maria()
	u.Mobile = strPtr("  ")

	_, err := c.Compose(u, notify.Order{Status: "Aberto"})
	assert.ErrorIs(t, err, notify.ErrNoMobile)

	u.Mobile = nil
	_, err = c.ForUnit(context.Background(), u, "Aberto")
	assert.ErrorIs(t, err, notify.ErrNoMobile)
}

func TestForUnit_LoadsLatestCart(t *testing.T) {
	carts := new(MockCarts)
	products := new(MockProducts)
	c := notify.NewComposer(carts, products, "pix", "55")

	u := maria()
	u.CartID = 12
	u.CartStatus = "Aberto"

	carts.On("CartByID", mock.Anything, int64(12)).Return(&gateway.Cart{ID: 12, Items: []gateway.CartItem{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 1},
	}}, nil).Once()
	products.On("Products", mock.Anything, "").Return([]gateway.Product{
		{ID: 1, Description: "Pulseira azul", Price: decimal.RequireFromString("10"), Status: gateway.ProductActive},
		{ID: 2, Description: "Pulseira antiga", Price: decimal.RequireFromString("5"), Status: gateway.ProductInactive},
	}, nil).Once()

	msg, err := c.ForUnit(context.Background(), u, "")
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "- Pulseira azul: 3 x R$ 10,00 = R$ 30,00")
	assert.NotContains(t, msg.Text, "Pulseira antiga")
	assert.Contains(t, msg.Text, "*Total: R$ 30,00*")
	assert.Contains(t, msg.Text, "Pedido #12")
	carts.AssertExpectations(t)
}

func TestForUnit_CartFailureStillComposes(t *testing.T) {
	carts := new(MockCarts)
	c := notify.NewComposer(carts, new(MockProducts), "", "55")

	u := maria()
	u.CartID = 12
	carts.On("CartByID", mock.Anything, int64(12)).Return(nil, errors.New("timeout")).Once()

	msg, err := c.ForUnit(context.Background(), u, "Aberto")
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "*Total: R$ 0,00*")
}
