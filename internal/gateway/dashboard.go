package gateway

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

// DashboardPath is served next to the versioned API, not under the prefix.
const DashboardPath = "/api/dashboard"

// Dashboard is the order and revenue summary served by GET /api/dashboard.
type Dashboard struct {
	TotalOrders     int             `json:"totalPedidos"`
	TotalRevenue    decimal.Decimal `json:"totalFaturamento"`
	DeliveredOrders int             `json:"pedidosEntregues"`
	TotalUnits      int             `json:"totalUnidades"`
	ProductsSold    int             `json:"totalProdutosVendidos"`
	ProductsPaid    int             `json:"totalProdutosPagos"`
	OrdersByStatus  []StatusCount   `json:"pedidosPorStatus"`
	RevenueByMonth  []MonthRevenue  `json:"faturamentoPorMes"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"quantidade"`
}

type MonthRevenue struct {
	Month  string          `json:"mes"`
	Amount decimal.Decimal `json:"valor"`
}

func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var out Dashboard
	if err := c.send(ctx, "dashboard", http.MethodGet, c.baseURL+DashboardPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
