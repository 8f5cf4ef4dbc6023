package storefrontserver

import (
	"time"

	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
)

type OrderLine struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Subtotal  string `json:"subtotal"`
}

type Order struct {
	ID            string      `json:"id"`
	UID           string      `json:"uid"`
	Items         []OrderLine `json:"items"`
	Total         string      `json:"total"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// OrderStatusUpdate is the payload of PATCH /v1/vendor/orders/:orderId.
type OrderStatusUpdate struct {
	Status string `json:"status" binding:"required"`
}

type Dashboard struct {
	TotalProducts    int     `json:"totalProducts"`
	TotalOrders      int     `json:"totalOrders"`
	PendingOrders    int     `json:"pendingOrders"`
	DispatchedOrders int     `json:"dispatchedOrders"`
	DeliveredOrders  int     `json:"deliveredOrders"`
	LowStockProducts int     `json:"lowStockProducts"`
	RecentOrders     []Order `json:"recentOrders"`
}

func fromOrder(order *ordersdomain.Order) Order {
	lines := make([]OrderLine, 0, len(order.Items))
	for _, line := range order.Items {
		lines = append(lines, OrderLine{
			ProductID: line.ProductID,
			Title:     line.Title,
			Quantity:  line.Qty,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Subtotal:  line.Subtotal().StringFixed(2),
		})
	}
	return Order{
		ID:            order.ID,
		UID:           order.UID,
		Items:         lines,
		Total:         order.Total.StringFixed(2),
		Status:        string(order.Status),
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func fromOrders(orders []*ordersdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, fromOrder(order))
	}
	return out
}

func fromDashboard(dashboard *ordersdomain.Dashboard) Dashboard {
	return Dashboard{
		TotalProducts:    dashboard.TotalProducts,
		TotalOrders:      dashboard.TotalOrders,
		PendingOrders:    dashboard.PendingOrders,
		DispatchedOrders: dashboard.DispatchedOrders,
		DeliveredOrders:  dashboard.DeliveredOrders,
		LowStockProducts: dashboard.LowStockProducts,
		RecentOrders:     fromOrders(dashboard.RecentOrders),
	}
}
