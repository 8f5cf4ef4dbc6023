package domain

// Dashboard summarises the back-office view of the store.
type Dashboard struct {
	TotalProducts    int
	TotalOrders      int
	PendingOrders    int
	DispatchedOrders int
	DeliveredOrders  int
	LowStockProducts int
	RecentOrders     []*Order
}
