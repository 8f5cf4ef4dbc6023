package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Apurer/storefront/internal/app/api"
	ordersapp "github.com/Apurer/storefront/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/storefront/internal/domains/orders/domain"
)

// NewOrdersCommand groups vendor order commands.
func NewOrdersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Manage orders",
	}
	cmd.AddCommand(newOrdersStatusCommand(opts))
	cmd.AddCommand(newOrdersDashboardCommand(opts))
	return cmd
}

func newOrdersStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <order-id> <pending|dispatched|delivered>",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStores(cmd.Context(), func(stores *api.Stores) error {
				orders := ordersapp.NewService(stores.Tx, stores.Orders, stores.Catalog)
				order, err := orders.UpdateStatus(cmd.Context(), args[0], ordersdomain.Status(args[1]))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "order %s is %s\n", order.ID, order.Status)
				return nil
			})
		},
	}
}

type dashboardView struct {
	TotalProducts    int `json:"totalProducts"`
	TotalOrders      int `json:"totalOrders"`
	PendingOrders    int `json:"pendingOrders"`
	DispatchedOrders int `json:"dispatchedOrders"`
	DeliveredOrders  int `json:"deliveredOrders"`
	LowStockProducts int `json:"lowStockProducts"`
}

func newOrdersDashboardCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Print vendor dashboard counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStores(cmd.Context(), func(stores *api.Stores) error {
				orders := ordersapp.NewService(stores.Tx, stores.Orders, stores.Catalog)
				d, err := orders.Dashboard(cmd.Context())
				if err != nil {
					return err
				}
				view := dashboardView{
					TotalProducts:    d.TotalProducts,
					TotalOrders:      d.TotalOrders,
					PendingOrders:    d.PendingOrders,
					DispatchedOrders: d.DispatchedOrders,
					DeliveredOrders:  d.DeliveredOrders,
					LowStockProducts: d.LowStockProducts,
				}
				if opts.Format == "json" {
					return opts.writeJSON(cmd.OutOrStdout(), view)
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "products:   %d (%d low stock)\n", view.TotalProducts, view.LowStockProducts)
				fmt.Fprintf(w, "orders:     %d\n", view.TotalOrders)
				fmt.Fprintf(w, "pending:    %d\n", view.PendingOrders)
				fmt.Fprintf(w, "dispatched: %d\n", view.DispatchedOrders)
				fmt.Fprintf(w, "delivered:  %d\n", view.DeliveredOrders)
				return nil
			})
		},
	}
}
