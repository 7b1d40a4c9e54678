package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/notify"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show order and revenue totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := current.gw.Dashboard(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s: %w", gateway.UserMessage(err, "failed to load dashboard"), err)
		}
		printDashboard(cmd.OutOrStdout(), d)
		return nil
	},
}

func printDashboard(w io.Writer, d *gateway.Dashboard) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Orders\t%d\n", d.TotalOrders)
	fmt.Fprintf(tw, "Delivered\t%d\n", d.DeliveredOrders)
	fmt.Fprintf(tw, "Units\t%d\n", d.TotalUnits)
	fmt.Fprintf(tw, "Products sold\t%d\n", d.ProductsSold)
	fmt.Fprintf(tw, "Products paid\t%d\n", d.ProductsPaid)
	fmt.Fprintf(tw, "Revenue\t%s\n", notify.FormatBRL(d.TotalRevenue))
	_ = tw.Flush()

	if len(d.OrdersByStatus) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "STATUS\tORDERS")
		for _, s := range d.OrdersByStatus {
			fmt.Fprintf(tw, "%s\t%d\n", s.Status, s.Count)
		}
		_ = tw.Flush()
	}
	if len(d.RevenueByMonth) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MONTH\tREVENUE")
		for _, m := range d.RevenueByMonth {
			fmt.Fprintf(tw, "%s\t%s\n", m.Month, notify.FormatBRL(m.Amount))
		}
		_ = tw.Flush()
	}
}
