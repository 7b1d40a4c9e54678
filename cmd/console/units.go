package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/notify"
	"github.com/vasiliy-maslov/ecommerce-console/internal/unit"
)

var unitsFilter gateway.UnitFilter
var unitsPage, unitsPerPage int

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List units with their latest order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listing := unit.NewListing(current.gw)
		if _, err := listing.Search(cmd.Context(), unitsFilter); err != nil {
			return fmt.Errorf("%s: %w", gateway.UserMessage(err, "failed to list units"), err)
		}
		page := listing.Page(unitsPage, unitsPerPage)

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tUNIT\tPERSON\tTYPE\tORDER\tSTATUS\tPICKUP\tTOTAL")
		for _, u := range page.Units {
			order, total := "-", "-"
			if u.CartID != 0 {
				order = fmt.Sprintf("#%d", u.CartID)
			}
			if u.CartTotal != nil {
				total = notify.FormatBRL(*u.CartTotal)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				u.ID, u.Name, u.Person, u.Type, order, dash(u.CartStatus), dash(u.CartPickupStatus), total)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "page %d, %d of %d units\n", page.Page, len(page.Units), page.Total)
		return nil
	},
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	f := unitsCmd.Flags()
	f.StringVar(&unitsFilter.Name, "name", "", "filter by unit name")
	f.StringVar(&unitsFilter.Person, "person", "", "filter by person name")
	f.Int64Var(&unitsFilter.CartID, "cart-id", 0, "filter by order number")
	f.StringVar(&unitsFilter.CartStatus, "cart-status", "", "filter by order status (Aberto, Pago, Cancelado, Sem Pedido)")
	f.StringVar(&unitsFilter.PickupStatus, "pickup-status", "", "filter by pickup status")
	f.IntVar(&unitsPage, "page", 1, "page number")
	f.IntVar(&unitsPerPage, "per-page", unit.DefaultPerPage, "units per page")
}
