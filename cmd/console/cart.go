package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/ecommerce-console/internal/cart"
	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/notify"
	"github.com/vasiliy-maslov/ecommerce-console/internal/unit"
)

var (
	cartStatus       string
	cartPickupStatus string
	cartDate         string
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show or edit the latest cart of a unit",
}

var cartShowCmd = &cobra.Command{
	Use:   "show <unit-id>",
	Short: "Show the latest cart of a unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unitID, err := parseID(args[0])
		if err != nil {
			return err
		}
		s := newCartSession()
		defer s.Close()

		if err := s.OpenCartFor(cmd.Context(), unitID); err != nil {
			return err
		}
		printCart(cmd.OutOrStdout(), s.View())
		return nil
	},
}

var cartSetCmd = &cobra.Command{
	Use:   "set <unit-id> <product-id>=<quantity>...",
	Short: "Set quantities on the latest cart of a unit and save it",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		unitID, err := parseID(args[0])
		if err != nil {
			return err
		}
		quantities, err := parseAssignments(args[1:])
		if err != nil {
			return err
		}

		s := newCartSession()
		defer s.Close()

		if err := s.OpenCartFor(cmd.Context(), unitID); err != nil {
			return err
		}
		for _, q := range quantities {
			if err := s.SetQuantity(q.ProductID, q.Quantity); err != nil {
				return err
			}
		}
		if cartDate != "" {
			ts, err := gateway.ParseDateTime(cartDate, current.cfg.Location())
			if err != nil {
				return err
			}
			if err := s.SetTimestamp(ts); err != nil {
				return err
			}
		}
		if cartStatus != "" {
			if err := s.SetOrderStatus(cart.OrderStatus(cartStatus)); err != nil {
				return err
			}
		}
		if cartPickupStatus != "" {
			if err := s.SetPickupStatus(cart.PickupStatus(cartPickupStatus)); err != nil {
				return err
			}
		}

		printCart(cmd.OutOrStdout(), s.View())
		result, err := s.Save(cmd.Context())
		if err != nil {
			return err
		}
		verb := "updated"
		if result.Created {
			verb = "created"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Order #%d %s, total %s\n", result.CartID, verb, notify.FormatBRL(result.Total))
		return nil
	},
}

func newCartSession() *cart.Session {
	return cart.NewSession(current.gw, current.gw,
		cart.WithLocation(current.cfg.Location()),
		cart.WithRefresher(unit.NewListing(current.gw)),
	)
}

func printCart(w io.Writer, v cart.View) {
	if v.Existing {
		fmt.Fprintf(w, "Order #%d", v.CartID)
	} else {
		fmt.Fprint(w, "New order")
	}
	date := "-"
	if v.Timestamp != nil {
		date = gateway.FormatDateTime(*v.Timestamp, current.cfg.Location())
	}
	fmt.Fprintf(w, " for unit %d, %s, %s / %s\n", v.UnitID, date, v.OrderStatus, v.PickupStatus)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tPRICE\tQTY\tAMOUNT")
	for _, l := range v.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", l.ProductID, l.Description, notify.FormatBRL(l.UnitPrice), l.Quantity, notify.FormatBRL(l.Amount))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Total: %s\n", notify.FormatBRL(v.Total))
}

type assignment struct {
	ProductID int64
	Quantity  int
}

// parseAssignments reads "<product-id>=<quantity>" pairs. A repeated
// product keeps its last quantity when applied in order.
func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		idPart, qtyPart, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid assignment %q, want <product-id>=<quantity>", arg)
		}
		id, err := parseID(idPart)
		if err != nil {
			return nil, err
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyPart))
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in %q: %w", arg, err)
		}
		out = append(out, assignment{ProductID: id, Quantity: qty})
	}
	return out, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func init() {
	f := cartSetCmd.Flags()
	f.StringVar(&cartStatus, "status", "", "order status (Aberto, Pago, Cancelado)")
	f.StringVar(&cartPickupStatus, "pickup-status", "", "pickup status (Aguardando, Separado, Retirado, Cancelado)")
	f.StringVar(&cartDate, "date", "", "order date as DD/MM/YYYY HH:MM[:SS]")
	cartCmd.AddCommand(cartShowCmd, cartSetCmd)
}
