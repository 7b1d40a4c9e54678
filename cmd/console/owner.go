package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/owner"
	"github.com/vasiliy-maslov/ecommerce-console/internal/unit"
)

var ownerCmd = &cobra.Command{
	Use:   "owner",
	Short: "Inspect unit owner records",
}

var ownerCheckCmd = &cobra.Command{
	Use:   "check <unit-id>",
	Short: "Check the owner address against the street list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unitID, err := parseID(args[0])
		if err != nil {
			return err
		}
		u, err := unit.NewListing(current.gw).Lookup(cmd.Context(), unitID)
		if err != nil {
			return fmt.Errorf("%s: %w", gateway.UserMessage(err, "failed to load unit"), err)
		}

		form := owner.NewForm(current.gw, &u)
		defer form.Close()

		out := cmd.OutOrStdout()
		rec := form.View().Record
		fmt.Fprintf(out, "%s (%s), %s\n", rec.Name, rec.Type, rec.Person)
		fmt.Fprintf(out, "Address: %s %s\n", dash(rec.Address), rec.Number)

		if err := form.LoadStreets(cmd.Context()); err != nil {
			fmt.Fprintf(out, "Street list unavailable: %s\n", gateway.UserMessage(err, "failed to load streets"))
			return nil
		}
		notInList, ok := form.AddressNotInList()
		switch {
		case !ok:
			fmt.Fprintln(out, "Street check does not apply")
		case notInList:
			fmt.Fprintln(out, "WARNING: address is not in the street list")
		default:
			fmt.Fprintln(out, "Address matches the street list")
		}
		return nil
	},
}

func init() {
	ownerCmd.AddCommand(ownerCheckCmd)
}
