package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/notify"
	"github.com/vasiliy-maslov/ecommerce-console/internal/unit"
)

var messageStatus string

var messageCmd = &cobra.Command{
	Use:   "message <unit-id>",
	Short: "Build the WhatsApp order message for a unit",
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

		composer := notify.NewComposer(current.gw, current.gw, current.cfg.WhatsApp.PixKey, current.cfg.WhatsApp.CountryCode)
		msg, err := composer.ForUnit(cmd.Context(), u, messageStatus)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg.URL)
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), msg.Text)
		return nil
	},
}

func init() {
	messageCmd.Flags().StringVar(&messageStatus, "status", "", "order status to announce (defaults to the unit's latest order status)")
}
