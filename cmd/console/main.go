// Command console drives the cart and owner editing flows from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/ecommerce-console/internal/config"
	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/logger"
)

type app struct {
	cfg *config.Config
	gw  *gateway.Client
}

var (
	configPath string
	envPath    string
	current    app
)

var rootCmd = &cobra.Command{
	Use:           "console",
	Short:         "Administrative console for units, carts, owners and products",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath, envPath)
		if err != nil {
			return err
		}
		logger.Setup(cfg.Log.Level, true, "console")
		current = app{
			cfg: cfg,
			gw:  gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.Prefix, gateway.WithTimeout(cfg.Gateway.Timeout)),
		}
		return nil
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the remote data gateway answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.gw.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("gateway unreachable: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "OK")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "path to the .env file")
	rootCmd.AddCommand(pingCmd, unitsCmd, cartCmd, ownerCmd, messageCmd, productsCmd, dashboardCmd)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
