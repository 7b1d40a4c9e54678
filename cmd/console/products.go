package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	"github.com/vasiliy-maslov/ecommerce-console/internal/notify"
	"github.com/vasiliy-maslov/ecommerce-console/internal/product"
)

var (
	productDescription string
	productPrice       string
	productStatus      string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List and maintain the product catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products, optionally filtered by description",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := product.NewService(current.gw).List(cmd.Context(), productDescription)
		if err != nil {
			return err
		}
		printProducts(cmd.OutOrStdout(), products)
		return nil
	},
}

var productsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := productInput()
		if err != nil {
			return err
		}
		p, err := product.NewService(current.gw).Create(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("%s: %w", gateway.UserMessage(err, "failed to create product"), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Product #%d created: %s, %s\n", p.ID, p.Description, notify.FormatBRL(p.Price))
		return nil
	},
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update <product-id>",
	Short: "Replace the description, price and status of a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		in, err := productInput()
		if err != nil {
			return err
		}
		p, err := product.NewService(current.gw).Update(cmd.Context(), id, in)
		if err != nil {
			return fmt.Errorf("%s: %w", gateway.UserMessage(err, "failed to update product"), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Product #%d updated: %s, %s, %s\n", p.ID, p.Description, notify.FormatBRL(p.Price), p.Status)
		return nil
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <product-id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := product.NewService(current.gw).Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("%s: %w", gateway.UserMessage(err, "failed to delete product"), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Product #%d deleted\n", id)
		return nil
	},
}

// productInput builds the write input from flags. An empty price is left
// zero so the service reports it.
func productInput() (product.Input, error) {
	in := product.Input{Description: productDescription, Status: productStatus}
	if productPrice == "" {
		return in, nil
	}
	price, err := decimal.NewFromString(productPrice)
	if err != nil {
		return in, fmt.Errorf("invalid price %q", productPrice)
	}
	in.Price = price
	return in, nil
}

func printProducts(w io.Writer, products []gateway.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDESCRIPTION\tPRICE\tSTATUS")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Description, notify.FormatBRL(p.Price), dash(p.Status))
	}
	_ = tw.Flush()
}

func init() {
	productsListCmd.Flags().StringVar(&productDescription, "description", "", "filter by description")
	for _, c := range []*cobra.Command{productsCreateCmd, productsUpdateCmd} {
		f := c.Flags()
		f.StringVar(&productDescription, "description", "", "product description")
		f.StringVar(&productPrice, "price", "", "unit price, e.g. 12.50")
		f.StringVar(&productStatus, "status", "", "product status (Ativo, Inativo)")
	}
	productsCmd.AddCommand(productsListCmd, productsCreateCmd, productsUpdateCmd, productsDeleteCmd)
}
