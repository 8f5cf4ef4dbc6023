package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Apurer/storefront/internal/app/api"
	"github.com/Apurer/storefront/internal/domains/catalog/adapters/seed"
	catalogapp "github.com/Apurer/storefront/internal/domains/catalog/application"
)

// NewCatalogCommand groups product maintenance commands.
func NewCatalogCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and seed products",
	}
	cmd.AddCommand(newCatalogSeedCommand(opts))
	cmd.AddCommand(newCatalogListCommand(opts))
	return cmd
}

func newCatalogSeedCommand(opts *RootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert products from a YAML seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			products, err := seed.LoadYAML(f)
			if err != nil {
				return err
			}
			return opts.withStores(cmd.Context(), func(stores *api.Stores) error {
				catalog := catalogapp.NewService(stores.Catalog)
				for _, product := range products {
					if _, err := catalog.Upsert(cmd.Context(), product); err != nil {
						return fmt.Errorf("seed product %s: %w", product.ID, err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products\n", len(products))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the seed YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

type productRow struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Price  string `json:"price"`
	Stock  int    `json:"stock"`
	Active bool   `json:"active"`
}

func newCatalogListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products with price and stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStores(cmd.Context(), func(stores *api.Stores) error {
				products, err := catalogapp.NewService(stores.Catalog).ListProducts(cmd.Context())
				if err != nil {
					return err
				}
				rows := make([]productRow, 0, len(products))
				for _, p := range products {
					rows = append(rows, productRow{ID: p.ID, Title: p.Title, Price: p.Price.StringFixed(2), Stock: p.Stock, Active: p.Active})
				}
				if opts.Format == "json" {
					return opts.writeJSON(cmd.OutOrStdout(), rows)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tSTOCK\tACTIVE")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\n", r.ID, r.Title, r.Price, r.Stock, r.Active)
				}
				return tw.Flush()
			})
		},
	}
}
