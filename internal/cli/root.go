// Package cli implements storefrontctl, the back-office command line for the storefront stores.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Apurer/storefront/internal/app/api"
)

// StoresFactory opens the stores a command operates on and returns a cleanup func.
type StoresFactory func(ctx context.Context) (*api.Stores, func(), error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"
	stores StoresFactory
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the storefrontctl root command.
func NewRootCommand(stores StoresFactory) *cobra.Command {
	opts := &RootOptions{stores: stores}

	cmd := &cobra.Command{
		Use:   "storefrontctl",
		Short: "Back-office tooling for the storefront",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewPurgeCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	return cmd
}

// withStores opens the stores for the duration of fn.
func (o *RootOptions) withStores(ctx context.Context, fn func(*api.Stores) error) error {
	stores, cleanup, err := o.stores(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(stores)
}

func (o *RootOptions) writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
