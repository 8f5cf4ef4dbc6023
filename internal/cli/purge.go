package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Apurer/storefront/internal/app/api"
)

// NewPurgeCommand removes expired guest carts and sessions.
func NewPurgeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete expired guest carts and sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStores(cmd.Context(), func(stores *api.Stores) error {
				counts := make(map[string]int64, len(stores.Purgers))
				for _, name := range slices.Sorted(maps.Keys(stores.Purgers)) {
					n, err := stores.Purgers[name].PurgeExpired(cmd.Context())
					if err != nil {
						return fmt.Errorf("purge %s: %w", name, err)
					}
					counts[name] = n
				}
				if opts.Format == "json" {
					return opts.writeJSON(cmd.OutOrStdout(), counts)
				}
				for _, name := range slices.Sorted(maps.Keys(counts)) {
					fmt.Fprintf(cmd.OutOrStdout(), "purged %d expired %s\n", counts[name], name)
				}
				return nil
			})
		},
	}
}
