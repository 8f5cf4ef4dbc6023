package txstore

import (
	"context"
	"sort"

	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
)

// WithProductLock reads the product inside a transaction before running fn, so
// concurrent writers of the same product serialise or conflict.
func WithProductLock(ctx context.Context, store Store, productID string, fn func(ctx context.Context, tx Tx, product *catalogdomain.Product) error) error {
	return WithProductLocks(ctx, store, []string{productID}, func(ctx context.Context, tx Tx, products map[string]*catalogdomain.Product) error {
		return fn(ctx, tx, products[productID])
	})
}

// WithProductLocks reads every distinct product in ascending id order, then runs
// fn with the loaded products keyed by id.
func WithProductLocks(ctx context.Context, store Store, productIDs []string, fn func(ctx context.Context, tx Tx, products map[string]*catalogdomain.Product) error) error {
	ids := uniqueSorted(productIDs)
	return store.RunInTransaction(ctx, func(ctx context.Context, tx Tx) error {
		products := make(map[string]*catalogdomain.Product, len(ids))
		for _, id := range ids {
			product, err := tx.GetProduct(ctx, id)
			if err != nil {
				return err
			}
			products[id] = product
		}
		return fn(ctx, tx, products)
	})
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
