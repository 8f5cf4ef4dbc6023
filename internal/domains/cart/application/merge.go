package application

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Apurer/storefront/internal/domains/cart/domain"
	"github.com/Apurer/storefront/internal/domains/cart/ports"
	catalogports "github.com/Apurer/storefront/internal/domains/catalog/ports"
)

// DefaultEnrichConcurrency bounds concurrent catalog lookups per cart.
const DefaultEnrichConcurrency = 8

// MergeResult is the outcome of folding a guest cart into an account cart.
type MergeResult struct {
	Items []domain.Item
	// Merged is false when the remote cart could not be loaded and Items holds
	// only the guest cart.
	Merged bool
	// Skipped lists guest product ids that could not be written remotely.
	Skipped   []string
	RemoteErr error
}

// Merger folds the guest cart into the remote cart on sign-in.
type Merger struct {
	remote      ports.Service
	guests      ports.GuestStore
	catalog     catalogports.Reader
	logger      *slog.Logger
	concurrency int
}

type MergerOption func(*Merger)

func WithMergeLogger(logger *slog.Logger) MergerOption {
	return func(m *Merger) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithEnrichConcurrency sets how many catalog lookups may run at once.
func WithEnrichConcurrency(n int) MergerOption {
	return func(m *Merger) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

func NewMerger(remote ports.Service, guests ports.GuestStore, catalog catalogports.Reader, opts ...MergerOption) *Merger {
	m := &Merger{
		remote:      remote,
		guests:      guests,
		catalog:     catalog,
		logger:      slog.Default(),
		concurrency: DefaultEnrichConcurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Merge loads the remote cart of uid, writes every guest item through the
// stock-aware service and removes the guest cart. When the remote cart cannot
// be read the guest items are returned untouched and the guest cart is kept.
func (m *Merger) Merge(ctx context.Context, uid, guestKey string) MergeResult {
	remote, err := m.RemoteItems(ctx, uid)
	if err != nil {
		m.logger.WarnContext(ctx, "remote cart unavailable, keeping guest cart",
			slog.String("uid", uid), slog.String("error", err.Error()))
		return MergeResult{Items: m.loadGuest(ctx, guestKey), RemoteErr: err}
	}

	merged := remote
	index := make(map[string]int, len(merged))
	for i, item := range merged {
		index[item.ID] = i
	}

	var skipped []string
	for _, guest := range m.loadGuest(ctx, guestKey) {
		if pos, ok := index[guest.ID]; ok {
			target := merged[pos].Quantity + guest.Quantity
			stored, err := m.remote.UpdateQty(ctx, uid, guest.ID, target)
			if err != nil || stored == nil {
				skipped = append(skipped, guest.ID)
				m.logSkip(ctx, uid, guest.ID, err)
				continue
			}
			merged[pos] = withRemote(merged[pos], stored)
			continue
		}
		stored, err := m.remote.Add(ctx, uid, guest.ID, guest.Quantity)
		if err != nil {
			skipped = append(skipped, guest.ID)
			m.logSkip(ctx, uid, guest.ID, err)
			continue
		}
		index[guest.ID] = len(merged)
		merged = append(merged, withRemote(guest, stored))
	}

	if guestKey != "" {
		if err := m.guests.Remove(ctx, guestKey); err != nil {
			m.logger.WarnContext(ctx, "failed to remove guest cart", slog.String("guest_key", guestKey), slog.String("error", err.Error()))
		}
	}
	return MergeResult{Items: merged, Merged: true, Skipped: skipped}
}

// RemoteItems loads the remote cart of uid and enriches it from the catalog.
func (m *Merger) RemoteItems(ctx context.Context, uid string) ([]domain.Item, error) {
	docs, err := m.remote.Items(ctx, uid)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Item, len(docs))
	for i, doc := range docs {
		items[i] = doc.ToItem()
	}
	m.enrich(ctx, items)
	return items, nil
}

// enrich fills catalog details in place. Lookups that fail leave the item as is.
func (m *Merger) enrich(ctx context.Context, items []domain.Item) {
	if m.catalog == nil || len(items) == 0 {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i := range items {
		i := i
		g.Go(func() error {
			product, err := m.catalog.GetProduct(gctx, items[i].ID)
			if err != nil {
				enrichErr := &domain.EnrichmentError{ProductID: items[i].ID, Err: err}
				m.logger.WarnContext(gctx, "cart item enrichment failed", slog.String("error", enrichErr.Error()))
				return nil
			}
			stock := product.Stock
			items[i].Title = product.Title
			items[i].Image = product.PrimaryImage()
			items[i].Brand = product.Brand
			items[i].Stock = &stock
			return nil
		})
	}
	_ = g.Wait()
}

func (m *Merger) loadGuest(ctx context.Context, key string) []domain.Item {
	if key == "" || m.guests == nil {
		return []domain.Item{}
	}
	items, err := m.guests.Load(ctx, key)
	if err != nil {
		m.logger.WarnContext(ctx, "guest cart unreadable, treating as empty", slog.String("guest_key", key), slog.String("error", err.Error()))
		return []domain.Item{}
	}
	return items
}

func (m *Merger) logSkip(ctx context.Context, uid, productID string, err error) {
	attrs := []any{slog.String("uid", uid), slog.String("product.id", productID)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	m.logger.WarnContext(ctx, "guest cart item not merged", attrs...)
}

func withRemote(item domain.Item, stored *domain.RemoteItem) domain.Item {
	price := stored.PriceAtAdd
	item.Quantity = stored.Qty
	item.PriceAtAdd = &price
	return item
}
