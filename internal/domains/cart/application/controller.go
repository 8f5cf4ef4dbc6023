package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/Apurer/storefront/internal/domains/cart/domain"
	"github.com/Apurer/storefront/internal/domains/cart/ports"
	catalogdomain "github.com/Apurer/storefront/internal/domains/catalog/domain"
)

// Dependencies are the collaborators shared by every cart session.
type Dependencies struct {
	Remote ports.Service
	Guests ports.GuestStore
	Merger *Merger
	Logger *slog.Logger
}

// Controller owns the local cart state of one browser session. Reducer
// dispatches are serialised by mu; remote calls run outside of it.
type Controller struct {
	mu              sync.Mutex
	state           domain.State
	uid             string
	merged          bool
	guestKey        string
	mergedKeys      map[string]struct{}
	mergeInProgress bool
	inFlight        int
	generation      uint64
	closed          bool

	remote ports.Service
	guests ports.GuestStore
	merger *Merger
	logger *slog.Logger
}

func NewController(guestKey string, deps Dependencies) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		guestKey: strings.TrimSpace(guestKey),
		remote:   deps.Remote,
		guests:   deps.Guests,
		merger:   deps.Merger,
		logger:   logger,
	}
}

// State returns a copy of the current cart.
func (c *Controller) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// UID is the signed-in account, empty for guests.
func (c *Controller) UID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uid
}

func (c *Controller) GuestKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guestKey
}

// Hydrate loads the authoritative cart: the guest cart for visitors, the
// remote cart once signed in.
func (c *Controller) Hydrate(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	uid, key, gen := c.uid, c.guestKey, c.generation
	c.mu.Unlock()

	var items []domain.Item
	if uid == "" {
		items = c.merger.loadGuest(ctx, key)
	} else {
		remote, err := c.merger.RemoteItems(ctx, uid)
		if err != nil {
			return err
		}
		items = remote
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil
	}
	c.dispatchLocked(domain.Hydrate(items))
	return nil
}

// SignIn merges the guest cart into the account of uid and hydrates from the
// result. A second call while a merge runs fails with ErrMergeInProgress; a
// repeated call for an account that is already merged does nothing.
func (c *Controller) SignIn(ctx context.Context, uid string) error {
	return c.signIn(ctx, uid, "")
}

// signIn merges the guest cart stored under guestKey, or the controller's own
// guest cart when guestKey is empty. Each guest key is merged once per account.
func (c *Controller) signIn(ctx context.Context, uid, guestKey string) error {
	uid = strings.TrimSpace(uid)
	key := strings.TrimSpace(guestKey)
	c.mu.Lock()
	if key == "" {
		key = c.guestKey
	}
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrControllerClosed
	case c.mergeInProgress:
		c.mu.Unlock()
		return ErrMergeInProgress
	case c.uid == uid && c.merged && c.mergedLocked(key):
		c.mu.Unlock()
		return nil
	}
	wasMerged := c.uid == uid && c.merged
	c.mergeInProgress = true
	gen := c.generation
	c.beginSyncLocked()
	c.mu.Unlock()

	result := c.merger.Merge(ctx, uid, key)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mergeInProgress = false
	c.endSyncLocked()
	if gen != c.generation {
		if c.closed {
			return ErrControllerClosed
		}
		return nil
	}
	if wasMerged && !result.Merged {
		// The account cart stays as it is; the guest cart is kept for the next sign-in.
		return nil
	}
	if c.uid != uid {
		c.mergedKeys = nil
	}
	c.uid = uid
	c.merged = result.Merged
	if result.Merged && key != "" {
		if c.mergedKeys == nil {
			c.mergedKeys = map[string]struct{}{}
		}
		c.mergedKeys[key] = struct{}{}
	}
	c.dispatchLocked(domain.Hydrate(result.Items))
	if len(result.Skipped) > 0 {
		c.logger.WarnContext(ctx, "cart merge skipped items", slog.String("uid", uid), slog.Any("product.ids", result.Skipped))
	}
	return nil
}

func (c *Controller) mergedLocked(key string) bool {
	if key == "" {
		return true
	}
	_, ok := c.mergedKeys[key]
	return ok
}

// forgetGuestKey marks key as unmerged after guest activity under it.
func (c *Controller) forgetGuestKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.mergedKeys, key)
}

// SignOut forgets the account and empties the local cart. Remote results
// still in flight are dropped.
func (c *Controller) SignOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uid = ""
	c.merged = false
	c.mergedKeys = nil
	c.generation++
	c.dispatchLocked(domain.Clear())
}

// Close detaches the controller; late remote results are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.generation++
}

// Add puts qty units of product into the cart after checking the cumulative
// quantity against the last known stock.
func (c *Controller) Add(ctx context.Context, product *catalogdomain.Product, qty int) error {
	if product == nil || strings.TrimSpace(product.ID) == "" {
		return mapError(domain.ErrInvalidProductID)
	}
	if qty <= 0 {
		return mapError(domain.ErrInvalidQuantity)
	}
	if err := product.EnsurePurchasable(); err != nil {
		return err
	}
	price, err := product.CurrentPrice()
	if err != nil {
		return err
	}
	current := 0
	if existing, ok := c.State().Find(product.ID); ok {
		current = existing.Quantity
	}
	if err := product.EnsureAvailable(current + qty); err != nil {
		return err
	}

	stock := product.Stock
	item := domain.Item{
		ID:       product.ID,
		Quantity: qty,
		Price:    price,
		Title:    product.Title,
		Image:    product.PrimaryImage(),
		Brand:    product.Brand,
		Stock:    &stock,
	}
	return c.mutate(ctx, domain.Add(item), func(ctx context.Context, uid string) error {
		_, err := c.remote.Add(ctx, uid, product.ID, qty)
		return err
	})
}

// UpdateQuantity sets an absolute quantity; qty <= 0 removes the item.
func (c *Controller) UpdateQuantity(ctx context.Context, productID string, qty int) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return mapError(domain.ErrInvalidProductID)
	}
	if qty <= 0 {
		return c.Remove(ctx, productID)
	}
	existing, ok := c.State().Find(productID)
	if !ok {
		return domain.ErrItemNotInCart
	}
	if existing.Stock != nil && qty > *existing.Stock {
		return &catalogdomain.InsufficientStockError{
			ProductID: productID,
			Title:     existing.Title,
			Requested: qty,
			Available: *existing.Stock,
		}
	}
	return c.mutate(ctx, domain.SetQty(productID, qty), func(ctx context.Context, uid string) error {
		_, err := c.remote.UpdateQty(ctx, uid, productID, qty)
		return err
	})
}

func (c *Controller) Remove(ctx context.Context, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return mapError(domain.ErrInvalidProductID)
	}
	return c.mutate(ctx, domain.Remove(productID), func(ctx context.Context, uid string) error {
		return c.remote.Remove(ctx, uid, productID)
	})
}

// Clear empties the cart locally and remotely.
func (c *Controller) Clear(ctx context.Context) error {
	return c.mutate(ctx, domain.Clear(), func(ctx context.Context, uid string) error {
		return c.remote.Clear(ctx, uid)
	})
}

// ClearLocal empties the local cart only, after the remote cart was cleared
// elsewhere (order placement deletes it in its own transaction).
func (c *Controller) ClearLocal(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatchLocked(domain.Clear())
	if c.uid == "" {
		c.persistGuestLocked(ctx)
	}
}

// mutate applies action optimistically and then runs call against the remote
// cart. Guests skip the remote call and persist the guest cart instead. On
// failure the remote cart is re-read; if that fails too the pre-dispatch
// snapshot is restored.
func (c *Controller) mutate(ctx context.Context, action domain.Action, call func(ctx context.Context, uid string) error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	if c.mergeInProgress {
		c.mu.Unlock()
		return ErrMergeInProgress
	}
	uid, gen := c.uid, c.generation
	if uid == "" {
		defer c.mu.Unlock()
		c.dispatchLocked(action)
		c.persistGuestLocked(ctx)
		return nil
	}
	snapshot := c.state.Clone()
	c.dispatchLocked(action)
	c.beginSyncLocked()
	c.mu.Unlock()

	err := call(ctx, uid)
	var refreshed []domain.Item
	var refreshErr error
	if err != nil {
		refreshed, refreshErr = c.merger.RemoteItems(ctx, uid)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.endSyncLocked()
	if gen != c.generation {
		return err
	}
	if err != nil {
		if refreshErr == nil {
			c.dispatchLocked(domain.Hydrate(refreshed))
		} else {
			c.logger.WarnContext(ctx, "cart refresh failed, restoring previous state",
				slog.String("uid", uid), slog.String("error", refreshErr.Error()))
			snapshot.Syncing = c.state.Syncing
			c.state = snapshot
		}
	}
	return err
}

func (c *Controller) dispatchLocked(action domain.Action) {
	c.state = domain.Reduce(c.state, action)
}

func (c *Controller) beginSyncLocked() {
	if c.inFlight == 0 {
		c.dispatchLocked(domain.StartSync())
	}
	c.inFlight++
}

func (c *Controller) endSyncLocked() {
	if c.inFlight == 0 {
		return
	}
	c.inFlight--
	if c.inFlight == 0 {
		c.dispatchLocked(domain.EndSync())
	}
}

// persistGuestLocked writes the guest cart in dispatch order.
func (c *Controller) persistGuestLocked(ctx context.Context) {
	if c.guestKey == "" || c.guests == nil {
		return
	}
	var err error
	if len(c.state.Items) == 0 {
		err = c.guests.Remove(ctx, c.guestKey)
	} else {
		err = c.guests.Save(ctx, c.guestKey, c.state.Items)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "failed to persist guest cart", slog.String("guest_key", c.guestKey), slog.String("error", err.Error()))
	}
}
