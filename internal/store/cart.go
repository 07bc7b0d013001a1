package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/salman-113/storefront/internal/domain"
	"github.com/salman-113/storefront/internal/notify"
	"github.com/salman-113/storefront/internal/record"
	"github.com/salman-113/storefront/internal/session"
	apperrors "github.com/salman-113/storefront/pkg/errors"
	"github.com/salman-113/storefront/pkg/logger"
)

// Cart owns the local cart collection for the lifetime of the authenticated
// session. Local mutations are applied synchronously in call order under the
// store mutex; remote persists are asynchronous and may land out of order
// (each write carries the whole collection, last-writer-wins).
type Cart struct {
	client   RecordClient
	session  session.Provider
	notifier notify.Notifier
	logger   *slog.Logger

	mu         sync.Mutex
	items      domain.Collection
	state      SyncState
	writeState WriteState
	inflight   int
	wg         sync.WaitGroup
}

// NewCart creates a cart store. Call Load before mutating.
func NewCart(client RecordClient, sess session.Provider, notifier notify.Notifier, logger *slog.Logger) *Cart {
	return &Cart{
		client:   client,
		session:  sess,
		notifier: notifier,
		logger:   logger,
		items:    domain.Collection{},
	}
}

// Load replaces the local cart wholesale from the remote record. It runs once
// per authenticated session and again whenever the authenticated user
// changes. On failure the local cart is left empty and the error is returned.
func (c *Cart) Load(ctx context.Context) error {
	ctx, userID, err := c.requireUser(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.state = StateLoading
	c.mu.Unlock()

	cols, err := c.client.LoadCollections(ctx, userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateReady
	c.writeState = WriteCommitted
	if err != nil {
		c.items = domain.Collection{}
		logger.WithContext(ctx, c.logger).ErrorContext(ctx, "failed to load cart",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("load cart: %w", err)
	}
	c.items = cols.Cart
	return nil
}

// Add appends the item with quantity 1 unless an item with the same id is
// already present, in which case it reports "already in cart" and leaves the
// collection unchanged. The append is optimistic: it is visible before the
// remote write completes.
func (c *Cart) Add(ctx context.Context, item domain.LineItem) error {
	ctx, userID, err := c.requireUser(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.items.Contains(item.ID) {
		c.mu.Unlock()
		notify.Info(ctx, c.notifier, "Item already in cart")
		return nil
	}
	item.Quantity = 1
	c.items = append(c.items, item)
	snapshot := c.items.Clone()
	c.mu.Unlock()

	notify.Success(ctx, c.notifier, "Added to cart!")
	c.persist(ctx, userID, snapshot)
	return nil
}

// Remove filters the item out of the local cart, then persists. Removing an
// absent id is a no-op and does not persist.
func (c *Cart) Remove(ctx context.Context, id string) error {
	ctx, userID, err := c.requireUser(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	idx := c.items.IndexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return nil
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	snapshot := c.items.Clone()
	c.mu.Unlock()

	notify.Success(ctx, c.notifier, "Removed from cart")
	c.persist(ctx, userID, snapshot)
	return nil
}

// IncrementQuantity increases the matching item's quantity by 1 and persists.
func (c *Cart) IncrementQuantity(ctx context.Context, id string) error {
	ctx, userID, err := c.requireUser(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	idx := c.items.IndexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return apperrors.NotFound("cart item", id)
	}
	c.items[idx].Quantity++
	snapshot := c.items.Clone()
	c.mu.Unlock()

	c.persist(ctx, userID, snapshot)
	return nil
}

// DecrementQuantity decreases the matching item's quantity by 1 with a floor
// of 1. Reaching zero must go through Remove. Persists only if the quantity
// actually changed.
func (c *Cart) DecrementQuantity(ctx context.Context, id string) error {
	ctx, userID, err := c.requireUser(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	idx := c.items.IndexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return apperrors.NotFound("cart item", id)
	}
	if c.items[idx].Quantity <= 1 {
		c.mu.Unlock()
		return nil
	}
	c.items[idx].Quantity--
	snapshot := c.items.Clone()
	c.mu.Unlock()

	c.persist(ctx, userID, snapshot)
	return nil
}

// Clear empties the local cart and persists an empty collection.
func (c *Cart) Clear(ctx context.Context) error {
	ctx, userID, err := c.requireUser(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.items = domain.Collection{}
	snapshot := domain.Collection{}
	c.mu.Unlock()

	notify.Success(ctx, c.notifier, "Cart cleared")
	c.persist(ctx, userID, snapshot)
	return nil
}

// Items returns a copy of the local cart.
func (c *Cart) Items() domain.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Clone()
}

// TotalPrice returns the sum of price times quantity over the local cart.
// Always recomputed, never stored.
func (c *Cart) TotalPrice() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.TotalPrice()
}

// IsLoading reports whether a Load is in progress.
func (c *Cart) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateLoading
}

// State returns the load lifecycle state.
func (c *Cart) State() SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// WriteState returns the local-versus-remote write state.
func (c *Cart) WriteState() WriteState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeState
}

// ReplaceItems replaces the local cart wholesale without persisting. It is
// used by compound operations (move-to-cart, checkout) that have already
// written the remote record and need the local mirror to match.
func (c *Cart) ReplaceItems(items domain.Collection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items.Clone()
	c.state = StateReady
	c.writeState = WriteCommitted
}

// Wait blocks until all in-flight persists have finished. For shutdown and
// tests.
func (c *Cart) Wait() {
	c.wg.Wait()
}

func (c *Cart) requireUser(ctx context.Context) (context.Context, string, error) {
	if c.session.IsLoading() {
		return ctx, "", apperrors.NotAuthenticated("session is still resolving")
	}
	userID, ok := c.session.CurrentUser()
	if !ok {
		notify.Warn(ctx, c.notifier, "Please login to continue")
		return ctx, "", apperrors.NotAuthenticated("login required")
	}
	return logger.WithMeta(ctx, logger.Meta{UserID: userID}), userID, nil
}

// persist writes the full cart snapshot to the remote record on a separate
// goroutine. A failure leaves the optimistic local state in place; local and
// remote diverge until the next successful write or Load.
func (c *Cart) persist(ctx context.Context, userID string, snapshot domain.Collection) {
	c.mu.Lock()
	c.inflight++
	c.writeState = WritePending
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
		defer cancel()

		err := c.client.ReplaceFields(pctx, userID, record.Fields{Cart: &snapshot})

		c.mu.Lock()
		c.inflight--
		if err != nil {
			c.writeState = WriteFailed
		} else if c.inflight == 0 {
			c.writeState = WriteCommitted
		}
		c.mu.Unlock()

		if err != nil {
			logger.WithContext(pctx, c.logger).ErrorContext(pctx, "cart persist failed",
				slog.Int("items", len(snapshot)),
				slog.String("error", err.Error()),
			)
			notify.Error(pctx, c.notifier, "Cart update failed")
		}
	}()
}
