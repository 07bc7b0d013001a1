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

// Wishlist owns the local wishlist collection. It mirrors the cart store's
// optimistic add/remove/clear pattern, without quantities, and additionally
// coordinates the wishlist-to-cart move, which touches both collections.
type Wishlist struct {
	client   RecordClient
	cart     *Cart
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

// NewWishlist creates a wishlist store bound to the cart store it moves
// items into.
func NewWishlist(client RecordClient, cart *Cart, sess session.Provider, notifier notify.Notifier, logger *slog.Logger) *Wishlist {
	return &Wishlist{
		client:   client,
		cart:     cart,
		session:  sess,
		notifier: notifier,
		logger:   logger,
		items:    domain.Collection{},
	}
}

// Load replaces the local wishlist wholesale from the remote record.
func (w *Wishlist) Load(ctx context.Context) error {
	ctx, userID, err := w.requireUser(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.state = StateLoading
	w.mu.Unlock()

	cols, err := w.client.LoadCollections(ctx, userID)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = StateReady
	w.writeState = WriteCommitted
	if err != nil {
		w.items = domain.Collection{}
		logger.WithContext(ctx, w.logger).ErrorContext(ctx, "failed to load wishlist",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("load wishlist: %w", err)
	}
	w.items = cols.Wishlist
	return nil
}

// Add appends the item unless it is already present. Wishlist entries carry
// no quantity.
func (w *Wishlist) Add(ctx context.Context, item domain.LineItem) error {
	ctx, userID, err := w.requireUser(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	if w.items.Contains(item.ID) {
		w.mu.Unlock()
		notify.Info(ctx, w.notifier, "Item already in wishlist")
		return nil
	}
	item.Quantity = 0
	w.items = append(w.items, item)
	snapshot := w.items.Clone()
	w.mu.Unlock()

	notify.Success(ctx, w.notifier, "Added to wishlist")
	w.persist(ctx, userID, snapshot)
	return nil
}

// Remove filters the item out of the local wishlist, then persists.
func (w *Wishlist) Remove(ctx context.Context, id string) error {
	ctx, userID, err := w.requireUser(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	idx := w.items.IndexOf(id)
	if idx < 0 {
		w.mu.Unlock()
		return nil
	}
	w.items = append(w.items[:idx], w.items[idx+1:]...)
	snapshot := w.items.Clone()
	w.mu.Unlock()

	notify.Success(ctx, w.notifier, "Removed from wishlist")
	w.persist(ctx, userID, snapshot)
	return nil
}

// Clear empties the local wishlist and persists an empty collection.
func (w *Wishlist) Clear(ctx context.Context) error {
	ctx, userID, err := w.requireUser(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.items = domain.Collection{}
	snapshot := domain.Collection{}
	w.mu.Unlock()

	notify.Success(ctx, w.notifier, "Wishlist cleared")
	w.persist(ctx, userID, snapshot)
	return nil
}

// MoveToCart moves the item with the given id from the wishlist into the
// cart. Unlike the plain mutations it is synchronous and re-reads the
// authoritative remote record first: it mutates two collections together and
// must not clobber a concurrent change to either one with a stale local
// snapshot. Both fields are written in a single request; the local stores are
// updated only after the write succeeds.
func (w *Wishlist) MoveToCart(ctx context.Context, id string) error {
	ctx, userID, err := w.requireUser(ctx)
	if err != nil {
		return err
	}

	cols, err := w.client.LoadCollections(ctx, userID)
	if err != nil {
		notify.Error(ctx, w.notifier, "Something went wrong")
		return fmt.Errorf("load collections for move: %w", err)
	}

	if cols.Cart.Contains(id) {
		notify.Info(ctx, w.notifier, "Item already in cart")
		return nil
	}

	idx := cols.Wishlist.IndexOf(id)
	if idx < 0 {
		return apperrors.NotFound("wishlist item", id)
	}

	item := cols.Wishlist[idx]
	item.Quantity = 1

	newCart := append(cols.Cart.Clone(), item)
	newWishlist := append(cols.Wishlist[:idx:idx].Clone(), cols.Wishlist[idx+1:]...)

	fields := record.Fields{Cart: &newCart, Wishlist: &newWishlist}
	if err := w.client.ReplaceFields(ctx, userID, fields); err != nil {
		notify.Error(ctx, w.notifier, "Something went wrong")
		return fmt.Errorf("write move to cart: %w", err)
	}

	w.mu.Lock()
	w.items = newWishlist.Clone()
	w.state = StateReady
	w.writeState = WriteCommitted
	w.mu.Unlock()
	w.cart.ReplaceItems(newCart)

	notify.Success(ctx, w.notifier, "Moved to cart")
	return nil
}

// Items returns a copy of the local wishlist.
func (w *Wishlist) Items() domain.Collection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.items.Clone()
}

// IsLoading reports whether a Load is in progress.
func (w *Wishlist) IsLoading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == StateLoading
}

// State returns the load lifecycle state.
func (w *Wishlist) State() SyncState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// WriteState returns the local-versus-remote write state.
func (w *Wishlist) WriteState() WriteState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeState
}

// Wait blocks until all in-flight persists have finished.
func (w *Wishlist) Wait() {
	w.wg.Wait()
}

func (w *Wishlist) requireUser(ctx context.Context) (context.Context, string, error) {
	if w.session.IsLoading() {
		return ctx, "", apperrors.NotAuthenticated("session is still resolving")
	}
	userID, ok := w.session.CurrentUser()
	if !ok {
		notify.Warn(ctx, w.notifier, "Please login to continue")
		return ctx, "", apperrors.NotAuthenticated("login required")
	}
	return logger.WithMeta(ctx, logger.Meta{UserID: userID}), userID, nil
}

func (w *Wishlist) persist(ctx context.Context, userID string, snapshot domain.Collection) {
	w.mu.Lock()
	w.inflight++
	w.writeState = WritePending
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
		defer cancel()

		err := w.client.ReplaceFields(pctx, userID, record.Fields{Wishlist: &snapshot})

		w.mu.Lock()
		w.inflight--
		if err != nil {
			w.writeState = WriteFailed
		} else if w.inflight == 0 {
			w.writeState = WriteCommitted
		}
		w.mu.Unlock()

		if err != nil {
			logger.WithContext(pctx, w.logger).ErrorContext(pctx, "wishlist persist failed",
				slog.Int("items", len(snapshot)),
				slog.String("error", err.Error()),
			)
			notify.Error(pctx, w.notifier, "Wishlist update failed")
		}
	}()
}
