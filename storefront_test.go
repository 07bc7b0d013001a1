package storefront

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salman-113/storefront/internal/auth"
	"github.com/salman-113/storefront/internal/checkout"
	"github.com/salman-113/storefront/internal/domain"
	"github.com/salman-113/storefront/internal/recordd"
	"github.com/salman-113/storefront/pkg/health"
)

// newTestEngine runs a real record server on a temp data file and points a
// fresh engine at it.
func newTestEngine(t *testing.T) (*Engine, *recordd.Store) {
	t.Helper()

	recordStore, err := recordd.OpenStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &recordd.Config{Environment: "development", CORSAllowedOrigins: []string{"*"}}
	srv := httptest.NewServer(recordd.NewRouter(recordStore, health.NewHandler(), cfg, logger))
	t.Cleanup(srv.Close)

	engine := New(Config{
		RecordURL:          srv.URL,
		LogLevel:           "error",
		NotificationBuffer: 32,
	})
	t.Cleanup(engine.Close)
	return engine, recordStore
}

func TestEngine_SignupAddAndPersist(t *testing.T) {
	engine, recordStore := newTestEngine(t)
	ctx := context.Background()

	user, err := engine.Auth.Signup(ctx, auth.SignupInput{
		Name:     "Aysha",
		Email:    "aysha@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, engine.Cart.Load(ctx))
	require.NoError(t, engine.Cart.Add(ctx, domain.LineItem{
		ID:    "p-001",
		Name:  "Velvet Matte Lipstick",
		Price: 499,
	}))
	engine.Cart.Wait()

	// The optimistic write reached the record store.
	rec, err := recordStore.Get("users", user.ID)
	require.NoError(t, err)
	cart, ok := rec["cart"].([]any)
	require.True(t, ok)
	require.Len(t, cart, 1)
	item := cart[0].(map[string]any)
	assert.Equal(t, "p-001", item["id"])
	assert.Equal(t, float64(1), item["quantity"])
}

func TestEngine_LoginRestoresStoredCollections(t *testing.T) {
	engine, recordStore := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, recordStore.Create("users", recordd.Record{
		"id":       "u-1",
		"name":     "Demo",
		"email":    "demo@example.com",
		"password": "demo123",
		"role":     "user",
		"cart": []any{
			map[string]any{"id": "p-002", "name": "Hydra Boost Serum", "price": float64(899), "quantity": float64(2)},
		},
		"wishlist": []any{
			map[string]any{"id": "p-003", "name": "Silk Finish Foundation", "price": float64(1299)},
		},
	}))

	_, err := engine.Auth.Login(ctx, auth.LoginInput{Email: "demo@example.com", Password: "demo123"})
	require.NoError(t, err)

	require.NoError(t, engine.Cart.Load(ctx))
	require.NoError(t, engine.Wishlist.Load(ctx))

	require.Len(t, engine.Cart.Items(), 1)
	assert.Equal(t, 2, engine.Cart.Items()[0].Quantity)
	assert.Equal(t, int64(1798), engine.Cart.TotalPrice())
	require.Len(t, engine.Wishlist.Items(), 1)
}

func TestEngine_MoveToCartEndToEnd(t *testing.T) {
	engine, recordStore := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, recordStore.Create("users", recordd.Record{
		"id":       "u-1",
		"email":    "demo@example.com",
		"password": "demo123",
		"cart":     []any{},
		"wishlist": []any{
			map[string]any{"id": "p-004", "name": "Night Repair Cream", "price": float64(1599)},
		},
	}))

	_, err := engine.Auth.Login(ctx, auth.LoginInput{Email: "demo@example.com", Password: "demo123"})
	require.NoError(t, err)
	require.NoError(t, engine.Wishlist.Load(ctx))

	require.NoError(t, engine.Wishlist.MoveToCart(ctx, "p-004"))

	assert.Empty(t, engine.Wishlist.Items())
	require.Len(t, engine.Cart.Items(), 1)
	assert.Equal(t, 1, engine.Cart.Items()[0].Quantity)

	rec, err := recordStore.Get("users", "u-1")
	require.NoError(t, err)
	assert.Empty(t, rec["wishlist"])
	assert.Len(t, rec["cart"], 1)
}

func TestEngine_CheckoutEmptiesCartAndRecordsOrder(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Auth.Signup(ctx, auth.SignupInput{
		Name:     "Aysha",
		Email:    "aysha@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, engine.Cart.Load(ctx))
	require.NoError(t, engine.Cart.Add(ctx, domain.LineItem{ID: "p-001", Name: "Lipstick", Price: 499}))
	engine.Cart.Wait()

	order, err := engine.Checkout.PlaceOrder(ctx, checkout.Input{
		Name:       "Aysha",
		Email:      "aysha@example.com",
		CardNumber: "4242424242424242",
		Expiry:     "12/27",
		CVV:        "123",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(499), order.Total)

	assert.Empty(t, engine.Cart.Items())

	orders, err := engine.Checkout.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestEngine_CatalogList(t *testing.T) {
	engine, recordStore := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, recordStore.Create("products", recordd.Record{
		"id": "p-001", "name": "Lipstick", "price": float64(499), "category": "makeup",
	}))
	require.NoError(t, recordStore.Create("products", recordd.Record{
		"id": "p-002", "name": "Serum", "price": float64(899), "category": "skincare",
	}))

	all, err := engine.Catalog.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	makeup, err := engine.Catalog.List(ctx, "makeup")
	require.NoError(t, err)
	require.Len(t, makeup, 1)
	assert.Equal(t, "Lipstick", makeup[0].Name)
}
