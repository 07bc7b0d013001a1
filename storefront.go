// Package storefront assembles the cart and wishlist sync engine: a record
// store client, an auth-backed session, the optimistic stores, checkout and
// the product catalog, sharing one notification stream. Consumers construct
// an Engine, log a user in, Load the stores, and drive mutations from their
// UI while ranging over Notifications.
package storefront

import (
	"log/slog"

	"github.com/salman-113/storefront/internal/auth"
	"github.com/salman-113/storefront/internal/catalog"
	"github.com/salman-113/storefront/internal/checkout"
	"github.com/salman-113/storefront/internal/notify"
	"github.com/salman-113/storefront/internal/record"
	"github.com/salman-113/storefront/internal/store"
	"github.com/salman-113/storefront/pkg/httpclient"
	"github.com/salman-113/storefront/pkg/logger"
)

// Config holds the engine's settings.
type Config struct {
	// RecordURL is the record store root, e.g. "http://localhost:5000".
	RecordURL string `env:"RECORD_URL" envDefault:"http://localhost:5000" validate:"required,url"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	// NotificationBuffer bounds the in-process toast stream.
	NotificationBuffer int `env:"NOTIFICATION_BUFFER" envDefault:"32" validate:"gte=1"`
}

// Engine bundles the assembled components.
type Engine struct {
	Auth     *auth.Service
	Cart     *store.Cart
	Wishlist *store.Wishlist
	Checkout *checkout.Service
	Catalog  *catalog.Client

	notifications *notify.Stream
	logger        *slog.Logger
}

// New assembles an engine against the record store at cfg.RecordURL. All
// remote traffic goes through a retrying HTTP client behind a circuit
// breaker.
func New(cfg Config) *Engine {
	log := logger.New("storefront", cfg.LogLevel)

	httpc := httpclient.New(httpclient.DefaultConfig())
	breaker := httpclient.NewCircuitBreakerClient(
		httpc,
		httpclient.DefaultCircuitBreakerConfig("record-store"),
		log,
	)

	stream := notify.NewStream(cfg.NotificationBuffer)
	client := record.NewClient(breaker, cfg.RecordURL, log)

	authSvc := auth.NewService(client, log)
	cart := store.NewCart(client, authSvc, stream, log)
	wishlist := store.NewWishlist(client, cart, authSvc, stream, log)
	checkoutSvc := checkout.NewService(client, authSvc, cart, stream, log)
	catalogClient := catalog.NewClient(breaker, cfg.RecordURL, log)

	return &Engine{
		Auth:          authSvc,
		Cart:          cart,
		Wishlist:      wishlist,
		Checkout:      checkoutSvc,
		Catalog:       catalogClient,
		notifications: stream,
		logger:        log,
	}
}

// Notifications returns the engine-wide toast stream.
func (e *Engine) Notifications() <-chan notify.Notification {
	return e.notifications.C()
}

// Close drains in-flight persists. Call before process exit so optimistic
// writes reach the record store.
func (e *Engine) Close() {
	e.Cart.Wait()
	e.Wishlist.Wait()
}
