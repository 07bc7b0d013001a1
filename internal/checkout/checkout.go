// Package checkout turns the authoritative remote cart into an order. Like
// move-to-cart, placing an order is a compound operation: it re-reads the
// remote record, then writes the appended orders and the emptied cart in a
// single request.
package checkout

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/salman-113/storefront/internal/domain"
	"github.com/salman-113/storefront/internal/notify"
	"github.com/salman-113/storefront/internal/record"
	"github.com/salman-113/storefront/internal/session"
	"github.com/salman-113/storefront/internal/store"
	apperrors "github.com/salman-113/storefront/pkg/errors"
	"github.com/salman-113/storefront/pkg/validator"
)

// RecordClient is the slice of the record client checkout needs.
type RecordClient interface {
	GetUser(ctx context.Context, userID string) (*domain.UserRecord, error)
	ReplaceFields(ctx context.Context, userID string, fields record.Fields) error
}

// Input carries the shipping and payment details collected at checkout.
// Card details are validated but never stored beyond the last four digits.
type Input struct {
	Name       string `json:"name" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	CardNumber string `json:"card_number" validate:"required,numeric,len=16"`
	Expiry     string `json:"expiry" validate:"required,len=5"`
	CVV        string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

// Service places orders against the remote record.
type Service struct {
	client   RecordClient
	session  session.Provider
	cart     *store.Cart
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService creates a checkout service.
func NewService(client RecordClient, sess session.Provider, cart *store.Cart, notifier notify.Notifier, logger *slog.Logger) *Service {
	return &Service{
		client:   client,
		session:  sess,
		cart:     cart,
		notifier: notifier,
		logger:   logger,
	}
}

// PlaceOrder snapshots the remote cart into a new pending order, appends it
// to the user's orders and empties the cart, all in one write. The remote
// cart is the source of truth here, not the local mirror: a persist that is
// still in flight or has failed must not change what gets ordered.
func (s *Service) PlaceOrder(ctx context.Context, input Input) (*domain.Order, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	if s.session.IsLoading() {
		return nil, apperrors.NotAuthenticated("session is still resolving")
	}
	userID, ok := s.session.CurrentUser()
	if !ok {
		notify.Warn(ctx, s.notifier, "Please login to continue")
		return nil, apperrors.NotAuthenticated("login required")
	}

	user, err := s.client.GetUser(ctx, userID)
	if err != nil {
		notify.Error(ctx, s.notifier, "Something went wrong")
		return nil, err
	}
	if len(user.Cart) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	order := domain.Order{
		ID:    uuid.NewString(),
		Items: user.Cart.Clone(),
		Total: user.Cart.TotalPrice(),
		Payment: domain.Payment{
			Method:    "card",
			CardLast4: input.CardNumber[len(input.CardNumber)-4:],
		},
		ShippingName:  input.Name,
		ShippingEmail: input.Email,
		Status:        domain.StatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	orders := append(user.Orders[:len(user.Orders):len(user.Orders)], order)
	emptyCart := domain.Collection{}
	if err := s.client.ReplaceFields(ctx, userID, record.Fields{
		Orders: &orders,
		Cart:   &emptyCart,
	}); err != nil {
		notify.Error(ctx, s.notifier, "Something went wrong")
		return nil, err
	}

	s.cart.ReplaceItems(nil)
	s.logger.InfoContext(ctx, "order placed",
		slog.String("user_id", userID),
		slog.String("order_id", order.ID),
		slog.Int64("total", order.Total),
	)
	notify.Success(ctx, s.notifier, "Order placed successfully!")
	return &order, nil
}

// Orders returns the user's order history, newest last, from the remote
// record.
func (s *Service) Orders(ctx context.Context) ([]domain.Order, error) {
	if s.session.IsLoading() {
		return nil, apperrors.NotAuthenticated("session is still resolving")
	}
	userID, ok := s.session.CurrentUser()
	if !ok {
		return nil, apperrors.NotAuthenticated("login required")
	}

	user, err := s.client.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Orders == nil {
		return []domain.Order{}, nil
	}
	return user.Orders, nil
}
