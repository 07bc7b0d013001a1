// Package record implements the client for the remote record store: a
// resource-oriented HTTP server holding one record per user with the cart,
// wishlist and orders collections embedded in it.
package record

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/salman-113/storefront/internal/domain"
	apperrors "github.com/salman-113/storefront/pkg/errors"
	"github.com/salman-113/storefront/pkg/httpclient"
)

// Doer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Fields names the record fields a ReplaceFields call overwrites. Nil fields
// are left untouched on the server; non-nil fields are replaced wholesale.
// There is no transactional guarantee across fields beyond the single
// request, and no version token: writes are last-writer-wins.
type Fields struct {
	Cart     *domain.Collection `json:"cart,omitempty"`
	Wishlist *domain.Collection `json:"wishlist,omitempty"`
	Orders   *[]domain.Order    `json:"orders,omitempty"`
}

// IsZero reports whether no field is set.
func (f Fields) IsZero() bool {
	return f.Cart == nil && f.Wishlist == nil && f.Orders == nil
}

// Collections is the result of loading a user's stored collections.
type Collections struct {
	Cart     domain.Collection
	Wishlist domain.Collection
	Orders   []domain.Order
}

// Client talks to the record store over HTTP.
type Client struct {
	http    Doer
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a record store client. baseURL is the store root,
// e.g. "http://localhost:5000".
func NewClient(doer Doer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// GetUser fetches the full user record.
func (c *Client) GetUser(ctx context.Context, userID string) (*domain.UserRecord, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("user id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userURL(userID), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create get-user request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.Network(err)
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, apperrors.NotFound("user", userID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "record store")
	}
	defer resp.Body.Close()

	var user domain.UserRecord
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user record: %w", err)
	}
	return &user, nil
}

// LoadCollections fetches the user's stored cart, wishlist and order history.
// Missing or null fields load as empty collections.
func (c *Client) LoadCollections(ctx context.Context, userID string) (Collections, error) {
	user, err := c.GetUser(ctx, userID)
	if err != nil {
		return Collections{}, err
	}

	cols := Collections{
		Cart:     user.Cart,
		Wishlist: user.Wishlist,
		Orders:   user.Orders,
	}
	if cols.Cart == nil {
		cols.Cart = domain.Collection{}
	}
	if cols.Wishlist == nil {
		cols.Wishlist = domain.Collection{}
	}
	if cols.Orders == nil {
		cols.Orders = []domain.Order{}
	}
	return cols, nil
}

// ReplaceFields overwrites the named collection fields of the user record in
// a single PATCH. Fields left nil are untouched.
func (c *Client) ReplaceFields(ctx context.Context, userID string, fields Fields) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}
	if fields.IsZero() {
		return apperrors.InvalidInput("at least one field must be set")
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal record fields: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.userURL(userID), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create patch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return apperrors.Network(err)
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return apperrors.NotFound("user", userID)
	}
	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "record store")
	}
	_ = resp.Body.Close()

	c.logger.DebugContext(ctx, "record fields replaced",
		slog.String("user_id", userID),
		slog.Bool("cart", fields.Cart != nil),
		slog.Bool("wishlist", fields.Wishlist != nil),
		slog.Bool("orders", fields.Orders != nil),
	)
	return nil
}

// FindUserByEmail looks a user up by email. Returns ErrNotFound when no
// record matches.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*domain.UserRecord, error) {
	return c.findUser(ctx, url.Values{"email": {email}})
}

// FindUserByCredentials looks a user up by email and password. The record
// store matches fields verbatim; returns ErrNotFound when no record matches.
func (c *Client) FindUserByCredentials(ctx context.Context, email, password string) (*domain.UserRecord, error) {
	return c.findUser(ctx, url.Values{"email": {email}, "password": {password}})
}

// CreateUser stores a new user record.
func (c *Client) CreateUser(ctx context.Context, user *domain.UserRecord) error {
	body, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create post-user request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return apperrors.Network(err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "record store")
	}
	_ = resp.Body.Close()

	c.logger.InfoContext(ctx, "user record created", slog.String("user_id", user.ID))
	return nil
}

func (c *Client) findUser(ctx context.Context, query url.Values) (*domain.UserRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users?"+query.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create find-user request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.Network(err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "record store")
	}
	defer resp.Body.Close()

	var users []domain.UserRecord
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("decode user records: %w", err)
	}
	if len(users) == 0 {
		return nil, apperrors.NotFound("user", query.Get("email"))
	}
	return &users[0], nil
}

func (c *Client) userURL(userID string) string {
	return c.baseURL + "/users/" + url.PathEscape(userID)
}
