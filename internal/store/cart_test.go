package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/salman-113/storefront/internal/domain"
	"github.com/salman-113/storefront/internal/notify"
	"github.com/salman-113/storefront/internal/record"
	"github.com/salman-113/storefront/internal/session"
	apperrors "github.com/salman-113/storefront/pkg/errors"
	"github.com/salman-113/storefront/pkg/logger"
)

// --- Mock record client ---

type mockRecordClient struct {
	mock.Mock
}

func (m *mockRecordClient) LoadCollections(ctx context.Context, userID string) (record.Collections, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(record.Collections), args.Error(1)
}

func (m *mockRecordClient) ReplaceFields(ctx context.Context, userID string, fields record.Fields) error {
	args := m.Called(ctx, userID, fields)
	return args.Error(0)
}

// --- Test helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestCart(client *mockRecordClient) (*Cart, *notify.Stream) {
	stream := notify.NewStream(16)
	cart := NewCart(client, session.Static{UserID: "u-1"}, stream, testLogger())
	return cart, stream
}

func nextNotification(t *testing.T, s *notify.Stream) notify.Notification {
	t.Helper()
	select {
	case n := <-s.C():
		return n
	case <-time.After(time.Second):
		t.Fatal("expected a notification")
		return notify.Notification{}
	}
}

func lipstick() domain.LineItem {
	return domain.LineItem{ID: "p-1", Name: "Lipstick", Price: 499, Category: "makeup"}
}

func serum() domain.LineItem {
	return domain.LineItem{ID: "p-2", Name: "Serum", Price: 899, Category: "skincare"}
}

// --- Load ---

func TestCart_Load_ReplacesItemsWholesale(t *testing.T) {
	client := new(mockRecordClient)
	cart, _ := newTestCart(client)
	ctx := context.Background()

	stored := record.Collections{
		Cart: domain.Collection{{ID: "p-1", Name: "Lipstick", Price: 499, Quantity: 2}},
	}
	client.On("LoadCollections", mock.Anything, "u-1").Return(stored, nil)

	require.NoError(t, cart.Load(ctx))

	assert.Equal(t, StateReady, cart.State())
	assert.False(t, cart.IsLoading())
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	client.AssertExpectations(t)
}

func TestCart_Load_FailureLeavesCartEmpty(t *testing.T) {
	client := new(mockRecordClient)
	cart, _ := newTestCart(client)

	client.On("LoadCollections", mock.Anything, "u-1").
		Return(record.Collections{}, apperrors.Network(errors.New("connection refused")))

	err := cart.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNetwork))
	assert.Empty(t, cart.Items())
	assert.Equal(t, StateReady, cart.State())
}

func TestCart_Load_RequiresLogin(t *testing.T) {
	client := new(mockRecordClient)
	stream := notify.NewStream(4)
	cart := NewCart(client, session.Static{}, stream, testLogger())

	err := cart.Load(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrNotAuthenticated))
	client.AssertNotCalled(t, "LoadCollections", mock.Anything, mock.Anything)
}

// --- Add ---

func TestCart_Add_NewItemGetsQuantityOne(t *testing.T) {
	client := new(mockRecordClient)
	cart, stream := newTestCart(client)
	ctx := context.Background()

	var persisted domain.Collection
	client.On("ReplaceFields", mock.Anything, "u-1", mock.Anything).
		Run(func(args mock.Arguments) {
			persisted = *args.Get(2).(record.Fields).Cart
		}).
		Return(nil)

	require.NoError(t, cart.Add(ctx, lipstick()))
	cart.Wait()

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p-1", items[0].ID)
	assert.Equal(t, 1, items[0].Quantity)

	require.Len(t, persisted, 1)
	assert.Equal(t, 1, persisted[0].Quantity)

	n := nextNotification(t, stream)
	assert.Equal(t, notify.LevelSuccess, n.Level)

	assert.Equal(t, WriteCommitted, cart.WriteState())
	client.AssertExpectations(t)
}

func TestCart_Add_DuplicateIdIsInformationalNoOp(t *testing.T) {
	client := new(mockRecordClient)
	cart, stream := newTestCart(client)
	ctx := context.Background()

	client.On("ReplaceFields", mock.Anything, "u-1", mock.Anything).Return(nil).Once()
	require.NoError(t, cart.Add(ctx, lipstick()))
	cart.Wait()
	<-stream.C() // drain the add success toast

	changed := lipstick()
	changed.Price = 999 // same id, different snapshot: still a duplicate
	require.NoError(t, cart.Add(ctx, changed))
	cart.Wait()

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(499), items[0].Price)

	n := nextNotification(t, stream)
	assert.Equal(t, notify.LevelInfo, n.Level)
	assert.Equal(t, "Item already in cart", n.Message)

	client.AssertNumberOfCalls(t, "ReplaceFields", 1)
}

func TestCart_Add_RequiresLogin(t *testing.T) {
	client := new(mockRecordClient)
	stream := notify.NewStream(4)
	cart := NewCart(client, session.Static{}, stream, testLogger())

	err := cart.Add(context.Background(), lipstick())
	assert.True(t, errors.Is(err, apperrors.ErrNotAuthenticated))
	assert.Empty(t, cart.Items())

	n := nextNotification(t, stream)
	assert.Equal(t, notify.LevelWarn, n.Level)
}

func TestCart_Add_DefersWhileSessionResolving(t *testing.T) {
	client := new(mockRecordClient)
	cart := NewCart(client, session.Static{UserID: "u-1", Loading: true}, notify.NewStream(4), testLogger())

	err := cart.Add(context.Background(), lipstick())
	assert.True(t, errors.Is(err, apperrors.ErrNotAuthenticated))
	assert.Empty(t, cart.Items())
}

// --- Remove ---

func TestCart_Remove_LeavesOtherItemsUntouched(t *testing.T) {
	client := new(mockRecordClient)
	cart, _ := newTestCart(client)
	ctx := context.Background()

	cart.ReplaceItems(domain.Collection{
		{ID: "p-1", Price: 499, Quantity: 2},
		{ID: "p-2", Price: 899, Quantity: 1},
		{ID: "p-3", Price: 199, Quantity: 3},
	})

	var persisted domain.Collection
	client.On("ReplaceFields", mock.Anything, "u-1", mock.Anything).
		Run(func(args mock.Arguments) {
			persisted = *args.Get(2).(record.Fields).Cart
		}).
		Return(nil)

	require.NoError(t, cart.Remove(ctx, "p-2"))
	cart.Wait()

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p-1", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "p-3", items[1].ID)
	assert.Equal(t, 3, items[1].Quantity)
	assert.Len(t, persisted, 2)
}

func TestCart_Remove_AbsentIdDoesNotPersist(t *testing.T) {
	client := new(mockRecordClient)
	cart, _ := newTestCart(client)

	cart.ReplaceItems(domain.Collection{{ID: "p-1", Quantity: 1}})

	require.NoError(t, cart.Remove(context.Background(), "p-9"))
	cart.Wait()

	assert.Len(t, cart.Items(), 1)
	client.AssertNotCalled(t, "ReplaceFields", mock.Anything, mock.Anything, mock.Anything)
}

// --- Quantity ---

func TestCart_IncrementThenDecrementRestoresQuantity(t *testing.T) {
	client := new(mockRecordClient)
	cart, _ := newTestCart(client)
	ctx := context.Background()

	cart.ReplaceItems(domain.Collection{{ID: "p-1", Price: 499, Quantity: 2}})
	client.On("ReplaceFields", mock.Anything, "u-1", mock.Anything).Return(nil)

	require.NoError(t, cart.IncrementQuantity(ctx, "p-1"))
	require.NoError(t, cart.DecrementQuantity(ctx, "p-1"))
	cart.Wait()

	assert.Equal(t, 2, cart.Items()[0].Quantity)
}

func TestCart_QuantityFloorScenario(t *testing.T) {
	client := new(mockRecordClient)
	cart, _ := newTestCart(client)
	ctx := context.Background()

	cart.ReplaceItems(domain.Collection{{ID: "p-1", Price: 499, Quantity: 1}})
	client.On("ReplaceFields", mock.Anything, "u-1", mock.Anything).Return(nil)

	require.NoError(t, cart.IncrementQuantity(ctx, "p-1"))
	require.NoError(t, cart.IncrementQuantity(ctx, "p-1"))
	assert.Equal(t, 3, cart.Items()[0].Quantity)

	for i := 0; i < 3; i++ {
		require.NoError(t, cart.DecrementQuantity(ctx, "p-1"))
	}
	cart.Wait()

	// Floor reached: two decrements applied, the third was a no-op.
	assert.Equal(t, 1, cart.Items()[0].Quantity)
}

func TestCart_DecrementAtFloorDoesNotPersist(t *testing.T) {
	client := new(mockRecordClient)
	cart, _ := newTestCart(client)

	cart.ReplaceItems(domain.Collection{{ID: "p-1", Quantity: 1}})

	require.NoError(t, cart.DecrementQuantity(context.Background(), "p-1"))
	cart.Wait()

	assert.Equal(t, 1, cart.Items()[0].Quantity)
	client.AssertNotCalled(t, "ReplaceFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestCart_IncrementUnknownIdFails(t *testing.T) {
	client := new(mockRecordClient)
	cart, _ := newTestCart(client)

	err := cart.IncrementQuantity(context.Background(), "p-9")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

// --- Clear & totals ---

func TestCart_Clear_PersistsEmptyCollection(t *testing.T) {
	client := new(mockRecordClient)
	cart, _ := newTestCart(client)

	cart.ReplaceItems(domain.Collection{{ID: "p-1", Quantity: 2}, {ID: "p-2", Quantity: 1}})

	var persisted *domain.Collection
	client.On("ReplaceFields", mock.Anything, "u-1", mock.Anything).
		Run(func(args mock.Arguments) {
			persisted = args.Get(2).(record.Fields).Cart
		}).
		Return(nil)

	require.NoError(t, cart.Clear(context.Background()))
	cart.Wait()

	assert.Empty(t, cart.Items())
	require.NotNil(t, persisted)
	assert.Empty(t, *persisted)
}

func TestCart_TotalPriceRecomputed(t *testing.T) {
	client := new(mockRecordClient)
	cart, _ := newTestCart(client)
	ctx := context.Background()

	cart.ReplaceItems(domain.Collection{
		{ID: "p-1", Price: 100, Quantity: 2},
		{ID: "p-2", Price: 50, Quantity: 1},
	})
	assert.Equal(t, int64(250), cart.TotalPrice())

	client.On("ReplaceFields", mock.Anything, "u-1", mock.Anything).Return(nil)
	require.NoError(t, cart.IncrementQuantity(ctx, "p-2"))
	assert.Equal(t, int64(300), cart.TotalPrice())

	require.NoError(t, cart.Remove(ctx, "p-1"))
	assert.Equal(t, int64(100), cart.TotalPrice())
	cart.Wait()
}

// --- Failure semantics ---

func TestCart_FailedPersistKeepsOptimisticState(t *testing.T) {
	client := new(mockRecordClient)
	cart, stream := newTestCart(client)

	client.On("ReplaceFields", mock.Anything, "u-1", mock.Anything).
		Return(apperrors.Network(errors.New("connection reset")))

	require.NoError(t, cart.Add(context.Background(), lipstick()))
	cart.Wait()

	// The optimistic append survives the failed write.
	assert.Len(t, cart.Items(), 1)
	assert.Equal(t, WriteFailed, cart.WriteState())

	// Success toast first, then the failure notice from the async persist.
	assert.Equal(t, notify.LevelSuccess, nextNotification(t, stream).Level)
	n := nextNotification(t, stream)
	assert.Equal(t, notify.LevelError, n.Level)
	assert.Equal(t, "Cart update failed", n.Message)
}

func TestCart_FailedPersistLogsActingUser(t *testing.T) {
	client := new(mockRecordClient)
	client.On("ReplaceFields", mock.Anything, "u-1", mock.Anything).
		Return(apperrors.Network(errors.New("connection reset")))

	var buf bytes.Buffer
	log := logger.NewWithWriter("storefront", "error", &buf)
	cart := NewCart(client, session.Static{UserID: "u-1"}, notify.NewStream(16), log)

	require.NoError(t, cart.Add(context.Background(), lipstick()))
	cart.Wait()

	assert.Contains(t, buf.String(), "cart persist failed")
	assert.Contains(t, buf.String(), `"user_id":"u-1"`)
}

func TestCart_NextSuccessfulPersistRecommits(t *testing.T) {
	client := new(mockRecordClient)
	cart, _ := newTestCart(client)
	ctx := context.Background()

	client.On("ReplaceFields", mock.Anything, "u-1", mock.Anything).
		Return(apperrors.Network(errors.New("timeout"))).Once()
	client.On("ReplaceFields", mock.Anything, "u-1", mock.Anything).Return(nil).Once()

	require.NoError(t, cart.Add(ctx, lipstick()))
	cart.Wait()
	assert.Equal(t, WriteFailed, cart.WriteState())

	require.NoError(t, cart.Add(ctx, serum()))
	cart.Wait()
	assert.Equal(t, WriteCommitted, cart.WriteState())
}
