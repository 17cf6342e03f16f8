package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pizza_store/internal/catalog"
	"pizza_store/internal/jsonstore"
	"pizza_store/internal/models"
	"pizza_store/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyOrderPlaced(ctx context.Context, username string, orders []models.Order) error {
	args := m.Called(ctx, username, orders)
	return args.Error(0)
}

func newTestOrderService(t *testing.T, notifier NotificationService) (OrderService, repository.OrderRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.json")
	repo := repository.NewOrderRepository(jsonstore.New[models.Order](path, nil))
	return NewOrderService(repo, catalog.Default(), notifier, nil), repo, path
}

// waitForNotifications blocks until background checkout notifications finish.
func waitForNotifications(svc OrderService) {
	svc.(*orderService).notifications.Wait()
}

func guestSession(id string) *models.Session {
	return &models.Session{UserID: id, Username: models.GuestName, Role: models.Guest}
}

func TestAddToCart_CheeseMediumTwo(t *testing.T) {
	svc, repo, _ := newTestOrderService(t, nil)
	ctx := context.Background()

	result, err := svc.AddToCart(ctx, guestSession("u1"), AddToCartRequest{
		ItemName: "Cheese Pizza",
		Size:     "Medium",
		Quantity: "2",
		Meats:    []string{"Sausage", "Bacon", "Sausage"},
	})
	require.NoError(t, err)
	assert.False(t, result.QuantityDefaulted)

	order := result.Order
	assert.Equal(t, 1, order.OrderID)
	assert.Equal(t, models.OrderPending, order.Status)
	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, 2, item.Quantity)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("20.00")), item.Price.String())
	assert.Equal(t, []string{"Bacon", "Sausage"}, item.Meats)
	assert.Empty(t, item.Veggies)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddToCart_EachValidSubmissionAddsOnePending(t *testing.T) {
	svc, repo, _ := newTestOrderService(t, nil)
	ctx := context.Background()

	for i, name := range []string{"Cheese Pizza", "Pepperoni Pizza", "Supreme Pizza", "Veggie Pizza"} {
		_, err := svc.AddToCart(ctx, guestSession("u1"), AddToCartRequest{ItemName: name, Size: "Large", Quantity: "1"})
		require.NoError(t, err)

		orders, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, orders, i+1)
		assert.Equal(t, models.OrderPending, orders[i].Status)
	}
}

func TestAddToCart_UnparseableQuantityDefaultsToOne(t *testing.T) {
	svc, _, _ := newTestOrderService(t, nil)

	result, err := svc.AddToCart(context.Background(), guestSession("u1"), AddToCartRequest{
		ItemName: "Pepperoni Pizza",
		Size:     "Small",
		Quantity: "abc",
	})
	require.NoError(t, err)

	assert.True(t, result.QuantityDefaulted)
	assert.Equal(t, 1, result.Order.Items[0].Quantity)
	assert.True(t, result.Order.Items[0].Price.Equal(decimal.NewFromInt(12)))
}

func TestAddToCart_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     AddToCartRequest
		wantErr error
	}{
		{name: "unknown item", req: AddToCartRequest{ItemName: "Hawaiian Pizza", Size: "Medium", Quantity: "1"}, wantErr: ErrUnknownItem},
		{name: "empty size", req: AddToCartRequest{ItemName: "Cheese Pizza", Size: "  ", Quantity: "1"}, wantErr: ErrMissingSize},
		{name: "zero quantity", req: AddToCartRequest{ItemName: "Cheese Pizza", Size: "Medium", Quantity: "0"}, wantErr: ErrInvalidQuantity},
		{name: "negative quantity", req: AddToCartRequest{ItemName: "Cheese Pizza", Size: "Medium", Quantity: "-3"}, wantErr: ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestOrderService(t, nil)
			ctx := context.Background()

			result, err := svc.AddToCart(ctx, guestSession("u1"), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)

			count, err := repo.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestAddToCart_SaveFailureIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "orders.json")
	repo := repository.NewOrderRepository(jsonstore.New[models.Order](path, nil))
	svc := NewOrderService(repo, catalog.Default(), nil, nil)

	_, err := svc.AddToCart(context.Background(), guestSession("u1"), AddToCartRequest{ItemName: "Cheese Pizza", Size: "Medium", Quantity: "1"})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnknownItem))
}

func TestViewCart_OnlySessionPending(t *testing.T) {
	svc, _, _ := newTestOrderService(t, nil)
	ctx := context.Background()

	add := func(sess *models.Session) {
		_, err := svc.AddToCart(ctx, sess, AddToCartRequest{ItemName: "Cheese Pizza", Size: "Medium", Quantity: "1"})
		require.NoError(t, err)
	}
	alice := guestSession("alice-id")
	bob := guestSession("bob-id")
	add(alice)
	add(bob)
	add(alice)

	cart, err := svc.ViewCart(ctx, alice)
	require.NoError(t, err)
	require.Len(t, cart, 2)
	for _, o := range cart {
		assert.Equal(t, "alice-id", o.UserID)
	}
}

func TestCheckout_FlipsOnlySessionPending(t *testing.T) {
	notifier := new(MockNotificationService)
	notifier.On("NotifyOrderPlaced", mock.Anything, "alice", mock.MatchedBy(func(orders []models.Order) bool {
		return len(orders) == 2
	})).Return(nil).Once()

	svc, repo, _ := newTestOrderService(t, notifier)
	ctx := context.Background()

	alice := &models.Session{UserID: "alice-id", Username: "alice", Role: models.Customer}
	bob := guestSession("bob-id")
	for _, sess := range []*models.Session{alice, bob, alice} {
		_, err := svc.AddToCart(ctx, sess, AddToCartRequest{ItemName: "Veggie Pizza", Size: "Medium", Quantity: "1"})
		require.NoError(t, err)
	}

	completed, err := svc.Checkout(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, completed, 2)

	orders, err := repo.GetAll(ctx)
	require.NoError(t, err)
	for _, o := range orders {
		if o.UserID == "alice-id" {
			assert.Equal(t, models.OrderCompleted, o.Status)
		} else {
			assert.Equal(t, models.OrderPending, o.Status)
		}
	}

	cart, err := svc.ViewCart(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, cart)

	waitForNotifications(svc)
	notifier.AssertExpectations(t)
}

func TestCheckout_EmptyCartLeavesStoreUnchanged(t *testing.T) {
	notifier := new(MockNotificationService)
	svc, _, path := newTestOrderService(t, notifier)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, guestSession("bob-id"), AddToCartRequest{ItemName: "Cheese Pizza", Size: "Medium", Quantity: "1"})
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	completed, err := svc.Checkout(ctx, guestSession("alice-id"))
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, completed)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	notifier.AssertNotCalled(t, "NotifyOrderPlaced", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_NotificationFailureIsNotFatal(t *testing.T) {
	notifier := new(MockNotificationService)
	notifier.On("NotifyOrderPlaced", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("offline"))

	svc, _, _ := newTestOrderService(t, notifier)
	ctx := context.Background()
	sess := guestSession("u1")

	_, err := svc.AddToCart(ctx, sess, AddToCartRequest{ItemName: "Cheese Pizza", Size: "Medium", Quantity: "1"})
	require.NoError(t, err)

	completed, err := svc.Checkout(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, completed, 1)

	waitForNotifications(svc)
	notifier.AssertNumberOfCalls(t, "NotifyOrderPlaced", 1)
}

func TestCheckout_DoesNotWaitForSlowNotification(t *testing.T) {
	release := make(chan struct{})
	var (
		hasDeadline bool
		ctxErr      error
	)
	notifier := new(MockNotificationService)
	notifier.On("NotifyOrderPlaced", mock.Anything, models.GuestName, mock.Anything).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		<-release
		_, hasDeadline = ctx.Deadline()
		ctxErr = ctx.Err()
	}).Return(nil).Once()

	svc, _, _ := newTestOrderService(t, notifier)
	sess := guestSession("u1")
	_, err := svc.AddToCart(context.Background(), sess, AddToCartRequest{ItemName: "Cheese Pizza", Size: "Medium", Quantity: "1"})
	require.NoError(t, err)

	reqCtx, cancel := context.WithCancel(context.Background())
	completed, err := svc.Checkout(reqCtx, sess)
	cancel()
	require.NoError(t, err)
	assert.Len(t, completed, 1)

	close(release)
	waitForNotifications(svc)
	assert.True(t, hasDeadline)
	assert.NoError(t, ctxErr)
	notifier.AssertExpectations(t)
}

func TestCompletedOrders_OwnerSeesAll(t *testing.T) {
	svc, _, _ := newTestOrderService(t, nil)
	ctx := context.Background()

	alice := guestSession("alice-id")
	bob := guestSession("bob-id")
	for _, sess := range []*models.Session{alice, bob} {
		_, err := svc.AddToCart(ctx, sess, AddToCartRequest{ItemName: "Cheese Pizza", Size: "Medium", Quantity: "1"})
		require.NoError(t, err)
		_, err = svc.Checkout(ctx, sess)
		require.NoError(t, err)
	}

	own, err := svc.CompletedOrders(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	owner := &models.Session{UserID: "owner-id", Username: "admin", Role: models.StoreOwner}
	all, err := svc.CompletedOrders(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrderPlacedMessage(t *testing.T) {
	orders := []models.Order{{
		OrderID: 4,
		Items: []models.LineItem{{
			ItemName: "Cheese Pizza",
			Size:     "Medium",
			Quantity: 2,
			Meats:    []string{"Bacon"},
			Price:    decimal.NewFromInt(20),
		}},
	}}

	msg := OrderPlacedMessage("", orders)
	assert.Contains(t, msg, "New order from Guest")
	assert.Contains(t, msg, "#4 2x Medium Cheese Pizza - $20.00")
	assert.Contains(t, msg, "meats: Bacon")
	assert.Contains(t, msg, "Total: $20.00")
}
