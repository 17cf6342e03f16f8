package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"pizza_store/internal/catalog"
	"pizza_store/internal/models"
	"pizza_store/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderService interface {
	Menu() []catalog.Item
	AddToCart(ctx context.Context, session *models.Session, req AddToCartRequest) (*AddToCartResult, error)
	ViewCart(ctx context.Context, session *models.Session) ([]models.Order, error)
	Checkout(ctx context.Context, session *models.Session) ([]models.Order, error)
	CompletedOrders(ctx context.Context, session *models.Session) ([]models.Order, error)
}

// AddToCartRequest carries the raw form values of the customize page.
// Quantity stays a string so unparseable input can fall back to 1.
type AddToCartRequest struct {
	ItemName string   `form:"pizza"`
	Size     string   `form:"size"`
	Quantity string   `form:"quantity"`
	Meats    []string `form:"meats[]"`
	Veggies  []string `form:"veggies[]"`
}

type AddToCartResult struct {
	Order *models.Order
	// QuantityDefaulted is set when the submitted quantity was not a number.
	QuantityDefaulted bool
}

// notifyTimeout bounds a checkout notification that runs after the request
// has returned.
const notifyTimeout = 15 * time.Second

type orderService struct {
	orderRepo repository.OrderRepository
	menu      *catalog.Catalog
	notifier  NotificationService
	log       *zap.Logger

	notifications sync.WaitGroup
}

func NewOrderService(orderRepo repository.OrderRepository, menu *catalog.Catalog, notifier NotificationService, log *zap.Logger) OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &orderService{orderRepo: orderRepo, menu: menu, notifier: notifier, log: log}
}

func (s *orderService) Menu() []catalog.Item {
	return s.menu.Items()
}

func (s *orderService) AddToCart(ctx context.Context, session *models.Session, req AddToCartRequest) (*AddToCartResult, error) {
	item, ok := s.menu.Lookup(req.ItemName)
	if !ok {
		return nil, ErrUnknownItem
	}
	size := strings.TrimSpace(req.Size)
	if size == "" {
		return nil, ErrMissingSize
	}

	quantity, defaulted, err := parseQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}

	username := session.Username
	if username == "" {
		username = models.GuestName
	}

	order := &models.Order{
		UserID:   session.UserID,
		Username: username,
		Items: []models.LineItem{
			{
				ItemName:  item.Name,
				Size:      size,
				Meats:     normalizeToppings(req.Meats),
				Veggies:   normalizeToppings(req.Veggies),
				Quantity:  quantity,
				UnitPrice: item.Price,
				Price:     item.Price.Mul(decimal.NewFromInt(int64(quantity))),
			},
		},
		Status: models.OrderPending,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.log.Info("order added to cart",
		zap.Int("order_id", order.OrderID),
		zap.String("user_id", order.UserID),
		zap.String("item", item.Name),
		zap.Int("quantity", quantity),
	)
	return &AddToCartResult{Order: order, QuantityDefaulted: defaulted}, nil
}

func (s *orderService) ViewCart(ctx context.Context, session *models.Session) ([]models.Order, error) {
	return s.orderRepo.GetByUserAndStatus(ctx, session.UserID, models.OrderPending)
}

func (s *orderService) Checkout(ctx context.Context, session *models.Session) ([]models.Order, error) {
	completed, err := s.orderRepo.CompletePending(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to save orders: %w", err)
	}
	if len(completed) == 0 {
		return nil, ErrEmptyCart
	}

	s.log.Info("checkout completed",
		zap.String("user_id", session.UserID),
		zap.Int("orders", len(completed)),
	)

	if s.notifier != nil {
		s.notifications.Add(1)
		go s.notifyOrderPlaced(session.Username, completed)
	}
	return completed, nil
}

func (s *orderService) notifyOrderPlaced(username string, orders []models.Order) {
	defer s.notifications.Done()

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyOrderPlaced(ctx, username, orders); err != nil {
		s.log.Warn("failed to send order notification", zap.Error(err))
	}
}

func (s *orderService) CompletedOrders(ctx context.Context, session *models.Session) ([]models.Order, error) {
	if session.IsStoreOwner() {
		return s.orderRepo.GetByStatus(ctx, models.OrderCompleted)
	}
	return s.orderRepo.GetByUserAndStatus(ctx, session.UserID, models.OrderCompleted)
}

// parseQuantity defaults unparseable input to 1 and rejects values below 1.
func parseQuantity(raw string) (int, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, false, nil
	}
	quantity, err := strconv.Atoi(raw)
	if err != nil {
		return 1, true, nil
	}
	if quantity < 1 {
		return 0, false, ErrInvalidQuantity
	}
	return quantity, false, nil
}

func normalizeToppings(toppings []string) []string {
	seen := make(map[string]struct{}, len(toppings))
	out := make([]string, 0, len(toppings))
	for _, t := range toppings {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
