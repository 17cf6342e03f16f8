package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"pizza_store/internal/catalog"
	"pizza_store/internal/models"
	"pizza_store/internal/services"
	"pizza_store/internal/session"
	"pizza_store/internal/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	saveFailedMessage  = "An error occurred while saving your order. Please try again."
	invalidFormMessage = "Invalid form submission. Please try again."
)

type StoreHandler struct {
	orderService services.OrderService
	views        *views.Renderer
	log          *zap.Logger
}

func NewStoreHandler(orderService services.OrderService, renderer *views.Renderer, log *zap.Logger) *StoreHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &StoreHandler{orderService: orderService, views: renderer, log: log}
}

func (h *StoreHandler) Index(c *gin.Context) {
	h.views.HTML(c, http.StatusOK, "index.html", gin.H{
		"title":   "Menu",
		"menu":    h.orderService.Menu(),
		"sizes":   catalog.Sizes,
		"meats":   catalog.Meats,
		"veggies": catalog.Veggies,
	})
}

func (h *StoreHandler) CustomizePizza(c *gin.Context) {
	sess := session.FromContext(c)
	var req services.AddToCartRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.Warn("invalid customize form", zap.Error(err))
		sess.AddFlash(models.FlashError, invalidFormMessage)
		c.Redirect(http.StatusFound, "/")
		return
	}

	result, err := h.orderService.AddToCart(c.Request.Context(), sess, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownItem):
			sess.AddFlash(models.FlashError, "Pizza not found in menu!")
		case errors.Is(err, services.ErrMissingSize):
			sess.AddFlash(models.FlashError, "Please select a size for your pizza.")
		case errors.Is(err, services.ErrInvalidQuantity):
			sess.AddFlash(models.FlashError, "Invalid quantity. Please enter a positive number.")
		default:
			h.log.Error("failed to add to cart", zap.Error(err))
			sess.AddFlash(models.FlashError, saveFailedMessage)
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	if result.QuantityDefaulted {
		sess.AddFlash(models.FlashWarning, "Invalid quantity! Defaulting to 1.")
	}
	item := result.Order.Items[0]
	sess.AddFlash(models.FlashSuccess, fmt.Sprintf("%d %s %s(s) added to your cart!", item.Quantity, item.Size, item.ItemName))
	c.Redirect(http.StatusFound, "/cart")
}

func (h *StoreHandler) Cart(c *gin.Context) {
	h.renderCart(c, "cart.html", "Cart")
}

// ReviewOrder shows the pending items once more before checkout.
func (h *StoreHandler) ReviewOrder(c *gin.Context) {
	h.renderCart(c, "review_order.html", "Review order")
}

func (h *StoreHandler) renderCart(c *gin.Context, name, title string) {
	sess := session.FromContext(c)
	cart, err := h.orderService.ViewCart(c.Request.Context(), sess)
	if err != nil {
		h.views.Error(c, fmt.Errorf("could not retrieve cart: %w", err), http.StatusInternalServerError)
		return
	}

	total := models.Order{}
	for _, order := range cart {
		total.Items = append(total.Items, order.Items...)
	}
	h.views.HTML(c, http.StatusOK, name, gin.H{
		"title": title,
		"cart":  cart,
		"total": total.Total(),
	})
}

func (h *StoreHandler) Checkout(c *gin.Context) {
	sess := session.FromContext(c)
	_, err := h.orderService.Checkout(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			sess.AddFlash(models.FlashWarning, "Your cart is empty!")
		} else {
			h.log.Error("checkout failed", zap.Error(err))
			sess.AddFlash(models.FlashError, saveFailedMessage)
		}
		c.Redirect(http.StatusFound, "/cart")
		return
	}

	sess.AddFlash(models.FlashSuccess, "Your order has been placed successfully!")
	c.Redirect(http.StatusFound, "/order_placed")
}

func (h *StoreHandler) StoreOrders(c *gin.Context) {
	sess := session.FromContext(c)
	orders, err := h.orderService.CompletedOrders(c.Request.Context(), sess)
	if err != nil {
		h.views.Error(c, fmt.Errorf("could not retrieve orders: %w", err), http.StatusInternalServerError)
		return
	}
	h.views.HTML(c, http.StatusOK, "store_orders.html", gin.H{
		"title":  "Orders",
		"orders": orders,
	})
}

func (h *StoreHandler) OrderPlaced(c *gin.Context) {
	h.views.HTML(c, http.StatusOK, "order_placed.html", gin.H{"title": "Order placed"})
}

// EditMenuItems lists the catalog for the store owner. The catalog is
// compiled in, so the page is read-only.
func (h *StoreHandler) EditMenuItems(c *gin.Context) {
	if !requireStoreOwner(c) {
		return
	}
	h.views.HTML(c, http.StatusOK, "edit_menu_items.html", gin.H{
		"title": "Menu items",
		"menu":  h.orderService.Menu(),
	})
}
