package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, store *StoreHandler, auth *AuthHandler) {
	r.GET("/", store.Index)
	r.GET("/customize_pizza", store.Index)
	r.POST("/customize_pizza", store.CustomizePizza)
	r.GET("/cart", store.Cart)
	r.GET("/review_order", store.ReviewOrder)
	r.GET("/checkout", store.Checkout)
	r.POST("/checkout", store.Checkout)
	r.GET("/store_orders", store.StoreOrders)
	r.GET("/order_placed", store.OrderPlaced)
	r.GET("/edit_menu_items", store.EditMenuItems)

	r.GET("/login", auth.LoginPage)
	r.POST("/login", auth.Login)
	r.GET("/admin_login", auth.AdminLoginPage)
	r.POST("/admin_login", auth.Login)
	r.GET("/register", auth.RegisterPage)
	r.POST("/register", auth.Register)
	r.GET("/logout", auth.Logout)
	r.GET("/admin_menu", auth.AdminMenu)
	r.GET("/user_menu", auth.UserMenu)
}

// Healthz is mounted outside the session middleware.
func Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
