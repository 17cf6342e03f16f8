package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"pizza_store/internal/models"
	"pizza_store/internal/services"
	"pizza_store/internal/session"
	"pizza_store/internal/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CredentialsRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type AuthHandler struct {
	userService  services.UserService
	orderService services.OrderService
	views        *views.Renderer
	log          *zap.Logger
}

func NewAuthHandler(userService services.UserService, orderService services.OrderService, renderer *views.Renderer, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{userService: userService, orderService: orderService, views: renderer, log: log}
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.views.HTML(c, http.StatusOK, "login.html", gin.H{"title": "Login"})
}

// AdminLoginPage is the owner entry point; it posts to the shared login.
func (h *AuthHandler) AdminLoginPage(c *gin.Context) {
	h.views.HTML(c, http.StatusOK, "login.html", gin.H{
		"title":   "Admin login",
		"heading": "Store owner login",
		"action":  "/admin_login",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	sess := session.FromContext(c)
	var req CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		sess.AddFlash(models.FlashError, invalidFormMessage)
		c.Redirect(http.StatusFound, "/login")
		return
	}

	err := h.userService.Login(c.Request.Context(), sess, req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			h.log.Error("login failed", zap.Error(err))
		}
		sess.AddFlash(models.FlashError, "Invalid credentials. Please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	if sess.IsStoreOwner() {
		sess.AddFlash(models.FlashSuccess, "Admin login successful!")
		c.Redirect(http.StatusFound, "/admin_menu")
		return
	}
	sess.AddFlash(models.FlashSuccess, "Login successful!")
	c.Redirect(http.StatusFound, "/user_menu")
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	h.views.HTML(c, http.StatusOK, "register.html", gin.H{"title": "Register"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	sess := session.FromContext(c)
	var req CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		sess.AddFlash(models.FlashError, invalidFormMessage)
		c.Redirect(http.StatusFound, "/register")
		return
	}

	_, err := h.userService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			sess.AddFlash(models.FlashError, "Username already exists!")
		case errors.Is(err, services.ErrMissingCredentials):
			sess.AddFlash(models.FlashError, "Please enter a username and password.")
		default:
			h.log.Error("registration failed", zap.Error(err))
			sess.AddFlash(models.FlashError, "Failed to save data. Please try again.")
		}
		c.Redirect(http.StatusFound, "/register")
		return
	}

	sess.AddFlash(models.FlashSuccess, "Registration successful!")
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess := session.FromContext(c)
	sess.Clear()
	sess.AddFlash(models.FlashInfo, "You have been logged out.")
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) AdminMenu(c *gin.Context) {
	if !requireStoreOwner(c) {
		return
	}

	sess := session.FromContext(c)
	ctx := c.Request.Context()
	users, err := h.userService.GetAllUsers(ctx)
	if err != nil {
		h.views.Error(c, fmt.Errorf("could not retrieve users: %w", err), http.StatusInternalServerError)
		return
	}
	completed, err := h.orderService.CompletedOrders(ctx, sess)
	if err != nil {
		h.views.Error(c, fmt.Errorf("could not retrieve orders: %w", err), http.StatusInternalServerError)
		return
	}

	h.views.HTML(c, http.StatusOK, "admin_menu.html", gin.H{
		"title":           "Admin",
		"user_count":      len(users),
		"completed_count": len(completed),
	})
}

func (h *AuthHandler) UserMenu(c *gin.Context) {
	h.views.HTML(c, http.StatusOK, "user_menu.html", gin.H{"title": "My account"})
}

// requireStoreOwner redirects everyone else to the login page.
func requireStoreOwner(c *gin.Context) bool {
	sess := session.FromContext(c)
	if sess.IsStoreOwner() {
		return true
	}
	sess.AddFlash(models.FlashError, "Access denied. Store owners only.")
	c.Redirect(http.StatusFound, "/login")
	return false
}
