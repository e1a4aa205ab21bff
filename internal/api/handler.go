package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shopfront/internal/service"
	"shopfront/internal/session"
	"shopfront/internal/store"
	"shopfront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// Handler contains the HTTP handlers for every page of the storefront.
type Handler struct {
	catalog  *service.CatalogService
	accounts *service.AccountService
	carts    *service.CartService
	checkout *service.CheckoutService
	orders   *service.OrderService
	sessions session.Store

	cookieName    string
	secureCookies bool
	logger        *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	accounts *service.AccountService,
	carts *service.CartService,
	checkout *service.CheckoutService,
	orders *service.OrderService,
	sessions session.Store,
	cookieName string,
	secureCookies bool,
) *Handler {
	return &Handler{
		catalog:       catalog,
		accounts:      accounts,
		carts:         carts,
		checkout:      checkout,
		orders:        orders,
		sessions:      sessions,
		cookieName:    cookieName,
		secureCookies: secureCookies,
		logger:        util.GetLogger(),
	}
}

// TemplateFuncs returns the helpers the page templates rely on. Install
// with router.SetFuncMap before loading templates.
func TemplateFuncs() map[string]interface{} {
	return map[string]interface{}{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())
	router.Use(h.sessionMiddleware())
	router.Use(h.csrfMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Storefront
	router.GET("/", h.home)
	router.GET("/product/:id/", h.productDetail)
	router.GET("/category/:id/", h.categoryView)
	router.GET("/products/", h.productList)

	// Catalog management
	router.GET("/product/create/", h.productForm)
	router.POST("/product/create/", h.productSave)
	router.GET("/product/:id/update/", h.productForm)
	router.POST("/product/:id/update/", h.productSave)
	router.GET("/product/:id/delete/", h.productConfirmDelete)
	router.POST("/product/:id/delete/", h.productDelete)

	router.GET("/categories/", h.categoryList)
	router.GET("/category/create/", h.categoryForm)
	router.POST("/category/create/", h.categorySave)
	router.GET("/category/:id/update/", h.categoryForm)
	router.POST("/category/:id/update/", h.categorySave)
	router.GET("/category/:id/delete/", h.categoryConfirmDelete)
	router.POST("/category/:id/delete/", h.categoryDelete)

	// User management
	router.GET("/users/", h.userList)
	router.GET("/user/:id/", h.userDetail)
	router.GET("/user/create/", h.userForm)
	router.POST("/user/create/", h.userSave)
	router.GET("/user/:id/update/", h.userForm)
	router.POST("/user/:id/update/", h.userSave)
	router.GET("/user/:id/delete/", h.userConfirmDelete)
	router.POST("/user/:id/delete/", h.userDelete)

	// Cart
	router.GET("/cart/", h.cartView)
	router.POST("/cart/", h.cartView)
	router.GET("/add-to-cart/:id/", h.addToCart)
	router.GET("/remove-from-cart/:id/", h.removeFromCart)

	// Checkout and customer orders
	authed := router.Group("/", h.requireLogin())
	authed.GET("/checkout/", h.checkoutForm)
	authed.POST("/checkout/", h.checkoutSubmit)
	authed.GET("/my-orders/", h.myOrders)
	router.GET("/order-confirmation/:id/", h.orderConfirmation)

	// Order management
	router.GET("/orders/", h.orderList)
	router.GET("/order/:id/", h.orderDetail)
	router.GET("/order/:id/update/", h.orderStatusForm)
	router.POST("/order/:id/update/", h.orderStatusUpdate)

	// Authentication
	router.GET("/register/", h.registerForm)
	router.POST("/register/", h.registerSubmit)
	router.GET("/login/", h.loginForm)
	router.POST("/login/", h.loginSubmit)
	router.POST("/logout/", h.logout)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// render injects the session-derived page chrome (flash messages, CSRF
// token, login state, cart badge) into every template.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	sess := currentSession(c)
	if sess != nil {
		data["Flashes"] = sess.PopFlash()
		data["CSRFToken"] = sess.CSRFToken
		data["LoggedIn"] = sess.IsAuthenticated()
		data["CartCount"] = len(sess.Cart)
	}
	c.HTML(status, name, data)
}

// renderError shows the shared error page.
func (h *Handler) renderError(c *gin.Context, status int, message string) {
	h.render(c, status, "error.html", gin.H{"Status": status, "Message": message})
}

// notFoundOr500 maps a service error onto a 404 page when the underlying
// row is missing, or a 500 page otherwise.
func (h *Handler) notFoundOr500(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		h.renderError(c, http.StatusNotFound, "Page not found")
		return
	}
	h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	h.renderError(c, http.StatusInternalServerError, "Something went wrong")
}
