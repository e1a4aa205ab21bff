package api

import (
	"errors"
	"net/http"
	"strconv"

	"shopfront/internal/service"
	"shopfront/internal/session"
	"shopfront/internal/store"

	"github.com/gin-gonic/gin"
)

// checkoutRequest is the typed address form submitted with a checkout.
// Every field is optional; blank fields keep the customer's stored value.
type checkoutRequest struct {
	Phone      string `form:"phone"`
	Address    string `form:"address"`
	City       string `form:"city"`
	State      string `form:"state"`
	PostalCode string `form:"postal_code"`
	Country    string `form:"country"`
}

func (h *Handler) checkoutForm(c *gin.Context) {
	sess := currentSession(c)
	if sess.CartIsEmpty() {
		sess.AddFlash(session.FlashWarning, "Your cart is empty!")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	lines, total := h.carts.View(sess)
	customer, err := h.accounts.GetCustomer(c.Request.Context(), sess.UserID)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}

	h.render(c, http.StatusOK, "checkout.html", gin.H{
		"Lines":    lines,
		"Total":    total,
		"Customer": customer,
	})
}

func (h *Handler) checkoutSubmit(c *gin.Context) {
	sess := currentSession(c)

	var req checkoutRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderError(c, http.StatusBadRequest, "Malformed checkout form")
		return
	}

	form := store.ProfileUpdate{
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}

	order, err := h.checkout.PlaceOrder(c.Request.Context(), sess, sess.UserID, form)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			sess.AddFlash(session.FlashWarning, "Your cart is empty!")
			c.Redirect(http.StatusSeeOther, "/")
		case errors.Is(err, store.ErrInsufficientStock):
			sess.AddFlash(session.FlashError, "Not enough stock to fulfil your order. Please adjust your cart.")
			c.Redirect(http.StatusSeeOther, "/cart/")
		case errors.Is(err, store.ErrNotFound):
			sess.AddFlash(session.FlashError, "A product in your cart is no longer available.")
			c.Redirect(http.StatusSeeOther, "/cart/")
		default:
			h.notFoundOr500(c, err)
		}
		return
	}

	sess.AddFlash(session.FlashSuccess, "Order placed successfully!")
	c.Redirect(http.StatusSeeOther, "/order-confirmation/"+strconv.FormatInt(order.ID, 10)+"/")
}

func (h *Handler) orderConfirmation(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	order, items, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	h.render(c, http.StatusOK, "order_confirmation.html", gin.H{
		"Order": order,
		"Items": items,
	})
}
