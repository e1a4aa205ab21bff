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

func (h *Handler) cartView(c *gin.Context) {
	sess := currentSession(c)
	lines, total := h.carts.View(sess)
	h.render(c, http.StatusOK, "cart.html", gin.H{
		"Lines": lines,
		"Total": total,
	})
}

func (h *Handler) addToCart(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	sess := currentSession(c)

	quantity := 1
	if raw := c.Query("quantity"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			sess.AddFlash(session.FlashError, "Quantity must be a number.")
			c.Redirect(http.StatusSeeOther, "/cart/")
			return
		}
		quantity = parsed
	}

	product, err := h.carts.Add(c.Request.Context(), sess, id, quantity)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			sess.AddFlash(session.FlashError, vErr.Message)
			c.Redirect(http.StatusSeeOther, "/cart/")
		case errors.Is(err, store.ErrNotFound):
			h.renderError(c, http.StatusNotFound, "Product not found")
		default:
			h.notFoundOr500(c, err)
		}
		return
	}

	sess.AddFlash(session.FlashSuccess, product.Name+" added to cart!")
	c.Redirect(http.StatusSeeOther, "/cart/")
}

func (h *Handler) removeFromCart(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	sess := currentSession(c)

	line, err := h.carts.Remove(c.Request.Context(), sess, id)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	if line != nil {
		sess.AddFlash(session.FlashSuccess, line.Name+" removed from cart!")
	}
	c.Redirect(http.StatusSeeOther, "/cart/")
}
