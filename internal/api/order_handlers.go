package api

import (
	"errors"
	"net/http"
	"strconv"

	"shopfront/internal/models"
	"shopfront/internal/session"
	"shopfront/internal/store"

	"github.com/gin-gonic/gin"
)

func (h *Handler) orderList(c *gin.Context) {
	status := c.Query("status")
	orders, err := h.orders.ListOrders(c.Request.Context(), status)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	h.render(c, http.StatusOK, "order_list.html", gin.H{
		"Orders":       orders,
		"StatusFilter": status,
		"Statuses":     models.OrderStatuses,
	})
}

func (h *Handler) orderDetail(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	order, items, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	h.render(c, http.StatusOK, "order_detail.html", gin.H{
		"Order": order,
		"Items": items,
	})
}

func (h *Handler) orderStatusForm(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	order, _, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	h.render(c, http.StatusOK, "order_form.html", gin.H{
		"Order":    order,
		"Statuses": models.OrderStatuses,
	})
}

// orderStatusRequest is the typed status update form.
type orderStatusRequest struct {
	Status string `form:"status" binding:"required"`
}

func (h *Handler) orderStatusUpdate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	sess := currentSession(c)

	var req orderStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		sess.AddFlash(session.FlashError, "A status value is required.")
		c.Redirect(http.StatusSeeOther, "/order/"+strconv.FormatInt(id, 10)+"/update/")
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidTransition):
			sess.AddFlash(session.FlashError, "That status change is not allowed.")
			c.Redirect(http.StatusSeeOther, "/order/"+strconv.FormatInt(id, 10)+"/update/")
		default:
			h.notFoundOr500(c, err)
		}
		return
	}

	sess.AddFlash(session.FlashSuccess, "Order #"+strconv.FormatInt(id, 10)+" status updated to "+req.Status+"!")
	c.Redirect(http.StatusSeeOther, "/orders/")
}

func (h *Handler) myOrders(c *gin.Context) {
	sess := currentSession(c)
	orders, err := h.orders.MyOrders(c.Request.Context(), sess.UserID)
	if err != nil {
		h.notFoundOr500(c, err)
		return
	}
	h.render(c, http.StatusOK, "my_orders.html", gin.H{"Orders": orders})
}
