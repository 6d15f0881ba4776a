package api

import (
	"errors"
	"net/http"

	"github.com/msrikanth38/90s-jar/internal/service"

	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListOrders(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to list orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// placeOrder handles order placement. A retried request carrying the same
// Idempotency-Key gets the first response back.
func (h *Handler) placeOrder(c *gin.Context) {
	var req service.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	resp, err := h.svc.Orders.PlaceOrder(c.Request.Context(), &req, c.GetHeader("Idempotency-Key"))
	if errors.Is(err, service.ErrOrderDelivered) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Order already delivered",
			"details": err.Error(),
		})
		return
	}
	if err != nil {
		h.serverError(c, "Failed to place order", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) updateOrder(c *gin.Context) {
	var req service.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	id := c.Param("id")
	if err := h.svc.Orders.UpdateOrder(c.Request.Context(), id, &req); err != nil {
		h.serverError(c, "Failed to update order", err)
		return
	}
	created(c, id)
}

// updateOrderStatus changes the status; "delivered" moves the order to history
func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.svc.Orders.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		h.serverError(c, "Failed to update order status", err)
		return
	}
	ok(c)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	if err := h.svc.Orders.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		h.serverError(c, "Failed to delete order", err)
		return
	}
	ok(c)
}

func (h *Handler) listHistory(c *gin.Context) {
	history, err := h.svc.Orders.ListHistory(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to list order history", err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) deleteHistory(c *gin.Context) {
	if err := h.svc.Orders.DeleteHistory(c.Request.Context(), c.Param("id")); err != nil {
		h.serverError(c, "Failed to delete order history", err)
		return
	}
	ok(c)
}
