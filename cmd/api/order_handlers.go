package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/pedidos-api/internal/httpx"
	"github.com/MikeMC777/pedidos-api/internal/order"
	"github.com/MikeMC777/pedidos-api/internal/user"
)

// orderErrStatus maps service errors to HTTP status codes.
func orderErrStatus(err error) int {
	switch {
	case errors.Is(err, order.ErrNotFound), errors.Is(err, order.ErrItemNotFound), errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, order.ErrNotPending):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortOrderErr(c *gin.Context, err error) {
	c.JSON(orderErrStatus(err), gin.H{"error": err.Error()})
}

// createOrderHandler opens a new PENDING order.
//
// @Summary  Create order
// @Tags     orders
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body order.CreateOrderRequest true "order"
// @Success  201 {object} order.Order
// @Router   /orders [post]
func createOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		actor, _ := httpx.CurrentUser(c)
		owner := req.UserID
		if owner == "" {
			owner = actor.ID
		}
		o, err := svc.Create(c.Request.Context(), owner)
		if err != nil {
			abortOrderErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// addItemHandler appends a line item and returns the recomputed total.
//
// @Summary  Add item to order
// @Tags     orders
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string true "order id"
// @Param    body body order.AddItemRequest true "item"
// @Success  201 {object} order.ItemResponse
// @Failure  403 {object} map[string]string
// @Router   /orders/{id}/items [post]
func addItemHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		actor, _ := httpx.CurrentUser(c)
		it, price, err := svc.AddItem(c.Request.Context(), actor, c.Param("id"), order.ItemSpec{
			Count:     req.Count,
			Flavor:    req.Flavor,
			Size:      req.Size,
			UnitPrice: req.UnitPrice,
		})
		if err != nil {
			if errors.Is(err, order.ErrNotFound) || errors.Is(err, order.ErrForbidden) || errors.Is(err, order.ErrNotPending) {
				abortOrderErr(c, err)
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, order.ItemResponse{ItemID: it.ID, OrderPrice: price})
	}
}

// removeItemHandler deletes a line item and returns the recomputed total.
//
// @Summary  Remove item from order
// @Tags     orders
// @Produce  json
// @Security BearerAuth
// @Param    id      path string true "order id"
// @Param    item_id path string true "item id"
// @Success  200 {object} order.ItemResponse
// @Router   /orders/{id}/items/{item_id} [delete]
func removeItemHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := httpx.CurrentUser(c)
		price, err := svc.RemoveItem(c.Request.Context(), actor, c.Param("item_id"))
		if err != nil {
			abortOrderErr(c, err)
			return
		}
		c.JSON(http.StatusOK, order.ItemResponse{OrderPrice: price})
	}
}

// cancelOrderHandler moves the order to CANCELLED.
//
// @Summary  Cancel order
// @Tags     orders
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "order id"
// @Success  200 {object} order.Order
// @Router   /orders/{id}/cancel [post]
func cancelOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := httpx.CurrentUser(c)
		o, err := svc.Cancel(c.Request.Context(), actor, c.Param("id"))
		if err != nil {
			abortOrderErr(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// finishOrderHandler moves the order to COMPLETED.
//
// @Summary  Finish order
// @Tags     orders
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "order id"
// @Success  200 {object} order.Order
// @Router   /orders/{id}/finish [post]
func finishOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := httpx.CurrentUser(c)
		o, err := svc.Finish(c.Request.Context(), actor, c.Param("id"))
		if err != nil {
			abortOrderErr(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// viewOrderHandler returns an order with its item count.
//
// @Summary  View order
// @Tags     orders
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "order id"
// @Success  200 {object} order.ViewResponse
// @Router   /orders/{id} [get]
func viewOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := httpx.CurrentUser(c)
		o, n, err := svc.View(c.Request.Context(), actor, c.Param("id"))
		if err != nil {
			abortOrderErr(c, err)
			return
		}
		c.JSON(http.StatusOK, order.ViewResponse{ItemCount: n, Order: o})
	}
}

// listOrdersHandler enumerates all orders. Admins only.
//
// @Summary  List all orders
// @Tags     orders
// @Produce  json
// @Security BearerAuth
// @Param    limit  query int false "page size"
// @Param    offset query int false "page offset"
// @Success  200 {object} map[string][]order.Order
// @Failure  403 {object} map[string]string
// @Router   /orders [get]
func listOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := httpx.CurrentUser(c)
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		out, err := svc.ListAll(c.Request.Context(), actor, limit, offset)
		if err != nil {
			abortOrderErr(c, err)
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

// listMyOrdersHandler returns the caller's orders with nested items.
//
// @Summary  List my orders
// @Tags     orders
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} map[string][]order.Order
// @Router   /orders/mine [get]
func listMyOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := httpx.CurrentUser(c)
		out, err := svc.ListMine(c.Request.Context(), actor)
		if err != nil {
			abortOrderErr(c, err)
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": out})
	}
}

// deleteOrderHandler removes an order and cascades its items. Admins only.
//
// @Summary  Delete order
// @Tags     orders
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "order id"
// @Success  204 {object} nil
// @Router   /orders/{id} [delete]
func deleteOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := httpx.CurrentUser(c)
		if err := svc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
			abortOrderErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
