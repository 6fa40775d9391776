package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ordnery-backend/middlewares"
	"ordnery-backend/models"
	"ordnery-backend/services"
)

type OrderController struct {
	Orders *services.OrderService
}

// PlaceOrder handles POST /api/orders/place.
func (ctl *OrderController) PlaceOrder(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("create", ok)
	}()

	userID := c.GetInt64(middlewares.CtxUserID)
	userEmail := c.GetString(middlewares.CtxUserEmail)

	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	order, err := ctl.Orders.PlaceOrder(userID, userEmail, &req)
	if err != nil {
		respondError(c, err, "A server error occurred while placing the order.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
}

// TrackOrder handles GET /api/orders/track/:trackingId?email=. Public.
func (ctl *OrderController) TrackOrder(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("track", ok)
	}()

	order, err := ctl.Orders.TrackOrder(c.Param("trackingId"), c.Query("email"))
	if err != nil {
		respondError(c, err, "A server error occurred while fetching the order. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// MyOrders handles GET /api/orders/my-orders.
func (ctl *OrderController) MyOrders(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("list", ok)
	}()

	orders, err := ctl.Orders.UserOrders(c.GetInt64(middlewares.CtxUserID))
	if err != nil {
		respondError(c, err, "A server error occurred while fetching your orders.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// OrderByID handles GET /api/orders/:id, scoped to the calling user.
func (ctl *OrderController) OrderByID(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("details", ok)
	}()

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order ID"})
		return
	}

	order, err := ctl.Orders.OrderByID(orderID, c.GetInt64(middlewares.CtxUserID))
	if err != nil {
		respondError(c, err, "Failed to fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// AllOrders handles GET /api/orders/admin/all-orders. Admin only.
func (ctl *OrderController) AllOrders(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("list_all", ok)
	}()

	orders, err := ctl.Orders.AllOrders()
	if err != nil {
		respondError(c, err, "A server error occurred while fetching all orders.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// UpdateStatus handles PUT /api/orders/admin/:id. Admin only.
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("update_status", ok)
	}()

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order ID"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	order, err := ctl.Orders.UpdateStatus(orderID, req.Status)
	if err != nil {
		respondError(c, err, "A server error occurred while updating the order status.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated successfully.",
		"order":   order,
	})
}

// DeleteOrder handles DELETE /api/orders/admin/:id. Admin only.
func (ctl *OrderController) DeleteOrder(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("delete", ok)
	}()

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid order ID"})
		return
	}

	if err := ctl.Orders.DeleteOrder(orderID); err != nil {
		respondError(c, err, "A server error occurred while deleting the order.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order deleted successfully."})
}
