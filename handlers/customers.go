package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *HandlerBundle) ListCustomersHandler(c *gin.Context) {
	customers, err := h.Customers.ListCustomers(c.Request.Context(), businessID(c))
	if err != nil {
		respondError(c, "list customers", err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *HandlerBundle) GetCustomerHandler(c *gin.Context) {
	customer, err := h.Customers.GetCustomer(c.Request.Context(), businessID(c), c.Param("id"))
	if err != nil {
		respondError(c, "get customer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// ListBookingsHandler lists pending bookings unless ?status= says otherwise.
func (h *HandlerBundle) ListBookingsHandler(c *gin.Context) {
	bookings, err := h.Customers.ListBookings(c.Request.Context(), businessID(c), c.Query("status"))
	if err != nil {
		respondError(c, "list bookings", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *HandlerBundle) UpdateBookingStatusHandler(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	booking, err := h.Customers.UpdateBookingStatus(c.Request.Context(), businessID(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, "update booking", err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *HandlerBundle) ListOrdersHandler(c *gin.Context) {
	orders, err := h.Customers.ListOrders(c.Request.Context(), businessID(c), c.Query("status"))
	if err != nil {
		respondError(c, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *HandlerBundle) UpdateOrderStatusHandler(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.Customers.UpdateOrderStatus(c.Request.Context(), businessID(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, "update order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *HandlerBundle) AnalyticsHandler(c *gin.Context) {
	a, err := h.Customers.Analytics(c.Request.Context(), businessID(c))
	if err != nil {
		respondError(c, "compute analytics", err)
		return
	}
	c.JSON(http.StatusOK, a)
}
