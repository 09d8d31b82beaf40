package httpserver

import (
	"net/http"

	"vendormarket/internal/domain"
	ordersvc "vendormarket/internal/service/order"
	"github.com/gin-gonic/gin"
)

type placeOrderRequest struct {
	ShippingAddress domain.Address `json:"shippingAddress"`
	Notes           string         `json:"notes"`
	PaymentMethod   string         `json:"paymentMethod"`
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

func placeOrderHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := identityFrom(c)
		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "invalid request body"})
			return
		}
		ord, err := svc.Place(c.Request.Context(), identity.UserID, ordersvc.PlaceInput{
			Shipping:      req.ShippingAddress,
			Notes:         req.Notes,
			PaymentMethod: req.PaymentMethod,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, ord)
	}
}

func listMyOrdersHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := identityFrom(c)
		orders, err := svc.ListMine(c.Request.Context(), identity.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func getOrderHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := identityFrom(c)
		ord, err := svc.Get(c.Request.Context(), c.Param("id"), identity.UserID, identity.Role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ord)
	}
}

func cancelOrderHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := identityFrom(c)
		ord, err := svc.Cancel(c.Request.Context(), c.Param("id"), identity.UserID, identity.Role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ord)
	}
}

func updateOrderStatusHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "status required"})
			return
		}
		status, ok := domain.ParseOrderStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "unknown status"})
			return
		}
		ord, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ord)
	}
}

func setPaymentStatusHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "status required"})
			return
		}
		status, ok := domain.ParsePaymentStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "unknown payment status"})
			return
		}
		ord, err := svc.SetPaymentStatus(c.Request.Context(), c.Param("id"), status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ord)
	}
}
