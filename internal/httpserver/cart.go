package httpserver

import (
	"net/http"

	cartsvc "vendormarket/internal/service/cart"
	"github.com/gin-gonic/gin"
)

type addCartItemRequest struct {
	ProductID     string                 `json:"productId" binding:"required"`
	Quantity      int                    `json:"quantity" binding:"required"`
	Customization map[string]interface{} `json:"customization"`
}

func getCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := identityFrom(c)
		cart, err := svc.Get(c.Request.Context(), identity.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func addCartItemHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := identityFrom(c)
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "productId and quantity required"})
			return
		}
		cart, err := svc.AddItem(c.Request.Context(), identity.UserID, req.ProductID, req.Quantity, req.Customization)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func removeCartItemHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := identityFrom(c)
		cart, err := svc.RemoveItem(c.Request.Context(), identity.UserID, c.Param("productId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func clearCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := identityFrom(c)
		cart, err := svc.Clear(c.Request.Context(), identity.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}
