package httpserver

import (
	"net/http"

	vendorsvc "vendormarket/internal/service/vendor"
	"github.com/gin-gonic/gin"
)

func vendorOrdersHandler(svc *vendorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := identityFrom(c)
		orders, err := svc.ListOrders(c.Request.Context(), identity.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func vendorRevenueHandler(svc *vendorsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := identityFrom(c)
		revenue, err := svc.Revenue(c.Request.Context(), identity.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"revenueCents": revenue})
	}
}
