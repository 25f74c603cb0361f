package routes

import (
	"flexgym_back_end/internal/handlers/payement"
	"flexgym_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.Engine, h *payement.Handler, rdb *redis.Client) {
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := api.Group("", middleware.AuthRequired())

	// Paiements
	auth.POST("/payments/confirm", middleware.PaymentRateLimit(rdb), h.RecordPayment)

	// Remboursements
	auth.POST("/refunds", middleware.RefundRateLimit(rdb), h.RequestRefund)

	// Historique & portefeuille
	auth.GET("/purchases/history", h.GetPurchaseHistory)
	auth.GET("/wallet", h.GetWallet)

	// Admin
	admin := auth.Group("/admin", middleware.RequireAdmin)
	admin.GET("/refunds", h.GetAllRefundRequests)
	admin.GET("/payments/search", h.SearchPayments)
}
