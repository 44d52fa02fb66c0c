package routes

import (
	"github.com/gin-gonic/gin"
	transactionControllers "github.com/xhfmvls/c-buy/controllers/transaction"
	"github.com/xhfmvls/c-buy/middleware"
)

func SetupTransactionRoutes(r *gin.RouterGroup, h *transactionControllers.Handler) {
	transactions := r.Group("/transaction")
	{
		// Turn the cart into one pending transaction per store
		transactions.POST("", h.CreateTransaction)

		// Confirm a pending transaction and take its stock
		transactions.PATCH("", h.ConfirmTransaction)

		transactions.GET("", h.GetTransactions)

		transactions.GET("/:transactionID", h.GetTransactionData)
	}
}

// SetupTransactionFeed registers the websocket endpoint for the store's transaction
// events. It authenticates on its own since browsers cannot send headers on upgrade.
func SetupTransactionFeed(r *gin.RouterGroup, secret string, h *transactionControllers.Handler) {
	r.GET("/transaction/ws", middleware.RequireWebSocketAuth(secret), h.TransactionWebSocket)
}
