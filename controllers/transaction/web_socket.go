package transactionControllers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/xhfmvls/c-buy/middleware"
	"github.com/xhfmvls/c-buy/models"
)

// GET /transaction/ws streams the caller's store events.
func (h *Handler) TransactionWebSocket(c *gin.Context) {
	store, err := middleware.CurrentStore(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if h.Hub == nil {
		_ = c.Error(models.NotFoundError("Transaction feed is disabled"))
		return
	}

	// Upgrade failures have already been answered by the upgrader.
	if err := h.Hub.Serve(c.Writer, c.Request, store.StoreID); err != nil {
		h.Log.Debug("websocket closed", slog.String("store_id", store.StoreID), slog.Any("err", err))
	}
}
