package transactionControllers

import (
	"context"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xhfmvls/c-buy/cache"
	"github.com/xhfmvls/c-buy/events"
	"github.com/xhfmvls/c-buy/middleware"
	"github.com/xhfmvls/c-buy/models"
	"gorm.io/gorm"
)

type ConfirmTransactionRequest struct {
	TransactionID string `json:"transactionID"`
}

type Handler struct {
	DB        *gorm.DB
	Publisher events.Publisher
	Cache     cache.ProductCache
	Hub       *events.Hub
	Wallets   []string
	Log       *slog.Logger
}

func NewHandler(db *gorm.DB, pub events.Publisher, pc cache.ProductCache, hub *events.Hub, wallets []string, log *slog.Logger) *Handler {
	if pub == nil {
		pub = events.Nop{}
	}
	if pc == nil {
		pc = cache.NopProductCache{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{DB: db, Publisher: pub, Cache: pc, Hub: hub, Wallets: wallets, Log: log}
}

// wallet returns a random payment address, or "" when none are configured.
func (h *Handler) wallet() string {
	if len(h.Wallets) == 0 {
		return ""
	}
	return h.Wallets[rand.Intn(len(h.Wallets))]
}

// publish never fails the request; the database already committed.
func (h *Handler) publish(ctx context.Context, e events.Event) {
	if err := h.Publisher.Publish(ctx, e); err != nil {
		h.Log.Warn("publish event failed",
			slog.String("type", string(e.Type)),
			slog.String("transaction_id", e.TransactionID),
			slog.Any("err", err),
		)
	}
}

// POST /transaction
func (h *Handler) CreateTransaction(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	res, err := CreateTransaction(ctx, h.DB, user.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	now := time.Now().UTC()
	for _, header := range res.Headers {
		h.publish(ctx, events.Event{
			Type:          events.TransactionCreated,
			TransactionID: header.TransactionID,
			UserID:        header.UserID,
			StoreID:       header.StoreID,
			OccurredAt:    now,
		})
	}

	body := gin.H{"success": true, "transactionList": res.TransactionIDs}
	if w := h.wallet(); w != "" {
		body["wallet"] = w
	}
	c.JSON(http.StatusCreated, body)
}

// PATCH /transaction
func (h *Handler) ConfirmTransaction(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req ConfirmTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(models.BadRequestError("Invalid request body"))
		return
	}

	ctx := c.Request.Context()
	conf, err := ConfirmTransaction(ctx, h.DB, user.UserID, req.TransactionID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	productIDs := make([]string, 0, len(conf.Details))
	for _, d := range conf.Details {
		productIDs = append(productIDs, d.ProductID)
	}
	h.Cache.Invalidate(ctx, productIDs...)

	h.publish(ctx, events.Event{
		Type:          events.TransactionConfirmed,
		TransactionID: conf.Header.TransactionID,
		UserID:        conf.Header.UserID,
		StoreID:       conf.Header.StoreID,
		OccurredAt:    time.Now().UTC(),
	})

	c.JSON(http.StatusCreated, gin.H{"success": true, "transactionID": conf.Header.TransactionID})
}

// GET /transaction
func (h *Handler) GetTransactions(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	headers, err := ListTransactions(c.Request.Context(), h.DB, user.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(headers), "transactions": headers})
}

// GET /transaction/:transactionID
func (h *Handler) GetTransactionData(c *gin.Context) {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	header, lines, err := GetTransaction(c.Request.Context(), h.DB, user.UserID, c.Param("transactionID"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transaction": header, "details": lines})
}
