package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mintro/internal/domain"
	"mintro/internal/ledger"
	"mintro/internal/utils"
)

// CreateTransactionRequest records an income or expense against a wallet.
type CreateTransactionRequest struct {
	WalletID    uint            `json:"wallet_id" binding:"required"`
	CategoryID  *uint           `json:"category_id"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Type        string          `json:"type" binding:"required,oneof=income expense"`
	Description string          `json:"description"`
}

// CreateTransactionHandler records a transaction through the ledger engine.
func CreateTransactionHandler(engine *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date"})
			return
		}
		txn, err := engine.CreateTransaction(c.Request.Context(), userID, ledger.CreateTransactionInput{
			WalletID:    req.WalletID,
			CategoryID:  req.CategoryID,
			Amount:      req.Amount,
			Date:        date,
			Type:        domain.TransactionType(req.Type),
			Description: req.Description,
		})
		if err != nil {
			respondLedgerError(c, "Create transaction", err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,
			"wallet_id":      req.WalletID,
			"transaction_id": txn.ID,
			"type":           txn.Type,
			"amount":         txn.Amount.StringFixed(2),
		}).Info("Transaction recorded")
		invalidateUserCaches(c, userID)
		c.JSON(http.StatusCreated, gin.H{"transaction": txn})
	}
}

// ListTransactionsHandler returns the authenticated user's transactions,
// newest first, paginated and cached.
func ListTransactionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		page, pageSize, offset := pagination(c)
		ctx := context.Background()
		cacheKey := txHistoryCacheKey(userID, page, pageSize)
		var cached struct {
			Transactions []domain.Transaction `json:"transactions"`
			Page         int                  `json:"page"`
			PageSize     int                  `json:"page_size"`
			Total        int64                `json:"total"`
			TotalPages   int                  `json:"total_pages"`
		}
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"transactions": cached.Transactions,
					"page":         cached.Page,
					"page_size":    cached.PageSize,
					"total":        cached.Total,
					"total_pages":  cached.TotalPages,
					"cached":       true,
				})
				return
			}
		}
		var total int64
		if err := db.Model(&domain.Transaction{}).
			Where("owner_id = ?", userID).
			Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transactions"})
			return
		}
		var transactions []domain.Transaction
		if err := db.Preload("Category").
			Where("owner_id = ?", userID).
			Order("created_at desc").
			Offset(offset).
			Limit(pageSize).
			Find(&transactions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize
		resp := gin.H{
			"transactions": transactions,
			"page":         page,
			"page_size":    pageSize,
			"total":        total,
			"total_pages":  totalPages,
			"cached":       false,
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// DeleteTransactionHandler deletes a transaction, reversing its balance
// effect through the ledger engine, and returns the deleted record.
func DeleteTransactionHandler(engine *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction id"})
			return
		}
		txn, err := engine.DeleteTransaction(c.Request.Context(), uint(id))
		if err != nil {
			respondLedgerError(c, "Delete transaction", err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"transaction_id": txn.ID,
			"owner_id":       txn.OwnerID,
			"type":           txn.Type,
			"amount":         txn.Amount.StringFixed(2),
		}).Info("Transaction deleted")
		invalidateUserCaches(c, txn.OwnerID)
		c.JSON(http.StatusOK, gin.H{"transaction": txn})
	}
}
