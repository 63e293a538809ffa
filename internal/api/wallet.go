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
	"mintro/internal/utils"
)

// CreateWalletRequest creates a wallet, optionally seeded with an opening
// balance.
type CreateWalletRequest struct {
	Name    string          `json:"name" binding:"required"`
	TypeID  *uint           `json:"type_id"`
	Balance decimal.Decimal `json:"balance"`
	Color   string          `json:"color"`
}

// WalletUpdateRequest holds the optional wallet fields for a partial update.
// Balance is deliberately absent: it is owned by the ledger engine.
type WalletUpdateRequest struct {
	Name   *string `json:"name"`
	TypeID *uint   `json:"type_id"`
	Color  *string `json:"color"`
}

// CreateWalletHandler creates a wallet for the authenticated user.
func CreateWalletHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateWalletRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Balance.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Opening balance cannot be negative"})
			return
		}
		color := req.Color
		if color == "" {
			color = "#000000"
		}
		wallet := domain.Wallet{
			Name:    req.Name,
			TypeID:  req.TypeID,
			Balance: req.Balance,
			Color:   color,
			OwnerID: userID,
		}
		if err := db.Create(&wallet).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Failed to create wallet")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create wallet"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,
			"wallet_id": wallet.ID,
			"balance":   wallet.Balance.StringFixed(2),
		}).Info("Wallet created")
		invalidateUserCaches(c, userID)
		c.JSON(http.StatusCreated, gin.H{"message": "Wallet created", "wallet": wallet})
	}
}

// ListWalletsHandler returns the authenticated user's wallets, cached.
func ListWalletsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()
		cacheKey := walletsCacheKey(userID)
		var wallets []domain.Wallet
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, cacheKey, &wallets)
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{"wallets": wallets, "cached": true})
				return
			}
		}
		if err := db.Preload("Type").Where("owner_id = ?", userID).Find(&wallets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallets"})
			return
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, wallets, 60*time.Second)
		}
		c.JSON(http.StatusOK, gin.H{"wallets": wallets, "cached": false})
	}
}

// GetWalletHandler returns one wallet owned by the authenticated user.
func GetWalletHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		wallet, ok := findWallet(c, db, userID)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"wallet": wallet})
	}
}

// UpdateWalletHandler applies a partial update to a wallet's descriptive
// fields.
func UpdateWalletHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req WalletUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		wallet, ok := findWallet(c, db, userID)
		if !ok {
			return
		}
		if req.Name != nil {
			wallet.Name = *req.Name
		}
		if req.TypeID != nil {
			wallet.TypeID = req.TypeID
		}
		if req.Color != nil {
			wallet.Color = *req.Color
		}
		if err := db.Save(wallet).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wallet"})
			return
		}
		invalidateUserCaches(c, userID)
		c.JSON(http.StatusOK, gin.H{"wallet": wallet})
	}
}

// DeleteWalletHandler removes a wallet. Its transactions survive with a
// nulled wallet reference; the ledger engine handles them as orphans.
func DeleteWalletHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		wallet, ok := findWallet(c, db, userID)
		if !ok {
			return
		}
		if err := db.Delete(wallet).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":   userID,
				"wallet_id": wallet.ID,
				"error":     err.Error(),
			}).Error("Failed to delete wallet")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete wallet"})
			return
		}
		invalidateUserCaches(c, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Wallet deleted successfully"})
	}
}

// findWallet resolves the :id path param to a wallet owned by userID,
// writing the error response itself when that fails.
func findWallet(c *gin.Context, db *gorm.DB, userID uint) (*domain.Wallet, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet id"})
		return nil, false
	}
	var wallet domain.Wallet
	if err := db.Where("id = ? AND owner_id = ?", id, userID).First(&wallet).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
		return nil, false
	}
	return &wallet, true
}
