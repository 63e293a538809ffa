package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"mintro/internal/ledger"
)

// TransferRequest moves funds between two of the caller's wallets.
type TransferRequest struct {
	FromWalletID uint            `json:"from_wallet_id" binding:"required"`
	ToWalletID   uint            `json:"to_wallet_id" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Description  string          `json:"description"`
}

// TransferHandler performs a wallet-to-wallet transfer through the ledger
// engine and echoes the resulting balances and leg ids.
func TransferHandler(engine *ledger.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req TransferRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		result, err := engine.Transfer(c.Request.Context(), userID, ledger.TransferInput{
			FromWalletID: req.FromWalletID,
			ToWalletID:   req.ToWalletID,
			Amount:       req.Amount,
			Description:  req.Description,
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":        userID,
				"from_wallet_id": req.FromWalletID,
				"to_wallet_id":   req.ToWalletID,
				"amount":         req.Amount.StringFixed(2),
				"error":          err.Error(),
			}).Warn("Transfer rejected")
			respondLedgerError(c, "Transfer", err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":        userID,
			"from_wallet_id": req.FromWalletID,
			"to_wallet_id":   req.ToWalletID,
			"amount":         req.Amount.StringFixed(2),
		}).Info("Transfer completed")
		invalidateUserCaches(c, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Transfer successful", "result": result})
	}
}
