package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"mintro/internal/ledger"
	"mintro/internal/utils"
)

// currentUserID reads the authenticated user's id that the JWT middleware
// stored in the context.
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// redisFromContext returns the redis client injected by the router, or nil
// when caching is disabled (tests run without redis).
func redisFromContext(c *gin.Context) *redis.Client {
	v, exists := c.Get("redisClient")
	if !exists {
		return nil
	}
	rdb, _ := v.(*redis.Client)
	return rdb
}

// pagination reads page/page_size query params with the usual defaults and
// caps.
func pagination(c *gin.Context) (page, pageSize, offset int) {
	page = 1
	pageSize = 20
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize, (page - 1) * pageSize
}

func walletsCacheKey(userID uint) string {
	return "wallets:user:" + strconv.Itoa(int(userID))
}

func txHistoryCacheKey(userID uint, page, pageSize int) string {
	return "txhistory:user:" + strconv.Itoa(int(userID)) +
		":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
}

// invalidateUserCaches drops the wallet-list and transaction-history cache
// entries for the given users after a balance mutation. Only the first few
// history pages are tracked; deeper pages simply expire.
func invalidateUserCaches(c *gin.Context, userIDs ...uint) {
	rdb := redisFromContext(c)
	if rdb == nil {
		return
	}
	ctx := context.Background()
	for _, id := range userIDs {
		_ = utils.DeleteCache(ctx, rdb, walletsCacheKey(id))
		for page := 1; page <= 5; page++ {
			_ = utils.DeleteCache(ctx, rdb, txHistoryCacheKey(id, page, 20))
		}
	}
}

// respondLedgerError translates an engine failure into a client-facing
// response. Unexpected store errors are logged and surfaced as a 500.
func respondLedgerError(c *gin.Context, op string, err error) {
	var insufficient *ledger.InsufficientFundsError
	var invalid *ledger.ValidationError
	switch {
	case errors.Is(err, ledger.ErrWalletNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
	case errors.Is(err, ledger.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
	case errors.Is(err, ledger.ErrSelfTransfer):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Source and destination wallets cannot be the same"})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf(
			"Insufficient balance. Current balance: $%s, Required: $%s",
			insufficient.Balance.StringFixed(2), insufficient.Required.StringFixed(2))})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	default:
		logrus.WithFields(logrus.Fields{
			"operation": op,
			"error":     err.Error(),
		}).Error("Ledger operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": op + " failed"})
	}
}
