package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mintro/internal/api"
	appdb "mintro/internal/db"
	"mintro/internal/domain"
	"mintro/internal/ledger"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, appdb.AutoMigrate(db))
	return db
}

// newTestRouter wires the mutation handlers behind a stub auth middleware
// that authenticates every request as userID. Redis is absent; the handlers
// skip caching.
func newTestRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := ledger.NewEngine(db)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	r.POST("/transactions", api.CreateTransactionHandler(engine))
	r.GET("/transactions", api.ListTransactionsHandler(db, nil))
	r.DELETE("/transactions/:id", api.DeleteTransactionHandler(engine))
	r.POST("/transfer", api.TransferHandler(engine))
	return r
}

func seedUserWallet(t *testing.T, db *gorm.DB, balance string) (domain.User, domain.Wallet) {
	t.Helper()
	user := domain.User{Name: "Handler Test", Email: "handler@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	wallet := domain.Wallet{Name: "Main", Balance: decimal.RequireFromString(balance), OwnerID: user.ID}
	require.NoError(t, db.Create(&wallet).Error)
	return user, wallet
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

func TestCreateTransactionHandler_Success(t *testing.T) {
	db := newTestDB(t)
	user, wallet := seedUserWallet(t, db, "100.00")
	r := newTestRouter(db, user.ID)

	w := doJSON(r, http.MethodPost, "/transactions", gin.H{
		"wallet_id":   wallet.ID,
		"amount":      25.50,
		"date":        "2025-06-15",
		"type":        "expense",
		"description": "groceries",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Transaction domain.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotZero(t, resp.Transaction.ID)
	assert.Equal(t, domain.TypeExpense, resp.Transaction.Type)

	var reloaded domain.Wallet
	require.NoError(t, db.First(&reloaded, wallet.ID).Error)
	assert.True(t, decimal.RequireFromString("74.50").Equal(reloaded.Balance),
		"balance should be 74.50, got %s", reloaded.Balance)
}

func TestCreateTransactionHandler_InsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	user, wallet := seedUserWallet(t, db, "50.00")
	r := newTestRouter(db, user.ID)

	w := doJSON(r, http.MethodPost, "/transactions", gin.H{
		"wallet_id": wallet.ID,
		"amount":    100.00,
		"date":      "2025-06-15",
		"type":      "expense",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient balance. Current balance: $50.00, Required: $100.00")
}

func TestCreateTransactionHandler_WalletNotFound(t *testing.T) {
	db := newTestDB(t)
	user, _ := seedUserWallet(t, db, "50.00")
	r := newTestRouter(db, user.ID)

	w := doJSON(r, http.MethodPost, "/transactions", gin.H{
		"wallet_id": 9999,
		"amount":    10.00,
		"date":      "2025-06-15",
		"type":      "income",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Wallet not found")
}

func TestCreateTransactionHandler_RejectsBadType(t *testing.T) {
	db := newTestDB(t)
	user, wallet := seedUserWallet(t, db, "50.00")
	r := newTestRouter(db, user.ID)

	w := doJSON(r, http.MethodPost, "/transactions", gin.H{
		"wallet_id": wallet.ID,
		"amount":    10.00,
		"date":      "2025-06-15",
		"type":      "loan",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTransactionHandler_NotFound(t *testing.T) {
	db := newTestDB(t)
	user, _ := seedUserWallet(t, db, "50.00")
	r := newTestRouter(db, user.ID)

	w := doJSON(r, http.MethodDelete, "/transactions/424242", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Transaction not found")
}

func TestDeleteTransactionHandler_ReturnsDeletedRecord(t *testing.T) {
	db := newTestDB(t)
	user, wallet := seedUserWallet(t, db, "100.00")
	r := newTestRouter(db, user.ID)

	w := doJSON(r, http.MethodPost, "/transactions", gin.H{
		"wallet_id": wallet.ID,
		"amount":    30.00,
		"date":      "2025-06-15",
		"type":      "expense",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Transaction domain.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/transactions/%d", created.Transaction.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var deleted struct {
		Transaction domain.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deleted))
	assert.Equal(t, created.Transaction.ID, deleted.Transaction.ID)

	var reloaded domain.Wallet
	require.NoError(t, db.First(&reloaded, wallet.ID).Error)
	assert.True(t, decimal.RequireFromString("100.00").Equal(reloaded.Balance))
}

// =============================================================================
// TRANSFER HANDLER
// =============================================================================

func TestTransferHandler_Success(t *testing.T) {
	db := newTestDB(t)
	user, from := seedUserWallet(t, db, "400.00")
	to := domain.Wallet{Name: "Savings", Balance: decimal.RequireFromString("100.00"), OwnerID: user.ID}
	require.NoError(t, db.Create(&to).Error)
	r := newTestRouter(db, user.ID)

	w := doJSON(r, http.MethodPost, "/transfer", gin.H{
		"from_wallet_id": from.ID,
		"to_wallet_id":   to.ID,
		"amount":         150.00,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Message string                `json:"message"`
		Result  ledger.TransferResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Transfer successful", resp.Message)
	assert.True(t, decimal.RequireFromString("250.00").Equal(resp.Result.FromBalance))
	assert.True(t, decimal.RequireFromString("250.00").Equal(resp.Result.ToBalance))
	assert.NotZero(t, resp.Result.FromTransactionID)
	assert.NotZero(t, resp.Result.ToTransactionID)
}

func TestTransferHandler_SelfTransferRejected(t *testing.T) {
	db := newTestDB(t)
	user, wallet := seedUserWallet(t, db, "100.00")
	r := newTestRouter(db, user.ID)

	w := doJSON(r, http.MethodPost, "/transfer", gin.H{
		"from_wallet_id": wallet.ID,
		"to_wallet_id":   wallet.ID,
		"amount":         10.00,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Source and destination wallets cannot be the same")
}
