package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mintro/internal/api"
	"mintro/internal/domain"
)

func newWalletRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	r.POST("/wallets", api.CreateWalletHandler(db))
	r.GET("/wallets", api.ListWalletsHandler(db, nil))
	r.GET("/wallets/:id", api.GetWalletHandler(db))
	r.PUT("/wallets/:id", api.UpdateWalletHandler(db))
	r.DELETE("/wallets/:id", api.DeleteWalletHandler(db))
	r.PUT("/savings_goals/:id", api.UpdateSavingsGoalHandler(db))
	return r
}

func TestCreateWalletHandler_RejectsNegativeOpeningBalance(t *testing.T) {
	db := newTestDB(t)
	user, _ := seedUserWallet(t, db, "0")
	r := newWalletRouter(db, user.ID)

	w := doJSON(r, http.MethodPost, "/wallets", gin.H{
		"name":    "Overdrawn",
		"balance": -10.00,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateWalletHandler_PartialMerge(t *testing.T) {
	// Only the provided fields change; balance is not updatable at all.

	db := newTestDB(t)
	user, wallet := seedUserWallet(t, db, "100.00")
	r := newWalletRouter(db, user.ID)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/wallets/%d", wallet.ID), gin.H{
		"name": "Renamed",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded domain.Wallet
	require.NoError(t, db.First(&reloaded, wallet.ID).Error)
	assert.Equal(t, "Renamed", reloaded.Name)
	assert.Nil(t, reloaded.TypeID)
	assert.True(t, decimal.RequireFromString("100.00").Equal(reloaded.Balance))
}

func TestUpdateWalletHandler_IgnoresBalanceField(t *testing.T) {
	db := newTestDB(t)
	user, wallet := seedUserWallet(t, db, "100.00")
	r := newWalletRouter(db, user.ID)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/wallets/%d", wallet.ID), gin.H{
		"balance": 9999.00,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded domain.Wallet
	require.NoError(t, db.First(&reloaded, wallet.ID).Error)
	assert.True(t, decimal.RequireFromString("100.00").Equal(reloaded.Balance),
		"balance must only be mutated by the ledger engine")
}

func TestWalletHandlers_OwnershipScoped(t *testing.T) {
	db := newTestDB(t)
	_, wallet := seedUserWallet(t, db, "100.00")
	other := domain.User{Name: "Other", Email: "other@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&other).Error)
	r := newWalletRouter(db, other.ID)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := doJSON(r, method, fmt.Sprintf("/wallets/%d", wallet.ID), nil)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s should not leak existence", method)
	}
}

func TestDeleteWalletHandler_RemovesWallet(t *testing.T) {
	db := newTestDB(t)
	user, wallet := seedUserWallet(t, db, "100.00")
	r := newWalletRouter(db, user.ID)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/wallets/%d", wallet.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	err := db.First(&domain.Wallet{}, wallet.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateSavingsGoalHandler_PartialMerge(t *testing.T) {
	db := newTestDB(t)
	user, _ := seedUserWallet(t, db, "0")
	goal := domain.SavingsGoal{
		Name:          "Vacation",
		GoalAmount:    decimal.RequireFromString("2000.00"),
		CurrentAmount: decimal.RequireFromString("150.00"),
		SavingsType:   domain.SavingsIndividual,
		OwnerID:       user.ID,
	}
	require.NoError(t, db.Create(&goal).Error)
	r := newWalletRouter(db, user.ID)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/savings_goals/%d", goal.ID), gin.H{
		"current_amount": 400.00,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded domain.SavingsGoal
	require.NoError(t, db.First(&reloaded, goal.ID).Error)
	assert.Equal(t, "Vacation", reloaded.Name)
	assert.True(t, decimal.RequireFromString("2000.00").Equal(reloaded.GoalAmount))
	assert.True(t, decimal.RequireFromString("400.00").Equal(reloaded.CurrentAmount))

	var resp struct {
		SavingsGoal domain.SavingsGoal `json:"savings_goal"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, goal.ID, resp.SavingsGoal.ID)
}
