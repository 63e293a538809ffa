package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"mintro/internal/domain"
)

// CreateSavingsGoalRequest creates a savings goal. current_amount is
// freestanding: linked goals carry no enforced tie to the linked wallet's
// balance.
type CreateSavingsGoalRequest struct {
	Name           string           `json:"name" binding:"required"`
	Description    string           `json:"description"`
	GoalAmount     decimal.Decimal  `json:"goal_amount" binding:"required"`
	CurrentAmount  decimal.Decimal  `json:"current_amount"`
	TargetDate     string           `json:"target_date" binding:"omitempty,datetime=2006-01-02"`
	SavingsType    string           `json:"savings_type" binding:"omitempty,oneof=individual linked"`
	LinkedWalletID *uint            `json:"linked_wallet_id"`
}

// SavingsGoalUpdateRequest holds the optional fields for a partial update.
type SavingsGoalUpdateRequest struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	GoalAmount     *decimal.Decimal `json:"goal_amount"`
	CurrentAmount  *decimal.Decimal `json:"current_amount"`
	TargetDate     *string          `json:"target_date" binding:"omitempty,datetime=2006-01-02"`
	SavingsType    *string          `json:"savings_type" binding:"omitempty,oneof=individual linked"`
	LinkedWalletID *uint            `json:"linked_wallet_id"`
}

// CreateSavingsGoalHandler creates a savings goal for the authenticated
// user.
func CreateSavingsGoalHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateSavingsGoalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if !req.GoalAmount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Goal amount must be greater than zero"})
			return
		}
		savingsType := domain.SavingsIndividual
		if req.SavingsType != "" {
			savingsType = domain.SavingsType(req.SavingsType)
		}
		goal := domain.SavingsGoal{
			Name:           req.Name,
			Description:    req.Description,
			GoalAmount:     req.GoalAmount,
			CurrentAmount:  req.CurrentAmount,
			SavingsType:    savingsType,
			LinkedWalletID: req.LinkedWalletID,
			OwnerID:        userID,
		}
		if req.TargetDate != "" {
			target, err := time.Parse("2006-01-02", req.TargetDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target date"})
				return
			}
			goal.TargetDate = &target
		}
		if err := db.Create(&goal).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create savings goal"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"savings_goal": goal})
	}
}

// ListSavingsGoalsHandler returns the authenticated user's savings goals.
func ListSavingsGoalsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var goals []domain.SavingsGoal
		if err := db.Where("owner_id = ?", userID).Find(&goals).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch savings goals"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"savings_goals": goals})
	}
}

// UpdateSavingsGoalHandler applies a partial update to a savings goal.
func UpdateSavingsGoalHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req SavingsGoalUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		goal, ok := findSavingsGoal(c, db, userID)
		if !ok {
			return
		}
		if req.Name != nil {
			goal.Name = *req.Name
		}
		if req.Description != nil {
			goal.Description = *req.Description
		}
		if req.GoalAmount != nil {
			goal.GoalAmount = *req.GoalAmount
		}
		if req.CurrentAmount != nil {
			goal.CurrentAmount = *req.CurrentAmount
		}
		if req.TargetDate != nil {
			target, err := time.Parse("2006-01-02", *req.TargetDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target date"})
				return
			}
			goal.TargetDate = &target
		}
		if req.SavingsType != nil {
			goal.SavingsType = domain.SavingsType(*req.SavingsType)
		}
		if req.LinkedWalletID != nil {
			goal.LinkedWalletID = req.LinkedWalletID
		}
		if err := db.Save(goal).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update savings goal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"savings_goal": goal})
	}
}

// DeleteSavingsGoalHandler removes a savings goal and returns the deleted
// record.
func DeleteSavingsGoalHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		goal, ok := findSavingsGoal(c, db, userID)
		if !ok {
			return
		}
		if err := db.Delete(goal).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete savings goal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"savings_goal": goal})
	}
}

func findSavingsGoal(c *gin.Context, db *gorm.DB, userID uint) (*domain.SavingsGoal, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid savings goal id"})
		return nil, false
	}
	var goal domain.SavingsGoal
	if err := db.Where("id = ? AND owner_id = ?", id, userID).First(&goal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Savings goal not found"})
		return nil, false
	}
	return &goal, true
}
