package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"mintro/internal/domain"
	"mintro/internal/utils"
)

// UserUpdateRequest holds the optional profile fields. Absent fields leave
// the stored value untouched; the merge below is explicit, field by field.
type UserUpdateRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Mobile     *string `json:"mobile"`
	DOB        *string `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	CountryID  *uint   `json:"country_id"`
	CurrencyID *uint   `json:"currency_id"`
}

// GetMeHandler returns the authenticated user's profile.
func GetMeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User
		if err := db.Preload("Country").Preload("Currency").First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// UpdateMeHandler applies a partial update to the authenticated user's
// profile.
func UpdateMeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UserUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if req.Name != nil {
			user.Name = *req.Name
		}
		if req.Email != nil {
			user.Email = *req.Email
		}
		if req.Mobile != nil {
			user.Mobile = *req.Mobile
		}
		if req.DOB != nil {
			dob, err := time.Parse("2006-01-02", *req.DOB)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date of birth"})
				return
			}
			user.DOB = &dob
		}
		if req.CountryID != nil {
			user.CountryID = req.CountryID
		}
		if req.CurrencyID != nil {
			user.CurrencyID = req.CurrencyID
		}
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// UserSummary is the per-row shape of the user listing.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListUsersHandler returns a paginated user listing, cached for a minute.
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		page, pageSize, offset := pagination(c)
		cacheKey := "users:page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		var cached struct {
			Users      []UserSummary `json:"users"`
			Page       int           `json:"page"`
			PageSize   int           `json:"page_size"`
			Total      int64         `json:"total"`
			TotalPages int           `json:"total_pages"`
		}
		if rdb != nil {
			found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
			if err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"users":       cached.Users,
					"page":        cached.Page,
					"page_size":   cached.PageSize,
					"total":       cached.Total,
					"total_pages": cached.TotalPages,
					"cached":      true,
				})
				return
			}
		}
		var total int64
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
			return
		}
		var users []domain.User
		if err := db.Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		resp := make([]UserSummary, len(users))
		for i, u := range users {
			resp[i] = UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		totalPages := (int(total) + pageSize - 1) / pageSize
		respData := gin.H{
			"users":       resp,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages,
			"cached":      false,
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		}
		c.JSON(http.StatusOK, respData)
	}
}
