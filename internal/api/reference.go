package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"mintro/internal/domain"
	"mintro/internal/utils"
)

// Reference data is read-only and changes only via re-seeding, so it is
// cached far longer than user data.
const referenceCacheTTL = 5 * time.Minute

// listReference serves a lookup table through the cache.
func listReference(c *gin.Context, db *gorm.DB, rdb *redis.Client, cacheKey, field string, dest any, query func(*gorm.DB) *gorm.DB) {
	ctx := context.Background()
	if rdb != nil {
		found, err := utils.GetCache(ctx, rdb, cacheKey, dest)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{field: dest, "cached": true})
			return
		}
	}
	if err := query(db).Find(dest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch " + field})
		return
	}
	if rdb != nil {
		_ = utils.SetCache(ctx, rdb, cacheKey, dest, referenceCacheTTL)
	}
	c.JSON(http.StatusOK, gin.H{field: dest, "cached": false})
}

// ListCurrenciesHandler returns all currencies.
func ListCurrenciesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var currencies []domain.Currency
		listReference(c, db, rdb, "ref:currencies", "currencies", &currencies, func(db *gorm.DB) *gorm.DB {
			return db
		})
	}
}

// ListCountriesHandler returns all countries with their currencies.
func ListCountriesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var countries []domain.Country
		listReference(c, db, rdb, "ref:countries", "countries", &countries, func(db *gorm.DB) *gorm.DB {
			return db.Preload("Currency")
		})
	}
}

// ListWalletTypesHandler returns all wallet types.
func ListWalletTypesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var types []domain.WalletType
		listReference(c, db, rdb, "ref:wallet_types", "wallet_types", &types, func(db *gorm.DB) *gorm.DB {
			return db
		})
	}
}

// ListTransactionCategoriesHandler returns all transaction categories.
func ListTransactionCategoriesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []domain.TransactionCategory
		listReference(c, db, rdb, "ref:transaction_categories", "transaction_categories", &categories, func(db *gorm.DB) *gorm.DB {
			return db
		})
	}
}

// GetTransactionCategoryByNameHandler looks a category up by its name.
func GetTransactionCategoryByNameHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		var category domain.TransactionCategory
		if err := db.Where("name = ?", name).First(&category).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category '" + name + "' not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction_category": category})
	}
}
