package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"mintro/internal/api"
	"mintro/internal/config"
	"mintro/internal/ledger"
	"mintro/internal/middleware"
	"mintro/internal/utils"
)

func main() {
	cfg := config.LoadConfig()

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	hasher := utils.NewPasswordHasher(cfg.BcryptCost)
	engine := ledger.NewEngine(db)

	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default()
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/users", api.RegisterHandler(db, hasher))
	r.POST("/login", api.LoginHandler(db, hasher, cfg.JWTSecret))

	// Reference data (public, cached)
	r.GET("/currencies", api.ListCurrenciesHandler(db, redisClient))
	r.GET("/countries", api.ListCountriesHandler(db, redisClient))
	r.GET("/wallet_types", api.ListWalletTypesHandler(db, redisClient))
	r.GET("/transaction_categories", api.ListTransactionCategoriesHandler(db, redisClient))
	r.GET("/transaction_categories/by_name/:name", api.GetTransactionCategoryByNameHandler(db))

	// Authenticated routes, with the Redis client injected for cache
	// invalidation in mutation handlers.
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})

	authorized.GET("/users", api.ListUsersHandler(db, redisClient))
	authorized.GET("/users/me", api.GetMeHandler(db))
	authorized.PUT("/users/me", api.UpdateMeHandler(db))

	authorized.POST("/wallets", api.CreateWalletHandler(db))
	authorized.GET("/wallets", api.ListWalletsHandler(db, redisClient))
	authorized.GET("/wallets/:id", api.GetWalletHandler(db))
	authorized.PUT("/wallets/:id", api.UpdateWalletHandler(db))
	authorized.DELETE("/wallets/:id", api.DeleteWalletHandler(db))

	authorized.POST("/transactions", api.CreateTransactionHandler(engine))
	authorized.GET("/transactions", api.ListTransactionsHandler(db, redisClient))
	authorized.DELETE("/transactions/:id", api.DeleteTransactionHandler(engine))

	authorized.POST("/transfer", api.TransferHandler(engine))

	authorized.POST("/savings_goals", api.CreateSavingsGoalHandler(db))
	authorized.GET("/savings_goals", api.ListSavingsGoalsHandler(db))
	authorized.PUT("/savings_goals/:id", api.UpdateSavingsGoalHandler(db))
	authorized.DELETE("/savings_goals/:id", api.DeleteSavingsGoalHandler(db))

	log.Println("Server running on " + cfg.AppPort)
	r.Run(":" + cfg.AppPort)
}
