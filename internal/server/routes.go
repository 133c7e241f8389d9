package server

import (
	"github.com/labstack/echo/v4"

	"example.com/student-finance/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	authHandler *handlers.AuthHandler,
	transactionHandler *handlers.TransactionHandler,
	budgetHandler *handlers.BudgetHandler,
	subscriptionHandler *handlers.SubscriptionHandler,
	goalHandler *handlers.GoalHandler,
	insightsHandler *handlers.InsightsHandler,
	notificationHandler *handlers.NotificationHandler,
	authMiddleware echo.MiddlewareFunc,
	authRateLimiter echo.MiddlewareFunc,
	aiRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", handlers.Health)

	api := e.Group("/api/v1")
	authGroup := api.Group("/auth", authRateLimiter)

	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me, authMiddleware)

	transactions := api.Group("/transactions", authMiddleware)
	transactions.GET("", transactionHandler.List)
	transactions.POST("", transactionHandler.Create)
	transactions.GET("/export/json", transactionHandler.ExportJSON)
	transactions.GET("/export/csv", transactionHandler.ExportCSV)
	transactions.PUT("/:id", transactionHandler.Update)
	transactions.DELETE("/:id", transactionHandler.Delete)

	budget := api.Group("/budget", authMiddleware)
	budget.POST("/affordability", budgetHandler.Affordability)
	budget.POST("/can-afford", budgetHandler.CanAfford)

	subscriptions := api.Group("/subscriptions", authMiddleware)
	subscriptions.GET("", subscriptionHandler.List)

	goal := api.Group("/goal", authMiddleware)
	goal.POST("", goalHandler.Create)
	goal.GET("", goalHandler.Get)
	goal.DELETE("", goalHandler.Delete)
	goal.POST("/deposit", goalHandler.Deposit)
	goal.POST("/withdraw", goalHandler.Withdraw)
	goal.POST("/can-afford", goalHandler.CanAfford)

	insightsGroup := api.Group("/insights", authMiddleware)
	insightsGroup.GET("", insightsHandler.Get)
	insightsGroup.DELETE("", insightsHandler.Clear)
	insightsGroup.POST("/generate", insightsHandler.Generate, aiRateLimiter)

	notifications := api.Group("/notifications", authMiddleware)
	notifications.GET("/stream", notificationHandler.Stream)
}
