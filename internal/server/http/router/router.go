package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/frelanci/orderchat/internal/server/http/handlers"
	"github.com/frelanci/orderchat/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.MarketplaceFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)

	api := engine.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired(facade))
	orders.POST("", orderHandler.Create)
	orders.GET("/my", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/message", orderHandler.SendMessage)
	orders.POST("/:id/approve-payment", orderHandler.ApprovePayment)
	orders.PUT("/:id/status", orderHandler.UpdateStatus)
	orders.DELETE("/:id", orderHandler.Delete)

	return engine
}
