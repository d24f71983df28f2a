package router

import (
	"github.com/blues/agrocoin/internal/config"
	"github.com/blues/agrocoin/internal/contract"
	"github.com/blues/agrocoin/internal/event"
	"github.com/blues/agrocoin/internal/handler"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(engine *contract.Engine, db *gorm.DB, recorder *event.Recorder, cfg *config.Config) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "agrocoin-service",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		contractHandler := handler.NewContractHandler(engine, recorder, cfg.Contract.AuthMode)

		// 合约管理
		v1.POST("/contract/initialize", contractHandler.Initialize)

		// 项目相关路由
		projects := v1.Group("/projects")
		{
			projects.POST("", contractHandler.CreateProject)
			projects.GET("/count", contractHandler.GetProjectCount)
			projects.GET("/:id", contractHandler.GetProject)
			projects.GET("/:id/stats", contractHandler.GetProjectStats)
			projects.GET("/:id/investments/:address", contractHandler.GetInvestment)
			projects.POST("/:id/invest", contractHandler.Invest)
			projects.POST("/:id/claim", contractHandler.ClaimReturns)
			projects.POST("/:id/pause", contractHandler.PauseProject)
			projects.POST("/:id/withdraw", contractHandler.WithdrawFunds)
		}

		// 用户相关路由
		users := v1.Group("/users")
		{
			users.GET("/:address/projects", contractHandler.GetUserProjects)
			users.GET("/:address/investments", contractHandler.GetUserInvestments)
		}

		// 事件查询，memory模式无事件存储
		if db != nil {
			eventHandler := handler.NewEventHandler(db)
			v1.GET("/events", eventHandler.GetEvents)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Auth-Message, X-Auth-Signature, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
