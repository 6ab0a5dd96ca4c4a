package router

import (
	"github.com/0xan000n/logos-service/internal/handler"
	"github.com/0xan000n/logos-service/internal/ledger"
	"github.com/0xan000n/logos-service/internal/policy"
	"github.com/0xan000n/logos-service/internal/registry"
	"github.com/gin-gonic/gin"
)

func Setup(reg *registry.Registry, led *ledger.Ledger, pol *policy.Policy) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "logos-service",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// Logo生命周期
		logoHandler := handler.NewLogoHandler(reg)
		logos := v1.Group("/logos")
		{
			logos.POST("", logoHandler.CreateLogo)
			logos.GET("", logoHandler.GetLogos)
			logos.GET("/:id", logoHandler.GetLogo)
			logos.POST("/:id/toggle-crowdfund", logoHandler.ToggleCrowdfund)
			logos.PUT("/:id/minimum-pledge", logoHandler.SetMinimumPledge)
			logos.PUT("/:id/speakers", logoHandler.SetSpeakers)
			logos.PUT("/:id/speaker-status", logoHandler.SetSpeakerStatus)
			logos.PUT("/:id/date", logoHandler.SetDate)
			logos.PUT("/:id/media-asset", logoHandler.SetMediaAsset)
			logos.POST("/:id/refund", logoHandler.Refund)
			logos.POST("/:id/distribute", logoHandler.DistributeRewards)
			logos.GET("/:id/speakers", logoHandler.GetSpeakers)
			logos.GET("/:id/events", logoHandler.GetEvents)
		}

		// 出资与退款
		backerHandler := handler.NewBackerHandler(led)
		{
			logos.POST("/:id/crowdfund", backerHandler.Crowdfund)
			logos.POST("/:id/withdraw", backerHandler.WithdrawFunds)
			logos.POST("/:id/reject", backerHandler.RejectFunds)
			logos.GET("/:id/backers", backerHandler.GetBackers)
		}
		claims := v1.Group("/claims")
		{
			claims.GET("", backerHandler.GetClaimable)
			claims.POST("", backerHandler.Claim)
		}

		// 运营配置
		policyHandler := handler.NewPolicyHandler(pol)
		policyGroup := v1.Group("/policy")
		{
			policyGroup.GET("", policyHandler.GetPolicy)
			policyGroup.PUT("", policyHandler.UpdatePolicy)
			policyGroup.PUT("/zero-fee-proposers", policyHandler.SetZeroFeeProposers)
			policyGroup.POST("/pause", policyHandler.Pause)
			policyGroup.POST("/unpause", policyHandler.Unpause)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Caller-Address")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
