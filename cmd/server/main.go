package main

import (
	"time"

	"github.com/0xan000n/logos-service/internal/clock"
	"github.com/0xan000n/logos-service/internal/config"
	"github.com/0xan000n/logos-service/internal/database"
	"github.com/0xan000n/logos-service/internal/ledger"
	"github.com/0xan000n/logos-service/internal/logger"
	"github.com/0xan000n/logos-service/internal/minting"
	"github.com/0xan000n/logos-service/internal/monitor"
	"github.com/0xan000n/logos-service/internal/payment"
	"github.com/0xan000n/logos-service/internal/policy"
	"github.com/0xan000n/logos-service/internal/registry"
	"github.com/0xan000n/logos-service/internal/router"
	"github.com/0xan000n/logos-service/internal/task"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	if err := logger.Setup(cfg.Log); err != nil {
		logger.Fatal("Failed to setup logger: %v", err)
	}

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 首次启动写入费率配置
	pol := policy.NewPolicy(db, cfg.Server.Owner)
	if err := pol.Seed(cfg.Policy); err != nil {
		logger.Fatal("Failed to seed fee policy: %v", err)
	}

	// 初始化支付通道，未接链时退化为纯记账
	var rail payment.Rail
	if cfg.Chain.Enabled {
		chainRail, err := payment.NewChainRail(cfg.Chain)
		if err != nil {
			logger.Fatal("Failed to initialize chain rail: %v", err)
		}
		rail = chainRail
		logger.Info("Chain rail enabled, chain id %d", cfg.Chain.ChainId)

		// 链上分账需要回执确认
		receiptMonitor, err := monitor.NewReceiptMonitor(db, chainRail.Client(), cfg.Mint.Workers)
		if err != nil {
			logger.Fatal("Failed to create receipt monitor: %v", err)
		}
		receiptMonitor.Start(time.Duration(cfg.Task.Interval) * time.Second)
		defer receiptMonitor.Stop()
	} else {
		rail = payment.NewRecordRail()
		logger.Info("Chain rail disabled, using record rail")
	}

	clk := clock.SystemClock{}
	reg := registry.NewRegistry(db, clk, rail)
	led := ledger.NewLedger(db, clk, rail)

	// 纪念凭证发放调度器
	dispatcher, err := minting.NewDispatcher(db, minting.RecordIssuer{}, cfg.Mint.Workers, cfg.Mint.MaxAttempts)
	if err != nil {
		logger.Fatal("Failed to create mint dispatcher: %v", err)
	}
	defer dispatcher.Stop()

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(reg, led, pol)

	// 启动定时任务
	taskManager := task.NewTaskManager(db, reg, dispatcher, clk, cfg)
	taskManager.Start()
	defer taskManager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
