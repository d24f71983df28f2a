package main

import (
	"github.com/blues/agrocoin/internal/auth"
	"github.com/blues/agrocoin/internal/config"
	"github.com/blues/agrocoin/internal/contract"
	"github.com/blues/agrocoin/internal/database"
	"github.com/blues/agrocoin/internal/event"
	"github.com/blues/agrocoin/internal/logger"
	"github.com/blues/agrocoin/internal/router"
	"github.com/blues/agrocoin/internal/scheduler"
	"github.com/blues/agrocoin/internal/store"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	setupLogger(cfg)
	defer logger.Sync()

	// 初始化状态存储
	var db *gorm.DB
	var stateStore contract.Store
	if cfg.Contract.Persist == "memory" {
		logger.Warn("Using in-memory state store, data will not survive restart")
		stateStore = store.NewMemoryStore()
	} else {
		var err error
		db, err = database.Init(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to initialize database: %v", err)
		}
		stateStore = store.NewDatabaseStore(db)
	}

	// 初始化合约引擎
	engine := contract.NewEngine(stateStore, contract.SystemClock{}, auth.StaticAuthorizer{})
	initializeContract(engine, cfg)

	// 初始化事件记录器
	var recorder *event.Recorder
	if db != nil {
		var err error
		recorder, err = event.NewRecorder(db, 4)
		if err != nil {
			logger.Fatal("Failed to initialize event recorder: %v", err)
		}
		defer recorder.Close()
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(engine, db, recorder, cfg)

	// 启动定时任务
	manager, err := scheduler.Start(engine, cfg)
	if err != nil {
		logger.Fatal("Failed to start scheduler: %v", err)
	}
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

// setupLogger 按配置构建默认日志器
func setupLogger(cfg *config.Config) {
	level := logger.ParseLogLevel(cfg.Log.Level)

	if cfg.Log.Output == "file" {
		l, err := logger.NewWithFileRotation(level, cfg.Log.File)
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(l)
		return
	}

	l, err := logger.New(level)
	if err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	logger.SetDefaultLogger(l)
}

// initializeContract 按配置自动初始化合约，已初始化时跳过
func initializeContract(engine *contract.Engine, cfg *config.Config) {
	if cfg.Contract.AdminAddress == "" {
		logger.Warn("No admin address configured, contract must be initialized via API")
		return
	}
	if !common.IsHexAddress(cfg.Contract.AdminAddress) {
		logger.Fatal("Invalid admin address: %s", cfg.Contract.AdminAddress)
	}

	admin := common.HexToAddress(cfg.Contract.AdminAddress)
	if err := engine.Initialize(admin); err != nil {
		if contract.CodeOf(err) == contract.CodeAlreadyInitialized {
			logger.Info("Contract already initialized")
			return
		}
		logger.Fatal("Failed to initialize contract: %v", err)
	}
}
