package scheduler

import (
	"github.com/blues/agrocoin/internal/config"
	"github.com/blues/agrocoin/internal/contract"
	"github.com/blues/agrocoin/internal/logger"
	"github.com/go-co-op/gocron/v2"
)

// Manager 定时任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	engine    *contract.Engine
	config    *config.Config
}

// NewManager 创建任务管理器
func NewManager(engine *contract.Engine, cfg *config.Config) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: s,
		engine:    engine,
		config:    cfg,
	}, nil
}

// Start 注册全部任务并启动调度器
func Start(engine *contract.Engine, cfg *config.Config) (*Manager, error) {
	manager, err := NewManager(engine, cfg)
	if err != nil {
		return nil, err
	}

	manager.RegisterJobs()
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
	return manager, nil
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	m.registerFundingStatusJob(NewFundingStatusJob(m.engine, m.config))
}

// registerFundingStatusJob 注册募资进度任务
func (m *Manager) registerFundingStatusJob(job *FundingStatusJob) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
