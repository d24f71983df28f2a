package scheduler

import (
	"time"

	"github.com/blues/agrocoin/internal/config"
	"github.com/blues/agrocoin/internal/contract"
	"github.com/blues/agrocoin/internal/logger"
	"github.com/go-co-op/gocron/v2"
)

// FundingStatusJob 募资进度巡检任务。只读汇总各项目的募资状态并输出日志，
// 状态变更始终由合约操作驱动，任务不回写任何数据。
type FundingStatusJob struct {
	engine *contract.Engine
	config *config.Config
}

// NewFundingStatusJob 创建募资进度任务
func NewFundingStatusJob(engine *contract.Engine, cfg *config.Config) *FundingStatusJob {
	return &FundingStatusJob{
		engine: engine,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *FundingStatusJob) GetName() string {
	return "funding_status_reporter"
}

// GetSchedule 获取调度配置
func (j *FundingStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.Interval) * time.Second)
}

// Execute 执行任务
func (j *FundingStatusJob) Execute() {
	count, err := j.engine.GetProjectCount()
	if err != nil {
		logger.Error("Failed to get project count: %v", err)
		return
	}

	var open, funded, paused uint64
	for id := uint64(1); id <= count; id++ {
		project, err := j.engine.GetProject(id)
		if err != nil {
			logger.Error("Failed to load project %d: %v", id, err)
			continue
		}

		switch {
		case !project.IsActive:
			paused++
		case project.IsFunded:
			funded++
		default:
			open++
			stats, err := j.engine.GetProjectStats(id)
			if err != nil {
				logger.Error("Failed to load stats for project %d: %v", id, err)
				continue
			}
			logger.Info("Project %d funding progress: %d.%02d%%",
				id, stats.FundingPercentage/100, stats.FundingPercentage%100)
		}
	}

	logger.Info("Funding status report: %d projects total, %d open, %d funded, %d paused",
		count, open, funded, paused)
}
