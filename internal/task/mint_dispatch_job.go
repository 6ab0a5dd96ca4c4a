package task

import (
	"time"

	"github.com/0xan000n/logos-service/internal/config"
	"github.com/0xan000n/logos-service/internal/logger"
	"github.com/0xan000n/logos-service/internal/minting"
	"github.com/go-co-op/gocron/v2"
)

// MintDispatchJob 纪念凭证发放任务，周期性推进数据库队列
type MintDispatchJob struct {
	dispatcher *minting.Dispatcher
	config     *config.Config
}

// NewMintDispatchJob 创建发放任务
func NewMintDispatchJob(dispatcher *minting.Dispatcher, cfg *config.Config) *MintDispatchJob {
	return &MintDispatchJob{
		dispatcher: dispatcher,
		config:     cfg,
	}
}

// GetName 获取任务名称
func (j *MintDispatchJob) GetName() string {
	return "mint_dispatcher"
}

// GetSchedule 获取调度配置
func (j *MintDispatchJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *MintDispatchJob) Execute() {
	if err := j.dispatcher.DispatchPending(); err != nil {
		logger.Error("Failed to dispatch mint requests: %v", err)
	}
}
