package task

import (
	"github.com/0xan000n/logos-service/internal/clock"
	"github.com/0xan000n/logos-service/internal/config"
	"github.com/0xan000n/logos-service/internal/logger"
	"github.com/0xan000n/logos-service/internal/minting"
	"github.com/0xan000n/logos-service/internal/registry"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Job 定时任务接口
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// TaskManager 任务管理器
type TaskManager struct {
	scheduler gocron.Scheduler
	jobs      []Job
}

// NewTaskManager 创建新的任务管理器
func NewTaskManager(db *gorm.DB, reg *registry.Registry, dispatcher *minting.Dispatcher, clk clock.Clock, cfg *config.Config) *TaskManager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &TaskManager{
		scheduler: s,
		jobs: []Job{
			NewRefundSweepJob(db, reg, clk, cfg),
			NewDistributionSweepJob(db, reg, clk, cfg),
			NewMintDispatchJob(dispatcher, cfg),
		},
	}
}

// Start 注册所有任务并启动调度器
func (m *TaskManager) Start() {
	for _, job := range m.jobs {
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

	m.scheduler.Start()
	logger.Info("Task manager started successfully")
}

// Stop 停止任务管理器
func (m *TaskManager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
