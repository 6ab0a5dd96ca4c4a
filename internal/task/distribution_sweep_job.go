package task

import (
	"time"

	"github.com/0xan000n/logos-service/internal/clock"
	"github.com/0xan000n/logos-service/internal/config"
	"github.com/0xan000n/logos-service/internal/errs"
	"github.com/0xan000n/logos-service/internal/logger"
	"github.com/0xan000n/logos-service/internal/model"
	"github.com/0xan000n/logos-service/internal/registry"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// DistributionSweepJob 自动分配任务。
// 找出反对窗口已过的已上传Logo，触发资金池分配。
type DistributionSweepJob struct {
	db       *gorm.DB
	registry *registry.Registry
	clk      clock.Clock
	config   *config.Config
}

// NewDistributionSweepJob 创建自动分配任务
func NewDistributionSweepJob(db *gorm.DB, reg *registry.Registry, clk clock.Clock, cfg *config.Config) *DistributionSweepJob {
	return &DistributionSweepJob{
		db:       db,
		registry: reg,
		clk:      clk,
		config:   cfg,
	}
}

// GetName 获取任务名称
func (j *DistributionSweepJob) GetName() string {
	return "distribution_sweeper"
}

// GetSchedule 获取调度配置
func (j *DistributionSweepJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *DistributionSweepJob) Execute() {
	logger.Debug("Starting distribution sweep")

	now := j.clk.Now()
	var candidates []model.LogoModel
	err := j.db.Where("is_distributed = ? AND is_refunded = ? AND is_uploaded = ?", false, false, true).
		Where("rejection_deadline < ?", now).
		Find(&candidates).Error
	if err != nil {
		logger.Error("Failed to fetch distribution candidates: %v", err)
		return
	}

	distributedCount := 0
	for _, logo := range candidates {
		if err := j.registry.DistributeRewards(j.config.Server.Owner, logo.Id); err != nil {
			if errs.IsBusiness(err) {
				logger.Debug("Skipping logo %d in distribution sweep: %v", logo.Id, err)
				continue
			}
			logger.Error("Failed to distribute rewards for logo %d: %v", logo.Id, err)
			continue
		}
		logger.Info("Rewards distributed for logo %d by sweep", logo.Id)
		distributedCount++
	}

	if distributedCount > 0 {
		logger.Info("Distribution sweep completed, distributed %d logos", distributedCount)
	}
}
