package task

import (
	"errors"
	"time"

	"github.com/0xan000n/logos-service/internal/clock"
	"github.com/0xan000n/logos-service/internal/config"
	"github.com/0xan000n/logos-service/internal/errs"
	"github.com/0xan000n/logos-service/internal/logger"
	"github.com/0xan000n/logos-service/internal/model"
	"github.com/0xan000n/logos-service/internal/policy"
	"github.com/0xan000n/logos-service/internal/registry"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// sweepCaller 零地址作为系统身份发起退款。
// 中立身份不可能是任何Logo的提案人，不会命中提案人主动退款分支。
const sweepCaller = "0x0000000000000000000000000000000000000000"

// RefundSweepJob 自动退款任务。
// 只选取退款条件确已成立的Logo：众筹超时且从未排期的、
// 排期后未上传媒体且交付窗口已过的、反对票确已达到阈值的。
// 提案人主动退款和其他边界情形走接口人工触发。
type RefundSweepJob struct {
	db       *gorm.DB
	registry *registry.Registry
	clk      clock.Clock
	config   *config.Config
}

// NewRefundSweepJob 创建自动退款任务
func NewRefundSweepJob(db *gorm.DB, reg *registry.Registry, clk clock.Clock, cfg *config.Config) *RefundSweepJob {
	return &RefundSweepJob{
		db:       db,
		registry: reg,
		clk:      clk,
		config:   cfg,
	}
}

// GetName 获取任务名称
func (j *RefundSweepJob) GetName() string {
	return "refund_sweeper"
}

// GetSchedule 获取调度配置
func (j *RefundSweepJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *RefundSweepJob) Execute() {
	logger.Debug("Starting refund sweep")

	snapshot, err := policy.LoadTx(j.db)
	if err != nil {
		logger.Error("Failed to load fee policy for refund sweep: %v", err)
		return
	}

	now := j.clk.Now()
	window := snapshot.RejectionWindow * registry.SecondsPerDay
	var candidates []model.LogoModel
	err = j.db.Where("is_distributed = ? AND is_refunded = ?", false, false).
		Where("(scheduled_at = 0 AND crowdfund_end_at < ?)"+
			" OR (is_uploaded = ? AND scheduled_at <> 0 AND scheduled_at + ? < ?)"+
			" OR rejected_funds > 0",
			now, false, window, now).
		Find(&candidates).Error
	if err != nil {
		logger.Error("Failed to fetch refund candidates: %v", err)
		return
	}

	refundedCount := 0
	for _, logo := range candidates {
		if !j.shouldRefund(&logo, snapshot, now, window) {
			continue
		}
		if err := j.registry.Refund(sweepCaller, logo.Id); err != nil {
			// 条件尚未成立时跳过，等下一轮
			if errors.Is(err, errs.ErrUnauthorized) {
				continue
			}
			if errs.IsBusiness(err) {
				logger.Debug("Skipping logo %d in refund sweep: %v", logo.Id, err)
				continue
			}
			logger.Error("Failed to refund logo %d: %v", logo.Id, err)
			continue
		}
		logger.Info("Refund initiated for logo %d by sweep", logo.Id)
		refundedCount++
	}

	if refundedCount > 0 {
		logger.Info("Refund sweep completed, refunded %d logos", refundedCount)
	}
}

// shouldRefund 复核退款条件是否确已成立。
// 候选查询只做粗筛，阈值比较在这里走大整数，避免SQL乘法溢出。
func (j *RefundSweepJob) shouldRefund(logo *model.LogoModel, snapshot *policy.Snapshot, now, window int64) bool {
	if logo.ScheduledAt == 0 && now > logo.CrowdfundEndAt {
		return true
	}
	if !logo.IsUploaded && logo.ScheduledAt != 0 && now > logo.ScheduledAt+window {
		return true
	}
	return logo.RejectedFunds > 0 &&
		registry.RejectThresholdReached(logo.Rewards, logo.RejectedFunds, snapshot.RejectThreshold)
}
