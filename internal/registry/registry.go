package registry

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/0xan000n/logos-service/internal/clock"
	"github.com/0xan000n/logos-service/internal/errs"
	"github.com/0xan000n/logos-service/internal/ledger"
	"github.com/0xan000n/logos-service/internal/logger"
	"github.com/0xan000n/logos-service/internal/model"
	"github.com/0xan000n/logos-service/internal/payment"
	"github.com/0xan000n/logos-service/internal/policy"
	"github.com/0xan000n/logos-service/internal/split"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

const (
	// DefaultMinimumPledge 创建时的默认最低出资额
	DefaultMinimumPledge int64 = 10_000_000_000_000
	// MaxSpeakerNumber 单个Logo的演讲者数量上限（不含）
	MaxSpeakerNumber = 100
	// SecondsPerDay 天数换算
	SecondsPerDay int64 = 86400
)

// Registry Logo生命周期状态机。
// 每个操作在单个事务内完成全部前置校验和写入，
// 任一校验失败则整个操作无效。
type Registry struct {
	db   *gorm.DB
	clk  clock.Clock
	rail payment.Rail
}

// NewRegistry 创建状态机
func NewRegistry(db *gorm.DB, clk clock.Clock, rail payment.Rail) *Registry {
	return &Registry{db: db, clk: clk, rail: rail}
}

// CreateLogo 创建Logo并进入众筹状态
func (r *Registry) CreateLogo(caller string, proposerFee int64, title string, durationDays int64) (*model.LogoModel, error) {
	var logo model.LogoModel

	err := r.db.Transaction(func(tx *gorm.DB) error {
		snapshot, err := r.guardPause(tx)
		if err != nil {
			return err
		}

		if title == "" {
			return errs.ErrEmptyString
		}
		if durationDays > snapshot.MaxDuration {
			return errs.ErrCrowdfundDurationExceeded
		}

		zeroFee, err := policy.IsZeroFeeProposerTx(tx, caller)
		if err != nil {
			return err
		}
		feeCap := policy.PercentageScale - snapshot.CommunityFee
		if !zeroFee {
			feeCap -= snapshot.PlatformFee
		}
		if proposerFee < 0 || proposerFee > feeCap {
			return errs.ErrFeeExceeded
		}

		now := r.clk.Now()
		logo = model.LogoModel{
			Title:            title,
			Proposer:         normalize(caller),
			ProposerFee:      proposerFee,
			MinimumPledge:    DefaultMinimumPledge,
			CrowdfundStartAt: now,
			CrowdfundEndAt:   now + durationDays*SecondsPerDay,
			IsCrowdfunding:   true,
		}
		if err := tx.Create(&logo).Error; err != nil {
			return fmt.Errorf("failed to create logo: %w", err)
		}

		if err := appendEvent(tx, logo.Id, caller, model.EventLogoCreated,
			fmt.Sprintf(`{"proposer":%q,"created_at":%d}`, logo.Proposer, now)); err != nil {
			return err
		}
		if err := appendEvent(tx, logo.Id, caller, model.EventCrowdfundToggled,
			`{"is_crowdfunding":true}`); err != nil {
			return err
		}

		// 给提案人排队铸造纪念凭证，旁路调用不阻塞主流程
		return enqueueMint(tx, logo.Id, []string{logo.Proposer}, []string{"proposer"})
	})
	if err != nil {
		return nil, err
	}
	return &logo, nil
}

// ToggleCrowdfund 提案人结束众筹。设定日期后不允许再切换。
func (r *Registry) ToggleCrowdfund(caller string, logoId int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		logo, err := r.loadLogo(tx, logoId)
		if err != nil {
			return err
		}

		if !isProposer(logo, caller) || logo.ScheduledAt != 0 {
			return errs.ErrUnauthorized
		}
		if r.clk.Now() > logo.CrowdfundEndAt {
			return errs.ErrCrowdfundEnded
		}

		if err := tx.Model(logo).Update("is_crowdfunding", false).Error; err != nil {
			return fmt.Errorf("failed to toggle crowdfund: %w", err)
		}

		return appendEvent(tx, logoId, caller, model.EventCrowdfundToggled,
			`{"is_crowdfunding":false}`)
	})
}

// SetMinimumPledge 提案人调整最低出资额，仅众筹期内有效
func (r *Registry) SetMinimumPledge(caller string, logoId int64, value int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		logo, err := r.loadLogo(tx, logoId)
		if err != nil {
			return err
		}

		if !isProposer(logo, caller) {
			return errs.ErrUnauthorized
		}
		if !logo.IsCrowdfunding {
			return errs.ErrLogoNotCrowdfunding
		}
		if r.clk.Now() > logo.CrowdfundEndAt {
			return errs.ErrCrowdfundEnded
		}
		// int64移植后负值可表示，必须显式要求正数
		if value <= 0 {
			return errs.ErrNotZero
		}

		if err := tx.Model(logo).Update("minimum_pledge", value).Error; err != nil {
			return fmt.Errorf("failed to set minimum pledge: %w", err)
		}

		return appendEvent(tx, logoId, caller, model.EventMinimumPledgeSet,
			fmt.Sprintf(`{"minimum_pledge":%d}`, value))
	})
}

// SetSpeakers 提案人设置演讲者名单，整体覆盖之前的名单。
// 各演讲者份额之和必须恰好等于总刻度。
func (r *Registry) SetSpeakers(caller string, logoId int64, addrs []string, fees []int64, providers, handles []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		logo, err := r.loadLogo(tx, logoId)
		if err != nil {
			return err
		}

		if !isProposer(logo, caller) {
			return errs.ErrUnauthorized
		}
		if !logo.IsCrowdfunding {
			return errs.ErrLogoNotCrowdfunding
		}
		if r.clk.Now() > logo.CrowdfundEndAt {
			return errs.ErrCrowdfundEnded
		}
		if len(addrs) == 0 || len(addrs) >= MaxSpeakerNumber {
			return errs.ErrInvalidSpeakerNumber
		}
		if len(fees) != len(addrs) || len(providers) != len(addrs) || len(handles) != len(addrs) {
			return errs.ErrInvalidArrayArguments
		}

		var feeSum int64
		for _, fee := range fees {
			feeSum += fee
		}
		if feeSum != policy.PercentageScale {
			return errs.ErrFeeSumNotMatch
		}

		// 覆盖写入
		if err := tx.Where("logo_id = ?", logoId).
			Delete(&model.SpeakerModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear speakers: %w", err)
		}
		for i, addr := range addrs {
			speaker := model.SpeakerModel{
				LogoId:   logoId,
				Position: i,
				Address:  normalize(addr),
				Fee:      fees[i],
				Provider: providers[i],
				Handle:   handles[i],
				Status:   model.SpeakerStatusPending,
			}
			if err := tx.Create(&speaker).Error; err != nil {
				return fmt.Errorf("failed to create speaker: %w", err)
			}
		}

		return appendEvent(tx, logoId, caller, model.EventSpeakersSet,
			fmt.Sprintf(`{"count":%d}`, len(addrs)))
	})
}

// SetSpeakerStatus 演讲者本人设置接受/拒绝状态
func (r *Registry) SetSpeakerStatus(caller string, logoId int64, status model.SpeakerStatus) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		logo, err := r.loadLogo(tx, logoId)
		if err != nil {
			return err
		}

		if status != model.SpeakerStatusAccepted && status != model.SpeakerStatusDeclined {
			return errs.ErrInvalidSpeakerStatus
		}
		if !logo.IsCrowdfunding {
			return errs.ErrLogoNotCrowdfunding
		}
		if r.clk.Now() > logo.CrowdfundEndAt {
			return errs.ErrCrowdfundEnded
		}

		result := tx.Model(&model.SpeakerModel{}).
			Where("logo_id = ? AND address = ?", logoId, normalize(caller)).
			Update("status", status)
		if result.Error != nil {
			return fmt.Errorf("failed to update speaker status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.ErrUnauthorized
		}

		return appendEvent(tx, logoId, caller, model.EventSpeakerStatusSet,
			fmt.Sprintf(`{"status":%d}`, status))
	})
}

// SetDate 提案人设定举办时间，同时结束众筹
func (r *Registry) SetDate(caller string, logoId int64, scheduledAt int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		logo, err := r.loadLogo(tx, logoId)
		if err != nil {
			return err
		}

		if !isProposer(logo, caller) {
			return errs.ErrUnauthorized
		}
		if logo.IsUploaded {
			return errs.ErrLogoUploaded
		}
		if logo.IsRefunded {
			return errs.ErrLogoRefunded
		}
		if r.clk.Now() > logo.CrowdfundEndAt {
			return errs.ErrCrowdfundEnded
		}
		if scheduledAt <= r.clk.Now() {
			return errs.ErrInvalidScheduleTime
		}

		updates := map[string]interface{}{
			"scheduled_at":    scheduledAt,
			"is_crowdfunding": false,
		}
		if err := tx.Model(logo).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to set date: %w", err)
		}

		return appendEvent(tx, logoId, caller, model.EventDateSet,
			fmt.Sprintf(`{"scheduled_at":%d}`, scheduledAt))
	})
}

// SetMediaAsset 提案人上传媒体资源，开启反对窗口
func (r *Registry) SetMediaAsset(caller string, logoId int64, url string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		logo, err := r.loadLogo(tx, logoId)
		if err != nil {
			return err
		}

		if !isProposer(logo, caller) {
			return errs.ErrUnauthorized
		}
		if logo.IsDistributed {
			return errs.ErrLogoDistributed
		}
		if logo.IsRefunded {
			return errs.ErrLogoRefunded
		}
		if r.clk.Now() > logo.CrowdfundEndAt {
			return errs.ErrCrowdfundEnded
		}
		if logo.ScheduledAt == 0 {
			return errs.ErrLogoNotScheduled
		}

		snapshot, err := policy.LoadTx(tx)
		if err != nil {
			return err
		}
		deadline := r.clk.Now() + snapshot.RejectionWindow*SecondsPerDay

		updates := map[string]interface{}{
			"media_asset_url":    url,
			"is_uploaded":        true,
			"rejection_deadline": deadline,
		}
		if err := tx.Model(logo).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to set media asset: %w", err)
		}

		return appendEvent(tx, logoId, caller, model.EventMediaAssetSet,
			fmt.Sprintf(`{"media_asset_url":%q}`, url))
	})
}

// Refund 发起退款。满足以下任一条件即可，按优先级顺序评估：
//  1. 调用者为提案人
//  2. 众筹截止时间已过
//  3. 未上传媒体且举办时间后的反对窗口已过
//  4. 反对票金额达到阈值
//
// 退款本身不移动资金，只解锁出资人的提取。
func (r *Registry) Refund(caller string, logoId int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		logo, err := r.loadLogo(tx, logoId)
		if err != nil {
			return err
		}

		if logo.IsDistributed {
			return errs.ErrLogoDistributed
		}
		if logo.IsRefunded {
			return errs.ErrLogoRefunded
		}

		snapshot, err := policy.LoadTx(tx)
		if err != nil {
			return err
		}

		now := r.clk.Now()
		byProposer := isProposer(logo, caller)
		crowdfundTimeout := now > logo.CrowdfundEndAt
		noShow := !logo.IsUploaded && logo.ScheduledAt != 0 &&
			now > logo.ScheduledAt+snapshot.RejectionWindow*SecondsPerDay
		// 阈值按10000子刻度比较，沿用历史数值区间
		thresholdReached := RejectThresholdReached(logo.Rewards, logo.RejectedFunds, snapshot.RejectThreshold)

		// 按优先级取第一个成立的条件作为事件标签
		condition := 0
		switch {
		case byProposer:
			condition = 1
		case crowdfundTimeout:
			condition = 2
		case noShow:
			condition = 3
		case thresholdReached:
			condition = 4
		default:
			return errs.ErrUnauthorized
		}

		// 退款是终态，同时关闭众筹，不再接受新出资
		if err := tx.Model(logo).Updates(map[string]interface{}{
			"is_refunded":     true,
			"is_crowdfunding": false,
		}).Error; err != nil {
			return fmt.Errorf("failed to mark logo refunded: %w", err)
		}

		return appendEvent(tx, logoId, caller, model.EventRefundInitiated,
			fmt.Sprintf(`{"condition":%d,"by_proposer":%t,"crowdfund_timeout":%t,"no_show":%t,"threshold_reached":%t}`,
				condition, byProposer, crowdfundTimeout, noShow, thresholdReached))
	})
}

// DistributeRewards 分配资金池。反对窗口过后任何人可发起。
// 单个收款方直推失败不会中断分配，其份额转入可认领余额。
func (r *Registry) DistributeRewards(caller string, logoId int64) error {
	var logo model.LogoModel
	var mintRecipients []string
	var mintRoles []string
	var pending []model.PayoutRecordModel

	err := r.db.Transaction(func(tx *gorm.DB) error {
		loaded, err := r.loadLogo(tx, logoId)
		if err != nil {
			return err
		}
		logo = *loaded

		if logo.IsDistributed {
			return errs.ErrLogoDistributed
		}
		if logo.IsRefunded {
			return errs.ErrLogoRefunded
		}
		if !logo.IsUploaded {
			return errs.ErrLogoNotUploaded
		}
		if r.clk.Now() <= logo.RejectionDeadline {
			return errs.ErrRejectionDeadlineNotPassed
		}

		snapshot, err := policy.LoadTx(tx)
		if err != nil {
			return err
		}
		zeroFee, err := policy.IsZeroFeeProposerTx(tx, logo.Proposer)
		if err != nil {
			return err
		}

		var backers []model.BackerModel
		if err := tx.Where("logo_id = ?", logoId).Order("id").
			Find(&backers).Error; err != nil {
			return fmt.Errorf("failed to fetch backers: %w", err)
		}
		var speakers []model.SpeakerModel
		if err := tx.Where("logo_id = ?", logoId).Order("position").
			Find(&speakers).Error; err != nil {
			return fmt.Errorf("failed to fetch speakers: %w", err)
		}

		in := split.Input{
			Pot:              logo.Rewards,
			ProposerFee:      logo.ProposerFee,
			PlatformFee:      snapshot.PlatformFee,
			CommunityFee:     snapshot.CommunityFee,
			AffiliateFee:     snapshot.AffiliateFee,
			ProposerZeroFee:  zeroFee,
			Proposer:         logo.Proposer,
			PlatformAddress:  snapshot.PlatformAddress,
			CommunityAddress: snapshot.CommunityAddress,
		}
		for _, backer := range backers {
			in.Pledges = append(in.Pledges, split.Pledge{
				Backer:   backer.Address,
				Referrer: backer.Referrer,
				Amount:   backer.Amount,
			})
			mintRecipients = append(mintRecipients, backer.Address)
			mintRoles = append(mintRoles, "backer")
		}
		for _, speaker := range speakers {
			in.Speakers = append(in.Speakers, split.SpeakerShare{
				Address: speaker.Address,
				Fee:     speaker.Fee,
			})
			mintRecipients = append(mintRecipients, speaker.Address)
			mintRoles = append(mintRoles, "speaker")
		}

		result := split.Compute(in)

		// 分账记录先落账，推送在事务提交后执行
		for _, payout := range result.Payouts {
			record := model.PayoutRecordModel{
				LogoId:    logoId,
				Recipient: payout.Recipient,
				Role:      payout.Role,
				Amount:    payout.Amount,
				Status:    model.PayoutStatusPending,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to create payout record: %w", err)
			}
			pending = append(pending, record)
		}

		updates := map[string]interface{}{
			"rewards":         0,
			"is_distributed":  true,
			"is_crowdfunding": false,
			"speaker_split":   fmt.Sprintf("logo-%d-speakers", logoId),
			"affiliate_split": fmt.Sprintf("logo-%d-affiliates", logoId),
		}
		if err := tx.Model(&model.LogoModel{}).Where("id = ?", logoId).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to mark logo distributed: %w", err)
		}

		if err := appendEvent(tx, logoId, caller, model.EventRewardsDistributed,
			fmt.Sprintf(`{"total":%d,"referrer_total":%d,"dust":%d}`,
				logo.Rewards, result.ReferrerTotal, result.Dust)); err != nil {
			return err
		}

		return enqueueMint(tx, logoId, mintRecipients, mintRoles)
	})
	if err != nil {
		return err
	}

	// 逐个收款方推送，单个失败转入可认领余额，不影响已落账的分配
	for i := range pending {
		if err := ledger.Settle(r.db, r.rail, &pending[i]); err != nil {
			logger.Error("Failed to settle payout %d for logo %d: %v", pending[i].Id, logoId, err)
		}
	}
	return nil
}

// GetLogo 获取Logo详情
func (r *Registry) GetLogo(logoId int64) (*model.LogoModel, error) {
	var logo model.LogoModel
	if err := r.db.First(&logo, logoId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrInvalidLogoId
		}
		return nil, fmt.Errorf("failed to fetch logo: %w", err)
	}
	return &logo, nil
}

// GetLogos 获取Logo列表
func (r *Registry) GetLogos(page, pageSize int) ([]model.LogoModel, int64, error) {
	var logos []model.LogoModel
	var total int64

	if err := r.db.Model(&model.LogoModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count logos: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if err := r.db.Order("id").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&logos).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch logos: %w", err)
	}

	return logos, total, nil
}

// GetSpeakersForLogo 获取Logo的演讲者名单，按设置顺序返回
func (r *Registry) GetSpeakersForLogo(logoId int64) ([]model.SpeakerModel, error) {
	var speakers []model.SpeakerModel
	if err := r.db.Where("logo_id = ?", logoId).Order("position").
		Find(&speakers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch speakers: %w", err)
	}
	return speakers, nil
}

// GetEventsForLogo 获取Logo的事件记录
func (r *Registry) GetEventsForLogo(logoId int64) ([]model.EventModel, error) {
	var events []model.EventModel
	if err := r.db.Where("logo_id = ?", logoId).Order("id").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return events, nil
}

// guardPause 读取配置快照并校验全局暂停
func (r *Registry) guardPause(tx *gorm.DB) (*policy.Snapshot, error) {
	snapshot, err := policy.LoadTx(tx)
	if err != nil {
		return nil, err
	}
	if snapshot.Paused {
		return nil, errs.ErrEnforcedPause
	}
	return snapshot, nil
}

// loadLogo 暂停校验加编号校验
func (r *Registry) loadLogo(tx *gorm.DB, logoId int64) (*model.LogoModel, error) {
	if _, err := r.guardPause(tx); err != nil {
		return nil, err
	}

	var logo model.LogoModel
	if err := tx.First(&logo, logoId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrInvalidLogoId
		}
		return nil, fmt.Errorf("failed to fetch logo: %w", err)
	}
	return &logo, nil
}

// enqueueMint 在事务内排队纪念凭证铸造请求
func enqueueMint(tx *gorm.DB, logoId int64, recipients, roleTags []string) error {
	for i, recipient := range recipients {
		request := model.MintRequestModel{
			LogoId:    logoId,
			Recipient: recipient,
			RoleTag:   roleTags[i],
			Status:    model.MintStatusPending,
		}
		if err := tx.Create(&request).Error; err != nil {
			return fmt.Errorf("failed to enqueue mint request: %w", err)
		}
	}
	return nil
}

func appendEvent(tx *gorm.DB, logoId int64, caller, eventType, data string) error {
	event := model.EventModel{
		LogoId:    logoId,
		EventType: eventType,
		Caller:    normalize(caller),
		Data:      data,
	}
	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func isProposer(logo *model.LogoModel, caller string) bool {
	return logo.Proposer == normalize(caller)
}

// normalize 地址标准化
func normalize(addr string) string {
	if addr == "" {
		return ""
	}
	return common.HexToAddress(addr).Hex()
}

// mulDiv 计算 a*b/denominator，向零截断
func mulDiv(a, b, denominator int64) int64 {
	product := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	return product.Quo(product, big.NewInt(denominator)).Int64()
}

// RejectThresholdReached 反对票总额是否达到强制退款阈值。
// 阈值按10000子刻度比较，乘法走大整数避免溢出。
func RejectThresholdReached(rewards, rejectedFunds, threshold int64) bool {
	return rejectedFunds >= mulDiv(rewards, threshold, policy.RejectScale)
}
