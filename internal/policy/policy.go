package policy

import (
	"errors"
	"fmt"

	"github.com/0xan000n/logos-service/internal/config"
	"github.com/0xan000n/logos-service/internal/errs"
	"github.com/0xan000n/logos-service/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

const (
	// PercentageScale 费率刻度，所有费率按百万分之一计
	PercentageScale int64 = 1_000_000
	// MaxAffiliateFee 推荐费率上限（20%），独立于其他费率
	MaxAffiliateFee int64 = 200_000
	// RejectScale 强制退款阈值的子刻度，沿用历史数值区间
	RejectScale int64 = 10_000
)

// Policy 全局费率配置逻辑
type Policy struct {
	db    *gorm.DB
	owner string
}

// Snapshot 单次操作使用的配置快照，操作开始时读取，
// 避免执行中途的配置变更影响在途计算
type Snapshot struct {
	PlatformFee      int64
	CommunityFee     int64
	AffiliateFee     int64
	RejectThreshold  int64
	MaxDuration      int64
	RejectionWindow  int64
	PlatformAddress  string
	CommunityAddress string
	Paused           bool
}

// NewPolicy 创建费率配置逻辑
func NewPolicy(db *gorm.DB, owner string) *Policy {
	return &Policy{db: db, owner: normalize(owner)}
}

// Seed 首次启动时写入初始配置，已存在则跳过
func (p *Policy) Seed(cfg config.PolicyConfig) error {
	var count int64
	if err := p.db.Model(&model.FeePolicyModel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count fee policy: %w", err)
	}
	if count > 0 {
		return nil
	}

	record := model.FeePolicyModel{
		Id:               1,
		PlatformFee:      cfg.PlatformFee,
		CommunityFee:     cfg.CommunityFee,
		AffiliateFee:     cfg.AffiliateFee,
		RejectThreshold:  cfg.RejectThreshold,
		MaxDuration:      cfg.MaxDuration,
		RejectionWindow:  cfg.RejectionWindow,
		PlatformAddress:  normalize(cfg.PlatformAddress),
		CommunityAddress: normalize(cfg.CommunityAddress),
	}
	if err := p.db.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to seed fee policy: %w", err)
	}
	return nil
}

// Load 读取配置快照
func (p *Policy) Load() (*Snapshot, error) {
	return LoadTx(p.db)
}

// LoadTx 在指定事务内读取配置快照
func LoadTx(tx *gorm.DB) (*Snapshot, error) {
	var record model.FeePolicyModel
	if err := tx.First(&record, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("fee policy not initialized")
		}
		return nil, fmt.Errorf("failed to load fee policy: %w", err)
	}

	return &Snapshot{
		PlatformFee:      record.PlatformFee,
		CommunityFee:     record.CommunityFee,
		AffiliateFee:     record.AffiliateFee,
		RejectThreshold:  record.RejectThreshold,
		MaxDuration:      record.MaxDuration,
		RejectionWindow:  record.RejectionWindow,
		PlatformAddress:  record.PlatformAddress,
		CommunityAddress: record.CommunityAddress,
		Paused:           record.Paused,
	}, nil
}

// IsZeroFeeProposer 判断提案人是否免平台费
func (p *Policy) IsZeroFeeProposer(addr string) (bool, error) {
	return IsZeroFeeProposerTx(p.db, addr)
}

// IsZeroFeeProposerTx 在指定事务内判断提案人是否免平台费
func IsZeroFeeProposerTx(tx *gorm.DB, addr string) (bool, error) {
	var record model.ZeroFeeProposerModel
	err := tx.Where("address = ?", normalize(addr)).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query zero fee proposer: %w", err)
	}
	return record.Enabled, nil
}

// SetPlatformFee 设置平台费率
func (p *Policy) SetPlatformFee(caller string, fee int64) error {
	if err := p.requireOwner(caller); err != nil {
		return err
	}
	if fee < 0 || fee > PercentageScale {
		return errs.ErrFeeExceeded
	}
	return p.update(caller, map[string]interface{}{"platform_fee": fee})
}

// SetCommunityFee 设置社区费率，与平台费率之和不得超过总刻度
func (p *Policy) SetCommunityFee(caller string, fee int64) error {
	if err := p.requireOwner(caller); err != nil {
		return err
	}
	snapshot, err := p.Load()
	if err != nil {
		return err
	}
	if fee < 0 || fee+snapshot.PlatformFee > PercentageScale {
		return errs.ErrFeeExceeded
	}
	return p.update(caller, map[string]interface{}{"community_fee": fee})
}

// SetAffiliateFee 设置推荐费率
func (p *Policy) SetAffiliateFee(caller string, fee int64) error {
	if err := p.requireOwner(caller); err != nil {
		return err
	}
	if fee < 0 || fee > MaxAffiliateFee {
		return errs.ErrFeeExceeded
	}
	return p.update(caller, map[string]interface{}{"affiliate_fee": fee})
}

// SetRejectThreshold 设置强制退款阈值，取值(0, 10000]
func (p *Policy) SetRejectThreshold(caller string, threshold int64) error {
	if err := p.requireOwner(caller); err != nil {
		return err
	}
	if threshold == 0 || threshold > RejectScale {
		return errs.ErrInvalidRejectThreshold
	}
	return p.update(caller, map[string]interface{}{"reject_threshold": threshold})
}

// SetMaxDuration 设置众筹最长天数，取值(0, 100]
func (p *Policy) SetMaxDuration(caller string, days int64) error {
	if err := p.requireOwner(caller); err != nil {
		return err
	}
	if days == 0 || days > 100 {
		return errs.ErrInvalidMaxDuration
	}
	return p.update(caller, map[string]interface{}{"max_duration": days})
}

// SetRejectionWindow 设置反对窗口天数
func (p *Policy) SetRejectionWindow(caller string, days int64) error {
	if err := p.requireOwner(caller); err != nil {
		return err
	}
	if days == 0 {
		return errs.ErrNotZero
	}
	return p.update(caller, map[string]interface{}{"rejection_window": days})
}

// SetPlatformAddress 设置平台金库地址
func (p *Policy) SetPlatformAddress(caller string, addr string) error {
	if err := p.requireOwner(caller); err != nil {
		return err
	}
	if isZeroAddress(addr) {
		return errs.ErrZeroAddress
	}
	return p.update(caller, map[string]interface{}{"platform_address": normalize(addr)})
}

// SetCommunityAddress 设置社区金库地址
func (p *Policy) SetCommunityAddress(caller string, addr string) error {
	if err := p.requireOwner(caller); err != nil {
		return err
	}
	if isZeroAddress(addr) {
		return errs.ErrZeroAddress
	}
	return p.update(caller, map[string]interface{}{"community_address": normalize(addr)})
}

// SetZeroFeeProposers 批量设置免平台费提案人
func (p *Policy) SetZeroFeeProposers(caller string, addrs []string, flags []bool) error {
	if err := p.requireOwner(caller); err != nil {
		return err
	}
	if len(addrs) != len(flags) {
		return errs.ErrInvalidArrayArguments
	}

	return p.db.Transaction(func(tx *gorm.DB) error {
		for i, addr := range addrs {
			if isZeroAddress(addr) {
				return errs.ErrZeroAddress
			}
			record := model.ZeroFeeProposerModel{
				Address: normalize(addr),
				Enabled: flags[i],
			}
			err := tx.Where("address = ?", record.Address).
				Assign(map[string]interface{}{"enabled": flags[i]}).
				FirstOrCreate(&model.ZeroFeeProposerModel{}, record).Error
			if err != nil {
				return fmt.Errorf("failed to upsert zero fee proposer: %w", err)
			}
		}
		return appendEvent(tx, caller, model.EventZeroFeeProposersSet)
	})
}

// PauseOrUnpause 全局暂停/恢复
func (p *Policy) PauseOrUnpause(caller string, pause bool) error {
	if err := p.requireOwner(caller); err != nil {
		return err
	}

	return p.db.Transaction(func(tx *gorm.DB) error {
		snapshot, err := LoadTx(tx)
		if err != nil {
			return err
		}
		if pause && snapshot.Paused {
			return errs.ErrEnforcedPause
		}
		if !pause && !snapshot.Paused {
			return errs.ErrExpectedPause
		}
		if err := tx.Model(&model.FeePolicyModel{}).Where("id = ?", 1).
			Update("paused", pause).Error; err != nil {
			return fmt.Errorf("failed to update pause flag: %w", err)
		}
		eventType := model.EventPaused
		if !pause {
			eventType = model.EventUnpaused
		}
		return appendEvent(tx, caller, eventType)
	})
}

// requireOwner 校验调用者是否为授权地址
func (p *Policy) requireOwner(caller string) error {
	if normalize(caller) != p.owner || p.owner == "" {
		return errs.ErrUnauthorized
	}
	return nil
}

// update 单字段更新并记录事件
func (p *Policy) update(caller string, fields map[string]interface{}) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.FeePolicyModel{}).Where("id = ?", 1).
			Updates(fields).Error; err != nil {
			return fmt.Errorf("failed to update fee policy: %w", err)
		}
		return appendEvent(tx, caller, model.EventPolicyUpdated)
	})
}

func appendEvent(tx *gorm.DB, caller string, eventType string) error {
	event := model.EventModel{
		EventType: eventType,
		Caller:    normalize(caller),
	}
	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// normalize 地址标准化为EIP-55校验和格式
func normalize(addr string) string {
	if addr == "" {
		return ""
	}
	return common.HexToAddress(addr).Hex()
}

// isZeroAddress 空地址哨兵判断
func isZeroAddress(addr string) bool {
	return addr == "" || common.HexToAddress(addr) == (common.Address{})
}
