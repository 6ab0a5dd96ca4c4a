package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/0xan000n/logos-service/internal/clock"
	"github.com/0xan000n/logos-service/internal/errs"
	"github.com/0xan000n/logos-service/internal/model"
	"github.com/0xan000n/logos-service/internal/payment"
	"github.com/0xan000n/logos-service/internal/policy"
	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
)

// Ledger 出资台账，管理每个Logo的出资、反对票和可认领余额。
// 不变式：存活出资记录之和 == Logo资金池；反对票总额 <= 资金池。
type Ledger struct {
	db   *gorm.DB
	clk  clock.Clock
	rail payment.Rail
}

// NewLedger 创建出资台账
func NewLedger(db *gorm.DB, clk clock.Clock, rail payment.Rail) *Ledger {
	return &Ledger{db: db, clk: clk, rail: rail}
}

// Crowdfund 出资。referrer为空串表示无推荐人。
func (l *Ledger) Crowdfund(logoId int64, backer, referrer string, amount int64) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		logo, err := l.loadLogo(tx, logoId)
		if err != nil {
			return err
		}

		if logo.IsTerminal() || !logo.IsCrowdfunding || l.clk.Now() > logo.CrowdfundEndAt {
			return errs.ErrLogoNotCrowdfunding
		}
		if amount <= 0 || amount < logo.MinimumPledge {
			return errs.ErrInsufficientFunds
		}

		record := model.BackerModel{
			LogoId:   logoId,
			Address:  normalize(backer),
			Referrer: normalizeReferrer(referrer),
			Amount:   amount,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create backer record: %w", err)
		}

		if err := tx.Model(&model.LogoModel{}).Where("id = ?", logoId).
			Update("rewards", gorm.Expr("rewards + ?", amount)).Error; err != nil {
			return fmt.Errorf("failed to update logo rewards: %w", err)
		}

		return appendEvent(tx, logoId, backer, model.EventCrowdfund,
			fmt.Sprintf(`{"amount":%d}`, amount))
	})
}

// WithdrawFunds 出资人取回本金。仅在众筹中或已退款、且未分配时允许。
func (l *Ledger) WithdrawFunds(logoId int64, backer string) (int64, error) {
	var total int64
	var record model.PayoutRecordModel

	err := l.db.Transaction(func(tx *gorm.DB) error {
		logo, err := l.loadLogo(tx, logoId)
		if err != nil {
			return err
		}

		withdrawable := (!logo.IsDistributed && logo.IsCrowdfunding) || logo.IsRefunded
		if !withdrawable {
			return errs.ErrLogoFundsCannotBeWithdrawn
		}

		var records []model.BackerModel
		if err := tx.Where("logo_id = ? AND address = ?", logoId, normalize(backer)).
			Find(&records).Error; err != nil {
			return fmt.Errorf("failed to fetch backer records: %w", err)
		}

		var rejected int64
		for _, record := range records {
			total += record.Amount
			if record.VotesToReject {
				rejected += record.Amount
			}
		}
		if total == 0 {
			return errs.ErrLogoFundsCannotBeWithdrawn
		}

		if err := tx.Where("logo_id = ? AND address = ?", logoId, normalize(backer)).
			Delete(&model.BackerModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete backer records: %w", err)
		}

		updates := map[string]interface{}{
			"rewards": gorm.Expr("rewards - ?", total),
		}
		if rejected > 0 {
			updates["rejected_funds"] = gorm.Expr("rejected_funds - ?", rejected)
		}
		if err := tx.Model(&model.LogoModel{}).Where("id = ?", logoId).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update logo rewards: %w", err)
		}

		record = model.PayoutRecordModel{
			LogoId:    logoId,
			Recipient: normalize(backer),
			Role:      model.PayoutRoleBacker,
			Amount:    total,
			Status:    model.PayoutStatusPending,
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create payout record: %w", err)
		}

		return appendEvent(tx, logoId, backer, model.EventFundsWithdrawn,
			fmt.Sprintf(`{"amount":%d}`, total))
	})
	if err != nil {
		return 0, err
	}

	if err := Settle(l.db, l.rail, &record); err != nil {
		return 0, err
	}
	return total, nil
}

// RejectFunds 出资人投反对票，累计金额达到阈值后任何人可发起退款
func (l *Ledger) RejectFunds(logoId int64, backer string) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		logo, err := l.loadLogo(tx, logoId)
		if err != nil {
			return err
		}

		if logo.IsDistributed {
			return errs.ErrLogoDistributed
		}
		if logo.IsRefunded {
			return errs.ErrLogoRefunded
		}
		if logo.RejectionDeadline != 0 && l.clk.Now() > logo.RejectionDeadline {
			return errs.ErrRejectionDeadlinePassed
		}

		var records []model.BackerModel
		if err := tx.Where("logo_id = ? AND address = ?", logoId, normalize(backer)).
			Find(&records).Error; err != nil {
			return fmt.Errorf("failed to fetch backer records: %w", err)
		}
		if len(records) == 0 {
			return errs.ErrUnauthorized
		}

		var total int64
		for _, record := range records {
			if record.VotesToReject {
				return errs.ErrBackerAlreadyRejected
			}
			total += record.Amount
		}

		if err := tx.Model(&model.BackerModel{}).
			Where("logo_id = ? AND address = ?", logoId, normalize(backer)).
			Update("votes_to_reject", true).Error; err != nil {
			return fmt.Errorf("failed to update reject votes: %w", err)
		}

		if err := tx.Model(&model.LogoModel{}).Where("id = ?", logoId).
			Update("rejected_funds", gorm.Expr("rejected_funds + ?", total)).Error; err != nil {
			return fmt.Errorf("failed to update rejected funds: %w", err)
		}

		return appendEvent(tx, logoId, backer, model.EventRejectionSubmitted,
			fmt.Sprintf(`{"amount":%d}`, total))
	})
}

// GetBackersForLogo 获取Logo的全部存活出资记录
func (l *Ledger) GetBackersForLogo(logoId int64) ([]model.BackerModel, error) {
	var records []model.BackerModel
	if err := l.db.Where("logo_id = ?", logoId).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch backer records: %w", err)
	}
	return records, nil
}

// ClaimableOf 查询可认领余额
func (l *Ledger) ClaimableOf(addr string) (int64, error) {
	var record model.ClaimableBalanceModel
	err := l.db.Where("address = ?", normalize(addr)).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query claimable balance: %w", err)
	}
	return record.Amount, nil
}

// Claim 认领余额。支付失败时余额保持不变。
func (l *Ledger) Claim(addr string) (int64, error) {
	var amount int64
	recipient := normalize(addr)

	err := l.db.Transaction(func(tx *gorm.DB) error {
		var record model.ClaimableBalanceModel
		err := tx.Where("address = ?", recipient).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && record.Amount == 0) {
			return errs.ErrInsufficientFunds
		}
		if err != nil {
			return fmt.Errorf("failed to query claimable balance: %w", err)
		}
		amount = record.Amount

		return tx.Model(&record).Update("amount", 0).Error
	})
	if err != nil {
		return 0, err
	}

	// 先清零后转账，链上转账成功后不会再因事务回滚被重复认领；
	// 推送失败则把余额加回，认领可重试
	if _, err := l.rail.Transfer(context.Background(), recipient, amount); err != nil {
		if rbErr := l.db.Transaction(func(tx *gorm.DB) error {
			return Credit(tx, recipient, amount)
		}); rbErr != nil {
			return 0, fmt.Errorf("transfer failed and balance restore failed: %v: %w", rbErr, err)
		}
		return 0, fmt.Errorf("transfer failed: %w", err)
	}

	if err := appendEvent(l.db, 0, addr, model.EventFundsClaimed,
		fmt.Sprintf(`{"amount":%d}`, amount)); err != nil {
		return amount, err
	}
	return amount, nil
}

// Credit 在事务内累加可认领余额，分配时直推失败的兜底路径
func Credit(tx *gorm.DB, addr string, amount int64) error {
	record := model.ClaimableBalanceModel{Address: addr}
	if err := tx.Where("address = ?", addr).
		FirstOrCreate(&record).Error; err != nil {
		return fmt.Errorf("failed to ensure claimable balance: %w", err)
	}
	if err := tx.Model(&model.ClaimableBalanceModel{}).
		Where("address = ?", addr).
		Update("amount", gorm.Expr("amount + ?", amount)).Error; err != nil {
		return fmt.Errorf("failed to credit claimable balance: %w", err)
	}
	return nil
}

// Settle 事务提交后推送已落账的分账记录。
// 转账不在数据库事务内执行，链上转账成功后不会再因事务回滚重复支付；
// 直推失败的份额转入可认领余额。
func Settle(db *gorm.DB, rail payment.Rail, record *model.PayoutRecordModel) error {
	txHash, err := rail.Transfer(context.Background(), record.Recipient, record.Amount)
	if err != nil {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := Credit(tx, record.Recipient, record.Amount); err != nil {
				return err
			}
			return tx.Model(record).Update("status", model.PayoutStatusClaimable).Error
		})
	}
	return db.Model(record).Updates(map[string]interface{}{
		"status":  model.PayoutStatusSuccess,
		"tx_hash": txHash,
	}).Error
}

// loadLogo 读取Logo并做暂停/编号前置校验
func (l *Ledger) loadLogo(tx *gorm.DB, logoId int64) (*model.LogoModel, error) {
	snapshot, err := policy.LoadTx(tx)
	if err != nil {
		return nil, err
	}
	if snapshot.Paused {
		return nil, errs.ErrEnforcedPause
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

// normalize 地址标准化
func normalize(addr string) string {
	if addr == "" {
		return ""
	}
	return common.HexToAddress(addr).Hex()
}

// normalizeReferrer 空地址哨兵归一为无推荐人
func normalizeReferrer(addr string) string {
	if addr == "" || common.HexToAddress(addr) == (common.Address{}) {
		return ""
	}
	return common.HexToAddress(addr).Hex()
}
