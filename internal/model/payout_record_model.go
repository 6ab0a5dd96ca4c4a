package model

import (
	"time"
)

// PayoutRecordModel 分账记录，分配时为每个收款方生成一条
type PayoutRecordModel struct {
	Id        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LogoId    int64      `json:"logo_id" gorm:"not null;index"`
	Recipient string     `json:"recipient" gorm:"not null"`
	Role      PayoutRole `json:"role" gorm:"not null"`
	Amount    int64      `json:"amount" gorm:"not null"`
	Status    string     `json:"status" gorm:"default:'pending'"` // pending, success, confirmed, reverted, claimable
	TxHash    string     `json:"tx_hash"`
}

// PayoutRole 收款方角色
type PayoutRole string

const (
	PayoutRoleSpeaker   PayoutRole = "speaker"   // 演讲者
	PayoutRoleProposer  PayoutRole = "proposer"  // 提案人
	PayoutRoleReferrer  PayoutRole = "referrer"  // 推荐人
	PayoutRolePlatform  PayoutRole = "platform"  // 平台金库
	PayoutRoleCommunity PayoutRole = "community" // 社区金库（含舍入尾差）
	PayoutRoleBacker    PayoutRole = "backer"    // 出资人（退款/提取）
)

// PayoutStatus 分账状态
const (
	PayoutStatusPending   = "pending"
	PayoutStatusSuccess   = "success"   // 已提交，待回执确认
	PayoutStatusConfirmed = "confirmed" // 链上回执成功
	PayoutStatusReverted  = "reverted"  // 链上回执失败，份额已转入可认领余额
	PayoutStatusClaimable = "claimable" // 直推失败，转入可认领余额
)

// TableName 自定义表名
func (PayoutRecordModel) TableName() string {
	return "payout_record"
}
