package model

import (
	"time"
)

// LogoModel 活动（Logo）模型，一次众筹-举办-分配周期
type LogoModel struct {
	Id        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title         string `json:"title" gorm:"not null" binding:"required"`
	Proposer      string `json:"proposer" gorm:"not null;index"`
	ProposerFee   int64  `json:"proposer_fee" gorm:"not null"`
	MediaAssetURL string `json:"media_asset_url"`

	// 众筹信息
	MinimumPledge int64 `json:"minimum_pledge" gorm:"not null"`
	Rewards       int64 `json:"rewards" gorm:"default:0"`        // 当前资金池
	RejectedFunds int64 `json:"rejected_funds" gorm:"default:0"` // 投反对票的出资总额

	// 时间信息（unix秒）
	ScheduledAt       int64 `json:"scheduled_at" gorm:"default:0"`
	CrowdfundStartAt  int64 `json:"crowdfund_start_at" gorm:"not null"`
	CrowdfundEndAt    int64 `json:"crowdfund_end_at" gorm:"not null"`
	RejectionDeadline int64 `json:"rejection_deadline" gorm:"default:0"`

	// 分账组地址，分配完成前为空
	SpeakerSplit   string `json:"speaker_split"`
	AffiliateSplit string `json:"affiliate_split"`

	// 状态标志
	IsCrowdfunding bool `json:"is_crowdfunding" gorm:"default:false"`
	IsUploaded     bool `json:"is_uploaded" gorm:"default:false"`
	IsDistributed  bool `json:"is_distributed" gorm:"default:false"`
	IsRefunded     bool `json:"is_refunded" gorm:"default:false"`
}

// TableName 自定义表名
func (LogoModel) TableName() string {
	return "logo"
}

// IsTerminal 是否已进入终态（已分配或已退款）
func (l *LogoModel) IsTerminal() bool {
	return l.IsDistributed || l.IsRefunded
}
