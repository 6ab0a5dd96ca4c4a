package model

import (
	"time"
)

// FeePolicyModel 全局费率配置，单行记录，部署时创建后只做单字段更新
type FeePolicyModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PlatformFee     int64 `json:"platform_fee" gorm:"not null"`     // 平台费率，按PercentageScale计
	CommunityFee    int64 `json:"community_fee" gorm:"not null"`    // 社区费率
	AffiliateFee    int64 `json:"affiliate_fee" gorm:"not null"`    // 推荐费率，对每笔带推荐人的出资收取
	RejectThreshold int64 `json:"reject_threshold" gorm:"not null"` // 强制退款阈值，按10000计的子刻度
	MaxDuration     int64 `json:"max_duration" gorm:"not null"`     // 众筹最长天数
	RejectionWindow int64 `json:"rejection_window" gorm:"not null"` // 上传后的反对窗口天数

	PlatformAddress  string `json:"platform_address"`  // 平台金库地址
	CommunityAddress string `json:"community_address"` // 社区金库地址

	Paused bool `json:"paused" gorm:"default:false"` // 全局暂停开关
}

// TableName 自定义表名
func (FeePolicyModel) TableName() string {
	return "fee_policy"
}

// ZeroFeeProposerModel 免平台费提案人名单
type ZeroFeeProposerModel struct {
	Id        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Address string `json:"address" gorm:"not null;uniqueIndex"`
	Enabled bool   `json:"enabled" gorm:"default:false"`
}

// TableName 自定义表名
func (ZeroFeeProposerModel) TableName() string {
	return "zero_fee_proposer"
}
