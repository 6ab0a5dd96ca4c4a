package model

import (
	"time"
)

// EventModel 业务事件记录，每次状态变更在同一事务内写入一条
type EventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at"`

	LogoId    int64  `json:"logo_id" gorm:"index"` // 0表示与具体Logo无关的全局事件
	EventType string `json:"event_type" gorm:"not null"`
	Caller    string `json:"caller"`
	Data      string `json:"data" gorm:"type:text"` // JSON载荷
}

// 事件类型
const (
	EventLogoCreated         = "LogoCreated"
	EventCrowdfundToggled    = "CrowdfundToggled"
	EventMinimumPledgeSet    = "MinimumPledgeSet"
	EventSpeakersSet         = "SpeakersSet"
	EventSpeakerStatusSet    = "SpeakerStatusSet"
	EventDateSet             = "DateSet"
	EventMediaAssetSet       = "MediaAssetSet"
	EventRefundInitiated     = "RefundInitiated"
	EventRewardsDistributed  = "RewardsDistributed"
	EventCrowdfund           = "Crowdfund"
	EventFundsWithdrawn      = "FundsWithdrawn"
	EventRejectionSubmitted  = "RejectionSubmitted"
	EventFundsClaimed        = "FundsClaimed"
	EventPaused              = "Paused"
	EventUnpaused            = "Unpaused"
	EventPolicyUpdated       = "PolicyUpdated"
	EventZeroFeeProposersSet = "ZeroFeeProposersSet"
)

// TableName 自定义表名
func (EventModel) TableName() string {
	return "event"
}
