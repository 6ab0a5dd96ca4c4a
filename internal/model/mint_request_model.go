package model

import (
	"time"
)

// MintRequestModel 纪念凭证铸造请求，尽力而为的旁路调用队列
type MintRequestModel struct {
	Id        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LogoId    int64  `json:"logo_id" gorm:"not null;index"`
	Recipient string `json:"recipient" gorm:"not null"`
	RoleTag   string `json:"role_tag" gorm:"not null"` // proposer, speaker, backer
	Status    string `json:"status" gorm:"default:'pending';index"`
	Attempts  int    `json:"attempts" gorm:"default:0"`
	LastError string `json:"last_error" gorm:"type:text"`
}

// 铸造请求状态
const (
	MintStatusPending = "pending"
	MintStatusSent    = "sent"
	MintStatusFailed  = "failed"
)

// TableName 自定义表名
func (MintRequestModel) TableName() string {
	return "mint_request"
}
