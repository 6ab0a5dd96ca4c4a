package model

import (
	"time"
)

// ClaimableBalanceModel 可认领余额，直接转账失败时的拉取式兜底
type ClaimableBalanceModel struct {
	Id        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Address string `json:"address" gorm:"not null;uniqueIndex"`
	Amount  int64  `json:"amount" gorm:"not null;default:0"`
}

// TableName 自定义表名
func (ClaimableBalanceModel) TableName() string {
	return "claimable_balance"
}
