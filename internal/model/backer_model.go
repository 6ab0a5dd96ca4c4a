package model

import (
	"time"
)

// BackerModel 出资记录，同一地址可多次出资形成多条记录
type BackerModel struct {
	Id        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LogoId        int64  `json:"logo_id" gorm:"not null;index"`
	Address       string `json:"address" gorm:"not null;index"`
	Referrer      string `json:"referrer"` // 空串表示无推荐人
	Amount        int64  `json:"amount" gorm:"not null"`
	VotesToReject bool   `json:"votes_to_reject" gorm:"default:false"`
}

// TableName 自定义表名
func (BackerModel) TableName() string {
	return "backer"
}
