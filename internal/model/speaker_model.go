package model

import (
	"time"
)

// SpeakerModel 演讲者模型，每个Logo最多99位
type SpeakerModel struct {
	Id        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LogoId   int64         `json:"logo_id" gorm:"not null;index"`
	Position int           `json:"position" gorm:"not null"` // 设置时的数组下标，保证读取顺序稳定
	Address  string        `json:"address" gorm:"not null"`
	Fee      int64         `json:"fee" gorm:"not null"` // 占演讲者资金池的份额，按PercentageScale计
	Provider string        `json:"provider"`
	Handle   string        `json:"handle"`
	Status   SpeakerStatus `json:"status" gorm:"default:0"`
}

// SpeakerStatus 演讲者确认状态
type SpeakerStatus int

const (
	SpeakerStatusPending  SpeakerStatus = 0 // 待确认（哨兵值，不可由本人设置）
	SpeakerStatusAccepted SpeakerStatus = 1 // 已接受
	SpeakerStatusDeclined SpeakerStatus = 2 // 已拒绝
)

// TableName 自定义表名
func (SpeakerModel) TableName() string {
	return "speaker"
}
