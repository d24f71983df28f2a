package model

import (
	"time"
)

// 操作事件类型
const (
	EventProjectCreated = "ProjectCreated"
	EventInvestmentMade = "InvestmentMade"
	EventReturnsClaimed = "ReturnsClaimed"
	EventProjectPaused  = "ProjectPaused"
	EventFundsWithdrawn = "FundsWithdrawn"
	EventContractInit   = "ContractInitialized"
)

// EventModel 合约操作事件记录
type EventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EventType string `json:"event_type" gorm:"not null;index"`
	ProjectId uint64 `json:"project_id" gorm:"index"`
	Principal string `json:"principal" gorm:"not null"` // 操作发起方地址
	Amount    string `json:"amount"`                    // 涉及金额，十进制字符串，i128超出int64范围
}

// TableName 自定义表名
func (EventModel) TableName() string {
	return "event"
}
