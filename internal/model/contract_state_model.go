package model

import (
	"time"
)

// ContractStateModel 合约状态键值记录，value为JSON编码的记录
type ContractStateModel struct {
	Key       string    `json:"key" gorm:"primaryKey;size:128"`
	Value     []byte    `json:"value" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 自定义表名
func (ContractStateModel) TableName() string {
	return "contract_state"
}
