package store

import (
	"errors"
	"fmt"

	"github.com/blues/agrocoin/internal/contract"
	"github.com/blues/agrocoin/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseStore 数据库状态存储，写入批次在单个事务内提交，
// 保证合约要求的全有或全无可见性
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore 创建数据库存储
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Get 读取键值
func (s *DatabaseStore) Get(key string) ([]byte, bool, error) {
	var state model.ContractStateModel
	if err := s.db.Where("key = ?", key).First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("读取合约状态失败: %w", err)
	}
	return state.Value, true, nil
}

// Has 判断键是否存在
func (s *DatabaseStore) Has(key string) (bool, error) {
	var count int64
	if err := s.db.Model(&model.ContractStateModel{}).Where("key = ?", key).Count(&count).Error; err != nil {
		return false, fmt.Errorf("查询合约状态失败: %w", err)
	}
	return count > 0, nil
}

// Apply 在一个事务内提交全部写入，任一失败整体回滚
func (s *DatabaseStore) Apply(writes []contract.Write) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, w := range writes {
			state := model.ContractStateModel{Key: w.Key, Value: w.Value}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&state).Error
			if err != nil {
				return fmt.Errorf("写入合约状态失败: %w", err)
			}
		}
		return nil
	})
}
