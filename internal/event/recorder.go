package event

import (
	"math/big"

	"github.com/blues/agrocoin/internal/logger"
	"github.com/blues/agrocoin/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// Recorder 操作事件记录器，事件在协程池中异步落库，
// 不阻塞合约操作的响应路径
type Recorder struct {
	db   *gorm.DB
	pool *ants.Pool
}

// NewRecorder 创建事件记录器
func NewRecorder(db *gorm.DB, poolSize int) (*Recorder, error) {
	if poolSize <= 0 {
		poolSize = 4
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	return &Recorder{db: db, pool: pool}, nil
}

// Record 记录一条操作事件。记录失败只打日志，不影响已提交的合约操作。
func (r *Recorder) Record(eventType string, projectId uint64, principal common.Address, amount *big.Int) {
	if r == nil || r.db == nil {
		return
	}

	record := model.EventModel{
		EventType: eventType,
		ProjectId: projectId,
		Principal: principal.Hex(),
	}
	if amount != nil {
		record.Amount = amount.String()
	}

	err := r.pool.Submit(func() {
		if err := r.db.Create(&record).Error; err != nil {
			logger.Error("Failed to record %s event for project %d: %v", eventType, projectId, err)
		}
	})
	if err != nil {
		logger.Error("Failed to submit event task: %v", err)
	}
}

// Close 关闭协程池
func (r *Recorder) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Release()
}
