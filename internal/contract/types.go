package contract

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Project 农业投资项目
type Project struct {
	Id    uint64         `json:"id"`
	Owner common.Address `json:"owner"`

	// 基本信息
	Name        string `json:"name"`
	Description string `json:"description"`

	// 募资信息，金额使用i128语义
	FundingGoal    *big.Int `json:"funding_goal"`
	CurrentFunding *big.Int `json:"current_funding"`
	MinInvestment  *big.Int `json:"min_investment"`

	// 收益信息
	ExpectedRoi    uint32 `json:"expected_roi"`    // 预期收益率，基点（1800 = 18.00%）
	DurationMonths uint32 `json:"duration_months"` // 项目周期，月

	// 状态
	IsActive       bool `json:"is_active"`
	IsFunded       bool `json:"is_funded"`
	FundsWithdrawn bool `json:"funds_withdrawn"`

	CreatedAt uint64 `json:"created_at"` // 创建时间，unix秒
}

// Investment 投资记录，按(投资人, 项目)聚合
type Investment struct {
	Investor  common.Address `json:"investor"`
	ProjectId uint64         `json:"project_id"`

	Amount         *big.Int `json:"amount"`          // 该投资人对该项目的累计投资额
	Timestamp      uint64   `json:"timestamp"`       // 首次投资时间，后续追加不更新
	ClaimedReturns *big.Int `json:"claimed_returns"` // 已领取收益
}

// ProjectStats 项目统计信息（派生数据，不持久化）
type ProjectStats struct {
	TotalInvestors    uint32 `json:"total_investors"`
	FundingPercentage uint32 `json:"funding_percentage"` // 基点
	DaysRemaining     uint32 `json:"days_remaining"`
}

// Clock 时间源，宿主环境保证单调不减
type Clock interface {
	Now() uint64
}

// Authorizer 调用方授权检查，签名验证由宿主环境完成
type Authorizer interface {
	Authorize(principal common.Address) bool
}

// SystemClock 系统时钟
type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}
