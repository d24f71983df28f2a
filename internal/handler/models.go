package handler

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// InitializeRequest 合约初始化请求
type InitializeRequest struct {
	Admin string `json:"admin" binding:"required"`
}

// CreateProjectRequest 创建项目请求，金额为十进制字符串（i128超出JSON安全整数范围）
type CreateProjectRequest struct {
	Owner          string `json:"owner" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	FundingGoal    string `json:"funding_goal" binding:"required"`
	MinInvestment  string `json:"min_investment" binding:"required"`
	ExpectedRoi    uint32 `json:"expected_roi"`
	DurationMonths uint32 `json:"duration_months" binding:"required"`
}

// InvestRequest 投资请求
type InvestRequest struct {
	Investor string `json:"investor" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
}

// ClaimRequest 领取收益请求
type ClaimRequest struct {
	Investor string `json:"investor" binding:"required"`
}

// PauseRequest 暂停项目请求
type PauseRequest struct {
	Admin string `json:"admin" binding:"required"`
}

// WithdrawRequest 提取资金请求
type WithdrawRequest struct {
	Owner string `json:"owner" binding:"required"`
}

// maxI128 i128上界，金额解析时校验范围
var maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))

// parseAddress 解析十六进制地址
func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.New("无效的地址格式")
	}
	return common.HexToAddress(s), nil
}

// parseAmount 解析十进制金额字符串，校验i128范围
func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.New("无效的金额格式")
	}
	if v.CmpAbs(maxI128) > 0 {
		return nil, errors.New("金额超出范围")
	}
	return v, nil
}
