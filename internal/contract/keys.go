package contract

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// 逻辑键空间，对应链上合约的存储符号
const (
	keyAdmin        = "admin"
	keyProjectCount = "project_count"
)

func projectKey(id uint64) string {
	return fmt.Sprintf("project/%d", id)
}

func investmentKey(investor common.Address, projectId uint64) string {
	return fmt.Sprintf("investment/%s/%d", investor.Hex(), projectId)
}

func userProjectsKey(owner common.Address) string {
	return fmt.Sprintf("user_projects/%s", owner.Hex())
}

func userInvestmentsKey(investor common.Address) string {
	return fmt.Sprintf("user_investments/%s", investor.Hex())
}
