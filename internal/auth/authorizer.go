package auth

import (
	"github.com/ethereum/go-ethereum/common"
)

// StaticAuthorizer 放行所有格式合法的地址，用于开发和演示环境
type StaticAuthorizer struct{}

// Authorize 授权检查
func (StaticAuthorizer) Authorize(principal common.Address) bool {
	return principal != (common.Address{})
}

// SignerAuthorizer 只放行已通过签名验证的地址
type SignerAuthorizer struct {
	signer common.Address
}

// Signer 创建按请求的授权器，principal必须等于已恢复的签名人
func Signer(signer common.Address) SignerAuthorizer {
	return SignerAuthorizer{signer: signer}
}

// Authorize 授权检查
func (a SignerAuthorizer) Authorize(principal common.Address) bool {
	return principal == a.signer
}

// DenyAll 拒绝所有请求，测试未授权路径用
type DenyAll struct{}

// Authorize 授权检查
func (DenyAll) Authorize(principal common.Address) bool {
	return false
}
