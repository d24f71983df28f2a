package auth

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverSigner 从以太坊personal_sign格式的签名中恢复签名人地址。
// message为原始消息字节，sigHex为0x前缀的65字节签名。
func RecoverSigner(message []byte, sigHex string) (common.Address, error) {
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid signature encoding: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length: %d", len(sig))
	}

	// personal_sign的V值为27/28，恢复前归一化
	sigCopy := make([]byte, len(sig))
	copy(sigCopy, sig)
	if sigCopy[crypto.RecoveryIDOffset] >= 27 {
		sigCopy[crypto.RecoveryIDOffset] -= 27
	}

	hash := personalMessageHash(message)
	pubKey, err := crypto.SigToPub(hash.Bytes(), sigCopy)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

// personalMessageHash 按EIP-191 personal message规则计算消息哈希
func personalMessageHash(message []byte) common.Hash {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return crypto.Keccak256Hash([]byte(prefixed))
}
