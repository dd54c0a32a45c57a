package types

import "regexp"

var walletAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// IsWalletAddress 校验以太坊钱包地址格式
func IsWalletAddress(s string) bool {
	return walletAddressPattern.MatchString(s)
}
