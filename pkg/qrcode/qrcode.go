// Package qrcode 识别扫码内容对应的支付平台与商户信息。
// 核心只依赖PlatformIdentifier接口，宿主系统可注入自己的实现。
package qrcode

import (
	"fmt"
	"strings"
)

type PlatformInfo struct {
	Platform     string `json:"platform"`
	MerchantID   string `json:"merchant_id"`
	MerchantName string `json:"merchant_name"`
	AccountID    string `json:"account_id"`
}

type PlatformIdentifier interface {
	Identify(content string) (*PlatformInfo, error)
}

// DefaultIdentifier 按收款码URL特征识别常见平台
type DefaultIdentifier struct{}

var platformPrefixes = []struct {
	prefix   string
	platform string
}{
	{"https://qr.alipay.com/", "alipay"},
	{"alipays://", "alipay"},
	{"wxp://", "wechat"},
	{"weixin://wxpay/", "wechat"},
	{"https://payapp.weixin.qq.com/", "wechat"},
	{"https://qr.95516.com/", "unionpay"},
	{"upwrp://", "unionpay"},
}

func (d *DefaultIdentifier) Identify(content string) (*PlatformInfo, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty code content")
	}

	for _, p := range platformPrefixes {
		if strings.HasPrefix(content, p.prefix) {
			return &PlatformInfo{
				Platform:   p.platform,
				MerchantID: merchantToken(content, p.prefix),
			}, nil
		}
	}
	return nil, fmt.Errorf("unrecognized code content")
}

// merchantToken 取前缀之后的首段路径作为商户标识
func merchantToken(content, prefix string) string {
	rest := strings.TrimPrefix(content, prefix)
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
