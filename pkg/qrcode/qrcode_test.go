package qrcode_test

import (
	"testing"

	"github.com/flaboy/aira-pay/pkg/qrcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentify(t *testing.T) {
	identifier := &qrcode.DefaultIdentifier{}

	cases := []struct {
		content  string
		platform string
		merchant string
	}{
		{"https://qr.alipay.com/fkx08742abcdef", "alipay", "fkx08742abcdef"},
		{"alipays://platformapi/startapp?appId=20000123", "alipay", "platformapi"},
		{"wxp://f2f0abcdef123456", "wechat", "f2f0abcdef123456"},
		{"https://payapp.weixin.qq.com/qr/xyz?t=1", "wechat", "qr"},
		{"https://qr.95516.com/00010000/62100001", "unionpay", "00010000"},
	}

	for _, c := range cases {
		info, err := identifier.Identify(c.content)
		require.NoError(t, err, c.content)
		assert.Equal(t, c.platform, info.Platform, c.content)
		assert.Equal(t, c.merchant, info.MerchantID, c.content)
	}
}

func TestIdentify_Unrecognized(t *testing.T) {
	identifier := &qrcode.DefaultIdentifier{}

	for _, content := range []string{"", "   ", "https://example.com/pay", "random text"} {
		_, err := identifier.Identify(content)
		assert.Error(t, err, content)
	}
}
