package models

import "github.com/flaboy/aira-pay/pkg/hashid"

var (
	HashIDTypeIntent = hashid.NewType("pi-", "payment-intent", 6)
	HashIDTypeLP     = hashid.NewType("lp-", "liquidity-provider", 6)
)

// EncodeIntentID 编码数据库ID为对外的支付意图HashID
func EncodeIntentID(id uint) string {
	return hashid.Encode(HashIDTypeIntent, id)
}

// DecodeIntentID 解码支付意图HashID获取数据库ID
func DecodeIntentID(hashID string) (uint, error) {
	return hashid.Decode(HashIDTypeIntent, hashID)
}

func EncodeLPID(id uint) string {
	return hashid.Encode(HashIDTypeLP, id)
}

func DecodeLPID(hashID string) (uint, error) {
	return hashid.Decode(HashIDTypeLP, hashID)
}
