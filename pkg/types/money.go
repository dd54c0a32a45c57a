package types

import "github.com/shopspring/decimal"

var Dec100 = decimal.NewFromInt(100)

// CentsToDecimal 分转为元的十进制表示
func CentsToDecimal(v int64) *decimal.Decimal {
	v2 := decimal.NewFromInt(v).Div(Dec100)
	return &v2
}

// ParseAmountToCents 解析金额字符串（元）为分
func ParseAmountToCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Mul(Dec100).IntPart(), nil
}
