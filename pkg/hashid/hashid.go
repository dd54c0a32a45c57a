package hashid

import (
	"fmt"
	"strings"

	hashids "github.com/speps/go-hashids/v2"
)

// Type 定义一类公开ID的编码规则：前缀 + 独立salt + 最小长度
type Type struct {
	prefix string
	hash   *hashids.HashID
}

func NewType(prefix, salt string, minLength int) *Type {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = minLength
	h, err := hashids.NewWithData(hd)
	if err != nil {
		panic(err)
	}
	return &Type{prefix: prefix, hash: h}
}

// Encode 编码数据库ID为公开HashID
func Encode(t *Type, id uint) string {
	s, err := t.hash.EncodeInt64([]int64{int64(id)})
	if err != nil {
		return ""
	}
	return t.prefix + s
}

// Decode 解码公开HashID获取数据库ID
func Decode(t *Type, hashID string) (uint, error) {
	raw, ok := strings.CutPrefix(hashID, t.prefix)
	if !ok {
		return 0, fmt.Errorf("invalid hash id prefix: %s", hashID)
	}
	ids, err := t.hash.DecodeInt64WithError(raw)
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 || ids[0] < 0 {
		return 0, fmt.Errorf("invalid hash id: %s", hashID)
	}
	return uint(ids[0]), nil
}
