package models

import (
	"encoding/json"
	"time"

	"github.com/flaboy/aira-pay/pkg/database"
	"gorm.io/datatypes"
)

type LP struct {
	ID            uint   `gorm:"primaryKey"`
	WalletAddress string `gorm:"size:42;uniqueIndex;not null"`
	Name          string `gorm:"size:255"`
	Email         string `gorm:"size:255"`

	SupportedPlatforms datatypes.JSON `gorm:"type:text"` // 平台标签数组

	IsActive   bool `gorm:"default:true"`
	IsVerified bool `gorm:"default:false"`

	// 额度字段（分）。invariant: QuotaAvailable + QuotaLocked == QuotaTotal
	// 仅允许quota包的账本操作修改，API调用方不得直接赋值
	QuotaTotal          int64 `gorm:"not null"`
	QuotaAvailable      int64 `gorm:"not null"`
	QuotaLocked         int64 `gorm:"not null;default:0"`
	QuotaPerTransaction int64 `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l *LP) TableName() string {
	return "ar_lps"
}

// SupportsPlatform 检查LP是否支持指定支付平台
func (l *LP) SupportsPlatform(platform string) bool {
	var platforms []string
	if err := json.Unmarshal(l.SupportedPlatforms, &platforms); err != nil {
		return false
	}
	for _, p := range platforms {
		if p == platform {
			return true
		}
	}
	return false
}

func init() {
	database.RegisterAutoMigrateModels(&LP{})
}
