package models

import (
	"time"

	"github.com/flaboy/aira-pay/pkg/database"
)

type User struct {
	ID               uint   `gorm:"primaryKey"`
	WalletAddress    string `gorm:"size:42;uniqueIndex;not null"`
	IsWalletVerified bool   `gorm:"default:false"`

	// 交易统计，结算成功后更新
	TransactionCount int64 `gorm:"default:0"`
	TotalAmount      int64 `gorm:"default:0"` // 累计结算金额（分）

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) TableName() string {
	return "ar_users"
}

func init() {
	database.RegisterAutoMigrateModels(&User{})
}
