package models

import (
	"time"

	"github.com/flaboy/aira-pay/pkg/database"
)

// IntentStatus 支付意图状态，仅允许通过intent包的状态机变更
type IntentStatus string

const (
	IntentStatusCreated       IntentStatus = "created"
	IntentStatusMatched       IntentStatus = "matched"
	IntentStatusLPPaid        IntentStatus = "lp_paid"
	IntentStatusUserConfirmed IntentStatus = "user_confirmed"
	IntentStatusSettled       IntentStatus = "settled"
	IntentStatusCancelled     IntentStatus = "cancelled"
	IntentStatusFailed        IntentStatus = "failed"
)

type PaymentIntent struct {
	ID       uint   `gorm:"primaryKey"`
	Amount   int64  `gorm:"not null"` // 金额（分）
	Currency string `gorm:"size:10;default:'CNY'"`

	Platform          string `gorm:"size:50;index"`
	MerchantID        string `gorm:"size:100"`
	MerchantName      string `gorm:"size:255"`
	MerchantAccountID string `gorm:"size:100"`
	CodeContent       string `gorm:"type:text"` // 原始扫码内容

	Description string `gorm:"size:255"`

	PayerWallet string `gorm:"size:42;index"`
	PayerUserID uint

	// 匹配成功后写入，且只写入一次
	LPID     *uint  `gorm:"index"`
	LPWallet string `gorm:"size:42;index"`

	Status IntentStatus `gorm:"size:20;index"`

	// 结算成功后的链上交易哈希
	SettlementTxHash string `gorm:"size:80"`

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	SettledAt *time.Time
}

func (p *PaymentIntent) TableName() string {
	return "ar_payment_intents"
}

// IsTerminal 终态不允许再发生任何状态变更
func (s IntentStatus) IsTerminal() bool {
	return s == IntentStatusSettled || s == IntentStatusCancelled || s == IntentStatusFailed
}

// IntentStatusChange 状态历史，只追加不修改
type IntentStatusChange struct {
	ID        uint         `gorm:"primaryKey"`
	IntentID  uint         `gorm:"index;not null"`
	Status    IntentStatus `gorm:"size:20"`
	Note      string       `gorm:"size:255"`
	CreatedAt time.Time
}

func (c *IntentStatusChange) TableName() string {
	return "ar_payment_intent_status_changes"
}

func init() {
	database.RegisterAutoMigrateModels(&PaymentIntent{}, &IntentStatusChange{})
}
