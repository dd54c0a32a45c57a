package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// 事件名称常量，与通知总线对外发布的named event一一对应
const (
	EventNewPaymentIntent       = "new_payment_intent"
	EventPaymentIntentMatched   = "payment_intent_matched"
	EventPaymentIntentLPPaid    = "payment_intent_lp_paid"
	EventPaymentIntentConfirmed = "payment_intent_confirmed"
	EventPaymentIntentCancelled = "payment_intent_cancelled"
	EventSettlementSuccess      = "settlement_success"
	EventSettlementFailed       = "settlement_failed"
)

// NewPaymentIntentEvent 新支付意图进入任务池
type NewPaymentIntentEvent struct {
	IntentID  string           `json:"payment_intent_id"`
	Amount    *decimal.Decimal `json:"amount"`
	Currency  string           `json:"currency"`
	Platform  string           `json:"platform"`
	ExpiresAt time.Time        `json:"expires_at"`
}

func (e *NewPaymentIntentEvent) EventName() string { return EventNewPaymentIntent }

// PaymentIntentMatchedEvent LP接单成功
type PaymentIntentMatchedEvent struct {
	IntentID string `json:"payment_intent_id"`
	Status   string `json:"status"`
	LPWallet string `json:"lp_wallet"`
}

func (e *PaymentIntentMatchedEvent) EventName() string { return EventPaymentIntentMatched }

// PaymentIntentLPPaidEvent LP标记已完成法币代付
type PaymentIntentLPPaidEvent struct {
	IntentID string `json:"payment_intent_id"`
	Status   string `json:"status"`
	LPWallet string `json:"lp_wallet"`
}

func (e *PaymentIntentLPPaidEvent) EventName() string { return EventPaymentIntentLPPaid }

// PaymentIntentConfirmedEvent 用户确认收到服务
type PaymentIntentConfirmedEvent struct {
	IntentID string `json:"payment_intent_id"`
	Status   string `json:"status"`
}

func (e *PaymentIntentConfirmedEvent) EventName() string { return EventPaymentIntentConfirmed }

// PaymentIntentCancelledEvent 支付意图被取消
type PaymentIntentCancelledEvent struct {
	IntentID string `json:"payment_intent_id"`
	Status   string `json:"status"`
}

func (e *PaymentIntentCancelledEvent) EventName() string { return EventPaymentIntentCancelled }

// SettlementSuccessEvent 链上结算成功，携带交易哈希
type SettlementSuccessEvent struct {
	IntentID string `json:"payment_intent_id"`
	TxHash   string `json:"tx_hash"`
}

func (e *SettlementSuccessEvent) EventName() string { return EventSettlementSuccess }

// SettlementFailedEvent 链上结算失败，意图保持user_confirmed等待重新提交
type SettlementFailedEvent struct {
	IntentID string `json:"payment_intent_id"`
	Error    string `json:"error"`
}

func (e *SettlementFailedEvent) EventName() string { return EventSettlementFailed }
