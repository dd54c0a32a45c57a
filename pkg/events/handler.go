package events

import "github.com/flaboy/aira-pay/pkg/types"

// EventHandler 业务系统的事件处理器，所有方法均为fire-and-forget语义：
// 返回的错误只做记录，不影响触发事件的核心流程
type EventHandler interface {
	OnNewPaymentIntent(event *types.NewPaymentIntentEvent) error
	OnPaymentIntentMatched(event *types.PaymentIntentMatchedEvent) error
	OnPaymentIntentLPPaid(event *types.PaymentIntentLPPaidEvent) error
	OnPaymentIntentConfirmed(event *types.PaymentIntentConfirmedEvent) error
	OnPaymentIntentCancelled(event *types.PaymentIntentCancelledEvent) error
	OnSettlementSuccess(event *types.SettlementSuccessEvent) error
	OnSettlementFailed(event *types.SettlementFailedEvent) error
}

var handler EventHandler

func SetEventHandler(h EventHandler) {
	handler = h
}

func EmitNewPaymentIntent(event *types.NewPaymentIntentEvent) error {
	if handler != nil {
		return handler.OnNewPaymentIntent(event)
	}
	return nil
}

func EmitPaymentIntentMatched(event *types.PaymentIntentMatchedEvent) error {
	if handler != nil {
		return handler.OnPaymentIntentMatched(event)
	}
	return nil
}

func EmitPaymentIntentLPPaid(event *types.PaymentIntentLPPaidEvent) error {
	if handler != nil {
		return handler.OnPaymentIntentLPPaid(event)
	}
	return nil
}

func EmitPaymentIntentConfirmed(event *types.PaymentIntentConfirmedEvent) error {
	if handler != nil {
		return handler.OnPaymentIntentConfirmed(event)
	}
	return nil
}

func EmitPaymentIntentCancelled(event *types.PaymentIntentCancelledEvent) error {
	if handler != nil {
		return handler.OnPaymentIntentCancelled(event)
	}
	return nil
}

func EmitSettlementSuccess(event *types.SettlementSuccessEvent) error {
	if handler != nil {
		return handler.OnSettlementSuccess(event)
	}
	return nil
}

func EmitSettlementFailed(event *types.SettlementFailedEvent) error {
	if handler != nil {
		return handler.OnSettlementFailed(event)
	}
	return nil
}
