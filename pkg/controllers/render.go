package controllers

import (
	"encoding/json"
	"time"

	"github.com/flaboy/aira-pay/pkg/models"
	"github.com/flaboy/aira-pay/pkg/types"

	"github.com/shopspring/decimal"
)

// PaymentIntentView 支付意图的对外表示，金额以元为单位
type PaymentIntentView struct {
	PaymentIntentID string           `json:"payment_intent_id"`
	Amount          *decimal.Decimal `json:"amount"`
	Currency        string           `json:"currency"`
	Platform        string           `json:"platform"`
	MerchantID      string           `json:"merchant_id,omitempty"`
	MerchantName    string           `json:"merchant_name,omitempty"`
	Description     string           `json:"description,omitempty"`
	PayerWallet     string           `json:"payer_wallet"`
	LPWallet        string           `json:"lp_wallet,omitempty"`
	Status          string           `json:"status"`
	TxHash          string           `json:"tx_hash,omitempty"`
	ExpiresAt       time.Time        `json:"expires_at"`
	CreatedAt       time.Time        `json:"created_at"`
}

func renderIntent(pi *models.PaymentIntent) *PaymentIntentView {
	return &PaymentIntentView{
		PaymentIntentID: models.EncodeIntentID(pi.ID),
		Amount:          types.CentsToDecimal(pi.Amount),
		Currency:        pi.Currency,
		Platform:        pi.Platform,
		MerchantID:      pi.MerchantID,
		MerchantName:    pi.MerchantName,
		Description:     pi.Description,
		PayerWallet:     pi.PayerWallet,
		LPWallet:        pi.LPWallet,
		Status:          string(pi.Status),
		TxHash:          pi.SettlementTxHash,
		ExpiresAt:       pi.ExpiresAt,
		CreatedAt:       pi.CreatedAt,
	}
}

func renderIntents(items []models.PaymentIntent) []*PaymentIntentView {
	views := make([]*PaymentIntentView, 0, len(items))
	for i := range items {
		views = append(views, renderIntent(&items[i]))
	}
	return views
}

// QuotaView LP额度的对外表示
type QuotaView struct {
	Total          *decimal.Decimal `json:"total"`
	Available      *decimal.Decimal `json:"available"`
	Locked         *decimal.Decimal `json:"locked"`
	PerTransaction *decimal.Decimal `json:"per_transaction"`
}

type LPView struct {
	LPID               string    `json:"lp_id"`
	WalletAddress      string    `json:"wallet_address"`
	Name               string    `json:"name,omitempty"`
	SupportedPlatforms []string  `json:"supported_platforms"`
	IsActive           bool      `json:"is_active"`
	IsVerified         bool      `json:"is_verified"`
	Quota              QuotaView `json:"quota"`
}

func decodePlatforms(lp *models.LP) []string {
	var platforms []string
	if err := json.Unmarshal(lp.SupportedPlatforms, &platforms); err != nil {
		return nil
	}
	return platforms
}

func renderLP(lp *models.LP) *LPView {
	return &LPView{
		LPID:               models.EncodeLPID(lp.ID),
		WalletAddress:      lp.WalletAddress,
		Name:               lp.Name,
		SupportedPlatforms: decodePlatforms(lp),
		IsActive:           lp.IsActive,
		IsVerified:         lp.IsVerified,
		Quota: QuotaView{
			Total:          types.CentsToDecimal(lp.QuotaTotal),
			Available:      types.CentsToDecimal(lp.QuotaAvailable),
			Locked:         types.CentsToDecimal(lp.QuotaLocked),
			PerTransaction: types.CentsToDecimal(lp.QuotaPerTransaction),
		},
	}
}
